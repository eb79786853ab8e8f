package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Project — проект на стороне платформы. Даты приходят строкой (LocalDateTime без зоны).
type Project struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	Version     *int64 `json:"version,omitempty"`
}

type NewProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) CreateProject(ctx context.Context, p NewProject) error {
	return c.doJSON(ctx, http.MethodPost, "/project/save", nil, p, nil)
}

// ListProjects — проекты, где текущий пользователь владелец.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.doJSON(ctx, http.MethodGet, "/project/all", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JoinedProjects — проекты, куда пользователя добавили в команду.
func (c *Client) JoinedProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.doJSON(ctx, http.MethodGet, "/project/joined", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ProjectByName(ctx context.Context, name string) (*Project, error) {
	var out Project
	if err := c.doJSON(ctx, http.MethodGet, "/project", url.Values{"projectName": {name}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func projectQuery(projectID int64) url.Values {
	return url.Values{"projectId": {strconv.FormatInt(projectID, 10)}}
}
