package client

import (
	"context"
	"net/http"
)

type TeamMember struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
}

func (c *Client) AddMember(ctx context.Context, projectID int64, username string) error {
	return c.doJSON(ctx, http.MethodPost, "/team", projectQuery(projectID), TeamMember{Username: username}, nil)
}

func (c *Client) Members(ctx context.Context, projectID int64) ([]TeamMember, error) {
	var out []TeamMember
	if err := c.doJSON(ctx, http.MethodGet, "/team", projectQuery(projectID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RemoveMember(ctx context.Context, projectID int64, username string) error {
	q := projectQuery(projectID)
	q.Set("teamMember", username)
	return c.doJSON(ctx, http.MethodDelete, "/team", q, nil, nil)
}
