package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"jarch/internal/appconfig"
	"jarch/internal/entityconfig"
)

// Save — именованный снимок пары документов (app-config + entity-config) в проекте.
type Save struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SaveConfig — оба документа сохранения.
type SaveConfig struct {
	EntityConfig json.RawMessage `json:"entityConfig"`
	AppConfig    json.RawMessage `json:"appConfig"`
}

// Decode разбирает оба документа.
func (sc SaveConfig) Decode() (entityconfig.Document, appconfig.Document, error) {
	var ent entityconfig.Document
	var app appconfig.Document
	if len(sc.EntityConfig) > 0 {
		if err := json.Unmarshal(sc.EntityConfig, &ent); err != nil {
			return ent, app, fmt.Errorf("entityConfig: %w", err)
		}
	}
	if len(sc.AppConfig) > 0 {
		if err := json.Unmarshal(sc.AppConfig, &app); err != nil {
			return ent, app, fmt.Errorf("appConfig: %w", err)
		}
	}
	return ent, app, nil
}

const (
	EntityConfigFile = "entity-config.json"
	AppConfigFile    = "app-config.json"
)

type formFile struct {
	field, file string
	data        []byte
}

func savePath(prefix string, id int64) string {
	return prefix + strconv.FormatInt(id, 10)
}

func (c *Client) Saves(ctx context.Context, projectID int64) ([]Save, error) {
	var out []Save
	if err := c.doJSON(ctx, http.MethodGet, savePath("/project-saves/get-all/", projectID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Save(ctx context.Context, saveID int64) (*Save, error) {
	var out Save
	if err := c.doJSON(ctx, http.MethodGet, savePath("/project-saves/get/", saveID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SaveConfig(ctx context.Context, saveID int64) (*SaveConfig, error) {
	var out SaveConfig
	if err := c.doJSON(ctx, http.MethodGet, savePath("/project-saves/config/", saveID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSave выделяет новое сохранение. Ответ сервера может быть пустым — тогда Save == nil.
func (c *Client) CreateSave(ctx context.Context, projectID int64, name string, ent entityconfig.Document, app appconfig.Document) (*Save, error) {
	fields := map[string]string{"saveName": name, "projectId": strconv.FormatInt(projectID, 10)}
	return c.sendSave(ctx, http.MethodPost, "/project-saves/save", fields, ent, app)
}

// UpdateSave перезаписывает оба документа и имя сохранения.
func (c *Client) UpdateSave(ctx context.Context, saveID int64, name string, ent entityconfig.Document, app appconfig.Document) (*Save, error) {
	return c.sendSave(ctx, http.MethodPut, savePath("/project-saves/update/", saveID), map[string]string{"saveName": name}, ent, app)
}

func (c *Client) DeleteSave(ctx context.Context, saveID int64) error {
	return c.doJSON(ctx, http.MethodDelete, savePath("/project-saves/delete/", saveID), nil, nil, nil)
}

// DownloadEntityConfig пишет entity-config сохранения в w.
func (c *Client) DownloadEntityConfig(ctx context.Context, saveID int64, w io.Writer) (int64, error) {
	return c.download(ctx, savePath("/project-saves/download-entity/", saveID), w)
}

func (c *Client) DownloadAppConfig(ctx context.Context, saveID int64, w io.Writer) (int64, error) {
	return c.download(ctx, savePath("/project-saves/download-app/", saveID), w)
}

func (c *Client) sendSave(ctx context.Context, method, path string, fields map[string]string, ent entityconfig.Document, app appconfig.Document) (*Save, error) {
	if ent.Entities == nil {
		ent.Entities = []entityconfig.Entity{}
	}
	entJSON, err := json.MarshalIndent(ent, "", "  ")
	if err != nil {
		return nil, err
	}
	appJSON, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	// порядок полей как у консоли: имя, проект, файлы
	for _, k := range []string{"saveName", "projectId"} {
		if v, ok := fields[k]; ok {
			if err := mw.WriteField(k, v); err != nil {
				return nil, err
			}
		}
	}
	for _, part := range []formFile{
		{"entityConfig", EntityConfigFile, entJSON},
		{"appConfig", AppConfigFile, appJSON},
	} {
		fw, err := mw.CreateFormFile(part.field, part.file)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, method, path, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var text string
	if err := c.do(req, &text); err != nil {
		return nil, err
	}
	var s Save
	if text == "" || json.Unmarshal([]byte(text), &s) != nil || s.ID == 0 {
		return nil, nil
	}
	return &s, nil
}

func (c *Client) download(ctx context.Context, path string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return 0, &APIError{Status: resp.StatusCode, Body: string(b)}
	}
	return io.Copy(w, resp.Body)
}
