package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jarch/internal/appconfig"
	"jarch/internal/client"
	"jarch/internal/entityconfig"

	"github.com/gin-gonic/gin"
)

type draftReq struct {
	Name         string                 `json:"name"`
	ProjectID    int64                  `json:"projectId"`
	EntityConfig *entityconfig.Document `json:"entityConfig"`
	AppConfig    *appconfig.Document    `json:"appConfig"`
	Version      *int64                 `json:"version"`
}

// POST /api/drafts
func CreateDraftHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req draftReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		name := strings.TrimSpace(req.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{ferr(CodeRequired, "name", "Имя сохранения обязательно")}})
			return
		}

		// пустой черновик открывается так же, как в редакторе: без сущностей, app-config по умолчанию
		d := Draft{
			Name:         name,
			ProjectID:    req.ProjectID,
			EntityConfig: entityconfig.Document{Entities: []entityconfig.Entity{}},
			AppConfig:    appconfig.Default(),
		}
		if req.EntityConfig != nil {
			d.EntityConfig = *req.EntityConfig
		}
		if req.AppConfig != nil {
			d.AppConfig = *req.AppConfig
		}

		out := storage.CreateDraft(d)
		setETag(c, out)
		c.JSON(http.StatusCreated, out)
	}
}

// GET /api/drafts
func ListDraftsHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		lp := parseListParams(c.Request.URL.Query())

		filtered := filterDrafts(storage.ListDrafts(), lp)
		sortDrafts(filtered, lp.Sort)

		c.Header("X-Total-Count", strconv.Itoa(len(filtered)))
		c.JSON(http.StatusOK, page(filtered, lp.Offset, lp.Limit))
	}
}

// GET /api/drafts/:id
func GetDraftHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := storage.GetDraft(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		setETag(c, d)
		c.JSON(http.StatusOK, d)
	}
}

// PUT /api/drafts/:id
// Заменяет переданные части; отсутствующие entityConfig/appConfig остаются прежними.
func UpdateDraftHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var req draftReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}

		cur, err := storage.GetDraft(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		expVer, okExp := readExpectedVersion(c, req.Version)
		if !okExp {
			versionConflict(c, cur.Version)
			return
		}

		out, err := storage.UpdateDraft(id, expVer, func(d *Draft) {
			if name := strings.TrimSpace(req.Name); name != "" {
				d.Name = name
			}
			if req.ProjectID != 0 {
				d.ProjectID = req.ProjectID
			}
			if req.EntityConfig != nil {
				d.EntityConfig = *req.EntityConfig
			}
			if req.AppConfig != nil {
				d.AppConfig = *req.AppConfig
			}
		})
		switch {
		case errors.Is(err, ErrDraftNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		case errors.Is(err, ErrVersionConflict):
			versionConflict(c, out.Version)
			return
		}
		setETag(c, out)
		c.JSON(http.StatusOK, out)
	}
}

// DELETE /api/drafts/:id
func DeleteDraftHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := storage.DeleteDraft(c.Param("id")); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type draftValidation struct {
	entityErrs []string
	appErrs    []string
}

func (v draftValidation) ok() bool { return len(v.entityErrs) == 0 && len(v.appErrs) == 0 }

func validateDraft(storage *Storage, d *Draft) draftValidation {
	return draftValidation{
		entityErrs: entityconfig.Validate(d.EntityConfig),
		appErrs:    appconfig.Validate(d.AppConfig, storage.catalog()),
	}
}

func (v draftValidation) body() gin.H {
	return gin.H{
		"valid":        v.ok(),
		"entityConfig": validationBody(v.entityErrs),
		"appConfig":    validationBody(v.appErrs),
	}
}

// GET /api/drafts/:id/validation
func DraftValidationHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := storage.GetDraft(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		c.JSON(http.StatusOK, validateDraft(storage, d).body())
	}
}

// POST /api/drafts/:id/publish
// Пока документы невалидны, сохранение на платформу заблокировано (422).
// Первая публикация создаёт сохранение, последующие — обновляют его.
func PublishDraftHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		d, err := storage.GetDraft(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		if v := validateDraft(storage, d); !v.ok() {
			c.JSON(http.StatusUnprocessableEntity, v.body())
			return
		}
		if d.SaveID == 0 && d.ProjectID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{ferr(CodeRequired, "projectId", "Выберите проект")}})
			return
		}

		ctx := c.Request.Context()
		saveID := d.SaveID
		if saveID == 0 {
			saved, err := storage.Platform.CreateSave(ctx, d.ProjectID, d.Name, d.EntityConfig, d.AppConfig)
			if err != nil {
				platformError(c, err)
				return
			}
			if saved == nil {
				// платформа не вернула тело — ищем сохранение по имени
				saved, err = findSave(c, storage.Platform, d.ProjectID, d.Name)
				if err != nil {
					platformError(c, err)
					return
				}
			}
			if saved == nil || saved.ID == 0 {
				c.JSON(http.StatusBadGateway, gin.H{"error": "platform did not return save id"})
				return
			}
			saveID = saved.ID
		} else if _, err := storage.Platform.UpdateSave(ctx, saveID, d.Name, d.EntityConfig, d.AppConfig); err != nil {
			platformError(c, err)
			return
		}

		out, err := storage.SetSaveID(id, saveID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
			return
		}
		if out.Version != d.Version+1 {
			// черновик изменили во время публикации: на платформе старое содержимое
			setETag(c, out)
			versionConflict(c, out.Version)
			return
		}
		setETag(c, out)
		c.JSON(http.StatusOK, out)
	}
}

func findSave(c *gin.Context, p *client.Client, projectID int64, name string) (*client.Save, error) {
	saves, err := p.Saves(c.Request.Context(), projectID)
	if err != nil {
		return nil, err
	}
	// последнее с таким именем — только что созданное
	for i := len(saves) - 1; i >= 0; i-- {
		if saves[i].Name == name {
			return &saves[i], nil
		}
	}
	return nil, nil
}
