package api

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"jarch/internal/appconfig"
	"jarch/internal/entityconfig"
	"jarch/internal/pg"

	"github.com/gin-gonic/gin"
)

// POST /api/validate/entity-config
// Любой разобранный JSON — 200 и список ошибок; битый JSON — 400.
func ValidateEntityConfigHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc entityconfig.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		c.JSON(http.StatusOK, validationBody(entityconfig.Validate(doc)))
	}
}

// POST /api/validate/app-config
func ValidateAppConfigHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc appconfig.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		c.JSON(http.StatusOK, validationBody(appconfig.Validate(doc, storage.catalog())))
	}
}

type resolveReq struct {
	Type        string   `json:"type"`
	HasRelation bool     `json:"hasRelation"`
	Entities    []string `json:"entities"`
}

// POST /api/resolve-type
func ResolveTypeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resolveReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		known := make([]string, 0, len(req.Entities))
		for _, e := range req.Entities {
			if e = strings.TrimSpace(e); e != "" {
				known = append(known, e)
			}
		}
		rt := entityconfig.ResolveType(req.Type, req.HasRelation, known)
		c.JSON(http.StatusOK, gin.H{"valid": rt.Valid(), "type": rt})
	}
}

// POST /api/entity-config/suggest-types?relation=true
func SuggestTypesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc entityconfig.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		rel := c.Query("relation") == "true" || c.Query("relation") == "1"
		c.JSON(http.StatusOK, gin.H{"types": entityconfig.SuggestTypes(doc, rel)})
	}
}

func schemaParam(c *gin.Context, storage *Storage) string {
	if s := strings.TrimSpace(c.Query("schema")); s != "" {
		return s
	}
	return storage.Schema
}

// ddlFor — превью DDL или ответ с ошибкой (ok=false).
func ddlFor(c *gin.Context, doc entityconfig.Document, schema string) (map[string]string, bool) {
	ddl, err := pg.GenerateDDL(doc, schema)
	if err == nil {
		return ddl, true
	}
	if errors.Is(err, pg.ErrInvalidDocument) {
		c.JSON(http.StatusUnprocessableEntity, validationBody(entityconfig.Validate(doc)))
		return nil, false
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": []FieldError{ferr(CodeInvalidDocument, "entityConfig", err.Error())}})
	return nil, false
}

// POST /api/entity-config/ddl?schema=
func DDLPreviewHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var doc entityconfig.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		schema := schemaParam(c, storage)
		ddl, ok := ddlFor(c, doc, schema)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"schema": schema, "statements": ddl})
	}
}

// POST /api/entity-config/ddl/apply?schema=
func DDLApplyHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if storage.DB == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database not configured"})
			return
		}
		var doc entityconfig.Document
		if err := c.ShouldBindJSON(&doc); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
			return
		}
		schema := schemaParam(c, storage)
		ddl, ok := ddlFor(c, doc, schema)
		if !ok {
			return
		}
		res, err := pg.ApplyDDL(c.Request.Context(), storage.DB, ddl)
		if err != nil {
			log.Printf("ddl apply (%s): %v", schema, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DDL apply failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "schema": schema, "applied": res.Applied, "skipped": res.Skipped})
	}
}
