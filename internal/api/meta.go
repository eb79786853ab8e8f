package api

import (
	"net/http"
	"sort"

	"jarch/internal/entityconfig"

	"github.com/gin-gonic/gin"
)

// ===== META HANDLERS =====

type metaEnumListItem struct {
	Name  string `json:"name"`
	Items int    `json:"items"`
}

// GET /api/meta/enums
func MetaEnumsHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat := storage.catalog()
		out := make([]metaEnumListItem, 0, len(cat))
		for name, dir := range cat {
			out = append(out, metaEnumListItem{Name: name, Items: len(dir.Items)})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		c.JSON(http.StatusOK, out)
	}
}

// GET /api/meta/enums/:name — имя без учёта регистра
func MetaEnumHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		name, ok := storage.NormalizeEnumName(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Catalog not found"})
			return
		}
		cat := storage.catalog()
		c.JSON(http.StatusOK, gin.H{
			"name":  name,
			"codes": cat.Codes(name),
			"items": cat[name].Items,
		})
	}
}

// GET /api/meta/types — грамматика типов, которую понимает валидатор
func MetaTypesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"basic":         entityconfig.BasicTypes(),
			"containers":    entityconfig.ContainerTypes(),
			"relationTypes": entityconfig.RelationTypes,
			"fetchTypes":    entityconfig.FetchTypes,
			"cascadeTypes":  entityconfig.CascadeTypes,
		})
	}
}
