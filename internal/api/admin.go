package api

import (
	"net/http"
	"strings"

	"jarch/internal/reference"

	"github.com/gin-gonic/gin"
)

type reloadReq struct {
	EnumsRoot string `json:"enums_root"` // директория с переопределениями справочников
}

// POST /api/admin/reload — перечитать справочники; пустой enums_root — тот же каталог, что при старте.
func AdminReloadHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reloadReq
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
				return
			}
		}

		enumsRoot := strings.TrimSpace(req.EnumsRoot)
		if enumsRoot == "" {
			storage.mu.RLock()
			enumsRoot = storage.EnumsDir
			storage.mu.RUnlock()
		}

		// 1) читаем справочники (встроенные + каталог)
		newEnums, err := reference.Load(enumsRoot)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Enum load error", "details": err.Error()})
			return
		}

		// 2) линтер до замены
		if issues := CatalogLint(newEnums); len(issues) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "catalog has blocking issues",
				"issues":    issues,
				"hint":      "fix enum files and retry",
				"enumsRoot": enumsRoot,
			})
			return
		}

		// 3) атомарная замена под write-lock
		storage.mu.Lock()
		storage.Enums = newEnums
		storage.EnumsDir = enumsRoot
		storage.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{
			"ok":         true,
			"enumsRoot":  enumsRoot,
			"enumGroups": len(newEnums),
		})
	}
}
