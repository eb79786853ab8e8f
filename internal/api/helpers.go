package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"jarch/internal/client"

	"github.com/gin-gonic/gin"
)

type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Коды ошибок
const (
	CodeRequired        = "required"
	CodeNotFound        = "not_found"
	CodeVersionConflict = "version_conflict"
	CodeInvalidDocument = "invalid_document"
)

func ferr(code, field, msg string) FieldError {
	return FieldError{Code: code, Field: field, Message: msg}
}

// validationBody — общий ответ проверок: errors всегда массив, не null.
func validationBody(errs []string) gin.H {
	if errs == nil {
		errs = []string{}
	}
	return gin.H{"valid": len(errs) == 0, "errors": errs}
}

func setETag(c *gin.Context, d *Draft) {
	c.Header("ETag", fmt.Sprintf(`"%d"`, d.Version))
}

func versionConflict(c *gin.Context, cur int64) {
	c.JSON(http.StatusConflict, gin.H{
		"errors": []FieldError{ferr(CodeVersionConflict, "version",
			fmt.Sprintf("expected version %d", cur))},
	})
}

// readExpectedVersion: If-Match ("3", W/"3") или поле version из тела.
func readExpectedVersion(c *gin.Context, bodyVersion *int64) (int64, bool) {
	ifMatch := strings.TrimSpace(c.GetHeader("If-Match"))
	if ifMatch != "" {
		ifMatch = strings.TrimPrefix(ifMatch, "W/")
		ifMatch = strings.Trim(ifMatch, `"'`)
		if v, err := strconv.ParseInt(ifMatch, 10, 64); err == nil {
			return v, true
		}
	}
	if bodyVersion != nil {
		return *bodyVersion, true
	}
	return 0, false
}

// platformError переводит ошибку клиента платформы в ответ.
// Ответ платформы отдаём с её кодом, сетевые ошибки — 502.
func platformError(c *gin.Context, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется вход"})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Error()})
	default:
		log.Printf("platform: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "platform unavailable", "details": err.Error()})
	}
}

// requirePlatform — 503, если клиент платформы не сконфигурирован.
func requirePlatform(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if storage.Platform == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "platform client not configured"})
			return
		}
		c.Next()
	}
}

func paramInt64(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || v <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{ferr(CodeRequired, name, "positive integer expected")}})
		return 0, false
	}
	return v, true
}
