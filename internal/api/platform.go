package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login — токен остаётся в сессии сервера (один пользователь консоли).
func LoginHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginReq
		if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email и password обязательны"})
			return
		}
		if _, err := storage.Platform.Login(c.Request.Context(), req.Email, req.Password); err != nil {
			platformError(c, err)
			return
		}
		c.JSON(http.StatusOK, whoami(storage))
	}
}

// POST /api/auth/logout
func LogoutHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := storage.Platform.Logout(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GET /api/auth/me
func MeHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, whoami(storage))
	}
}

func whoami(storage *Storage) gin.H {
	s := storage.Platform.Session()
	return gin.H{"authenticated": s.IsAuthenticated(), "username": s.Username()}
}

// GET /api/projects — свои и те, куда добавили
func ProjectsHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		own, err := storage.Platform.ListProjects(ctx)
		if err != nil {
			platformError(c, err)
			return
		}
		joined, err := storage.Platform.JoinedProjects(ctx)
		if err != nil {
			platformError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"own": own, "joined": joined})
	}
}

// GET /api/projects/:projectId/saves
func ProjectSavesHandler(storage *Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramInt64(c, "projectId")
		if !ok {
			return
		}
		saves, err := storage.Platform.Saves(c.Request.Context(), id)
		if err != nil {
			platformError(c, err)
			return
		}
		c.JSON(http.StatusOK, saves)
	}
}
