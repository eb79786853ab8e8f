// api/router.go
package api

import (
	"github.com/gin-gonic/gin"
)

func NewRouter(storage *Storage) *gin.Engine {
	r := gin.Default()

	apiGroup := r.Group("/api")
	{
		// документы без состояния
		apiGroup.POST("/validate/entity-config", ValidateEntityConfigHandler())
		apiGroup.POST("/validate/app-config", ValidateAppConfigHandler(storage))
		apiGroup.POST("/resolve-type", ResolveTypeHandler())
		apiGroup.POST("/entity-config/suggest-types", SuggestTypesHandler())
		apiGroup.POST("/entity-config/ddl", DDLPreviewHandler(storage))
		apiGroup.POST("/entity-config/ddl/apply", DDLApplyHandler(storage))

		apiGroup.GET("/meta/types", MetaTypesHandler())
		apiGroup.GET("/meta/enums", MetaEnumsHandler(storage))
		apiGroup.GET("/meta/enums/:name", MetaEnumHandler(storage))
		apiGroup.POST("/admin/reload", AdminReloadHandler(storage))

		// черновики
		apiGroup.POST("/drafts", CreateDraftHandler(storage))
		apiGroup.GET("/drafts", ListDraftsHandler(storage))
		apiGroup.GET("/drafts/:id", GetDraftHandler(storage))
		apiGroup.PUT("/drafts/:id", UpdateDraftHandler(storage))
		apiGroup.DELETE("/drafts/:id", DeleteDraftHandler(storage))
		apiGroup.GET("/drafts/:id/validation", DraftValidationHandler(storage))

		// архивы генерации (локально)
		apiGroup.GET("/archives", ListArchivesHandler(storage))
		apiGroup.GET("/archives/:id", DownloadArchiveHandler(storage))
		apiGroup.DELETE("/archives/:id", DeleteArchiveHandler(storage))

		// всё, что ходит на платформу
		remote := apiGroup.Group("", requirePlatform(storage))
		remote.POST("/auth/login", LoginHandler(storage))
		remote.POST("/auth/logout", LogoutHandler(storage))
		remote.GET("/auth/me", MeHandler(storage))
		remote.GET("/projects", ProjectsHandler(storage))
		remote.GET("/projects/:projectId/saves", ProjectSavesHandler(storage))
		remote.POST("/drafts/:id/publish", PublishDraftHandler(storage))
		remote.GET("/generate/:saveId/stream", GenerateStreamHandler(storage))
	}

	return r
}

func RunServer(addr string, storage *Storage) error {
	return NewRouter(storage).Run(addr)
}
