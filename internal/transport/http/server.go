package http

import (
	"github.com/gin-gonic/gin"

	"docmind/internal/bootstrap"
	"docmind/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.GET("/healthz", healthHandler.Check)

	documentHandler := handler.NewDocumentHandler(app.Ingest, app.Config.Ingest.MaxUploadBytes)
	queryHandler := handler.NewQueryHandler(app.Query)

	v1 := router.Group("/api/v1")
	docGroup := v1.Group("/documents")
	docGroup.POST("/upload", documentHandler.Upload)
	docGroup.GET("", documentHandler.List)
	docGroup.DELETE("/:id", documentHandler.Delete)
	docGroup.POST("/reset", documentHandler.Reset)

	v1.POST("/query", queryHandler.Query)

	return router
}
