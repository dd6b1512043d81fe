package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "docintel/docs"
	"docintel/internal/handler"
	"docintel/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Upload *handler.UploadHandler
	Search *handler.SearchHandler
	Result *handler.ResultHandler
	Health *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, allowedOrigins []string, log *slog.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	v1.POST("/upload", h.Upload.Upload)
	v1.POST("/search", h.Search.Search)
	v1.GET("/indexes", h.Search.Indexes)

	results := v1.Group("/results")
	results.GET("", h.Result.List)
	results.GET("/export", h.Result.Export)
	results.GET("/:filename", h.Result.GetByFilename)

	return r
}
