package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/sysmod-go/api/handlers"
	"github.com/yourusername/sysmod-go/api/middleware"
	"github.com/yourusername/sysmod-go/internal/app"
)

// SetupRouter sets up the HTTP router for the subject intake API
func SetupRouter(svc *app.SubjectService, log *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(svc)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		subjectHandler := handlers.NewSubjectHandler(svc, log)
		subjects := v1.Group("/subjects")
		{
			subjects.POST("/module", subjectHandler.AddModule)
			subjects.POST("/update", subjectHandler.AddUpdate)
			subjects.POST("/test", subjectHandler.AddTest)
			subjects.POST("/claim", subjectHandler.ClaimSubject)
			subjects.GET("", subjectHandler.ListSubjects)
			subjects.GET("/stats", subjectHandler.GetStats)
			subjects.GET("/:id", subjectHandler.GetSubject)
		}
	}

	return router
}
