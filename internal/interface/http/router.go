package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nuvia/nutrition-advisor/internal/domain/adminauth"
	"github.com/nuvia/nutrition-advisor/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, admin *AdminHandler, authSvc adminauth.Service, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		corsMiddleware(nil),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.POST("/recommendations", handler.Recommend)
		api.POST("/reports", handler.UploadReport)
	}

	adminAPI := api.Group("/admin")
	adminAPI.POST("/login", admin.Login)

	protected := adminAPI.Group("")
	protected.Use(operatorAuthMiddleware(authSvc))
	{
		protected.POST("/configs", admin.CreateConfig)
		protected.POST("/configs/rollback", admin.RollbackConfig)
		protected.POST("/configs/:id/approve", admin.ApproveConfig)
		protected.POST("/configs/:id/deploy", admin.DeployConfig)
		protected.POST("/configs/:id/activate", admin.ActivateConfig)
		protected.GET("/configs/active", admin.ActiveConfig)
		protected.GET("/configs/history", admin.ConfigHistory)
		protected.GET("/configs/audit", admin.ConfigAuditLogsByType)
		protected.GET("/configs/:id/audit", admin.ConfigAuditLogs)

		protected.GET("/reviews", admin.ListReviews)
		protected.GET("/reviews/stats", admin.ReviewStats)
		protected.GET("/reviews/:id", admin.GetReview)
		protected.POST("/reviews/:id/approve", admin.ApproveReview)
		protected.POST("/reviews/:id/reject", admin.RejectReview)
		protected.POST("/reviews/:id/assign", admin.AssignReview)
		protected.POST("/reviews/:id/unassign", admin.UnassignReview)

		protected.GET("/commerce/bindings", admin.ListBindings)
		protected.PUT("/commerce/bindings/:recKey", admin.UpsertBinding)
		protected.DELETE("/commerce/bindings/:recKey", admin.DeleteBinding)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
