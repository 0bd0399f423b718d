package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kasperversteeg/kade-shifts/config"
	"github.com/Kasperversteeg/kade-shifts/internal/api/handler"
	"github.com/Kasperversteeg/kade-shifts/internal/api/middleware"
	"github.com/Kasperversteeg/kade-shifts/internal/model"
	"github.com/Kasperversteeg/kade-shifts/pkg/jwt"
	"github.com/Kasperversteeg/kade-shifts/pkg/redis"
)

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1 MB

	// ── health check ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Credential endpoints get a tighter rate limit than the rest of
	// the API.
	authLimit := middleware.RateLimit(rdb, 10, time.Minute)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// authentication (no token required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authLimit, h.Auth.Login)
			auth.POST("/refresh", authLimit, h.Auth.RefreshToken)
			auth.GET("/google", h.Auth.GoogleAuthURL)
			auth.GET("/google/callback", authLimit, h.Auth.GoogleCallback)
		}

		// invitation signup (no token required; the token in the URL
		// is the credential)
		invitations := v1.Group("/invitations")
		{
			invitations.GET("/:token", h.Invitation.Validate)
			invitations.POST("/:token/accept", authLimit, h.Invitation.Accept)
		}

		// authenticated routes
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			authorized.GET("/me", h.User.Me)
			authorized.PUT("/me/preferences", h.User.UpdatePreferences)

			// own shift entries
			entries := authorized.Group("/time-entries")
			{
				entries.GET("", h.TimeEntry.ListMonth)
				entries.POST("", h.TimeEntry.Create)
				entries.PUT("/:id", h.TimeEntry.Update)
				entries.DELETE("/:id", h.TimeEntry.Delete)
				entries.GET("/export/csv", h.TimeEntry.ExportCSV)
				entries.GET("/export/ics", h.TimeEntry.ExportICS)
			}

			// admin reporting and invitations
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				admin.GET("/overview", h.Report.Overview)
				admin.GET("/users/:id", h.Report.UserDetail)
				admin.POST("/send-report", h.Report.SendReport)
				admin.GET("/export/csv", h.Report.ExportCSV)
				admin.GET("/export/xlsx", h.Report.ExportXLSX)
				admin.GET("/export/pdf", h.Report.ExportPDF)

				admin.GET("/invitations", h.Invitation.List)
				admin.POST("/invitations", h.Invitation.Create)
			}
		}
	}

	return r
}
