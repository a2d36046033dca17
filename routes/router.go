package routes

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/labcollective/memberhub/config"
	"github.com/labcollective/memberhub/internal/announcement"
	"github.com/labcollective/memberhub/internal/auth"
	"github.com/labcollective/memberhub/internal/event"
	"github.com/labcollective/memberhub/internal/feed"
	"github.com/labcollective/memberhub/internal/member"
	"github.com/labcollective/memberhub/internal/memberskill"
	"github.com/labcollective/memberhub/internal/middleware"
	"github.com/labcollective/memberhub/internal/resource"
	"github.com/labcollective/memberhub/internal/skill"
	"github.com/labcollective/memberhub/internal/upload"
	"github.com/labcollective/memberhub/pkg/rmiddleware"
	"github.com/labcollective/memberhub/utils"
)

// SetupRoutes builds the HTTP engine. source is nil when Google Calendar is not configured.
func SetupRoutes(db *gorm.DB, cfg *config.Config, store upload.Store, source event.CalendarSource, registry *prometheus.Registry, logger *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.NewHTTPMetrics(registry).Handler())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{strings.TrimRight(cfg.App.FrontendURL, "/")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	if cfg.Storage.Backend == config.StorageLocal {
		r.Static(upload.PublicPrefix, cfg.Storage.UploadDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	hasher := utils.NewBcryptHasher(cfg.Auth.BcryptCost)
	api := r.Group("/api")
	authed := api.Group("", middleware.AuthMiddleware(cfg.JWT.Secret, db))
	admin := authed.Group("/admin", rmiddleware.AdminMiddleware())

	auth.RegisterAuthRoutes(api, db, cfg, hasher)
	member.RegisterMemberRoutes(authed, admin, db, hasher)
	skill.RegisterSkillRoutes(authed, admin, db)
	memberskill.RegisterMemberSkillRoutes(authed, admin, db)
	event.RegisterEventRoutes(api, authed, admin, db, cfg, source)
	announcement.RegisterAnnouncementRoutes(authed, admin, db)
	feed.RegisterFeedRoutes(authed, db)
	resource.RegisterResourceRoutes(authed, admin, db)
	upload.RegisterUploadRoutes(admin, store, cfg.Storage.MaxUploadMB, registry)

	return r
}
