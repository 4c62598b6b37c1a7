package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/abduss/pressroom/internal/announcement"
	"github.com/abduss/pressroom/internal/attachment"
	"github.com/abduss/pressroom/internal/auth"
	"github.com/abduss/pressroom/internal/config"
	"github.com/abduss/pressroom/internal/logger"
	"github.com/abduss/pressroom/internal/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config        config.Config
	Logger        *zap.Logger
	ContentStore  Pinger
	ObjectStore   Pinger
	Verifier      auth.Verifier
	Announcements *announcement.Service
	Attachments   *attachment.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.Middleware())
	router.Use(logger.RequestLogger(log))
	router.Use(metrics.Middleware())
	router.Use(cors.New(corsConfig(deps.Config.CORS)))

	registerHealthRoutes(router, deps)
	metrics.Register(router, metricsPath(deps.Config))

	if deps.Verifier != nil {
		limit := auth.RateLimit(deps.Config.Auth.VerifyRatePerMinute, deps.Config.Auth.VerifyBurst)
		auth.RegisterRoutes(router, deps.Verifier, limit)
	}
	if deps.Announcements != nil {
		announcement.RegisterRoutes(router, deps.Announcements, deps.Config.Cache.TTL, log)
	}
	if deps.Attachments != nil {
		attachment.RegisterRoutes(router, deps.Attachments, log)
	}

	return router
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 0 || slices.Contains(cfg.AllowedOrigins, "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", logger.CorrelationIDHeader}
	corsCfg.ExposeHeaders = []string{logger.CorrelationIDHeader}
	return corsCfg
}

func metricsPath(cfg config.Config) string {
	if cfg.Metrics.PrometheusPath == "" {
		return "/metrics"
	}
	return cfg.Metrics.PrometheusPath
}
