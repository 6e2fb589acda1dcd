package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/rgtools/partner-admin/docs"
	"github.com/rgtools/partner-admin/internal/api/handler"
	"github.com/rgtools/partner-admin/internal/api/middleware"
	"github.com/rgtools/partner-admin/internal/core/domain"
	"github.com/rgtools/partner-admin/internal/core/ports"
)

const (
	loginBurst        = 5
	loginLimiterTTL   = 3 * time.Minute
	metricsSubsystem  = "partner_admin"
	defaultLoginLimit = 1
)

// Dependencies are the services the router exposes over HTTP.
type Dependencies struct {
	Log      zerolog.Logger
	Tokens   ports.TokenVerifier
	Auth     ports.AuthService
	Partners ports.PartnerService
	Toplists ports.ToplistService
	Domains  ports.DomainService

	// HealthChecks are probed by GET /health/ready.
	HealthChecks map[string]handler.DependencyCheck
	// LoginRatePerSec bounds login attempts per client IP. Zero means 1/s.
	LoginRatePerSec float64
	// Metrics overrides the Prometheus registry. Nil uses the default one.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	registerMetrics(e, deps.Metrics)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	partnerHandler := handler.NewPartnerHandler(deps.Partners)
	toplistHandler := handler.NewToplistHandler(deps.Toplists)
	domainHandler := handler.NewDomainHandler(deps.Domains)
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)

	adminOnly := middleware.Require(deps.Tokens, domain.RoleAdmin)
	partnerOnly := middleware.Require(deps.Tokens, domain.RolePartner)

	// --- Auth routes ---
	e.POST("/admin/api/login", authHandler.Login, loginLimiter(deps.LoginRatePerSec))

	// --- Admin routes ---
	admin := e.Group("/admin/api", adminOnly...)
	admin.POST("/partners", partnerHandler.Create)
	admin.GET("/partners", partnerHandler.List)
	admin.POST("/partners/:id/validate-dns", partnerHandler.ValidateDNS)
	admin.POST("/domains", domainHandler.Create)
	admin.GET("/domains", domainHandler.List)

	domains := e.Group("/api/domains", adminOnly...)
	domains.PUT("/:id", domainHandler.Update)
	domains.DELETE("/:id", domainHandler.Delete)

	// --- Partner routes ---
	partner := e.Group("/partner", partnerOnly...)
	partner.POST("/toplists", toplistHandler.Create)
	partner.GET("/toplists", toplistHandler.List)
	partner.PUT("/toplists/:id", toplistHandler.Update)
	partner.DELETE("/toplists/:id", toplistHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func registerMetrics(e *echo.Echo, registry *prometheus.Registry) {
	skipMetrics := func(c echo.Context) bool { return c.Path() == "/metrics" }

	if registry == nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem: metricsSubsystem,
			Skipper:   skipMetrics,
		}))
		e.GET("/metrics", echoprometheus.NewHandler())
		return
	}

	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  metricsSubsystem,
		Skipper:    skipMetrics,
		Registerer: registry,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: registry}))
}

// loginLimiter throttles login attempts per client IP.
func loginLimiter(perSec float64) echo.MiddlewareFunc {
	if perSec <= 0 {
		perSec = defaultLoginLimit
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSec),
		Burst:     loginBurst,
		ExpiresIn: loginLimiterTTL,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "Forbidden"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "Too many login attempts"})
		},
	})
}

// requestLogger emits one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
