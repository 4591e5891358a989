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

	_ "github.com/tanodwatch/tanod-system/docs"
	"github.com/tanodwatch/tanod-system/internal/api/handler"
	"github.com/tanodwatch/tanod-system/internal/api/middleware"
	"github.com/tanodwatch/tanod-system/internal/core/domain"
	"github.com/tanodwatch/tanod-system/internal/core/ports"
)

// Dependencies are the services and probes the router is built from.
type Dependencies struct {
	Verifier   ports.TokenVerifier
	Identity   ports.IdentityService
	Attendance ports.AttendanceService
	Reports    ports.ReportService
	Dashboard  ports.DashboardService

	// Health checks for /health/ready, keyed by dependency name.
	Health map[string]handler.DependencyCheck
	// Location is the default calendar timezone of admin date windows.
	Location *time.Location
	// RateLimit is requests per second per client IP on /v1. 0 disables it.
	RateLimit float64
	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	registerMetrics(e, deps.Registry)

	// --- Health probes and docs (no auth required) ---
	health := handler.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated API ---
	session := handler.NewSessionHandler()
	attendance := handler.NewAttendanceHandler(deps.Attendance)
	reports := handler.NewReportHandler(deps.Reports)
	admin := handler.NewAdminHandler(deps.Identity, deps.Dashboard, deps.Location)

	v1 := e.Group("/v1")
	if deps.RateLimit > 0 {
		v1.Use(rateLimiter(deps.RateLimit))
	}
	v1.Use(middleware.Auth(deps.Verifier), middleware.Profile(deps.Identity))
	v1.POST("/session/landing", session.Landing)
	v1.GET("/me", session.Me)

	fieldRoles := middleware.RBAC(domain.RoleTanod, domain.RoleAdmin)
	v1.GET("/attendance", attendance.History, fieldRoles)
	v1.POST("/attendance", attendance.Record, fieldRoles)
	v1.GET("/reports", reports.List, fieldRoles)
	v1.POST("/reports", reports.Submit, fieldRoles)

	adm := v1.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	adm.GET("/tanods", admin.Tanods)
	adm.GET("/tanods/:uid/attendance", attendance.OwnerHistory)
	adm.GET("/reports", admin.Reports)
	adm.GET("/reports/emergencies", admin.Emergencies)

	return e
}

func registerMetrics(e *echo.Echo, reg *prometheus.Registry) {
	if reg == nil {
		e.Use(echoprometheus.NewMiddleware("tanod"))
		e.GET("/metrics", echoprometheus.NewHandler())
		return
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "tanod",
		Registerer: reg,
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
}

// rateLimiter throttles per client IP before any token verification or store access.
func rateLimiter(rps float64) echo.MiddlewareFunc {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
		},
	})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error()
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
