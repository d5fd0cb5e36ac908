package api

import (
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/agileworks/backlog-api/internal/api/handler"
	"github.com/agileworks/backlog-api/internal/api/middleware"
	"github.com/agileworks/backlog-api/internal/core/domain"
	"github.com/agileworks/backlog-api/internal/core/service"
	"github.com/agileworks/backlog-api/internal/infrastructure/http/handlers"
)

// Options carries everything NewRouter needs.
type Options struct {
	Services  *service.Services
	JWTSecret string
	Log       zerolog.Logger

	// HealthChecks back /health/ready, keyed by dependency name.
	HealthChecks map[string]handlers.Check

	AllowOrigins []string
	// RateLimitRPS is the per-client request rate; zero disables limiting.
	RateLimitRPS float64

	// Registry receives the HTTP metrics. Nil uses the default Prometheus
	// registry, which also holds the domain counters.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(opts.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowOrigins(opts.AllowOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if opts.RateLimitRPS > 0 {
		e.Use(echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
			Skipper: skipProbes,
			Store: echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
				Rate:  rate.Limit(opts.RateLimitRPS),
				Burst: rateLimitBurst(opts.RateLimitRPS),
			}),
		}))
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "backlog",
		Skipper:    skipProbes,
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handlers.NewHealthHandler(opts.HealthChecks)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	svc := opts.Services

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(svc.Auth)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/login", authHandler.Login)

	// --- Protected API ---
	g := e.Group("/api", middleware.Auth(opts.JWTSecret), middleware.Principal(svc.Access))

	po := middleware.RequirePrivilege(domain.PrivilegeProductOwner)
	poOrSM := middleware.RequirePrivilege(domain.PrivilegeProductOwner, domain.PrivilegeScrumMaster)
	poOrQA := middleware.RequirePrivilege(domain.PrivilegeProductOwner, domain.PrivilegeQualityAssurance)
	poOrDev := middleware.RequirePrivilege(domain.PrivilegeProductOwner, domain.PrivilegeDeveloper)

	g.GET("/me", authHandler.Me)

	projects := handler.NewProjectHandler(svc.Projects)
	g.POST("/projects", projects.Create, po)
	g.GET("/projects", projects.Get)
	g.PUT("/projects", projects.Update, po)
	g.DELETE("/projects", projects.Delete, po)
	g.POST("/projects/invite", projects.Invite, poOrSM)

	productBacklogs := handler.NewProductBacklogHandler(svc.ProductBacklogs)
	g.POST("/product-backlogs", productBacklogs.Create, po)
	g.GET("/product-backlogs", productBacklogs.Get)
	g.PUT("/product-backlogs", productBacklogs.Update, po)
	g.DELETE("/product-backlogs", productBacklogs.Delete, po)

	sprints := handler.NewSprintBacklogHandler(svc.SprintBacklogs)
	g.POST("/sprint-backlogs", sprints.Create, po)
	g.GET("/sprint-backlogs", sprints.List)
	g.GET("/sprint-backlogs/:id", sprints.Get)
	g.PUT("/sprint-backlogs/:id", sprints.Update, po)
	g.DELETE("/sprint-backlogs/:id", sprints.Delete, po)

	epics := handler.NewEpicHandler(svc.Epics)
	g.POST("/epics", epics.Create, po)
	g.GET("/epics", epics.List)
	g.GET("/epics/:id", epics.Get)
	g.PUT("/epics/:id", epics.Update, po)
	g.DELETE("/epics/:id", epics.Delete, po)
	g.POST("/epics/:epicId/link/sprint-backlog/:sprintBacklogId", epics.Link, po)
	g.POST("/epics/:epicId/unlink", epics.Unlink, po)

	roles := handler.NewRoleHandler(svc.Roles)
	g.POST("/roles", roles.Create, po)
	g.GET("/roles", roles.List)
	g.GET("/roles/:id", roles.Get)
	g.PUT("/roles/:id", roles.Update, po)
	g.DELETE("/roles/:id", roles.Delete, po)

	stories := handler.NewUserStoryHandler(svc.UserStories)
	g.POST("/user-stories", stories.Create, po)
	g.GET("/user-stories", stories.List)
	g.GET("/user-stories/roles/:roleId", stories.ListByRole)
	g.GET("/user-stories/epics/:epicId", stories.ListByEpic)
	g.GET("/user-stories/:id", stories.Get)
	g.PUT("/user-stories/:id", stories.Update, poOrDev)
	g.DELETE("/user-stories/:id", stories.Delete, po)
	g.POST("/user-stories/:userStoryId/link/epic/:epicId", stories.Link, po)
	g.POST("/user-stories/:userStoryId/unlink", stories.Unlink, po)

	testCases := handler.NewTestCaseHandler(svc.TestCases)
	g.POST("/test-cases/user-stories/:userStoryId", testCases.Create, poOrQA)
	g.POST("/test-cases/user-stories/:userStoryId/", testCases.Create, poOrQA)
	g.GET("/test-cases/user-stories/:userStoryId", testCases.ListByUserStory)
	g.GET("/test-cases/:id", testCases.Get)
	g.PUT("/test-cases/:id", testCases.Update, poOrQA)
	g.DELETE("/test-cases/:id", testCases.Delete, po)

	return e
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
			ev := log.Info()
			if v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// rateLimitBurst allows two seconds' worth of requests at once, and always at
// least one so fractional rates still admit traffic.
func rateLimitBurst(rps float64) int {
	return max(1, int(math.Ceil(rps*2)))
}

func skipProbes(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || strings.HasPrefix(p, "/health")
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
