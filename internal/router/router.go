package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinicflow/clinic-api/internal/config"
	"github.com/clinicflow/clinic-api/internal/handler/analysis"
	"github.com/clinicflow/clinic-api/internal/handler/appointment"
	authhandler "github.com/clinicflow/clinic-api/internal/handler/auth"
	"github.com/clinicflow/clinic-api/internal/handler/health"
	"github.com/clinicflow/clinic-api/internal/handler/noteassist"
	"github.com/clinicflow/clinic-api/internal/handler/notification"
	"github.com/clinicflow/clinic-api/internal/handler/patient"
	"github.com/clinicflow/clinic-api/internal/handler/unit"
	"github.com/clinicflow/clinic-api/internal/handler/user"
	"github.com/clinicflow/clinic-api/internal/middleware"
	"github.com/clinicflow/clinic-api/internal/model"
	"github.com/clinicflow/clinic-api/pkg/metrics"
)

type Handlers struct {
	Auth         *authhandler.Handler
	Patient      *patient.Handler
	User         *user.Handler
	Appointment  *appointment.Handler
	Unit         *unit.Handler
	Notification *notification.Handler
	NoteAssist   *noteassist.Handler
	Analysis     *analysis.Handler
	Health       *health.Handler
}

type Router struct {
	engine       *gin.Engine
	auth         *middleware.AuthMiddleware
	handlers     Handlers
	cfg          *config.Config
	metrics      *metrics.Metrics
	storeEnabled bool
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, cfg *config.Config, m *metrics.Metrics) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(m),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.Metrics(m),
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.CORS(),
		middleware.RateLimit(cfg.RateLimit),
		middleware.LegacyRedirect(),
	)

	return &Router{
		engine:       engine,
		auth:         auth,
		handlers:     handlers,
		cfg:          cfg,
		metrics:      m,
		storeEnabled: cfg.StoreEnabled(),
	}
}

func (r *Router) Setup() {
	// The analysis summary reads the store, so the degraded-mode guard
	// applies here like everywhere else.
	analysisRoutes := r.engine.Group("")
	analysisRoutes.Use(middleware.RequireStore(r.storeEnabled))
	r.handlers.Analysis.RegisterRoutes(analysisRoutes)

	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.setupHealth(api)

	// Public routes: login and password reset need the store but not a token.
	public := api.Group("")
	public.Use(middleware.RequireStore(r.storeEnabled))
	r.handlers.Auth.RegisterRoutes(public)

	// Everything else requires an authenticated staff token.
	protected := api.Group("")
	protected.Use(r.auth.Authenticate(), middleware.RequireStore(r.storeEnabled))

	r.handlers.Patient.RegisterRoutes(protected)
	r.handlers.Appointment.RegisterRoutes(protected)
	r.handlers.Unit.RegisterRoutes(protected)
	r.handlers.Notification.RegisterRoutes(protected)

	// Note assist talks only to the model backend, not the store.
	assist := api.Group("")
	assist.Use(r.auth.Authenticate())
	r.handlers.NoteAssist.RegisterRoutes(assist)

	// Admin surface: user management, health plans, notification authoring.
	admin := protected.Group("")
	admin.Use(r.auth.RequireRole(model.RoleAdmin, model.RoleCoordinator))
	r.handlers.User.RegisterRoutes(admin)
	r.handlers.Unit.RegisterAdminRoutes(admin)
	r.handlers.Notification.RegisterAdminRoutes(admin)
}

func (r *Router) setupHealth(api *gin.RouterGroup) {
	r.handlers.Health.RegisterRoutes(api)
	api.GET("/health/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
