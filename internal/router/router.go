package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	authh "github.com/pawhub/vetbook-api/internal/handler/auth"
	bookingh "github.com/pawhub/vetbook-api/internal/handler/booking"
	clinich "github.com/pawhub/vetbook-api/internal/handler/clinic"
	healthh "github.com/pawhub/vetbook-api/internal/handler/health"
	peth "github.com/pawhub/vetbook-api/internal/handler/pet"
	promh "github.com/pawhub/vetbook-api/internal/handler/prometheus"
	scheduleh "github.com/pawhub/vetbook-api/internal/handler/schedule"
	staffh "github.com/pawhub/vetbook-api/internal/handler/staff"
	treatmenth "github.com/pawhub/vetbook-api/internal/handler/treatment"
	vetserviceh "github.com/pawhub/vetbook-api/internal/handler/vetservice"
	"github.com/pawhub/vetbook-api/internal/middleware"
	"github.com/pawhub/vetbook-api/internal/model"
)

type Handlers struct {
	Auth       *authh.Handler
	Booking    *bookingh.Handler
	Clinic     *clinich.Handler
	Pet        *peth.Handler
	Schedule   *scheduleh.Handler
	Staff      *staffh.Handler
	Treatment  *treatmenth.Handler
	VetService *vetserviceh.Handler
	Health     *healthh.Handler
	Metrics    *promh.Handler
}

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	Timeout    time.Duration
	CORSConfig middleware.CORSConfig
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	middleware.RegisterValidators()

	engine := gin.New()

	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		handlers.Metrics.Middleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
	}
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")

	r.handlers.Health.RegisterRoutes(api)
	api.GET("/metrics", r.handlers.Metrics.Handler())

	// public: browsing clinics and their slot grid needs no account
	public := api.Group("")
	public.Use(middleware.CacheControl(15))
	r.handlers.Auth.RegisterRoutes(api)
	r.handlers.Clinic.RegisterPublicRoutes(public)
	r.handlers.Booking.RegisterPublicRoutes(public)

	authed := api.Group("")
	authed.Use(r.auth.Authenticate())
	r.handlers.Clinic.RegisterAuthRoutes(authed)

	owners := authed.Group("")
	owners.Use(r.auth.RequireRole(model.UserRoleOwner))
	r.handlers.Pet.RegisterOwnerRoutes(owners)
	r.handlers.Booking.RegisterOwnerRoutes(owners)

	staff := authed.Group("/clinic")
	staff.Use(r.auth.RequireRole(model.UserRoleStaff))
	r.handlers.Clinic.RegisterStaffRoutes(staff)
	r.handlers.Schedule.RegisterStaffRoutes(staff)
	r.handlers.VetService.RegisterStaffRoutes(staff)
	r.handlers.Staff.RegisterStaffRoutes(staff)
	r.handlers.Treatment.RegisterStaffRoutes(staff)
	r.handlers.Booking.RegisterStaffRoutes(staff)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
