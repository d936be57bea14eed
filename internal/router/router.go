package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	bookingHandler "github.com/JuanJo0775/Veterinaria-sistema/internal/handler/booking"
	healthHandler "github.com/JuanJo0775/Veterinaria-sistema/internal/handler/health"
	scheduleHandler "github.com/JuanJo0775/Veterinaria-sistema/internal/handler/schedule"
	"github.com/JuanJo0775/Veterinaria-sistema/internal/middleware"
)

type Config struct {
	RateLimit  rate.Limit
	RateBurst  int
	Timeout    time.Duration
	CORSConfig middleware.CORSConfig
	Registerer prometheus.Registerer
}

type Router struct {
	engine    *gin.Engine
	auth      *middleware.AuthMiddleware
	healthH   *healthHandler.Handler
	bookingH  *bookingHandler.Handler
	scheduleH *scheduleHandler.Handler
	metrics   *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	healthH *healthHandler.Handler,
	bookingH *bookingHandler.Handler,
	scheduleH *scheduleHandler.Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:    engine,
		auth:      auth,
		healthH:   healthH,
		bookingH:  bookingH,
		scheduleH: scheduleH,
		metrics:   initRouterMetrics(config.Registerer),
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
	)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  config.RateLimit,
		Burst: config.RateBurst,
	})
	engine.Use(rateLimiter.RateLimit())

	return r
}

func (r *Router) Setup() {
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	r.healthH.RegisterRoutes(api)

	authed := api.Group("", r.auth.Authenticate())
	r.bookingH.RegisterRoutes(authed)
	r.scheduleH.RegisterRoutes(authed, r.auth.RequireAdmin())
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func initRouterMetrics(reg prometheus.Registerer) *routerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &routerMetrics{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := statusLabel(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
