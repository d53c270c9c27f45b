package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hansbeauty/dashboard-backend/api/controllers"
	"github.com/hansbeauty/dashboard-backend/api/middleware"
	"github.com/hansbeauty/dashboard-backend/internal/dashboard"
	"github.com/hansbeauty/dashboard-backend/internal/orders"
	"github.com/hansbeauty/dashboard-backend/internal/upstream"
	"github.com/hansbeauty/dashboard-backend/pkg/config"
	"github.com/hansbeauty/dashboard-backend/pkg/logger"
	"github.com/hansbeauty/dashboard-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	upstreamClient *upstream.Client,
	redisClient *redis.Client,
	dashboardService *dashboard.Service,
	statusLog *orders.StatusLog,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		if redisClient != nil {
			r.Get("/ready", controllers.HealthReady(cfg, logg, upstreamClient, redisClient))
		} else {
			r.Get("/ready", controllers.HealthReady(cfg, logg, upstreamClient, nil))
		}
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		if redisClient != nil {
			policy := middleware.NewRateLimitPolicy(cfg.RateLimit.Window, cfg.RateLimit.IPLimit)
			r.Use(middleware.RateLimit(policy, redisClient, logg))
		}
		r.Use(middleware.Session(logg))

		r.Get("/products", controllers.ProxyProducts(upstreamClient, logg))
		r.Get("/purchases", controllers.ProxyPurchases(upstreamClient, logg))
		r.Get("/purchase/stats", controllers.ProxyPurchaseStats(upstreamClient, logg))

		r.Get("/dashboard/overview", controllers.DashboardOverview(dashboardService, logg))
		r.Get("/analytics", controllers.AnalyticsReport(dashboardService, logg))

		r.Route("/charts", func(r chi.Router) {
			r.Get("/revenue", controllers.AnalyticsRevenue(dashboardService, logg))
			r.Get("/province", controllers.AnalyticsProvinces(dashboardService, logg))
		})

		r.Get("/customers", controllers.CustomersList(dashboardService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(dashboardService, statusLog, logg))
			r.Post("/{orderId}/status", controllers.OrdersSetStatus(statusLog, logg))
			r.Post("/undo", controllers.OrdersUndo(statusLog, logg))
		})
	})

	return r
}
