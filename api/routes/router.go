package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krishichetan/krishichetan-backend/api/controllers"
	"github.com/krishichetan/krishichetan-backend/api/middleware"
	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/analytics"
	"github.com/krishichetan/krishichetan-backend/internal/farmers"
	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/internal/ledger"
	"github.com/krishichetan/krishichetan-backend/internal/officer"
	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/logger"
	pkgredis "github.com/krishichetan/krishichetan-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. Idempotency and metrics
// are optional; a nil store or registry disables the feature.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	Gateway          *gateway.Service
	Ledger           *ledger.Ledger
	AdvisoryStore    *advisory.Store
	FarmerService    farmers.Service
	OfficerService   officer.Service
	AnalyticsService *analytics.Service
	IdempotencyStore pkgredis.IdempotencyStore
	MetricsRegistry  *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Idempotency(deps.IdempotencyStore, deps.Logger),
	)

	r.Get("/healthz", controllers.HealthLive(deps.Config))
	r.Get("/readyz", controllers.HealthReady(deps.Config))
	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/subsidy/check", controllers.CheckSubsidy(deps.Gateway, deps.Logger))

		r.Route("/transparency", func(r chi.Router) {
			r.Get("/ledger", controllers.LedgerChain(deps.Ledger, deps.Logger))
			r.Get("/ledger/verify", controllers.LedgerVerify(deps.Ledger, deps.Logger))
		})

		r.Route("/advisories", func(r chi.Router) {
			r.Post("/", controllers.CreateAdvisory(deps.Gateway, deps.Logger))
			r.Post("/bulk", controllers.BulkAdvisories(deps.Gateway, deps.Logger))
		})

		r.Route("/farmers", func(r chi.Router) {
			r.Post("/", controllers.RegisterFarmer(deps.FarmerService, deps.Logger))
			r.Route("/{phone}", func(r chi.Router) {
				r.Get("/", controllers.GetFarmer(deps.FarmerService, deps.Logger))
				r.Put("/risk-score", controllers.UpdateRiskScore(deps.FarmerService, deps.Logger))
				r.Get("/advisories", controllers.AdvisoryHistory(deps.AdvisoryStore, deps.Logger))
				r.Post("/advisories/{advisoryID}/status", controllers.TransitionAdvisory(deps.AdvisoryStore, deps.Logger))
			})
		})

		r.Route("/officer", func(r chi.Router) {
			r.Get("/priority-list", controllers.PriorityList(deps.AnalyticsService, deps.Logger))
			r.Get("/adoption-rate", controllers.AdoptionRate(deps.AnalyticsService, deps.Logger))
			r.Get("/crop-patterns", controllers.CropPatterns(deps.AnalyticsService, deps.Logger))
			r.Get("/alerts", controllers.ZoneAlerts(deps.OfficerService, deps.Logger))
			r.Route("/recommendations", func(r chi.Router) {
				r.Get("/", controllers.PendingRecommendations(deps.OfficerService, deps.Logger))
				r.Post("/", controllers.SubmitRecommendation(deps.OfficerService, deps.Logger))
				r.Post("/{recID}/validate", controllers.ValidateRecommendation(deps.OfficerService, deps.Logger))
			})
		})
	})

	return r
}
