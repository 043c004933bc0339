package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/krishichetan/krishichetan-backend/internal/advisory"
	"github.com/krishichetan/krishichetan-backend/internal/analytics"
	"github.com/krishichetan/krishichetan-backend/internal/farmers"
	"github.com/krishichetan/krishichetan-backend/internal/gateway"
	"github.com/krishichetan/krishichetan-backend/internal/ledger"
	"github.com/krishichetan/krishichetan-backend/internal/officer"
	"github.com/krishichetan/krishichetan-backend/internal/subsidy"
	"github.com/krishichetan/krishichetan-backend/pkg/config"
	"github.com/krishichetan/krishichetan-backend/pkg/db/models"
	"github.com/krishichetan/krishichetan-backend/pkg/enums"
	"github.com/krishichetan/krishichetan-backend/pkg/storage"
)

type stubFarmerService struct{}

func (stubFarmerService) Register(context.Context, farmers.RegisterInput) (*models.FarmerProfile, error) {
	return &models.FarmerProfile{Phone: "9876543210", Name: "Ramesh"}, nil
}

func (stubFarmerService) GetByPhone(context.Context, string) (*models.FarmerProfile, error) {
	return &models.FarmerProfile{Phone: "9876543210", Name: "Ramesh"}, nil
}

func (stubFarmerService) UpdateRiskScore(context.Context, string, int) (*models.FarmerProfile, error) {
	return &models.FarmerProfile{Phone: "9876543210", Name: "Ramesh"}, nil
}

func (stubFarmerService) ListSummaries(context.Context) ([]analytics.FarmerSummary, error) {
	return nil, nil
}

type stubOfficerService struct{}

func (stubOfficerService) Submit(context.Context, officer.SubmitInput) (*models.PendingRecommendation, error) {
	return &models.PendingRecommendation{ID: "rec-1"}, nil
}

func (stubOfficerService) Pending(context.Context) ([]models.PendingRecommendation, error) {
	return nil, nil
}

func (stubOfficerService) Validate(context.Context, officer.ValidateInput) (*officer.ValidateResult, error) {
	return &officer.ValidateResult{}, nil
}

func (stubOfficerService) Alerts(_ context.Context, lang enums.Language) []officer.ZoneAlert {
	return []officer.ZoneAlert{{Zone: "Zone A (North)", Risk: "High"}}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()

	chain, err := ledger.New(ctx, storage.NewMemoryRecordLog())
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	store, err := advisory.NewStore(ctx, advisory.StoreParams{Doc: storage.NewMemoryDocStore()})
	if err != nil {
		t.Fatalf("advisory store: %v", err)
	}

	gatewayService := gateway.NewService(gateway.ServiceParams{
		Ledger:      chain,
		Advisories:  store,
		Eligibility: subsidy.NewEngine(),
	})
	analyticsService := analytics.NewService(store, stubFarmerService{}, config.AnalyticsConfig{RiskThreshold: 60, PriorityTopN: 20})

	return NewRouter(Deps{
		Config:           &config.Config{App: config.AppConfig{Env: "test"}},
		Gateway:          gatewayService,
		Ledger:           chain,
		AdvisoryStore:    store,
		FarmerService:    stubFarmerService{},
		OfficerService:   stubOfficerService{},
		AnalyticsService: analyticsService,
		MetricsRegistry:  prometheus.NewRegistry(),
	})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"health live", http.MethodGet, "/healthz", "", http.StatusOK},
		{"health ready", http.MethodGet, "/readyz", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"subsidy check", http.MethodPost, "/api/v1/subsidy/check", `{"phone":"9876543210","land_size_acres":2}`, http.StatusOK},
		{"ledger chain", http.MethodGet, "/api/v1/transparency/ledger", "", http.StatusOK},
		{"ledger verify", http.MethodGet, "/api/v1/transparency/ledger/verify", "", http.StatusOK},
		{"create advisory", http.MethodPost, "/api/v1/advisories", `{"phone":"9876543210","kind":"pest","message":"scout"}`, http.StatusCreated},
		{"farmer history", http.MethodGet, "/api/v1/farmers/9876543210/advisories", "", http.StatusOK},
		{"officer alerts", http.MethodGet, "/api/v1/officer/alerts?lang=hi", "", http.StatusOK},
		{"officer priority list", http.MethodGet, "/api/v1/officer/priority-list", "", http.StatusOK},
		{"officer adoption rate", http.MethodGet, "/api/v1/officer/adoption-rate", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nowhere", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.body != "" {
				req = httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
				req.Header.Set("Content-Type", "application/json")
			} else {
				req = httptest.NewRequest(tc.method, tc.path, nil)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
		})
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id header")
	}

	inbound := "0c6bfc6e-6f6a-46a1-9d0a-0f2a5f4c9d31"
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", inbound)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != inbound {
		t.Fatalf("request id = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got == "not-a-uuid" || got == "" {
		t.Fatalf("malformed inbound id should be replaced, got %q", got)
	}
}
