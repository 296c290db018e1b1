package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"solstice_leads/internal/adapter/http/handlers/mocks"
	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/domain/validation"
	"solstice_leads/pkg"
)

var errTest = errors.New("store unavailable")

func TestAdminHandler_Dashboard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		h := NewAdminHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/admin/dashboard", h.Dashboard)

		uc.EXPECT().Dashboard(gomock.Any()).Return(entities.Dashboard{
			Overview: entities.DashboardOverview{TotalProducts: 12, TotalContacts: 4, TotalEstimatedValue: decimal.NewFromInt(180000)},
			MonthlyContacts: []entities.TrendBucket{
				{Year: 2024, Month: 5, Count: 4},
			},
			MonthlyInquiries: []entities.TrendBucket{
				{Year: 2024, Month: 5, Count: 1, TotalValue: decimal.NewFromInt(180000)},
			},
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/admin/dashboard", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"totalProducts":12`) {
			t.Fatalf("unexpected overview: %s", body)
		}
		if !strings.Contains(body, `"monthlyContacts":[{"year":2024,"month":5,"count":4}]`) {
			t.Fatalf("contact trend should omit value: %s", body)
		}
	})

	t.Run("failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		h := NewAdminHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/admin/dashboard", h.Dashboard)

		uc.EXPECT().Dashboard(gomock.Any()).Return(entities.Dashboard{}, errTest)

		w := doJSON(r, http.MethodGet, "/v1/admin/dashboard", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}

func TestAdminHandler_RecentActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("default limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		h := NewAdminHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/admin/recent-activity", h.RecentActivity)

		uc.EXPECT().RecentActivity(gomock.Any(), 20).Return([]entities.ActivityItem{
			{Kind: entities.LeadKindInquiry, ID: "i-1", Title: "Grace", CreatedAt: time.Now()},
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/admin/recent-activity", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"type":"inquiry"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		h := NewAdminHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/admin/recent-activity", h.RecentActivity)

		w := doJSON(r, http.MethodGet, "/v1/admin/recent-activity?limit=ten", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestAdminHandler_Analytics(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("default period", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		h := NewAdminHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/admin/analytics", h.Analytics)

		uc.EXPECT().Analytics(gomock.Any(), 30).Return(entities.Analytics{PeriodDays: 30}, nil)

		w := doJSON(r, http.MethodGet, "/v1/admin/analytics", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"period":30`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("period out of range", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIDashboardUseCase(ctrl)
		h := NewAdminHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/admin/analytics", h.Analytics)

		verr := &validation.Errors{Fields: []pkg.FieldError{{Field: "period", Message: "Period must be between 1 and 365 days"}}}
		uc.EXPECT().Analytics(gomock.Any(), 400).Return(entities.Analytics{}, verr)

		w := doJSON(r, http.MethodGet, "/v1/admin/analytics?period=400", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"store": stubPinger{}})
		r := gin.New()
		r.GET("/v1/health", h.Health)
		r.GET("/v1/ping", h.Ping)

		if w := doJSON(r, http.MethodGet, "/v1/health", ""); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w := doJSON(r, http.MethodGet, "/v1/ping", ""); w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("store down", func(t *testing.T) {
		h := NewHealthHandler(map[string]Pinger{"store": stubPinger{err: errTest}, "cache": stubPinger{}})
		r := gin.New()
		r.GET("/v1/health", h.Health)

		w := doJSON(r, http.MethodGet, "/v1/health", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected 503, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"store":"store unavailable"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
