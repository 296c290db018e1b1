package handlers

import (
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
	"solstice_leads/internal/usecase"
	"solstice_leads/pkg"
)

func TestInquiryHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns reference number", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries", h.Submit)

		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in usecase.InquirySubmission) (entities.Inquiry, error) {
				if in.Quantity == nil || *in.Quantity != 120 || in.QuantityUnit != "metric-tons" {
					t.Fatalf("unexpected submission: %+v", in)
				}
				return entities.Inquiry{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", CreatedAt: time.Now()}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/inquiries",
			`{"name":"Grace","email":"grace@example.com","product":"Cashew","quantity":120,"quantityUnit":"metric-tons"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"referenceNumber":"INQ-7728950E"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("non numeric quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries", h.Submit)

		w := doJSON(r, http.MethodPost, "/v1/inquiries", `{"name":"Grace","quantity":"lots"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		env := decodeEnvelope(t, w)
		if env.Code != "VALIDATION_ERROR" || len(env.Errors) != 1 || env.Errors[0].Field != "quantity" {
			t.Fatalf("expected a quantity field error, got %+v", env)
		}
	})

	t.Run("numeric string quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries", h.Submit)

		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in usecase.InquirySubmission) (entities.Inquiry, error) {
				if in.Quantity == nil || *in.Quantity != 120 {
					t.Fatalf("expected quantity 120, got %v", in.Quantity)
				}
				return entities.Inquiry{ID: "0f8fad5b-d9cb-469f-a165-70867728950e", CreatedAt: time.Now()}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/inquiries", `{"name":"Grace","product":"Cashew","quantity":"120"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestInquiryHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockIInquiryUseCase(ctrl)
	h := NewInquiryHandler(uc, nil)

	r := gin.New()
	r.GET("/v1/inquiries", h.List)

	want := entities.InquiryFilter{Status: entities.InquiryStatusQuoted, Product: "Cashew", Priority: entities.PriorityHigh}
	page := entities.NewPage([]entities.Inquiry{}, entities.NewPageRequest(1, 20, 20, 100), 0)
	uc.EXPECT().List(gomock.Any(), want, 1, 0).Return(page, nil)

	w := doJSON(r, http.MethodGet, "/v1/inquiries?status=quoted&product=Cashew&priority=high", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"items":[]`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestInquiryHandler_AddQuote(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("amount required", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries/:id/quote", h.AddQuote)

		w := doJSON(r, http.MethodPost, "/v1/inquiries/i-1/quote", `{"currency":"EUR"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if env := decodeEnvelope(t, w); len(env.Errors) != 1 || env.Errors[0].Field != "amount" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries/:id/quote", h.AddQuote)

		uc.EXPECT().AddQuote(gomock.Any(), "missing", gomock.Any()).Return(entities.Inquiry{}, usecase.ErrInquiryNotFound)

		w := doJSON(r, http.MethodPost, "/v1/inquiries/missing/quote", `{"amount":100}`)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("forwards quote input", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries/:id/quote", h.AddQuote)

		uc.EXPECT().AddQuote(gomock.Any(), "i-1", gomock.Any()).DoAndReturn(
			func(_ any, _ string, in usecase.QuoteInput) (entities.Inquiry, error) {
				if !in.Amount.Equal(decimal.RequireFromString("2500.5")) {
					t.Fatalf("unexpected amount %s", in.Amount)
				}
				if in.Currency == nil || *in.Currency != "EUR" || in.ValidDays != nil || in.Author != "u-1" {
					t.Fatalf("unexpected quote input: %+v", in)
				}
				q := entities.NewQuotedPrice(in.Amount, *in.Currency, 30, time.Now())
				return entities.Inquiry{ID: "i-1", Status: entities.InquiryStatusQuoted, QuotedPrice: &q}, nil
			})

		w := doJSON(r, http.MethodPost, "/v1/inquiries/i-1/quote", `{"amount":"2500.5","currency":"EUR","userId":"u-1"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"status":"quoted"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestInquiryHandler_StatusNotesAndPatch(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("status forwards author", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.PUT("/v1/inquiries/:id/status", h.UpdateStatus)

		uc.EXPECT().UpdateStatus(gomock.Any(), "i-1", "negotiating", "u-3").
			Return(entities.Inquiry{ID: "i-1", Status: entities.InquiryStatusNegotiating}, nil)

		w := doJSON(r, http.MethodPut, "/v1/inquiries/i-1/status", `{"status":"negotiating","userId":"u-3"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("empty note", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/inquiries/:id/notes", h.AddNote)

		verr := &validation.Errors{Fields: []pkg.FieldError{{Field: "content", Message: "Note content is required"}}}
		uc.EXPECT().AddNote(gomock.Any(), "i-1", "", "").Return(entities.Inquiry{}, verr)

		w := doJSON(r, http.MethodPost, "/v1/inquiries/i-1/notes", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("patch carries estimated value", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.PATCH("/v1/inquiries/:id", h.Update)

		uc.EXPECT().Update(gomock.Any(), "i-1", gomock.Any()).DoAndReturn(
			func(_ any, _ string, p entities.InquiryPatch) (entities.Inquiry, error) {
				if p.EstimatedValue == nil || !p.EstimatedValue.Equal(decimal.NewFromInt(90000)) {
					t.Fatalf("estimated value not forwarded: %+v", p)
				}
				if p.CustomerType == nil || *p.CustomerType != entities.CustomerTypeVIP {
					t.Fatalf("customer type not converted: %+v", p)
				}
				return entities.Inquiry{ID: "i-1"}, nil
			})

		w := doJSON(r, http.MethodPatch, "/v1/inquiries/i-1", `{"estimatedValue":90000,"customerType":"vip"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestInquiryHandler_StatsAndExport(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("stats", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/inquiries/stats", h.Stats)

		uc.EXPECT().Stats(gomock.Any()).Return(entities.InquiryStats{
			TopProducts:           []entities.ProductStat{{Product: "Cashew", Count: 3, TotalQuantity: 150, AvgQuantity: 75}},
			TotalInquiries:        3,
			HighPriorityInquiries: 1,
			TotalEstimatedValue:   decimal.NewFromInt(232500),
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/inquiries/stats", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"highPriorityInquiries":1`) || !strings.Contains(body, `"totalEstimatedValue":"232500"`) {
			t.Fatalf("unexpected body: %s", body)
		}
	})

	t.Run("export store failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIInquiryUseCase(ctrl)
		h := NewInquiryHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/inquiries/export", h.Export)

		uc.EXPECT().Export(gomock.Any(), entities.InquiryFilter{Product: "Cashew"}).Return(nil, errTest)

		w := doJSON(r, http.MethodGet, "/v1/inquiries/export?product=Cashew", "")
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
	})
}
