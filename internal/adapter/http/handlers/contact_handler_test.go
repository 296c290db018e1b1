package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"

	"solstice_leads/internal/adapter/http/handlers/mocks"
	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/domain/validation"
	"solstice_leads/internal/usecase"
	"solstice_leads/pkg"
)

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Code    string           `json:"code"`
	Data    json.RawMessage  `json:"data"`
	Errors  []pkg.FieldError `json:"errors"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json body %q: %v", w.Body.String(), err)
	}
	return env
}

func TestContactHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/contacts", h.Submit)

		w := doJSON(r, http.MethodPost, "/v1/contacts", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("validation errors are listed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/contacts", h.Submit)

		verr := &validation.Errors{Fields: []pkg.FieldError{
			{Field: "email", Message: "Valid email is required"},
			{Field: "subject", Message: "Subject is required and must be at most 200 characters"},
		}}
		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Contact{}, verr)

		w := doJSON(r, http.MethodPost, "/v1/contacts", `{"name":"Ada","email":"nope"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		env := decodeEnvelope(t, w)
		if env.Success || env.Code != "VALIDATION_ERROR" || len(env.Errors) != 2 {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("success captures client metadata", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/contacts", h.Submit)

		created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in usecase.ContactSubmission) (entities.Contact, error) {
				if in.Name != "Ada" || in.UserAgent != "form-test" || in.IPAddress == "" {
					t.Fatalf("unexpected submission: %+v", in)
				}
				return entities.Contact{ID: "c-1", Name: in.Name, CreatedAt: created}, nil
			})

		req := httptest.NewRequest(http.MethodPost, "/v1/contacts",
			bytes.NewBufferString(`{"name":"Ada","email":"ada@example.com","subject":"Hi","message":"Hello"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "form-test")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		env := decodeEnvelope(t, w)
		if !env.Success || !strings.Contains(string(env.Data), `"id":"c-1"`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("store failure hides cause", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/contacts", h.Submit)

		uc.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(entities.Contact{}, errors.New("dynamodb: throttled"))

		w := doJSON(r, http.MethodPost, "/v1/contacts", `{"name":"Ada"}`)
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", w.Code)
		}
		if strings.Contains(w.Body.String(), "throttled") {
			t.Fatalf("internal cause leaked: %s", w.Body.String())
		}
	})
}

func TestContactHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("bad page", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts", h.List)

		w := doJSON(r, http.MethodGet, "/v1/contacts?page=abc", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("passes filter and paging", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts", h.List)

		page := entities.NewPage([]entities.Contact{{ID: "c-1"}}, entities.NewPageRequest(2, 5, 20, 100), 6)
		uc.EXPECT().List(gomock.Any(), entities.ContactFilter{Status: entities.ContactStatusNew}, 2, 5).Return(page, nil)

		w := doJSON(r, http.MethodGet, "/v1/contacts?page=2&limit=5&status=new", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"totalPages":2`) || !strings.Contains(body, `"hasPrev":true`) {
			t.Fatalf("unexpected pagination: %s", body)
		}
	})
}

func TestContactHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts/:id", h.Get)

		uc.EXPECT().GetDetail(gomock.Any(), "missing").Return(usecase.ContactDetail{}, usecase.ErrContactNotFound)

		w := doJSON(r, http.MethodGet, "/v1/contacts/missing", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("resolves references", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts/:id", h.Get)

		detail := usecase.ContactDetail{
			Contact: entities.Contact{
				ID:         "c-1",
				AssignedTo: "u-1",
				Notes:      []entities.Note{{Content: "called back", AddedBy: "u-2"}},
			},
			Users: map[string]entities.UserRef{"u-1": {ID: "u-1", Name: "Sam", Email: "sam@solstice.test"}},
		}
		uc.EXPECT().GetDetail(gomock.Any(), "c-1").Return(detail, nil)

		w := doJSON(r, http.MethodGet, "/v1/contacts/c-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"name":"Sam"`) || !strings.Contains(body, `"addedBy":{"id":"u-2"}`) {
			t.Fatalf("unexpected references: %s", body)
		}
	})
}

func TestContactHandler_UpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.PUT("/v1/contacts/:id/status", h.UpdateStatus)

		verr := &validation.Errors{Fields: []pkg.FieldError{{Field: "status", Message: "Invalid status"}}}
		uc.EXPECT().UpdateStatus(gomock.Any(), "c-1", "archived").Return(entities.Contact{}, verr)

		w := doJSON(r, http.MethodPut, "/v1/contacts/c-1/status", `{"status":"archived"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.PUT("/v1/contacts/:id/status", h.UpdateStatus)

		uc.EXPECT().UpdateStatus(gomock.Any(), "c-1", "resolved").
			Return(entities.Contact{ID: "c-1", Status: entities.ContactStatusResolved, Resolved: true}, nil)

		w := doJSON(r, http.MethodPut, "/v1/contacts/c-1/status", `{"status":"resolved"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"resolved":true`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestContactHandler_AddNoteAndUpdate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("note forwards author", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.POST("/v1/contacts/:id/notes", h.AddNote)

		uc.EXPECT().AddNote(gomock.Any(), "c-1", "left voicemail", "u-9").Return(entities.Contact{ID: "c-1"}, nil)

		w := doJSON(r, http.MethodPost, "/v1/contacts/c-1/notes", `{"content":"left voicemail","userId":"u-9"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("patch converts typed fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.PATCH("/v1/contacts/:id", h.Update)

		uc.EXPECT().Update(gomock.Any(), "c-1", gomock.Any()).DoAndReturn(
			func(_ any, _ string, p entities.ContactPatch) (entities.Contact, error) {
				if p.Priority == nil || *p.Priority != entities.PriorityUrgent {
					t.Fatalf("priority not converted: %+v", p)
				}
				if p.Source != nil || p.AssignedTo != nil {
					t.Fatalf("untouched fields should stay nil: %+v", p)
				}
				return entities.Contact{ID: "c-1", Priority: *p.Priority}, nil
			})

		w := doJSON(r, http.MethodPatch, "/v1/contacts/c-1", `{"priority":"urgent"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestContactHandler_SearchStatsExport(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("empty query", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts/search", h.Search)

		uc.EXPECT().Search(gomock.Any(), "", 0).Return(nil, usecase.ErrEmptySearchQuery)

		w := doJSON(r, http.MethodGet, "/v1/contacts/search", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("stats", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts/stats", h.Stats)

		uc.EXPECT().Stats(gomock.Any()).Return(entities.ContactStats{
			StatusBreakdown: []entities.StatusCount{{Status: "new", Count: 2}},
			TotalContacts:   2,
			RecentContacts:  1,
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/contacts/stats", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"totalContacts":2`) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("export writes workbook", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIContactUseCase(ctrl)
		h := NewContactHandler(uc, nil)

		r := gin.New()
		r.GET("/v1/contacts/export", h.Export)

		uc.EXPECT().Export(gomock.Any(), entities.ContactFilter{}).Return([]entities.Contact{
			{ID: "c-1", Name: "Ada", CreatedAt: time.Now()},
		}, nil)

		w := doJSON(r, http.MethodGet, "/v1/contacts/export", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if w.Header().Get("Content-Type") != xlsxContentType {
			t.Fatalf("unexpected content type %q", w.Header().Get("Content-Type"))
		}
		// xlsx is a zip container
		if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
			t.Fatalf("body is not a workbook")
		}
	})
}
