package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	request "solstice_leads/internal/adapter/http/dto/request"
	response "solstice_leads/internal/adapter/http/dto/response"
	"solstice_leads/internal/domain/entities"
	"solstice_leads/internal/usecase"
	"solstice_leads/pkg"
)

var errQuoteAmountRequired = pkg.NewValidationError([]pkg.FieldError{
	{Field: "amount", Message: "Amount is required"},
})

// InquiryHandler serves bulk order intake and the inquiry admin API.
type InquiryHandler struct {
	usecase usecase.IInquiryUseCase
	log     *zap.Logger
}

func NewInquiryHandler(uc usecase.IInquiryUseCase, log *zap.Logger) *InquiryHandler {
	return &InquiryHandler{usecase: uc, log: handlerLogger(log, "inquiry_handler")}
}

func inquiryFilter(c *gin.Context) entities.InquiryFilter {
	return entities.InquiryFilter{
		Status:   entities.InquiryStatus(c.Query("status")),
		Product:  c.Query("product"),
		Priority: entities.Priority(c.Query("priority")),
	}
}

// Submit godoc
// @Summary  Submit a bulk order inquiry
// @Tags     inquiries
// @Accept   json
// @Produce  json
// @Param    body body request.InquiryRequest true "Inquiry form"
// @Success  201 {object} response.Envelope
// @Failure  400 {object} pkg.HTTPError
// @Router   /inquiries [post]
func (h *InquiryHandler) Submit(c *gin.Context) {
	var payload request.InquiryRequest
	if !bindJSON(c, &payload) {
		return
	}

	inquiry, err := h.usecase.Submit(c.Request.Context(),
		payload.ToSubmission(c.ClientIP(), c.Request.UserAgent(), c.Request.Referer()))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.WithMessage(
		"Thank you for your inquiry. Our sales team will contact you within 24 hours.",
		response.InquirySubmitted{
			ID:              inquiry.ID,
			ReferenceNumber: inquiry.ReferenceNumber(),
			SubmittedAt:     inquiry.CreatedAt,
		},
	))
}

// List godoc
// @Summary  List inquiries
// @Tags     inquiries
// @Produce  json
// @Param    page     query int    false "Page (1-based)"
// @Param    limit    query int    false "Page size"
// @Param    status   query string false "Status filter"
// @Param    product  query string false "Product filter"
// @Param    priority query string false "Priority filter"
// @Success  200 {object} response.Envelope
// @Router   /inquiries [get]
func (h *InquiryHandler) List(c *gin.Context) {
	page, ok1 := queryInt(c, "page", 1)
	limit, ok2 := queryInt(c, "limit", 0)
	if !ok1 || !ok2 {
		c.JSON(errInvalidQuery.HTTPStatus, errInvalidQuery.ToHTTPError())
		return
	}

	result, err := h.usecase.List(c.Request.Context(), inquiryFilter(c), page, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	items := response.FromInquiries(result.Items, time.Now())
	c.JSON(http.StatusOK, response.OK(response.FromPage(result, items)))
}

// Get godoc
// @Summary  Get an inquiry with resolved staff references
// @Tags     inquiries
// @Produce  json
// @Param    id path string true "Inquiry ID"
// @Success  200 {object} response.Envelope
// @Failure  404 {object} pkg.HTTPError
// @Router   /inquiries/{id} [get]
func (h *InquiryHandler) Get(c *gin.Context) {
	detail, err := h.usecase.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInquiry(detail.Inquiry, detail.Users, time.Now())))
}

// UpdateStatus godoc
// @Summary  Change an inquiry's status
// @Tags     inquiries
// @Accept   json
// @Produce  json
// @Param    id   path string                true "Inquiry ID"
// @Param    body body request.StatusRequest true "New status"
// @Success  200 {object} response.Envelope
// @Router   /inquiries/{id}/status [put]
func (h *InquiryHandler) UpdateStatus(c *gin.Context) {
	var payload request.StatusRequest
	if !bindJSON(c, &payload) {
		return
	}

	inquiry, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status, payload.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Inquiry status updated successfully", response.FromInquiry(inquiry, nil, time.Now())))
}

// AddQuote godoc
// @Summary  Attach a price quote
// @Tags     inquiries
// @Accept   json
// @Produce  json
// @Param    id   path string               true "Inquiry ID"
// @Param    body body request.QuoteRequest true "Quote"
// @Success  200 {object} response.Envelope
// @Router   /inquiries/{id}/quote [post]
func (h *InquiryHandler) AddQuote(c *gin.Context) {
	var payload request.QuoteRequest
	if !bindJSON(c, &payload) {
		return
	}
	if payload.Amount == nil {
		c.JSON(errQuoteAmountRequired.HTTPStatus, errQuoteAmountRequired.ToHTTPError())
		return
	}

	inquiry, err := h.usecase.AddQuote(c.Request.Context(), c.Param("id"), payload.ToInput())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Quote added successfully", response.FromInquiry(inquiry, nil, time.Now())))
}

// AddNote godoc
// @Summary  Append a note to an inquiry
// @Tags     inquiries
// @Accept   json
// @Produce  json
// @Param    id   path string              true "Inquiry ID"
// @Param    body body request.NoteRequest true "Note"
// @Success  200 {object} response.Envelope
// @Router   /inquiries/{id}/notes [post]
func (h *InquiryHandler) AddNote(c *gin.Context) {
	var payload request.NoteRequest
	if !bindJSON(c, &payload) {
		return
	}

	inquiry, err := h.usecase.AddNote(c.Request.Context(), c.Param("id"), payload.Content, payload.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Note added successfully", response.FromInquiry(inquiry, nil, time.Now())))
}

// Update godoc
// @Summary  Edit inquiry triage fields
// @Tags     inquiries
// @Accept   json
// @Produce  json
// @Param    id   path string                      true "Inquiry ID"
// @Param    body body request.InquiryPatchRequest true "Fields to change"
// @Success  200 {object} response.Envelope
// @Router   /inquiries/{id} [patch]
func (h *InquiryHandler) Update(c *gin.Context) {
	var payload request.InquiryPatchRequest
	if !bindJSON(c, &payload) {
		return
	}

	inquiry, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToPatch())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Inquiry updated successfully", response.FromInquiry(inquiry, nil, time.Now())))
}

// Stats godoc
// @Summary  Inquiry statistics
// @Tags     inquiries
// @Produce  json
// @Success  200 {object} response.Envelope
// @Router   /inquiries/stats [get]
func (h *InquiryHandler) Stats(c *gin.Context) {
	stats, err := h.usecase.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInquiryStats(stats)))
}

// Search godoc
// @Summary  Search inquiries by name, company and product
// @Tags     inquiries
// @Produce  json
// @Param    q     query string true  "Search text"
// @Param    limit query int    false "Maximum results"
// @Success  200 {object} response.Envelope
// @Router   /inquiries/search [get]
func (h *InquiryHandler) Search(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		c.JSON(errInvalidQuery.HTTPStatus, errInvalidQuery.ToHTTPError())
		return
	}

	found, err := h.usecase.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromInquiries(found, time.Now())))
}

// Export godoc
// @Summary  Download matching inquiries as a spreadsheet
// @Tags     inquiries
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    status   query string false "Status filter"
// @Param    product  query string false "Product filter"
// @Param    priority query string false "Priority filter"
// @Router   /inquiries/export [get]
func (h *InquiryHandler) Export(c *gin.Context) {
	items, err := h.usecase.Export(c.Request.Context(), inquiryFilter(c))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	f, err := buildWorkbook("Inquiries", inquiryExportHeaders, inquiryRows(items))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := writeWorkbook(c, "inquiries", f); err != nil {
		h.log.Warn("export write interrupted", zap.Error(err))
	}
}
