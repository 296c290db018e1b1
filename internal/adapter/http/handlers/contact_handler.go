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
)

// ContactHandler serves the public contact form and the contact admin API.
type ContactHandler struct {
	usecase usecase.IContactUseCase
	log     *zap.Logger
}

func NewContactHandler(uc usecase.IContactUseCase, log *zap.Logger) *ContactHandler {
	return &ContactHandler{usecase: uc, log: handlerLogger(log, "contact_handler")}
}

// Submit godoc
// @Summary  Submit the contact form
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    body body request.ContactRequest true "Contact form"
// @Success  201 {object} response.Envelope
// @Failure  400 {object} pkg.HTTPError
// @Router   /contacts [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var payload request.ContactRequest
	if !bindJSON(c, &payload) {
		return
	}

	contact, err := h.usecase.Submit(c.Request.Context(), payload.ToSubmission(c.ClientIP(), c.Request.UserAgent()))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, response.WithMessage(
		"Thank you for your message. We will get back to you soon!",
		response.ContactSubmitted{ID: contact.ID, SubmittedAt: contact.CreatedAt},
	))
}

// List godoc
// @Summary  List contacts
// @Tags     contacts
// @Produce  json
// @Param    page   query int    false "Page (1-based)"
// @Param    limit  query int    false "Page size"
// @Param    status query string false "Status filter"
// @Success  200 {object} response.Envelope
// @Router   /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	page, ok1 := queryInt(c, "page", 1)
	limit, ok2 := queryInt(c, "limit", 0)
	if !ok1 || !ok2 {
		c.JSON(errInvalidQuery.HTTPStatus, errInvalidQuery.ToHTTPError())
		return
	}

	filter := entities.ContactFilter{Status: entities.ContactStatus(c.Query("status"))}
	result, err := h.usecase.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	items := response.FromContacts(result.Items, time.Now())
	c.JSON(http.StatusOK, response.OK(response.FromPage(result, items)))
}

// Get godoc
// @Summary  Get a contact with resolved staff references
// @Tags     contacts
// @Produce  json
// @Param    id path string true "Contact ID"
// @Success  200 {object} response.Envelope
// @Failure  404 {object} pkg.HTTPError
// @Router   /contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	detail, err := h.usecase.GetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromContact(detail.Contact, detail.Users, time.Now())))
}

// UpdateStatus godoc
// @Summary  Change a contact's status
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    id   path string                true "Contact ID"
// @Param    body body request.StatusRequest true "New status"
// @Success  200 {object} response.Envelope
// @Failure  400 {object} pkg.HTTPError
// @Failure  404 {object} pkg.HTTPError
// @Router   /contacts/{id}/status [put]
func (h *ContactHandler) UpdateStatus(c *gin.Context) {
	var payload request.StatusRequest
	if !bindJSON(c, &payload) {
		return
	}

	contact, err := h.usecase.UpdateStatus(c.Request.Context(), c.Param("id"), payload.Status)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Contact status updated successfully", response.FromContact(contact, nil, time.Now())))
}

// AddNote godoc
// @Summary  Append a note to a contact
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    id   path string              true "Contact ID"
// @Param    body body request.NoteRequest true "Note"
// @Success  200 {object} response.Envelope
// @Router   /contacts/{id}/notes [post]
func (h *ContactHandler) AddNote(c *gin.Context) {
	var payload request.NoteRequest
	if !bindJSON(c, &payload) {
		return
	}

	contact, err := h.usecase.AddNote(c.Request.Context(), c.Param("id"), payload.Content, payload.UserID)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Note added successfully", response.FromContact(contact, nil, time.Now())))
}

// Update godoc
// @Summary  Edit contact triage fields
// @Tags     contacts
// @Accept   json
// @Produce  json
// @Param    id   path string                      true "Contact ID"
// @Param    body body request.ContactPatchRequest true "Fields to change"
// @Success  200 {object} response.Envelope
// @Router   /contacts/{id} [patch]
func (h *ContactHandler) Update(c *gin.Context) {
	var payload request.ContactPatchRequest
	if !bindJSON(c, &payload) {
		return
	}

	contact, err := h.usecase.Update(c.Request.Context(), c.Param("id"), payload.ToPatch())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.WithMessage("Contact updated successfully", response.FromContact(contact, nil, time.Now())))
}

// Stats godoc
// @Summary  Contact statistics
// @Tags     contacts
// @Produce  json
// @Success  200 {object} response.Envelope
// @Router   /contacts/stats [get]
func (h *ContactHandler) Stats(c *gin.Context) {
	stats, err := h.usecase.Stats(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromContactStats(stats)))
}

// Search godoc
// @Summary  Search contacts by name, subject and message
// @Tags     contacts
// @Produce  json
// @Param    q     query string true  "Search text"
// @Param    limit query int    false "Maximum results"
// @Success  200 {object} response.Envelope
// @Router   /contacts/search [get]
func (h *ContactHandler) Search(c *gin.Context) {
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
	c.JSON(http.StatusOK, response.OK(response.FromContacts(found, time.Now())))
}

// Export godoc
// @Summary  Download matching contacts as a spreadsheet
// @Tags     contacts
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param    status query string false "Status filter"
// @Router   /contacts/export [get]
func (h *ContactHandler) Export(c *gin.Context) {
	filter := entities.ContactFilter{Status: entities.ContactStatus(c.Query("status"))}
	items, err := h.usecase.Export(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	f, err := buildWorkbook("Contacts", contactExportHeaders, contactRows(items))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	if err := writeWorkbook(c, "contacts", f); err != nil {
		h.log.Warn("export write interrupted", zap.Error(err))
	}
}
