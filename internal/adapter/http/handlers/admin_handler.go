package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	response "solstice_leads/internal/adapter/http/dto/response"
	"solstice_leads/internal/usecase"
)

const (
	defaultActivityLimit = 20
	defaultPeriodDays    = 30
)

// AdminHandler exposes the cross-kind dashboard views.
type AdminHandler struct {
	usecase usecase.IDashboardUseCase
	log     *zap.Logger
}

func NewAdminHandler(uc usecase.IDashboardUseCase, log *zap.Logger) *AdminHandler {
	return &AdminHandler{usecase: uc, log: handlerLogger(log, "admin_handler")}
}

// Dashboard godoc
// @Summary  Overview, breakdowns and six-month trends
// @Tags     admin
// @Produce  json
// @Success  200 {object} response.Envelope
// @Router   /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	d, err := h.usecase.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromDashboard(d)))
}

// RecentActivity godoc
// @Summary  Newest contacts and inquiries in one feed
// @Tags     admin
// @Produce  json
// @Param    limit query int false "Feed size" default(20)
// @Success  200 {object} response.Envelope
// @Router   /admin/recent-activity [get]
func (h *AdminHandler) RecentActivity(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultActivityLimit)
	if !ok {
		c.JSON(errInvalidQuery.HTTPStatus, errInvalidQuery.ToHTTPError())
		return
	}

	items, err := h.usecase.RecentActivity(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromActivity(items)))
}

// Analytics godoc
// @Summary  Daily submission series
// @Tags     admin
// @Produce  json
// @Param    period query int false "Trailing days (1-365)" default(30)
// @Success  200 {object} response.Envelope
// @Failure  400 {object} pkg.HTTPError
// @Router   /admin/analytics [get]
func (h *AdminHandler) Analytics(c *gin.Context) {
	period, ok := queryInt(c, "period", defaultPeriodDays)
	if !ok {
		c.JSON(errInvalidQuery.HTTPStatus, errInvalidQuery.ToHTTPError())
		return
	}

	a, err := h.usecase.Analytics(c.Request.Context(), period)
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(response.FromAnalytics(a)))
}
