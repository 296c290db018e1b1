package routes

import (
	"github.com/gin-gonic/gin"

	"solstice_leads/internal/adapter/http/handlers"
)

const (
	PathContacts  = "/contacts"
	PathInquiries = "/inquiries"
	PathAdmin     = "/admin"
)

func addPingRoutes(rg *gin.RouterGroup, h *handlers.HealthHandler) {
	rg.GET("/ping", h.Ping)
	rg.GET("/health", h.Health)
}

func addContactRoutes(rg *gin.RouterGroup, h *handlers.ContactHandler) {
	contacts := rg.Group(PathContacts)
	{
		// Public form endpoint.
		contacts.POST("", h.Submit)

		contacts.GET("", h.List)
		contacts.GET("/stats", h.Stats)
		contacts.GET("/search", h.Search)
		contacts.GET("/export", h.Export)
		contacts.GET("/:id", h.Get)
		contacts.PATCH("/:id", h.Update)
		contacts.PUT("/:id/status", h.UpdateStatus)
		contacts.POST("/:id/notes", h.AddNote)
	}
}

func addInquiryRoutes(rg *gin.RouterGroup, h *handlers.InquiryHandler) {
	inquiries := rg.Group(PathInquiries)
	{
		// Public form endpoint.
		inquiries.POST("", h.Submit)

		inquiries.GET("", h.List)
		inquiries.GET("/stats", h.Stats)
		inquiries.GET("/search", h.Search)
		inquiries.GET("/export", h.Export)
		inquiries.GET("/:id", h.Get)
		inquiries.PATCH("/:id", h.Update)
		inquiries.PUT("/:id/status", h.UpdateStatus)
		inquiries.POST("/:id/quote", h.AddQuote)
		inquiries.POST("/:id/notes", h.AddNote)
	}
}

func addAdminRoutes(rg *gin.RouterGroup, h *handlers.AdminHandler) {
	admin := rg.Group(PathAdmin)
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/recent-activity", h.RecentActivity)
		admin.GET("/analytics", h.Analytics)
	}
}
