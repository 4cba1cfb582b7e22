package handlers

import (
	"net/http"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LeadHandler serves the contact, custom package and coming-soon forms
type LeadHandler struct {
	leads    *services.LeadService
	renderer *Renderer
	logger   *logrus.Logger
}

// NewLeadHandler creates a new lead form handler
func NewLeadHandler(leads *services.LeadService, renderer *Renderer, logger *logrus.Logger) *LeadHandler {
	return &LeadHandler{
		leads:    leads,
		renderer: renderer,
		logger:   logger,
	}
}

// ContactPage handles GET /contact
func (h *LeadHandler) ContactPage(c *gin.Context) {
	h.renderer.Page(c, http.StatusOK, "contact.html", "contact", "Contact", gin.H{
		"Form": models.ContactMessage{},
	})
}

// SubmitContact handles POST /contact. The form is cleared only on success.
func (h *LeadHandler) SubmitContact(c *gin.Context) {
	var msg models.ContactMessage
	if err := c.ShouldBind(&msg); err != nil {
		h.logger.WithError(err).Warn("Failed to bind contact form")
	}

	success, err := h.leads.SubmitContact(c.Request.Context(), msg, origin(c))
	if err != nil {
		h.renderer.Page(c, statusFor(err), "contact.html", "contact", "Contact", gin.H{
			"Form":  msg,
			"Error": services.UserMessage(err, services.MsgGenericFailure),
		})
		return
	}

	h.renderer.Page(c, http.StatusOK, "contact.html", "contact", "Contact", gin.H{
		"Form":    models.ContactMessage{},
		"Success": success,
	})
}

func (h *LeadHandler) renderCustomPackage(c *gin.Context, status int, form models.CustomPackageRequest, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Form"] = form
	data["ServiceOptions"] = models.AdditionalServiceOptions
	h.renderer.Page(c, status, "custom_package.html", "custom-package", "Pakket op maat", data)
}

// CustomPackagePage handles GET /custom-package
func (h *LeadHandler) CustomPackagePage(c *gin.Context) {
	h.renderCustomPackage(c, http.StatusOK, models.NewCustomPackageRequest(), nil)
}

// SubmitCustomPackage handles POST /custom-package
func (h *LeadHandler) SubmitCustomPackage(c *gin.Context) {
	form := models.NewCustomPackageRequest()
	if err := c.ShouldBind(&form); err != nil {
		h.logger.WithError(err).Warn("Failed to bind custom package form")
	}

	success, err := h.leads.SubmitCustomPackage(c.Request.Context(), form, origin(c))
	if err != nil {
		h.renderCustomPackage(c, statusFor(err), form, gin.H{
			"Error": services.UserMessage(err, services.MsgGenericFailure),
		})
		return
	}

	h.renderCustomPackage(c, http.StatusOK, models.NewCustomPackageRequest(), gin.H{"Success": success})
}

// ComingSoon handles GET /coming-soon
func (h *LeadHandler) ComingSoon(c *gin.Context) {
	h.renderer.Page(c, http.StatusOK, "coming_soon.html", "home", "Binnenkort", nil)
}

// Subscribe handles POST /coming-soon
func (h *LeadHandler) Subscribe(c *gin.Context) {
	var sub models.Subscription
	if err := c.ShouldBind(&sub); err != nil {
		h.logger.WithError(err).Warn("Failed to bind subscribe form")
	}

	success, err := h.leads.Subscribe(c.Request.Context(), sub, origin(c))
	if err != nil {
		h.renderer.Page(c, statusFor(err), "coming_soon.html", "home", "Binnenkort", gin.H{
			"Email": sub.Email,
			"Error": services.UserMessage(err, services.MsgGenericFailure),
		})
		return
	}

	h.renderer.Page(c, http.StatusOK, "coming_soon.html", "home", "Binnenkort", gin.H{"Success": success})
}
