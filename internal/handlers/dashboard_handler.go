package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/admin"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/middleware"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// recentLeadsLimit is how many journal entries the leads view lists
const recentLeadsLimit = 50

// Dashboard messages
const (
	MsgJournalDisabled   = "Het leadjournaal is niet geconfigureerd."
	MsgLeadsUnavailable  = "Er is een fout opgetreden bij het ophalen van de aanvragen."
	MsgBackgroundUpdated = "Achtergrond bijgewerkt."
	MsgNoFileChosen      = "Kies eerst een afbeelding."
)

var notices = map[string]string{
	"package-saved":   services.MsgPackageSaved,
	"service-saved":   services.MsgServiceSaved,
	"package-deleted": services.MsgPackageDeleted,
	"service-deleted": services.MsgServiceDeleted,
}

// LeadLister reads the lead journal
type LeadLister interface {
	ListRecent(limit int) ([]models.Lead, error)
}

// DashboardHandler serves the admin dashboard
type DashboardHandler struct {
	admin       *services.AdminService
	catalog     *services.CatalogService
	backgrounds *services.BackgroundService
	leads       LeadLister
	renderer    *Renderer
	logger      *logrus.Logger
}

// NewDashboardHandler creates a new dashboard handler. leads may be nil
// when no journal is configured.
func NewDashboardHandler(
	adminService *services.AdminService,
	catalog *services.CatalogService,
	backgrounds *services.BackgroundService,
	leads LeadLister,
	renderer *Renderer,
	logger *logrus.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		admin:       adminService,
		catalog:     catalog,
		backgrounds: backgrounds,
		leads:       leads,
		renderer:    renderer,
		logger:      logger,
	}
}

func (h *DashboardHandler) renderIndex(c *gin.Context, status int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Dashboard"] = h.admin.Dashboard(c.Request.Context())
	h.renderer.Page(c, status, "dashboard.html", "", "Dashboard", data)
}

// Index handles GET /dashboard
func (h *DashboardHandler) Index(c *gin.Context) {
	h.renderIndex(c, http.StatusOK, gin.H{"Notice": notices[c.Query("notice")]})
}

func draftURL(kind admin.DraftKind, draftID string) string {
	return fmt.Sprintf("/dashboard/%ss/drafts/%s", kind, draftID)
}

// NewPackage handles GET /dashboard/packages/new
func (h *DashboardHandler) NewPackage(c *gin.Context) {
	draftID, _ := h.admin.OpenPackageDraft(c.Request.Context(), "")
	c.Redirect(http.StatusSeeOther, draftURL(admin.PackageDraftKind, draftID))
}

// EditPackage handles GET /dashboard/packages/:id/edit
func (h *DashboardHandler) EditPackage(c *gin.Context) {
	draftID, err := h.admin.OpenPackageDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderIndex(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgPackagesUnavailable)})
		return
	}
	c.Redirect(http.StatusSeeOther, draftURL(admin.PackageDraftKind, draftID))
}

// NewService handles GET /dashboard/services/new
func (h *DashboardHandler) NewService(c *gin.Context) {
	draftID, _ := h.admin.OpenServiceDraft(c.Request.Context(), "")
	c.Redirect(http.StatusSeeOther, draftURL(admin.ServiceDraftKind, draftID))
}

// EditService handles GET /dashboard/services/:id/edit
func (h *DashboardHandler) EditService(c *gin.Context) {
	draftID, err := h.admin.OpenServiceDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderIndex(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgServicesUnavailable)})
		return
	}
	c.Redirect(http.StatusSeeOther, draftURL(admin.ServiceDraftKind, draftID))
}

func statusForAdmin(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, admin.ErrDraftNotFound), errors.Is(err, admin.ErrWrongDraftKind):
		return http.StatusNotFound
	case errors.Is(err, admin.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return statusFor(err)
}

func (h *DashboardHandler) renderDraft(c *gin.Context, status int, draftID string, message string) {
	draft, ok := h.admin.Drafts().Get(draftID)
	if !ok {
		h.renderIndex(c, http.StatusNotFound, gin.H{"Error": services.MsgDraftExpired})
		return
	}

	data := gin.H{
		"DraftID": draftID,
		"Error":   message,
		"IsEdit":  draft.IsEdit(),
	}
	if draft.Kind == admin.ServiceDraftKind {
		data["Draft"] = draft.Service
		h.renderer.Page(c, status, "service_form.html", "", "Service bewerken", data)
		return
	}
	data["Draft"] = draft.Package
	data["RoomKinds"] = models.RoomKinds
	h.renderer.Page(c, status, "package_form.html", "", "Pakket bewerken", data)
}

// ShowDraft handles GET /dashboard/packages/drafts/:draft and the service equivalent
func (h *DashboardHandler) ShowDraft(c *gin.Context) {
	h.renderDraft(c, http.StatusOK, c.Param("draft"), "")
}

// readUploads reads every file posted under field
func (h *DashboardHandler) readUploads(form *multipart.Form, field string) ([]admin.Upload, error) {
	if form == nil {
		return nil, nil
	}
	var uploads []admin.Upload
	for _, header := range form.File[field] {
		upload, err := admin.ReadUpload(header, h.admin.MaxUploadBytes())
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, upload)
	}
	return uploads, nil
}

func (h *DashboardHandler) parseMultipart(c *gin.Context) *multipart.Form {
	form, err := c.MultipartForm()
	if err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			h.logger.WithError(err).Warn("Failed to parse multipart form")
		}
		return nil
	}
	return form
}

// parseAction splits "remove-photo:1:https://..." into its name, index and
// reference. The reference may itself contain colons.
func parseAction(action string) (name string, index int, ref string) {
	parts := strings.SplitN(action, ":", 3)
	name, index = parts[0], -1
	if len(parts) > 1 {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			index = n
		}
	}
	if len(parts) > 2 {
		ref = parts[2]
	}
	return name, index, ref
}

// UpdatePackageDraft handles POST /dashboard/packages/drafts/:draft. The
// typed values and any chosen photos are kept in the draft first, then the
// button named in "action" runs.
func (h *DashboardHandler) UpdatePackageDraft(c *gin.Context) {
	draftID := c.Param("draft")
	form := h.parseMultipart(c)
	drafts := h.admin.Drafts()

	action, index, ref := parseAction(c.PostForm("action"))
	if action == "cancel" {
		drafts.Discard(draftID)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	values := c.Request.PostForm
	if form != nil {
		values = form.Value
	}
	if err := drafts.UpdatePackage(draftID, func(d *admin.PackageDraft) error {
		return d.ApplyForm(values)
	}); err != nil {
		h.draftFailure(c, draftID, err)
		return
	}

	draft, ok := drafts.Get(draftID)
	if !ok {
		h.draftFailure(c, draftID, admin.ErrDraftNotFound)
		return
	}
	for i := range draft.Package.Destinations {
		uploads, err := h.readUploads(form, admin.PhotoField(i))
		if err == nil {
			err = h.admin.StagePackagePhotos(draftID, i, uploads)
		}
		if err != nil {
			h.draftFailure(c, draftID, err)
			return
		}
	}

	var err error
	switch action {
	case "save":
		var pkg *models.Package
		if pkg, err = h.admin.SubmitPackage(c.Request.Context(), middleware.GetSession(c).BackendToken(), draftID); err == nil {
			h.logger.WithField("package_id", pkg.ID).Debug("Package draft submitted")
			c.Redirect(http.StatusSeeOther, "/dashboard?notice=package-saved")
			return
		}
	case "add-destination":
		err = drafts.UpdatePackage(draftID, func(d *admin.PackageDraft) error {
			d.AddDestination()
			return nil
		})
	case "remove-destination":
		err = drafts.UpdatePackage(draftID, func(d *admin.PackageDraft) error {
			return d.RemoveDestination(index)
		})
	case "remove-photo":
		err = drafts.UpdatePackage(draftID, func(d *admin.PackageDraft) error {
			d.RemovePhoto(index, ref)
			return nil
		})
	}
	if err != nil {
		h.draftFailure(c, draftID, err)
		return
	}

	c.Redirect(http.StatusSeeOther, draftURL(admin.PackageDraftKind, draftID))
}

// UpdateServiceDraft handles POST /dashboard/services/drafts/:draft
func (h *DashboardHandler) UpdateServiceDraft(c *gin.Context) {
	draftID := c.Param("draft")
	form := h.parseMultipart(c)
	drafts := h.admin.Drafts()

	action, _, ref := parseAction(c.PostForm("action"))
	if action == "cancel" {
		drafts.Discard(draftID)
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}

	values := c.Request.PostForm
	if form != nil {
		values = form.Value
	}
	if err := drafts.UpdateService(draftID, func(d *admin.ServiceDraft) error {
		return d.ApplyForm(values)
	}); err != nil {
		h.draftFailure(c, draftID, err)
		return
	}

	uploads, err := h.readUploads(form, admin.ServicePhotoField)
	if err == nil {
		err = h.admin.StageServicePhotos(draftID, uploads)
	}
	if err != nil {
		h.draftFailure(c, draftID, err)
		return
	}

	switch action {
	case "save":
		var svc *models.Service
		if svc, err = h.admin.SubmitService(c.Request.Context(), middleware.GetSession(c).BackendToken(), draftID); err == nil {
			h.logger.WithField("service_id", svc.ID).Debug("Service draft submitted")
			c.Redirect(http.StatusSeeOther, "/dashboard?notice=service-saved")
			return
		}
	case "remove-photo":
		err = drafts.UpdateService(draftID, func(d *admin.ServiceDraft) error {
			d.RemovePhoto(ref)
			return nil
		})
	}
	if err != nil {
		h.draftFailure(c, draftID, err)
		return
	}

	c.Redirect(http.StatusSeeOther, draftURL(admin.ServiceDraftKind, draftID))
}

func (h *DashboardHandler) draftFailure(c *gin.Context, draftID string, err error) {
	status := statusForAdmin(err)
	if status == http.StatusNotFound {
		h.renderIndex(c, status, gin.H{"Error": services.AdminMessage(err, services.MsgSaveFailed)})
		return
	}
	h.renderDraft(c, status, draftID, services.AdminMessage(err, services.MsgSaveFailed))
}

// ConfirmDeletePackage handles GET /dashboard/packages/:id/delete
func (h *DashboardHandler) ConfirmDeletePackage(c *gin.Context) {
	pkg, err := h.catalog.GetPackage(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderIndex(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgPackagesUnavailable)})
		return
	}
	h.renderer.Page(c, http.StatusOK, "confirm_delete.html", "", "Verwijderen", gin.H{
		"Kind":   "pakket",
		"Name":   pkg.Name,
		"Action": fmt.Sprintf("/dashboard/packages/%s/delete", pkg.ID),
	})
}

// DeletePackage handles POST /dashboard/packages/:id/delete. Only an
// explicit confirm=yes deletes.
func (h *DashboardHandler) DeletePackage(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	if err := h.admin.DeletePackage(c.Request.Context(), middleware.GetSession(c).BackendToken(), c.Param("id")); err != nil {
		h.renderIndex(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgDeleteFailed)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?notice=package-deleted")
}

// ConfirmDeleteService handles GET /dashboard/services/:id/delete
func (h *DashboardHandler) ConfirmDeleteService(c *gin.Context) {
	svc, err := h.catalog.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderIndex(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgServicesUnavailable)})
		return
	}
	h.renderer.Page(c, http.StatusOK, "confirm_delete.html", "", "Verwijderen", gin.H{
		"Kind":   "service",
		"Name":   svc.Name,
		"Action": fmt.Sprintf("/dashboard/services/%s/delete", svc.ID),
	})
}

// DeleteService handles POST /dashboard/services/:id/delete
func (h *DashboardHandler) DeleteService(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		c.Redirect(http.StatusSeeOther, "/dashboard")
		return
	}
	if err := h.admin.DeleteService(c.Request.Context(), middleware.GetSession(c).BackendToken(), c.Param("id")); err != nil {
		h.renderIndex(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgDeleteFailed)})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard?notice=service-deleted")
}

func (h *DashboardHandler) renderBackgrounds(c *gin.Context, status int, data gin.H, known ...*models.BackgroundImage) {
	if data == nil {
		data = gin.H{}
	}
	data["Slots"] = h.backgrounds.Slots(c.Request.Context(), known...)
	h.renderer.Page(c, status, "backgrounds.html", "", "Achtergronden", data)
}

// Backgrounds handles GET /dashboard/backgrounds
func (h *DashboardHandler) Backgrounds(c *gin.Context) {
	h.renderBackgrounds(c, http.StatusOK, nil)
}

// UpdateBackground handles POST /dashboard/backgrounds/:page
func (h *DashboardHandler) UpdateBackground(c *gin.Context) {
	pageName := c.Param("page")

	header, err := c.FormFile("image")
	if err != nil {
		h.renderBackgrounds(c, http.StatusUnprocessableEntity, gin.H{"Error": MsgNoFileChosen, "ErrorPage": pageName})
		return
	}
	upload, err := admin.ReadUpload(header, h.admin.MaxUploadBytes())
	if err != nil {
		h.renderBackgrounds(c, statusForAdmin(err), gin.H{"Error": services.AdminMessage(err, services.MsgBackgroundUploadFailed), "ErrorPage": pageName})
		return
	}

	img, err := h.backgrounds.Update(c.Request.Context(), middleware.GetSession(c).BackendToken(), pageName, upload)
	if err != nil {
		status := statusFor(err)
		if errors.Is(err, services.ErrUnknownPage) {
			status = http.StatusNotFound
		}
		h.renderBackgrounds(c, status, gin.H{
			"Error":     services.UserMessage(err, services.MsgBackgroundUploadFailed),
			"ErrorPage": pageName,
		})
		return
	}

	h.renderBackgrounds(c, http.StatusOK, gin.H{
		"Notice":     MsgBackgroundUpdated,
		"NoticePage": pageName,
	}, img)
}

// Leads handles GET /dashboard/leads
func (h *DashboardHandler) Leads(c *gin.Context) {
	data := gin.H{}
	switch {
	case h.leads == nil:
		data["Error"] = MsgJournalDisabled
	default:
		leads, err := h.leads.ListRecent(recentLeadsLimit)
		if err != nil {
			h.logger.WithError(err).Error("Failed to list leads")
			data["Error"] = MsgLeadsUnavailable
		}
		data["Leads"] = leads
	}
	h.renderer.Page(c, http.StatusOK, "leads.html", "", "Aanvragen", data)
}
