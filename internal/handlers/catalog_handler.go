package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/booking"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/listing"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/utils"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/whatsapp"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves the package and service pages
type CatalogHandler struct {
	catalog   *services.CatalogService
	bookings  *services.BookingService
	leads     *services.LeadService
	brochures *services.BrochureService
	visits    *booking.Visits
	renderer  *Renderer
	site      config.SiteConfig
	logger    *logrus.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(
	catalog *services.CatalogService,
	bookings *services.BookingService,
	leads *services.LeadService,
	brochures *services.BrochureService,
	visits *booking.Visits,
	renderer *Renderer,
	site config.SiteConfig,
	logger *logrus.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog:   catalog,
		bookings:  bookings,
		leads:     leads,
		brochures: brochures,
		visits:    visits,
		renderer:  renderer,
		site:      site,
		logger:    logger,
	}
}

func origin(c *gin.Context) services.Origin {
	return services.Origin{IPAddress: utils.ClientIP(c), UserAgent: utils.UserAgent(c)}
}

// parseFilter reads the filter; a malformed value is reported and the
// listing falls back to no filtering.
func parseFilter(c *gin.Context) (listing.Filter, string) {
	filter, err := listing.ParseFilter(c.Request.URL.Query())
	if err != nil {
		return listing.Filter{SortBy: listing.SortNone}, services.UserMessage(err, "")
	}
	return filter, ""
}

// ListPackages handles GET /umrah
func (h *CatalogHandler) ListPackages(c *gin.Context) {
	filter, filterError := parseFilter(c)
	data := gin.H{
		"FilterValues": c.Request.URL.Query(),
		"FilterError":  filterError,
		"SortOptions":  sortOptions,
	}

	packages, err := h.catalog.ListPackages(c.Request.Context(), filter)
	if err != nil {
		data["Error"] = services.UserMessage(err, services.MsgPackagesUnavailable)
		h.renderer.Page(c, http.StatusBadGateway, "umrah.html", "umrah", "Umrah pakketten", data)
		return
	}

	data["Packages"] = packages
	data["Filtered"] = !filter.IsZero()
	h.renderer.Page(c, http.StatusOK, "umrah.html", "umrah", "Umrah pakketten", data)
}

func (h *CatalogHandler) loadPackage(c *gin.Context) (*models.Package, bool) {
	pkg, err := h.catalog.GetPackage(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		h.renderer.NotFound(c, services.MsgPackageNotFound)
		return nil, false
	}
	if err != nil {
		h.renderer.Failure(c, services.UserMessage(err, services.MsgPackagesUnavailable))
		return nil, false
	}
	return pkg, true
}

// openVisit returns the posted visit id, or the id of a new visit when the
// posted one is unknown. Visits are only created by form posts.
func (h *CatalogHandler) openVisit(id, packageID string) string {
	if _, ok := h.visits.Lookup(id, packageID); ok {
		return id
	}
	id, _ = h.visits.Begin(packageID)
	return id
}

func (h *CatalogHandler) renderPackage(c *gin.Context, status int, pkg *models.Package, visitID string, visit booking.Visit, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Package"] = pkg
	data["VisitID"] = visitID
	data["Cart"] = visit.Cart
	data["Total"] = visit.Cart.Total(*pkg)
	data["UserInfo"] = visit.UserInfo
	data["WhatsAppLink"] = whatsapp.Link(h.site.WhatsAppNumber, whatsapp.PackageMessage(pkg.Name))
	h.renderer.Page(c, status, "package.html", "umrah", pkg.Name, data)
}

// PackageDetail handles GET /umrah/:id. Without a known visit id the page
// shows an empty cart and no visit is stored.
func (h *CatalogHandler) PackageDetail(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}
	visitID := c.Query("visit")
	visit, found := h.visits.Lookup(visitID, pkg.ID)
	if !found {
		visitID = ""
	}
	h.renderPackage(c, http.StatusOK, pkg, visitID, visit, nil)
}

// ToggleRoom handles POST /umrah/:id/rooms
func (h *CatalogHandler) ToggleRoom(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}
	visitID := h.openVisit(c.PostForm("visit"), pkg.ID)

	destination, err := strconv.Atoi(c.PostForm("destination"))
	if err != nil {
		destination = -1
	}
	kind := models.RoomKind(c.PostForm("room"))
	_, err = h.visits.Update(visitID, pkg.ID, func(visit *booking.Visit) error {
		cart, err := visit.Cart.Toggle(*pkg, destination, kind)
		if err != nil {
			return err
		}
		visit.Cart = cart
		return nil
	})
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"package_id":  pkg.ID,
			"destination": c.PostForm("destination"),
			"room":        c.PostForm("room"),
		}).WithError(err).Warn("Rejected room toggle")
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/umrah/%s?visit=%s#rooms", url.PathEscape(pkg.ID), url.QueryEscape(visitID)))
}

// SubmitBooking handles POST /umrah/:id/booking. On failure the cart and
// the typed contact details stay in the visit.
func (h *CatalogHandler) SubmitBooking(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}
	visitID := h.openVisit(c.PostForm("visit"), pkg.ID)

	var info models.UserInfo
	if err := c.ShouldBind(&info); err != nil {
		h.logger.WithError(err).Warn("Failed to bind booking form")
	}
	visit, err := h.visits.Update(visitID, pkg.ID, func(visit *booking.Visit) error {
		visit.UserInfo = info
		return nil
	})
	if err != nil {
		// expired between the lookup and the update
		visit = booking.Visit{PackageID: pkg.ID, UserInfo: info}
	}

	message, err := h.bookings.Submit(c.Request.Context(), *pkg, visit.Cart, info, origin(c))
	if err != nil {
		h.renderPackage(c, statusFor(err), pkg, visitID, visit, gin.H{
			"BookingError": services.UserMessage(err, services.MsgGenericFailure),
		})
		return
	}

	h.visits.End(visitID)
	h.renderPackage(c, http.StatusOK, pkg, "", booking.Visit{}, gin.H{"BookingSuccess": message})
}

// PackageBrochure handles GET /umrah/:id/brochure.pdf
func (h *CatalogHandler) PackageBrochure(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}
	pdf, err := h.brochures.PackageBrochure(*pkg)
	if err != nil {
		h.renderer.Failure(c, services.MsgGenericFailure)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="guide2umrah-%s.pdf"`, pkg.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// PackageWhatsAppQR handles GET /umrah/:id/whatsapp.png
func (h *CatalogHandler) PackageWhatsAppQR(c *gin.Context) {
	pkg, ok := h.loadPackage(c)
	if !ok {
		return
	}
	h.qr(c, whatsapp.Link(h.site.WhatsAppNumber, whatsapp.PackageMessage(pkg.Name)))
}

func (h *CatalogHandler) qr(c *gin.Context, link string) {
	png, err := whatsapp.QRCode(link, whatsapp.DefaultQRSize)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render QR code")
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// ListServices handles GET /services
func (h *CatalogHandler) ListServices(c *gin.Context) {
	filter, filterError := parseFilter(c)
	data := gin.H{
		"FilterValues": c.Request.URL.Query(),
		"FilterError":  filterError,
		"SortOptions":  sortOptions,
	}

	list, err := h.catalog.ListServices(c.Request.Context(), filter)
	if err != nil {
		data["Error"] = services.UserMessage(err, services.MsgServicesUnavailable)
		h.renderer.Page(c, http.StatusBadGateway, "services.html", "services", "Services", data)
		return
	}

	data["Services"] = list
	data["Filtered"] = !filter.IsZero()
	h.renderer.Page(c, http.StatusOK, "services.html", "services", "Services", data)
}

func (h *CatalogHandler) loadService(c *gin.Context) (*models.Service, bool) {
	svc, err := h.catalog.GetService(c.Request.Context(), c.Param("id"))
	if errors.Is(err, services.ErrNotFound) {
		h.renderer.NotFound(c, services.MsgServiceNotFound)
		return nil, false
	}
	if err != nil {
		h.renderer.Failure(c, services.UserMessage(err, services.MsgServicesUnavailable))
		return nil, false
	}
	return svc, true
}

func (h *CatalogHandler) renderService(c *gin.Context, status int, svc *models.Service, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Service"] = svc
	data["WhatsAppLink"] = whatsapp.Link(h.site.WhatsAppNumber, whatsapp.ServiceMessage(svc.Name))
	if _, ok := data["UserInfo"]; !ok {
		data["UserInfo"] = models.UserInfo{}
	}
	h.renderer.Page(c, status, "service.html", "services", svc.Name, data)
}

// ServiceDetail handles GET /services/:id
func (h *CatalogHandler) ServiceDetail(c *gin.Context) {
	svc, ok := h.loadService(c)
	if !ok {
		return
	}
	h.renderService(c, http.StatusOK, svc, nil)
}

// SubmitInquiry handles POST /services/:id/inquiry
func (h *CatalogHandler) SubmitInquiry(c *gin.Context) {
	svc, ok := h.loadService(c)
	if !ok {
		return
	}

	var info models.UserInfo
	if err := c.ShouldBind(&info); err != nil {
		h.logger.WithError(err).Warn("Failed to bind inquiry form")
	}

	message, err := h.leads.SubmitServiceInquiry(c.Request.Context(), *svc, info, origin(c))
	if err != nil {
		h.renderService(c, statusFor(err), svc, gin.H{
			"UserInfo":     info,
			"InquiryError": services.UserMessage(err, services.MsgGenericFailure),
		})
		return
	}
	h.renderService(c, http.StatusOK, svc, gin.H{"InquirySuccess": message})
}

// ServiceWhatsAppQR handles GET /services/:id/whatsapp.png
func (h *CatalogHandler) ServiceWhatsAppQR(c *gin.Context) {
	svc, ok := h.loadService(c)
	if !ok {
		return
	}
	h.qr(c, whatsapp.Link(h.site.WhatsAppNumber, whatsapp.ServiceMessage(svc.Name)))
}

// SortOption is one entry of the sort select
type SortOption struct {
	Value listing.SortBy
	Label string
}

var sortOptions = []SortOption{
	{listing.SortNone, "Standaard"},
	{listing.SortPriceAsc, "Prijs: laag naar hoog"},
	{listing.SortPriceDesc, "Prijs: hoog naar laag"},
	{listing.SortDateAsc, "Datum: vroegste eerst"},
	{listing.SortDateDesc, "Datum: laatste eerst"},
}
