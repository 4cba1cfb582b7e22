package handlers

import (
	"errors"
	"net/http"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/listing"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

// PackageView is a package with its computed price fields
type PackageView struct {
	models.Package
	LowestPrice *float64 `json:"lowestPrice"`
	PriceLabel  string   `json:"priceLabel"`
}

// NewPackageView computes the price fields of a package
func NewPackageView(pkg models.Package) PackageView {
	view := PackageView{Package: pkg, PriceLabel: pkg.PriceLabel()}
	if price, ok := pkg.LowestPrice(); ok {
		view.LowestPrice = &price
	}
	return view
}

// ServiceView is a service with its display price
type ServiceView struct {
	models.Service
	PriceLabel string `json:"priceLabel"`
}

// APIHandler serves the public JSON listing endpoints
type APIHandler struct {
	catalog *services.CatalogService
	logger  *logrus.Logger
}

// NewAPIHandler creates a new JSON listing handler
func NewAPIHandler(catalog *services.CatalogService, logger *logrus.Logger) *APIHandler {
	return &APIHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *APIHandler) filter(c *gin.Context) (listing.Filter, bool) {
	filter, err := listing.ParseFilter(c.Request.URL.Query())
	if err != nil {
		var ve *models.ValidationError
		field := ""
		if errors.As(err, &ve) {
			field = ve.Field
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_filter",
			Message: err.Error(),
			Field:   field,
		})
		return filter, false
	}
	return filter, true
}

// ListPackages handles GET /api/v1/packages
func (h *APIHandler) ListPackages(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	packages, err := h.catalog.ListPackages(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "backend_unavailable",
			Message: services.MsgPackagesUnavailable,
		})
		return
	}

	views := make([]PackageView, 0, len(packages))
	for _, pkg := range packages {
		views = append(views, NewPackageView(pkg))
	}

	c.JSON(http.StatusOK, gin.H{
		"packages": views,
		"count":    len(views),
		"filter":   filter.Values(),
	})
}

// ListServices handles GET /api/v1/services
func (h *APIHandler) ListServices(c *gin.Context) {
	filter, ok := h.filter(c)
	if !ok {
		return
	}

	list, err := h.catalog.ListServices(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "backend_unavailable",
			Message: services.MsgServicesUnavailable,
		})
		return
	}

	views := make([]ServiceView, 0, len(list))
	for _, svc := range list {
		views = append(views, ServiceView{Service: svc, PriceLabel: svc.PriceLabel()})
	}

	c.JSON(http.StatusOK, gin.H{
		"services": views,
		"count":    len(views),
		"filter":   filter.Values(),
	})
}
