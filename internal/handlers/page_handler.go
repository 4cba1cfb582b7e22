package handlers

import (
	"net/http"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/listing"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// featuredCount is how many packages the home page shows
const featuredCount = 3

// PageHandler serves the static content pages
type PageHandler struct {
	catalog  *services.CatalogService
	renderer *Renderer
	logger   *logrus.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(catalog *services.CatalogService, renderer *Renderer, logger *logrus.Logger) *PageHandler {
	return &PageHandler{
		catalog:  catalog,
		renderer: renderer,
		logger:   logger,
	}
}

// Home handles GET /. The upcoming packages are optional; a backend failure
// only hides them.
func (h *PageHandler) Home(c *gin.Context) {
	data := gin.H{}
	packages, err := h.catalog.ListPackages(c.Request.Context(), listing.Filter{SortBy: listing.SortDateAsc})
	if err == nil {
		if len(packages) > featuredCount {
			packages = packages[:featuredCount]
		}
		data["Featured"] = packages
	}
	h.renderer.Page(c, http.StatusOK, "home.html", "home", "Guide2Umrah", data)
}

// AboutUs handles GET /aboutus
func (h *PageHandler) AboutUs(c *gin.Context) {
	h.renderer.Page(c, http.StatusOK, "aboutus.html", "aboutus", "Over ons", nil)
}

// NotFound handles unknown routes
func (h *PageHandler) NotFound(c *gin.Context) {
	h.renderer.NotFound(c, "Deze pagina bestaat niet.")
}
