package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/admin"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/booking"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/middleware"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/whatsapp"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateFuncs are the helpers available in every page
var TemplateFuncs = template.FuncMap{
	"date": func(d models.Date) string {
		return d.Display()
	},
	"add": func(a, b int) int {
		return a + b
	},
	"selected": func(cart booking.Cart, destination int, kind models.RoomKind) bool {
		return cart.IsSelected(destination, kind)
	},
	"destField":  admin.DestinationField,
	"roomField":  admin.RoomField,
	"photoField": admin.PhotoField,
	"removePhoto": func(destination int, ref string) string {
		return fmt.Sprintf("remove-photo:%d:%s", destination, ref)
	},
	"removeDestination": func(destination int) string {
		return fmt.Sprintf("remove-destination:%d", destination)
	},
	"leadLabel": func(kind models.LeadKind) string {
		return kind.Label()
	},
	"timestamp": func(t time.Time) string {
		return t.Local().Format("02/01/2006 15:04")
	},
	"lower": strings.ToLower,
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(TemplateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Renderer renders pages with the data every layout needs
type Renderer struct {
	backgrounds *services.BackgroundService
	site        config.SiteConfig
	logger      *logrus.Logger
}

// NewRenderer creates a new page renderer
func NewRenderer(backgrounds *services.BackgroundService, site config.SiteConfig, logger *logrus.Logger) *Renderer {
	return &Renderer{
		backgrounds: backgrounds,
		site:        site,
		logger:      logger,
	}
}

// WhatsAppLink is the site-wide chat link without a prefilled message
func (r *Renderer) WhatsAppLink() string {
	return whatsapp.Link(r.site.WhatsAppNumber, "")
}

// Page renders template name. pageName selects the background image; an
// empty pageName renders without a hero image.
func (r *Renderer) Page(c *gin.Context, status int, name, pageName, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	session := middleware.GetSession(c)

	data["Title"] = title
	data["Page"] = pageName
	data["IsAdmin"] = session.IsAuthenticated()
	data["AdminEmail"] = session.Email()
	data["Year"] = time.Now().Year()
	if _, ok := data["WhatsAppLink"]; !ok {
		data["WhatsAppLink"] = r.WhatsAppLink()
	}
	if pageName != "" {
		data["Background"] = r.backgrounds.URL(c.Request.Context(), pageName)
	}

	c.HTML(status, name, data)
}

// NotFound renders the 404 page
func (r *Renderer) NotFound(c *gin.Context, message string) {
	r.Page(c, http.StatusNotFound, "error.html", "", "Niet gevonden", gin.H{"Error": message})
}

// Failure renders the error page for a backend failure
func (r *Renderer) Failure(c *gin.Context, message string) {
	r.Page(c, http.StatusBadGateway, "error.html", "", "Fout", gin.H{"Error": message})
}

// statusFor picks the response code of a form page showing err
func statusFor(err error) int {
	if models.IsValidationError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadGateway
}
