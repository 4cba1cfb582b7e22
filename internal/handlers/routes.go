package handlers

import (
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Routes groups the handlers served by the site
type Routes struct {
	Pages     *PageHandler
	Catalog   *CatalogHandler
	Leads     *LeadHandler
	API       *APIHandler
	Auth      *AuthHandler
	Dashboard *DashboardHandler

	// FormLimit throttles lead form posts and login attempts
	FormLimit gin.HandlerFunc
	// CORS is applied to the public JSON endpoints
	CORS gin.HandlerFunc
}

func (r Routes) formLimit() gin.HandlerFunc {
	if r.FormLimit == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return r.FormLimit
}

// Register mounts every route on router
func (r Routes) Register(router *gin.Engine) {
	limit := r.formLimit()

	router.GET("/", r.Pages.Home)
	router.GET("/aboutus", r.Pages.AboutUs)

	router.GET("/contact", r.Leads.ContactPage)
	router.POST("/contact", limit, r.Leads.SubmitContact)
	router.GET("/custom-package", r.Leads.CustomPackagePage)
	router.POST("/custom-package", limit, r.Leads.SubmitCustomPackage)
	router.GET("/coming-soon", r.Leads.ComingSoon)
	router.POST("/coming-soon", limit, r.Leads.Subscribe)

	umrah := router.Group("/umrah")
	{
		umrah.GET("", r.Catalog.ListPackages)
		umrah.GET("/:id", r.Catalog.PackageDetail)
		umrah.POST("/:id/rooms", r.Catalog.ToggleRoom)
		umrah.POST("/:id/booking", limit, r.Catalog.SubmitBooking)
		umrah.GET("/:id/brochure.pdf", r.Catalog.PackageBrochure)
		umrah.GET("/:id/whatsapp.png", r.Catalog.PackageWhatsAppQR)
	}

	svc := router.Group("/services")
	{
		svc.GET("", r.Catalog.ListServices)
		svc.GET("/:id", r.Catalog.ServiceDetail)
		svc.POST("/:id/inquiry", limit, r.Catalog.SubmitInquiry)
		svc.GET("/:id/whatsapp.png", r.Catalog.ServiceWhatsAppQR)
	}

	api := router.Group("/api/v1")
	if r.CORS != nil {
		api.Use(r.CORS)
	}
	{
		api.GET("/packages", r.API.ListPackages)
		api.GET("/services", r.API.ListServices)
	}

	router.GET("/login", r.Auth.LoginPage)
	router.POST("/login", limit, r.Auth.Login)
	router.POST("/logout", r.Auth.Logout)

	dashboard := router.Group("/dashboard")
	dashboard.Use(middleware.RequireAdmin())
	{
		dashboard.GET("", r.Dashboard.Index)

		dashboard.GET("/packages/new", r.Dashboard.NewPackage)
		dashboard.GET("/packages/:id/edit", r.Dashboard.EditPackage)
		dashboard.GET("/packages/:id/delete", r.Dashboard.ConfirmDeletePackage)
		dashboard.POST("/packages/:id/delete", r.Dashboard.DeletePackage)
		dashboard.GET("/packages/drafts/:draft", r.Dashboard.ShowDraft)
		dashboard.POST("/packages/drafts/:draft", r.Dashboard.UpdatePackageDraft)

		dashboard.GET("/services/new", r.Dashboard.NewService)
		dashboard.GET("/services/:id/edit", r.Dashboard.EditService)
		dashboard.GET("/services/:id/delete", r.Dashboard.ConfirmDeleteService)
		dashboard.POST("/services/:id/delete", r.Dashboard.DeleteService)
		dashboard.GET("/services/drafts/:draft", r.Dashboard.ShowDraft)
		dashboard.POST("/services/drafts/:draft", r.Dashboard.UpdateServiceDraft)

		dashboard.GET("/backgrounds", r.Dashboard.Backgrounds)
		dashboard.POST("/backgrounds/:page", r.Dashboard.UpdateBackground)
		dashboard.GET("/leads", r.Dashboard.Leads)
	}

	router.NoRoute(r.Pages.NotFound)
}
