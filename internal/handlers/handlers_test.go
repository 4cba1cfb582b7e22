package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/admin"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/booking"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/middleware"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/services"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testBackendToken = "backend-token"

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fakeBackend is an httptest server standing in for the booking backend
type fakeBackend struct {
	mux   *http.ServeMux
	mu    sync.Mutex
	calls map[string]int
}

func (fb *fakeBackend) handle(pattern string, handler http.HandlerFunc) {
	fb.mux.HandleFunc(pattern, handler)
}

func (fb *fakeBackend) count(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[route]
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// memoryJournal keeps leads in memory for the dashboard and lead forms
type memoryJournal struct {
	mu    sync.Mutex
	leads []models.Lead
}

func (j *memoryJournal) Create(lead *models.Lead) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.leads = append(j.leads, *lead)
	return nil
}

func (j *memoryJournal) ListRecent(limit int) ([]models.Lead, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]models.Lead, 0, len(j.leads))
	for i := len(j.leads) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, j.leads[i])
	}
	return out, nil
}

type testApp struct {
	router  *gin.Engine
	backend *fakeBackend
	jwt     *jwt.Service
	visits  *booking.Visits
	drafts  *admin.Drafts
	journal *memoryJournal
}

var testCookie = middleware.CookieConfig{Name: "session", MaxAge: 3600}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := testLogger()

	fb := &fakeBackend{mux: http.NewServeMux(), calls: make(map[string]int)}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.calls[r.Method+" "+r.URL.Path]++
		fb.mu.Unlock()
		fb.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)
	client := apiclient.NewClient(apiclient.Config{BaseURL: server.URL}, logger)

	site := config.SiteConfig{
		WhatsAppNumber:     "+32465349779",
		DefaultBackgrounds: map[string]string{"home": "/static/img/hero.jpg"},
	}
	journal := &memoryJournal{}
	jwtService := jwt.NewService("test-secret", time.Hour)
	visits := booking.NewVisits(time.Hour, logger)
	drafts := admin.NewDrafts(time.Hour, logger)

	catalog := services.NewCatalogService(client, logger)
	leads := services.NewLeadService(client, journal, logger)
	backgrounds := services.NewBackgroundService(client, site, logger)
	adminService := services.NewAdminService(client, drafts, config.UploadConfig{MaxPhotoWidth: 400, MaxUploadMB: 2}, logger)
	renderer := NewRenderer(backgrounds, site, logger)

	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.LoadSession(jwtService, testCookie, logger))
	Routes{
		Pages:     NewPageHandler(catalog, renderer, logger),
		Catalog:   NewCatalogHandler(catalog, services.NewBookingService(leads, logger), leads, services.NewBrochureService(site.WhatsAppNumber, logger), visits, renderer, site, logger),
		Leads:     NewLeadHandler(leads, renderer, logger),
		API:       NewAPIHandler(catalog, logger),
		Auth:      NewAuthHandler(client, jwtService, testCookie, renderer, logger),
		Dashboard: NewDashboardHandler(adminService, catalog, backgrounds, journal, renderer, logger),
	}.Register(router)

	return &testApp{
		router:  router,
		backend: fb,
		jwt:     jwtService,
		visits:  visits,
		drafts:  drafts,
		journal: journal,
	}
}

// serve runs req through the router, logged in as admin when admin is set
func (a *testApp) serve(t *testing.T, req *http.Request, asAdmin bool) *httptest.ResponseRecorder {
	t.Helper()
	if asAdmin {
		token, _, err := a.jwt.GenerateSessionToken("admin@guide2umrah.be", testBackendToken)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: testCookie.Name, Value: token})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(t *testing.T, path string, asAdmin bool) *httptest.ResponseRecorder {
	return a.serve(t, httptest.NewRequest(http.MethodGet, path, nil), asAdmin)
}

func (a *testApp) postForm(t *testing.T, path string, values url.Values, asAdmin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.serve(t, req, asAdmin)
}

// multipartFile is one file part of a multipart post
type multipartFile struct {
	field    string
	filename string
	data     []byte
}

func (a *testApp) postMultipart(t *testing.T, path string, values url.Values, files []multipartFile, asAdmin bool) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, vs := range values {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(name, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return a.serve(t, req, asAdmin)
}

func mustDate(value string) models.Date {
	d, err := models.ParseDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

func samplePackage() models.Package {
	return models.Package{
		ID:          "pkg-1",
		Name:        "Umrah Ramadan",
		Description: "Tien dagen in Mekka en Medina",
		Destinations: []models.Destination{
			{
				Location:  "Mekka",
				StartDate: mustDate("2025-03-01"),
				EndDate:   mustDate("2025-03-06"),
				RoomTypes: models.RoomTypes{
					DoubleRoom: models.RoomOffer{Available: true, Quantity: 3, Price: 1400},
					QuadRoom:   models.RoomOffer{Available: true, Quantity: 2, Price: 950},
				},
			},
			{
				Location:  "Medina",
				StartDate: mustDate("2025-03-06"),
				EndDate:   mustDate("2025-03-10"),
				RoomTypes: models.RoomTypes{
					CustomRoom: models.CustomRoomOffer{RoomOffer: models.RoomOffer{Available: true, Price: 600}, Capacity: 6},
				},
			},
		},
	}
}

func sampleService() models.Service {
	price := 120.0
	return models.Service{
		ID:       "svc-1",
		Name:     "Visum service",
		Location: "Brussel",
		Price:    &price,
	}
}

// serveCatalog answers the catalog reads with the sample data
func (a *testApp) serveCatalog() {
	a.backend.handle("GET /api/packages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Package{samplePackage()})
	})
	a.backend.handle("GET /api/packages/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "pkg-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, samplePackage())
	})
	a.backend.handle("GET /api/services", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Service{sampleService()})
	})
	a.backend.handle("GET /api/services/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "svc-1" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, sampleService())
	})
}
