package services

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/admin"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngUpload(t *testing.T, name string, width, height int) admin.Upload {
	t.Helper()
	var buf bytes.Buffer
	img := imaging.New(width, height, color.NRGBA{R: 10, G: 90, B: 70, A: 255})
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return admin.Upload{Filename: name, ContentType: "image/png", Data: buf.Bytes()}
}

func newAdminService(t *testing.T) (*fakeBackend, *AdminService) {
	fb, client := newFakeBackend(t)
	drafts := admin.NewDrafts(time.Hour, testLogger())
	uploads := config.UploadConfig{MaxPhotoWidth: 400, MaxUploadMB: 2}
	return fb, NewAdminService(client, drafts, uploads, testLogger())
}

func TestAdminService_CreatePackage(t *testing.T) {
	fb, svc := newAdminService(t)

	var (
		auth         string
		destinations []map[string]interface{}
		photoCounts  = map[string]int{}
	)
	fb.handle("POST /api/packages", func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if !assert.NoError(t, r.ParseMultipartForm(8<<20)) {
			return
		}
		assert.NoError(t, json.Unmarshal([]byte(r.FormValue("destinations")), &destinations))
		for field, files := range r.MultipartForm.File {
			photoCounts[field] = len(files)
		}
		writeJSON(w, http.StatusCreated, models.Package{ID: "new-pkg", Name: r.FormValue("name")})
	})

	ctx := context.Background()
	draftID, err := svc.OpenPackageDraft(ctx, "")
	require.NoError(t, err)

	require.NoError(t, svc.Drafts().UpdatePackage(draftID, func(d *admin.PackageDraft) error {
		d.AddDestination()
		return nil
	}))

	values := url.Values{}
	values.Set("name", "Umrah Zomer")
	values.Set(admin.DestinationField(0, "location"), "Mekka")
	values.Set(admin.DestinationField(0, "startDate"), "2025-07-01")
	values.Set(admin.DestinationField(0, "endDate"), "2025-07-05")
	values.Set(admin.DestinationField(1, "location"), "Medina")
	values.Set(admin.DestinationField(1, "startDate"), "2025-07-05")
	values.Set(admin.DestinationField(1, "endDate"), "2025-07-09")
	require.NoError(t, svc.Drafts().UpdatePackage(draftID, func(d *admin.PackageDraft) error {
		return d.ApplyForm(values)
	}))

	require.NoError(t, svc.StagePackagePhotos(draftID, 1, []admin.Upload{
		pngUpload(t, "medina.png", 800, 400),
		pngUpload(t, "moskee.png", 200, 200),
	}))

	draft, ok := svc.Drafts().Get(draftID)
	require.True(t, ok)
	require.Len(t, draft.Package.Destinations[1].NewPhotos, 2)
	assert.Equal(t, 400, draft.Package.Destinations[1].NewPhotos[0].Width, "photos are scaled to the configured width")
	assert.Equal(t, 0, fb.total(), "staging photos does not call the backend")

	pkg, err := svc.SubmitPackage(ctx, "admin-token", draftID)
	require.NoError(t, err)
	assert.Equal(t, "new-pkg", pkg.ID)
	assert.Equal(t, "Bearer admin-token", auth)
	require.Len(t, destinations, 2)
	assert.Equal(t, "Medina", destinations[1]["location"])
	assert.EqualValues(t, 2, destinations[1]["photoCount"])
	assert.Equal(t, 2, photoCounts["destinations[1][photos]"])
	assert.Zero(t, photoCounts["destinations[0][photos]"])

	_, ok = svc.Drafts().Get(draftID)
	assert.False(t, ok, "a saved draft is discarded")
}

func TestAdminService_SubmitKeepsDraftOnFailure(t *testing.T) {
	fb, svc := newAdminService(t)
	fb.handle("GET /api/services/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Service{ID: "svc-1", Name: "Transport", PhotoPaths: []string{"https://cdn/bus.jpg"}})
	})
	fb.handle("PUT /api/services/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token verlopen"})
	})

	ctx := context.Background()
	draftID, err := svc.OpenServiceDraft(ctx, "svc-1")
	require.NoError(t, err)

	_, err = svc.SubmitService(ctx, "expired", draftID)
	require.Error(t, err)
	assert.Equal(t, "Token verlopen", AdminMessage(err, MsgSaveFailed))
	assert.Equal(t, 1, fb.count("PUT /api/services/svc-1"))

	draft, ok := svc.Drafts().Get(draftID)
	require.True(t, ok, "the draft survives a failed submit")
	assert.Equal(t, []string{"https://cdn/bus.jpg"}, draft.Service.KeptPhotos)
}

func TestAdminService_ValidationBeforeNetwork(t *testing.T) {
	fb, svc := newAdminService(t)
	draftID, err := svc.OpenPackageDraft(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.SubmitPackage(context.Background(), "token", draftID)
	assert.Equal(t, admin.MsgNameRequired, AdminMessage(err, MsgSaveFailed))
	assert.Equal(t, 0, fb.total())

	_, err = svc.SubmitService(context.Background(), "token", draftID)
	assert.Equal(t, MsgDraftExpired, AdminMessage(err, MsgSaveFailed))

	_, err = svc.SubmitPackage(context.Background(), "token", "unknown")
	assert.ErrorIs(t, err, admin.ErrDraftNotFound)

	err = svc.StagePackagePhotos(draftID, 0, []admin.Upload{{Filename: "x.png", Data: []byte("nope")}})
	assert.Equal(t, MsgPhotoInvalid, AdminMessage(err, MsgSaveFailed))
}

func TestAdminService_OpenMissingPackage(t *testing.T) {
	fb, svc := newAdminService(t)
	fb.handle("GET /api/packages/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{})
	})

	_, err := svc.OpenPackageDraft(context.Background(), "gone")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminService_DashboardAndDelete(t *testing.T) {
	fb, svc := newAdminService(t)
	fb.handle("GET /api/packages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.Package{samplePackage()})
	})
	fb.handle("GET /api/services", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{})
	})
	fb.handle("DELETE /api/packages/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	dash := svc.Dashboard(context.Background())
	assert.Len(t, dash.Packages, 1)
	assert.Empty(t, dash.PackagesError)
	assert.Equal(t, MsgServicesUnavailable, dash.ServicesError)

	require.NoError(t, svc.DeletePackage(context.Background(), "admin-token", "pkg-1"))
	assert.Equal(t, 1, fb.count("DELETE /api/packages/pkg-1"))

	assert.Equal(t, int64(2<<20), svc.MaxUploadBytes())
}

func TestBrochureService(t *testing.T) {
	svc := NewBrochureService("+32 465 34 97 79", testLogger())
	svc.now = func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }

	pkg := samplePackage()
	assert.True(t, strings.HasPrefix(svc.WhatsAppLink(pkg), "https://wa.me/32465349779?text="))

	pdf, err := svc.PackageBrochure(pkg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
	assert.Greater(t, len(pdf), 1000)
}

func TestRoomLines(t *testing.T) {
	rooms := samplePackage().Destinations[1].RoomTypes

	lines := RoomLines(rooms, false)
	require.Len(t, lines, 5)
	assert.Equal(t, RoomLine{Label: "Eenpersoonskamer", Price: "niet beschikbaar"}, lines[0])
	assert.Equal(t, RoomLine{Label: "Groepskamer (6 personen)", Price: "€600"}, lines[4])

	t.Run("Free Package", func(t *testing.T) {
		lines := RoomLines(rooms, true)
		require.Len(t, lines, 5)
		assert.Equal(t, "niet beschikbaar", lines[0].Price)
		assert.Equal(t, models.PriceLabelFree, lines[4].Price)
		for _, line := range lines {
			assert.NotContains(t, line.Price, "€", line.Label)
		}
	})
}

func TestBrochureService_FreePackage(t *testing.T) {
	svc := NewBrochureService("+32 465 34 97 79", testLogger())
	pkg := samplePackage()
	pkg.IsFree = true

	pdf, err := svc.PackageBrochure(pkg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}
