package admin

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func stagedPhoto(id string) Photo {
	return Photo{ID: id, Filename: id + ".jpg", ContentType: "image/jpeg", Data: []byte(id)}
}

func packageFormValues() url.Values {
	values := url.Values{}
	values.Set("name", "  Umrah Ramadan ")
	values.Set("description", "Tien dagen Mekka en Medina")
	values.Set(DestinationField(0, "location"), "Mekka")
	values.Set(DestinationField(0, "startDate"), "2025-03-01")
	values.Set(DestinationField(0, "endDate"), "2025-03-06")
	values.Set(RoomField(0, models.DoubleRoom, "available"), "on")
	values.Set(RoomField(0, models.DoubleRoom, "quantity"), "4")
	values.Set(RoomField(0, models.DoubleRoom, "price"), "1450,50")
	values.Set(DestinationField(1, "location"), "Medina")
	values.Set(DestinationField(1, "startDate"), "2025-03-06")
	values.Set(DestinationField(1, "endDate"), "2025-03-10")
	values.Set(RoomField(1, models.CustomRoom, "available"), "on")
	values.Set(RoomField(1, models.CustomRoom, "price"), "650")
	values.Set(RoomField(1, models.CustomRoom, "capacity"), "6")
	return values
}

func TestPackageDraft_ApplyFormAndValidate(t *testing.T) {
	draft := NewPackageDraft()
	draft.AddDestination()

	require.NoError(t, draft.ApplyForm(packageFormValues()))
	require.NoError(t, draft.Validate())

	assert.Equal(t, "Umrah Ramadan", draft.Name)
	assert.False(t, draft.IsFree)
	assert.Equal(t, models.RoomOffer{Available: true, Quantity: 4, Price: 1450.5}, draft.Destinations[0].RoomTypes.DoubleRoom)
	assert.False(t, draft.Destinations[0].RoomTypes.SingleRoom.Available)
	assert.Equal(t, 6, draft.Destinations[1].RoomTypes.CustomRoom.Capacity)
	assert.True(t, draft.Destinations[1].RoomTypes.CustomRoom.Available)
}

func TestPackageDraft_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(url.Values)
		field   string
		message string
	}{
		{"Missing Name", func(v url.Values) { v.Del("name") }, "name", MsgNameRequired},
		{"Missing Location", func(v url.Values) { v.Set(DestinationField(1, "location"), " ") }, DestinationField(1, "location"), MsgLocationRequired},
		{"Missing End Date", func(v url.Values) { v.Del(DestinationField(0, "endDate")) }, DestinationField(0, "startDate"), MsgDatesRequired},
		{"End Before Start", func(v url.Values) { v.Set(DestinationField(0, "endDate"), "2025-02-27") }, DestinationField(0, "endDate"), MsgDateOrder},
		{"Bad Date", func(v url.Values) { v.Set(DestinationField(0, "startDate"), "01-03-2025") }, DestinationField(0, "startDate"), MsgInvalidDate},
		{"Group Room Without Capacity", func(v url.Values) { v.Del(RoomField(1, models.CustomRoom, "capacity")) }, RoomField(1, models.CustomRoom, "capacity"), MsgCapacityRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := packageFormValues()
			tt.mutate(values)

			draft := NewPackageDraft()
			draft.AddDestination()
			require.NoError(t, draft.ApplyForm(values))

			err := draft.Validate()
			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestPackageDraft_ApplyFormRejectsNegativeNumbers(t *testing.T) {
	values := packageFormValues()
	values.Set(RoomField(0, models.DoubleRoom, "price"), "-10")

	draft := NewPackageDraft()
	err := draft.ApplyForm(values)
	assert.True(t, models.IsValidationError(err))

	values = packageFormValues()
	values.Set(RoomField(0, models.SingleRoom, "quantity"), "twee")
	err = draft.ApplyForm(values)
	assert.True(t, models.IsValidationError(err))
}

func TestDrafts_RejectNonFinitePrices(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "1e400"} {
		t.Run(raw, func(t *testing.T) {
			values := packageFormValues()
			field := RoomField(0, models.DoubleRoom, "price")
			values.Set(field, raw)

			draft := NewPackageDraft()
			err := draft.ApplyForm(values)
			var ve *models.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, field, ve.Field)
			assert.Equal(t, MsgInvalidNumber, ve.Message)

			var service ServiceDraft
			err = service.ApplyForm(url.Values{"name": {"Visum"}, "price": {raw}})
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "price", ve.Field)
		})
	}
}

func TestPackageDraft_Destinations(t *testing.T) {
	draft := NewPackageDraft()
	require.Len(t, draft.Destinations, 1)

	err := draft.RemoveDestination(0)
	assert.True(t, models.IsValidationError(err), "the last destination cannot be removed")

	draft.AddDestination()
	draft.AddDestination()
	draft.Destinations[0].Location = "Mekka"
	draft.Destinations[1].Location = "Medina"
	draft.Destinations[2].Location = "Jeddah"

	require.NoError(t, draft.RemoveDestination(1))
	require.Len(t, draft.Destinations, 2)
	assert.Equal(t, "Mekka", draft.Destinations[0].Location)
	assert.Equal(t, "Jeddah", draft.Destinations[1].Location)

	assert.Error(t, draft.RemoveDestination(5))
}

func TestPackageDraft_Photos(t *testing.T) {
	pkg := models.Package{
		ID:   "pkg-1",
		Name: "Umrah",
		Destinations: []models.Destination{
			{Location: "Mekka", PhotoPaths: []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}},
		},
	}
	draft := PackageDraftFrom(pkg)
	assert.True(t, draft.IsEdit())

	require.NoError(t, draft.StagePhotos(0, []Photo{stagedPhoto("p1"), stagedPhoto("p2")}))
	assert.Error(t, draft.StagePhotos(3, []Photo{stagedPhoto("p3")}))
	assert.Equal(t, 2, draft.PhotoCount())

	assert.True(t, draft.RemovePhoto(0, "p1"))
	assert.True(t, draft.RemovePhoto(0, "https://cdn/a.jpg"))
	assert.False(t, draft.RemovePhoto(0, "missing"))

	assert.Equal(t, []string{"https://cdn/b.jpg"}, draft.Destinations[0].KeptPhotos)
	require.Len(t, draft.Destinations[0].NewPhotos, 1)
	assert.Equal(t, "p2", draft.Destinations[0].NewPhotos[0].ID)
	assert.Equal(t, []string{"https://cdn/a.jpg", "https://cdn/b.jpg"}, pkg.Destinations[0].PhotoPaths,
		"editing the draft must not touch the source package")
}

func TestPackageDraft_Form(t *testing.T) {
	draft := NewPackageDraft()
	draft.AddDestination()
	require.NoError(t, draft.ApplyForm(packageFormValues()))
	draft.Destinations[0].KeptPhotos = []string{"https://cdn/kept.jpg"}
	require.NoError(t, draft.StagePhotos(1, []Photo{stagedPhoto("m1"), stagedPhoto("m2")}))

	form, err := draft.Form()
	require.NoError(t, err)

	name, _ := form.FieldValue("name")
	assert.Equal(t, "Umrah Ramadan", name)
	isFree, _ := form.FieldValue("isFree")
	assert.Equal(t, "false", isFree)

	raw, ok := form.FieldValue("destinations")
	require.True(t, ok)
	var destinations []destinationPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &destinations))
	require.Len(t, destinations, 2)

	assert.Equal(t, "Mekka", destinations[0].Location)
	assert.Equal(t, 0, destinations[0].PhotoCount)
	assert.Equal(t, []string{"https://cdn/kept.jpg"}, destinations[0].PhotoPaths)
	assert.Equal(t, 2, destinations[1].PhotoCount)
	assert.Equal(t, []string{}, destinations[1].PhotoPaths)
	assert.Equal(t, "destinations[1][photos]", destinations[1].PhotoField)

	var rooms models.RoomTypes
	require.NoError(t, json.Unmarshal([]byte(destinations[1].RoomTypes), &rooms))
	assert.Equal(t, 6, rooms.CustomRoom.Capacity)
	assert.Equal(t, 650.0, rooms.CustomRoom.Price)

	assert.Equal(t, 0, form.FileCount(PhotoField(0)))
	assert.Equal(t, 2, form.FileCount(PhotoField(1)))
}

func TestServiceDraft(t *testing.T) {
	values := url.Values{}
	values.Set("name", "Visumaanvraag")
	values.Set("location", "Brussel")
	values.Set("price", "120,5")
	values.Set("numberOfRooms", "0")
	values.Set("startDate", "2025-04-01")
	values.Set("endDate", "2025-04-02")

	t.Run("Form", func(t *testing.T) {
		var draft ServiceDraft
		require.NoError(t, draft.ApplyForm(values))
		require.NoError(t, draft.Validate())
		assert.False(t, draft.IsEdit())

		draft.StagePhotos([]Photo{stagedPhoto("s1"), stagedPhoto("s2")})
		assert.True(t, draft.RemovePhoto("s1"))

		form, err := draft.Form()
		require.NoError(t, err)
		price, _ := form.FieldValue("price")
		assert.Equal(t, "120.5", price)
		paths, _ := form.FieldValue("photoPaths")
		assert.Equal(t, "[]", paths)
		assert.Equal(t, 1, form.FileCount(ServicePhotoField))
	})

	t.Run("Price On Request", func(t *testing.T) {
		v := url.Values{"name": {"Transport"}}
		var draft ServiceDraft
		require.NoError(t, draft.ApplyForm(v))
		require.NoError(t, draft.Validate())
		form, err := draft.Form()
		require.NoError(t, err)
		price, _ := form.FieldValue("price")
		assert.Equal(t, "", price)
	})

	t.Run("Validation", func(t *testing.T) {
		var draft ServiceDraft
		require.NoError(t, draft.ApplyForm(url.Values{}))
		assert.True(t, models.IsValidationError(draft.Validate()))

		bad := url.Values{"name": {"Hotel"}, "price": {"gratis"}}
		assert.True(t, models.IsValidationError(draft.ApplyForm(bad)))

		order := url.Values{"name": {"Hotel"}, "startDate": {"2025-04-02"}, "endDate": {"2025-04-01"}}
		require.NoError(t, draft.ApplyForm(order))
		assert.True(t, models.IsValidationError(draft.Validate()))
	})

	t.Run("From Service", func(t *testing.T) {
		price := 75.0
		draft := ServiceDraftFrom(models.Service{ID: "svc-1", Name: "Gids", Price: &price, PhotoPaths: []string{"x.jpg"}})
		assert.True(t, draft.IsEdit())
		assert.Equal(t, "75", draft.Price)
		assert.Equal(t, []string{"x.jpg"}, draft.KeptPhotos)
	})
}

func TestDrafts(t *testing.T) {
	drafts := NewDrafts(time.Hour, testLogger())

	t.Run("Package Lifecycle", func(t *testing.T) {
		id := drafts.NewPackage()
		draft, ok := drafts.Get(id)
		require.True(t, ok)
		assert.Equal(t, PackageDraftKind, draft.Kind)
		assert.False(t, draft.IsEdit())

		err := drafts.UpdatePackage(id, func(d *PackageDraft) error {
			d.Name = "Umrah"
			d.AddDestination()
			return nil
		})
		require.NoError(t, err)

		err = drafts.UpdatePackage(id, func(d *PackageDraft) error {
			d.Description = "kept despite the error"
			return models.NewValidationError("name", MsgNameRequired)
		})
		assert.True(t, models.IsValidationError(err))

		draft, ok = drafts.Get(id)
		require.True(t, ok)
		assert.Equal(t, "Umrah", draft.Package.Name)
		assert.Equal(t, "kept despite the error", draft.Package.Description)
		assert.Len(t, draft.Package.Destinations, 2)

		assert.ErrorIs(t, drafts.UpdateService(id, func(*ServiceDraft) error { return nil }), ErrWrongDraftKind)

		drafts.Discard(id)
		_, ok = drafts.Get(id)
		assert.False(t, ok)
		assert.ErrorIs(t, drafts.UpdatePackage(id, func(*PackageDraft) error { return nil }), ErrDraftNotFound)
	})

	t.Run("Get Returns A Copy", func(t *testing.T) {
		id := drafts.NewPackage()
		draft, _ := drafts.Get(id)
		draft.Package.Destinations[0].Location = "changed outside"

		stored, _ := drafts.Get(id)
		assert.Empty(t, stored.Package.Destinations[0].Location)
	})

	t.Run("Edit Service", func(t *testing.T) {
		id := drafts.EditService(models.Service{ID: "svc-9", Name: "Visum"})
		draft, ok := drafts.Get(id)
		require.True(t, ok)
		assert.Equal(t, ServiceDraftKind, draft.Kind)
		assert.True(t, draft.IsEdit())
		assert.ErrorIs(t, drafts.UpdatePackage(id, func(*PackageDraft) error { return nil }), ErrWrongDraftKind)
	})
}
