package admin

import (
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
)

// Validation messages of the admin forms
const (
	MsgNameRequired       = "Naam is verplicht."
	MsgLocationRequired   = "Locatie is verplicht voor elke bestemming."
	MsgDatesRequired      = "Start- en einddatum zijn verplicht voor elke bestemming."
	MsgDateOrder          = "De einddatum mag niet voor de startdatum liggen."
	MsgInvalidDate        = "Ongeldige datum."
	MsgInvalidNumber      = "Prijzen en aantallen moeten positieve getallen zijn."
	MsgCapacityRequired   = "Geef het aantal personen op voor de groepskamer."
	MsgLastDestination    = "Een pakket heeft minstens één bestemming."
	MsgUnknownDestination = "Onbekende bestemming."
)

// DestinationDraft is one destination of a package being edited
type DestinationDraft struct {
	Location   string
	StartDate  string
	EndDate    string
	RoomTypes  models.RoomTypes
	KeptPhotos []string // photo URLs already stored by the backend
	NewPhotos  []Photo  // staged, uploaded on submit
}

// PackageDraft mirrors a package while it is created or edited.
// A non-empty EditID means the submit updates that package.
type PackageDraft struct {
	EditID       string
	Name         string
	Description  string
	IsFree       bool
	Destinations []DestinationDraft
}

// NewPackageDraft returns an empty draft with one destination
func NewPackageDraft() PackageDraft {
	return PackageDraft{Destinations: []DestinationDraft{{}}}
}

// PackageDraftFrom starts editing an existing package
func PackageDraftFrom(pkg models.Package) PackageDraft {
	draft := PackageDraft{
		EditID:      pkg.ID,
		Name:        pkg.Name,
		Description: pkg.Description,
		IsFree:      pkg.IsFree,
	}
	for _, dest := range pkg.Destinations {
		draft.Destinations = append(draft.Destinations, DestinationDraft{
			Location:   dest.Location,
			StartDate:  dest.StartDate.String(),
			EndDate:    dest.EndDate.String(),
			RoomTypes:  dest.RoomTypes,
			KeptPhotos: append([]string(nil), dest.PhotoPaths...),
		})
	}
	if len(draft.Destinations) == 0 {
		draft.Destinations = []DestinationDraft{{}}
	}
	return draft
}

// IsEdit reports whether the draft updates an existing package
func (d PackageDraft) IsEdit() bool {
	return d.EditID != ""
}

// AddDestination appends an empty destination
func (d *PackageDraft) AddDestination() {
	d.Destinations = append(d.Destinations, DestinationDraft{})
}

// RemoveDestination drops a destination; the last one cannot be removed
func (d *PackageDraft) RemoveDestination(index int) error {
	if index < 0 || index >= len(d.Destinations) {
		return models.NewValidationError("destinations", MsgUnknownDestination)
	}
	if len(d.Destinations) == 1 {
		return models.NewValidationError("destinations", MsgLastDestination)
	}
	dests := make([]DestinationDraft, 0, len(d.Destinations)-1)
	dests = append(dests, d.Destinations[:index]...)
	d.Destinations = append(dests, d.Destinations[index+1:]...)
	return nil
}

// StagePhotos adds normalised photos to a destination
func (d *PackageDraft) StagePhotos(index int, photos []Photo) error {
	if index < 0 || index >= len(d.Destinations) {
		return models.NewValidationError("destinations", MsgUnknownDestination)
	}
	d.Destinations[index].NewPhotos = append(d.Destinations[index].NewPhotos, photos...)
	return nil
}

// RemovePhoto removes a staged photo (by id) or a kept photo (by URL) from
// a destination. Nothing is sent to the backend.
func (d *PackageDraft) RemovePhoto(index int, ref string) bool {
	if index < 0 || index >= len(d.Destinations) {
		return false
	}
	dest := &d.Destinations[index]
	var removed bool
	if dest.NewPhotos, removed = removePhoto(dest.NewPhotos, ref); removed {
		return true
	}
	dest.KeptPhotos, removed = removePath(dest.KeptPhotos, ref)
	return removed
}

// PhotoCount is the number of staged photos across all destinations
func (d PackageDraft) PhotoCount() int {
	n := 0
	for _, dest := range d.Destinations {
		n += len(dest.NewPhotos)
	}
	return n
}

// DestinationField names a form field of destination i,
// e.g. destinations[0][location].
func DestinationField(i int, name string) string {
	return fmt.Sprintf("destinations[%d][%s]", i, name)
}

// RoomField names a room form field of destination i,
// e.g. destinations[0][roomTypes][singleRoom][price].
func RoomField(i int, kind models.RoomKind, name string) string {
	return fmt.Sprintf("destinations[%d][roomTypes][%s][%s]", i, kind, name)
}

// ApplyForm copies the posted form values into the draft. Photos are not
// part of the values; they are staged separately.
func (d *PackageDraft) ApplyForm(values url.Values) error {
	d.Name = strings.TrimSpace(values.Get("name"))
	d.Description = strings.TrimSpace(values.Get("description"))
	d.IsFree = isChecked(values.Get("isFree"))

	for i := range d.Destinations {
		dest := &d.Destinations[i]
		dest.Location = strings.TrimSpace(values.Get(DestinationField(i, "location")))
		dest.StartDate = strings.TrimSpace(values.Get(DestinationField(i, "startDate")))
		dest.EndDate = strings.TrimSpace(values.Get(DestinationField(i, "endDate")))

		for _, kind := range models.RoomKinds {
			offer := models.RoomOffer{
				Available: isChecked(values.Get(RoomField(i, kind, "available"))),
			}
			quantity, err := parseCount(values.Get(RoomField(i, kind, "quantity")))
			if err != nil {
				return models.NewValidationError(RoomField(i, kind, "quantity"), MsgInvalidNumber)
			}
			price, err := parseAmount(values.Get(RoomField(i, kind, "price")))
			if err != nil {
				return models.NewValidationError(RoomField(i, kind, "price"), MsgInvalidNumber)
			}
			offer.Quantity, offer.Price = quantity, price
			dest.RoomTypes.Set(kind, offer)
		}

		capacity, err := parseCount(values.Get(RoomField(i, models.CustomRoom, "capacity")))
		if err != nil {
			return models.NewValidationError(RoomField(i, models.CustomRoom, "capacity"), MsgInvalidNumber)
		}
		dest.RoomTypes.CustomRoom.Capacity = capacity
	}
	return nil
}

// Validate checks the draft before it is sent
func (d PackageDraft) Validate() error {
	if d.Name == "" {
		return models.NewValidationError("name", MsgNameRequired)
	}
	if len(d.Destinations) == 0 {
		return models.NewValidationError("destinations", MsgLastDestination)
	}
	for i, dest := range d.Destinations {
		if dest.Location == "" {
			return models.NewValidationError(DestinationField(i, "location"), MsgLocationRequired)
		}
		if dest.StartDate == "" || dest.EndDate == "" {
			return models.NewValidationError(DestinationField(i, "startDate"), MsgDatesRequired)
		}
		start, err := models.ParseDate(dest.StartDate)
		if err != nil {
			return models.NewValidationError(DestinationField(i, "startDate"), MsgInvalidDate)
		}
		end, err := models.ParseDate(dest.EndDate)
		if err != nil {
			return models.NewValidationError(DestinationField(i, "endDate"), MsgInvalidDate)
		}
		if end.Before(start) {
			return models.NewValidationError(DestinationField(i, "endDate"), MsgDateOrder)
		}
		custom := dest.RoomTypes.CustomRoom
		if custom.Available && custom.Capacity < 1 {
			return models.NewValidationError(RoomField(i, models.CustomRoom, "capacity"), MsgCapacityRequired)
		}
	}
	return nil
}

// destinationPayload is one element of the JSON destinations field
type destinationPayload struct {
	Location   string   `json:"location"`
	StartDate  string   `json:"startDate"`
	EndDate    string   `json:"endDate"`
	RoomTypes  string   `json:"roomTypes"` // JSON-encoded models.RoomTypes
	PhotoCount int      `json:"photoCount"`
	PhotoPaths []string `json:"photoPaths"`
	PhotoField string   `json:"photoField"`
}

// PhotoField is the multipart part name carrying destination i's new photos
func PhotoField(i int) string {
	return DestinationField(i, "photos")
}

// Form encodes the draft as the multipart body of POST/PUT /api/packages.
// Each destination's new photos travel under their own part name, and the
// destination entry names that part explicitly.
func (d PackageDraft) Form() (*apiclient.Form, error) {
	payload := make([]destinationPayload, 0, len(d.Destinations))
	for i, dest := range d.Destinations {
		rooms, err := json.Marshal(dest.RoomTypes)
		if err != nil {
			return nil, fmt.Errorf("failed to encode room types of destination %d: %w", i, err)
		}
		kept := dest.KeptPhotos
		if kept == nil {
			kept = []string{}
		}
		payload = append(payload, destinationPayload{
			Location:   dest.Location,
			StartDate:  dest.StartDate,
			EndDate:    dest.EndDate,
			RoomTypes:  string(rooms),
			PhotoCount: len(dest.NewPhotos),
			PhotoPaths: kept,
			PhotoField: PhotoField(i),
		})
	}

	destinations, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode destinations: %w", err)
	}

	form := apiclient.NewForm().
		AddField("name", d.Name).
		AddField("description", d.Description).
		AddField("isFree", strconv.FormatBool(d.IsFree)).
		AddField("destinations", string(destinations))

	for i, dest := range d.Destinations {
		for _, photo := range dest.NewPhotos {
			form.AddFile(PhotoField(i), photo.Filename, photo.ContentType, photo.Data)
		}
	}

	return form, nil
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid count %q", raw)
	}
	return n, nil
}

func parseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}
