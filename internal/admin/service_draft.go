package admin

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
)

// ServicePhotoField is the repeated multipart part carrying new service photos
const ServicePhotoField = "photos"

// ServiceDraft mirrors a service while it is created or edited
type ServiceDraft struct {
	EditID        string
	Name          string
	Description   string
	IsFree        bool
	Location      string
	StartDate     string
	EndDate       string
	Price         string // empty means price on request
	NumberOfRooms int
	KeptPhotos    []string
	NewPhotos     []Photo
}

// ServiceDraftFrom starts editing an existing service
func ServiceDraftFrom(svc models.Service) ServiceDraft {
	draft := ServiceDraft{
		EditID:        svc.ID,
		Name:          svc.Name,
		Description:   svc.Description,
		IsFree:        svc.IsFree,
		Location:      svc.Location,
		StartDate:     svc.StartDate.String(),
		EndDate:       svc.EndDate.String(),
		NumberOfRooms: svc.NumberOfRooms,
		KeptPhotos:    append([]string(nil), svc.PhotoPaths...),
	}
	if svc.Price != nil {
		draft.Price = strconv.FormatFloat(*svc.Price, 'f', -1, 64)
	}
	return draft
}

// IsEdit reports whether the draft updates an existing service
func (d ServiceDraft) IsEdit() bool {
	return d.EditID != ""
}

// StagePhotos adds normalised photos to the draft
func (d *ServiceDraft) StagePhotos(photos []Photo) {
	d.NewPhotos = append(d.NewPhotos, photos...)
}

// RemovePhoto removes a staged photo (by id) or a kept photo (by URL)
func (d *ServiceDraft) RemovePhoto(ref string) bool {
	var removed bool
	if d.NewPhotos, removed = removePhoto(d.NewPhotos, ref); removed {
		return true
	}
	d.KeptPhotos, removed = removePath(d.KeptPhotos, ref)
	return removed
}

// ApplyForm copies the posted form values into the draft
func (d *ServiceDraft) ApplyForm(values url.Values) error {
	d.Name = strings.TrimSpace(values.Get("name"))
	d.Description = strings.TrimSpace(values.Get("description"))
	d.IsFree = isChecked(values.Get("isFree"))
	d.Location = strings.TrimSpace(values.Get("location"))
	d.StartDate = strings.TrimSpace(values.Get("startDate"))
	d.EndDate = strings.TrimSpace(values.Get("endDate"))
	d.Price = strings.TrimSpace(values.Get("price"))

	rooms, err := parseCount(values.Get("numberOfRooms"))
	if err != nil {
		return models.NewValidationError("numberOfRooms", MsgInvalidNumber)
	}
	d.NumberOfRooms = rooms

	if _, err := parseAmount(d.Price); err != nil {
		return models.NewValidationError("price", MsgInvalidNumber)
	}
	return nil
}

// Validate checks the draft before it is sent. Dates are optional for
// services, but when both are given the end may not precede the start.
func (d ServiceDraft) Validate() error {
	if d.Name == "" {
		return models.NewValidationError("name", MsgNameRequired)
	}
	if _, err := parseAmount(d.Price); err != nil {
		return models.NewValidationError("price", MsgInvalidNumber)
	}
	if d.NumberOfRooms < 0 {
		return models.NewValidationError("numberOfRooms", MsgInvalidNumber)
	}

	start, err := models.ParseDate(d.StartDate)
	if err != nil {
		return models.NewValidationError("startDate", MsgInvalidDate)
	}
	end, err := models.ParseDate(d.EndDate)
	if err != nil {
		return models.NewValidationError("endDate", MsgInvalidDate)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return models.NewValidationError("endDate", MsgDateOrder)
	}
	return nil
}

// Form encodes the draft as the multipart body of POST/PUT /api/services
func (d ServiceDraft) Form() (*apiclient.Form, error) {
	kept := d.KeptPhotos
	if kept == nil {
		kept = []string{}
	}
	paths, err := json.Marshal(kept)
	if err != nil {
		return nil, fmt.Errorf("failed to encode photo paths: %w", err)
	}

	price := d.Price
	if price != "" {
		amount, err := parseAmount(price)
		if err != nil {
			return nil, fmt.Errorf("failed to encode price: %w", err)
		}
		price = strconv.FormatFloat(amount, 'f', -1, 64)
	}

	form := apiclient.NewForm().
		AddField("name", d.Name).
		AddField("description", d.Description).
		AddField("isFree", strconv.FormatBool(d.IsFree)).
		AddField("location", d.Location).
		AddField("startDate", d.StartDate).
		AddField("endDate", d.EndDate).
		AddField("price", price).
		AddField("numberOfRooms", strconv.Itoa(d.NumberOfRooms)).
		AddField("photoPaths", string(paths))

	for _, photo := range d.NewPhotos {
		form.AddFile(ServicePhotoField, photo.Filename, photo.ContentType, photo.Data)
	}
	return form, nil
}
