package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/admin"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/config"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
	"github.com/sirupsen/logrus"
)

// Dutch messages of the background manager
const (
	MsgBackgroundFetchFailed  = "Er is een fout opgetreden bij het ophalen van de achtergrondafbeelding."
	MsgBackgroundUploadFailed = "Er is een fout opgetreden bij het uploaden van de afbeelding."
)

// ErrUnknownPage is returned for a page name without a background slot
var ErrUnknownPage = errors.New("unknown page")

// BackgroundService resolves per-page hero images
type BackgroundService struct {
	client *apiclient.Client
	site   config.SiteConfig
	logger *logrus.Logger
}

// NewBackgroundService creates a new background service
func NewBackgroundService(client *apiclient.Client, site config.SiteConfig, logger *logrus.Logger) *BackgroundService {
	return &BackgroundService{
		client: client,
		site:   site,
		logger: logger,
	}
}

// Resolve returns the override for a page. A missing override is not an
// error: (nil, nil) is returned and the caller uses the bundled default.
func (s *BackgroundService) Resolve(ctx context.Context, pageName string) (*models.BackgroundImage, error) {
	img, err := s.client.GetBackgroundImage(ctx, pageName)
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if img.ImageURL == "" {
		return nil, nil
	}
	return img, nil
}

// URL returns the image to show on a page. Lookup failures are logged and
// fall back to the bundled default, so public pages always get an image.
func (s *BackgroundService) URL(ctx context.Context, pageName string) string {
	img, err := s.Resolve(ctx, pageName)
	if err != nil {
		s.logger.WithError(err).WithField("page", pageName).Warn("Background lookup failed, using default")
	}
	if img == nil {
		return s.Default(pageName)
	}
	return img.ImageURL
}

// Default returns the bundled image for a page
func (s *BackgroundService) Default(pageName string) string {
	return s.site.BackgroundFor(pageName)
}

// BackgroundSlot is one row of the dashboard background manager
type BackgroundSlot struct {
	PageName string
	Current  string
	Override *models.BackgroundImage
	Error    string
}

// Slots resolves every page for the dashboard. Errors are kept per slot.
// Pages with a known image, such as one just uploaded, are not looked up.
func (s *BackgroundService) Slots(ctx context.Context, known ...*models.BackgroundImage) []BackgroundSlot {
	slots := make([]BackgroundSlot, 0, len(models.BackgroundPages))
	for _, page := range models.BackgroundPages {
		slot := BackgroundSlot{PageName: page, Current: s.Default(page)}
		var err error
		img := knownImage(known, page)
		if img == nil {
			img, err = s.Resolve(ctx, page)
		}
		switch {
		case err != nil:
			slot.Error = MsgBackgroundFetchFailed
		case img != nil:
			slot.Override = img
			slot.Current = img.ImageURL
		}
		slots = append(slots, slot)
	}
	return slots
}

// Update uploads a new image for a page and returns the stored record
func (s *BackgroundService) Update(ctx context.Context, token, pageName string, upload admin.Upload) (*models.BackgroundImage, error) {
	if !isBackgroundPage(pageName) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, pageName)
	}

	img, err := s.client.UploadBackgroundImage(ctx, token, pageName, upload.Filename, upload.ContentType, upload.Data)
	if err != nil {
		return nil, err
	}
	if img.PageName == "" {
		img.PageName = pageName
	}

	s.logger.WithFields(logrus.Fields{
		"page":      pageName,
		"image_url": img.ImageURL,
	}).Info("Background image updated")

	return img, nil
}

func knownImage(known []*models.BackgroundImage, pageName string) *models.BackgroundImage {
	for _, img := range known {
		if img != nil && img.PageName == pageName && img.ImageURL != "" {
			return img
		}
	}
	return nil
}

func isBackgroundPage(pageName string) bool {
	for _, page := range models.BackgroundPages {
		if page == pageName {
			return true
		}
	}
	return false
}
