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

// Dutch messages of the dashboard
const (
	MsgSaveFailed     = "Er is een fout opgetreden bij het opslaan."
	MsgDeleteFailed   = "Er is een fout opgetreden bij het verwijderen."
	MsgDraftExpired   = "Dit formulier is verlopen. Begin opnieuw."
	MsgPhotoInvalid   = "Eén of meer foto's konden niet worden verwerkt."
	MsgUploadTooLarge = "Het bestand is te groot."
	MsgPackageSaved   = "Pakket opgeslagen."
	MsgServiceSaved   = "Service opgeslagen."
	MsgPackageDeleted = "Pakket verwijderd."
	MsgServiceDeleted = "Service verwijderd."
	MsgItemNotFound   = "Dit item bestaat niet (meer)."
)

// AdminMessage turns a dashboard error into the text shown on the page
func AdminMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, admin.ErrDraftNotFound), errors.Is(err, admin.ErrWrongDraftKind):
		return MsgDraftExpired
	case errors.Is(err, admin.ErrUploadTooLarge):
		return MsgUploadTooLarge
	case errors.Is(err, ErrNotFound):
		return MsgItemNotFound
	}
	return UserMessage(err, fallback)
}

// Dashboard is the data of the dashboard overview. A failed list is kept
// as a message so the other list still renders.
type Dashboard struct {
	Packages      []models.Package
	Services      []models.Service
	PackagesError string
	ServicesError string
}

// AdminService drives the admin forms: it opens drafts, stages photos and
// sends the finished draft to the backend with the admin's token.
type AdminService struct {
	client  *apiclient.Client
	drafts  *admin.Drafts
	uploads config.UploadConfig
	logger  *logrus.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(client *apiclient.Client, drafts *admin.Drafts, uploads config.UploadConfig, logger *logrus.Logger) *AdminService {
	return &AdminService{
		client:  client,
		drafts:  drafts,
		uploads: uploads,
		logger:  logger,
	}
}

// Drafts exposes the open forms
func (s *AdminService) Drafts() *admin.Drafts {
	return s.drafts
}

// MaxUploadBytes is the largest accepted single file
func (s *AdminService) MaxUploadBytes() int64 {
	return int64(s.uploads.MaxUploadMB) << 20
}

// Dashboard loads both collections
func (s *AdminService) Dashboard(ctx context.Context) Dashboard {
	var dash Dashboard

	packages, err := s.client.ListPackages(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch packages for dashboard")
		dash.PackagesError = UserMessage(err, MsgPackagesUnavailable)
	}
	dash.Packages = packages

	services, err := s.client.ListServices(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch services for dashboard")
		dash.ServicesError = UserMessage(err, MsgServicesUnavailable)
	}
	dash.Services = services

	return dash
}

// OpenPackageDraft opens a form for a new package, or for editing the
// package with id when id is not empty.
func (s *AdminService) OpenPackageDraft(ctx context.Context, id string) (string, error) {
	if id == "" {
		return s.drafts.NewPackage(), nil
	}
	pkg, err := s.client.GetPackage(ctx, id)
	if errors.Is(err, apiclient.ErrNotFound) {
		return "", fmt.Errorf("package %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return s.drafts.EditPackage(*pkg), nil
}

// OpenServiceDraft opens a form for a new or an existing service
func (s *AdminService) OpenServiceDraft(ctx context.Context, id string) (string, error) {
	if id == "" {
		return s.drafts.NewService(), nil
	}
	svc, err := s.client.GetService(ctx, id)
	if errors.Is(err, apiclient.ErrNotFound) {
		return "", fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", err
	}
	return s.drafts.EditService(*svc), nil
}

func (s *AdminService) normalize(uploads []admin.Upload) ([]admin.Photo, error) {
	photos, err := admin.NormalizePhotos(uploads, s.uploads.MaxPhotoWidth)
	if err != nil {
		s.logger.WithError(err).Warn("Rejected staged photo")
		return nil, models.NewValidationError("photos", MsgPhotoInvalid)
	}
	return photos, nil
}

// StagePackagePhotos normalises uploads and adds them to one destination
func (s *AdminService) StagePackagePhotos(draftID string, destination int, uploads []admin.Upload) error {
	if len(uploads) == 0 {
		return nil
	}
	photos, err := s.normalize(uploads)
	if err != nil {
		return err
	}
	return s.drafts.UpdatePackage(draftID, func(d *admin.PackageDraft) error {
		return d.StagePhotos(destination, photos)
	})
}

// StageServicePhotos normalises uploads and adds them to a service draft
func (s *AdminService) StageServicePhotos(draftID string, uploads []admin.Upload) error {
	if len(uploads) == 0 {
		return nil
	}
	photos, err := s.normalize(uploads)
	if err != nil {
		return err
	}
	return s.drafts.UpdateService(draftID, func(d *admin.ServiceDraft) error {
		d.StagePhotos(photos)
		return nil
	})
}

// SubmitPackage validates the draft and creates or updates the package.
// The draft is discarded only after the backend accepted it.
func (s *AdminService) SubmitPackage(ctx context.Context, token, draftID string) (*models.Package, error) {
	draft, ok := s.drafts.Get(draftID)
	if !ok {
		return nil, admin.ErrDraftNotFound
	}
	if draft.Kind != admin.PackageDraftKind {
		return nil, admin.ErrWrongDraftKind
	}

	pkgDraft := draft.Package
	if err := pkgDraft.Validate(); err != nil {
		return nil, err
	}
	form, err := pkgDraft.Form()
	if err != nil {
		return nil, err
	}

	var pkg *models.Package
	if pkgDraft.IsEdit() {
		pkg, err = s.client.UpdatePackage(ctx, token, pkgDraft.EditID, form)
	} else {
		pkg, err = s.client.CreatePackage(ctx, token, form)
	}
	if err != nil {
		s.logger.WithError(err).WithField("edit_id", pkgDraft.EditID).Error("Failed to save package")
		return nil, err
	}

	s.drafts.Discard(draftID)
	s.logger.WithFields(logrus.Fields{
		"package_id":   pkg.ID,
		"update":       pkgDraft.IsEdit(),
		"destinations": len(pkgDraft.Destinations),
		"new_photos":   pkgDraft.PhotoCount(),
	}).Info("Package saved")

	return pkg, nil
}

// SubmitService validates the draft and creates or updates the service
func (s *AdminService) SubmitService(ctx context.Context, token, draftID string) (*models.Service, error) {
	draft, ok := s.drafts.Get(draftID)
	if !ok {
		return nil, admin.ErrDraftNotFound
	}
	if draft.Kind != admin.ServiceDraftKind {
		return nil, admin.ErrWrongDraftKind
	}

	svcDraft := draft.Service
	if err := svcDraft.Validate(); err != nil {
		return nil, err
	}
	form, err := svcDraft.Form()
	if err != nil {
		return nil, err
	}

	var svc *models.Service
	if svcDraft.IsEdit() {
		svc, err = s.client.UpdateService(ctx, token, svcDraft.EditID, form)
	} else {
		svc, err = s.client.CreateService(ctx, token, form)
	}
	if err != nil {
		s.logger.WithError(err).WithField("edit_id", svcDraft.EditID).Error("Failed to save service")
		return nil, err
	}

	s.drafts.Discard(draftID)
	s.logger.WithFields(logrus.Fields{
		"service_id": svc.ID,
		"update":     svcDraft.IsEdit(),
		"new_photos": len(svcDraft.NewPhotos),
	}).Info("Service saved")

	return svc, nil
}

// DeletePackage removes a package after the admin confirmed
func (s *AdminService) DeletePackage(ctx context.Context, token, id string) error {
	if err := s.client.DeletePackage(ctx, token, id); err != nil {
		s.logger.WithError(err).WithField("package_id", id).Error("Failed to delete package")
		return err
	}
	s.logger.WithField("package_id", id).Info("Package deleted")
	return nil
}

// DeleteService removes a service after the admin confirmed
func (s *AdminService) DeleteService(ctx context.Context, token, id string) error {
	if err := s.client.DeleteService(ctx, token, id); err != nil {
		s.logger.WithError(err).WithField("service_id", id).Error("Failed to delete service")
		return err
	}
	s.logger.WithField("service_id", id).Info("Service deleted")
	return nil
}
