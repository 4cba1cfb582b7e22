package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/listing"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
	"github.com/sirupsen/logrus"
)

// Dutch messages shown in place of a listing or detail page
const (
	MsgPackagesUnavailable = "Er is een fout opgetreden bij het ophalen van de pakketten."
	MsgServicesUnavailable = "Er is een fout opgetreden bij het ophalen van de services."
	MsgPackageNotFound     = "Dit pakket bestaat niet (meer)."
	MsgServiceNotFound     = "Deze service bestaat niet (meer)."
)

// ErrNotFound is returned when a package or service does not exist
var ErrNotFound = errors.New("listing not found")

// CatalogService fetches packages and services for the public pages.
// Every call goes to the backend; nothing is cached between requests.
type CatalogService struct {
	client *apiclient.Client
	logger *logrus.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(client *apiclient.Client, logger *logrus.Logger) *CatalogService {
	return &CatalogService{
		client: client,
		logger: logger,
	}
}

// ListPackages fetches all packages and applies the filter
func (s *CatalogService) ListPackages(ctx context.Context, filter listing.Filter) ([]models.Package, error) {
	packages, err := s.client.ListPackages(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch packages")
		return nil, err
	}
	return listing.Apply(packages, filter), nil
}

// GetPackage fetches one package; ErrNotFound when it does not exist
func (s *CatalogService) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	pkg, err := s.client.GetPackage(ctx, id)
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil, fmt.Errorf("package %s: %w", id, ErrNotFound)
	}
	if err != nil {
		s.logger.WithError(err).WithField("package_id", id).Error("Failed to fetch package")
		return nil, err
	}
	return pkg, nil
}

// ListServices fetches all services and applies the filter
func (s *CatalogService) ListServices(ctx context.Context, filter listing.Filter) ([]models.Service, error) {
	services, err := s.client.ListServices(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch services")
		return nil, err
	}
	return listing.Apply(services, filter), nil
}

// GetService fetches one service; ErrNotFound when it does not exist
func (s *CatalogService) GetService(ctx context.Context, id string) (*models.Service, error) {
	svc, err := s.client.GetService(ctx, id)
	if errors.Is(err, apiclient.ErrNotFound) {
		return nil, fmt.Errorf("service %s: %w", id, ErrNotFound)
	}
	if err != nil {
		s.logger.WithError(err).WithField("service_id", id).Error("Failed to fetch service")
		return nil, err
	}
	return svc, nil
}
