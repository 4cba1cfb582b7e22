package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
)

// ListPackages handles GET /api/packages
func (c *Client) ListPackages(ctx context.Context) ([]models.Package, error) {
	var packages []models.Package
	if err := c.getJSON(ctx, "/api/packages", &packages); err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	if packages == nil {
		packages = []models.Package{}
	}
	return packages, nil
}

// GetPackage handles GET /api/packages/:id
func (c *Client) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	var pkg models.Package
	if err := c.getJSON(ctx, "/api/packages/"+escape(id), &pkg); err != nil {
		return nil, fmt.Errorf("failed to get package %s: %w", id, err)
	}
	return &pkg, nil
}

// CreatePackage handles POST /api/packages (multipart)
func (c *Client) CreatePackage(ctx context.Context, token string, form *Form) (*models.Package, error) {
	var pkg models.Package
	if err := c.sendForm(ctx, http.MethodPost, "/api/packages", token, form, &pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}
	return &pkg, nil
}

// UpdatePackage handles PUT /api/packages/:id (multipart)
func (c *Client) UpdatePackage(ctx context.Context, token, id string, form *Form) (*models.Package, error) {
	var pkg models.Package
	if err := c.sendForm(ctx, http.MethodPut, "/api/packages/"+escape(id), token, form, &pkg); err != nil {
		return nil, fmt.Errorf("failed to update package %s: %w", id, err)
	}
	return &pkg, nil
}

// DeletePackage handles DELETE /api/packages/:id
func (c *Client) DeletePackage(ctx context.Context, token, id string) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: "/api/packages/" + escape(id), token: token}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete package %s: %w", id, err)
	}
	return nil
}

// ListServices handles GET /api/services
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var services []models.Service
	if err := c.getJSON(ctx, "/api/services", &services); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	if services == nil {
		services = []models.Service{}
	}
	return services, nil
}

// GetService handles GET /api/services/:id
func (c *Client) GetService(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	if err := c.getJSON(ctx, "/api/services/"+escape(id), &svc); err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", id, err)
	}
	return &svc, nil
}

// CreateService handles POST /api/services (multipart)
func (c *Client) CreateService(ctx context.Context, token string, form *Form) (*models.Service, error) {
	var svc models.Service
	if err := c.sendForm(ctx, http.MethodPost, "/api/services", token, form, &svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return &svc, nil
}

// UpdateService handles PUT /api/services/:id (multipart)
func (c *Client) UpdateService(ctx context.Context, token, id string, form *Form) (*models.Service, error) {
	var svc models.Service
	if err := c.sendForm(ctx, http.MethodPut, "/api/services/"+escape(id), token, form, &svc); err != nil {
		return nil, fmt.Errorf("failed to update service %s: %w", id, err)
	}
	return &svc, nil
}

// DeleteService handles DELETE /api/services/:id
func (c *Client) DeleteService(ctx context.Context, token, id string) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: "/api/services/" + escape(id), token: token}, nil)
	if err != nil {
		return fmt.Errorf("failed to delete service %s: %w", id, err)
	}
	return nil
}
