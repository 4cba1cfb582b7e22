package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
)

// LoginRequest represents the login request structure
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the login response structure
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// Login handles POST /api/login and returns the backend token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp LoginResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/login", "", LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return "", fmt.Errorf("failed to log in: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("failed to log in: backend returned no token")
	}
	return resp.Token, nil
}

// backgroundEnvelope wraps background image responses
type backgroundEnvelope struct {
	Success bool                   `json:"success"`
	Data    models.BackgroundImage `json:"data"`
}

// GetBackgroundImage handles GET /api/background-image/:pageName.
// Returns ErrNotFound (wrapped) when no override exists.
func (c *Client) GetBackgroundImage(ctx context.Context, pageName string) (*models.BackgroundImage, error) {
	var env backgroundEnvelope
	if err := c.getJSON(ctx, "/api/background-image/"+escape(pageName), &env); err != nil {
		return nil, fmt.Errorf("failed to get background image for %s: %w", pageName, err)
	}
	return &env.Data, nil
}

// UploadBackgroundImage handles POST /api/background-image (multipart: image, pageName)
func (c *Client) UploadBackgroundImage(ctx context.Context, token, pageName, filename, contentType string, image []byte) (*models.BackgroundImage, error) {
	form := NewForm().
		AddField("pageName", pageName).
		AddFile("image", filename, contentType, image)

	var env backgroundEnvelope
	if err := c.sendForm(ctx, http.MethodPost, "/api/background-image", token, form, &env); err != nil {
		return nil, fmt.Errorf("failed to upload background image for %s: %w", pageName, err)
	}
	return &env.Data, nil
}

// LeadResponse is the success envelope of the lead endpoints
type LeadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) submitLead(ctx context.Context, path string, payload interface{}) (*LeadResponse, error) {
	var resp LeadResponse
	if err := c.sendJSON(ctx, http.MethodPost, path, "", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitContact handles POST /api/contact
func (c *Client) SubmitContact(ctx context.Context, msg models.ContactMessage) (*LeadResponse, error) {
	resp, err := c.submitLead(ctx, "/api/contact", msg)
	if err != nil {
		return nil, fmt.Errorf("failed to submit contact message: %w", err)
	}
	return resp, nil
}

// SubmitCustomPackage handles POST /api/custom-package
func (c *Client) SubmitCustomPackage(ctx context.Context, req models.CustomPackageRequest) (*LeadResponse, error) {
	resp, err := c.submitLead(ctx, "/api/custom-package", req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit custom package request: %w", err)
	}
	return resp, nil
}

// Subscribe handles POST /api/subscribe
func (c *Client) Subscribe(ctx context.Context, sub models.Subscription) (*LeadResponse, error) {
	resp, err := c.submitLead(ctx, "/api/subscribe", sub)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}
	return resp, nil
}

// SubmitBookingRequest handles POST /api/booking-request
func (c *Client) SubmitBookingRequest(ctx context.Context, req models.BookingRequest) (*LeadResponse, error) {
	resp, err := c.submitLead(ctx, "/api/booking-request", req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit booking request: %w", err)
	}
	return resp, nil
}

// SubmitServiceInquiry handles POST /api/service-inquiry
func (c *Client) SubmitServiceInquiry(ctx context.Context, inquiry models.ServiceInquiry) (*LeadResponse, error) {
	resp, err := c.submitLead(ctx, "/api/service-inquiry", inquiry)
	if err != nil {
		return nil, fmt.Errorf("failed to submit service inquiry: %w", err)
	}
	return resp, nil
}
