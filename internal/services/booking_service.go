package services

import (
	"context"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/booking"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/sirupsen/logrus"
)

// MsgNoRoomsSelected is shown when a booking is submitted with an empty cart
const MsgNoRoomsSelected = "Selecteer minstens één kamer om een aanvraag te versturen."

// BookingService turns a package detail cart into a booking request
type BookingService struct {
	leads  *LeadService
	logger *logrus.Logger
}

// NewBookingService creates a new booking service
func NewBookingService(leads *LeadService, logger *logrus.Logger) *BookingService {
	return &BookingService{
		leads:  leads,
		logger: logger,
	}
}

// BuildRequest validates the cart and contact details and assembles the
// request body. Nothing is sent.
func (s *BookingService) BuildRequest(pkg models.Package, cart booking.Cart, info models.UserInfo) (models.BookingRequest, error) {
	if cart.IsEmpty() {
		return models.BookingRequest{}, models.NewValidationError("selectedRooms", MsgNoRoomsSelected)
	}

	info, err := s.leads.ValidateUserInfo(info)
	if err != nil {
		return models.BookingRequest{}, err
	}

	rooms := make([]models.SelectedRoom, len(cart.Rooms))
	copy(rooms, cart.Rooms)

	return models.BookingRequest{
		PackageID:     pkg.ID,
		PackageName:   pkg.Name,
		SelectedRooms: rooms,
		UserInfo:      info,
		TotalPrice:    cart.Total(pkg),
	}, nil
}

// Submit validates before any network call, then posts the booking request.
// On failure the caller keeps the cart and form values so the visitor can retry.
func (s *BookingService) Submit(ctx context.Context, pkg models.Package, cart booking.Cart, info models.UserInfo, origin Origin) (string, error) {
	req, err := s.BuildRequest(pkg, cart, info)
	if err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"package_id": pkg.ID,
		"rooms":      len(req.SelectedRooms),
		"total":      req.TotalPrice,
	}).Info("Submitting booking request")

	return s.leads.submitBookingRequest(ctx, req, origin)
}
