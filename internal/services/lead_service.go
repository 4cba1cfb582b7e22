package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/eliaselmokadem/guide2umrahfrontend/internal/utils"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/apiclient"
	"github.com/eliaselmokadem/guide2umrahfrontend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// Dutch messages shown next to the lead forms
const (
	MsgRequiredFields = "Vul alstublieft alle verplichte velden in."
	MsgInvalidEmail   = "Vul alstublieft een geldig e-mailadres in."
	MsgInvalidPhone   = "Vul alstublieft een geldig telefoonnummer in."
	MsgDateOrder      = "De einddatum moet na de startdatum liggen."
	MsgInvalidDate    = "Vul alstublieft een geldige datum in."
	MsgGenericFailure = "Er is een fout opgetreden. Probeer het later opnieuw."

	MsgContactSent       = "Uw bericht is succesvol verzonden. We nemen zo snel mogelijk contact met u op."
	MsgCustomPackageSent = "Je aanvraag is succesvol verzonden! We nemen zo snel mogelijk contact met je op."
	MsgSubscribed        = "Bedankt! We houden je op de hoogte."
	MsgBookingSent       = "Bedankt voor uw aanvraag! We nemen zo snel mogelijk contact met u op."
	MsgInquirySent       = "Bedankt voor uw interesse! We nemen zo snel mogelijk contact met u op."
)

// UserMessage turns a submission error into the text shown on the page:
// the validation message, else the backend's message, else fallback.
func UserMessage(err error, fallback string) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if msg := apiclient.ServerMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// LeadJournal records lead submissions locally
type LeadJournal interface {
	Create(lead *models.Lead) error
}

// Origin identifies who submitted a form
type Origin struct {
	IPAddress string
	UserAgent string
}

// LeadService validates lead forms, forwards them to the backend and
// records every attempt in the journal when one is configured.
type LeadService struct {
	client    *apiclient.Client
	journal   LeadJournal
	validator *validator.ContactValidator
	logger    *logrus.Logger
}

// NewLeadService creates a new lead service. journal may be nil.
func NewLeadService(client *apiclient.Client, journal LeadJournal, logger *logrus.Logger) *LeadService {
	return &LeadService{
		client:    client,
		journal:   journal,
		validator: validator.NewContactValidator(),
		logger:    logger,
	}
}

func (s *LeadService) checkEmail(email string) (string, error) {
	email, err := s.validator.ValidateEmail(email)
	switch {
	case errors.Is(err, validator.ErrEmptyEmail):
		return "", models.NewValidationError("email", MsgRequiredFields)
	case err != nil:
		return "", models.NewValidationError("email", MsgInvalidEmail)
	}
	return email, nil
}

func (s *LeadService) checkPhone(phone string, required bool) (string, error) {
	if strings.TrimSpace(phone) == "" && !required {
		return "", nil
	}
	phone, err := s.validator.ValidatePhone(phone)
	switch {
	case errors.Is(err, validator.ErrEmptyPhone):
		return "", models.NewValidationError("phone", MsgRequiredFields)
	case err != nil:
		return "", models.NewValidationError("phone", MsgInvalidPhone)
	}
	return phone, nil
}

// ValidateUserInfo checks the contact block of bookings and inquiries
func (s *LeadService) ValidateUserInfo(info models.UserInfo) (models.UserInfo, error) {
	info.FirstName = strings.TrimSpace(info.FirstName)
	info.LastName = strings.TrimSpace(info.LastName)
	info.Message = strings.TrimSpace(info.Message)

	if info.FirstName == "" {
		return info, models.NewValidationError("firstName", MsgRequiredFields)
	}
	if info.LastName == "" {
		return info, models.NewValidationError("lastName", MsgRequiredFields)
	}

	var err error
	if info.Email, err = s.checkEmail(info.Email); err != nil {
		return info, err
	}
	if info.Phone, err = s.checkPhone(info.Phone, true); err != nil {
		return info, err
	}
	return info, nil
}

// SubmitContact handles the contact form
func (s *LeadService) SubmitContact(ctx context.Context, msg models.ContactMessage, origin Origin) (string, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" {
		return "", models.NewValidationError("name", MsgRequiredFields)
	}

	var err error
	if msg.Email, err = s.checkEmail(msg.Email); err != nil {
		return "", err
	}
	if msg.Phone, err = s.checkPhone(msg.Phone, false); err != nil {
		return "", err
	}
	if msg.Message == "" {
		return "", models.NewValidationError("message", MsgRequiredFields)
	}

	resp, err := s.client.SubmitContact(ctx, msg)
	s.record(models.Lead{
		Kind:    models.LeadContact,
		Name:    msg.Name,
		Email:   msg.Email,
		Phone:   msg.Phone,
		Subject: msg.Subject,
	}, msg, origin, err)
	if err != nil {
		return "", err
	}
	return successMessage(resp, MsgContactSent), nil
}

// ValidateCustomPackage checks the custom package form and normalises it
func (s *LeadService) ValidateCustomPackage(req models.CustomPackageRequest) (models.CustomPackageRequest, error) {
	req.DepartureLocation = strings.TrimSpace(req.DepartureLocation)
	req.Destination = strings.TrimSpace(req.Destination)
	req.Name = strings.TrimSpace(req.Name)
	req.SpecialRequests = strings.TrimSpace(req.SpecialRequests)

	required := []struct{ field, value string }{
		{"departureLocation", req.DepartureLocation},
		{"destination", req.Destination},
		{"startDate", req.StartDate},
		{"endDate", req.EndDate},
		{"name", req.Name},
		{"email", req.Email},
		{"phone", req.Phone},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return req, models.NewValidationError(r.field, MsgRequiredFields)
		}
	}

	var err error
	if req.Email, err = s.checkEmail(req.Email); err != nil {
		return req, err
	}
	if req.Phone, err = s.checkPhone(req.Phone, true); err != nil {
		return req, err
	}

	start, err := models.ParseDate(req.StartDate)
	if err != nil {
		return req, models.NewValidationError("startDate", MsgInvalidDate)
	}
	end, err := models.ParseDate(req.EndDate)
	if err != nil {
		return req, models.NewValidationError("endDate", MsgInvalidDate)
	}
	if err := s.validator.ValidateDateRange(start.Time, end.Time); err != nil {
		return req, models.NewValidationError("endDate", MsgDateOrder)
	}
	req.StartDate, req.EndDate = start.String(), end.String()

	if req.NumberOfPeople < 1 {
		req.NumberOfPeople = 1
	}
	switch req.HotelPreference {
	case models.HotelBudget, models.HotelComfort, models.HotelLuxury:
	default:
		req.HotelPreference = models.HotelComfort
	}
	switch req.TransportPreference {
	case models.TransportBasic, models.TransportComfort, models.TransportVIP:
	default:
		req.TransportPreference = models.TransportComfort
	}

	stops := make([]string, 0, len(req.AdditionalStops))
	for _, stop := range req.AdditionalStops {
		if stop = strings.TrimSpace(stop); stop != "" {
			stops = append(stops, stop)
		}
	}
	req.AdditionalStops = stops

	extras := make([]string, 0, len(req.AdditionalServices))
	for _, option := range models.AdditionalServiceOptions {
		if req.HasService(option.ID) {
			extras = append(extras, option.ID)
		}
	}
	req.AdditionalServices = extras

	return req, nil
}

// SubmitCustomPackage handles the custom package form
func (s *LeadService) SubmitCustomPackage(ctx context.Context, req models.CustomPackageRequest, origin Origin) (string, error) {
	req, err := s.ValidateCustomPackage(req)
	if err != nil {
		return "", err
	}

	resp, err := s.client.SubmitCustomPackage(ctx, req)
	s.record(models.Lead{
		Kind:    models.LeadCustomPackage,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Destination,
	}, req, origin, err)
	if err != nil {
		return "", err
	}
	return successMessage(resp, MsgCustomPackageSent), nil
}

// Subscribe handles the coming-soon newsletter form
func (s *LeadService) Subscribe(ctx context.Context, sub models.Subscription, origin Origin) (string, error) {
	var err error
	if sub.Email, err = s.checkEmail(sub.Email); err != nil {
		return "", err
	}

	resp, err := s.client.Subscribe(ctx, sub)
	s.record(models.Lead{Kind: models.LeadSubscribe, Email: sub.Email}, sub, origin, err)
	if err != nil {
		return "", err
	}
	return successMessage(resp, MsgSubscribed), nil
}

// SubmitServiceInquiry handles the service detail inquiry form
func (s *LeadService) SubmitServiceInquiry(ctx context.Context, svc models.Service, info models.UserInfo, origin Origin) (string, error) {
	info, err := s.ValidateUserInfo(info)
	if err != nil {
		return "", err
	}

	inquiry := models.ServiceInquiry{ServiceID: svc.ID, ServiceName: svc.Name, UserInfo: info}
	resp, err := s.client.SubmitServiceInquiry(ctx, inquiry)
	s.record(models.Lead{
		Kind:    models.LeadServiceInquiry,
		Name:    info.FullName(),
		Email:   info.Email,
		Phone:   info.Phone,
		Subject: svc.Name,
	}, inquiry, origin, err)
	if err != nil {
		return "", err
	}
	return successMessage(resp, MsgInquirySent), nil
}

// submitBookingRequest forwards an already validated booking request
func (s *LeadService) submitBookingRequest(ctx context.Context, req models.BookingRequest, origin Origin) (string, error) {
	resp, err := s.client.SubmitBookingRequest(ctx, req)
	s.record(models.Lead{
		Kind:    models.LeadBookingRequest,
		Name:    req.UserInfo.FullName(),
		Email:   req.UserInfo.Email,
		Phone:   req.UserInfo.Phone,
		Subject: req.PackageName,
	}, req, origin, err)
	if err != nil {
		return "", err
	}
	return successMessage(resp, MsgBookingSent), nil
}

// record writes the journal entry; journal failures are logged, not returned
func (s *LeadService) record(lead models.Lead, payload interface{}, origin Origin, submitErr error) {
	fields := logrus.Fields{
		"kind": lead.Kind,
		"ip":   origin.IPAddress,
	}

	lead.Status = models.LeadStatusSent
	if submitErr != nil {
		lead.Status = models.LeadStatusFailed
		lead.Error = submitErr.Error()
		s.logger.WithFields(fields).WithError(submitErr).Warn("Lead submission failed")
	} else {
		s.logger.WithFields(fields).Info("Lead submitted")
	}

	if s.journal == nil {
		return
	}

	if data, err := json.Marshal(payload); err == nil {
		lead.Payload = string(data)
	}
	device := utils.ParseUserAgent(origin.UserAgent)
	lead.IPAddress = origin.IPAddress
	lead.DeviceType = device.DeviceType
	lead.OS = device.OS
	lead.Browser = device.Browser

	if err := s.journal.Create(&lead); err != nil {
		s.logger.WithFields(fields).WithError(err).Error("Failed to record lead")
	}
}

func successMessage(resp *apiclient.LeadResponse, fallback string) string {
	if resp != nil && resp.Message != "" {
		return resp.Message
	}
	return fallback
}
