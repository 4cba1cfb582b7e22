package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is posted to /api/contact
type ContactMessage struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

// Hotel and transport preferences offered on the custom package form
const (
	HotelBudget  = "budget"
	HotelComfort = "comfort"
	HotelLuxury  = "luxury"

	TransportBasic   = "basic"
	TransportComfort = "comfort"
	TransportVIP     = "vip"
)

// AdditionalServiceOption is one checkbox of the custom package form
type AdditionalServiceOption struct {
	ID    string
	Label string
}

// AdditionalServiceOptions lists the extras a traveller can request
var AdditionalServiceOptions = []AdditionalServiceOption{
	{ID: "guide", Label: "Persoonlijke gids"},
	{ID: "meals", Label: "Maaltijden inbegrepen"},
	{ID: "activities", Label: "Extra activiteiten"},
	{ID: "insurance", Label: "Reisverzekering"},
	{ID: "visa", Label: "Visum service"},
}

// CustomPackageRequest is posted to /api/custom-package
type CustomPackageRequest struct {
	DepartureLocation   string   `json:"departureLocation" form:"departureLocation"`
	Destination         string   `json:"destination" form:"destination"`
	AdditionalStops     []string `json:"additionalStops" form:"additionalStops"`
	StartDate           string   `json:"startDate" form:"startDate"`
	EndDate             string   `json:"endDate" form:"endDate"`
	NumberOfPeople      int      `json:"numberOfPeople" form:"numberOfPeople"`
	HotelPreference     string   `json:"hotelPreference" form:"hotelPreference"`
	TransportPreference string   `json:"transportPreference" form:"transportPreference"`
	AdditionalServices  []string `json:"additionalServices" form:"additionalServices"`
	SpecialRequests     string   `json:"specialRequests" form:"specialRequests"`
	Name                string   `json:"name" form:"name"`
	Email               string   `json:"email" form:"email"`
	Phone               string   `json:"phone" form:"phone"`
}

// NewCustomPackageRequest returns the form defaults
func NewCustomPackageRequest() CustomPackageRequest {
	return CustomPackageRequest{
		AdditionalStops:     []string{},
		NumberOfPeople:      1,
		HotelPreference:     HotelComfort,
		TransportPreference: TransportComfort,
		AdditionalServices:  []string{},
	}
}

// HasService reports whether an extra is ticked
func (r CustomPackageRequest) HasService(id string) bool {
	for _, s := range r.AdditionalServices {
		if s == id {
			return true
		}
	}
	return false
}

// Subscription is posted to /api/subscribe
type Subscription struct {
	Email string `json:"email" form:"email"`
}

// LeadKind names the form a journal entry came from
type LeadKind string

const (
	LeadContact        LeadKind = "contact"
	LeadCustomPackage  LeadKind = "custom_package"
	LeadSubscribe      LeadKind = "subscribe"
	LeadBookingRequest LeadKind = "booking_request"
	LeadServiceInquiry LeadKind = "service_inquiry"
)

// LeadStatus is the outcome of forwarding a lead to the backend
type LeadStatus string

const (
	LeadStatusSent   LeadStatus = "sent"
	LeadStatusFailed LeadStatus = "failed"
)

// Lead is one lead form submission recorded in the local journal
type Lead struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Kind       LeadKind   `json:"kind" db:"kind"`
	Status     LeadStatus `json:"status" db:"status"`
	Name       string     `json:"name" db:"name"`
	Email      string     `json:"email" db:"email"`
	Phone      string     `json:"phone" db:"phone"`
	Subject    string     `json:"subject" db:"subject"` // package, service or destination the lead is about
	Payload    string     `json:"payload" db:"payload"` // JSON body sent to the backend
	Error      string     `json:"error,omitempty" db:"error"`
	IPAddress  string     `json:"ip_address" db:"ip_address"`
	DeviceType string     `json:"device_type" db:"device_type"`
	OS         string     `json:"os" db:"os"`
	Browser    string     `json:"browser" db:"browser"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Label is the Dutch name of the lead kind for the dashboard
func (k LeadKind) Label() string {
	switch k {
	case LeadContact:
		return "Contact"
	case LeadCustomPackage:
		return "Pakket op maat"
	case LeadSubscribe:
		return "Nieuwsbrief"
	case LeadBookingRequest:
		return "Boekingsaanvraag"
	case LeadServiceInquiry:
		return "Service-aanvraag"
	}
	return string(k)
}
