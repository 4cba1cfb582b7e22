package models

import (
	"math"
	"strconv"
)

// Price labels shown on cards and detail pages
const (
	PriceLabelFree      = "Gratis"
	PriceLabelOnRequest = "Prijs op aanvraag"
)

// RoomKind names one of the five fixed room offerings of a destination.
// The values are the JSON keys used by the backend.
type RoomKind string

const (
	SingleRoom RoomKind = "singleRoom"
	DoubleRoom RoomKind = "doubleRoom"
	TripleRoom RoomKind = "tripleRoom"
	QuadRoom   RoomKind = "quadRoom"
	CustomRoom RoomKind = "customRoom"
)

// RoomKinds lists every room kind in display order
var RoomKinds = [5]RoomKind{SingleRoom, DoubleRoom, TripleRoom, QuadRoom, CustomRoom}

// Label returns the Dutch display name of the room kind
func (k RoomKind) Label() string {
	switch k {
	case SingleRoom:
		return "Eenpersoonskamer"
	case DoubleRoom:
		return "Tweepersoonskamer"
	case TripleRoom:
		return "Driepersoonskamer"
	case QuadRoom:
		return "Vierpersoonskamer"
	case CustomRoom:
		return "Groepskamer"
	}
	return string(k)
}

// Valid reports whether k is one of the five known kinds
func (k RoomKind) Valid() bool {
	for _, kind := range RoomKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// RoomOffer is the availability and price of one room kind
type RoomOffer struct {
	Available bool    `json:"available"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// EffectivePrice is the displayed price; unavailable offers count as 0
func (o RoomOffer) EffectivePrice() float64 {
	if !o.Available {
		return 0
	}
	return o.Price
}

// CustomRoomOffer is a room offer with a configurable number of persons
type CustomRoomOffer struct {
	RoomOffer
	Capacity int `json:"capacity"`
}

// RoomTypes holds exactly the five room offerings of a destination
type RoomTypes struct {
	SingleRoom RoomOffer       `json:"singleRoom"`
	DoubleRoom RoomOffer       `json:"doubleRoom"`
	TripleRoom RoomOffer       `json:"tripleRoom"`
	QuadRoom   RoomOffer       `json:"quadRoom"`
	CustomRoom CustomRoomOffer `json:"customRoom"`
}

// RoomSlot pairs a room kind with its offer
type RoomSlot struct {
	Kind     RoomKind
	Offer    RoomOffer
	Capacity int // persons per room; only set for the custom room
}

// Slots returns all five offers in display order
func (r RoomTypes) Slots() [5]RoomSlot {
	return [5]RoomSlot{
		{Kind: SingleRoom, Offer: r.SingleRoom, Capacity: 1},
		{Kind: DoubleRoom, Offer: r.DoubleRoom, Capacity: 2},
		{Kind: TripleRoom, Offer: r.TripleRoom, Capacity: 3},
		{Kind: QuadRoom, Offer: r.QuadRoom, Capacity: 4},
		{Kind: CustomRoom, Offer: r.CustomRoom.RoomOffer, Capacity: r.CustomRoom.Capacity},
	}
}

// Offer returns the offer for a room kind
func (r RoomTypes) Offer(kind RoomKind) (RoomOffer, bool) {
	for _, slot := range r.Slots() {
		if slot.Kind == kind {
			return slot.Offer, true
		}
	}
	return RoomOffer{}, false
}

// Set replaces the offer for a room kind
func (r *RoomTypes) Set(kind RoomKind, offer RoomOffer) {
	switch kind {
	case SingleRoom:
		r.SingleRoom = offer
	case DoubleRoom:
		r.DoubleRoom = offer
	case TripleRoom:
		r.TripleRoom = offer
	case QuadRoom:
		r.QuadRoom = offer
	case CustomRoom:
		r.CustomRoom.RoomOffer = offer
	}
}

// LowestPrice is the cheapest available offer; false when none is available
func (r RoomTypes) LowestPrice() (float64, bool) {
	lowest := math.Inf(1)
	for _, slot := range r.Slots() {
		if slot.Offer.Available && slot.Offer.Price < lowest {
			lowest = slot.Offer.Price
		}
	}
	if math.IsInf(lowest, 1) {
		return 0, false
	}
	return lowest, true
}

// Destination is one leg of a package
type Destination struct {
	Location   string    `json:"location"`
	StartDate  Date      `json:"startDate"`
	EndDate    Date      `json:"endDate"`
	PhotoPaths []string  `json:"photoPaths"`
	RoomTypes  RoomTypes `json:"roomTypes"`
}

// Package is a travel package with one or more destinations
type Package struct {
	ID           string        `json:"_id"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	IsFree       bool          `json:"isFree"`
	Destinations []Destination `json:"destinations"`
}

// LowestPrice is the minimum available room price across all destinations
func (p Package) LowestPrice() (float64, bool) {
	lowest := math.Inf(1)
	for _, dest := range p.Destinations {
		if price, ok := dest.RoomTypes.LowestPrice(); ok && price < lowest {
			lowest = price
		}
	}
	if math.IsInf(lowest, 1) {
		return 0, false
	}
	return lowest, true
}

// PriceLabel is the price text shown for the package
func (p Package) PriceLabel() string {
	if p.IsFree {
		return PriceLabelFree
	}
	price, ok := p.LowestPrice()
	return fromPriceLabel(price, ok)
}

// RoomPriceLabel is the text shown for one room price or cart total of the
// package. Every price of a free package reads as free.
func (p Package) RoomPriceLabel(price float64) string {
	if p.IsFree {
		return PriceLabelFree
	}
	return FormatPrice(price)
}

// EarliestStart is the first start date across destinations
func (p Package) EarliestStart() (Date, bool) {
	var earliest Date
	found := false
	for _, dest := range p.Destinations {
		if dest.StartDate.IsZero() {
			continue
		}
		if !found || dest.StartDate.Before(earliest) {
			earliest = dest.StartDate
			found = true
		}
	}
	return earliest, found
}

// PhotoPaths returns every destination photo in destination order
func (p Package) PhotoPaths() []string {
	var paths []string
	for _, dest := range p.Destinations {
		paths = append(paths, dest.PhotoPaths...)
	}
	return paths
}

// Service is a single bookable service (visa, transport, accommodation ...)
type Service struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	IsFree        bool     `json:"isFree"`
	Location      string   `json:"location"`
	StartDate     Date     `json:"startDate"`
	EndDate       Date     `json:"endDate"`
	Price         *float64 `json:"price"`
	NumberOfRooms int      `json:"numberOfRooms"`
	PhotoPaths    []string `json:"photoPaths"`
}

// PriceLabel is the price text shown for the service
func (s Service) PriceLabel() string {
	if s.IsFree {
		return PriceLabelFree
	}
	if s.Price == nil || *s.Price == 0 {
		return PriceLabelOnRequest
	}
	return fromPriceLabel(*s.Price, true)
}

// FormatPrice renders a euro amount without trailing zeros
func FormatPrice(price float64) string {
	return "€" + strconv.FormatFloat(price, 'f', -1, 64)
}

func fromPriceLabel(price float64, ok bool) string {
	if !ok {
		return PriceLabelOnRequest
	}
	return "Vanaf " + FormatPrice(price)
}

// ListingFacts are the values the listing filter and sort read from an item
type ListingFacts struct {
	Locations []string
	IsFree    bool
	Price     float64
	HasPrice  bool
	Start     Date
	HasStart  bool
}

// Facts summarises the package for filtering: every destination location,
// the lowest available price and the earliest start date.
func (p Package) Facts() ListingFacts {
	facts := ListingFacts{IsFree: p.IsFree}
	for _, dest := range p.Destinations {
		facts.Locations = append(facts.Locations, dest.Location)
	}
	facts.Price, facts.HasPrice = p.LowestPrice()
	facts.Start, facts.HasStart = p.EarliestStart()
	return facts
}

// Facts summarises the service for filtering
func (s Service) Facts() ListingFacts {
	facts := ListingFacts{
		Locations: []string{s.Location},
		IsFree:    s.IsFree,
		Start:     s.StartDate,
		HasStart:  !s.StartDate.IsZero(),
	}
	if s.Price != nil && *s.Price > 0 {
		facts.Price, facts.HasPrice = *s.Price, true
	}
	return facts
}
