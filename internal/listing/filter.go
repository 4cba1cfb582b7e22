package listing

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
)

// SortBy selects the ordering of a listing
type SortBy string

const (
	SortNone      SortBy = "none"
	SortPriceAsc  SortBy = "priceAsc"
	SortPriceDesc SortBy = "priceDesc"
	SortDateAsc   SortBy = "dateAsc"
	SortDateDesc  SortBy = "dateDesc"
)

// Valid reports whether s is a known sort order
func (s SortBy) Valid() bool {
	switch s {
	case SortNone, SortPriceAsc, SortPriceDesc, SortDateAsc, SortDateDesc:
		return true
	}
	return false
}

// Filter is the set of listing criteria taken from the filter form
type Filter struct {
	Location      string
	MinPrice      *float64
	MaxPrice      *float64
	StartDateFrom *time.Time
	SortBy        SortBy
}

// HasPriceBound reports whether a min or max price is set
func (f Filter) HasPriceBound() bool {
	return f.MinPrice != nil || f.MaxPrice != nil
}

// IsZero reports whether the filter keeps every item in fetch order
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Location) == "" && !f.HasPriceBound() &&
		f.StartDateFrom == nil && (f.SortBy == "" || f.SortBy == SortNone)
}

// Values encodes the filter back into query parameters
func (f Filter) Values() url.Values {
	values := url.Values{}
	if f.Location != "" {
		values.Set("location", f.Location)
	}
	if f.MinPrice != nil {
		values.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		values.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.StartDateFrom != nil {
		values.Set("startDateFrom", f.StartDateFrom.Format(models.DateLayout))
	}
	if f.SortBy != "" && f.SortBy != SortNone {
		values.Set("sortBy", string(f.SortBy))
	}
	return values
}

// ParseFilter reads the filter from query parameters. Empty values mean
// "no bound"; malformed values are reported so the form can show them.
func ParseFilter(values url.Values) (Filter, error) {
	f := Filter{
		Location: strings.TrimSpace(values.Get("location")),
		SortBy:   SortNone,
	}

	var err error
	if f.MinPrice, err = parsePrice(values.Get("minPrice")); err != nil {
		return f, models.NewValidationError("minPrice", "Minimumprijs moet een positief getal zijn")
	}
	if f.MaxPrice, err = parsePrice(values.Get("maxPrice")); err != nil {
		return f, models.NewValidationError("maxPrice", "Maximumprijs moet een positief getal zijn")
	}

	if raw := strings.TrimSpace(values.Get("startDateFrom")); raw != "" {
		date, err := models.ParseDate(raw)
		if err != nil {
			return f, models.NewValidationError("startDateFrom", "Ongeldige startdatum")
		}
		from := date.Time
		f.StartDateFrom = &from
	}

	if raw := strings.TrimSpace(values.Get("sortBy")); raw != "" {
		sortBy := SortBy(raw)
		if !sortBy.Valid() {
			return f, models.NewValidationError("sortBy", fmt.Sprintf("Onbekende sortering %q", raw))
		}
		f.SortBy = sortBy
	}

	return f, nil
}

func parsePrice(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
	if err != nil {
		return nil, err
	}
	if value < 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("price out of range: %s", raw)
	}
	return &value, nil
}
