package listing

import (
	"math"
	"sort"
	"strings"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
)

// Item is anything the listing pages can filter and sort
type Item interface {
	Facts() models.ListingFacts
}

type entry[T Item] struct {
	item  T
	facts models.ListingFacts
}

// Apply returns the items that match f in the requested order. The input
// slice is never modified; the result is always a fresh slice.
func Apply[T Item](items []T, f Filter) []T {
	entries := make([]entry[T], 0, len(items))
	for _, item := range items {
		e := entry[T]{item: item, facts: item.Facts()}
		if matchLocation(e.facts, f.Location) && matchPrice(e.facts, f) && matchDate(e.facts, f) {
			entries = append(entries, e)
		}
	}

	switch f.SortBy {
	case SortPriceAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return priceKey(entries[i].facts) < priceKey(entries[j].facts)
		})
	case SortPriceDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return priceKey(entries[i].facts) > priceKey(entries[j].facts)
		})
	case SortDateAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return dateKey(entries[i].facts) < dateKey(entries[j].facts)
		})
	case SortDateDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return dateKey(entries[i].facts) > dateKey(entries[j].facts)
		})
	}

	result := make([]T, len(entries))
	for i, e := range entries {
		result[i] = e.item
	}
	return result
}

func matchLocation(facts models.ListingFacts, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, location := range facts.Locations {
		if strings.Contains(strings.ToLower(location), query) {
			return true
		}
	}
	return false
}

// Free items and items without a price never satisfy a price bound.
func matchPrice(facts models.ListingFacts, f Filter) bool {
	if !f.HasPriceBound() {
		return true
	}
	if facts.IsFree || !facts.HasPrice {
		return false
	}
	if f.MinPrice != nil && facts.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && facts.Price > *f.MaxPrice {
		return false
	}
	return true
}

func matchDate(facts models.ListingFacts, f Filter) bool {
	if f.StartDateFrom == nil {
		return true
	}
	if !facts.HasStart {
		return false
	}
	return !facts.Start.Before(models.NewDate(*f.StartDateFrom))
}

// priceKey ranks free items as 0 and unpriced items above every price
func priceKey(facts models.ListingFacts) float64 {
	switch {
	case facts.IsFree:
		return 0
	case facts.HasPrice:
		return facts.Price
	}
	return math.Inf(1)
}

// dateKey orders undated items last
func dateKey(facts models.ListingFacts) int64 {
	if !facts.HasStart {
		return math.MaxInt64
	}
	return facts.Start.Unix()
}
