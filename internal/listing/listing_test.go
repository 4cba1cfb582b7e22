package listing

import (
	"net/url"
	"testing"
	"time"

	"github.com/eliaselmokadem/guide2umrahfrontend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func date(t *testing.T, value string) models.Date {
	t.Helper()
	d, err := models.ParseDate(value)
	require.NoError(t, err)
	return d
}

func pkg(t *testing.T, id, location, start string, price float64) models.Package {
	return models.Package{
		ID: id,
		Destinations: []models.Destination{{
			Location:  location,
			StartDate: date(t, start),
			RoomTypes: models.RoomTypes{
				DoubleRoom: models.RoomOffer{Available: true, Quantity: 2, Price: price},
				SingleRoom: models.RoomOffer{Available: false, Price: 1},
			},
		}},
	}
}

func ids(packages []models.Package) []string {
	out := make([]string, len(packages))
	for i, p := range packages {
		out[i] = p.ID
	}
	return out
}

func samplePackages(t *testing.T) []models.Package {
	free := pkg(t, "free", "Medina", "2025-04-01", 0)
	free.IsFree = true

	unpriced := pkg(t, "unpriced", "Mekka", "2025-05-01", 0)
	unpriced.Destinations[0].RoomTypes.DoubleRoom.Available = false

	return []models.Package{
		pkg(t, "a", "Mekka", "2025-03-10", 1200),
		pkg(t, "b", "Medina", "2025-01-15", 800),
		free,
		pkg(t, "c", "Mekka & Medina", "2025-02-20", 1500),
		unpriced,
	}
}

func TestApply_NoFilterKeepsFetchOrder(t *testing.T) {
	packages := samplePackages(t)
	result := Apply(packages, Filter{SortBy: SortNone})
	assert.Equal(t, []string{"a", "b", "free", "c", "unpriced"}, ids(result))
}

func TestApply_Location(t *testing.T) {
	packages := samplePackages(t)

	result := Apply(packages, Filter{Location: "  mEdInA "})
	assert.Equal(t, []string{"b", "free", "c"}, ids(result))

	multi := models.Package{ID: "multi", Destinations: []models.Destination{{Location: "Istanbul"}, {Location: "Jeddah"}}}
	result = Apply([]models.Package{multi}, Filter{Location: "jed"})
	assert.Equal(t, []string{"multi"}, ids(result))
}

func TestApply_PriceBounds(t *testing.T) {
	packages := samplePackages(t)

	t.Run("Min equals max is inclusive", func(t *testing.T) {
		result := Apply(packages, Filter{MinPrice: ptr(1200), MaxPrice: ptr(1200)})
		assert.Equal(t, []string{"a"}, ids(result))
	})

	t.Run("Free and unpriced are excluded", func(t *testing.T) {
		result := Apply(packages, Filter{MinPrice: ptr(0)})
		assert.Equal(t, []string{"a", "b", "c"}, ids(result))
	})

	t.Run("Max only", func(t *testing.T) {
		result := Apply(packages, Filter{MaxPrice: ptr(1200)})
		assert.Equal(t, []string{"a", "b"}, ids(result))
	})

	t.Run("Min 1000 excludes the 500 package", func(t *testing.T) {
		cheap := models.Package{ID: "cheap", Destinations: []models.Destination{{RoomTypes: models.RoomTypes{
			SingleRoom: models.RoomOffer{Available: true, Price: 500},
			DoubleRoom: models.RoomOffer{Available: true, Price: 800},
		}}}}
		assert.Empty(t, Apply([]models.Package{cheap}, Filter{MinPrice: ptr(1000)}))
	})
}

func TestApply_StartDate(t *testing.T) {
	packages := samplePackages(t)
	from := time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)

	result := Apply(packages, Filter{StartDateFrom: &from})
	assert.Equal(t, []string{"a", "free", "unpriced"}, ids(result))
}

func TestApply_Sort(t *testing.T) {
	packages := samplePackages(t)

	asc := Apply(packages, Filter{SortBy: SortPriceAsc})
	assert.Equal(t, []string{"free", "b", "a", "c", "unpriced"}, ids(asc))

	desc := Apply(packages, Filter{SortBy: SortPriceDesc})
	assert.Equal(t, []string{"unpriced", "c", "a", "b", "free"}, ids(desc))

	dateAsc := Apply(packages, Filter{SortBy: SortDateAsc})
	assert.Equal(t, []string{"b", "c", "a", "free", "unpriced"}, ids(dateAsc))

	dateDesc := Apply(packages, Filter{SortBy: SortDateDesc})
	assert.Equal(t, []string{"unpriced", "free", "a", "c", "b"}, ids(dateDesc))
}

func TestApply_PriceSortsAreReversed(t *testing.T) {
	packages := []models.Package{
		pkg(t, "p1", "Mekka", "2025-01-01", 300),
		pkg(t, "p2", "Mekka", "2025-01-01", 100),
		pkg(t, "p3", "Mekka", "2025-01-01", 900),
		pkg(t, "p4", "Mekka", "2025-01-01", 450),
	}

	asc := ids(Apply(packages, Filter{SortBy: SortPriceAsc}))
	desc := ids(Apply(packages, Filter{SortBy: SortPriceDesc}))

	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	packages := samplePackages(t)
	before := ids(packages)

	result := Apply(packages, Filter{SortBy: SortPriceDesc, Location: "mekka"})
	require.NotEmpty(t, result)
	result[0].ID = "changed"

	assert.Equal(t, before, ids(packages))
	assert.Len(t, Apply(packages, Filter{}), len(packages))
}

func TestApply_Services(t *testing.T) {
	price := func(v float64) *float64 { return &v }
	services := []models.Service{
		{ID: "visa", Location: "Brussel", Price: price(150), StartDate: date(t, "2025-06-01")},
		{ID: "hotel", Location: "Mekka", Price: price(90), StartDate: date(t, "2025-02-01")},
		{ID: "onrequest", Location: "Mekka"},
		{ID: "gift", Location: "Medina", IsFree: true, Price: price(100)},
	}

	result := Apply(services, Filter{MinPrice: ptr(90), MaxPrice: ptr(150), SortBy: SortPriceDesc})
	require.Len(t, result, 2)
	assert.Equal(t, "visa", result[0].ID)
	assert.Equal(t, "hotel", result[1].ID)

	result = Apply(services, Filter{Location: "mekka", SortBy: SortDateAsc})
	require.Len(t, result, 2)
	assert.Equal(t, "hotel", result[0].ID)
	assert.Equal(t, "onrequest", result[1].ID)
}

func TestParseFilter(t *testing.T) {
	t.Run("Empty query", func(t *testing.T) {
		f, err := ParseFilter(url.Values{})
		require.NoError(t, err)
		assert.True(t, f.IsZero())
		assert.Equal(t, SortNone, f.SortBy)
	})

	t.Run("All fields", func(t *testing.T) {
		f, err := ParseFilter(url.Values{
			"location":      {" Mekka "},
			"minPrice":      {"1000"},
			"maxPrice":      {"1499,50"},
			"startDateFrom": {"2025-03-01"},
			"sortBy":        {"dateDesc"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Mekka", f.Location)
		assert.Equal(t, 1000.0, *f.MinPrice)
		assert.Equal(t, 1499.5, *f.MaxPrice)
		assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), *f.StartDateFrom)
		assert.Equal(t, SortDateDesc, f.SortBy)

		round, err := ParseFilter(f.Values())
		require.NoError(t, err)
		assert.Equal(t, f, round)
	})

	invalid := []struct {
		name  string
		key   string
		value string
	}{
		{"Negative price", "minPrice", "-5"},
		{"Text price", "maxPrice", "duur"},
		{"Bad date", "startDateFrom", "01/03/2025"},
		{"Unknown sort", "sortBy", "popular"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFilter(url.Values{tt.key: {tt.value}})
			require.Error(t, err)
			assert.True(t, models.IsValidationError(err))
		})
	}
}
