package listing

import (
	"slices"
	"time"
)

// Range is an inclusive integer bound.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r Range) clamp(v int) int {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Catalog holds the selectable tag sets and the form affordance limits.
type Catalog struct {
	Meals          []Meal     `json:"meals"`
	Locations      []Location `json:"locations"`
	SwipeRange     Range      `json:"swipe_range"`
	PriceRange     Range      `json:"price_range"`
	DateWindowDays int        `json:"date_window_days"`
	DefaultSwipes  int        `json:"default_swipes"`
	DefaultPrice   int        `json:"default_price"`
	// Strict enables membership and date window checks in the validator.
	Strict bool `json:"strict"`
}

// DefaultCatalog returns the stock meal periods and dining halls.
func DefaultCatalog() Catalog {
	return Catalog{
		Meals:          []Meal{MealBreakfast, MealLunch, MealDinner},
		Locations:      []Location{LocationAnteatery, LocationBrandywine},
		SwipeRange:     Range{Min: 1, Max: 10},
		PriceRange:     Range{Min: 1, Max: 20},
		DateWindowDays: 14,
		DefaultSwipes:  1,
		DefaultPrice:   10,
	}
}

// HasMeal reports whether m is in the catalog.
func (c Catalog) HasMeal(m Meal) bool {
	return slices.Contains(c.Meals, m)
}

// HasLocation reports whether l is in the catalog.
func (c Catalog) HasLocation(l Location) bool {
	return slices.Contains(c.Locations, l)
}

// SelectableDates returns the days a buyer may pick, starting with the day of now.
func (c Catalog) SelectableDates(now time.Time) []Date {
	dates := make([]Date, 0, c.DateWindowDays)
	for i := 0; i < c.DateWindowDays; i++ {
		dates = append(dates, DateOf(now.AddDate(0, 0, i)))
	}
	return dates
}

// NewDraft returns an empty draft with the catalog defaults applied.
func (c Catalog) NewDraft() Draft {
	return Draft{
		SwipeCount:    c.DefaultSwipes,
		PricePerSwipe: float64(c.DefaultPrice),
	}
}

// Clamp bounds swipe count and price into the catalog ranges.
func (c Catalog) Clamp(d Draft) Draft {
	d.SwipeCount = c.SwipeRange.clamp(d.SwipeCount)
	if d.PricePerSwipe < float64(c.PriceRange.Min) {
		d.PricePerSwipe = float64(c.PriceRange.Min)
	}
	if d.PricePerSwipe > float64(c.PriceRange.Max) {
		d.PricePerSwipe = float64(c.PriceRange.Max)
	}
	return d
}
