package listing

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// IsSubmittable reports whether a draft is complete enough to persist.
func IsSubmittable(d Draft) bool {
	return len(Issues(d)) == 0
}

// Issues names the draft fields that block submission. Callers use it for
// logging; users only ever see SubmitMessage.
func Issues(d Draft) []string {
	var issues []string
	if d.SwipeCount < 1 {
		issues = append(issues, "swipe_count")
	}
	if !(d.PricePerSwipe >= 1) || math.IsInf(d.PricePerSwipe, 0) {
		issues = append(issues, "price_per_swipe")
	}
	if len(d.Dates) == 0 {
		issues = append(issues, "dates")
	}
	if len(d.Meals) == 0 {
		issues = append(issues, "meals")
	}
	if len(d.Locations) == 0 {
		issues = append(issues, "locations")
	}
	if strings.TrimSpace(d.BuyerName) == "" {
		issues = append(issues, "buyer_name")
	}
	if !IsValidPhoneNumber(d.ContactPhone) {
		issues = append(issues, "contact_phone")
	}
	return issues
}

// ValidateStored checks a record read back from a store against the Listing
// invariants.
func ValidateStored(l Listing) error {
	issues := Issues(Draft{
		SwipeCount:    l.SwipeCount,
		PricePerSwipe: l.PricePerSwipe,
		Dates:         l.Dates,
		Meals:         l.Meals,
		Locations:     l.Locations,
		BuyerName:     l.BuyerName,
		ContactPhone:  l.ContactPhone,
	})
	if l.ListedAt.IsZero() {
		issues = append(issues, "listed_at")
	}
	if len(issues) > 0 {
		return fmt.Errorf("invalid fields: %s", strings.Join(issues, ", "))
	}
	return nil
}

// Validator gates drafts against a catalog.
type Validator struct {
	catalog Catalog
	now     func() time.Time
}

// NewValidator creates a validator bound to catalog.
func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog, now: time.Now}
}

// Issues extends the base checks with catalog membership when the catalog is strict.
func (v *Validator) Issues(d Draft) []string {
	issues := Issues(d)
	if !v.catalog.Strict {
		return issues
	}
	for _, m := range d.Meals {
		if !v.catalog.HasMeal(m) {
			issues = append(issues, "meals")
			break
		}
	}
	for _, l := range d.Locations {
		if !v.catalog.HasLocation(l) {
			issues = append(issues, "locations")
			break
		}
	}
	window := v.catalog.SelectableDates(v.now())
	for _, day := range d.Dates {
		if !slices.Contains(window, day) {
			issues = append(issues, "dates")
			break
		}
	}
	return issues
}

// Validate returns ErrValidation, naming the failing fields, when the draft
// is not submittable.
func (v *Validator) Validate(d Draft) error {
	if issues := v.Issues(d); len(issues) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(issues, ", "))
	}
	return nil
}
