package transport

import (
	"fmt"
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
)

// CreateListingRequest is the POST /listings body. ContactPhone may be raw
// input; it is formatted before validation.
type CreateListingRequest struct {
	SwipeCount    int      `json:"swipe_count"`
	PricePerSwipe float64  `json:"price_per_swipe"`
	Dates         []string `json:"dates"`
	Meals         []string `json:"meals"`
	Locations     []string `json:"locations"`
	BuyerName     string   `json:"buyer_name"`
	ContactPhone  string   `json:"contact_phone"`
	Note          string   `json:"note"`
}

func (req CreateListingRequest) draft() (listing.Draft, error) {
	dates, err := listing.ParseDates(req.Dates)
	if err != nil {
		return listing.Draft{}, fmt.Errorf("%w: %w", listing.ErrValidation, err)
	}
	d := listing.Draft{
		SwipeCount:    req.SwipeCount,
		PricePerSwipe: req.PricePerSwipe,
		Dates:         dates,
		BuyerName:     req.BuyerName,
		ContactPhone:  listing.FormatPhoneNumber(req.ContactPhone),
		Note:          req.Note,
	}
	for _, m := range req.Meals {
		d.Meals = append(d.Meals, listing.Meal(m))
	}
	for _, l := range req.Locations {
		d.Locations = append(d.Locations, listing.Location(l))
	}
	return d, nil
}

// ListingView is a listing with its computed total.
type ListingView struct {
	listing.Listing
	Total float64 `json:"total"`
}

// RecentResponse is the GET /listings body.
type RecentResponse struct {
	Listings  []ListingView `json:"listings"`
	Count     int           `json:"count"`
	UpdatedAt time.Time     `json:"updated_at"`
	Error     *ErrorBody    `json:"error,omitempty"`
}

// CreateListingResponse is the POST /listings body.
type CreateListingResponse struct {
	Listing ListingView   `json:"listing"`
	Recent  []ListingView `json:"recent"`
}

type ContactResponse struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

type FormatPhoneRequest struct {
	Raw string `json:"raw"`
}

type FormatPhoneResponse struct {
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
}

// FormResponse lists the choices offered when composing a listing.
type FormResponse struct {
	Catalog         listing.Catalog `json:"catalog"`
	SelectableDates []listing.Date  `json:"selectable_dates"`
	Defaults        listing.Draft   `json:"defaults"`
	SubmitMessage   string          `json:"submit_message"`
}

// StateEvent is one server-sent listing state snapshot.
type StateEvent struct {
	Listings  []ListingView `json:"listings"`
	Loading   bool          `json:"loading"`
	Error     string        `json:"error,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type MenuView struct {
	Location   string           `json:"location"`
	Restaurant *menu.Restaurant `json:"restaurant,omitempty"`
	Error      *ErrorBody       `json:"error,omitempty"`
}

type MenusResponse struct {
	Menus []MenuView `json:"menus"`
}

func viewOf(l listing.Listing) ListingView {
	return ListingView{Listing: l, Total: l.Total()}
}

func viewsOf(listings []listing.Listing) []ListingView {
	views := make([]ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, viewOf(l))
	}
	return views
}

func recentResponse(listings []listing.Listing, updatedAt time.Time) RecentResponse {
	return RecentResponse{
		Listings:  viewsOf(listings),
		Count:     len(listings),
		UpdatedAt: updatedAt,
	}
}

func stateEvent(state listing.State) StateEvent {
	ev := StateEvent{
		Listings:  viewsOf(state.Listings),
		Loading:   state.Loading,
		UpdatedAt: state.UpdatedAt,
	}
	if state.Err != nil {
		_, body := classify(state.Err)
		ev.Error = body.Message
	}
	return ev
}
