package mcp

import (
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
)

// ListRecentParams are the arguments of list_recent_listings.
type ListRecentParams struct {
	Limit int `json:"limit,omitempty"`
}

// CreateListingParams are the arguments of create_listing.
type CreateListingParams struct {
	SwipeCount    int      `json:"swipe_count"`
	PricePerSwipe float64  `json:"price_per_swipe"`
	Dates         []string `json:"dates"`
	Meals         []string `json:"meals"`
	Locations     []string `json:"locations"`
	BuyerName     string   `json:"buyer_name"`
	ContactPhone  string   `json:"contact_phone"`
	Note          string   `json:"note,omitempty"`
}

// GetListingParams are the arguments of get_listing.
type GetListingParams struct {
	ID string `json:"id"`
}

// ContactLinkParams are the arguments of contact_link.
type ContactLinkParams struct {
	ID       string `json:"id"`
	Greeting string `json:"greeting,omitempty"`
}

// FormatPhoneParams are the arguments of format_phone.
type FormatPhoneParams struct {
	Raw string `json:"raw"`
}

// GetMenuParams are the arguments of get_menu.
type GetMenuParams struct {
	Location string `json:"location"`
}

// ListingView is a listing as returned to MCP clients.
type ListingView struct {
	listing.Listing
	Total float64 `json:"total"`
}

// ListRecentResponse is the list_recent_listings result.
type ListRecentResponse struct {
	Listings  []ListingView `json:"listings"`
	Count     int           `json:"count"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CreateListingResponse is the create_listing result.
type CreateListingResponse struct {
	Listing ListingView   `json:"listing"`
	Recent  []ListingView `json:"recent"`
}

// ContactLinkResponse is the contact_link result.
type ContactLinkResponse struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// FormatPhoneResponse is the format_phone result.
type FormatPhoneResponse struct {
	Formatted string `json:"formatted"`
	Valid     bool   `json:"valid"`
}

// FormResponse describes the options a listing form offers.
type FormResponse struct {
	Catalog         listing.Catalog `json:"catalog"`
	SelectableDates []listing.Date  `json:"selectable_dates"`
	Defaults        listing.Draft   `json:"defaults"`
	SubmitMessage   string          `json:"submit_message"`
}

// MenuView is one hall in a get_all_menus result.
type MenuView struct {
	Location   string           `json:"location"`
	Restaurant *menu.Restaurant `json:"restaurant,omitempty"`
	Error      *APIError        `json:"error,omitempty"`
}

// AllMenusResponse is the get_all_menus result.
type AllMenusResponse struct {
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
