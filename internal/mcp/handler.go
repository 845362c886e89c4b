package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
)

// ListingService defines listing operations needed by MCP.
type ListingService interface {
	Create(ctx context.Context, d listing.Draft) (*listing.Listing, error)
	FetchRecent(ctx context.Context, limit int) ([]listing.Listing, error)
	Get(ctx context.Context, id string) (*listing.Listing, error)
	State() listing.State
}

// MenuService defines menu operations needed by MCP.
type MenuService interface {
	Fetch(ctx context.Context, location string) (*menu.Restaurant, error)
	FetchAll(ctx context.Context) []menu.Result
}

// Handler dispatches MCP tool calls.
type Handler struct {
	listings ListingService
	menus    MenuService
	catalog  listing.Catalog
	now      func() time.Time
}

// NewHandler creates a new MCP handler. menus may be nil, in which case the
// menu tools report MENU_UNAVAILABLE.
func NewHandler(listings ListingService, menus MenuService, catalog listing.Catalog) *Handler {
	return &Handler{
		listings: listings,
		menus:    menus,
		catalog:  catalog,
		now:      time.Now,
	}
}

// Handle dispatches MCP requests to domain services.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "list_recent_listings":
		var req ListRecentParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		listings, err := h.listings.FetchRecent(ctx, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return ListRecentResponse{
			Listings:  viewsOf(listings),
			Count:     len(listings),
			UpdatedAt: h.listings.State().UpdatedAt,
		}, nil

	case "create_listing":
		var req CreateListingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		draft, err := draftFromParams(req)
		if err != nil {
			return nil, mapError(err)
		}
		created, err := h.listings.Create(ctx, draft)
		if err != nil {
			return nil, mapError(err)
		}
		return CreateListingResponse{
			Listing: viewOf(*created),
			Recent:  viewsOf(h.listings.State().Listings),
		}, nil

	case "get_listing":
		var req GetListingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		l, err := h.listings.Get(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return viewOf(*l), nil

	case "contact_link":
		var req ContactLinkParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		l, err := h.listings.Get(ctx, req.ID)
		if err != nil {
			return nil, mapError(err)
		}
		return ContactLinkResponse{ID: l.ID, Link: listing.SMSLink(*l, req.Greeting)}, nil

	case "format_phone":
		var req FormatPhoneParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		formatted := listing.FormatPhoneNumber(req.Raw)
		return FormatPhoneResponse{
			Formatted: formatted,
			Valid:     listing.IsValidPhoneNumber(formatted),
		}, nil

	case "get_listing_form":
		return FormResponse{
			Catalog:         h.catalog,
			SelectableDates: h.catalog.SelectableDates(h.now()),
			Defaults:        h.catalog.Clamp(h.catalog.NewDraft()),
			SubmitMessage:   listing.SubmitMessage,
		}, nil

	case "get_menu":
		var req GetMenuParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if h.menus == nil {
			return nil, mapError(menu.ErrUpstream)
		}
		restaurant, err := h.menus.Fetch(ctx, req.Location)
		if err != nil {
			return nil, mapError(err)
		}
		return restaurant, nil

	case "get_all_menus":
		if h.menus == nil {
			return nil, mapError(menu.ErrUpstream)
		}
		results := h.menus.FetchAll(ctx)
		resp := AllMenusResponse{Menus: make([]MenuView, 0, len(results))}
		for _, r := range results {
			view := MenuView{Location: r.Location, Restaurant: r.Restaurant}
			if r.Err != nil {
				view.Error = MapError(r.Err)
				if view.Error == nil {
					view.Error = &APIError{Code: "INTERNAL", Message: "internal error"}
				}
			}
			resp.Menus = append(resp.Menus, view)
		}
		return resp, nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", method)
	}
}

func draftFromParams(req CreateListingParams) (listing.Draft, error) {
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

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return mapError(fmt.Errorf("%w: %w", ErrInvalidParams, err))
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
