package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
	"github.com/rpggio/zotswipe/internal/metrics"
)

// ListingService handles listing operations.
type ListingService interface {
	Create(ctx context.Context, d listing.Draft) (*listing.Listing, error)
	FetchRecent(ctx context.Context, limit int) ([]listing.Listing, error)
	Get(ctx context.Context, id string) (*listing.Listing, error)
	State() listing.State
	Subscribe() (<-chan listing.State, func())
}

// MenuService handles dining hall menus.
type MenuService interface {
	Fetch(ctx context.Context, location string) (*menu.Restaurant, error)
	FetchAll(ctx context.Context) []menu.Result
}

// Options configures the HTTP router. Menus, MCP and Metrics are optional.
type Options struct {
	Listings ListingService
	Menus    MenuService
	Catalog  listing.Catalog
	MCP      http.Handler
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	listings ListingService
	menus    MenuService
	catalog  listing.Catalog
	logger   *slog.Logger
	now      func() time.Time
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	srv := &Server{
		listings: opts.Listings,
		menus:    opts.Menus,
		catalog:  opts.Catalog,
		logger:   logger,
		now:      time.Now,
	}

	r.Get("/health", srv.handleHealth)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Route("/listings", func(r chi.Router) {
		r.Get("/", srv.handleListRecent)
		r.Post("/", srv.handleCreate)
		r.Get("/form", srv.handleForm)
		r.Get("/stream", srv.handleStream)
		r.Get("/{id}", srv.handleGet)
		r.Get("/{id}/contact", srv.handleContact)
	})
	r.Post("/phone/format", srv.handleFormatPhone)

	if opts.Menus != nil {
		r.Get("/menus", srv.handleMenus)
		r.Get("/menus/{location}", srv.handleMenu)
	}

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, CodeInvalidRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	listings, err := s.listings.FetchRecent(r.Context(), limit)
	if err != nil {
		// The last good page is still served alongside the error.
		state := s.listings.State()
		status, body := classify(err)
		resp := recentResponse(state.Listings, state.UpdatedAt)
		resp.Error = &body
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, recentResponse(listings, s.listings.State().UpdatedAt))
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	draft, err := req.draft()
	if err != nil {
		s.logger.Debug("listing request rejected", "error", err)
		writeDomainError(w, err)
		return
	}

	created, err := s.listings.Create(r.Context(), draft)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, CreateListingResponse{
		Listing: viewOf(*created),
		Recent:  viewsOf(s.listings.State().Listings),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	l, err := s.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(*l))
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	l, err := s.listings.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ContactResponse{
		ID:   l.ID,
		Link: listing.SMSLink(*l, r.URL.Query().Get("greeting")),
	})
}

func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, FormResponse{
		Catalog:         s.catalog,
		SelectableDates: s.catalog.SelectableDates(s.now()),
		Defaults:        s.catalog.Clamp(s.catalog.NewDraft()),
		SubmitMessage:   listing.SubmitMessage,
	})
}

func (s *Server) handleFormatPhone(w http.ResponseWriter, r *http.Request) {
	var req FormatPhoneRequest
	if err := decodeJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	formatted := listing.FormatPhoneNumber(req.Raw)
	writeJSON(w, http.StatusOK, FormatPhoneResponse{
		Formatted: formatted,
		Valid:     listing.IsValidPhoneNumber(formatted),
	})
}

// handleStream pushes listing state snapshots as server-sent events until
// the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, CodeInternal, "streaming unsupported")
		return
	}

	updates, cancel := s.listings.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			data, err := json.Marshal(stateEvent(state))
			if err != nil {
				s.logger.Error("encoding listing state", "error", err)
				return
			}
			if _, err := fmt.Fprintf(w, "event: state\ndata: %s\n\n", data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (s *Server) handleMenus(w http.ResponseWriter, r *http.Request) {
	results := s.menus.FetchAll(r.Context())
	resp := MenusResponse{Menus: make([]MenuView, 0, len(results))}
	for _, res := range results {
		view := MenuView{Location: res.Location, Restaurant: res.Restaurant}
		if res.Err != nil {
			_, body := classify(res.Err)
			view.Error = &body
		}
		resp.Menus = append(resp.Menus, view)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	restaurant, err := s.menus.Fetch(r.Context(), chi.URLParam(r, "location"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}
