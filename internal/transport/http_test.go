package transport_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/testserver"
	"github.com/rpggio/zotswipe/internal/transport"
	"github.com/stretchr/testify/require"
)

func validRequest() transport.CreateListingRequest {
	return transport.CreateListingRequest{
		SwipeCount:    2,
		PricePerSwipe: 6,
		Dates:         []string{"2024-05-03", "2024-05-02", "2024-05-03"},
		Meals:         []string{"Lunch"},
		Locations:     []string{"Anteatery"},
		BuyerName:     "Peter",
		ContactPhone:  "555.123.4567",
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func getJSON(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_Health(t *testing.T) {
	ts := testserver.New(t)

	resp := getJSON(t, ts.URL("/health"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestHTTPServer_CreateAndList(t *testing.T) {
	ts := testserver.New(t)

	resp := postJSON(t, ts.URL("/listings"), validRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[transport.CreateListingResponse](t, resp)

	require.NotEmpty(t, created.Listing.ID)
	require.Equal(t, "(555) 123-4567", created.Listing.ContactPhone)
	require.Equal(t, []listing.Date{"2024-05-02", "2024-05-03"}, created.Listing.Dates)
	require.Equal(t, 12.0, created.Listing.Total)
	require.Len(t, created.Recent, 1)
	require.Equal(t, created.Listing.ID, created.Recent[0].ID)

	resp = getJSON(t, ts.URL("/listings"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recent := decode[transport.RecentResponse](t, resp)
	require.Equal(t, 1, recent.Count)
	require.Nil(t, recent.Error)

	resp = getJSON(t, ts.URL("/listings/"+created.Listing.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[transport.ListingView](t, resp)
	require.Equal(t, "Peter", got.BuyerName)

	resp = getJSON(t, ts.URL("/listings/"+created.Listing.ID+"/contact"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	contact := decode[transport.ContactResponse](t, resp)
	require.Equal(t, "sms:5551234567&body=Hi,%20I%20saw%20your%20listing%20of%20buying%20swipes%20on%20ZotSwipe.", contact.Link)
}

func TestHTTPServer_ListNewestFirst(t *testing.T) {
	ts := testserver.New(t)

	var ids []string
	for range 3 {
		resp := postJSON(t, ts.URL("/listings"), validRequest())
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		ids = append(ids, decode[transport.CreateListingResponse](t, resp).Listing.ID)
	}

	resp := getJSON(t, ts.URL("/listings?limit=2"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recent := decode[transport.RecentResponse](t, resp)
	require.Equal(t, 2, recent.Count)
	require.Equal(t, ids[2], recent.Listings[0].ID)
	require.Equal(t, ids[1], recent.Listings[1].ID)
	require.True(t, recent.Listings[0].ListedAt.After(recent.Listings[1].ListedAt))
}

func TestHTTPServer_CreateNotSubmittable(t *testing.T) {
	ts := testserver.New(t)

	tests := []struct {
		name   string
		mutate func(*transport.CreateListingRequest)
	}{
		{"short phone", func(r *transport.CreateListingRequest) { r.ContactPhone = "555123" }},
		{"no meals", func(r *transport.CreateListingRequest) { r.Meals = nil }},
		{"blank buyer", func(r *transport.CreateListingRequest) { r.BuyerName = "  " }},
		{"zero swipes", func(r *transport.CreateListingRequest) { r.SwipeCount = 0 }},
		{"bad date", func(r *transport.CreateListingRequest) { r.Dates = []string{"05/02/2024"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			resp := postJSON(t, ts.URL("/listings"), req)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
			body := decode[map[string]transport.ErrorBody](t, resp)
			require.Equal(t, transport.CodeNotSubmittable, body["error"].Code)
			require.Equal(t, listing.SubmitMessage, body["error"].Message)
		})
	}

	resp := getJSON(t, ts.URL("/listings"))
	require.Equal(t, 0, decode[transport.RecentResponse](t, resp).Count)
}

func TestHTTPServer_InvalidRequests(t *testing.T) {
	ts := testserver.New(t)

	resp, err := http.Post(ts.URL("/listings"), "application/json", strings.NewReader(`{"swipe_count":`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp2 := getJSON(t, ts.URL("/listings?limit=zero"))
	require.Equal(t, http.StatusBadRequest, resp2.StatusCode)

	resp3 := getJSON(t, ts.URL("/listings/does-not-exist"))
	require.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestHTTPServer_StoreUnavailableServesCache(t *testing.T) {
	ts := testserver.New(t)

	resp := postJSON(t, ts.URL("/listings"), validRequest())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, err := ts.DB.Exec(`DROP TABLE listings`)
	require.NoError(t, err)

	resp = getJSON(t, ts.URL("/listings"))
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	recent := decode[transport.RecentResponse](t, resp)
	require.Equal(t, 1, recent.Count)
	require.NotNil(t, recent.Error)
	require.Equal(t, transport.CodeStoreUnavailable, recent.Error.Code)

	resp = postJSON(t, ts.URL("/listings"), validRequest())
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHTTPServer_Form(t *testing.T) {
	ts := testserver.New(t)

	resp := getJSON(t, ts.URL("/listings/form"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	form := decode[transport.FormResponse](t, resp)
	require.Len(t, form.SelectableDates, 14)
	require.Equal(t, listing.DateOf(time.Now()), form.SelectableDates[0])
	require.Equal(t, []listing.Meal{listing.MealBreakfast, listing.MealLunch, listing.MealDinner}, form.Catalog.Meals)
	require.Equal(t, 1, form.Defaults.SwipeCount)
}

func TestHTTPServer_FormatPhone(t *testing.T) {
	ts := testserver.New(t)

	resp := postJSON(t, ts.URL("/phone/format"), transport.FormatPhoneRequest{Raw: "949-555-0100"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, transport.FormatPhoneResponse{Formatted: "(949) 555-0100", Valid: true},
		decode[transport.FormatPhoneResponse](t, resp))
}

func TestHTTPServer_Menus(t *testing.T) {
	ts := testserver.New(t)

	resp := getJSON(t, ts.URL("/menus/Anteatery"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	require.Equal(t, "Anteatery", body["restaurant"])
	require.True(t, ts.Redis.Exists("zotswipe:menu:anteatery"))

	resp = getJSON(t, ts.URL("/menus/brandywine"))
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	resp = getJSON(t, ts.URL("/menus/pippin"))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = getJSON(t, ts.URL("/menus"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[transport.MenusResponse](t, resp)
	require.Len(t, all.Menus, 2)
	require.NotNil(t, all.Menus[0].Restaurant)
	require.Nil(t, all.Menus[0].Error)
	require.Equal(t, transport.CodeMenuUnavailable, all.Menus[1].Error.Code)
}

func TestHTTPServer_Stream(t *testing.T) {
	ts := testserver.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL("/listings/stream"), nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	events := make(chan transport.StateEvent, 8)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var ev transport.StateEvent
				if json.Unmarshal([]byte(data), &ev) == nil {
					events <- ev
				}
			}
		}
		close(events)
	}()

	initial := <-events
	require.Empty(t, initial.Listings)

	created := postJSON(t, ts.URL("/listings"), validRequest())
	require.Equal(t, http.StatusCreated, created.StatusCode)

	require.Eventually(t, func() bool {
		select {
		case ev := <-events:
			return len(ev.Listings) == 1 && !ev.Loading
		default:
			return false
		}
	}, 3*time.Second, 10*time.Millisecond)
}

func TestHTTPServer_MCPMounted(t *testing.T) {
	ts := testserver.New(t)

	body := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-06-18","capabilities":{},"clientInfo":{"name":"test","version":"0.0.1"}}}`
	req, err := http.NewRequest(http.MethodPost, ts.URL("/mcp"), strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Mcp-Session-Id"))
}

func TestHTTPServer_Metrics(t *testing.T) {
	ts := testserver.New(t)

	bad := validRequest()
	bad.BuyerName = ""
	require.Equal(t, http.StatusUnprocessableEntity, postJSON(t, ts.URL("/listings"), bad).StatusCode)
	require.Equal(t, http.StatusCreated, postJSON(t, ts.URL("/listings"), validRequest()).StatusCode)

	resp := getJSON(t, ts.URL("/metrics"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "zotswipe_listings_created_total 1")
	require.Contains(t, string(body), `status="422"`)
}
