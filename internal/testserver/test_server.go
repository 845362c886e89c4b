package testserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
	"github.com/rpggio/zotswipe/internal/mcp"
	"github.com/rpggio/zotswipe/internal/menuapi"
	"github.com/rpggio/zotswipe/internal/metrics"
	zsredis "github.com/rpggio/zotswipe/internal/redis"
	"github.com/rpggio/zotswipe/internal/sqlite"
	"github.com/rpggio/zotswipe/internal/transport"
	"github.com/stretchr/testify/require"
)

// TestServer is a full HTTP stack over an in-memory SQLite store, a fake
// upstream menu API and a miniredis menu cache.
type TestServer struct {
	Server   *httptest.Server
	Upstream *httptest.Server
	Redis    *miniredis.Miniredis
	DB       *sqlite.DB
	Listings *listing.Service
	Menus    *menu.Service
	Metrics  *metrics.Metrics
}

// New starts a test server. The fake upstream serves a menu for anteatery
// and fails for brandywine.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	upstream := httptest.NewServer(http.HandlerFunc(fakeMenuAPI))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	m := metrics.New("zotswipe")
	catalog := listing.DefaultCatalog()
	listings := listing.NewService(sqlite.NewListingRepository(db), m.Publisher(nil), catalog, nil)
	menus := menu.NewService(
		menuapi.New(menuapi.Config{BaseURL: upstream.URL, Timeout: 2 * time.Second}),
		zsredis.NewMenuCache(rdb, zsredis.DefaultMenuTTL),
		menu.DefaultHalls,
		nil,
	)

	mcpServer := mcp.NewServer(mcp.Config{
		Listings: listings,
		Menus:    menus,
		Catalog:  catalog,
	})

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Listings: listings,
		Menus:    menus,
		Catalog:  catalog,
		MCP:      mcp.NewHTTPHandler(mcpServer, nil),
		Metrics:  m,
	}))

	ts := &TestServer{
		Server:   server,
		Upstream: upstream,
		Redis:    mr,
		DB:       db,
		Listings: listings,
		Menus:    menus,
		Metrics:  m,
	}

	t.Cleanup(func() {
		server.Close()
		upstream.Close()
		_ = rdb.Close()
		_ = db.Close()
	})

	return ts
}

// URL joins path onto the server base URL.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}

func fakeMenuAPI(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location != "anteatery" {
		http.Error(w, "upstream down", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = fmt.Fprint(w, `{
  "restaurant": "Anteatery",
  "date": "05/01/2024",
  "currentMeal": "lunch",
  "price": {"lunch": 13.75},
  "schedule": {"lunch": {"start": 1100, "end": 1630}},
  "all": [{"station": "Home", "menu": [{"category": "Entrees", "items": [{"name": "Roast Chicken"}]}]}]
}`)
}
