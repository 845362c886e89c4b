package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/zotswipe/internal/config"
	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/rpggio/zotswipe/internal/domain/menu"
	"github.com/rpggio/zotswipe/internal/mcp"
	"github.com/rpggio/zotswipe/internal/menuapi"
	"github.com/rpggio/zotswipe/internal/metrics"
	"github.com/rpggio/zotswipe/internal/mongo"
	"github.com/rpggio/zotswipe/internal/nats"
	"github.com/rpggio/zotswipe/internal/redis"
	"github.com/rpggio/zotswipe/internal/sqlite"
	"github.com/rpggio/zotswipe/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "zotswipe: %v\n", err)
		os.Exit(1)
	}
}

// run wires the service and blocks until it shuts down.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.ModeMCPStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer fileWriter.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open listing store", "backend", cfg.Store.Backend, "error", err)
		return fmt.Errorf("open listing store: %w", err)
	}
	defer closeStore()

	var events listing.EventPublisher
	if cfg.NATS.Enabled() {
		nc, err := nats.Connect(nats.Config{URL: cfg.NATS.URL}, logger)
		if err != nil {
			logger.Warn("listing events disabled", "error", err)
		} else {
			defer nc.Close()
			events = nats.NewPublisher(nc, cfg.NATS.Subject)
		}
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
		events = m.Publisher(events)
	}

	var menuCache menu.Cache
	if cfg.Redis.Enabled() {
		rdb, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("menu cache disabled", "error", err)
		} else {
			defer rdb.Close()
			menuCache = redis.NewMenuCache(rdb, cfg.Redis.MenuTTL)
		}
	}

	catalog := cfg.Catalog.Listing()
	listingSvc := listing.NewService(repo, events, catalog, logger)
	menuSvc := menu.NewService(
		menuapi.New(menuapi.Config{BaseURL: cfg.Menu.BaseURL, Timeout: cfg.Menu.Timeout}),
		menuCache,
		cfg.Menu.Halls,
		logger,
	)

	if _, err := listingSvc.FetchRecent(ctx, listing.DefaultLimit); err != nil {
		logger.Warn("initial listing fetch failed", "error", err)
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Listings: listingSvc,
		Menus:    menuSvc,
		Catalog:  catalog,
		Logger:   logger,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	switch cfg.Transport.Mode {
	case config.ModeMCPStdio:
		return runStdioMode(ctx, logger, mcpServer)
	case config.ModeMCPHTTP:
		return runHTTPMode(ctx, logger, addr, mcp.NewHTTPHandler(mcpServer, logger))
	default:
		return runHTTPMode(ctx, logger, addr, transport.NewServer(transport.Options{
			Listings: listingSvc,
			Menus:    menuSvc,
			Catalog:  catalog,
			MCP:      mcp.NewHTTPHandler(mcpServer, logger),
			Metrics:  m,
			Logger:   logger,
		}))
	}
}

// openStore returns the configured listing repository and a func that
// releases it.
func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (listing.Repository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMongo:
		mongoCfg := mongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		}
		client, err := mongo.Connect(ctx, mongoCfg)
		if err != nil {
			return nil, nil, err
		}
		coll := mongo.ListingCollection(client, mongoCfg)
		if err := mongo.EnsureIndexes(ctx, coll); err != nil {
			logger.Warn("listing indexes not created", "error", err)
		}
		logger.Info("using mongo listing store", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
		return mongo.NewListingRepository(coll), func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}, nil

	default:
		if err := ensureDBDir(cfg.SQLite.Path); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("using sqlite listing store", "path", cfg.SQLite.Path)
		return sqlite.NewListingRepository(db), func() { _ = db.Close() }, nil
	}
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or ctx is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("stdio server error", "error", err)
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
