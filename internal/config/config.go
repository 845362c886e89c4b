package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rpggio/zotswipe/internal/domain/listing"
	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	ModeHTTP     = "http"
	ModeMCPStdio = "mcp-stdio"
	ModeMCPHTTP  = "mcp-http"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Transport TransportConfig `yaml:"transport"`
	Store     StoreConfig     `yaml:"store"`
	Mongo     MongoConfig     `yaml:"mongo"`
	SQLite    SQLiteConfig    `yaml:"sqlite"`
	Redis     RedisConfig     `yaml:"redis"`
	NATS      NATSConfig      `yaml:"nats"`
	Menu      MenuConfig      `yaml:"menu"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	MenuTTL  time.Duration `yaml:"menu_ttl"`
}

// Enabled reports whether a redis address is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// Enabled reports whether a NATS URL is configured.
func (c NATSConfig) Enabled() bool {
	return c.URL != ""
}

type MenuConfig struct {
	BaseURL string        `yaml:"base_url"`
	Halls   []string      `yaml:"halls"`
	Timeout time.Duration `yaml:"timeout"`
}

type CatalogConfig struct {
	Meals          []string `yaml:"meals"`
	Locations      []string `yaml:"locations"`
	SwipeMin       int      `yaml:"swipe_min"`
	SwipeMax       int      `yaml:"swipe_max"`
	PriceMin       int      `yaml:"price_min"`
	PriceMax       int      `yaml:"price_max"`
	DateWindowDays int      `yaml:"date_window_days"`
	DefaultSwipes  int      `yaml:"default_swipes"`
	DefaultPrice   int      `yaml:"default_price"`
	Strict         bool     `yaml:"strict"`
}

// Listing converts the catalog section into the domain catalog.
func (c CatalogConfig) Listing() listing.Catalog {
	catalog := listing.Catalog{
		SwipeRange:     listing.Range{Min: c.SwipeMin, Max: c.SwipeMax},
		PriceRange:     listing.Range{Min: c.PriceMin, Max: c.PriceMax},
		DateWindowDays: c.DateWindowDays,
		DefaultSwipes:  c.DefaultSwipes,
		DefaultPrice:   c.DefaultPrice,
		Strict:         c.Strict,
	}
	for _, m := range c.Meals {
		catalog.Meals = append(catalog.Meals, listing.Meal(m))
	}
	for _, l := range c.Locations {
		catalog.Locations = append(catalog.Locations, listing.Location(l))
	}
	return catalog
}

// MetricsConfig controls the Prometheus endpoint on the REST router.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: ModeHTTP,
		},
		Store: StoreConfig{
			Backend: BackendSQLite,
		},
		Mongo: MongoConfig{
			URI:        "mongodb://localhost:27017",
			Database:   "zotswipe",
			Collection: "listings",
		},
		SQLite: SQLiteConfig{
			Path: "zotswipe.db",
		},
		Redis: RedisConfig{
			MenuTTL: 10 * time.Minute,
		},
		NATS: NATSConfig{
			Subject: "listings.created",
		},
		Menu: MenuConfig{
			BaseURL: "https://zotmeal-backend.vercel.app",
			Halls:   []string{"anteatery", "brandywine"},
			Timeout: 15 * time.Second,
		},
		Catalog: CatalogConfig{
			Meals:          []string{"Breakfast", "Lunch", "Dinner"},
			Locations:      []string{"Anteatery", "Brandywine"},
			SwipeMin:       1,
			SwipeMax:       10,
			PriceMin:       1,
			PriceMax:       20,
			DateWindowDays: 14,
			DefaultSwipes:  1,
			DefaultPrice:   10,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "zotswipe",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from .env files, an optional YAML file and
// environment variables, in that order of increasing precedence.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("ZOTSWIPE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case ModeHTTP, ModeMCPStdio, ModeMCPHTTP:
	default:
		return fmt.Errorf("invalid transport mode %q", c.Transport.Mode)
	}
	switch c.Store.Backend {
	case BackendMongo, BackendSQLite:
	default:
		return fmt.Errorf("invalid store backend %q", c.Store.Backend)
	}
	if c.Catalog.SwipeMin > c.Catalog.SwipeMax || c.Catalog.PriceMin > c.Catalog.PriceMax {
		return fmt.Errorf("invalid catalog ranges")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("ZOTSWIPE_SERVER_HOST", &cfg.Server.Host)
	if err := setInt("ZOTSWIPE_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	setString("ZOTSWIPE_TRANSPORT_MODE", &cfg.Transport.Mode)
	setString("ZOTSWIPE_STORE_BACKEND", &cfg.Store.Backend)

	setString("ZOTSWIPE_MONGO_URI", &cfg.Mongo.URI)
	setString("ZOTSWIPE_MONGO_DATABASE", &cfg.Mongo.Database)
	setString("ZOTSWIPE_MONGO_COLLECTION", &cfg.Mongo.Collection)
	setString("ZOTSWIPE_SQLITE_PATH", &cfg.SQLite.Path)

	setString("ZOTSWIPE_REDIS_ADDR", &cfg.Redis.Addr)
	setString("ZOTSWIPE_REDIS_PASSWORD", &cfg.Redis.Password)
	if err := setInt("ZOTSWIPE_REDIS_DB", &cfg.Redis.DB); err != nil {
		return err
	}
	if err := setDuration("ZOTSWIPE_REDIS_MENU_TTL", &cfg.Redis.MenuTTL); err != nil {
		return err
	}

	setString("ZOTSWIPE_NATS_URL", &cfg.NATS.URL)
	setString("ZOTSWIPE_NATS_SUBJECT", &cfg.NATS.Subject)

	setString("ZOTSWIPE_MENU_BASE_URL", &cfg.Menu.BaseURL)
	if halls := os.Getenv("ZOTSWIPE_MENU_HALLS"); halls != "" {
		cfg.Menu.Halls = splitList(halls)
	}
	if err := setDuration("ZOTSWIPE_MENU_TIMEOUT", &cfg.Menu.Timeout); err != nil {
		return err
	}

	if err := setBool("ZOTSWIPE_CATALOG_STRICT", &cfg.Catalog.Strict); err != nil {
		return err
	}

	if err := setBool("ZOTSWIPE_METRICS_ENABLED", &cfg.Metrics.Enabled); err != nil {
		return err
	}
	setString("ZOTSWIPE_METRICS_NAMESPACE", &cfg.Metrics.Namespace)

	setString("ZOTSWIPE_LOG_LEVEL", &cfg.Log.Level)
	setString("ZOTSWIPE_LOG_PATH", &cfg.Log.Path)
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setBool(key string, dst *bool) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
