// Package config provides centralized configuration loaded from environment
// variables and an optional hockey.json5 file. Shared by both cmd/api and
// cmd/ingest.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Collection names in the document store
// --------------------------------------------------------------------------

const (
	ClubsCollection         = "clubs"
	CompetitionsCollection  = "competitions"
	GradesCollection        = "grades"
	TeamsCollection         = "teams"
	GamesCollection         = "games"
	PlayersCollection       = "players"
	TeamSummariesCollection = "team_summaries"
	ClubSummariesCollection = "club_summaries"
	SettingsCollection      = "settings"
)

// ManagedCollections lists every collection a full rebuild clears.
var ManagedCollections = []string{
	ClubsCollection,
	CompetitionsCollection,
	GradesCollection,
	TeamsCollection,
	GamesCollection,
	PlayersCollection,
	TeamSummariesCollection,
	ClubSummariesCollection,
	SettingsCollection,
}

// Store backends accepted by STORE_BACKEND.
const (
	BackendFirestore = "firestore"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
	BackendMemory    = "memory"
)

// --------------------------------------------------------------------------
// Home club: the club whose teams and games are tracked
// --------------------------------------------------------------------------

type HomeClub struct {
	Name           string `json:"name"`
	ID             string `json:"id"`
	Location       string `json:"location"`
	HomeVenue      string `json:"home_venue"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// FullName is the registered club name, e.g. "Mentone Hockey Club".
func (h HomeClub) FullName() string {
	return h.Name + " Hockey Club"
}

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Source site
	BaseURL  string // landing page listing every competition
	SiteURL  string // root for round pages: {SiteURL}/games/{comp}/{fixture}/round/{n}
	Timezone *time.Location

	HomeClub HomeClub

	// Fetcher
	FetchTimeout    time.Duration
	FetchRetries    int
	FetchRetryDelay time.Duration
	PolitenessDelay time.Duration
	UserAgent       string

	// Round walking
	MaxRounds      int
	MaxEmptyRounds int

	// Results poller window
	ResultsLookback  time.Duration
	ResultsLookahead time.Duration

	// Writes
	DryRun    bool
	BatchSize int

	// Document store
	StoreBackend       string
	FirestoreProjectID string
	CredentialsFile    string
	DatabaseURL        string
	DBPoolMinConns     int
	DBPoolMaxConns     int
	DBPoolMaxLife      time.Duration
	SQLitePath         string

	// Outputs
	TeamsExportPath string

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Telemetry
	OTLPEndpoint string
	LogLevel     string
}

// Load reads configuration from hockey.json5 (if present) and environment
// variables. Environment variables always win over file values.
func Load() (*Config, error) {
	file, err := LoadFile(envOr("HOCKEY_CONFIG", "hockey.json5"))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return FromEnv(file.withDefaults())
}

// FromEnv builds a Config from environment variables, falling back to the
// given file values.
func FromEnv(file FileConfig) (*Config, error) {
	tzName := envOr("TIMEZONE", file.Timezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", tzName, err)
	}

	cfg := &Config{
		BaseURL:  envOr("BASE_URL", file.BaseURL),
		SiteURL:  strings.TrimRight(envOr("SITE_URL", file.SiteURL), "/"),
		Timezone: loc,

		HomeClub: HomeClub{
			Name:           envOr("HOME_CLUB_NAME", file.HomeClub.Name),
			ID:             envOr("HOME_CLUB_ID", file.HomeClub.ID),
			Location:       file.HomeClub.Location,
			HomeVenue:      file.HomeClub.HomeVenue,
			PrimaryColor:   file.HomeClub.PrimaryColor,
			SecondaryColor: file.HomeClub.SecondaryColor,
		},

		FetchTimeout:    envDuration("FETCH_TIMEOUT", 10*time.Second),
		FetchRetries:    envInt("FETCH_MAX_RETRIES", 3),
		FetchRetryDelay: envDuration("FETCH_RETRY_DELAY", 2*time.Second),
		PolitenessDelay: envDuration("POLITENESS_DELAY", 500*time.Millisecond),
		UserAgent:       envOr("USER_AGENT", "hockey-tracker/1.0 (+https://github.com/bourbon-beast/hockey-tracker-vite)"),

		MaxRounds:      envInt("MAX_ROUNDS", file.MaxRounds),
		MaxEmptyRounds: envInt("MAX_EMPTY_ROUNDS", 1),

		ResultsLookback:  envDuration("RESULTS_LOOKBACK", 7*24*time.Hour),
		ResultsLookahead: envDuration("RESULTS_LOOKAHEAD", 14*24*time.Hour),

		DryRun:    IsDryRun(os.Getenv("DRY_RUN")),
		BatchSize: envInt("BATCH_SIZE", 400),

		StoreBackend:       strings.ToLower(envOr("STORE_BACKEND", file.StoreBackend)),
		FirestoreProjectID: envOr("FIRESTORE_PROJECT_ID", envOr("GOOGLE_CLOUD_PROJECT", file.FirestoreProjectID)),
		CredentialsFile:    envOr("GOOGLE_APPLICATION_CREDENTIALS", ""),
		DatabaseURL:        envOr("DATABASE_URL", ""),
		DBPoolMinConns:     envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns:     envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:      time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,
		SQLitePath:         envOr("SQLITE_PATH", "hockey.db"),

		TeamsExportPath: envOr("TEAMS_EXPORT_PATH", file.TeamsExportPath),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		OTLPEndpoint: envOr("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:     envOr("LOG_LEVEL", "info"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case BackendFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID must be set for the firestore backend")
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the postgres backend")
		}
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.BatchSize <= 0 || c.BatchSize > 500 {
		return fmt.Errorf("BATCH_SIZE must be between 1 and 500, got %d", c.BatchSize)
	}
	if c.HomeClub.Name == "" {
		return fmt.Errorf("HOME_CLUB_NAME must not be empty")
	}
	return nil
}

// RoundURL is the page listing one round of one fixture.
func (c *Config) RoundURL(compID, fixtureID string, round int) string {
	return fmt.Sprintf("%s/games/%s/%s/round/%d", c.SiteURL, compID, fixtureID, round)
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDryRun reports whether a DRY_RUN value enables dry-run mode. Only
// "true", "1" and "t" (any case) count; everything else is a real run.
func IsDryRun(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "t":
		return true
	}
	return false
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
