package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

const (
	DefaultAdminPassword = "testpassword"
	DefaultSessionSecret = "change-me-session-secret"
)

type Config struct {
	AppEnv         string `envconfig:"APP_ENV" default:"dev"`
	Host           string `envconfig:"HOST" default:"0.0.0.0"`
	Port           int    `envconfig:"PORT" validate:"gte=0,lte=65535"`
	PortRangeStart int    `envconfig:"PORT_RANGE_START" default:"5077" validate:"gt=0,lte=65535"`
	PortRangeEnd   int    `envconfig:"PORT_RANGE_END" default:"5090" validate:"gtefield=PortRangeStart,lte=65535"`
	SiteVersion    string `envconfig:"SITE_VERSION" default:"v1.1"`

	DataDir            string `envconfig:"DATA_DIR" default:"."`
	FeedbackFile       string `envconfig:"FEEDBACK_FILE" default:"feedback.csv" validate:"required"`
	ContactDatabaseURL string `envconfig:"CONTACT_DATABASE_URL" default:"contact.db" validate:"required"`
	LogoGlob           string `envconfig:"LOGO_GLOB" default:"logo*"`
	ReviewsLink        string `envconfig:"REVIEWS_LINK" default:"https://maps.app.goo.gl/Dx3Nvx57hsTjAddr6?g_st=ipc" validate:"omitempty,url"`

	ContactRetention time.Duration `envconfig:"CONTACT_RETENTION" default:"8760h" validate:"gt=0"`

	AdminPassword     string        `envconfig:"ADMIN_PASSWORD" default:"testpassword"`
	AdminPasswordHash string        `envconfig:"ADMIN_PASSWORD_HASH"`
	SessionSecret     string        `envconfig:"SESSION_SECRET" default:"change-me-session-secret" validate:"required"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"12h" validate:"gt=0"`
	CookieSecure      bool          `envconfig:"COOKIE_SECURE" default:"false"`

	GooglePlacesAPIKey   string        `envconfig:"GOOGLE_PLACES_API_KEY"`
	GooglePlaceID        string        `envconfig:"GOOGLE_PLACE_ID"`
	GoogleMapsLink       string        `envconfig:"GOOGLE_MAPS_LINK"`
	GoogleCacheFile      string        `envconfig:"GOOGLE_CACHE_FILE" default:"google_rating_cache.json"`
	GoogleCacheTTL       time.Duration `envconfig:"GOOGLE_CACHE_TTL" default:"4h" validate:"gt=0"`
	GoogleTimeout        time.Duration `envconfig:"GOOGLE_TIMEOUT" default:"8s" validate:"gt=0"`
	GoogleFailureBackoff time.Duration `envconfig:"GOOGLE_FAILURE_BACKOFF" default:"5m" validate:"gte=0"`

	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	APIRateRPS         float64  `envconfig:"API_RATE_RPS" default:"0.5" validate:"gt=0"`
	APIRateBurst       int      `envconfig:"API_RATE_BURST" default:"5" validate:"gt=0"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// Load reads the process environment. Call godotenv.Load before it if a .env file should count.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD or ADMIN_PASSWORD_HASH must be set")
	}

	if cfg.IsProdLike() {
		if isEmptyOrDefault(cfg.SessionSecret, DefaultSessionSecret) {
			return fmt.Errorf("in prod/release SESSION_SECRET must be set and not default")
		}
		if cfg.AdminPasswordHash == "" && isEmptyOrDefault(cfg.AdminPassword, DefaultAdminPassword) {
			return fmt.Errorf("in prod/release ADMIN_PASSWORD must be set and not default")
		}
		if !cfg.CookieSecure {
			return fmt.Errorf("in prod/release COOKIE_SECURE must be true")
		}
	}

	return nil
}

func (c *Config) IsProdLike() bool {
	env := strings.ToLower(strings.TrimSpace(c.AppEnv))
	return env == "prod" || env == "production" || env == "release"
}

// Path resolves a data file name against DATA_DIR. Absolute names are kept.
func (c *Config) Path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// ContactDSN resolves sqlite file DSNs against DATA_DIR; postgres URLs and sqlite URIs pass through.
func (c *Config) ContactDSN() string {
	dsn := c.ContactDatabaseURL
	if strings.Contains(dsn, "://") || strings.HasPrefix(dsn, "file:") || dsn == ":memory:" {
		return dsn
	}
	return c.Path(dsn)
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
