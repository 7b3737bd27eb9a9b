package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort         = "8080"
	defaultRefreshDelay = time.Second
)

// Config holds everything the tracker reads from the environment.
type Config struct {
	// GatewayURL is the deployed spreadsheet web app endpoint.
	GatewayURL      string
	BillPhotoFolder string
	// GatewayTimeout of zero leaves outbound calls bounded only by their context.
	GatewayTimeout time.Duration
	RefreshDelay   time.Duration

	Port               string
	CORSAllowedOrigins []string
	Production         bool
}

var (
	ErrMissingGatewayURL = errors.New("APP_SCRIPT_URL is not set")
	// ErrMissingAPISecret stops a production server from signing with the development secret.
	ErrMissingAPISecret = errors.New("API_SECRET must be set when GO_ENV=production")
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine; real deployments inject env directly
	_ = godotenv.Load()

	cfg := &Config{
		GatewayURL:         strings.TrimSpace(os.Getenv("APP_SCRIPT_URL")),
		BillPhotoFolder:    strings.TrimSpace(os.Getenv("BILL_PHOTO_FOLDER")),
		GatewayTimeout:     envDuration("GATEWAY_TIMEOUT", 0),
		RefreshDelay:       envDuration("REFRESH_DELAY", defaultRefreshDelay),
		Port:               strings.TrimSpace(os.Getenv("PORT")),
		CORSAllowedOrigins: SplitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Production:         strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production"),
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.GatewayURL == "" {
		return cfg, ErrMissingGatewayURL
	}
	if cfg.Production && strings.TrimSpace(os.Getenv("API_SECRET")) == "" {
		return cfg, ErrMissingAPISecret
	}
	return cfg, nil
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func SplitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
