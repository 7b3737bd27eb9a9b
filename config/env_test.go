package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_ReadsGatewaySettings(t *testing.T) {
	t.Setenv("APP_SCRIPT_URL", " https://script.example/exec ")
	t.Setenv("BILL_PHOTO_FOLDER", "folder-bills")
	t.Setenv("REFRESH_DELAY", "250ms")
	t.Setenv("GATEWAY_TIMEOUT", "")
	t.Setenv("PORT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("GO_ENV", "Production")
	t.Setenv("API_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.GatewayURL != "https://script.example/exec" {
		t.Fatalf("unexpected gateway url %q", cfg.GatewayURL)
	}
	if cfg.BillPhotoFolder != "folder-bills" {
		t.Fatalf("unexpected bill folder %q", cfg.BillPhotoFolder)
	}
	if cfg.RefreshDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms refresh delay, got %s", cfg.RefreshDelay)
	}
	if cfg.GatewayTimeout != 0 {
		t.Fatalf("expected no gateway timeout, got %s", cfg.GatewayTimeout)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.Production {
		t.Fatalf("expected production mode")
	}
}

func TestLoad_MissingGatewayURL(t *testing.T) {
	t.Setenv("APP_SCRIPT_URL", "")
	_, err := Load()
	if !errors.Is(err, ErrMissingGatewayURL) {
		t.Fatalf("expected ErrMissingGatewayURL, got %v", err)
	}
}

func TestLoad_APISecretInProduction(t *testing.T) {
	cases := []struct {
		env      string
		secret   string
		expected error
	}{
		{"production", "", ErrMissingAPISecret},
		{"production", "  ", ErrMissingAPISecret},
		{"production", "s3cret", nil},
		{"development", "", nil},
		{"", "", nil},
	}
	for _, tc := range cases {
		t.Setenv("APP_SCRIPT_URL", "https://script.example/exec")
		t.Setenv("GO_ENV", tc.env)
		t.Setenv("API_SECRET", tc.secret)
		_, err := Load()
		if !errors.Is(err, tc.expected) {
			t.Fatalf("GO_ENV=%q API_SECRET=%q: expected %v, got %v", tc.env, tc.secret, tc.expected, err)
		}
	}
}

func TestEnvBoolDefault(t *testing.T) {
	cases := []struct {
		raw      string
		def      bool
		expected bool
	}{
		{"", true, true},
		{"", false, false},
		{"false", true, false},
		{"Y", false, true},
		{"maybe", true, true},
	}
	for _, tc := range cases {
		t.Setenv("TRACKER_TEST_FLAG", tc.raw)
		if got := envBoolDefault("TRACKER_TEST_FLAG", tc.def); got != tc.expected {
			t.Fatalf("envBoolDefault(%q, %v) expected %v, got %v", tc.raw, tc.def, tc.expected, got)
		}
	}
}
