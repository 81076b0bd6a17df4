package config

import (
	"strings"
	"testing"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test display defaults
	if cfg.Display.DistanceUnit != "mi" {
		t.Errorf("Display.DistanceUnit = %q, want %q", cfg.Display.DistanceUnit, "mi")
	}
	if cfg.Display.ElevationUnit != "ft" {
		t.Errorf("Display.ElevationUnit = %q, want %q", cfg.Display.ElevationUnit, "ft")
	}

	// Estimator defaults should validate
	if err := cfg.Estimator.Validate(); err != nil {
		t.Errorf("default estimator config invalid: %v", err)
	}
	if cfg.Estimator.SmoothingWindow != 30 {
		t.Errorf("Estimator.SmoothingWindow = %d, want 30", cfg.Estimator.SmoothingWindow)
	}

	// Fitbit config should be empty by default
	if cfg.Fitbit.ClientID != "" {
		t.Errorf("Fitbit.ClientID should be empty, got %q", cfg.Fitbit.ClientID)
	}
	if cfg.Fitbit.ClientSecret != "" {
		t.Errorf("Fitbit.ClientSecret should be empty, got %q", cfg.Fitbit.ClientSecret)
	}
}

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.Fitbit = FitbitConfig{
		ClientID:     "23ABCD",
		ClientSecret: "abc123secret",
	}
	return cfg
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errContains string
	}{
		{
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "empty client ID",
			mutate:      func(c *Config) { c.Fitbit.ClientID = "" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "placeholder client ID",
			mutate:      func(c *Config) { c.Fitbit.ClientID = "YOUR_CLIENT_ID" },
			expectError: true,
			errContains: "client_id",
		},
		{
			name:        "empty client secret",
			mutate:      func(c *Config) { c.Fitbit.ClientSecret = "" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "placeholder client secret",
			mutate:      func(c *Config) { c.Fitbit.ClientSecret = "YOUR_CLIENT_SECRET" },
			expectError: true,
			errContains: "client_secret",
		},
		{
			name:        "bad distance unit",
			mutate:      func(c *Config) { c.Display.DistanceUnit = "furlongs" },
			expectError: true,
			errContains: "distance_unit",
		},
		{
			name:        "bad elevation unit",
			mutate:      func(c *Config) { c.Display.ElevationUnit = "cubits" },
			expectError: true,
			errContains: "elevation_unit",
		},
		{
			name:        "invalid estimator",
			mutate:      func(c *Config) { c.Estimator.SmoothingWindow = 0 },
			expectError: true,
			errContains: "estimator",
		},
		{
			name: "threshold band mismatch",
			mutate: func(c *Config) {
				c.Estimator.Thresholds = []float64{8, 12}
			},
			expectError: true,
			errContains: "estimator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.expectError {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestConfigTypes(t *testing.T) {
	cfg := Config{
		Fitbit: FitbitConfig{
			ClientID:     "test-id",
			ClientSecret: "test-secret",
		},
		Strava: StravaConfig{
			AccessToken: "token",
		},
		Display: DisplayConfig{
			DistanceUnit:  "km",
			ElevationUnit: "m",
		},
		Estimator: elevation.DefaultConfig(),
	}

	if cfg.Fitbit.ClientID != "test-id" {
		t.Error("FitbitConfig.ClientID not set correctly")
	}
	if cfg.Strava.AccessToken != "token" {
		t.Error("StravaConfig.AccessToken not set correctly")
	}
	if cfg.Display.DistanceUnit != "km" {
		t.Error("DisplayConfig.DistanceUnit not set correctly")
	}
}
