package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BBrav0/FitbitDataReader/internal/elevation"
)

// Config represents the application configuration
type Config struct {
	Fitbit    FitbitConfig     `json:"fitbit"`
	Strava    StravaConfig     `json:"strava"`
	Display   DisplayConfig    `json:"display"`
	Estimator elevation.Config `json:"estimator"`
}

// FitbitConfig holds Fitbit API credentials
type FitbitConfig struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// StravaConfig holds optional Strava API credentials, used to pull
// reference elevations. A personal access token is enough for read access.
type StravaConfig struct {
	AccessToken string `json:"access_token"`
}

// DisplayConfig holds display preferences
type DisplayConfig struct {
	DistanceUnit  string `json:"distance_unit"`
	ElevationUnit string `json:"elevation_unit"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Display: DisplayConfig{
			DistanceUnit:  "mi",
			ElevationUnit: "ft",
		},
		Estimator: elevation.DefaultConfig(),
	}
}

// Load reads the configuration from ~/.fitbitreader/config.json
func Load() (*Config, error) {
	path, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for missing values
	defaults := DefaultConfig()
	if cfg.Display.DistanceUnit == "" {
		cfg.Display.DistanceUnit = defaults.Display.DistanceUnit
	}
	if cfg.Display.ElevationUnit == "" {
		cfg.Display.ElevationUnit = defaults.Display.ElevationUnit
	}
	if cfg.Estimator.SmoothingWindow == 0 && len(cfg.Estimator.Thresholds) == 0 {
		cfg.Estimator = defaults.Estimator
	}

	return &cfg, nil
}

// Save writes the configuration to ~/.fitbitreader/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	example.Fitbit = FitbitConfig{
		ClientID:     "YOUR_CLIENT_ID",
		ClientSecret: "YOUR_CLIENT_SECRET",
	}

	return Save(&example)
}

// Validate checks if the config has required fields
func (c *Config) Validate() error {
	if c.Fitbit.ClientID == "" || c.Fitbit.ClientID == "YOUR_CLIENT_ID" {
		return errors.New("fitbit.client_id is required - register an app at https://dev.fitbit.com/apps")
	}
	if c.Fitbit.ClientSecret == "" || c.Fitbit.ClientSecret == "YOUR_CLIENT_SECRET" {
		return errors.New("fitbit.client_secret is required - register an app at https://dev.fitbit.com/apps")
	}

	// Validate display units
	if c.Display.DistanceUnit != "" && c.Display.DistanceUnit != "km" && c.Display.DistanceUnit != "mi" {
		return fmt.Errorf("display.distance_unit must be \"km\" or \"mi\", got %q", c.Display.DistanceUnit)
	}
	if c.Display.ElevationUnit != "" && c.Display.ElevationUnit != "ft" && c.Display.ElevationUnit != "m" {
		return fmt.Errorf("display.elevation_unit must be \"ft\" or \"m\", got %q", c.Display.ElevationUnit)
	}

	if err := c.Estimator.Validate(); err != nil {
		return fmt.Errorf("estimator: %w", err)
	}

	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fitbitreader", "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".fitbitreader"), nil
}
