package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"golang.org/x/oauth2"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BBrav0/FitbitDataReader/internal/auth"
	"github.com/BBrav0/FitbitDataReader/internal/calibrate"
	"github.com/BBrav0/FitbitDataReader/internal/config"
	"github.com/BBrav0/FitbitDataReader/internal/export"
	"github.com/BBrav0/FitbitDataReader/internal/fitbit"
	"github.com/BBrav0/FitbitDataReader/internal/service"
	"github.com/BBrav0/FitbitDataReader/internal/store"
	"github.com/BBrav0/FitbitDataReader/internal/strava"
	"github.com/BBrav0/FitbitDataReader/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	syncFlag := flag.Bool("sync", false, "sync with Fitbit and exit")
	exportFlag := flag.String("export", "", "export runs to a CSV file and exit")
	calibrateFlag := flag.Bool("calibrate", false, "search for estimator thresholds against Strava references and exit")
	statsFlag := flag.String("stats", "", "print altitude trace stats for a date (YYYY-MM-DD) and exit")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your Fitbit API credentials.")
		fmt.Println("Register an app at: https://dev.fitbit.com/apps")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Offline commands don't need the API clients
	if *exportFlag != "" {
		return runExport(db, *exportFlag)
	}
	if *calibrateFlag {
		return runCalibrate(db, cfg)
	}
	if *statsFlag != "" {
		return runStats(db, cfg, *statsFlag)
	}

	tokenSource, err := fitbitTokenSource(ctx, db, cfg)
	if err != nil {
		return err
	}

	// Create services
	fitbitClient := fitbit.NewClient(tokenSource)
	var stravaClient service.StravaAPI
	if cfg.Strava.AccessToken != "" {
		stravaClient = strava.NewClientWithToken(cfg.Strava.AccessToken)
	}
	syncSvc := service.NewSyncService(fitbitClient, stravaClient, db, cfg.Estimator)
	querySvc := service.NewQueryService(db, cfg.Estimator)

	if *syncFlag {
		return runSync(ctx, syncSvc)
	}

	// Launch TUI
	app := tui.NewApp(db, syncSvc, querySvc, cfg.Display)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// fitbitTokenSource builds an auto-refreshing token source, running the
// OAuth flow first when no valid tokens are stored.
func fitbitTokenSource(ctx context.Context, db *store.DB, cfg *config.Config) (*auth.TokenSource, error) {
	oauthCfg := auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Fitbit.ClientID,
		ClientSecret: cfg.Fitbit.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})

	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, oauthCfg); err != nil {
			return nil, fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return nil, fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking auth: %w", err)
	}

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.SaveAuth(store.Auth{
			AccessToken:  newToken.AccessToken,
			RefreshToken: newToken.RefreshToken,
			ExpiresAt:    newToken.Expiry,
		})
	})

	// Test token is valid by getting a fresh one
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, oauthCfg); err != nil {
			return nil, fmt.Errorf("re-authentication: %w", err)
		}
	}

	return tokenSource, nil
}

func authenticate(ctx context.Context, db *store.DB, oauthCfg *oauth2.Config) error {
	result, err := auth.Authenticate(ctx, oauthCfg)
	if err != nil {
		return err
	}

	storedAuth := store.Auth{
		AccessToken:  result.Token.AccessToken,
		RefreshToken: result.Token.RefreshToken,
		ExpiresAt:    result.Token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Printf("Successfully authenticated as user %s!\n", result.UserID)
	return nil
}

func runSync(ctx context.Context, syncSvc *service.SyncService) error {
	fmt.Println("Syncing with Fitbit...")

	result, err := syncSvc.SyncAll(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Printf("Checked %d days, stored %d runs\n", result.DaysChecked, result.RunsStored)
	fmt.Printf("Downloaded %d TCX files, estimated %d elevations\n", result.TCXFetched, result.ElevationsComputed)
	if result.ReferencesApplied > 0 {
		fmt.Printf("Applied %d Strava reference elevations\n", result.ReferencesApplied)
	}
	for _, err := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}
	return nil
}

func runExport(db *store.DB, path string) error {
	count, err := export.ToFile(db, path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Printf("Exported %d runs to %s\n", count, path)
	return nil
}

func runCalibrate(db *store.DB, cfg *config.Config) error {
	querySvc := service.NewQueryService(db, cfg.Estimator)

	cases, err := querySvc.CalibrationCases()
	if err != nil {
		return fmt.Errorf("building calibration cases: %w", err)
	}
	fmt.Printf("Calibrating against %d runs with Strava references...\n", len(cases))

	space := calibrate.DefaultSpace()
	fmt.Printf("Searching %d configurations\n", space.Size())

	result, err := calibrate.Search(cases, space,
		calibrate.WithWorkers(runtime.NumCPU()),
	)
	if err != nil {
		return fmt.Errorf("calibration: %w", err)
	}

	best := result.Config
	fmt.Println()
	fmt.Printf("Best configuration (mean abs error %.2f%%, %d cases):\n", result.MeanAbsError, result.Evaluated)
	fmt.Printf("  smoothing window:  %d\n", best.SmoothingWindow)
	fmt.Printf("  range breakpoints: %v\n", best.RangeBreakpoints)
	fmt.Printf("  thresholds:        %v\n", best.Thresholds)
	if len(result.Skipped) > 0 {
		fmt.Printf("Skipped %d unusable cases: %v\n", len(result.Skipped), result.Skipped)
	}
	fmt.Println()
	fmt.Println("Per-case error:")
	for id, pct := range result.PerCaseError {
		fmt.Printf("  %s  %+.1f%%\n", id, pct)
	}
	fmt.Println()
	fmt.Println("Update the estimator section of your config to apply it.")
	return nil
}

func runStats(db *store.DB, cfg *config.Config, date string) error {
	querySvc := service.NewQueryService(db, cfg.Estimator)

	stats, err := querySvc.GetTraceStats(date)
	if err != nil {
		return fmt.Errorf("stats for %s: %w", date, err)
	}

	fmt.Printf("Altitude trace for %s:\n", date)
	fmt.Printf("  points:        %d\n", stats.Points)
	fmt.Printf("  range:         %.1f-%.1fm (%.1fm)\n", stats.Min, stats.Max, stats.Range)
	fmt.Printf("  mean / stddev: %.1fm / %.2fm\n", stats.Mean, stats.StdDev)
	fmt.Printf("  raw gain:      %.1fm\n", stats.RawGain)
	fmt.Printf("  mean |delta|:  %.2fm\n", stats.MeanAbsDelta)
	fmt.Printf("  max |delta|:   %.2fm\n", stats.MaxAbsDelta)
	fmt.Printf("  deltas: %d under 0.5m, %d under 2m, %d at 2m+\n",
		stats.DeltasUnderHalfMeter, stats.DeltasUnderTwoMeters, stats.DeltasTwoMetersPlus)

	detail, err := querySvc.GetRunDetail(date)
	if err == nil && len(detail.Climbs) > 0 {
		fmt.Println("Climbs:")
		for i, c := range detail.Climbs {
			counted := " "
			if c.Counted {
				counted = "*"
			}
			fmt.Printf("  %s %2d: %.1fm -> %.1fm (gain %.1fm)\n", counted, i+1, c.Start, c.Peak, c.Gain)
		}
	}
	return nil
}
