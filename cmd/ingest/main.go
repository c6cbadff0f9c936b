// Package main provides the entry point for corpus ingestion.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/puckline/internal/config"
	"github.com/yourusername/puckline/internal/database"
	"github.com/yourusername/puckline/internal/datasource"
	"github.com/yourusername/puckline/internal/logger"
	"github.com/yourusername/puckline/internal/repository"
	"github.com/yourusername/puckline/internal/service"
)

var (
	configFile    string
	lookbackDays  int
	skipStandings bool

	cfg    *config.Config
	appLog *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&lookbackDays, "days", 0, "Lookback window in days (overrides config)")
	rootCmd.Flags().BoolVar(&skipStandings, "skip-standings", false, "Skip the standings refresh")
}

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Sync final games and standings into the forecasting corpus",
	Long: `Walks the lookback window day by day, stores final regular-season
results, and refreshes the standings snapshot the forecaster profiles teams
from.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if lookbackDays > 0 {
		cfg.Ingestion.LookbackDays = lookbackDays
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	return nil
}

func runIngest() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment":   cfg.App.Environment,
		"lookback_days": cfg.Ingestion.LookbackDays,
	}).Info("Puckline ingestion starting")

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	nhlHTTP := datasource.NewRateLimitedHTTPClient(datasource.HTTPConfigFor(
		cfg.NHLAPI.TimeoutSeconds, cfg.NHLAPI.RetryAttempts, cfg.NHLAPI.RequestsPerSecond), appLog)
	defer nhlHTTP.Close()

	nhlClient := datasource.NewNHLClient(nhlHTTP, cfg.NHLAPI.BaseURL, appLog)

	svc := service.NewIngestionService(nhlClient, repos.Games, repos.Standings,
		logger.NewIngestLogger(appLog), cfg.Ingestion.LookbackDays, cfg.Ingestion.BatchSize)

	stats, err := svc.SyncHistory(ctx)
	if stats != nil {
		fmt.Printf("\n%s\n", stats)
	}
	if err != nil {
		return err
	}

	if !skipStandings {
		if err := svc.SyncStandings(ctx); err != nil {
			return err
		}
	}

	count, err := repos.Games.Count(ctx)
	if err == nil {
		fmt.Printf("Corpus now holds %d games\n", count)
	}

	return nil
}
