// Package main provides the entry point for the analysis run.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/puckline/internal/bankroll"
	"github.com/yourusername/puckline/internal/blend"
	"github.com/yourusername/puckline/internal/config"
	"github.com/yourusername/puckline/internal/database"
	"github.com/yourusername/puckline/internal/datasource"
	"github.com/yourusername/puckline/internal/edge"
	"github.com/yourusername/puckline/internal/forecast"
	"github.com/yourusername/puckline/internal/health"
	"github.com/yourusername/puckline/internal/logger"
	"github.com/yourusername/puckline/internal/models"
	"github.com/yourusername/puckline/internal/oddsmath"
	"github.com/yourusername/puckline/internal/pipeline"
	"github.com/yourusername/puckline/internal/repository"
	"github.com/yourusername/puckline/internal/service"
	"github.com/yourusername/puckline/internal/snapshot"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

var (
	configFile   string
	flagStake    float64
	conservative bool
	maxRecs      int

	cfg    *config.Config
	appLog *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().Float64Var(&flagStake, "stake", 0, "Flat stake per bet (overrides config)")
	rootCmd.Flags().BoolVar(&conservative, "conservative", false, "Raise the edge and confidence bars and skip spreads")
	rootCmd.Flags().IntVar(&maxRecs, "max-recommendations", 0, "Truncate the ranked list (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Forecast today's slate and publish +EV bet recommendations",
	Long: `Builds the historical corpus, fetches current odds, forecasts every
matchup from similar past games, and publishes a snapshot of the bets whose
model edge beats the market price.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalysis()
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

	// Flag overrides before validation so overridden values are checked too
	if flagStake > 0 {
		cfg.Analysis.Stake = flagStake
	}
	if conservative {
		cfg.Analysis.Conservative = true
	}
	if maxRecs > 0 {
		cfg.Analysis.MaxRecommendations = maxRecs
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)
	return nil
}

func runAnalysis() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment":  cfg.App.Environment,
		"conservative": cfg.Analysis.Conservative,
		"stake":        cfg.Analysis.Stake,
	}).Info("Puckline analysis starting")

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	var ops *health.Server
	if cfg.Metrics.Enabled {
		ops = health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Metrics.Port,
			MetricsPath: cfg.Metrics.Path,
			Logger:      appLog,
			DB:          db,
		})
		if err := ops.Start(ctx); err != nil {
			return err
		}
		ops.SetReady(true)
	}

	oddsHTTP := datasource.NewRateLimitedHTTPClient(datasource.HTTPConfigFor(
		cfg.OddsAPI.TimeoutSeconds, cfg.OddsAPI.RetryAttempts, cfg.OddsAPI.RequestsPerSecond), appLog)
	defer oddsHTTP.Close()

	oddsClient := datasource.NewOddsClient(oddsHTTP, datasource.OddsClientConfig{
		BaseURL:  cfg.OddsAPI.BaseURL,
		APIKey:   cfg.OddsAPI.APIKey,
		SportKey: cfg.OddsAPI.SportKey,
		Regions:  cfg.OddsAPI.Regions,
		Markets:  cfg.OddsAPI.Markets,
		CacheTTL: time.Duration(cfg.OddsAPI.CacheTTLSeconds) * time.Second,
	}, appLog)

	forecaster := forecast.NewForecaster(forecast.NewWeightedMetric(), forecast.Params{
		MinSimilarity: cfg.Analysis.MinSimilarity,
		MaxNeighbors:  cfg.Analysis.MaxNeighbors,
		MinNeighbors:  cfg.Analysis.MinNeighbors,
	}, appLog)

	blender := blend.NewBlender(cfg.Analysis.ModelWeight, cfg.Analysis.Conservative, appLog)

	engine := edge.NewEngine(edge.Params{
		Stake:         cfg.Analysis.Stake,
		MinEdge:       cfg.Analysis.MinEdge,
		MaxEdge:       cfg.Analysis.MaxEdge,
		MinConfidence: cfg.Analysis.MinConfidence,
		Conservative:  cfg.Analysis.Conservative,
	}, appLog)

	pipe, err := pipeline.New(forecaster, oddsmath.NewNormalizer(appLog), blender, engine, pipeline.Options{
		Stake:              cfg.Analysis.Stake,
		MaxRecommendations: cfg.Analysis.MaxRecommendations,
		Workers:            cfg.Analysis.Workers,
	}, appLog)
	if err != nil {
		return err
	}

	builder := service.NewCorpusBuilder(repos.Games, repos.Standings,
		cfg.Ingestion.LookbackDays, cfg.Ingestion.FormGames)
	writer := snapshot.NewWriter(cfg.Analysis.SnapshotPath, appLog)

	svc := service.NewAnalysisService(oddsClient, builder, pipe, writer,
		logger.NewAnalysisLogger(appLog), cfg.Analysis)

	snap, plan, err := svc.Run(ctx)
	if err != nil && !errors.Is(err, models.ErrRunAborted) {
		return err
	}
	if errors.Is(err, models.ErrRunAborted) {
		appLog.Warn("Run aborted; the published snapshot is partial")
	}

	printReport(snap)
	if plan != nil {
		printPlan(plan)
	}

	if ops != nil {
		ops.Shutdown()
	}
	return nil
}

func printReport(snap *snapshot.Snapshot) {
	fmt.Printf("\nAnalyzed %d games, %d bets qualify (stake %.2f per bet)\n\n",
		len(snap.GamesAnalyzed), len(snap.Recommendations), snap.Stake)

	if len(snap.Recommendations) == 0 {
		fmt.Println("No +EV bets found on today's slate.")
		return
	}

	for i, rec := range snap.Recommendations {
		fmt.Printf("%2d. [%s] %-14s %-12s %+d @ %s\n", i+1, rec.Grade, rec.Pick, rec.Game, rec.Odds, rec.Book)
		fmt.Printf("    edge %.1f%%  model %.1f%%  market %.1f%%  EV %+.3f  conf %.2f\n",
			rec.Edge*100, rec.TrueProb*100, rec.ImpliedProb*100, rec.EV, rec.Confidence)
	}
}

func printPlan(plan *bankroll.Plan) {
	fmt.Printf("\nStaking plan (bankroll %s, fractional Kelly):\n", plan.Bankroll.StringFixed(2))
	for _, entry := range plan.Entries {
		fmt.Printf("    %-14s %-12s stake %s  expected gain %s\n",
			entry.Pick, entry.Book, entry.Stake.StringFixed(2), entry.ExpectedGain.StringFixed(2))
	}
	fmt.Printf("    total stake %s  total EV %s  avg edge %.1f%%  expected ROI %s\n",
		plan.TotalStake.StringFixed(2), plan.TotalEV.StringFixed(2),
		plan.AvgEdge*100, plan.ExpectedROI.StringFixed(4))
}
