// Package main runs the full bankroll analysis pipeline.
// Executes: load sessions, estimate, bootstrap, simulate, recommend, report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/config"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/ingestion"
	"bankroll-lab/internal/logging"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/orchestrator"
	"bankroll-lab/internal/reporting"
	"bankroll-lab/internal/storage"
	chstore "bankroll-lab/internal/storage/clickhouse"
	"bankroll-lab/internal/storage/memory"
	"bankroll-lab/internal/storage/migrations"
	pgstore "bankroll-lab/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to settings.yaml (defaults used when empty)")
	dataDir := flag.String("data", "", "Directory of session CSV files to load")
	sampleN := flag.Int("sample", 0, "Generate N synthetic sessions instead of loading CSVs")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (memory store when empty)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (memory store when empty)")
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	settings, err := loadSettings(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		settings.Logging.Level = "debug"
	}
	logger := logging.New(settings.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn().Stringer("signal", sig).Msg("shutdown requested, cancelling pipeline")
		cancel()
	}()

	if *metricsAddr != "" {
		go serveMetrics(*metricsAddr, logger)
	}

	stores, closeStores, err := createStores(ctx, *postgresDSN, *clickhouseDSN, logger)
	if err != nil {
		logger.Error().Err(err).Msg("store setup failed")
		os.Exit(1)
	}
	defer closeStores()

	if err := loadSessions(ctx, stores.sessions, *dataDir, *sampleN, settings.Simulation.Seed, logger); err != nil {
		logger.Error().Err(err).Msg("session loading failed")
		os.Exit(1)
	}

	orch := orchestrator.New(orchestrator.Options{
		SessionStore:    stores.sessions,
		EstimateStore:   stores.estimates,
		SimulationStore: stores.simulations,
		Settings:        settings,
		Metrics:         observability.DefaultMetrics,
		Logger:          logger,
	})

	result, err := orch.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("pipeline cancelled")
			os.Exit(1)
		}
		logger.Error().Err(err).Msg("pipeline failed")
		os.Exit(1)
	}

	for _, msg := range result.ValidationErrors {
		logger.Warn().Str("problem", msg).Msg("session data issue")
	}

	if err := orch.WriteOutputs(result, *outputDir); err != nil {
		logger.Error().Err(err).Msg("writing outputs failed")
		os.Exit(1)
	}

	fmt.Println("Analysis completed:")
	fmt.Printf("  Sessions:        %d\n", result.SessionsLoaded)
	fmt.Printf("  Stakes:          %d\n", result.StakesEstimated)
	fmt.Printf("  Recommendations: %d\n", len(result.Recommendations))
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.EstimatesFile)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.BootstrapFile)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.SimulationsFile)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.RecommendationsFile)
	fmt.Printf("  - %s/%s\n", *outputDir, reporting.ReportFile)
	fmt.Printf("  - %s/%s\n", *outputDir, orchestrator.MemoFile)
}

func loadSettings(path string) (*config.Settings, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// pipelineStores holds the three store implementations in use.
type pipelineStores struct {
	sessions    storage.SessionStore
	estimates   storage.EstimateStore
	simulations storage.SimulationResultStore
}

// createStores wires memory stores by default, PostgreSQL for sessions and
// estimates when a DSN is given, and ClickHouse for simulation results when
// its DSN is given. Migrations run on every start.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, logger zerolog.Logger) (*pipelineStores, func(), error) {
	stores := &pipelineStores{
		sessions:    memory.NewSessionStore(),
		estimates:   memory.NewEstimateStore(),
		simulations: memory.NewSimulationResultStore(),
	}
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, closeAll, fmt.Errorf("connect postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return nil, closeAll, fmt.Errorf("postgres migrations: %w", err)
		}
		stores.sessions = pgstore.NewSessionStore(pool)
		stores.estimates = pgstore.NewEstimateStore(pool)
		logger.Info().Msg("using PostgreSQL for sessions and estimates")
	}

	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return nil, closeAll, fmt.Errorf("clickhouse migrations: %w", err)
		}
		closers = append(closers, func() { _ = conn.Close() })
		stores.simulations = chstore.NewSimulationResultStore(conn)
		logger.Info().Msg("using ClickHouse for simulation results")
	}

	return stores, closeAll, nil
}

// loadSessions fills the session store from CSV files or synthetic samples.
// Sessions already present are left in place so repeated runs against a
// database do not have to re-ingest.
func loadSessions(ctx context.Context, store storage.SessionStore, dataDir string, sampleN int, seed uint64, logger zerolog.Logger) error {
	var sessions []*domain.RawSession
	var err error

	switch {
	case sampleN > 0:
		sessions = ingestion.SampleSessions(sampleN, seed, time.Now().UTC())
		logger.Info().Int("sessions", len(sessions)).Msg("generated synthetic sessions")
	case dataDir != "":
		sessions, err = ingestion.LoadDir(dataDir)
		if err != nil {
			return fmt.Errorf("load %s: %w", dataDir, err)
		}
		logger.Info().Int("sessions", len(sessions)).Str("dir", dataDir).Msg("loaded session CSVs")
	default:
		existing, err := store.GetAll(ctx)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return errors.New("no session data: pass -data or -sample, or point at a populated database")
		}
		logger.Info().Int("sessions", len(existing)).Msg("using sessions already in store")
		return nil
	}

	for _, s := range sessions {
		if err := store.Insert(ctx, s); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return fmt.Errorf("store session %s: %w", s.SessionID, err)
		}
		observability.RecordSessionIngested()
	}
	return nil
}

func serveMetrics(addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	logger.Info().Str("addr", addr).Msg("metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
