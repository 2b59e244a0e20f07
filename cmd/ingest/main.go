// Package main ingests session CSV files into storage.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/ingestion"
	"bankroll-lab/internal/logging"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/storage"
	"bankroll-lab/internal/storage/memory"
	"bankroll-lab/internal/storage/migrations"
	pgstore "bankroll-lab/internal/storage/postgres"
)

func main() {
	dataPath := flag.String("data", "", "Session CSV file or directory to ingest")
	sampleN := flag.Int("sample", 0, "Generate N synthetic sessions instead of reading CSVs")
	seed := flag.Uint64("seed", 42, "Seed for synthetic session generation")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (dry run)")
	strict := flag.Bool("strict", false, "Fail on validation problems instead of warning")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	logger := logging.New(logging.Config{Level: level, Format: "console"})

	if *dataPath == "" && *sampleN == 0 {
		logger.Fatal().Msg("nothing to ingest: pass -data or -sample")
	}
	if *postgresDSN == "" && !*useMemory {
		logger.Fatal().Msg("no destination: pass -postgres-dsn or -use-memory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Warn().Stringer("signal", sig).Msg("shutdown requested")
		cancel()
	}()

	sessions, err := readSessions(*dataPath, *sampleN, *seed)
	if err != nil {
		logger.Fatal().Err(err).Msg("reading sessions failed")
	}

	report := ingestion.Validate(sessions)
	for _, msg := range report.Errors {
		logger.Warn().Str("problem", msg).Msg("session data issue")
		observability.RecordSessionRejected("validation")
	}
	if *strict && !report.Valid() {
		logger.Fatal().Int("problems", len(report.Errors)).Msg("validation failed in strict mode")
	}

	store, cleanup, err := openStore(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatal().Err(err).Msg("store setup failed")
	}
	defer cleanup()

	inserted, skipped, err := ingest(ctx, store, sessions)
	if err != nil {
		logger.Fatal().Err(err).Msg("ingest failed")
	}

	fmt.Println("Ingest completed:")
	fmt.Printf("  Sessions read:     %d\n", len(sessions))
	fmt.Printf("  Inserted:          %d\n", inserted)
	fmt.Printf("  Skipped (dups):    %d\n", skipped)
	fmt.Printf("  Date range:        %s to %s\n", report.DateFrom, report.DateTo)
	fmt.Printf("  Total hours:       %.1f\n", report.TotalHours)
	fmt.Printf("  Net result:        $%.2f\n", report.TotalNetResultUSD)
	for stake, n := range report.StakeDistribution {
		fmt.Printf("  %-18s %d\n", stake+":", n)
	}
}

func readSessions(dataPath string, sampleN int, seed uint64) ([]*domain.RawSession, error) {
	if sampleN > 0 {
		return ingestion.SampleSessions(sampleN, seed, time.Now().UTC()), nil
	}

	info, err := os.Stat(dataPath)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return ingestion.LoadDir(dataPath)
	}
	return ingestion.LoadFile(dataPath)
}

func openStore(ctx context.Context, dsn string, useMemory bool) (storage.SessionStore, func(), error) {
	if useMemory {
		return memory.NewSessionStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, dsn)
	if err != nil {
		return nil, func() {}, fmt.Errorf("connect postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, func() {}, fmt.Errorf("postgres migrations: %w", err)
	}
	return pgstore.NewSessionStore(pool), pool.Close, nil
}

// ingest inserts sessions one at a time so a rerun over the same files
// skips rows already stored instead of failing the batch.
func ingest(ctx context.Context, store storage.SessionStore, sessions []*domain.RawSession) (inserted, skipped int, err error) {
	for _, s := range sessions {
		if err := ctx.Err(); err != nil {
			return inserted, skipped, err
		}
		if err := store.Insert(ctx, s); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				skipped++
				continue
			}
			return inserted, skipped, fmt.Errorf("insert session %s: %w", s.SessionID, err)
		}
		inserted++
		observability.RecordSessionIngested()
	}
	return inserted, skipped, nil
}
