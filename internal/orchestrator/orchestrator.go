// Package orchestrator coordinates the full analysis pipeline, from
// stored sessions through estimation and simulation to the final report.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"bankroll-lab/internal/config"
	"bankroll-lab/internal/decision"
	"bankroll-lab/internal/domain"
	"bankroll-lab/internal/enrichment"
	"bankroll-lab/internal/estimation"
	"bankroll-lab/internal/ingestion"
	"bankroll-lab/internal/observability"
	"bankroll-lab/internal/reporting"
	"bankroll-lab/internal/simulation"
	"bankroll-lab/internal/storage"
)

// Orchestrator runs the analysis phases in order over the given stores.
type Orchestrator struct {
	sessionStore    storage.SessionStore
	estimateStore   storage.EstimateStore
	simulationStore storage.SimulationResultStore

	settings *config.Settings
	metrics  *observability.Metrics
	logger   zerolog.Logger
	now      func() time.Time
}

// Options for creating an Orchestrator.
type Options struct {
	SessionStore    storage.SessionStore
	EstimateStore   storage.EstimateStore
	SimulationStore storage.SimulationResultStore

	Settings *config.Settings
	Metrics  *observability.Metrics // optional
	Logger   zerolog.Logger
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	return &Orchestrator{
		sessionStore:    opts.SessionStore,
		estimateStore:   opts.EstimateStore,
		simulationStore: opts.SimulationStore,
		settings:        opts.Settings,
		metrics:         opts.Metrics,
		logger:          opts.Logger.With().Str("component", "orchestrator").Logger(),
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic report output.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// RunResult summarizes one pipeline execution.
type RunResult struct {
	SessionsLoaded     int
	StakesEstimated    int
	StakesBootstrapped int
	StakesSimulated    int
	Recommendations    []*domain.Recommendation
	Report             *reporting.Report
	DecisionMemo       string

	ValidationErrors []string
}

// Run executes the full pipeline. Phases:
//  1. Load sessions and validate
//  2. Enrich into per-hand samples
//  3. Estimate per-stake parameters and risk metrics
//  4. Bootstrap mean distributions
//  5. Simulate bankroll walks per stake and horizon
//  6. Evaluate recommendations
//  7. Assemble the report and decision memo
//
// Validation problems are reported but do not stop the run; downstream
// phases guard their own inputs. Config problems fail immediately.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	cfg := o.settings.SimulationConfig()
	result := &RunResult{}

	// Phase 1: load and validate sessions
	phaseStart := o.now()
	sessions, err := o.sessionStore.GetAll(ctx)
	if err != nil {
		o.recordPhase("load", "error", phaseStart)
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	validation := ingestion.Validate(sessions)
	result.SessionsLoaded = len(sessions)
	result.ValidationErrors = validation.Errors
	o.recordPhase("load", "ok", phaseStart)
	o.logger.Info().
		Int("sessions", len(sessions)).
		Int("validation_errors", len(validation.Errors)).
		Msg("sessions loaded")

	// Phase 2: enrichment
	phaseStart = o.now()
	samples, err := enrichment.Enrich(sessions)
	if err != nil {
		o.recordPhase("enrich", "error", phaseStart)
		return nil, fmt.Errorf("enrich sessions: %w", err)
	}
	o.recordPhase("enrich", "ok", phaseStart)

	// Phase 3: estimation and risk metrics
	phaseStart = o.now()
	estimates := estimation.Estimate(samples)
	estimation.ApplyRiskMetrics(estimates, cfg.RiskTolerance)
	if err := o.estimateStore.InsertBulk(ctx, estimates); err != nil {
		o.recordPhase("estimate", "error", phaseStart)
		return nil, fmt.Errorf("store estimates: %w", err)
	}
	result.StakesEstimated = len(estimates)
	if o.metrics != nil {
		o.metrics.StakesEstimated.Add(float64(len(estimates)))
	}
	o.recordPhase("estimate", "ok", phaseStart)
	o.logger.Info().Int("stakes", len(estimates)).Msg("parameters estimated")

	// Phase 4: bootstrap
	phaseStart = o.now()
	bootstrap := estimation.Bootstrap(samples, o.settings.Bootstrap.Trials, cfg.Seed)
	result.StakesBootstrapped = len(bootstrap)
	if o.metrics != nil {
		o.metrics.BootstrapTrialsRun.Add(float64(len(bootstrap) * o.settings.Bootstrap.Trials))
	}
	o.recordPhase("bootstrap", "ok", phaseStart)

	// Phase 5: simulation
	phaseStart = o.now()
	runner := simulation.NewRunner(o.simulationStore, o.metrics, o.logger)
	simResults, err := runner.Run(ctx, estimates, cfg)
	if err != nil {
		o.recordPhase("simulate", "error", phaseStart)
		return nil, fmt.Errorf("run simulations: %w", err)
	}
	result.StakesSimulated = len(simResults)
	o.recordPhase("simulate", "ok", phaseStart)
	o.logger.Info().
		Int("stakes", len(simResults)).
		Int("horizons", len(cfg.TimeHorizons)).
		Msg("simulations complete")

	// Phase 6: recommendations
	evaluator := decision.NewEvaluator(cfg.CurrentBankrollBB, cfg.RiskTolerance)
	recommendations := evaluator.Evaluate(simResults)
	result.Recommendations = recommendations
	if o.metrics != nil {
		for _, rec := range recommendations {
			o.metrics.RecommendationsMade.WithLabelValues(string(rec.Verdict)).Inc()
		}
	}

	// Phase 7: report and memo
	phaseStart = o.now()
	generator := reporting.NewGenerator(o.estimateStore, o.simulationStore).WithClock(o.now)
	report, err := generator.Generate(ctx, samples, bootstrap, recommendations, cfg)
	if err != nil {
		o.recordPhase("report", "error", phaseStart)
		return nil, fmt.Errorf("generate report: %w", err)
	}
	result.Report = report
	result.DecisionMemo = decision.RenderMemo(decision.MemoInput{
		Recommendations: recommendations,
		BankrollBB:      cfg.CurrentBankrollBB,
		RiskTolerance:   cfg.RiskTolerance,
		NSimulations:    cfg.NSimulations,
		MaxHorizon:      cfg.MaxHorizon(),
		NSessions:       report.DataSummary.TotalSessions,
		TotalHours:      report.DataSummary.TotalHours,
		NetResultUSD:    report.DataSummary.NetResultUSD,
		DateFrom:        parseISODate(report.DataSummary.DateFrom),
		DateTo:          parseISODate(report.DataSummary.DateTo),
		GeneratedAt:     report.GeneratedAt,
	})
	o.recordPhase("report", "ok", phaseStart)

	o.logger.Info().
		Int("sessions", result.SessionsLoaded).
		Int("estimated", result.StakesEstimated).
		Int("simulated", result.StakesSimulated).
		Msg("pipeline complete")

	return result, nil
}

// WriteOutputs writes the report files and decision memo to outputDir.
func (o *Orchestrator) WriteOutputs(result *RunResult, outputDir string) error {
	generator := reporting.NewGenerator(o.estimateStore, o.simulationStore)
	if err := generator.WriteFiles(result.Report, outputDir); err != nil {
		return err
	}
	if o.metrics != nil {
		o.metrics.ReportsGenerated.Inc()
	}
	path := filepath.Join(outputDir, MemoFile)
	if err := os.WriteFile(path, []byte(result.DecisionMemo), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", MemoFile, err)
	}
	return nil
}

// MemoFile is the decision memo file name inside the output directory.
const MemoFile = "bankroll_decision_memo.md"

func (o *Orchestrator) recordPhase(phase, status string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.PipelineRunsTotal.WithLabelValues(phase, status).Inc()
	o.metrics.PipelineDuration.WithLabelValues(phase).Observe(o.now().Sub(start).Seconds())
}

func parseISODate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
