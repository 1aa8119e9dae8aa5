package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recon-engine/internal/config"
	"recon-engine/internal/gateway"
	"recon-engine/internal/learning"
	"recon-engine/internal/matching"
	"recon-engine/internal/taxonomy"
	"recon-engine/internal/triage"
	"recon-engine/internal/usecase"
)

var reconcileFlags struct {
	bankPath         string
	counterpartyPath string
	outPath          string
	configPath       string
	snapshotPath     string
	verbose          bool
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile a bank extract against a counterparty extract",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile(cmd.Context())
	},
}

func init() {
	f := reconcileCmd.Flags()
	f.StringVar(&reconcileFlags.bankPath, "bank", "", "path to the bank-side CSV extract (required)")
	f.StringVar(&reconcileFlags.counterpartyPath, "counterparty", "", "path to the counterparty-side CSV extract (required)")
	f.StringVar(&reconcileFlags.outPath, "out", "", "path for the JSONL output (default stdout)")
	f.StringVar(&reconcileFlags.configPath, "config", "", "optional engine config yaml")
	f.StringVar(&reconcileFlags.snapshotPath, "snapshot", "", "optional learner snapshot file")
	f.BoolVar(&reconcileFlags.verbose, "verbose", false, "debug logging")
	_ = reconcileCmd.MarkFlagRequired("bank")
	_ = reconcileCmd.MarkFlagRequired("counterparty")
}

func runReconcile(ctx context.Context) error {
	logger, err := buildLogger(reconcileFlags.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load(reconcileFlags.configPath)
	if err != nil {
		return err
	}

	out := os.Stdout
	if reconcileFlags.outPath != "" {
		f, err := os.Create(reconcileFlags.outPath)
		if err != nil {
			return fmt.Errorf("could not create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	learner := learning.New(cfg.Learner, logger)
	var snapshots *gateway.SnapshotStore
	if reconcileFlags.snapshotPath != "" {
		snapshots = gateway.NewSnapshotStore(reconcileFlags.snapshotPath, logger)
		blob, err := snapshots.Load()
		if err != nil {
			return err
		}
		if blob != nil {
			learner.Restore(blob)
		}
	}

	tax := taxonomy.New()
	uc := usecase.NewReconcileUseCase(
		matching.NewMatcher(cfg.Matching),
		matching.NewScorer(cfg.Weights, cfg.Matching),
		matching.NewClassifier(cfg.Thresholds),
		triage.NewEngine(
			triage.NewExceptionClassifier(tax),
			triage.NewSeverityScorer(tax, learner, cfg.Triage),
			learner, tax, cfg.Triage, logger,
		),
		learner,
		gateway.NewJSONLSink(out, logger),
		logger,
	)

	source := gateway.NewCSVTradeSource(reconcileFlags.bankPath, reconcileFlags.counterpartyPath)
	report, err := uc.ReconcileBatch(ctx, source)
	if err != nil {
		return err
	}

	if snapshots != nil {
		blob, err := learner.Snapshot()
		if err != nil {
			return fmt.Errorf("could not snapshot learner state: %w", err)
		}
		if err := snapshots.Save(blob); err != nil {
			return err
		}
	}

	summary, err := json.Marshal(report.Summary)
	if err != nil {
		return fmt.Errorf("could not marshal run summary: %w", err)
	}
	fmt.Fprintln(os.Stderr, string(summary))
	return nil
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("could not build logger: %w", err)
	}
	return logger, nil
}
