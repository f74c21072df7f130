package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/ImpactoIA/internal/config"
	"github.com/MikeSquared-Agency/ImpactoIA/internal/logging"
	"github.com/MikeSquared-Agency/ImpactoIA/internal/scoring"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	format := flag.String("format", "json", "output format [json, yaml]")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg)
	slog.SetDefault(logger)

	if err := run(os.Stdout, cfg, *format, logger); err != nil {
		logger.Error("demo failed", "error", err)
		os.Exit(1)
	}
}

// run walks through the three reference scenarios: a single analysis, a
// threshold comparison over two cases, and a rejected input.
func run(w io.Writer, cfg *config.Config, format string, logger *slog.Logger) error {
	reg := prometheus.NewRegistry()
	metrics := scoring.NewMetrics(reg)

	a, err := scoring.NewAnalyzer(0, logger, scoring.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}

	fmt.Fprintln(w, "== simple analysis")
	r, err := a.Analyze(scoring.Fields{"valor": 75, "factor": 1.2, "tipo": "social"})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if err := printResult(w, format, r); err != nil {
		return err
	}

	fmt.Fprintf(w, "== threshold %.2f\n", cfg.Analysis.ImpactThreshold)
	thresholded, err := scoring.NewAnalyzer(cfg.Analysis.ImpactThreshold, logger, scoring.WithMetrics(metrics))
	if err != nil {
		return fmt.Errorf("create analyzer: %w", err)
	}
	cases := []scoring.Fields{
		{"valor": 80, "factor": 1.0, "tipo": "alto"},
		{"valor": 40, "factor": 1.0, "tipo": "bajo"},
	}
	for i, in := range cases {
		r, err := thresholded.Analyze(in)
		if err != nil {
			return fmt.Errorf("analyze case %d: %w", i+1, err)
		}
		fmt.Fprintf(w, "case %d: score=%.2f significant=%t\n", i+1, r.Score(), thresholded.IsSignificant(r))
	}

	fmt.Fprintln(w, "== error handling")
	_, err = a.Analyze(scoring.Fields{"valor": -10})
	if !errors.Is(err, scoring.ErrRange) {
		return fmt.Errorf("expected a range error, got %v", err)
	}
	fmt.Fprintf(w, "rejected: %v\n", err)

	fmt.Fprintln(w, "== metrics")
	return writeMetrics(w, reg)
}

// writeMetrics prints every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func printResult(w io.Writer, format string, r scoring.Result) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(r)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
}
