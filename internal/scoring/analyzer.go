// Package scoring validates impact input, computes the bounded impact score
// and answers significance queries against a fixed threshold.
package scoring

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
)

// Version of the impact analysis model.
const Version = "0.1.0"

// Analyzer composes validation, scoring and result construction, and
// answers significance queries against a fixed minimum threshold.
//
// An Analyzer holds no mutable state after construction and is safe for
// concurrent use.
type Analyzer struct {
	threshold float64
	score     ScoreFunc
	now       func() time.Time
	metrics   *Metrics
	logger    *slog.Logger
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithScorer replaces the default linear scorer.
func WithScorer(fn ScoreFunc) Option {
	return func(a *Analyzer) {
		if fn != nil {
			a.score = fn
		}
	}
}

// WithClock sets the source of result timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// WithMetrics records analysis outcomes to m.
func WithMetrics(m *Metrics) Option {
	return func(a *Analyzer) {
		a.metrics = m
	}
}

// NewAnalyzer creates an Analyzer. minimumThreshold must be in [0,100].
func NewAnalyzer(minimumThreshold float64, logger *slog.Logger, opts ...Option) (*Analyzer, error) {
	if math.IsNaN(minimumThreshold) || minimumThreshold < MinScore || minimumThreshold > MaxScore {
		return nil, rangeError("minimum_threshold", "threshold must be between 0 and 100")
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Analyzer{
		threshold: minimumThreshold,
		score:     NewScorer().Score,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.logger.Info("analyzer initialized", "threshold", minimumThreshold)
	return a, nil
}

// Threshold returns the minimum score considered significant.
func (a *Analyzer) Threshold() float64 {
	return a.threshold
}

// Analyze validates raw, scores it and returns the Result.
//
// Validation failures are returned unchanged. Any other failure while
// scoring or building the result is returned as an InternalKind error
// wrapping the cause.
func (a *Analyzer) Analyze(raw any) (Result, error) {
	logger := a.logger.With("analysis_id", uuid.NewString())

	in, err := Decode(raw)
	if err != nil {
		logger.Error("validation error", "error", err)
		a.metrics.observeOutcome(OutcomeValidationError)
		return Result{}, err
	}

	result, err := a.build(in)
	if err != nil {
		logger.Error("unexpected error", "error", err)
		a.metrics.observeOutcome(OutcomeInternalError)
		return Result{}, internalError(err)
	}

	logger.Info("analysis completed", "score", result.Score(), "tipo", in.Tipo)
	a.metrics.observeScore(result.Score())
	return result, nil
}

// IsSignificant reports whether r's score reaches the minimum threshold.
func (a *Analyzer) IsSignificant(r Result) bool {
	significant := r.Score() >= a.threshold
	a.metrics.observeSignificance(significant)
	return significant
}

func (a *Analyzer) build(in Input) (result Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if e, ok := rec.(error); ok {
				err = fmt.Errorf("scorer panic: %w", e)
			} else {
				err = fmt.Errorf("scorer panic: %v", rec)
			}
		}
	}()

	score, message := a.score(in)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Result{}, errors.New("scorer produced a non-finite score")
	}
	return NewResult(score, message, map[string]string{FieldTipo: in.Tipo}, a.now())
}
