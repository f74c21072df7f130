package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyzer(t *testing.T, threshold float64, opts ...Option) *Analyzer {
	t.Helper()
	a, err := NewAnalyzer(threshold, discardLogger(), opts...)
	if err != nil {
		t.Fatalf("NewAnalyzer(%v): %v", threshold, err)
	}
	return a
}

func TestNewAnalyzer(t *testing.T) {
	a := newTestAnalyzer(t, 50)
	if a.Threshold() != 50 {
		t.Errorf("expected threshold 50, got %v", a.Threshold())
	}
}

func TestNewAnalyzerInvalidThreshold(t *testing.T) {
	for _, threshold := range []float64{150, -1, 100.01, math.NaN()} {
		_, err := NewAnalyzer(threshold, discardLogger())
		if !errors.Is(err, ErrRange) {
			t.Errorf("threshold %v: expected range error, got %v", threshold, err)
		}
	}
}

func TestNewAnalyzerBoundaryThresholds(t *testing.T) {
	for _, threshold := range []float64{0, 100} {
		if _, err := NewAnalyzer(threshold, nil); err != nil {
			t.Errorf("threshold %v: unexpected error %v", threshold, err)
		}
	}
}

func TestAnalyze(t *testing.T) {
	a := newTestAnalyzer(t, 0, WithClock(func() time.Time { return fixedTime }))

	r, err := a.Analyze(Fields{"valor": 50, "factor": 1.5})
	require.NoError(t, err)
	assert.Equal(t, 75.0, r.Score())
	assert.Equal(t, MessageHigh, r.Message())
	assert.Equal(t, fixedTime, r.Timestamp())
	assert.Equal(t, map[string]string{"tipo": "general"}, r.Details())
}

func TestAnalyzeBoundaries(t *testing.T) {
	a := newTestAnalyzer(t, 0)

	r, err := a.Analyze(Fields{"valor": 75, "factor": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 75.0, r.Score())
	assert.Equal(t, MessageHigh, r.Message())

	r, err = a.Analyze(Fields{"valor": 75.555555})
	require.NoError(t, err)
	assert.Equal(t, 75.56, r.Score())
}

func TestAnalyzeEchoesTipo(t *testing.T) {
	a := newTestAnalyzer(t, 0)
	r, err := a.Analyze(map[string]any{"valor": 75, "factor": 1.2, "tipo": "social"})
	require.NoError(t, err)
	assert.Equal(t, "social", r.Details()["tipo"])
	assert.Equal(t, 90.0, r.Score())
}

func TestAnalyzeScoreAlwaysInRange(t *testing.T) {
	a := newTestAnalyzer(t, 0)
	valores := []float64{0, 0.001, 1, 24.5, 50, 99.999, 100, 1e6, math.Inf(1)}
	factors := []float64{1e-9, 0.1, 0.5, 1, 1.5, 10, 1e9, math.Inf(1)}
	for _, v := range valores {
		for _, f := range factors {
			r, err := a.Analyze(Fields{"valor": v, "factor": f})
			if err != nil {
				t.Fatalf("valor=%v factor=%v: unexpected error %v", v, f, err)
			}
			if r.Score() < 0 || r.Score() > 100 {
				t.Errorf("valor=%v factor=%v: score %v out of range", v, f, r.Score())
			}
		}
	}
}

func TestAnalyzeZeroTimesInfinity(t *testing.T) {
	a := newTestAnalyzer(t, 0)
	r, err := a.Analyze(Fields{"valor": 0, "factor": math.Inf(1)})
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.Score())
	assert.Equal(t, MessageLow, r.Message())
}

func TestAnalyzeValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		kind Kind
	}{
		{"empty", Fields{}, EmptyInputKind},
		{"negative valor", Fields{"valor": -1}, RangeKind},
		{"zero factor", Fields{"factor": 0}, RangeKind},
		{"string valor", Fields{"valor": "x"}, TypeKind},
		{"not a mapping", 42, TypeKind},
	}

	a := newTestAnalyzer(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Analyze(tt.raw)
			kind, ok := KindOf(err)
			require.True(t, ok, "expected *Error, got %v", err)
			assert.Equal(t, tt.kind, kind)
			assert.Nil(t, errors.Unwrap(err), "validation errors are not wrapped")
		})
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	a := newTestAnalyzer(t, 0)
	in := Fields{"valor": 33.3333, "factor": 1.7, "tipo": "ambiental"}

	first, err := a.Analyze(in)
	require.NoError(t, err)
	second, err := a.Analyze(in)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Score(), second.Score())
	assert.Equal(t, first.Message(), second.Message())
	assert.Equal(t, first.Details(), second.Details())
}

func TestAnalyzeWrapsScorerPanic(t *testing.T) {
	cause := errors.New("boom")
	a := newTestAnalyzer(t, 0, WithScorer(func(Input) (float64, string) {
		panic(cause)
	}))

	_, err := a.Analyze(Fields{"valor": 10})
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, InternalKind, kind)
	assert.True(t, errors.Is(err, cause), "internal error should carry the original cause")
}

func TestAnalyzeWrapsNonErrorPanic(t *testing.T) {
	a := newTestAnalyzer(t, 0, WithScorer(func(Input) (float64, string) {
		panic("unexpected state")
	}))

	_, err := a.Analyze(Fields{"valor": 10})
	require.True(t, errors.Is(err, ErrInternal))
	assert.Contains(t, err.Error(), "unexpected state")
}

func TestAnalyzeWrapsOutOfContractScores(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		message string
	}{
		{"nan", math.NaN(), "x"},
		{"infinite", math.Inf(1), "x"},
		{"above range", 120, "x"},
		{"empty message", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAnalyzer(t, 0, WithScorer(func(Input) (float64, string) {
				return tt.score, tt.message
			}))
			_, err := a.Analyze(Fields{"valor": 10})
			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, InternalKind, kind)
			assert.NotNil(t, errors.Unwrap(err))
		})
	}
}

func TestAnalyzeInternalErrorMatchesOnlyInternal(t *testing.T) {
	a := newTestAnalyzer(t, 0, WithScorer(func(Input) (float64, string) {
		return 120, "x"
	}))

	_, err := a.Analyze(Fields{"valor": 10})
	assert.True(t, errors.Is(err, ErrInternal))
	assert.False(t, errors.Is(err, ErrRange))
	assert.False(t, errors.Is(err, ErrEmptyInput))
	assert.Contains(t, err.Error(), "score must be between 0 and 100")
}

func TestIsSignificant(t *testing.T) {
	a := newTestAnalyzer(t, 50)

	high, err := a.Analyze(Fields{"valor": 75, "factor": 1.0})
	require.NoError(t, err)
	assert.True(t, a.IsSignificant(high))

	low, err := a.Analyze(Fields{"valor": 25, "factor": 1.0})
	require.NoError(t, err)
	assert.False(t, a.IsSignificant(low))
}

func TestIsSignificantThresholdMonotonic(t *testing.T) {
	r, err := newTestAnalyzer(t, 0).Analyze(Fields{"valor": 60})
	require.NoError(t, err)

	for threshold := 0.0; threshold <= 100; threshold += 0.5 {
		a := newTestAnalyzer(t, threshold)
		want := threshold <= r.Score()
		if got := a.IsSignificant(r); got != want {
			t.Errorf("threshold %v: IsSignificant = %v, want %v", threshold, got, want)
		}
	}
}

func TestAnalyzeLogsEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	a, err := NewAnalyzer(40, logger)
	require.NoError(t, err)
	_, err = a.Analyze(Fields{"valor": 20})
	require.NoError(t, err)
	_, err = a.Analyze(Fields{"valor": -3})
	require.Error(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var records []map[string]any
	for _, line := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}

	assert.Equal(t, "analyzer initialized", records[0]["msg"])
	assert.Equal(t, 40.0, records[0]["threshold"])

	assert.Equal(t, "analysis completed", records[1]["msg"])
	assert.Equal(t, 20.0, records[1]["score"])
	assert.NotEmpty(t, records[1]["analysis_id"])

	assert.Equal(t, "validation error", records[2]["msg"])
	assert.Equal(t, "ERROR", records[2]["level"])
	assert.NotEqual(t, records[1]["analysis_id"], records[2]["analysis_id"])
}
