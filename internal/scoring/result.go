package scoring

import (
	"encoding/json"
	"maps"
	"math"
	"time"
)

// Result is the immutable outcome of one analysis. Fields are read through
// accessors; Details returns a copy.
type Result struct {
	score     float64
	message   string
	timestamp time.Time
	details   map[string]string
}

// NewResult builds a Result, rounding score to two decimals. The score must
// lie in [0,100] and the message must be non-empty.
func NewResult(score float64, message string, details map[string]string, at time.Time) (Result, error) {
	if math.IsNaN(score) || score < MinScore || score > MaxScore {
		return Result{}, rangeError("score", "score must be between 0 and 100")
	}
	if message == "" {
		return Result{}, &Error{Kind: EmptyInputKind, Field: "message", Msg: "message cannot be empty"}
	}
	return Result{
		score:     round2(score),
		message:   message,
		timestamp: at,
		details:   maps.Clone(details),
	}, nil
}

func (r Result) Score() float64       { return r.score }
func (r Result) Message() string      { return r.message }
func (r Result) Timestamp() time.Time { return r.timestamp }

// Details returns a copy of the result details, or nil when there are none.
func (r Result) Details() map[string]string {
	return maps.Clone(r.details)
}

// Equal compares score, message and details. Timestamps are capture times
// and are ignored.
func (r Result) Equal(other Result) bool {
	return r.score == other.score &&
		r.message == other.message &&
		maps.Equal(r.details, other.details)
}

type resultJSON struct {
	Score     float64           `json:"score"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Details   map[string]string `json:"details,omitempty"`
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{
		Score:     r.score,
		Message:   r.message,
		Timestamp: r.timestamp,
		Details:   r.details,
	})
}

// MarshalYAML renders the same shape as MarshalJSON.
func (r Result) MarshalYAML() (interface{}, error) {
	return struct {
		Score     float64           `yaml:"score"`
		Message   string            `yaml:"message"`
		Timestamp time.Time         `yaml:"timestamp"`
		Details   map[string]string `yaml:"details,omitempty"`
	}{r.score, r.message, r.timestamp, r.details}, nil
}
