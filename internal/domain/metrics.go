package domain

import (
	"errors"
	"time"
)

var ErrGaugeNotFound = errors.New("gauge not found")

// SamplePoint is one timestamped value of a series. Only Value is used for
// usage; a nil Value means the upstream point carried no value.
type SamplePoint struct {
	At    *time.Time `json:"at,omitempty"`
	Value *float64   `json:"value,omitempty"`
}

// Series maps a series name (user, system, wait) to its ordered points.
type Series map[string][]SamplePoint

// CPUSnapshot maps a processor identifier to its series.
type CPUSnapshot map[string]Series

// MaxCoreCount is the largest core count taken as real. Larger counts are
// treated as unknown so 100*cores stays exact in both int and float64.
const MaxCoreCount = 1 << 20

type MetricsSnapshot struct {
	CPU       CPUSnapshot `json:"cpu"`
	CoreCount *int        `json:"core_count,omitempty"`
}

// Cores returns the known core count, or 0 when unknown.
func (s MetricsSnapshot) Cores() int {
	if s.CoreCount == nil || *s.CoreCount < 0 || *s.CoreCount > MaxCoreCount {
		return 0
	}
	return *s.CoreCount
}

// FetchError is returned by metric sources when the upstream rejects a
// request. Reason is safe to show to users.
type FetchError struct {
	Reason string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
