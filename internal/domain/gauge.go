package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LoadState string

const (
	LoadStateIdle    LoadState = "idle"
	LoadStateLoading LoadState = "loading"
	LoadStateError   LoadState = "error"
	LoadStateReady   LoadState = "ready"
)

// GaugeReading is what a gauge widget renders: Value against Max with Text
// inside and Subtitle below.
type GaugeReading struct {
	InstanceID uuid.UUID `json:"instance_id"`
	Max        int       `json:"max"`
	Value      int       `json:"value"`
	Text       string    `json:"text"`
	Subtitle   string    `json:"subtitle,omitempty"`
	State      LoadState `json:"state"`
	Reason     string    `json:"reason,omitempty"`
	Stale      bool      `json:"stale"`
	CoreCount  *int      `json:"core_count,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MetricsSource fetches the latest cpu and sysinfo values for an instance.
type MetricsSource interface {
	Fetch(ctx context.Context, instance *Instance) (*MetricsSnapshot, error)
}

type GaugeService interface {
	Refresh(ctx context.Context, instance *Instance) (*GaugeReading, error)
	RefreshAll(ctx context.Context, instances []*Instance) ([]GaugeReading, error)
	Latest(instanceID uuid.UUID) (*GaugeReading, error)
	Forget(instanceID uuid.UUID)
}
