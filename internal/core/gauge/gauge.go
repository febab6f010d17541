package gauge

import (
	"context"
	"sync"
	"time"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"

	"github.com/google/uuid"
)

// Gauge holds the cpu gauge state of one instance across refreshes.
//
// A refresh enters the loading state only while no value has been
// obtained yet. Once a value exists, failed fetches keep showing it and
// mark the reading stale instead of surfacing an error.
type Gauge struct {
	mu sync.Mutex

	instanceID uuid.UUID
	opts       Options
	log        logger.Logger

	state     domain.LoadState
	value     int
	cores     int
	hasValue  bool
	stale     bool
	updatedAt time.Time

	issued  uint64
	applied uint64
}

func NewGauge(instanceID uuid.UUID, opts Options, log logger.Logger) *Gauge {
	return &Gauge{
		instanceID: instanceID,
		opts:       opts.withDefaults(),
		log:        log.With("instance_id", instanceID),
		state:      domain.LoadStateIdle,
	}
}

func (g *Gauge) Refresh(ctx context.Context, src domain.MetricsSource, instance *domain.Instance) domain.GaugeReading {
	gen := g.begin()
	snapshot, err := src.Fetch(ctx, instance)
	return g.complete(gen, snapshot, err)
}

func (g *Gauge) Reading() domain.GaugeReading {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.reading()
}

func (g *Gauge) begin() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.issued++
	if !g.hasValue {
		g.state = domain.LoadStateLoading
	}
	return g.issued
}

func (g *Gauge) complete(gen uint64, snapshot *domain.MetricsSnapshot, err error) domain.GaugeReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	// a newer refresh already landed
	if gen < g.applied {
		g.log.Debug("gauge: discarding outdated refresh", "generation", gen)
		return g.reading()
	}
	g.applied = gen
	g.updatedAt = time.Now().UTC()

	if err == nil && snapshot == nil {
		snapshot = &domain.MetricsSnapshot{}
	}

	switch {
	case err != nil && g.hasValue:
		g.stale = true
		g.log.Warn("gauge: fetch failed, keeping previous value", "error", err)

	case err != nil:
		g.state = domain.LoadStateError
		g.log.Error("gauge: fetch failed", "error", err)

	default:
		g.cores = snapshot.Cores()
		g.value = Normalize(SumUsage(snapshot.CPU), g.cores)
		g.state = domain.LoadStateReady
		g.hasValue = true
		g.stale = false
	}

	return g.reading()
}

func (g *Gauge) reading() domain.GaugeReading {
	r := domain.GaugeReading{
		InstanceID: g.instanceID,
		Max:        g.opts.DefaultCapacity,
		State:      g.state,
		Stale:      g.stale,
		UpdatedAt:  g.updatedAt,
	}

	if g.cores > 0 {
		cores := g.cores
		r.Max = 100 * cores
		r.Value = g.value
		r.Subtitle = coresLabel(cores)
		r.CoreCount = &cores
	}

	var reason *string
	if g.state == domain.LoadStateError {
		r.Reason = g.opts.GenericErrorReason
		reason = &r.Reason
	}

	loading := g.state == domain.LoadStateLoading || g.state == domain.LoadStateIdle
	r.Text = StatusText(r.Value, loading, reason, g.opts.LoadingText)

	return r
}
