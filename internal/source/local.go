package source

import (
	"context"
	"sync"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
)

// LocalSource samples the host this process runs on. Each series value is
// the share of the processor's time spent in that mode since the previous
// fetch for the same instance, in percent. The first fetch reports zeros.
type LocalSource struct {
	mu   sync.Mutex
	prev map[uuid.UUID]map[string]cpu.TimesStat

	times  func(ctx context.Context, percpu bool) ([]cpu.TimesStat, error)
	counts func(ctx context.Context, logical bool) (int, error)

	log logger.Logger
}

func NewLocalSource(log logger.Logger) *LocalSource {
	return &LocalSource{
		prev:   make(map[uuid.UUID]map[string]cpu.TimesStat),
		times:  cpu.TimesWithContext,
		counts: cpu.CountsWithContext,
		log:    log,
	}
}

func (s *LocalSource) Fetch(ctx context.Context, instance *domain.Instance) (*domain.MetricsSnapshot, error) {
	stats, err := s.times(ctx, true)
	if err != nil {
		return nil, &domain.FetchError{Reason: "cpu times unavailable", Err: err}
	}

	snapshot := &domain.MetricsSnapshot{CPU: make(domain.CPUSnapshot, len(stats))}

	if n, err := s.counts(ctx, true); err != nil {
		s.log.Warn("local source: cpu count unavailable", "error", err)
	} else if n > 0 {
		snapshot.CoreCount = &n
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.prev[instance.ID]
	next := make(map[string]cpu.TimesStat, len(stats))

	for _, curr := range stats {
		next[curr.CPU] = curr

		prev, ok := last[curr.CPU]
		if !ok {
			prev = curr
		}
		snapshot.CPU[curr.CPU] = seriesBetween(prev, curr)
	}

	s.prev[instance.ID] = next

	return snapshot, nil
}

// Forget drops the previous sample kept for an instance.
func (s *LocalSource) Forget(instanceID uuid.UUID) {
	s.mu.Lock()
	delete(s.prev, instanceID)
	s.mu.Unlock()
}

func seriesBetween(prev, curr cpu.TimesStat) domain.Series {
	total := sumTimes(curr) - sumTimes(prev)

	share := func(delta float64) []domain.SamplePoint {
		v := 0.0
		if total > 0 && delta > 0 {
			v = delta * 100 / total
		}
		return []domain.SamplePoint{{Value: &v}}
	}

	return domain.Series{
		"user":   share((curr.User + curr.Nice) - (prev.User + prev.Nice)),
		"system": share((curr.System + curr.Irq + curr.Softirq) - (prev.System + prev.Irq + prev.Softirq)),
		"wait":   share(curr.Iowait - prev.Iowait),
		"steal":  share(curr.Steal - prev.Steal),
	}
}

func sumTimes(t cpu.TimesStat) float64 {
	return t.User + t.Nice + t.System + t.Idle +
		t.Iowait + t.Irq + t.Softirq + t.Steal
}
