package gauge

import (
	"context"
	"sync"
	"time"

	"horizonx-gauge/internal/domain"
	"horizonx-gauge/internal/logger"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

// SourceResolver picks the metrics source for an instance.
type SourceResolver interface {
	For(instance *domain.Instance) (domain.MetricsSource, error)
}

var _ domain.GaugeService = (*Service)(nil)

type Service struct {
	sources        SourceResolver
	opts           Options
	maxConcurrency int
	log            logger.Logger

	mu     sync.Mutex
	gauges *gocache.Cache
}

/*
NewService keeps one Gauge per instance. A gauge that is not refreshed for
idleTTL is evicted together with its last value.
*/
func NewService(sources SourceResolver, opts Options, idleTTL time.Duration, maxConcurrency int, log logger.Logger) *Service {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	return &Service{
		sources:        sources,
		opts:           opts.withDefaults(),
		maxConcurrency: maxConcurrency,
		log:            log,
		gauges:         gocache.New(idleTTL, idleTTL/2),
	}
}

func (s *Service) Refresh(ctx context.Context, instance *domain.Instance) (*domain.GaugeReading, error) {
	src, err := s.sources.For(instance)
	if err != nil {
		return nil, err
	}

	reading := s.touch(instance.ID).Refresh(ctx, src, instance)
	return &reading, nil
}

func (s *Service) RefreshAll(ctx context.Context, instances []*domain.Instance) ([]domain.GaugeReading, error) {
	results := make([]*domain.GaugeReading, len(instances))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)

	for i, instance := range instances {
		g.Go(func() error {
			reading, err := s.Refresh(ctx, instance)
			if err != nil {
				s.log.Error("gauge: refresh skipped", "instance_id", instance.ID, "error", err)
				return nil
			}
			results[i] = reading
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readings := make([]domain.GaugeReading, 0, len(results))
	for _, r := range results {
		if r != nil {
			readings = append(readings, *r)
		}
	}

	return readings, nil
}

func (s *Service) Latest(instanceID uuid.UUID) (*domain.GaugeReading, error) {
	v, ok := s.gauges.Get(instanceID.String())
	if !ok {
		return nil, domain.ErrGaugeNotFound
	}

	reading := v.(*Gauge).Reading()
	return &reading, nil
}

// Forget drops the instance's gauge, and any per-instance state the
// resolver keeps.
func (s *Service) Forget(instanceID uuid.UUID) {
	s.gauges.Delete(instanceID.String())

	if f, ok := s.sources.(interface{ Forget(uuid.UUID) }); ok {
		f.Forget(instanceID)
	}
}

// touch returns the instance's gauge, creating it if needed, and restarts
// its idle expiry.
func (s *Service) touch(instanceID uuid.UUID) *Gauge {
	key := instanceID.String()

	s.mu.Lock()
	defer s.mu.Unlock()

	var g *Gauge
	if v, ok := s.gauges.Get(key); ok {
		g = v.(*Gauge)
	} else {
		g = NewGauge(instanceID, s.opts, s.log)
	}

	s.gauges.Set(key, g, gocache.DefaultExpiration)
	return g
}
