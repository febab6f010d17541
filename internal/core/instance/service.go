// Package instance manages the monitored instances whose cpu gauges are
// polled.
package instance

import (
	"context"
	"time"

	"horizonx-gauge/internal/domain"

	"github.com/google/uuid"
)

type service struct {
	repo   domain.InstanceRepository
	gauges domain.GaugeService
}

func NewService(repo domain.InstanceRepository, gauges domain.GaugeService) domain.InstanceService {
	return &service{
		repo:   repo,
		gauges: gauges,
	}
}

func (s *service) List(ctx context.Context, opts domain.ListOptions) (*domain.ListResult[*domain.Instance], error) {
	if opts.IsPaginate {
		if opts.Page <= 0 {
			opts.Page = 1
		}
		if opts.Limit <= 0 {
			opts.Limit = 10
		}
	}

	instances, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, err
	}

	res := &domain.ListResult[*domain.Instance]{
		Data: instances,
		Meta: nil,
	}

	if opts.IsPaginate {
		res.Meta = domain.CalculateMeta(total, opts.Page, opts.Limit)
	}

	return res, nil
}

func (s *service) All(ctx context.Context) ([]*domain.Instance, error) {
	instances, _, err := s.repo.List(ctx, domain.ListOptions{})
	return instances, err
}

func (s *service) GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.Instance, error) {
	return s.repo.GetByID(ctx, instanceID)
}

func (s *service) Create(ctx context.Context, req domain.InstanceSaveRequest) (*domain.Instance, error) {
	now := time.Now().UTC()

	i := &domain.Instance{
		ID:         uuid.New(),
		Name:       req.Name,
		Source:     req.Source,
		MetricsURL: metricsURL(req),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, i); err != nil {
		return nil, err
	}

	return i, nil
}

func (s *service) Update(ctx context.Context, req domain.InstanceSaveRequest, instanceID uuid.UUID) (*domain.Instance, error) {
	existing, err := s.repo.GetByID(ctx, instanceID)
	if err != nil {
		return nil, err
	}

	sourceChanged := existing.Source != req.Source || existing.MetricsURL != metricsURL(req)

	existing.Name = req.Name
	existing.Source = req.Source
	existing.MetricsURL = metricsURL(req)
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing, instanceID); err != nil {
		return nil, err
	}

	// values read from the old source must not be shown as stale data
	if sourceChanged && s.gauges != nil {
		s.gauges.Forget(instanceID)
	}

	return existing, nil
}

func (s *service) Delete(ctx context.Context, instanceID uuid.UUID) error {
	if err := s.repo.Delete(ctx, instanceID); err != nil {
		return err
	}

	if s.gauges != nil {
		s.gauges.Forget(instanceID)
	}

	return nil
}

func metricsURL(req domain.InstanceSaveRequest) string {
	if req.Source == domain.SourceLocal {
		return ""
	}
	return req.MetricsURL
}
