package source

import (
	"errors"
	"fmt"

	"horizonx-gauge/internal/domain"

	"github.com/google/uuid"
)

var ErrUnknownSource = errors.New("unknown metrics source")

// Selector resolves an instance's Source kind to a MetricsSource.
type Selector struct {
	http  *HTTPSource
	local *LocalSource
}

func NewSelector(http *HTTPSource, local *LocalSource) *Selector {
	return &Selector{http: http, local: local}
}

func (s *Selector) For(instance *domain.Instance) (domain.MetricsSource, error) {
	switch instance.Source {
	case domain.SourceHTTP:
		if s.http != nil {
			return s.http, nil
		}
	case domain.SourceLocal:
		if s.local != nil {
			return s.local, nil
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, instance.Source)
}

func (s *Selector) Forget(instanceID uuid.UUID) {
	if s.local != nil {
		s.local.Forget(instanceID)
	}
}
