package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInstanceNotFound = errors.New("instance not found")

const (
	SourceHTTP  = "http"
	SourceLocal = "local"
)

// Instance is a monitored virtual compute instance.
type Instance struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source"`
	MetricsURL string    `json:"metrics_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type InstanceSaveRequest struct {
	Name       string `json:"name" validate:"required,max=64"`
	Source     string `json:"source" validate:"required,oneof=http local"`
	MetricsURL string `json:"metrics_url" validate:"required_if=Source http,omitempty,url"`
}

type InstanceRepository interface {
	List(ctx context.Context, opts ListOptions) ([]*Instance, int64, error)
	GetByID(ctx context.Context, instanceID uuid.UUID) (*Instance, error)
	Create(ctx context.Context, i *Instance) error
	Update(ctx context.Context, i *Instance, instanceID uuid.UUID) error
	Delete(ctx context.Context, instanceID uuid.UUID) error
}

type InstanceService interface {
	List(ctx context.Context, opts ListOptions) (*ListResult[*Instance], error)
	All(ctx context.Context) ([]*Instance, error)
	GetByID(ctx context.Context, instanceID uuid.UUID) (*Instance, error)
	Create(ctx context.Context, req InstanceSaveRequest) (*Instance, error)
	Update(ctx context.Context, req InstanceSaveRequest, instanceID uuid.UUID) (*Instance, error)
	Delete(ctx context.Context, instanceID uuid.UUID) error
}
