package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"horizonx-gauge/internal/domain"

	"github.com/google/uuid"
)

type InstanceRepository struct {
	db *sql.DB
}

func NewInstanceRepository(db *sql.DB) domain.InstanceRepository {
	return &InstanceRepository{db: db}
}

const instanceColumns = "id, name, source, metrics_url, created_at, updated_at"

func (r *InstanceRepository) List(ctx context.Context, opts domain.ListOptions) ([]*domain.Instance, int64, error) {
	whereQuery := ""
	args := []any{}

	if opts.Search != "" {
		whereQuery = " WHERE name LIKE ?"
		args = append(args, "%"+opts.Search+"%")
	}

	var total int64

	if opts.IsPaginate {
		countQuery := "SELECT COUNT(*) FROM instances" + whereQuery
		if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count instances: %w", err)
		}
	}

	selectQuery := "SELECT " + instanceColumns + " FROM instances" + whereQuery + " ORDER BY name, id"

	if opts.IsPaginate {
		offset := (opts.Page - 1) * opts.Limit
		selectQuery += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, offset)
	} else {
		selectQuery += " LIMIT 1000"
	}

	rows, err := r.db.QueryContext(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query instances: %w", err)
	}
	defer rows.Close()

	var instances []*domain.Instance
	for rows.Next() {
		i, err := scanInstance(rows)
		if err != nil {
			return nil, 0, err
		}
		instances = append(instances, i)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if !opts.IsPaginate {
		total = int64(len(instances))
	}

	return instances, total, nil
}

func (r *InstanceRepository) GetByID(ctx context.Context, instanceID uuid.UUID) (*domain.Instance, error) {
	query := "SELECT " + instanceColumns + " FROM instances WHERE id = ?"

	i, err := scanInstance(r.db.QueryRowContext(ctx, query, instanceID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInstanceNotFound
		}
		return nil, err
	}

	return i, nil
}

func (r *InstanceRepository) Create(ctx context.Context, i *domain.Instance) error {
	query := `INSERT INTO instances (id, name, source, metrics_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, i.ID.String(), i.Name, i.Source, i.MetricsURL, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert instance: %w", err)
	}

	return nil
}

func (r *InstanceRepository) Update(ctx context.Context, i *domain.Instance, instanceID uuid.UUID) error {
	query := `UPDATE instances SET name = ?, source = ?, metrics_url = ?, updated_at = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, i.Name, i.Source, i.MetricsURL, i.UpdatedAt, instanceID.String())
	if err != nil {
		return fmt.Errorf("failed to execute update query: %w", err)
	}

	return requireAffected(result)
}

func (r *InstanceRepository) Delete(ctx context.Context, instanceID uuid.UUID) error {
	query := `DELETE FROM instances WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, instanceID.String())
	if err != nil {
		return fmt.Errorf("failed to execute delete query: %w", err)
	}

	return requireAffected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInstance(s scanner) (*domain.Instance, error) {
	var (
		i  domain.Instance
		id string
	)

	if err := s.Scan(&id, &i.Name, &i.Source, &i.MetricsURL, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid instance id %q: %w", id, err)
	}
	i.ID = parsed

	return &i, nil
}

func requireAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to retrieve affected rows: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrInstanceNotFound
	}

	return nil
}
