package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type GormStore[R any, T any, I any] struct {
	db      *gorm.DB
	mapping Mapping[R, T, I]
}

func NewGormStore[R any, T any, I any](db *gorm.DB, mapping Mapping[R, T, I]) *GormStore[R, T, I] {
	return &GormStore[R, T, I]{db: db, mapping: mapping}
}

func (s *GormStore[R, T, I]) List(ctx context.Context, params ListParams) ([]T, int, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(new(R)).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count rows: %w", err)
	}

	query := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Offset(max(params.Offset, 0))
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}

	var rows []R
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list rows: %w", err)
	}

	out := make([]T, 0, len(rows))
	for i := range rows {
		out = append(out, s.mapping.ToRecord(&rows[i]))
	}
	return out, int(total), nil
}

func (s *GormStore[R, T, I]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	row, err := s.first(ctx, id)
	if err != nil {
		return zero, err
	}
	return s.mapping.ToRecord(row), nil
}

func (s *GormStore[R, T, I]) Create(ctx context.Context, input I) (T, error) {
	row := new(R)
	s.mapping.Apply(row, input)
	return s.create(ctx, row)
}

func (s *GormStore[R, T, I]) Insert(ctx context.Context, item T) (T, error) {
	return s.create(ctx, s.mapping.FromRecord(item))
}

func (s *GormStore[R, T, I]) create(ctx context.Context, row *R) (T, error) {
	var zero T
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return zero, translate("create", err)
	}
	return s.mapping.ToRecord(row), nil
}

func (s *GormStore[R, T, I]) Update(ctx context.Context, id string, input I) (T, error) {
	var zero T
	row, err := s.first(ctx, id)
	if err != nil {
		return zero, err
	}

	s.mapping.Apply(row, input)
	if err := s.db.WithContext(ctx).Save(row).Error; err != nil {
		return zero, translate("update", err)
	}
	return s.mapping.ToRecord(row), nil
}

func (s *GormStore[R, T, I]) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(R))
	if result.Error != nil {
		return translate("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *GormStore[R, T, I]) first(ctx context.Context, id string) (*R, error) {
	row := new(R)
	err := s.db.WithContext(ctx).Where("id = ?", id).First(row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", id, err)
	}
	return row, nil
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrConflict)
	}
	return fmt.Errorf("failed to %s row: %w", op, err)
}
