package repository

import (
	"context"
	"fmt"
	"sync"
)

type MemoryStore[R any, T any, I any] struct {
	mapping Mapping[R, T, I]

	mu   sync.RWMutex
	rows []*R
}

func NewMemoryStore[R any, T any, I any](mapping Mapping[R, T, I]) *MemoryStore[R, T, I] {
	return &MemoryStore[R, T, I]{mapping: mapping}
}

func (s *MemoryStore[R, T, I]) List(_ context.Context, params ListParams) ([]T, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.rows)
	start := min(max(params.Offset, 0), total)
	end := total
	if params.Limit > 0 {
		end = min(start+params.Limit, total)
	}

	out := make([]T, 0, end-start)
	for _, row := range s.rows[start:end] {
		out = append(out, s.mapping.ToRecord(row))
	}
	return out, total, nil
}

func (s *MemoryStore[R, T, I]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var zero T
	_, row := s.findLocked(id)
	if row == nil {
		return zero, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return s.mapping.ToRecord(row), nil
}

func (s *MemoryStore[R, T, I]) Create(_ context.Context, input I) (T, error) {
	row := new(R)
	s.mapping.Apply(row, input)
	return s.insert(row)
}

func (s *MemoryStore[R, T, I]) Insert(_ context.Context, item T) (T, error) {
	return s.insert(s.mapping.FromRecord(item))
}

func (s *MemoryStore[R, T, I]) insert(row *R) (T, error) {
	var zero T
	if err := runBeforeCreate(row); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflictsLocked(row, "") {
		return zero, ErrConflict
	}
	s.rows = append(s.rows, row)
	return s.mapping.ToRecord(row), nil
}

func (s *MemoryStore[R, T, I]) Update(_ context.Context, id string, input I) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	i, row := s.findLocked(id)
	if row == nil {
		return zero, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	updated := *row
	s.mapping.Apply(&updated, input)
	if err := runBeforeUpdate(&updated); err != nil {
		return zero, err
	}
	if s.conflictsLocked(&updated, id) {
		return zero, ErrConflict
	}
	s.rows[i] = &updated
	return s.mapping.ToRecord(&updated), nil
}

func (s *MemoryStore[R, T, I]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, row := s.findLocked(id)
	if row == nil {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	s.rows = append(s.rows[:i], s.rows[i+1:]...)
	return nil
}

func (s *MemoryStore[R, T, I]) findLocked(id string) (int, *R) {
	for i, row := range s.rows {
		if s.mapping.ID(row) == id {
			return i, row
		}
	}
	return -1, nil
}

func (s *MemoryStore[R, T, I]) conflictsLocked(row *R, exceptID string) bool {
	if s.mapping.Unique == nil {
		return false
	}
	key := s.mapping.Unique(row)
	if key == "" {
		return false
	}
	for _, other := range s.rows {
		if s.mapping.ID(other) != exceptID && s.mapping.Unique(other) == key {
			return true
		}
	}
	return false
}
