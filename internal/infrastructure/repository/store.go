// Package repository holds the devapi stores. Both implementations keep rows as pkg/entities models
// and share one mapping per resource, so the memory store behaves like the database one.
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflicts with an existing one")
)

type ListParams struct {
	Limit  int
	Offset int
}

// Store is one REST collection. Insert bypasses the writable-field rule and is used for seeding.
type Store[T any, I any] interface {
	List(ctx context.Context, params ListParams) ([]T, int, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, input I) (T, error)
	Update(ctx context.Context, id string, input I) (T, error)
	Delete(ctx context.Context, id string) error
	Insert(ctx context.Context, item T) (T, error)
}

// Mapping converts between an entity row and the record served over HTTP.
type Mapping[R any, T any, I any] struct {
	ToRecord   func(row *R) T
	FromRecord func(item T) *R
	Apply      func(row *R, input I)
	ID         func(row *R) string
	// Unique returns the value that must be unique across rows, or "" when none applies.
	Unique func(row *R) string
}

type beforeCreate interface {
	BeforeCreate(tx *gorm.DB) error
}

type beforeUpdate interface {
	BeforeUpdate(tx *gorm.DB) error
}

func runBeforeCreate(row any) error {
	if hook, ok := row.(beforeCreate); ok {
		return hook.BeforeCreate(nil)
	}
	return nil
}

func runBeforeUpdate(row any) error {
	if hook, ok := row.(beforeUpdate); ok {
		return hook.BeforeUpdate(nil)
	}
	return nil
}
