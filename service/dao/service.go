package dao

import (
	"context"
	"errors"
)

// Service is a minimal generic persistence contract shared by the approval
// and lesson stores.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}

// Sentinel errors let callers detect conditions via errors.Is rather than
// string comparison.
var (
	ErrNotFound  = errors.New("dao: not found")
	ErrNilEntity = errors.New("dao: nil entity")
)
