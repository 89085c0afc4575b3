package project

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no project matches a lookup.
var ErrNotFound = errors.New("project not found")

// Storage defines project persistence.
type Storage interface {
	Create(ctx context.Context, project *Project) error
	List(ctx context.Context) ([]*Project, error)
}
