// Package store defines the record-store collaborator the assistant talks to.
// The assistant only ever reads records and requests mutations through this
// interface; persistence details belong to the implementations.
package store

import (
	"context"
	"errors"

	"github.com/bryentd477/fpa-tracker/types"
)

var (
	// ErrDuplicate reports a write that would reuse an existing FPA number.
	ErrDuplicate = errors.New("fpa number already exists")
	// ErrNotFound reports an update or delete against an unknown record id.
	ErrNotFound = errors.New("fpa not found")
)

type Store interface {
	List(ctx context.Context) ([]types.Record, error)
	Create(ctx context.Context, record types.Record) (types.Record, error)
	Update(ctx context.Context, id string, fields map[types.FieldName]string) error
	Delete(ctx context.Context, id string) error
}

// Editor is the optional editing surface. When a store (or the surrounding
// UI) exposes it, update and create intents hand off a pre-filled draft
// instead of writing directly.
type Editor interface {
	OpenEditor(draft types.Record, highlight []types.FieldName)
}
