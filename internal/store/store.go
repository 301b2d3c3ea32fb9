// Package store defines the persistence boundary of the repository and its
// three implementations: an in-memory map, a null store that fails every
// write, and the production SQLite store.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"lorekeeper/internal/world"
)

// ErrDataStore is the single failure the repository distinguishes: the
// backing store could not complete the operation. Implementations log the
// underlying cause and return this sentinel.
var ErrDataStore = errors.New("data store failed")

// DataStore persists saved things and a small key-value side channel (used
// for state like the in-game clock). Every method may suspend on I/O.
type DataStore interface {
	GetAllThings(ctx context.Context) ([]world.Thing, error)
	GetThingByUUID(ctx context.Context, id uuid.UUID) (*world.Thing, error)
	SaveThing(ctx context.Context, thing *world.Thing) error
	EditThing(ctx context.Context, thing *world.Thing) error
	DeleteThingByUUID(ctx context.Context, id uuid.UUID) error

	GetValue(ctx context.Context, key string) (string, bool, error)
	SetValue(ctx context.Context, key, value string) error
	DeleteValue(ctx context.Context, key string) error
}
