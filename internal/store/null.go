package store

import (
	"context"

	"github.com/google/uuid"

	"lorekeeper/internal/world"
)

// NullStore fails every read and every write with ErrDataStore. It
// exercises the repository's failure paths in tests.
type NullStore struct{}

func (NullStore) GetAllThings(context.Context) ([]world.Thing, error) {
	return nil, ErrDataStore
}

func (NullStore) GetThingByUUID(context.Context, uuid.UUID) (*world.Thing, error) {
	return nil, ErrDataStore
}

func (NullStore) SaveThing(context.Context, *world.Thing) error {
	return ErrDataStore
}

func (NullStore) EditThing(context.Context, *world.Thing) error {
	return ErrDataStore
}

func (NullStore) DeleteThingByUUID(context.Context, uuid.UUID) error {
	return ErrDataStore
}

func (NullStore) GetValue(context.Context, string) (string, bool, error) {
	return "", false, ErrDataStore
}

func (NullStore) SetValue(context.Context, string, string) error {
	return ErrDataStore
}

func (NullStore) DeleteValue(context.Context, string) error {
	return ErrDataStore
}
