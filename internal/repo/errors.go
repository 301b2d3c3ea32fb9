package repo

import (
	"errors"
	"fmt"

	"lorekeeper/internal/store"
	"lorekeeper/internal/world"
)

// ErrDataStoreFailed marks a backing-store failure; it aliases the store
// package's sentinel so errors.Is works across the boundary.
var ErrDataStoreFailed = store.ErrDataStore

// ErrNotFound reports that no thing matched the given identifier.
var ErrNotFound = errors.New("not found")

// ErrMissingName reports a creation attempt for a thing with no name.
var ErrMissingName = errors.New("missing name")

// NameAlreadyExistsError reports a name conflict and carries the conflicting
// thing so callers can describe it.
type NameAlreadyExistsError struct {
	Existing world.Thing
}

func (e *NameAlreadyExistsError) Error() string {
	return fmt.Sprintf("name already in use by %s", e.Existing.Name().MustValue())
}

// ChangeError wraps any failure out of Modify together with the Change that
// could not be applied, so the caller can present it or re-queue it. The
// repository state is untouched when a ChangeError is returned, except for
// an EditAndUnsave whose edit landed and whose unsave failed: the edit stays
// applied and the ChangeError carries the remaining Unsave.
type ChangeError struct {
	Change Change
	Err    error
}

func (e *ChangeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Change.DescribeRedo(), e.Err)
}

func (e *ChangeError) Unwrap() error {
	return e.Err
}
