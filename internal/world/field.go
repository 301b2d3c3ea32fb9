// Package world defines the entities the engine generates and stores:
// characters and places, their typed attribute fields, the demographic
// tables used to generate them, and their markdown renderings.
package world

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is an attribute cell that tracks both a value and whether the user
// has pinned it. The four states drive regeneration:
//
//	unlocked, unset: regeneration may fill it
//	unlocked, set:   auto-generated; regeneration may replace it
//	locked, unset:   explicitly cleared; regeneration must leave it
//	locked, set:     user-specified; regeneration must not touch it
type Field[T any] struct {
	locked bool
	value  *T
}

// FieldOf returns an unlocked field holding v.
func FieldOf[T any](v T) Field[T] {
	return Field[T]{value: &v}
}

// LockedFieldOf returns a locked field holding v, as if the user had
// specified the value.
func LockedFieldOf[T any](v T) Field[T] {
	return Field[T]{locked: true, value: &v}
}

// Value returns the held value and whether one is set.
func (f *Field[T]) Value() (T, bool) {
	if f.value == nil {
		var zero T
		return zero, false
	}
	return *f.value, true
}

// MustValue returns the held value, or the zero value if unset.
func (f *Field[T]) MustValue() T {
	v, _ := f.Value()
	return v
}

// IsSet reports whether a value is held.
func (f *Field[T]) IsSet() bool {
	return f.value != nil
}

// IsLocked reports whether the field is pinned against regeneration.
func (f *Field[T]) IsLocked() bool {
	return f.locked
}

// Lock pins the field.
func (f *Field[T]) Lock() {
	f.locked = true
}

// Unlock unpins the field.
func (f *Field[T]) Unlock() {
	f.locked = false
}

// Replace stores v if the field is unlocked; locked fields are untouched.
func (f *Field[T]) Replace(v T) {
	if !f.locked {
		f.value = &v
	}
}

// ReplaceWith calls fn and stores the result, but only on an unlocked field.
// fn is not called when the field is locked.
func (f *Field[T]) ReplaceWith(fn func() T) {
	if !f.locked {
		v := fn()
		f.value = &v
	}
}

// FillWith calls fn and stores the result only when the field is unlocked
// and unset, the regeneration rule for untouched fields.
func (f *Field[T]) FillWith(fn func() T) {
	if !f.locked && f.value == nil {
		v := fn()
		f.value = &v
	}
}

// ApplyDiff merges diff into f with swap semantics. An unlocked, unset diff
// is a no-op. Otherwise the entire cell (value and lock state) is exchanged,
// leaving the prior state of f in diff so the caller can store it as the
// inverse edit.
func (f *Field[T]) ApplyDiff(diff *Field[T]) {
	if !diff.locked && diff.value == nil {
		return
	}
	*f, *diff = *diff, *f
}

var nullBytes = []byte("null")

type fieldJSON[T any] struct {
	Locked bool `json:"locked"`
	Value  *T   `json:"value"`
}

// MarshalJSON encodes the unlocked, unset state as null and every other
// state as an object carrying the lock flag.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.locked && f.value == nil {
		return nullBytes, nil
	}
	return json.Marshal(fieldJSON[T]{Locked: f.locked, Value: f.value})
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullBytes) {
		*f = Field[T]{}
		return nil
	}
	var raw fieldJSON[T]
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("field: %w", err)
	}
	f.locked = raw.Locked
	f.value = raw.Value
	return nil
}
