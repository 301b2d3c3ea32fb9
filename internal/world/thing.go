package world

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
)

// Kind discriminates the entity variants.
type Kind string

const (
	KindNpc   Kind = "character"
	KindPlace Kind = "place"
)

// ThingData is the typed attribute block of an entity.
type ThingData interface {
	Kind() Kind
	NameField() *Field[string]
	Clone() ThingData
	Regenerate(rng *rand.Rand, demo *Demographics, names NameGenerator)
	DisplayDescription() string
	DisplaySummary() string
	DisplayDetails(rel *ThingRelations) string

	applyDiff(diff ThingData) error
}

// Thing is a named object in the world. A zero UUID means the thing has not
// been saved to the journal yet.
type Thing struct {
	UUID uuid.UUID
	Data ThingData
}

// NewThing wraps data as an unsaved Thing.
func NewThing(data ThingData) Thing {
	return Thing{Data: data}
}

// Name returns the entity's name field.
func (t *Thing) Name() *Field[string] {
	return t.Data.NameField()
}

// Kind returns the entity's kind.
func (t *Thing) Kind() Kind {
	return t.Data.Kind()
}

// IsSaved reports whether the thing carries a journal UUID.
func (t *Thing) IsSaved() bool {
	return t.UUID != uuid.Nil
}

// Clone returns a deep copy.
func (t *Thing) Clone() Thing {
	return Thing{UUID: t.UUID, Data: t.Data.Clone()}
}

// ApplyDiff merges diff into the thing field by field with swap semantics:
// after a successful call the thing holds the new values and diff holds the
// prior ones, ready to be stored as the inverse edit. The kinds must match.
func (t *Thing) ApplyDiff(diff ThingData) error {
	return t.Data.applyDiff(diff)
}

// DisplaySummary renders the single-line markdown summary.
func (t *Thing) DisplaySummary() string {
	return t.Data.DisplaySummary()
}

// DisplayDetails renders the full markdown sheet.
func (t *Thing) DisplayDetails(rel *ThingRelations) string {
	return t.Data.DisplayDetails(rel)
}

// ThingRelations carries the resolved cross-references of a Thing: the place
// it is located in, and that place's own parent location.
type ThingRelations struct {
	Location       *Thing
	LocationParent *Thing
}

type thingJSON struct {
	UUID uuid.UUID       `json:"uuid"`
	Kind Kind            `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON encodes the thing with a kind discriminator so the data block
// can be decoded into the right type.
func (t Thing) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(t.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(thingJSON{UUID: t.UUID, Kind: t.Kind(), Data: data})
}

func (t *Thing) UnmarshalJSON(raw []byte) error {
	var decoded thingJSON
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("thing: %w", err)
	}

	var data ThingData
	switch decoded.Kind {
	case KindNpc:
		data = &NpcData{}
	case KindPlace:
		data = &PlaceData{}
	default:
		return fmt.Errorf("thing: unknown kind %q", decoded.Kind)
	}
	if err := json.Unmarshal(decoded.Data, data); err != nil {
		return fmt.Errorf("thing %q data: %w", decoded.Kind, err)
	}

	t.UUID = decoded.UUID
	t.Data = data
	return nil
}
