package repo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lorekeeper/internal/gametime"
	"lorekeeper/internal/logging"
	"lorekeeper/internal/store"
	"lorekeeper/internal/world"
)

const (
	// DefaultRecentMax bounds the unsaved-thing buffer; overflow silently
	// drops the oldest entry.
	DefaultRecentMax = 100
	// DefaultUndoMax bounds the undo log.
	DefaultUndoMax = 10

	timeKey = "time"
)

// Limits tunes the repository's bounded buffers. Zero values take the
// defaults.
type Limits struct {
	RecentMax int
	UndoMax   int
}

// Outcome reports a successful Modify: the inverse change recorded in the
// undo log, and the affected thing with its post-change status.
type Outcome struct {
	Inverse Change
	Record  Record
}

// Repository holds the journal and recent buffer and funnels every mutation
// through the change log. Not safe for concurrent use; the engine runs one
// session at a time.
type Repository struct {
	journal      map[uuid.UUID]world.Thing
	recent       []world.Thing
	undoHistory  []Change
	redoChange   Change
	dataStore    store.DataStore
	storeEnabled bool
	time         gametime.Time
	recentMax    int
	undoMax      int
}

// New builds a Repository over the given data store. Call Init before use.
func New(dataStore store.DataStore, limits Limits) *Repository {
	if limits.RecentMax <= 0 {
		limits.RecentMax = DefaultRecentMax
	}
	if limits.UndoMax <= 0 {
		limits.UndoMax = DefaultUndoMax
	}
	return &Repository{
		journal:   make(map[uuid.UUID]world.Thing),
		dataStore: dataStore,
		time:      gametime.Default(),
		recentMax: limits.RecentMax,
		undoMax:   limits.UndoMax,
	}
}

// Init loads the journal and the persisted clock. If the data store cannot
// be read at all, the repository falls back to an in-memory store so the
// session can continue without persistence.
func (r *Repository) Init(ctx context.Context) {
	log := logging.Get(logging.CategoryRepo)

	var (
		things  []world.Thing
		timeRaw string
		timeOK  bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		things, err = r.dataStore.GetAllThings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		timeRaw, timeOK, err = r.dataStore.GetValue(gctx, timeKey)
		return err
	})

	if err := g.Wait(); err != nil {
		log.Warnf("data store unavailable, falling back to memory: %v", err)
		r.dataStore = store.NewMemoryStore()
		r.storeEnabled = false
		return
	}

	for _, thing := range things {
		if thing.UUID != uuid.Nil {
			r.journal[thing.UUID] = thing
		}
	}
	r.storeEnabled = true
	log.Infof("loaded %d journal entries", len(r.journal))

	if timeOK {
		if t, err := gametime.Parse(timeRaw); err == nil {
			r.time = t
		} else {
			log.Warnf("discarding unparseable saved time %q: %v", timeRaw, err)
		}
	}
}

// StoreEnabled reports whether the configured data store survived Init.
func (r *Repository) StoreEnabled() bool {
	return r.storeEnabled
}

// Time returns the in-game clock.
func (r *Repository) Time() gametime.Time {
	return r.time
}

// SetTime updates the in-game clock and persists it best-effort.
func (r *Repository) SetTime(ctx context.Context, t gametime.Time) {
	if err := r.dataStore.SetValue(ctx, timeKey, t.ShortString()); err != nil {
		logging.Get(logging.CategoryTime).Warnf("could not persist time: %v", err)
	}
	r.time = t
}

// Journal returns the saved things sorted by name.
func (r *Repository) Journal() []Record {
	records := make([]Record, 0, len(r.journal))
	for _, thing := range r.journal {
		records = append(records, Record{Thing: thing.Clone(), Status: StatusSaved})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Thing.Name().MustValue() < records[j].Thing.Name().MustValue()
	})
	return records
}

// Recent returns the unsaved things, oldest first.
func (r *Repository) Recent() []Record {
	records := make([]Record, 0, len(r.recent))
	for _, thing := range r.recent {
		records = append(records, Record{Thing: thing.Clone(), Status: StatusUnsaved})
	}
	return records
}

// All returns the journal followed by the recent buffer.
func (r *Repository) All() []Record {
	return append(r.Journal(), r.Recent()...)
}

// GetByName finds a thing by exact name, case-insensitively, searching the
// journal before the recent buffer.
func (r *Repository) GetByName(_ context.Context, name string) (Record, error) {
	if thing, ok := r.findJournal(name); ok {
		return Record{Thing: thing.Clone(), Status: StatusSaved}, nil
	}
	if i := r.findRecent(name); i >= 0 {
		return Record{Thing: r.recent[i].Clone(), Status: StatusUnsaved}, nil
	}
	return Record{}, ErrNotFound
}

// GetByNameStart returns every thing whose name starts with prefix,
// case-insensitively, sorted by name.
func (r *Repository) GetByNameStart(_ context.Context, prefix string) ([]Record, error) {
	var records []Record
	for _, thing := range r.journal {
		if nameHasPrefix(&thing, prefix) {
			records = append(records, Record{Thing: thing.Clone(), Status: StatusSaved})
		}
	}
	for _, thing := range r.recent {
		if nameHasPrefix(&thing, prefix) {
			records = append(records, Record{Thing: thing.Clone(), Status: StatusUnsaved})
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Thing.Name().MustValue() < records[j].Thing.Name().MustValue()
	})
	return records, nil
}

// GetByUUID finds a saved thing, checking the journal before the data
// store.
func (r *Repository) GetByUUID(ctx context.Context, id uuid.UUID) (Record, error) {
	if thing, ok := r.journal[id]; ok {
		return Record{Thing: thing.Clone(), Status: StatusSaved}, nil
	}

	thing, err := r.dataStore.GetThingByUUID(ctx, id)
	if err != nil {
		return Record{}, ErrDataStoreFailed
	}
	if thing == nil {
		return Record{}, ErrNotFound
	}
	return Record{Thing: *thing, Status: StatusSaved}, nil
}

// LoadRelations resolves a thing's cross-references best-effort: a
// character's location, or a place's parent, plus that place's own parent.
// Failures resolve to nil rather than errors.
func (r *Repository) LoadRelations(ctx context.Context, thing *world.Thing) *world.ThingRelations {
	locationUUID := uuid.Nil
	switch data := thing.Data.(type) {
	case *world.NpcData:
		locationUUID = data.Location.MustValue()
	case *world.PlaceData:
		locationUUID = data.Parent.MustValue()
	}
	if locationUUID == uuid.Nil {
		return nil
	}

	location, err := r.GetByUUID(ctx, locationUUID)
	if err != nil {
		return nil
	}
	relations := &world.ThingRelations{Location: &location.Thing}

	if place, ok := location.Thing.Data.(*world.PlaceData); ok {
		if parentUUID, set := place.Parent.Value(); set {
			if parent, err := r.GetByUUID(ctx, parentUUID); err == nil {
				relations.LocationParent = &parent.Thing
			}
		}
	}
	return relations
}

// UndoHistory returns the recorded inverses, most recent first.
func (r *Repository) UndoHistory() []Change {
	history := make([]Change, 0, len(r.undoHistory))
	for i := len(r.undoHistory) - 1; i >= 0; i-- {
		history = append(history, r.undoHistory[i])
	}
	return history
}

// RedoChange returns the change a Redo would apply, if any.
func (r *Repository) RedoChange() Change {
	return r.redoChange
}

// Modify applies a change, records its inverse in the undo log (evicting
// the oldest entry when full), and clears the redo slot. On failure the
// returned error is a *ChangeError carrying the change back to the caller
// and the repository is unchanged (see ChangeError for the one partial
// case).
func (r *Repository) Modify(ctx context.Context, change Change) (Outcome, error) {
	outcome, err := r.ModifyWithoutUndo(ctx, change)
	if err != nil {
		return Outcome{}, err
	}

	for len(r.undoHistory) >= r.undoMax {
		r.undoHistory = r.undoHistory[1:]
	}
	r.undoHistory = append(r.undoHistory, outcome.Inverse)
	r.redoChange = nil
	return outcome, nil
}

// Undo pops the most recent change off the undo log and applies it, moving
// its inverse into the redo slot. ok is false when the log is empty. On
// failure the entry is pushed back so the user can retry.
func (r *Repository) Undo(ctx context.Context) (Outcome, bool, error) {
	if len(r.undoHistory) == 0 {
		return Outcome{}, false, nil
	}

	change := r.undoHistory[len(r.undoHistory)-1]
	r.undoHistory = r.undoHistory[:len(r.undoHistory)-1]

	outcome, err := r.ModifyWithoutUndo(ctx, change)
	if err != nil {
		// A partly applied change reports its remaining work; push that
		// back so a retry does not apply the finished part twice.
		var changeErr *ChangeError
		if errors.As(err, &changeErr) && changeErr.Change != nil {
			change = changeErr.Change
		}
		r.undoHistory = append(r.undoHistory, change)
		return Outcome{}, true, err
	}

	r.redoChange = outcome.Inverse
	return outcome, true, nil
}

// Redo re-applies the change in the redo slot through Modify. ok is false
// when the slot is empty. On failure the slot is restored.
func (r *Repository) Redo(ctx context.Context) (Outcome, bool, error) {
	if r.redoChange == nil {
		return Outcome{}, false, nil
	}

	change := r.redoChange
	r.redoChange = nil

	outcome, err := r.Modify(ctx, change)
	if err != nil {
		r.redoChange = change
		return Outcome{}, true, err
	}
	return outcome, true, nil
}

// ModifyWithoutUndo applies a change and returns its inverse without
// touching the undo log. Exposed for seeding test data; commands go through
// Modify.
func (r *Repository) ModifyWithoutUndo(ctx context.Context, change Change) (Outcome, error) {
	log := logging.Get(logging.CategoryRepo)

	outcome, err := r.apply(ctx, change)
	if err != nil {
		log.Debugf("%s failed: %v", change.DescribeRedo(), err)
		// Partial applications (EditAndUnsave) substitute the remaining
		// work as the owning change; everything else hands back the
		// original.
		var changeErr *ChangeError
		if errors.As(err, &changeErr) {
			return Outcome{}, changeErr
		}
		return Outcome{}, &ChangeError{Change: change, Err: err}
	}
	log.Debugf("%s", change.DescribeRedo())
	return outcome, nil
}

func (r *Repository) apply(ctx context.Context, change Change) (Outcome, error) {
	switch c := change.(type) {
	case *Create:
		thing := world.NewThing(c.Data.Clone())
		name, err := r.createThing(thing)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Inverse: &Delete{ID: ByName(name), Name: name},
			Record:  Record{Thing: thing.Clone(), Status: StatusUnsaved},
		}, nil

	case *CreateAndSave:
		thing := world.Thing{UUID: c.UUID, Data: c.Data.Clone()}
		name, set := thing.Name().Value()
		if !set || name == "" {
			return Outcome{}, ErrMissingName
		}
		if existing, ok := r.findByName(name); ok {
			return Outcome{}, &NameAlreadyExistsError{Existing: existing}
		}
		id, err := r.saveThing(ctx, thing)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Inverse: &Delete{ID: ByUUID(id), Name: name},
			Record:  Record{Thing: r.journal[id].Clone(), Status: StatusSaved},
		}, nil

	case *Delete:
		return r.applyDelete(ctx, c)

	case *Save:
		id, savedName, err := r.saveThingByName(ctx, c.Name)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Inverse: &Unsave{Name: savedName, UUID: id},
			Record:  Record{Thing: r.journal[id].Clone(), Status: StatusSaved},
		}, nil

	case *Unsave:
		name, thing, err := r.unsaveThingByUUID(ctx, c.UUID)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{
			Inverse: &Save{Name: name},
			Record:  Record{Thing: thing, Status: StatusUnsaved},
		}, nil

	case *Edit:
		return r.applyEdit(ctx, c)

	case *EditAndUnsave:
		return r.applyEditAndUnsave(ctx, c)

	default:
		return Outcome{}, fmt.Errorf("unknown change %T", change)
	}
}

func (r *Repository) applyDelete(ctx context.Context, c *Delete) (Outcome, error) {
	var (
		thing world.Thing
		saved bool
	)

	if c.ID.IsUUID() {
		found, ok := r.journal[c.ID.UUID]
		if !ok {
			return Outcome{}, ErrNotFound
		}
		if err := r.dataStore.DeleteThingByUUID(ctx, c.ID.UUID); err != nil {
			return Outcome{}, ErrDataStoreFailed
		}
		delete(r.journal, c.ID.UUID)
		thing, saved = found, true
	} else if found, ok := r.findJournal(c.ID.Name); ok {
		if err := r.dataStore.DeleteThingByUUID(ctx, found.UUID); err != nil {
			return Outcome{}, ErrDataStoreFailed
		}
		delete(r.journal, found.UUID)
		thing, saved = found, true
	} else if i := r.findRecent(c.ID.Name); i >= 0 {
		thing = r.recent[i]
		r.recent = append(r.recent[:i], r.recent[i+1:]...)
	} else {
		return Outcome{}, ErrNotFound
	}

	var inverse Change
	if saved {
		inverse = &CreateAndSave{Data: thing.Data, UUID: thing.UUID}
	} else {
		inverse = &Create{Data: thing.Data}
	}
	status := StatusUnsaved
	if saved {
		status = StatusSaved
	}
	return Outcome{
		Inverse: inverse,
		Record:  Record{Thing: thing.Clone(), Status: status},
	}, nil
}

func (r *Repository) applyEdit(ctx context.Context, c *Edit) (Outcome, error) {
	// Journal first, whether addressed by UUID or name.
	if c.ID.IsUUID() {
		if _, ok := r.journal[c.ID.UUID]; !ok {
			return Outcome{}, ErrNotFound
		}
		inverseDiff, err := r.editJournalThing(ctx, c.ID.UUID, c.Diff)
		if err != nil {
			return Outcome{}, err
		}
		thing := r.journal[c.ID.UUID]
		return Outcome{
			Inverse: &Edit{Name: thing.Name().MustValue(), ID: ByUUID(c.ID.UUID), Diff: inverseDiff},
			Record:  Record{Thing: thing.Clone(), Status: StatusSaved},
		}, nil
	}

	if found, ok := r.findJournal(c.ID.Name); ok {
		inverseDiff, err := r.editJournalThing(ctx, found.UUID, c.Diff)
		if err != nil {
			return Outcome{}, err
		}
		thing := r.journal[found.UUID]
		return Outcome{
			Inverse: &Edit{Name: thing.Name().MustValue(), ID: ByUUID(found.UUID), Diff: inverseDiff},
			Record:  Record{Thing: thing.Clone(), Status: StatusSaved},
		}, nil
	}

	i := r.findRecent(c.ID.Name)
	if i < 0 {
		return Outcome{}, ErrNotFound
	}

	// Editing a recent thing promotes it to the journal; the inverse
	// therefore has to edit and unsave.
	thing := r.recent[i]
	if err := thing.ApplyDiff(c.Diff); err != nil {
		return Outcome{}, ErrNotFound
	}
	r.recent = append(r.recent[:i], r.recent[i+1:]...)

	name := thing.Name().MustValue()
	id, err := r.saveThing(ctx, thing)
	if err != nil {
		if errors.Is(err, ErrDataStoreFailed) {
			// The edit succeeded; only the promotion failed. Keep the
			// thing in recent and hand back a plain Edit inverse.
			r.pushRecent(thing)
			return Outcome{
				Inverse: &Edit{Name: name, ID: ByName(name), Diff: c.Diff},
				Record:  Record{Thing: thing.Clone(), Status: StatusUnsaved},
			}, nil
		}
		// Roll the edit back before reporting.
		_ = thing.ApplyDiff(c.Diff)
		r.pushRecent(thing)
		return Outcome{}, err
	}

	return Outcome{
		Inverse: &EditAndUnsave{Name: name, UUID: id, Diff: c.Diff},
		Record:  Record{Thing: r.journal[id].Clone(), Status: StatusSaved},
	}, nil
}

func (r *Repository) applyEditAndUnsave(ctx context.Context, c *EditAndUnsave) (Outcome, error) {
	if _, ok := r.journal[c.UUID]; !ok {
		return Outcome{}, ErrNotFound
	}
	if _, err := r.editJournalThing(ctx, c.UUID, c.Diff); err != nil {
		return Outcome{}, err
	}

	name, thing, err := r.unsaveThingByUUID(ctx, c.UUID)
	if err != nil {
		// The edit is in; only the unsave failed. Report the remaining
		// work so a retry picks up where this left off.
		return Outcome{}, &ChangeError{
			Change: &Unsave{Name: c.Name, UUID: c.UUID},
			Err:    err,
		}
	}
	return Outcome{
		Inverse: &Edit{Name: name, ID: ByName(name), Diff: c.Diff},
		Record:  Record{Thing: thing, Status: StatusUnsaved},
	}, nil
}

func (r *Repository) createThing(thing world.Thing) (string, error) {
	name, set := thing.Name().Value()
	if !set || name == "" {
		return "", ErrMissingName
	}
	if existing, ok := r.findByName(name); ok {
		return "", &NameAlreadyExistsError{Existing: existing}
	}
	r.pushRecent(thing)
	return name, nil
}

func (r *Repository) saveThingByName(ctx context.Context, name string) (uuid.UUID, string, error) {
	i := r.findRecent(name)
	if i < 0 {
		return uuid.Nil, "", ErrNotFound
	}

	thing := r.recent[i]
	r.recent = append(r.recent[:i], r.recent[i+1:]...)

	id, err := r.saveThing(ctx, thing)
	if err != nil {
		r.pushRecent(thing)
		return uuid.Nil, "", err
	}
	return id, thing.Name().MustValue(), nil
}

// saveThing assigns a UUID if the thing has none and persists it into the
// journal. On data store failure the UUID assignment is rolled back and the
// caller keeps ownership of the thing.
func (r *Repository) saveThing(ctx context.Context, thing world.Thing) (uuid.UUID, error) {
	assigned := false
	if thing.UUID == uuid.Nil {
		thing.UUID = uuid.New()
		assigned = true
	}

	if err := r.dataStore.SaveThing(ctx, &thing); err != nil {
		if assigned {
			thing.UUID = uuid.Nil
		}
		return uuid.Nil, ErrDataStoreFailed
	}
	r.journal[thing.UUID] = thing
	return thing.UUID, nil
}

func (r *Repository) unsaveThingByUUID(ctx context.Context, id uuid.UUID) (string, world.Thing, error) {
	thing, ok := r.journal[id]
	if !ok {
		return "", world.Thing{}, ErrNotFound
	}
	if err := r.dataStore.DeleteThingByUUID(ctx, id); err != nil {
		return "", world.Thing{}, ErrDataStoreFailed
	}

	delete(r.journal, id)
	thing.UUID = uuid.Nil
	name, err := r.createThing(thing)
	if err != nil {
		return "", world.Thing{}, err
	}
	return name, thing.Clone(), nil
}

func (r *Repository) editJournalThing(ctx context.Context, id uuid.UUID, diff world.ThingData) (world.ThingData, error) {
	thing := r.journal[id]
	if err := thing.ApplyDiff(diff); err != nil {
		return nil, ErrNotFound
	}

	if err := r.dataStore.EditThing(ctx, &thing); err != nil {
		// Swap back so the journal is untouched.
		_ = thing.ApplyDiff(diff)
		r.journal[id] = thing
		return nil, ErrDataStoreFailed
	}
	r.journal[id] = thing
	return diff, nil
}

func (r *Repository) pushRecent(thing world.Thing) {
	for len(r.recent) >= r.recentMax {
		r.recent = r.recent[1:]
	}
	r.recent = append(r.recent, thing)
}

func (r *Repository) findByName(name string) (world.Thing, bool) {
	if thing, ok := r.findJournal(name); ok {
		return thing, true
	}
	if i := r.findRecent(name); i >= 0 {
		return r.recent[i], true
	}
	return world.Thing{}, false
}

func (r *Repository) findJournal(name string) (world.Thing, bool) {
	for _, thing := range r.journal {
		if nameEquals(&thing, name) {
			return thing, true
		}
	}
	return world.Thing{}, false
}

func (r *Repository) findRecent(name string) int {
	for i := range r.recent {
		if nameEquals(&r.recent[i], name) {
			return i
		}
	}
	return -1
}

func nameEquals(thing *world.Thing, name string) bool {
	value, set := thing.Name().Value()
	return set && strings.EqualFold(value, name)
}

func nameHasPrefix(thing *world.Thing, prefix string) bool {
	value, set := thing.Name().Value()
	if !set || len(value) < len(prefix) {
		return false
	}
	return strings.EqualFold(value[:len(prefix)], prefix)
}
