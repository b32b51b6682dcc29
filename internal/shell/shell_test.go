package shell

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n1rna/fossflow-cli/internal/collection"
	"github.com/n1rna/fossflow-cli/internal/diagram"
	"github.com/n1rna/fossflow-cli/internal/icons"
	"github.com/n1rna/fossflow-cli/internal/storage"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

// active returns the timers that have neither fired nor been stopped.
func (s *fakeScheduler) active() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fireAll runs every timer, including stopped ones, the way a real timer
// can still fire after losing a race with Stop.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	timers := append([]*fakeTimer(nil), s.timers...)
	s.mu.Unlock()
	for _, t := range timers {
		if !t.fired {
			t.fired = true
			t.f()
		}
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recorder struct {
	notices []Notice
}

func (r *recorder) Notify(n Notice) { r.notices = append(r.notices, n) }

func (r *recorder) messages() []string {
	var out []string
	for _, n := range r.notices {
		out = append(out, n.Message)
	}
	return out
}

type fixture struct {
	shell     *Shell
	store     *storage.MemoryStore
	scheduler *fakeScheduler
	clock     *fakeClock
	notices   *recorder
	catalog   *icons.Catalog
}

func testCatalog() *icons.Catalog {
	return icons.Assemble(icons.Pack{
		ID:    "isoflow",
		Icons: []diagram.Icon{{ID: "server"}, {ID: "storage"}, {ID: "isoflow-connector"}},
	})
}

func newFixture(t *testing.T, store *storage.MemoryStore) *fixture {
	t.Helper()
	if store == nil {
		store = storage.NewMemoryStore(0)
	}
	f := &fixture{
		store:     store,
		scheduler: &fakeScheduler{},
		clock:     &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		notices:   &recorder{},
		catalog:   testCatalog(),
	}
	f.shell = New(Options{
		Accessor:      storage.NewAccessor(store),
		Catalog:       f.catalog,
		Capacity:      1000,
		AutoSaveDelay: 5 * time.Second,
		Notifier:      f.notices,
		Scheduler:     f.scheduler,
		Now:           f.clock.Now,
	})
	t.Cleanup(f.shell.Close)
	return f
}

func items(raw ...string) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(raw))
	for _, r := range raw {
		out = append(out, json.RawMessage(r))
	}
	return out
}

func storedCollection(t *testing.T, store storage.Store) *collection.Collection {
	t.Helper()
	raw, ok, err := store.Get(storage.DiagramsKey)
	require.NoError(t, err)
	require.True(t, ok, "collection should be stored")
	c, err := collection.Decode(raw)
	require.NoError(t, err)
	return c
}

func TestStartsEmpty(t *testing.T) {
	f := newFixture(t, nil)
	snap := f.shell.Snapshot()

	assert.Equal(t, StateEmpty, snap.State)
	assert.Equal(t, diagram.DefaultTitle, *snap.Model.Title)
	assert.Equal(t, f.catalog.Icons(), snap.Model.Icons)
	assert.Len(t, snap.Model.Colors, 7)
	assert.Empty(t, f.shell.Diagrams())
}

func TestRenameAndSaveCreatesOneRecord(t *testing.T) {
	f := newFixture(t, nil)

	f.shell.Rename("Network Topology")
	assert.Equal(t, StateNamedUnsaved, f.shell.Snapshot().State)

	rec, err := f.shell.Save("Network Topology")
	require.NoError(t, err)

	list := f.shell.Diagrams()
	require.Len(t, list, 1)
	assert.Equal(t, "Network Topology", list[0].Name)
	assert.Equal(t, list[0].CreatedAt, list[0].UpdatedAt)
	assert.Equal(t, rec.ID, list[0].ID)

	snap := f.shell.Snapshot()
	assert.Equal(t, StateNamedSaved, snap.State)
	assert.False(t, snap.Unsaved)

	stored := storedCollection(t, f.store)
	require.Equal(t, 1, stored.Len())
	got, _ := stored.Find(rec.ID)
	assert.Nil(t, got.Data.Icons, "stored records carry no icons")
	assert.Equal(t, "Network Topology", *got.Data.Title)

	lastID, ok, _ := f.store.Get(storage.LastOpenedKey)
	assert.True(t, ok)
	assert.Equal(t, rec.ID, lastID)
}

func TestSaveUpdatesInPlace(t *testing.T) {
	f := newFixture(t, nil)
	first, err := f.shell.Save("v1")
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	second, err := f.shell.Save("v2")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.After(second.CreatedAt))

	list := f.shell.Diagrams()
	require.Len(t, list, 1)
	assert.Equal(t, "v2", list[0].Name)
	assert.Len(t, list[0].Data.Items, 1)
}

func TestSaveRejectsBlankName(t *testing.T) {
	f := newFixture(t, nil)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := f.shell.Save(name)
		assert.ErrorIs(t, err, ErrBlankName)
	}
	assert.Empty(t, f.shell.Diagrams())
	_, ok, _ := f.store.Get(storage.DiagramsKey)
	assert.False(t, ok)
	assert.Contains(t, f.notices.messages(), msgBlankName)
}

func TestModelUpdateMergesPartialUpdates(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.ModelUpdated(diagram.Data{Title: diagram.String("Kept"), Items: items(`{"id":"a"}`)})
	f.shell.ModelUpdated(diagram.Data{Views: items(`{"id":"v"}`), Icons: []diagram.Icon{{ID: "foreign"}}})

	model := f.shell.Snapshot().Model
	assert.Equal(t, "Kept", *model.Title)
	assert.Len(t, model.Items, 1)
	assert.Len(t, model.Views, 1)
	assert.Equal(t, f.catalog.Icons(), model.Icons, "icons always come from the catalog")

	f.shell.ModelUpdated(diagram.Data{Items: []json.RawMessage{}})
	assert.Empty(t, f.shell.Snapshot().Model.Items)
	assert.NotNil(t, f.shell.Snapshot().Model.Items)
}

func TestAutoSaveAfterDebounce(t *testing.T) {
	f := newFixture(t, nil)
	rec, err := f.shell.Save("net")
	require.NoError(t, err)
	assert.Empty(t, f.scheduler.active(), "nothing to auto-save right after saving")

	f.clock.Advance(10 * time.Second)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`, `{"id":"b"}`)})

	active := f.scheduler.active()
	require.Len(t, active, 1, "each change restarts the single debounce timer")
	assert.Equal(t, 5*time.Second, active[0].d)
	assert.True(t, f.shell.Snapshot().Unsaved)

	f.clock.Advance(5 * time.Second)
	f.scheduler.fireAll()

	snap := f.shell.Snapshot()
	assert.False(t, snap.Unsaved)
	assert.Equal(t, StateNamedSaved, snap.State)
	require.NotNil(t, snap.LastAutoSave)
	assert.Equal(t, f.clock.Now(), *snap.LastAutoSave)

	stored, ok := storedCollection(t, f.store).Find(rec.ID)
	require.True(t, ok)
	assert.True(t, stored.UpdatedAt.After(rec.UpdatedAt))
	assert.Len(t, stored.Data.Items, 2)
	assert.Equal(t, rec.CreatedAt, stored.CreatedAt)
}

func TestAutoSaveNeedsBackingRecord(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	assert.Empty(t, f.scheduler.active())
}

func TestAutoSaveIgnoredAfterManualSaveAndClose(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.Save("net")
	require.NoError(t, err)

	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	_, err = f.shell.Save("net")
	require.NoError(t, err)

	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"b"}`)})
	f.shell.Close()

	// Both stale timers fire anyway; neither may save.
	f.scheduler.fireAll()
	assert.True(t, f.shell.Snapshot().Unsaved)

	stored := storedCollection(t, f.store).List()
	require.Len(t, stored, 1)
	assert.JSONEq(t, `[{"id":"a"}]`, mustJSON(t, stored[0].Data.Items))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestAutoSaveUsesNameThenRecordName(t *testing.T) {
	f := newFixture(t, nil)
	rec, err := f.shell.Save("original")
	require.NoError(t, err)

	f.shell.Rename("renamed")
	f.scheduler.fireAll()

	stored, _ := storedCollection(t, f.store).Find(rec.ID)
	assert.Equal(t, "renamed", *stored.Data.Title)
	assert.Equal(t, "original", stored.Name, "auto-save keeps the record name")
}

func TestLoadWithoutChanges(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	rec, err := f.shell.Save("first")
	require.NoError(t, err)
	before := f.shell.Snapshot().RemountToken

	pending := f.shell.NewDiagram()
	require.Nil(t, pending)
	assert.Equal(t, StateEmpty, f.shell.Snapshot().State)

	pending, err = f.shell.Load("first")
	require.NoError(t, err)
	require.Nil(t, pending)

	snap := f.shell.Snapshot()
	assert.Equal(t, StateNamedSaved, snap.State)
	assert.Equal(t, "first", snap.Name)
	assert.Equal(t, rec.ID, snap.Current.ID)
	assert.Len(t, snap.Model.Items, 1)
	assert.Equal(t, f.catalog.Icons(), snap.Model.Icons, "icons are reattached on load")
	assert.Greater(t, snap.RemountToken, before)
}

func TestLoadWithUnsavedChangesNeedsConfirmation(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.Save("first")
	require.NoError(t, err)
	f.shell.NewDiagram()
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"draft"}`)})

	pending, err := f.shell.Load("first")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, ActionLoad, pending.Kind)
	assert.Equal(t, promptLoadUnsaved, pending.Prompt)

	// Cancel keeps the draft.
	require.NoError(t, f.shell.Resolve(false))
	assert.Len(t, f.shell.Snapshot().Model.Items, 1)
	assert.Equal(t, StateNamedUnsaved, f.shell.Snapshot().State)

	_, err = f.shell.Load("first")
	require.NoError(t, err)
	require.NoError(t, f.shell.Resolve(true))
	snap := f.shell.Snapshot()
	assert.Equal(t, "first", snap.Name)
	assert.Empty(t, snap.Model.Items)
	assert.False(t, snap.Unsaved)
}

func TestLoadUnknown(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveWithoutPending(t *testing.T) {
	f := newFixture(t, nil)
	assert.ErrorIs(t, f.shell.Resolve(true), ErrNoPendingAction)
}

func TestNewerRequestReplacesOlder(t *testing.T) {
	f := newFixture(t, nil)
	rec, err := f.shell.Save("a")
	require.NoError(t, err)

	_, err = f.shell.Delete(rec.ID)
	require.NoError(t, err)
	f.shell.ClearAll()

	p, ok := f.shell.Pending()
	require.True(t, ok)
	assert.Equal(t, ActionClearAll, p.Kind)

	require.NoError(t, f.shell.Resolve(false))
	_, ok = f.shell.Pending()
	assert.False(t, ok)
	assert.Len(t, f.shell.Diagrams(), 1, "the replaced delete never ran")
}

func TestDeleteCurrentDiagram(t *testing.T) {
	f := newFixture(t, nil)
	keep, err := f.shell.Save("keep")
	require.NoError(t, err)
	f.shell.NewDiagram()
	gone, err := f.shell.Save("gone")
	require.NoError(t, err)

	pending, err := f.shell.Delete("gone")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, ActionDelete, pending.Kind)
	assert.Equal(t, gone.ID, pending.Target)
	assert.Len(t, f.shell.Diagrams(), 2, "nothing is removed before confirmation")

	require.NoError(t, f.shell.Resolve(true))

	list := f.shell.Diagrams()
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)
	assert.Equal(t, StateEmpty, f.shell.Snapshot().State)
	assert.Equal(t, 1, storedCollection(t, f.store).Len())

	_, ok, _ := f.store.Get(storage.LastOpenedKey)
	assert.False(t, ok, "last opened pointed at the deleted diagram")
}

func TestDeleteOtherDiagramKeepsSession(t *testing.T) {
	f := newFixture(t, nil)
	other, err := f.shell.Save("other")
	require.NoError(t, err)
	f.shell.NewDiagram()
	_, err = f.shell.Save("mine")
	require.NoError(t, err)

	_, err = f.shell.Delete(other.ID)
	require.NoError(t, err)
	require.NoError(t, f.shell.Resolve(true))

	snap := f.shell.Snapshot()
	assert.Equal(t, StateNamedSaved, snap.State)
	assert.Equal(t, "mine", snap.Name)
}

func TestNewWithUnsavedChanges(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.Set(storage.LastOpenedKey, "x"))
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})

	pending := f.shell.NewDiagram()
	require.NotNil(t, pending)
	assert.Equal(t, promptNewUnsaved, pending.Prompt)

	require.NoError(t, f.shell.Resolve(true))
	snap := f.shell.Snapshot()
	assert.Equal(t, StateEmpty, snap.State)
	assert.Empty(t, snap.Model.Items)
	assert.True(t, snap.Model.FitsToScreen())

	_, ok, _ := f.store.Get(storage.LastOpenedKey)
	assert.False(t, ok)
}

func TestImportWithoutColors(t *testing.T) {
	f := newFixture(t, nil)
	before := f.shell.Snapshot().RemountToken

	d, err := f.shell.Import([]byte(`{"title":"Imported Net","icons":[{"id":"x"}],"items":[{"id":"1"}],"views":[],"fitToScreen":false}`))
	require.NoError(t, err)

	assert.Equal(t, diagram.DefaultColors(), d.Colors)
	assert.Equal(t, f.catalog.Icons(), d.Icons)
	assert.False(t, d.FitsToScreen())

	snap := f.shell.Snapshot()
	assert.Equal(t, "Imported Net", snap.Name)
	assert.Equal(t, StateNamedUnsaved, snap.State)
	assert.Greater(t, snap.RemountToken, before)
	assert.Contains(t, f.notices.messages(), `Diagram "Imported Net" imported successfully!`)
}

func TestImportKeepsColorsAndDefaultsTitle(t *testing.T) {
	f := newFixture(t, nil)
	colors := []diagram.Color{{ID: "teal", Value: "#008080"}}
	raw, err := json.Marshal(diagram.Data{Colors: colors, Items: items()})
	require.NoError(t, err)

	d, err := f.shell.Import(raw)
	require.NoError(t, err)
	assert.Equal(t, colors, d.Colors)
	assert.Equal(t, "Imported Diagram", *d.Title)
	assert.True(t, d.FitsToScreen())
}

func TestImportDetachesCurrentRecord(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.Save("saved")
	require.NoError(t, err)

	_, err = f.shell.Import([]byte(`{"title":"x"}`))
	require.NoError(t, err)

	assert.Nil(t, f.shell.Snapshot().Current)
	assert.Empty(t, f.scheduler.active(), "an import never auto-saves over another record")
}

func TestImportMalformedLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.Save("saved")
	require.NoError(t, err)
	before := f.shell.Snapshot()

	for _, raw := range []string{"not json", "[1,2]", `{"items": 3}`} {
		_, err := f.shell.Import([]byte(raw))
		assert.ErrorIs(t, err, diagram.ErrMalformed)
	}

	assert.Equal(t, before, f.shell.Snapshot())
	assert.Contains(t, f.notices.messages(), msgInvalidJSON)
}

func TestExportEmbedsCatalogAndClearsUnsaved(t *testing.T) {
	store := storage.NewMemoryStore(0)
	stripped := `[{"id":"r1","name":"bare","data":{"title":"bare","icons":[],"items":[],"views":[]},"createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`
	require.NoError(t, store.Set(storage.DiagramsKey, stripped))

	f := newFixture(t, store)
	_, err := f.shell.Load("r1")
	require.NoError(t, err)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})

	file, err := f.shell.Export()
	require.NoError(t, err)
	assert.Equal(t, "bare-2025-06-01.json", file.Name)

	exported, err := diagram.Parse(file.Content)
	require.NoError(t, err)
	assert.Len(t, exported.Icons, f.catalog.Len())
	assert.Equal(t, "bare", *exported.Title)
	assert.True(t, exported.FitsToScreen())
	assert.Contains(t, string(file.Content), "\n  \"title\"", "indented by two spaces")

	assert.False(t, f.shell.Snapshot().Unsaved)
}

func TestExportDefaults(t *testing.T) {
	f := newFixture(t, nil)
	f.shell.ModelUpdated(diagram.Data{Title: diagram.String("")})

	file, err := f.shell.Export()
	require.NoError(t, err)
	assert.Equal(t, "diagram-2025-06-01.json", file.Name)

	exported, err := diagram.Parse(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "Exported Diagram", *exported.Title)
}

func TestBeforeUnload(t *testing.T) {
	f := newFixture(t, nil)
	_, block := f.shell.BeforeUnload()
	assert.False(t, block)

	f.shell.ModelUpdated(diagram.Data{Items: items()})
	prompt, block := f.shell.BeforeUnload()
	assert.True(t, block)
	assert.Equal(t, promptUnload, prompt)
}

func TestRestoreLastOpened(t *testing.T) {
	store := storage.NewMemoryStore(0)
	f := newFixture(t, store)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	rec, err := f.shell.Save("restored")
	require.NoError(t, err)
	f.shell.Close()

	again := newFixture(t, store)
	snap := again.shell.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Equal(t, rec.ID, snap.Current.ID)
	assert.Equal(t, "restored", snap.Name)
	assert.Len(t, snap.Model.Items, 1)
	assert.Equal(t, again.catalog.Icons(), snap.Model.Icons)
	assert.Equal(t, StateNamedSaved, snap.State)
}

func TestRestoreNeedsBothKeys(t *testing.T) {
	store := storage.NewMemoryStore(0)
	require.NoError(t, store.Set(storage.LastOpenedDataKey, `{"title":"orphan","items":[{"id":"x"}]}`))

	f := newFixture(t, store)
	snap := f.shell.Snapshot()
	assert.Equal(t, diagram.DefaultTitle, *snap.Model.Title)
	assert.Equal(t, StateEmpty, snap.State)
}

func TestRestoreWithoutMatchingRecord(t *testing.T) {
	store := storage.NewMemoryStore(0)
	require.NoError(t, store.Set(storage.LastOpenedKey, "gone"))
	require.NoError(t, store.Set(storage.LastOpenedDataKey, `{"title":"orphan","items":[]}`))

	f := newFixture(t, store)
	snap := f.shell.Snapshot()
	assert.Equal(t, "orphan", *snap.Model.Title)
	assert.Nil(t, snap.Current)
}

func TestClearAllReloads(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.Set("theme", "dark"))
	_, err := f.shell.Save("a")
	require.NoError(t, err)
	before := f.shell.Snapshot().RemountToken

	pending := f.shell.ClearAll()
	require.NotNil(t, pending)
	assert.Equal(t, promptClearAll, pending.Prompt)
	require.NoError(t, f.shell.Resolve(true))

	keys, err := f.store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"theme"}, keys)
	assert.Empty(t, f.shell.Diagrams())

	snap := f.shell.Snapshot()
	assert.Equal(t, StateEmpty, snap.State)
	assert.Greater(t, snap.RemountToken, before)
	assert.Contains(t, f.notices.messages(), msgCleared)
}

func TestStorageReportAndExportAll(t *testing.T) {
	f := newFixture(t, nil)
	_, ok := f.shell.ExportAll()
	assert.False(t, ok)

	_, err := f.shell.Save("a")
	require.NoError(t, err)

	report, err := f.shell.StorageReport()
	require.NoError(t, err)
	assert.Equal(t, int64(1000), report.Capacity)
	assert.Equal(t, report.Used, report.Diagrams)
	assert.Positive(t, report.Used)

	file, ok := f.shell.ExportAll()
	require.True(t, ok)
	assert.Equal(t, "fossflow-backup-1748779200000.json", file.Name)
}

func TestQuickSave(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.QuickSave()
	assert.ErrorIs(t, err, ErrNothingToSave)

	rec, err := f.shell.Save("quick")
	require.NoError(t, err)
	_, err = f.shell.QuickSave()
	assert.ErrorIs(t, err, ErrNothingToSave, "no unsaved changes")

	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})
	again, err := f.shell.QuickSave()
	require.NoError(t, err)
	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, "quick", again.Name)
	assert.False(t, f.shell.Snapshot().Unsaved)
}

func TestQuotaFailureIsSurfaced(t *testing.T) {
	store := storage.NewMemoryStore(40)
	f := newFixture(t, store)
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a-very-long-item-that-cannot-fit"}`)})

	rec, err := f.shell.Save("big")
	assert.ErrorIs(t, err, ErrNotPersisted)
	assert.NotEmpty(t, rec.ID)

	assert.Len(t, f.shell.Diagrams(), 1, "in-memory state still updated")
	assert.Contains(t, f.notices.messages(), msgQuotaExceeded)
	for _, n := range f.notices.notices {
		if n.Message == msgQuotaExceeded {
			assert.True(t, n.OpenStorage)
		}
	}
}

func TestFailedSaveKeepsUnsavedChanges(t *testing.T) {
	f := newFixture(t, storage.NewMemoryStore(10))
	f.shell.ModelUpdated(diagram.Data{Items: items(`{"id":"a"}`)})

	_, err := f.shell.Save("Big")
	require.ErrorIs(t, err, ErrNotPersisted)

	snap := f.shell.Snapshot()
	assert.True(t, snap.Unsaved)
	assert.Equal(t, StateNamedUnsaved, snap.State)

	_, block := f.shell.BeforeUnload()
	assert.True(t, block, "leaving still needs confirmation")

	_, err = f.shell.QuickSave()
	assert.ErrorIs(t, err, ErrNotPersisted, "quick save retries instead of reporting nothing to save")
}

func TestExportNameStaysInsideOutputDir(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.shell.Save("../../escaped")
	require.NoError(t, err)

	file, err := f.shell.Export()
	require.NoError(t, err)
	assert.Equal(t, "..-..-escaped-2025-06-01.json", file.Name)

	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path, err := file.Save(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}
