package docstore_test

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"shelf/pkg/docstore"
	"shelf/pkg/docstore/schema"
)

func testSchema() *schema.Schema {
	return schema.New().
		Text("id", schema.Required(), schema.NonEmpty()).
		Text("handle", schema.Required(), schema.NonEmpty()).
		Text("createdAt", schema.Required(), schema.NonEmpty()).
		Text("updatedAt", schema.Required(), schema.NonEmpty()).
		Text("title", schema.Required(), schema.NonEmpty()).
		Number("price", schema.Required(), schema.Positive()).
		Text("description").
		Text("category").
		TextList("tags").
		Bool("inStock").
		Bool("featured")
}

func testSearchConfig() docstore.SearchConfig {
	return docstore.SearchConfig{
		TextFields:    []string{"title", "handle", "description"},
		CategoryField: "category",
		TagsField:     "tags",
	}
}

// fakeClock advances one second per call so mutation timestamps and backup
// names are distinct and deterministic.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.t = c.t.Add(time.Second)

	return c.t
}

func newTestStore(t *testing.T) (*docstore.Store, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")

	store, err := docstore.New(docstore.Options{
		Path:       path,
		BackupDir:  filepath.Join(dir, "backups"),
		MaxBackups: 3,
		Schema:     testSchema(),
		Search:     testSearchConfig(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	store.SetNowFunc(newFakeClock().Now)

	return store, path
}

func widgetInput() docstore.Record {
	return docstore.Record{
		"handle":  "widget",
		"title":   "Widget",
		"price":   10.0,
		"inStock": true,
	}
}

func mustCreate(t *testing.T, store *docstore.Store, input docstore.Record) docstore.Record {
	t.Helper()

	rec, err := store.Create(input)
	if err != nil {
		t.Fatalf("Create(%v) failed: %v", input, err)
	}

	return rec
}

func readFileBytes(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}

	return data
}

func TestListCreatesEmptyFile(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	records, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(records) != 0 {
		t.Errorf("expected empty collection, got %d records", len(records))
	}

	if got := string(readFileBytes(t, path)); got != "[]\n" {
		t.Errorf("expected empty collection file, got %q", got)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	before, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	created := mustCreate(t, store, widgetInput())

	if created.ID() == "" {
		t.Fatal("created record has no id")
	}

	if created["createdAt"] != created["updatedAt"] {
		t.Errorf("createdAt %v != updatedAt %v", created["createdAt"], created["updatedAt"])
	}

	got, ok, err := store.GetByID(created.ID())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if !ok {
		t.Fatal("GetByID: record not found after create")
	}

	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("round-trip mismatch (-created +got):\n%s", diff)
	}

	byHandle, ok, err := store.GetByHandle("widget")
	if err != nil {
		t.Fatalf("GetByHandle failed: %v", err)
	}

	if !ok {
		t.Fatal("GetByHandle: record not found")
	}

	if diff := cmp.Diff(created, byHandle); diff != "" {
		t.Errorf("GetByHandle mismatch (-created +got):\n%s", diff)
	}

	after, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(after) != len(before)+1 {
		t.Errorf("expected %d records after create, got %d", len(before)+1, len(after))
	}
}

func TestCreateValidationReportsAllViolations(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	_, err := store.Create(docstore.Record{
		"handle": "bad",
		"price":  -1.0,
	})

	var vErr *docstore.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	// Missing title and non-positive price are both reported.
	if len(vErr.Violations) != 2 {
		t.Errorf("expected 2 violations, got %d: %v", len(vErr.Violations), vErr.Violations)
	}
}

func TestCreateDuplicateHandle(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	mustCreate(t, store, widgetInput())

	_, err := store.Create(widgetInput())

	var dErr *docstore.DuplicateHandleError
	if !errors.As(err, &dErr) {
		t.Fatalf("expected DuplicateHandleError, got %v", err)
	}

	if dErr.Handle != "widget" {
		t.Errorf("expected conflicting handle %q, got %q", "widget", dErr.Handle)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	count := 0

	for _, rec := range records {
		if rec.Handle() == "widget" {
			count++
		}
	}

	if count != 1 {
		t.Errorf("expected exactly one record with the handle, got %d", count)
	}
}

func TestUpdateLifecycle(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	created := mustCreate(t, store, widgetInput())

	updated, ok, err := store.Update(created.ID(), docstore.Record{"price": 12.0})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if !ok {
		t.Fatal("Update: record not found")
	}

	if updated.ID() != created.ID() {
		t.Errorf("id changed on update: %q -> %q", created.ID(), updated.ID())
	}

	if updated["createdAt"] != created["createdAt"] {
		t.Errorf("createdAt changed on update: %v -> %v", created["createdAt"], updated["createdAt"])
	}

	createdAt := parseStamp(t, updated["createdAt"])
	updatedAt := parseStamp(t, updated["updatedAt"])

	if !updatedAt.After(createdAt) {
		t.Errorf("updatedAt %v not strictly after createdAt %v", updatedAt, createdAt)
	}

	if got := updated["price"]; got != 12.0 {
		t.Errorf("expected price 12, got %v", got)
	}

	deleted, err := store.Delete(created.ID())
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if !deleted {
		t.Error("Delete returned false for existing record")
	}

	_, ok, err = store.GetByID(created.ID())
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if ok {
		t.Error("record still present after delete")
	}
}

func TestUpdateRejectsInvalidMerge(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	created := mustCreate(t, store, widgetInput())
	before := readFileBytes(t, path)

	_, _, err := store.Update(created.ID(), docstore.Record{"price": 0.0})

	var vErr *docstore.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	after := readFileBytes(t, path)
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Errorf("file changed by rejected update:\n%s", diff)
	}
}

func TestUpdateIgnoresImmutableFields(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	created := mustCreate(t, store, widgetInput())

	updated, ok, err := store.Update(created.ID(), docstore.Record{
		"id":        "forged",
		"createdAt": "1970-01-01T00:00:00Z",
		"title":     "Widget v2",
	})
	if err != nil || !ok {
		t.Fatalf("Update failed: ok=%v err=%v", ok, err)
	}

	if updated.ID() != created.ID() {
		t.Errorf("patch overwrote id: %q", updated.ID())
	}

	if updated["createdAt"] != created["createdAt"] {
		t.Errorf("patch overwrote createdAt: %v", updated["createdAt"])
	}

	if updated["title"] != "Widget v2" {
		t.Errorf("patched field not applied: %v", updated["title"])
	}
}

func TestAbsenceLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	mustCreate(t, store, widgetInput())
	before := readFileBytes(t, path)

	_, ok, err := store.Update("does-not-exist", docstore.Record{"price": 1.0})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if ok {
		t.Error("Update of missing id reported ok")
	}

	deleted, err := store.Delete("does-not-exist")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if deleted {
		t.Error("Delete of missing id returned true")
	}

	after := readFileBytes(t, path)
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Errorf("file changed by no-op mutations:\n%s", diff)
	}
}

func TestBulkUpdateSkipsMissingIDs(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	first := mustCreate(t, store, widgetInput())
	second := mustCreate(t, store, docstore.Record{
		"handle": "gadget", "title": "Gadget", "price": 5.0,
	})

	updated, err := store.BulkUpdate(
		[]string{first.ID(), "missing", second.ID()},
		docstore.Record{"featured": true},
	)
	if err != nil {
		t.Fatalf("BulkUpdate failed: %v", err)
	}

	if len(updated) != 2 {
		t.Fatalf("expected 2 updated records, got %d", len(updated))
	}

	for _, rec := range updated {
		if rec["featured"] != true {
			t.Errorf("record %s missing patched field", rec.ID())
		}
	}
}

func TestSelfHealingRead(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	valid := mustCreate(t, store, widgetInput())

	// Inject one structurally invalid record and one non-object element.
	corrupted := fmt.Sprintf(`[
  {
    "id": %q,
    "handle": "widget",
    "title": "Widget",
    "price": 10,
    "inStock": true,
    "createdAt": %q,
    "updatedAt": %q
  },
  {"id": "broken", "handle": "broken"},
  "not an object"
]
`, valid.ID(), valid["createdAt"], valid["updatedAt"])

	writeErr := os.WriteFile(path, []byte(corrupted), 0o600)
	if writeErr != nil {
		t.Fatalf("write corrupted file: %v", writeErr)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 valid record, got %d", len(records))
	}

	if records[0].ID() != valid.ID() {
		t.Errorf("wrong record survived: %s", records[0].ID())
	}
}

func TestWriteFailureLeavesFileIntact(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	mustCreate(t, store, widgetInput())
	before := readFileBytes(t, path)

	injected := errors.New("disk full")
	store.SetWriteFileFunc(func(string, io.Reader) error { return injected })

	_, err := store.Create(docstore.Record{
		"handle": "gadget", "title": "Gadget", "price": 5.0,
	})
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected write error, got %v", err)
	}

	after := readFileBytes(t, path)
	if diff := cmp.Diff(string(before), string(after)); diff != "" {
		t.Errorf("primary file changed despite failed write:\n%s", diff)
	}
}

func TestBackupRetention(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	backupDir := filepath.Join(dir, "backups")

	store, err := docstore.New(docstore.Options{
		Path:         path,
		BackupDir:    backupDir,
		MaxBackups:   3,
		BackupPrefix: "products",
		Schema:       testSchema(),
		Search:       testSearchConfig(),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	clock := newFakeClock()
	store.SetNowFunc(clock.Now)

	created := mustCreate(t, store, widgetInput())

	for i := range 5 {
		_, ok, updateErr := store.Update(created.ID(), docstore.Record{"price": float64(i + 1)})
		if updateErr != nil || !ok {
			t.Fatalf("Update %d failed: ok=%v err=%v", i, ok, updateErr)
		}
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("read backup dir: %v", err)
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	if len(names) != 3 {
		t.Fatalf("expected 3 backups, got %d: %v", len(names), names)
	}

	// The survivors are the 3 most recent: the fake clock ticks once per
	// timestamp call, so the newest backup names sort last.
	for _, name := range names {
		if !strings.HasPrefix(name, "products-") {
			t.Errorf("unexpected backup name %q", name)
		}
	}

	sort.Strings(names)

	newest := names[len(names)-1]

	stamp := strings.TrimSuffix(strings.TrimPrefix(newest, "products-"), ".json")

	parsed, parseErr := time.Parse(docstore.BackupTimestampLayout, stamp)
	if parseErr != nil {
		t.Fatalf("backup name %q does not embed a valid timestamp: %v", newest, parseErr)
	}

	if parsed.Before(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("backup timestamp %v predates the test clock epoch", parsed)
	}
}

func TestBackupContainsPreWriteState(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)

	created := mustCreate(t, store, widgetInput())
	beforeUpdate := readFileBytes(t, path)

	_, ok, err := store.Update(created.ID(), docstore.Record{"price": 99.0})
	if err != nil || !ok {
		t.Fatalf("Update failed: ok=%v err=%v", ok, err)
	}

	backupDir := filepath.Join(filepath.Dir(path), "backups")

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		t.Fatalf("read backup dir: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("no backups created")
	}

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	sort.Strings(names)

	newest := readFileBytes(t, filepath.Join(backupDir, names[len(names)-1]))
	if diff := cmp.Diff(string(beforeUpdate), string(newest)); diff != "" {
		t.Errorf("newest backup is not the pre-write state:\n%s", diff)
	}
}

func parseStamp(t *testing.T, value any) time.Time {
	t.Helper()

	str, ok := value.(string)
	if !ok {
		t.Fatalf("timestamp is not a string: %v", value)
	}

	parsed, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		t.Fatalf("invalid timestamp %q: %v", str, err)
	}

	return parsed
}
