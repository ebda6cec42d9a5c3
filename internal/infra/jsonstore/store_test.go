package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/runoshun/taskflow/internal/domain"
)

func TestStore_Initialize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "store.json")

	store := New(path)
	if store.IsInitialized() {
		t.Fatal("IsInitialized() = true before Initialize")
	}

	created, err := store.Initialize()
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !created {
		t.Error("Initialize() created = false, want true")
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}

	// Initialize again should be idempotent
	created, err = store.Initialize()
	if err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
	if created {
		t.Error("Initialize() second call created = true, want false")
	}
}

func TestStore_NotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "store.json"))

	_, _, err := store.Get("tasks")
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Get() error = %v, want ErrNotInitialized", err)
	}
	if err := store.Put("tasks", []byte(`[]`)); !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Put() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_PutAndGet(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put("tasks", []byte(`[{"id":"t1"}]`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !ok {
		t.Fatal("Get() ok = false, want true")
	}
	if string(got) != `[{"id":"t1"}]` {
		t.Errorf("Get() = %s, want [{\"id\":\"t1\"}]", got)
	}
}

func TestStore_PutReplacesWholeValue(t *testing.T) {
	store := newTestStore(t)

	_ = store.Put("tasks", []byte(`[{"id":"t1"},{"id":"t2"}]`))
	_ = store.Put("tasks", []byte(`[{"id":"t2"}]`))

	got, _, err := store.Get("tasks")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `[{"id":"t2"}]` {
		t.Errorf("Get() = %s, want only t2", got)
	}
}

func TestStore_PutRejectsInvalidJSON(t *testing.T) {
	store := newTestStore(t)

	if err := store.Put("tasks", []byte(`{broken`)); err == nil {
		t.Error("Put() error = nil, want error for invalid JSON")
	}
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, ok, err := store.Get("activeSprint")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if ok || got != nil {
		t.Errorf("Get() = (%s, %v), want (nil, false)", got, ok)
	}
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	_ = store.Put("activeSprint", []byte(`"s1"`))
	if err := store.Delete("activeSprint"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := store.Get("activeSprint"); ok {
		t.Error("key still present after Delete")
	}

	// Deleting again is not an error
	if err := store.Delete("activeSprint"); err != nil {
		t.Errorf("Delete() missing key error = %v", err)
	}
}

func TestStore_Keys(t *testing.T) {
	store := newTestStore(t)

	_ = store.Put("tasks", []byte(`[]`))
	_ = store.Put("activeSprint", []byte(`null`))
	_ = store.Put("sprints", []byte(`[]`))

	keys, err := store.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	want := []string{"activeSprint", "sprints", "tasks"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	first := New(path)
	if _, err := first.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	_ = first.Put("sprints", []byte(`[{"id":"s1"}]`))

	second := New(path)
	got, ok, err := second.Get("sprints")
	if err != nil || !ok {
		t.Fatalf("Get() = (%v, %v)", ok, err)
	}
	if string(got) != `[{"id":"s1"}]` {
		t.Errorf("Get() = %s", got)
	}

	// No temp file left behind
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file exists after write: %v", err)
	}
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	store := New(path)
	if _, _, err := store.Get("tasks"); err == nil {
		t.Error("Get() error = nil, want parse error")
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "store.json"))
	if _, err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return store
}
