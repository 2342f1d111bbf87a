package blob

import (
	"context"
	"errors"
	"testing"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store := NewFS(t.TempDir())
	ctx := context.Background()

	if err := store.Put(ctx, "docs/a.json", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	data, err := store.Get(ctx, "docs/a.json")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(data) != `{"v":1}` {
		t.Errorf("Get() = %q, want %q", data, `{"v":1}`)
	}

	if err := store.Delete(ctx, "docs/a.json"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if _, err := store.Get(ctx, "docs/a.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestFSStorePutOverwrites(t *testing.T) {
	store := NewFS(t.TempDir())
	ctx := context.Background()

	if err := store.Put(ctx, "k", []byte("one")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := store.Put(ctx, "k", []byte("two")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	data, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("Get() = %q, want two", data)
	}
}

func TestFSStoreDeleteMissingIsNoError(t *testing.T) {
	store := NewFS(t.TempDir())
	if err := store.Delete(context.Background(), "missing"); err != nil {
		t.Errorf("Delete() on missing key = %v, want nil", err)
	}
}

func TestFSStoreList(t *testing.T) {
	store := NewFS(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"docs/b", "docs/a", "img/logo"} {
		if err := store.Put(ctx, key, []byte("x")); err != nil {
			t.Fatalf("Put(%q) error: %v", key, err)
		}
	}

	keys, err := store.List(ctx, "docs/")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "docs/a" || keys[1] != "docs/b" {
		t.Errorf("List() = %v, want [docs/a docs/b]", keys)
	}
}

func TestFSStoreListEmptyRoot(t *testing.T) {
	// Root directory that was never created: no objects, no error.
	store := NewFS(t.TempDir() + "/never-created")
	keys, err := store.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("List() = %v, want empty", keys)
	}
}

func TestFSStoreRejectsEscapingKeys(t *testing.T) {
	store := NewFS(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"", "../outside", "/abs/path", "a/../../outside"} {
		if err := store.Put(ctx, key, []byte("x")); err == nil {
			t.Errorf("Put(%q) should be rejected", key)
		}
	}
}
