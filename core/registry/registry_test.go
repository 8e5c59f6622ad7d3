package registry

import (
	"errors"
	"testing"
)

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry[int]()
	isNew, err := r.Register("a", 1)
	if err != nil || !isNew {
		t.Fatalf("got isNew=%v err=%v", isNew, err)
	}

	v, ok := r.Get("a")
	if !ok || v != 1 {
		t.Fatalf("got v=%v ok=%v", v, ok)
	}
}

func TestRegisterOverwriteReportsNotNew(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("k", "first")
	isNew, err := r.Register("k", "second")
	if err != nil || isNew {
		t.Fatalf("got isNew=%v err=%v", isNew, err)
	}
	v, _ := r.Get("k")
	if v != "second" {
		t.Fatalf("got %q", v)
	}
}

func TestRegisterRejectsEmptyName(t *testing.T) {
	r := NewRegistry[int]()
	if _, err := r.Register("", 1); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestGetMissingReturnsFalse(t *testing.T) {
	r := NewRegistry[int]()
	if _, ok := r.Get("missing"); ok {
		t.Fatal("expected miss")
	}
}

func TestGetOrCreateCallsCreatorOnlyOnce(t *testing.T) {
	r := NewRegistry[int]()
	calls := 0
	creator := func() (int, error) {
		calls++
		return 42, nil
	}

	first, err := r.GetOrCreate("x", creator)
	if err != nil || first != 42 {
		t.Fatalf("got %v %v", first, err)
	}
	second, err := r.GetOrCreate("x", creator)
	if err != nil || second != 42 {
		t.Fatalf("got %v %v", second, err)
	}
	if calls != 1 {
		t.Fatalf("creator called %d times, want 1", calls)
	}
}

func TestGetOrCreatePropagatesCreatorError(t *testing.T) {
	r := NewRegistry[int]()
	wantErr := errors.New("boom")
	_, err := r.GetOrCreate("x", func() (int, error) { return 0, wantErr })
	if err == nil {
		t.Fatal("expected error to propagate")
	}
}

func TestUpdateAppliesUpdater(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("counter", 1)
	if err := r.Update("counter", func(v int) (int, error) { return v + 1, nil }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	v, _ := r.Get("counter")
	if v != 2 {
		t.Fatalf("got %d", v)
	}
}

func TestUpdateMissingReturnsError(t *testing.T) {
	r := NewRegistry[int]()
	if err := r.Update("missing", func(v int) (int, error) { return v, nil }); err == nil {
		t.Fatal("expected error for missing item")
	}
}

func TestClearRemovesItem(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("x", 1)
	deleted, err := r.Clear("x", nil)
	if err != nil || !deleted {
		t.Fatalf("got deleted=%v err=%v", deleted, err)
	}
	if _, ok := r.Get("x"); ok {
		t.Fatal("expected item to be gone")
	}
}

func TestClearMissingReturnsFalseNoError(t *testing.T) {
	r := NewRegistry[int]()
	deleted, err := r.Clear("missing", nil)
	if err != nil || deleted {
		t.Fatalf("got deleted=%v err=%v", deleted, err)
	}
}

func TestClearAllRemovesEverything(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)
	r.Register("b", 2)
	count, err := r.ClearAll(nil)
	if err != nil || count != 2 {
		t.Fatalf("got count=%d err=%v", count, err)
	}
	if _, ok := r.Get("a"); ok {
		t.Fatal("expected registry to be empty")
	}
}
