package model

import (
	"errors"
	"testing"
)

// TestMappingPut tests write-once assignment of remote references.
func TestMappingPut(t *testing.T) {
	t.Parallel()

	t.Run("records and resolves a reference", func(t *testing.T) {
		t.Parallel()

		m := NewMapping()
		ref := PageRef{Handle: "abc-123", URL: "https://www.notion.so/abc123"}

		if err := m.Put("wiki/index.md", ref); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, ok := m.Resolve("wiki/index.md")
		if !ok {
			t.Fatal("expected filename to resolve")
		}
		if got != ref {
			t.Errorf("expected %+v, got %+v", ref, got)
		}
	})

	t.Run("rejects duplicate filenames", func(t *testing.T) {
		t.Parallel()

		m := NewMapping()
		if err := m.Put("a.md", PageRef{Handle: "1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		err := m.Put("a.md", PageRef{Handle: "2"})
		if !errors.Is(err, ErrDuplicateMapping) {
			t.Errorf("expected ErrDuplicateMapping, got %v", err)
		}
	})

	t.Run("rejects writes after sealing", func(t *testing.T) {
		t.Parallel()

		m := NewMapping()
		m.Seal()

		err := m.Put("a.md", PageRef{Handle: "1"})
		if !errors.Is(err, ErrMappingSealed) {
			t.Errorf("expected ErrMappingSealed, got %v", err)
		}
	})
}

// TestMappingResolve tests lookups, including Unicode normalization.
func TestMappingResolve(t *testing.T) {
	t.Parallel()

	t.Run("missing filename does not resolve", func(t *testing.T) {
		t.Parallel()

		m := NewMapping()
		if _, ok := m.Resolve("absent.md"); ok {
			t.Error("expected missing filename not to resolve")
		}
	})

	t.Run("decomposed key resolves via composed lookup", func(t *testing.T) {
		t.Parallel()

		m := NewMapping()
		// "café.md" written with a combining acute accent.
		if err := m.Put("café.md", PageRef{Handle: "c1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ref, ok := m.Resolve("café.md")
		if !ok {
			t.Fatal("expected composed form to resolve")
		}
		if ref.Handle != "c1" {
			t.Errorf("expected handle c1, got %q", ref.Handle)
		}
	})

	t.Run("resolution still works after sealing", func(t *testing.T) {
		t.Parallel()

		m := NewMapping()
		if err := m.Put("a.md", PageRef{Handle: "1", URL: "u"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		m.Seal()

		if _, ok := m.Resolve("a.md"); !ok {
			t.Error("expected sealed mapping to keep resolving")
		}
		if !m.Sealed() {
			t.Error("expected mapping to report sealed")
		}
	})
}

// TestMappingLen tests entry counting.
func TestMappingLen(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	if m.Len() != 0 {
		t.Errorf("expected empty mapping, got %d entries", m.Len())
	}

	for _, name := range []string{"index.md", "a/index.md", "a/b.md"} {
		if err := m.Put(name, PageRef{Handle: name}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if m.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", m.Len())
	}
	if got := len(m.Filenames()); got != 3 {
		t.Errorf("expected 3 filenames, got %d", got)
	}
}
