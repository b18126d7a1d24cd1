package cursor

import (
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "cursor.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.Get("oc_channel")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Errorf("Get = %q, want empty for missing channel", got)
	}
}

func TestPutThenGet(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("oc_channel", "1700000000100"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("oc_channel")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "1700000000100" {
		t.Errorf("Get = %q, want 1700000000100", got)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("oc_channel", "1700000000100"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("oc_channel", "1700000000200"); err != nil {
		t.Fatalf("Put second: %v", err)
	}
	got, err := s.Get("oc_channel")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "1700000000200" {
		t.Errorf("Get = %q, want 1700000000200", got)
	}
}

func TestChannelsAreIndependent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Put("oc_a", "100"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := s.Get("oc_b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "" {
		t.Errorf("Get(oc_b) = %q, want empty", got)
	}
}
