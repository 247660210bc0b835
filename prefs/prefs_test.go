package prefs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/feedview/article"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemory(t *testing.T) {
	m := NewMemory(0)
	if m.FontSize() != article.DefaultFontSize {
		t.Errorf("default: got %d", m.FontSize())
	}
	if err := m.SetFontSize(18); err != nil || m.FontSize() != 18 {
		t.Errorf("set: %v, size %d", err, m.FontSize())
	}
	if err := m.SetFontSize(42); !errors.Is(err, ErrInvalidFontSize) {
		t.Errorf("invalid: got %v", err)
	}
	if m.FontSize() != 18 {
		t.Error("invalid size overwrote the preference")
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	// WHAT: A saved font size is read back by the next process.
	// WHY: The preference outlives the reader.
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	s, err := OpenSQLite(ctx, path, 14, quietLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.FontSize() != 14 {
		t.Errorf("default: got %d", s.FontSize())
	}
	if err := s.SetFontSize(19); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Close()

	s2, err := OpenSQLite(ctx, path, 14, quietLogger())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if s2.FontSize() != 19 {
		t.Errorf("reopened: got %d, want 19", s2.FontSize())
	}
}

func TestSQLite_RejectsInvalidSize(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:", 0, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.FontSize() != article.DefaultFontSize {
		t.Errorf("default: got %d", s.FontSize())
	}
	if err := s.SetFontSize(11); !errors.Is(err, ErrInvalidFontSize) {
		t.Errorf("got %v", err)
	}
}

// WHAT: A stored value that is out of the set or not a number falls back to the default.
// WHY: A damaged preference must not keep the reader from opening.
func TestSQLite_IgnoresCorruptValue(t *testing.T) {
	ctx := context.Background()
	for _, value := range []string{"99", "large", ""} {
		path := filepath.Join(t.TempDir(), "prefs.db")
		s, err := OpenSQLite(ctx, path, 16, quietLogger())
		if err != nil {
			t.Fatal(err)
		}
		if _, err := s.db.Exec(`INSERT INTO preferences (key, value, updated_at) VALUES ('font_size', ?, 0)`, value); err != nil {
			t.Fatal(err)
		}
		s.Close()

		s2, err := OpenSQLite(ctx, path, 16, quietLogger())
		if err != nil {
			t.Fatalf("value %q: reopen: %v", value, err)
		}
		if s2.FontSize() != 16 {
			t.Errorf("value %q: should fall back to default, got %d", value, s2.FontSize())
		}
		s2.Close()
	}
}
