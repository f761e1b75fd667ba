package ids

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNext_Monotonic(t *testing.T) {
	a := NewAllocator(filepath.Join(t.TempDir(), "ids.json"), testLogger())

	start := a.Peek()
	for i := 0; i < 100; i++ {
		got := a.Next()
		if got != start+i {
			t.Fatalf("Next() = %d, want %d", got, start+i)
		}
	}
}

func TestNewAllocator_StartsAtOne(t *testing.T) {
	a := NewAllocator(filepath.Join(t.TempDir(), "missing.json"), testLogger())
	if got := a.Next(); got != 1 {
		t.Errorf("Next() = %d, want 1 for fresh allocator", got)
	}
}

func TestSetStart(t *testing.T) {
	tests := []struct {
		name  string
		start int
		want  int
	}{
		{name: "zero is ignored", start: 0, want: 1},
		{name: "negative is ignored", start: -5, want: 1},
		{name: "positive overrides", start: 1000, want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAllocator(filepath.Join(t.TempDir(), "ids.json"), testLogger())
			a.SetStart(tt.start)
			if got := a.Next(); got != tt.want {
				t.Errorf("Next() after SetStart(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestPersist_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")

	a := NewAllocator(path, testLogger())
	a.SetStart(42)
	for i := 0; i < 3; i++ {
		a.Next()
	}
	a.Persist()

	b := NewAllocator(path, testLogger())
	if got := b.Next(); got != 45 {
		t.Errorf("Next() after reload = %d, want 45", got)
	}
}

func TestNewAllocator_CorruptState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	a := NewAllocator(path, testLogger())
	if got := a.Next(); got != 1 {
		t.Errorf("Next() = %d, want 1 after corrupt state", got)
	}
}

func TestNewAllocator_NonPositiveState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.json")
	if err := os.WriteFile(path, []byte(`{"next_id": -3}`), 0644); err != nil {
		t.Fatal(err)
	}

	a := NewAllocator(path, testLogger())
	if got := a.Next(); got != 1 {
		t.Errorf("Next() = %d, want 1 for non-positive stored value", got)
	}
}

func TestPersist_FailureIsSwallowed(t *testing.T) {
	// Directory as target makes the write fail.
	dir := t.TempDir()
	a := NewAllocator(dir, testLogger())
	a.Next()
	a.Persist() // must not panic or return an error
}
