package aggregate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/A11myt/obsidian-task-heatmap/internal/models"
	"github.com/A11myt/obsidian-task-heatmap/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func vaultWith(t *testing.T, files map[string]string) storage.Provider {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func TestDecodeBasename(t *testing.T) {
	date, ok := DecodeBasename("05-Mar-2024")
	if !ok {
		t.Fatal("expected match")
	}
	if models.DateKeyFor(date) != "2024-03-05" {
		t.Errorf("dateKey = %q, want 2024-03-05", models.DateKeyFor(date))
	}
	if date.Month() != time.March {
		t.Errorf("month = %v, want March", date.Month())
	}
}

func TestDecodeBasename_Rejects(t *testing.T) {
	for _, name := range []string{
		"2024-03-05",    // wrong shape
		"5-Mar-2024",    // single-digit day
		"05-MAR-2024",   // case-sensitive month table
		"05-Mrz-2024",   // locale-specific abbreviation
		"notes",         // not a date at all
		"05-Mar-2024-x", // trailing junk
	} {
		if _, ok := DecodeBasename(name); ok {
			t.Errorf("%q: expected no match", name)
		}
	}
}

func TestDecodeBasename_Reencode(t *testing.T) {
	date, ok := DecodeBasename("29-Feb-2024")
	if !ok {
		t.Fatal("expected leap day to match")
	}
	if got := date.Format("02-Jan-2006"); got != "29-Feb-2024" {
		t.Errorf("re-encoded = %q", got)
	}
}

func TestCollect_BuildsDayRecords(t *testing.T) {
	store := vaultWith(t, map[string]string{
		"Notes/05-Mar-2024.md": "- [x] Buy milk #shopping\n- [ ] Call bank\n",
		"Notes/06-Mar-2024.md": "no tasks, just prose #urlaub\n",
		"Notes/README.md":      "- [x] not a daily note\n",
		"Other/07-Mar-2024.md": "- [x] outside notes folder\n",
	})

	days, err := New(store, discardLogger()).Collect(context.Background(), "Notes")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("len(days) = %d, want 2", len(days))
	}

	day := days["2024-03-05"]
	if day == nil {
		t.Fatal("missing 2024-03-05")
	}
	if day.TotalTasks != 2 || day.CompletedTasks != 1 || !day.HasNote {
		t.Errorf("day = %+v", day)
	}
	if day.DayOfWeek != 1 { // 2024-03-05 is a Tuesday
		t.Errorf("dayOfWeek = %d, want 1", day.DayOfWeek)
	}

	proseDay := days["2024-03-06"]
	if proseDay == nil {
		t.Fatal("missing 2024-03-06")
	}
	if proseDay.TotalTasks != 0 {
		t.Errorf("totalTasks = %d, want 0", proseDay.TotalTasks)
	}
	if len(proseDay.AllTags) != 1 || proseDay.AllTags[0] != "urlaub" {
		t.Errorf("allTags = %v, want [urlaub]", proseDay.AllTags)
	}
}

func TestCollect_EmptyFolderIncludesAll(t *testing.T) {
	store := vaultWith(t, map[string]string{
		"a/05-Mar-2024.md": "- [x] a\n",
		"b/06-Mar-2024.md": "- [x] b\n",
	})
	days, err := New(store, discardLogger()).Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(days) != 2 {
		t.Errorf("len(days) = %d, want 2", len(days))
	}
}

func TestCollect_DuplicateDateLastPathWins(t *testing.T) {
	store := vaultWith(t, map[string]string{
		"Notes/a/05-Mar-2024.md": "- [x] one\n",
		"Notes/b/05-Mar-2024.md": "- [x] one\n- [x] two\n",
	})
	days, err := New(store, discardLogger()).Collect(context.Background(), "Notes")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	day := days["2024-03-05"]
	if day == nil {
		t.Fatal("missing day")
	}
	// "Notes/b/..." sorts after "Notes/a/..." and must win.
	if day.TotalTasks != 2 {
		t.Errorf("totalTasks = %d, want 2 (later path wins)", day.TotalTasks)
	}
}

type flakyStore struct {
	storage.Provider
	failPath string
}

func (f *flakyStore) Read(path string) ([]byte, error) {
	if path == f.failPath {
		return nil, errors.New("disk error")
	}
	return f.Provider.Read(path)
}

func TestCollect_ReadFailureSkipsDocument(t *testing.T) {
	inner := vaultWith(t, map[string]string{
		"05-Mar-2024.md": "- [x] fine\n",
		"06-Mar-2024.md": "- [x] unreadable\n",
	})
	store := &flakyStore{Provider: inner, failPath: "06-Mar-2024.md"}

	days, err := New(store, discardLogger()).Collect(context.Background(), "")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("len(days) = %d, want 1", len(days))
	}
	if days["2024-03-05"] == nil {
		t.Error("surviving day missing")
	}
}

func TestTimedCache(t *testing.T) {
	c := NewTimedCache(time.Second)
	base := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	if _, ok := c.Get(); ok {
		t.Error("empty cache should miss")
	}

	days := map[string]*models.DayRecord{"2024-03-05": models.EmptyDay(base)}
	c.Set(days)

	now = base.Add(500 * time.Millisecond)
	if got, ok := c.Get(); !ok || len(got) != 1 {
		t.Error("fresh cache should hit")
	}

	now = base.Add(2 * time.Second)
	if _, ok := c.Get(); ok {
		t.Error("expired cache should miss")
	}

	c.Set(days)
	c.Invalidate()
	if _, ok := c.Get(); ok {
		t.Error("invalidated cache should miss")
	}
}

func TestTimedCache_StampsAtSetTime(t *testing.T) {
	c := NewTimedCache(time.Second)
	base := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	// Entry freshness is measured from when Set ran, on the cache's own
	// clock. Callers holding a different (e.g. mocked) clock cannot
	// produce an entry that is born expired.
	now = base.Add(48 * time.Hour)
	c.Set(map[string]*models.DayRecord{"2024-03-05": models.EmptyDay(base)})
	if _, ok := c.Get(); !ok {
		t.Error("entry set just now should be fresh")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(); ok {
		t.Error("entry should expire one TTL after Set")
	}
}
