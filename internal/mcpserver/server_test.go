package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/A11myt/obsidian-task-heatmap/internal/aggregate"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmapservice"
	"github.com/A11myt/obsidian-task-heatmap/internal/testutil"
)

func testServer(t *testing.T) (*Server, string) {
	t.Helper()

	vaultDir, store := testutil.TestVault(t)
	db := testutil.TestDB(t)

	svc := heatmapservice.New(store, aggregate.NopCache{}, db, slog.Default(), heatmapservice.Settings{
		NotesFolder:     "Notes",
		ColorScheme:     "green",
		EmptyColor:      "#ebedf0",
		DateLocale:      "en_US",
		YearMode:        heatmap.ModeCurrentYear,
		DailyNoteFormat: "Notes/DD-MMM-YYYY",
	})

	srv := New(svc, store)
	return srv, vaultDir
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we call
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "get_heatmap":
		result, err = srv.getHeatmap(ctx, req)
	case "get_day":
		result, err = srv.getDay(ctx, req)
	case "refresh_heatmap":
		result, err = srv.refreshHeatmap(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

// noteDate is a date guaranteed to lie inside the current-year range.
func noteDate() time.Time {
	return time.Date(time.Now().UTC().Year(), time.January, 15, 0, 0, 0, 0, time.UTC)
}

func TestGetHeatmap(t *testing.T) {
	srv, vaultDir := testServer(t)
	date := noteDate()
	testutil.WriteNote(t, vaultDir, fmt.Sprintf("Notes/%s.md", date.Format("02-Jan-2006")),
		"- [x] done task\n- [ ] open task\n")

	r := callTool(t, srv, "get_heatmap", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, `"totalTasks": 2`) {
		t.Errorf("heatmap missing total: %s", text)
	}
	if !strings.Contains(text, `"completedTasks": 1`) {
		t.Errorf("heatmap missing completed: %s", text)
	}
}

func TestGetDay(t *testing.T) {
	srv, vaultDir := testServer(t)
	date := noteDate()
	testutil.WriteNote(t, vaultDir, fmt.Sprintf("Notes/%s.md", date.Format("02-Jan-2006")),
		"- [x] ship it #work\n")

	r := callTool(t, srv, "get_day", map[string]interface{}{
		"dateKey": date.Format("2006-01-02"),
	})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "ship it") {
		t.Errorf("day detail missing task text: %s", text)
	}
	if !strings.Contains(text, `"notePath"`) {
		t.Errorf("day detail missing notePath: %s", text)
	}
}

func TestGetDayOutOfRange(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_day", map[string]interface{}{"dateKey": "1999-01-01"})
	if !r.IsError {
		t.Error("expected error for out-of-range date")
	}
}

func TestRefreshHeatmap(t *testing.T) {
	srv, vaultDir := testServer(t)
	date := noteDate()
	testutil.WriteNote(t, vaultDir, fmt.Sprintf("Notes/%s.md", date.Format("02-Jan-2006")),
		"- [x] a\n- [x] b\n")

	r := callTool(t, srv, "refresh_heatmap", map[string]interface{}{})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"completedTasks": 2`) {
		t.Errorf("summary missing counts: %s", resultText(r))
	}
}

func TestReadNote(t *testing.T) {
	srv, vaultDir := testServer(t)
	testutil.WriteNote(t, vaultDir, "Notes/15-Jan-2024.md", "- [ ] water plants\n")

	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "Notes/15-Jan-2024.md"})
	if resultText(r) != "- [ ] water plants\n" {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv, vaultDir := testServer(t)
	testutil.WriteNote(t, vaultDir, "Notes/15-Jan-2024.md", "a")
	testutil.WriteNote(t, vaultDir, "Notes/16-Jan-2024.md", "b")

	r := callTool(t, srv, "list_notes", map[string]interface{}{"folder": "Notes"})
	text := resultText(r)
	if !strings.Contains(text, "Notes/15-Jan-2024.md") || !strings.Contains(text, "Notes/16-Jan-2024.md") {
		t.Errorf("list missing notes: %q", text)
	}
}
