// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes heatmap tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/A11myt/obsidian-task-heatmap/internal/heatmap"
	"github.com/A11myt/obsidian-task-heatmap/internal/heatmapservice"
	"github.com/A11myt/obsidian-task-heatmap/internal/storage"
)

// Server wraps the MCP server with task-heatmap tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *heatmapservice.Service
	store storage.Provider
}

// New creates a new MCP server with all heatmap tools registered.
func New(svc *heatmapservice.Service, store storage.Provider) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"TaskHeatmap",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_heatmap",
		mcp.WithDescription("Get the task heatmap grid: per-day cells with completion counts, "+
			"color buckets, and a range summary."),
		mcp.WithNumber("year", mcp.Description("Target year (currentYear mode only; 0 = this year)")),
		mcp.WithString("mode", mcp.Description("Range mode: currentYear or rollingWindow")),
		mcp.WithString("layout", mcp.Description("Grid layout: weekdayRows or weekColumns")),
		mcp.WithString("folder", mcp.Description("Notes folder override (empty for configured default)")),
	), s.getHeatmap)

	s.mcp.AddTool(mcp.NewTool("get_day",
		mcp.WithDescription("Get the full task detail for one day, including every task line, "+
			"its tags, and the daily-note path for that date."),
		mcp.WithString("dateKey", mcp.Required(), mcp.Description("Date key in YYYY-MM-DD form")),
	), s.getDay)

	s.mcp.AddTool(mcp.NewTool("refresh_heatmap",
		mcp.WithDescription("Force a full vault rescan, bypassing the cache, and return the new summary."),
	), s.refreshHeatmap)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown daily note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. Notes/05-Mar-2024.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List daily notes in the vault or a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listNotes)

	// Resource: daily-note format contract.
	s.mcp.AddResource(
		mcp.NewResource("taskheatmap://daily-note-format", "Daily Note Format",
			mcp.WithResourceDescription("Canonical daily-note naming and task format the scanner recognizes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDailyNoteFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) getHeatmap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	q := heatmapservice.QueryOptions{
		Year:   req.GetInt("year", 0),
		Mode:   heatmap.Mode(req.GetString("mode", "")),
		Layout: heatmap.Layout(req.GetString("layout", "")),
		Folder: req.GetString("folder", ""),
	}
	view, err := s.svc.Heatmap(ctx, q)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(view, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateKey, err := req.RequireString("dateKey")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := s.svc.Day(ctx, dateKey)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", dateKey)), nil
	}

	notePath, _ := s.svc.NotePathFor(day.Date)
	out, _ := json.MarshalIndent(map[string]any{
		"day":      day,
		"notePath": notePath,
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) refreshHeatmap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := s.svc.Refresh(ctx, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := req.GetString("folder", "")

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) readDailyNoteFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "taskheatmap://daily-note-format",
			MIMEType: "text/markdown",
			Text:     DailyNoteFormat,
		},
	}, nil
}
