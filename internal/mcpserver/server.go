// Package mcpserver exposes the catalog as Model Context Protocol tools so an
// assistant can browse, rate and annotate media over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/jwulff/cinedex/internal/db"
	"github.com/jwulff/cinedex/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// mediaJSON is the wire shape of a record; keys follow the table columns.
type mediaJSON struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Filename string  `json:"filename"`
	RatingA  float64 `json:"rating_a"`
	RatingB  float64 `json:"rating_b"`
	WatchedA bool    `json:"watched_a"`
	WatchedB bool    `json:"watched_b"`
	Link     string  `json:"link"`
}

func toJSON(m db.Media) mediaJSON {
	return mediaJSON{
		ID:       m.ID,
		Title:    m.Title,
		Filename: m.Filename,
		RatingA:  m.RatingA,
		RatingB:  m.RatingB,
		WatchedA: m.WatchedA,
		WatchedB: m.WatchedB,
		Link:     m.Link,
	}
}

type handlers struct {
	lib    *library.Library
	logger *slog.Logger
}

// New builds an MCP server with the catalog tools registered.
func New(lib *library.Library, version string, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &handlers{lib: lib, logger: logger}
	reviewers := lib.Reviewers()

	s := server.NewMCPServer("cinedex", version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("list_media",
		mcp.WithDescription("List every cataloged movie and show folder."),
		mcp.WithString("sort_field",
			mcp.Description("Column to sort by; omit for insertion order."),
			mcp.Enum("title", "rating_a", "rating_b")),
		mcp.WithString("order",
			mcp.Description("Sort direction."),
			mcp.Enum("asc", "desc")),
	), h.listMedia)

	s.AddTool(mcp.NewTool("get_media",
		mcp.WithDescription("Fetch one record by id."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Record id.")),
	), h.getMedia)

	s.AddTool(mcp.NewTool("scan_folder",
		mcp.WithDescription("Catalog new entries of the watched folder. Existing records are never changed."),
	), h.scanFolder)

	s.AddTool(mcp.NewTool("add_media",
		mcp.WithDescription("Add a record, creating an empty file in the watched folder when none exists."),
		mcp.WithString("title", mcp.Required()),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Entry name inside the watched folder.")),
		mcp.WithString("link"),
	), h.addMedia)

	s.AddTool(mcp.NewTool("update_media",
		mcp.WithDescription("Change some fields of a record. Omitted fields are left as they are."),
		mcp.WithNumber("id", mcp.Required()),
		mcp.WithString("title"),
		mcp.WithNumber("rating_a", mcp.Description(reviewers[0]+"'s rating.")),
		mcp.WithNumber("rating_b", mcp.Description(reviewers[1]+"'s rating.")),
		mcp.WithBoolean("watched_a", mcp.Description("Whether "+reviewers[0]+" has watched it.")),
		mcp.WithBoolean("watched_b", mcp.Description("Whether "+reviewers[1]+" has watched it.")),
		mcp.WithString("link"),
	), h.updateMedia)

	s.AddTool(mcp.NewTool("delete_media",
		mcp.WithDescription("Remove a record from the catalog. The file or folder on disk is kept."),
		mcp.WithNumber("id", mcp.Required()),
	), h.deleteMedia)

	return s
}

// ServeStdio runs the server on stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func requireID(req mcp.CallToolRequest) (int64, error) {
	v, err := req.RequireFloat("id")
	if err != nil {
		return 0, err
	}
	// float64(math.MaxInt64) rounds up to 2^63, which does not fit in an int64.
	if v != math.Trunc(v) || v < 1 || v >= math.MaxInt64 {
		return 0, fmt.Errorf("id must be a positive integer, got %v", v)
	}
	return int64(v), nil
}

func (h *handlers) listMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	field, err := db.ParseSortField(req.GetString("sort_field", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	order, err := db.ParseSortOrder(req.GetString("order", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	media, err := h.lib.List(db.Sort{Field: field, Order: order})
	if err != nil {
		return nil, err
	}
	out := make([]mediaJSON, 0, len(media))
	for _, m := range media {
		out = append(out, toJSON(m))
	}
	return jsonResult(out)
}

func (h *handlers) getMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := h.lib.Get(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no media with id %d", id)), nil
	}
	return jsonResult(toJSON(*m))
}

func (h *handlers) scanFolder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := h.lib.Scan()
	if err != nil {
		return nil, err
	}
	added := res.Added
	if added == nil {
		added = []string{}
	}
	return jsonResult(map[string]any{
		"scanned":  res.Scanned,
		"added":    added,
		"existing": res.Existing,
	})
}

func (h *handlers) addMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := h.lib.Add(title, filename, req.GetString("link", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	h.logger.Info("mcp add_media", "id", id, "filename", filename)
	return jsonResult(map[string]int64{"id": id})
}

func (h *handlers) updateMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	e, err := editFromArgs(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.lib.Save(id, e); err != nil {
		if errors.Is(err, library.ErrEmptyTitle) || errors.Is(err, db.ErrInvalidRating) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText("ok"), nil
}

func (h *handlers) deleteMedia(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireID(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := h.lib.Delete(id); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText("ok"), nil
}

// editFromArgs turns the present arguments into a sparse edit.
func editFromArgs(args map[string]any) (db.Edit, error) {
	var e db.Edit
	var err error
	if e.Title, err = optional[string](args, "title"); err != nil {
		return e, err
	}
	if e.RatingA, err = optional[float64](args, "rating_a"); err != nil {
		return e, err
	}
	if e.RatingB, err = optional[float64](args, "rating_b"); err != nil {
		return e, err
	}
	if e.WatchedA, err = optional[bool](args, "watched_a"); err != nil {
		return e, err
	}
	if e.WatchedB, err = optional[bool](args, "watched_b"); err != nil {
		return e, err
	}
	if e.Link, err = optional[string](args, "link"); err != nil {
		return e, err
	}
	return e, nil
}

func optional[T any](args map[string]any, key string) (*T, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	v, ok := raw.(T)
	if !ok {
		return nil, fmt.Errorf("argument %q has type %T", key, raw)
	}
	return &v, nil
}
