package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/transmate/internal/core"
)

// Deps holds the dependencies of the MCP tool handlers.
type Deps struct {
	Torrent core.TorrentClient
}

// Server wraps an MCP SDK server with torrent tool handlers.
type Server struct {
	server *mcpsdk.Server
	deps   Deps
	logger *slog.Logger
}

// NewServer creates an MCP server with all torrent tools registered.
func NewServer(deps Deps, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "transmate",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, deps: deps, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(listTorrentsTool(), s.handleListTorrents)
	s.server.AddTool(getTorrentTool(), s.handleGetTorrent)
	s.server.AddTool(addTorrentTool(), s.handleAddTorrent)
	s.server.AddTool(pauseTorrentTool(), s.handlePauseTorrent)
	s.server.AddTool(resumeTorrentTool(), s.handleResumeTorrent)
	s.server.AddTool(removeTorrentTool(), s.handleRemoveTorrent)
	s.server.AddTool(listLabelsTool(), s.handleListLabels)
}

func listTorrentsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_torrents",
		Description: "List all torrents with state, progress, speeds, ratio and label.",
		InputSchema: emptySchema(),
	}
}

func getTorrentTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "get_torrent",
		Description: "Get one torrent by info-hash or numeric id.",
		InputSchema: idSchema("The torrent info-hash or numeric id"),
	}
}

func addTorrentTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "add_torrent",
		Description: "Add a torrent from a magnet link, a .torrent file path on this machine, or base64 .torrent content. Returns the added torrent.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"source": map[string]any{
					"type":        "string",
					"description": "Magnet link, .torrent path or base64 metainfo",
				},
				"label": map[string]any{
					"type":        "string",
					"description": "Optional label to attach",
				},
				"paused": map[string]any{
					"type":        "boolean",
					"description": "Add without starting the download",
				},
				"download_dir": map[string]any{
					"type":        "string",
					"description": "Download directory on the daemon host (default /downloads)",
				},
			},
			"required": []any{"source"},
		},
	}
}

func pauseTorrentTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "pause_torrent",
		Description: "Stop a torrent.",
		InputSchema: idSchema("The torrent info-hash or numeric id"),
	}
}

func resumeTorrentTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "resume_torrent",
		Description: "Start a stopped torrent.",
		InputSchema: idSchema("The torrent info-hash or numeric id"),
	}
}

func removeTorrentTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "remove_torrent",
		Description: "Remove a torrent. Downloaded data is kept unless delete_data is true.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "The torrent info-hash or numeric id",
				},
				"delete_data": map[string]any{
					"type":        "boolean",
					"description": "Also delete downloaded files",
				},
			},
			"required": []any{"id"},
		},
	}
}

func listLabelsTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "list_labels",
		Description: "List labels in use with the number of torrents carrying each.",
		InputSchema: emptySchema(),
	}
}

func emptySchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func idSchema(desc string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"id": map[string]any{
				"type":        "string",
				"description": desc,
			},
		},
		"required": []any{"id"},
	}
}

// Tool handlers report failures as tool results, not protocol errors.

func (s *Server) handleListTorrents(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Torrent == nil {
		return toolError("no torrent client configured"), nil
	}

	torrents, err := s.deps.Torrent.List(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("list torrents failed: %v", err)), nil
	}
	return toolJSON(torrents)
}

func (s *Server) handleGetTorrent(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Torrent == nil {
		return toolError("no torrent client configured"), nil
	}

	id, err := extractIDFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	t, err := s.deps.Torrent.Get(ctx, id)
	if err != nil {
		return toolError(fmt.Sprintf("get torrent failed: %v", err)), nil
	}
	return toolJSON(t)
}

func (s *Server) handleAddTorrent(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Torrent == nil {
		return toolError("no torrent client configured"), nil
	}

	var args struct {
		Source      string `json:"source"`
		Label       string `json:"label"`
		Paused      bool   `json:"paused"`
		DownloadDir string `json:"download_dir"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if args.Source == "" {
		return toolError("add_torrent requires a 'source' string argument"), nil
	}

	t, err := s.deps.Torrent.Add(ctx, args.Source, core.AddOptions{
		StartPaused: args.Paused,
		Label:       args.Label,
		DownloadDir: args.DownloadDir,
	})
	if err != nil {
		return toolError(fmt.Sprintf("add torrent failed: %v", err)), nil
	}
	s.logger.Info("torrent added via mcp", slog.String("id", t.ID), slog.String("name", t.Name))
	return toolJSON(t)
}

func (s *Server) handlePauseTorrent(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	return s.idAction(ctx, req, "paused", core.TorrentClient.Pause)
}

func (s *Server) handleResumeTorrent(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	return s.idAction(ctx, req, "resumed", core.TorrentClient.Resume)
}

func (s *Server) handleRemoveTorrent(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Torrent == nil {
		return toolError("no torrent client configured"), nil
	}

	var args struct {
		DeleteData bool `json:"delete_data"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	id, err := extractIDFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}

	if err := s.deps.Torrent.Remove(ctx, id, args.DeleteData); err != nil {
		return toolError(fmt.Sprintf("remove torrent failed: %v", err)), nil
	}
	return toolJSON(map[string]any{
		"status":      "removed",
		"id":          id,
		"delete_data": args.DeleteData,
	})
}

func (s *Server) handleListLabels(ctx context.Context, _ *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	if s.deps.Torrent == nil {
		return toolError("no torrent client configured"), nil
	}

	data, err := s.deps.Torrent.AllData(ctx)
	if err != nil {
		return toolError(fmt.Sprintf("list labels failed: %v", err)), nil
	}
	return toolJSON(data.Labels)
}

// idAction runs a single-id torrent action and reports its status.
func (s *Server) idAction(
	ctx context.Context,
	req *mcpsdk.CallToolRequest,
	status string,
	action func(core.TorrentClient, context.Context, string) error,
) (*mcpsdk.CallToolResult, error) {
	if s.deps.Torrent == nil {
		return toolError("no torrent client configured"), nil
	}

	id, err := extractIDFromArgs(req.Params.Arguments, "id")
	if err != nil {
		return toolError(err.Error()), nil
	}
	if err := action(s.deps.Torrent, ctx, id); err != nil {
		return toolError(fmt.Sprintf("%s failed: %v", req.Params.Name, err)), nil
	}
	return toolJSON(map[string]any{"status": status, "id": id})
}

// Helper functions.

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}

// extractIDFromArgs extracts a torrent id from raw JSON arguments. Numbers
// are accepted as well as strings since clients often send numeric ids bare.
func extractIDFromArgs(raw json.RawMessage, key string) (string, error) {
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	val, ok := args[key]
	if !ok {
		return "", fmt.Errorf("%s is required", key)
	}

	switch v := val.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%s must be a non-empty string", key)
		}
		return v, nil
	case float64:
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", fmt.Errorf("%s must be a string or number, got %T", key, val)
	}
}
