package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/transmate/internal/core"
)

// mockTorrent implements core.TorrentClient for testing.
type mockTorrent struct {
	torrents []core.Torrent
	labels   []core.Label
	listErr  error
	addErr   error

	mu          sync.Mutex
	addedSource string
	addedOpts   core.AddOptions
	paused      []string
	resumed     []string
	removed     map[string]bool
}

func (m *mockTorrent) List(_ context.Context) ([]core.Torrent, error) {
	return m.torrents, m.listErr
}

func (m *mockTorrent) Get(_ context.Context, id string) (*core.Torrent, error) {
	for i := range m.torrents {
		if m.torrents[i].ID == id {
			return &m.torrents[i], nil
		}
	}
	return nil, errors.New("torrent not found")
}

func (m *mockTorrent) Add(_ context.Context, source string, opts core.AddOptions) (*core.Torrent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return nil, m.addErr
	}
	m.addedSource = source
	m.addedOpts = opts
	return &core.Torrent{ID: "newhash", Name: "New", Label: opts.Label}, nil
}

func (m *mockTorrent) Pause(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paused = append(m.paused, id)
	return nil
}

func (m *mockTorrent) Resume(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumed = append(m.resumed, id)
	return nil
}

func (m *mockTorrent) Remove(_ context.Context, id string, deleteData bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.removed == nil {
		m.removed = make(map[string]bool)
	}
	m.removed[id] = deleteData
	return nil
}

func (m *mockTorrent) AllData(_ context.Context) (*core.AllData, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return &core.AllData{Torrents: m.torrents, Labels: m.labels}, nil
}

func (m *mockTorrent) Name() string { return "transmission" }

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	_, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

func TestListTorrents(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{
		Torrent: &mockTorrent{torrents: []core.Torrent{
			{ID: "abc123", Name: "Debian", Progress: 0.5, State: core.StateDownloading},
		}},
	}, "test", discardLogger)

	result := callTool(t, srv, "list_torrents", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got []core.Torrent
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(got) != 1 || got[0].ID != "abc123" || got[0].State != core.StateDownloading {
		t.Errorf("unexpected result: %+v", got)
	}
}

func TestGetTorrent(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{
		Torrent: &mockTorrent{torrents: []core.Torrent{{ID: "abc", Name: "Arch"}}},
	}, "test", discardLogger)

	result := callTool(t, srv, "get_torrent", map[string]any{"id": "abc"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
	var got core.Torrent
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "Arch" {
		t.Errorf("expected Arch, got %s", got.Name)
	}

	missing := callTool(t, srv, "get_torrent", map[string]any{"id": "nope"})
	if !missing.IsError {
		t.Error("expected error for unknown torrent")
	}
}

func TestAddTorrent(t *testing.T) {
	t.Parallel()
	mock := &mockTorrent{}
	srv := NewServer(Deps{Torrent: mock}, "test", discardLogger)

	result := callTool(t, srv, "add_torrent", map[string]any{
		"source":       "magnet:?xt=urn:btih:abc",
		"label":        "linux",
		"paused":       true,
		"download_dir": "/data/iso",
	})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if mock.addedSource != "magnet:?xt=urn:btih:abc" {
		t.Errorf("unexpected source %q", mock.addedSource)
	}
	if !mock.addedOpts.StartPaused || mock.addedOpts.Label != "linux" || mock.addedOpts.DownloadDir != "/data/iso" {
		t.Errorf("unexpected options %+v", mock.addedOpts)
	}
}

func TestAddTorrent_Failure(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{Torrent: &mockTorrent{addErr: errors.New("daemon down")}}, "test", discardLogger)

	result := callTool(t, srv, "add_torrent", map[string]any{"source": "QUJD"})
	if !result.IsError {
		t.Fatal("expected error result")
	}
}

func TestPauseResume(t *testing.T) {
	t.Parallel()
	mock := &mockTorrent{}
	srv := NewServer(Deps{Torrent: mock}, "test", discardLogger)

	if r := callTool(t, srv, "pause_torrent", map[string]any{"id": "h1"}); r.IsError {
		t.Fatalf("pause failed: %s", resultText(t, r))
	}
	if r := callTool(t, srv, "resume_torrent", map[string]any{"id": "7"}); r.IsError {
		t.Fatalf("resume failed: %s", resultText(t, r))
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if len(mock.paused) != 1 || mock.paused[0] != "h1" {
		t.Errorf("unexpected paused ids %v", mock.paused)
	}
	if len(mock.resumed) != 1 || mock.resumed[0] != "7" {
		t.Errorf("unexpected resumed ids %v", mock.resumed)
	}
}

func TestRemoveTorrent(t *testing.T) {
	t.Parallel()
	mock := &mockTorrent{}
	srv := NewServer(Deps{Torrent: mock}, "test", discardLogger)

	result := callTool(t, srv, "remove_torrent", map[string]any{"id": "h1", "delete_data": true})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	mock.mu.Lock()
	defer mock.mu.Unlock()
	if del, ok := mock.removed["h1"]; !ok || !del {
		t.Errorf("expected h1 removed with data, got %v", mock.removed)
	}
}

func TestListLabels(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{Torrent: &mockTorrent{labels: []core.Label{
		{ID: "a", Name: "a", Count: 2},
		{ID: "b", Name: "b", Count: 1},
	}}}, "test", discardLogger)

	result := callTool(t, srv, "list_labels", map[string]any{})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}
	var got []core.Label
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[0].Count != 2 {
		t.Errorf("unexpected labels %+v", got)
	}
}

func TestToolError_NilDependency(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{}, "test", discardLogger)

	tests := []struct {
		tool string
		args map[string]any
	}{
		{"list_torrents", map[string]any{}},
		{"get_torrent", map[string]any{"id": "x"}},
		{"add_torrent", map[string]any{"source": "x"}},
		{"pause_torrent", map[string]any{"id": "x"}},
		{"resume_torrent", map[string]any{"id": "x"}},
		{"remove_torrent", map[string]any{"id": "x"}},
		{"list_labels", map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, srv, tt.tool, tt.args)
			if !result.IsError {
				t.Errorf("expected error for %s with nil dependency", tt.tool)
			}
		})
	}
}

func TestToolError_MissingArgs(t *testing.T) {
	t.Parallel()
	srv := NewServer(Deps{Torrent: &mockTorrent{}}, "test", discardLogger)

	for _, tool := range []string{"get_torrent", "add_torrent", "pause_torrent", "remove_torrent"} {
		result := callTool(t, srv, tool, map[string]any{})
		if !result.IsError {
			t.Errorf("expected error for %s without arguments", tool)
		}
	}
}

func TestExtractIDFromArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{`{"id":"abc"}`, "abc", false},
		{`{"id":42}`, "42", false},
		{`{"id":""}`, "", true},
		{`{"id":true}`, "", true},
		{`{}`, "", true},
		{`not json`, "", true},
	}
	for _, tt := range tests {
		got, err := extractIDFromArgs(json.RawMessage(tt.raw), "id")
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.raw, got, tt.want)
		}
	}
}
