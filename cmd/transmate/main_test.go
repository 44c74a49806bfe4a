package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{
		"version":    false,
		"config":     false,
		"session":    false,
		"list":       false,
		"get":        false,
		"labels":     false,
		"add":        false,
		"pause":      false,
		"resume":     false,
		"verify":     false,
		"reannounce": false,
		"remove":     false,
		"move":       false,
		"queue":      false,
		"free-space": false,
		"watch":      false,
		"mcp-serve":  false,
	}

	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}

	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	root := newRootCmd()
	flag := root.PersistentFlags().Lookup("config")
	if flag == nil {
		t.Fatal("--config flag not registered")
	}
	if flag.DefValue != "configs/transmate.yaml" {
		t.Errorf("--config default = %q, want %q", flag.DefValue, "configs/transmate.yaml")
	}
	if flag.Shorthand != "c" {
		t.Errorf("--config shorthand = %q, want %q", flag.Shorthand, "c")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Transmate v"+version) {
		t.Errorf("unexpected output %q", out)
	}
}

func TestArgsValidation(t *testing.T) {
	root := newRootCmd()
	tests := []struct {
		path []string
		args []string
		ok   bool
	}{
		{[]string{"get"}, nil, false},
		{[]string{"get"}, []string{"abc"}, true},
		{[]string{"pause"}, nil, false},
		{[]string{"pause"}, []string{"1", "2"}, true},
		{[]string{"move"}, []string{"1"}, false},
		{[]string{"move"}, []string{"1", "/data"}, true},
		{[]string{"free-space"}, nil, true},
		{[]string{"free-space"}, []string{"a", "b"}, false},
		{[]string{"queue", "top"}, nil, false},
	}
	for _, tt := range tests {
		cmd, _, err := root.Find(tt.path)
		if err != nil {
			t.Fatalf("find %v: %v", tt.path, err)
		}
		err = cmd.Args(cmd, tt.args)
		if (err == nil) != tt.ok {
			t.Errorf("%v %v: err = %v, want ok=%v", tt.path, tt.args, err, tt.ok)
		}
	}
}

func TestConfigCommand_HasValidateSubcommand(t *testing.T) {
	cmd := newConfigCmd()
	found := false
	for _, sub := range cmd.Commands() {
		if sub.Name() == "validate" {
			found = true
			break
		}
	}
	if !found {
		t.Error("config command missing 'validate' subcommand")
	}
}

func TestQueueCommand_Subcommands(t *testing.T) {
	cmd := newQueueCmd()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"top", "bottom", "up", "down"} {
		if !names[want] {
			t.Errorf("queue missing %q", want)
		}
	}
}

// stubDaemon answers RPC calls with canned arguments per method.
type stubDaemon struct {
	replies map[string]any

	mu      sync.Mutex
	methods []string
	args    map[string]json.RawMessage
}

func (d *stubDaemon) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("X-Transmission-Session-Id") != "sid" {
		w.Header().Set("X-Transmission-Session-Id", "sid")
		w.WriteHeader(http.StatusConflict)
		return
	}
	var req struct {
		Method    string          `json:"method"`
		Arguments json.RawMessage `json:"arguments"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	d.mu.Lock()
	d.methods = append(d.methods, req.Method)
	if d.args == nil {
		d.args = make(map[string]json.RawMessage)
	}
	d.args[req.Method] = req.Arguments
	d.mu.Unlock()

	args, ok := d.replies[req.Method]
	if !ok {
		args = map[string]any{}
	}
	json.NewEncoder(w).Encode(map[string]any{"result": "success", "arguments": args})
}

func (d *stubDaemon) called(method string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.methods {
		if m == method {
			return true
		}
	}
	return false
}

func (d *stubDaemon) total() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.methods)
}

func (d *stubDaemon) argsOf(method string) map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out map[string]any
	_ = json.Unmarshal(d.args[method], &out)
	return out
}

// withDaemon starts d and writes a config file pointing at it.
func withDaemon(t *testing.T, d *stubDaemon) string {
	t.Helper()
	server := httptest.NewServer(d)
	t.Cleanup(server.Close)

	path := filepath.Join(t.TempDir(), "transmate.yaml")
	content := "transmission:\n  url: " + server.URL + "\napp:\n  log_level: error\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
