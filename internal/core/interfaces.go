package core

import (
	"context"
	"encoding/json"
)

// TorrentClient defines the interface consumed by the CLI and the MCP server.
type TorrentClient interface {
	// List returns every torrent known to the daemon in normalized form
	List(ctx context.Context) ([]Torrent, error)

	// Get returns a single torrent by content-hash or numeric id
	Get(ctx context.Context, id string) (*Torrent, error)

	// Add adds a torrent from a magnet link, a file path or base64 metainfo
	Add(ctx context.Context, source string, opts AddOptions) (*Torrent, error)

	// Pause stops a torrent
	Pause(ctx context.Context, id string) error

	// Resume starts a torrent
	Resume(ctx context.Context, id string) error

	// Remove removes a torrent, optionally deleting its data
	Remove(ctx context.Context, id string, deleteData bool) error

	// AllData returns all torrents plus the label usage table
	AllData(ctx context.Context) (*AllData, error)

	// Name returns the client name (e.g., "transmission")
	Name() string
}

// TorrentState is the lifecycle state of a normalized torrent.
type TorrentState string

// Torrent states.
const (
	StateDownloading TorrentState = "downloading"
	StateSeeding     TorrentState = "seeding"
	StatePaused      TorrentState = "paused"
	StateQueued      TorrentState = "queued"
	StateChecking    TorrentState = "checking"
	StateUnknown     TorrentState = "unknown"
)

// AddOptions are the client-agnostic options for adding a torrent.
type AddOptions struct {
	StartPaused bool   // Add the torrent without starting it
	Label       string // Optional label attached after the add
	DownloadDir string // Target directory on the daemon host; empty uses the default
}

// Torrent is the stable client-facing view of a torrent.
type Torrent struct {
	ID              string       `json:"id"`          // Content-hash, or numeric id when no hash is known
	Name            string       `json:"name"`        // Torrent name
	State           TorrentState `json:"state"`       // Enumerated lifecycle state
	IsCompleted     bool         `json:"isCompleted"` // Nothing left to download
	StateMessage    string       `json:"stateMessage"`
	Progress        float64      `json:"progress"` // 0.0 to 1.0
	Ratio           float64      `json:"ratio"`
	DateAdded       string       `json:"dateAdded"`     // ISO-8601
	DateCompleted   string       `json:"dateCompleted"` // ISO-8601, epoch start when not done
	Label           string       `json:"label,omitempty"`
	SavePath        string       `json:"savePath"`
	UploadSpeed     int64        `json:"uploadSpeed"`   // bytes/sec
	DownloadSpeed   int64        `json:"downloadSpeed"` // bytes/sec
	ETA             int64        `json:"eta"`           // seconds, negative when unknown
	QueuePosition   int          `json:"queuePosition"`
	ConnectedPeers  int          `json:"connectedPeers"`
	ConnectedSeeds  int          `json:"connectedSeeds"`
	TotalPeers      int          `json:"totalPeers"`
	TotalSeeds      int          `json:"totalSeeds"`
	TotalSelected   int64        `json:"totalSelected"`
	TotalSize       int64        `json:"totalSize"`
	TotalUploaded   int64        `json:"totalUploaded"`
	TotalDownloaded int64        `json:"totalDownloaded"`
}

// Label is a derived label usage entry.
type Label struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AllData is the aggregate listing of a torrent client.
type AllData struct {
	Torrents []Torrent       `json:"torrents"`
	Labels   []Label         `json:"labels"`
	Raw      json.RawMessage `json:"-"` // Undecoded daemon reply
}
