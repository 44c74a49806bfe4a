package transmission

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vadimtrunov/transmate/internal/core"
)

const defaultFreeSpacePath = "/downloads/complete"

type idsArgs struct {
	IDs any `json:"ids,omitempty"`
}

// selection refuses both the zero value and an empty list, which the daemon
// would read as every torrent.
func selection(ids IDs) (idsArgs, error) {
	if ids.IsZero() || ids.isEmptyList() {
		return idsArgs{}, errNoIDs
	}
	return idsArgs{IDs: ids.Normalize()}, nil
}

// GetSession returns the daemon's session settings. It also primes the
// session id cache.
func (c *Client) GetSession(ctx context.Context) (*SessionArguments, error) {
	var s SessionArguments
	if err := c.call(ctx, methodSessionGet, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetSession changes session settings. Keys use the daemon's spelling,
// e.g. "speed-limit-down".
func (c *Client) SetSession(ctx context.Context, settings map[string]any) error {
	return c.call(ctx, "session-set", settings, nil)
}

// QueueTop moves torrents to the front of the queue.
func (c *Client) QueueTop(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "queue-move-top", ids)
}

// QueueBottom moves torrents to the back of the queue.
func (c *Client) QueueBottom(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "queue-move-bottom", ids)
}

// QueueUp moves torrents one place forward.
func (c *Client) QueueUp(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "queue-move-up", ids)
}

// QueueDown moves torrents one place back.
func (c *Client) QueueDown(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "queue-move-down", ids)
}

// FreeSpace reports the free bytes at path on the daemon's host.
// An empty path checks the default completed-downloads directory.
func (c *Client) FreeSpace(ctx context.Context, path string) (*FreeSpace, error) {
	if path == "" {
		path = defaultFreeSpacePath
	}
	var fs FreeSpace
	if err := c.call(ctx, "free-space", map[string]string{"path": path}, &fs); err != nil {
		return nil, err
	}
	return &fs, nil
}

// PauseTorrent stops torrents.
func (c *Client) PauseTorrent(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "torrent-stop", ids)
}

// ResumeTorrent starts torrents.
func (c *Client) ResumeTorrent(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "torrent-start", ids)
}

// VerifyTorrent re-checks local data of torrents.
func (c *Client) VerifyTorrent(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "torrent-verify", ids)
}

// ReannounceTorrent asks trackers for more peers.
func (c *Client) ReannounceTorrent(ctx context.Context, ids IDs) error {
	return c.idsCall(ctx, "torrent-reannounce", ids)
}

// MoveTorrent moves torrent data to location.
func (c *Client) MoveTorrent(ctx context.Context, ids IDs, location string) error {
	sel, err := selection(ids)
	if err != nil {
		return err
	}
	return c.call(ctx, "torrent-set-location", struct {
		idsArgs
		Location string `json:"location"`
		Move     bool   `json:"move"`
	}{sel, location, true}, nil)
}

// SetTorrent changes per-torrent settings.
func (c *Client) SetTorrent(ctx context.Context, ids IDs, opts SetTorrentOptions) error {
	sel, err := selection(ids)
	if err != nil {
		return err
	}
	return c.call(ctx, "torrent-set", struct {
		idsArgs
		SetTorrentOptions
	}{sel, opts}, nil)
}

// RenamePath renames a file or directory inside a torrent.
func (c *Client) RenamePath(ctx context.Context, ids IDs, path, name string) error {
	sel, err := selection(ids)
	if err != nil {
		return err
	}
	return c.call(ctx, "torrent-rename-path", struct {
		idsArgs
		Path string `json:"path"`
		Name string `json:"name"`
	}{sel, path, name}, nil)
}

// RemoveTorrent removes torrents, deleting their data when removeData is set.
func (c *Client) RemoveTorrent(ctx context.Context, ids IDs, removeData bool) error {
	sel, err := selection(ids)
	if err != nil {
		return err
	}
	return c.call(ctx, "torrent-remove", struct {
		idsArgs
		DeleteLocalData bool `json:"delete-local-data"`
	}{sel, removeData}, nil)
}

// ListTorrents fetches the default field set plus any extra fields. The zero
// IDs value lists every torrent.
func (c *Client) ListTorrents(ctx context.Context, ids IDs, extraFields ...string) (*TorrentGetResponse, error) {
	fields := torrentFields
	if len(extraFields) > 0 {
		fields = append(append([]string{}, torrentFields...), extraFields...)
	}

	reply, err := c.Request(ctx, "torrent-get", struct {
		idsArgs
		Fields []string `json:"fields"`
	}{idsArgs{IDs: ids.Normalize()}, fields})
	if err != nil {
		return nil, err
	}

	res := TorrentGetResponse{Raw: reply.Arguments}
	if len(reply.Arguments) > 0 {
		if err := json.Unmarshal(reply.Arguments, &res); err != nil {
			return nil, fmt.Errorf("decode torrent-get arguments: %w", err)
		}
	}
	return &res, nil
}

// GetTorrent returns the normalized record of the first torrent matching ids.
func (c *Client) GetTorrent(ctx context.Context, ids IDs) (*core.Torrent, error) {
	res, err := c.ListTorrents(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(res.Torrents) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTorrentNotFound, ids)
	}
	t := Normalize(res.Torrents[0])
	return &t, nil
}

// GetAllData returns every torrent normalized, the label usage table and
// the raw torrent-get arguments.
func (c *Client) GetAllData(ctx context.Context) (*core.AllData, error) {
	res, err := c.ListTorrents(ctx, IDs{})
	if err != nil {
		return nil, err
	}
	torrents := make([]core.Torrent, 0, len(res.Torrents))
	for _, t := range res.Torrents {
		torrents = append(torrents, Normalize(t))
	}
	return &core.AllData{
		Torrents: torrents,
		Labels:   foldLabels(torrents),
		Raw:      res.Raw,
	}, nil
}

func (c *Client) idsCall(ctx context.Context, method string, ids IDs) error {
	sel, err := selection(ids)
	if err != nil {
		return err
	}
	return c.call(ctx, method, sel, nil)
}

// core.TorrentClient

// List returns all torrents normalized.
func (c *Client) List(ctx context.Context) ([]core.Torrent, error) {
	data, err := c.GetAllData(ctx)
	if err != nil {
		return nil, fmt.Errorf("list torrents: %w", err)
	}
	return data.Torrents, nil
}

// Get returns one torrent by numeric id or hash.
func (c *Client) Get(ctx context.Context, id string) (*core.Torrent, error) {
	return c.GetTorrent(ctx, ParseID(id))
}

// Add adds a torrent from a magnet link, a .torrent path or base64 text.
func (c *Client) Add(ctx context.Context, source string, opts core.AddOptions) (*core.Torrent, error) {
	return c.NormalizedAddTorrent(ctx, SourceFromString(source), opts)
}

// Pause stops one torrent.
func (c *Client) Pause(ctx context.Context, id string) error {
	return c.PauseTorrent(ctx, ParseID(id))
}

// Resume starts one torrent.
func (c *Client) Resume(ctx context.Context, id string) error {
	return c.ResumeTorrent(ctx, ParseID(id))
}

// Remove removes one torrent.
func (c *Client) Remove(ctx context.Context, id string, deleteData bool) error {
	return c.RemoveTorrent(ctx, ParseID(id), deleteData)
}

// AllData returns the full snapshot.
func (c *Client) AllData(ctx context.Context) (*core.AllData, error) {
	return c.GetAllData(ctx)
}
