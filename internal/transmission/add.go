package transmission

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/vadimtrunov/transmate/internal/core"
)

const defaultDownloadDir = "/downloads"

type sourceKind int

const (
	sourceBase64 sourceKind = iota
	sourcePath
	sourceBytes
	sourceMagnet
)

// Source is the input of an add: a .torrent file path, raw .torrent bytes,
// base64 metainfo text, or a magnet link.
type Source struct {
	kind sourceKind
	text string // path, base64 text or magnet link
	data []byte
}

// FromPath adds the .torrent file at path.
func FromPath(path string) Source { return Source{kind: sourcePath, text: path} }

// FromBytes adds raw .torrent content.
func FromBytes(data []byte) Source { return Source{kind: sourceBytes, data: data} }

// FromBase64 adds base64-encoded .torrent content. The text is sent verbatim.
func FromBase64(text string) Source { return Source{kind: sourceBase64, text: text} }

// FromMagnet adds a magnet link.
func FromMagnet(uri string) Source { return Source{kind: sourceMagnet, text: uri} }

// SourceFromString resolves user input once: a "magnet:" prefix is a magnet
// link, an existing regular file is a path, anything else is taken as base64
// metainfo without validation.
func SourceFromString(s string) Source {
	if isMagnet(s) {
		return FromMagnet(s)
	}
	if info, err := os.Stat(s); err == nil && info.Mode().IsRegular() {
		return FromPath(s)
	}
	return FromBase64(s)
}

// IsMagnet reports whether the source is a magnet link.
func (s Source) IsMagnet() bool { return s.kind == sourceMagnet }

// metainfo returns the base64 torrent-add payload.
func (s Source) metainfo() (string, error) {
	switch s.kind {
	case sourcePath:
		data, err := os.ReadFile(s.text)
		if err != nil {
			return "", fmt.Errorf("read torrent file: %w", err)
		}
		return base64.StdEncoding.EncodeToString(data), nil
	case sourceBytes:
		return base64.StdEncoding.EncodeToString(s.data), nil
	case sourceBase64:
		return s.text, nil
	default:
		return "", errors.New("magnet links carry no metainfo")
	}
}

func withAddDefaults(opts AddTorrentOptions) AddTorrentOptions {
	if opts.DownloadDir == "" {
		opts.DownloadDir = defaultDownloadDir
	}
	return opts
}

// AddTorrent adds a torrent from a file path, raw bytes or base64 text.
// Magnet sources are forwarded to AddMagnet.
func (c *Client) AddTorrent(ctx context.Context, src Source, opts AddTorrentOptions) (*AddTorrentResponse, error) {
	if src.IsMagnet() {
		return c.AddMagnet(ctx, src.text, opts)
	}

	meta, err := src.metainfo()
	if err != nil {
		return nil, fmt.Errorf("add torrent: %w", err)
	}

	args := withAddDefaults(opts)
	args.Filename = ""
	args.Metainfo = meta

	var res AddTorrentResponse
	if err := c.call(ctx, "torrent-add", args, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddMagnet adds a torrent by magnet link. No file content is sent.
func (c *Client) AddMagnet(ctx context.Context, uri string, opts AddTorrentOptions) (*AddTorrentResponse, error) {
	args := withAddDefaults(opts)
	args.Filename = uri
	args.Metainfo = ""

	var res AddTorrentResponse
	if err := c.call(ctx, "torrent-add", args, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// AddURL is an alias for AddMagnet; the daemon fetches the URL itself.
func (c *Client) AddURL(ctx context.Context, uri string, opts AddTorrentOptions) (*AddTorrentResponse, error) {
	return c.AddMagnet(ctx, uri, opts)
}

// NormalizedAddTorrent adds a torrent, attaches the optional label and
// returns the normalized record of the new torrent.
//
// Magnet links are identified by their own info-hash since the daemon cannot
// name the torrent before its metadata is downloaded.
func (c *Client) NormalizedAddTorrent(ctx context.Context, src Source, opts core.AddOptions) (*core.Torrent, error) {
	addOpts := AddTorrentOptions{Paused: opts.StartPaused, DownloadDir: opts.DownloadDir}

	var ids IDs
	if src.IsMagnet() {
		hash, err := MagnetInfoHash(src.text)
		if err != nil {
			return nil, err
		}
		if _, err := c.AddMagnet(ctx, src.text, addOpts); err != nil {
			return nil, err
		}
		ids = Hash(hash)
	} else {
		res, err := c.AddTorrent(ctx, src, addOpts)
		if err != nil {
			return nil, err
		}
		added := res.Torrent()
		if added == nil {
			return nil, errors.New("add torrent: reply names no torrent")
		}
		if added.HashString != "" {
			ids = Hash(added.HashString)
		} else {
			ids = ID(added.ID)
		}
	}

	c.logger.Info("torrent added", slog.String("id", ids.String()))

	if opts.Label != "" {
		if err := c.SetTorrent(ctx, ids, SetTorrentOptions{Labels: []string{opts.Label}}); err != nil {
			return nil, fmt.Errorf("label torrent: %w", err)
		}
	}

	return c.GetTorrent(ctx, ids)
}
