package transmission

import (
	"strconv"
	"time"

	"github.com/vadimtrunov/transmate/internal/core"
)

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Normalize converts a daemon torrent record into the client-facing model.
func Normalize(t Torrent) core.Torrent {
	id := t.HashString
	if id == "" {
		id = strconv.Itoa(t.ID)
	}

	var label string
	if len(t.Labels) > 0 {
		label = t.Labels[0]
	}

	return core.Torrent{
		ID:              id,
		Name:            t.Name,
		State:           mapStatus(t.Status),
		IsCompleted:     t.LeftUntilDone < 1,
		StateMessage:    t.ErrorString,
		Progress:        t.PercentDone,
		Ratio:           t.UploadRatio,
		DateAdded:       epochToISO(t.AddedDate),
		DateCompleted:   epochToISO(t.DoneDate),
		Label:           label,
		SavePath:        t.DownloadDir,
		UploadSpeed:     t.RateUpload,
		DownloadSpeed:   t.RateDownload,
		ETA:             t.ETA,
		QueuePosition:   t.QueuePosition,
		ConnectedPeers:  t.PeersSendingToUs,
		ConnectedSeeds:  t.PeersGettingFromUs,
		TotalPeers:      t.PeersConnected,
		TotalSeeds:      t.PeersConnected,
		TotalSelected:   t.SizeWhenDone,
		TotalSize:       t.TotalSize,
		TotalUploaded:   t.UploadedEver,
		TotalDownloaded: t.DownloadedEver,
	}
}

// mapStatus maps the daemon's status code to a normalized state.
// Check-wait (1) has no counterpart and maps to unknown.
func mapStatus(status TorrentStatus) core.TorrentState {
	switch status {
	case StatusStopped:
		return core.StatePaused
	case StatusChecking:
		return core.StateChecking
	case StatusDownloadWait, StatusSeedWait:
		return core.StateQueued
	case StatusDownloading:
		return core.StateDownloading
	case StatusSeeding:
		return core.StateSeeding
	default:
		return core.StateUnknown
	}
}

// epochToISO formats epoch seconds as an ISO-8601 UTC timestamp. Zero yields
// the epoch start, not an empty string.
func epochToISO(sec int64) string {
	return time.UnixMilli(sec * 1000).UTC().Format(isoLayout)
}

// foldLabels builds the label usage table in first-seen order.
func foldLabels(torrents []core.Torrent) []core.Label {
	labels := []core.Label{}
	index := make(map[string]int)
	for _, t := range torrents {
		if t.Label == "" {
			continue
		}
		if i, ok := index[t.Label]; ok {
			labels[i].Count++
			continue
		}
		index[t.Label] = len(labels)
		labels = append(labels, core.Label{ID: t.Label, Name: t.Label, Count: 1})
	}
	return labels
}
