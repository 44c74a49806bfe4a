package transmission

import "encoding/json"

// RPC envelope types of the Transmission daemon protocol.

type rpcRequest struct {
	Method    string `json:"method"`
	Arguments any    `json:"arguments"`
}

// Response is a raw RPC reply. Arguments are decoded per method.
type Response struct {
	Result    string          `json:"result"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// TorrentStatus is the daemon's numeric torrent status.
type TorrentStatus int

// Torrent status codes.
const (
	StatusStopped TorrentStatus = iota
	StatusCheckWait
	StatusChecking
	StatusDownloadWait
	StatusDownloading
	StatusSeedWait
	StatusSeeding
)

// Torrent is the daemon's torrent record as returned by torrent-get.
type Torrent struct {
	ID                      int           `json:"id"`
	HashString              string        `json:"hashString"`
	Name                    string        `json:"name"`
	DownloadDir             string        `json:"downloadDir"`
	AddedDate               int64         `json:"addedDate"` // epoch seconds
	DoneDate                int64         `json:"doneDate"`  // epoch seconds, 0 while incomplete
	ActivityDate            int64         `json:"activityDate"`
	Comment                 string        `json:"comment"`
	Creator                 string        `json:"creator"`
	Error                   int           `json:"error"`
	ErrorString             string        `json:"errorString"`
	ETA                     int64         `json:"eta"`
	ETAIdle                 int64         `json:"etaIdle"`
	IsFinished              bool          `json:"isFinished"`
	IsPrivate               bool          `json:"isPrivate"`
	IsStalled               bool          `json:"isStalled"`
	LeftUntilDone           float64       `json:"leftUntilDone"` // bytes
	MagnetLink              string        `json:"magnetLink"`
	MetadataPercentComplete float64       `json:"metadataPercentComplete"`
	PeersConnected          int           `json:"peersConnected"`
	PeersGettingFromUs      int           `json:"peersGettingFromUs"`
	PeersSendingToUs        int           `json:"peersSendingToUs"`
	PercentDone             float64       `json:"percentDone"` // 0.0 to 1.0
	QueuePosition           int           `json:"queuePosition"`
	RateDownload            int64         `json:"rateDownload"` // bytes/sec
	RateUpload              int64         `json:"rateUpload"`   // bytes/sec
	RecheckProgress         float64       `json:"recheckProgress"`
	SecondsDownloading      int64         `json:"secondsDownloading"`
	SecondsSeeding          int64         `json:"secondsSeeding"`
	SeedRatioLimit          float64       `json:"seedRatioLimit"`
	SeedRatioMode           int           `json:"seedRatioMode"`
	SeedIdleLimit           int64         `json:"seedIdleLimit"`
	SizeWhenDone            int64         `json:"sizeWhenDone"`
	TotalSize               int64         `json:"totalSize"`
	Status                  TorrentStatus `json:"status"`
	DownloadLimit           int64         `json:"downloadLimit"`
	DownloadLimited         bool          `json:"downloadLimited"`
	UploadedEver            int64         `json:"uploadedEver"`
	DownloadedEver          int64         `json:"downloadedEver"`
	CorruptEver             int64         `json:"corruptEver"`
	UploadRatio             float64       `json:"uploadRatio"`
	WebseedsSendingToUs     int           `json:"webseedsSendingToUs"`
	HaveUnchecked           int64         `json:"haveUnchecked"`
	HaveValid               int64         `json:"haveValid"`
	HonorsSessionLimits     bool          `json:"honorsSessionLimits"`
	ManualAnnounceTime      int64         `json:"manualAnnounceTime"`
	DesiredAvailable        int64         `json:"desiredAvailable"`
	Labels                  []string      `json:"labels"`
	MaxConnectedPeers       int           `json:"maxConnectedPeers"`
	PeerLimit               int           `json:"peer-limit"`
	Priorities              []int         `json:"priorities"`
	Wanted                  []int         `json:"wanted"`
	Webseeds                []string      `json:"webseeds"`
	Files                   []File        `json:"files"`
	FileStats               []FileStat    `json:"fileStats"`
	Trackers                []Tracker     `json:"trackers"`
	Peers                   []Peer        `json:"peers"`
	PeersFrom               PeersFrom     `json:"peersFrom"`
}

// File is one file of a torrent.
type File struct {
	BytesCompleted int64  `json:"bytesCompleted"`
	Length         int64  `json:"length"`
	Name           string `json:"name"`
}

// FileStat is the per-file transfer state.
type FileStat struct {
	BytesCompleted int64 `json:"bytesCompleted"`
	Priority       int   `json:"priority"`
	Wanted         bool  `json:"wanted"`
}

// Tracker is an announce entry.
type Tracker struct {
	Announce string `json:"announce"`
	ID       int    `json:"id"`
	Scrape   string `json:"scrape"`
	Tier     int    `json:"tier"`
}

// Peer is a connected peer.
type Peer struct {
	Address            string  `json:"address"`
	ClientName         string  `json:"clientName"`
	ClientIsChoked     bool    `json:"clientIsChoked"`
	ClientIsInterested bool    `json:"clientIsInterested"`
	FlagStr            string  `json:"flagStr"`
	IsDownloadingFrom  bool    `json:"isDownloadingFrom"`
	IsEncrypted        bool    `json:"isEncrypted"`
	IsIncoming         bool    `json:"isIncoming"`
	IsUploadingTo      bool    `json:"isUploadingTo"`
	IsUTP              bool    `json:"isUTP"`
	PeerIsChoked       bool    `json:"peerIsChoked"`
	PeerIsInterested   bool    `json:"peerIsInterested"`
	Port               int     `json:"port"`
	Progress           float64 `json:"progress"`
	RateToClient       int64   `json:"rateToClient"`
	RateToPeer         int64   `json:"rateToPeer"`
}

// PeersFrom counts peers by discovery source.
type PeersFrom struct {
	FromCache    int `json:"fromCache"`
	FromDHT      int `json:"fromDht"`
	FromIncoming int `json:"fromIncoming"`
	FromLPD      int `json:"fromLpd"`
	FromLTEP     int `json:"fromLtep"`
	FromPEX      int `json:"fromPex"`
	FromTracker  int `json:"fromTracker"`
}

// torrentFields is the field list requested by ListTorrents.
var torrentFields = []string{
	"id", "addedDate", "creator", "doneDate", "comment", "name", "totalSize",
	"error", "errorString", "eta", "etaIdle", "isFinished", "isStalled", "isPrivate",
	"files", "fileStats", "hashString", "leftUntilDone", "metadataPercentComplete",
	"peers", "peersFrom", "peersConnected", "peersGettingFromUs", "peersSendingToUs",
	"percentDone", "queuePosition", "rateDownload", "rateUpload",
	"secondsDownloading", "secondsSeeding", "recheckProgress",
	"seedRatioMode", "seedRatioLimit", "seedIdleLimit", "sizeWhenDone", "status",
	"trackers", "downloadDir", "downloadLimit", "downloadLimited",
	"uploadedEver", "downloadedEver", "corruptEver", "uploadRatio",
	"webseedsSendingToUs", "haveUnchecked", "haveValid", "honorsSessionLimits",
	"manualAnnounceTime", "activityDate", "desiredAvailable", "labels",
	"magnetLink", "maxConnectedPeers", "peer-limit", "priorities", "wanted", "webseeds",
}

// TorrentGetResponse is the decoded reply of torrent-get.
type TorrentGetResponse struct {
	Torrents []Torrent `json:"torrents"`
	Removed  []int     `json:"removed,omitempty"`
	// Raw holds the undecoded arguments object.
	Raw json.RawMessage `json:"-"`
}

// AddTorrentOptions are the torrent-add arguments.
type AddTorrentOptions struct {
	DownloadDir       string   `json:"download-dir,omitempty"`
	Paused            bool     `json:"paused"`
	Filename          string   `json:"filename,omitempty"` // magnet link or URL
	Metainfo          string   `json:"metainfo,omitempty"` // base64 .torrent content
	Labels            []string `json:"labels,omitempty"`
	Cookies           string   `json:"cookies,omitempty"`
	PeerLimit         int      `json:"peer-limit,omitempty"`
	BandwidthPriority int      `json:"bandwidthPriority,omitempty"`
	FilesWanted       []int    `json:"files-wanted,omitempty"`
	FilesUnwanted     []int    `json:"files-unwanted,omitempty"`
	PriorityHigh      []int    `json:"priority-high,omitempty"`
	PriorityLow       []int    `json:"priority-low,omitempty"`
	PriorityNormal    []int    `json:"priority-normal,omitempty"`
}

// AddedTorrent identifies a torrent created (or found) by torrent-add.
type AddedTorrent struct {
	ID         int    `json:"id"`
	HashString string `json:"hashString"`
	Name       string `json:"name"`
}

// AddTorrentResponse is the decoded reply of torrent-add.
type AddTorrentResponse struct {
	Added     *AddedTorrent `json:"torrent-added,omitempty"`
	Duplicate *AddedTorrent `json:"torrent-duplicate,omitempty"`
}

// Torrent returns the added torrent, or the existing one for a duplicate add.
func (r *AddTorrentResponse) Torrent() *AddedTorrent {
	if r.Added != nil {
		return r.Added
	}
	return r.Duplicate
}

// SetTorrentOptions are the mutable torrent-set arguments. Nil pointers are
// left untouched by the daemon.
type SetTorrentOptions struct {
	Labels              []string `json:"labels,omitempty"`
	BandwidthPriority   *int     `json:"bandwidthPriority,omitempty"`
	DownloadLimit       *int64   `json:"downloadLimit,omitempty"`
	DownloadLimited     *bool    `json:"downloadLimited,omitempty"`
	UploadLimit         *int64   `json:"uploadLimit,omitempty"`
	UploadLimited       *bool    `json:"uploadLimited,omitempty"`
	HonorsSessionLimits *bool    `json:"honorsSessionLimits,omitempty"`
	Location            string   `json:"location,omitempty"`
	PeerLimit           *int     `json:"peer-limit,omitempty"`
	QueuePosition       *int     `json:"queuePosition,omitempty"`
	SeedIdleLimit       *int64   `json:"seedIdleLimit,omitempty"`
	SeedIdleMode        *int     `json:"seedIdleMode,omitempty"`
	SeedRatioLimit      *float64 `json:"seedRatioLimit,omitempty"`
	SeedRatioMode       *int     `json:"seedRatioMode,omitempty"`
	FilesWanted         []int    `json:"files-wanted,omitempty"`
	FilesUnwanted       []int    `json:"files-unwanted,omitempty"`
	TrackerAdd          []string `json:"trackerAdd,omitempty"`
	TrackerRemove       []int    `json:"trackerRemove,omitempty"`
}

// SessionArguments is the subset of session-get fields this client reads.
type SessionArguments struct {
	Version               string  `json:"version"`
	RPCVersion            int     `json:"rpc-version"`
	RPCVersionMinimum     int     `json:"rpc-version-minimum"`
	ConfigDir             string  `json:"config-dir"`
	DownloadDir           string  `json:"download-dir"`
	DownloadDirFreeSpace  int64   `json:"download-dir-free-space"`
	IncompleteDir         string  `json:"incomplete-dir"`
	IncompleteDirEnabled  bool    `json:"incomplete-dir-enabled"`
	AltSpeedEnabled       bool    `json:"alt-speed-enabled"`
	AltSpeedDown          int     `json:"alt-speed-down"` // KBps
	AltSpeedUp            int     `json:"alt-speed-up"`   // KBps
	SpeedLimitDown        int     `json:"speed-limit-down"`
	SpeedLimitDownEnabled bool    `json:"speed-limit-down-enabled"`
	SpeedLimitUp          int     `json:"speed-limit-up"`
	SpeedLimitUpEnabled   bool    `json:"speed-limit-up-enabled"`
	DownloadQueueEnabled  bool    `json:"download-queue-enabled"`
	DownloadQueueSize     int     `json:"download-queue-size"`
	SeedQueueEnabled      bool    `json:"seed-queue-enabled"`
	SeedQueueSize         int     `json:"seed-queue-size"`
	SeedRatioLimit        float64 `json:"seedRatioLimit"`
	SeedRatioLimited      bool    `json:"seedRatioLimited"`
	PeerPort              int     `json:"peer-port"`
	PeerLimitGlobal       int     `json:"peer-limit-global"`
	PeerLimitPerTorrent   int     `json:"peer-limit-per-torrent"`
	DHTEnabled            bool    `json:"dht-enabled"`
	PEXEnabled            bool    `json:"pex-enabled"`
	LPDEnabled            bool    `json:"lpd-enabled"`
	Encryption            string  `json:"encryption"` // "required", "preferred", "tolerated"
}

// FreeSpace is the decoded reply of free-space.
type FreeSpace struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size-bytes"`
}
