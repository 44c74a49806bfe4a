package transmission

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionInvalidated is wrapped by the TransportError returned when the
	// daemon keeps rejecting the session id past the retry cap.
	ErrSessionInvalidated = errors.New("session id rejected by daemon")

	// ErrTorrentNotFound is returned when a get-by-id matches no torrent.
	ErrTorrentNotFound = errors.New("torrent not found")

	errMissingSessionID = errors.New("conflict response carries no session id")
	errNoIDs            = errors.New("no torrent ids given")
	errMissingInfoHash  = errors.New("magnet has no info-hash")
)

// TransportError is a failure below the RPC layer: network errors, timeouts
// and non-2xx HTTP statuses.
type TransportError struct {
	Method     string
	StatusCode int    // 0 when no response was received
	Body       string // daemon error body, if any
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("transmission %s: %v", e.Method, e.Err)
	case e.Body != "":
		return fmt.Sprintf("transmission %s: HTTP %d: %s", e.Method, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("transmission %s: HTTP %d: %v", e.Method, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("transmission %s: HTTP %d", e.Method, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RPCError is returned when the daemon answers with a result other than "success".
type RPCError struct {
	Method string
	Result string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("transmission %s: %s", e.Method, e.Result)
}

// MagnetDecodeError is returned when a magnet link has no usable info-hash.
// It is raised before any request reaches the daemon.
type MagnetDecodeError struct {
	URL string
	Err error
}

func (e *MagnetDecodeError) Error() string {
	return fmt.Sprintf("decode magnet %q: %v", e.URL, e.Err)
}

func (e *MagnetDecodeError) Unwrap() error {
	return e.Err
}
