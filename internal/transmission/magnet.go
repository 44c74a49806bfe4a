package transmission

import (
	"strings"

	"github.com/anacrolix/torrent/metainfo"
)

const magnetPrefix = "magnet:"

func isMagnet(s string) bool {
	return strings.HasPrefix(s, magnetPrefix)
}

// MagnetInfoHash returns the lowercase hex info-hash of a magnet link.
// Both hex and base32 btih encodings are accepted.
func MagnetInfoHash(uri string) (string, error) {
	m, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return "", &MagnetDecodeError{URL: uri, Err: err}
	}
	if m.InfoHash == (metainfo.Hash{}) {
		return "", &MagnetDecodeError{URL: uri, Err: errMissingInfoHash}
	}
	return m.InfoHash.HexString(), nil
}
