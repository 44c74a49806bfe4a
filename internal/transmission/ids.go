package transmission

import (
	"fmt"
	"strconv"
	"strings"
)

const recentlyActive = "recently-active"

type idKind int

const (
	idsAll idKind = iota
	idsSingle
	idsMany
	idsRecentlyActive
)

// IDs selects torrents by numeric id, content-hash, a mix of both, or the
// "recently-active" sentinel. The zero value selects every torrent.
type IDs struct {
	kind   idKind
	values []any
}

// ID selects a single torrent by numeric id.
func ID(id int) IDs {
	return IDs{kind: idsSingle, values: []any{id}}
}

// Hash selects a single torrent by content-hash. The string
// "recently-active" selects the sentinel instead.
func Hash(hash string) IDs {
	if hash == recentlyActive {
		return RecentlyActive()
	}
	return IDs{kind: idsSingle, values: []any{hash}}
}

// IDList selects several torrents. Values must be ints or hash strings.
func IDList(values ...any) IDs {
	return IDs{kind: idsMany, values: values}
}

// RecentlyActive selects torrents the daemon considers recently active.
func RecentlyActive() IDs {
	return IDs{kind: idsRecentlyActive}
}

// ParseID interprets user input: decimal numbers are numeric ids,
// "recently-active" is the sentinel and anything else is a hash.
func ParseID(s string) IDs {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return ID(n)
	}
	return Hash(s)
}

// ParseIDs parses several user inputs into one selection.
func ParseIDs(inputs []string) IDs {
	if len(inputs) == 1 {
		return ParseID(inputs[0])
	}
	values := make([]any, 0, len(inputs))
	for _, in := range inputs {
		in = strings.TrimSpace(in)
		if n, err := strconv.Atoi(in); err == nil {
			values = append(values, n)
			continue
		}
		values = append(values, in)
	}
	return IDList(values...)
}

// IsZero reports whether the selection is empty (all torrents).
func (i IDs) IsZero() bool {
	return i.kind == idsAll
}

// isEmptyList reports whether the selection is a list with no entries.
func (i IDs) isEmptyList() bool {
	return i.kind == idsMany && len(i.values) == 0
}

// Normalize returns the wire form of the selection: the sentinel string
// unchanged, a scalar wrapped in a one-element array, a list as-is, and nil
// when nothing is selected.
func (i IDs) Normalize() any {
	switch i.kind {
	case idsRecentlyActive:
		return recentlyActive
	case idsSingle:
		return i.values
	case idsMany:
		if len(i.values) == 0 {
			return []any{}
		}
		return i.values
	default:
		return nil
	}
}

func (i IDs) String() string {
	switch i.kind {
	case idsRecentlyActive:
		return recentlyActive
	case idsSingle:
		return fmt.Sprint(i.values[0])
	case idsMany:
		parts := make([]string, len(i.values))
		for n, v := range i.values {
			parts[n] = fmt.Sprint(v)
		}
		return strings.Join(parts, ",")
	default:
		return "all"
	}
}
