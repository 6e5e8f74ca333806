// Package rowid mints identifiers for rows created locally.
//
// Local ids carry a reserved prefix so they are distinguishable from
// source-assigned ids, plus a timestamp and a process-wide counter so they
// are monotonically distinct even when minted within the same nanosecond.
package rowid

import (
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Prefix marks ids minted by this package. Data sources must never assign
// ids with this prefix.
const Prefix = "local#"

var counter atomic.Uint64

// New returns a fresh local row id.
func New() string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteString(strconv.FormatInt(time.Now().UnixNano(), 36))
	b.WriteByte('-')
	b.WriteString(strconv.FormatUint(counter.Add(1), 10))
	return b.String()
}

// IsLocal reports whether id was minted by New.
func IsLocal(id string) bool {
	return strings.HasPrefix(id, Prefix)
}
