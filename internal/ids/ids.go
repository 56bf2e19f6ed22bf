// Package ids generates identifiers for notes, comments, attachments and
// collaborators.
package ids

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gonote/gonote/internal/clock"
	"github.com/google/uuid"
)

var (
	mu   sync.Mutex
	last int64
)

// TimeID returns a decimal epoch-millisecond id. Two calls within the same
// millisecond still get distinct ids: the second is bumped past the first.
func TimeID(c clock.Clock) string {
	ms := clock.Millis(c)
	mu.Lock()
	if ms <= last {
		ms = last + 1
	}
	last = ms
	mu.Unlock()
	return strconv.FormatInt(ms, 10)
}

// New returns a random uuid string.
func New() string {
	return uuid.NewString()
}

// ShareToken returns a short opaque token for public share links.
func ShareToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
