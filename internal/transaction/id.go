package transaction

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const idPrefix = "TXN_"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewID returns a time-ordered identifier with a random suffix.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return idPrefix + ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
