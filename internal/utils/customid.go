package utils

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TransactionIDPrefix starts every generated transaction custom ID.
const TransactionIDPrefix = "TX-"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewTransactionCustomID returns "TX-" followed by a ULID for at: a millisecond
// timestamp prefix and a random suffix. IDs generated in the same millisecond
// still sort in creation order.
func NewTransactionCustomID(at time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(at), entropy)
	return TransactionIDPrefix + id.String()
}
