package mvcc

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// TrxID is a transaction's local sequence number, unique within one
// Coordinator instance.
type TrxID uint64

// VersionNo is a version's sequence number, monotonic within its owning page.
type VersionNo uint64

// GlobalID identifies a transaction across resource managers. A Transaction
// with a non-zero GlobalID is distributed: only it may call Commit/Abort.
type GlobalID = uuid.UUID

// nilGlobalID is the zero GlobalID, used to mark a transaction as local.
var nilGlobalID = uuid.Nil

// NewGlobalID generates a fresh global transaction identifier for a
// distributed transaction.
func NewGlobalID() GlobalID {
	return uuid.New()
}

// ParseGlobalID parses a textual global transaction id, as received from the
// distributed coordinator.
func ParseGlobalID(s string) (GlobalID, error) {
	return uuid.Parse(s)
}

// idGenerator hands out the monotonic transaction counter scoped to one
// Coordinator instance, initialized at construction and torn down with it.
// Per-page version counters live on the Page itself, since the
// coordinator's single-threaded cooperative model means no internal
// synchronization is needed for either.
type idGenerator struct {
	nextTrxID atomic.Uint64
}

func (g *idGenerator) nextTrx() TrxID {
	return TrxID(g.nextTrxID.Add(1))
}
