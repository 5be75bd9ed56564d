// Package tinyco provides an embeddable commitment-ordering MVCC
// coordinator for Go applications.
//
// Transactions run against a pool of pages. Every operation is non-blocking:
// instead of waiting on locks, the coordinator maintains a precedence graph
// over transactions and resolves each page access to the version that keeps
// that graph acyclic, aborting and cascading failure to dependents when a
// conflict would otherwise violate commitment order.
//
// # Basic usage
//
//	coord := tinyco.NewCoordinator()
//	pages, _ := tinyco.NewPagePool(coord, 16)
//
//	tx := coord.NewTransaction()
//	if _, _, err := tx.Update(pages[0]); err != nil {
//	    log.Fatal(err)
//	}
//	if status := tx.End(); status == tinyco.Aborted {
//	    // a concurrent writer won the race; retry
//	}
//
// # Distributed transactions
//
// A transaction constructed with a non-zero global id parks at Prepared
// instead of self-committing, and only Commit/Abort (driven by an external
// two-phase commit coordinator) move it to a terminal state. See
// internal/voteservice for a gRPC front end exposing exactly that surface.
package tinyco

import (
	"github.com/localcommit/tinyco/internal/mvcc"
)

// Coordinator hands out fresh Transactions against a shared page universe.
type Coordinator = mvcc.Coordinator

// Transaction is one unit of work against the page pool.
type Transaction = mvcc.Transaction

// Page is a named mutable object transactions read and update.
type Page = mvcc.Page

// Version is one historical state of a Page.
type Version = mvcc.Version

// Status is a Transaction's position in the six-state machine.
type Status = mvcc.Status

// Transaction states, re-exported for callers that branch on Status.
const (
	Running   = mvcc.Running
	Failed    = mvcc.Failed
	Ready     = mvcc.Ready
	Prepared  = mvcc.Prepared
	Committed = mvcc.Committed
	Aborted   = mvcc.Aborted
)

// TrxID is a transaction's local sequence number.
type TrxID = mvcc.TrxID

// GlobalID identifies a transaction across resource managers.
type GlobalID = mvcc.GlobalID

// Hooks lets a host observe and extend a transaction's lifecycle.
type Hooks = mvcc.Hooks

// DefaultHooks is the zero-overhead Hooks implementation for local,
// non-durable transactions.
type DefaultHooks = mvcc.DefaultHooks

// ProtocolError reports an operation attempted from the wrong Status.
type ProtocolError = mvcc.ProtocolError

// Actor serializes calls into a Coordinator from multiple goroutines.
type Actor = mvcc.Actor

// NewCoordinator constructs a Coordinator using DefaultHooks.
func NewCoordinator() *Coordinator { return mvcc.NewCoordinator() }

// NewCoordinatorWithHooks constructs a Coordinator whose transactions use
// hooks unless overridden per-transaction.
func NewCoordinatorWithHooks(hooks Hooks) *Coordinator {
	return mvcc.NewCoordinatorWithHooks(hooks)
}

// NewPagePool creates n fresh pages backed by a single bootstrap
// transaction, ready for use against coord.
func NewPagePool(coord *Coordinator, n int) ([]*Page, *Transaction) {
	return mvcc.NewPagePool(coord, n)
}

// NewActor starts an Actor with the given pending-job queue size.
func NewActor(queueSize int) *Actor { return mvcc.NewActor(queueSize) }

// NewGlobalID generates a fresh distributed transaction identifier.
func NewGlobalID() GlobalID { return mvcc.NewGlobalID() }

// ParseGlobalID parses a textual global transaction id.
func ParseGlobalID(s string) (GlobalID, error) { return mvcc.ParseGlobalID(s) }

// Retry runs body against a fresh transaction, retrying with a new one
// whenever it comes back Aborted.
func Retry(coord *Coordinator, body func(t *Transaction) error) (*Transaction, Status, error) {
	return mvcc.Retry(coord, body)
}
