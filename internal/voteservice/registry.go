package voteservice

import (
	"fmt"
	"sync"

	"github.com/localcommit/tinyco/internal/mvcc"
)

// Registry tracks every distributed transaction a resource manager currently
// has outstanding, keyed by its GlobalID, so a gRPC handler running on a
// different goroutine can look one up by the id a remote coordinator sends.
//
// The coordinator itself is single-threaded and cooperative; Registry is
// the one piece of this package that genuinely needs a mutex, since gRPC
// handlers run on their own goroutines outside that discipline.
// Every lookup result must still be driven back through the host's Actor
// before touching the transaction.
type Registry struct {
	mu  sync.Mutex
	byID map[string]*mvcc.Transaction
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*mvcc.Transaction)}
}

// Track registers a distributed transaction so it can be found by its
// GlobalID. Panics if t is not distributed, since only those can ever be
// looked up by a remote coordinator.
func (r *Registry) Track(t *mvcc.Transaction) {
	if !t.IsDistributed() {
		panic("voteservice: Track called with a local transaction")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.GlobalID().String()] = t
}

// Untrack removes a transaction from the registry, once the host has
// observed it leave the precedence graph (mvcc.Hooks.Removed).
func (r *Registry) Untrack(t *mvcc.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, t.GlobalID().String())
}

// Lookup finds a tracked transaction by its textual GlobalID.
func (r *Registry) Lookup(globalID string) (*mvcc.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[globalID]
	if !ok {
		return nil, fmt.Errorf("voteservice: unknown transaction %q", globalID)
	}
	return t, nil
}

// Prepared returns the GlobalIDs of every tracked transaction currently
// sitting in Prepared, waiting on a remote commit/abort decision.
func (r *Registry) Prepared() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.byID))
	for id, t := range r.byID {
		if t.Status() == mvcc.Prepared {
			ids = append(ids, id)
		}
	}
	return ids
}

// TrackingHooks wraps another Hooks implementation and additionally
// registers distributed transactions with reg as they enter Prepared
// (VoteYes) and unregisters them as they leave the precedence graph
// (Removed). Embed it as a resource manager's Hooks so
// Coordinator.NewDistributedTransaction transactions become reachable over
// the vote service automatically.
type TrackingHooks struct {
	Reg  *Registry
	Next mvcc.Hooks
}

func (h TrackingHooks) VoteYes(t *mvcc.Transaction) {
	if t.IsDistributed() {
		h.Reg.Track(t)
	}
	h.Next.VoteYes(t)
}

func (h TrackingHooks) Committed(t *mvcc.Transaction) { h.Next.Committed(t) }

func (h TrackingHooks) Removed(t *mvcc.Transaction) {
	if t.IsDistributed() {
		h.Reg.Untrack(t)
	}
	h.Next.Removed(t)
}
