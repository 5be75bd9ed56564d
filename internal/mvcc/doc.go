// Package mvcc implements a local multiversion concurrency-control
// coordinator enforcing commitment ordering.
//
// What: a small transaction API (NewTransaction/Read/Update/End, plus
// distributed Commit/Abort) layered over a fixed pool of mutable Pages. Every
// Page keeps a linear public chain of Versions; every Transaction walks
// through a six-state machine (Running, Failed, Ready, Prepared, Committed,
// Aborted) that decides, via a precedence graph over live transactions, when
// a transaction's writes may become public and when they must cascade-abort.
//
// How: access resolution (Page.resolveAccess) walks a page's version chain
// backwards until it finds a version whose writer does not succeed the
// accessing transaction, recording a precedence edge as it goes. This is the
// commitment-ordering discipline: commit order is forced to track precedence
// order, which is enough for serializability without ever blocking a caller.
//
// Why: every coordinator call runs to completion in bounded work and never
// blocks (completability) — conflicts are resolved by failing transactions,
// not by making callers wait.
package mvcc
