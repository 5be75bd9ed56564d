// Package maintenance runs a periodic sweep over a page pool on a cron
// schedule, the background half of the coordinator's garbage collection.
//
// Version and Transaction removal in internal/mvcc is already eager: every
// state transition that could make a version or transaction collectible
// checks for it immediately (Version.tryRemove, Transaction.tryRemoveFromGraph).
// This package exists for the case that eager collection doesn't reach —
// a transaction's Hooks implementation lost a Removed notification, or a
// long-lived Prepared transaction from a since-crashed peer is still pinning
// a chain — by periodically re-probing every page's version chain on a
// cron schedule and logging what it finds.
package maintenance
