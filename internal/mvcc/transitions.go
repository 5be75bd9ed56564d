package mvcc

// This file carries every on-entry action and cascade rule of the
// transaction state machine. transaction.go dispatches public calls into
// these; nothing here is reachable from outside the package.

// runningToReady implements the Running → Ready transition. It may instead
// divert t into cascadeAbort if a just-forked version turns out to already
// be superseded, or to still be read by a transaction that already
// succeeds t (making it precede t would close a cycle).
func (t *Transaction) runningToReady() {
	t.purgeDeadReads()

	for page, vp := range t.updateSet {
		v := vp.prevPageVersion
		if v == nil {
			continue // bootstrap write, nothing to check against
		}
		if v.supersederTrx != nil {
			t.cascadeAbort(nil)
			return
		}
		for r := range v.readerTrxs {
			if r != t && r.doesSucceed(t) {
				t.cascadeAbort(nil)
				return
			}
		}
		_ = page
	}

	t.status = Ready
	t.enterReady()
}

// enterReady publishes t's written versions onto their pages' public
// chains, fails out any losing candidates, and promotes their remaining
// readers to precede t.
func (t *Transaction) enterReady() {
	for page, vp := range t.updateSet {
		v := vp.prevPageVersion
		if v == nil {
			continue
		}

		page.latestVersion = vp
		v.supersederTrx = t
		v.removeReader(t)
		v.removeCandidate(t)

		for c := range v.candidateTrxs {
			c.Fail()
		}
		v.candidateTrxs = make(map[*Transaction]struct{})

		for r := range v.readerTrxs {
			if r.status == Failed || r.status == Aborted {
				// r raced t to write v and just lost as a candidate above;
				// it's on its way out and has nothing left to precede.
				continue
			}
			precedes(r, t)
		}
	}
}

// tryToPrepared is the Ready → Prepared probe: t may advance only once
// every predecessor has committed.
func (t *Transaction) tryToPrepared() {
	if t.status != Ready {
		return
	}
	for p := range t.prevTrxs {
		switch p.status {
		case Committed:
			continue
		case Failed, Aborted:
			// A failed predecessor must have cascade-failed t already;
			// seeing one here means the cascade was missed somewhere.
			invariantViolation("trx %d has a %s predecessor %d still in its prevTrxs", t.id, p.status, p.id)
		default:
			return
		}
	}
	t.status = Prepared
	t.enterPrepared()
}

// enterPrepared asks the host to decide t's fate.
func (t *Transaction) enterPrepared() {
	t.hooks.VoteYes(t)
}

// commitLocked drives Prepared → Committed. It is called either by
// DefaultHooks.VoteYes (local transactions) or by Transaction.Commit
// (distributed transactions, once the global coordinator decides).
func (t *Transaction) commitLocked() {
	if t.status != Prepared {
		invariantViolation("commitLocked: trx %d is %s, not Prepared", t.id, t.status)
	}
	t.status = Committed
	t.enterCommitted()
}

// enterCommitted runs the Committed on-entry actions: notify the host, drop
// now-satisfied precedence edges to already-committed predecessors, retire
// every version t just superseded, and wake any successor waiting only on t.
func (t *Transaction) enterCommitted() {
	t.hooks.Committed(t)

	for p := range t.prevTrxs {
		dropEdge(p, t)
		p.tryRemoveFromGraph()
	}

	for page, vp := range t.updateSet {
		v := vp.prevPageVersion
		if v == nil {
			continue
		}

		if writer := v.writerTrx; writer != nil {
			if existing, ok := writer.updateSet[page]; ok && existing == v {
				delete(writer.updateSet, page)
			}
			v.writerTrx = nil
			writer.tryRemoveFromGraph()
		}

		for r := range v.readerTrxs {
			if r == t {
				continue
			}
			if !r.status.private() {
				delete(r.readSet, page)
				v.removeReader(r)
				r.tryRemoveFromGraph()
			}
		}

		v.supersederTrx = nil
		vp.prevPageVersion = nil
		v.tryRemove()
	}

	for n := range t.nextTrxs {
		if n.status == Ready {
			n.tryToPrepared()
		}
	}
}

// tryRemoveFromGraph reports (and signals via Hooks.Removed) whether t has
// met its graph-removal condition: Committed with empty
// read/update/nextTrxs, or Aborted with empty nextTrxs.
func (t *Transaction) tryRemoveFromGraph() bool {
	if t.removed {
		return true
	}
	switch t.status {
	case Committed:
		if len(t.readSet) != 0 || len(t.updateSet) != 0 || len(t.nextTrxs) != 0 {
			return false
		}
	case Aborted:
		if len(t.nextTrxs) != 0 {
			return false
		}
	default:
		return false
	}
	t.removed = true
	t.hooks.Removed(t)
	return true
}

// failedToAborted implements Failed → Aborted: purge any reads that
// already died under t, then go terminal.
func (t *Transaction) failedToAborted() {
	t.purgeDeadReads()
	t.transitionToAborted()
}

// purgeDeadReads drops read-set entries whose version has already lost its
// writer, matching both the Running → Ready and Failed → Aborted on-entry
// cleanups.
func (t *Transaction) purgeDeadReads() {
	for page, v := range t.readSet {
		if v.writerTrx == nil {
			v.removeReader(t)
			delete(t.readSet, page)
			v.tryRemove()
		}
	}
}

// cascadeAbort propagates failure out from t, accumulating the set of pages
// written by every transaction that aborts along the way. A transaction
// reached this way that is still private runs the private read path on
// those pages (enterFailed) before it itself goes Failed. The cascade
// reaches it before the aborting transactions roll back page.latestVersion,
// so the pages it resolves here still show their versions.
func (t *Transaction) cascadeAbort(updated map[*Page]struct{}) {
	switch {
	case t.status == Committed:
		invariantViolation("cascadeAbort reached committed trx %d", t.id)

	case t.status == Aborted:
		return // diamond protection

	case t.status.public(): // Ready or Prepared
		merged := withOwnUpdates(updated, t)
		for _, vp := range t.updateSet {
			if vp.supersederTrx != nil {
				vp.supersederTrx.cascadeAbort(merged)
			}
			for r := range vp.readerTrxs {
				if r != t {
					r.cascadeAbort(merged)
				}
			}
		}
		t.transitionToAborted()

	default: // Running or Failed
		t.enterFailed(updated)
		t.status = Failed
	}
}

// enterFailed is the Failed on-entry action: run readPrivate on every page
// an aborting predecessor had updated. Pages already in t's readSet or
// updateSet keep their existing binding; any other page is resolved
// against its public chain as it stands, which still ends at the aborting
// transactions' versions because their rollback runs after the cascade. It
// is re-entrant: a transaction already Failed runs it again with whatever
// new pages a later cascade wave adds.
func (t *Transaction) enterFailed(updated map[*Page]struct{}) {
	for page := range updated {
		t.readPrivate(page)
	}
}

// transitionToAborted moves t to Aborted and runs its on-entry action.
func (t *Transaction) transitionToAborted() {
	t.status = Aborted
	t.enterAborted()
}

// enterAborted runs the Aborted on-entry actions: roll back any version t
// had provisionally superseded, then attempt graph removal.
func (t *Transaction) enterAborted() {
	for page, vp := range t.updateSet {
		v := vp.prevPageVersion
		if v != nil && v.supersederTrx == t {
			v.supersederTrx = nil
			v.addReader(t)
			if page.latestVersion == vp {
				page.latestVersion = v
			}
		}
	}
	t.tryFinishAbortRemoval()
}

// tryFinishAbortRemoval performs the deferred part of Aborted on-entry: it
// only runs once t has no remaining successors, since an aborted
// transaction with live nextTrxs must stay in the graph until they've all
// moved on too. Safe to call repeatedly; a predecessor's own removal
// probes t again each time one of t's successors clears out.
func (t *Transaction) tryFinishAbortRemoval() {
	if t.status != Aborted || t.removed || len(t.nextTrxs) != 0 {
		return
	}

	for p := range t.prevTrxs {
		dropEdge(p, t)
		probe(p)
	}

	for page, vp := range t.updateSet {
		vp.writerTrx = nil
		if vp.prevPageVersion != nil {
			vp.prevPageVersion.removeReader(t)
			vp.prevPageVersion.tryRemove()
		}
		vp.tryRemove()
		delete(t.updateSet, page)
	}

	for page, v := range t.readSet {
		v.removeReader(t)
		v.tryRemove()
		delete(t.readSet, page)
	}

	t.removed = true
	t.hooks.Removed(t)
}

// probe re-examines a transaction whose relationship to some other
// transaction just changed, in whatever way is appropriate to its current
// status: a Ready transaction may now be able to advance, a Committed or
// Aborted one may now qualify for removal.
func probe(p *Transaction) {
	switch p.status {
	case Ready:
		p.tryToPrepared()
	case Committed:
		p.tryRemoveFromGraph()
	case Aborted:
		p.tryFinishAbortRemoval()
	}
}

// withOwnUpdates returns a new set containing updated plus every page in
// t.updateSet, without mutating updated.
func withOwnUpdates(updated map[*Page]struct{}, t *Transaction) map[*Page]struct{} {
	merged := make(map[*Page]struct{}, len(updated)+len(t.updateSet))
	for p := range updated {
		merged[p] = struct{}{}
	}
	for p := range t.updateSet {
		merged[p] = struct{}{}
	}
	return merged
}
