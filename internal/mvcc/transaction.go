package mvcc

// Transaction is a local resource manager's view of one transaction. Its
// zero value is never valid; construct one through Coordinator.NewTransaction.
type Transaction struct {
	id       TrxID
	globalID GlobalID
	status   Status

	readSet   map[*Page]*Version
	updateSet map[*Page]*Version

	prevTrxs map[*Transaction]struct{}
	nextTrxs map[*Transaction]struct{}

	hooks Hooks

	// removed guards Removed() against firing twice: once a transaction's
	// graph-removal conditions are met they stay met (sets only shrink),
	// but several call sites can independently notice that.
	removed bool
}

// ID returns the transaction's local sequence number.
func (t *Transaction) ID() TrxID { return t.id }

// GlobalID returns the transaction's distributed identifier, or the zero
// UUID for a purely local transaction.
func (t *Transaction) GlobalID() GlobalID { return t.globalID }

// IsDistributed reports whether Commit/Abort are available on t.
func (t *Transaction) IsDistributed() bool { return t.globalID != nilGlobalID }

// Status returns the transaction's current state.
func (t *Transaction) Status() Status { return t.status }

// Removed reports whether t has already left the precedence graph
// (Hooks.Removed has fired for it).
func (t *Transaction) Removed() bool { return t.removed }

// Read resolves page to the version visible to t, recording the access
// against the precedence graph.
func (t *Transaction) Read(page *Page) (*Version, error) {
	switch {
	case t.status.private():
		return t.readPrivate(page), nil
	case t.status.public():
		if v, ok := t.readSet[page]; ok {
			return v, nil
		}
		if v, ok := t.updateSet[page]; ok {
			return v, nil
		}
		return nil, &ProtocolError{Op: "read", Status: t.status}
	default: // Aborted
		return nil, &ProtocolError{Op: "read", Status: t.status}
	}
}

func (t *Transaction) readPrivate(page *Page) *Version {
	if v, ok := t.readSet[page]; ok {
		return v
	}
	if v, ok := t.updateSet[page]; ok {
		return v
	}
	v := page.resolveAccess(t)
	t.readSet[page] = v
	return v
}

// Update resolves page for a write, returning the new (private) version t
// should populate and the version it was forked from. Only valid in the
// private meta-state.
func (t *Transaction) Update(page *Page) (newVersion, initialVersion *Version, err error) {
	if !t.status.private() {
		return nil, nil, &ProtocolError{Op: "update", Status: t.status}
	}
	if vp, ok := t.updateSet[page]; ok {
		return vp, vp.prevPageVersion, nil
	}

	// A page already in readSet is reused as-is rather than re-resolved:
	// the version t already read becomes the initial version, and t stays
	// recorded as its reader.
	var v *Version
	if existing, ok := t.readSet[page]; ok {
		v = existing
		delete(t.readSet, page)
	} else {
		v = page.resolveAccess(t)
	}

	vp := newVersion(t, page, v)
	t.updateSet[page] = vp
	v.addCandidate(t)
	return vp, v, nil
}

// End terminates t's local work, advancing the state machine as far as it
// can go synchronously. Repeated calls in a terminal or pending-global state
// are a no-op that just reports the current status.
func (t *Transaction) End() Status {
	switch t.status {
	case Running:
		t.runningToReady()
		if t.status == Ready {
			t.tryToPrepared()
		}
	case Ready:
		t.tryToPrepared()
	case Failed:
		t.failedToAborted()
	}
	return t.status
}

// Fail requests local failure of t.
func (t *Transaction) Fail() error {
	switch t.status {
	case Running, Ready:
		t.cascadeAbort(nil)
		return nil
	case Failed:
		return nil // diamond protection: repeated fail is a no-op
	default:
		return &ProtocolError{Op: "fail", Status: t.status}
	}
}

// Reprobe re-attempts graph removal for a terminal transaction t's Hooks
// implementation may have failed to act on the first time around. Removal
// is a pure function of the current sets, so re-checking it is always
// safe. It is a no-op unless t is Committed or Aborted.
func (t *Transaction) Reprobe() {
	switch t.status {
	case Committed:
		t.tryRemoveFromGraph()
	case Aborted:
		t.tryFinishAbortRemoval()
	}
}

// Commit records a global commit decision on a distributed transaction.
func (t *Transaction) Commit() error {
	if !t.IsDistributed() {
		return ErrNotDistributed
	}
	if t.status != Prepared {
		return &ProtocolError{Op: "commit", Status: t.status}
	}
	t.commitLocked()
	return nil
}

// Abort records a global abort decision on a distributed transaction.
func (t *Transaction) Abort() error {
	if !t.IsDistributed() {
		return ErrNotDistributed
	}
	if t.status != Prepared {
		return &ProtocolError{Op: "abort", Status: t.status}
	}
	t.cascadeAbort(nil)
	return nil
}
