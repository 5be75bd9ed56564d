package mvcc

// Version is a single, immutable-identity record describing one state of
// one Page written by one Transaction. It owns back-references to its
// writer, its readers, its superseder and its candidates, plus the version
// it was forked from.
type Version struct {
	page          *Page
	versionNumber VersionNo

	// writerTrx is nulled when the transaction that superseded this version
	// commits (enterCommitted, which also drops the version from the
	// writer's updateSet), or when an aborted writer leaves the graph
	// (tryFinishAbortRemoval).
	writerTrx *Transaction

	readerTrxs    map[*Transaction]struct{}
	candidateTrxs map[*Transaction]struct{}
	supersederTrx *Transaction

	prevPageVersion *Version
}

func newVersion(writer *Transaction, page *Page, prev *Version) *Version {
	page.versionCounter++
	return &Version{
		page:            page,
		versionNumber:   page.versionCounter,
		writerTrx:       writer,
		readerTrxs:      make(map[*Transaction]struct{}),
		candidateTrxs:   make(map[*Transaction]struct{}),
		prevPageVersion: prev,
	}
}

// Page returns the page this version belongs to, or nil if the version has
// already been reclaimed.
func (v *Version) Page() *Page { return v.page }

// Number returns the version's sequence number within its page.
func (v *Version) Number() VersionNo { return v.versionNumber }

// writerStatus exposes the writer's status without giving callers a live
// handle on the writer transaction itself.
func (v *Version) writerStatus() Status {
	if v.writerTrx == nil {
		// A version whose writer has been cleared only exists this way
		// after the writer committed and was reclaimed; treat it as
		// Committed for any caller still asking.
		return Committed
	}
	return v.writerTrx.status
}

func (v *Version) addReader(t *Transaction) {
	v.readerTrxs[t] = struct{}{}
}

func (v *Version) removeReader(t *Transaction) {
	delete(v.readerTrxs, t)
}

func (v *Version) addCandidate(t *Transaction) {
	v.candidateTrxs[t] = struct{}{}
}

func (v *Version) removeCandidate(t *Transaction) {
	delete(v.candidateTrxs, t)
}

// tryRemove reclaims the version once it has no writer, no readers and no
// superseder. Safe to call spuriously; returns whether the version was
// actually removed.
func (v *Version) tryRemove() bool {
	if v.writerTrx != nil || len(v.readerTrxs) != 0 || v.supersederTrx != nil {
		return false
	}
	v.page = nil
	v.prevPageVersion = nil
	return true
}
