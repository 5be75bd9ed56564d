package mvcc

// Page is a named mutable object transactions read and update. Its
// versionCounter is monotonic within the page; its latestVersion is always
// the head of the page's linear public chain.
type Page struct {
	ordinal        int
	latestVersion  *Version
	versionCounter VersionNo
}

// Ordinal returns the page's stable identity.
func (p *Page) Ordinal() int { return p.ordinal }

// ChainDepth walks the page's public version chain and reports how many
// versions are still reachable from latestVersion. A healthy page under
// light contention stays at 1; a deep chain means something is pinning old
// versions (a long-Prepared transaction, a forgotten reader) and is worth a
// maintenance sweep's attention.
func (p *Page) ChainDepth() int {
	n := 0
	for v := p.latestVersion; v != nil; v = v.prevPageVersion {
		n++
	}
	return n
}

// bootstrap creates the page's root version directly, bypassing
// resolveAccess since there is nothing yet to fork from.
func (p *Page) bootstrap(writer *Transaction) *Version {
	v := newVersion(writer, p, nil)
	p.latestVersion = v
	writer.updateSet[p] = v
	return v
}

// resolveAccess is the heart of the coordinator: starting from the latest
// public version, walk backwards through the chain until landing on a
// version whose writer does not succeed t. The committed root can never
// succeed anyone, so the walk is guaranteed to terminate.
func (p *Page) resolveAccess(t *Transaction) *Version {
	if p.latestVersion == nil {
		panic(ErrNoCommittedVersion)
	}
	v := p.latestVersion
	for v.writerTrx != nil && v.writerTrx.doesSucceed(t) {
		v = v.prevPageVersion
		if v == nil {
			invariantViolation("page %d: walked off the version chain without finding a non-succeeding writer", p.ordinal)
		}
	}
	p.recordAccess(t, v)
	return v
}

// recordAccess is called by resolveAccess with the version selected for t.
func (p *Page) recordAccess(t *Transaction, v *Version) {
	v.addReader(t)

	if v.writerTrx != nil && v.writerTrx.status != Committed {
		precedes(v.writerTrx, t)
	}

	if v.supersederTrx != nil && !v.supersederTrx.doesSucceed(t) {
		invariantViolation("version %d of page %d: superseder %d does not succeed accessor %d", v.versionNumber, p.ordinal, v.supersederTrx.id, t.id)
	}
}
