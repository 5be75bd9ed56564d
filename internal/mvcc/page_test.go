package mvcc

import "testing"

func TestResolveAccessWalksBackPastSucceedingWriters(t *testing.T) {
	p := &Page{ordinal: 0}
	root := newBareTrx(1)
	root.status = Committed
	rootV := newVersion(root, p, nil)
	p.latestVersion = rootV

	later := newBareTrx(2)
	later.status = Ready
	laterV := newVersion(later, p, rootV)
	p.latestVersion = laterV
	rootV.supersederTrx = later

	// accessor precedes later (so later succeeds accessor): must walk back
	// to rootV rather than accepting laterV.
	accessor := newBareTrx(3)
	precedes(accessor, later)

	v := p.resolveAccess(accessor)
	if v != rootV {
		t.Fatalf("resolveAccess returned version %d, want the root version", v.versionNumber)
	}
}

func TestResolveAccessAcceptsLatestWhenItDoesNotSucceed(t *testing.T) {
	p := &Page{ordinal: 0}
	root := newBareTrx(1)
	root.status = Committed
	rootV := newVersion(root, p, nil)
	p.latestVersion = rootV

	accessor := newBareTrx(2)
	v := p.resolveAccess(accessor)
	if v != rootV {
		t.Fatalf("resolveAccess returned version %d, want the root version", v.versionNumber)
	}
	if _, ok := rootV.readerTrxs[accessor]; !ok {
		t.Fatal("resolveAccess should record the accessor as a reader")
	}
}

func TestResolveAccessPanicsWithoutCommittedVersion(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("resolveAccess on a page with no latestVersion should panic")
		}
	}()
	p := &Page{ordinal: 0}
	p.resolveAccess(newBareTrx(1))
}

func TestRecordAccessAddsPrecedenceForUncommittedWriter(t *testing.T) {
	p := &Page{ordinal: 0}
	writer := newBareTrx(1)
	writer.status = Ready
	v := newVersion(writer, p, nil)
	p.latestVersion = v

	accessor := newBareTrx(2)
	p.recordAccess(accessor, v)

	if !accessor.doesSucceed(writer) {
		t.Fatal("recordAccess should make the accessor succeed the uncommitted writer")
	}
}

func TestRecordAccessSkipsPrecedenceForCommittedWriter(t *testing.T) {
	p := &Page{ordinal: 0}
	writer := newBareTrx(1)
	writer.status = Committed
	v := newVersion(writer, p, nil)
	p.latestVersion = v

	accessor := newBareTrx(2)
	p.recordAccess(accessor, v)

	if accessor.doesSucceed(writer) || len(accessor.prevTrxs) != 0 {
		t.Fatal("recordAccess should not add an edge for an already-committed writer")
	}
}
