package mvcc

import "testing"

func newTestPool(t *testing.T, coord *Coordinator, n int) []*Page {
	t.Helper()
	pages, boot := NewPagePool(coord, n)
	if boot.Status() != Committed {
		t.Fatalf("bootstrap transaction ended %s, want Committed", boot.Status())
	}
	return pages
}

func TestSingleTransactionCommits(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	tx := coord.NewTransaction()
	if tx.Status() != Running {
		t.Fatalf("new transaction status = %s, want Running", tx.Status())
	}

	newV, oldV, err := tx.Update(pages[0])
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if newV == oldV {
		t.Fatalf("Update returned the same version for new and initial")
	}

	status := tx.End()
	if status != Committed {
		t.Fatalf("End() = %s, want Committed", status)
	}
	if pages[0].latestVersion != newV {
		t.Fatalf("page.latestVersion not advanced to the committed write")
	}
}

func TestReadOnlyTransactionCommitsWithoutBlocking(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	tx := coord.NewTransaction()
	if _, err := tx.Read(pages[0]); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if status := tx.End(); status != Committed {
		t.Fatalf("End() = %s, want Committed", status)
	}
}

func TestConcurrentWritersOneCommitsOneAborts(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	t1 := coord.NewTransaction()
	t2 := coord.NewTransaction()

	if _, _, err := t1.Update(pages[0]); err != nil {
		t.Fatalf("t1.Update: %v", err)
	}
	if _, _, err := t2.Update(pages[0]); err != nil {
		t.Fatalf("t2.Update: %v", err)
	}

	s1 := t1.End()
	if s1 != Committed {
		t.Fatalf("t1.End() = %s, want Committed", s1)
	}

	s2 := t2.End()
	if s2 != Aborted {
		t.Fatalf("t2.End() = %s, want Aborted (lost the race to t1)", s2)
	}
}

func TestReaderPrecedesLaterWriterAndSurvivesItsCommit(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	reader := coord.NewTransaction()
	if _, err := reader.Read(pages[0]); err != nil {
		t.Fatalf("reader.Read: %v", err)
	}

	writer := coord.NewTransaction()
	if _, _, err := writer.Update(pages[0]); err != nil {
		t.Fatalf("writer.Update: %v", err)
	}

	if status := writer.End(); status != Ready {
		t.Fatalf("writer.End() = %s, want Ready (blocked on reader)", status)
	}

	if status := reader.End(); status != Committed {
		t.Fatalf("reader.End() = %s, want Committed", status)
	}

	if status := writer.Status(); status != Committed {
		t.Fatalf("writer.Status() after reader committed = %s, want Committed", status)
	}
}

func TestCascadingAbortReachesReaderOfAbortedWrite(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	// A distributed writer parks in Prepared instead of auto-committing, so
	// there's a window where another transaction can read its not-yet-final
	// write before the global coordinator decides to abort it.
	writer := coord.NewDistributedTransaction(nilGlobalID)
	if _, _, err := writer.Update(pages[0]); err != nil {
		t.Fatalf("writer.Update: %v", err)
	}
	if status := writer.End(); status != Prepared {
		t.Fatalf("writer.End() = %s, want Prepared", status)
	}

	reader := coord.NewTransaction()
	if _, err := reader.Read(pages[0]); err != nil {
		t.Fatalf("reader.Read: %v", err)
	}
	if reader.Status() != Running {
		t.Fatalf("reader.Status() = %s, want Running", reader.Status())
	}

	if err := writer.Abort(); err != nil {
		t.Fatalf("writer.Abort: %v", err)
	}
	if status := writer.Status(); status != Aborted {
		t.Fatalf("writer.Status() = %s, want Aborted", status)
	}

	if status := reader.Status(); status != Failed {
		t.Fatalf("reader.Status() after writer aborted = %s, want Failed", status)
	}

	if status := reader.End(); status != Aborted {
		t.Fatalf("reader.End() = %s, want Aborted", status)
	}
}

func TestFailOnPreparedIsProtocolError(t *testing.T) {
	coord := NewCoordinator()
	_ = newTestPool(t, coord, 1)

	tx := coord.NewDistributedTransaction(nilGlobalID)
	tx.End() // Running -> Ready -> (no predecessors) Prepared

	if tx.Status() != Prepared {
		t.Fatalf("distributed tx status = %s, want Prepared", tx.Status())
	}

	if err := tx.Fail(); err == nil {
		t.Fatalf("Fail() on Prepared transaction should be a protocol error")
	}
}

func TestDistributedCommitRequiresGlobalID(t *testing.T) {
	coord := NewCoordinator()
	tx := coord.NewTransaction()

	if err := tx.Commit(); err != ErrNotDistributed {
		t.Fatalf("Commit() on local transaction = %v, want ErrNotDistributed", err)
	}
}

func TestDistributedTransactionCommitsOnExplicitVote(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	tx := coord.NewDistributedTransaction(nilGlobalID)
	if !tx.IsDistributed() {
		t.Fatalf("distributed transaction reports IsDistributed() = false")
	}
	if _, _, err := tx.Update(pages[0]); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if status := tx.End(); status != Prepared {
		t.Fatalf("End() = %s, want Prepared (DefaultHooks.VoteYes no-ops for distributed trx)", status)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if tx.Status() != Committed {
		t.Fatalf("Status() after Commit = %s, want Committed", tx.Status())
	}
}

func TestDistributedTransactionAbortsOnExplicitDecision(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	tx := coord.NewDistributedTransaction(nilGlobalID)
	if _, _, err := tx.Update(pages[0]); err != nil {
		t.Fatalf("Update: %v", err)
	}
	tx.End()
	if tx.Status() != Prepared {
		t.Fatalf("Status() = %s, want Prepared", tx.Status())
	}

	if err := tx.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if tx.Status() != Aborted {
		t.Fatalf("Status() after Abort = %s, want Aborted", tx.Status())
	}
}

func TestUpdateAfterReadReusesReadVersion(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	tx := coord.NewTransaction()
	readV, err := tx.Read(pages[0])
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	_, initialV, err := tx.Update(pages[0])
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if initialV != readV {
		t.Fatalf("Update() after Read() re-resolved instead of reusing the read version")
	}
	if _, stillRead := tx.readSet[pages[0]]; stillRead {
		t.Fatalf("page still present in readSet after being promoted to updateSet")
	}
}

func TestRepeatedUpdateReturnsSameVersion(t *testing.T) {
	coord := NewCoordinator()
	pages := newTestPool(t, coord, 1)

	tx := coord.NewTransaction()
	v1, _, err := tx.Update(pages[0])
	if err != nil {
		t.Fatalf("first Update: %v", err)
	}
	v2, _, err := tx.Update(pages[0])
	if err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if v1 != v2 {
		t.Fatalf("Update() called twice on the same page returned different versions")
	}
}
