package mvcc

// Retry runs body against a fresh transaction, ending it and starting over
// with a new one whenever it comes back Aborted. When body succeeds, it
// returns the transaction in whatever non-Aborted status it finally reached.
//
// body is expected to call Read/Update itself; Retry calls End after body
// returns and owns the "give me a new transaction and try again" loop
// around it. If body returns
// a non-nil error, Retry fails the transaction, ends it, and propagates the
// error rather than retrying — a body error means something other than a
// commitment-ordering conflict went wrong.
func Retry(coord *Coordinator, body func(t *Transaction) error) (*Transaction, Status, error) {
	for {
		t := coord.NewTransaction()

		if err := body(t); err != nil {
			t.Fail()
			t.End()
			return t, t.Status(), err
		}

		status := t.End()
		if status != Aborted {
			return t, status, nil
		}
	}
}
