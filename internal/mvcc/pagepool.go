package mvcc

// NewPagePool creates n fresh Pages and gives each one a root committed
// version, all within a single bootstrap transaction, so every page's first
// version shares a single writer. The bootstrap transaction is local; it
// commits synchronously and is returned so a host that wants to observe it
// can.
func NewPagePool(coord *Coordinator, n int) (pages []*Page, bootstrap *Transaction) {
	pages = make([]*Page, n)
	for i := range pages {
		pages[i] = &Page{ordinal: i}
	}

	bootstrap = coord.NewTransaction()
	for _, p := range pages {
		p.bootstrap(bootstrap)
	}

	if status := bootstrap.End(); status != Committed {
		invariantViolation("page pool bootstrap transaction ended %s, not Committed", status)
	}

	return pages, bootstrap
}
