package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/localcommit/tinyco/internal/mvcc"
)

// File is the top-level shape of a scenario fixture (tests/scenarios.yml).
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Scenario is one seed scenario: a fresh page pool and a sequence of steps
// run against it in order.
type Scenario struct {
	Name  string `yaml:"name"`
	Pages int    `yaml:"pages"`
	Steps []Step `yaml:"steps"`
}

// Step is one operation against a named transaction. Trx is created the
// first time it's mentioned; Distributed only matters on that first mention.
type Step struct {
	Trx         string `yaml:"trx"`
	Distributed bool   `yaml:"distributed"`
	Op          string `yaml:"op"`
	Page        int    `yaml:"page,omitempty"`
	Want        string `yaml:"want,omitempty"`
}

// Load parses a scenario fixture from YAML bytes.
func Load(b []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(b, &f); err != nil {
		return File{}, fmt.Errorf("scenario: parse fixture: %w", err)
	}
	return f, nil
}

// Run replays one scenario against a fresh Coordinator and page pool,
// returning an error describing the first step that didn't match its Want.
func Run(s Scenario) error {
	coord := mvcc.NewCoordinator()
	n := s.Pages
	if n == 0 {
		n = 5
	}
	pages, _ := mvcc.NewPagePool(coord, n)

	trxs := make(map[string]*mvcc.Transaction)
	trxOf := func(st Step) *mvcc.Transaction {
		t, ok := trxs[st.Trx]
		if !ok {
			if st.Distributed {
				t = coord.NewDistributedTransaction(mvcc.GlobalID{})
			} else {
				t = coord.NewTransaction()
			}
			trxs[st.Trx] = t
		}
		return t
	}

	for i, st := range s.Steps {
		t := trxOf(st)

		var got string
		switch st.Op {
		case "read":
			if st.Page >= len(pages) {
				return fmt.Errorf("scenario %s step %d: page %d out of range", s.Name, i, st.Page)
			}
			if _, err := t.Read(pages[st.Page]); err != nil {
				return fmt.Errorf("scenario %s step %d (%s read P%d): %w", s.Name, i, st.Trx, st.Page, err)
			}
			got = t.Status().String()
		case "update":
			if _, _, err := t.Update(pages[st.Page]); err != nil {
				return fmt.Errorf("scenario %s step %d (%s update P%d): %w", s.Name, i, st.Trx, st.Page, err)
			}
			got = t.Status().String()
		case "end":
			got = t.End().String()
		case "fail":
			if err := t.Fail(); err != nil {
				return fmt.Errorf("scenario %s step %d (%s fail): %w", s.Name, i, st.Trx, err)
			}
			got = t.Status().String()
		case "commit":
			if err := t.Commit(); err != nil {
				return fmt.Errorf("scenario %s step %d (%s commit): %w", s.Name, i, st.Trx, err)
			}
			got = t.Status().String()
		case "abort":
			if err := t.Abort(); err != nil {
				return fmt.Errorf("scenario %s step %d (%s abort): %w", s.Name, i, st.Trx, err)
			}
			got = t.Status().String()
		case "removed":
			if t.Removed() {
				got = "true"
			} else {
				got = "false"
			}
		default:
			return fmt.Errorf("scenario %s step %d: unknown op %q", s.Name, i, st.Op)
		}

		if st.Want != "" && got != st.Want {
			return fmt.Errorf("scenario %s step %d (%s %s): got %s, want %s", s.Name, i, st.Trx, st.Op, got, st.Want)
		}
	}
	return nil
}
