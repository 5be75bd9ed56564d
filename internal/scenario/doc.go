// Package scenario replays the coordinator's end-to-end seed scenarios from
// a YAML fixture, the same data-driven-test pattern internal/testhelper's
// examples_test.go uses for SQL queries: a fixture describes a sequence of
// named-transaction operations, and a small interpreter drives a
// mvcc.Coordinator through it, checking the status each step says to expect.
package scenario
