// Package scenario runs conformance scenarios against the daemon under
// test: fixture reset, unit staging, auxiliary process control, daemon
// restart, state assertions and teardown.
package scenario

import (
	"time"
)

// Outcome is the tagged result of one case.
type Outcome string

const (
	// Passed means every assertion held.
	Passed Outcome = "PASS"

	// Failed means an assertion or a setup step failed.
	Failed Outcome = "FAIL"

	// SkippedCapabilityUnavailable means the case failed but its required
	// kernel module is not available on this host, so the failure is
	// expected rather than a defect.
	SkippedCapabilityUnavailable Outcome = "SKIP"
)

// Case is a single conformance scenario.
type Case struct {
	Name string

	// RequiresModule names an optional kernel module. When set and the
	// module is unavailable, a failure of this case is demoted to
	// SkippedCapabilityUnavailable. The case still runs either way so a
	// newly-passing case stays visible.
	RequiresModule string

	Run func(*T)
}

// Group is a set of cases sharing a declared link and unit universe. The
// runner guarantees that none of Links exist before and after each case and
// that none of Units remain staged afterwards. Groups are plain values;
// nothing is shared between them.
type Group struct {
	Name  string
	Links []string
	Units []string

	// UsesResponder marks groups whose cases may start the DHCP/RA
	// responder; their teardown also stops it and removes its lease and
	// log files.
	UsesResponder bool

	Cases []Case
}

// Result records the outcome of one executed case.
type Result struct {
	Group    string
	Case     string
	Outcome  Outcome
	Err      error
	Duration time.Duration
}
