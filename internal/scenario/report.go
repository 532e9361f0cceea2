package scenario

import (
	"fmt"
	"io"
	"time"
)

// Report summarizes a run's results.
type Report struct {
	Results []Result
}

// Failed reports whether any case hard-failed. Demoted
// capability-unavailable cases do not count.
func (r *Report) Failed() bool {
	for _, result := range r.Results {
		if result.Outcome == Failed {
			return true
		}
	}

	return false
}

// Write prints a per-case line, failure details and a summary.
func (r *Report) Write(w io.Writer) {
	counts := map[Outcome]int{}

	for _, result := range r.Results {
		counts[result.Outcome]++

		fmt.Fprintf(w, "%-4s %s/%s (%s)\n", result.Outcome, result.Group, result.Case, result.Duration.Round(time.Millisecond))
	}

	for _, result := range r.Results {
		if result.Outcome == Passed || result.Err == nil {
			continue
		}

		fmt.Fprintf(w, "\n%s %s/%s:\n  %v\n", result.Outcome, result.Group, result.Case, result.Err)
	}

	fmt.Fprintf(w, "\n%d passed, %d failed, %d skipped (capability unavailable)\n",
		counts[Passed], counts[Failed], counts[SkippedCapabilityUnavailable])
}
