package scenario

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkd-conformance/harness/internal/config"
)

// testConfig returns a configuration with short poll bounds and all paths
// pointed at temp directories, so no real kernel or daemon is touched.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.UnitDirectory = t.TempDir()
	cfg.UnitSourceDirectory = t.TempDir()
	cfg.RuntimeDirectory = t.TempDir()
	cfg.Responder.PIDFile = cfg.RuntimeDirectory + "/test.pid"
	cfg.Responder.LogFile = cfg.RuntimeDirectory + "/test.log"
	cfg.Responder.LeaseFile = cfg.RuntimeDirectory + "/lease"
	cfg.LinkSettleTimeout = 100 * time.Millisecond
	cfg.ConvergenceTimeout = 100 * time.Millisecond
	cfg.PollInterval = 10 * time.Millisecond

	return cfg
}

func TestDecideOutcome(t *testing.T) {
	t.Parallel()

	require.Equal(t, Passed, decideOutcome(false, false, true))
	require.Equal(t, Passed, decideOutcome(false, true, false))
	require.Equal(t, Failed, decideOutcome(true, false, true))
	require.Equal(t, Failed, decideOutcome(true, true, true))
	require.Equal(t, SkippedCapabilityUnavailable, decideOutcome(true, true, false))
}

func TestRunnerOutcomes(t *testing.T) {
	t.Parallel()

	group := Group{
		Name: "testgroup",
		Cases: []Case{
			{Name: "passing", Run: func(*T) {}},
			{Name: "failing", Run: func(t *T) {
				t.True(false, "deliberate failure")
			}},
		},
	}

	runner := NewRunner(testConfig(t))
	results := runner.Run(context.Background(), []Group{group}, RunOptions{})

	require.Len(t, results, 2)
	require.Equal(t, Passed, results[0].Outcome)
	require.NoError(t, results[0].Err)
	require.Equal(t, Failed, results[1].Outcome)
	require.ErrorContains(t, results[1].Err, "deliberate failure")
}

func TestRunnerFirstFailureStopsCase(t *testing.T) {
	t.Parallel()

	reached := false

	group := Group{
		Name: "testgroup",
		Cases: []Case{
			{Name: "failing", Run: func(t *T) {
				t.True(false, "first failure")
				reached = true
			}},
		},
	}

	runner := NewRunner(testConfig(t))
	results := runner.Run(context.Background(), []Group{group}, RunOptions{})

	require.Equal(t, Failed, results[0].Outcome)
	require.False(t, reached)
}

func TestRunnerFilters(t *testing.T) {
	t.Parallel()

	groups := []Group{
		{Name: "one", Cases: []Case{{Name: "a", Run: func(*T) {}}, {Name: "b", Run: func(*T) {}}}},
		{Name: "two", Cases: []Case{{Name: "a", Run: func(*T) {}}}},
	}

	runner := NewRunner(testConfig(t))

	results := runner.Run(context.Background(), groups, RunOptions{Group: "one"})
	require.Len(t, results, 2)

	results = runner.Run(context.Background(), groups, RunOptions{Case: "a"})
	require.Len(t, results, 2)

	results = runner.Run(context.Background(), groups, RunOptions{Group: "two", Case: "a"})
	require.Len(t, results, 1)
	require.Equal(t, "two", results[0].Group)
}

func TestRunnerUnexpectedPanicPropagates(t *testing.T) {
	t.Parallel()

	group := Group{
		Name: "testgroup",
		Cases: []Case{
			{Name: "panicking", Run: func(*T) {
				panic("unrelated bug")
			}},
		},
	}

	runner := NewRunner(testConfig(t))

	require.Panics(t, func() {
		runner.Run(context.Background(), []Group{group}, RunOptions{})
	})
}

func TestReport(t *testing.T) {
	t.Parallel()

	report := Report{Results: []Result{
		{Group: "g", Case: "ok", Outcome: Passed, Duration: time.Second},
		{Group: "g", Case: "bad", Outcome: Failed, Err: errors.New("expected 1, got 0")},
		{Group: "g", Case: "gated", Outcome: SkippedCapabilityUnavailable, Err: errors.New("no module")},
	}}

	require.True(t, report.Failed())

	var buf bytes.Buffer

	report.Write(&buf)

	output := buf.String()
	require.Contains(t, output, "PASS g/ok")
	require.Contains(t, output, "FAIL g/bad")
	require.Contains(t, output, "expected 1, got 0")
	require.Contains(t, output, "1 passed, 1 failed, 1 skipped")
}

func TestReportNoFailures(t *testing.T) {
	t.Parallel()

	report := Report{Results: []Result{
		{Group: "g", Case: "ok", Outcome: Passed},
		{Group: "g", Case: "gated", Outcome: SkippedCapabilityUnavailable, Err: errors.New("no module")},
	}}

	require.False(t, report.Failed())
}
