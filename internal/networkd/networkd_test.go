package networkd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkd-conformance/harness/internal/kernelstate"
)

func TestWaitConvergedNoLinks(t *testing.T) {
	t.Parallel()

	require.NoError(t, WaitConverged(context.Background(), time.Second, 10*time.Millisecond))
}

func TestWaitLinksReturnsOnExistingLink(t *testing.T) {
	old := kernelstate.SysClassNetPath
	dir := filepath.Join(t.TempDir(), "net")
	kernelstate.SysClassNetPath = dir

	t.Cleanup(func() {
		kernelstate.SysClassNetPath = old
	})

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "veth99"), 0o755))

	// The link exists but has no daemon behind it, so any wait that
	// consults the daemon's setup state could not return here.
	require.NoError(t, WaitLinks(context.Background(), time.Second, 10*time.Millisecond, "veth99"))
}

func TestWaitLinksTimesOutOnMissingLink(t *testing.T) {
	old := kernelstate.SysClassNetPath
	kernelstate.SysClassNetPath = filepath.Join(t.TempDir(), "net")

	t.Cleanup(func() {
		kernelstate.SysClassNetPath = old
	})

	err := WaitLinks(context.Background(), 100*time.Millisecond, 10*time.Millisecond, "dummy98")
	require.Error(t, err)
	require.Contains(t, err.Error(), "dummy98")
}

func TestWaitConvergedTimesOutOnMissingLink(t *testing.T) {
	old := kernelstate.SysClassNetPath
	kernelstate.SysClassNetPath = filepath.Join(t.TempDir(), "net")

	t.Cleanup(func() {
		kernelstate.SysClassNetPath = old
	})

	err := WaitConverged(context.Background(), 100*time.Millisecond, 10*time.Millisecond, "veth99")
	require.Error(t, err)
	require.Contains(t, err.Error(), "veth99")
}
