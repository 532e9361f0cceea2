package fixture

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkd-conformance/harness/internal/kernelstate"
)

func fakeSysfs(t *testing.T) {
	t.Helper()

	old := kernelstate.SysClassNetPath
	kernelstate.SysClassNetPath = filepath.Join(t.TempDir(), "net")

	t.Cleanup(func() {
		kernelstate.SysClassNetPath = old
	})
}

func TestResetNoLinks(t *testing.T) {
	t.Parallel()

	require.NoError(t, Reset(context.Background(), time.Second, 10*time.Millisecond))
}

func TestResetAbsentLinksAreNoOps(t *testing.T) {
	fakeSysfs(t)

	// Neither link exists: no deletion is attempted and the settle
	// condition holds immediately.
	require.NoError(t, Reset(context.Background(), time.Second, 10*time.Millisecond, "bridge99", "bond99"))
}

func TestResetTimesOutOnPersistentLink(t *testing.T) {
	fakeSysfs(t)

	// A link entry nothing will ever remove: the deletion attempt fails
	// (and is swallowed), then the settle poll runs out.
	require.NoError(t, os.MkdirAll(filepath.Join(kernelstate.SysClassNetPath, "stuck0"), 0o755))

	err := Reset(context.Background(), 100*time.Millisecond, 10*time.Millisecond, "stuck0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "stuck0")
}

func TestResetContextCancellation(t *testing.T) {
	fakeSysfs(t)

	require.NoError(t, os.MkdirAll(filepath.Join(kernelstate.SysClassNetPath, "stuck0"), 0o755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Reset(ctx, time.Minute, 10*time.Millisecond, "stuck0")
	require.ErrorIs(t, err, context.Canceled)
}
