package auxproc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/networkd-conformance/harness/internal/config"
)

func TestResponderArgs(t *testing.T) {
	t.Parallel()

	r := config.Default().Responder
	args := ResponderArgs(r)

	require.Contains(t, args, "--interface=veth-peer")
	require.Contains(t, args, "--enable-ra")
	require.Contains(t, args, "--dhcp-range=2600::10,2600::20")
	require.Contains(t, args, "--dhcp-range=192.168.5.10,192.168.5.200,120")
	require.Contains(t, args, "--dhcp-option=26,1492")
	require.Contains(t, args, "--dhcp-option=option:router,192.168.5.1")
	require.Contains(t, args, "--dhcp-option=33,192.168.5.4,192.168.5.5")
	require.Contains(t, args, "--pid-file="+r.PIDFile)
	require.Contains(t, args, "--dhcp-leasefile="+r.LeaseFile)
}

func TestResponderArgsLeaseTime(t *testing.T) {
	t.Parallel()

	r := config.Default().Responder
	r.MinLeaseTime = 5 * time.Minute

	require.Contains(t, ResponderArgs(r), "--dhcp-range=192.168.5.10,192.168.5.200,300")
}

func TestStopMissingPIDFile(t *testing.T) {
	t.Parallel()

	require.NoError(t, Stop(filepath.Join(t.TempDir(), "absent.pid")))
}

func TestStopInvalidPIDFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.pid")
	require.NoError(t, os.WriteFile(path, []byte("not-a-pid"), 0o644))

	require.Error(t, Stop(path))
}

func TestStopStalePID(t *testing.T) {
	t.Parallel()

	// A PID far beyond any valid pid_max: the signal fails, which is
	// swallowed, and the PID file is still removed.
	path := filepath.Join(t.TempDir(), "stale.pid")
	require.NoError(t, os.WriteFile(path, []byte("999999999\n"), 0o644))

	require.NoError(t, Stop(path))
	require.NoFileExists(t, path)
}

func TestScanLog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dnsmasq.log")
	content := "dnsmasq-dhcp[123]: DHCPDISCOVER(veth-peer) 12:34:56:78:9a:bc\nrequested options: 26:mtu, 33:static-route\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// Substring of a whitespace-delimited token.
	require.True(t, ScanLog(path, "26:mtu"))
	require.True(t, ScanLog(path, "12:34:56:78:9a:bc"))
	require.True(t, ScanLog(path, "DHCPDISCOVER"))

	require.False(t, ScanLog(path, "14:rapid-commit"))

	// Needles spanning a token boundary don't match.
	require.False(t, ScanLog(path, "DHCPDISCOVER(veth-peer) 12:34"))
}

func TestContainsToken(t *testing.T) {
	t.Parallel()

	require.True(t, ContainsToken("client provides name: test-hostname", "test-hostname"))
	require.True(t, ContainsToken("requested options: 26:mtu, 33:static-route", "26:mtu"))
	require.False(t, ContainsToken("client provides name: test-hostname", "provides name"))
	require.False(t, ContainsToken("", "anything"))
}

func TestScanLogMissingFile(t *testing.T) {
	t.Parallel()

	require.False(t, ScanLog(filepath.Join(t.TempDir(), "absent.log"), "anything"))
}

func TestModuleListed(t *testing.T) {
	t.Parallel()

	lsmodOutput := `Module                  Size  Used by
vrf                    49152  0
vxlan                 106496  0
ip6_tunnel             45056  1
`

	require.True(t, moduleListed(lsmodOutput, "vrf"))
	require.True(t, moduleListed(lsmodOutput, "vxlan"))

	// Whole-token match only.
	require.False(t, moduleListed(lsmodOutput, "vr"))
	require.False(t, moduleListed(lsmodOutput, "ip6"))
	require.False(t, moduleListed(lsmodOutput, "nonexistent-module-xyz"))
	require.False(t, moduleListed("", "vrf"))
}

func TestRemoveRuntimeFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Responder.LeaseFile = filepath.Join(dir, "lease")
	cfg.Responder.LogFile = filepath.Join(dir, "log")

	require.NoError(t, os.WriteFile(cfg.Responder.LeaseFile, []byte("lease"), 0o644))

	// One file present, one absent: both end up gone, no panic.
	RemoveRuntimeFiles(cfg)

	require.NoFileExists(t, cfg.Responder.LeaseFile)
	require.NoFileExists(t, cfg.Responder.LogFile)
}
