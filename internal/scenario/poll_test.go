package scenario

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventuallyMatchRetriesFetch(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	tc := &T{ctx: context.Background(), cfg: cfg}

	calls := 0
	output := tc.eventuallyMatch("veth-peer", "networkctl lldp", cfg.ConvergenceTimeout, func() string {
		calls++
		if calls < 3 {
			return "no neighbors"
		}

		return "LLDP neighbor on veth-peer"
	})

	require.Equal(t, 3, calls)
	require.Contains(t, output, "veth-peer")
}

func TestEventuallyLogFindsToken(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Responder.LogFile, []byte("dnsmasq-dhcp: vendor class: SusantVendorTest\n"), 0o600))

	tc := &T{ctx: context.Background(), cfg: cfg}
	tc.EventuallyLog("SusantVendorTest")

	require.NoError(t, tc.failure)
}

func TestEventuallyLogTimeoutReportsTail(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	content := "dnsmasq-dhcp: DHCPDISCOVER(veth-peer)\ndnsmasq-dhcp: DHCPOFFER(veth-peer)\n"
	require.NoError(t, os.WriteFile(cfg.Responder.LogFile, []byte(content), 0o600))

	tc := &T{ctx: context.Background(), cfg: cfg}

	func() {
		defer func() {
			_, ok := recover().(caseFailure)
			require.True(t, ok)
		}()

		tc.EventuallyLog("14:rapid-commit")
	}()

	require.Error(t, tc.failure)
	require.Contains(t, tc.failure.Error(), "14:rapid-commit")
	require.Contains(t, tc.failure.Error(), "DHCPOFFER(veth-peer)")
}

func TestLogTailTruncates(t *testing.T) {
	t.Parallel()

	lines := []string{}
	for i := 1; i <= 30; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}

	tail := logTail(strings.Join(lines, "\n")+"\n", 20)

	require.Contains(t, tail, "line 30")
	require.Contains(t, tail, "line 11")
	require.NotContains(t, tail, "line 10")
}
