// Package networkd controls the daemon under test. The daemon exposes no
// completion signal for configuration application, so convergence is
// approximated by polling the same state queries the scenarios assert on.
package networkd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lxc/incus/v6/shared/subprocess"

	"github.com/networkd-conformance/harness/internal/kernelstate"
)

// UnitName is the systemd unit of the daemon under test.
var UnitName = "systemd-networkd"

// Restart performs a full stop+start of the daemon.
func Restart(ctx context.Context) error {
	slog.Info("Restarting daemon", "unit", UnitName)

	_, err := subprocess.RunCommandContext(ctx, "systemctl", "restart", UnitName)
	if err != nil {
		return err
	}

	return nil
}

// Status returns the daemon's status report for a single link.
func Status(ctx context.Context, link string) (string, error) {
	return subprocess.RunCommandContext(ctx, "networkctl", "status", link)
}

// LLDP returns the daemon's LLDP neighbor table.
func LLDP(ctx context.Context) (string, error) {
	return subprocess.RunCommandContext(ctx, "networkctl", "lldp")
}

// WaitLinks polls until every named link exists in the kernel, without
// consulting the daemon's setup state. A DHCP client link stays in
// "configuring" until it obtains a lease, so scenarios that run their own
// lease server wait on link existence only and let their assertions poll
// for the lease afterwards.
func WaitLinks(ctx context.Context, timeout time.Duration, tick time.Duration, links ...string) error {
	endTime := time.Now().Add(timeout)

	for {
		pending := ""

		for _, link := range links {
			if !kernelstate.LinkExists(link) {
				pending = link

				break
			}
		}

		if pending == "" {
			return nil
		}

		if time.Now().After(endTime) {
			return fmt.Errorf("timed out waiting for link %q to appear", pending)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tick):
		}
	}
}

// WaitConverged polls until every named link exists and the daemon no longer
// reports it as pending or configuring, or until the timeout expires.
func WaitConverged(ctx context.Context, timeout time.Duration, tick time.Duration, links ...string) error {
	endTime := time.Now().Add(timeout)

	for {
		pending := ""

		for _, link := range links {
			if !kernelstate.LinkExists(link) {
				pending = link

				break
			}

			output, err := Status(ctx, link)
			if err != nil || strings.Contains(output, "State: pending") || strings.Contains(output, "(configuring)") {
				pending = link

				break
			}
		}

		if pending == "" {
			return nil
		}

		if time.Now().After(endTime) {
			return fmt.Errorf("timed out waiting for %q to converge", pending)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tick):
		}
	}
}
