// Package fixture enforces the per-scenario precondition and postcondition
// that a declared set of link names is absent from the kernel.
package fixture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lxc/incus/v6/shared/subprocess"

	"github.com/networkd-conformance/harness/internal/kernelstate"
)

// Reset deletes every named link currently present in the kernel, then polls
// until all of them are gone. Deletion failures for individual links are
// swallowed: a link the kernel is concurrently tearing down must not abort
// the reset. A link still present when the settle timeout expires is an
// error.
func Reset(ctx context.Context, settle time.Duration, tick time.Duration, links ...string) error {
	for _, link := range links {
		if !kernelstate.LinkExists(link) {
			continue
		}

		_, err := subprocess.RunCommandContext(ctx, "ip", "link", "del", "dev", link)
		if err != nil {
			slog.Debug("Link deletion failed", "link", link, "err", err)
		}
	}

	endTime := time.Now().Add(settle)

	for {
		remaining := ""

		for _, link := range links {
			if kernelstate.LinkExists(link) {
				remaining = link

				break
			}
		}

		if remaining == "" {
			return nil
		}

		if time.Now().After(endTime) {
			return fmt.Errorf("timed out waiting for link %q to be removed", remaining)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(tick):
		}
	}
}
