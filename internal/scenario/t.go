package scenario

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/lxc/incus/v6/shared/subprocess"

	"github.com/networkd-conformance/harness/internal/auxproc"
	"github.com/networkd-conformance/harness/internal/config"
	"github.com/networkd-conformance/harness/internal/kernelstate"
	"github.com/networkd-conformance/harness/internal/networkd"
	"github.com/networkd-conformance/harness/internal/staging"
)

// caseFailure is the panic value used to unwind a case after its first
// failed step or assertion.
type caseFailure struct{}

// T is the per-case context handed to a scenario's Run function. Step
// helpers and assertions terminate the case on their first failure; the
// recorded error names the command or query, the expected value and the
// observed text.
type T struct {
	ctx     context.Context
	cfg     *config.Config
	failure error
}

// Context returns the case context.
func (t *T) Context() context.Context {
	return t.ctx
}

// Config returns the harness configuration.
func (t *T) Config() *config.Config {
	return t.cfg
}

func (t *T) fail(err error) {
	t.failure = err
	panic(caseFailure{})
}

func (t *T) failf(format string, args ...any) {
	t.fail(fmt.Errorf(format, args...))
}

// StageUnits copies the named unit files into the daemon's unit directory.
func (t *T) StageUnits(units ...string) {
	err := staging.Stage(t.cfg.UnitSourceDirectory, t.cfg.UnitDirectory, units...)
	if err != nil {
		t.failf("staging units: %w", err)
	}
}

// RestartDaemon restarts the daemon under test and waits for the named
// links to exist and converge.
func (t *T) RestartDaemon(links ...string) {
	err := networkd.Restart(t.ctx)
	if err != nil {
		t.failf("restarting daemon: %w", err)
	}

	err = networkd.WaitConverged(t.ctx, t.cfg.ConvergenceTimeout, t.cfg.PollInterval, links...)
	if err != nil {
		t.fail(err)
	}
}

// RestartDaemonLinksOnly restarts the daemon under test and waits only for
// the named links to exist, not for their setup state to settle. Used when
// settling depends on a peer the scenario starts afterwards, such as a DHCP
// client link whose lease server is the responder.
func (t *T) RestartDaemonLinksOnly(links ...string) {
	err := networkd.Restart(t.ctx)
	if err != nil {
		t.failf("restarting daemon: %w", err)
	}

	err = networkd.WaitLinks(t.ctx, t.cfg.ConvergenceTimeout, t.cfg.PollInterval, links...)
	if err != nil {
		t.fail(err)
	}
}

// StartResponder launches the DHCP/RA responder and waits for it to come up.
func (t *T) StartResponder() {
	err := auxproc.StartResponder(t.ctx, t.cfg)
	if err != nil {
		t.failf("starting responder: %w", err)
	}
}

// StopResponder terminates the responder through its PID file.
func (t *T) StopResponder() {
	err := auxproc.Stop(t.cfg.Responder.PIDFile)
	if err != nil {
		t.failf("stopping responder: %w", err)
	}
}

// ScanLog reports whether needle occurs in the responder log.
func (t *T) ScanLog(needle string) bool {
	return auxproc.ScanLog(t.cfg.Responder.LogFile, needle)
}

// Sleep waits out a fixed interval, honoring case cancellation. Only used
// where no observable condition exists to poll on, such as waiting past a
// lease expiry.
func (t *T) Sleep(d time.Duration) {
	select {
	case <-t.ctx.Done():
		t.fail(t.ctx.Err())
	case <-time.After(d):
	}
}

// RunCommand runs an arbitrary external command and returns its output,
// failing the case on error.
func (t *T) RunCommand(name string, args ...string) string {
	output, err := subprocess.RunCommandContext(t.ctx, name, args...)
	if err != nil {
		t.failf("running %q: %w", name, err)
	}

	return output
}

// RequireLink asserts that a link exists in the kernel.
func (t *T) RequireLink(link string) {
	if !kernelstate.LinkExists(link) {
		t.failf("link %q does not exist", link)
	}
}

// Status returns the daemon status report for a link.
func (t *T) Status(link string) string {
	output, err := networkd.Status(t.ctx, link)
	if err != nil {
		t.failf("networkctl status %s: %w", link, err)
	}

	return output
}

// LLDP returns the daemon's LLDP neighbor table.
func (t *T) LLDP() string {
	output, err := networkd.LLDP(t.ctx)
	if err != nil {
		t.failf("networkctl lldp: %w", err)
	}

	return output
}

// LinkDetails returns the detailed link dump for a device.
func (t *T) LinkDetails(link string) string {
	output, err := kernelstate.LinkDetails(t.ctx, link)
	if err != nil {
		t.failf("ip -d link show %s: %w", link, err)
	}

	return output
}

// Addresses returns the address listing for a device.
func (t *T) Addresses(link string) string {
	output, err := kernelstate.Addresses(t.ctx, link)
	if err != nil {
		t.failf("ip address show dev %s: %w", link, err)
	}

	return output
}

// Routes returns a route listing.
func (t *T) Routes(args ...string) string {
	output, err := kernelstate.Routes(t.ctx, args...)
	if err != nil {
		t.failf("ip route list %v: %w", args, err)
	}

	return output
}

// RoutingRules returns the routing policy rule listing.
func (t *T) RoutingRules() string {
	output, err := kernelstate.RoutingRules(t.ctx)
	if err != nil {
		t.failf("ip rule: %w", err)
	}

	return output
}

// AddressLabels returns the IPv6 address label listing.
func (t *T) AddressLabels() string {
	output, err := kernelstate.AddressLabels(t.ctx)
	if err != nil {
		t.failf("ip addrlabel list: %w", err)
	}

	return output
}

// BridgeLinkDetails returns the detailed bridge port dump for a device.
func (t *T) BridgeLinkDetails(link string) string {
	output, err := kernelstate.BridgeLinkDetails(t.ctx, link)
	if err != nil {
		t.failf("bridge -d link show dev %s: %w", link, err)
	}

	return output
}

// DeleteRoute removes a route the scenario created through the daemon.
// Best effort: a route already gone is fine.
func (t *T) DeleteRoute(args ...string) {
	_ = kernelstate.DeleteRoute(t.ctx, args...)
}

// AttrEqual asserts the exact value of a sysfs link attribute.
func (t *T) AttrEqual(want string, link string, parts ...string) {
	got, err := kernelstate.LinkAttr(link, parts...)
	if err != nil {
		t.failf("reading attribute %v of %q: %w", parts, link, err)
	}

	if got != want {
		t.failf("attribute %v of %q: expected %q, got %q", parts, link, want, got)
	}
}

// SysctlV4Equal asserts the exact value of a per-interface IPv4 sysctl.
func (t *T) SysctlV4Equal(want string, link string, attr string) {
	got, err := kernelstate.SysctlIPv4(link, attr)
	if err != nil {
		t.failf("reading ipv4 sysctl %q of %q: %w", attr, link, err)
	}

	if got != want {
		t.failf("ipv4 sysctl %q of %q: expected %q, got %q", attr, link, want, got)
	}
}

// SysctlV6Equal asserts the exact value of a per-interface IPv6 sysctl.
func (t *T) SysctlV6Equal(want string, link string, attr string) {
	got, err := kernelstate.SysctlIPv6(link, attr)
	if err != nil {
		t.failf("reading ipv6 sysctl %q of %q: %w", attr, link, err)
	}

	if got != want {
		t.failf("ipv6 sysctl %q of %q: expected %q, got %q", attr, link, want, got)
	}
}

// Match asserts that output matches a regular expression. The source names
// the command the output came from, for failure reporting.
func (t *T) Match(output string, pattern string, source string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.failf("bad pattern %q: %w", pattern, err)
	}

	if !re.MatchString(output) {
		t.failf("%s: expected match for %q, got:\n%s", source, pattern, output)
	}
}

// NotMatch asserts that output does not match a regular expression.
func (t *T) NotMatch(output string, pattern string, source string) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.failf("bad pattern %q: %w", pattern, err)
	}

	if re.MatchString(output) {
		t.failf("%s: expected no match for %q, got:\n%s", source, pattern, output)
	}
}

// True asserts an arbitrary condition.
func (t *T) True(ok bool, format string, args ...any) {
	if !ok {
		t.failf(format, args...)
	}
}
