// Package kernelstate provides read-only queries against live kernel
// network state: sysfs link attributes, per-interface sysctls and the
// textual output of the usual state-dumping commands.
package kernelstate

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/lxc/incus/v6/shared/subprocess"
)

var (
	// SysClassNetPath is the sysfs directory exposing network devices.
	SysClassNetPath = "/sys/class/net"

	// SysctlIPv4Path is the per-interface IPv4 sysctl tree.
	SysctlIPv4Path = "/proc/sys/net/ipv4/conf"

	// SysctlIPv6Path is the per-interface IPv6 sysctl tree.
	SysctlIPv6Path = "/proc/sys/net/ipv6/conf"
)

// LinkExists reports whether the named link is present in the kernel.
func LinkExists(link string) bool {
	_, err := os.Stat(filepath.Join(SysClassNetPath, link))

	return err == nil
}

// LinkAttr reads a single sysfs attribute of a link, e.g.
// LinkAttr("bridge99", "bridge", "stp_state").
func LinkAttr(link string, parts ...string) (string, error) {
	path := filepath.Join(append([]string{SysClassNetPath, link}, parts...)...)

	return readFirstLine(path)
}

// SysctlIPv4 reads a per-interface IPv4 sysctl value.
func SysctlIPv4(link string, attr string) (string, error) {
	return readFirstLine(filepath.Join(SysctlIPv4Path, link, attr))
}

// SysctlIPv6 reads a per-interface IPv6 sysctl value.
func SysctlIPv6(link string, attr string) (string, error) {
	return readFirstLine(filepath.Join(SysctlIPv6Path, link, attr))
}

func readFirstLine(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	line, _, _ := strings.Cut(string(content), "\n")

	return strings.TrimSpace(line), nil
}

// LinkDetails returns the detailed link dump for a device.
func LinkDetails(ctx context.Context, link string) (string, error) {
	return subprocess.RunCommandContext(ctx, "ip", "-d", "link", "show", link)
}

// Addresses returns the address listing for a device.
func Addresses(ctx context.Context, link string) (string, error) {
	return subprocess.RunCommandContext(ctx, "ip", "address", "show", "dev", link)
}

// Routes returns a route listing; extra arguments narrow the selection, e.g.
// Routes(ctx, "dev", "dummy98") or Routes(ctx, "show", "table", "12").
func Routes(ctx context.Context, args ...string) (string, error) {
	return subprocess.RunCommandContext(ctx, "ip", append([]string{"route", "list"}, args...)...)
}

// RoutingRules returns the routing policy rule listing.
func RoutingRules(ctx context.Context) (string, error) {
	return subprocess.RunCommandContext(ctx, "ip", "rule")
}

// AddressLabels returns the IPv6 address label listing.
func AddressLabels(ctx context.Context) (string, error) {
	return subprocess.RunCommandContext(ctx, "ip", "addrlabel", "list")
}

// BridgeLinkDetails returns the detailed bridge port dump for a device.
func BridgeLinkDetails(ctx context.Context, link string) (string, error) {
	return subprocess.RunCommandContext(ctx, "bridge", "-d", "link", "show", "dev", link)
}

// DeleteRoute removes a single route, identified the same way `ip route del`
// expects it. Used by scenarios that must clean up routes networkd created.
func DeleteRoute(ctx context.Context, args ...string) error {
	_, err := subprocess.RunCommandContext(ctx, "ip", append([]string{"route", "del"}, args...)...)

	return err
}
