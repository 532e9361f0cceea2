package suite

import (
	"github.com/networkd-conformance/harness/internal/scenario"
)

// networkGroup covers per-link network policy: addresses, routes, routing
// policy rules, sysctls and link-level settings.
func networkGroup() scenario.Group {
	return scenario.Group{
		Name:  "network",
		Links: []string{"dummy98", "test1", "bond199"},
		Units: []string{
			"12-dummy.netdev", "test-static.network", "configure-without-carrier.network",
			"11-dummy.netdev", "23-primary-slave.network", "23-test1-bond199.network",
			"23-bond199.network", "25-bond-active-backup-slave.netdev",
			"23-active-slave.network", "routing-policy-rule.network",
			"25-address-section.network", "25-address-section-miscellaneous.network",
			"25-route-section.network", "25-route-type.network",
			"25-route-tcp-window-settings.network", "25-address-link-section.network",
			"25-ipv6-address-label-section.network", "25-link-section-unmanaged.network",
			"25-sysctl.network",
		},
		Cases: []scenario.Case{
			{Name: "static-address", Run: networkStaticAddress},
			{Name: "configure-without-carrier", Run: networkConfigureWithoutCarrier},
			{Name: "bond-active-slave", Run: networkBondActiveSlave},
			{Name: "bond-primary-slave", Run: networkBondPrimarySlave},
			{Name: "routing-policy-rule", Run: networkRoutingPolicyRule},
			{Name: "address-preferred-lifetime-zero-ipv6", Run: networkAddressPreferredLifetimeZero},
			{Name: "route", Run: networkRoute},
			{Name: "route-blackhole-unreachable-prohibit", Run: networkRouteTypes},
			{Name: "route-tcp-window", Run: networkRouteTCPWindow},
			{Name: "link-mac-address", Run: networkLinkMACAddress},
			{Name: "link-unmanaged", Run: networkLinkUnmanaged},
			{Name: "ipv6-address-label", Run: networkIPv6AddressLabel},
			{Name: "sysctl", Run: networkSysctl},
		},
	}
}

func networkStaticAddress(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "test-static.network")
	t.RestartDaemon("dummy98")

	output := t.EventuallyStatus("dummy98", "routable")
	t.Match(output, "192[.]168[.]0[.]15", "networkctl status dummy98")
	t.Match(output, "192[.]168[.]0[.]1", "networkctl status dummy98")
}

func networkConfigureWithoutCarrier(t *scenario.T) {
	t.StageUnits("configure-without-carrier.network", "11-dummy.netdev")
	t.RestartDaemon("test1")

	output := t.EventuallyStatus("test1", "routable")
	t.Match(output, "192[.]168[.]0[.]15", "networkctl status test1")
	t.Match(output, "192[.]168[.]0[.]1", "networkctl status test1")
}

func networkBondActiveSlave(t *scenario.T) {
	t.StageUnits("23-active-slave.network", "23-bond199.network", "25-bond-active-backup-slave.netdev", "12-dummy.netdev")
	t.RestartDaemon("dummy98", "bond199")

	output := t.LinkDetails("bond199")
	t.Match(output, "active_slave dummy98", "ip -d link show bond199")
}

func networkBondPrimarySlave(t *scenario.T) {
	t.StageUnits("23-primary-slave.network", "23-test1-bond199.network", "25-bond-active-backup-slave.netdev", "11-dummy.netdev")
	t.RestartDaemon("test1", "bond199")

	output := t.LinkDetails("bond199")
	t.Match(output, "primary test1", "ip -d link show bond199")
}

func networkRoutingPolicyRule(t *scenario.T) {
	t.StageUnits("routing-policy-rule.network", "11-dummy.netdev")
	t.RestartDaemon("test1")

	output := t.RoutingRules()
	t.Match(output, "111", "ip rule")
	t.Match(output, "from 192[.]168[.]100[.]18", "ip rule")
	t.Match(output, `tos (?:0x08|throughput)\s`, "ip rule")
	t.Match(output, "iif test1", "ip rule")
	t.Match(output, "oif test1", "ip rule")
	t.Match(output, "lookup 7", "ip rule")
}

func networkAddressPreferredLifetimeZero(t *scenario.T) {
	t.StageUnits("25-address-section-miscellaneous.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	output := t.EventuallyAddresses("dummy98", "inet 10[.]2[.]3[.]4/16 brd 10[.]2[.]255[.]255 scope link deprecated dummy98")
	t.Match(output, "inet6 2001:db8:0:f101::1/64 scope global", "ip address show dev dummy98")
}

func networkRoute(t *scenario.T) {
	t.StageUnits("25-route-section.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	output := t.EventuallyRoutes("192[.]168[.]0[.]1", "dev", "dummy98")
	t.Match(output, "static", "ip route list dev dummy98")
	t.Match(output, "192[.]168[.]0[.]0/24", "ip route list dev dummy98")
}

func networkRouteTypes(t *scenario.T) {
	t.StageUnits("25-route-type.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	output := t.EventuallyRoutes("blackhole")
	t.Match(output, "unreachable", "ip route list")
	t.Match(output, "prohibit", "ip route list")

	// Each route type must be removable on its own.
	t.DeleteRoute("blackhole", "202.54.1.2")
	t.Match(t.Routes(), "unreachable", "ip route list")
	t.Match(t.Routes(), "prohibit", "ip route list")

	t.DeleteRoute("unreachable", "202.54.1.3")
	t.Match(t.Routes(), "prohibit", "ip route list")

	t.DeleteRoute("prohibit", "202.54.1.4")
}

func networkRouteTCPWindow(t *scenario.T) {
	t.StageUnits("25-route-tcp-window-settings.network", "11-dummy.netdev")
	t.RestartDaemon("test1")

	output := t.EventuallyRoutes("initcwnd 20")
	t.Match(output, "initrwnd 30", "ip route list")
}

func networkLinkMACAddress(t *scenario.T) {
	t.StageUnits("25-address-link-section.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	output := t.RunCommand("ip", "link", "show", "dummy98")
	t.Match(output, "00:01:02:aa:bb:cc", "ip link show dummy98")
}

func networkLinkUnmanaged(t *scenario.T) {
	t.StageUnits("25-link-section-unmanaged.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	output := t.EventuallyStatus("dummy98", "unmanaged")
	t.Match(output, "unmanaged", "networkctl status dummy98")
}

func networkIPv6AddressLabel(t *scenario.T) {
	t.StageUnits("25-ipv6-address-label-section.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	output := t.AddressLabels()
	t.Match(output, "2004:da8:1::/64", "ip addrlabel list")
}

func networkSysctl(t *scenario.T) {
	t.StageUnits("25-sysctl.network", "12-dummy.netdev")
	t.RestartDaemon("dummy98")

	t.SysctlV6Equal("1", "dummy98", "forwarding")
	t.SysctlV6Equal("2", "dummy98", "use_tempaddr")
	t.SysctlV6Equal("3", "dummy98", "dad_transmits")
	t.SysctlV6Equal("5", "dummy98", "hop_limit")
	t.SysctlV6Equal("1", "dummy98", "proxy_ndp")
	t.SysctlV4Equal("1", "dummy98", "forwarding")
	t.SysctlV4Equal("1", "dummy98", "proxy_arp")
}
