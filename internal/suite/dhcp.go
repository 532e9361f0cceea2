package suite

import (
	"net"
	"time"

	"github.com/networkd-conformance/harness/internal/probe"
	"github.com/networkd-conformance/harness/internal/scenario"
)

// dhcpServerGroup covers the daemon acting as DHCP server on one end of a
// veth pair, with its own client on the other end.
func dhcpServerGroup() scenario.Group {
	return scenario.Group{
		Name:  "dhcp-server",
		Links: []string{"veth99", "dummy98"},
		Units: []string{
			"25-veth.netdev", "dhcp-client.network", "dhcp-server.network",
			"12-dummy.netdev", "24-search-domain.network",
			"dhcp-client-timezone-router.network", "dhcp-server-timezone-router.network",
		},
		Cases: []scenario.Case{
			{Name: "server", Run: dhcpServer},
			{Name: "domain", Run: dhcpServerDomain},
			{Name: "emit-router-timezone", Run: dhcpServerEmitRouterTimezone},
		},
	}
}

func dhcpServer(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-client.network", "dhcp-server.network")
	t.RestartDaemon("veth99")

	output := t.EventuallyStatus("veth99", "192[.]168[.]5[.].*")
	t.Match(output, "Gateway: 192[.]168[.]5[.]1", "networkctl status veth99")
	t.Match(output, "DNS: 192[.]168[.]5[.]1", "networkctl status veth99")
	t.Match(output, "NTP: 192[.]168[.]5[.]1", "networkctl status veth99")
}

func dhcpServerDomain(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "24-search-domain.network")
	t.RestartDaemon("dummy98")

	output := t.EventuallyStatus("dummy98", "Address: 192[.]168[.]42[.]100")
	t.Match(output, "DNS: 192[.]168[.]42[.]1", "networkctl status dummy98")
	t.Match(output, "Search Domains: one", "networkctl status dummy98")
}

func dhcpServerEmitRouterTimezone(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-client-timezone-router.network", "dhcp-server-timezone-router.network")
	t.RestartDaemon("veth99")

	output := t.EventuallyStatus("veth99", "Gateway: 192[.]168[.]5[.].*")
	t.Match(output, "192[.]168[.]5[.].*", "networkctl status veth99")
	t.Match(output, "Europe/Berlin", "networkctl status veth99")
}

// dhcpClientGroup covers the daemon's DHCP client against the dnsmasq
// responder on the peer end of a veth pair.
func dhcpClientGroup() scenario.Group {
	return scenario.Group{
		Name:          "dhcp-client",
		Links:         []string{"veth99", "dummy98"},
		UsesResponder: true,
		Units: []string{
			"25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv6-only.network",
			"dhcp-client-ipv4-only-ipv6-disabled.network", "dhcp-client-ipv4-only.network",
			"dhcp-client-ipv4-dhcp-settings.network", "dhcp-client-anonymize.network",
			"dhcp-client-ipv6-rapid-commit.network", "dhcp-client-route-table.network",
			"dhcp-v4-server-veth-peer.network", "dhcp-client-listen-port.network",
			"dhcp-client-route-metric.network", "dhcp-client-critical-connection.network",
		},
		Cases: []scenario.Case{
			{Name: "ipv6-only", Run: dhcpClientIPv6Only},
			{Name: "ipv4-only", Run: dhcpClientIPv4Only},
			{Name: "ipv4-ipv6", Run: dhcpClientIPv4IPv6},
			{Name: "settings", Run: dhcpClientSettings},
			{Name: "rapid-commit-true", Run: dhcpClientRapidCommitTrue},
			{Name: "rapid-commit-false", Run: dhcpClientRapidCommitFalse},
			{Name: "anonymize", Run: dhcpClientAnonymize},
			{Name: "listen-port", Run: dhcpClientListenPort},
			{Name: "route-table-id", Run: dhcpClientRouteTable},
			{Name: "route-metric", Run: dhcpClientRouteMetric},
			{Name: "critical-connection", Run: dhcpClientCriticalConnection},
		},
	}
}

func dhcpClientIPv6Only(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv6-only.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyStatus("veth99", "2600::")
	t.NotMatch(output, "192[.]168[.]5", "networkctl status veth99")
}

func dhcpClientIPv4Only(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv4-only-ipv6-disabled.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyStatus("veth99", "192[.]168[.]5")
	t.NotMatch(output, "2600::", "networkctl status veth99")
}

func dhcpClientIPv4IPv6(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv6-only.network",
		"dhcp-client-ipv4-only.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyStatus("veth99", "2600::")
	t.Match(output, "192[.]168[.]5", "networkctl status veth99")
}

func dhcpClientSettings(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv4-dhcp-settings.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyAddresses("veth99", "192[.]168[.]5")
	t.Match(output, "12:34:56:78:9a:bc", "ip address show dev veth99")
	t.Match(output, "1492", "ip address show dev veth99")

	t.EventuallyRoutes("default.*dev veth99 proto dhcp")

	t.EventuallyLog("vendor class: SusantVendorTest")
	t.EventuallyLog("client MAC address: 12:34:56:78:9a:bc")
	t.EventuallyLog("client provides name: test-hostname")
	t.EventuallyLog("26:mtu")
}

func dhcpClientRapidCommitTrue(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv6-only.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyAddresses("veth99", "2600::")
	t.Match(output, "12:34:56:78:9a:bc", "ip address show dev veth99")

	t.EventuallyLog("14:rapid-commit")
}

func dhcpClientRapidCommitFalse(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-ipv6-rapid-commit.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyAddresses("veth99", "2600::")
	t.Match(output, "12:34:56:78:9a:bc", "ip address show dev veth99")

	t.True(!t.ScanLog("14:rapid-commit"), "responder log unexpectedly contains 14:rapid-commit")
}

func dhcpClientAnonymize(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-anonymize.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	// Wait for the exchange to complete before checking what was NOT sent.
	t.EventuallyAddresses("veth99", "192[.]168[.]5")

	t.True(!t.ScanLog("VendorClassIdentifier=SusantVendorTest"), "responder log unexpectedly contains vendor class")
	t.True(!t.ScanLog("test-hostname"), "responder log unexpectedly contains hostname")
	t.True(!t.ScanLog("26:mtu"), "responder log unexpectedly contains MTU option")
}

func dhcpClientListenPort(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-server-veth-peer.network", "dhcp-client-listen-port.network")

	// The capture must be armed before the daemon triggers the client's
	// discovery packet, or the packet is lost with no retry.
	capture, err := probe.Start(67)
	t.True(err == nil, "arming capture on port 67: %v", err)

	t.RestartDaemonLinksOnly("veth99")

	result, err := capture.Wait(t.Context())
	t.True(err == nil, "awaiting capture: %v", err)
	t.True(result.Port == 5555, "expected client source port 5555, got %d", result.Port)
	t.True(result.Addr.Equal(net.IPv4zero), "expected unspecified client source address, got %s", result.Addr)
}

func dhcpClientRouteTable(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-v4-server-veth-peer.network", "dhcp-client-route-table.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	output := t.EventuallyRoutes("veth99 proto dhcp", "show", "table", "12")
	t.Match(output, "192[.]168[.]5[.]1", "ip route list table 12")
}

func dhcpClientRouteMetric(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-v4-server-veth-peer.network", "dhcp-client-route-metric.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	t.EventuallyRoutes("metric 24", "show", "dev", "veth99")
}

func dhcpClientCriticalConnection(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "dhcp-v4-server-veth-peer.network", "dhcp-client-critical-connection.network")
	t.RestartDaemonLinksOnly("veth99")
	t.StartResponder()

	t.EventuallyStatus("veth99", "192[.]168[.]5[.].*")

	// Stop the responder so the daemon cannot renew, then wait out the
	// lease. The lease time is the one the responder was launched with.
	t.StopResponder()
	t.Sleep(t.Config().Responder.MinLeaseTime + 5*time.Second)

	output := t.Status("veth99")
	t.Match(output, "192[.]168[.]5[.].*", "networkctl status veth99")
}
