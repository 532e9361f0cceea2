package suite

import (
	"github.com/networkd-conformance/harness/internal/scenario"
)

// bridgeGroup covers bridge membership and per-port bridge properties.
func bridgeGroup() scenario.Group {
	return scenario.Group{
		Name:  "bridge",
		Links: []string{"dummy98", "test1", "bridge99"},
		Units: []string{
			"11-dummy.netdev", "12-dummy.netdev", "26-bridge.netdev",
			"26-bridge-slave-interface-1.network", "26-bridge-slave-interface-2.network",
			"bridge99.network",
		},
		Cases: []scenario.Case{
			{Name: "bridge-property", Run: bridgeProperty},
		},
	}
}

func bridgeProperty(t *scenario.T) {
	t.StageUnits("11-dummy.netdev", "12-dummy.netdev", "26-bridge.netdev",
		"26-bridge-slave-interface-1.network", "26-bridge-slave-interface-2.network",
		"bridge99.network")
	t.RestartDaemon("dummy98", "test1", "bridge99")

	output := t.LinkDetails("test1")
	t.Match(output, "master", "ip -d link show test1")
	t.Match(output, "bridge", "ip -d link show test1")

	output = t.LinkDetails("dummy98")
	t.Match(output, "master", "ip -d link show dummy98")
	t.Match(output, "bridge", "ip -d link show dummy98")

	output = t.EventuallyAddresses("bridge99", "192[.]168[.]0[.]15")
	t.Match(output, "192[.]168[.]0[.]1", "ip address show dev bridge99")

	output = t.BridgeLinkDetails("dummy98")
	t.Match(output, "cost 400", "bridge -d link show dev dummy98")
	t.Match(output, "hairpin on", "bridge -d link show dev dummy98")
	t.Match(output, "flood on", "bridge -d link show dev dummy98")
	t.Match(output, "fastleave on", "bridge -d link show dev dummy98")
}

// lldpGroup covers LLDP emission and reception over a veth pair.
func lldpGroup() scenario.Group {
	return scenario.Group{
		Name:  "lldp",
		Links: []string{"veth99"},
		Units: []string{"23-emit-lldp.network", "24-lldp.network", "25-veth.netdev"},
		Cases: []scenario.Case{
			{Name: "lldp", Run: lldpNeighbors},
		},
	}
}

func lldpNeighbors(t *scenario.T) {
	t.StageUnits("23-emit-lldp.network", "24-lldp.network", "25-veth.netdev")
	t.RestartDaemon("veth99")

	t.EventuallyLLDP("veth-peer")
	t.EventuallyLLDP("veth99")
}

// raGroup covers router advertisement consumption and prefix delegation.
func raGroup() scenario.Group {
	return scenario.Group{
		Name:  "ra",
		Links: []string{"veth99"},
		Units: []string{"25-veth.netdev", "ipv6-prefix.network", "ipv6-prefix-veth.network"},
		Cases: []scenario.Case{
			{Name: "ipv6-prefix-delegation", Run: raIPv6PrefixDelegation},
		},
	}
}

func raIPv6PrefixDelegation(t *scenario.T) {
	t.StageUnits("25-veth.netdev", "ipv6-prefix.network", "ipv6-prefix-veth.network")
	t.RestartDaemon("veth99")

	t.EventuallyStatus("veth99", "2002:da8:1:0")
}
