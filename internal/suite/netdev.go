package suite

import (
	"github.com/networkd-conformance/harness/internal/scenario"
)

// netdevGroup covers virtual device creation: one case per netdev kind,
// each staging its units, restarting the daemon and checking the resulting
// kernel device.
func netdevGroup() scenario.Group {
	return scenario.Group{
		Name: "netdev",
		Links: []string{
			"bridge99", "bond99", "vlan99", "test1", "macvtap99",
			"macvlan99", "ipvlan99", "vxlan99", "veth99", "vrf99", "tun99",
			"tap99", "vcan99", "geneve99", "dummy98", "ipiptun99", "sittun99",
			"6rdtun99", "gretap99", "vtitun99", "vti6tun99", "ip6tnl99",
			"gretun99", "ip6gretap99", "wg99",
		},
		Units: []string{
			"25-bridge.netdev", "25-bond.netdev", "21-vlan.netdev", "11-dummy.netdev",
			"21-vlan.network", "21-macvtap.netdev", "macvtap.network", "21-macvlan.netdev",
			"macvlan.network", "vxlan.network", "25-vxlan.netdev", "25-ipvlan.netdev",
			"ipvlan.network", "25-veth.netdev", "25-vrf.netdev", "25-tun.netdev",
			"25-tap.netdev", "25-vcan.netdev", "25-geneve.netdev", "25-ipip-tunnel.netdev",
			"25-ip6tnl-tunnel.netdev", "25-ip6gre-tunnel.netdev", "25-sit-tunnel.netdev",
			"25-6rd-tunnel.netdev", "25-gre-tunnel.netdev", "25-gretap-tunnel.netdev",
			"25-vti-tunnel.netdev", "25-vti6-tunnel.netdev", "12-dummy.netdev",
			"gre.network", "ipip.network", "ip6gretap.network", "gretun.network",
			"ip6tnl.network", "vti6.network", "vti.network", "gretap.network",
			"sit.network", "25-ipip-tunnel-independent.netdev", "25-wireguard.netdev",
			"6rd.network",
		},
		Cases: []scenario.Case{
			{Name: "bridge", Run: netdevBridge},
			{Name: "bond", Run: netdevBond},
			{Name: "vlan", Run: netdevVLAN},
			{Name: "macvtap", Run: netdevMacvtap},
			{Name: "macvlan", Run: netdevMacvlan},
			{Name: "ipvlan", RequiresModule: "ipvlan", Run: netdevIPVLAN},
			{Name: "veth", Run: netdevVeth},
			{Name: "dummy", Run: netdevDummy},
			{Name: "tun", Run: netdevTun},
			{Name: "tap", Run: netdevTap},
			{Name: "vrf", RequiresModule: "vrf", Run: netdevVRF},
			{Name: "vcan", RequiresModule: "vcan", Run: netdevVCAN},
			{Name: "wireguard", RequiresModule: "wireguard", Run: netdevWireguard},
			{Name: "geneve", Run: netdevGeneve},
			{Name: "ipip-tunnel", Run: netdevIPIPTunnel},
			{Name: "gre-tunnel", Run: netdevGRETunnel},
			{Name: "gretap-tunnel", Run: netdevGRETapTunnel},
			{Name: "ip6gretap-tunnel", Run: netdevIP6GRETapTunnel},
			{Name: "vti-tunnel", Run: netdevVTITunnel},
			{Name: "vti6-tunnel", Run: netdevVTI6Tunnel},
			{Name: "ip6tnl-tunnel", Run: netdevIP6TnlTunnel},
			{Name: "sit-tunnel", Run: netdevSitTunnel},
			{Name: "6rd-tunnel", Run: netdev6RDTunnel},
			{Name: "tunnel-independent", Run: netdevTunnelIndependent},
			{Name: "vxlan", Run: netdevVXLAN},
		},
	}
}

func netdevBridge(t *scenario.T) {
	t.StageUnits("25-bridge.netdev")
	t.RestartDaemon("bridge99")

	t.AttrEqual("900", "bridge99", "bridge", "hello_time")
	t.AttrEqual("900", "bridge99", "bridge", "max_age")
	t.AttrEqual("900", "bridge99", "bridge", "forward_delay")
	t.AttrEqual("900", "bridge99", "bridge", "ageing_time")
	t.AttrEqual("9", "bridge99", "bridge", "priority")
	t.AttrEqual("1", "bridge99", "bridge", "multicast_querier")
	t.AttrEqual("1", "bridge99", "bridge", "multicast_snooping")
	t.AttrEqual("1", "bridge99", "bridge", "stp_state")
}

func netdevBond(t *scenario.T) {
	t.StageUnits("25-bond.netdev")
	t.RestartDaemon("bond99")

	t.AttrEqual("802.3ad 4", "bond99", "bonding", "mode")
	t.AttrEqual("layer3+4 1", "bond99", "bonding", "xmit_hash_policy")
	t.AttrEqual("1000", "bond99", "bonding", "miimon")
	t.AttrEqual("fast 1", "bond99", "bonding", "lacp_rate")
	t.AttrEqual("2000", "bond99", "bonding", "updelay")
	t.AttrEqual("2000", "bond99", "bonding", "downdelay")
	t.AttrEqual("4", "bond99", "bonding", "resend_igmp")
	t.AttrEqual("1", "bond99", "bonding", "min_links")
	t.AttrEqual("1218", "bond99", "bonding", "ad_actor_sys_prio")
	t.AttrEqual("811", "bond99", "bonding", "ad_user_port_key")
	t.AttrEqual("00:11:22:33:44:55", "bond99", "bonding", "ad_actor_system")
}

func netdevVLAN(t *scenario.T) {
	t.StageUnits("21-vlan.netdev", "11-dummy.netdev", "21-vlan.network")
	t.RestartDaemon("vlan99")

	output := t.LinkDetails("vlan99")
	t.Match(output, "REORDER_HDR", "ip -d link show vlan99")
	t.Match(output, "LOOSE_BINDING", "ip -d link show vlan99")
	t.Match(output, "GVRP", "ip -d link show vlan99")
	t.Match(output, "MVRP", "ip -d link show vlan99")
	t.Match(output, "id 99", "ip -d link show vlan99")
}

func netdevMacvtap(t *scenario.T) {
	t.StageUnits("21-macvtap.netdev", "11-dummy.netdev", "macvtap.network")
	t.RestartDaemon("macvtap99")
	t.RequireLink("macvtap99")
}

func netdevMacvlan(t *scenario.T) {
	t.StageUnits("21-macvlan.netdev", "11-dummy.netdev", "macvlan.network")
	t.RestartDaemon("macvlan99")
	t.RequireLink("macvlan99")
}

func netdevIPVLAN(t *scenario.T) {
	t.StageUnits("25-ipvlan.netdev", "11-dummy.netdev", "ipvlan.network")
	t.RestartDaemon("ipvlan99")
	t.RequireLink("ipvlan99")
}

func netdevVeth(t *scenario.T) {
	t.StageUnits("25-veth.netdev")
	t.RestartDaemon("veth99")
	t.RequireLink("veth99")
}

func netdevDummy(t *scenario.T) {
	t.StageUnits("11-dummy.netdev")
	t.RestartDaemon("test1")
	t.RequireLink("test1")
}

func netdevTun(t *scenario.T) {
	t.StageUnits("25-tun.netdev")
	t.RestartDaemon("tun99")
	t.RequireLink("tun99")
}

func netdevTap(t *scenario.T) {
	t.StageUnits("25-tap.netdev")
	t.RestartDaemon("tap99")
	t.RequireLink("tap99")
}

func netdevVRF(t *scenario.T) {
	t.StageUnits("25-vrf.netdev")
	t.RestartDaemon("vrf99")
	t.RequireLink("vrf99")
}

func netdevVCAN(t *scenario.T) {
	t.StageUnits("25-vcan.netdev")
	t.RestartDaemon("vcan99")
	t.RequireLink("vcan99")
}

func netdevWireguard(t *scenario.T) {
	t.StageUnits("25-wireguard.netdev")
	t.RestartDaemon("wg99")
	t.RequireLink("wg99")
}

func netdevGeneve(t *scenario.T) {
	t.StageUnits("25-geneve.netdev")
	t.RestartDaemon("geneve99")

	output := t.LinkDetails("geneve99")
	t.Match(output, "192[.]168[.]22[.]1", "ip -d link show geneve99")
	t.Match(output, "6082", "ip -d link show geneve99")
	t.Match(output, "udpcsum", "ip -d link show geneve99")
	t.Match(output, "udp6zerocsumrx", "ip -d link show geneve99")
}

func netdevIPIPTunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-ipip-tunnel.netdev", "ipip.network")
	t.RestartDaemon("dummy98", "ipiptun99")
	t.RequireLink("ipiptun99")
}

func netdevGRETunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-gre-tunnel.netdev", "gretun.network")
	t.RestartDaemon("dummy98", "gretun99")
	t.RequireLink("gretun99")
}

func netdevGRETapTunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-gretap-tunnel.netdev", "gretap.network")
	t.RestartDaemon("dummy98", "gretap99")
	t.RequireLink("gretap99")
}

func netdevIP6GRETapTunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-ip6gre-tunnel.netdev", "ip6gretap.network")
	t.RestartDaemon("dummy98", "ip6gretap99")
	t.RequireLink("ip6gretap99")
}

func netdevVTITunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-vti-tunnel.netdev", "vti.network")
	t.RestartDaemon("dummy98", "vtitun99")
	t.RequireLink("vtitun99")
}

func netdevVTI6Tunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-vti6-tunnel.netdev", "vti6.network")
	t.RestartDaemon("dummy98", "vti6tun99")
	t.RequireLink("vti6tun99")
}

func netdevIP6TnlTunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-ip6tnl-tunnel.netdev", "ip6tnl.network")
	t.RestartDaemon("dummy98", "ip6tnl99")
	t.RequireLink("ip6tnl99")
}

func netdevSitTunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-sit-tunnel.netdev", "sit.network")
	t.RestartDaemon("dummy98", "sittun99")
	t.RequireLink("sittun99")
}

func netdev6RDTunnel(t *scenario.T) {
	t.StageUnits("12-dummy.netdev", "25-6rd-tunnel.netdev", "6rd.network")
	t.RestartDaemon("dummy98", "sittun99")
	t.RequireLink("sittun99")
}

func netdevTunnelIndependent(t *scenario.T) {
	t.StageUnits("25-ipip-tunnel-independent.netdev")
	t.RestartDaemon("ipiptun99")
	t.RequireLink("ipiptun99")
}

func netdevVXLAN(t *scenario.T) {
	t.StageUnits("25-vxlan.netdev", "vxlan.network", "11-dummy.netdev")
	t.RestartDaemon("vxlan99")

	output := t.LinkDetails("vxlan99")
	t.Match(output, "999", "ip -d link show vxlan99")
	t.Match(output, "5555", "ip -d link show vxlan99")
	t.Match(output, "l2miss", "ip -d link show vxlan99")
	t.Match(output, "l3miss", "ip -d link show vxlan99")
	t.Match(output, "udpcsum", "ip -d link show vxlan99")
	t.Match(output, "udp6zerocsumtx", "ip -d link show vxlan99")
	t.Match(output, "udp6zerocsumrx", "ip -d link show vxlan99")
	t.Match(output, "remcsumtx", "ip -d link show vxlan99")
	t.Match(output, "remcsumrx", "ip -d link show vxlan99")
	t.Match(output, "gbp", "ip -d link show vxlan99")
}
