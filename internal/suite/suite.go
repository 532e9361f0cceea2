// Package suite holds the conformance scenarios, organized into groups that
// each declare the exact set of links and units they may touch.
package suite

import (
	"github.com/networkd-conformance/harness/internal/scenario"
)

// All returns every scenario group in execution order.
func All() []scenario.Group {
	return []scenario.Group{
		netdevGroup(),
		networkGroup(),
		bridgeGroup(),
		lldpGroup(),
		raGroup(),
		dhcpServerGroup(),
		dhcpClientGroup(),
	}
}
