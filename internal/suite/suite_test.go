package suite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGroupsAreWellFormed(t *testing.T) {
	t.Parallel()

	groups := All()
	require.NotEmpty(t, groups)

	seenGroups := map[string]bool{}

	for _, g := range groups {
		require.NotEmpty(t, g.Name)
		require.False(t, seenGroups[g.Name], "duplicate group %q", g.Name)
		seenGroups[g.Name] = true

		require.NotEmpty(t, g.Cases, "group %q has no cases", g.Name)

		seenCases := map[string]bool{}

		for _, c := range g.Cases {
			require.NotEmpty(t, c.Name, "unnamed case in group %q", g.Name)
			require.False(t, seenCases[c.Name], "duplicate case %q in group %q", c.Name, g.Name)
			seenCases[c.Name] = true

			require.NotNil(t, c.Run, "case %s/%s has no body", g.Name, c.Name)
		}
	}
}

func TestNetdevGroupCoversAllKinds(t *testing.T) {
	t.Parallel()

	g := netdevGroup()
	require.Len(t, g.Cases, 25)

	gated := map[string]string{}

	for _, c := range g.Cases {
		if c.RequiresModule != "" {
			gated[c.Name] = c.RequiresModule
		}
	}

	require.Equal(t, map[string]string{
		"ipvlan":    "ipvlan",
		"vrf":       "vrf",
		"vcan":      "vcan",
		"wireguard": "wireguard",
	}, gated)
}

func TestOnlyDHCPClientGroupUsesResponder(t *testing.T) {
	t.Parallel()

	for _, g := range All() {
		if g.Name == "dhcp-client" {
			require.True(t, g.UsesResponder)

			continue
		}

		require.False(t, g.UsesResponder, "group %q should not use the responder", g.Name)
	}
}

func TestGroupsDeclareTheirLinks(t *testing.T) {
	t.Parallel()

	for _, g := range All() {
		require.NotEmpty(t, g.Links, "group %q declares no links", g.Name)
		require.NotEmpty(t, g.Units, "group %q declares no units", g.Name)
	}
}
