// Package config holds the harness configuration: filesystem locations
// shared with systemd-networkd, the DHCP/RA responder launch parameters and
// the timeout bounds used when polling for kernel or daemon state.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Responder describes how the dnsmasq DHCP/RA responder is launched.
type Responder struct {
	Binary    string `yaml:"binary"`
	Interface string `yaml:"interface"`

	RangeV4 string `yaml:"range_v4"`
	RangeV6 string `yaml:"range_v6"`
	Router  string `yaml:"router"`

	// MTUOption is handed out as DHCP option 26.
	MTUOption int `yaml:"mtu_option"`

	// StaticRoutes are handed out as DHCP option 33.
	StaticRoutes []string `yaml:"static_routes"`

	PIDFile   string `yaml:"pid_file"`
	LogFile   string `yaml:"log_file"`
	LeaseFile string `yaml:"lease_file"`

	// MinLeaseTime is baked into the v4 range argument so the lease renewal
	// scenario doesn't depend on the responder's internal default.
	MinLeaseTime time.Duration `yaml:"min_lease_time"`
}

// Config is the full harness configuration.
type Config struct {
	// UnitDirectory is watched by systemd-networkd for unit files.
	UnitDirectory string `yaml:"unit_directory"`

	// UnitSourceDirectory holds the read-only unit file templates.
	UnitSourceDirectory string `yaml:"unit_source_directory"`

	// RuntimeDirectory holds harness-owned runtime files (PID, log, lease).
	RuntimeDirectory string `yaml:"runtime_directory"`

	Responder Responder `yaml:"responder"`

	// LinkSettleTimeout bounds the wait for deleted links to disappear.
	LinkSettleTimeout time.Duration `yaml:"link_settle_timeout"`

	// ConvergenceTimeout bounds the wait for networkd to apply staged units.
	ConvergenceTimeout time.Duration `yaml:"convergence_timeout"`

	// ResponderWarmup bounds the wait for the responder's PID file to appear.
	ResponderWarmup time.Duration `yaml:"responder_warmup"`

	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns the configuration matching a stock test host.
func Default() *Config {
	return &Config{
		UnitDirectory:       "/run/systemd/network",
		UnitSourceDirectory: "/run/networkd-ci",
		RuntimeDirectory:    "/run/networkd-ci",
		Responder: Responder{
			Binary:       "dnsmasq",
			Interface:    "veth-peer",
			RangeV4:      "192.168.5.10,192.168.5.200",
			RangeV6:      "2600::10,2600::20",
			Router:       "192.168.5.1",
			MTUOption:    1492,
			StaticRoutes: []string{"192.168.5.4", "192.168.5.5"},
			PIDFile:      "/run/networkd-ci/test-dnsmasq.pid",
			LogFile:      "/run/networkd-ci/test-dnsmasq.log",
			LeaseFile:    "/run/networkd-ci/lease",
			MinLeaseTime: 2 * time.Minute,
		},
		LinkSettleTimeout:  4 * time.Second,
		ConvergenceTimeout: 10 * time.Second,
		ResponderWarmup:    15 * time.Second,
		PollInterval:       500 * time.Millisecond,
	}
}

// Load reads a YAML configuration file on top of the defaults. Fields absent
// from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(content, cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
