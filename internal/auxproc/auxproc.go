// Package auxproc supervises the auxiliary DHCP/RA responder through the
// PID-file and log-file contract it exposes, and probes for optional kernel
// capabilities.
//
// The responder is a separate privileged daemon; the harness deliberately
// assumes nothing about it beyond that contract. It daemonizes itself on
// launch, writes its own PID file and appends to its own log file.
package auxproc

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lxc/incus/v6/shared/subprocess"
	"golang.org/x/sys/unix"

	"github.com/networkd-conformance/harness/internal/config"
)

// ResponderArgs materializes the full dnsmasq argument list from the
// responder configuration. The v4 range carries an explicit lease time so
// scenarios that wait out a lease don't depend on a dnsmasq default.
func ResponderArgs(r config.Responder) []string {
	args := []string{
		"-8", r.LogFile,
		"--log-queries=extra",
		"--log-dhcp",
		"--pid-file=" + r.PIDFile,
		"--conf-file=/dev/null",
		"--interface=" + r.Interface,
		"--enable-ra",
		"--dhcp-range=" + r.RangeV6,
		fmt.Sprintf("--dhcp-range=%s,%d", r.RangeV4, int(r.MinLeaseTime.Seconds())),
		"-R",
		"--dhcp-leasefile=" + r.LeaseFile,
		fmt.Sprintf("--dhcp-option=26,%d", r.MTUOption),
		"--dhcp-option=option:router," + r.Router,
	}

	if len(r.StaticRoutes) > 0 {
		args = append(args, "--dhcp-option=33,"+strings.Join(r.StaticRoutes, ","))
	}

	return args
}

// StartResponder launches the responder and polls until its PID file names a
// live process or the warm-up timeout expires. At most one responder may be
// running; the caller must stop the previous one first.
func StartResponder(ctx context.Context, cfg *config.Config) error {
	r := cfg.Responder

	slog.Info("Starting responder", "binary", r.Binary, "interface", r.Interface)

	_, err := subprocess.RunCommandContext(ctx, r.Binary, ResponderArgs(r)...)
	if err != nil {
		return err
	}

	endTime := time.Now().Add(cfg.ResponderWarmup)

	for {
		pid, err := readPIDFile(r.PIDFile)
		if err == nil && unix.Kill(pid, 0) == nil {
			return nil
		}

		if time.Now().After(endTime) {
			return fmt.Errorf("timed out waiting for responder PID file %q", r.PIDFile)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.PollInterval):
		}
	}
}

// Stop terminates the process named by the PID file and removes the file.
// An absent PID file means the process is already down or never started;
// both are acceptable end states.
func Stop(pidFile string) error {
	pid, err := readPIDFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	err = unix.Kill(pid, unix.SIGTERM)
	if err != nil {
		slog.Debug("Termination signal failed", "pid", pid, "err", err)
	}

	return os.Remove(pidFile)
}

func readPIDFile(pidFile string) (int, error) {
	content, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID file %q: %w", pidFile, err)
	}

	return pid, nil
}

// ContainsToken reports whether needle occurs as a substring of any
// whitespace-delimited token in text.
func ContainsToken(text string, needle string) bool {
	for _, token := range strings.Fields(text) {
		if strings.Contains(token, needle) {
			return true
		}
	}

	return false
}

// ScanLog reports whether needle occurs as a substring of any
// whitespace-delimited token in the log file. An absent log file is simply
// "not found".
func ScanLog(logFile string, needle string) bool {
	content, err := os.ReadFile(logFile)
	if err != nil {
		return false
	}

	return ContainsToken(string(content), needle)
}

// RemoveRuntimeFiles deletes the responder's lease and log files if present.
func RemoveRuntimeFiles(cfg *config.Config) {
	for _, path := range []string{cfg.Responder.LeaseFile, cfg.Responder.LogFile} {
		err := os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			slog.Debug("Runtime file removal failed", "path", path, "err", err)
		}
	}
}

// ModuleAvailable reports whether a kernel module is loaded or loadable.
// Scenarios needing an optional module are demoted to an expected failure
// when this returns false.
func ModuleAvailable(ctx context.Context, name string) bool {
	output, err := subprocess.RunCommandContext(ctx, "lsmod")
	if err == nil && moduleListed(output, name) {
		return true
	}

	_, err = subprocess.RunCommandContext(ctx, "modprobe", name)

	return err == nil
}

// moduleListed matches name against the first column of lsmod output as a
// whole token.
func moduleListed(lsmodOutput string, name string) bool {
	for _, line := range strings.Split(lsmodOutput, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == name {
			return true
		}
	}

	return false
}
