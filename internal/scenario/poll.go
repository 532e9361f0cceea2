package scenario

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/networkd-conformance/harness/internal/auxproc"
)

// eventually polls fetch until match accepts its output or the timeout
// expires, returning the last output and whether it matched. State that
// needs post-action settling is waited on through the same queries the
// assertions use, rather than a fixed sleep.
func (t *T) eventually(timeout time.Duration, fetch func() string, match func(string) bool) (string, bool) {
	endTime := time.Now().Add(timeout)

	for {
		output := fetch()
		if match(output) {
			return output, true
		}

		if time.Now().After(endTime) {
			return output, false
		}

		select {
		case <-t.ctx.Done():
			t.fail(t.ctx.Err())
		case <-time.After(t.cfg.PollInterval):
		}
	}
}

func (t *T) eventuallyMatch(pattern string, source string, timeout time.Duration, fetch func() string) string {
	re, err := regexp.Compile(pattern)
	if err != nil {
		t.failf("bad pattern %q: %w", pattern, err)
	}

	output, ok := t.eventually(timeout, fetch, re.MatchString)
	if !ok {
		t.failf("%s: no match for %q within %s, last output:\n%s", source, pattern, timeout, output)
	}

	return output
}

// EventuallyStatus waits until the daemon's status report for a link
// matches the pattern, then returns the report.
func (t *T) EventuallyStatus(link string, pattern string) string {
	return t.eventuallyMatch(pattern, "networkctl status "+link, t.cfg.ConvergenceTimeout, func() string {
		return t.Status(link)
	})
}

// EventuallyAddresses waits until the address listing for a link matches
// the pattern, then returns the listing.
func (t *T) EventuallyAddresses(link string, pattern string) string {
	return t.eventuallyMatch(pattern, "ip address show dev "+link, t.cfg.ConvergenceTimeout, func() string {
		return t.Addresses(link)
	})
}

// EventuallyLLDP waits until the daemon's LLDP neighbor table matches the
// pattern, then returns the table. Neighbor entries only appear once a
// peer frame has been received, some time after the link itself settles.
func (t *T) EventuallyLLDP(pattern string) string {
	return t.eventuallyMatch(pattern, "networkctl lldp", t.cfg.ConvergenceTimeout, func() string {
		return t.LLDP()
	})
}

// EventuallyRoutes waits until a route listing matches the pattern, then
// returns the listing.
func (t *T) EventuallyRoutes(pattern string, args ...string) string {
	return t.eventuallyMatch(pattern, "ip route list", t.cfg.ConvergenceTimeout, func() string {
		return t.Routes(args...)
	})
}

// EventuallyLog waits until the responder log contains the needle in some
// whitespace-delimited token. The timeout failure carries the tail of the
// log so responder-side problems show up in the report.
func (t *T) EventuallyLog(needle string) {
	output, ok := t.eventually(t.cfg.ConvergenceTimeout, func() string {
		content, err := os.ReadFile(t.cfg.Responder.LogFile)
		if err != nil {
			return ""
		}

		return string(content)
	}, func(content string) bool {
		return auxproc.ContainsToken(content, needle)
	})
	if !ok {
		t.failf("responder log %q: token %q not found within %s, log tail:\n%s", t.cfg.Responder.LogFile, needle, t.cfg.ConvergenceTimeout, logTail(output, 20))
	}
}

// logTail returns the last n lines of content.
func logTail(content string, n int) string {
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	return strings.Join(lines, "\n")
}
