// Package probe implements a single-shot UDP capture used to observe the
// source address and port of a client exchange the daemon triggers but the
// harness cannot otherwise see.
//
// Start must have returned before the daemon action that produces the
// packet is initiated; the packet is sent exactly once and a capture armed
// too late misses it with no retry.
package probe

import (
	"context"
	"net"
)

// Result is the sender address and port of the first inbound packet.
type Result struct {
	Addr net.IP
	Port int
}

// Capture is a single-use handle for one armed capture. The result is
// delivered through a one-element channel owned by the handle, so repeated
// captures can never observe each other's state.
type Capture struct {
	conn    *net.UDPConn
	results chan Result
	errs    chan error
}

// Start binds the well-known port and arms a background receive of exactly
// one packet. The endpoint is bound when Start returns.
func Start(port int) (*Capture, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, err
	}

	c := &Capture{
		conn:    conn,
		results: make(chan Result, 1),
		errs:    make(chan error, 1),
	}

	go c.receive()

	return c, nil
}

// LocalAddr returns the bound endpoint address.
func (c *Capture) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *Capture) receive() {
	defer c.conn.Close()

	buf := make([]byte, 1024)

	_, addr, err := c.conn.ReadFromUDP(buf)
	if err != nil {
		c.errs <- err

		return
	}

	c.results <- Result{Addr: addr.IP, Port: addr.Port}
}

// Wait blocks until the capture task has delivered its result. Cancelling
// the context is the only way out of a capture that never arrives;
// cancellation closes the endpoint so the receive task exits too.
func (c *Capture) Wait(ctx context.Context) (Result, error) {
	select {
	case result := <-c.results:
		return result, nil
	case err := <-c.errs:
		return Result{}, err
	case <-ctx.Done():
		_ = c.conn.Close()

		return Result{}, ctx.Err()
	}
}
