package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

const (
	serviceName = "_hue._tcp.local."

	DefaultMDNSTimeout = 5 * time.Second
)

var mdnsGroup = &net.UDPAddr{IP: net.IPv4(224, 0, 0, 251), Port: 5353}

// MDNS asks once over multicast DNS for the service the bridge advertises and
// takes the first responder's address. The query is sent from an ephemeral port,
// so responders answer it directly (a legacy unicast query) and nothing binds 5353.
type MDNS struct {
	// Timeout bounds the wait for a response. Zero means DefaultMDNSTimeout.
	Timeout time.Duration

	// destination of the query, mdnsGroup unless set by tests
	group *net.UDPAddr
}

func (m *MDNS) Name() string {
	return "mdns"
}

func (m *MDNS) Discover(ctx context.Context) (netip.Addr, error) {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = DefaultMDNSTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	query, err := newQuery()
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error building mDNS query: %w", err)
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero})
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error opening mDNS socket: %w", err)
	}
	defer conn.Close()

	group := m.group
	if group == nil {
		group = mdnsGroup
	}
	if _, err := conn.WriteToUDP(query, group); err != nil {
		return netip.Addr{}, fmt.Errorf("error sending mDNS query: %w", err)
	}

	responders := make(chan *responder)
	go readResponders(ctx, conn, responders)

	return firstAddress(ctx, responders)
}

// responder is one answer that advertised the bridge service.
type responder struct {
	AddrIPv4 []net.IP
	AddrIPv6 []net.IP
}

func newQuery() ([]byte, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(serviceName, dns.TypePTR)
	msg.RecursionDesired = false
	return msg.Pack()
}

// readResponders forwards every bridge answer read from conn until the read
// fails, which happens when Discover closes the socket.
func readResponders(ctx context.Context, conn net.PacketConn, out chan<- *responder) {
	defer close(out)

	buf := make([]byte, 65536)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}

		var msg dns.Msg
		if err := msg.Unpack(buf[:n]); err != nil {
			continue
		}
		r := responderFrom(&msg)
		if r == nil {
			continue
		}

		select {
		case out <- r:
		case <-ctx.Done():
			return
		}
	}
}

// responderFrom collects the addresses in msg, or returns nil when msg does not
// advertise the bridge service.
func responderFrom(msg *dns.Msg) *responder {
	if !msg.Response {
		return nil
	}

	r := &responder{}
	advertised := false
	for _, rr := range append(append([]dns.RR{}, msg.Answer...), msg.Extra...) {
		name := strings.ToLower(rr.Header().Name)
		switch rec := rr.(type) {
		case *dns.PTR:
			advertised = advertised || name == serviceName
		case *dns.SRV:
			advertised = advertised || strings.HasSuffix(name, "."+serviceName)
		case *dns.A:
			r.AddrIPv4 = append(r.AddrIPv4, rec.A)
		case *dns.AAAA:
			r.AddrIPv6 = append(r.AddrIPv6, rec.AAAA)
		}
	}

	if !advertised {
		return nil
	}
	return r
}

// firstAddress returns the first address announced on responders. IPv4 addresses
// are preferred within one answer.
func firstAddress(ctx context.Context, responders <-chan *responder) (netip.Addr, error) {
	for {
		select {
		case <-ctx.Done():
			return netip.Addr{}, waitError(ctx)

		case r, ok := <-responders:
			if !ok {
				if ctx.Err() != nil {
					return netip.Addr{}, waitError(ctx)
				}
				return netip.Addr{}, ErrNoResponse
			}
			if r == nil {
				continue
			}
			for _, ip := range append(r.AddrIPv4, r.AddrIPv6...) {
				if addr, ok := addrFromIP(ip); ok {
					return addr, nil
				}
			}
		}
	}
}

func waitError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ctx.Err()
}

func addrFromIP(ip net.IP) (netip.Addr, bool) {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return netip.Addr{}, false
	}
	addr = addr.Unmap()
	if addr.IsUnspecified() {
		return netip.Addr{}, false
	}
	return addr, true
}
