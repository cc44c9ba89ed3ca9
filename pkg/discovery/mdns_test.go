package discovery

import (
	"context"
	"net"
	"net/netip"
	"sync/atomic"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResponder listens where the query is sent, counts the queries it receives
// and replies with whatever reply builds (nothing when reply returns nil).
func fakeResponder(t *testing.T, reply func(query *dns.Msg) *dns.Msg) (*net.UDPAddr, *atomic.Int32) {
	t.Helper()
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	var queries atomic.Int32
	go func() {
		buf := make([]byte, 65536)
		for {
			n, src, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			queries.Add(1)

			var query dns.Msg
			if err := query.Unpack(buf[:n]); err != nil {
				continue
			}
			answer := reply(&query)
			if answer == nil {
				continue
			}
			packed, err := answer.Pack()
			if err != nil {
				continue
			}
			_, _ = conn.WriteToUDP(packed, src)
		}
	}()

	return conn.LocalAddr().(*net.UDPAddr), &queries
}

func bridgeAnswer(query *dns.Msg, service string, ip string) *dns.Msg {
	answer := new(dns.Msg)
	answer.SetReply(query)
	answer.Answer = []dns.RR{&dns.PTR{
		Hdr: dns.RR_Header{Name: service, Rrtype: dns.TypePTR, Class: dns.ClassINET, Ttl: 120},
		Ptr: "Hue-Bridge-1A2B3C." + service,
	}}
	answer.Extra = []dns.RR{&dns.A{
		Hdr: dns.RR_Header{Name: "ecb5fa1a2b3c.local.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 120},
		A:   net.ParseIP(ip),
	}}
	return answer
}

func Test_MDNS_Discover(t *testing.T) {

	t.Run("answers with the responder's address", func(t *testing.T) {
		group, queries := fakeResponder(t, func(query *dns.Msg) *dns.Msg {
			return bridgeAnswer(query, serviceName, "192.168.1.143")
		})
		m := &MDNS{Timeout: 2 * time.Second, group: group}

		addr, err := m.Discover(context.Background())

		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("192.168.1.143"), addr)
		assert.Equal(t, int32(1), queries.Load())
	})

	t.Run("asks for the bridge service exactly once", func(t *testing.T) {
		questions := make(chan []dns.Question, 4)
		group, queries := fakeResponder(t, func(query *dns.Msg) *dns.Msg {
			questions <- query.Question
			return nil
		})
		m := &MDNS{Timeout: 300 * time.Millisecond, group: group}

		_, err := m.Discover(context.Background())

		assert.ErrorIs(t, err, ErrTimeout)
		assert.Equal(t, int32(1), queries.Load())
		question := <-questions
		require.Len(t, question, 1)
		assert.Equal(t, serviceName, question[0].Name)
		assert.Equal(t, dns.TypePTR, question[0].Qtype)
	})

	t.Run("other services are ignored", func(t *testing.T) {
		group, _ := fakeResponder(t, func(query *dns.Msg) *dns.Msg {
			return bridgeAnswer(query, "_googlecast._tcp.local.", "192.168.1.20")
		})
		m := &MDNS{Timeout: 200 * time.Millisecond, group: group}

		_, err := m.Discover(context.Background())

		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("cancelled caller", func(t *testing.T) {
		group, _ := fakeResponder(t, func(query *dns.Msg) *dns.Msg { return nil })
		m := &MDNS{Timeout: time.Second, group: group}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := m.Discover(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func Test_firstAddress(t *testing.T) {

	t.Run("first usable address", func(t *testing.T) {
		responders := make(chan *responder, 2)
		responders <- &responder{AddrIPv4: []net.IP{net.IPv4zero}}
		responders <- &responder{
			AddrIPv4: []net.IP{net.ParseIP("192.168.1.143")},
			AddrIPv6: []net.IP{net.ParseIP("fe80::1")},
		}

		addr, err := firstAddress(context.Background(), responders)

		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("192.168.1.143"), addr)
	})

	t.Run("ipv6 only", func(t *testing.T) {
		responders := make(chan *responder, 1)
		responders <- &responder{AddrIPv6: []net.IP{net.ParseIP("fe80::1")}}

		addr, err := firstAddress(context.Background(), responders)

		require.NoError(t, err)
		assert.Equal(t, netip.MustParseAddr("fe80::1"), addr)
	})

	t.Run("bounded wait is a timeout", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := firstAddress(ctx, make(chan *responder))

		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("closed without answers", func(t *testing.T) {
		responders := make(chan *responder)
		close(responders)

		_, err := firstAddress(context.Background(), responders)

		assert.ErrorIs(t, err, ErrNoResponse)
	})
}

func Test_responderFrom(t *testing.T) {
	query := new(dns.Msg)
	query.SetQuestion(serviceName, dns.TypePTR)

	t.Run("queries are not answers", func(t *testing.T) {
		assert.Nil(t, responderFrom(query))
	})

	t.Run("srv record is enough to identify the bridge", func(t *testing.T) {
		answer := new(dns.Msg)
		answer.SetReply(query)
		answer.Answer = []dns.RR{
			&dns.SRV{
				Hdr:    dns.RR_Header{Name: "Hue-Bridge-1A2B3C._HUE._tcp.local.", Rrtype: dns.TypeSRV, Class: dns.ClassINET},
				Port:   443,
				Target: "ecb5fa1a2b3c.local.",
			},
			&dns.AAAA{
				Hdr:  dns.RR_Header{Name: "ecb5fa1a2b3c.local.", Rrtype: dns.TypeAAAA, Class: dns.ClassINET},
				AAAA: net.ParseIP("fe80::1"),
			},
		}

		r := responderFrom(answer)

		require.NotNil(t, r)
		assert.Empty(t, r.AddrIPv4)
		assert.Equal(t, []net.IP{net.ParseIP("fe80::1")}, r.AddrIPv6)
	})
}
