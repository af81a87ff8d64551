// internal/bus/broker_test.go
package bus

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"sync"
	"testing"
)

// stubBroker speaks just enough MQTT 3.1.1 for one paho client:
// CONNECT, SUBSCRIBE, PUBLISH (QoS 0/1), PINGREQ and DISCONNECT.
type stubBroker struct {
	ln net.Listener

	mu         sync.Mutex
	conns      []*stubConn
	connects   int
	subscribes int
	published  []stubMessage

	// SUBSCRIBEs numbered up to skipSubacks get no SUBACK.
	skipSubacks int
}

type stubConn struct {
	wmu sync.Mutex
	c   net.Conn
}

func (sc *stubConn) write(b []byte) {
	sc.wmu.Lock()
	defer sc.wmu.Unlock()
	_, _ = sc.c.Write(b)
}

type stubMessage struct {
	topic   string
	payload string
}

func newStubBroker(t *testing.T) *stubBroker {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	b := &stubBroker{ln: ln}
	go b.accept()
	t.Cleanup(func() {
		_ = ln.Close()
		b.dropAll()
	})
	return b
}

func (b *stubBroker) URL() string {
	return "tcp://" + b.ln.Addr().String()
}

func (b *stubBroker) accept() {
	for {
		c, err := b.ln.Accept()
		if err != nil {
			return
		}
		sc := &stubConn{c: c}
		b.mu.Lock()
		b.conns = append(b.conns, sc)
		b.mu.Unlock()
		go b.serve(sc)
	}
}

// dropAll closes every client connection without a DISCONNECT.
func (b *stubBroker) dropAll() {
	b.mu.Lock()
	conns := b.conns
	b.conns = nil
	b.mu.Unlock()

	for _, sc := range conns {
		_ = sc.c.Close()
	}
}

// deliver sends a QoS 0 PUBLISH to every connected client.
func (b *stubBroker) deliver(topic, payload string) {
	body := appendString(nil, topic)
	body = append(body, payload...)
	pkt := append(fixedHeader(0x30, len(body)), body...)

	b.mu.Lock()
	conns := append([]*stubConn(nil), b.conns...)
	b.mu.Unlock()

	for _, sc := range conns {
		sc.write(pkt)
	}
}

// skipSubscribes leaves the next n SUBSCRIBEs unanswered.
func (b *stubBroker) skipSubscribes(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.skipSubacks = b.subscribes + n
}

func (b *stubBroker) counts() (connects, subscribes int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connects, b.subscribes
}

func (b *stubBroker) messages() []stubMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]stubMessage(nil), b.published...)
}

func (b *stubBroker) serve(sc *stubConn) {
	defer sc.c.Close()
	r := bufio.NewReader(sc.c)

	for {
		hdr, body, err := readPacket(r)
		if err != nil {
			return
		}

		switch hdr >> 4 {
		case 1: // CONNECT
			b.mu.Lock()
			b.connects++
			b.mu.Unlock()
			sc.write([]byte{0x20, 0x02, 0x00, 0x00})

		case 3: // PUBLISH
			qos := (hdr >> 1) & 0x03
			if len(body) < 2 {
				return
			}
			tlen := int(binary.BigEndian.Uint16(body))
			rest := body[2:]
			if len(rest) < tlen {
				return
			}
			topic := string(rest[:tlen])
			rest = rest[tlen:]

			var pid []byte
			if qos > 0 {
				if len(rest) < 2 {
					return
				}
				pid, rest = rest[:2], rest[2:]
			}

			b.mu.Lock()
			b.published = append(b.published, stubMessage{topic, string(rest)})
			b.mu.Unlock()

			if qos == 1 {
				sc.write([]byte{0x40, 0x02, pid[0], pid[1]})
			}

		case 8: // SUBSCRIBE
			b.mu.Lock()
			b.subscribes++
			skip := b.subscribes <= b.skipSubacks
			b.mu.Unlock()
			if skip || len(body) < 2 {
				continue
			}

			granted := []byte{}
			for rest := body[2:]; len(rest) >= 2; {
				flen := int(binary.BigEndian.Uint16(rest))
				if len(rest) < 2+flen+1 {
					break
				}
				granted = append(granted, rest[2+flen])
				rest = rest[2+flen+1:]
			}

			ack := append(fixedHeader(0x90, 2+len(granted)), body[0], body[1])
			sc.write(append(ack, granted...))

		case 12: // PINGREQ
			sc.write([]byte{0xD0, 0x00})

		case 14: // DISCONNECT
			return
		}
	}
}

func readPacket(r *bufio.Reader) (byte, []byte, error) {
	hdr, err := r.ReadByte()
	if err != nil {
		return 0, nil, err
	}

	n, mult := 0, 1
	for i := 0; ; i++ {
		if i == 4 {
			return 0, nil, errors.New("malformed remaining length")
		}
		c, err := r.ReadByte()
		if err != nil {
			return 0, nil, err
		}
		n += int(c&0x7F) * mult
		if c&0x80 == 0 {
			break
		}
		mult *= 128
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, err
	}
	return hdr, body, nil
}

func fixedHeader(typ byte, n int) []byte {
	out := []byte{typ}
	for {
		c := byte(n % 128)
		n /= 128
		if n > 0 {
			c |= 0x80
		}
		out = append(out, c)
		if n == 0 {
			return out
		}
	}
}

func appendString(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint16(b, uint16(len(s)))
	return append(b, s...)
}
