// internal/link/port.go
package link

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

// Config is the serial line setup. Framing is fixed at 8N1.
type Config struct {
	Address string
	Baud    int
	Timeout time.Duration
}

// Port is one end of the point-to-point link.
// Writes are serialized and always complete or fail as a whole.
type Port struct {
	wmu sync.Mutex
	rwc io.ReadWriteCloser
}

// Open opens the serial device.
func Open(cfg Config) (*Port, error) {
	if cfg.Address == "" {
		return nil, errors.New("link: address required")
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", cfg.Address, err)
	}
	return NewPort(p), nil
}

// NewPort wraps an already open stream.
func NewPort(rwc io.ReadWriteCloser) *Port {
	return &Port{rwc: rwc}
}

// Write writes all of b, looping over short writes.
func (p *Port) Write(b []byte) (int, error) {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	total := 0
	for len(b) > 0 {
		n, err := p.rwc.Write(b)
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
		b = b[n:]
	}
	return total, nil
}

// Send writes b as one unit.
func (p *Port) Send(b []byte) error {
	_, err := p.Write(b)
	return err
}

func (p *Port) Read(b []byte) (int, error) {
	return p.rwc.Read(b)
}

func (p *Port) Close() error {
	if p == nil || p.rwc == nil {
		return nil
	}
	return p.rwc.Close()
}

// isTimeout reports read timeouts, which are normal idle periods.
func isTimeout(err error) bool {
	if errors.Is(err, serial.ErrTimeout) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
