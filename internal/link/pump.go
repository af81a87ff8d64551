// internal/link/pump.go
package link

import (
	"context"
	"io"
)

// ByteSink receives the link one byte at a time.
// OnByte must not block; it returns false when reception is disarmed.
// WaitArmed blocks until the sink accepts bytes again.
type ByteSink interface {
	OnByte(b byte) bool
	WaitArmed(ctx context.Context) error
}

// Pump is the reception context: it reads one byte at a time and hands
// each to sink. While the sink is disarmed no further bytes are read;
// they stay queued in the driver.
// Read timeouts are idle periods, not errors. Returns on ctx done,
// io.EOF (nil) or any other read error.
func Pump(ctx context.Context, r io.Reader, sink ByteSink) error {
	var one [1]byte

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(one[:])
		if n == 1 {
			if !sink.OnByte(one[0]) {
				if werr := sink.WaitArmed(ctx); werr != nil {
					return werr
				}
			}
		}

		if err != nil {
			if isTimeout(err) {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// maxAckLine bounds a response line read back from the controller.
const maxAckLine = 256

// ReadLines splits the stream into terminator-delimited lines and calls
// fn for every non-empty one. Overlong lines are cut at maxAckLine.
// Same return rules as Pump.
func ReadLines(ctx context.Context, r io.Reader, fn func(line string)) error {
	buf := make([]byte, 64)
	line := make([]byte, 0, maxAckLine)

	flush := func() {
		if len(line) > 0 {
			fn(string(line))
			line = line[:0]
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		for _, c := range buf[:n] {
			switch {
			case c == '\n' || c == '\r':
				flush()
			case len(line) < maxAckLine:
				line = append(line, c)
			}
		}

		if err != nil {
			if isTimeout(err) {
				continue
			}
			if err == io.EOF {
				flush()
				return nil
			}
			return err
		}
	}
}
