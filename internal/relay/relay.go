// internal/relay/relay.go
package relay

import (
	"io"
	"log/slog"

	"github.com/tamzrod/serial-relay/internal/metrics"
)

// MaxPayload is the largest payload the controller is sized for.
// Longer payloads are forwarded anyway; the controller truncates.
const MaxPayload = 255

// Forwarder writes bus payloads to the link, one line each.
// Stateless: at-most-once, no retry, no content inspection.
type Forwarder struct {
	link io.Writer
	log  *slog.Logger
	met  *metrics.Gateway
}

func New(link io.Writer, log *slog.Logger, met *metrics.Gateway) *Forwarder {
	if log == nil {
		log = slog.Default()
	}
	return &Forwarder{link: link, log: log, met: met}
}

// OnMessage forwards payload followed by '\n' in a single write.
// Matches bus.Handler.
func (f *Forwarder) OnMessage(topic string, payload []byte) {
	if len(payload) > MaxPayload {
		f.log.Warn("payload exceeds controller line size",
			"topic", topic,
			"bytes", len(payload),
			"max", MaxPayload,
		)
	}

	line := make([]byte, 0, len(payload)+1)
	line = append(line, payload...)
	line = append(line, '\n')

	if _, err := f.link.Write(line); err != nil {
		f.met.ForwardFailed()
		f.log.Error("forward failed", "topic", topic, "err", err)
		return
	}

	f.met.ForwardOK(len(line))
	f.log.Info("forwarded", "topic", topic, "cmd", string(payload))
}
