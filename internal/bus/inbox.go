// internal/bus/inbox.go
package bus

import (
	"context"
	"log/slog"

	"github.com/tamzrod/serial-relay/internal/metrics"
)

// Message is one inbound bus delivery.
type Message struct {
	Topic   string
	Payload []byte
}

// inbox is the bounded hand-off between client library goroutines
// (producers) and the supervisor loop (single consumer).
type inbox struct {
	ch  chan Message
	log *slog.Logger
	met *metrics.Gateway
}

func newInbox(size int, log *slog.Logger, met *metrics.Gateway) *inbox {
	if size <= 0 {
		size = 64
	}
	return &inbox{
		ch:  make(chan Message, size),
		log: log,
		met: met,
	}
}

// push never blocks. A full inbox drops the message.
func (i *inbox) push(topic string, payload []byte) {
	m := Message{
		Topic:   topic,
		Payload: append([]byte(nil), payload...),
	}

	select {
	case i.ch <- m:
	default:
		i.met.Dropped()
		i.log.Warn("inbox full, message dropped", "topic", topic, "bytes", len(payload))
	}
}

// drain delivers what is queued right now, without waiting for more.
func (i *inbox) drain(ctx context.Context, h Handler) int {
	n := len(i.ch)
	delivered := 0

	for ; delivered < n; delivered++ {
		if ctx.Err() != nil {
			break
		}
		m := <-i.ch
		if h != nil {
			h(m.Topic, m.Payload)
		}
	}
	return delivered
}
