// internal/bus/export_test.go
package bus

import "testing"

// StubBroker exposes the MQTT test broker to the bus_test package.
type StubBroker struct{ b *stubBroker }

func StartStubBroker(t *testing.T) *StubBroker {
	return &StubBroker{b: newStubBroker(t)}
}

func (s *StubBroker) URL() string { return s.b.URL() }

func (s *StubBroker) SkipSubscribes(n int) { s.b.skipSubscribes(n) }

func (s *StubBroker) Counts() (int, int) { return s.b.counts() }

func (s *StubBroker) Deliver(topic, p string) { s.b.deliver(topic, p) }
