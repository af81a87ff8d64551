// internal/actuator/sim.go
package actuator

import (
	"log/slog"
	"sync"

	"github.com/tamzrod/serial-relay/internal/command"
)

// SimDriver is a pin-less Driver.
// It records pin levels and pulse counts and logs level changes of the
// direction and indicator outputs. Used where no GPIO is wired.
type SimDriver struct {
	log *slog.Logger

	mu        sync.Mutex
	dir       command.Direction
	stepLevel bool
	indicator bool
	pulses    uint64
}

func NewSimDriver(log *slog.Logger) *SimDriver {
	if log == nil {
		log = slog.Default()
	}
	return &SimDriver{log: log}
}

func (s *SimDriver) SetDirection(d command.Direction) {
	s.mu.Lock()
	s.dir = d
	s.mu.Unlock()
	s.log.Debug("motor direction", "dir", d.String())
}

func (s *SimDriver) StepHigh() {
	s.mu.Lock()
	s.stepLevel = true
	s.mu.Unlock()
}

// StepLow completes one pulse on the falling edge.
func (s *SimDriver) StepLow() {
	s.mu.Lock()
	if s.stepLevel {
		s.pulses++
	}
	s.stepLevel = false
	s.mu.Unlock()
}

func (s *SimDriver) SetIndicator(on bool) {
	s.mu.Lock()
	s.indicator = on
	s.mu.Unlock()
	s.log.Info("indicator", "on", on)
}

// Pulses returns the number of complete step pulses seen.
func (s *SimDriver) Pulses() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulses
}

func (s *SimDriver) Indicator() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indicator
}

func (s *SimDriver) Direction() command.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dir
}
