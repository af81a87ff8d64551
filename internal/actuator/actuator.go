// internal/actuator/actuator.go
package actuator

import (
	"sync"
	"time"

	"github.com/tamzrod/serial-relay/internal/command"
)

// Driver is the hardware capability the interpreter drives.
// Implementations own pins; timing between pulses belongs to Actuators.
type Driver interface {
	SetDirection(d command.Direction)
	StepHigh()
	StepLow()
	SetIndicator(on bool)
}

// MotorState is the stepper activity.
type MotorState uint8

const (
	MotorIdle MotorState = iota
	MotorStepping
)

// State is a copy of the actuator state.
type State struct {
	Indicator     bool
	Motor         MotorState
	LastDirection command.Direction
	TotalPulses   uint64
}

// Config is pulse timing.
type Config struct {
	PulseHigh time.Duration
	PulseLow  time.Duration
}

// Actuators owns ActuatorState and executes dispatched commands.
// Move blocks for steps * (PulseHigh + PulseLow); no preemption.
type Actuators struct {
	cfg   Config
	drv   Driver
	sleep func(time.Duration)

	mu    sync.Mutex
	state State
}

// New creates actuators around a driver.
func New(cfg Config, drv Driver) *Actuators {
	return &Actuators{
		cfg:   cfg,
		drv:   drv,
		sleep: time.Sleep,
	}
}

// WithSleep replaces the pulse delay function (tests).
func (a *Actuators) WithSleep(fn func(time.Duration)) *Actuators {
	a.sleep = fn
	return a
}

// Move sets direction then emits steps pulses.
// steps == 0 emits nothing but still completes.
func (a *Actuators) Move(steps uint16, dir command.Direction) {
	a.mu.Lock()
	a.state.Motor = MotorStepping
	a.state.LastDirection = dir
	a.mu.Unlock()

	a.drv.SetDirection(dir)

	for i := uint16(0); i < steps; i++ {
		a.drv.StepHigh()
		a.sleep(a.cfg.PulseHigh)
		a.drv.StepLow()
		a.sleep(a.cfg.PulseLow)
	}

	a.mu.Lock()
	a.state.Motor = MotorIdle
	a.state.TotalPulses += uint64(steps)
	a.mu.Unlock()
}

// SetIndicator drives the indicator output.
func (a *Actuators) SetIndicator(on bool) {
	a.drv.SetIndicator(on)

	a.mu.Lock()
	a.state.Indicator = on
	a.mu.Unlock()
}

// State returns a copy of the current state.
func (a *Actuators) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}
