// internal/command/command.go
package command

import "fmt"

// Kind identifies a command variant.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindMoveMotor
	KindSetIndicator
	KindInvalid
)

// Direction is the motor rotation sense.
// Wire values: 0 = backward, 1 = forward.
type Direction uint8

const (
	Backward Direction = 0
	Forward  Direction = 1
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Reason classifies an invalid command.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonBadMotor
	ReasonBadLED
	ReasonUnknown
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonBadMotor:
		return "bad motor"
	case ReasonBadLED:
		return "bad led"
	case ReasonUnknown:
		return "unknown command"
	}
	return fmt.Sprintf("reason(%d)", uint8(r))
}

// MaxSteps is the largest accepted step count.
const MaxSteps = 10000

// Command is one parsed request.
// Exactly one of the variant fields is meaningful, selected by Kind.
// Ephemeral: built and consumed within a single dispatch.
type Command struct {
	Kind Kind

	// KindMoveMotor
	Steps     uint16
	Direction Direction

	// KindSetIndicator
	On bool

	// KindInvalid
	Reason Reason
}

func MoveMotor(steps uint16, dir Direction) Command {
	return Command{Kind: KindMoveMotor, Steps: steps, Direction: dir}
}

func SetIndicator(on bool) Command {
	return Command{Kind: KindSetIndicator, On: on}
}

func Invalid(r Reason) Command {
	return Command{Kind: KindInvalid, Reason: r}
}

// String renders the canonical wire form, the inverse of Parse for
// motor and LED commands. Empty and invalid commands render as "".
func (c Command) String() string {
	switch c.Kind {
	case KindMoveMotor:
		return fmt.Sprintf("%s%d:%d", motorPrefix, c.Steps, uint8(c.Direction))
	case KindSetIndicator:
		if c.On {
			return ledPrefix + "on"
		}
		return ledPrefix + "off"
	}
	return ""
}
