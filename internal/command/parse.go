// internal/command/parse.go
package command

import "strings"

const (
	motorPrefix = "motor:"
	ledPrefix   = "led:"
)

// Parse turns one terminator-free line into a Command.
// It never fails: malformed input becomes an Invalid command.
//
// Grammar:
//
//	motor:<steps>:<direction>   steps 0..10000 decimal, direction 0|1
//	led:on | led:off
func Parse(line string) Command {
	switch {
	case line == "":
		return Command{Kind: KindEmpty}

	case strings.HasPrefix(line, motorPrefix):
		return parseMotor(line[len(motorPrefix):])

	case strings.HasPrefix(line, ledPrefix):
		switch line[len(ledPrefix):] {
		case "on":
			return SetIndicator(true)
		case "off":
			return SetIndicator(false)
		}
		return Invalid(ReasonBadLED)

	default:
		return Invalid(ReasonUnknown)
	}
}

// parseMotor parses "<steps>:<direction>".
func parseMotor(rest string) Command {
	stepsField, dirField, ok := strings.Cut(rest, ":")
	if !ok {
		return Invalid(ReasonBadMotor)
	}

	steps, ok := parseSteps(stepsField)
	if !ok {
		return Invalid(ReasonBadMotor)
	}

	if len(dirField) != 1 {
		return Invalid(ReasonBadMotor)
	}
	switch dirField[0] {
	case '0':
		return MoveMotor(steps, Backward)
	case '1':
		return MoveMotor(steps, Forward)
	}
	return Invalid(ReasonBadMotor)
}

// parseSteps accepts decimal digits only, value 0..MaxSteps.
// Leading zeros are fine; signs and whitespace are not.
func parseSteps(s string) (uint16, bool) {
	if s == "" {
		return 0, false
	}

	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
		if v > MaxSteps {
			return 0, false
		}
	}
	return uint16(v), true
}
