// internal/command/parse_test.go
package command

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_MotorFullRange(t *testing.T) {
	for steps := 0; steps <= MaxSteps; steps++ {
		for dir := 0; dir <= 1; dir++ {
			cmd := Parse(fmt.Sprintf("motor:%d:%d", steps, dir))
			require.Equal(t, KindMoveMotor, cmd.Kind, "steps=%d dir=%d", steps, dir)
			require.Equal(t, uint16(steps), cmd.Steps)
			require.Equal(t, Direction(dir), cmd.Direction)
		}
	}
}

func TestParse_MotorInvalid(t *testing.T) {
	lines := []string{
		"motor:10001:1",
		"motor:65536:0",
		"motor:99999999999:1",
		"motor:-1:1",
		"motor:+5:1",
		"motor:abc:1",
		"motor:10:2",
		"motor:10:x",
		"motor:10:01",
		"motor:10:",
		"motor::1",
		"motor:10",
		"motor:",
		"motor:10:1:extra",
		"motor: 10:1",
	}

	for _, l := range lines {
		cmd := Parse(l)
		assert.Equal(t, Invalid(ReasonBadMotor), cmd, "line %q", l)
	}
}

func TestParse_MotorLeadingZeros(t *testing.T) {
	assert.Equal(t, MoveMotor(7, Forward), Parse("motor:0007:1"))
}

func TestParse_LED(t *testing.T) {
	assert.Equal(t, SetIndicator(true), Parse("led:on"))
	assert.Equal(t, SetIndicator(false), Parse("led:off"))

	for _, l := range []string{"led:", "led:ON", "led:on ", "led:blink", "led:offf"} {
		assert.Equal(t, Invalid(ReasonBadLED), Parse(l), "line %q", l)
	}
}

func TestParse_Unknown(t *testing.T) {
	for _, l := range []string{"hello", "LED:on", "motor", "led", " motor:1:1", "x"} {
		assert.Equal(t, Invalid(ReasonUnknown), Parse(l), "line %q", l)
	}
}

func TestParse_Empty(t *testing.T) {
	assert.Equal(t, KindEmpty, Parse("").Kind)
}

func TestErrorResponse(t *testing.T) {
	assert.Equal(t, "[ERROR] Invalid motor parameters\r\n", ErrorResponse(ReasonBadMotor))
	assert.Equal(t, "[ERROR] LED: use led:on or led:off\r\n", ErrorResponse(ReasonBadLED))
	assert.Equal(t, "[ERROR] Unknown command\r\n", ErrorResponse(ReasonUnknown))

	assert.True(t, IsOK(RespMotorOK))
	assert.True(t, IsOK(RespLEDOK))
	assert.False(t, IsOK(RespUnknownCmd))
}

func TestCommand_StringRoundTrip(t *testing.T) {
	for _, line := range []string{"motor:0:0", "motor:100:1", "motor:10000:0", "led:on", "led:off"} {
		cmd := Parse(line)
		assert.Equal(t, line, cmd.String())
		assert.Equal(t, cmd, Parse(cmd.String()))
	}

	// Leading zeros normalize away.
	assert.Equal(t, "motor:7:1", Parse("motor:0007:1").String())

	assert.Empty(t, Parse("").String())
	assert.Empty(t, Parse("led:blink").String())
}

func TestReason_String(t *testing.T) {
	assert.Equal(t, "bad motor", ReasonBadMotor.String())
	assert.Equal(t, "bad led", ReasonBadLED.String())
	assert.Equal(t, "unknown command", ReasonUnknown.String())
	assert.Equal(t, "reason(9)", Reason(9).String())
}
