// internal/command/response.go
package command

// Response lines written back over the link.
// The wire text is protocol-locked.
const (
	RespMotorOK    = "[OK] Motor executed\r\n"
	RespLEDOK      = "[OK] LED updated\r\n"
	RespBadMotor   = "[ERROR] Invalid motor parameters\r\n"
	RespBadLED     = "[ERROR] LED: use led:on or led:off\r\n"
	RespUnknownCmd = "[ERROR] Unknown command\r\n"
)

// ErrorResponse returns the error line for an invalid command reason.
func ErrorResponse(r Reason) string {
	switch r {
	case ReasonBadMotor:
		return RespBadMotor
	case ReasonBadLED:
		return RespBadLED
	default:
		return RespUnknownCmd
	}
}

// IsOK reports whether a response line is a success acknowledgement.
func IsOK(resp string) bool {
	return len(resp) >= 4 && resp[:4] == "[OK]"
}
