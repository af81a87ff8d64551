// internal/status/constants.go
package status

// Gateway status block layout.
// These values define the protocol and MUST NOT be configurable.

// SlotsPerDevice is the fixed number of registers per status block.
const SlotsPerDevice = 20

const (
	SlotHealthCode     = 0
	SlotLastErrorCode  = 1
	SlotSecondsInError = 2
)

// Slots 3..10 are reserved and always written as zero.
const (
	SlotReservedStart = 3
	SlotReservedEnd   = 10
)

// The device name sits at the end of the block, two ASCII bytes per slot.
const (
	SlotDeviceNameStart = 11
	SlotDeviceNameSlots = 8
	SlotDeviceNameEnd   = SlotDeviceNameStart + SlotDeviceNameSlots - 1
)

// DeviceNameMaxChars is the number of ASCII characters the name slots hold.
const DeviceNameMaxChars = SlotDeviceNameSlots * 2

// Health codes.
const (
	HealthUnknown uint16 = 0
	HealthOK      uint16 = 1
	HealthError   uint16 = 2
)

// Last error codes.
const (
	ErrorNone        uint16 = 0
	ErrorNetworkDown uint16 = 1
	ErrorBusDown     uint16 = 2
)

// MaxSecondsInError is where the error counter saturates.
const MaxSecondsInError uint16 = 0xFFFF
