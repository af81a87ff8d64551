// internal/health/writer.go
package health

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/serial-relay/internal/status"
)

// registerWriter is the single capability the status writer needs.
type registerWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// WriterConfig locates the status block on the endpoint.
type WriterConfig struct {
	UnitID     uint8
	Slot       uint16
	DeviceName string
}

// StatusWriter delivers snapshots into a Modbus status block verbatim.
// No interpretation. On any failure the next call re-asserts the full block.
type StatusWriter struct {
	cli  registerWriter
	unit uint8
	base uint16

	needFull bool
	last     status.Snapshot
	nameRegs []uint16
}

// NewStatusWriter builds a writer for one status block.
func NewStatusWriter(cfg WriterConfig, cli registerWriter) (*StatusWriter, error) {
	if cli == nil {
		return nil, errors.New("status writer: client required")
	}

	base := uint32(cfg.Slot) * status.SlotsPerDevice
	if base+status.SlotsPerDevice > 0x10000 {
		return nil, fmt.Errorf("status writer: slot %d out of address range", cfg.Slot)
	}

	return &StatusWriter{
		cli:      cli,
		unit:     cfg.UnitID,
		base:     uint16(base),
		needFull: true,
		last:     status.Snapshot{Health: status.HealthUnknown},
		nameRegs: status.EncodeName(cfg.DeviceName),
	}, nil
}

// WriteStatus writes s. The first call, and the first call after any
// failure, writes the whole block including the device name. Otherwise
// only changed slots are written.
func (sw *StatusWriter) WriteStatus(s status.Snapshot) error {
	if sw.needFull {
		regs := status.Encode(s, sw.nameRegs)
		if err := sw.cli.WriteRegisters(sw.unit, sw.base, regs); err != nil {
			return fmt.Errorf("status writer: full block write failed: %w", err)
		}
		sw.needFull = false
		sw.last = s
		return nil
	}

	var errs []string

	write := func(slot uint16, name string, cur *uint16, next uint16) {
		if *cur == next {
			return
		}
		if err := sw.cli.WriteRegisters(sw.unit, sw.base+slot, []uint16{next}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", slot, name, err))
			return
		}
		*cur = next
	}

	write(status.SlotHealthCode, "health", &sw.last.Health, s.Health)
	write(status.SlotLastErrorCode, "last_error", &sw.last.LastErrorCode, s.LastErrorCode)
	write(status.SlotSecondsInError, "seconds", &sw.last.SecondsInError, s.SecondsInError)

	if len(errs) > 0 {
		sw.needFull = true
		return errors.New("status writer: " + strings.Join(errs, " | "))
	}
	return nil
}
