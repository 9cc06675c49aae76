//go:build linux

package expander

import (
	"fmt"

	"github.com/reef-pi/rpi/i2c"
)

// ReefBus talks to the expander through reef-pi's /dev/i2c-1 binding.
type ReefBus struct {
	bus  i2c.Bus
	addr byte
}

// OpenReefPi opens /dev/i2c-1 for the device at addr.
func OpenReefPi(addr byte) (*ReefBus, error) {
	bus, err := i2c.New()
	if err != nil {
		return nil, fmt.Errorf("open reef-pi i2c: %w", err)
	}
	return &ReefBus{bus: bus, addr: addr}, nil
}

// ReadReg returns the value of reg.
func (r *ReefBus) ReadReg(reg Register) (byte, error) {
	buf := make([]byte, 1)
	if err := r.bus.ReadFromReg(r.addr, byte(reg), buf); err != nil {
		return 0, fmt.Errorf("i2c 0x%02x read %s: %w", r.addr, reg, err)
	}
	return buf[0], nil
}

// WriteReg sets reg to v.
func (r *ReefBus) WriteReg(reg Register, v byte) error {
	if err := r.bus.WriteToReg(r.addr, byte(reg), []byte{v}); err != nil {
		return fmt.Errorf("i2c 0x%02x write %s: %w", r.addr, reg, err)
	}
	return nil
}

// Close closes the bus.
func (r *ReefBus) Close() error {
	return r.bus.Close()
}
