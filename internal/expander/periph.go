package expander

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// PeriphBus talks to the expander through periph.io.
type PeriphBus struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

// OpenPeriph initializes the periph host drivers and opens the named I2C
// bus ("" selects the first one registered, "1" is /dev/i2c-1 on a Pi).
func OpenPeriph(busName string, addr uint16) (*PeriphBus, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}

	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}

	return &PeriphBus{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: addr},
	}, nil
}

// ReadReg writes the register pointer then reads one byte back.
func (p *PeriphBus) ReadReg(reg Register) (byte, error) {
	r := make([]byte, 1)
	if err := p.dev.Tx([]byte{byte(reg)}, r); err != nil {
		return 0, fmt.Errorf("i2c 0x%02x read %s: %w", p.dev.Addr, reg, err)
	}
	return r[0], nil
}

// WriteReg writes v to reg.
func (p *PeriphBus) WriteReg(reg Register, v byte) error {
	if err := p.dev.Tx([]byte{byte(reg), v}, nil); err != nil {
		return fmt.Errorf("i2c 0x%02x write %s: %w", p.dev.Addr, reg, err)
	}
	return nil
}

// Close closes the bus.
func (p *PeriphBus) Close() error {
	return p.bus.Close()
}

func (p *PeriphBus) String() string {
	return fmt.Sprintf("%s@0x%02x", p.bus, p.dev.Addr)
}
