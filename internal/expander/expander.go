// Package expander drives an MCP23017 I/O expander wired to a 4x3 matrix
// keypad on port A. The bus transport is abstracted so the register logic
// can run against real hardware (periph.io or reef-pi) or a fake in tests.
package expander

import (
	"errors"
	"fmt"
)

// DefaultAddress is the I2C address of the keypad controller (A2=1, A1=0, A0=0).
const DefaultAddress = 0x24

// Idle port A directions. Rows (pins 5-8) are inputs with external pull-ups
// and columns (pins 1-4) are driven low; in the phone variant pin 1 stays an
// input so it can sense the hook switch.
const (
	DirKeypad byte = 0xF0
	DirPhone  byte = 0xF1

	// dirColumns flips the nibbles so rows drive and columns sense.
	dirColumns byte = 0x0F
)

// ErrNotSupported is returned by bus backends that are unavailable on the
// current platform.
var ErrNotSupported = errors.New("expander: not supported on this platform")

// Bus reads and writes single 8-bit registers on the expander.
type Bus interface {
	// ReadReg returns the value of reg.
	ReadReg(reg Register) (byte, error)

	// WriteReg sets reg to v.
	WriteReg(reg Register, v byte) error

	// Close releases the bus.
	Close() error
}

// Device is a configured keypad controller.
type Device struct {
	bus     Bus
	idleDir byte
}

// New wraps bus. idleDir is the port A direction restored after every
// column read, normally DirKeypad or DirPhone.
func New(bus Bus, idleDir byte) *Device {
	return &Device{bus: bus, idleDir: idleDir}
}

// Configure writes the startup register sequence. It must run once before
// the first scan.
func (d *Device) Configure() error {
	steps := []struct {
		reg Register
		val byte
	}{
		{IOCON, iocon},
		{IODIRA, d.idleDir},
		{INTCONA, 0xF0},  // compare pins 5-8 against DEFVAL
		{DEFVALA, 0xF0},  // rows idle high
		{GPINTENA, 0xF0}, // interrupt on change for pins 5-8
		{GPPUA, 0x0F},    // internal pull-ups on pins 1-4, external on 5-8
		{GPIOA, 0xF0},
	}
	for _, s := range steps {
		if err := d.bus.WriteReg(s.reg, s.val); err != nil {
			return fmt.Errorf("configure %s: %w", s.reg, err)
		}
	}
	return nil
}

// ReadGPIO returns the current port A value.
func (d *Device) ReadGPIO() (byte, error) {
	v, err := d.bus.ReadReg(GPIOA)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", GPIOA, err)
	}
	return v, nil
}

// ReadColumns swaps port A so the row nibble drives low and the column
// nibble senses, reads the port, then restores the idle direction. The
// restore is attempted even when the read fails.
func (d *Device) ReadColumns() (byte, error) {
	if err := d.bus.WriteReg(OLATA, 0x00); err != nil {
		return 0, fmt.Errorf("clear %s: %w", OLATA, err)
	}
	if err := d.bus.WriteReg(IODIRA, dirColumns); err != nil {
		return 0, fmt.Errorf("swap %s: %w", IODIRA, err)
	}

	v, readErr := d.bus.ReadReg(GPIOA)
	restoreErr := d.bus.WriteReg(IODIRA, d.idleDir)

	if readErr != nil {
		return 0, fmt.Errorf("read columns: %w", errors.Join(readErr, restoreErr))
	}
	if restoreErr != nil {
		return 0, fmt.Errorf("restore %s: %w", IODIRA, restoreErr)
	}
	return v, nil
}

// Close closes the underlying bus.
func (d *Device) Close() error {
	return d.bus.Close()
}
