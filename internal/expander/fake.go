package expander

import "errors"

// Write is one recorded register write.
type Write struct {
	Reg Register
	Val byte
}

// FakeBus is a test double that returns scripted GPIOA values.
//
// Reads of GPIOA while IODIRA holds the column direction (0x0F) consume
// Columns; all other GPIOA reads consume Samples. Once a script is
// exhausted its last value is returned repeatedly.
type FakeBus struct {
	Samples []byte
	Columns []byte

	// Writes records every successful WriteReg call in order.
	Writes []Write

	// ReadError, if set, is returned by ReadReg.
	ReadError error

	// ColumnError, if set, is returned by GPIOA reads in the column
	// direction only.
	ColumnError error

	// WriteError, if set, is returned by WriteReg for WriteErrorReg.
	WriteError    error
	WriteErrorReg Register

	// Closed tracks if Close was called.
	Closed bool

	regs      map[Register]byte
	sample    int
	column    int
	gpioReads int
}

// NewFakeBus creates a FakeBus with the given idle samples.
func NewFakeBus(samples ...byte) *FakeBus {
	return &FakeBus{Samples: samples}
}

// ReadReg returns the next scripted value for GPIOA, or the last written
// value for any other register.
func (f *FakeBus) ReadReg(reg Register) (byte, error) {
	if f.ReadError != nil {
		return 0, f.ReadError
	}
	if reg != GPIOA {
		return f.regs[reg], nil
	}

	f.gpioReads++
	if f.regs[IODIRA] == dirColumns {
		if f.ColumnError != nil {
			return 0, f.ColumnError
		}
		return next(f.Columns, &f.column)
	}
	return next(f.Samples, &f.sample)
}

func next(script []byte, i *int) (byte, error) {
	if len(script) == 0 {
		return 0, errors.New("no samples configured")
	}
	v := script[*i]
	if *i < len(script)-1 {
		*i++
	}
	return v, nil
}

// WriteReg records the write.
func (f *FakeBus) WriteReg(reg Register, v byte) error {
	if f.WriteError != nil && reg == f.WriteErrorReg {
		return f.WriteError
	}
	if f.regs == nil {
		f.regs = make(map[Register]byte)
	}
	f.regs[reg] = v
	f.Writes = append(f.Writes, Write{Reg: reg, Val: v})
	return nil
}

// Reg returns the last value written to reg.
func (f *FakeBus) Reg(reg Register) byte {
	return f.regs[reg]
}

// GPIOReads returns the number of GPIOA reads served.
func (f *FakeBus) GPIOReads() int {
	return f.gpioReads
}

// Close marks the bus as closed.
func (f *FakeBus) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds both scripts and clears recorded writes.
func (f *FakeBus) Reset() {
	f.sample = 0
	f.column = 0
	f.gpioReads = 0
	f.Writes = nil
	f.regs = nil
	f.Closed = false
}
