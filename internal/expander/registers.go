package expander

import "fmt"

// Register is an MCP23017 register address in IOCON.BANK=0 numbering,
// where the A and B variants of each register are interleaved.
type Register byte

// Port A registers.
const (
	IODIRA   Register = 0x00 // I/O direction, 1 = input
	IPOLA    Register = 0x02 // input polarity
	GPINTENA Register = 0x04 // interrupt-on-change enable
	DEFVALA  Register = 0x06 // default compare value
	INTCONA  Register = 0x08 // interrupt control
	IOCON    Register = 0x0A // shared configuration (also at 0x0B)
	GPPUA    Register = 0x0C // 100k pull-up enable
	INTFA    Register = 0x0E // interrupt flag
	INTCAPA  Register = 0x10 // interrupt capture
	GPIOA    Register = 0x12 // port value
	OLATA    Register = 0x14 // output latch
)

// Port B registers. Unused by the keypad wiring but part of the map.
const (
	IODIRB   Register = 0x01
	IPOLB    Register = 0x03
	GPINTENB Register = 0x05
	DEFVALB  Register = 0x07
	INTCONB  Register = 0x09
	GPPUB    Register = 0x0D
	INTFB    Register = 0x0F
	INTCAPB  Register = 0x11
	GPIOB    Register = 0x13
	OLATB    Register = 0x15
)

// IOCON bits.
const (
	IOCONBank   byte = 0x80
	IOCONMirror byte = 0x40
	IOCONSeqOp  byte = 0x20
	IOCONDisSlw byte = 0x10
	IOCONHAEn   byte = 0x08
	IOCONODR    byte = 0x04
	IOCONIntPol byte = 0x02

	iocon = IOCONSeqOp
)

// Pin bits of one bank. Pin1 is bit 0.
const (
	Pin1 byte = 1 << iota
	Pin2
	Pin3
	Pin4
	Pin5
	Pin6
	Pin7
	Pin8
)

var registerNames = map[Register]string{
	IODIRA: "IODIRA", IODIRB: "IODIRB",
	IPOLA: "IPOLA", IPOLB: "IPOLB",
	GPINTENA: "GPINTENA", GPINTENB: "GPINTENB",
	DEFVALA: "DEFVALA", DEFVALB: "DEFVALB",
	INTCONA: "INTCONA", INTCONB: "INTCONB",
	IOCON: "IOCON",
	GPPUA: "GPPUA", GPPUB: "GPPUB",
	INTFA: "INTFA", INTFB: "INTFB",
	INTCAPA: "INTCAPA", INTCAPB: "INTCAPB",
	GPIOA: "GPIOA", GPIOB: "GPIOB",
	OLATA: "OLATA", OLATB: "OLATB",
}

func (r Register) String() string {
	if n, ok := registerNames[r]; ok {
		return n
	}
	return fmt.Sprintf("REG_0x%02X", byte(r))
}
