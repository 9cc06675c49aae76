// Package keypad scans a 4x3 matrix keypad behind an MCP23017 and decodes
// presses into DTMF characters. It has no knowledge of the bus transport.
package keypad

import "github.com/sweeney/switchpi/internal/expander"

// Rows and Cols are the keypad dimensions.
const (
	Rows = 4
	Cols = 3
)

var symbols = [Rows]string{"123", "456", "789", "*0#"}

// Row bits in priority order; index 0 is row 1.
var rowBits = [Rows]byte{expander.Pin8, expander.Pin7, expander.Pin6, expander.Pin5}

// Column bits; index 0 is column 1. Column 3 (PIN2) has the highest
// priority, then column 2, then column 1.
var colBits = [Cols]byte{expander.Pin4, expander.Pin3, expander.Pin2}

// HookBit senses the hook switch in the phone wiring. Low means off-hook.
const HookBit = expander.Pin1

// KeyAt returns the character at the 1-based row and col. Callers must
// pass indices resolved by the scanner.
func KeyAt(row, col int) byte {
	return symbols[row-1][col-1]
}

// Position returns the 1-based row and column of key.
func Position(key byte) (row, col int, ok bool) {
	for r, line := range symbols {
		for c := 0; c < len(line); c++ {
			if line[c] == key {
				return r + 1, c + 1, true
			}
		}
	}
	return 0, 0, false
}

// Keys returns every key on the pad in row-major order.
func Keys() []byte {
	keys := make([]byte, 0, Rows*Cols)
	for _, line := range symbols {
		keys = append(keys, line...)
	}
	return keys
}

// ResolveRow returns the first row whose bit reads low, or 0.
func ResolveRow(snapshot byte) int {
	return firstLow(snapshot, rowBits[:])
}

// ResolveColumn returns the highest-numbered column whose bit reads low,
// or 0.
func ResolveColumn(snapshot byte) int {
	for col := Cols; col >= 1; col-- {
		if snapshot&colBits[col-1] == 0 {
			return col
		}
	}
	return 0
}

func firstLow(v byte, bits []byte) int {
	for i, b := range bits {
		if v&b == 0 {
			return i + 1
		}
	}
	return 0
}

// OffHook reports whether the hook bit in snapshot reads low.
func OffHook(snapshot byte) bool {
	return snapshot&HookBit == 0
}

// RowSnapshot returns the idle-direction port value seen while the key at
// (row, col) is held. base supplies the non-row bits.
func RowSnapshot(base byte, row int) byte {
	v := base | 0xF0
	if row >= 1 && row <= Rows {
		v &^= rowBits[row-1]
	}
	return v
}

// ColumnSnapshot returns the swapped-direction port value seen while a key
// in col is held.
func ColumnSnapshot(col int) byte {
	v := byte(0x0F)
	if col >= 1 && col <= Cols {
		v &^= colBits[col-1]
	}
	return v
}
