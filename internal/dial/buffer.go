package dial

import (
	"errors"
	"fmt"
)

// ErrBufferFull is returned when appending to a full Buffer.
var ErrBufferFull = errors.New("dial buffer full")

// Buffer accumulates dialed digits up to a fixed capacity.
// Not safe for concurrent use.
type Buffer struct {
	digits   []byte
	capacity int
}

// NewBuffer creates a Buffer holding at most capacity digits.
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		digits:   make([]byte, 0, capacity),
		capacity: capacity,
	}
}

// Append adds a digit. A full buffer is left unchanged.
func (b *Buffer) Append(d byte) error {
	if len(b.digits) >= b.capacity {
		return fmt.Errorf("append %q: %w (%d digits)", d, ErrBufferFull, b.capacity)
	}
	b.digits = append(b.digits, d)
	return nil
}

// String returns the accumulated digits.
func (b *Buffer) String() string {
	return string(b.digits)
}

// Len returns the number of digits held.
func (b *Buffer) Len() int {
	return len(b.digits)
}

// Cap returns the capacity.
func (b *Buffer) Cap() int {
	return b.capacity
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.digits = b.digits[:0]
}
