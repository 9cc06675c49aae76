package dial

import (
	"errors"
	"testing"
)

func TestBufferAppendAndReset(t *testing.T) {
	b := NewBuffer(8)
	for _, d := range []byte("555") {
		if err := b.Append(d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if b.String() != "555" || b.Len() != 3 {
		t.Errorf("got %q (len %d), want 555", b.String(), b.Len())
	}

	b.Reset()
	if b.String() != "" || b.Len() != 0 {
		t.Errorf("expected empty after reset, got %q", b.String())
	}
	if b.Cap() != 8 {
		t.Errorf("reset should keep capacity, got %d", b.Cap())
	}
}

func TestBufferFull(t *testing.T) {
	b := NewBuffer(2)
	b.Append('1')
	b.Append('2')

	err := b.Append('3')
	if !errors.Is(err, ErrBufferFull) {
		t.Fatalf("expected ErrBufferFull, got %v", err)
	}
	if b.String() != "12" {
		t.Errorf("full buffer should be unchanged, got %q", b.String())
	}
}

func TestBufferDefaultCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if got := NewBuffer(c).Cap(); got != DefaultCapacity {
			t.Errorf("NewBuffer(%d).Cap() = %d, want %d", c, got, DefaultCapacity)
		}
	}
}

func TestBufferStringIsCopy(t *testing.T) {
	b := NewBuffer(4)
	b.Append('1')
	s := b.String()
	b.Reset()
	b.Append('9')
	if s != "1" {
		t.Errorf("earlier String() result changed to %q", s)
	}
}
