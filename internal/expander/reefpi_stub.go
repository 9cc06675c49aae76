//go:build !linux

package expander

// ReefBus is not available on non-Linux platforms.
type ReefBus struct{}

// OpenReefPi returns ErrNotSupported on non-Linux platforms.
func OpenReefPi(addr byte) (*ReefBus, error) {
	return nil, ErrNotSupported
}

// ReadReg is not implemented on non-Linux platforms.
func (r *ReefBus) ReadReg(reg Register) (byte, error) {
	return 0, ErrNotSupported
}

// WriteReg is not implemented on non-Linux platforms.
func (r *ReefBus) WriteReg(reg Register, v byte) error {
	return ErrNotSupported
}

// Close is a no-op on non-Linux platforms.
func (r *ReefBus) Close() error {
	return nil
}
