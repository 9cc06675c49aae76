// Package gpio watches the expander's interrupt output on a host GPIO line.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Watcher delivers a wake-up whenever the interrupt line asserts.
type Watcher interface {
	// Edges returns a channel that receives a value per falling edge.
	// Edges that arrive while a previous one is unconsumed are coalesced.
	Edges() <-chan struct{}

	// Close releases GPIO resources.
	Close() error
}

// Defaults for a Raspberry Pi with INTA wired to BCM 17.
const (
	DefaultChip = "gpiochip0"
	DefaultLine = 17
)
