// Package gpio watches the four game buttons with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// EdgeFunc is called once per falling edge with the channel index (0..3).
// It runs on the watcher's event goroutine and must not block.
type EdgeFunc func(channel int)

// Watcher delivers button edges and reports raw button levels.
type Watcher interface {
	// Read returns whether each button is currently held down.
	// Buttons pull the line low, so a low level reads as pressed.
	Read() ([NumButtons]bool, error)

	// Close stops edge delivery and releases GPIO resources.
	Close() error
}

// NumButtons is the number of button lines.
const NumButtons = 4

// Default pin offsets on gpiochip0 (BCM numbering), channel order.
var DefaultPins = [NumButtons]int{5, 6, 13, 19}

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"

var _ Watcher = (*RealWatcher)(nil)
