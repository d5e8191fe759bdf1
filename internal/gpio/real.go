//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealWatcher reads buttons from actual hardware using the Linux GPIO character device.
type RealWatcher struct {
	chip    *gpiocdev.Chip
	lines   *gpiocdev.Lines
	channel map[int]int // line offset -> channel
	onEdge  EdgeFunc
}

// NewRealWatcher requests the four button lines on chip as pulled-up inputs
// with falling-edge detection. onEdge is called from the gpiocdev event
// goroutine for every falling edge.
func NewRealWatcher(chipName string, pins [NumButtons]int, onEdge EdgeFunc) (*RealWatcher, error) {
	chip, err := gpiocdev.NewChip(chipName, gpiocdev.WithConsumer("whack-a-mole"))
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWatcher{
		chip:    chip,
		channel: make(map[int]int, NumButtons),
		onEdge:  onEdge,
	}
	for ch, pin := range pins {
		w.channel[pin] = ch
	}

	// Buttons short the line to ground, so pull up and watch the falling edge.
	lines, err := chip.RequestLines(pins[:],
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(w.handle))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pins %v: %w", pins, err)
	}
	w.lines = lines

	return w, nil
}

func (w *RealWatcher) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventFallingEdge {
		return
	}
	ch, ok := w.channel[evt.Offset]
	if !ok || w.onEdge == nil {
		return
	}
	w.onEdge(ch)
}

// Read returns whether each button is held down.
// Inverts raw GPIO: raw low (0) = pressed, raw high (1) = released.
func (w *RealWatcher) Read() ([NumButtons]bool, error) {
	var pressed [NumButtons]bool
	raw := make([]int, NumButtons)
	if err := w.lines.Values(raw); err != nil {
		return pressed, fmt.Errorf("read button pins: %w", err)
	}
	for i, v := range raw {
		pressed[i] = v == 0
	}
	return pressed, nil
}

// Close releases GPIO resources.
// Drops edge detection but leaves the lines as pulled-up inputs so the buttons
// stay in a defined state after exit.
func (w *RealWatcher) Close() error {
	var errs []error

	if w.lines != nil {
		if err := w.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pins: %w", err))
		}
		if err := w.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
