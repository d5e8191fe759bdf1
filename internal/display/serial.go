package display

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"github.com/sweeney/whack-a-mole/internal/logic"
)

// HD44780 serial backpack protocol: a 0xFE prefix byte followed by a raw
// controller command. Set-DDRAM-address is 0x80|addr; row 1 starts at 0x40.
const (
	cmdPrefix  = 0xFE
	cmdClear   = 0x01
	cmdSetAddr = 0x80
)

var rowAddr = [Rows]byte{0x00, 0x40}

// Serial drives an HD44780 LCD through a serial backpack. Rows that have not
// changed since the last write are not resent.
type Serial struct {
	port io.WriteCloser
	last [Rows]logic.Line
	sent [Rows]bool
}

// OpenSerial opens device at baud and clears the LCD.
func OpenSerial(device string, baud int) (*Serial, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        device,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial display %s: %w", device, err)
	}
	s := NewSerial(port)
	if err := s.Clear(); err != nil {
		port.Close()
		return nil, err
	}
	return s, nil
}

// NewSerial wraps an already-open port.
func NewSerial(port io.WriteCloser) *Serial {
	return &Serial{port: port}
}

// Clear blanks the LCD and forgets the cached rows.
func (s *Serial) Clear() error {
	s.sent = [Rows]bool{}
	if _, err := s.port.Write([]byte{cmdPrefix, cmdClear}); err != nil {
		return fmt.Errorf("clear serial display: %w", err)
	}
	return nil
}

// WriteRow positions the cursor at the row start and sends the 16 characters.
func (s *Serial) WriteRow(row int, text logic.Line) error {
	if err := checkRow(row); err != nil {
		return err
	}
	if s.sent[row] && s.last[row] == text {
		return nil
	}

	frame := make([]byte, 0, 2+logic.LineWidth)
	frame = append(frame, cmdPrefix, cmdSetAddr|rowAddr[row])
	frame = append(frame, text[:]...)
	if _, err := s.port.Write(frame); err != nil {
		s.sent[row] = false
		return fmt.Errorf("write serial display row %d: %w", row, err)
	}
	s.last[row] = text
	s.sent[row] = true
	return nil
}

// Close closes the serial port.
func (s *Serial) Close() error {
	return s.port.Close()
}
