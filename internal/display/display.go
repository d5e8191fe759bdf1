// Package display writes the two 16-character rows produced by logic.Render
// to a character display.
package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/sweeney/whack-a-mole/internal/logic"
)

// Rows is the number of rows on the display.
const Rows = 2

// Writer overwrites one display row in place.
type Writer interface {
	WriteRow(row int, text logic.Line) error
}

func checkRow(row int) error {
	if row < 0 || row >= Rows {
		return fmt.Errorf("display: row %d out of range", row)
	}
	return nil
}

// Terminal draws the rows on an ANSI terminal, one screen line per row.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
}

// NewTerminal creates a Terminal writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// WriteRow moves the cursor to the row's first column and writes the text.
func (t *Terminal) WriteRow(row int, text logic.Line) error {
	if err := checkRow(row); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := fmt.Fprintf(t.out, "\x1b[%d;1H%s", row+1, text.String())
	return err
}

// Fake records every row written, for tests.
type Fake struct {
	mu     sync.Mutex
	rows   [Rows]logic.Line
	Writes int

	// WriteError, if set, is returned by WriteRow.
	WriteError error
}

// NewFake creates a Fake with blank rows.
func NewFake() *Fake {
	f := &Fake{}
	for i := range f.rows {
		f.rows[i] = logic.MakeLine("")
	}
	return f
}

// WriteRow records text as the row's content.
func (f *Fake) WriteRow(row int, text logic.Line) error {
	if err := checkRow(row); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.rows[row] = text
	f.Writes++
	return nil
}

// Row returns the last text written to row.
func (f *Fake) Row(row int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[row].String()
}
