package logic

import "fmt"

// LineWidth is the number of characters on one display row.
const LineWidth = 16

// Line is one display row: always exactly LineWidth bytes.
type Line [LineWidth]byte

// MakeLine pads s with spaces or truncates it to LineWidth bytes.
func MakeLine(s string) Line {
	var l Line
	n := copy(l[:], s)
	for i := n; i < LineWidth; i++ {
		l[i] = ' '
	}
	return l
}

func (l Line) String() string {
	return string(l[:])
}

const (
	titleLine  = "  WHACK-A-MOLE  "
	promptLine = "Press any button"

	glyphActive   = '*'
	glyphInactive = '-'
	holeStride    = 4

	// Values above wideMax switch the score row to the compact form, which
	// shows at most compactMax.
	wideMax    = 999
	compactMax = 99999
)

// Render draws the two display rows for the current state. It has no side effects.
//
// The score row reads "Score:%3d Hi:%3d" while both values fit in three digits.
// Past that it becomes "S:%d H:%d", with each value capped at 99999 so the
// high score is never cut off.
func Render(s State, moles [NumChannels]Mole) (top, bottom Line) {
	if s.Phase == PhaseStart {
		return MakeLine(titleLine), MakeLine(promptLine)
	}

	top = MakeLine("")
	for i, m := range moles {
		glyph := byte(glyphInactive)
		if m.Active {
			glyph = glyphActive
		}
		top[i*holeStride] = glyph
		top[i*holeStride+1] = byte('1' + i)
	}

	bottom = MakeLine(scoreRow(s.Score, s.HighScore))
	return top, bottom
}

func scoreRow(score, high uint32) string {
	if score <= wideMax && high <= wideMax {
		return fmt.Sprintf("Score:%3d Hi:%3d", score, high)
	}
	return fmt.Sprintf("S:%d H:%d", min(score, compactMax), min(high, compactMax))
}
