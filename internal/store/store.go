// Package store persists the high score and difficulty in a small fixed
// record, the way a microcontroller keeps it in EEPROM.
package store

import (
	"encoding/binary"
	"fmt"

	"github.com/sweeney/whack-a-mole/internal/logic"
)

// Record layout constants.
const (
	Magic   uint16 = 0x4D57
	Version uint8  = 1

	// RecordAddr is where the record lives in the backing store.
	RecordAddr = 0
	// RecordSize is the encoded length: magic(2) version(1) difficulty(1) high score(4).
	RecordSize = 8
)

// Record is the persisted layout.
type Record struct {
	Magic      uint16
	Version    uint8
	Difficulty uint8
	HighScore  uint32
}

// Default returns the record written when nothing valid is stored.
func Default() Record {
	return Record{
		Magic:      Magic,
		Version:    Version,
		Difficulty: logic.DefaultDifficulty,
	}
}

// Valid reports whether the magic and schema version match.
func (r Record) Valid() bool {
	return r.Magic == Magic && r.Version == Version
}

// Settings returns the fields the game works with.
func (r Record) Settings() logic.Settings {
	return logic.Settings{HighScore: r.HighScore, Difficulty: r.Difficulty}
}

// Encode returns the little-endian byte layout.
func (r Record) Encode() []byte {
	b := make([]byte, RecordSize)
	binary.LittleEndian.PutUint16(b[0:2], r.Magic)
	b[2] = r.Version
	b[3] = r.Difficulty
	binary.LittleEndian.PutUint32(b[4:8], r.HighScore)
	return b
}

// Decode parses b. Short input yields the zero Record, which is never Valid.
func Decode(b []byte) Record {
	if len(b) < RecordSize {
		return Record{}
	}
	return Record{
		Magic:      binary.LittleEndian.Uint16(b[0:2]),
		Version:    b[2],
		Difficulty: b[3],
		HighScore:  binary.LittleEndian.Uint32(b[4:8]),
	}
}

// Backing is the flat byte store behind the gateway.
type Backing interface {
	// Load returns n bytes starting at addr.
	Load(addr, n int) ([]byte, error)
	// Store writes b starting at addr.
	Store(addr int, b []byte) error
}

// Gateway is the only writer of the persisted record.
type Gateway struct {
	backing Backing
}

// NewGateway creates a Gateway over backing.
func NewGateway(backing Backing) *Gateway {
	return &Gateway{backing: backing}
}

// Load reads the record. An invalid record is replaced on the spot with
// Default, which is written back once and returned.
func (g *Gateway) Load() (Record, error) {
	r, err := g.read()
	if err != nil {
		return Record{}, err
	}
	if r.Valid() {
		return r, nil
	}

	r = Default()
	if err := g.write(r); err != nil {
		return r, fmt.Errorf("write default record: %w", err)
	}
	return r, nil
}

// SaveIfChanged writes r only when its high score or difficulty differ from
// what is stored. It reports whether a write happened.
func (g *Gateway) SaveIfChanged(r Record) (bool, error) {
	r.Magic = Magic
	r.Version = Version

	cur, err := g.read()
	if err != nil {
		return false, err
	}
	if cur.Valid() && cur.HighScore == r.HighScore && cur.Difficulty == r.Difficulty {
		return false, nil
	}
	if err := g.write(r); err != nil {
		return false, err
	}
	return true, nil
}

// Save implements logic.Persister.
func (g *Gateway) Save(s logic.Settings) error {
	_, err := g.SaveIfChanged(Record{HighScore: s.HighScore, Difficulty: s.Difficulty})
	return err
}

func (g *Gateway) read() (Record, error) {
	b, err := g.backing.Load(RecordAddr, RecordSize)
	if err != nil {
		return Record{}, fmt.Errorf("read record: %w", err)
	}
	return Decode(b), nil
}

func (g *Gateway) write(r Record) error {
	if err := g.backing.Store(RecordAddr, r.Encode()); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}
