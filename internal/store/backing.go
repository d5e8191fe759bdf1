package store

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// FileBacking keeps the record in a fixed-size image file. A missing file
// reads as erased (0xFF) bytes, like blank EEPROM.
type FileBacking struct {
	path string
	size int
}

// NewFileBacking creates a FileBacking of size bytes at path.
func NewFileBacking(path string, size int) *FileBacking {
	return &FileBacking{path: path, size: size}
}

// Load returns n bytes at addr.
func (f *FileBacking) Load(addr, n int) ([]byte, error) {
	if err := f.check(addr, n); err != nil {
		return nil, err
	}
	b := erased(n)

	file, err := os.Open(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return b, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	got, err := file.ReadAt(b, int64(addr))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	// Bytes past the end of a short image stay erased.
	for i := got; i < n; i++ {
		b[i] = 0xFF
	}
	return b, nil
}

// Store writes b at addr and syncs the file.
func (f *FileBacking) Store(addr int, b []byte) error {
	if err := f.check(addr, len(b)); err != nil {
		return err
	}
	file, err := os.OpenFile(f.path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	if _, err := file.WriteAt(b, int64(addr)); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("sync %s: %w", f.path, err)
	}
	return file.Close()
}

func (f *FileBacking) check(addr, n int) error {
	if addr < 0 || n < 0 || addr+n > f.size {
		return fmt.Errorf("range %d+%d outside %d-byte store", addr, n, f.size)
	}
	return nil
}

// MemBacking is an in-memory Backing for tests. It counts writes.
type MemBacking struct {
	Data       []byte
	Writes     int
	LoadError  error
	StoreError error
}

// NewMemBacking creates an erased MemBacking of size bytes.
func NewMemBacking(size int) *MemBacking {
	return &MemBacking{Data: erased(size)}
}

// Load returns a copy of n bytes at addr.
func (m *MemBacking) Load(addr, n int) ([]byte, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if addr < 0 || addr+n > len(m.Data) {
		return nil, fmt.Errorf("range %d+%d outside %d-byte store", addr, n, len(m.Data))
	}
	b := make([]byte, n)
	copy(b, m.Data[addr:addr+n])
	return b, nil
}

// Store copies b into the store at addr.
func (m *MemBacking) Store(addr int, b []byte) error {
	if m.StoreError != nil {
		return m.StoreError
	}
	if addr < 0 || addr+len(b) > len(m.Data) {
		return fmt.Errorf("range %d+%d outside %d-byte store", addr, len(b), len(m.Data))
	}
	copy(m.Data[addr:], b)
	m.Writes++
	return nil
}

func erased(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}
