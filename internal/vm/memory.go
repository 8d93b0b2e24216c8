package vm

import "fmt"

const (
	MemorySize     = 4096
	FontStart      = uint16(0x050)
	FontGlyphSize  = 5
	MaxProgramSize = MemorySize - int(ProgramStart)
)

var chip8Font = [16 * FontGlyphSize]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4K address space. Every access is bounds checked;
// nothing is ever clamped.
type Memory struct {
	data [MemorySize]uint8
}

func (m *Memory) Read(addr int) (uint8, error) {
	if addr < 0 || addr >= MemorySize {
		return 0, &AddressError{Addr: addr}
	}
	return m.data[addr], nil
}

func (m *Memory) Write(addr int, v uint8) error {
	if addr < 0 || addr >= MemorySize {
		return &AddressError{Addr: addr}
	}
	m.data[addr] = v
	return nil
}

// ReadRange returns a copy of n bytes starting at addr.
func (m *Memory) ReadRange(addr, n int) ([]uint8, error) {
	if err := checkRange(addr, n); err != nil {
		return nil, err
	}
	out := make([]uint8, n)
	copy(out, m.data[addr:addr+n])
	return out, nil
}

// WriteRange stores bs at addr. Nothing is written unless the whole range fits.
func (m *Memory) WriteRange(addr int, bs []uint8) error {
	if err := checkRange(addr, len(bs)); err != nil {
		return err
	}
	copy(m.data[addr:], bs)
	return nil
}

func checkRange(addr, n int) error {
	if addr < 0 || addr >= MemorySize {
		return &AddressError{Addr: addr}
	}
	if n > 0 && addr+n-1 >= MemorySize {
		return &AddressError{Addr: addr + n - 1}
	}
	return nil
}

func (m *Memory) LoadFont() {
	copy(m.data[FontStart:], chip8Font[:])
}

func (m *Memory) LoadProgram(program []byte) error {
	if len(program) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit", ErrProgramTooLarge, len(program), MaxProgramSize)
	}
	copy(m.data[ProgramStart:], program)
	return nil
}

// FontAddr returns the address of the glyph for the low nibble of digit.
func FontAddr(digit uint8) uint16 {
	return FontStart + uint16(digit&0x0F)*FontGlyphSize
}
