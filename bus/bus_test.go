package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMapContains(t *testing.T) {
	m := NewMemoryMap(10, 20)
	assert.True(t, m.Contains(10))
	assert.True(t, m.Contains(20))
	assert.True(t, m.Contains(15))
	assert.False(t, m.Contains(9))
	assert.False(t, m.Contains(21))
}

func TestMemoryRegionMirrorsShareStorage(t *testing.T) {
	region := NewMemoryRegion(0x2000, NewMemoryMap(0xA000, 0xBFFF), false)
	region.AddMirror(NewMemoryMap(0xC000, 0xDFFF))
	region.AddMirror(NewMemoryMap(0xE000, 0xFFFF))

	region.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), region.Read(0xC000))
	assert.Equal(t, byte(0x42), region.Read(0xE000))

	region.Write(0xE0FF, 0x7)
	assert.Equal(t, byte(0x7), region.Read(0xA0FF))
}

func TestMemoryRegionReadOnlyWriteDropped(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0] = 0xAA
	region := NewMemoryRegionFromData(rom, NewMemoryMap(0x0000, 0x7FFF), true)

	ok := region.Write(0x0000, 0xFF)
	assert.False(t, ok)
	assert.Equal(t, byte(0xAA), region.Read(0x0000))
}

func TestBusFirstAcceptorWins(t *testing.T) {
	a := NewMemoryRegion(0x100, NewMemoryMap(0x0000, 0x00FF), false)
	b := NewMemoryRegion(0x100, NewMemoryMap(0x0000, 0x00FF), false)
	a.Write(0x10, 1)
	b.Write(0x10, 2)

	bus := New()
	bus.Attach(a)
	bus.Attach(b)

	require.Equal(t, byte(1), bus.Read(0x10))
}

func TestBusNoAcceptorReadsZeroAndDropsWrites(t *testing.T) {
	bus := New()
	assert.Equal(t, byte(0), bus.Read(0x1234))
	bus.Write(0x1234, 0xFF) // must not panic
}
