package machine

import (
	"testing"

	"github.com/go-sg1000/sg1000emu/controller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyROM(t *testing.T) {
	_, err := New(nil, 1)
	assert.Error(t, err)
}

func TestNewRejectsOversizedROM(t *testing.T) {
	_, err := New(make([]byte, 0x8001), 1)
	assert.Error(t, err)
}

func TestRAMMirrorsAcrossHighWindow(t *testing.T) {
	m, err := New([]byte{0x00}, 1)
	require.NoError(t, err)

	m.ioBus.Write(0xA000, 0x42)
	assert.Equal(t, byte(0x42), m.ioBus.Read(0xC000))
	assert.Equal(t, byte(0x42), m.ioBus.Read(0xE000))
}

func TestROMIsReadOnly(t *testing.T) {
	m, err := New([]byte{0xAA}, 1)
	require.NoError(t, err)

	m.ioBus.Write(0x0000, 0xFF)
	assert.Equal(t, byte(0xAA), m.ioBus.Read(0x0000))
}

func TestStepFrameProducesOneCanvasPerCall(t *testing.T) {
	rom := make([]byte, 0x8000)
	// Infinite loop: JP 0x0000, so StepFrame only ever stops on vblank.
	rom[0], rom[1], rom[2] = 0xC3, 0x00, 0x00
	m, err := New(rom, 1)
	require.NoError(t, err)

	_, ready := m.TakeCanvas()
	assert.False(t, ready)

	m.StepFrame()
	frame, ready := m.TakeCanvas()
	require.True(t, ready)
	assert.Equal(t, 256, frame.Bounds().Dx())
	assert.Equal(t, 192, frame.Bounds().Dy())

	_, readyAgain := m.TakeCanvas()
	assert.False(t, readyAgain)
}

func TestPostInputReachesController(t *testing.T) {
	m, err := New([]byte{0x00}, 1)
	require.NoError(t, err)

	m.PostInput(1, controller.ButtonA, true)
	assert.Equal(t, byte(0xFF&^controller.ButtonA), m.Controller.Read(0xDC))
}
