package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdleReadsAllOnes(t *testing.T) {
	c := New()
	assert.Equal(t, byte(0xFF), c.Read(0xDC))
	assert.Equal(t, byte(0xFF), c.Read(0xDD))
}

func TestButtonPressClearsBit(t *testing.T) {
	c := New()
	c.SetButton(1, ButtonA, true)
	assert.Equal(t, byte(0xFF&^ButtonA), c.Read(0xDC))

	c.SetButton(1, ButtonA, false)
	assert.Equal(t, byte(0xFF), c.Read(0xDC))
}

func TestOppositeDirectionsAreMutuallyExclusive(t *testing.T) {
	c := New()
	c.SetButton(1, Left, true)
	assert.Equal(t, byte(0), c.Read(0xDC)&Left)

	c.SetButton(1, Right, true)
	assert.Equal(t, byte(0), c.Read(0xDC)&Right, "pressing Right should clear its own bit")
	assert.NotEqual(t, byte(0), c.Read(0xDC)&Left, "pressing Right should release Left")
}

func TestPort2AliasesJoypad2(t *testing.T) {
	c := New()
	c.SetButton(2, ButtonB, true)
	assert.Equal(t, c.Read(0xDD), c.Read(0xC1))
	assert.NotEqual(t, c.Read(0xDC), c.Read(0xDD))
}

func TestWritesAreDropped(t *testing.T) {
	c := New()
	ok := c.Write(0xDC, 0x00)
	assert.False(t, ok)
	assert.Equal(t, byte(0xFF), c.Read(0xDC))
}
