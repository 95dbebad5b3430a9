// Package controller implements the SG-1000 joypad ports: two 8-bit
// input registers read through fixed I/O port addresses, with no
// written state (§4.4).
package controller

// Button bit positions within a joypad byte. A cleared bit means
// pressed; idle buttons read 1, matching the active-low wiring of the
// real controller ports.
const (
	Up    = 0x01
	Down  = 0x02
	Left  = 0x04
	Right = 0x08
	ButtonA = 0x10
	ButtonB = 0x20
)

// Controller services the four joypad-related I/O ports: 0xDC/0xDD
// (the two SG-1000 joypad data registers) and 0xC0/0xC1 (their
// System/export-console aliases).
type Controller struct {
	joypad1, joypad2 byte
}

// New returns a Controller with both joypads idle (all bits set).
func New() *Controller {
	return &Controller{joypad1: 0xFF, joypad2: 0xFF}
}

// Accept implements bus.Device.
func (c *Controller) Accept(addr uint16) bool {
	switch addr & 0xFF {
	case 0xDC, 0xDD, 0xC0, 0xC1:
		return true
	default:
		return false
	}
}

// Read implements bus.Device.
func (c *Controller) Read(addr uint16) byte {
	switch addr & 0xFF {
	case 0xDC, 0xC0:
		return c.joypad1
	default:
		return c.joypad2
	}
}

// Write implements bus.Device: the joypad ports are read-only, so
// writes are accepted (per Accept) but have no effect.
func (c *Controller) Write(addr uint16, value byte) bool {
	return false
}

// SetButton sets or clears a button on the given pad (1 or 2). Clearing
// the bit means pressed; setting it means released. Left/Right and
// Up/Down are mutually exclusive on real hardware, so pressing one
// direction releases its opposite.
func (c *Controller) SetButton(pad int, button byte, pressed bool) {
	reg := &c.joypad1
	if pad == 2 {
		reg = &c.joypad2
	}

	if pressed {
		switch button {
		case Left:
			*reg |= Right
		case Right:
			*reg |= Left
		case Up:
			*reg |= Down
		case Down:
			*reg |= Up
		}
		*reg &^= button
	} else {
		*reg |= button
	}
}
