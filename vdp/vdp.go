// Package vdp implements a TMS9918-family video display processor:
// the two-port control protocol, the eight control registers, and a
// scanline renderer covering Graphics I, Graphics II, Multicolor and
// Text modes plus the sprite pipeline (§4.3).
package vdp

import "image"

const (
	Width       = 256
	Height      = 192
	vramSize    = 16384 // §4.3, Open Question resolved to 16 KiB
	lineWidth   = 228   // T-states per scanline
	linesPerFrame = 262
	visibleLines  = 192
)

// Status register bits.
const (
	statusFrameIRQ   = 0x80
	statusFifthSprite = 0x40
	statusCoincident  = 0x20
)

// Palette is the fixed 16-entry TMS9918 RGBA palette; index 0 is
// transparent and is rendered as the backdrop color by the caller.
var Palette = [16]struct{ R, G, B, A byte }{
	{0x00, 0x00, 0x00, 0x00},
	{0x00, 0x00, 0x00, 0xFF},
	{0x20, 0xC0, 0x20, 0xFF},
	{0x60, 0xE0, 0x60, 0xFF},
	{0x20, 0x20, 0xE0, 0xFF},
	{0x40, 0x60, 0xE0, 0xFF},
	{0xA0, 0x20, 0x20, 0xFF},
	{0x40, 0xC0, 0xE0, 0xFF},
	{0xE0, 0x20, 0x20, 0xFF},
	{0xE0, 0x60, 0x60, 0xFF},
	{0xC0, 0xC0, 0x20, 0xFF},
	{0xC0, 0xC0, 0x80, 0xFF},
	{0x20, 0x80, 0x20, 0xFF},
	{0xC0, 0x40, 0xA0, 0xFF},
	{0xA0, 0xA0, 0xA0, 0xFF},
	{0xE0, 0xE0, 0xE0, 0xFF},
}

// VDP is a TMS9918-family display processor. Zoom is a host-chosen
// integer scale factor applied to the finished 256x192 canvas (§4.3.5).
type VDP struct {
	VRAM      [vramSize]byte
	Registers [8]byte
	status    byte

	latchHasByte bool
	latchLow     byte
	addr         uint16
	writeMode    bool
	readBuffer   byte

	line      int
	tstates   int

	fifthSpriteSet bool

	canvas     *image.RGBA
	nextCanvas *image.RGBA
	Zoom       int

	frameIRQPending bool
}

// New returns a VDP with the canonical 256x192 canvas allocated and a
// default zoom factor of 1.
func New() *VDP {
	v := &VDP{Zoom: 1}
	v.canvas = image.NewRGBA(image.Rect(0, 0, Width, Height))
	v.nextCanvas = image.NewRGBA(image.Rect(0, 0, Width, Height))
	return v
}

// Accept implements bus.Device: the VDP claims the data port (0xBE) and
// control port (0xBF), mirrored across the full I/O port space the way
// SG-1000 hardware decodes only the low byte of the port address.
func (v *VDP) Accept(addr uint16) bool {
	p := addr & 0xFF
	return p == 0xBE || p == 0xBF
}

// Read implements bus.Device for port-mapped access.
func (v *VDP) Read(addr uint16) byte {
	if addr&0xFF == 0xBE {
		return v.readData()
	}
	return v.readStatus()
}

// Write implements bus.Device for port-mapped access.
func (v *VDP) Write(addr uint16, value byte) bool {
	if addr&0xFF == 0xBE {
		v.writeData(value)
	} else {
		v.writeControl(value)
	}
	return true
}

// readData returns the real-hardware one-byte read-ahead buffer rather
// than the byte at the current address pointer; only diverges from
// §4.3.1's literal wording when the pointer was last set up in write
// mode, where the buffer is stale until the next read-setup.
func (v *VDP) readData() byte {
	b := v.readBuffer
	v.readBuffer = v.VRAM[v.addr&(vramSize-1)]
	v.addr = (v.addr + 1) & 0x3FFF
	return b
}

func (v *VDP) writeData(value byte) {
	v.VRAM[v.addr&(vramSize-1)] = value
	v.addr = (v.addr + 1) & 0x3FFF
	v.readBuffer = value
}

// readStatus returns the status register and, per the TMS9918 control
// port protocol, clears the frame-IRQ and 5th-sprite flags and resets
// the two-phase write latch (§4.3.2).
func (v *VDP) readStatus() byte {
	s := v.status
	v.status &^= statusFrameIRQ | statusFifthSprite
	v.latchHasByte = false
	return s
}

// writeControl implements the two-phase control port latch (§4.3.2): the
// first byte written is buffered, and the second byte's top bits select
// either a VRAM address setup (read or write) or a register write.
func (v *VDP) writeControl(value byte) {
	if !v.latchHasByte {
		v.latchLow = value
		v.latchHasByte = true
		return
	}
	v.latchHasByte = false

	second := value
	if second&0xC0 == 0x80 {
		reg := second & 0x07
		v.Registers[reg] = v.latchLow
		return
	}

	v.addr = (uint16(second&0x3F)<<8 | uint16(v.latchLow)) & 0x3FFF
	v.writeMode = second&0x40 != 0
	if !v.writeMode {
		v.readBuffer = v.VRAM[v.addr]
		v.addr = (v.addr + 1) & 0x3FFF
	}
}

func (v *VDP) setFifthSprite(index byte) {
	if v.fifthSpriteSet {
		return
	}
	v.fifthSpriteSet = true
	v.status = v.status&^0x1F | statusFifthSprite | (index & 0x1F)
}

func (v *VDP) setCoincidence() {
	v.status |= statusCoincident
}

// interruptEnabled reports whether register 1 bit 5 (IE) is set (§4.3.3).
func (v *VDP) interruptEnabled() bool {
	return v.Registers[1]&0x20 != 0
}

func (v *VDP) displayEnabled() bool {
	return v.Registers[1]&0x40 != 0
}

// mode classifies the active graphics mode from the M1/M2/M3 bits
// (§4.3.1, §4.3.4).
type mode int

const (
	modeGraphics1 mode = iota
	modeGraphics2
	modeMulticolor
	modeText
)

func (v *VDP) mode() mode {
	m1 := v.Registers[1]&0x10 != 0
	m2 := v.Registers[1]&0x08 != 0
	m3 := v.Registers[0]&0x02 != 0
	switch {
	case !m1 && !m2 && !m3:
		return modeGraphics1
	case !m1 && !m2 && m3:
		return modeGraphics2
	case !m1 && m2 && !m3:
		return modeMulticolor
	case m1 && !m2 && !m3:
		return modeText
	default:
		// Any other (M1,M2,M3) combination is undefined on real hardware;
		// this core falls through to Text (§4.3.2).
		return modeText
	}
}

func (v *VDP) nameTable() uint16      { return uint16(v.Registers[2]&0x0F) << 10 }
func (v *VDP) colorTable() uint16     { return uint16(v.Registers[3]) << 6 }
func (v *VDP) colorTableG2() uint16   { return uint16(v.Registers[3]&0x80) << 6 }
func (v *VDP) patternTable() uint16   { return uint16(v.Registers[4]&0x07) << 11 }
func (v *VDP) patternTableG2() uint16 { return uint16(v.Registers[4]&0x04) << 11 }
func (v *VDP) spriteAttrTable() uint16 { return uint16(v.Registers[5]&0x7F) << 7 }
func (v *VDP) spritePatternTable() uint16 { return uint16(v.Registers[6]&0x07) << 11 }

func (v *VDP) textColor() byte    { return v.Registers[7] >> 4 }
func (v *VDP) backdropColor() byte { return v.Registers[7] & 0x0F }

// spriteSize reports the sprite edge length (8 or 16) and zoom factor
// (1 or 2) selected by register 1's SI/MAG bits (§4.3.5.4).
func (v *VDP) spriteSize() (size int, zoom int) {
	size = 8
	if v.Registers[1]&0x02 != 0 {
		size = 16
	}
	zoom = 1
	if v.Registers[1]&0x01 != 0 {
		zoom = 2
	}
	return
}

func (v *VDP) vramByte(addr uint16) byte {
	return v.VRAM[addr&(vramSize-1)]
}

func (v *VDP) setPixel(x, y int, c byte) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	p := Palette[c&0x0F]
	if c == 0 {
		p = Palette[v.backdropColor()]
	}
	v.nextCanvas.SetRGBA(x, y, toRGBA(p))
}
