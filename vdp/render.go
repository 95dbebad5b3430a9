package vdp

import "image/color"

func toRGBA(p struct{ R, G, B, A byte }) color.RGBA {
	return color.RGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

// setSpritePixel draws a sprite pixel, leaving whatever is already on
// the canvas alone when the sprite's color index is 0 (transparent) —
// unlike background tiles, sprite index 0 is never substituted with the
// backdrop color (§4.3.5.4).
func (v *VDP) setSpritePixel(x, y int, colorIndex byte) {
	if colorIndex == 0 {
		return
	}
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	v.nextCanvas.SetRGBA(x, y, toRGBA(Palette[colorIndex&0x0F]))
}

// renderScanline draws one visible line of the active graphics mode
// into nextCanvas, then overlays the sprite pipeline (§4.3.4, §4.3.5).
// Grounded on original_source/libs/tms9918/src/ppu/{graphics1,graphics2,
// textmode}.rs for the per-mode cell/pattern/color addressing, and on
// sprites.rs for the sprite pass.
func (v *VDP) renderScanline(line int) {
	if !v.displayEnabled() {
		for x := 0; x < Width; x++ {
			v.setPixel(x, line, v.backdropColor())
		}
		return
	}

	switch v.mode() {
	case modeText:
		v.renderText(line)
	case modeMulticolor:
		v.renderMulticolor(line)
	case modeGraphics2:
		v.renderGraphics2(line)
	default:
		v.renderGraphics1(line)
	}

	if v.mode() != modeText {
		v.renderSprites(line)
	}
}

// renderGraphics1 implements standard Graphics I mode: one name-table
// byte per 8x8 cell selects an 8-byte pattern and a shared color byte
// indexed by name/8 (grounded on graphics1.rs).
func (v *VDP) renderGraphics1(line int) {
	nameTbl := v.nameTable()
	pattTbl := v.patternTable()
	colrTbl := v.colorTable()

	cellRow := uint16(line / 8)
	subRow := uint16(line % 8)

	for cell := uint16(0); cell < 32; cell++ {
		name := uint16(v.vramByte(nameTbl + cellRow*32 + cell))

		colorEntry := v.vramByte(colrTbl + name/8)
		fg := colorEntry >> 4
		bg := colorEntry & 0x0F

		pattern := v.vramByte(pattTbl + name*8 + subRow)
		for bit := 0; bit < 8; bit++ {
			c := bg
			if pattern&0x80 != 0 {
				c = fg
			}
			v.setPixel(int(cell)*8+bit, line, c)
			pattern <<= 1
		}
	}
}

// renderGraphics2 implements Graphics II mode: the pattern and color
// tables are split into three 2KiB thirds selected by line/64, and each
// cell's color byte is indexed per-row rather than shared across the
// whole cell (grounded on graphics2.rs).
func (v *VDP) renderGraphics2(line int) {
	nameTbl := v.nameTable()
	block := uint16(line / 64)
	pattTbl := v.patternTableG2() + 2048*block
	colrTbl := v.colorTableG2() + 2048*block

	cellRow := uint16(line / 8)
	subRow := uint16(line % 8)

	for cell := uint16(0); cell < 32; cell++ {
		name := uint16(v.vramByte(nameTbl + cellRow*32 + cell))

		pattern := v.vramByte(pattTbl + name*8 + subRow)
		colorEntry := v.vramByte(colrTbl + name*8 + subRow)
		fg := colorEntry >> 4
		bg := colorEntry & 0x0F

		for bit := 0; bit < 8; bit++ {
			c := bg
			if pattern&0x80 != 0 {
				c = fg
			}
			v.setPixel(int(cell)*8+bit, line, c)
			pattern <<= 1
		}
	}
}

// renderMulticolor implements Multicolor mode as the canonical 4x4
// pixel block fill (Open Question resolved in SPEC_FULL.md): each
// pattern-table byte holds two nibble colors, filling a 4-pixel-wide,
// 4-line-tall block.
func (v *VDP) renderMulticolor(line int) {
	nameTbl := v.nameTable()
	pattTbl := v.patternTable()

	cellRow := uint16(line / 8)
	patternRow := uint16((line % 8) / 4)

	for cell := uint16(0); cell < 32; cell++ {
		name := uint16(v.vramByte(nameTbl + cellRow*32 + cell))
		entry := v.vramByte(pattTbl + name*8 + cellRow%4*2 + patternRow)
		fg := entry >> 4
		bg := entry & 0x0F
		for half := 0; half < 2; half++ {
			c := fg
			if half == 1 {
				c = bg
			}
			for px := 0; px < 4; px++ {
				v.setPixel(int(cell)*8+half*4+px, line, c)
			}
		}
	}
}

// renderText implements Text mode: 40 columns of 6x8 cells, two fixed
// colors (foreground/backdrop), drawing 6 of the pattern byte's 8 bits
// (grounded on textmode.rs; see SPEC_FULL.md item 3).
func (v *VDP) renderText(line int) {
	nameTbl := v.nameTable()
	pattTbl := v.patternTable()
	fg := v.textColor()
	bg := v.backdropColor()

	cellRow := uint16(line / 8)
	subRow := uint16(line % 8)

	for cell := uint16(0); cell < 40; cell++ {
		name := uint16(v.vramByte(nameTbl + cellRow*40 + cell))
		pattern := v.vramByte(pattTbl + name*8 + subRow)
		for bit := 0; bit < 6; bit++ {
			c := bg
			if pattern&0x80 != 0 {
				c = fg
			}
			v.setPixel(int(cell)*6+bit, line, c)
			pattern <<= 1
		}
	}
}
