package vdp

// renderSprites implements the sprite pipeline (§4.3.5.4), grounded on
// original_source/libs/tms9918/src/ppu/sprites.rs: the first four
// active sprites on a line are drawn; the fifth sets the status
// register's 5th-sprite flag (whose low 5 bits hold that sprite's
// table index, per SPEC_FULL.md's resolution of the spec's Open
// Question) and stops the scan; any two sprites claiming the same
// pixel raise the coincidence flag.
func (v *VDP) renderSprites(line int) {
	size, zoom := v.spriteSize()
	if size == 16 {
		v.renderSprites16(line, zoom)
		return
	}
	v.renderSprites8(line, zoom)
}

// spriteAt reads one 4-byte sprite attribute entry: y, x, pattern name,
// and the early-clock/color byte.
type spriteAttrs struct {
	x, y        int
	name        uint16
	earlyClock  bool
	color       byte
}

func (v *VDP) spriteAt(index uint16) spriteAttrs {
	tbl := v.spriteAttrTable()
	base := tbl + 4*index
	y := int(v.vramByte(base))
	x := int(v.vramByte(base + 1))
	name := uint16(v.vramByte(base + 2))
	clockColor := v.vramByte(base + 3)
	if clockColor&0x80 != 0 {
		x -= 32
	}
	return spriteAttrs{
		x:          x,
		y:          y,
		name:       name,
		earlyClock: clockColor&0x80 != 0,
		color:      clockColor & 0x0F,
	}
}

func (v *VDP) renderSprites8(line int, zoom int) {
	var onLine [Width]bool
	count := 0

	for spr := uint16(0); spr < 32; spr++ {
		s := v.spriteAt(spr)
		if s.y == 0xD0 {
			// 0xD0 in the y field is the standard early-terminator value.
			break
		}
		if line < s.y || line >= s.y+8 {
			continue
		}
		count++
		if count >= 5 {
			v.setFifthSprite(byte(spr))
			return
		}

		pattern := v.vramByte(v.spritePatternTable() + s.name*8 + uint16(line-s.y))
		v.drawSpriteRow(s, pattern, line, zoom, &onLine)
	}
}

func (v *VDP) renderSprites16(line int, zoom int) {
	var onLine [Width]bool
	count := 0

	for spr := uint16(0); spr < 32; spr++ {
		s := v.spriteAt(spr)
		if s.y == 0xD0 {
			break
		}
		if line < s.y || line >= s.y+16 {
			continue
		}
		count++
		if count >= 5 {
			v.setFifthSprite(byte(spr))
			return
		}

		// 16x16 sprites are a 2x2 grid of 8x8 patterns named
		// name, name+1 (bottom-left), name+2 (top-right), name+3
		// (bottom-right) — name&0xFC selects the containing quad.
		quad := s.name &^ 0x03
		row := line - s.y
		if row < 8 {
			top := v.vramByte(v.spritePatternTable() + quad*8 + uint16(row))
			v.drawSpriteRow(spriteAttrs{x: s.x, y: s.y, color: s.color}, top, line, zoom, &onLine)
			topRight := v.vramByte(v.spritePatternTable() + (quad+2)*8 + uint16(row))
			right := s
			right.x = s.x + 8*zoom
			v.drawSpriteRow(right, topRight, line, zoom, &onLine)
		} else {
			bottomRow := uint16(row - 8)
			bottom := v.vramByte(v.spritePatternTable() + (quad+1)*8 + bottomRow)
			v.drawSpriteRow(spriteAttrs{x: s.x, y: s.y, color: s.color}, bottom, line, zoom, &onLine)
			bottomRight := v.vramByte(v.spritePatternTable() + (quad+3)*8 + bottomRow)
			right := s
			right.x = s.x + 8*zoom
			v.drawSpriteRow(right, bottomRight, line, zoom, &onLine)
		}
	}
}

func (v *VDP) drawSpriteRow(s spriteAttrs, pattern byte, line, zoom int, onLine *[Width]bool) {
	for bit := 0; bit < 8; bit++ {
		set := pattern&0x80 != 0
		pattern <<= 1
		if !set {
			continue
		}
		for z := 0; z < zoom; z++ {
			px := s.x + bit*zoom + z
			if px < 0 || px >= Width {
				continue
			}
			if onLine[px] {
				v.setCoincidence()
				continue
			}
			onLine[px] = true
			v.setSpritePixel(px, line, s.color)
		}
	}
}
