package vdp

import (
	"image"
	"image/draw"

	xdraw "golang.org/x/image/draw"
)

// Step advances the VDP clock by the given number of T-states,
// rendering scanlines as they complete and flagging the maskable
// interrupt line when vblank begins (§4.3.3).
//
// Returns true if the frame interrupt condition was newly raised this
// call (the caller then sets the CPU's IRQ line from IRQAsserted).
func (v *VDP) Step(tstates int) bool {
	raised := false
	v.tstates += tstates

	for v.tstates >= lineWidth {
		v.tstates -= lineWidth

		if v.line < visibleLines {
			v.renderScanline(v.line)
		} else if v.line == visibleLines {
			v.status |= statusFrameIRQ
			raised = true
			v.swapCanvas()
		}

		v.line++
		if v.line >= linesPerFrame {
			v.line = 0
			v.fifthSpriteSet = false
		}
	}

	return raised
}

// IRQAsserted reports whether the VDP currently wants to assert the
// maskable interrupt line (frame IRQ pending and enabled, §4.3.3).
func (v *VDP) IRQAsserted() bool {
	return v.status&statusFrameIRQ != 0 && v.interruptEnabled()
}

func (v *VDP) swapCanvas() {
	v.canvas, v.nextCanvas = v.nextCanvas, v.canvas
}

// Frame renders the finished canvas at the configured zoom factor using
// golang.org/x/image/draw's nearest-neighbor scaler (§4.3.5, "each
// rendered pixel is scaled by a host-chosen integer zoom factor") —
// the same library the teacher's video backends use to hand a scaled
// frame to a presentation layer.
func (v *VDP) Frame() *image.RGBA {
	if v.Zoom <= 1 {
		out := image.NewRGBA(v.canvas.Bounds())
		draw.Draw(out, out.Bounds(), v.canvas, image.Point{}, draw.Src)
		return out
	}
	dst := image.NewRGBA(image.Rect(0, 0, Width*v.Zoom, Height*v.Zoom))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), v.canvas, v.canvas.Bounds(), xdraw.Src, nil)
	return dst
}
