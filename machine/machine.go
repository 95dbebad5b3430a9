// Package machine wires the CPU, VDP, controller and memory fabric
// into a runnable SG-1000 and drives the per-frame scheduling loop
// described in §4.5 and §6.
package machine

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/go-sg1000/sg1000emu/bus"
	"github.com/go-sg1000/sg1000emu/controller"
	"github.com/go-sg1000/sg1000emu/vdp"
	"github.com/go-sg1000/sg1000emu/z80"
)

const (
	romWindowSize = 0x8000
	ramWindowSize = 0x2000
)

// Machine owns the CPU, VDP, controller and memory bus and drives them
// one frame at a time.
type Machine struct {
	CPU        *z80.CPU
	VDP        *vdp.VDP
	Controller *controller.Controller

	bus     *bus.Bus
	ioBus   *ioAdapter
	rom     *bus.MemoryRegion
	ram     *bus.MemoryRegion

	haveFrame bool
}

// ioAdapter implements z80.Bus, routing memory accesses through the
// system bus and I/O accesses through a second, port-addressed bus.
type ioAdapter struct {
	mem *bus.Bus
	io  *bus.Bus
}

func (a *ioAdapter) Read(addr uint16) byte       { return a.mem.Read(addr) }
func (a *ioAdapter) Write(addr uint16, v byte)   { a.mem.Write(addr, v) }
func (a *ioAdapter) In(port uint16) byte         { return a.io.Read(port) }
func (a *ioAdapter) Out(port uint16, v byte)     { a.io.Write(port, v) }

// New builds a Machine with ROM loaded from data per §6: the first
// 0x8000 bytes (padded if shorter) are mapped read-only at
// 0x0000-0x7FFF, 0xA000-0xBFFF is system RAM mirrored twice across
// 0xC000-0xFFFF, and the VDP/controller are wired onto the I/O bus.
func New(rom []byte, zoom int) (*Machine, error) {
	if len(rom) == 0 {
		return nil, errors.New("machine: ROM image is empty")
	}
	if len(rom) > romWindowSize {
		return nil, fmt.Errorf("machine: ROM image is %d bytes, exceeds the %d byte cartridge window", len(rom), romWindowSize)
	}

	img := make([]byte, romWindowSize)
	copy(img, rom)

	m := &Machine{}
	m.rom = bus.NewMemoryRegionFromData(img, bus.NewMemoryMap(0x0000, 0x7FFF), true)
	m.ram = bus.NewMemoryRegion(ramWindowSize, bus.NewMemoryMap(0xA000, 0xBFFF), false)
	m.ram.AddMirror(bus.NewMemoryMap(0xC000, 0xDFFF))
	m.ram.AddMirror(bus.NewMemoryMap(0xE000, 0xFFFF))

	memBus := bus.New()
	memBus.Attach(m.rom)
	memBus.Attach(m.ram)

	m.VDP = vdp.New()
	m.VDP.Zoom = zoom
	m.Controller = controller.New()

	ioBus := bus.New()
	ioBus.Attach(m.VDP)
	ioBus.Attach(m.Controller)

	m.ioBus = &ioAdapter{mem: memBus, io: ioBus}
	m.CPU = z80.New(m.ioBus)

	return m, nil
}

// StepFrame runs the CPU and VDP in lockstep, per §4.5, until the VDP
// reports vertical blank, then arms the CPU's maskable interrupt line
// if the VDP has interrupts enabled.
func (m *Machine) StepFrame() {
	for {
		ticks := m.CPU.Step()
		if m.VDP.Step(ticks) {
			m.CPU.SetIRQ(m.VDP.IRQAsserted())
			m.haveFrame = true
			return
		}
	}
}

// TakeCanvas returns the most recently completed frame, if one is
// ready, and clears the ready flag (§6).
func (m *Machine) TakeCanvas() (*image.RGBA, bool) {
	if !m.haveFrame {
		return nil, false
	}
	m.haveFrame = false
	return m.VDP.Frame(), true
}

// PostInput forwards a host key event to the controller (§6).
func (m *Machine) PostInput(pad int, button byte, pressed bool) {
	m.Controller.SetButton(pad, button, pressed)
}

// LoadROM is a convenience constructor mirroring New, logging the
// image size the way a production loader would report load
// diagnostics (§7.1).
func LoadROM(rom []byte, zoom int) (*Machine, error) {
	m, err := New(rom, zoom)
	if err != nil {
		return nil, fmt.Errorf("machine: failed to load ROM: %w", err)
	}
	log.Printf("machine: loaded ROM image (%d bytes)", len(rom))
	return m, nil
}
