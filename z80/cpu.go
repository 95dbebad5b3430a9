// Package z80 implements a cycle-budgeted Zilog Z80 interpreter: opcode
// fetch/decode/execute across the four prefix planes, flag derivation,
// and the interrupt/halt state machine, driven one instruction at a time
// by Step.
package z80

import "log"

// Bus is everything the CPU needs from its memory and I/O fabric.
type Bus interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)
	In(port uint16) byte
	Out(port uint16, value byte)
}

// Flag bit positions within the F register (§3 Flags Byte).
const (
	FlagC  byte = 0x01 // Carry
	FlagN  byte = 0x02 // Subtract
	Flag5  byte = 0x20 // unused
	FlagH  byte = 0x10 // HalfCarry
	Flag3  byte = 0x08 // unused
	FlagPV byte = 0x04 // Overflow/Parity
	FlagZ  byte = 0x40 // Zero
	FlagS  byte = 0x80 // Sign
)

// indexMode selects which register pair stands in for HL during decode
// of an IX- or IY-prefixed instruction (§4.2.1 planes 2 and 3).
type indexMode int

const (
	indexNone indexMode = iota
	indexIX
	indexIY
)

// CPU holds the full architectural state of one Z80: the register file
// (main set plus the alternates reachable via EX AF,AF' and EXX), the
// index and special-purpose registers, the master clock, and the
// interrupt/halt state machine.
type CPU struct {
	A, F, B, C, D, E, H, L         byte
	A2, F2, B2, C2, D2, E2, H2, L2 byte

	IX, IY, SP, PC uint16
	I, R           byte

	IFF1, IFF2 bool
	IM         byte

	Halted bool

	// Cycles is the cumulative T-state count since Reset.
	Cycles uint64

	// iffDelay is the post-EI grace counter (§3, §4.2.6, §9): sticking
	// two in here makes the instruction immediately after EI
	// uninterruptible without needing a separate boolean latch.
	iffDelay int

	irqLine bool
	nmiLine bool
	nmiPrev bool

	bus Bus

	mode        indexMode
	disp        int8 // cached displacement for the current (IX+d)/(IY+d) operand
	dispFetched bool
}

// New returns a CPU wired to bus and reset to its power-on state.
func New(bus Bus) *CPU {
	c := &CPU{bus: bus}
	c.Reset()
	return c
}

// Reset restores power-on state: all registers zero except SP (0xFFFF)
// and PC (0x0000), interrupts disabled.
func (c *CPU) Reset() {
	*c = CPU{bus: c.bus, SP: 0xFFFF}
}

// --- register pair views (§3: pairs are views over the 8-bit halves) ---

func (c *CPU) AF() uint16 { return uint16(c.A)<<8 | uint16(c.F) }
func (c *CPU) BC() uint16 { return uint16(c.B)<<8 | uint16(c.C) }
func (c *CPU) DE() uint16 { return uint16(c.D)<<8 | uint16(c.E) }
func (c *CPU) HL() uint16 { return uint16(c.H)<<8 | uint16(c.L) }

func (c *CPU) SetAF(v uint16) { c.A, c.F = byte(v>>8), byte(v) }
func (c *CPU) SetBC(v uint16) { c.B, c.C = byte(v>>8), byte(v) }
func (c *CPU) SetDE(v uint16) { c.D, c.E = byte(v>>8), byte(v) }
func (c *CPU) SetHL(v uint16) { c.H, c.L = byte(v>>8), byte(v) }

// indexReg returns the IX or IY value live for the current prefix plane.
func (c *CPU) indexReg() uint16 {
	if c.mode == indexIY {
		return c.IY
	}
	return c.IX
}

func (c *CPU) setIndexReg(v uint16) {
	if c.mode == indexIY {
		c.IY = v
	} else {
		c.IX = v
	}
}

func (c *CPU) Flag(mask byte) bool { return c.F&mask != 0 }

func (c *CPU) SetFlag(mask byte, on bool) {
	if on {
		c.F |= mask
	} else {
		c.F &^= mask
	}
}

// ExAF swaps AF with the alternate AF'.
func (c *CPU) ExAF() { c.A, c.A2 = c.A2, c.A; c.F, c.F2 = c.F2, c.F }

// Exx swaps BC, DE, HL with their alternates.
func (c *CPU) Exx() {
	c.B, c.B2 = c.B2, c.B
	c.C, c.C2 = c.C2, c.C
	c.D, c.D2 = c.D2, c.D
	c.E, c.E2 = c.E2, c.E
	c.H, c.H2 = c.H2, c.H
	c.L, c.L2 = c.L2, c.L
}

// SetIRQ asserts or clears the maskable interrupt request line.
func (c *CPU) SetIRQ(assert bool) { c.irqLine = assert }

// SetNMI asserts or clears the non-maskable interrupt request line. NMI
// is edge triggered: it is serviced once per rising edge.
func (c *CPU) SetNMI(assert bool) { c.nmiLine = assert }

func (c *CPU) incR() { c.R = (c.R & 0x80) | ((c.R + 1) & 0x7F) }

func (c *CPU) read(addr uint16) byte         { return c.bus.Read(addr) }
func (c *CPU) write(addr uint16, v byte)     { c.bus.Write(addr, v) }
func (c *CPU) in(port uint16) byte           { return c.bus.In(port) }
func (c *CPU) out(port uint16, v byte)       { c.bus.Out(port, v) }

func (c *CPU) fetchOpcode() byte {
	v := c.read(c.PC)
	c.PC++
	c.incR()
	return v
}

func (c *CPU) fetchByte() byte {
	v := c.read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) tick(cycles int) { c.Cycles += uint64(cycles) }

func (c *CPU) push(v uint16) {
	c.SP--
	c.write(c.SP, byte(v>>8))
	c.SP--
	c.write(c.SP, byte(v))
}

func (c *CPU) pop() uint16 {
	lo := c.read(c.SP)
	c.SP++
	hi := c.read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// Step executes exactly one instruction (or one interrupt-service
// sequence, or one HALT-state NOP) and returns the number of T-states it
// consumed, per §4.2.6's priority order: reset (handled by the caller via
// Reset), NMI, IRQ, halted-NOP, ordinary fetch/decode/execute.
func (c *CPU) Step() int {
	before := c.Cycles

	if c.nmiLine && !c.nmiPrev {
		c.nmiPrev = true
		c.serviceNMI()
		return int(c.Cycles - before)
	}
	if !c.nmiLine {
		c.nmiPrev = false
	}

	if c.irqLine && c.IFF1 && c.iffDelay == 0 {
		c.serviceIRQ()
		return int(c.Cycles - before)
	}

	if c.Halted {
		c.tick(4)
		c.finishInstruction()
		return int(c.Cycles - before)
	}

	c.mode = indexNone
	opcode := c.fetchOpcode()

	switch opcode {
	case 0xDD:
		c.mode = indexIX
		c.tick(4)
		c.execPrefixed()
	case 0xFD:
		c.mode = indexIY
		c.tick(4)
		c.execPrefixed()
	case 0xCB:
		c.execCB(c.mode)
	case 0xED:
		c.execED()
	default:
		c.execBase(opcode)
	}

	c.finishInstruction()
	return int(c.Cycles - before)
}

// execPrefixed handles the byte following a DD/FD prefix: either another
// prefix byte (DD DD, DD FD, ...), the CB sub-table (displacement read
// before the final opcode byte, §4.2.1), or an ordinary base-plane
// opcode reinterpreted with HL replaced by IX/IY.
func (c *CPU) execPrefixed() {
	opcode := c.fetchOpcode()
	switch opcode {
	case 0xDD:
		c.mode = indexIX
		c.tick(4)
		c.execPrefixed()
	case 0xFD:
		c.mode = indexIY
		c.tick(4)
		c.execPrefixed()
	case 0xCB:
		c.disp = int8(c.fetchByte())
		c.execIndexedCB()
	default:
		c.execBase(opcode)
	}
}

// finishInstruction ticks down the post-EI grace counter (§4.2.6, §9).
// EI itself already flips IFF1/IFF2 true; this only blocks IRQ
// servicing for the two instruction boundaries immediately following
// it, so it must never touch the flip-flops directly — doing so would
// clobber a DI executed during the grace window.
func (c *CPU) finishInstruction() {
	if c.iffDelay > 0 {
		c.iffDelay--
	}
}

func (c *CPU) serviceNMI() {
	c.Halted = false
	c.incR()
	c.push(c.PC)
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.PC = 0x0066
	c.tick(11)
}

// serviceIRQ executes the maskable interrupt acknowledge sequence. The
// spec scopes mode 0 as unsupported (treated as the mode-1 jump) and
// mode 2 as not required (§4.2.6, §9; SPEC_FULL.md item 7), so every
// mode collapses to the mode-1 page-zero vector: push PC, jump to
// 0x0038.
func (c *CPU) serviceIRQ() {
	c.Halted = false
	c.incR()
	c.IFF1 = false
	c.IFF2 = false
	c.push(c.PC)
	c.PC = 0x0038
	c.tick(13)
}

// unimplemented logs the offending opcode and treats it as a NOP (§7.4):
// a production core must not panic on an unrecognised byte.
func (c *CPU) unimplemented(plane string, opcode byte) {
	log.Printf("z80: unimplemented %s opcode 0x%02X at PC=0x%04X, treating as NOP", plane, opcode, c.PC-1)
	c.tick(4)
}
