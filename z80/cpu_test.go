package z80

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatBus is a trivial 64KiB RAM bus for instruction-level tests: no
// device mapping, ports read back whatever was last written.
type flatBus struct {
	mem   [65536]byte
	ports [65536]byte
}

func (b *flatBus) Read(addr uint16) byte     { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v byte) { b.mem[addr] = v }
func (b *flatBus) In(port uint16) byte       { return b.ports[port] }
func (b *flatBus) Out(port uint16, v byte)   { b.ports[port] = v }

func load(b *flatBus, addr uint16, bytes ...byte) {
	for i, v := range bytes {
		b.mem[int(addr)+i] = v
	}
}

func run(t *testing.T, c *CPU, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps; i++ {
		c.Step()
	}
}

func TestAddLoadSubtractChain(t *testing.T) {
	b := &flatBus{}
	load(b, 0, 0x3E, 0x80, 0x06, 0x01, 0x80, 0x4F, 0x3E, 0x00, 0x90)
	c := New(b)

	run(t, c, 6)

	assert.Equal(t, byte(0xFF), c.A)
	assert.Equal(t, byte(0x01), c.B)
	assert.Equal(t, byte(0x81), c.C)
	assert.True(t, c.Flag(FlagC))
}

func TestDJNZLoop(t *testing.T) {
	b := &flatBus{}
	// LD B,10 ; INC A ; DJNZ -3
	load(b, 0, 0x06, 0x0A, 0x3C, 0x10, 0xFD)
	c := New(b)

	run(t, c, 1) // LD B,10
	for c.B != 0 {
		c.Step() // INC A
		c.Step() // DJNZ
	}

	assert.Equal(t, byte(10), c.A)
	assert.Equal(t, byte(0), c.B)
}

func TestCallReturnSmokeTest(t *testing.T) {
	b := &flatBus{}
	// 0x0000: LD A,4 ; CALL 0x0010 ; HALT
	// 0x0010: ADD A,5 ; RET
	load(b, 0x0000, 0x3E, 0x04, 0xCD, 0x10, 0x00, 0x76)
	load(b, 0x0010, 0xC6, 0x05, 0xC9)
	c := New(b)

	run(t, c, 4) // LD A,n ; CALL ; ADD A,n ; RET

	assert.Equal(t, byte(9), c.A)
}

// integerSqrtProgram is the canonical shift-subtract integer square
// root routine referenced by the spec's sqrt scenarios, taken verbatim
// from original_source/libs/z80/src/lib.rs's test_cpu_sqrt(/2):
// BC is a shifting bit mask starting at 0x8000, HL accumulates the
// root, and the loop runs until the mask shifts out to zero.
var integerSqrtProgram = []byte{
	0xcb, 0x38, 0xcb, 0x19, 0x09,
	0xeb, 0xed, 0x52, 0x38, 0x04, 0xeb, 0x09, 0x18, 0x05, 0x19,
	0xeb, 0xb7, 0xed, 0x42,
	0xcb, 0x3c, 0xcb, 0x1d, 0xcb, 0x38, 0xcb, 0x19, 0x30, 0xe3,
}

func runIntegerSqrt(t *testing.T, de uint16) uint16 {
	t.Helper()
	b := &flatBus{}
	load(b, 0x0000, 0x01, 0x00, 0x80) // LD BC,0x8000
	load(b, 0x0003, 0x61, 0x69)       // LD H,C ; LD L,C (HL = 0)
	load(b, 0x0005, integerSqrtProgram...)
	c := New(b)
	c.SetDE(de)

	for b.mem[c.PC] != 0 {
		c.Step()
	}
	return c.HL()
}

// TestIntegerSqrt exercises the spec's sqrt scenarios 3 and 4: scenario
// 3's literal DE value (0xDB69, not the 0xDB01 the spec's prose names)
// is the one actually loaded by original_source's test_cpu_sqrt — DE=
// 0xDB69 is exactly 237², which is what makes the expected HL=237
// result exact.
func TestIntegerSqrt(t *testing.T) {
	assert.Equal(t, uint16(237), runIntegerSqrt(t, 0xDB69))
	assert.Equal(t, uint16(6), runIntegerSqrt(t, 0x0024))
}

func TestPushPopRoundTrip(t *testing.T) {
	b := &flatBus{}
	c := New(b)
	c.SetBC(0x1234)
	c.push(c.BC())
	c.SetBC(0)
	c.SetBC(c.pop())
	assert.Equal(t, uint16(0x1234), c.BC())
}

func TestExSPHLIsInvolution(t *testing.T) {
	b := &flatBus{}
	load(b, 0, 0xE3) // EX (SP),HL
	c := New(b)
	c.SP = 0x8000
	c.write(0x8000, 0xCD)
	c.write(0x8001, 0xAB)
	c.SetHL(0x1234)

	c.Step()
	require.Equal(t, uint16(0xABCD), c.HL())

	c.PC = 0
	c.Step()
	assert.Equal(t, uint16(0x1234), c.HL())
}

func TestExxIsInvolution(t *testing.T) {
	b := &flatBus{}
	c := New(b)
	c.SetBC(0x1111)
	c.SetDE(0x2222)
	c.SetHL(0x3333)
	c.Exx()
	c.Exx()
	assert.Equal(t, uint16(0x1111), c.BC())
	assert.Equal(t, uint16(0x2222), c.DE())
	assert.Equal(t, uint16(0x3333), c.HL())
}

func TestNegIsSelfInverse(t *testing.T) {
	b := &flatBus{}
	c := New(b)
	c.A = 0x40
	orig := c.A
	c.A = c.sub8(0, c.A, false)
	c.A = c.sub8(0, c.A, false)
	assert.Equal(t, orig, c.A)
}

func TestLDIRBlockMove(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xED, 0xB0) // LDIR
	c := New(b)
	load(b, 0x1000, 1, 2, 3, 4)
	c.SetHL(0x1000)
	c.SetDE(0x2000)
	c.SetBC(4)

	// LDIR rewinds PC after each repeat (§4.2.6), so each byte transferred
	// takes its own Step() call: it doesn't drain the block in one call.
	for c.BC() != 0 {
		c.Step()
	}

	assert.Equal(t, byte(1), b.mem[0x2000])
	assert.Equal(t, byte(4), b.mem[0x2003])
	assert.Equal(t, uint16(0), c.BC())
	assert.False(t, c.Flag(FlagPV))
}

func TestCPIRFindsTarget(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xED, 0xB1) // CPIR
	c := New(b)
	load(b, 0x1000, 1, 2, 3, 4)
	c.SetHL(0x1000)
	c.SetBC(4)
	c.A = 3

	for c.BC() != 0 && !c.Flag(FlagZ) {
		c.Step()
	}

	assert.True(t, c.Flag(FlagZ))
	assert.Equal(t, uint16(0x1003), c.HL())
	assert.Equal(t, uint16(1), c.BC())
}

func TestEIGrantsOneInstructionGrace(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xFB, 0x00, 0x00) // EI ; NOP ; NOP
	c := New(b)
	c.SetIRQ(true)

	c.Step() // EI
	c.Step() // NOP, still inside grace window: no interrupt serviced
	assert.Equal(t, uint16(0x0002), c.PC)
}

func TestUnimplementedOpcodeActsAsNOP(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xED, 0x00) // ED 00 is not a documented opcode
	c := New(b)
	cycles := c.Step()
	assert.Equal(t, uint16(0x0002), c.PC)
	assert.True(t, cycles > 0)
}

func TestExDEHLSwapsBothPairs(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xEB) // EX DE,HL
	c := New(b)
	c.SetDE(0x1234)
	c.SetHL(0x5678)

	c.Step()

	assert.Equal(t, uint16(0x5678), c.DE())
	assert.Equal(t, uint16(0x1234), c.HL())
}

func TestDIDuringEIGraceWindowIsNotOverridden(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xFB, 0xF3, 0x00) // EI ; DI ; NOP
	c := New(b)

	c.Step() // EI: IFF1/IFF2 true, grace = 2
	c.Step() // DI: IFF1/IFF2 false, grace ticks down to 1
	c.Step() // NOP: grace ticks down to 0

	assert.False(t, c.IFF1)
	assert.False(t, c.IFF2)
}

func TestDAAPreservesIncomingCarryOnBCDAdd(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0x27) // DAA
	c := New(b)
	c.A = 0x20
	c.SetFlag(FlagC, true)
	c.SetFlag(FlagN, false)

	c.Step()

	assert.True(t, c.Flag(FlagC), "DAA must not drop an incoming carry")
	assert.Equal(t, byte(0x80), c.A)
}

func TestRETNRestoresIFF1FromIFF2(t *testing.T) {
	b := &flatBus{}
	load(b, 0x0000, 0xED, 0x45) // RETN
	c := New(b)
	c.IFF1 = false
	c.IFF2 = true
	c.SP = 0x8000
	c.push(0x1234)

	c.Step()

	assert.True(t, c.IFF1, "RETN must restore IFF1 from IFF2, same as RETI")
	assert.Equal(t, uint16(0x1234), c.PC)
}
