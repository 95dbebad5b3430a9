package z80

// The base, CB, ED and indexed-CB decoders all use the classic Z80
// opcode bit-field decomposition (x = op>>6, y = (op>>3)&7, z = op&7,
// p = y>>1, q = y&1) rather than four parallel 256-entry function
// tables: the opcode space factors cleanly along these fields, and the
// factored form is what lets the IX/IY planes reuse the same decode
// logic as the HL plane (§4.2.1, §9 "Prefix-plane decoding").

// effAddr returns the effective address for an (HL)-shaped operand: HL
// itself in the unprefixed plane, or (IX+d)/(IY+d) with the displacement
// fetched once (and cached) per instruction in the indexed planes.
func (c *CPU) effAddr() uint16 {
	if c.mode == indexNone {
		return c.HL()
	}
	if !c.dispFetched {
		c.disp = int8(c.fetchByte())
		c.dispFetched = true
		c.tick(8)
	}
	return c.indexReg() + uint16(int16(c.disp))
}

// readR/writeR resolve an 8-bit register code (B,C,D,E,H,L,(HL),A) under
// the current index mode: H/L become IXh/IXl or IYh/IYl, and (HL)
// becomes (IX+d)/(IY+d) (§4.2.1).
func (c *CPU) readR(code byte) byte {
	switch code {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.readIndexHigh()
	case 5:
		return c.readIndexLow()
	case 6:
		return c.read(c.effAddr())
	default:
		return c.A
	}
}

func (c *CPU) writeR(code byte, v byte) {
	switch code {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.writeIndexHigh(v)
	case 5:
		c.writeIndexLow(v)
	case 6:
		c.write(c.effAddr(), v)
	default:
		c.A = v
	}
}

func (c *CPU) readIndexHigh() byte {
	switch c.mode {
	case indexIX:
		return byte(c.IX >> 8)
	case indexIY:
		return byte(c.IY >> 8)
	default:
		return c.H
	}
}

func (c *CPU) readIndexLow() byte {
	switch c.mode {
	case indexIX:
		return byte(c.IX)
	case indexIY:
		return byte(c.IY)
	default:
		return c.L
	}
}

func (c *CPU) writeIndexHigh(v byte) {
	switch c.mode {
	case indexIX:
		c.IX = uint16(v)<<8 | c.IX&0xFF
	case indexIY:
		c.IY = uint16(v)<<8 | c.IY&0xFF
	default:
		c.H = v
	}
}

func (c *CPU) writeIndexLow(v byte) {
	switch c.mode {
	case indexIX:
		c.IX = c.IX&0xFF00 | uint16(v)
	case indexIY:
		c.IY = c.IY&0xFF00 | uint16(v)
	default:
		c.L = v
	}
}

// readRP/writeRP resolve the "rp" table {BC, DE, HL, SP}, substituting
// IX/IY for HL under a prefix.
func (c *CPU) readRP(p byte) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.indexOrHL()
	default:
		return c.SP
	}
}

func (c *CPU) writeRP(p byte, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.setIndexOrHL(v)
	default:
		c.SP = v
	}
}

// readRP2/writeRP2 resolve the "rp2" table {BC, DE, HL, AF}.
func (c *CPU) readRP2(p byte) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.readRP(p)
}

func (c *CPU) writeRP2(p byte, v uint16) {
	if p == 3 {
		c.SetAF(v)
	} else {
		c.writeRP(p, v)
	}
}

func (c *CPU) indexOrHL() uint16 {
	if c.mode == indexNone {
		return c.HL()
	}
	return c.indexReg()
}

func (c *CPU) setIndexOrHL(v uint16) {
	if c.mode == indexNone {
		c.SetHL(v)
	} else {
		c.setIndexReg(v)
	}
}

// cc evaluates the "cc" condition table {NZ, Z, NC, C, PO, PE, P, M}.
func (c *CPU) cc(y byte) bool {
	switch y {
	case 0:
		return !c.Flag(FlagZ)
	case 1:
		return c.Flag(FlagZ)
	case 2:
		return !c.Flag(FlagC)
	case 3:
		return c.Flag(FlagC)
	case 4:
		return !c.Flag(FlagPV)
	case 5:
		return c.Flag(FlagPV)
	case 6:
		return !c.Flag(FlagS)
	default:
		return c.Flag(FlagS)
	}
}

// aluOp applies the "alu" table {ADD, ADC, SUB, SBC, AND, XOR, OR, CP}
// of operand against A.
func (c *CPU) aluOp(y byte, operand byte) {
	switch y {
	case 0:
		c.A = c.add8(c.A, operand, false)
	case 1:
		c.A = c.add8(c.A, operand, c.Flag(FlagC))
	case 2:
		c.A = c.sub8(c.A, operand, false)
	case 3:
		c.A = c.sub8(c.A, operand, c.Flag(FlagC))
	case 4:
		c.A = c.and8(c.A, operand)
	case 5:
		c.A = c.xor8(c.A, operand)
	case 6:
		c.A = c.or8(c.A, operand)
	case 7:
		c.sub8(c.A, operand, false)
	}
}

// rotOp applies the "rot" table {RLC, RRC, RL, RR, SLA, SRA, SLL, SRL}.
func (c *CPU) rotOp(y byte, v byte) byte {
	switch y {
	case 0:
		return c.rlc(v)
	case 1:
		return c.rrc(v)
	case 2:
		return c.rl(v)
	case 3:
		return c.rr(v)
	case 4:
		return c.sla(v)
	case 5:
		return c.sra(v)
	case 6:
		return c.sll(v)
	default:
		return c.srl(v)
	}
}
