package z80

// execBase decodes and executes one unprefixed opcode, or (when c.mode is
// indexIX/indexIY) the same opcode reinterpreted with HL/(HL) replaced by
// IX/(IX+d) or IY/(IY+d) — the DD/FD planes fall through to this same
// table rather than duplicating it (§4.2.1, §9).
func (c *CPU) execBase(op byte) {
	c.dispFetched = false

	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		c.execBaseX0(op, y, z, p, q)
	case 1:
		c.execBaseX1(y, z)
	case 2:
		c.aluOp(y, c.readR(z))
		c.tick(regCycles(z))
	default:
		c.execBaseX3(op, y, z, p, q)
	}
}

func regCycles(z byte) int {
	if z == 6 {
		return 7
	}
	return 4
}

func (c *CPU) execBaseX0(op, y, z, p, q byte) {
	switch z {
	case 0:
		c.execBaseX0Z0(y)
	case 1:
		if q == 0 {
			c.writeRP(p, c.fetchWord())
			c.tick(10)
		} else {
			c.setIndexOrHL(c.add16(c.indexOrHL(), c.readRP(p)))
			c.tick(11)
		}
	case 2:
		c.execBaseX0Z2(p, q)
	case 3:
		if q == 0 {
			c.writeRP(p, c.readRP(p)+1)
		} else {
			c.writeRP(p, c.readRP(p)-1)
		}
		c.tick(6)
	case 4:
		c.writeR(y, c.inc8(c.readR(y)))
		c.tick(regCycles(y) + 1)
	case 5:
		c.writeR(y, c.dec8(c.readR(y)))
		c.tick(regCycles(y) + 1)
	case 6:
		if y == 6 {
			// LD (IX+d),n encodes d before n: fetch and cache d first.
			c.effAddr()
		}
		c.writeR(y, c.fetchByte())
		c.tick(regCycles(y) + 3)
	case 7:
		c.execBaseX0Z7(y)
	}
}

func (c *CPU) execBaseX0Z0(y byte) {
	switch y {
	case 0:
		c.tick(4) // NOP
	case 1:
		c.ExAF()
		c.tick(4)
	case 2:
		d := int8(c.fetchByte())
		c.B--
		c.tick(8)
		if c.B != 0 {
			c.PC = uint16(int32(c.PC) + int32(d))
			c.tick(5)
		}
	case 3:
		d := int8(c.fetchByte())
		c.PC = uint16(int32(c.PC) + int32(d))
		c.tick(12)
	default:
		d := int8(c.fetchByte())
		c.tick(7)
		if c.cc(y - 4) {
			c.PC = uint16(int32(c.PC) + int32(d))
			c.tick(5)
		}
	}
}

func (c *CPU) execBaseX0Z2(p, q byte) {
	switch {
	case q == 0 && p == 0:
		c.write(c.BC(), c.A)
		c.tick(7)
	case q == 0 && p == 1:
		c.write(c.DE(), c.A)
		c.tick(7)
	case q == 0 && p == 2:
		addr := c.fetchWord()
		v := c.indexOrHL()
		c.write(addr, byte(v))
		c.write(addr+1, byte(v>>8))
		c.tick(16)
	case q == 0:
		addr := c.fetchWord()
		c.write(addr, c.A)
		c.tick(13)
	case q == 1 && p == 0:
		c.A = c.read(c.BC())
		c.tick(7)
	case q == 1 && p == 1:
		c.A = c.read(c.DE())
		c.tick(7)
	case q == 1 && p == 2:
		addr := c.fetchWord()
		lo := c.read(addr)
		hi := c.read(addr + 1)
		c.setIndexOrHL(uint16(hi)<<8 | uint16(lo))
		c.tick(16)
	default:
		addr := c.fetchWord()
		c.A = c.read(addr)
		c.tick(13)
	}
}

func (c *CPU) execBaseX0Z7(y byte) {
	switch y {
	case 0:
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | c.A>>7
		c.F = c.F&(FlagS|FlagZ|FlagPV) | c.A&(Flag3|Flag5)
		if carry {
			c.F |= FlagC
		}
	case 1:
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | c.A<<7
		c.F = c.F&(FlagS|FlagZ|FlagPV) | c.A&(Flag3|Flag5)
		if carry {
			c.F |= FlagC
		}
	case 2:
		var cin byte
		if c.Flag(FlagC) {
			cin = 1
		}
		carry := c.A&0x80 != 0
		c.A = c.A<<1 | cin
		c.F = c.F&(FlagS|FlagZ|FlagPV) | c.A&(Flag3|Flag5)
		if carry {
			c.F |= FlagC
		}
	case 3:
		var cin byte
		if c.Flag(FlagC) {
			cin = 0x80
		}
		carry := c.A&0x01 != 0
		c.A = c.A>>1 | cin
		c.F = c.F&(FlagS|FlagZ|FlagPV) | c.A&(Flag3|Flag5)
		if carry {
			c.F |= FlagC
		}
	case 4:
		c.daa()
	case 5:
		c.A = ^c.A
		c.F = c.F&(FlagS|FlagZ|FlagPV) | FlagH | FlagN | c.A&(Flag3|Flag5)
	case 6:
		c.F = c.F&(FlagS|FlagZ|FlagPV) | FlagC | c.A&(Flag3|Flag5)
	case 7:
		carry := !c.Flag(FlagC)
		half := c.Flag(FlagC)
		c.F = c.F & (FlagS | FlagZ | FlagPV)
		if !carry {
			c.F |= FlagC
		}
		if half {
			c.F |= FlagH
		}
		c.F |= c.A & (Flag3 | Flag5)
	}
	c.tick(4)
}

func (c *CPU) execBaseX1(y, z byte) {
	if y == 6 && z == 6 {
		c.Halted = true
		c.tick(4)
		return
	}
	c.writeR(y, c.readR(z))
	if y == 6 || z == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPU) execBaseX3(op, y, z, p, q byte) {
	switch z {
	case 0:
		c.tick(5)
		if c.cc(y) {
			c.PC = c.pop()
			c.tick(6)
		}
	case 1:
		c.execBaseX3Z1(p, q)
	case 2:
		addr := c.fetchWord()
		c.tick(10)
		if c.cc(y) {
			c.PC = addr
		}
	case 3:
		c.execBaseX3Z3(y)
	case 4:
		addr := c.fetchWord()
		c.tick(10)
		if c.cc(y) {
			c.push(c.PC)
			c.PC = addr
			c.tick(7)
		}
	case 5:
		c.execBaseX3Z5(op, p, q)
	case 6:
		c.aluOp(y, c.fetchByte())
		c.tick(7)
	default:
		c.push(c.PC)
		c.PC = uint16(y) * 8
		c.tick(11)
	}
}

func (c *CPU) execBaseX3Z1(p, q byte) {
	if q == 0 {
		c.writeRP2(p, c.pop())
		c.tick(10)
		return
	}
	switch p {
	case 0:
		c.PC = c.pop()
		c.tick(10)
	case 1:
		c.Exx()
		c.tick(4)
	case 2:
		c.PC = c.indexOrHL()
		c.tick(4)
	default:
		c.SP = c.indexOrHL()
		c.tick(6)
	}
}

func (c *CPU) execBaseX3Z3(y byte) {
	switch y {
	case 0:
		addr := c.fetchWord()
		c.tick(10)
		c.PC = addr
	case 1:
		// CB prefix: handled in Step/execPrefixed before reaching execBase.
		c.unimplemented("base", 0xCB)
	case 2:
		port := uint16(c.fetchByte())
		c.out(port|uint16(c.A)<<8, c.A)
		c.tick(11)
	case 3:
		port := uint16(c.fetchByte())
		c.A = c.in(port | uint16(c.A)<<8)
		c.tick(11)
	case 4:
		addr := c.indexOrHL()
		lo := c.read(c.SP)
		hi := c.read(c.SP + 1)
		c.write(c.SP, byte(addr))
		c.write(c.SP+1, byte(addr>>8))
		c.setIndexOrHL(uint16(hi)<<8 | uint16(lo))
		c.tick(19)
	case 5:
		de, hl := c.DE(), c.HL()
		c.SetDE(hl)
		c.SetHL(de)
		c.tick(4)
	case 6:
		c.IFF1, c.IFF2 = false, false
		c.tick(4)
	default:
		c.IFF1, c.IFF2 = true, true
		c.iffDelay = 2
		c.tick(4)
	}
}

func (c *CPU) execBaseX3Z5(op byte, p, q byte) {
	if q == 0 {
		c.push(c.readRP2(p))
		c.tick(11)
		return
	}
	switch p {
	case 0:
		addr := c.fetchWord()
		c.push(c.PC)
		c.PC = addr
		c.tick(17)
	default:
		// DD/FD/ED prefixes are intercepted in Step/execPrefixed before
		// reaching execBase; reaching here means a malformed decode.
		c.unimplemented("base", op)
	}
}
