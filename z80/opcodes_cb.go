package z80

// execCB decodes and executes one CB-prefixed opcode: rotate/shift,
// BIT/RES/SET on register z (§4.2.1 plane 4). mode is always indexNone
// here — the indexed CB plane (DD CB d op / FD CB d op) is decoded
// separately by execIndexedCB, since there the operand is always
// (IX+d)/(IY+d) regardless of the register field (§4.2.1 item 4, §9).
func (c *CPU) execCB(mode indexMode) {
	op := c.fetchOpcode()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	v := c.readR(z)
	// Rotate/shift, RES and SET take 8 T-states on a register, 15 on (HL).
	rmwCycles := 8
	if z == 6 {
		rmwCycles = 15
	}
	switch x {
	case 0:
		v = c.rotOp(y, v)
		c.writeR(z, v)
		c.tick(rmwCycles)
	case 1:
		c.bitTest(uint(y), v)
		c.tick(regCyclesBit(z))
	case 2:
		v &^= 1 << y
		c.writeR(z, v)
		c.tick(rmwCycles)
	default:
		v |= 1 << y
		c.writeR(z, v)
		c.tick(rmwCycles)
	}
}

// regCyclesBit is the cost of BIT n,r (8) and BIT n,(HL) (12); BIT n,(HL)
// is three T-states cheaper than the read-modify-write CB forms on (HL)
// because it writes nothing back.
func regCyclesBit(z byte) int {
	if z == 6 {
		return 12
	}
	return 8
}

// execIndexedCB decodes a DD CB d op / FD CB d op instruction: the
// displacement byte has already been fetched into c.disp by
// execPrefixed, and every variant (whatever register the low 3 bits
// name) operates on (IX+d)/(IY+d), optionally also copying the result
// into that register per the "undocumented" CB+index encoding.
func (c *CPU) execIndexedCB() {
	op := c.fetchOpcode()
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	addr := c.indexReg() + uint16(int16(c.disp))
	v := c.read(addr)

	var result byte
	switch x {
	case 0:
		result = c.rotOp(y, v)
	case 1:
		c.bitTest(uint(y), v)
		c.tick(20)
		return
	case 2:
		result = v &^ (1 << y)
	default:
		result = v | 1<<y
	}

	c.write(addr, result)
	if z != 6 {
		c.plainWriteR8(z, result)
	}
	c.tick(23)
}

// plainWriteR8 stores into B,C,D,E,H,L,A by code, ignoring any active
// index-register substitution: the undocumented DD/FD CB copy-back
// always targets the plain register, never IXh/IXl/IYh/IYl.
func (c *CPU) plainWriteR8(code byte, v byte) {
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
		c.H = v
	case 5:
		c.L = v
	default:
		c.A = v
	}
}
