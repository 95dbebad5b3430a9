package bus

import "log"

// MemoryMap is an inclusive [Min, Max] window of 16-bit addresses.
type MemoryMap struct {
	Min, Max uint16
}

// NewMemoryMap builds a MemoryMap. Panics if min > max, since that can
// only happen from a programming error in the machine wiring.
func NewMemoryMap(min, max uint16) MemoryMap {
	if min > max {
		panic("bus: invalid memory map, min > max")
	}
	return MemoryMap{Min: min, Max: max}
}

// Contains reports whether addr falls within the window.
func (m MemoryMap) Contains(addr uint16) bool {
	return addr >= m.Min && addr <= m.Max
}

// width returns the number of addresses spanned by the map.
func (m MemoryMap) width() int {
	return int(m.Max-m.Min) + 1
}

// MemoryRegion is a fixed-size byte buffer mapped into the address space
// at one primary window, plus any number of mirror windows that share
// the same underlying storage. A region may be marked read-only, in
// which case writes are logged and dropped rather than applied — real
// hardware has no concept of a ROM write failing, it simply has no
// effect, but a write to a read-only region nearly always indicates a
// bug in the emulated program, so it is worth surfacing loudly.
type MemoryRegion struct {
	data     []byte
	primary  MemoryMap
	mirrors  []MemoryMap
	readOnly bool
}

// NewMemoryRegion allocates a region of size bytes mapped at primary.
// size must equal primary's width.
func NewMemoryRegion(size int, primary MemoryMap, readOnly bool) *MemoryRegion {
	if size != primary.width() {
		panic("bus: memory region size does not match primary map width")
	}
	return &MemoryRegion{
		data:     make([]byte, size),
		primary:  primary,
		readOnly: readOnly,
	}
}

// NewMemoryRegionFromData wraps existing bytes (e.g. a loaded ROM image)
// as a read-only or writable region mapped at primary. len(data) must
// equal primary's width.
func NewMemoryRegionFromData(data []byte, primary MemoryMap, readOnly bool) *MemoryRegion {
	if len(data) != primary.width() {
		panic("bus: memory region data length does not match primary map width")
	}
	return &MemoryRegion{
		data:     data,
		primary:  primary,
		readOnly: readOnly,
	}
}

// AddMirror registers an additional window over the same storage. The
// mirror must have the same width as the primary map.
func (r *MemoryRegion) AddMirror(m MemoryMap) {
	if m.width() != r.primary.width() {
		panic("bus: mirror width does not match primary map width")
	}
	r.mirrors = append(r.mirrors, m)
}

// Accept reports whether addr falls in the primary map or any mirror.
func (r *MemoryRegion) Accept(addr uint16) bool {
	if r.primary.Contains(addr) {
		return true
	}
	for _, m := range r.mirrors {
		if m.Contains(addr) {
			return true
		}
	}
	return false
}

// offset resolves addr to a buffer index through whichever map (primary
// or mirror) claims it.
func (r *MemoryRegion) offset(addr uint16) int {
	if r.primary.Contains(addr) {
		return int(addr - r.primary.Min)
	}
	for _, m := range r.mirrors {
		if m.Contains(addr) {
			return int(addr - m.Min)
		}
	}
	return -1
}

// Read returns the byte at addr, translated through the primary map or
// whichever mirror claims it.
func (r *MemoryRegion) Read(addr uint16) byte {
	off := r.offset(addr)
	if off < 0 {
		return 0
	}
	return r.data[off]
}

// Write stores value at addr unless the region is read-only, in which
// case the write is logged and dropped. Mirrors and the primary map
// share the same backing buffer, so a write through one is immediately
// observable through the other.
func (r *MemoryRegion) Write(addr uint16, value byte) bool {
	if r.readOnly {
		log.Printf("bus: write to read-only region ignored: addr=0x%04X value=0x%02X", addr, value)
		return false
	}
	off := r.offset(addr)
	if off < 0 {
		return false
	}
	r.data[off] = value
	return true
}
