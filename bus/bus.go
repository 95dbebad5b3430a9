// Package bus implements the address-decoding fabric that connects the
// Z80 CPU to memory and memory-mapped devices.
//
// A Bus holds an ordered list of Devices and, on every access, dispatches
// to the first device whose Accept reports true. No device accepting an
// address is not an error: reads return 0 and writes are dropped.
package bus

// Device is anything that can be attached to a Bus: a memory region, a
// VDP port window, a controller port window, and so on.
type Device interface {
	// Accept reports whether this device services addr.
	Accept(addr uint16) bool
	// Read returns the byte at addr. Only called when Accept(addr) is true.
	Read(addr uint16) byte
	// Write stores value at addr and reports success. Only called when
	// Accept(addr) is true.
	Write(addr uint16, value byte) bool
}

// Bus is an ordered collection of Devices, polled in insertion order.
type Bus struct {
	devices []Device
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{}
}

// Attach appends a device to the bus. Devices attached earlier take
// priority when address ranges overlap.
func (b *Bus) Attach(d Device) {
	b.devices = append(b.devices, d)
}

// Read returns the value from the first device accepting addr, or 0 if
// no device accepts it.
func (b *Bus) Read(addr uint16) byte {
	for _, d := range b.devices {
		if d.Accept(addr) {
			return d.Read(addr)
		}
	}
	return 0
}

// Write stores value through the first device accepting addr. Writes to
// addresses no device accepts are silently dropped.
func (b *Bus) Write(addr uint16, value byte) {
	for _, d := range b.devices {
		if d.Accept(addr) {
			d.Write(addr, value)
			return
		}
	}
}
