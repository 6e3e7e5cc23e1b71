// Package bus defines the hardware access interface shared by every
// device-control package. On a real console the addresses below are
// memory-mapped I/O; here they go through a Bus so the same SDK code can
// drive either the bundled machine or a recording test bus.
package bus

// Bus is the byte/word access interface to console hardware.
//
// Addresses are 68K-side physical addresses (24-bit, carried in a uint32).
// Word accesses are big-endian and must be even-aligned, matching the
// console's data bus.
type Bus interface {
	Read8(addr uint32) uint8
	Write8(addr uint32, val uint8)
	Read16(addr uint32) uint16
	Write16(addr uint32, val uint16)
}
