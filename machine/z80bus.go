package machine

// z80Bus implements the z80 package's Bus for the sound CPU address space.
//
// Sound CPU memory map (16-bit):
//
//	0x0000-0x1FFF  Z80 RAM (8KB)
//	0x2000-0x3FFF  Z80 RAM mirror
//	0x4000-0x5FFF  FM synthesizer ports
//	0x7F11         PSG write port
//	elsewhere      open bus
type z80Bus struct {
	m *Machine
}

// Fetch reads an opcode byte. There is no M1-specific behavior, so this
// delegates to Read.
func (b *z80Bus) Fetch(addr uint16) uint8 {
	return b.Read(addr)
}

func (b *z80Bus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x4000:
		return b.m.z80RAM[addr&0x1FFF]
	case addr < 0x6000:
		return b.m.fm.ReadPort(uint8(addr & 0x03))
	default:
		return 0xFF
	}
}

func (b *z80Bus) Write(addr uint16, val uint8) {
	switch {
	case addr < 0x4000:
		b.m.z80RAM[addr&0x1FFF] = val
	case addr < 0x6000:
		b.m.fm.WritePort(uint8(addr&0x03), val)
	case addr == 0x7F11:
		b.m.psg.Write(val)
	}
}

// In reads from an I/O port. All peripherals are memory-mapped, so ports
// float high.
func (b *z80Bus) In(port uint16) uint8 {
	return 0xFF
}

// Out writes to an I/O port. No-op.
func (b *z80Bus) Out(port uint16, val uint8) {}
