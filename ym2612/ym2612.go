// Package ym2612 controls the YM2612 (OPN2) FM synthesizer.
//
// The chip exposes two address/data port pairs on the 68K bus. Bank A
// (0xA04000/0xA04001) reaches channels 0-2 and all global registers, bank B
// (0xA04002/0xA04003) reaches channels 3-5. Every register write is an
// address byte to the address port followed by a data byte to the data port,
// with the busy flag polled before each store.
//
// Typical use:
//
//	fm := ym2612.New(b)
//	fm.Init()
//	fm.LoadPatch(0, &ym2612.DistGuitar)
//	fm.SetFreq(0, 4, ym2612.NoteE)
//	fm.KeyOn(0)
package ym2612

import "github.com/user-none/go-smd/bus"

// Hardware ports.
const (
	AddrPortA uint32 = 0xA04000 // channels 0-2 + globals
	DataPortA uint32 = 0xA04001
	AddrPortB uint32 = 0xA04002 // channels 3-5
	DataPortB uint32 = 0xA04003
)

// StatusBusy is set in the status byte while the chip cannot accept a write.
const StatusBusy = 0x80

// waitLimit bounds the busy poll so a wedged chip cannot hang the program.
const waitLimit = 0x0400

// Global registers, bank A only.
const (
	RegLFO       uint8 = 0x22
	RegTimerAHi  uint8 = 0x24
	RegTimerALo  uint8 = 0x25
	RegTimerB    uint8 = 0x26
	RegTimerCtrl uint8 = 0x27
	RegKeyOnOff  uint8 = 0x28
	RegDAC       uint8 = 0x2A
	RegDACEnable uint8 = 0x2B
)

// OpGroup is a per-operator register group base address. The register for a
// given channel and operator is group + local channel index + operator
// offset.
type OpGroup uint8

const (
	DTMul OpGroup = 0x30 // detune + multiply
	TL    OpGroup = 0x40 // total level
	RSAR  OpGroup = 0x50 // rate scale + attack rate
	AMD1R OpGroup = 0x60 // AM enable + first decay rate
	D2R   OpGroup = 0x70 // second decay rate
	D1LRR OpGroup = 0x80 // sustain level + release rate
	SSGEG OpGroup = 0x90 // SSG-EG envelope mode
)

// ChGroup is a per-channel register group base address.
type ChGroup uint8

const (
	FreqLo    ChGroup = 0xA0 // frequency number low byte
	FreqHi    ChGroup = 0xA4 // block + frequency number high bits
	AlgoFB    ChGroup = 0xB0 // algorithm + feedback
	StereoLFO ChGroup = 0xB4 // panning + LFO sensitivity
)

// Operator register offsets. The chip interleaves operators 1 and 2, so the
// order is not linear.
var opOffset = [4]uint8{0, 8, 4, 12}

const numChannels = 6

// slot holds the precomputed per-channel routing so per-call bank selection
// is a table lookup rather than branching.
type slot struct {
	addrPort uint32
	dataPort uint32
	local    uint8 // channel index within the bank (0-2)
	keyBits  uint8 // channel field of the key on/off register
}

// Chip is a handle to the FM synthesizer on a Bus.
type Chip struct {
	bus   bus.Bus
	slots [numChannels]slot
}

// New creates a Chip on the given bus. It performs no hardware access;
// call Init before use.
func New(b bus.Bus) *Chip {
	c := &Chip{bus: b}
	for ch := 0; ch < numChannels; ch++ {
		s := &c.slots[ch]
		s.local = uint8(ch % 3)
		if ch < 3 {
			s.addrPort = AddrPortA
			s.dataPort = DataPortA
			s.keyBits = s.local
		} else {
			s.addrPort = AddrPortB
			s.dataPort = DataPortB
			s.keyBits = s.local | 0x04
		}
	}
	return c
}

func (c *Chip) slot(ch int) *slot {
	return &c.slots[uint(ch)%numChannels]
}

// ReadStatus reads the chip status byte. Bit 7 is the busy flag, bits 0-1
// the timer overflow flags.
func (c *Chip) ReadStatus() uint8 {
	return c.bus.Read8(AddrPortA)
}

func (c *Chip) waitReady() {
	for spins := waitLimit; spins > 0; spins-- {
		if c.ReadStatus()&StatusBusy == 0 {
			return
		}
	}
}

// write performs one register write through the given port pair, polling the
// busy flag before each store.
func (c *Chip) write(addrPort, dataPort uint32, reg, val uint8) {
	c.waitReady()
	c.bus.Write8(addrPort, reg)
	c.waitReady()
	c.bus.Write8(dataPort, val)
}

// WriteGlobal writes a global register. Globals live in bank A regardless of
// channel.
func (c *Chip) WriteGlobal(reg, val uint8) {
	c.write(AddrPortA, DataPortA, reg, val)
}

// WriteChannel writes a per-channel register group for the given channel.
func (c *Chip) WriteChannel(ch int, group ChGroup, val uint8) {
	s := c.slot(ch)
	c.write(s.addrPort, s.dataPort, uint8(group)+s.local, val)
}

// WriteOperator writes a per-operator register group for the given channel
// and operator (0-3).
func (c *Chip) WriteOperator(ch, op int, group OpGroup, val uint8) {
	s := c.slot(ch)
	reg := uint8(group) + s.local + opOffset[uint(op)%4]
	c.write(s.addrPort, s.dataPort, reg, val)
}

// KeyOn starts the note on the given channel. All four operators are keyed.
func (c *Chip) KeyOn(ch int) {
	c.WriteGlobal(RegKeyOnOff, 0xF0|c.slot(ch).keyBits)
}

// KeyOff releases the note on the given channel.
func (c *Chip) KeyOff(ch int) {
	c.WriteGlobal(RegKeyOnOff, c.slot(ch).keyBits)
}

// SetFreq sets the channel pitch from an octave block (0-7) and an 11-bit
// frequency number. The high byte is written first; the chip latches the
// frequency when the low byte lands, so the order matters.
func (c *Chip) SetFreq(ch int, block uint8, fnum uint16) {
	hi := ((block & 7) << 3) | (uint8(fnum>>8) & 7)
	c.WriteChannel(ch, FreqHi, hi)
	c.WriteChannel(ch, FreqLo, uint8(fnum))
}

// SetAlgorithm sets the FM algorithm (0-7) and operator 0 feedback (0-7)
// for the channel.
func (c *Chip) SetAlgorithm(ch int, algorithm, feedback uint8) {
	c.WriteChannel(ch, AlgoFB, ((feedback&7)<<3)|(algorithm&7))
}

// SetStereo enables or disables the left and right outputs for the channel.
func (c *Chip) SetStereo(ch int, left, right bool) {
	var val uint8
	if left {
		val |= 0x80
	}
	if right {
		val |= 0x40
	}
	c.WriteChannel(ch, StereoLFO, val)
}

// Init puts the chip in a known state: LFO off, timers off, DAC off, all six
// channels keyed off.
func (c *Chip) Init() {
	c.WriteGlobal(RegLFO, 0x00)
	c.WriteGlobal(RegTimerCtrl, 0x00)
	c.WriteGlobal(RegDACEnable, 0x00)
	for ch := 0; ch < numChannels; ch++ {
		c.KeyOff(ch)
	}
}
