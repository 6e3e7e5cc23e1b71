// Package z80 controls the sound CPU: bus arbitration, reset, driver
// loading and the shared-memory command mailbox.
//
// The Z80 owns 8KB of RAM visible to the main CPU at 0xA00000. The main CPU
// must hold the bus before touching that RAM. Commands to a loaded sound
// driver go through a mailbox at the top of Z80 RAM: data bytes first, the
// command byte last so the driver never sees a half-written command.
package z80

import "github.com/user-none/go-smd/bus"

// Z80 address space, main CPU view.
const (
	RAM     uint32 = 0xA00000
	RAMSize        = 8192

	BusReq uint32 = 0xA11100
	Reset  uint32 = 0xA11200

	// mailbox at the top of Z80 RAM
	CmdAddr  uint32 = 0xA01F00
	DataAddr uint32 = 0xA01F01
)

// busReqSpins bounds the bus-grant poll.
const busReqSpins = 0x0400

// Driver commands.
const (
	CmdNop      uint8 = 0x00
	CmdPlayNote uint8 = 0x01 // channel, note, octave
	CmdStopNote uint8 = 0x02 // channel
	CmdSetPatch uint8 = 0x03 // channel, patch id
	CmdSetTempo uint8 = 0x04 // tempo
	CmdPlaySeq  uint8 = 0x10
	CmdStopSeq  uint8 = 0x11
)

// Ctl is a handle to the Z80 control registers on a Bus.
type Ctl struct {
	bus bus.Bus
}

// New creates a Ctl on the given bus.
func New(b bus.Bus) *Ctl {
	return &Ctl{bus: b}
}

// RequestBus takes the Z80 bus, polling until the grant lands so Z80 RAM is
// safe to access.
func (c *Ctl) RequestBus() {
	c.bus.Write16(BusReq, 0x0100)
	for spins := busReqSpins; spins > 0; spins-- {
		if c.bus.Read16(BusReq)&0x0100 == 0 {
			return
		}
	}
}

// ReleaseBus hands the bus back so the Z80 resumes.
func (c *Ctl) ReleaseBus() {
	c.bus.Write16(BusReq, 0x0000)
}

// ResetOn holds the Z80 in reset.
func (c *Ctl) ResetOn() {
	c.bus.Write16(Reset, 0x0000)
}

// ResetOff releases reset; the Z80 starts executing from address 0.
func (c *Ctl) ResetOff() {
	c.bus.Write16(Reset, 0x0100)
}

// WriteRAM writes one byte of Z80 RAM. The caller must hold the bus.
func (c *Ctl) WriteRAM(offset uint16, val uint8) {
	c.bus.Write8(RAM+uint32(offset), val)
}

// ReadRAM reads one byte of Z80 RAM. The caller must hold the bus.
func (c *Ctl) ReadRAM(offset uint16) uint8 {
	return c.bus.Read8(RAM + uint32(offset))
}

// Init resets the Z80 with an empty mailbox. Use LoadDriver instead when
// shipping a sound driver.
func (c *Ctl) Init() {
	c.RequestBus()
	c.ResetOn()
	c.WriteRAM(0x1F00, CmdNop)
	c.ResetOff()
	c.ReleaseBus()
}

// LoadDriver copies a driver binary into Z80 RAM and starts it. Binaries
// larger than RAMSize are truncated.
func (c *Ctl) LoadDriver(driver []byte) {
	c.RequestBus()
	c.ResetOn()

	if len(driver) > RAMSize {
		driver = driver[:RAMSize]
	}
	for i, b := range driver {
		c.WriteRAM(uint16(i), b)
	}

	c.ResetOff()
	c.ReleaseBus()
}

// SendCommand posts a mailbox command with up to three data bytes. Data
// lands before the command byte, which triggers the driver.
func (c *Ctl) SendCommand(command, d1, d2, d3 uint8) {
	c.RequestBus()

	c.WriteRAM(0x1F01, d1)
	c.WriteRAM(0x1F02, d2)
	c.WriteRAM(0x1F03, d3)
	c.WriteRAM(0x1F00, command)

	c.ReleaseBus()
}

// PlayNote asks the driver to play a semitone (0 = C) in the given octave
// on an FM channel.
func (c *Ctl) PlayNote(channel, note, octave uint8) {
	c.SendCommand(CmdPlayNote, channel, note, octave)
}

// StopNote releases the note on an FM channel.
func (c *Ctl) StopNote(channel uint8) {
	c.SendCommand(CmdStopNote, channel, 0, 0)
}

// SetPatch selects a driver-side instrument for a channel.
func (c *Ctl) SetPatch(channel, patch uint8) {
	c.SendCommand(CmdSetPatch, channel, patch, 0)
}

// SetTempo sets the driver sequence tempo.
func (c *Ctl) SetTempo(tempo uint8) {
	c.SendCommand(CmdSetTempo, tempo, 0, 0)
}

// PlaySequence starts driver sequence playback.
func (c *Ctl) PlaySequence() {
	c.SendCommand(CmdPlaySeq, 0, 0, 0)
}

// StopSequence halts driver sequence playback.
func (c *Ctl) StopSequence() {
	c.SendCommand(CmdStopSeq, 0, 0, 0)
}
