// Package psg controls the SN76489 programmable sound generator: three
// square-wave tone channels and one noise channel behind a single write-only
// port. Volume runs from 0 (loudest) to 15 (silent).
package psg

import "github.com/user-none/go-smd/bus"

// Port is the PSG write port on the 68K bus.
const Port uint32 = 0xC00011

// Clock is the NTSC PSG input clock in Hz.
const Clock = 3579545

// Channel numbers.
const (
	Tone0 = 0
	Tone1 = 1
	Tone2 = 2
	Noise = 3
)

// Volume extremes.
const (
	VolumeMax = 0
	VolumeOff = 15
)

// NoiseMode selects the noise type and shift rate.
type NoiseMode uint8

const (
	PeriodicHi  NoiseMode = 0x00
	PeriodicMed NoiseMode = 0x01
	PeriodicLo  NoiseMode = 0x02
	PeriodicCh2 NoiseMode = 0x03 // tracks tone channel 2
	WhiteHi     NoiseMode = 0x04
	WhiteMed    NoiseMode = 0x05
	WhiteLo     NoiseMode = 0x06
	WhiteCh2    NoiseMode = 0x07 // tracks tone channel 2
)

// Common effect frequencies in Hz.
const (
	FreqLow  = 220
	FreqMed  = 440
	FreqHigh = 880
	FreqBlip = 1760
)

// Note frequencies in Hz for SetTone.
const (
	NoteC4 = 262
	NoteD4 = 294
	NoteE4 = 330
	NoteF4 = 349
	NoteG4 = 392
	NoteA4 = 440
	NoteB4 = 494
	NoteC5 = 523
)

// Chip is a handle to the PSG on a Bus.
type Chip struct {
	bus bus.Bus
}

// New creates a Chip on the given bus.
func New(b bus.Bus) *Chip {
	return &Chip{bus: b}
}

func (c *Chip) write(val uint8) {
	c.bus.Write8(Port, val)
}

// Init silences all channels. Call once at startup; the PSG powers up
// making noise.
func (c *Chip) Init() {
	c.Stop()
}

// Stop silences all four channels.
func (c *Chip) Stop() {
	for ch := 0; ch < 4; ch++ {
		c.SetVolume(ch, VolumeOff)
	}
}

// SetVolume sets the attenuation for a channel: 0 loudest, 15 silent.
func (c *Chip) SetVolume(ch int, volume uint8) {
	c.write(0x90 | (uint8(ch)&0x03)<<5 | (volume & 0x0F))
}

// SetToneRaw sets the 10-bit tone divider for a channel. Lower values are
// higher pitched: output frequency = Clock / (32 * value).
func (c *Chip) SetToneRaw(ch int, value uint16) {
	value &= 0x03FF

	// latch byte carries the low 4 bits, data byte the high 6
	c.write(0x80 | (uint8(ch)&0x03)<<5 | uint8(value&0x0F))
	c.write(uint8(value>>4) & 0x3F)
}

// SetTone sets a tone channel to the given frequency in Hz. The divider is
// 10 bits, so frequencies below roughly 109 Hz overflow it and wrap to a
// much higher pitch. A zero frequency is ignored.
func (c *Chip) SetTone(ch int, hz uint16) {
	if hz == 0 {
		return
	}
	c.SetToneRaw(ch, ToneDivider(hz))
}

// ToneDivider converts a frequency in Hz to the 10-bit divider value.
func ToneDivider(hz uint16) uint16 {
	return uint16(Clock / (32 * uint32(hz)))
}

// SetNoise configures the noise channel. Set its volume separately.
func (c *Chip) SetNoise(mode NoiseMode) {
	c.write(0xE0 | uint8(mode)&0x07)
}

// Beep starts a tone: SetTone then SetVolume. Stop or SetVolume silences it.
func (c *Chip) Beep(ch int, hz uint16, volume uint8) {
	c.SetTone(ch, hz)
	c.SetVolume(ch, volume)
}
