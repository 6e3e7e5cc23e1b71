// Package machine is the bundled console: a Machine implements bus.Bus
// over models of the sound, video and I/O hardware, so SDK programs run
// unmodified against it. One RunFrame call advances everything by one
// NTSC frame and leaves a rendered framebuffer and mixed audio behind.
package machine

import (
	"sync"

	"github.com/user-none/go-chip-sn76489"
	"github.com/user-none/go-chip-z80"
)

// NTSC timing.
const (
	// FPS is the frame rate RunFrame is designed to be called at.
	FPS = 60

	scanlines   = 262
	m68kClockHz = 7670454
	z80ClockHz  = 3579545

	m68kCyclesPerScanline = m68kClockHz / FPS / scanlines
	z80CyclesPerScanline  = z80ClockHz / FPS / scanlines
)

const (
	workRAMBase = 0xFF0000
	workRAMSize = 0x10000

	z80RAMBase = 0xA00000
	z80RAMSize = 0x2000

	fmPortBase = 0xA04000

	busReqAddr  = 0xA11100
	z80RstAddr  = 0xA11200
	vdpDataAddr = 0xC00000
	vdpCtrlAddr = 0xC00004
	psgAddr     = 0xC00011
)

// Machine is the emulated console. It is safe to access from the SDK
// program goroutine while RunFrame is driven from the frame loop; all
// bus accesses and RunFrame serialize on one mutex, so program accesses
// land between frames.
type Machine struct {
	mu sync.Mutex

	ram    [workRAMSize]uint8
	z80RAM [z80RAMSize]uint8

	fm    *fmSynth
	psg   *sn76489.SN76489
	video *video
	io    *ioPorts

	z80CPU          *z80.CPU
	z80BusRequested bool
	z80ResetHeld    bool
	z80PendingReset bool
	z80IntPending   bool

	audioBuffer []int16
	filterPrevL float64
	filterPrevR float64
}

// New creates a powered-on NTSC console with no program loaded into the
// sound CPU. The sound CPU is held in reset until the program releases it.
func New() *Machine {
	m := &Machine{
		fm:           newFMSynth(m68kClockHz, sampleRate),
		psg:          sn76489.New(z80ClockHz, sampleRate, psgBufferSize, sn76489.Sega),
		video:        newVideo(),
		io:           newIOPorts(false),
		z80ResetHeld: true,
		audioBuffer:  make([]int16, 0, 2048),
	}
	m.psg.SetGain(psgGain)
	m.z80CPU = z80.New(&z80Bus{m: m})
	return m
}

// Read8 implements bus.Bus.
func (m *Machine) Read8(addr uint32) uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read8(addr)
}

// Write8 implements bus.Bus.
func (m *Machine) Write8(addr uint32, val uint8) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.write8(addr, val)
}

// Read16 implements bus.Bus.
func (m *Machine) Read16(addr uint32) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read16(addr)
}

// Write16 implements bus.Bus.
func (m *Machine) Write16(addr uint32, val uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.write16(addr, val)
}

func (m *Machine) read8(addr uint32) uint8 {
	addr &= 0xFFFFFF

	switch {
	case addr >= workRAMBase:
		return m.ram[addr&(workRAMSize-1)]
	case addr >= z80RAMBase && addr < z80RAMBase+z80RAMSize:
		return m.z80RAM[addr-z80RAMBase]
	case addr >= fmPortBase && addr < fmPortBase+4:
		return m.fm.ReadPort(uint8(addr & 0x03))
	case addr >= 0xA10001 && addr <= 0xA1000B:
		return m.io.ReadRegister(addr | 1)
	case addr == busReqAddr || addr == busReqAddr+1:
		return uint8(m.read16(busReqAddr) >> (8 * (1 - addr&1)))
	case addr == vdpDataAddr || addr == vdpDataAddr+1:
		return uint8(m.video.ReadData() >> (8 * (1 - addr&1)))
	case addr == vdpCtrlAddr || addr == vdpCtrlAddr+1:
		return uint8(m.video.ReadControl() >> (8 * (1 - addr&1)))
	}
	return 0x00
}

func (m *Machine) write8(addr uint32, val uint8) {
	addr &= 0xFFFFFF

	switch {
	case addr >= workRAMBase:
		m.ram[addr&(workRAMSize-1)] = val
	case addr >= z80RAMBase && addr < z80RAMBase+z80RAMSize:
		m.z80RAM[addr-z80RAMBase] = val
	case addr >= fmPortBase && addr < fmPortBase+4:
		m.fm.WritePort(uint8(addr&0x03), val)
	case addr >= 0xA10001 && addr <= 0xA1000B:
		m.io.WriteRegister(addr|1, val)
	case addr == busReqAddr || addr == busReqAddr+1:
		m.setBusRequest(val&0x01 != 0)
	case addr == z80RstAddr || addr == z80RstAddr+1:
		m.setZ80Reset(val&0x01 == 0)
	case addr == psgAddr:
		m.psg.Write(val)
	case addr == vdpDataAddr || addr == vdpDataAddr+1:
		m.video.WriteData(uint16(val)<<8 | uint16(val))
	}
}

func (m *Machine) read16(addr uint32) uint16 {
	addr &= 0xFFFFFE

	switch {
	case addr >= workRAMBase:
		i := addr & (workRAMSize - 1)
		return uint16(m.ram[i])<<8 | uint16(m.ram[i+1])
	case addr == busReqAddr:
		// bit 8 clear once the bus has been granted
		if m.z80BusRequested || m.z80ResetHeld {
			return 0x0000
		}
		return 0x0100
	case addr == vdpDataAddr || addr == vdpDataAddr+2:
		return m.video.ReadData()
	case addr == vdpCtrlAddr || addr == vdpCtrlAddr+2:
		return m.video.ReadControl()
	}
	return uint16(m.read8(addr))<<8 | uint16(m.read8(addr+1))
}

func (m *Machine) write16(addr uint32, val uint16) {
	addr &= 0xFFFFFE

	switch {
	case addr >= workRAMBase:
		i := addr & (workRAMSize - 1)
		m.ram[i] = uint8(val >> 8)
		m.ram[i+1] = uint8(val)
	case addr == busReqAddr:
		m.setBusRequest(val&0x0100 != 0)
	case addr == z80RstAddr:
		m.setZ80Reset(val&0x0100 == 0)
	case addr == vdpDataAddr || addr == vdpDataAddr+2:
		m.video.WriteData(val)
	case addr == vdpCtrlAddr || addr == vdpCtrlAddr+2:
		m.video.WriteControl(val)
	default:
		// byte peripherals see the high byte on a word write
		m.write8(addr, uint8(val>>8))
	}
}

func (m *Machine) setBusRequest(req bool) {
	m.z80BusRequested = req
}

func (m *Machine) setZ80Reset(held bool) {
	// reset release restarts the sound CPU from address 0
	if m.z80ResetHeld && !held {
		m.z80PendingReset = true
	}
	m.z80ResetHeld = held
}

// SetInput sets the controller state for a player (0 or 1).
func (m *Machine) SetInput(player int, in Input) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch player {
	case 0:
		m.io.P1 = in
	case 1:
		m.io.P2 = in
	}
}

// RunFrame advances the console by one frame: the sound CPU and both
// sound chips run scanline by scanline, then the frame is rendered and
// the audio mixed. The v-blank flag is down while the frame runs and up
// when RunFrame returns, so a program polling the control port paces
// itself one call per frame.
func (m *Machine) RunFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.audioBuffer = m.audioBuffer[:0]
	m.psg.ResetBuffer()
	m.video.SetVBlank(false)

	for line := 0; line < scanlines; line++ {
		// v-blank interrupt for the sound CPU at the end of active display
		if line == ScreenHeight {
			m.z80IntPending = true
			m.z80CPU.INT(true, 0xFF)
		}

		if m.z80PendingReset {
			m.z80CPU.Reset()
			m.z80PendingReset = false
		}

		// the sound CPU is paused while reset is held or the main side
		// has the bus
		if !m.z80ResetHeld && !m.z80BusRequested {
			m.runZ80Scanline()
		}

		m.fm.GenerateSamples(m68kCyclesPerScanline)
		m.psg.Run(z80CyclesPerScanline)
	}

	m.video.RenderFrame()
	m.video.SetVBlank(true)
	m.mixAudio()
}

// runZ80Scanline executes one scanline's worth of sound CPU cycles,
// watching for interrupt acknowledgment (IFF1 true->false) so INT can be
// deasserted once taken.
func (m *Machine) runZ80Scanline() {
	budget := z80CyclesPerScanline
	for budget > 0 {
		var prevIFF1 bool
		if m.z80IntPending {
			prevIFF1 = m.z80CPU.Registers().IFF1
		}

		consumed := m.z80CPU.StepCycles(budget)
		if consumed == 0 {
			break
		}
		budget -= consumed

		if m.z80IntPending && prevIFF1 && !m.z80CPU.Registers().IFF1 {
			m.z80IntPending = false
			m.z80CPU.INT(false, 0xFF)
		}
	}
}

// Framebuffer returns RGBA pixel data for the last rendered frame,
// ScreenWidth*ScreenHeight pixels at 4 bytes each.
func (m *Machine) Framebuffer() []uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.video.Framebuffer()
}

// AudioSamples returns the stereo 16-bit PCM generated by the last
// RunFrame call. The slice is reused on the next frame.
func (m *Machine) AudioSamples() []int16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audioBuffer
}
