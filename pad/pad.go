// Package pad reads the 3-button controllers. The controller multiplexes
// its buttons over six data lines using the TH select pin: TH high returns
// C, B and the d-pad, TH low returns Start and A. Button lines are active
// low; the Buttons type presents them active high.
package pad

import "github.com/user-none/go-smd/bus"

// I/O ports for the two controller connectors.
const (
	Data1 uint32 = 0xA10003
	Data2 uint32 = 0xA10005
	Ctrl1 uint32 = 0xA10009
	Ctrl2 uint32 = 0xA1000B
)

// Version is the console version register.
const Version uint32 = 0xA10001

// thPin is the select line, driven as an output.
const thPin = 0x40

// Buttons is a bitfield of pressed buttons.
type Buttons uint16

const (
	Up     Buttons = 0x0001
	Down   Buttons = 0x0002
	Left   Buttons = 0x0004
	Right  Buttons = 0x0008
	A      Buttons = 0x0010
	B      Buttons = 0x0020
	C      Buttons = 0x0040
	Start  Buttons = 0x0080
)

// Contains reports whether all buttons in b are pressed.
func (bt Buttons) Contains(b Buttons) bool {
	return bt&b == b
}

// ContainsAny reports whether any button in b is pressed.
func (bt Buttons) ContainsAny(b Buttons) bool {
	return bt&b != 0
}

// Pad is one controller port with edge tracking for Pressed and Released.
type Pad struct {
	bus  bus.Bus
	data uint32
	ctrl uint32
	curr Buttons
	prev Buttons
}

// New creates a Pad for port 0 or 1.
func New(b bus.Bus, port int) *Pad {
	p := &Pad{bus: b, data: Data1, ctrl: Ctrl1}
	if port != 0 {
		p.data = Data2
		p.ctrl = Ctrl2
	}
	return p
}

// Init configures the port with TH as an output. Call once at startup.
func (p *Pad) Init() {
	p.bus.Write8(p.ctrl, thPin)
}

// Read samples the controller now. Most callers want Update once per frame
// plus Held/Pressed/Released instead.
func (p *Pad) Read() Buttons {
	// TH high: 0 C B R L D U
	p.bus.Write8(p.data, thPin)
	hi := p.bus.Read8(p.data)

	// TH low: 0 S A 0 0 D U
	p.bus.Write8(p.data, 0x00)
	lo := p.bus.Read8(p.data)

	// leave TH high for the next reader
	p.bus.Write8(p.data, thPin)

	var b Buttons
	if hi&0x01 == 0 {
		b |= Up
	}
	if hi&0x02 == 0 {
		b |= Down
	}
	if hi&0x04 == 0 {
		b |= Left
	}
	if hi&0x08 == 0 {
		b |= Right
	}
	if hi&0x10 == 0 {
		b |= B
	}
	if hi&0x20 == 0 {
		b |= C
	}
	if lo&0x10 == 0 {
		b |= A
	}
	if lo&0x20 == 0 {
		b |= Start
	}
	return b
}

// Update samples the controller and rolls the edge-tracking state. Call
// once per frame.
func (p *Pad) Update() {
	p.prev = p.curr
	p.curr = p.Read()
}

// Held returns the buttons down as of the last Update.
func (p *Pad) Held() Buttons {
	return p.curr
}

// Pressed returns the buttons that went down between the last two Updates.
func (p *Pad) Pressed() Buttons {
	return p.curr &^ p.prev
}

// Released returns the buttons that came up between the last two Updates.
func (p *Pad) Released() Buttons {
	return ^p.curr & p.prev
}

// IsOverseas reports whether the console is a non-Japanese model.
func IsOverseas(b bus.Bus) bool {
	return b.Read8(Version)&0x80 != 0
}

// IsPAL reports whether the console runs at 50Hz.
func IsPAL(b bus.Bus) bool {
	return b.Read8(Version)&0x40 != 0
}
