package machine

// Input holds the state of one controller port's 3-button pad.
type Input struct {
	Connected             bool
	Up, Down, Left, Right bool
	A, B, C               bool
	Start                 bool
}

// ioPorts models the controller and version registers. Each port combines
// pins driven by the program (through the data/ctrl registers) with pins
// driven by the pad, selected by the TH line.
type ioPorts struct {
	P1  Input
	P2  Input
	pal bool

	p1Data uint8
	p1Ctrl uint8
	p2Data uint8
	p2Ctrl uint8
}

func newIOPorts(pal bool) *ioPorts {
	return &ioPorts{
		P1:  Input{Connected: true},
		pal: pal,
	}
}

// ReadRegister reads an I/O register by address.
func (io *ioPorts) ReadRegister(addr uint32) uint8 {
	switch addr {
	case 0xA10001:
		// version: bit 7 overseas, bit 6 PAL, low bits hardware revision
		val := uint8(0x80)
		if io.pal {
			val |= 0x40
		}
		return val
	case 0xA10003:
		return readPort(io.P1, io.p1Data, io.p1Ctrl)
	case 0xA10005:
		return readPort(io.P2, io.p2Data, io.p2Ctrl)
	case 0xA10009:
		return io.p1Ctrl
	case 0xA1000B:
		return io.p2Ctrl
	default:
		return 0x00
	}
}

// WriteRegister writes an I/O register by address.
func (io *ioPorts) WriteRegister(addr uint32, val uint8) {
	switch addr {
	case 0xA10003:
		io.p1Data = val
	case 0xA10005:
		io.p2Data = val
	case 0xA10009:
		io.p1Ctrl = val
	case 0xA1000B:
		io.p2Ctrl = val
	}
}

// readPort combines output pins from the data register with input pins
// from the pad. Button lines are active low.
func readPort(in Input, data, ctrl uint8) uint8 {
	// empty port: all pins float high
	if !in.Connected {
		return (data & ctrl) | (0xFF &^ ctrl)
	}

	// TH level: driven from the data register when configured as an
	// output, pulled high otherwise
	th := true
	if ctrl&0x40 != 0 {
		th = data&0x40 != 0
	}

	peripheral := uint8(0xC0)
	if th {
		// TH=1: C, B, Right, Left, Down, Up
		peripheral |= 0x3F
		if in.Up {
			peripheral &^= 0x01
		}
		if in.Down {
			peripheral &^= 0x02
		}
		if in.Left {
			peripheral &^= 0x04
		}
		if in.Right {
			peripheral &^= 0x08
		}
		if in.B {
			peripheral &^= 0x10
		}
		if in.C {
			peripheral &^= 0x20
		}
	} else {
		// TH=0: Start, A, 0, 0, Down, Up
		peripheral |= 0x33
		if in.Up {
			peripheral &^= 0x01
		}
		if in.Down {
			peripheral &^= 0x02
		}
		if in.A {
			peripheral &^= 0x10
		}
		if in.Start {
			peripheral &^= 0x20
		}
	}

	return (data & ctrl) | (peripheral &^ ctrl)
}
