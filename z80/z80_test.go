package z80

import (
	"testing"

	"github.com/user-none/go-smd/bus"
)

func TestBusControl(t *testing.T) {
	r := bus.NewRecorder()
	c := New(r)

	c.RequestBus()
	c.ReleaseBus()
	c.ResetOn()
	c.ResetOff()

	want := []bus.Write{
		{Addr: BusReq, Val: 0x0100, Size: 16},
		{Addr: BusReq, Val: 0x0000, Size: 16},
		{Addr: Reset, Val: 0x0000, Size: 16},
		{Addr: Reset, Val: 0x0100, Size: 16},
	}
	if len(r.Writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(r.Writes))
	}
	for i := range want {
		if r.Writes[i] != want[i] {
			t.Errorf("write %d: got {0x%06X 0x%04X %d}, want {0x%06X 0x%04X %d}",
				i, r.Writes[i].Addr, r.Writes[i].Val, r.Writes[i].Size,
				want[i].Addr, want[i].Val, want[i].Size)
		}
	}
}

func TestRequestBus_PollsForGrant(t *testing.T) {
	r := bus.NewRecorder()
	// grant arrives on the third poll
	r.Seq[BusReq] = []uint16{0x0100, 0x0100, 0x0000}

	New(r).RequestBus()

	if len(r.Seq[BusReq]) != 0 {
		t.Errorf("returned with %d polls pending", len(r.Seq[BusReq]))
	}
}

func TestSendCommand_DataBeforeCommand(t *testing.T) {
	r := bus.NewRecorder()
	New(r).SendCommand(CmdPlayNote, 2, 4, 3)

	// bus request, 3 data bytes, command byte, bus release
	want := []bus.Write{
		{Addr: BusReq, Val: 0x0100, Size: 16},
		{Addr: DataAddr, Val: 2, Size: 8},
		{Addr: DataAddr + 1, Val: 4, Size: 8},
		{Addr: DataAddr + 2, Val: 3, Size: 8},
		{Addr: CmdAddr, Val: uint16(CmdPlayNote), Size: 8},
		{Addr: BusReq, Val: 0x0000, Size: 16},
	}
	if len(r.Writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(r.Writes))
	}
	for i := range want {
		if r.Writes[i] != want[i] {
			t.Errorf("write %d: got {0x%06X 0x%04X}, want {0x%06X 0x%04X}",
				i, r.Writes[i].Addr, r.Writes[i].Val, want[i].Addr, want[i].Val)
		}
	}
}

func TestInit_ResetSequence(t *testing.T) {
	r := bus.NewRecorder()
	New(r).Init()

	want := []bus.Write{
		{Addr: BusReq, Val: 0x0100, Size: 16},
		{Addr: Reset, Val: 0x0000, Size: 16},
		{Addr: CmdAddr, Val: 0x0000, Size: 8},
		{Addr: Reset, Val: 0x0100, Size: 16},
		{Addr: BusReq, Val: 0x0000, Size: 16},
	}
	if len(r.Writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(r.Writes))
	}
	for i := range want {
		if r.Writes[i] != want[i] {
			t.Errorf("write %d: got {0x%06X 0x%04X}, want {0x%06X 0x%04X}",
				i, r.Writes[i].Addr, r.Writes[i].Val, want[i].Addr, want[i].Val)
		}
	}
}

func TestLoadDriver(t *testing.T) {
	r := bus.NewRecorder()
	New(r).LoadDriver([]byte{0xF3, 0x18, 0xFE})

	// request, reset on, 3 RAM bytes, reset off, release
	if len(r.Writes) != 7 {
		t.Fatalf("expected 7 writes, got %d", len(r.Writes))
	}
	if r.Writes[2].Addr != RAM || r.Writes[2].Val != 0xF3 {
		t.Errorf("byte 0: got addr 0x%06X val 0x%02X", r.Writes[2].Addr, r.Writes[2].Val)
	}
	if r.Writes[4].Addr != RAM+2 || r.Writes[4].Val != 0xFE {
		t.Errorf("byte 2: got addr 0x%06X val 0x%02X", r.Writes[4].Addr, r.Writes[4].Val)
	}
	if r.Writes[5] != (bus.Write{Addr: Reset, Val: 0x0100, Size: 16}) {
		t.Errorf("reset off: got {0x%06X 0x%04X}", r.Writes[5].Addr, r.Writes[5].Val)
	}
}

func TestLoadDriver_Truncates(t *testing.T) {
	r := bus.NewRecorder()
	New(r).LoadDriver(make([]byte, RAMSize+100))

	// 4 control writes + one per RAM byte
	if len(r.Writes) != 4+RAMSize {
		t.Errorf("expected %d writes, got %d", 4+RAMSize, len(r.Writes))
	}
}

func TestDriverWrappers(t *testing.T) {
	tests := []struct {
		name string
		call func(*Ctl)
		cmd  uint8
		data [3]uint8
	}{
		{"play", func(c *Ctl) { c.PlayNote(0, 4, 4) }, CmdPlayNote, [3]uint8{0, 4, 4}},
		{"stop", func(c *Ctl) { c.StopNote(5) }, CmdStopNote, [3]uint8{5, 0, 0}},
		{"patch", func(c *Ctl) { c.SetPatch(1, 3) }, CmdSetPatch, [3]uint8{1, 3, 0}},
		{"tempo", func(c *Ctl) { c.SetTempo(120) }, CmdSetTempo, [3]uint8{120, 0, 0}},
		{"seq on", func(c *Ctl) { c.PlaySequence() }, CmdPlaySeq, [3]uint8{}},
		{"seq off", func(c *Ctl) { c.StopSequence() }, CmdStopSeq, [3]uint8{}},
	}

	for _, tt := range tests {
		r := bus.NewRecorder()
		tt.call(New(r))

		if got := uint8(r.Writes[4].Val); got != tt.cmd {
			t.Errorf("%s: command 0x%02X, want 0x%02X", tt.name, got, tt.cmd)
		}
		for i := 0; i < 3; i++ {
			if got := uint8(r.Writes[1+i].Val); got != tt.data[i] {
				t.Errorf("%s: data %d = 0x%02X, want 0x%02X", tt.name, i, got, tt.data[i])
			}
		}
	}
}
