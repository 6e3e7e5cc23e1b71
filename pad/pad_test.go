package pad

import (
	"testing"

	"github.com/user-none/go-smd/bus"
)

// queue sets up the recorder to answer the TH-high then TH-low reads.
func queue(r *bus.Recorder, hi, lo uint8) {
	r.Seq[Data1] = append(r.Seq[Data1], uint16(hi), uint16(lo))
}

func TestInit(t *testing.T) {
	r := bus.NewRecorder()
	New(r, 0).Init()

	if len(r.Writes) != 1 {
		t.Fatalf("expected 1 write, got %d", len(r.Writes))
	}
	if r.Writes[0].Addr != Ctrl1 || r.Writes[0].Val != 0x40 {
		t.Errorf("got addr 0x%06X val 0x%02X", r.Writes[0].Addr, r.Writes[0].Val)
	}
}

func TestRead_NothingPressed(t *testing.T) {
	r := bus.NewRecorder()
	queue(r, 0x3F, 0x33)

	if got := New(r, 0).Read(); got != 0 {
		t.Errorf("got 0x%04X, want 0", got)
	}
}

func TestRead_ButtonMapping(t *testing.T) {
	tests := []struct {
		name string
		hi   uint8
		lo   uint8
		want Buttons
	}{
		{"up", 0x3E, 0x32, Up},
		{"down", 0x3D, 0x31, Down},
		{"left", 0x3B, 0x33, Left},
		{"right", 0x37, 0x33, Right},
		{"b", 0x2F, 0x33, B},
		{"c", 0x1F, 0x33, C},
		{"a", 0x3F, 0x23, A},
		{"start", 0x3F, 0x13, Start},
		{"up+a", 0x3E, 0x22, Up | A},
		{"all", 0x00, 0x00, Up | Down | Left | Right | A | B | C | Start},
	}

	for _, tt := range tests {
		r := bus.NewRecorder()
		queue(r, tt.hi, tt.lo)

		if got := New(r, 0).Read(); got != tt.want {
			t.Errorf("%s: got 0x%04X, want 0x%04X", tt.name, got, tt.want)
		}
	}
}

func TestRead_THSequence(t *testing.T) {
	r := bus.NewRecorder()
	queue(r, 0x3F, 0x33)
	New(r, 0).Read()

	// TH high, TH low, TH restored high
	want := []uint16{0x40, 0x00, 0x40}
	if len(r.Writes) != len(want) {
		t.Fatalf("expected %d writes, got %d", len(want), len(r.Writes))
	}
	for i, w := range r.Writes {
		if w.Addr != Data1 {
			t.Errorf("write %d went to 0x%06X, want data port", i, w.Addr)
		}
		if w.Val != want[i] {
			t.Errorf("write %d: got 0x%02X, want 0x%02X", i, w.Val, want[i])
		}
	}
}

func TestSecondPort(t *testing.T) {
	r := bus.NewRecorder()
	p := New(r, 1)
	p.Init()

	if r.Writes[0].Addr != Ctrl2 {
		t.Errorf("init went to 0x%06X, want 0x%06X", r.Writes[0].Addr, Ctrl2)
	}

	r.Reset()
	r.Seq[Data2] = []uint16{0x3E, 0x32}
	if got := p.Read(); got != Up {
		t.Errorf("got 0x%04X, want Up", got)
	}
}

func TestEdgeTracking(t *testing.T) {
	r := bus.NewRecorder()
	p := New(r, 0)

	// frame 1: A goes down
	queue(r, 0x3F, 0x23)
	p.Update()
	if p.Held() != A || p.Pressed() != A || p.Released() != 0 {
		t.Errorf("frame 1: held 0x%04X pressed 0x%04X released 0x%04X",
			p.Held(), p.Pressed(), p.Released())
	}

	// frame 2: A still down
	queue(r, 0x3F, 0x23)
	p.Update()
	if p.Held() != A || p.Pressed() != 0 || p.Released() != 0 {
		t.Errorf("frame 2: held 0x%04X pressed 0x%04X released 0x%04X",
			p.Held(), p.Pressed(), p.Released())
	}

	// frame 3: A up
	queue(r, 0x3F, 0x33)
	p.Update()
	if p.Held() != 0 || p.Pressed() != 0 || p.Released() != A {
		t.Errorf("frame 3: held 0x%04X pressed 0x%04X released 0x%04X",
			p.Held(), p.Pressed(), p.Released())
	}
}

func TestVersionFlags(t *testing.T) {
	r := bus.NewRecorder()

	r.Reads[Version] = 0x80
	if !IsOverseas(r) || IsPAL(r) {
		t.Error("0x80: want overseas NTSC")
	}

	r.Reads[Version] = 0xC0
	if !IsOverseas(r) || !IsPAL(r) {
		t.Error("0xC0: want overseas PAL")
	}

	r.Reads[Version] = 0x00
	if IsOverseas(r) || IsPAL(r) {
		t.Error("0x00: want domestic NTSC")
	}
}
