package sprite

import (
	"testing"

	"github.com/user-none/go-smd/bus"
	"github.com/user-none/go-smd/vdp"
)

func TestSize(t *testing.T) {
	tests := []struct {
		size Size
		w, h int
	}{
		{Size1x1, 8, 8},
		{Size1x4, 8, 32},
		{Size2x2, 16, 16},
		{Size4x1, 32, 8},
		{Size4x4, 32, 32},
	}

	for _, tt := range tests {
		if got := tt.size.Width(); got != tt.w {
			t.Errorf("size 0x%02X width: got %d, want %d", uint8(tt.size), got, tt.w)
		}
		if got := tt.size.Height(); got != tt.h {
			t.Errorf("size 0x%02X height: got %d, want %d", uint8(tt.size), got, tt.h)
		}
	}
}

func TestSet(t *testing.T) {
	r := bus.NewRecorder()
	tab := New(vdp.New(r))

	tab.Set(2, Sprite{X: 100, Y: 50, Size: Size2x2, Tile: 6, Attr: vdp.AttrPal1})

	// entry 2 lives at 0xF010: address setup + 4 data words
	if len(r.Writes) != 6 {
		t.Fatalf("expected 6 writes, got %d", len(r.Writes))
	}
	if r.Writes[0].Val != 0x7010 || r.Writes[1].Val != 0x0003 {
		t.Errorf("addr setup: got 0x%04X 0x%04X", r.Writes[0].Val, r.Writes[1].Val)
	}
	want := []uint16{
		50 + 128,   // Y
		0x0500 | 3, // size 2x2, link to entry 3
		0x2006,     // palette 1, tile 6
		100 + 128,  // X
	}
	for i, w := range want {
		got := r.Writes[2+i].Val
		if got != w {
			t.Errorf("word %d: got 0x%04X, want 0x%04X", i, got, w)
		}
		if r.Writes[2+i].Addr != vdp.DataPort {
			t.Errorf("word %d went to 0x%06X", i, r.Writes[2+i].Addr)
		}
	}
}

func TestSet_LastEntryLinksToZero(t *testing.T) {
	r := bus.NewRecorder()
	tab := New(vdp.New(r))

	tab.Set(Max-1, Sprite{Size: Size1x1})

	// link word is the second data write
	if got := r.Writes[3].Val; got != 0x0000 {
		t.Errorf("link: got 0x%04X, want 0x0000", got)
	}
}

func TestSetPos(t *testing.T) {
	r := bus.NewRecorder()
	tab := New(vdp.New(r))

	tab.SetPos(0, -16, 8)

	// two address setups with one data word each
	if len(r.Writes) != 6 {
		t.Fatalf("expected 6 writes, got %d", len(r.Writes))
	}
	if r.Writes[2].Val != 8+128 {
		t.Errorf("Y: got %d, want %d", r.Writes[2].Val, 8+128)
	}
	// X word lives at entry offset 6
	if r.Writes[3].Val != 0x7006 {
		t.Errorf("X addr setup: got 0x%04X, want 0x7006", r.Writes[3].Val)
	}
	if r.Writes[5].Val != uint16(-16+128) {
		t.Errorf("X: got %d, want %d", r.Writes[5].Val, -16+128)
	}
}

func TestClear_PreservesLink(t *testing.T) {
	r := bus.NewRecorder()
	tab := New(vdp.New(r))

	tab.Clear(5)

	if len(r.Writes) != 6 {
		t.Fatalf("expected 6 writes, got %d", len(r.Writes))
	}
	if got := r.Writes[3].Val; got != 6 {
		t.Errorf("link: got %d, want 6", got)
	}
}

func TestClearAll_WriteCount(t *testing.T) {
	r := bus.NewRecorder()
	New(vdp.New(r)).ClearAll()

	// per entry: 2 address words + 4 data words
	if len(r.Writes) != Max*6 {
		t.Errorf("expected %d writes, got %d", Max*6, len(r.Writes))
	}
}

func TestHide(t *testing.T) {
	r := bus.NewRecorder()
	New(vdp.New(r)).Hide(1)

	if len(r.Writes) != 3 {
		t.Fatalf("expected 3 writes, got %d", len(r.Writes))
	}
	if r.Writes[2].Val != 0 {
		t.Errorf("Y: got %d, want 0", r.Writes[2].Val)
	}
}
