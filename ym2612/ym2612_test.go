package ym2612

import (
	"testing"

	"github.com/user-none/go-smd/bus"
)

// regWrite is one decoded register write: which bank it went through, the
// register address byte and the data byte.
type regWrite struct {
	bank uint32 // AddrPortA or AddrPortB
	reg  uint8
	val  uint8
}

// decode pairs up the raw bus stores into register writes. Every register
// write must be an address-port store followed by the matching data-port
// store.
func decode(t *testing.T, r *bus.Recorder) []regWrite {
	t.Helper()

	if len(r.Writes)%2 != 0 {
		t.Fatalf("odd number of port stores: %d", len(r.Writes))
	}

	var out []regWrite
	for i := 0; i < len(r.Writes); i += 2 {
		a, d := r.Writes[i], r.Writes[i+1]
		if a.Addr != AddrPortA && a.Addr != AddrPortB {
			t.Fatalf("store %d: expected address port, got 0x%06X", i, a.Addr)
		}
		if d.Addr != a.Addr+1 {
			t.Fatalf("store %d: data port 0x%06X does not match address port 0x%06X",
				i+1, d.Addr, a.Addr)
		}
		out = append(out, regWrite{bank: a.Addr, reg: uint8(a.Val), val: uint8(d.Val)})
	}
	return out
}

// --- Frequency tests ---

func TestSetFreq_BankA(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// C4 on channel 0
	fm.SetFreq(0, 4, 644)

	w := decode(t, r)
	if len(w) != 2 {
		t.Fatalf("expected 2 register writes, got %d", len(w))
	}
	if w[0] != (regWrite{AddrPortA, 0xA4, 0x22}) {
		t.Errorf("high byte: got bank 0x%06X reg 0x%02X val 0x%02X", w[0].bank, w[0].reg, w[0].val)
	}
	if w[1] != (regWrite{AddrPortA, 0xA0, 0x84}) {
		t.Errorf("low byte: got bank 0x%06X reg 0x%02X val 0x%02X", w[1].bank, w[1].reg, w[1].val)
	}
}

func TestSetFreq_BankB(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// A4 on channel 4: local index 1, bank B
	fm.SetFreq(4, 4, 1081)

	w := decode(t, r)
	if len(w) != 2 {
		t.Fatalf("expected 2 register writes, got %d", len(w))
	}
	if w[0] != (regWrite{AddrPortB, 0xA5, 0x24}) {
		t.Errorf("high byte: got bank 0x%06X reg 0x%02X val 0x%02X", w[0].bank, w[0].reg, w[0].val)
	}
	if w[1] != (regWrite{AddrPortB, 0xA1, 0x39}) {
		t.Errorf("low byte: got bank 0x%06X reg 0x%02X val 0x%02X", w[1].bank, w[1].reg, w[1].val)
	}
}

func TestSetFreq_MaxBlockAndFnum(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	fm.SetFreq(0, 7, 2047)

	w := decode(t, r)
	if w[0].val != 0x3F {
		t.Errorf("high byte: got 0x%02X, want 0x3F", w[0].val)
	}
	if w[1].val != 0xFF {
		t.Errorf("low byte: got 0x%02X, want 0xFF", w[1].val)
	}
}

func TestSetFreq_HighByteFirst(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	for ch := 0; ch < 6; ch++ {
		r.Reset()
		fm.SetFreq(ch, 3, 0x2FF)
		w := decode(t, r)
		if w[0].reg&0xFC != uint8(FreqHi) {
			t.Errorf("ch %d: first write went to reg 0x%02X, want FREQ_HI group", ch, w[0].reg)
		}
		if w[1].reg&0xFC != uint8(FreqLo) {
			t.Errorf("ch %d: second write went to reg 0x%02X, want FREQ_LO group", ch, w[1].reg)
		}
	}
}

// --- Key on/off tests ---

func TestKeyOnOff_ChannelBits(t *testing.T) {
	tests := []struct {
		ch   int
		bits uint8
	}{
		{0, 0x00}, {1, 0x01}, {2, 0x02},
		{3, 0x04}, {4, 0x05}, {5, 0x06},
	}

	for _, tt := range tests {
		r := bus.NewRecorder()
		fm := New(r)

		fm.KeyOn(tt.ch)
		fm.KeyOff(tt.ch)

		w := decode(t, r)
		if len(w) != 2 {
			t.Fatalf("ch %d: expected 2 register writes, got %d", tt.ch, len(w))
		}
		on := regWrite{AddrPortA, RegKeyOnOff, 0xF0 | tt.bits}
		off := regWrite{AddrPortA, RegKeyOnOff, tt.bits}
		if w[0] != on {
			t.Errorf("ch %d key on: got reg 0x%02X val 0x%02X", tt.ch, w[0].reg, w[0].val)
		}
		if w[1] != off {
			t.Errorf("ch %d key off: got reg 0x%02X val 0x%02X", tt.ch, w[1].reg, w[1].val)
		}
	}
}

func TestKeyOn_BankBChannelUsesPortA(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// Key on/off is a global register: always bank A even for channel 5
	fm.KeyOn(5)

	w := decode(t, r)
	if w[0] != (regWrite{AddrPortA, 0x28, 0xF6}) {
		t.Errorf("got bank 0x%06X reg 0x%02X val 0x%02X", w[0].bank, w[0].reg, w[0].val)
	}
}

// --- Channel register tests ---

func TestSetAlgorithm(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	fm.SetAlgorithm(3, 5, 7)

	w := decode(t, r)
	if w[0] != (regWrite{AddrPortB, 0xB0, 0x3D}) {
		t.Errorf("got bank 0x%06X reg 0x%02X val 0x%02X", w[0].bank, w[0].reg, w[0].val)
	}
}

func TestSetAlgorithm_MasksFields(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// Out-of-range values keep only the low 3 bits of each field
	fm.SetAlgorithm(0, 0xFF, 0xFF)

	w := decode(t, r)
	if w[0].val != 0x3F {
		t.Errorf("got 0x%02X, want 0x3F", w[0].val)
	}
}

func TestSetStereo(t *testing.T) {
	tests := []struct {
		left, right bool
		want        uint8
	}{
		{true, true, 0xC0},
		{true, false, 0x80},
		{false, true, 0x40},
		{false, false, 0x00},
	}

	for _, tt := range tests {
		r := bus.NewRecorder()
		fm := New(r)

		fm.SetStereo(1, tt.left, tt.right)

		w := decode(t, r)
		if w[0] != (regWrite{AddrPortA, 0xB5, tt.want}) {
			t.Errorf("L=%v R=%v: got reg 0x%02X val 0x%02X, want val 0x%02X",
				tt.left, tt.right, w[0].reg, w[0].val, tt.want)
		}
	}
}

// --- Operator register tests ---

func TestWriteOperator_BankB(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// Channel 3 op 2: local 0, operator offset 4
	fm.WriteOperator(3, 2, TL, 0x10)

	w := decode(t, r)
	if w[0] != (regWrite{AddrPortB, 0x44, 0x10}) {
		t.Errorf("got bank 0x%06X reg 0x%02X val 0x%02X", w[0].bank, w[0].reg, w[0].val)
	}
}

func TestWriteOperator_OffsetMapping(t *testing.T) {
	// The chip interleaves operators: 0,1,2,3 map to offsets 0,8,4,12
	wantReg := [4]uint8{0x40, 0x48, 0x44, 0x4C}

	for op := 0; op < 4; op++ {
		r := bus.NewRecorder()
		fm := New(r)

		fm.WriteOperator(0, op, TL, 0x7F)

		w := decode(t, r)
		if w[0].reg != wantReg[op] {
			t.Errorf("op %d: got reg 0x%02X, want 0x%02X", op, w[0].reg, wantReg[op])
		}
	}
}

func TestWriteOperator_LocalIndex(t *testing.T) {
	// Same operator on each channel: register differs by local index only
	for ch := 0; ch < 6; ch++ {
		r := bus.NewRecorder()
		fm := New(r)

		fm.WriteOperator(ch, 0, DTMul, 0x01)

		w := decode(t, r)
		wantReg := uint8(DTMul) + uint8(ch%3)
		if w[0].reg != wantReg {
			t.Errorf("ch %d: got reg 0x%02X, want 0x%02X", ch, w[0].reg, wantReg)
		}
		wantBank := AddrPortA
		if ch >= 3 {
			wantBank = AddrPortB
		}
		if w[0].bank != wantBank {
			t.Errorf("ch %d: got bank 0x%06X, want 0x%06X", ch, w[0].bank, wantBank)
		}
	}
}

// --- Global register tests ---

func TestWriteGlobal_AlwaysBankA(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	fm.WriteGlobal(RegDACEnable, 0x80)
	fm.WriteGlobal(RegLFO, 0x08)

	for _, w := range decode(t, r) {
		if w.bank != AddrPortA {
			t.Errorf("global reg 0x%02X went through bank 0x%06X", w.reg, w.bank)
		}
	}
}

// --- Init sequence ---

func TestInit_Sequence(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	fm.Init()

	want := []regWrite{
		{AddrPortA, RegLFO, 0x00},
		{AddrPortA, RegTimerCtrl, 0x00},
		{AddrPortA, RegDACEnable, 0x00},
		{AddrPortA, RegKeyOnOff, 0x00},
		{AddrPortA, RegKeyOnOff, 0x01},
		{AddrPortA, RegKeyOnOff, 0x02},
		{AddrPortA, RegKeyOnOff, 0x04},
		{AddrPortA, RegKeyOnOff, 0x05},
		{AddrPortA, RegKeyOnOff, 0x06},
	}

	w := decode(t, r)
	if len(w) != len(want) {
		t.Fatalf("expected %d register writes, got %d", len(want), len(w))
	}
	for i := range want {
		if w[i] != want[i] {
			t.Errorf("write %d: got reg 0x%02X val 0x%02X, want reg 0x%02X val 0x%02X",
				i, w[i].reg, w[i].val, want[i].reg, want[i].val)
		}
	}
}

// --- Channel index masking ---

func TestChannelIndexWraps(t *testing.T) {
	ra := bus.NewRecorder()
	rb := bus.NewRecorder()

	New(ra).SetFreq(6, 4, 644)
	New(rb).SetFreq(0, 4, 644)

	wa, wb := decode(t, ra), decode(t, rb)
	for i := range wa {
		if wa[i] != wb[i] {
			t.Errorf("write %d: ch 6 and ch 0 differ", i)
		}
	}
}

// --- Busy flag handling ---

func TestBusyWait_PollsUntilReady(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// Chip reports permanently busy: the wait must give up after the spin
	// limit and still perform the write.
	r.Reads[AddrPortA] = StatusBusy
	fm.KeyOn(0)

	w := decode(t, r)
	if len(w) != 1 {
		t.Fatalf("expected the write to land despite busy flag, got %d writes", len(w))
	}
}

func TestReadStatus(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	r.Reads[AddrPortA] = 0x83
	if got := fm.ReadStatus(); got != 0x83 {
		t.Errorf("got 0x%02X, want 0x83", got)
	}
	if len(r.Writes) != 0 {
		t.Error("status read must not store to the bus")
	}
}

// --- Note helpers ---

func TestPlayNote(t *testing.T) {
	r := bus.NewRecorder()
	fm := New(r)

	// E in block 4 on channel 2, then key on
	fm.PlayNote(2, 4, 4)

	w := decode(t, r)
	if len(w) != 3 {
		t.Fatalf("expected 3 register writes, got %d", len(w))
	}
	if w[0] != (regWrite{AddrPortA, 0xA6, 0x23}) {
		t.Errorf("high byte: got reg 0x%02X val 0x%02X", w[0].reg, w[0].val)
	}
	if w[1] != (regWrite{AddrPortA, 0xA2, 0x2B}) {
		t.Errorf("low byte: got reg 0x%02X val 0x%02X", w[1].reg, w[1].val)
	}
	if w[2] != (regWrite{AddrPortA, RegKeyOnOff, 0xF2}) {
		t.Errorf("key on: got reg 0x%02X val 0x%02X", w[2].reg, w[2].val)
	}
}
