package machine

import "math"

// fmSynth is the FM sound device. It decodes the full register map through
// the two address/data port pairs and synthesizes a playable approximation
// of the chip: sine operators, the 8 algorithms, operator feedback, ADSR
// envelopes and per-channel panning. It aims to sound right, not to be
// sample-exact.

// Envelope states.
const (
	egAttack = iota
	egDecay
	egSustain
	egRelease
)

// The busy flag holds for about 32 internal cycles after a data write.
const fmBusyDuration = 2

const (
	sineTableLen = 1024
	sineAmp      = 8191
)

var sineTable [sineTableLen]int16

// gainTable maps 10-bit attenuation to a linear gain, 2^(-att/64) scaled
// to 16 bits.
var gainTable [1024]uint16

func init() {
	for i := range sineTable {
		sineTable[i] = int16(math.Round(sineAmp * math.Sin(2*math.Pi*float64(i)/sineTableLen)))
	}
	for i := range gainTable {
		gainTable[i] = uint16(math.Round(65535 * math.Pow(2, -float64(i)/64)))
	}
}

type fmOperator struct {
	dt  uint8 // detune
	mul uint8 // frequency multiplier, 0 = x0.5
	tl  uint8 // total level
	rs  uint8 // rate scaling
	ar  uint8 // attack rate
	d1r uint8 // first decay rate
	d2r uint8 // second decay rate
	d1l uint8 // sustain level
	rr  uint8 // release rate

	phase    uint32 // 20-bit phase accumulator
	phaseInc uint32

	egState int
	egLevel uint16 // 10-bit attenuation, 0 loud, 0x3FF silent
	keyOn   bool

	prevOut [2]int16 // for feedback
	keyCode uint8
}

type fmChannel struct {
	op [4]fmOperator

	fNum  uint16
	block uint8

	algorithm uint8
	feedback  uint8
	panL      bool
	panR      bool
}

type fmSynth struct {
	sampleRate  int
	nativeClock int // clockHz / 144
	buffer      []int16

	ch        [6]fmChannel
	addrLatch [2]uint8

	dacEnable bool
	dacSample uint8

	lfoEnable bool
	lfoFreq   uint8

	egCounter uint16
	egClock   uint8

	cycleAccum  int
	resampAccum int
	sampleCount uint64
	busyUntil   uint64
}

func newFMSynth(clockHz, sampleRate int) *fmSynth {
	f := &fmSynth{
		sampleRate:  sampleRate,
		nativeClock: clockHz / 144,
		buffer:      make([]int16, 0, 2048),
		dacSample:   0x80,
	}
	for ch := range f.ch {
		f.ch[ch].panL = true
		f.ch[ch].panR = true
		for op := range f.ch[ch].op {
			f.ch[ch].op[op].egState = egRelease
			f.ch[ch].op[op].egLevel = 0x3FF
		}
	}
	return f
}

// ReadPort returns the status byte: bit 7 busy. Timers are not modeled, so
// the overflow flags stay clear.
func (f *fmSynth) ReadPort(port uint8) uint8 {
	if f.sampleCount < f.busyUntil {
		return 0x80
	}
	return 0
}

// WritePort accepts the four ports: 0/2 latch an address for part I/II,
// 1/3 write data to the latched register.
func (f *fmSynth) WritePort(port, val uint8) {
	switch port & 0x03 {
	case 0:
		f.addrLatch[0] = val
	case 1:
		f.writeRegister(0, f.addrLatch[0], val)
		f.busyUntil = f.sampleCount + fmBusyDuration
	case 2:
		f.addrLatch[1] = val
	case 3:
		f.writeRegister(1, f.addrLatch[1], val)
		f.busyUntil = f.sampleCount + fmBusyDuration
	}
}

func (f *fmSynth) writeRegister(part int, addr, val uint8) {
	switch {
	case addr < 0x20:
		// invalid range
	case addr < 0x30:
		if part == 0 {
			f.writeGlobalRegister(addr, val)
		}
	case addr < 0xA0:
		f.writeOperatorRegister(part, addr, val)
	default:
		f.writeChannelRegister(part, addr, val)
	}
}

func (f *fmSynth) writeGlobalRegister(addr, val uint8) {
	switch addr {
	case 0x22:
		f.lfoEnable = val&0x08 != 0
		f.lfoFreq = val & 0x07
	case 0x28:
		f.writeKeyOnOff(val)
	case 0x2A:
		f.dacSample = val
	case 0x2B:
		f.dacEnable = val&0x80 != 0
	}
}

// operatorOrder maps register slot bits to operator index: the register
// layout interleaves S2 and S3.
var operatorOrder = [4]int{0, 2, 1, 3}

func (f *fmSynth) writeOperatorRegister(part int, addr, val uint8) {
	chSlot := int(addr & 0x03)
	if chSlot == 3 {
		return
	}
	opIdx := operatorOrder[(addr>>2)&0x03]
	chIdx := chSlot + part*3
	op := &f.ch[chIdx].op[opIdx]

	switch addr & 0xF0 {
	case 0x30:
		op.dt = (val >> 4) & 0x07
		op.mul = val & 0x0F
		f.updatePhaseIncrement(chIdx, opIdx)
	case 0x40:
		op.tl = val & 0x7F
	case 0x50:
		op.rs = (val >> 6) & 0x03
		op.ar = val & 0x1F
	case 0x60:
		op.d1r = val & 0x1F
	case 0x70:
		op.d2r = val & 0x1F
	case 0x80:
		op.d1l = (val >> 4) & 0x0F
		op.rr = val & 0x0F
	}
}

func (f *fmSynth) writeChannelRegister(part int, addr, val uint8) {
	chSlot := int(addr & 0x03)
	if chSlot == 3 {
		return
	}
	chIdx := chSlot + part*3
	ch := &f.ch[chIdx]

	switch {
	case addr >= 0xA0 && addr <= 0xA2:
		// F-number low byte latches the frequency
		ch.fNum = (ch.fNum & 0x700) | uint16(val)
		f.updateChannelFrequency(chIdx)
	case addr >= 0xA4 && addr <= 0xA6:
		ch.block = (val >> 3) & 0x07
		ch.fNum = (ch.fNum & 0x0FF) | uint16(val&0x07)<<8
	case addr >= 0xB0 && addr <= 0xB2:
		ch.algorithm = val & 0x07
		ch.feedback = (val >> 3) & 0x07
	case addr >= 0xB4 && addr <= 0xB6:
		ch.panL = val&0x80 != 0
		ch.panR = val&0x40 != 0
	}
}

func (f *fmSynth) writeKeyOnOff(val uint8) {
	chLow := int(val & 0x03)
	if chLow >= 3 {
		return
	}
	chIdx := chLow
	if val&0x04 != 0 {
		chIdx += 3
	}

	ch := &f.ch[chIdx]
	for i := range ch.op {
		on := val&(0x10<<uint(i)) != 0
		op := &ch.op[i]
		if on && !op.keyOn {
			op.keyOn = true
			op.phase = 0
			op.egState = egAttack
			if f.effectiveRate(op.ar, op) >= 62 {
				op.egLevel = 0
				op.egState = egDecay
			}
		} else if !on && op.keyOn {
			op.keyOn = false
			op.egState = egRelease
		}
	}
}

func (f *fmSynth) effectiveRate(rate uint8, op *fmOperator) uint8 {
	if rate == 0 {
		return 0
	}
	r := int(2*rate) + int(op.keyCode>>(3-op.rs))
	if r > 63 {
		r = 63
	}
	return uint8(r)
}

func (f *fmSynth) updatePhaseIncrement(chIdx, opIdx int) {
	ch := &f.ch[chIdx]
	op := &ch.op[opIdx]

	inc := uint32(ch.fNum) << ch.block >> 1

	// coarse detune: a few cents scaled by pitch
	if op.dt&0x03 != 0 {
		det := uint32(op.dt&0x03) * uint32(op.keyCode>>2+1) / 2
		if op.dt&0x04 != 0 && det < inc {
			inc -= det
		} else if op.dt&0x04 == 0 {
			inc += det
		}
	}

	if op.mul == 0 {
		inc >>= 1
	} else {
		inc *= uint32(op.mul)
	}
	op.phaseInc = inc & 0xFFFFF
}

func (f *fmSynth) updateChannelFrequency(chIdx int) {
	ch := &f.ch[chIdx]
	kc := uint8(ch.block<<2) | uint8(ch.fNum>>9)&0x03
	for i := range ch.op {
		ch.op[i].keyCode = kc
		f.updatePhaseIncrement(chIdx, i)
	}
}

// egRateParams returns the update interval shift and step size for an
// effective rate. Higher rates step more often and by more.
func egRateParams(rate uint8) (shift uint8, inc uint16) {
	if rate == 0 {
		return 15, 0
	}
	s := int(11) - int(rate)/4
	if s < 0 {
		s = 0
	}
	return uint8(s), uint16(rate%4) + 1
}

func (f *fmSynth) stepEnvelopes() {
	for chIdx := range f.ch {
		ch := &f.ch[chIdx]
		for opIdx := range ch.op {
			op := &ch.op[opIdx]
			f.stepOperatorEnvelope(op)
		}
	}
}

func (f *fmSynth) stepOperatorEnvelope(op *fmOperator) {
	var rate uint8
	switch op.egState {
	case egAttack:
		rate = op.ar
	case egDecay:
		rate = op.d1r
	case egSustain:
		rate = op.d2r
	case egRelease:
		rate = op.rr<<1 | 1 // 4-bit release maps to odd 5-bit rates
	}

	eff := f.effectiveRate(rate, op)
	shift, inc := egRateParams(eff)
	if inc == 0 || f.egCounter&(1<<shift-1) != 0 {
		return
	}

	switch op.egState {
	case egAttack:
		// exponential approach to zero attenuation
		op.egLevel -= (op.egLevel*inc)>>4 + 1
		if op.egLevel == 0 || op.egLevel > 0x3FF {
			op.egLevel = 0
			op.egState = egDecay
		}
	case egDecay:
		op.egLevel += inc
		if op.egLevel >= uint16(op.d1l)<<5 {
			op.egLevel = uint16(op.d1l) << 5
			op.egState = egSustain
		}
	case egSustain, egRelease:
		op.egLevel += inc
		if op.egLevel > 0x3FF {
			op.egLevel = 0x3FF
		}
	}
}

// operatorOutput computes one operator sample with the given phase
// modulation input.
func operatorOutput(op *fmOperator, mod int32) int16 {
	idx := (int32(op.phase>>10) + mod) & (sineTableLen - 1)
	s := int32(sineTable[idx])

	att := uint32(op.egLevel) + uint32(op.tl)<<3
	if att > 1023 {
		att = 1023
	}
	return int16(s * int32(gainTable[att]) >> 16)
}

// evaluateChannel produces one stereo sample for a channel by running its
// four operators through the channel algorithm.
func (f *fmSynth) evaluateChannel(chIdx int) (left, right int32) {
	ch := &f.ch[chIdx]

	// operator 0 feeds back on itself
	var fbMod int32
	if ch.feedback > 0 {
		fbMod = (int32(ch.op[0].prevOut[0]) + int32(ch.op[0].prevOut[1])) >> (10 - ch.feedback)
	}

	var out [4]int16
	out[0] = operatorOutput(&ch.op[0], fbMod)
	ch.op[0].prevOut[1] = ch.op[0].prevOut[0]
	ch.op[0].prevOut[0] = out[0]

	// phase modulation input scales the modulator to table index units
	pm := func(v int16) int32 { return int32(v) >> 3 }

	var sum int32
	switch ch.algorithm {
	case 0: // 0 -> 1 -> 2 -> 3
		out[1] = operatorOutput(&ch.op[1], pm(out[0]))
		out[2] = operatorOutput(&ch.op[2], pm(out[1]))
		out[3] = operatorOutput(&ch.op[3], pm(out[2]))
		sum = int32(out[3])
	case 1: // (0 + 1) -> 2 -> 3
		out[1] = operatorOutput(&ch.op[1], 0)
		out[2] = operatorOutput(&ch.op[2], pm(out[0])+pm(out[1]))
		out[3] = operatorOutput(&ch.op[3], pm(out[2]))
		sum = int32(out[3])
	case 2: // 0 + (1 -> 2) -> 3
		out[1] = operatorOutput(&ch.op[1], 0)
		out[2] = operatorOutput(&ch.op[2], pm(out[1]))
		out[3] = operatorOutput(&ch.op[3], pm(out[0])+pm(out[2]))
		sum = int32(out[3])
	case 3: // (0 -> 1) + 2 -> 3
		out[1] = operatorOutput(&ch.op[1], pm(out[0]))
		out[2] = operatorOutput(&ch.op[2], 0)
		out[3] = operatorOutput(&ch.op[3], pm(out[1])+pm(out[2]))
		sum = int32(out[3])
	case 4: // (0 -> 1) + (2 -> 3)
		out[1] = operatorOutput(&ch.op[1], pm(out[0]))
		out[3] = operatorOutput(&ch.op[3], pm(operatorOutput(&ch.op[2], 0)))
		sum = int32(out[1]) + int32(out[3])
	case 5: // 0 -> (1 + 2 + 3)
		out[1] = operatorOutput(&ch.op[1], pm(out[0]))
		out[2] = operatorOutput(&ch.op[2], pm(out[0]))
		out[3] = operatorOutput(&ch.op[3], pm(out[0]))
		sum = int32(out[1]) + int32(out[2]) + int32(out[3])
	case 6: // (0 -> 1) + 2 + 3
		out[1] = operatorOutput(&ch.op[1], pm(out[0]))
		out[2] = operatorOutput(&ch.op[2], 0)
		out[3] = operatorOutput(&ch.op[3], 0)
		sum = int32(out[1]) + int32(out[2]) + int32(out[3])
	default: // 7: all parallel
		out[1] = operatorOutput(&ch.op[1], 0)
		out[2] = operatorOutput(&ch.op[2], 0)
		out[3] = operatorOutput(&ch.op[3], 0)
		sum = int32(out[0]) + int32(out[1]) + int32(out[2]) + int32(out[3])
	}

	// DAC replaces channel 5 output
	if chIdx == 5 && f.dacEnable {
		sum = (int32(f.dacSample) - 128) << 6
	}

	for i := range ch.op {
		op := &ch.op[i]
		op.phase = (op.phase + op.phaseInc) & 0xFFFFF
	}

	if ch.panL {
		left = sum
	}
	if ch.panR {
		right = sum
	}
	return left, right
}

// GenerateSamples advances the synthesizer by the given number of main CPU
// cycles, appending stereo output resampled to the output rate.
func (f *fmSynth) GenerateSamples(cycles int) {
	f.cycleAccum += cycles

	for f.cycleAccum >= 144 {
		f.cycleAccum -= 144
		f.sampleCount++

		f.egClock++
		if f.egClock >= 3 {
			f.egClock = 0
			f.egCounter++
			if f.egCounter >= 4096 {
				f.egCounter = 1
			}
			f.stepEnvelopes()
		}

		var left, right int32
		for ch := 0; ch < 6; ch++ {
			l, r := f.evaluateChannel(ch)
			left += l
			right += r
		}

		// headroom for PSG mixing
		left = clampInt32(left>>1, -32768, 32767)
		right = clampInt32(right>>1, -32768, 32767)

		// Bresenham resample from the native ~53kHz rate
		f.resampAccum += f.sampleRate
		if f.resampAccum >= f.nativeClock {
			f.resampAccum -= f.nativeClock
			f.buffer = append(f.buffer, int16(left), int16(right))
		}
	}
}

// GetBuffer returns accumulated stereo samples and resets the buffer.
func (f *fmSynth) GetBuffer() []int16 {
	out := f.buffer
	f.buffer = f.buffer[:0]
	return out
}
