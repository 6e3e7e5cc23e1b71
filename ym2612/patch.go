package ym2612

// FM algorithms with a recognizable character.
const (
	AlgoSerial     uint8 = 0 // serial modulation chain, warm bass and bells
	AlgoPiano      uint8 = 4 // two parallel pairs, piano-like
	AlgoDistortion uint8 = 5 // one modulator into three carriers
	AlgoOrgan      uint8 = 7 // four parallel carriers, additive
)

// Operator holds the raw register values for one operator, one byte per
// register group.
type Operator struct {
	DTMul uint8 // detune + multiply
	TL    uint8 // total level, 0 loudest, 0x7F off
	RSAR  uint8 // rate scale + attack rate
	AMD1R uint8 // AM enable + first decay rate
	D2R   uint8 // second decay rate
	D1LRR uint8 // sustain level + release rate
	SSGEG uint8 // SSG-EG mode, normally 0
}

// Patch is a complete channel voice as pure data. Loading one is a fixed
// walk over the operator register groups, so every patch costs the same
// 30 register writes.
type Patch struct {
	Name      string
	Algorithm uint8
	Feedback  uint8
	Left      bool
	Right     bool
	Ops       [4]Operator
}

// opGroups is the load order for the per-operator registers.
var opGroups = [7]OpGroup{DTMul, TL, RSAR, AMD1R, D2R, D1LRR, SSGEG}

func (o *Operator) value(g OpGroup) uint8 {
	switch g {
	case DTMul:
		return o.DTMul
	case TL:
		return o.TL
	case RSAR:
		return o.RSAR
	case AMD1R:
		return o.AMD1R
	case D2R:
		return o.D2R
	case D1LRR:
		return o.D1LRR
	default:
		return o.SSGEG
	}
}

// LoadPatch programs the channel with the given voice: 7 register groups for
// each of the 4 operators, then algorithm/feedback, then panning. It does
// not key the channel on.
func (c *Chip) LoadPatch(ch int, p *Patch) {
	for op := range p.Ops {
		o := &p.Ops[op]
		for _, g := range opGroups {
			c.WriteOperator(ch, op, g, o.value(g))
		}
	}
	c.SetAlgorithm(ch, p.Algorithm, p.Feedback)
	c.SetStereo(ch, p.Left, p.Right)
}

// Patches returns the built-in instrument catalog.
func Patches() []*Patch {
	return []*Patch{
		&DistGuitar, &SynthBass, &Organ, &EPiano,
		&Strings, &Brass, &SynthLead,
	}
}

// DistGuitar is a heavy distorted guitar, algorithm 5 with maximum feedback.
var DistGuitar = Patch{
	Name:      "Dist Guitar",
	Algorithm: AlgoDistortion,
	Feedback:  7,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x71, TL: 0x1A, RSAR: 0x1F, AMD1R: 0x0D, D2R: 0x02, D1LRR: 0x2A},
		{DTMul: 0x01, TL: 0x12, RSAR: 0x1F, AMD1R: 0x0A, D2R: 0x02, D1LRR: 0x2A},
		{DTMul: 0x32, TL: 0x1C, RSAR: 0x1F, AMD1R: 0x0A, D2R: 0x02, D1LRR: 0x2A},
		{DTMul: 0x01, TL: 0x14, RSAR: 0x1F, AMD1R: 0x0A, D2R: 0x02, D1LRR: 0x2A},
	},
}

// SynthBass is a deep punchy bass on the serial algorithm. Operator 2 is
// silenced.
var SynthBass = Patch{
	Name:      "Synth Bass",
	Algorithm: AlgoSerial,
	Feedback:  5,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x01, TL: 0x20, RSAR: 0x1F, AMD1R: 0x08, D2R: 0x04, D1LRR: 0x1A},
		{DTMul: 0x02, TL: 0x28, RSAR: 0x1F, AMD1R: 0x0A, D2R: 0x05, D1LRR: 0x18},
		{TL: 0x7F},
		{DTMul: 0x01, TL: 0x08, RSAR: 0x1F, AMD1R: 0x06, D2R: 0x03, D1LRR: 0x1C},
	},
}

// Organ stacks four parallel carriers at multiples 1, 2, 3 and 4.
var Organ = Patch{
	Name:      "Organ",
	Algorithm: AlgoOrgan,
	Feedback:  0,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x01, TL: 0x20, RSAR: 0x1F, D1LRR: 0x0F},
		{DTMul: 0x02, TL: 0x24, RSAR: 0x1F, D1LRR: 0x0F},
		{DTMul: 0x03, TL: 0x28, RSAR: 0x1F, D1LRR: 0x0F},
		{DTMul: 0x04, TL: 0x2C, RSAR: 0x1F, D1LRR: 0x0F},
	},
}

// EPiano is an electric piano with a detuned tine operator.
var EPiano = Patch{
	Name:      "E.Piano",
	Algorithm: AlgoPiano,
	Feedback:  3,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x01, TL: 0x27, RSAR: 0x1F, AMD1R: 0x0A, D2R: 0x04, D1LRR: 0x26},
		{DTMul: 0x0E, TL: 0x1E, RSAR: 0x1F, AMD1R: 0x0C, D2R: 0x05, D1LRR: 0x26},
		{DTMul: 0x01, TL: 0x18, RSAR: 0x1F, AMD1R: 0x08, D2R: 0x04, D1LRR: 0x26},
		{DTMul: 0x01, TL: 0x14, RSAR: 0x1F, AMD1R: 0x08, D2R: 0x04, D1LRR: 0x26},
	},
}

// Strings is a slow-attack pad.
var Strings = Patch{
	Name:      "Strings",
	Algorithm: 2,
	Feedback:  4,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x01, TL: 0x22, RSAR: 0x10, AMD1R: 0x02, D2R: 0x01, D1LRR: 0x14},
		{DTMul: 0x02, TL: 0x26, RSAR: 0x12, AMD1R: 0x02, D2R: 0x01, D1LRR: 0x14},
		{DTMul: 0x01, TL: 0x1C, RSAR: 0x10, AMD1R: 0x02, D2R: 0x01, D1LRR: 0x14},
		{DTMul: 0x01, TL: 0x18, RSAR: 0x0E, AMD1R: 0x02, D2R: 0x01, D1LRR: 0x14},
	},
}

// Brass is a bright brass section.
var Brass = Patch{
	Name:      "Brass",
	Algorithm: 2,
	Feedback:  5,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x01, TL: 0x1E, RSAR: 0x18, AMD1R: 0x06, D2R: 0x03, D1LRR: 0x1A},
		{DTMul: 0x01, TL: 0x22, RSAR: 0x18, AMD1R: 0x06, D2R: 0x03, D1LRR: 0x1A},
		{DTMul: 0x01, TL: 0x14, RSAR: 0x1A, AMD1R: 0x05, D2R: 0x03, D1LRR: 0x1A},
		{DTMul: 0x01, TL: 0x10, RSAR: 0x1A, AMD1R: 0x05, D2R: 0x03, D1LRR: 0x1A},
	},
}

// SynthLead is a cutting detuned lead.
var SynthLead = Patch{
	Name:      "Synth Lead",
	Algorithm: AlgoDistortion,
	Feedback:  6,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{DTMul: 0x31, TL: 0x1C, RSAR: 0x1F, AMD1R: 0x08, D2R: 0x02, D1LRR: 0x1F},
		{DTMul: 0x01, TL: 0x14, RSAR: 0x1F, AMD1R: 0x06, D2R: 0x02, D1LRR: 0x1F},
		{DTMul: 0x02, TL: 0x18, RSAR: 0x1F, AMD1R: 0x06, D2R: 0x02, D1LRR: 0x1F},
		{DTMul: 0x01, TL: 0x10, RSAR: 0x1F, AMD1R: 0x06, D2R: 0x02, D1LRR: 0x1F},
	},
}

// TestTone is a single sine-like carrier, handy for channel bring-up. Only
// operator 3 sounds.
var TestTone = Patch{
	Name:      "Test Tone",
	Algorithm: AlgoSerial,
	Feedback:  0,
	Left:      true,
	Right:     true,
	Ops: [4]Operator{
		{TL: 0x7F},
		{TL: 0x7F},
		{TL: 0x7F},
		{DTMul: 0x01, TL: 0x10, RSAR: 0x1F, D1LRR: 0x0F},
	},
}
