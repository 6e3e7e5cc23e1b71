package ym2612

// Frequency numbers for the 12 semitones in octave block 4, tuned for the
// NTSC master clock. Use with SetFreq; move octaves by changing the block,
// not the fnum.
const (
	NoteC  uint16 = 644
	NoteCs uint16 = 682
	NoteD  uint16 = 723
	NoteDs uint16 = 766
	NoteE  uint16 = 811
	NoteF  uint16 = 859
	NoteFs uint16 = 910
	NoteG  uint16 = 964
	NoteGs uint16 = 1021
	NoteA  uint16 = 1081
	NoteAs uint16 = 1145
	NoteB  uint16 = 1214
)

// Notes indexes the semitone fnums, C first.
var Notes = [12]uint16{
	NoteC, NoteCs, NoteD, NoteDs, NoteE, NoteF,
	NoteFs, NoteG, NoteGs, NoteA, NoteAs, NoteB,
}

// NoteFreq returns the SetFreq arguments for a semitone (0 = C) in an
// octave 0-7. The fnum table is tuned so octave maps directly to block.
func NoteFreq(semitone, octave int) (block uint8, fnum uint16) {
	if octave < 0 {
		octave = 0
	} else if octave > 7 {
		octave = 7
	}
	return uint8(octave), Notes[uint(semitone)%12]
}

// PlayNote is SetFreq plus KeyOn for a semitone (0 = C) in the given octave
// block (0-7).
func (c *Chip) PlayNote(ch, semitone int, block uint8) {
	c.SetFreq(ch, block, Notes[uint(semitone)%12])
	c.KeyOn(ch)
}
