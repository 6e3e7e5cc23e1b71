// Channel test: plays each FM and PSG channel in turn, then everything
// at once as an E major chord. Useful for checking that all ten sound
// channels come out of both speakers.
package main

import (
	"flag"
	"log"

	"github.com/user-none/go-smd/bus"
	"github.com/user-none/go-smd/psg"
	"github.com/user-none/go-smd/ui"
	"github.com/user-none/go-smd/vdp"
	"github.com/user-none/go-smd/ym2612"
)

// Step lengths in frames.
const (
	noteFrames  = 60
	restFrames  = 15
	chordFrames = 120
)

func main() {
	flag.IntVar(&ui.WindowScale, "scale", ui.WindowScale, "window size as a multiple of 320x224")
	flag.Parse()

	if err := ui.Run("Channel Test", run); err != nil {
		log.Fatal(err)
	}
}

func run(b bus.Bus) {
	v := vdp.New(b)
	fm := ym2612.New(b)
	snd := psg.New(b)

	v.Init()
	fm.Init()
	snd.Init()

	for ch := 0; ch < 6; ch++ {
		fm.LoadPatch(ch, &ym2612.TestTone)
	}

	// one note per FM channel, ascending
	fmNotes := []struct {
		ch   int
		fnum uint16
	}{
		{0, ym2612.NoteC},
		{1, ym2612.NoteD},
		{2, ym2612.NoteE},
		{3, ym2612.NoteF},
		{4, ym2612.NoteG},
		{5, ym2612.NoteA},
	}

	psgNotes := []struct {
		ch int
		hz uint16
	}{
		{psg.Tone0, psg.NoteB4},
		{psg.Tone1, psg.NoteC5},
		{psg.Tone2, 587}, // D5
	}

	for {
		for _, n := range fmNotes {
			fm.SetFreq(n.ch, 4, n.fnum)
			fm.KeyOn(n.ch)
			wait(v, noteFrames)
			fm.KeyOff(n.ch)
			wait(v, restFrames)
		}

		for _, n := range psgNotes {
			snd.SetTone(n.ch, n.hz)
			snd.SetVolume(n.ch, 0)
			wait(v, noteFrames)
			snd.SetVolume(n.ch, psg.VolumeOff)
			wait(v, restFrames)
		}

		snd.SetNoise(psg.WhiteLo)
		snd.SetVolume(psg.Noise, 0)
		wait(v, noteFrames)
		snd.SetVolume(psg.Noise, psg.VolumeOff)
		wait(v, restFrames)

		// the finale: an E major chord across both chips
		fm.SetFreq(0, 4, ym2612.NoteE)
		fm.SetFreq(1, 4, ym2612.NoteGs)
		fm.SetFreq(2, 4, ym2612.NoteB)
		fm.SetFreq(3, 3, ym2612.NoteE)
		fm.SetFreq(4, 3, ym2612.NoteGs)
		fm.SetFreq(5, 3, ym2612.NoteB)
		for ch := 0; ch < 6; ch++ {
			fm.KeyOn(ch)
		}
		snd.SetToneRaw(psg.Tone0, 127)
		snd.SetToneRaw(psg.Tone1, 101)
		snd.SetToneRaw(psg.Tone2, 85)
		snd.SetVolume(psg.Tone0, 4)
		snd.SetVolume(psg.Tone1, 4)
		snd.SetVolume(psg.Tone2, 4)

		wait(v, chordFrames)

		for ch := 0; ch < 6; ch++ {
			fm.KeyOff(ch)
		}
		snd.Stop()
		wait(v, restFrames)
	}
}

func wait(v *vdp.Chip, frames int) {
	for i := 0; i < frames; i++ {
		v.VSync()
	}
}
