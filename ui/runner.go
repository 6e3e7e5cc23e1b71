// Package ui runs SDK programs against the bundled machine in a
// desktop window. It owns the frame loop: each Ebiten tick advances the
// machine one frame, feeds the mixed audio to the sound device and
// draws the framebuffer. The program itself runs on its own goroutine
// and paces itself against the machine's v-blank flag.
package ui

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/go-smd/bus"
	"github.com/user-none/go-smd/machine"
)

// Program is an SDK program entry point. It receives the machine's bus
// and typically never returns.
type Program func(b bus.Bus)

// WindowScale is the initial window size as a multiple of the native
// 320x224 resolution. Commands expose it as a -scale flag.
var WindowScale = 2

// Runner implements ebiten.Game around a machine and a program.
type Runner struct {
	machine     *machine.Machine
	program     Program
	audioPlayer *AudioPlayer

	started bool

	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
}

// NewRunner creates a Runner for the given program on a fresh machine.
// Audio initialization failure is non-fatal; the runner will work
// without sound.
func NewRunner(program Program) *Runner {
	player, err := NewAudioPlayer(1.0)
	if err != nil {
		log.Printf("Warning: audio initialization failed: %v", err)
	}

	return &Runner{
		machine:     machine.New(),
		program:     program,
		audioPlayer: player,
	}
}

// Run opens a window and runs the program until the window closes.
func Run(title string, program Program) error {
	r := NewRunner(program)
	defer r.Close()

	scale := WindowScale
	if scale < 1 {
		scale = 1
	}
	ebiten.SetWindowSize(machine.ScreenWidth*scale, machine.ScreenHeight*scale)
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(machine.FPS)

	return ebiten.RunGame(r)
}

// Close cleans up the runner's resources. The program goroutine is not
// stopped; it parks on the v-blank poll once frames stop advancing.
func (r *Runner) Close() {
	if r.audioPlayer != nil {
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
}

// Update implements ebiten.Game. One tick is one machine frame.
func (r *Runner) Update() error {
	if !r.started {
		r.started = true
		go r.program(r.machine)
	}

	r.machine.SetInput(0, pollInput())
	r.machine.RunFrame()

	if r.audioPlayer != nil {
		r.audioPlayer.QueueSamples(r.machine.AudioSamples())
	}
	return nil
}

// Draw implements ebiten.Game.
func (r *Runner) Draw(screen *ebiten.Image) {
	if r.offscreen == nil {
		r.offscreen = ebiten.NewImage(machine.ScreenWidth, machine.ScreenHeight)
	}
	r.offscreen.WritePixels(r.machine.Framebuffer())

	// scale to fit the window while preserving aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(machine.ScreenWidth)
	nativeH := float64(machine.ScreenHeight)

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	scaledW := nativeW * scale
	scaledH := nativeH * scale
	offsetX := (float64(screenW) - scaledW) / 2
	offsetY := (float64(screenH) - scaledH) / 2

	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(offsetX, offsetY)
	r.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(r.offscreen, &r.drawOpts)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// pollInput reads keyboard and gamepad state into a pad Input.
// Keyboard: WASD + arrows for the d-pad, J/K/L for A/B/C, Enter for
// Start.
func pollInput() machine.Input {
	in := machine.Input{Connected: true}

	if !ebiten.IsFocused() {
		return in
	}

	in.Up = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	in.Down = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	in.Left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	in.Right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	in.A = ebiten.IsKeyPressed(ebiten.KeyJ)
	in.B = ebiten.IsKeyPressed(ebiten.KeyK)
	in.C = ebiten.IsKeyPressed(ebiten.KeyL)
	in.Start = ebiten.IsKeyPressed(ebiten.KeyEnter)

	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}

		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop) {
			in.Up = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
			in.Down = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			in.Left = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			in.Right = true
		}

		// Face buttons: A/Cross=A, B/Circle=B, X/Square=C, Start=Start
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			in.A = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight) {
			in.B = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightLeft) {
			in.C = true
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			in.Start = true
		}

		// Left analog stick (with deadzone)
		const deadzone = 0.5
		axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if axisX < -deadzone {
			in.Left = true
		}
		if axisX > deadzone {
			in.Right = true
		}
		if axisY < -deadzone {
			in.Up = true
		}
		if axisY > deadzone {
			in.Down = true
		}
	}

	return in
}
