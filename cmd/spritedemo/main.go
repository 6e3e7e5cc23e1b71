// Sprite demo: a field of bouncing balls, each bounce keying an FM note
// on a rotating channel. Press A to cycle through the patch bank, Start
// to pause the motion.
package main

import (
	"flag"
	"log"

	"github.com/user-none/go-smd/bus"
	"github.com/user-none/go-smd/pad"
	"github.com/user-none/go-smd/sprite"
	"github.com/user-none/go-smd/ui"
	"github.com/user-none/go-smd/vdp"
	"github.com/user-none/go-smd/ym2612"
)

const numBalls = 8

const ballTile = 1

type ballState struct {
	x, y   int
	dx, dy int
	note   int
}

func main() {
	flag.IntVar(&ui.WindowScale, "scale", ui.WindowScale, "window size as a multiple of 320x224")
	flag.Parse()

	if err := ui.Run("Sprite Demo", run); err != nil {
		log.Fatal(err)
	}
}

func run(b bus.Bus) {
	v := vdp.New(b)
	fm := ym2612.New(b)
	pd := pad.New(b, 0)
	spr := sprite.New(v)

	v.Init()
	fm.Init()
	pd.Init()
	spr.Init()

	v.LoadPalette(0, []vdp.Color{
		vdp.Black,
		vdp.White,
		vdp.Yellow,
		vdp.Red,
	})
	loadBallTiles(v)

	patches := ym2612.Patches()
	patchIdx := 0
	for ch := 0; ch < 6; ch++ {
		fm.LoadPatch(ch, patches[patchIdx])
	}

	balls := make([]ballState, numBalls)
	for i := range balls {
		balls[i] = ballState{
			x:  20 + i*36,
			y:  16 + (i*53)%160,
			dx: 1 + i%3,
			dy: 1 + (i+1)%3,

			note: (i * 2) % 12,
		}
		spr.Set(i, sprite.Sprite{
			X: int16(balls[i].x), Y: int16(balls[i].y),
			Size: sprite.Size2x2, Tile: ballTile,
		})
	}

	nextCh := 0
	paused := false

	for {
		v.VSync()
		pd.Update()

		if pd.Pressed().Contains(pad.Start) {
			paused = !paused
		}
		if pd.Pressed().Contains(pad.A) {
			patchIdx = (patchIdx + 1) % len(patches)
			for ch := 0; ch < 6; ch++ {
				fm.LoadPatch(ch, patches[patchIdx])
			}
		}
		if paused {
			continue
		}

		for i := range balls {
			bl := &balls[i]
			bl.x += bl.dx
			bl.y += bl.dy

			bounced := false
			if bl.x <= 0 || bl.x >= vdp.ScreenWidth-16 {
				bl.dx = -bl.dx
				bounced = true
			}
			if bl.y <= 0 || bl.y >= vdp.ScreenHeight-16 {
				bl.dy = -bl.dy
				bounced = true
			}

			if bounced {
				fm.PlayNote(nextCh, bl.note, 4)
				nextCh = (nextCh + 1) % 6
			}

			spr.SetPos(i, int16(bl.x), int16(bl.y))
		}
	}
}

// loadBallTiles uploads a 16x16 ball as four tiles in the column-major
// order sprites index them.
func loadBallTiles(v *vdp.Chip) {
	// left half, top to bottom
	colLeft := [16]uint32{
		0x00000222, 0x00022211, 0x00221111, 0x02211111,
		0x02211111, 0x22111111, 0x22111111, 0x22111111,
		0x22111111, 0x22111111, 0x22111111, 0x02111111,
		0x02111111, 0x00211111, 0x00022111, 0x00000222,
	}
	colRight := [16]uint32{
		0x22200000, 0x11222000, 0x11112200, 0x11111220,
		0x11111220, 0x11111122, 0x11111122, 0x11111122,
		0x11111122, 0x11111122, 0x11111122, 0x11111120,
		0x11111120, 0x11111200, 0x11122000, 0x22200000,
	}

	v.LoadTiles(ballTile, colLeft[:8])
	v.LoadTiles(ballTile+1, colLeft[8:])
	v.LoadTiles(ballTile+2, colRight[:8])
	v.LoadTiles(ballTile+3, colRight[8:])
}
