// Minimal display test: scrolling checkerboard on plane B, a tile
// pattern on plane A and a palette cycle on the backdrop. Exercises the
// register, palette, tile and scroll paths without sprites or sound.
package main

import (
	"flag"
	"log"

	"github.com/user-none/go-smd/bus"
	"github.com/user-none/go-smd/ui"
	"github.com/user-none/go-smd/vdp"
)

func main() {
	flag.IntVar(&ui.WindowScale, "scale", ui.WindowScale, "window size as a multiple of 320x224")
	flag.Parse()

	if err := ui.Run("VDP Demo", run); err != nil {
		log.Fatal(err)
	}
}

func run(b bus.Bus) {
	v := vdp.New(b)
	v.Init()

	v.LoadPalette(0, []vdp.Color{
		vdp.Black,
		vdp.White,
		vdp.Green,
		vdp.Red,
	})
	v.LoadPalette(16, []vdp.Color{
		vdp.Black,
		vdp.Blue,
		vdp.Cyan,
		vdp.Yellow,
	})

	// tile 1: solid color 1, tile 2: checkerboard of colors 2 and 3
	solid := [8]uint32{
		0x11111111, 0x11111111, 0x11111111, 0x11111111,
		0x11111111, 0x11111111, 0x11111111, 0x11111111,
	}
	check := [8]uint32{
		0x22223333, 0x22223333, 0x22223333, 0x22223333,
		0x33332222, 0x33332222, 0x33332222, 0x33332222,
	}
	v.LoadTiles(1, solid[:])
	v.LoadTiles(2, check[:])

	// plane B: full checkerboard
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			v.SetTileB(x, y, vdp.Attr(2, 0, false, false, false))
		}
	}

	// plane A: a frame of solid tiles in the second palette
	for x := 4; x < 36; x++ {
		v.SetTileA(x, 4, vdp.Attr(1, 1, false, false, false))
		v.SetTileA(x, 23, vdp.Attr(1, 1, false, false, false))
	}
	for y := 4; y < 24; y++ {
		v.SetTileA(4, y, vdp.Attr(1, 1, false, false, false))
		v.SetTileA(35, y, vdp.Attr(1, 1, false, false, false))
	}

	var scroll int16
	for {
		v.VSync()
		scroll++
		v.SetHScrollB(scroll)
		v.SetVScrollB(scroll / 2)
	}
}
