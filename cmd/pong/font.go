package main

import "github.com/user-none/go-smd/vdp"

// glyph is a 3x5 block character, one row per element with bit 2 as the
// leftmost column. Rendered with the solid tile.
type glyph [5]uint8

var digits = [10]glyph{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b010, 0b010, 0b010, 0b010}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

var letters = map[rune]glyph{
	'R': {0b110, 0b101, 0b110, 0b101, 0b101},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'A': {0b010, 0b101, 0b111, 0b101, 0b101},
	'D': {0b110, 0b101, 0b101, 0b101, 0b110},
	'Y': {0b101, 0b101, 0b010, 0b010, 0b010},
	'?': {0b111, 0b001, 0b010, 0b000, 0b010},
	'P': {0b111, 0b101, 0b111, 0b100, 0b100},
	'U': {0b101, 0b101, 0b101, 0b101, 0b111},
	'S': {0b111, 0b100, 0b111, 0b001, 0b111},
	'H': {0b101, 0b101, 0b111, 0b101, 0b101},
	'T': {0b111, 0b010, 0b010, 0b010, 0b010},
}

func digitGlyph(n int) glyph {
	return digits[n%10]
}

// drawGlyph draws one character at a tile position on plane A.
func drawGlyph(v *vdp.Chip, x, y int, g glyph) {
	for row := 0; row < 5; row++ {
		for col := 0; col < 3; col++ {
			tile := uint16(0)
			if g[row]&(0x04>>col) != 0 {
				tile = tileSolid
			}
			v.SetTileA(x+col, y+row, tile)
		}
	}
}

// drawText draws a string of 3x5 glyphs, advancing 4 tiles per character.
// Unknown characters (including spaces) leave a gap.
func drawText(v *vdp.Chip, x, y int, s string) {
	for _, r := range s {
		if g, ok := letters[r]; ok {
			drawGlyph(v, x, y, g)
		}
		x += 4
	}
}

// clearTextRow blanks a width-tile wide, 5-tile tall text area.
func clearTextRow(v *vdp.Chip, x, y, width int) {
	for row := 0; row < 5; row++ {
		for col := 0; col < width; col++ {
			v.SetTileA(x+col, y+row, 0)
		}
	}
}
