package vdp

// Color is a 9-bit hardware color in 0x0BGR layout: 3 bits per component,
// stored in the even values 0-14 of each nibble.
type Color uint16

// Predefined colors.
const (
	Black   Color = 0x000
	White   Color = 0xEEE
	Red     Color = 0x00E
	Green   Color = 0x0E0
	Blue    Color = 0xE00
	Yellow  Color = 0x0EE
	Cyan    Color = 0xEE0
	Magenta Color = 0xE0E
)

// RGB builds a Color from components in 0-14, even values only.
func RGB(r, g, b uint8) Color {
	return Color(uint16(b)<<8 | uint16(g)<<4 | uint16(r))
}

// Tile attribute flags for Attr and the plane setters.
const (
	AttrPriority uint16 = 0x8000 // draw in front of sprites
	AttrPal0     uint16 = 0x0000
	AttrPal1     uint16 = 0x2000
	AttrPal2     uint16 = 0x4000
	AttrPal3     uint16 = 0x6000
	AttrVFlip    uint16 = 0x1000
	AttrHFlip    uint16 = 0x0800
)

// Attr builds a nametable entry from a tile index (0-2047), palette (0-3)
// and the priority/flip flags.
func Attr(index uint16, pal uint8, priority, hflip, vflip bool) uint16 {
	attr := index | uint16(pal)<<13
	if priority {
		attr |= AttrPriority
	}
	if hflip {
		attr |= AttrHFlip
	}
	if vflip {
		attr |= AttrVFlip
	}
	return attr
}
