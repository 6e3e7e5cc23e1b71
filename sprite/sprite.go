// Package sprite manages the VDP sprite attribute table: up to 80 hardware
// sprites of 1-4 tiles a side. Positions are screen coordinates; the 128
// pixel hardware offset is applied internally.
package sprite

import "github.com/user-none/go-smd/vdp"

// Max is the number of sprite table entries.
const Max = 80

// Size encodes sprite dimensions: bits 0-1 height-1, bits 2-3 width-1, in
// tiles.
type Size uint8

const (
	Size1x1 Size = 0x00 // 8x8
	Size1x2 Size = 0x01 // 8x16
	Size1x3 Size = 0x02 // 8x24
	Size1x4 Size = 0x03 // 8x32
	Size2x1 Size = 0x04 // 16x8
	Size2x2 Size = 0x05 // 16x16
	Size2x3 Size = 0x06 // 16x24
	Size2x4 Size = 0x07 // 16x32
	Size3x1 Size = 0x08 // 24x8
	Size3x2 Size = 0x09 // 24x16
	Size3x3 Size = 0x0A // 24x24
	Size3x4 Size = 0x0B // 24x32
	Size4x1 Size = 0x0C // 32x8
	Size4x2 Size = 0x0D // 32x16
	Size4x3 Size = 0x0E // 32x24
	Size4x4 Size = 0x0F // 32x32
)

// Width returns the sprite width in pixels.
func (s Size) Width() int {
	return (int(s>>2) + 1) * 8
}

// Height returns the sprite height in pixels.
func (s Size) Height() int {
	return (int(s&0x03) + 1) * 8
}

// Sprite describes one hardware sprite. Attr uses the vdp attribute flags
// (palette, priority, flips).
type Sprite struct {
	X    int16
	Y    int16
	Size Size
	Tile uint16
	Attr uint16
}

// Table manages the sprite attribute table through a VDP handle.
type Table struct {
	vdp *vdp.Chip
}

// New creates a Table over the given VDP. Call Init to clear the hardware
// table.
func New(v *vdp.Chip) *Table {
	return &Table{vdp: v}
}

func entryAddr(index int) uint16 {
	return vdp.Sprites + uint16(index)*8
}

// link returns the next entry in the default chain: each sprite links to
// the one after it, the last links back to 0 which terminates the list.
func link(index int) uint16 {
	if index < Max-1 {
		return uint16(index + 1)
	}
	return 0
}

// Init clears all 80 entries.
func (t *Table) Init() {
	t.ClearAll()
}

// Set programs a full sprite entry: position, size, tile and attributes.
// The default link chain is preserved.
func (t *Table) Set(index int, s Sprite) {
	t.vdp.SetWriteAddr(entryAddr(index))
	t.vdp.WriteData(uint16(s.Y + 128))
	t.vdp.WriteData(uint16(s.Size)<<8 | link(index))
	t.vdp.WriteData(s.Tile | s.Attr)
	t.vdp.WriteData(uint16(s.X + 128))
}

// SetPos updates only the position of a sprite, leaving size, tile and link
// alone. Cheaper than Set for per-frame movement.
func (t *Table) SetPos(index int, x, y int16) {
	addr := entryAddr(index)
	t.vdp.SetWriteAddr(addr)
	t.vdp.WriteData(uint16(y + 128))
	t.vdp.SetWriteAddr(addr + 6)
	t.vdp.WriteData(uint16(x + 128))
}

// SetTile updates only the tile/attribute word of a sprite.
func (t *Table) SetTile(index int, tile, attr uint16) {
	t.vdp.SetWriteAddr(entryAddr(index) + 4)
	t.vdp.WriteData(tile | attr)
}

// Hide moves a sprite off the top of the screen.
func (t *Table) Hide(index int) {
	t.vdp.SetWriteAddr(entryAddr(index))
	t.vdp.WriteData(0)
}

// Clear zeroes a sprite entry, then restores its link so the chain stays
// intact.
func (t *Table) Clear(index int) {
	t.vdp.SetWriteAddr(entryAddr(index))
	t.vdp.WriteData(0)
	t.vdp.WriteData(link(index))
	t.vdp.WriteData(0)
	t.vdp.WriteData(0)
}

// ClearAll hides every sprite and rebuilds the default link chain.
func (t *Table) ClearAll() {
	for i := 0; i < Max; i++ {
		t.Clear(i)
	}
}

// SetLink overrides the link field of an entry for custom ordering. The
// size byte is cleared; use Set afterwards if the sprite is visible.
func (t *Table) SetLink(index int, next uint8) {
	t.vdp.SetWriteAddr(entryAddr(index) + 2)
	t.vdp.WriteData(uint16(next))
}
