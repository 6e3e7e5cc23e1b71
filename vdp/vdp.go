// Package vdp controls the video display processor: registers, VRAM, the
// color palette and scrolling. The default Init configuration is the common
// 320x224 mode 5 setup with plane A at 0xC000 and plane B at 0xE000.
package vdp

import (
	"runtime"

	"github.com/user-none/go-smd/bus"
)

// VDP ports on the 68K bus. Both are word-wide.
const (
	DataPort uint32 = 0xC00000
	CtrlPort uint32 = 0xC00004
)

// Display dimensions in the Init configuration (H40, NTSC).
const (
	ScreenWidth  = 320
	ScreenHeight = 224
)

// Default VRAM layout programmed by Init.
const (
	PlaneA  uint16 = 0xC000
	Window  uint16 = 0xD000
	PlaneB  uint16 = 0xE000
	Sprites uint16 = 0xF000
	HScroll uint16 = 0xFC00
)

// StatusVBlank is set in the status word during vertical blank.
const StatusVBlank = 0x0008

// Chip is a handle to the VDP on a Bus.
type Chip struct {
	bus bus.Bus
}

// New creates a Chip on the given bus. Call Init before drawing.
func New(b bus.Bus) *Chip {
	return &Chip{bus: b}
}

// SetRegister writes a VDP register (0-23).
func (c *Chip) SetRegister(reg, val uint8) {
	c.bus.Write16(CtrlPort, 0x8000|uint16(reg)<<8|uint16(val))
}

// Init programs the standard display setup: mode 5, display on, H40
// (320x224), 64x32 cell planes, auto-increment 2.
func (c *Chip) Init() {
	c.SetRegister(0, 0x04)  // mode register 1
	c.SetRegister(1, 0x44)  // mode register 2: display on, mode 5
	c.SetRegister(2, 0x30)  // plane A at 0xC000
	c.SetRegister(3, 0x00)  // window address
	c.SetRegister(4, 0x07)  // plane B at 0xE000
	c.SetRegister(5, 0x78)  // sprite table at 0xF000
	c.SetRegister(6, 0x00)
	c.SetRegister(7, 0x00)  // backdrop: palette 0, color 0
	c.SetRegister(10, 0xFF) // H-interrupt counter
	c.SetRegister(11, 0x00) // mode register 3
	c.SetRegister(12, 0x81) // mode register 4: H40, no interlace
	c.SetRegister(13, 0x3F) // hscroll table at 0xFC00
	c.SetRegister(15, 0x02) // auto-increment 2
	c.SetRegister(16, 0x01) // plane size 64x32
	c.SetRegister(17, 0x00) // window H position
	c.SetRegister(18, 0x00) // window V position
}

// Status reads the VDP status word.
func (c *Chip) Status() uint16 {
	return c.bus.Read16(CtrlPort)
}

// VSync blocks until the next vertical blank begins. If called during
// vblank it waits out the current one first, so consecutive calls pace a
// loop at the frame rate.
func (c *Chip) VSync() {
	for c.Status()&StatusVBlank != 0 {
		runtime.Gosched()
	}
	for c.Status()&StatusVBlank == 0 {
		runtime.Gosched()
	}
}

// SetWriteAddr sets the VRAM write address. Follow with WriteData; the
// address auto-increments by 2 per word.
func (c *Chip) SetWriteAddr(addr uint16) {
	c.bus.Write16(CtrlPort, 0x4000|(addr&0x3FFF))
	c.bus.Write16(CtrlPort, (addr>>14)&0x03)
}

// SetCRAMAddr sets the palette write address to the given color index.
func (c *Chip) SetCRAMAddr(index uint8) {
	c.bus.Write16(CtrlPort, 0xC000|uint16(index)<<1)
	c.bus.Write16(CtrlPort, 0x0000)
}

// WriteData writes one word to the data port.
func (c *Chip) WriteData(val uint16) {
	c.bus.Write16(DataPort, val)
}

// SetColor sets a single palette entry (0-63).
func (c *Chip) SetColor(index uint8, col Color) {
	c.SetCRAMAddr(index)
	c.WriteData(uint16(col))
}

// LoadPalette loads consecutive palette entries starting at index.
func (c *Chip) LoadPalette(index uint8, colors []Color) {
	c.SetCRAMAddr(index)
	for _, col := range colors {
		c.WriteData(uint16(col))
	}
}

// LoadTiles loads 4bpp tile data into VRAM starting at the given tile
// index. Each tile is eight 32-bit rows, one nibble per pixel.
func (c *Chip) LoadTiles(index uint16, data []uint32) {
	c.SetWriteAddr(index * 32)
	for _, row := range data {
		c.WriteData(uint16(row >> 16))
		c.WriteData(uint16(row))
	}
}

// SetTileA places a tile in plane A at cell (x, y). Build attr with Attr.
func (c *Chip) SetTileA(x, y int, attr uint16) {
	c.setTile(PlaneA, x, y, attr)
}

// SetTileB places a tile in plane B at cell (x, y).
func (c *Chip) SetTileB(x, y int, attr uint16) {
	c.setTile(PlaneB, x, y, attr)
}

func (c *Chip) setTile(plane uint16, x, y int, attr uint16) {
	// 64 cells per row, 2 bytes per cell
	addr := plane + uint16(y)*128 + uint16(x)*2
	c.SetWriteAddr(addr)
	c.WriteData(attr)
}

// SetBackground sets the backdrop to a palette (0-3) and color index (0-15).
func (c *Chip) SetBackground(palette, color uint8) {
	c.SetRegister(7, palette<<4|color)
}

// SetHScrollA sets the full-screen horizontal scroll for plane A, in
// pixels. Negative values scroll right.
func (c *Chip) SetHScrollA(scroll int16) {
	c.SetWriteAddr(HScroll)
	c.WriteData(uint16(scroll))
}

// SetHScrollB sets the full-screen horizontal scroll for plane B.
func (c *Chip) SetHScrollB(scroll int16) {
	c.SetWriteAddr(HScroll + 2)
	c.WriteData(uint16(scroll))
}

// SetVScrollA sets the full-screen vertical scroll for plane A, in pixels.
// Negative values scroll down.
func (c *Chip) SetVScrollA(scroll int16) {
	c.setVSRAM(0, uint16(scroll))
}

// SetVScrollB sets the full-screen vertical scroll for plane B.
func (c *Chip) SetVScrollB(scroll int16) {
	c.setVSRAM(2, uint16(scroll))
}

func (c *Chip) setVSRAM(addr uint16, val uint16) {
	c.bus.Write16(CtrlPort, 0x4000|addr)
	c.bus.Write16(CtrlPort, 0x0010)
	c.WriteData(val)
}

// ClearPlaneA fills plane A with tile 0.
func (c *Chip) ClearPlaneA() {
	c.clearPlane(PlaneA)
}

// ClearPlaneB fills plane B with tile 0.
func (c *Chip) ClearPlaneB() {
	c.clearPlane(PlaneB)
}

func (c *Chip) clearPlane(plane uint16) {
	c.SetWriteAddr(plane)
	for i := 0; i < 64*32; i++ {
		c.WriteData(0)
	}
}
