package machine

// video is the display device. It decodes the control/data port protocol
// into VRAM, CRAM and VSRAM, and renders the mode 5 feature set the SDK
// uses: two 64x32 scrolling planes, 4bpp tiles, linked sprites and the
// backdrop color. Rendering happens once per frame rather than per
// scanline; nothing here changes mid-frame.

const (
	// ScreenWidth is the H40 display width in pixels.
	ScreenWidth = 320
	// ScreenHeight is the NTSC active display height in pixels.
	ScreenHeight = 224

	vramSize  = 0x10000
	cramSize  = 64 // colors
	vsramSize = 40 // words

	planeCols = 64
	planeRows = 32
)

// Control port command codes.
const (
	codeVRAMWrite  = 0x01
	codeCRAMWrite  = 0x03
	codeVSRAMWrite = 0x05
)

const statusVBlank = 0x0008

type video struct {
	vram  [vramSize]uint8
	cram  [cramSize]uint16
	vsram [vsramSize]uint16
	regs  [24]uint8

	// control port state
	writePending bool
	code         uint8
	address      uint16

	vblank bool

	// RGBA output, 4 bytes per pixel
	frame [ScreenWidth * ScreenHeight * 4]uint8
}

func newVideo() *video {
	return &video{}
}

// WriteControl handles a word written to the control port: either a
// register write or half of a two-word address setup.
func (v *video) WriteControl(val uint16) {
	// register writes cancel a pending command
	if val&0xC000 == 0x8000 {
		reg := uint8(val>>8) & 0x1F
		if int(reg) < len(v.regs) {
			v.regs[reg] = uint8(val)
		}
		v.writePending = false
		return
	}

	if !v.writePending {
		v.writePending = true
		v.code = (v.code & 0x3C) | uint8(val>>14)&0x03
		v.address = (v.address & 0xC000) | (val & 0x3FFF)
		return
	}

	v.writePending = false
	v.code = (v.code & 0x03) | uint8(val>>2)&0x3C
	v.address = (v.address & 0x3FFF) | (val&0x03)<<14
}

// ReadControl returns the status word and clears the pending write flag,
// as reading the control port does on hardware.
func (v *video) ReadControl() uint16 {
	v.writePending = false
	var status uint16 = 0x3400 // fifo empty
	if v.vblank {
		status |= statusVBlank
	}
	return status
}

// WriteData writes a word through the current command, then advances the
// address by the auto-increment register.
func (v *video) WriteData(val uint16) {
	v.writePending = false

	switch v.code & 0x07 {
	case codeVRAMWrite:
		addr := v.address & (vramSize - 1)
		v.vram[addr] = uint8(val >> 8)
		v.vram[addr^1] = uint8(val)
	case codeCRAMWrite:
		v.cram[(v.address>>1)&(cramSize-1)] = val & 0x0EEE
	case codeVSRAMWrite:
		idx := (v.address >> 1) % vsramSize
		v.vsram[idx] = val & 0x03FF
	}

	v.address += uint16(v.regs[15])
}

// ReadData reads a word back from the current address. Only VRAM reads are
// supported; the SDK does not read the palette back.
func (v *video) ReadData() uint16 {
	v.writePending = false
	addr := v.address & (vramSize - 1)
	val := uint16(v.vram[addr])<<8 | uint16(v.vram[addr^1])
	v.address += uint16(v.regs[15])
	return val
}

func (v *video) SetVBlank(in bool) {
	v.vblank = in
}

func (v *video) displayEnabled() bool {
	return v.regs[1]&0x40 != 0
}

func (v *video) planeABase() int {
	return int(v.regs[2]&0x38) << 10
}

func (v *video) planeBBase() int {
	return int(v.regs[4]&0x07) << 13
}

func (v *video) spriteBase() int {
	return int(v.regs[5]&0x7F) << 9
}

func (v *video) hscrollBase() int {
	return int(v.regs[13]&0x3F) << 10
}

// color returns the RGBA bytes for a CRAM entry. The 3-bit components map
// to the high bits of each byte.
func (v *video) color(index int) (r, g, b uint8) {
	c := v.cram[index&(cramSize-1)]
	r = uint8(c&0x00E) << 4
	g = uint8(c>>4&0x00E) << 4
	b = uint8(c>>8&0x00E) << 4
	return r, g, b
}

// RenderFrame draws the full frame into the RGBA buffer.
func (v *video) RenderFrame() {
	v.fillBackdrop()
	if !v.displayEnabled() {
		return
	}
	v.renderPlane(v.planeBBase(), 2)
	v.renderPlane(v.planeABase(), 0)
	v.renderSprites()
}

func (v *video) fillBackdrop() {
	r, g, b := v.color(int(v.regs[7] & 0x3F))
	for i := 0; i < len(v.frame); i += 4 {
		v.frame[i] = r
		v.frame[i+1] = g
		v.frame[i+2] = b
		v.frame[i+3] = 0xFF
	}
}

// renderPlane draws one scrolling plane. hsIndex selects the full-screen
// hscroll table entry (0 for plane A, 2 for plane B); the matching vscroll
// comes from VSRAM.
func (v *video) renderPlane(base int, hsIndex int) {
	hs := v.hscrollBase() + hsIndex
	hscroll := int(int16(uint16(v.vram[hs])<<8 | uint16(v.vram[hs+1])))
	vscroll := int(int16(v.vsram[hsIndex/2]<<6) >> 6) // sign-extend 10 bits

	for y := 0; y < ScreenHeight; y++ {
		srcY := (y + vscroll) & (planeRows*8 - 1)
		row := srcY / 8
		for x := 0; x < ScreenWidth; x++ {
			srcX := (x - hscroll) & (planeCols*8 - 1)
			col := srcX / 8

			entry := base + (row*planeCols+col)*2
			attr := uint16(v.vram[entry&(vramSize-1)])<<8 | uint16(v.vram[(entry+1)&(vramSize-1)])

			px := v.tilePixel(attr, srcX&7, srcY&7)
			if px == 0 {
				continue
			}
			pal := int(attr >> 13 & 0x03)
			v.putPixel(x, y, pal*16+px)
		}
	}
}

// tilePixel returns the 4-bit color index of one pixel of a tile,
// honoring the flip bits in the attribute word.
func (v *video) tilePixel(attr uint16, tx, ty int) int {
	if attr&0x0800 != 0 {
		tx = 7 - tx
	}
	if attr&0x1000 != 0 {
		ty = 7 - ty
	}

	tile := int(attr & 0x7FF)
	addr := (tile*32 + ty*4 + tx/2) & (vramSize - 1)
	b := v.vram[addr]
	if tx&1 == 0 {
		return int(b >> 4)
	}
	return int(b & 0x0F)
}

// renderSprites walks the sprite link chain from entry 0 and draws up to
// 80 sprites. Earlier sprites in the chain win overlaps, so draw order is
// chain order with the first on top.
func (v *video) renderSprites() {
	base := v.spriteBase()

	// collect chain order first
	var order []int
	seen := [80]bool{}
	idx := 0
	for len(order) < 80 {
		if seen[idx] {
			break
		}
		seen[idx] = true
		order = append(order, idx)
		link := int(v.vram[(base+idx*8+3)&(vramSize-1)] & 0x7F)
		if link == 0 || link >= 80 {
			break
		}
		idx = link
	}

	// draw back to front
	for i := len(order) - 1; i >= 0; i-- {
		v.drawSprite(base + order[i]*8)
	}
}

func (v *video) drawSprite(entry int) {
	at := func(off int) uint8 { return v.vram[(entry+off)&(vramSize-1)] }

	y := int(uint16(at(0)&0x03)<<8|uint16(at(1))) - 128
	size := at(2)
	wTiles := int(size>>2&0x03) + 1
	hTiles := int(size&0x03) + 1
	attr := uint16(at(4))<<8 | uint16(at(5))
	x := int(uint16(at(6)&0x01)<<8|uint16(at(7))) - 128

	pal := int(attr >> 13 & 0x03)
	hflip := attr&0x0800 != 0
	vflip := attr&0x1000 != 0
	tile := int(attr & 0x7FF)

	for px := 0; px < wTiles*8; px++ {
		sx := x + px
		if sx < 0 || sx >= ScreenWidth {
			continue
		}
		for py := 0; py < hTiles*8; py++ {
			sy := y + py
			if sy < 0 || sy >= ScreenHeight {
				continue
			}

			tx, ty := px, py
			if hflip {
				tx = wTiles*8 - 1 - px
			}
			if vflip {
				ty = hTiles*8 - 1 - py
			}

			// sprite tiles are arranged column-major
			tn := tile + (tx/8)*hTiles + ty/8
			cIdx := v.spritePixel(tn, tx&7, ty&7)
			if cIdx == 0 {
				continue
			}
			v.putPixel(sx, sy, pal*16+cIdx)
		}
	}
}

func (v *video) spritePixel(tile, tx, ty int) int {
	addr := (tile*32 + ty*4 + tx/2) & (vramSize - 1)
	b := v.vram[addr]
	if tx&1 == 0 {
		return int(b >> 4)
	}
	return int(b & 0x0F)
}

func (v *video) putPixel(x, y, colorIdx int) {
	r, g, b := v.color(colorIdx)
	off := (y*ScreenWidth + x) * 4
	v.frame[off] = r
	v.frame[off+1] = g
	v.frame[off+2] = b
	v.frame[off+3] = 0xFF
}

// Framebuffer returns the RGBA pixel data for the last rendered frame.
func (v *video) Framebuffer() []uint8 {
	return v.frame[:]
}
