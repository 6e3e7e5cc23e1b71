// Classic one-player pong: W/S or the arrow keys move the left paddle,
// the console plays the right one. First to 10 wins.
package main

import (
	"flag"
	"log"

	"github.com/user-none/go-smd/bus"
	"github.com/user-none/go-smd/pad"
	"github.com/user-none/go-smd/psg"
	"github.com/user-none/go-smd/sprite"
	"github.com/user-none/go-smd/ui"
	"github.com/user-none/go-smd/vdp"
)

const (
	paddleHeight = 32
	paddleSpeed  = 4
	ballSize     = 8
	ballSpeed    = 3

	leftMargin   = 16
	rightMargin  = 304
	topMargin    = 16
	bottomMargin = 208

	winningScore = 10
)

// Tile indexes.
const (
	tilePaddleTop = 1 // 1-4 stack into an 8x32 paddle
	tileDash      = 5
	tileBall      = 6
	tileSolid     = 7
)

type paddle struct {
	x, y  int
	score int
}

type ball struct {
	x, y   int
	dx, dy int
}

type game struct {
	vdp *vdp.Chip
	snd *psg.Chip
	pad *pad.Pad
	spr *sprite.Table

	p1, p2 paddle
	ball   ball

	frame      int
	soundTimer int
}

func main() {
	flag.IntVar(&ui.WindowScale, "scale", ui.WindowScale, "window size as a multiple of 320x224")
	flag.Parse()

	if err := ui.Run("Pong", run); err != nil {
		log.Fatal(err)
	}
}

func run(b bus.Bus) {
	v := vdp.New(b)
	g := &game{
		vdp: v,
		snd: psg.New(b),
		pad: pad.New(b, 0),
		spr: sprite.New(v),
		p1:  paddle{x: 16, y: 96},
		p2:  paddle{x: 296, y: 96},
	}
	g.resetBall()

	g.vdp.Init()
	g.snd.Init()
	g.pad.Init()
	g.spr.Init()

	g.vdp.SetColor(0, vdp.Black)
	g.vdp.SetColor(1, vdp.White)
	loadTiles(g.vdp)

	g.waitForStart()

	g.drawCenterLine()
	g.drawScores()

	for g.p1.score < winningScore && g.p2.score < winningScore {
		g.vdp.VSync()
		g.pad.Update()

		p1Before, p2Before := g.p1.score, g.p2.score

		g.updatePaddles()
		g.updateBall()
		g.render()
		g.updateSound()

		if g.p1.score != p1Before || g.p2.score != p2Before {
			g.drawScores()
		}
		g.frame++
	}

	// game over, leave the final score up
	for {
		g.vdp.VSync()
	}
}

func loadTiles(v *vdp.Chip) {
	const (
		hollow = 0x10000001
		solid  = 0x11111111
		dot    = 0x00011000
	)

	top := [8]uint32{solid, hollow, hollow, hollow, hollow, hollow, hollow, hollow}
	mid := [8]uint32{hollow, hollow, hollow, hollow, hollow, hollow, hollow, hollow}
	bot := [8]uint32{hollow, hollow, hollow, hollow, hollow, hollow, hollow, solid}
	dash := [8]uint32{dot, dot, 0, 0, dot, dot, 0, 0}
	ballDot := [8]uint32{0, 0, 0, dot, dot, 0, 0, 0}
	fill := [8]uint32{solid, solid, solid, solid, solid, solid, solid, solid}

	v.LoadTiles(tilePaddleTop, top[:])
	v.LoadTiles(tilePaddleTop+1, mid[:])
	v.LoadTiles(tilePaddleTop+2, mid[:])
	v.LoadTiles(tilePaddleTop+3, bot[:])
	v.LoadTiles(tileDash, dash[:])
	v.LoadTiles(tileBall, ballDot[:])
	v.LoadTiles(tileSolid, fill[:])
}

// waitForStart shows the title text and blocks until Start is pressed.
func (g *game) waitForStart() {
	drawText(g.vdp, 8, 10, "READY?")
	drawText(g.vdp, 2, 17, "PUSH")
	drawText(g.vdp, 20, 17, "START")

	for {
		g.vdp.VSync()
		g.pad.Update()
		if g.pad.Pressed().Contains(pad.Start) {
			break
		}
	}

	clearTextRow(g.vdp, 8, 10, 24)
	clearTextRow(g.vdp, 2, 17, 38)
}

func (g *game) resetBall() {
	g.ball.x = 156
	g.ball.y = 108
	g.ball.dx = ballSpeed
	if g.frame&1 == 0 {
		g.ball.dx = -ballSpeed
	}
	g.ball.dy = 2
}

func (g *game) updatePaddles() {
	held := g.pad.Held()
	if held.Contains(pad.Up) {
		g.p1.y -= paddleSpeed
	}
	if held.Contains(pad.Down) {
		g.p1.y += paddleSpeed
	}
	g.p1.y = clamp(g.p1.y, topMargin, bottomMargin-paddleHeight)

	// right paddle tracks the ball once it crosses the center line
	if g.ball.x > 160 {
		if g.p2.y+paddleHeight/2 < g.ball.y {
			g.p2.y += 3
		} else if g.p2.y+paddleHeight/2 > g.ball.y {
			g.p2.y -= 3
		}
	}
	g.p2.y = clamp(g.p2.y, topMargin, bottomMargin-paddleHeight)
}

func (g *game) updateBall() {
	const paddleWidth = 8

	g.ball.x += g.ball.dx
	g.ball.y += g.ball.dy

	if g.ball.y < topMargin {
		g.ball.y = topMargin
		g.ball.dy = -g.ball.dy
		g.playWallBounce()
	}
	if g.ball.y > bottomMargin-ballSize {
		g.ball.y = bottomMargin - ballSize
		g.ball.dy = -g.ball.dy
		g.playWallBounce()
	}

	if g.ball.x < g.p1.x+paddleWidth && g.ball.x > g.p1.x-ballSize &&
		g.ball.y+ballSize > g.p1.y && g.ball.y < g.p1.y+paddleHeight {
		g.ball.x = g.p1.x + paddleWidth
		g.ball.dx = -g.ball.dx
		g.playPaddleHit()
	}

	if g.ball.x+ballSize > g.p2.x && g.ball.x < g.p2.x+paddleWidth &&
		g.ball.y+ballSize > g.p2.y && g.ball.y < g.p2.y+paddleHeight {
		g.ball.x = g.p2.x - ballSize
		g.ball.dx = -g.ball.dx
		g.playPaddleHit()
	}

	if g.ball.x < leftMargin {
		g.p2.score++
		g.playScore()
		g.resetBall()
	}
	if g.ball.x > rightMargin {
		g.p1.score++
		g.playScore()
		g.resetBall()
	}
}

func (g *game) render() {
	g.spr.Set(0, sprite.Sprite{
		X: int16(g.p1.x), Y: int16(g.p1.y),
		Size: sprite.Size1x4, Tile: tilePaddleTop,
	})
	g.spr.Set(1, sprite.Sprite{
		X: int16(g.p2.x), Y: int16(g.p2.y),
		Size: sprite.Size1x4, Tile: tilePaddleTop,
	})
	g.spr.Set(2, sprite.Sprite{
		X: int16(g.ball.x), Y: int16(g.ball.y),
		Size: sprite.Size1x1, Tile: tileBall,
	})
}

// --- Sound effects ---

func (g *game) playPaddleHit() {
	g.snd.Beep(psg.Tone0, 880, 2)
	g.soundTimer = 4
}

func (g *game) playWallBounce() {
	g.snd.Beep(psg.Tone0, 440, 4)
	g.soundTimer = 3
}

func (g *game) playScore() {
	g.snd.Beep(psg.Tone0, 220, 0)
	g.soundTimer = 15
}

func (g *game) updateSound() {
	if g.soundTimer > 0 {
		g.soundTimer--
		if g.soundTimer == 0 {
			g.snd.Stop()
		}
	}
}

// --- Court and score drawing ---

func (g *game) drawCenterLine() {
	for y := 0; y < 28; y++ {
		g.vdp.SetTileA(20, y, tileDash)
	}
}

func (g *game) drawScores() {
	drawGlyph(g.vdp, 8, 2, digitGlyph(g.p1.score))
	drawGlyph(g.vdp, 28, 2, digitGlyph(g.p2.score))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
