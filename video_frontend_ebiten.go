//go:build !headless

// video_frontend_ebiten.go - Ebiten presentation frontend

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Each presenting module gets one panel, laid out in a fixed grid.
const (
	PANEL_W   = 320
	PANEL_H   = 240
	PANEL_COL = 3
	PANEL_ROW = 3
)

type ebitenFrontend struct {
	host   *Host
	panels []Presentation
}

// RunFrontend opens the presentation window and drives the engine from
// ebiten's update loop, locked to FRAME_RATE ticks per second.
func RunFrontend(h *Host) error {
	ebiten.SetWindowSize(PANEL_W*PANEL_COL, PANEL_H*PANEL_ROW)
	ebiten.SetWindowTitle("Vince")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetTPS(FRAME_RATE)
	return ebiten.RunGame(&ebitenFrontend{host: h})
}

func (f *ebitenFrontend) Update() error {
	if ebiten.IsWindowBeingClosed() || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if err := f.host.Frame(); err != nil {
		return err
	}
	f.panels = f.host.Engine().Present()
	return nil
}

func (f *ebitenFrontend) Draw(screen *ebiten.Image) {
	for i, p := range f.panels {
		if i >= PANEL_COL*PANEL_ROW {
			break
		}
		x := (i % PANEL_COL) * PANEL_W
		y := (i / PANEL_COL) * PANEL_H
		f.drawPanel(screen, x, y, p)
	}
}

func (f *ebitenFrontend) drawPanel(screen *ebiten.Image, x, y int, p Presentation) {
	face := basicfont.Face7x13
	titleColor := color.RGBA{0, 220, 90, 255}
	lineColor := color.RGBA{190, 190, 190, 255}
	waveColor := color.RGBA{0, 180, 255, 255}

	ebitenutil.DrawRect(screen, float64(x), float64(y), PANEL_W, PANEL_H, color.RGBA{16, 16, 16, 255})
	text.Draw(screen, p.Title, face, x+6, y+16, titleColor)

	baseline := y + 32
	for _, line := range p.Lines {
		if baseline >= y+PANEL_H-4 {
			break
		}
		text.Draw(screen, line, face, x+6, baseline, lineColor)
		baseline += 13
	}

	if len(p.Wave) > 1 {
		mid := float64(y) + PANEL_H/2
		half := float64(PANEL_H)/2 - 8
		dx := float64(PANEL_W-12) / float64(len(p.Wave)-1)
		for i := 1; i < len(p.Wave); i++ {
			x0 := float64(x+6) + float64(i-1)*dx
			x1 := float64(x+6) + float64(i)*dx
			y0 := mid - float64(p.Wave[i-1])*half
			y1 := mid - float64(p.Wave[i])*half
			ebitenutil.DrawLine(screen, x0, y0, x1, y1, waveColor)
		}
	}

	if p.Image != nil {
		img := ebiten.NewImageFromImage(p.Image)
		opts := &ebiten.DrawImageOptions{}
		w := p.Image.Rect.Dx()
		h := p.Image.Rect.Dy()
		sx := float64(PANEL_W-12) / float64(w)
		sy := float64(PANEL_H-40) / float64(h)
		if sy < sx {
			sx = sy
		}
		opts.GeoM.Scale(sx, sx)
		opts.GeoM.Translate(float64(x+6), float64(y+24))
		screen.DrawImage(img, opts)
	}
}

func (f *ebitenFrontend) Layout(_, _ int) (int, int) {
	return PANEL_W * PANEL_COL, PANEL_H * PANEL_ROW
}
