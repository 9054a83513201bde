// module_component_video_out.go - RGB raster output module

package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// The raster is scanned one pixel per Video step, left to right, top to
// bottom, wrapping at the bottom-right corner.
const (
	CVO_WIDTH  = 80
	CVO_HEIGHT = 60
)

// ComponentVideoOut takes three color inputs and displays them on a
// CVO_WIDTH x CVO_HEIGHT screen. A step with all three inputs NaN leaves the
// raster cursor untouched; individually unpatched channels read as 0.
//
// Inputs:
//
//	0: red channel in [0.0, 1.0]
//	1: green channel in [0.0, 1.0]
//	2: blue channel in [0.0, 1.0]
//
// Outputs: none.
// Knobs: none.
type ComponentVideoOut struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	raster *image.RGBA
	cursor int
}

func NewComponentVideoOut() *ComponentVideoOut {
	return &ComponentVideoOut{
		raster: image.NewRGBA(image.Rect(0, 0, CVO_WIDTH, CVO_HEIGHT)),
	}
}

func (m *ComponentVideoOut) Inputs() int  { return 3 }
func (m *ComponentVideoOut) Outputs() int { return 0 }
func (m *ComponentVideoOut) Knobs() int   { return 0 }

func (m *ComponentVideoOut) Step(time float64, st StepType, ins []float32) []float32 {
	r, g, b := float64(ins[0]), float64(ins[1]), float64(ins[2])
	if math.IsNaN(r) && math.IsNaN(g) && math.IsNaN(b) {
		return nil
	}

	m.raster.SetRGBA(m.cursor%CVO_WIDTH, m.cursor/CVO_WIDTH, color.RGBA{
		R: clampByte(r),
		G: clampByte(g),
		B: clampByte(b),
		A: 0xFF,
	})
	m.cursor = (m.cursor + 1) % (CVO_WIDTH * CVO_HEIGHT)

	return nil
}

func (m *ComponentVideoOut) Present() Presentation {
	title := m.Name()
	if title == "" {
		title = fmt.Sprintf("M%d Component Video Out", m.ID())
	}
	frame := image.NewRGBA(m.raster.Rect)
	copy(frame.Pix, m.raster.Pix)
	return Presentation{Title: title, Image: frame}
}

func clampByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0.0 {
		return 0
	}
	if v >= 1.0 {
		return 0xFF
	}
	return uint8(v * 255.0)
}
