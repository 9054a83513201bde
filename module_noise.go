// module_noise.go - Noise generator module

package main

import (
	"fmt"
	"math"
)

// The white generator reuses the maximal-length 23-bit LFSR (taps 23,18)
// rather than math/rand so that a seeded rack replays identically.
const (
	NOISE_LFSR_SEED = 0x7FFFFF
	NOISE_LFSR_MASK = 0x7FFFFF
)

// Noise outputs a generated noise signal.
//
// Inputs: none.
// Outputs:
//
//	0: the noise signal in the range [-K0, K0]
//
// Knobs:
//
//	0: depth, equivalent to the gain
type Noise struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	Func string `yaml:"func"` // white or perlin

	lfsr uint32
}

func NewNoise() *Noise {
	return &Noise{
		knobSet: knobSet{MKnobs: []float32{1.0}},
		Func:    "white",
		lfsr:    NOISE_LFSR_SEED,
	}
}

func (m *Noise) Init() error {
	switch m.Func {
	case "white", "perlin":
	default:
		return fmt.Errorf("unknown noise func %q", m.Func)
	}
	return nil
}

func (m *Noise) Inputs() int  { return 0 }
func (m *Noise) Outputs() int { return 1 }
func (m *Noise) Knobs() int   { return 1 }

func (m *Noise) Step(time float64, st StepType, ins []float32) []float32 {
	if st == STEP_VIDEO {
		return []float32{0.0}
	}

	switch m.Func {
	case "perlin":
		return []float32{float32(perlin1D(time)) * m.MKnobs[0]}
	default:
		newBit := ((m.lfsr >> 22) ^ (m.lfsr >> 17)) & 1
		m.lfsr = ((m.lfsr << 1) | newBit) & NOISE_LFSR_MASK
		return []float32{(float32(m.lfsr&1)*2.0 - 1.0) * m.MKnobs[0]}
	}
}

// perlin1D is classic one-dimensional gradient noise over unit lattice
// cells, smoothed with the quintic fade curve. Output is roughly [-1, 1].
func perlin1D(t float64) float64 {
	x0 := math.Floor(t)
	x1 := x0 + 1.0
	d0 := t - x0
	d1 := t - x1

	g0 := latticeGradient(int64(x0))
	g1 := latticeGradient(int64(x1))

	u := d0 * d0 * d0 * (d0*(d0*6.0-15.0) + 10.0)
	return (1.0-u)*g0*d0 + u*g1*d1
}

// latticeGradient hashes a lattice coordinate to a gradient in [-2, 2].
func latticeGradient(x int64) float64 {
	h := uint64(x) * 0x9E3779B97F4A7C15
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	return float64(int64(h%9)-4) / 2.0
}
