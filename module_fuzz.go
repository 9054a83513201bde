// module_fuzz.go - Exponential fuzz distortion module

package main

import "math"

// Fuzz applies an exponential waveshaper to its input.
//
// Inputs:
//
//	0: the signal to distort
//
// Outputs:
//
//	0: the distorted signal
//
// Knobs:
//
//	0: distortion in [0.0, inf)
//	1: volume in [0.0, 1.0]
//	2: dry/wet mix in [0.0, 1.0]
type Fuzz struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`
}

func NewFuzz() *Fuzz {
	return &Fuzz{
		knobSet: knobSet{MKnobs: []float32{1.0, 1.0, 1.0}},
	}
}

func (m *Fuzz) Inputs() int  { return 1 }
func (m *Fuzz) Outputs() int { return 1 }
func (m *Fuzz) Knobs() int   { return 3 }

func (m *Fuzz) Step(time float64, st StepType, ins []float32) []float32 {
	distortion := float64(m.MKnobs[0])
	volume := float64(m.MKnobs[1])
	mix := float64(m.MKnobs[2])

	x := float64(ins[0])
	if x == 0.0 {
		return []float32{0.0}
	}
	if distortion == 0.0 {
		return []float32{float32(x * volume * (1.0 - mix))}
	}

	y := x / math.Abs(x) * (1.0 - math.Exp(distortion*x*x/math.Abs(x)))
	if math.IsInf(y, 0) {
		if mix == 0.0 {
			return []float32{float32(x * volume)}
		}
		return []float32{math.MaxFloat32}
	}

	return []float32{float32(x*volume*(1.0-mix) + y*volume/distortion*mix)}
}
