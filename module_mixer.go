// module_mixer.go - Additive mixer module

package main

import "math"

// Mixer sums up to 8 inputs, each scaled by its own gain knob. Unpatched
// (NaN) inputs count as silence.
//
// Inputs:
//
//	0-7: the signals to mix
//
// Outputs:
//
//	0: the weighted sum
//
// Knobs:
//
//	0-7: per-input gain
type Mixer struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`
}

func NewMixer() *Mixer {
	return &Mixer{
		knobSet: knobSet{MKnobs: []float32{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0}},
	}
}

func (m *Mixer) Inputs() int  { return 8 }
func (m *Mixer) Outputs() int { return 1 }
func (m *Mixer) Knobs() int   { return 8 }

func (m *Mixer) Step(time float64, st StepType, ins []float32) []float32 {
	var sum float32
	for i, in := range ins {
		if math.IsNaN(float64(in)) {
			continue
		}
		sum += in * m.MKnobs[i]
	}
	return []float32{sum}
}
