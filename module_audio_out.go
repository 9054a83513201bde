// module_audio_out.go - Stereo output buffer module

package main

import (
	"fmt"
	"math"
)

// AudioOut buffers its two inputs as stereo pairs for the pipeline to drain.
// If the right channel is NaN (unpatched), the left channel is doubled; an
// unpatched left channel mutes the pair. Video steps produce no samples.
//
// Inputs:
//
//	0: the left channel of the audio signal
//	1: the right channel of the audio signal
//
// Outputs: none.
// Knobs:
//
//	0: gain in [0.0, inf)
type AudioOut struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	buffer [][2]float32
}

func NewAudioOut() *AudioOut {
	return &AudioOut{
		knobSet: knobSet{MKnobs: []float32{1.0}},
	}
}

func (m *AudioOut) Inputs() int  { return 2 }
func (m *AudioOut) Outputs() int { return 0 }
func (m *AudioOut) Knobs() int   { return 1 }

func (m *AudioOut) Step(time float64, st StepType, ins []float32) []float32 {
	if st == STEP_VIDEO {
		return nil
	}

	gain := m.MKnobs[0]
	left := ins[0] * gain
	if math.IsNaN(float64(left)) {
		left = 0.0
	}
	right := left
	if !math.IsNaN(float64(ins[1])) {
		right = ins[1] * gain
	}
	m.buffer = append(m.buffer, [2]float32{left, right})

	return nil
}

func (m *AudioOut) DrainAudioBuffer() [][2]float32 {
	out := m.buffer
	m.buffer = nil
	return out
}

func (m *AudioOut) Present() Presentation {
	title := m.Name()
	if title == "" {
		title = fmt.Sprintf("M%d Audio Out", m.ID())
	}
	return Presentation{
		Title: title,
		Lines: []string{fmt.Sprintf("K0 Gain: %v", m.MKnobs[0])},
	}
}
