// module_oscilloscope.go - Signal graphing module

package main

import (
	"fmt"
	"math"
)

const SCOPE_LEN = 2048 // Samples kept for display

// Oscilloscope records its input as a graph of values over time. It produces
// nothing; the renderer consumes the trace through Present.
//
// Inputs:
//
//	0: the signal to graph
//
// Outputs: none.
// Knobs: none.
type Oscilloscope struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	trace []float32
}

func NewOscilloscope() *Oscilloscope {
	return &Oscilloscope{}
}

func (m *Oscilloscope) Inputs() int  { return 1 }
func (m *Oscilloscope) Outputs() int { return 0 }
func (m *Oscilloscope) Knobs() int   { return 0 }

func (m *Oscilloscope) Step(time float64, st StepType, ins []float32) []float32 {
	if st == STEP_VIDEO || math.IsNaN(float64(ins[0])) {
		return nil
	}
	if len(m.trace) == SCOPE_LEN {
		copy(m.trace, m.trace[1:])
		m.trace = m.trace[:SCOPE_LEN-1]
	}
	m.trace = append(m.trace, ins[0])
	return nil
}

func (m *Oscilloscope) Present() Presentation {
	title := m.Name()
	if title == "" {
		title = fmt.Sprintf("M%d Oscilloscope", m.ID())
	}
	wave := make([]float32, len(m.trace))
	copy(wave, m.trace)
	return Presentation{Title: title, Wave: wave}
}
