// module_delay.go - Feedback delay line module

package main

import "math"

// Delay applies a feedback delay to its input. The delay line is resized on
// the fly when the delay knob moves.
//
// Inputs:
//
//	0: the signal to delay
//
// Outputs:
//
//	0: the delayed signal
//
// Knobs:
//
//	0: delay in seconds, (0.0, inf)
//	1: feedback in [0.0, 1.0]
//	2: dry/wet mix in [0.0, 1.0]
type Delay struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	buffer []float32
	idx    int
}

func NewDelay() *Delay {
	return &Delay{
		knobSet: knobSet{MKnobs: []float32{0.25, 0.5, 0.5}},
	}
}

func (m *Delay) Inputs() int  { return 1 }
func (m *Delay) Outputs() int { return 1 }
func (m *Delay) Knobs() int   { return 3 }

func (m *Delay) Step(time float64, st StepType, ins []float32) []float32 {
	x := ins[0]
	if math.IsNaN(float64(x)) {
		return []float32{float32(math.NaN())}
	}

	delay := m.MKnobs[0]
	feedback := m.MKnobs[1]
	mix := m.MKnobs[2]

	// A modulated delay knob can swing negative or NaN; both collapse the
	// line to zero length instead of producing a negative slice bound.
	buflen := 0
	if delay > 0 {
		buflen = int(delay * SAMPLE_RATE)
	}
	for len(m.buffer) < buflen {
		m.buffer = append(m.buffer, 0.0)
	}
	if len(m.buffer) > buflen {
		m.buffer = m.buffer[:buflen]
	}

	var delayed float32
	if buflen > 0 {
		m.idx %= buflen
		delayed = m.buffer[m.idx]
		m.buffer[m.idx] = feedback * (x + delayed)
	}
	m.idx++

	return []float32{x*(1.0-mix) + delayed*mix}
}
