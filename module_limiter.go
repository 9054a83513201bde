// module_limiter.go - Hard limiter module

package main

// Limiter restricts its input to the given bounds. When the bounds cross
// (lower >= upper), values caught between them snap to the nearest bound.
//
// Inputs:
//
//	0: the signal to limit
//
// Outputs:
//
//	0: the limited signal
//
// Knobs:
//
//	0: lower limit
//	1: upper limit
type Limiter struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`
}

func NewLimiter() *Limiter {
	return &Limiter{
		knobSet: knobSet{MKnobs: []float32{-1.0, 1.0}},
	}
}

func (m *Limiter) Inputs() int  { return 1 }
func (m *Limiter) Outputs() int { return 1 }
func (m *Limiter) Knobs() int   { return 2 }

func (m *Limiter) Step(time float64, st StepType, ins []float32) []float32 {
	lower := m.MKnobs[0]
	upper := m.MKnobs[1]
	x := ins[0]

	if lower < upper {
		if x > upper {
			return []float32{upper}
		}
		if x < lower {
			return []float32{lower}
		}
		return []float32{x}
	}
	if x < lower && x > upper {
		if lower-x <= x-upper {
			return []float32{lower}
		}
		return []float32{upper}
	}
	return []float32{x}
}
