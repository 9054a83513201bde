// module_oscillator.go - Wave generator module

package main

import (
	"fmt"
	"math"
)

// Oscillator outputs a generated wave with a given gain.
//
// Inputs: none.
// Outputs:
//
//	0: the wave signal in the range [-K2, K2]
//
// Knobs:
//
//	0: shift, affects the signal vertically
//	1: speed, equivalent to the period
//	2: depth, equivalent to the gain
//	3: phase, affects the signal horizontally
//
// The sync modes reset the phase against the video raster: "horizontal"
// resets every video frame, "vertical" every video line.
type Oscillator struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	Func string `yaml:"func"` // sine, triangle, square or saw
	Sync string `yaml:"sync"` // none, horizontal or vertical

	syncPhase float64
	syncCount int
}

func NewOscillator() *Oscillator {
	return &Oscillator{
		knobSet: knobSet{MKnobs: []float32{0.0, 1.0, 1.0, 0.0}},
		Func:    "sine",
		Sync:    "none",
	}
}

func (m *Oscillator) Init() error {
	switch m.Func {
	case "sine", "triangle", "square", "saw":
	default:
		return fmt.Errorf("unknown oscillator func %q", m.Func)
	}
	switch m.Sync {
	case "", "none", "horizontal", "vertical":
	default:
		return fmt.Errorf("unknown oscillator sync %q", m.Sync)
	}
	return nil
}

func (m *Oscillator) Inputs() int  { return 0 }
func (m *Oscillator) Outputs() int { return 1 }
func (m *Oscillator) Knobs() int   { return 4 }

func (m *Oscillator) Step(time float64, st StepType, ins []float32) []float32 {
	t := time
	shift := float64(m.MKnobs[0])
	speed := float64(m.MKnobs[1])
	depth := float64(m.MKnobs[2])

	switch m.Sync {
	case "horizontal": // Reset every video frame
		if m.syncCount%(CVO_WIDTH*CVO_HEIGHT) == 0 {
			m.resetSyncPhase(t, speed)
		}
	case "vertical": // Reset every video line
		if m.syncCount%CVO_WIDTH == 0 {
			m.resetSyncPhase(t, speed)
		}
	default:
		m.syncPhase = 0.0
		m.syncCount = 0
	}
	phase := float64(m.MKnobs[3]) + m.syncPhase

	var val float64
	switch m.Func {
	case "sine":
		val = math.Sin(speed*t*2.0*math.Pi-phase)*depth + shift
	case "triangle":
		val = 2.0/math.Pi*depth*math.Asin(math.Sin(speed*t*2.0*math.Pi-phase)) + shift
	case "square":
		if math.Sin(speed*t*2.0*math.Pi-phase) >= 0.0 {
			val = depth + shift
		} else {
			val = -depth + shift
		}
	case "saw":
		tp := (t - phase) * speed
		val = 2.0*(tp-math.Floor(0.5+tp))*depth + shift
	}

	m.syncCount++

	return []float32{float32(val)}
}

func (m *Oscillator) resetSyncPhase(t, speed float64) {
	if m.Func == "saw" {
		m.syncPhase = t
	} else {
		m.syncPhase = speed * t * 2.0 * math.Pi
	}
	m.syncCount = 0
}
