// module_sequencer.go - Looping note sequencer module

package main

import (
	"fmt"
	"math"
)

// Sequencer outputs notes from its sequence at the given tempo, looping when
// done. Note durations are in beats.
//
// Inputs: none.
// Outputs:
//
//	0: the note's frequency
//	1: the note's level
//	2: the trigger: +1.0 when just pressed, -1.0 when just released, 0.0 otherwise
//
// Knobs:
//
//	0: tempo in beats per minute, (0.0, inf)
type Sequencer struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	Notes [][3]float32 `yaml:"notes"` // each entry is (frequency, level, beats)

	lastNote int
	time     float64
	lastTime float64
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		knobSet:  knobSet{MKnobs: []float32{120.0}},
		lastNote: -1,
	}
}

func (m *Sequencer) Init() error {
	if len(m.Notes) == 0 {
		return fmt.Errorf("sequencer needs at least one note")
	}
	for i, n := range m.Notes {
		if n[2] <= 0.0 {
			return fmt.Errorf("sequencer note %d: duration must be positive, got %v", i, n[2])
		}
	}
	return nil
}

func (m *Sequencer) Inputs() int  { return 0 }
func (m *Sequencer) Outputs() int { return 3 }
func (m *Sequencer) Knobs() int   { return 1 }

func (m *Sequencer) Step(time float64, st StepType, ins []float32) []float32 {
	tempo := float64(m.MKnobs[0])
	if tempo == 0.0 {
		nan := float32(math.NaN())
		return []float32{nan, nan, nan}
	}

	var length float64
	for _, n := range m.Notes {
		length += float64(n[2])
	}

	m.time += time - m.lastTime
	m.time = math.Mod(m.time, length*60.0/tempo)
	m.lastTime = time

	var freq, level, trigger float32
	timeLeft := m.time
	for i, n := range m.Notes {
		timeLeft -= float64(n[2]) * 60.0 / tempo
		if timeLeft >= 0.0 {
			continue
		}
		freq, level = n[0], n[1]
		switch {
		case m.lastNote == i:
			trigger = 0.0
		case n[1] == 0.0: // A rest releases the previous note
			trigger = -1.0
		default:
			trigger = 1.0
		}
		m.lastNote = i
		break
	}

	return []float32{freq, level, trigger}
}
