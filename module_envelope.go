// module_envelope.go - Attack/decay/sustain/release envelope module

package main

import (
	"log"
	"math"
)

const ENV_EPSILON = 1e-7 // Levels below this snap to zero

// EnvelopeGenerator shapes a level according to a trigger protocol.
//
// Inputs:
//
//	0: the envelope's max level
//	1: the trigger: +1.0 when just pressed, -1.0 when just released, 0.0 otherwise
//
// Outputs:
//
//	0: the envelope's level
//
// Knobs:
//
//	0: attack time in seconds
//	1: decay time in seconds
//	2: sustain level
//	3: release time in seconds
type EnvelopeGenerator struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	attacked   bool
	attackedAt float64
	released   bool
	releasedAt float64
}

func NewEnvelopeGenerator() *EnvelopeGenerator {
	return &EnvelopeGenerator{
		knobSet: knobSet{MKnobs: []float32{0.01, 0.05, 0.8, 0.2}},
	}
}

func (m *EnvelopeGenerator) Inputs() int  { return 2 }
func (m *EnvelopeGenerator) Outputs() int { return 1 }
func (m *EnvelopeGenerator) Knobs() int   { return 4 }

func (m *EnvelopeGenerator) Step(time float64, st StepType, ins []float32) []float32 {
	attack := float64(m.MKnobs[0])
	decay := float64(m.MKnobs[1])
	sustain := float64(m.MKnobs[2])
	release := float64(m.MKnobs[3])

	x := float64(ins[0])
	asr := ins[1]
	if asr != 1.0 && asr != 0.0 && asr != -1.0 && !math.IsNaN(float64(asr)) {
		log.Printf("envelope %d: invalid trigger input %v", m.ID(), asr)
	}

	var y float64
	switch {
	case m.attacked && m.released:
		switch asr {
		case 1.0:
			m.attackedAt = time
			m.released = false
		case -1.0:
			log.Printf("envelope %d: released while already released", m.ID())
		default:
			rdt := time - m.releasedAt
			if rdt < release {
				level := x * sustain
				y = level - rdt*level/release
			}
		}

	case m.attacked:
		switch asr {
		case 1.0:
			m.attackedAt = time
		case -1.0:
			m.released = true
			m.releasedAt = time
		default:
			adt := time - m.attackedAt
			switch {
			case adt < attack:
				y = adt * x / attack
			case adt-attack < decay:
				ddt := adt - attack
				y = x + ddt/decay*(sustain-x)
				if y < sustain {
					y = sustain
				}
			default:
				y = sustain
			}
		}

	default:
		switch asr {
		case 1.0:
			m.attacked = true
			m.attackedAt = time
		case -1.0:
			log.Printf("envelope %d: released before being triggered", m.ID())
		}
		// Leave y at 0.0: that is where the envelope starts
	}

	if math.Abs(y) < ENV_EPSILON || math.IsNaN(y) {
		y = 0.0
	}
	return []float32{float32(y)}
}
