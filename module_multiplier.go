// module_multiplier.go - Two-input multiplier module

package main

// Multiplier outputs the product of its two inputs. NaN propagates: an
// unpatched factor poisons the product, which downstream modules interpret
// as "no value".
//
// Inputs:
//
//	0: the first factor
//	1: the second factor
//
// Outputs:
//
//	0: the product
//
// Knobs: none.
type Multiplier struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`
}

func NewMultiplier() *Multiplier {
	return &Multiplier{}
}

func (m *Multiplier) Inputs() int  { return 2 }
func (m *Multiplier) Outputs() int { return 1 }
func (m *Multiplier) Knobs() int   { return 0 }

func (m *Multiplier) Step(time float64, st StepType, ins []float32) []float32 {
	return []float32{ins[0] * ins[1]}
}
