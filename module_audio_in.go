// module_audio_in.go - Captured-audio source module

package main

// AudioIn plays back whatever the capture device recorded, one sample per
// Key or Audio step. When starved (no input device, or ticks outpacing
// capture) it outputs silence rather than NaN.
//
// Inputs: none.
// Outputs:
//
//	0: the captured signal
//
// Knobs:
//
//	0: gain in [0.0, inf)
type AudioIn struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	buffer []float32
	head   int
}

func NewAudioIn() *AudioIn {
	return &AudioIn{
		knobSet: knobSet{MKnobs: []float32{1.0}},
	}
}

func (m *AudioIn) Inputs() int  { return 0 }
func (m *AudioIn) Outputs() int { return 1 }
func (m *AudioIn) Knobs() int   { return 1 }

func (m *AudioIn) ExtendAudioBuffer(samples []float32) {
	// Compact the consumed prefix before growing
	if m.head > 0 {
		m.buffer = append(m.buffer[:0], m.buffer[m.head:]...)
		m.head = 0
	}
	m.buffer = append(m.buffer, samples...)
}

func (m *AudioIn) Step(time float64, st StepType, ins []float32) []float32 {
	if st == STEP_VIDEO {
		return []float32{0.0}
	}
	if m.head >= len(m.buffer) {
		return []float32{0.0}
	}
	s := m.buffer[m.head]
	m.head++
	return []float32{s * m.MKnobs[0]}
}
