// module_midi_in.go - MIDI note input module

package main

import (
	"log"
	"math"
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

// MidiIn outputs the most recent note from a MIDI input device, using the
// same trigger protocol as the sequencer so an envelope generator can be
// patched directly behind it. A missing device is tolerated: the module
// stays silent.
//
// Inputs: none.
// Outputs:
//
//	0: the note's frequency (NaN before the first note arrives)
//	1: the note's velocity in [0.0, 1.0]
//	2: the trigger: +1.0 when just pressed, -1.0 when just released, 0.0 otherwise
//
// Knobs: none.
type MidiIn struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	Port string `yaml:"port"` // substring of the device name; empty means first available

	mu       sync.Mutex // guards state written by the MIDI driver thread
	freq     float32
	velocity float32
	pending  float32 // trigger edge not yet consumed by a step
	hasNote  bool
	key      uint8

	stop func()
}

func NewMidiIn() *MidiIn {
	return &MidiIn{}
}

func (m *MidiIn) Init() error {
	in, err := midi.FindInPort(m.Port)
	if err != nil {
		log.Printf("midi-in %d: no MIDI device matching %q, module will be silent: %v", m.ID(), m.Port, err)
		return nil
	}

	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			m.mu.Lock()
			m.freq = noteFrequency(key)
			m.velocity = float32(vel) / 127.0
			m.pending = 1.0
			m.hasNote = true
			m.key = key
			m.mu.Unlock()
		case msg.GetNoteOff(&ch, &key, &vel):
			m.mu.Lock()
			if m.hasNote && key == m.key {
				m.velocity = 0.0
				m.pending = -1.0
			}
			m.mu.Unlock()
		}
	})
	if err != nil {
		log.Printf("midi-in %d: listen failed, module will be silent: %v", m.ID(), err)
		return nil
	}
	m.stop = stop
	return nil
}

func (m *MidiIn) Exit() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}

func (m *MidiIn) Inputs() int  { return 0 }
func (m *MidiIn) Outputs() int { return 3 }
func (m *MidiIn) Knobs() int   { return 0 }

func (m *MidiIn) Step(time float64, st StepType, ins []float32) []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasNote {
		return []float32{float32(math.NaN()), 0.0, 0.0}
	}
	trigger := m.pending
	m.pending = 0.0
	return []float32{m.freq, m.velocity, trigger}
}

// noteFrequency converts a MIDI key number to Hz (equal temperament, A4=440).
func noteFrequency(key uint8) float32 {
	return float32(440.0 * math.Pow(2.0, (float64(key)-69.0)/12.0))
}
