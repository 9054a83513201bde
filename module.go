// module.go - Module contract, capability interfaces and the kind registry

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"image"
	"sort"
)

// StepType tags which of the three nested rates a tick belongs to.
type StepType int

const (
	STEP_KEY   StepType = iota // Once per outer frame
	STEP_AUDIO                 // Once per output sample
	STEP_VIDEO                 // VIDEO_STEPS subdivisions of each audio step
)

func (st StepType) String() string {
	switch st {
	case STEP_KEY:
		return "Key"
	case STEP_AUDIO:
		return "Audio"
	case STEP_VIDEO:
		return "Video"
	}
	return "Unknown"
}

// Module is a stateful signal-processing unit with fixed input, output and
// knob arity. Step must return exactly Outputs() values given exactly
// Inputs() values, must not block, and must not perform I/O. A NaN input
// means the port is unpatched or its source has not produced a value yet
// this tick; each module decides how to interpret that.
type Module interface {
	ID() int
	SetID(id int)
	Name() string

	Inputs() int
	Outputs() int
	Knobs() int
	Knob(i int) float32
	SetKnob(i int, val float32)

	Step(time float64, st StepType, ins []float32) []float32
}

// AudioSource is implemented by modules that buffer real-time audio for the
// pipeline instead of writing to a device directly. DrainAudioBuffer removes
// and returns all stereo pairs accumulated since the last drain.
type AudioSource interface {
	Module
	DrainAudioBuffer() [][2]float32
}

// AudioSink is implemented by modules that consume captured audio. The
// pipeline appends drained capture samples before the module is stepped.
type AudioSink interface {
	Module
	ExtendAudioBuffer(samples []float32)
}

// Presenter is implemented by modules that expose presentation state to the
// renderer. Present is called once per outer frame, after all ticks, and
// must return a snapshot safe to read outside the tick thread.
type Presenter interface {
	Module
	Present() Presentation
}

// ExitHandler is implemented by modules holding external resources. Exit runs
// once during rack teardown, before the audio context is released.
type ExitHandler interface {
	Module
	Exit()
}

// Observer is implemented by metadata pseudo-modules that receive resolved
// values of whole-module ("<id>M") patches at the end of each tick.
type Observer interface {
	Module
	Observe(src ModuleKey, val float32)
}

// Presentation is a module's renderable state. The frontend decides how much
// of it to draw; unused fields stay zero.
type Presentation struct {
	Title string
	Lines []string
	Wave  []float32   // recent samples, oldest first
	Image *image.RGBA // raster output
}

// modBase carries the identity fields shared by every module kind.
type modBase struct {
	MName string `yaml:"name"`
	id    int
}

func (b *modBase) ID() int      { return b.id }
func (b *modBase) SetID(id int) { b.id = id }
func (b *modBase) Name() string { return b.MName }

// knobSet is the live knob storage shared by every module kind. Constructors
// fill it with the kind's defaults; the config decoder may overwrite it with
// an array of exactly the declared length.
type knobSet struct {
	MKnobs []float32 `yaml:"knobs"`
}

func (k *knobSet) Knob(i int) float32         { return k.MKnobs[i] }
func (k *knobSet) SetKnob(i int, val float32) { k.MKnobs[i] = val }
func (k *knobSet) knobCount() int             { return len(k.MKnobs) }

// Initializer is implemented by modules that validate variant fields or
// acquire external resources at rack load. A non-nil error is fatal: the
// rack does not start.
type Initializer interface {
	Module
	Init() error
}

// moduleKinds is the closed set of module kinds, keyed by the config type
// tag. Constructors return a module with default state, ready for the YAML
// decoder to fill variant fields.
var moduleKinds = map[string]func() Module{
	"oscillator":          func() Module { return NewOscillator() },
	"noise":               func() Module { return NewNoise() },
	"mixer":               func() Module { return NewMixer() },
	"multiplier":          func() Module { return NewMultiplier() },
	"envelope-generator":  func() Module { return NewEnvelopeGenerator() },
	"sequencer":           func() Module { return NewSequencer() },
	"delay":               func() Module { return NewDelay() },
	"fuzz":                func() Module { return NewFuzz() },
	"limiter":             func() Module { return NewLimiter() },
	"audio-out":           func() Module { return NewAudioOut() },
	"audio-in":            func() Module { return NewAudioIn() },
	"oscilloscope":        func() Module { return NewOscilloscope() },
	"component-video-out": func() Module { return NewComponentVideoOut() },
	"midi-in":             func() Module { return NewMidiIn() },
	"script":              func() Module { return NewScript() },
}

// NewModuleOfKind returns a fresh module for the given type tag.
func NewModuleOfKind(kind string) (Module, error) {
	ctor, ok := moduleKinds[kind]
	if !ok {
		return nil, fmt.Errorf("unknown module type %q (known: %v)", kind, knownKinds())
	}
	return ctor(), nil
}

func knownKinds() []string {
	kinds := make([]string, 0, len(moduleKinds))
	for k := range moduleKinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
