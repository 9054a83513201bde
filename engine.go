// engine.go - The multi-rate time base driving the rack scheduler

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

/*
One outer frame multiplexes three nested rates from a single free-running
clock: exactly one Key step, then sampleRate/FRAME_RATE - 1 Audio steps each
advancing the clock by one sample period, and in video mode VIDEO_STEPS
Video sub-steps inside every Audio step. The clock is seeded once from an
external elapsed-time source and advanced purely by computed deltas from
then on, so render jitter never leaks into module timing.
*/

package main

import (
	"fmt"
	"time"
)

const (
	FRAME_RATE  = 60  // Outer frames per second
	VIDEO_STEPS = 209 // Video sub-steps per audio step in video mode
)

// EngineMode selects which rates the time base drives.
type EngineMode int

const (
	MODE_AUDIO EngineMode = iota // Key + Audio steps
	MODE_VIDEO                   // Key + Audio + Video steps
)

// ParseEngineMode maps a config mode string to an EngineMode. An unknown
// mode is a fatal configuration error.
func ParseEngineMode(s string) (EngineMode, error) {
	switch s {
	case "", "audio":
		return MODE_AUDIO, nil
	case "video":
		return MODE_VIDEO, nil
	}
	return 0, fmt.Errorf("unknown engine mode %q (want audio or video)", s)
}

// Engine owns the rack under evaluation, the audio pipeline and the clock.
// All device handles live here; there are no process-wide statics.
type Engine struct {
	rack     *Rack
	pipeline *AudioPipeline
	mode     EngineMode

	sampleRate int
	clock      float64
	seeded     bool

	// elapsed supplies the one-time clock seed. Overridable in tests.
	elapsed func() float64
}

func NewEngine(rack *Rack, mode EngineMode, sampleRate int) *Engine {
	start := time.Now()
	return &Engine{
		rack:       rack,
		pipeline:   NewAudioPipeline(sampleRate),
		mode:       mode,
		sampleRate: sampleRate,
		elapsed:    func() float64 { return time.Since(start).Seconds() },
	}
}

// Rack returns the rack under evaluation.
func (e *Engine) Rack() *Rack {
	return e.rack
}

// Pipeline returns the engine's audio pipeline.
func (e *Engine) Pipeline() *AudioPipeline {
	return e.pipeline
}

// Frame runs every tick belonging to one outer frame, then drains the rack's
// audio into the pipeline. The only fatal error is a missing output device.
func (e *Engine) Frame() error {
	if err := e.pipeline.EnsureStarted(); err != nil {
		return fmt.Errorf("audio output is mandatory: %w", err)
	}
	if !e.seeded {
		e.clock = e.elapsed()
		e.seeded = true
	}

	audioSteps := e.sampleRate / FRAME_RATE
	ad := 1.0 / float64(e.sampleRate)
	t := e.clock

	e.tick(t, STEP_KEY)
	for i := 1; i < audioSteps; i++ {
		at := t + float64(i)*ad
		e.tick(at, STEP_AUDIO)
		if e.mode == MODE_VIDEO {
			vd := ad / VIDEO_STEPS
			for j := 1; j < VIDEO_STEPS; j++ {
				e.tick(at+float64(j)*vd, STEP_VIDEO)
			}
		}
	}
	e.clock = t + float64(audioSteps)*ad

	e.pipeline.Collect(e.rack)
	return nil
}

// tick distributes pending capture and steps the whole rack once.
func (e *Engine) tick(t float64, st StepType) {
	e.pipeline.Distribute(e.rack)
	e.rack.Step(t, st)
}

// Present collects presentation state from every presenting module, in scan
// order. Called once per outer frame, after all ticks.
func (e *Engine) Present() []Presentation {
	var frames []Presentation
	for _, m := range e.rack.Modules() {
		if p, ok := m.(Presenter); ok {
			frames = append(frames, p.Present())
		}
	}
	return frames
}

// SwapRack atomically replaces the rack: the old rack's exit hooks run and
// the audio context is torn down before the new rack takes over. Devices
// reopen lazily on the next frame.
func (e *Engine) SwapRack(rack *Rack, mode EngineMode) {
	e.rack.Teardown()
	e.pipeline.Close()
	e.pipeline = NewAudioPipeline(e.sampleRate)
	e.rack = rack
	e.mode = mode
}

// Close tears the engine down for good.
func (e *Engine) Close() {
	e.rack.Teardown()
	e.pipeline.Close()
}
