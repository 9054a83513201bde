// audio_pipeline.go - Mixing, dynamic-range compression and device plumbing

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

/*
Output path: every AudioSource module's buffer is drained once per outer
frame and mixed additively, sample by sample. Mixed frames accumulate into a
fixed-size block; each full block is tamed with Reinhard tone mapping (the
sum of several hot signals clips hard otherwise) and enqueued on the ring
that the hardware callback drains at the device's native rate. Partial
blocks persist across frames.

Input path: the capture callback appends mono samples under a mutex. The
engine tick drains that buffer with a try-lock - if the callback holds the
lock right now, this tick simply leaves the audio for the next one - and
hands the samples to every AudioSink module before it is stepped.

Devices are opened lazily on the first frame. The output device is
mandatory; a missing input device only means audio-in modules stay silent.
*/

package main

import (
	"log"
	"math"
	"sync"
)

const (
	SAMPLE_RATE = 44100          // Device sample rate
	BLOCK_SIZE  = 4096           // Stereo frames per compressed block
	RING_FRAMES = BLOCK_SIZE * 4 // Ring capacity; ~370ms at 44.1kHz
	OUTPUT_GAIN = 0.1            // -20 dB, the headroom left after tone mapping
)

// AudioOutput is the playback device behind the ring buffer.
type AudioOutput interface {
	Start() error
	Close() error
}

// AudioInput is the optional capture device feeding the capture buffer.
type AudioInput interface {
	Start() error
	Close() error
}

// captureBuffer collects samples appended by the real-time capture callback.
type captureBuffer struct {
	mu      sync.Mutex
	samples []float32
}

// Append is called from the capture callback thread.
func (b *captureBuffer) Append(samples []float32) {
	b.mu.Lock()
	b.samples = append(b.samples, samples...)
	b.mu.Unlock()
}

// TryDrain removes and returns all pending samples, or reports false without
// blocking if the callback currently holds the lock.
func (b *captureBuffer) TryDrain() ([]float32, bool) {
	if !b.mu.TryLock() {
		return nil, false
	}
	defer b.mu.Unlock()
	if len(b.samples) == 0 {
		return nil, true
	}
	out := b.samples
	b.samples = nil
	return out, true
}

type AudioPipeline struct {
	sampleRate int

	ring   *StereoRing
	block  [][2]float32 // partial block, persists across frames
	blocks uint64       // full blocks compressed and enqueued so far

	capture captureBuffer

	output  AudioOutput
	input   AudioInput
	started bool
}

func NewAudioPipeline(sampleRate int) *AudioPipeline {
	return &AudioPipeline{
		sampleRate: sampleRate,
		ring:       NewStereoRing(RING_FRAMES),
		block:      make([][2]float32, 0, BLOCK_SIZE),
	}
}

// EnsureStarted opens the audio devices on first use. Failure to open the
// output device is fatal; a missing input device is logged and tolerated.
func (p *AudioPipeline) EnsureStarted() error {
	if p.started {
		return nil
	}

	out, err := NewAudioOutputDevice(p.sampleRate, p.ring)
	if err != nil {
		return err
	}
	if err := out.Start(); err != nil {
		return err
	}
	p.output = out

	in, err := NewAudioInputDevice(p.sampleRate, &p.capture)
	if err != nil {
		log.Printf("audio: no input device, audio-in modules will be silent: %v", err)
	} else if err := in.Start(); err != nil {
		log.Printf("audio: input device failed to start, audio-in modules will be silent: %v", err)
	} else {
		p.input = in
	}

	p.started = true
	return nil
}

// Distribute hands captured audio to every audio-in module. Called once per
// tick, before the rack is stepped.
func (p *AudioPipeline) Distribute(r *Rack) {
	samples, ok := p.capture.TryDrain()
	if !ok || len(samples) == 0 {
		return
	}
	for _, sink := range r.Sinks() {
		sink.ExtendAudioBuffer(samples)
	}
}

// Collect drains every audio-out module and mixes the results additively,
// then pushes the mixed frames towards the device.
func (p *AudioPipeline) Collect(r *Rack) {
	var mixed [][2]float32
	for _, src := range r.Sources() {
		for i, f := range src.DrainAudioBuffer() {
			if i < len(mixed) {
				mixed[i][0] += f[0]
				mixed[i][1] += f[1]
			} else {
				mixed = append(mixed, f)
			}
		}
	}
	p.pushFrames(mixed)
}

// pushFrames accumulates mixed frames and flushes every completed block
// through the compressor into the ring.
func (p *AudioPipeline) pushFrames(frames [][2]float32) {
	p.block = append(p.block, frames...)
	for len(p.block) >= BLOCK_SIZE {
		full := p.block[:BLOCK_SIZE]
		for i := range full {
			full[i][0] = reinhard(full[i][0]) * OUTPUT_GAIN
			full[i][1] = reinhard(full[i][1]) * OUTPUT_GAIN
		}
		p.ring.WriteBlock(full)
		p.blocks++

		rest := p.block[BLOCK_SIZE:]
		p.block = make([][2]float32, len(rest), BLOCK_SIZE)
		copy(p.block, rest)
	}
}

// reinhard tone-maps a sample so that arbitrarily hot sums stay inside
// (-1, 1) while quiet signals pass nearly untouched.
func reinhard(x float32) float32 {
	return x / (1.0 + float32(math.Abs(float64(x))))
}

// BlocksEnqueued returns how many full blocks have been compressed and
// enqueued since the pipeline started.
func (p *AudioPipeline) BlocksEnqueued() uint64 {
	return p.blocks
}

// Pending returns the size of the partial block accumulator.
func (p *AudioPipeline) Pending() int {
	return len(p.block)
}

// Close releases both devices. Called during rack teardown; the next rack
// reopens lazily.
func (p *AudioPipeline) Close() {
	if p.input != nil {
		if err := p.input.Close(); err != nil {
			log.Printf("audio: input close: %v", err)
		}
		p.input = nil
	}
	if p.output != nil {
		if err := p.output.Close(); err != nil {
			log.Printf("audio: output close: %v", err)
		}
		p.output = nil
	}
	p.started = false
}
