//go:build !headless

// audio_backend_oto.go - OTO v3 output device

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoOutput plays the pipeline's ring buffer through the default output
// device. It implements io.Reader; oto pulls interleaved float32 stereo
// frames from Read on its own real-time thread.
type OtoOutput struct {
	ctx       *oto.Context
	player    *oto.Player
	ring      *StereoRing
	sampleBuf []float32    // pre-allocated interleave buffer for the hot path
	frameBuf  [][2]float32 // pre-allocated frame buffer for ring reads
}

func NewAudioOutputDevice(sampleRate int, ring *StereoRing) (AudioOutput, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("opening output device: %w", err)
	}
	<-ready

	return &OtoOutput{
		ctx:       ctx,
		ring:      ring,
		sampleBuf: make([]float32, BLOCK_SIZE*2),
		frameBuf:  make([][2]float32, BLOCK_SIZE),
	}, nil
}

func (o *OtoOutput) Start() error {
	o.player = o.ctx.NewPlayer(o)
	o.player.Play()
	return nil
}

// Read runs on the device thread. The ring zero-fills on underrun, so the
// hardware hears silence rather than the tick loop feeling backpressure.
func (o *OtoOutput) Read(p []byte) (n int, err error) {
	frames := len(p) / 8 // 2 channels x 4 bytes
	if frames == 0 {
		return len(p), nil
	}

	if len(o.sampleBuf) < frames*2 {
		o.sampleBuf = make([]float32, frames*2)
	}
	if len(o.frameBuf) < frames {
		o.frameBuf = make([][2]float32, frames)
	}
	samples := o.sampleBuf[: frames*2 : frames*2]
	stereo := o.frameBuf[:frames]

	o.ring.ReadFrames(stereo)
	for i, f := range stereo {
		samples[2*i] = f[0]
		samples[2*i+1] = f[1]
	}

	copy(p[:frames*8], (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:frames*8])
	return frames * 8, nil
}

func (o *OtoOutput) Close() error {
	if o.player != nil {
		if err := o.player.Close(); err != nil {
			return err
		}
		o.player = nil
	}
	return nil
}
