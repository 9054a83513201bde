//go:build !headless

// audio_input_portaudio.go - PortAudio capture device

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"fmt"

	pa "github.com/gordonklaus/portaudio"
)

const CAPTURE_FRAMES = 512 // Frames per capture callback

// PortAudioInput captures mono samples from the default input device and
// appends them to the pipeline's capture buffer from the callback thread.
type PortAudioInput struct {
	stream *pa.Stream
}

func NewAudioInputDevice(sampleRate int, buf *captureBuffer) (AudioInput, error) {
	if err := pa.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	stream, err := pa.OpenDefaultStream(1, 0, float64(sampleRate), CAPTURE_FRAMES,
		func(in []float32) {
			buf.Append(in)
		})
	if err != nil {
		_ = pa.Terminate()
		return nil, fmt.Errorf("opening capture stream: %w", err)
	}
	return &PortAudioInput{stream: stream}, nil
}

func (i *PortAudioInput) Start() error {
	return i.stream.Start()
}

func (i *PortAudioInput) Close() error {
	if i.stream != nil {
		_ = i.stream.Stop()
		if err := i.stream.Close(); err != nil {
			return err
		}
		i.stream = nil
	}
	return pa.Terminate()
}
