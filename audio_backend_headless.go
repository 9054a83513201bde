//go:build headless

// audio_backend_headless.go - No-op output device for headless builds

package main

// HeadlessOutput discards everything; the ring simply fills and wraps.
type HeadlessOutput struct {
	ring *StereoRing
}

func NewAudioOutputDevice(sampleRate int, ring *StereoRing) (AudioOutput, error) {
	return &HeadlessOutput{ring: ring}, nil
}

func (o *HeadlessOutput) Start() error { return nil }
func (o *HeadlessOutput) Close() error { return nil }
