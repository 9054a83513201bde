//go:build headless

// audio_input_headless.go - Capture stub for headless builds

package main

import "errors"

// Headless builds never capture; the pipeline treats this like a missing
// device and leaves audio-in modules silent.
func NewAudioInputDevice(sampleRate int, buf *captureBuffer) (AudioInput, error) {
	return nil, errors.New("no capture device in headless builds")
}
