//go:build !headless

// midi_driver_rtmidi.go - rtmidi driver registration for device builds

package main

import (
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)
