// audio_ring.go - Bounded stereo ring buffer between the tick thread and the device callback

package main

import "sync"

// StereoRing is a bounded FIFO of stereo frames. The engine tick writes
// whole blocks; the device callback reads whatever it needs. Neither side
// ever blocks: writes overwrite the oldest pending frames when full, reads
// come back as silence when empty.
type StereoRing struct {
	mu    sync.Mutex
	buf   [][2]float32
	head  int // index of the oldest frame
	count int
}

func NewStereoRing(frames int) *StereoRing {
	return &StereoRing{buf: make([][2]float32, frames)}
}

// WriteBlock appends frames, advancing past the oldest pending output when
// the ring is full. Glitching stale audio beats stalling the tick loop.
func (r *StereoRing) WriteBlock(frames [][2]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(frames) > len(r.buf) {
		frames = frames[len(frames)-len(r.buf):]
	}
	for _, f := range frames {
		if r.count == len(r.buf) {
			r.head = (r.head + 1) % len(r.buf)
			r.count--
		}
		r.buf[(r.head+r.count)%len(r.buf)] = f
		r.count++
	}
}

// ReadFrames fills dst with pending frames, zero-filling whatever the ring
// cannot supply, and returns the number of real frames delivered.
func (r *StereoRing) ReadFrames(dst [][2]float32) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(dst)
	if n > r.count {
		n = r.count
	}
	for i := 0; i < n; i++ {
		dst[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.head = (r.head + n) % len(r.buf)
	r.count -= n
	for i := n; i < len(dst); i++ {
		dst[i] = [2]float32{}
	}
	return n
}

// Len returns the number of pending frames.
func (r *StereoRing) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}
