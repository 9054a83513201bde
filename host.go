// host.go - Rack hosting: load, frame glue and live reload

package main

import (
	"log"
	"os"
	"time"
)

const RELOAD_POLL_INTERVAL = time.Second // Config mtime poll cadence

// Host owns an engine and the rack file it was loaded from. When watching,
// it polls the file's mtime and swaps in the new rack on change; a rack that
// fails to load is logged and the old one keeps running.
type Host struct {
	engine   *Engine
	rackPath string
	watch    bool
	mtime    time.Time
	lastPoll time.Time
}

func NewHost(rackPath string, watch bool) (*Host, error) {
	rack, mode, err := LoadRack(rackPath)
	if err != nil {
		return nil, err
	}
	h := &Host{
		engine:   NewEngine(rack, mode, SAMPLE_RATE),
		rackPath: rackPath,
		watch:    watch,
	}
	if st, err := os.Stat(rackPath); err == nil {
		h.mtime = st.ModTime()
	}
	return h, nil
}

func (h *Host) Engine() *Engine {
	return h.engine
}

// Frame checks for a config change at most once per poll interval, then runs
// one engine frame.
func (h *Host) Frame() error {
	if h.watch && time.Since(h.lastPoll) >= RELOAD_POLL_INTERVAL {
		h.lastPoll = time.Now()
		h.maybeReload()
	}
	return h.engine.Frame()
}

func (h *Host) maybeReload() {
	st, err := os.Stat(h.rackPath)
	if err != nil || !st.ModTime().After(h.mtime) {
		return
	}
	h.mtime = st.ModTime()
	rack, mode, err := LoadRack(h.rackPath)
	if err != nil {
		log.Printf("reload %s: %v", h.rackPath, err)
		return
	}
	h.engine.SwapRack(rack, mode)
	log.Printf("reloaded %s", h.rackPath)
}

func (h *Host) Close() {
	h.engine.Close()
}
