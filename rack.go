// rack.go - Rack graph evaluation: the per-tick fixed-point scheduler

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

/*
One call to Step evaluates every module in the rack exactly once. Dependency
resolution is iterative rather than recursive so that feedback patches can
never recurse forever: a module is steppable once every patch feeding it has
a present entry in the output cache, and a full scan that steps nothing
proves the remaining modules form a cycle, which is broken by materializing
NaN for every still-missing source key. Termination is therefore structural,
bounded by the module count, not detected.

The output cache persists across ticks. A feedback patch reads NaN on the
very first tick and the previous tick's value once warm. NaN entries are
purged at the end of each tick so that "present" means "produced at some
point", never "permanently stuck at the sentinel".
*/

package main

import (
	"fmt"
	"math"
	"sort"
)

type Rack struct {
	modules map[int]Module
	order   []int // module ids, ascending; fixed scan order

	patches PatchTable
	edges   []Patch         // deterministic edge list derived from patches
	inbound map[int][]Patch // input and knob edges keyed by destination module id

	// outs caches the latest value of every output port. It persists across
	// ticks; stale NaN placeholders are removed at the end of each tick.
	outs map[ModuleKey]float32

	// Audio endpoints in scan order, classified once at build so the
	// per-tick capture and mix paths never walk or allocate the module list.
	sinks   []AudioSink
	sources []AudioSource
}

// NewRack assembles a rack from its modules and patch table. Module ids are
// assigned onto the modules themselves so they can report their identity.
func NewRack(modules map[int]Module, patches PatchTable) *Rack {
	r := &Rack{
		modules: modules,
		patches: patches,
		edges:   patches.Edges(),
		inbound: make(map[int][]Patch),
		outs:    make(map[ModuleKey]float32),
	}
	for id, m := range modules {
		m.SetID(id)
		r.order = append(r.order, id)
	}
	sort.Ints(r.order)
	for _, id := range r.order {
		if sink, ok := modules[id].(AudioSink); ok {
			r.sinks = append(r.sinks, sink)
		}
		if src, ok := modules[id].(AudioSource); ok {
			r.sources = append(r.sources, src)
		}
	}
	for _, p := range r.edges {
		if p.Dst.Kind == PORT_INPUT || p.Dst.Kind == PORT_KNOB {
			r.inbound[p.Dst.ID] = append(r.inbound[p.Dst.ID], p)
		}
	}
	return r
}

// Modules returns the rack's modules in scan order.
func (r *Rack) Modules() []Module {
	mods := make([]Module, 0, len(r.order))
	for _, id := range r.order {
		mods = append(mods, r.modules[id])
	}
	return mods
}

// Module returns the module with the given id, or nil.
func (r *Rack) Module(id int) Module {
	return r.modules[id]
}

// Sinks returns the audio-in modules in scan order.
func (r *Rack) Sinks() []AudioSink {
	return r.sinks
}

// Sources returns the audio-out modules in scan order.
func (r *Rack) Sources() []AudioSource {
	return r.sources
}

// Out reads the cached value of an output port.
func (r *Rack) Out(key ModuleKey) (float32, bool) {
	v, ok := r.outs[key]
	return v, ok
}

// hasInboundInput reports whether any patch feeds one of the module's input
// ports. Knob patches do not count: a module whose inputs are all unpatched
// belongs in the zero-dependency pass even when its knobs are modulated.
func (r *Rack) hasInboundInput(id int) bool {
	for _, p := range r.inbound[id] {
		if p.Dst.Kind == PORT_INPUT {
			return true
		}
	}
	return false
}

// ready reports whether every patch feeding the module has a present cache
// entry for its source.
func (r *Rack) ready(id int) bool {
	for _, p := range r.inbound[id] {
		if _, ok := r.outs[p.Src]; !ok {
			return false
		}
	}
	return true
}

// stepModule builds the module's input vector, applies any resolved knob
// patches, steps it once and records its outputs.
func (r *Rack) stepModule(id int, m Module, time float64, st StepType) {
	ins := make([]float32, m.Inputs())
	for i := range ins {
		ins[i] = float32(math.NaN())
	}
	for _, p := range r.inbound[id] {
		v, ok := r.outs[p.Src]
		switch p.Dst.Kind {
		case PORT_INPUT:
			if ok {
				ins[p.Dst.Port] = v
			}
		case PORT_KNOB:
			if ok && !math.IsNaN(float64(v)) {
				m.SetKnob(p.Dst.Port, v)
			}
		}
	}

	outs := m.Step(time, st, ins)
	if len(outs) != m.Outputs() {
		panic(fmt.Sprintf("module %d (%T) stepped to %d outputs, declared %d", id, m, len(outs), m.Outputs()))
	}
	for i, v := range outs {
		r.outs[ModuleKey{ID: id, Kind: PORT_OUTPUT, Port: i}] = v
	}
}

// Step evaluates the whole rack once at the given time and rate.
func (r *Rack) Step(time float64, st StepType) {
	stepped := make(map[int]bool, len(r.order))

	// Zero-dependency pass: modules with no inputs, or no patched inputs,
	// never wait on the cache.
	for _, id := range r.order {
		m := r.modules[id]
		if m.Inputs() == 0 || !r.hasInboundInput(id) {
			r.stepModule(id, m, time, st)
			stepped[id] = true
		}
	}

	// Iterative resolution. Each scan steps every module whose feeds are all
	// present. A scan without progress leaves only cycles; break them by
	// materializing NaN for every source key still missing, which makes the
	// next scan strictly productive.
	for len(stepped) < len(r.order) {
		progress := false
		for _, id := range r.order {
			if stepped[id] || !r.ready(id) {
				continue
			}
			r.stepModule(id, r.modules[id], time, st)
			stepped[id] = true
			progress = true
		}
		if !progress {
			for _, p := range r.edges {
				if _, ok := r.outs[p.Src]; !ok {
					r.outs[p.Src] = float32(math.NaN())
				}
			}
		}
	}

	// Knob-feedback pass: knobs fed from outputs resolved later in the tick
	// pick the value up now, in time for their owner's next step.
	for _, p := range r.edges {
		if p.Dst.Kind != PORT_KNOB {
			continue
		}
		if v, ok := r.outs[p.Src]; ok && !math.IsNaN(float64(v)) {
			if m, ok := r.modules[p.Dst.ID]; ok {
				m.SetKnob(p.Dst.Port, v)
			}
		}
	}

	// Whole-module patches carry resolved values to metadata observers.
	for _, p := range r.edges {
		if p.Dst.Kind != PORT_NONE {
			continue
		}
		if v, ok := r.outs[p.Src]; ok && !math.IsNaN(float64(v)) {
			if obs, ok := r.modules[p.Dst.ID].(Observer); ok {
				obs.Observe(p.Src, v)
			}
		}
	}

	// Purge cycle-breaking placeholders; real values persist into the next
	// tick so feedback reads "last tick" instead of deadlocking cold.
	for k, v := range r.outs {
		if math.IsNaN(float64(v)) {
			delete(r.outs, k)
		}
	}
}

// Teardown runs every module's exit hook. The caller releases the audio
// context afterwards; the two together are the all-or-nothing teardown that
// precedes a rack switch.
func (r *Rack) Teardown() {
	for _, id := range r.order {
		if h, ok := r.modules[id].(ExitHandler); ok {
			h.Exit()
		}
	}
}
