// rack_test.go - Fixed-point scheduler tests

package main

import (
	"math"
	"testing"
)

// testMod is a minimal module with configurable arity for scheduler tests.
type testMod struct {
	modBase
	knobSet
	ins, outs int
	fn        func(m *testMod, t float64, st StepType, ins []float32) []float32
	calls     int
	got       [][]float32
}

func (m *testMod) Inputs() int  { return m.ins }
func (m *testMod) Outputs() int { return m.outs }
func (m *testMod) Knobs() int   { return len(m.MKnobs) }

func (m *testMod) Step(t float64, st StepType, ins []float32) []float32 {
	m.calls++
	m.got = append(m.got, append([]float32(nil), ins...))
	if m.fn == nil {
		return make([]float32, m.outs)
	}
	return m.fn(m, t, st, ins)
}

func constMod(v float32) *testMod {
	return &testMod{outs: 1, fn: func(_ *testMod, _ float64, _ StepType, _ []float32) []float32 {
		return []float32{v}
	}}
}

func passMod() *testMod {
	return &testMod{ins: 1, outs: 1, fn: func(_ *testMod, _ float64, _ StepType, ins []float32) []float32 {
		return []float32{ins[0]}
	}}
}

type exitMod struct {
	testMod
	exited bool
}

func (m *exitMod) Exit() { m.exited = true }

func outKey(id, port int) ModuleKey {
	return ModuleKey{ID: id, Kind: PORT_OUTPUT, Port: port}
}

func inKey(id, port int) ModuleKey {
	return ModuleKey{ID: id, Kind: PORT_INPUT, Port: port}
}

func TestRack_ConstantIntoPassthrough(t *testing.T) {
	x := constMod(5.0)
	y := passMod()
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(1, 0))
	r := NewRack(map[int]Module{0: x, 1: y}, pt)

	r.Step(0.0, STEP_KEY)

	if v, ok := r.Out(outKey(0, 0)); !ok || v != 5.0 {
		t.Fatalf("source output cache got (%v, %v), expected (5, true)", v, ok)
	}
	if len(y.got) != 1 || y.got[0][0] != 5.0 {
		t.Fatalf("passthrough stepped with %v, expected [5]", y.got)
	}
	if v, ok := r.Out(outKey(1, 0)); !ok || v != 5.0 {
		t.Fatalf("passthrough output cache got (%v, %v), expected (5, true)", v, ok)
	}
}

func TestRack_TickStepsEveryModuleExactlyOnce(t *testing.T) {
	// A chain, a two-module cycle and an isolated module in the same rack.
	a := constMod(1.0)
	b := passMod()
	c := passMod()
	d := passMod()
	e := passMod()
	f := constMod(9.0)
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(1, 0))
	pt.Add(outKey(1, 0), inKey(2, 0))
	pt.Add(outKey(3, 0), inKey(4, 0))
	pt.Add(outKey(4, 0), inKey(3, 0))
	r := NewRack(map[int]Module{0: a, 1: b, 2: c, 3: d, 4: e, 5: f}, pt)

	for tick := 1; tick <= 3; tick++ {
		r.Step(float64(tick), STEP_AUDIO)
		for id, m := range []*testMod{a, b, c, d, e, f} {
			if m.calls != tick {
				t.Fatalf("tick %d: module %d stepped %d times, expected %d", tick, id, m.calls, tick)
			}
		}
	}
}

func TestRack_UnpatchedInputIsNaN(t *testing.T) {
	y := passMod()
	r := NewRack(map[int]Module{0: y}, make(PatchTable))

	r.Step(0.0, STEP_KEY)
	r.Step(1.0, STEP_KEY)

	for tick, ins := range y.got {
		if !math.IsNaN(float64(ins[0])) {
			t.Fatalf("tick %d: unpatched input got %v, expected NaN", tick, ins[0])
		}
	}
}

func TestRack_FanOutDeliversIdenticalValues(t *testing.T) {
	x := constMod(2.5)
	y1 := passMod()
	y2 := passMod()
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(1, 0))
	pt.Add(outKey(0, 0), inKey(2, 0))
	r := NewRack(map[int]Module{0: x, 1: y1, 2: y2}, pt)

	r.Step(0.0, STEP_KEY)

	if y1.got[0][0] != 2.5 || y2.got[0][0] != 2.5 {
		t.Fatalf("fan-out delivered %v and %v, expected 2.5 to both", y1.got[0][0], y2.got[0][0])
	}
}

func TestRack_SelfFeedbackReadsPreviousTick(t *testing.T) {
	z := &testMod{ins: 1, outs: 1, fn: func(_ *testMod, _ float64, _ StepType, ins []float32) []float32 {
		if math.IsNaN(float64(ins[0])) {
			return []float32{7.0}
		}
		return []float32{ins[0] + 1.0}
	}}
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(0, 0))
	r := NewRack(map[int]Module{0: z}, pt)

	r.Step(0.0, STEP_KEY)
	if !math.IsNaN(float64(z.got[0][0])) {
		t.Fatalf("tick 1: feedback input got %v, expected NaN", z.got[0][0])
	}

	r.Step(1.0, STEP_KEY)
	if z.got[1][0] != 7.0 {
		t.Fatalf("tick 2: feedback input got %v, expected previous output 7", z.got[1][0])
	}
	if v, _ := r.Out(outKey(0, 0)); v != 8.0 {
		t.Fatalf("tick 2 output got %v, expected 8", v)
	}
}

func TestRack_MutualCycleBreaksWithNaN(t *testing.T) {
	// Each member doubles its input; a NaN input (the cycle breaker) seeds 7.
	mk := func() *testMod {
		return &testMod{ins: 1, outs: 1, fn: func(_ *testMod, _ float64, _ StepType, ins []float32) []float32 {
			if math.IsNaN(float64(ins[0])) {
				return []float32{7.0}
			}
			return []float32{ins[0] * 2.0}
		}}
	}
	a := mk()
	b := mk()
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(1, 0))
	pt.Add(outKey(1, 0), inKey(0, 0))
	r := NewRack(map[int]Module{0: a, 1: b}, pt)

	r.Step(0.0, STEP_KEY)
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("cycle tick stepped (%d, %d) times, expected once each", a.calls, b.calls)
	}
	// Scan order is sorted ids: the first member reads the materialized NaN,
	// and its fresh output makes the second member ready within the same
	// scan, so the second reads 7, not NaN.
	if !math.IsNaN(float64(a.got[0][0])) {
		t.Fatalf("first cycle member got %v, expected the materialized NaN", a.got[0][0])
	}
	if b.got[0][0] != 7.0 {
		t.Fatalf("second cycle member got %v, expected the first's fresh 7", b.got[0][0])
	}

	// Warm tick: the first member reads the second's cached output, the
	// second again reads the first's same-tick value.
	r.Step(1.0, STEP_KEY)
	if a.got[1][0] != 14.0 {
		t.Fatalf("warm tick: first member got %v, expected the cached 14", a.got[1][0])
	}
	if b.got[1][0] != 28.0 {
		t.Fatalf("warm tick: second member got %v, expected the same-tick 28", b.got[1][0])
	}
}

func TestRack_KnobFeedbackAppliesNextStep(t *testing.T) {
	var knobsSeen []float32
	b := &testMod{
		knobSet: knobSet{MKnobs: []float32{1.0}},
	}
	b.fn = func(m *testMod, _ float64, _ StepType, _ []float32) []float32 {
		knobsSeen = append(knobsSeen, m.MKnobs[0])
		return nil
	}
	a := constMod(3.0)
	pt := make(PatchTable)
	pt.Add(outKey(2, 0), ModuleKey{ID: 1, Kind: PORT_KNOB, Port: 0})
	r := NewRack(map[int]Module{1: b, 2: a}, pt)

	r.Step(0.0, STEP_KEY)
	r.Step(1.0, STEP_KEY)

	if len(knobsSeen) != 2 {
		t.Fatalf("knob owner stepped %d times, expected 2", len(knobsSeen))
	}
	if knobsSeen[0] != 1.0 {
		t.Fatalf("tick 1 saw knob %v, expected the default 1", knobsSeen[0])
	}
	if knobsSeen[1] != 3.0 {
		t.Fatalf("tick 2 saw knob %v, expected the patched 3", knobsSeen[1])
	}
}

func TestRack_DeterministicScanOrder(t *testing.T) {
	var order []int
	mk := func() *testMod {
		m := &testMod{outs: 1}
		m.fn = func(m *testMod, _ float64, _ StepType, _ []float32) []float32 {
			order = append(order, m.ID())
			return []float32{0.0}
		}
		return m
	}
	r := NewRack(map[int]Module{5: mk(), 1: mk(), 3: mk()}, make(PatchTable))

	for tick := 0; tick < 10; tick++ {
		order = order[:0]
		r.Step(float64(tick), STEP_KEY)
		if len(order) != 3 || order[0] != 1 || order[1] != 3 || order[2] != 5 {
			t.Fatalf("tick %d scan order %v, expected [1 3 5]", tick, order)
		}
	}
}

func TestRack_NaNOutputPurgedFromCache(t *testing.T) {
	x := constMod(float32(math.NaN()))
	r := NewRack(map[int]Module{0: x}, make(PatchTable))

	r.Step(0.0, STEP_KEY)

	if _, ok := r.Out(outKey(0, 0)); ok {
		t.Fatalf("NaN output survived the end-of-tick purge")
	}
}

func TestRack_WholeModulePatchFeedsObserver(t *testing.T) {
	x := constMod(5.0)
	info := NewInfo()
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), ModuleKey{ID: 1, Kind: PORT_NONE})
	r := NewRack(map[int]Module{0: x, 1: info}, pt)

	r.Step(0.0, STEP_KEY)

	if v, ok := info.observed[outKey(0, 0)]; !ok || v != 5.0 {
		t.Fatalf("observer got (%v, %v), expected (5, true)", v, ok)
	}
}

func TestRack_TeardownRunsExitHooks(t *testing.T) {
	m := &exitMod{}
	m.outs = 1
	r := NewRack(map[int]Module{0: m}, make(PatchTable))

	r.Teardown()

	if !m.exited {
		t.Fatalf("exit hook did not run during teardown")
	}
}

func TestRack_ArityMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic on output arity mismatch")
		}
	}()
	bad := &testMod{outs: 2, fn: func(_ *testMod, _ float64, _ StepType, _ []float32) []float32 {
		return []float32{1.0}
	}}
	r := NewRack(map[int]Module{0: bad}, make(PatchTable))
	r.Step(0.0, STEP_KEY)
}

func TestRack_ClassifiesAudioEndpointsAtBuild(t *testing.T) {
	in := NewAudioIn()
	out := NewAudioOut()
	osc := NewOscillator()
	r := NewRack(map[int]Module{0: osc, 1: out, 2: in}, make(PatchTable))

	sinks := r.Sinks()
	if len(sinks) != 1 || sinks[0] != AudioSink(in) {
		t.Fatalf("sinks are %v, expected just the audio-in module", sinks)
	}
	sources := r.Sources()
	if len(sources) != 1 || sources[0] != AudioSource(out) {
		t.Fatalf("sources are %v, expected just the audio-out module", sources)
	}
}

func BenchmarkRackStep(b *testing.B) {
	osc := NewOscillator()
	osc.Func = "saw"
	noise := NewNoise()
	mixer := NewMixer()
	delay := NewDelay()
	fuzz := NewFuzz()
	limiter := NewLimiter()
	out := NewAudioOut()

	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(2, 0))
	pt.Add(outKey(1, 0), inKey(2, 1))
	pt.Add(outKey(2, 0), inKey(3, 0))
	pt.Add(outKey(3, 0), inKey(4, 0))
	pt.Add(outKey(4, 0), inKey(5, 0))
	pt.Add(outKey(5, 0), inKey(6, 0))
	r := NewRack(map[int]Module{0: osc, 1: noise, 2: mixer, 3: delay, 4: fuzz, 5: limiter, 6: out}, pt)

	ad := 1.0 / float64(SAMPLE_RATE)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Step(float64(i)*ad, STEP_AUDIO)
	}
	b.ReportMetric(float64(b.N), "ticks")
}
