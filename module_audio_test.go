// module_audio_test.go - Audio out/in, oscilloscope and video raster tests

package main

import (
	"math"
	"testing"
)

func TestAudioOut_BuffersStereoPairs(t *testing.T) {
	m := NewAudioOut()
	m.MKnobs[0] = 2.0
	nan := float32(math.NaN())

	m.Step(0.0, STEP_AUDIO, []float32{0.25, 0.5})
	m.Step(0.0, STEP_AUDIO, []float32{0.25, nan}) // unpatched right doubles left
	m.Step(0.0, STEP_AUDIO, []float32{nan, nan})  // unpatched left mutes
	m.Step(0.0, STEP_VIDEO, []float32{1.0, 1.0})  // video steps produce nothing

	got := m.DrainAudioBuffer()
	want := [][2]float32{{0.5, 1.0}, {0.5, 0.5}, {0.0, 0.0}}
	if len(got) != len(want) {
		t.Fatalf("buffered %d frames, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d is %v, expected %v", i, got[i], want[i])
		}
	}

	if again := m.DrainAudioBuffer(); len(again) != 0 {
		t.Fatalf("drain left %d frames behind", len(again))
	}
}

func TestAudioIn_PopsOneSamplePerStep(t *testing.T) {
	m := NewAudioIn()
	m.MKnobs[0] = 2.0
	m.ExtendAudioBuffer([]float32{0.5, 0.25})

	if got := m.Step(0.0, STEP_AUDIO, nil)[0]; got != 1.0 {
		t.Fatalf("first pop got %v, expected 1 (0.5 * gain 2)", got)
	}
	if got := m.Step(0.0, STEP_VIDEO, nil)[0]; got != 0.0 {
		t.Fatalf("video step got %v, expected 0 without consuming", got)
	}
	if got := m.Step(0.0, STEP_KEY, nil)[0]; got != 0.5 {
		t.Fatalf("second pop got %v, expected 0.5", got)
	}
	if got := m.Step(0.0, STEP_AUDIO, nil)[0]; got != 0.0 {
		t.Fatalf("starved step got %v, expected silence", got)
	}

	// New capture appends behind the consumed prefix.
	m.ExtendAudioBuffer([]float32{0.125})
	if got := m.Step(0.0, STEP_AUDIO, nil)[0]; got != 0.25 {
		t.Fatalf("post-append pop got %v, expected 0.25", got)
	}
}

func TestOscilloscope_TraceSlidesAtCapacity(t *testing.T) {
	m := NewOscilloscope()
	for i := 0; i < SCOPE_LEN+10; i++ {
		m.Step(float64(i), STEP_AUDIO, []float32{float32(i)})
	}

	p := m.Present()
	if len(p.Wave) != SCOPE_LEN {
		t.Fatalf("trace holds %d samples, expected %d", len(p.Wave), SCOPE_LEN)
	}
	if p.Wave[0] != 10.0 || p.Wave[SCOPE_LEN-1] != float32(SCOPE_LEN+9) {
		t.Fatalf("trace spans [%v, %v], expected the newest %d samples",
			p.Wave[0], p.Wave[SCOPE_LEN-1], SCOPE_LEN)
	}
}

func TestOscilloscope_SkipsNaNAndVideoSteps(t *testing.T) {
	m := NewOscilloscope()
	nan := float32(math.NaN())
	m.Step(0.0, STEP_AUDIO, []float32{1.0})
	m.Step(0.0, STEP_AUDIO, []float32{nan})
	m.Step(0.0, STEP_VIDEO, []float32{2.0})

	if p := m.Present(); len(p.Wave) != 1 {
		t.Fatalf("trace holds %d samples, expected only the real audio sample", len(p.Wave))
	}
}

func TestOscilloscope_PresentSnapshotIsIndependent(t *testing.T) {
	m := NewOscilloscope()
	m.Step(0.0, STEP_AUDIO, []float32{1.0})
	p := m.Present()
	p.Wave[0] = 99.0
	if m.Present().Wave[0] != 1.0 {
		t.Fatalf("mutating the snapshot leaked into the live trace")
	}
}

func TestComponentVideoOut_RasterScan(t *testing.T) {
	m := NewComponentVideoOut()
	nan := float32(math.NaN())

	m.Step(0.0, STEP_VIDEO, []float32{1.0, 0.0, 0.0}) // pixel (0,0) red
	m.Step(0.0, STEP_VIDEO, []float32{nan, nan, nan}) // cursor holds
	m.Step(0.0, STEP_VIDEO, []float32{0.0, 1.0, nan}) // pixel (1,0) green, NaN blue reads 0

	p := m.Present()
	r, g, b, a := p.Image.At(0, 0).RGBA()
	if r != 0xFFFF || g != 0 || b != 0 || a != 0xFFFF {
		t.Fatalf("pixel (0,0) is %v %v %v %v, expected pure red", r, g, b, a)
	}
	r, g, b, _ = p.Image.At(1, 0).RGBA()
	if r != 0 || g != 0xFFFF || b != 0 {
		t.Fatalf("pixel (1,0) is %v %v %v, expected pure green", r, g, b)
	}
}

func TestComponentVideoOut_CursorWrapsAtRasterEnd(t *testing.T) {
	m := NewComponentVideoOut()
	for i := 0; i < CVO_WIDTH*CVO_HEIGHT; i++ {
		m.Step(0.0, STEP_VIDEO, []float32{0.5, 0.5, 0.5})
	}
	if m.cursor != 0 {
		t.Fatalf("cursor is %d after a full raster, expected wrap to 0", m.cursor)
	}
}

func TestClampByte(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{math.NaN(), 0}, {-1.0, 0}, {0.0, 0}, {0.5, 127}, {1.0, 255}, {2.0, 255},
	}
	for _, c := range cases {
		if got := clampByte(c.in); got != c.want {
			t.Fatalf("clampByte(%v) = %d, expected %d", c.in, got, c.want)
		}
	}
}
