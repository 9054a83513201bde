// module_info.go - Rack metadata pseudo-module

package main

import (
	"fmt"
	"sort"
)

// Info is created automatically when the rack config has an info section; it
// cannot be created directly. Whole-module patches ("<id>M") may target it
// to have resolved values displayed alongside the rack metadata.
//
// Inputs, outputs, knobs: none.
type Info struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	Description string `yaml:"description"`

	observed map[ModuleKey]float32
}

func NewInfo() *Info {
	return &Info{observed: make(map[ModuleKey]float32)}
}

func (m *Info) Inputs() int  { return 0 }
func (m *Info) Outputs() int { return 0 }
func (m *Info) Knobs() int   { return 0 }

func (m *Info) Step(time float64, st StepType, ins []float32) []float32 {
	return nil
}

func (m *Info) Observe(src ModuleKey, val float32) {
	m.observed[src] = val
}

func (m *Info) Present() Presentation {
	title := m.Name()
	if title == "" {
		title = "Info"
	}
	var lines []string
	if m.Description != "" {
		lines = append(lines, m.Description)
	}
	keys := make([]ModuleKey, 0, len(m.observed))
	for k := range m.observed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, m.observed[k]))
	}
	return Presentation{Title: title, Lines: lines}
}
