// rack_config.go - YAML rack deserialization

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// rackFile is the top-level shape of a rack config. Module entries stay raw
// nodes until the type tag picks the concrete struct to decode into.
type rackFile struct {
	Mode    string              `yaml:"mode"`
	Info    *yaml.Node          `yaml:"info"`
	Modules map[int]yaml.Node   `yaml:"modules"`
	Patches map[string][]string `yaml:"patches"`
}

// LoadRack reads a rack config file and assembles the rack. Every error is
// fatal and names the offending config key; a rack either loads whole or not
// at all.
func LoadRack(path string) (*Rack, EngineMode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, MODE_AUDIO, err
	}
	return parseRack(data)
}

func parseRack(data []byte) (*Rack, EngineMode, error) {
	var file rackFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, MODE_AUDIO, fmt.Errorf("parsing rack config: %w", err)
	}

	mode, err := ParseEngineMode(file.Mode)
	if err != nil {
		return nil, MODE_AUDIO, err
	}

	modules := make(map[int]Module, len(file.Modules))
	ids := make([]int, 0, len(file.Modules))
	for id := range file.Modules {
		if id < 0 {
			return nil, mode, fmt.Errorf("module %d: ids must be non-negative", id)
		}
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		node := file.Modules[id]
		var tag struct {
			Type string `yaml:"type"`
		}
		if err := node.Decode(&tag); err != nil {
			return nil, mode, fmt.Errorf("module %d: %w", id, err)
		}
		m, err := NewModuleOfKind(tag.Type)
		if err != nil {
			return nil, mode, fmt.Errorf("module %d: %w", id, err)
		}
		if err := node.Decode(m); err != nil {
			return nil, mode, fmt.Errorf("module %d: %w", id, err)
		}
		if got := countKnobs(m); got != m.Knobs() {
			return nil, mode, fmt.Errorf("module %d: %s declares %d knobs, config has %d", id, tag.Type, m.Knobs(), got)
		}
		m.SetID(id)
		modules[id] = m
	}

	// The info section, if present, becomes a metadata pseudo-module with the
	// first id past the declared ones.
	if file.Info != nil {
		info := NewInfo()
		if err := file.Info.Decode(info); err != nil {
			return nil, mode, fmt.Errorf("info: %w", err)
		}
		id := 0
		if len(ids) > 0 {
			id = ids[len(ids)-1] + 1
		}
		info.SetID(id)
		modules[id] = info
	}

	patches := make(PatchTable)
	patched := make(map[ModuleKey]ModuleKey) // dst -> src, for duplicate detection
	for srcAddr, dstAddrs := range file.Patches {
		src, err := ParseModuleKey(srcAddr)
		if err != nil {
			return nil, mode, err
		}
		if err := checkSource(modules, src); err != nil {
			return nil, mode, err
		}
		for _, dstAddr := range dstAddrs {
			dst, err := ParseModuleKey(dstAddr)
			if err != nil {
				return nil, mode, err
			}
			if err := checkDestination(modules, dst); err != nil {
				return nil, mode, err
			}
			if prev, ok := patched[dst]; ok && dst.Kind != PORT_NONE {
				return nil, mode, fmt.Errorf("patch destination %s: already fed by %s", dst, prev)
			}
			patched[dst] = src
			patches.Add(src, dst)
		}
	}

	for _, id := range sortedModuleIDs(modules) {
		if init, ok := modules[id].(Initializer); ok {
			if err := init.Init(); err != nil {
				return nil, mode, fmt.Errorf("module %d: %w", id, err)
			}
		}
	}

	return NewRack(modules, patches), mode, nil
}

func checkSource(modules map[int]Module, src ModuleKey) error {
	m, ok := modules[src.ID]
	if !ok {
		return fmt.Errorf("patch source %s: no module %d", src, src.ID)
	}
	if src.Kind != PORT_OUTPUT {
		return fmt.Errorf("patch source %s: sources must be output ports", src)
	}
	if src.Port >= m.Outputs() {
		return fmt.Errorf("patch source %s: module %d has %d outputs", src, src.ID, m.Outputs())
	}
	return nil
}

func checkDestination(modules map[int]Module, dst ModuleKey) error {
	m, ok := modules[dst.ID]
	if !ok {
		return fmt.Errorf("patch destination %s: no module %d", dst, dst.ID)
	}
	switch dst.Kind {
	case PORT_INPUT:
		if dst.Port >= m.Inputs() {
			return fmt.Errorf("patch destination %s: module %d has %d inputs", dst, dst.ID, m.Inputs())
		}
	case PORT_KNOB:
		if dst.Port >= m.Knobs() {
			return fmt.Errorf("patch destination %s: module %d has %d knobs", dst, dst.ID, m.Knobs())
		}
	case PORT_NONE:
		if _, ok := m.(Observer); !ok {
			return fmt.Errorf("patch destination %s: whole-module patches are only legal for metadata modules", dst)
		}
	default:
		return fmt.Errorf("patch destination %s: destinations must be input or knob ports", dst)
	}
	return nil
}

// countKnobs reads the live knob slice length without assuming the concrete
// type; every kind embeds knobSet.
func countKnobs(m Module) int {
	type knobber interface{ knobCount() int }
	if k, ok := m.(knobber); ok {
		return k.knobCount()
	}
	return m.Knobs()
}

func sortedModuleIDs(modules map[int]Module) []int {
	ids := make([]int, 0, len(modules))
	for id := range modules {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
