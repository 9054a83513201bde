// patch.go - Patch addressing and the patch table

/*
Vince - a modular audio/video synthesizer
https://github.com/lwizchz/vince
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PortKind selects which port group of a module a patch endpoint refers to.
type PortKind int

const (
	PORT_NONE   PortKind = iota // Whole-module placeholder, metadata pseudo-modules only
	PORT_INPUT                  // Input port
	PORT_OUTPUT                 // Output port
	PORT_KNOB                   // Knob port
)

func (k PortKind) String() string {
	switch k {
	case PORT_INPUT:
		return "I"
	case PORT_OUTPUT:
		return "O"
	case PORT_KNOB:
		return "K"
	}
	return ""
}

// ModuleKey addresses a module, or with a port kind and index, one of its
// ports. The text form is "<id>M<index><I|O|K>"; a bare "<id>M" addresses
// the whole module and is only legal for metadata pseudo-modules.
type ModuleKey struct {
	ID   int
	Kind PortKind
	Port int
}

func (k ModuleKey) String() string {
	if k.Kind == PORT_NONE {
		return fmt.Sprintf("%dM", k.ID)
	}
	return fmt.Sprintf("%dM%d%s", k.ID, k.Port, k.Kind)
}

// ParseModuleKey parses a patch address. The id is everything before the
// first 'M'; the remainder, if any, is a port index followed by a single
// kind character.
func ParseModuleKey(s string) (ModuleKey, error) {
	id, rest, found := strings.Cut(s, "M")
	if !found {
		return ModuleKey{}, fmt.Errorf("patch address %q: missing 'M' separator", s)
	}
	n, err := strconv.Atoi(id)
	if err != nil || n < 0 {
		return ModuleKey{}, fmt.Errorf("patch address %q: bad module id %q", s, id)
	}
	if rest == "" {
		return ModuleKey{ID: n, Kind: PORT_NONE}, nil
	}

	idx, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil || idx < 0 {
		return ModuleKey{}, fmt.Errorf("patch address %q: bad port index %q", s, rest[:len(rest)-1])
	}
	var kind PortKind
	switch rest[len(rest)-1] {
	case 'I':
		kind = PORT_INPUT
	case 'O':
		kind = PORT_OUTPUT
	case 'K':
		kind = PORT_KNOB
	default:
		return ModuleKey{}, fmt.Errorf("patch address %q: port kind must be I, O or K", s)
	}
	return ModuleKey{ID: n, Kind: kind, Port: idx}, nil
}

// Patch is one directed edge from an output port to an input or knob port
// (or to a whole metadata module).
type Patch struct {
	Src ModuleKey
	Dst ModuleKey
}

// PatchTable maps each source port to the set of destinations it fans out
// to. One source may feed many destinations; each destination key appears
// under at most one source.
type PatchTable map[ModuleKey]map[ModuleKey]struct{}

// Add inserts one edge.
func (pt PatchTable) Add(src, dst ModuleKey) {
	set, ok := pt[src]
	if !ok {
		set = make(map[ModuleKey]struct{})
		pt[src] = set
	}
	set[dst] = struct{}{}
}

// Edges returns every patch, ordered by source then destination so that
// callers iterate deterministically.
func (pt PatchTable) Edges() []Patch {
	edges := make([]Patch, 0, len(pt))
	for src, dsts := range pt {
		for dst := range dsts {
			edges = append(edges, Patch{Src: src, Dst: dst})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Src != edges[j].Src {
			return keyLess(edges[i].Src, edges[j].Src)
		}
		return keyLess(edges[i].Dst, edges[j].Dst)
	})
	return edges
}

// Inbound returns every patch whose destination belongs to the given module.
func (pt PatchTable) Inbound(id int) []Patch {
	var edges []Patch
	for _, p := range pt.Edges() {
		if p.Dst.ID == id {
			edges = append(edges, p)
		}
	}
	return edges
}

func keyLess(a, b ModuleKey) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Port < b.Port
}
