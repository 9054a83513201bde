// patch_test.go - Patch address parsing and patch table tests

package main

import (
	"testing"
)

func TestParseModuleKey_Valid(t *testing.T) {
	cases := []struct {
		addr string
		want ModuleKey
	}{
		{"0M0I", ModuleKey{ID: 0, Kind: PORT_INPUT, Port: 0}},
		{"3M1O", ModuleKey{ID: 3, Kind: PORT_OUTPUT, Port: 1}},
		{"12M7K", ModuleKey{ID: 12, Kind: PORT_KNOB, Port: 7}},
		{"4M", ModuleKey{ID: 4, Kind: PORT_NONE}},
	}
	for _, c := range cases {
		got, err := ParseModuleKey(c.addr)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", c.addr, err)
		}
		if got != c.want {
			t.Fatalf("%q parsed to %+v, expected %+v", c.addr, got, c.want)
		}
	}
}

func TestParseModuleKey_RoundTrip(t *testing.T) {
	for _, addr := range []string{"0M0I", "3M1O", "12M7K", "4M"} {
		key, err := ParseModuleKey(addr)
		if err != nil {
			t.Fatalf("%q: unexpected error %v", addr, err)
		}
		if key.String() != addr {
			t.Fatalf("%q round-tripped to %q", addr, key.String())
		}
	}
}

func TestParseModuleKey_Malformed(t *testing.T) {
	for _, addr := range []string{"", "M0I", "0", "xM0I", "-1M0I", "0M0X", "0MI", "0M-1I", "0MxI"} {
		if _, err := ParseModuleKey(addr); err == nil {
			t.Fatalf("%q: expected a parse error", addr)
		}
	}
}

func TestPatchTable_EdgesAreDeterministic(t *testing.T) {
	pt := make(PatchTable)
	pt.Add(outKey(2, 0), inKey(0, 0))
	pt.Add(outKey(0, 1), inKey(1, 0))
	pt.Add(outKey(0, 0), inKey(2, 1))
	pt.Add(outKey(0, 0), inKey(2, 0))

	want := []Patch{
		{Src: outKey(0, 0), Dst: inKey(2, 0)},
		{Src: outKey(0, 0), Dst: inKey(2, 1)},
		{Src: outKey(0, 1), Dst: inKey(1, 0)},
		{Src: outKey(2, 0), Dst: inKey(0, 0)},
	}
	for round := 0; round < 20; round++ {
		got := pt.Edges()
		if len(got) != len(want) {
			t.Fatalf("got %d edges, expected %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("round %d: edge %d is %v, expected %v", round, i, got[i], want[i])
			}
		}
	}
}

func TestPatchTable_AddDeduplicates(t *testing.T) {
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(1, 0))
	pt.Add(outKey(0, 0), inKey(1, 0))
	if got := len(pt.Edges()); got != 1 {
		t.Fatalf("got %d edges after duplicate Add, expected 1", got)
	}
}

func TestPatchTable_Inbound(t *testing.T) {
	pt := make(PatchTable)
	pt.Add(outKey(0, 0), inKey(1, 0))
	pt.Add(outKey(0, 0), inKey(2, 0))
	pt.Add(outKey(2, 0), inKey(1, 1))

	got := pt.Inbound(1)
	if len(got) != 2 {
		t.Fatalf("module 1 has %d inbound patches, expected 2", len(got))
	}
	for _, p := range got {
		if p.Dst.ID != 1 {
			t.Fatalf("inbound returned foreign destination %v", p.Dst)
		}
	}
}
