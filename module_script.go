// module_script.go - Lua-scripted module

package main

import (
	"fmt"
	"log"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// Script runs a user-supplied Lua function as a module. The script must
// define step(t, ...), taking the time and one argument per declared input
// and returning one number per declared output. Arity comes from the rack
// config, so a script module declares whatever shape its rack needs.
//
// Script errors during a step are logged and yield NaN outputs; a script
// that fails to compile, or defines no step function, fails the rack load.
type Script struct {
	modBase `yaml:",inline"`
	knobSet `yaml:",inline"`

	Source string `yaml:"script"`
	Ins    int    `yaml:"inputs"`
	Outs   int    `yaml:"outputs"`

	state *lua.LState
	fn    lua.LValue
}

func NewScript() *Script {
	return &Script{}
}

func (m *Script) Init() error {
	if m.Ins < 0 || m.Outs < 0 {
		return fmt.Errorf("script arity must be non-negative, got %d inputs, %d outputs", m.Ins, m.Outs)
	}
	m.state = lua.NewState()
	if err := m.state.DoString(m.Source); err != nil {
		return fmt.Errorf("compiling script: %w", err)
	}
	m.fn = m.state.GetGlobal("step")
	if m.fn.Type() != lua.LTFunction {
		return fmt.Errorf("script does not define a step function")
	}
	return nil
}

func (m *Script) Exit() {
	if m.state != nil {
		m.state.Close()
		m.state = nil
	}
}

func (m *Script) Inputs() int  { return m.Ins }
func (m *Script) Outputs() int { return m.Outs }
func (m *Script) Knobs() int   { return len(m.MKnobs) }

func (m *Script) Step(time float64, st StepType, ins []float32) []float32 {
	outs := make([]float32, m.Outs)
	for i := range outs {
		outs[i] = float32(math.NaN())
	}

	args := make([]lua.LValue, 0, len(ins)+1)
	args = append(args, lua.LNumber(time))
	for _, in := range ins {
		args = append(args, lua.LNumber(in))
	}

	if err := m.state.CallByParam(lua.P{Fn: m.fn, NRet: m.Outs, Protect: true}, args...); err != nil {
		log.Printf("script %d: step failed: %v", m.ID(), err)
		return outs
	}
	for i := 0; i < m.Outs; i++ {
		ret := m.state.Get(-m.Outs + i)
		if n, ok := ret.(lua.LNumber); ok {
			outs[i] = float32(n)
		}
	}
	m.state.Pop(m.Outs)

	return outs
}
