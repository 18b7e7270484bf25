// Package plugin provides optional Lua label rules. A rules script can
// define two functions:
//
//	normalize_label(label)        -> string
//	allow_span(start, end, label) -> bool
//
// normalize_label rewrites a label before it is committed (for example to
// enforce a casing convention); allow_span vetoes span creation. Absent
// functions and an absent script are permissive defaults.
package plugin

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Function names a rules script may define.
const (
	fnNormalizeLabel = "normalize_label"
	fnAllowSpan      = "allow_span"
)

// Rules wraps a Lua state holding a loaded rules script.
//
// gopher-lua's LState is not goroutine-safe; the mutex serializes calls
// from Go. The widget itself is single-threaded, so contention is nil in
// practice.
type Rules struct {
	mu     sync.Mutex
	state  *lua.LState
	closed bool
}

// LoadFile loads a rules script from a file.
func LoadFile(path string) (*Rules, error) {
	r := newRules()
	if err := r.state.DoFile(path); err != nil {
		r.Close()
		return nil, fmt.Errorf("loading rules script %s: %w", path, err)
	}
	return r, nil
}

// LoadString loads a rules script from source text.
func LoadString(src string) (*Rules, error) {
	r := newRules()
	if err := r.state.DoString(src); err != nil {
		r.Close()
		return nil, fmt.Errorf("loading rules script: %w", err)
	}
	return r, nil
}

func newRules() *Rules {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	// Only side-effect-free libraries; rules scripts transform labels,
	// they do not touch the system.
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	return &Rules{state: L}
}

// Close releases the Lua state. Subsequent calls are permissive no-ops.
func (r *Rules) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.state.Close()
}

// NormalizeLabel passes the label through the script's normalize_label
// function. The input label is returned unchanged when the function is
// absent, errors, or returns a non-string or empty value.
func (r *Rules) NormalizeLabel(label string) string {
	if r == nil {
		return label
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return label
	}
	fn := r.state.GetGlobal(fnNormalizeLabel)
	if fn.Type() != lua.LTFunction {
		return label
	}
	err := r.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(label))
	if err != nil {
		return label
	}
	ret := r.state.Get(-1)
	r.state.Pop(1)
	s, ok := ret.(lua.LString)
	if !ok || string(s) == "" {
		return label
	}
	return string(s)
}

// AllowSpan asks the script whether a span may be created. Permissive on
// a missing function or any script error.
func (r *Rules) AllowSpan(start, end int, label string) bool {
	if r == nil {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return true
	}
	fn := r.state.GetGlobal(fnAllowSpan)
	if fn.Type() != lua.LTFunction {
		return true
	}
	err := r.state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(start), lua.LNumber(end), lua.LString(label))
	if err != nil {
		return true
	}
	ret := r.state.Get(-1)
	r.state.Pop(1)
	return lua.LVAsBool(ret)
}
