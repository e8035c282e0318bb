package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/wangbrenda/jawac/jawa"
)

// FunctionManager tracks which functions the method-body translator has
// committed to emitting, and carries the dispatch-table positions the type
// engine assigns. Functions are identified by their
// (class, name, signature) triple.
type FunctionManager interface {
	// IsUsed reports whether code will be emitted for fn.
	IsUsed(fn jawa.FuncName) bool

	// MarkAsNeeded marks fn as used.
	MarkAsNeeded(fn jawa.FuncName)

	// SetVTableIndex records the slot of fn inside the vtables, counted
	// from the descriptor header.
	SetVTableIndex(fn jawa.FuncName, idx int)

	// GetITableIndex returns the itable slot of fn, -1 if none assigned.
	GetITableIndex(fn jawa.FuncName) int

	// SetITableIndex records the itable slot of fn.
	SetITableIndex(fn jawa.FuncName, idx int)
}

type functionState struct {
	needed      bool
	vtableIndex int
	itableIndex int
}

// Functions is the map-backed FunctionManager used when the embedding
// compiler does not bring its own.
type Functions struct {
	states map[jawa.FuncName]*functionState
	order  []jawa.FuncName // needed functions in marking order
}

// NewFunctions creates an empty registry.
func NewFunctions() *Functions {
	return &Functions{states: make(map[jawa.FuncName]*functionState)}
}

func (f *Functions) state(fn jawa.FuncName) *functionState {
	s, ok := f.states[fn]
	if !ok {
		s = &functionState{vtableIndex: -1, itableIndex: -1}
		f.states[fn] = s
	}
	return s
}

func (f *Functions) IsUsed(fn jawa.FuncName) bool {
	s, ok := f.states[fn]
	return ok && s.needed
}

func (f *Functions) MarkAsNeeded(fn jawa.FuncName) {
	s := f.state(fn)
	if !s.needed {
		s.needed = true
		f.order = append(f.order, fn)
	}
}

func (f *Functions) SetVTableIndex(fn jawa.FuncName, idx int) {
	f.state(fn).vtableIndex = idx
}

// GetVTableIndex returns the vtable slot of fn, -1 if none assigned.
func (f *Functions) GetVTableIndex(fn jawa.FuncName) int {
	if s, ok := f.states[fn]; ok {
		return s.vtableIndex
	}
	return -1
}

func (f *Functions) GetITableIndex(fn jawa.FuncName) int {
	if s, ok := f.states[fn]; ok {
		return s.itableIndex
	}
	return -1
}

func (f *Functions) SetITableIndex(fn jawa.FuncName, idx int) {
	f.state(fn).itableIndex = idx
}

// Needed returns the used functions in marking order.
func (f *Functions) Needed() []jawa.FuncName {
	return slices.Clone(f.order)
}
