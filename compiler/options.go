package compiler

import (
	log "github.com/inconshreveable/log15"
)

// StringTable interns the string constants of the module and hands out
// dense ids in interning order. The descriptor emitter uses it for the
// dotted class names.
type StringTable struct {
	ids   map[string]int32
	order []string
}

// NewStringTable creates an empty table.
func NewStringTable() *StringTable {
	return &StringTable{ids: make(map[string]int32)}
}

// Get returns the id of s, interning it on first use.
func (t *StringTable) Get(s string) int32 {
	id, ok := t.ids[s]
	if !ok {
		id = int32(len(t.order))
		t.ids[s] = id
		t.order = append(t.order, s)
	}
	return id
}

// Strings returns the interned strings in id order.
func (t *StringTable) Strings() []string {
	return t.order
}

// Size returns the number of interned strings.
func (t *StringTable) Size() int {
	return len(t.order)
}

// Options carries the collaborators the engine shares with the rest of the
// compiler.
type Options struct {
	// Functions is the registry of used functions.
	Functions FunctionManager

	// Strings is the module string constant table.
	Strings *StringTable

	// Logger receives scan and emission progress at debug level.
	Logger log.Logger
}

// NewOptions creates options with a fresh function registry and string
// table and a module-scoped logger.
func NewOptions() *Options {
	return &Options{
		Functions: NewFunctions(),
		Strings:   NewStringTable(),
		Logger:    log.New("module", "types"),
	}
}
