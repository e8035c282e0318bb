package compiler

import (
	"strings"

	"github.com/wangbrenda/jawac/jawa"
)

// Byte positions inside a type descriptor. All entries are 4-byte
// little-endian integers.
const (
	// TypeDescInterfaceOffset holds the offset to the itable region.
	TypeDescInterfaceOffset = 0
	// TypeDescInstanceofOffset holds the offset to the instanceof region.
	TypeDescInstanceofOffset = 4
	// TypeDescTypeName holds the string id of the dotted class name.
	TypeDescTypeName = 8
	// TypeDescArrayType holds the component class index, -1 for non-arrays.
	TypeDescArrayType = 12
)

// vtableFirstFunctionIndex is the number of reserved i32 slots at the start
// of each descriptor; virtual functions follow them.
const vtableFirstFunctionIndex = 4

// writeDescriptor serializes the runtime descriptor of this type at the
// data section cursor, which becomes the type's vtable offset.
//
//	┌───────────────────────────────────────┐
//	| Offset to the interfaces    [4 bytes] |
//	├───────────────────────────────────────┤
//	| Offset to the instanceof    [4 bytes] |
//	├───────────────────────────────────────┤
//	| String id of the class name [4 bytes] |
//	├───────────────────────────────────────┤
//	| Component class index       [4 bytes] |
//	├───────────────────────────────────────┤
//	| vtable entries              [4n bytes]|
//	├───────────────────────────────────────┤
//	| itable per interface, 0-terminated    |
//	├───────────────────────────────────────┤
//	| instanceof count + entries            |
//	└───────────────────────────────────────┘
//
// The two offsets count from the start of the descriptor, the 16 header
// bytes included, because the dispatch stubs add them to the descriptor
// address they load from .vtable.
func (t *StructType) writeDescriptor(data *jawa.DataStream, getFuncID func(jawa.FuncName) int32, options *Options) {
	options.Logger.Debug("write type descriptor", "type", t.name, "offset", data.Size())
	t.vtableOffset = data.Size()

	var body jawa.DataStream
	for _, fn := range t.vtable {
		body.WriteInt32(getFuncID(fn))
	}

	// descriptor position TypeDescInterfaceOffset
	data.WriteInt32(int32(body.Size() + vtableFirstFunctionIndex*4))
	for _, entry := range t.itables {
		body.WriteInt32(int32(entry.iface.classIndex))
		body.WriteInt32(int32(4 * (2 + len(entry.methods))))
		for _, fn := range entry.methods {
			body.WriteInt32(getFuncID(fn))
		}
	}
	body.WriteInt32(0) // no more interfaces

	// descriptor position TypeDescInstanceofOffset
	data.WriteInt32(int32(body.Size() + vtableFirstFunctionIndex*4))
	body.WriteInt32(int32(t.instanceOf.len()))
	for _, s := range t.instanceOf.order {
		body.WriteInt32(int32(s.classIndex))
	}

	// descriptor position TypeDescTypeName
	data.WriteInt32(options.Strings.Get(strings.ReplaceAll(t.name, "/", ".")))

	// descriptor position TypeDescArrayType
	data.WriteInt32(int32(t.componentClassIndex))

	body.WriteTo(data)
}
