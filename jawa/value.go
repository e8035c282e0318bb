// Package jawa provides the vocabulary of the jawa typed stack-machine
// module format: value types, function names, import opcodes, the import
// payload encoding and the little-endian data section stream.
package jawa

// ValueType is a primitive value type of the jawa stack machine.
type ValueType int

// All jawa value types. The numeric values are internal; the external
// identity of a primitive is its class index in the type registry.
const (
	Bool ValueType = iota
	I8
	U16
	I16
	I32
	I64
	F32
	F64
	Void
	ExternRef
)

var valueTypeNames = [...]string{
	Bool:      "bool",
	I8:        "i8",
	U16:       "u16",
	I16:       "i16",
	I32:       "i32",
	I64:       "i64",
	F32:       "f32",
	F64:       "f64",
	Void:      "void",
	ExternRef: "externref",
}

func (v ValueType) String() string {
	if int(v) < len(valueTypeNames) {
		return valueTypeNames[v]
	}
	return "ValueType(?)"
}

// IsRefType reports whether values of this type are references.
func (v ValueType) IsRefType() bool {
	return v == ExternRef
}

// AnyType is any type that can occur in a signature or a struct field:
// a ValueType or a class/interface/array type from the registry.
type AnyType interface {
	String() string

	// IsRefType reports whether values of this type are references.
	IsRefType() bool
}
