package compiler

import (
	"github.com/wangbrenda/jawac/jawa"
)

// Names of the two synthetic fields that start every instance layout. The
// leading point keeps them out of the Java identifier namespace.
const (
	FieldVTable   = ".vtable"
	FieldHashCode = ".hashcode"
)

// NamedField is one slot of an instance layout: the declaring class, the
// field name and the storage type.
type NamedField struct {
	Type      jawa.AnyType
	ClassName string
	Name      string
}

// itable is the resolved interface dispatch table of one class for one
// interface: the concrete target of every used interface method, in the
// order the interface declares them.
type itable struct {
	iface   *StructType
	methods []jawa.FuncName
}

// typeSet is an insertion-ordered set of types.
type typeSet struct {
	seen  map[*StructType]struct{}
	order []*StructType
}

func newTypeSet() *typeSet {
	return &typeSet{seen: make(map[*StructType]struct{})}
}

// add inserts t and reports whether it was new.
func (s *typeSet) add(t *StructType) bool {
	if _, ok := s.seen[t]; ok {
		return false
	}
	s.seen[t] = struct{}{}
	s.order = append(s.order, t)
	return true
}

func (s *typeSet) contains(t *StructType) bool {
	_, ok := s.seen[t]
	return ok
}

func (s *typeSet) len() int {
	return len(s.order)
}

// StructType is one interned type: a primitive class record, a class, an
// interface, or an array. It is created at interning time, filled in during
// the hierarchy scan and frozen afterwards; the descriptor offset is
// assigned during emission.
type StructType struct {
	manager *TypeManager

	name       string
	classIndex int
	primitive  bool
	typeCode   jawa.TypeOpcode

	// array types only
	elem                jawa.AnyType
	componentClassIndex int

	parent         *StructType
	neededFields   map[string]struct{}
	fields         []NamedField
	vtable         []jawa.FuncName
	interfaceTypes *typeSet
	instanceOf     *typeSet
	itables        []*itable

	jawaAccessFlags int
	typeIndex       int
	vtableOffset    int
}

func newStructType(m *TypeManager, name string, classIndex int, opcode jawa.TypeOpcode) *StructType {
	return &StructType{
		manager:             m,
		name:                name,
		classIndex:          classIndex,
		typeCode:            opcode,
		componentClassIndex: -1,
		neededFields:        make(map[string]struct{}),
		jawaAccessFlags:     -1,
		typeIndex:           -15,
	}
}

func (t *StructType) String() string {
	return "$" + t.name
}

// IsRefType implements jawa.AnyType.
func (t *StructType) IsRefType() bool {
	return true
}

// Name returns the slash-separated qualified name.
func (t *StructType) Name() string {
	return t.name
}

// ClassIndex returns the stable identity assigned at interning time.
func (t *StructType) ClassIndex() int {
	return t.classIndex
}

// IsPrimitive reports whether this is one of the nine seeded primitive
// class records.
func (t *StructType) IsPrimitive() bool {
	return t.primitive
}

// IsArray reports whether this is an array type.
func (t *StructType) IsArray() bool {
	return t.elem != nil
}

// ElementType returns the component type of an array, nil otherwise.
func (t *StructType) ElementType() jawa.AnyType {
	return t.elem
}

// ComponentClassIndex returns the class index of the array component, -1
// for non-arrays.
func (t *StructType) ComponentClassIndex() int {
	return t.componentClassIndex
}

// TypeOpcode returns the import opcode of this type.
func (t *StructType) TypeOpcode() jawa.TypeOpcode {
	return t.typeCode
}

// RequireDefine reports whether the type gets a definition import after its
// declaration.
func (t *StructType) RequireDefine() bool {
	switch t.typeCode {
	case jawa.DECL_CLASS, jawa.DECL_INTERFACE:
		return true
	}
	return false
}

// Parent returns the nearest registered superclass, nil for roots,
// interfaces and primitives.
func (t *StructType) Parent() *StructType {
	return t.parent
}

// UseFieldName marks a field as read or written somewhere, which includes
// it in the instance layout.
func (t *StructType) UseFieldName(fieldName string) {
	t.neededFields[fieldName] = struct{}{}
}

// Fields returns the instance layout computed by the scan.
func (t *StructType) Fields() []NamedField {
	return t.fields
}

// VTable returns the virtual dispatch table computed by the scan.
func (t *StructType) VTable() []jawa.FuncName {
	return t.vtable
}

// InstanceOf returns every type this type is assignable to, most-derived
// first, self included.
func (t *StructType) InstanceOf() []*StructType {
	if t.instanceOf == nil {
		return nil
	}
	return t.instanceOf.order
}

// Interfaces returns the transitively implemented interfaces in discovery
// order.
func (t *StructType) Interfaces() []*StructType {
	if t.interfaceTypes == nil {
		return nil
	}
	return t.interfaceTypes.order
}

// TypeIndex returns the dense emission index, assigned to non-primitive,
// non-array types after ordering.
func (t *StructType) TypeIndex() int {
	return t.typeIndex
}

// VTableOffset returns the byte offset of this type's descriptor in the
// data section, valid after emission.
func (t *StructType) VTableOffset() int {
	return t.vtableOffset
}
