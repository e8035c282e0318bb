package compiler

import (
	"golang.org/x/exp/slices"

	"github.com/wangbrenda/jawac/jawa"
)

// The nine primitive class records, seeded on first interning. The order is
// part of the external contract: the reflective primitive lookup of the
// source language indexes this table.
var primitiveClasses = [...]string{"boolean", "byte", "char", "double", "float", "int", "long", "short", "void"}

// Class indices of the primitive class records.
const (
	BooleanIndex = 0
	ByteIndex    = 1
	CharIndex    = 2
	DoubleIndex  = 3
	FloatIndex   = 4
	IntIndex     = 5
	LongIndex    = 6
	ShortIndex   = 7
	VoidIndex    = 8
)

const objectClass = "java/lang/Object"

// Classes whose definition the jawa runtime provides; they are declared
// with EXT_CLASS instead of DECL_CLASS.
var extClasses = []string{objectClass, "java/lang/String"}

// TypeManager interns every referenced type, resolves the hierarchy and
// drives the emission of descriptors and type imports. One instance lives
// for the whole compilation.
type TypeManager struct {
	options *Options

	structTypes map[any]*StructType // name or element handle → type
	ordered     []*StructType       // interning order; index == classIndex
	emission    []*StructType       // supertype-before-subtype order

	isFinish        bool
	typeTableOffset int
}

// NewTypeManager creates an empty manager.
func NewTypeManager(options *Options) *TypeManager {
	return &TypeManager{
		options:     options,
		structTypes: make(map[any]*StructType),
	}
}

// Size returns the count of interned types.
func (m *TypeManager) Size() int {
	return len(m.ordered)
}

// IsFinish reports whether the scan phase has closed.
func (m *TypeManager) IsFinish() bool {
	return m.isFinish
}

// checkState guards interning and seeds the registry on first touch: the
// nine primitive class records, then java/lang/Object through the ordinary
// interning path, exactly once.
func (m *TypeManager) checkState(newType string) error {
	m.options.Logger.Debug("register type", "type", newType)
	if m.isFinish {
		return compileErr(ErrLateRegistration, newType)
	}
	if len(m.ordered) == 0 {
		for _, name := range primitiveClasses {
			t := newStructType(m, name, len(m.ordered), jawa.DECL_CLASS)
			t.primitive = true
			m.structTypes[name] = t
			m.ordered = append(m.ordered, t)
		}
		if _, err := m.ValueOf(objectClass); err != nil {
			return err
		}
	}
	return nil
}

// ValueOf returns the type for a slash-separated class or interface name,
// interning it if needed.
func (m *TypeManager) ValueOf(name string) (*StructType, error) {
	if t, ok := m.structTypes[name]; ok {
		return t, nil
	}
	if err := m.checkState(name); err != nil {
		return nil, err
	}
	if t, ok := m.structTypes[name]; ok {
		// seeded by the first-touch branch
		return t, nil
	}
	opcode := jawa.DECL_CLASS
	if slices.Contains(extClasses, name) {
		opcode = jawa.EXT_CLASS
	}
	t := newStructType(m, name, len(m.ordered), opcode)
	m.structTypes[name] = t
	m.ordered = append(m.ordered, t)
	return t, nil
}

// ArrayType returns the array type whose component is elem, interning it if
// needed. The registry is keyed on the element handle.
func (m *TypeManager) ArrayType(elem jawa.AnyType) (*StructType, error) {
	if t, ok := m.structTypes[elem]; ok {
		return t, nil
	}
	if err := m.checkState(arrayName(elem)); err != nil {
		return nil, err
	}

	var componentClassIndex int
	switch e := elem.(type) {
	case jawa.ValueType:
		switch e {
		case jawa.Bool:
			componentClassIndex = BooleanIndex
		case jawa.I8:
			componentClassIndex = ByteIndex
		case jawa.U16:
			componentClassIndex = CharIndex
		case jawa.F64:
			componentClassIndex = DoubleIndex
		case jawa.F32:
			componentClassIndex = FloatIndex
		case jawa.I32:
			componentClassIndex = IntIndex
		case jawa.I64:
			componentClassIndex = LongIndex
		case jawa.I16:
			componentClassIndex = ShortIndex
		case jawa.ExternRef:
			obj, err := m.ValueOf(objectClass)
			if err != nil {
				return nil, err
			}
			componentClassIndex = obj.classIndex
		default:
			return nil, compileErr(ErrUnsupportedArrayElement, e.String())
		}
	case *StructType:
		componentClassIndex = e.classIndex
	default:
		return nil, compileErr(ErrUnsupportedArrayElement, elem.String())
	}

	t := newStructType(m, arrayName(elem), len(m.ordered), jawa.DECL_CLASS)
	t.elem = elem
	t.componentClassIndex = componentClassIndex
	m.structTypes[elem] = t
	m.ordered = append(m.ordered, t)
	return t, nil
}

// arrayName builds the JVM-style name of an array type from its component.
func arrayName(elem jawa.AnyType) string {
	switch e := elem.(type) {
	case jawa.ValueType:
		switch e {
		case jawa.Bool:
			return "[Z"
		case jawa.I8:
			return "[B"
		case jawa.U16:
			return "[C"
		case jawa.I16:
			return "[S"
		case jawa.I32:
			return "[I"
		case jawa.I64:
			return "[J"
		case jawa.F32:
			return "[F"
		case jawa.F64:
			return "[D"
		case jawa.ExternRef:
			return "[Ljava/lang/Object;"
		}
		return "[" + e.String()
	case *StructType:
		if e.IsArray() {
			return "[" + e.name
		}
		return "[L" + e.name + ";"
	}
	return "[" + elem.String()
}

// ScanTypeHierarchy runs the hierarchy scan over every registered type,
// computes the emission order and translates the class access flags.
// Consumers must have finished requesting types and marking functions.
func (m *TypeManager) ScanTypeHierarchy(loader ClassFileLoader) error {
	// index walk: resolving field signatures may intern further types,
	// which then get scanned in the same pass
	for i := 0; i < len(m.ordered); i++ {
		if err := m.ordered[i].scanTypeHierarchy(m.options.Functions, m, loader); err != nil {
			return err
		}
	}

	emission, err := m.computeEmissionOrder()
	if err != nil {
		return err
	}
	m.emission = emission

	for _, t := range m.emission {
		if t.primitive || t.IsArray() {
			continue
		}
		info, err := loader.Get(t.name)
		if err != nil {
			return err
		}
		if info == nil {
			return compileErr(ErrMissingClass, t.name)
		}
		t.jawaAccessFlags = jawaClassAttrs(info.AccessFlags)
	}

	m.setTypeIndex()
	return nil
}

// setTypeIndex assigns the dense emission index to every non-primitive,
// non-array type.
func (m *TypeManager) setTypeIndex() {
	count := 0
	for _, t := range m.emission {
		if t.primitive || t.IsArray() {
			continue
		}
		t.typeIndex = count
		count++
	}
}

// PrepareFinish closes the scan phase and writes the types: import records
// for classes and interfaces, descriptors for every type, then the flat
// type table. Interning a type afterwards fails with LateRegistration.
func (m *TypeManager) PrepareFinish(writer jawa.ModuleWriter, loader ClassFileLoader) error {
	m.isFinish = true

	for _, t := range m.emission {
		if t.primitive || t.IsArray() {
			continue
		}
		if err := t.writeImportType(writer, m, loader); err != nil {
			return err
		}
	}

	data := writer.DataStream()
	for _, t := range m.emission {
		t.writeDescriptor(data, writer.GetFunction, m.options)
	}

	// type table: one descriptor offset per registered type, registry order
	m.typeTableOffset = data.Size()
	for _, t := range m.ordered {
		data.WriteInt32(int32(t.vtableOffset))
	}
	return nil
}

// TypeTableOffset returns the byte offset of the type table in the data
// section, valid after PrepareFinish.
func (m *TypeManager) TypeTableOffset() int {
	return m.typeTableOffset
}

// Types returns all interned types in registry order.
func (m *TypeManager) Types() []*StructType {
	return m.ordered
}

// EmissionOrder returns the computed supertype-before-subtype order, valid
// after ScanTypeHierarchy.
func (m *TypeManager) EmissionOrder() []*StructType {
	return m.emission
}
