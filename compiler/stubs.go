package compiler

import (
	"fmt"

	"github.com/wangbrenda/jawac/jawa"
)

// The dispatch stubs below are emitted in the target's textual instruction
// form and index the data section exactly as writeDescriptor lays it out;
// the two must change together.

// CallVirtualFunction creates the virtual call stub and marks it used.
// Parameters (this, virtualFunctionIndex), returns the function index.
func (m *TypeManager) CallVirtualFunction() (*jawa.SyntheticFunction, error) {
	object, err := m.ValueOf(objectClass)
	if err != nil {
		return nil, err
	}
	fn := jawa.NewSyntheticFunction("", "callVirtual",
		"local.get 0 "+ // THIS
			"struct.get java/lang/Object .vtable "+ // vtable is on index 0
			"local.get 1 "+ // virtualFunctionIndex
			"i32.add "+
			"i32.load offset=0 align=4 "+
			"return ",
		jawa.I32, object, jawa.I32)
	m.options.Functions.MarkAsNeeded(fn.FuncName)
	return fn, nil
}

// CallInterfaceFunction creates the interface call stub and marks it used.
// Parameters (this, classIndex, virtualFunctionIndex), returns the function
// index. The stub walks the itable region:
//
//	table := this.vtable
//	table += i32[table + TypeDescInterfaceOffset]
//	for {
//		next := i32[table]
//		if next == classIndex { return i32[table + virtualFunctionIndex] }
//		if next == 0 { trap }
//		table += i32[table + 4]
//	}
func (m *TypeManager) CallInterfaceFunction() (*jawa.SyntheticFunction, error) {
	object, err := m.ValueOf(objectClass)
	if err != nil {
		return nil, err
	}
	fn := jawa.NewSyntheticFunction("", "callInterface",
		"local.get 0 "+ // THIS
			"struct.get java/lang/Object .vtable "+ // vtable is on index 0
			"local.tee 3 "+ // save $table
			fmt.Sprintf("i32.load offset=%d align=4 ", TypeDescInterfaceOffset)+
			"local.get 3 "+
			"i32.add "+ // $table += i32_load[$table]
			"local.set 3 "+ // $table is the itable start now
			"loop"+
			"  local.get 3"+
			"  i32.load offset=0 align=4"+
			"  local.tee 4"+ // save $nextClass
			"  local.get 1"+ // $classIndex
			"  i32.eq"+
			"  if"+ // $nextClass == $classIndex
			"    local.get 3"+
			"    local.get 2"+ // $virtualFunctionIndex
			"    i32.add"+
			"    i32.load offset=0 align=4"+ // the function index
			"    return"+
			"  end"+
			"  local.get 4"+
			"  i32.eqz"+
			"  if"+ // end marker reached
			"    unreachable"+
			"  end"+
			"  local.get 3"+
			"  i32.const 4"+
			"  i32.add"+
			"  i32.load offset=0 align=4"+ // stride to the next interface
			"  local.get 3"+
			"  i32.add"+
			"  local.set 3"+
			"  br 0 "+
			"end "+
			"unreachable",
		jawa.I32, object, jawa.I32, jawa.I32)
	m.options.Functions.MarkAsNeeded(fn.FuncName)
	return fn, nil
}

// InstanceOfFunction creates the instanceof stub and marks it used.
// Parameters (this, classIndex), returns 1 when the class index occurs in
// the instanceof list of this value's type.
func (m *TypeManager) InstanceOfFunction() (*jawa.SyntheticFunction, error) {
	object, err := m.ValueOf(objectClass)
	if err != nil {
		return nil, err
	}
	fn := jawa.NewSyntheticFunction("", "instanceof",
		"local.get 0 "+ // THIS
			"struct.get java/lang/Object .vtable "+ // vtable is on index 0
			"local.tee 2 "+ // save the vtable location
			fmt.Sprintf("i32.load offset=%d align=4 ", TypeDescInstanceofOffset)+
			"local.get 2 "+
			"i32.add "+
			"local.tee 2 "+ // save the instanceof location
			"i32.load offset=0 align=4 "+ // count of entries
			"i32.const 4 "+
			"i32.mul "+
			"local.get 2 "+
			"i32.add "+
			"local.set 3 "+ // save the end position
			"loop"+
			"  local.get 2 "+
			"  local.get 3 "+
			"  i32.eq"+
			"  if"+ // end reached, no match
			"    i32.const 0"+
			"    return"+
			"  end"+
			"  local.get 2"+
			"  i32.const 4"+
			"  i32.add"+
			"  local.tee 2"+
			"  i32.load offset=0 align=4"+
			"  local.get 1"+ // the class index we search
			"  i32.ne"+
			"  br_if 0 "+
			"end "+
			"i32.const 1 "+ // class or interface found
			"return ",
		jawa.I32, object, jawa.I32)
	m.options.Functions.MarkAsNeeded(fn.FuncName)
	return fn, nil
}

// CastFunction creates the checked cast stub and marks it used. Parameters
// (this, classIndex); returns this when the type matches, traps otherwise.
func (m *TypeManager) CastFunction() (*jawa.SyntheticFunction, error) {
	object, err := m.ValueOf(objectClass)
	if err != nil {
		return nil, err
	}
	instance, err := m.InstanceOfFunction()
	if err != nil {
		return nil, err
	}
	fn := jawa.NewSyntheticFunction("", "cast",
		"local.get 0 "+ // THIS
			"local.get 1 "+ // the class index we search
			"call $"+instance.SignatureName()+" "+
			"i32.eqz "+
			"if "+
			"  unreachable "+
			"end "+
			"local.get 0 "+ // THIS
			"return ",
		object, object, jawa.I32)
	m.options.Functions.MarkAsNeeded(fn.FuncName)
	return fn, nil
}

// TypeTableMemoryOffsetFunction creates the accessor for the type table
// offset and marks it used. Valid after PrepareFinish, when the offset is
// known.
func (m *TypeManager) TypeTableMemoryOffsetFunction() *jawa.SyntheticFunction {
	fn := &jawa.SyntheticFunction{
		FuncName: jawa.FuncName{
			ClassName:  "java/lang/Class",
			MethodName: "typeTableMemoryOffset",
			Signature:  "()I",
		},
		Result: jawa.I32,
		Code:   fmt.Sprintf("i32.const %d", m.typeTableOffset),
	}
	m.options.Functions.MarkAsNeeded(fn.FuncName)
	return fn
}

// ClassConstantFunction returns the pre-declared factory that materializes
// a java/lang/Class value from a class index.
func (m *TypeManager) ClassConstantFunction() jawa.FuncName {
	return jawa.NewFuncName("java/lang/Class.classConstant(I)Ljava/lang/Class;")
}
