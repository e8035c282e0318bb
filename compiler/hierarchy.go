package compiler

import (
	"fmt"

	"github.com/wangbrenda/jawac/jawa"
)

// orderedStrSet is an insertion-ordered set of names.
type orderedStrSet struct {
	seen  map[string]struct{}
	order []string
}

func newOrderedStrSet() *orderedStrSet {
	return &orderedStrSet{seen: make(map[string]struct{})}
}

func (s *orderedStrSet) add(name string) bool {
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

func methodFuncName(method *MethodInfo) jawa.FuncName {
	return jawa.FuncName{ClassName: method.ClassName, MethodName: method.Name, Signature: method.Signature}
}

// scanTypeHierarchy resolves the supertype closure of this type and
// computes its field layout, vtable and itables. Runs once per type, after
// all consumer phases have finished requesting types.
func (t *StructType) scanTypeHierarchy(functions FunctionManager, types *TypeManager, loader ClassFileLoader) error {
	types.options.Logger.Debug("scan type hierarchy", "type", t.name)
	t.fields = nil
	t.vtable = nil
	t.instanceOf = newTypeSet()
	t.instanceOf.add(t)
	t.itables = nil

	switch {
	case t.primitive:
		return nil
	case t.IsArray():
		if _, isValue := t.elem.(jawa.ValueType); isValue {
			return nil
		}
		// reference arrays share the object layout
		allNeeded := make(map[string]struct{})
		return t.listStructFields(objectClass, functions, types, loader, allNeeded)
	}

	info, err := loader.Get(t.name)
	if err != nil {
		return err
	}
	if info == nil {
		return compileErr(ErrMissingClass, t.name)
	}
	if info.Kind == KindInterface && t.typeCode == jawa.DECL_CLASS {
		t.typeCode = jawa.DECL_INTERFACE
	}
	if err := t.listInterfaces(functions, types, loader); err != nil {
		return err
	}
	allNeeded := make(map[string]struct{})
	return t.listStructFields(t.name, functions, types, loader, allNeeded)
}

// listStructFields walks from className up the superclass chain, recording
// the parent, the instanceof chain, the demanded fields and the vtable.
// The walk descends first, so the top of the hierarchy contributes fields
// and vtable slots before its subclasses.
func (t *StructType) listStructFields(className string, functions FunctionManager, types *TypeManager, loader ClassFileLoader, allNeeded map[string]struct{}) error {
	info, err := loader.Get(className)
	if err != nil {
		return err
	}
	if info == nil {
		return compileErr(ErrMissingClass, className)
	}

	// interfaces contribute no layout
	if info.Kind == KindInterface {
		return nil
	}

	if level, ok := types.structTypes[className]; ok {
		if level != t && t.parent == nil {
			t.parent = level
		}
		for name := range level.neededFields {
			allNeeded[name] = struct{}{}
		}
		t.instanceOf.add(level)
	}

	if info.SuperName != "" {
		if err := t.listStructFields(info.SuperName, functions, types, loader, allNeeded); err != nil {
			return err
		}
	} else {
		// root of the chain carries the synthetic slots every instance
		// layout starts with
		t.fields = append(t.fields,
			NamedField{Type: jawa.I32, ClassName: className, Name: FieldVTable},
			NamedField{Type: jawa.I32, ClassName: className, Name: FieldHashCode},
		)
	}

	for i := range info.Fields {
		field := &info.Fields[i]
		if field.IsStatic() {
			continue
		}
		if _, needed := allNeeded[field.Name]; !needed {
			continue
		}
		fieldType, err := types.ValueOfSig(field.Descriptor)
		if err != nil {
			return err
		}
		t.fields = append(t.fields, NamedField{Type: fieldType, ClassName: className, Name: field.Name})
	}

	for i := range info.Methods {
		method := &info.Methods[i]
		if method.IsStatic() || method.Name == "<init>" {
			continue
		}
		t.addOrUpdateVTable(functions, methodFuncName(method), false)
	}

	// default implementations from the direct interfaces of this level
	for _, interName := range info.Interfaces {
		interInfo, err := loader.Get(interName)
		if err != nil {
			return err
		}
		if interInfo == nil {
			return compileErr(ErrMissingClass, interName)
		}
		for i := range interInfo.Methods {
			fn := methodFuncName(&interInfo.Methods[i])
			if functions.IsUsed(fn) {
				t.addOrUpdateVTable(functions, fn, true)
			}
		}
	}
	return nil
}

// addOrUpdateVTable adds fn to the vtable or replaces the slot holding a
// method of the same name and signature. A default implementation never
// replaces a concrete override, but a concrete method replaces a slot that
// was filled from an interface default.
func (t *StructType) addOrUpdateVTable(functions FunctionManager, fn jawa.FuncName, isDefault bool) {
	idx := 0
	for ; idx < len(t.vtable); idx++ {
		cur := t.vtable[idx]
		if cur.MethodName == fn.MethodName && cur.Signature == fn.Signature {
			if !isDefault || functions.GetITableIndex(cur) >= 0 {
				t.vtable[idx] = fn
				// overrides of a used method are needed as well
				functions.MarkAsNeeded(fn)
			}
			break
		}
	}
	if idx == len(t.vtable) && functions.IsUsed(fn) {
		t.vtable = append(t.vtable, fn)
	}
	if idx < len(t.vtable) {
		functions.SetVTableIndex(fn, idx+vtableFirstFunctionIndex)
	}
}

// listInterfaces collects the transitively implemented interfaces of the
// whole superclass chain and resolves the itable of every interface: the
// concrete target of each used interface method, found in the class chain
// first and in the interface closure (default methods) second.
func (t *StructType) listInterfaces(functions FunctionManager, types *TypeManager, loader ClassFileLoader) error {
	t.interfaceTypes = newTypeSet()

	var classInfos []*ClassInfo
	interfaceNames := newOrderedStrSet()

	info, err := loader.Get(t.name)
	if err != nil {
		return err
	}
	for {
		if info == nil {
			return compileErr(ErrMissingClass, t.name)
		}
		classInfos = append(classInfos, info)
		if err := t.listInterfaceTypes(info, types, loader, interfaceNames); err != nil {
			return err
		}
		if info.SuperName == "" {
			break
		}
		if info, err = loader.Get(info.SuperName); err != nil {
			return err
		}
	}

	// an abstract class has no instances, so no itables
	if classInfos[0].IsAbstract() {
		return nil
	}

	for _, iface := range t.interfaceTypes.order {
		interInfo, err := loader.Get(iface.name)
		if err != nil {
			return err
		}
		if interInfo == nil {
			return compileErr(ErrMissingClass, iface.name)
		}
		var entry *itable
		for i := range interInfo.Methods {
			iName := methodFuncName(&interInfo.Methods[i])
			if !functions.IsUsed(iName) {
				continue
			}

			var impl *MethodInfo
			for _, classInfo := range classInfos {
				if impl = classInfo.Method(iName.MethodName, iName.Signature); impl != nil {
					break
				}
			}
			if impl == nil {
				// default implementation somewhere in the closure; an abstract
				// interface declaration is no implementation
				for _, iClassName := range interfaceNames.order {
					iInfo, err := loader.Get(iClassName)
					if err != nil {
						return err
					}
					if iInfo == nil {
						continue
					}
					if cand := iInfo.Method(iName.MethodName, iName.Signature); cand != nil && cand.AccessFlags&AccAbstract == 0 {
						impl = cand
						break
					}
				}
			}
			if impl == nil {
				return compileErr(ErrMissingImplementation,
					fmt.Sprintf("%s for type %s", iName.SignatureName(), t.name))
			}

			implName := methodFuncName(impl)
			functions.MarkAsNeeded(implName)
			if entry == nil {
				entry = &itable{iface: iface}
				t.itables = append(t.itables, entry)
			}
			entry.methods = append(entry.methods, implName)
			// the first two itable slots hold the class index and the
			// stride to the next interface
			functions.SetITableIndex(iName, len(entry.methods)+1)
		}
	}
	return nil
}

// listInterfaceTypes deposits the direct and inherited interfaces of one
// classfile, deduplicating by name to survive diamonds.
func (t *StructType) listInterfaceTypes(info *ClassInfo, types *TypeManager, loader ClassFileLoader, interfaceNames *orderedStrSet) error {
	for _, interName := range info.Interfaces {
		if !interfaceNames.add(interName) {
			continue
		}
		if iface, ok := types.structTypes[interName]; ok {
			t.interfaceTypes.add(iface)
			t.instanceOf.add(iface)
		}
		interInfo, err := loader.Get(interName)
		if err != nil {
			return err
		}
		if interInfo != nil {
			if err := t.listInterfaceTypes(interInfo, types, loader, interfaceNames); err != nil {
				return err
			}
		}
	}
	return nil
}
