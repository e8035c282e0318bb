package compiler

import (
	"github.com/wangbrenda/jawac/jawa"
)

// importNamespace is the module namespace all type imports land in.
const importNamespace = "jawa"

// writeImportType emits the declaration import of this type and, for
// declared classes and interfaces, the definition import behind it.
func (t *StructType) writeImportType(writer jawa.ModuleWriter, types *TypeManager, loader ClassFileLoader) error {
	types.options.Logger.Debug("write type import", "type", t.name)

	var payload jawa.PayloadWriter
	payload.WriteOpcode(t.typeCode)
	payload.WriteName(t.name)

	switch t.typeCode {
	case jawa.DECL_CLASS:
		payload.WriteJI2(t.jawaAccessFlags)
		payload.WriteJI4(t.interfaceTypes.len())
		args := make([]jawa.AnyType, 0, 1+t.interfaceTypes.len())
		args = append(args, t.parent)
		for _, iface := range t.interfaceTypes.order {
			args = append(args, iface)
		}
		writer.ImportType(importNamespace, payload.String(), t, nil, args)
		return t.writeImportCommand(writer, types, loader)

	case jawa.DECL_INTERFACE:
		payload.WriteJI4(t.interfaceTypes.len())
		args := make([]jawa.AnyType, 0, t.interfaceTypes.len())
		for _, iface := range t.interfaceTypes.order {
			args = append(args, iface)
		}
		writer.ImportType(importNamespace, payload.String(), t, nil, args)
		return t.writeImportCommand(writer, types, loader)

	default:
		// externally defined: name and parent only
		var args []jawa.AnyType
		if t.parent != nil {
			args = append(args, t.parent)
		}
		writer.ImportType(importNamespace, payload.String(), t, nil, args)
		return nil
	}
}

// writeImportCommand emits the definition import: the fields and used
// methods the runtime needs to materialize the type.
func (t *StructType) writeImportCommand(writer jawa.ModuleWriter, types *TypeManager, loader ClassFileLoader) error {
	types.options.Logger.Debug("write type definition", "type", t.name)
	functions := types.options.Functions

	info, err := loader.Get(t.name)
	if err != nil {
		return err
	}
	if info == nil {
		return compileErr(ErrMissingClass, t.name)
	}

	var payload jawa.PayloadWriter
	args := []jawa.ImportArg{jawa.TypeArg{Type: t}}

	if info.Kind == KindInterface {
		payload.WriteOpcode(jawa.DEF_INTERFACE)
		var used []*MethodInfo
		for i := range info.Methods {
			if functions.IsUsed(methodFuncName(&info.Methods[i])) {
				used = append(used, &info.Methods[i])
			}
		}
		payload.WriteJI4(len(used))
		for _, method := range used {
			if err := t.writeMethodRecord(&payload, &args, writer, types, method); err != nil {
				return err
			}
		}
		writer.ImportCommand(importNamespace, payload.String(), args)
		return nil
	}

	var instanceFields, staticFields []*FieldInfo
	for i := range info.Fields {
		field := &info.Fields[i]
		if field.IsStatic() {
			staticFields = append(staticFields, field)
		} else {
			instanceFields = append(instanceFields, field)
		}
	}
	var instanceMethods, staticMethods []*MethodInfo
	for i := range info.Methods {
		method := &info.Methods[i]
		if !functions.IsUsed(methodFuncName(method)) {
			continue
		}
		if method.IsStatic() {
			staticMethods = append(staticMethods, method)
		} else {
			instanceMethods = append(instanceMethods, method)
		}
	}

	payload.WriteOpcode(jawa.DEF_CLASS)
	payload.WriteJI4(len(instanceFields))
	for _, field := range instanceFields {
		if err := t.writeFieldRecord(&payload, &args, types, field); err != nil {
			return err
		}
	}
	payload.WriteJI4(len(instanceMethods))
	for _, method := range instanceMethods {
		if err := t.writeMethodRecord(&payload, &args, writer, types, method); err != nil {
			return err
		}
	}
	payload.WriteJI4(len(staticFields))
	for _, field := range staticFields {
		if err := t.writeFieldRecord(&payload, &args, types, field); err != nil {
			return err
		}
	}
	payload.WriteJI4(len(staticMethods))
	for _, method := range staticMethods {
		if err := t.writeMethodRecord(&payload, &args, writer, types, method); err != nil {
			return err
		}
	}
	writer.ImportCommand(importNamespace, payload.String(), args)
	return nil
}

// writeFieldRecord writes one field: name, access flags and either the
// primitive descriptor character or "L" with a referenced type argument.
func (t *StructType) writeFieldRecord(payload *jawa.PayloadWriter, args *[]jawa.ImportArg, types *TypeManager, field *FieldInfo) error {
	payload.WriteName(field.Name)
	payload.WriteJI2(jawaFieldAttrs(field.AccessFlags))
	refType, err := types.fieldRefType(field.Descriptor)
	if err != nil {
		return err
	}
	if refType == nil {
		payload.WriteSig(field.Descriptor)
	} else {
		payload.WriteSig("L")
		*args = append(*args, jawa.TypeArg{Type: refType})
	}
	return nil
}

// writeMethodRecord writes one method: name, access flags, the compressed
// signature (the JI2 length does not count the return character), one type
// argument per reference parameter and the implementing function.
func (t *StructType) writeMethodRecord(payload *jawa.PayloadWriter, args *[]jawa.ImportArg, writer jawa.ModuleWriter, types *TypeManager, method *MethodInfo) error {
	fn := methodFuncName(method)
	payload.WriteName(method.Name)
	payload.WriteJI2(jawaMethodAttrs(method.AccessFlags))
	sig, err := newSignature(method.Signature, types)
	if err != nil {
		return err
	}
	payload.WriteJI2(len(sig.JawaSig) - 1)
	payload.WriteSig(sig.JawaSig)
	for _, paramType := range sig.Types {
		*args = append(*args, jawa.TypeArg{Type: paramType})
	}
	*args = append(*args, jawa.FuncArg{ID: writer.GetFunction(fn)})
	return nil
}
