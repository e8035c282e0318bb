package jawa

import "strings"

// FuncName identifies a function by its owning class, simple name and
// JVM-style signature. Two FuncName values are the same function iff all
// three components are equal.
type FuncName struct {
	ClassName  string // slash-separated, e.g. "java/lang/Object"
	MethodName string
	Signature  string // e.g. "(I)Ljava/lang/Class;"
}

// NewFuncName parses a full name of the form
// "java/lang/Class.classConstant(I)Ljava/lang/Class;".
func NewFuncName(fullName string) FuncName {
	dot := strings.IndexByte(fullName, '.')
	paren := strings.IndexByte(fullName, '(')
	return FuncName{
		ClassName:  fullName[:dot],
		MethodName: fullName[dot+1 : paren],
		Signature:  fullName[paren:],
	}
}

// FullName returns "class.method".
func (f FuncName) FullName() string {
	return f.ClassName + "." + f.MethodName
}

// SignatureName returns the complete unique name "class.method(sig)".
func (f FuncName) SignatureName() string {
	return f.FullName() + f.Signature
}

func (f FuncName) String() string {
	return f.SignatureName()
}

// SyntheticFunction is a function that has no classfile behind it. Its body
// is given as textual stack-machine code which the embedding compiler
// assembles verbatim. The dispatch stubs and the type table accessor are
// synthetic functions.
type SyntheticFunction struct {
	FuncName

	// Params and Result describe the signature in target types. A nil
	// Result means the function returns nothing.
	Params []AnyType
	Result AnyType

	// Code is the textual instruction sequence of the body.
	Code string
}

// NewSyntheticFunction builds a synthetic function. The signature string of
// the FuncName is derived from the target types so that two synthetics with
// the same shape share one identity.
func NewSyntheticFunction(className, methodName, code string, result AnyType, params ...AnyType) *SyntheticFunction {
	var sig strings.Builder
	sig.WriteByte('(')
	for _, p := range params {
		sig.WriteString(p.String())
		sig.WriteByte(';')
	}
	sig.WriteByte(')')
	if result != nil {
		sig.WriteString(result.String())
	}
	return &SyntheticFunction{
		FuncName: FuncName{ClassName: className, MethodName: methodName, Signature: sig.String()},
		Params:   params,
		Result:   result,
		Code:     code,
	}
}
