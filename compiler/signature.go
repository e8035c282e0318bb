package compiler

import (
	"github.com/wangbrenda/jawac/jawa"
)

// ValueOfSig interprets a JVM type descriptor. "V" yields nil (no value).
// A descriptor with an unknown prefix is tried as a bare class name, the
// legacy form some classfile attributes still carry.
func (m *TypeManager) ValueOfSig(sig string) (jawa.AnyType, error) {
	if sig == "" {
		return nil, compileErr(ErrBadSignature, sig)
	}
	switch sig[0] {
	case 'Z':
		return jawa.Bool, nil
	case 'B', 'C':
		return jawa.I8, nil
	case 'S':
		return jawa.I16, nil
	case 'I':
		return jawa.I32, nil
	case 'D':
		return jawa.F64, nil
	case 'F':
		return jawa.F32, nil
	case 'J':
		return jawa.I64, nil
	case 'V':
		return nil, nil
	case 'L':
		if len(sig) < 3 || sig[len(sig)-1] != ';' {
			return nil, compileErr(ErrBadSignature, sig)
		}
		return m.ValueOf(sig[1 : len(sig)-1])
	case '[':
		elem, err := m.ValueOfSig(sig[1:])
		if err != nil {
			return nil, err
		}
		if elem == nil {
			return nil, compileErr(ErrBadSignature, sig)
		}
		return m.ArrayType(elem)
	default:
		return m.ValueOf(sig)
	}
}

// fieldRefType resolves a field descriptor to its reference type, nil when
// the field is primitive. Definition imports write primitives by their
// descriptor character and references as "L" plus a type argument.
func (m *TypeManager) fieldRefType(desc string) (jawa.AnyType, error) {
	switch desc[0] {
	case 'L', '[':
		return m.ValueOfSig(desc)
	}
	return nil, nil
}

// Signature is a method descriptor compressed to the jawa form: one
// character per parameter plus the return character. Reference parameters
// collapse to 'L' and carry their type in Types.
type Signature struct {
	JawaSig string
	Types   []jawa.AnyType // referenced types, one per 'L' parameter
}

// newSignature parses a JVM method descriptor like "(ILjava/lang/String;)V".
func newSignature(desc string, m *TypeManager) (*Signature, error) {
	if desc == "" || desc[0] != '(' {
		return nil, compileErr(ErrBadSignature, desc)
	}
	sig := &Signature{}
	pos := 1
	returnSeen := false
	for pos < len(desc) {
		if desc[pos] == ')' {
			pos++
			returnSeen = true
			continue
		}
		end, err := descriptorEnd(desc, pos)
		if err != nil {
			return nil, err
		}
		one := desc[pos:end]
		pos = end
		if returnSeen {
			sig.JawaSig += jawaSigChar(one)
			break
		}
		c := jawaSigChar(one)
		sig.JawaSig += c
		if c == "L" {
			t, err := m.ValueOfSig(one)
			if err != nil {
				return nil, err
			}
			sig.Types = append(sig.Types, t)
		}
	}
	if !returnSeen || sig.JawaSig == "" {
		return nil, compileErr(ErrBadSignature, desc)
	}
	return sig, nil
}

// descriptorEnd finds the end of the single type descriptor starting at pos.
func descriptorEnd(desc string, pos int) (int, error) {
	switch desc[pos] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D', 'V':
		return pos + 1, nil
	case 'L':
		for i := pos + 1; i < len(desc); i++ {
			if desc[i] == ';' {
				return i + 1, nil
			}
		}
		return 0, compileErr(ErrBadSignature, desc)
	case '[':
		return descriptorEnd(desc, pos+1)
	}
	return 0, compileErr(ErrBadSignature, desc)
}

// jawaSigChar maps one descriptor to its signature character: primitives
// keep their character, references become 'L'.
func jawaSigChar(desc string) string {
	switch desc[0] {
	case 'L', '[':
		return "L"
	}
	return desc
}
