package compiler

import (
	log "github.com/inconshreveable/log15"

	"github.com/wangbrenda/jawac/jawa"
)

// testLoader is a scripted classfile provider.
type testLoader struct {
	classes map[string]*ClassInfo
	calls   int
}

func (l *testLoader) Get(name string) (*ClassInfo, error) {
	l.calls++
	return l.classes[name], nil
}

func newTestLoader(classes ...*ClassInfo) *testLoader {
	l := &testLoader{classes: make(map[string]*ClassInfo)}
	for _, c := range classes {
		l.classes[c.Name] = c
	}
	return l
}

func objectInfo() *ClassInfo {
	return &ClassInfo{Name: "java/lang/Object", AccessFlags: AccPublic}
}

func classInfo(name, super string, interfaces ...string) *ClassInfo {
	return &ClassInfo{Name: name, AccessFlags: AccPublic, SuperName: super, Interfaces: interfaces}
}

func interfaceInfo(name string, interfaces ...string) *ClassInfo {
	return &ClassInfo{
		Name:        name,
		Kind:        KindInterface,
		AccessFlags: AccPublic | AccInterface | AccAbstract,
		Interfaces:  interfaces,
	}
}

func method(owner, name, sig string) MethodInfo {
	return MethodInfo{ClassName: owner, Name: name, Signature: sig, AccessFlags: AccPublic}
}

func fn(owner, name, sig string) jawa.FuncName {
	return jawa.FuncName{ClassName: owner, MethodName: name, Signature: sig}
}

// newTestManager builds a manager with a quiet logger and its own
// function registry.
func newTestManager() (*TypeManager, *Functions) {
	functions := NewFunctions()
	logger := log.New()
	logger.SetHandler(log.DiscardHandler())
	options := &Options{Functions: functions, Strings: NewStringTable(), Logger: logger}
	return NewTypeManager(options), functions
}

func mustValueOf(t interface{ Fatalf(string, ...any) }, m *TypeManager, name string) *StructType {
	st, err := m.ValueOf(name)
	if err != nil {
		t.Fatalf("ValueOf(%s): %v", name, err)
	}
	return st
}
