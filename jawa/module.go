package jawa

// ImportArg is one argument of a type import or import command: either a
// type reference or a function reference.
type ImportArg interface {
	isImportArg()
}

// TypeArg references a type from an import payload.
type TypeArg struct {
	Type AnyType
}

// FuncArg references a function from an import payload by its id.
type FuncArg struct {
	ID int32
}

func (TypeArg) isImportArg() {}
func (FuncArg) isImportArg() {}

// ModuleWriter is the sink the engine drives while emitting a module.
// The embedding compiler provides the real implementation; Recorder is an
// in-memory implementation for tests and tools.
type ModuleWriter interface {
	// ImportType emits one type import. self is the type being described,
	// base is an optional bound type (nil for jawa imports), args are the
	// type arguments referenced by the payload.
	ImportType(namespace, payload string, self AnyType, base AnyType, args []AnyType)

	// ImportCommand emits one definition import with mixed type and
	// function arguments.
	ImportCommand(namespace, payload string, args []ImportArg)

	// ImportFunction makes a function handle known to the module.
	ImportFunction(fn FuncName)

	// WriteStructType writes the structural type of a class and returns
	// its type code in the module.
	WriteStructType(t AnyType) int

	// GetFunction returns the stable function id for a handle.
	GetFunction(fn FuncName) int32

	// DataStream returns the module data section.
	DataStream() *DataStream
}

// TypeImport is one recorded ImportType call.
type TypeImport struct {
	Namespace string
	Payload   string
	Self      AnyType
	Base      AnyType
	Args      []AnyType
}

// CommandImport is one recorded ImportCommand call.
type CommandImport struct {
	Namespace string
	Payload   string
	Args      []ImportArg
}

// Recorder is an in-memory ModuleWriter. Function ids are interned in call
// order starting at 0, struct type codes likewise.
type Recorder struct {
	TypeImports    []TypeImport
	CommandImports []CommandImport
	Functions      []FuncName

	funcIDs map[FuncName]int32
	codes   map[AnyType]int
	data    DataStream
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		funcIDs: make(map[FuncName]int32),
		codes:   make(map[AnyType]int),
	}
}

func (r *Recorder) ImportType(namespace, payload string, self AnyType, base AnyType, args []AnyType) {
	r.TypeImports = append(r.TypeImports, TypeImport{namespace, payload, self, base, args})
}

func (r *Recorder) ImportCommand(namespace, payload string, args []ImportArg) {
	r.CommandImports = append(r.CommandImports, CommandImport{namespace, payload, args})
}

func (r *Recorder) ImportFunction(fn FuncName) {
	r.GetFunction(fn)
}

func (r *Recorder) WriteStructType(t AnyType) int {
	code, ok := r.codes[t]
	if !ok {
		code = len(r.codes)
		r.codes[t] = code
	}
	return code
}

func (r *Recorder) GetFunction(fn FuncName) int32 {
	id, ok := r.funcIDs[fn]
	if !ok {
		id = int32(len(r.funcIDs))
		r.funcIDs[fn] = id
		r.Functions = append(r.Functions, fn)
	}
	return id
}

func (r *Recorder) DataStream() *DataStream {
	return &r.data
}
