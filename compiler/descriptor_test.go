package compiler

import (
	"strings"
	"testing"

	"github.com/wangbrenda/jawac/jawa"
)

// walkInstanceOf mirrors the instanceof stub: follow the descriptor header
// to the instanceof region and scan the class index list.
func walkInstanceOf(data *jawa.DataStream, vtableOffset, classIdx int) int {
	ptr := vtableOffset + int(data.Int32At(vtableOffset+TypeDescInstanceofOffset))
	count := int(data.Int32At(ptr))
	for i := 0; i < count; i++ {
		ptr += 4
		if int(data.Int32At(ptr)) == classIdx {
			return 1
		}
	}
	return 0
}

// walkInterfaceCall mirrors the interface call stub: follow the header to
// the itable region and chase interface entries until classIdx or the zero
// sentinel.
func walkInterfaceCall(data *jawa.DataStream, vtableOffset, classIdx, vfIdx int) (int32, bool) {
	table := vtableOffset + int(data.Int32At(vtableOffset+TypeDescInterfaceOffset))
	for {
		next := data.Int32At(table)
		if int(next) == classIdx {
			return data.Int32At(table + vfIdx), true
		}
		if next == 0 {
			return 0, false
		}
		table += int(data.Int32At(table + 4))
	}
}

func buildEmitted(t *testing.T) (*TypeManager, *Functions, *jawa.Recorder, *testLoader) {
	t.Helper()
	iface := interfaceInfo("pkg/I")
	iface.Methods = []MethodInfo{method("pkg/I", "f", "()V")}
	c := classInfo("pkg/C", "java/lang/Object", "pkg/I")
	c.Methods = []MethodInfo{method("pkg/C", "f", "()V")}
	loader := newTestLoader(objectInfo(), iface, c)

	m, functions := newTestManager()
	mustValueOf(t, m, "pkg/C")
	mustValueOf(t, m, "pkg/I")
	if _, err := m.ArrayType(jawa.I32); err != nil {
		t.Fatal(err)
	}
	functions.MarkAsNeeded(fn("pkg/I", "f", "()V"))
	functions.MarkAsNeeded(fn("pkg/C", "f", "()V"))

	if err := m.ScanTypeHierarchy(loader); err != nil {
		t.Fatal(err)
	}
	rec := jawa.NewRecorder()
	if err := m.PrepareFinish(rec, loader); err != nil {
		t.Fatal(err)
	}
	return m, functions, rec, loader
}

func TestDescriptorHeaderOffsets(t *testing.T) {
	m, _, rec, _ := buildEmitted(t)
	data := rec.DataStream()
	ct := mustValueOf(t, m, "pkg/C")
	voff := ct.VTableOffset()

	// one vtable entry, so the itable region starts 20 bytes in
	itableOff := int(data.Int32At(voff + TypeDescInterfaceOffset))
	if itableOff != 20 {
		t.Errorf("itable offset: %d, want 20", itableOff)
	}

	// itable region: interface class index, stride, one method, sentinel
	it := mustValueOf(t, m, "pkg/I")
	itable := voff + itableOff
	if got := int(data.Int32At(itable)); got != it.ClassIndex() {
		t.Errorf("itable interface index: %d, want %d", got, it.ClassIndex())
	}
	if got := data.Int32At(itable + 4); got != 12 {
		t.Errorf("itable stride: %d, want 12", got)
	}
	if got := data.Int32At(itable + 12); got != 0 {
		t.Errorf("itable sentinel: %d", got)
	}

	// instanceof region directly behind the itable
	instOff := int(data.Int32At(voff + TypeDescInstanceofOffset))
	if instOff != itableOff+16 {
		t.Errorf("instanceof offset: %d, want %d", instOff, itableOff+16)
	}
	count := data.Int32At(voff + instOff)
	if count != 3 {
		t.Errorf("instanceof count: %d, want 3", count)
	}
	// self first
	if got := int(data.Int32At(voff + instOff + 4)); got != ct.ClassIndex() {
		t.Errorf("first instanceof entry: %d, want %d", got, ct.ClassIndex())
	}
}

func TestDescriptorVTableEntry(t *testing.T) {
	m, _, rec, _ := buildEmitted(t)
	data := rec.DataStream()
	ct := mustValueOf(t, m, "pkg/C")
	voff := ct.VTableOffset()

	wantID := rec.GetFunction(fn("pkg/C", "f", "()V"))
	if got := data.Int32At(voff + vtableFirstFunctionIndex*4); got != wantID {
		t.Errorf("vtable slot 4: %d, want %d", got, wantID)
	}
}

func TestDescriptorNameAndComponent(t *testing.T) {
	m, _, rec, _ := buildEmitted(t)
	data := rec.DataStream()
	ct := mustValueOf(t, m, "pkg/C")
	voff := ct.VTableOffset()

	wantName := m.options.Strings.Get("pkg.C")
	if got := data.Int32At(voff + TypeDescTypeName); got != wantName {
		t.Errorf("name string id: %d, want %d", got, wantName)
	}
	if got := data.Int32At(voff + TypeDescArrayType); got != -1 {
		t.Errorf("component slot of class: %d, want -1", got)
	}

	arr, err := m.ArrayType(jawa.I32)
	if err != nil {
		t.Fatal(err)
	}
	if got := data.Int32At(arr.VTableOffset() + TypeDescArrayType); got != 5 {
		t.Errorf("int array component slot: %d, want 5", got)
	}
}

func TestInterfaceCallResolution(t *testing.T) {
	m, functions, rec, _ := buildEmitted(t)
	data := rec.DataStream()
	ct := mustValueOf(t, m, "pkg/C")
	it := mustValueOf(t, m, "pkg/I")

	vfIdx := functions.GetITableIndex(fn("pkg/I", "f", "()V")) * 4
	got, ok := walkInterfaceCall(data, ct.VTableOffset(), it.ClassIndex(), vfIdx)
	if !ok {
		t.Fatal("interface walk hit the sentinel")
	}
	want := rec.GetFunction(fn("pkg/C", "f", "()V"))
	if got != want {
		t.Errorf("resolved function: %d, want %d", got, want)
	}

	// an interface the class does not implement traps
	if _, ok := walkInterfaceCall(data, ct.VTableOffset(), 9999, vfIdx); ok {
		t.Error("walk resolved a foreign interface")
	}
}

func TestInstanceOfWalk(t *testing.T) {
	m, _, rec, _ := buildEmitted(t)
	data := rec.DataStream()
	ct := mustValueOf(t, m, "pkg/C")
	it := mustValueOf(t, m, "pkg/I")
	obj := mustValueOf(t, m, "java/lang/Object")

	voff := ct.VTableOffset()
	for _, super := range []*StructType{ct, it, obj} {
		if walkInstanceOf(data, voff, super.ClassIndex()) != 1 {
			t.Errorf("C instanceof %s: want 1", super.Name())
		}
	}
	if walkInstanceOf(data, voff, 4242) != 0 {
		t.Error("C instanceof unrelated: want 0")
	}
	// object is only assignable to itself
	if walkInstanceOf(data, obj.VTableOffset(), ct.ClassIndex()) != 0 {
		t.Error("Object instanceof C: want 0")
	}
}

func TestTypeTable(t *testing.T) {
	m, _, rec, _ := buildEmitted(t)
	data := rec.DataStream()

	tto := m.TypeTableOffset()
	types := m.Types()
	if data.Size() != tto+4*len(types) {
		t.Fatalf("type table truncated: size %d, table at %d for %d types", data.Size(), tto, len(types))
	}
	for i, st := range types {
		if got := data.Int32At(tto + 4*i); got != int32(st.VTableOffset()) {
			t.Errorf("table entry %d (%s): %d, want %d", i, st.Name(), got, st.VTableOffset())
		}
	}

	accessor := m.TypeTableMemoryOffsetFunction()
	if !strings.Contains(accessor.Code, "i32.const") {
		t.Errorf("accessor code: %q", accessor.Code)
	}
	if accessor.SignatureName() != "java/lang/Class.typeTableMemoryOffset()I" {
		t.Errorf("accessor name: %q", accessor.SignatureName())
	}
}

func TestDescriptorOffsetsAssignedInEmissionOrder(t *testing.T) {
	m, _, _, _ := buildEmitted(t)
	last := -1
	for _, st := range m.EmissionOrder() {
		if st.VTableOffset() <= last {
			t.Errorf("%s descriptor at %d out of order (previous %d)", st.Name(), st.VTableOffset(), last)
		}
		last = st.VTableOffset()
	}
}
