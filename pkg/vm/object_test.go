package vm

import "testing"

func TestSetAndGetOwn(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	obj.SetOwn("a", NumberValue(1))

	v, ok := obj.GetOwn("a")
	if !ok || v.AsNumber() != 1 {
		t.Fatalf("expected a=1, got %v (ok=%v)", v, ok)
	}
	if _, ok := obj.GetOwn("missing"); ok {
		t.Fatal("expected missing property to be absent")
	}
}

func TestSymbolKeyedStorage(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	sym := NewSymbol("k").AsSymbol()
	other := NewSymbol("k").AsSymbol()

	obj.SetOwnByKey(NewSymbolKey(sym), NumberValue(7))

	if v, ok := obj.GetOwnByKey(NewSymbolKey(sym)); !ok || v.AsNumber() != 7 {
		t.Fatalf("expected 7 under sym, got %v (ok=%v)", v, ok)
	}
	// A distinct symbol with the same description is a different key.
	if _, ok := obj.GetOwnByKey(NewSymbolKey(other)); ok {
		t.Fatal("distinct symbols must not collide")
	}
}

func TestPrivateSymbolStorageIsOrdinary(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	priv := NewPrivateSymbol("#x").AsSymbol()
	key := NewSymbolKey(priv)

	obj.SetOwnByKey(key, NumberValue(1))
	v, w, e, c, ok := obj.GetOwnDescriptorByKey(key)
	if !ok {
		t.Fatal("private-keyed property should exist")
	}
	if v.AsNumber() != 1 || !w || !e || !c {
		t.Errorf("expected value=1 w/e/c=true, got %v %v %v %v", v, w, e, c)
	}

	if !obj.DeleteOwnByKey(key) {
		t.Error("private-keyed property should be deletable")
	}
	if obj.HasOwnByKey(key) {
		t.Error("property should be gone after delete")
	}
}

func TestAssignmentRespectsWritable(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	if err := obj.DefineOwnPropertyByKey(NewStringKey("ro"), DataDescriptor(NumberValue(1), false, true, true)); err != nil {
		t.Fatal(err)
	}
	obj.SetOwn("ro", NumberValue(2))
	if v, _ := obj.GetOwn("ro"); v.AsNumber() != 1 {
		t.Errorf("non-writable property was overwritten: %v", v)
	}
}

func TestNonExtensibleRejectsNewProperties(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	obj.SetOwn("a", NumberValue(1))
	obj.SetExtensible(false)

	obj.SetOwn("b", NumberValue(2))
	if obj.HasOwn("b") {
		t.Error("assignment created a property on a non-extensible object")
	}
	if err := obj.DefineOwnPropertyByKey(NewStringKey("c"), DataDescriptor(Null, true, true, true)); err == nil {
		t.Error("define on non-extensible object should error")
	}

	// Existing properties stay writable.
	obj.SetOwn("a", NumberValue(3))
	if v, _ := obj.GetOwn("a"); v.AsNumber() != 3 {
		t.Error("existing property should still be writable")
	}
}

func TestDefineNonConfigurableRestrictions(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	if err := obj.DefineOwnPropertyByKey(NewStringKey("p"), DataDescriptor(NumberValue(1), false, false, false)); err != nil {
		t.Fatal(err)
	}

	configurable := true
	if err := obj.DefineOwnPropertyByKey(NewStringKey("p"), PropertyDescriptor{Configurable: &configurable}); err == nil {
		t.Error("making a non-configurable property configurable should error")
	}
	writable := true
	if err := obj.DefineOwnPropertyByKey(NewStringKey("p"), PropertyDescriptor{Writable: &writable}); err == nil {
		t.Error("making a non-writable, non-configurable property writable should error")
	}
	if err := obj.DefineOwnPropertyByKey(NewStringKey("p"), PropertyDescriptor{Value: NumberValue(2), HasValue: true}); err == nil {
		t.Error("changing the value of a frozen property should error")
	}
	if err := obj.DefineOwnPropertyByKey(NewStringKey("p"), PropertyDescriptor{Value: NumberValue(1), HasValue: true}); err != nil {
		t.Errorf("redefining with the same value should be allowed: %v", err)
	}

	if obj.DeleteOwnByKey(NewStringKey("p")) {
		t.Error("non-configurable property should not be deletable")
	}
}

func TestPrototypeChainLookup(t *testing.T) {
	proto := NewObject(Undefined)
	proto.AsPlainObject().SetOwn("inherited", NumberValue(42))
	obj := NewObject(proto).AsPlainObject()

	v, ok := obj.Get("inherited")
	if !ok || v.AsNumber() != 42 {
		t.Fatalf("prototype lookup failed: %v (ok=%v)", v, ok)
	}
	if _, ok := obj.GetOwn("inherited"); ok {
		t.Error("inherited property must not be an own property")
	}

	// Private-keyed lookup also walks the chain; privacy is about
	// enumeration, not inheritance.
	priv := NewPrivateSymbol("#p").AsSymbol()
	proto.AsPlainObject().SetOwnByKey(NewSymbolKey(priv), True)
	if v, ok := obj.GetByKey(NewSymbolKey(priv)); !ok || !v.AsBoolean() {
		t.Error("private-keyed property should be inherited through the chain")
	}
}
