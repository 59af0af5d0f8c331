package vm

import "testing"

func TestFreezeLocksNonPrivateProperties(t *testing.T) {
	objVal := NewObject(Undefined)
	obj := objVal.AsPlainObject()
	obj.SetOwn("a", NumberValue(1))

	if err := Freeze(objVal); err != nil {
		t.Fatal(err)
	}

	obj.SetOwn("a", NumberValue(2))
	if v, _ := obj.GetOwn("a"); v.AsNumber() != 1 {
		t.Error("frozen property was overwritten")
	}
	obj.SetOwn("b", NumberValue(3))
	if obj.HasOwn("b") {
		t.Error("frozen object accepted a new property")
	}

	frozen, err := IsFrozen(objVal)
	if err != nil || !frozen {
		t.Errorf("expected IsFrozen=true, got %v (err=%v)", frozen, err)
	}
}

func TestFreezeLeavesPrivatePropertiesMutable(t *testing.T) {
	objVal := NewObject(Undefined)
	obj := objVal.AsPlainObject()
	priv := NewPrivateSymbol("#state").AsSymbol()
	key := NewSymbolKey(priv)
	obj.SetOwnByKey(key, NumberValue(1))
	obj.SetOwn("pub", NumberValue(1))

	if err := Freeze(objVal); err != nil {
		t.Fatal(err)
	}

	// Private-keyed property: still writable, still deletable.
	obj.SetOwnByKey(key, NumberValue(2))
	if v, _ := obj.GetOwnByKey(key); v.AsNumber() != 2 {
		t.Error("freeze must not lock private-keyed properties")
	}
	_, w, _, c, _ := obj.GetOwnDescriptorByKey(key)
	if !w || !c {
		t.Error("private-keyed property lost its attributes during freeze")
	}
	if !obj.DeleteOwnByKey(key) {
		t.Error("private-keyed property should stay deletable after freeze")
	}

	// But no *new* private-keyed property can appear: freeze still makes
	// the object non-extensible.
	fresh := NewSymbolKey(NewPrivateSymbol("#new").AsSymbol())
	obj.SetOwnByKey(fresh, NumberValue(9))
	if obj.HasOwnByKey(fresh) {
		t.Error("non-extensible object accepted a new private-keyed property")
	}
}

func TestIsFrozenIgnoresPrivateProperties(t *testing.T) {
	objVal := NewObject(Undefined)
	obj := objVal.AsPlainObject()
	obj.SetOwnByKey(NewSymbolKey(NewPrivateSymbol("#x").AsSymbol()), NumberValue(1))

	if err := Freeze(objVal); err != nil {
		t.Fatal(err)
	}
	frozen, err := IsFrozen(objVal)
	if err != nil {
		t.Fatal(err)
	}
	if !frozen {
		t.Error("object with only a writable private-keyed property must still report frozen")
	}
}

func TestSealKeepsValuesWritable(t *testing.T) {
	objVal := NewObject(Undefined)
	obj := objVal.AsPlainObject()
	obj.SetOwn("a", NumberValue(1))

	if err := Seal(objVal); err != nil {
		t.Fatal(err)
	}

	obj.SetOwn("a", NumberValue(2))
	if v, _ := obj.GetOwn("a"); v.AsNumber() != 2 {
		t.Error("sealed property should stay writable")
	}
	if obj.DeleteOwnByKey(NewStringKey("a")) {
		t.Error("sealed property should not be deletable")
	}

	sealed, _ := IsSealed(objVal)
	if !sealed {
		t.Error("expected IsSealed=true")
	}
	frozen, _ := IsFrozen(objVal)
	if frozen {
		t.Error("sealed-but-writable object must not report frozen")
	}
}

func TestFreezePrimitivesPassThrough(t *testing.T) {
	for _, v := range []Value{Undefined, Null, NumberValue(1), NewString("s"), True} {
		if err := Freeze(v); err != nil {
			t.Errorf("freezing %v errored: %v", v, err)
		}
		frozen, err := IsFrozen(v)
		if err != nil || !frozen {
			t.Errorf("primitives report frozen, got %v (err=%v)", frozen, err)
		}
	}
}

func TestFreezeThroughProxyWithoutTraps(t *testing.T) {
	target := NewObject(Undefined)
	target.AsPlainObject().SetOwn("a", NumberValue(1))
	proxy := NewProxy(target, NewObject(Undefined))

	if err := Freeze(proxy); err != nil {
		t.Fatal(err)
	}
	frozen, err := IsFrozen(proxy)
	if err != nil || !frozen {
		t.Fatalf("expected frozen proxy, got %v (err=%v)", frozen, err)
	}
	if target.AsPlainObject().IsExtensible() {
		t.Error("freeze through a trapless proxy should reach the target")
	}
}
