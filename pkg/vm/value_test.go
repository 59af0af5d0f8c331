package vm

import "testing"

func TestSymbolIdentity(t *testing.T) {
	a := NewSymbol("desc")
	b := NewSymbol("desc")
	if a.Is(b) {
		t.Error("symbols with equal descriptions must still be distinct")
	}
	if !a.Is(a) {
		t.Error("a symbol must equal itself")
	}

	pa := NewPrivateSymbol("desc")
	pb := NewPrivateSymbol("desc")
	if pa.Is(pb) {
		t.Error("private symbols with equal descriptions must still be distinct")
	}
	if !pa.AsSymbol().IsPrivate() || a.AsSymbol().IsPrivate() {
		t.Error("private flag mismatch")
	}
}

func TestTypeofNames(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Undefined, "undefined"},
		{Null, "object"},
		{True, "boolean"},
		{NumberValue(1), "number"},
		{NewString("s"), "string"},
		{NewSymbol(""), "symbol"},
		{NewPrivateSymbol("#x"), "symbol"},
		{NewObject(Undefined), "object"},
	}
	for _, tt := range tests {
		if got := tt.value.TypeofName(); got != tt.want {
			t.Errorf("typeof %v = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestStrictAndLooseEquality(t *testing.T) {
	if !Null.LooseEquals(Undefined) || !Undefined.LooseEquals(Null) {
		t.Error("null == undefined must hold")
	}
	if Null.StrictEquals(Undefined) {
		t.Error("null === undefined must not hold")
	}
	if !NumberValue(1).StrictEquals(NumberValue(1)) {
		t.Error("1 === 1 must hold")
	}
	if !NewString("a").StrictEquals(NewString("a")) {
		t.Error("string equality is by content")
	}

	o1, o2 := NewObject(Undefined), NewObject(Undefined)
	if o1.StrictEquals(o2) {
		t.Error("distinct objects must not be equal")
	}
	if !o1.StrictEquals(o1) {
		t.Error("an object must equal itself")
	}
}

func TestTruthiness(t *testing.T) {
	falsy := []Value{Undefined, Null, False, NumberValue(0), NewString("")}
	for _, v := range falsy {
		if v.IsTruthy() {
			t.Errorf("%v should be falsy", v)
		}
	}
	truthy := []Value{True, NumberValue(-1), NewString("0"), NewObject(Undefined), NewSymbol("")}
	for _, v := range truthy {
		if !v.IsTruthy() {
			t.Errorf("%v should be truthy", v)
		}
	}
}

func TestNumberFormatting(t *testing.T) {
	tests := []struct {
		n    float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{-0.25, "-0.25"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := NumberValue(tt.n).ToString(); got != tt.want {
			t.Errorf("%v.ToString() = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestInspectFiltersPrivateKeys(t *testing.T) {
	objVal := NewObject(Undefined)
	obj := objVal.AsPlainObject()
	obj.SetOwn("a", NumberValue(1))
	obj.SetOwnByKey(NewSymbolKey(NewPrivateSymbol("#hidden").AsSymbol()), NumberValue(2))

	got := objVal.Inspect()
	if got != "{ a: 1 }" {
		t.Errorf("Inspect leaked private keys: %q", got)
	}
}

func TestInspectCycles(t *testing.T) {
	objVal := NewObject(Undefined)
	objVal.AsPlainObject().SetOwn("self", objVal)
	got := objVal.Inspect()
	if got != "{ self: [Circular] }" {
		t.Errorf("unexpected cycle rendering: %q", got)
	}
}
