package vm

import "testing"

func TestOwnKeysCanonicalOrder(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	sym := NewSymbol("s").AsSymbol()

	obj.SetOwn("b", NumberValue(1))
	obj.SetOwn("2", NumberValue(2))
	obj.SetOwnByKey(NewSymbolKey(sym), NumberValue(3))
	obj.SetOwn("a", NumberValue(4))
	obj.SetOwn("0", NumberValue(5))

	keys := obj.OwnKeys()
	want := []string{"0", "2", "b", "a"}
	if len(keys) != 5 {
		t.Fatalf("expected 5 keys, got %d", len(keys))
	}
	for i, name := range want {
		if !keys[i].IsString() || keys[i].StringName() != name {
			t.Errorf("keys[%d]: expected %q, got %v", i, name, keys[i])
		}
	}
	if !keys[4].IsSymbol() || keys[4].Symbol() != sym {
		t.Errorf("expected trailing symbol key, got %v", keys[4])
	}
}

func TestOwnKeysFilterPrivateSymbols(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	pub := NewSymbol("pub").AsSymbol()
	priv := NewPrivateSymbol("#priv").AsSymbol()

	obj.SetOwn("name", NewString("x"))
	obj.SetOwnByKey(NewSymbolKey(pub), NumberValue(1))
	obj.SetOwnByKey(NewSymbolKey(priv), NumberValue(2))

	for _, key := range obj.OwnKeys() {
		if key.IsPrivate() {
			t.Fatalf("private key leaked into OwnKeys: %v", key)
		}
	}
	if len(obj.OwnKeys()) != 2 {
		t.Errorf("expected 2 visible keys, got %d", len(obj.OwnKeys()))
	}

	syms := obj.OwnSymbolKeys()
	if len(syms) != 1 || syms[0] != pub {
		t.Errorf("expected only the public symbol, got %v", syms)
	}

	// The property itself is still there.
	if v, ok := obj.GetOwnByKey(NewSymbolKey(priv)); !ok || v.AsNumber() != 2 {
		t.Error("private-keyed property must remain accessible")
	}
}

func TestOwnEnumerableStringKeys(t *testing.T) {
	obj := NewObject(Undefined).AsPlainObject()
	obj.SetOwn("visible", NumberValue(1))
	obj.SetOwnNonEnumerable("hidden", NumberValue(2))

	names := obj.OwnEnumerableStringKeys()
	if len(names) != 1 || names[0] != "visible" {
		t.Errorf("expected [visible], got %v", names)
	}

	all := obj.OwnStringKeys()
	if len(all) != 2 {
		t.Errorf("expected both names from OwnStringKeys, got %v", all)
	}
}

func TestTryParseArrayIndex(t *testing.T) {
	tests := []struct {
		key  string
		idx  int
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"", 0, false},
		{"01", 0, false},
		{"-1", 0, false},
		{"1a", 0, false},
		{"4294967294", 4294967294, true},
		{"4294967295", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tt := range tests {
		idx, ok := tryParseArrayIndex(tt.key)
		if ok != tt.ok || (ok && idx != tt.idx) {
			t.Errorf("tryParseArrayIndex(%q) = (%d, %v), want (%d, %v)", tt.key, idx, ok, tt.idx, tt.ok)
		}
	}
}
