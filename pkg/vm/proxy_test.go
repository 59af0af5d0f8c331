package vm

import (
	"testing"

	"sigil/pkg/errors"
)

// trapCounter builds a handler whose traps record their invocations.
func trapCounter(counts map[string]int, traps ...string) Value {
	handler := NewObject(Undefined)
	h := handler.AsPlainObject()
	for _, name := range traps {
		trap := name
		switch trap {
		case "get":
			h.SetOwn(trap, NewNativeFunction(3, trap, func(this Value, args []Value) (Value, error) {
				counts["get"]++
				return Get(args[0], KeyFromValue(args[1]))
			}))
		case "set":
			h.SetOwn(trap, NewNativeFunction(4, trap, func(this Value, args []Value) (Value, error) {
				counts["set"]++
				return True, Set(args[0], KeyFromValue(args[1]), args[2])
			}))
		case "has":
			h.SetOwn(trap, NewNativeFunction(2, trap, func(this Value, args []Value) (Value, error) {
				counts["has"]++
				found, err := Has(args[0], KeyFromValue(args[1]))
				return BooleanValue(found), err
			}))
		case "deleteProperty":
			h.SetOwn(trap, NewNativeFunction(2, trap, func(this Value, args []Value) (Value, error) {
				counts["deleteProperty"]++
				ok, err := Delete(args[0], KeyFromValue(args[1]))
				return BooleanValue(ok), err
			}))
		}
	}
	return handler
}

func TestPrivateKeysBypassAllTraps(t *testing.T) {
	counts := map[string]int{}
	target := NewObject(Undefined)
	proxy := NewProxy(target, trapCounter(counts, "get", "set", "has", "deleteProperty"))

	priv := NewPrivateSymbol("#secret").AsSymbol()
	key := NewSymbolKey(priv)

	if err := Set(proxy, key, NumberValue(5)); err != nil {
		t.Fatal(err)
	}
	v, err := Get(proxy, key)
	if err != nil || v.AsNumber() != 5 {
		t.Fatalf("expected 5 through proxy, got %v (err=%v)", v, err)
	}
	found, err := Has(proxy, key)
	if err != nil || !found {
		t.Fatalf("expected has=true, got %v (err=%v)", found, err)
	}
	if _, err := Delete(proxy, key); err != nil {
		t.Fatal(err)
	}

	for name, n := range counts {
		if n != 0 {
			t.Errorf("trap %q fired %d times for a private key", name, n)
		}
	}

	// The same operations with a string key hit every trap.
	strKey := NewStringKey("open")
	Set(proxy, strKey, NumberValue(1))
	Get(proxy, strKey)
	Has(proxy, strKey)
	Delete(proxy, strKey)
	for _, name := range []string{"get", "set", "has", "deleteProperty"} {
		if counts[name] != 1 {
			t.Errorf("trap %q fired %d times for a string key, want 1", name, counts[name])
		}
	}
}

func TestPublicSymbolsStillTrap(t *testing.T) {
	counts := map[string]int{}
	target := NewObject(Undefined)
	proxy := NewProxy(target, trapCounter(counts, "get"))

	pub := NewSymbol("open").AsSymbol()
	if _, err := Get(proxy, NewSymbolKey(pub)); err != nil {
		t.Fatal(err)
	}
	if counts["get"] != 1 {
		t.Errorf("expected get trap to fire for a public symbol, fired %d times", counts["get"])
	}
}

func TestProxyChainBypassesEveryLayer(t *testing.T) {
	counts := map[string]int{}
	target := NewObject(Undefined)
	inner := NewProxy(target, trapCounter(counts, "get", "set"))
	outer := NewProxy(inner, trapCounter(counts, "get", "set"))

	key := NewSymbolKey(NewPrivateSymbol("#deep").AsSymbol())
	if err := Set(outer, key, NumberValue(3)); err != nil {
		t.Fatal(err)
	}
	v, err := Get(outer, key)
	if err != nil || v.AsNumber() != 3 {
		t.Fatalf("expected 3 through the chain, got %v (err=%v)", v, err)
	}
	if counts["get"] != 0 || counts["set"] != 0 {
		t.Errorf("traps fired through the chain: %v", counts)
	}
	if v, _ := target.AsPlainObject().GetOwnByKey(key); v.AsNumber() != 3 {
		t.Error("value did not land on the innermost target")
	}
}

func TestOwnKeysTrapCannotReturnPrivateSymbols(t *testing.T) {
	target := NewObject(Undefined)
	priv := NewPrivateSymbol("#leak")

	handler := NewObject(Undefined)
	handler.AsPlainObject().SetOwn("ownKeys", NewNativeFunction(1, "ownKeys", func(this Value, args []Value) (Value, error) {
		return NewArrayWithElements([]Value{NewString("a"), priv}), nil
	}))
	proxy := NewProxy(target, handler)

	_, err := OwnKeysOf(proxy)
	if err == nil {
		t.Fatal("expected an integrity error")
	}
	if _, ok := err.(*errors.IntegrityError); !ok {
		t.Fatalf("expected IntegrityError, got %T: %v", err, err)
	}
}

func TestOwnKeysTrapAllowsPublicKeys(t *testing.T) {
	target := NewObject(Undefined)
	pub := NewSymbol("ok")

	handler := NewObject(Undefined)
	handler.AsPlainObject().SetOwn("ownKeys", NewNativeFunction(1, "ownKeys", func(this Value, args []Value) (Value, error) {
		return NewArrayWithElements([]Value{NewString("a"), pub}), nil
	}))
	proxy := NewProxy(target, handler)

	keys, err := OwnKeysOf(proxy)
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

func TestMissingTrapsForwardToTarget(t *testing.T) {
	target := NewObject(Undefined)
	target.AsPlainObject().SetOwn("a", NumberValue(1))
	proxy := NewProxy(target, NewObject(Undefined))

	v, err := Get(proxy, NewStringKey("a"))
	if err != nil || v.AsNumber() != 1 {
		t.Fatalf("expected forwarded get, got %v (err=%v)", v, err)
	}
	keys, err := OwnKeysOf(proxy)
	if err != nil || len(keys) != 1 {
		t.Fatalf("expected forwarded ownKeys, got %v (err=%v)", keys, err)
	}
}

func TestNonCallableTrapIsAnError(t *testing.T) {
	target := NewObject(Undefined)
	handler := NewObject(Undefined)
	handler.AsPlainObject().SetOwn("get", NumberValue(1))
	proxy := NewProxy(target, handler)

	if _, err := Get(proxy, NewStringKey("a")); err == nil {
		t.Fatal("expected an error for a non-callable trap")
	}
	// Private keys never consult the handler, so the broken trap is
	// irrelevant to them.
	if _, err := Get(proxy, NewSymbolKey(NewPrivateSymbol("#x").AsSymbol())); err != nil {
		t.Fatalf("private access should not touch the broken trap: %v", err)
	}
}
