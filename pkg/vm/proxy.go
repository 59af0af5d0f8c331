package vm

import (
	"unsafe"

	"sigil/pkg/errors"
)

// ProxyObject wraps a target object and a handler object implementing a
// subset of trap operations.
//
// Invariant: for any trap invocation whose key argument is a private symbol,
// the handler is never consulted — the operation forwards to the target's
// default behavior, indistinguishable from there being no handler at all.
// Proxy-of-proxy chains apply the rule at each layer independently, because
// forwarding re-enters the meta-object layer with the inner proxy as target.
type ProxyObject struct {
	target  Value
	handler Value
}

// NewProxy creates a proxy value. The caller validates target and handler.
func NewProxy(target Value, handler Value) Value {
	proxyObj := &ProxyObject{target: target, handler: handler}
	return Value{typ: TypeProxy, obj: unsafe.Pointer(proxyObj)}
}

// Target returns the proxy's wrapped target.
func (p *ProxyObject) Target() Value { return p.target }

// Handler returns the proxy's handler object.
func (p *ProxyObject) Handler() Value { return p.handler }

// trapFor looks up a trap on the handler. Returns (fn, true) when the
// handler defines it; missing or undefined traps fall back to the default.
func (p *ProxyObject) trapFor(name string) (Value, bool, error) {
	if p.handler.Type() != TypeObject {
		return Undefined, false, nil
	}
	fn, ok := p.handler.AsPlainObject().Get(name)
	if !ok || fn.IsUndefined() || fn.IsNull() {
		return Undefined, false, nil
	}
	if !fn.IsCallable() {
		return Undefined, false, errors.NewRuntimeError("proxy handler trap '%s' is not a function", name)
	}
	return fn, true, nil
}

func proxyGet(proxyVal Value, key PropertyKey, receiver Value) (Value, error) {
	p := proxyVal.AsProxy()
	if key.IsPrivate() {
		return getWithReceiver(p.target, key, receiver)
	}
	trap, ok, err := p.trapFor("get")
	if err != nil {
		return Undefined, err
	}
	if !ok {
		return getWithReceiver(p.target, key, receiver)
	}
	return Call(trap, p.handler, []Value{p.target, KeyToValue(key), receiver})
}

func proxySet(proxyVal Value, key PropertyKey, value Value) error {
	p := proxyVal.AsProxy()
	if key.IsPrivate() {
		return Set(p.target, key, value)
	}
	trap, ok, err := p.trapFor("set")
	if err != nil {
		return err
	}
	if !ok {
		return Set(p.target, key, value)
	}
	_, err = Call(trap, p.handler, []Value{p.target, KeyToValue(key), value, proxyVal})
	return err
}

func proxyHas(proxyVal Value, key PropertyKey) (bool, error) {
	p := proxyVal.AsProxy()
	if key.IsPrivate() {
		return Has(p.target, key)
	}
	trap, ok, err := p.trapFor("has")
	if err != nil {
		return false, err
	}
	if !ok {
		return Has(p.target, key)
	}
	result, err := Call(trap, p.handler, []Value{p.target, KeyToValue(key)})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

func proxyDelete(proxyVal Value, key PropertyKey) (bool, error) {
	p := proxyVal.AsProxy()
	if key.IsPrivate() {
		return Delete(p.target, key)
	}
	trap, ok, err := p.trapFor("deleteProperty")
	if err != nil {
		return false, err
	}
	if !ok {
		return Delete(p.target, key)
	}
	result, err := Call(trap, p.handler, []Value{p.target, KeyToValue(key)})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

func proxyDefineProperty(proxyVal Value, key PropertyKey, desc PropertyDescriptor) error {
	p := proxyVal.AsProxy()
	if key.IsPrivate() {
		return DefineProperty(p.target, key, desc)
	}
	trap, ok, err := p.trapFor("defineProperty")
	if err != nil {
		return err
	}
	if !ok {
		return DefineProperty(p.target, key, desc)
	}
	result, err := Call(trap, p.handler, []Value{p.target, KeyToValue(key), FromPropertyDescriptor(desc)})
	if err != nil {
		return err
	}
	if !result.IsTruthy() {
		return errors.NewRuntimeError("proxy 'defineProperty' trap returned falsish for property '%s'", key)
	}
	return nil
}

func proxyGetOwnPropertyDescriptor(proxyVal Value, key PropertyKey) (PropertyDescriptor, bool, error) {
	p := proxyVal.AsProxy()
	if key.IsPrivate() {
		return GetOwnPropertyDescriptor(p.target, key)
	}
	trap, ok, err := p.trapFor("getOwnPropertyDescriptor")
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	if !ok {
		return GetOwnPropertyDescriptor(p.target, key)
	}
	result, err := Call(trap, p.handler, []Value{p.target, KeyToValue(key)})
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	if result.IsUndefined() {
		return PropertyDescriptor{}, false, nil
	}
	desc, err := ToPropertyDescriptor(result)
	if err != nil {
		return PropertyDescriptor{}, false, err
	}
	return desc, true, nil
}

// proxyOwnKeys invokes the ownKeys trap. The bypass rule does not apply here
// (there is no single key argument); instead the handler's returned list is
// validated: asserting the existence of a private symbol is an integrity
// error, raised before any element is exposed to the caller.
func proxyOwnKeys(proxyVal Value) ([]PropertyKey, error) {
	p := proxyVal.AsProxy()
	trap, ok, err := p.trapFor("ownKeys")
	if err != nil {
		return nil, err
	}
	if !ok {
		return OwnKeysOf(p.target)
	}
	result, err := Call(trap, p.handler, []Value{p.target})
	if err != nil {
		return nil, err
	}
	if result.Type() != TypeArray {
		return nil, errors.NewRuntimeError("proxy 'ownKeys' trap must return an array, got %s", result.Type())
	}
	elements := result.AsArray().Elements()
	keys := make([]PropertyKey, 0, len(elements))
	for _, el := range elements {
		switch el.Type() {
		case TypeString:
			keys = append(keys, NewStringKey(el.AsString()))
		case TypeSymbol:
			if el.AsSymbol().IsPrivate() {
				return nil, errors.NewIntegrityError("proxy 'ownKeys' trap returned a private symbol")
			}
			keys = append(keys, NewSymbolKey(el.AsSymbol()))
		default:
			return nil, errors.NewRuntimeError("proxy 'ownKeys' trap returned a non-key value of type %s", el.Type())
		}
	}
	return keys, nil
}

func proxyIsExtensible(proxyVal Value) (bool, error) {
	p := proxyVal.AsProxy()
	trap, ok, err := p.trapFor("isExtensible")
	if err != nil {
		return false, err
	}
	if !ok {
		return IsExtensible(p.target)
	}
	result, err := Call(trap, p.handler, []Value{p.target})
	if err != nil {
		return false, err
	}
	return result.IsTruthy(), nil
}

func proxyPreventExtensions(proxyVal Value) error {
	p := proxyVal.AsProxy()
	trap, ok, err := p.trapFor("preventExtensions")
	if err != nil {
		return err
	}
	if !ok {
		return PreventExtensions(p.target)
	}
	result, err := Call(trap, p.handler, []Value{p.target})
	if err != nil {
		return err
	}
	if !result.IsTruthy() {
		return errors.NewRuntimeError("proxy 'preventExtensions' trap returned falsish")
	}
	return nil
}
