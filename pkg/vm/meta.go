package vm

import (
	"unicode/utf8"

	"sigil/pkg/errors"
)

// Meta-object operations. Every property access in the interpreter and every
// built-in goes through these, so proxy trap dispatch (and with it the
// private-symbol bypass) lives in exactly one place.

// Get reads target[key], walking prototype chains and proxy traps.
func Get(target Value, key PropertyKey) (Value, error) {
	return getWithReceiver(target, key, target)
}

func getWithReceiver(target Value, key PropertyKey, receiver Value) (Value, error) {
	switch target.Type() {
	case TypeObject:
		v, _ := target.AsPlainObject().GetByKey(key)
		return v, nil
	case TypeProxy:
		return proxyGet(target, key, receiver)
	case TypeArray:
		return arrayGet(target, key)
	case TypeString:
		if key.IsString() && key.StringName() == "length" {
			return NumberValue(float64(utf8.RuneCountInString(target.AsString()))), nil
		}
		return Undefined, nil
	case TypeSymbol:
		return symbolGet(target.AsSymbol(), key), nil
	case TypeFunction:
		if props := target.AsFunction().Properties; props != nil {
			if v, ok := props.GetOwnByKey(key); ok {
				return v, nil
			}
		}
		return Undefined, nil
	case TypeNull, TypeUndefined:
		return Undefined, errors.NewRuntimeError("cannot read property '%s' of %s", key, target.Type())
	default:
		return Undefined, nil
	}
}

// Set writes target[key] = value with ordinary assignment semantics.
func Set(target Value, key PropertyKey, value Value) error {
	switch target.Type() {
	case TypeObject:
		target.AsPlainObject().SetOwnByKey(key, value)
		return nil
	case TypeProxy:
		return proxySet(target, key, value)
	case TypeArray:
		return arraySet(target, key, value)
	case TypeFunction:
		target.AsFunction().EnsureProperties().SetOwnByKey(key, value)
		return nil
	case TypeNull, TypeUndefined:
		return errors.NewRuntimeError("cannot set property '%s' of %s", key, target.Type())
	default:
		// Assignments to primitive receivers are silent no-ops.
		return nil
	}
}

// Has implements the `in`-style existence check (own or inherited).
func Has(target Value, key PropertyKey) (bool, error) {
	switch target.Type() {
	case TypeObject:
		return target.AsPlainObject().HasByKey(key), nil
	case TypeProxy:
		return proxyHas(target, key)
	case TypeArray:
		if key.IsString() {
			if key.StringName() == "length" {
				return true, nil
			}
			if idx, ok := tryParseArrayIndex(key.StringName()); ok {
				return idx < target.AsArray().Length(), nil
			}
		}
		return false, nil
	default:
		return false, errors.NewRuntimeError("cannot use 'in' on %s", target.Type())
	}
}

// Delete removes an own property. Returns false when the property exists but
// is non-configurable.
func Delete(target Value, key PropertyKey) (bool, error) {
	switch target.Type() {
	case TypeObject:
		return target.AsPlainObject().DeleteOwnByKey(key), nil
	case TypeProxy:
		return proxyDelete(target, key)
	default:
		return false, errors.NewRuntimeError("cannot delete property of %s", target.Type())
	}
}

// DefineProperty defines or updates an own property with explicit attributes.
func DefineProperty(target Value, key PropertyKey, desc PropertyDescriptor) error {
	switch target.Type() {
	case TypeObject:
		return target.AsPlainObject().DefineOwnPropertyByKey(key, desc)
	case TypeProxy:
		return proxyDefineProperty(target, key, desc)
	default:
		return errors.NewRuntimeError("cannot define property on %s", target.Type())
	}
}

// GetOwnPropertyDescriptor returns the descriptor for an own property.
func GetOwnPropertyDescriptor(target Value, key PropertyKey) (PropertyDescriptor, bool, error) {
	switch target.Type() {
	case TypeObject:
		v, w, e, c, ok := target.AsPlainObject().GetOwnDescriptorByKey(key)
		if !ok {
			return PropertyDescriptor{}, false, nil
		}
		return DataDescriptor(v, w, e, c), true, nil
	case TypeProxy:
		return proxyGetOwnPropertyDescriptor(target, key)
	default:
		return PropertyDescriptor{}, false, errors.NewRuntimeError("cannot read descriptor on %s", target.Type())
	}
}

// OwnKeysOf returns the externally visible own keys of target (filtered per
// the private-symbol rule, canonical order).
func OwnKeysOf(target Value) ([]PropertyKey, error) {
	switch target.Type() {
	case TypeObject:
		return target.AsPlainObject().OwnKeys(), nil
	case TypeProxy:
		return proxyOwnKeys(target)
	case TypeArray:
		arr := target.AsArray()
		keys := make([]PropertyKey, 0, arr.Length()+1)
		for i := 0; i < arr.Length(); i++ {
			keys = append(keys, NewStringKey(intToString(i)))
		}
		keys = append(keys, NewStringKey("length"))
		return keys, nil
	default:
		return nil, errors.NewRuntimeError("cannot list keys of %s", target.Type())
	}
}

// IsExtensible reports whether new properties can be added to target.
func IsExtensible(target Value) (bool, error) {
	switch target.Type() {
	case TypeObject:
		return target.AsPlainObject().IsExtensible(), nil
	case TypeProxy:
		return proxyIsExtensible(target)
	default:
		return false, nil
	}
}

// PreventExtensions marks target non-extensible.
func PreventExtensions(target Value) error {
	switch target.Type() {
	case TypeObject:
		target.AsPlainObject().SetExtensible(false)
		return nil
	case TypeProxy:
		return proxyPreventExtensions(target)
	default:
		return errors.NewRuntimeError("cannot prevent extensions on %s", target.Type())
	}
}

// CopyOwnEnumerable copies src's enumerable own properties (filtered keys
// only) onto dst with assignment semantics. Backs Object.assign and object
// spread: a shallow copy never carries private-keyed properties.
func CopyOwnEnumerable(dst *PlainObject, src Value) error {
	if !src.IsObjectLike() {
		return nil // primitives contribute nothing
	}
	if src.Type() == TypeArray {
		// Element keys only; length is not enumerable.
		arr := src.AsArray()
		for i := 0; i < arr.Length(); i++ {
			dst.SetOwnByKey(NewStringKey(intToString(i)), arr.Get(i))
		}
		return nil
	}
	keys, err := OwnKeysOf(src)
	if err != nil {
		return err
	}
	for _, key := range keys {
		desc, ok, err := GetOwnPropertyDescriptor(src, key)
		if err != nil {
			return err
		}
		if ok && desc.Enumerable != nil && !*desc.Enumerable {
			continue
		}
		v, err := Get(src, key)
		if err != nil {
			return err
		}
		dst.SetOwnByKey(key, v)
	}
	return nil
}

// --- Array property plumbing ---

func arrayGet(target Value, key PropertyKey) (Value, error) {
	arr := target.AsArray()
	if key.IsString() {
		name := key.StringName()
		if name == "length" {
			return NumberValue(float64(arr.Length())), nil
		}
		if name == "push" {
			return NewNativeFunction(1, "push", func(this Value, args []Value) (Value, error) {
				for _, a := range args {
					arr.Append(a)
				}
				return NumberValue(float64(arr.Length())), nil
			}), nil
		}
		if idx, ok := tryParseArrayIndex(name); ok {
			return arr.Get(idx), nil
		}
	}
	return Undefined, nil
}

func arraySet(target Value, key PropertyKey, value Value) error {
	arr := target.AsArray()
	if key.IsString() {
		if idx, ok := tryParseArrayIndex(key.StringName()); ok {
			arr.Set(idx, value)
		}
	}
	return nil
}

// --- Symbol reflection ---

func symbolGet(sym *SymbolObject, key PropertyKey) Value {
	if !key.IsString() {
		return Undefined
	}
	switch key.StringName() {
	case "description":
		return NewString(sym.description)
	case "private":
		return BooleanValue(sym.private)
	case "toString":
		return NewNativeFunction(0, "toString", func(this Value, args []Value) (Value, error) {
			return NewString("Symbol(" + sym.description + ")"), nil
		})
	default:
		return Undefined
	}
}

// --- Descriptor conversion ---

// FromPropertyDescriptor builds a script-visible descriptor object.
func FromPropertyDescriptor(desc PropertyDescriptor) Value {
	obj := NewObject(Undefined).AsPlainObject()
	if desc.HasValue {
		obj.SetOwn("value", desc.Value)
	}
	if desc.Writable != nil {
		obj.SetOwn("writable", BooleanValue(*desc.Writable))
	}
	if desc.Enumerable != nil {
		obj.SetOwn("enumerable", BooleanValue(*desc.Enumerable))
	}
	if desc.Configurable != nil {
		obj.SetOwn("configurable", BooleanValue(*desc.Configurable))
	}
	return NewValueFromPlainObject(obj)
}

// ToPropertyDescriptor parses a script descriptor object.
func ToPropertyDescriptor(v Value) (PropertyDescriptor, error) {
	if v.Type() != TypeObject {
		return PropertyDescriptor{}, errors.NewRuntimeError("property descriptor must be an object, got %s", v.Type())
	}
	obj := v.AsPlainObject()
	var desc PropertyDescriptor
	if val, ok := obj.GetOwn("value"); ok {
		desc.Value = val
		desc.HasValue = true
	}
	if val, ok := obj.GetOwn("writable"); ok {
		b := val.IsTruthy()
		desc.Writable = &b
	}
	if val, ok := obj.GetOwn("enumerable"); ok {
		b := val.IsTruthy()
		desc.Enumerable = &b
	}
	if val, ok := obj.GetOwn("configurable"); ok {
		b := val.IsTruthy()
		desc.Configurable = &b
	}
	return desc, nil
}
