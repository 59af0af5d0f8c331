package vm

import (
	"fmt"
	"unsafe"

	"sigil/pkg/errors"
)

type KeyKind uint8

const (
	KeyKindString KeyKind = iota
	KeyKindSymbol
)

// PropertyKey represents a property key: the disjoint union of string and
// symbol. A symbol key may or may not be private; privacy is orthogonal to
// all other property attributes.
type PropertyKey struct {
	kind KeyKind
	name string        // for string keys
	sym  *SymbolObject // for symbol keys
}

// NewStringKey constructs a PropertyKey for string-named properties.
func NewStringKey(name string) PropertyKey {
	return PropertyKey{kind: KeyKindString, name: name}
}

// NewSymbolKey constructs a PropertyKey for symbol-named properties.
func NewSymbolKey(sym *SymbolObject) PropertyKey {
	return PropertyKey{kind: KeyKindSymbol, sym: sym}
}

// KeyFromValue coerces a script value into a property key. Strings and
// symbols pass through; everything else is stringified.
func KeyFromValue(v Value) PropertyKey {
	switch v.Type() {
	case TypeSymbol:
		return NewSymbolKey(v.AsSymbol())
	case TypeString:
		return NewStringKey(v.AsString())
	default:
		return NewStringKey(v.ToString())
	}
}

// KeyToValue converts a property key back into a script value.
func KeyToValue(k PropertyKey) Value {
	if k.kind == KeyKindSymbol {
		return symbolValue(k.sym)
	}
	return NewString(k.name)
}

func (k PropertyKey) IsString() bool { return k.kind == KeyKindString }
func (k PropertyKey) IsSymbol() bool { return k.kind == KeyKindSymbol }

// IsPrivate reports whether the key is a private symbol. This is the single
// predicate every enumeration site and proxy trap consults.
func (k PropertyKey) IsPrivate() bool {
	return k.kind == KeyKindSymbol && k.sym.private
}

// StringName returns the name of a string key.
func (k PropertyKey) StringName() string { return k.name }

// Symbol returns the symbol of a symbol key, or nil.
func (k PropertyKey) Symbol() *SymbolObject { return k.sym }

func (k PropertyKey) String() string {
	if k.kind == KeyKindSymbol {
		return fmt.Sprintf("Symbol(%s)", k.sym.description)
	}
	return k.name
}

// Field holds one own property: its key and attribute flags. Fields are kept
// in insertion order; the parallel values slice holds the property values.
type Field struct {
	name         string        // property name for string keys
	sym          *SymbolObject // non-nil for symbol keys
	writable     bool
	enumerable   bool
	configurable bool
}

func (f *Field) matches(key PropertyKey) bool {
	if key.kind == KeyKindString {
		return f.sym == nil && f.name == key.name
	}
	return f.sym == key.sym
}

func (f *Field) key() PropertyKey {
	if f.sym != nil {
		return NewSymbolKey(f.sym)
	}
	return NewStringKey(f.name)
}

// PlainObject owns a mapping from property key to value plus attribute flags
// and an extensibility flag. The underlying storage keeps private-symbol
// keys like any others; only the enumeration layer filters them out.
type PlainObject struct {
	prototype  Value
	fields     []Field
	values     []Value
	extensible bool
}

// NewObject creates an empty extensible object with the given prototype.
// Pass Undefined or Null for a prototype-less object.
func NewObject(proto Value) Value {
	prototype := Null
	if proto.IsObject() {
		prototype = proto
	}
	obj := &PlainObject{prototype: prototype, extensible: true}
	return Value{typ: TypeObject, obj: unsafe.Pointer(obj)}
}

// NewValueFromPlainObject wraps an existing PlainObject back into a Value.
func NewValueFromPlainObject(o *PlainObject) Value {
	return Value{typ: TypeObject, obj: unsafe.Pointer(o)}
}

func (o *PlainObject) findField(key PropertyKey) int {
	for i := range o.fields {
		if o.fields[i].matches(key) {
			return i
		}
	}
	return -1
}

// GetOwn looks up a direct (own) property by name. Returns (value, true) if present.
func (o *PlainObject) GetOwn(name string) (Value, bool) {
	return o.GetOwnByKey(NewStringKey(name))
}

// GetOwnByKey looks up a direct (own) property by key.
func (o *PlainObject) GetOwnByKey(key PropertyKey) (Value, bool) {
	if i := o.findField(key); i >= 0 {
		return o.values[i], true
	}
	return Undefined, false
}

// GetOwnDescriptorByKey returns the value and attribute flags for an own
// property: (value, writable, enumerable, configurable, exists).
func (o *PlainObject) GetOwnDescriptorByKey(key PropertyKey) (Value, bool, bool, bool, bool) {
	if i := o.findField(key); i >= 0 {
		f := o.fields[i]
		return o.values[i], f.writable, f.enumerable, f.configurable, true
	}
	return Undefined, false, false, false, false
}

// HasOwn reports whether an own property with the given name exists.
func (o *PlainObject) HasOwn(name string) bool {
	return o.HasOwnByKey(NewStringKey(name))
}

func (o *PlainObject) HasOwnByKey(key PropertyKey) bool {
	return o.findField(key) >= 0
}

// SetOwn sets or defines an own property by name with assignment semantics.
func (o *PlainObject) SetOwn(name string, v Value) {
	o.SetOwnByKey(NewStringKey(name), v)
}

// SetOwnByKey applies ordinary assignment semantics: an existing property is
// overwritten only if writable (silent no-op otherwise); a new property is
// created writable/enumerable/configurable, and only on extensible objects.
func (o *PlainObject) SetOwnByKey(key PropertyKey, v Value) {
	if i := o.findField(key); i >= 0 {
		if o.fields[i].writable {
			o.values[i] = v
		}
		return
	}
	if !o.extensible {
		return
	}
	o.appendField(key, v, true, true, true)
}

// SetOwnNonEnumerable defines a non-enumerable own property (for built-ins).
func (o *PlainObject) SetOwnNonEnumerable(name string, v Value) {
	key := NewStringKey(name)
	if i := o.findField(key); i >= 0 {
		if o.fields[i].writable {
			o.values[i] = v
		}
		return
	}
	o.appendField(key, v, true, false, true)
}

func (o *PlainObject) appendField(key PropertyKey, v Value, writable, enumerable, configurable bool) {
	f := Field{writable: writable, enumerable: enumerable, configurable: configurable}
	if key.kind == KeyKindSymbol {
		f.sym = key.sym
	} else {
		f.name = key.name
	}
	o.fields = append(o.fields, f)
	o.values = append(o.values, v)
}

// PropertyDescriptor carries explicit attributes for DefineOwnPropertyByKey.
// Unspecified (nil) flags keep their previous values on existing properties
// and default to false on new ones.
type PropertyDescriptor struct {
	Value        Value
	HasValue     bool
	Writable     *bool
	Enumerable   *bool
	Configurable *bool
}

// DataDescriptor builds a fully specified data property descriptor.
func DataDescriptor(v Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{
		Value:        v,
		HasValue:     true,
		Writable:     &writable,
		Enumerable:   &enumerable,
		Configurable: &configurable,
	}
}

// DefineOwnPropertyByKey defines or updates an own property with explicit
// attributes. Illegal redefinitions of non-configurable properties and
// additions to non-extensible objects return a runtime error.
func (o *PlainObject) DefineOwnPropertyByKey(key PropertyKey, desc PropertyDescriptor) error {
	if i := o.findField(key); i >= 0 {
		f := o.fields[i]
		if !f.configurable {
			if desc.Configurable != nil && *desc.Configurable {
				return errors.NewRuntimeError("cannot redefine property: %s", key)
			}
			if desc.Enumerable != nil && *desc.Enumerable != f.enumerable {
				return errors.NewRuntimeError("cannot redefine property: %s", key)
			}
			if !f.writable {
				if desc.Writable != nil && *desc.Writable {
					return errors.NewRuntimeError("cannot redefine property: %s", key)
				}
				if desc.HasValue && !desc.Value.Is(o.values[i]) {
					return errors.NewRuntimeError("cannot redefine property: %s", key)
				}
			}
		}
		if desc.HasValue {
			o.values[i] = desc.Value
		}
		if desc.Writable != nil {
			o.fields[i].writable = *desc.Writable
		}
		if desc.Enumerable != nil {
			o.fields[i].enumerable = *desc.Enumerable
		}
		if desc.Configurable != nil {
			o.fields[i].configurable = *desc.Configurable
		}
		return nil
	}

	if !o.extensible {
		return errors.NewRuntimeError("cannot define property %s: object is not extensible", key)
	}

	writable, enumerable, configurable := false, false, false
	if desc.Writable != nil {
		writable = *desc.Writable
	}
	if desc.Enumerable != nil {
		enumerable = *desc.Enumerable
	}
	if desc.Configurable != nil {
		configurable = *desc.Configurable
	}
	o.appendField(key, desc.Value, writable, enumerable, configurable)
	return nil
}

// DeleteOwnByKey removes an own property by key if present and configurable.
// Deleting a missing property succeeds vacuously.
func (o *PlainObject) DeleteOwnByKey(key PropertyKey) bool {
	i := o.findField(key)
	if i < 0 {
		return true
	}
	if !o.fields[i].configurable {
		return false
	}
	o.fields = append(o.fields[:i], o.fields[i+1:]...)
	o.values = append(o.values[:i], o.values[i+1:]...)
	return true
}

// Get looks up a property by key, walking the prototype chain if necessary.
func (o *PlainObject) GetByKey(key PropertyKey) (Value, bool) {
	if v, ok := o.GetOwnByKey(key); ok {
		return v, true
	}
	current := o.prototype
	for current.IsObject() {
		proto := current.AsPlainObject()
		if v, ok := proto.GetOwnByKey(key); ok {
			return v, true
		}
		current = proto.prototype
	}
	return Undefined, false
}

// Get looks up a property by name, walking the prototype chain if necessary.
func (o *PlainObject) Get(name string) (Value, bool) {
	return o.GetByKey(NewStringKey(name))
}

// HasByKey reports whether a property exists, own or inherited.
func (o *PlainObject) HasByKey(key PropertyKey) bool {
	_, ok := o.GetByKey(key)
	return ok
}

// GetPrototype returns the object's prototype.
func (o *PlainObject) GetPrototype() Value {
	return o.prototype
}

// SetPrototype sets the object's prototype.
// Returns false if the operation failed (object is non-extensible).
func (o *PlainObject) SetPrototype(proto Value) bool {
	if proto.Is(o.prototype) {
		return true
	}
	if !o.extensible {
		return false
	}
	o.prototype = proto
	return true
}

// IsExtensible returns whether new properties can be added to this object.
func (o *PlainObject) IsExtensible() bool {
	return o.extensible
}

// SetExtensible clears the extensible flag. Once cleared it cannot be set
// back; attempts to do so are silently ignored.
func (o *PlainObject) SetExtensible(extensible bool) {
	if !extensible {
		o.extensible = false
	}
}
