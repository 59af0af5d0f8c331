package vm

import (
	"unsafe"

	"sigil/pkg/errors"
)

// NativeFn is the shape shared by Go built-ins and interpreter closures. The
// evaluator wraps script functions into this signature, so the proxy layer
// can invoke handler traps without knowing how they were defined.
type NativeFn func(this Value, args []Value) (Value, error)

// FunctionObject is a callable value. Properties is allocated lazily for
// functions that carry extra properties (e.g. Symbol.private).
type FunctionObject struct {
	Name       string
	Arity      int
	Fn         NativeFn
	Properties *PlainObject
}

// NewNativeFunction wraps a Go function into a callable value.
func NewNativeFunction(arity int, name string, fn NativeFn) Value {
	obj := &FunctionObject{Name: name, Arity: arity, Fn: fn}
	return Value{typ: TypeFunction, obj: unsafe.Pointer(obj)}
}

// EnsureProperties returns the function's property object, allocating it on
// first use.
func (f *FunctionObject) EnsureProperties() *PlainObject {
	if f.Properties == nil {
		f.Properties = &PlainObject{prototype: Null, extensible: true}
	}
	return f.Properties
}

// Call invokes a callable value with the given receiver and arguments.
func Call(callee Value, this Value, args []Value) (Value, error) {
	if callee.Type() != TypeFunction {
		return Undefined, errors.NewRuntimeError("%s is not a function", callee.TypeofName())
	}
	return callee.AsFunction().Fn(this, args)
}
