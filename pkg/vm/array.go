package vm

import "unsafe"

// ArrayObject is a dense element vector. Arrays exist mainly so key listings
// have something to return; they do not participate in the property
// descriptor machinery.
type ArrayObject struct {
	elements []Value
}

func NewArray() Value {
	return Value{typ: TypeArray, obj: unsafe.Pointer(&ArrayObject{})}
}

// NewArrayWithElements creates an array holding the given values.
func NewArrayWithElements(elements []Value) Value {
	arr := &ArrayObject{elements: make([]Value, len(elements))}
	copy(arr.elements, elements)
	return Value{typ: TypeArray, obj: unsafe.Pointer(arr)}
}

func (a *ArrayObject) Length() int {
	return len(a.elements)
}

// Get returns the element at index i, or Undefined when out of range.
func (a *ArrayObject) Get(i int) Value {
	if i < 0 || i >= len(a.elements) {
		return Undefined
	}
	return a.elements[i]
}

// Set stores v at index i, growing the array with Undefined holes if needed.
func (a *ArrayObject) Set(i int, v Value) {
	if i < 0 {
		return
	}
	for len(a.elements) <= i {
		a.elements = append(a.elements, Undefined)
	}
	a.elements[i] = v
}

func (a *ArrayObject) Append(v Value) {
	a.elements = append(a.elements, v)
}

// Elements returns the backing slice. Callers must not hold it across mutations.
func (a *ArrayObject) Elements() []Value {
	return a.elements
}
