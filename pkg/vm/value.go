package vm

import (
	"fmt"
	"math"
	"strconv"
	"unsafe"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeBoolean
	TypeNumber

	TypeString
	TypeSymbol

	TypeFunction

	TypeObject
	TypeArray
	TypeProxy

	TypeUninitialized // TDZ marker for let/const/private before initialization
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeFunction:
		return "function"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	case TypeProxy:
		return "proxy"
	default:
		return "unknown"
	}
}

// Value is a tagged scalar-or-pointer cell. Numbers and booleans live in the
// payload; everything heap-allocated hangs off obj.
type Value struct {
	typ     ValueType
	payload uint64
	obj     unsafe.Pointer
}

type StringObject struct {
	value string
}

// SymbolObject is an opaque, globally unique identity value. Identity is the
// Go pointer itself, so equality is O(1) and no registry is needed. The
// private flag is fixed at allocation and never written again.
type SymbolObject struct {
	description string
	private     bool
}

// Description returns the symbol's descriptive string.
func (s *SymbolObject) Description() string { return s.description }

// IsPrivate reports whether the symbol was created as private.
func (s *SymbolObject) IsPrivate() bool { return s.private }

var (
	Undefined     = Value{typ: TypeUndefined}
	Null          = Value{typ: TypeNull}
	Uninitialized = Value{typ: TypeUninitialized}
	True          = Value{typ: TypeBoolean, payload: 1}
	False         = Value{typ: TypeBoolean, payload: 0}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeNumber, payload: math.Float64bits(value)}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, obj: unsafe.Pointer(&StringObject{value: value})}
}

// NewSymbol allocates a fresh ordinary (non-private) symbol.
func NewSymbol(description string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&SymbolObject{description: description})}
}

// NewPrivateSymbol allocates a fresh private symbol. Private symbols never
// appear in own-key enumeration and tunnel through proxy handlers.
func NewPrivateSymbol(description string) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(&SymbolObject{description: description, private: true})}
}

func symbolValue(sym *SymbolObject) Value {
	return Value{typ: TypeSymbol, obj: unsafe.Pointer(sym)}
}

// --- Type predicates ---

func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUndefined() bool     { return v.typ == TypeUndefined }
func (v Value) IsNull() bool          { return v.typ == TypeNull }
func (v Value) IsBoolean() bool       { return v.typ == TypeBoolean }
func (v Value) IsNumber() bool        { return v.typ == TypeNumber }
func (v Value) IsString() bool        { return v.typ == TypeString }
func (v Value) IsSymbol() bool        { return v.typ == TypeSymbol }
func (v Value) IsFunction() bool      { return v.typ == TypeFunction }
func (v Value) IsObject() bool        { return v.typ == TypeObject }
func (v Value) IsArray() bool         { return v.typ == TypeArray }
func (v Value) IsProxy() bool         { return v.typ == TypeProxy }
func (v Value) IsUninitialized() bool { return v.typ == TypeUninitialized }

// IsObjectLike reports whether v can carry properties (and be a proxy target).
func (v Value) IsObjectLike() bool {
	switch v.typ {
	case TypeObject, TypeArray, TypeProxy, TypeFunction:
		return true
	default:
		return false
	}
}

func (v Value) IsCallable() bool { return v.typ == TypeFunction }

// --- Accessors ---

func (v Value) AsNumber() float64 {
	if v.typ != TypeNumber {
		panic(fmt.Sprintf("AsNumber called on %s", v.typ))
	}
	return math.Float64frombits(v.payload)
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic(fmt.Sprintf("AsBoolean called on %s", v.typ))
	}
	return v.payload != 0
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic(fmt.Sprintf("AsString called on %s", v.typ))
	}
	return (*StringObject)(v.obj).value
}

// AsSymbol returns the underlying SymbolObject pointer for symbol values.
func (v Value) AsSymbol() *SymbolObject {
	if v.typ != TypeSymbol {
		return nil
	}
	return (*SymbolObject)(v.obj)
}

func (v Value) AsPlainObject() *PlainObject {
	if v.typ != TypeObject {
		return nil
	}
	return (*PlainObject)(v.obj)
}

func (v Value) AsArray() *ArrayObject {
	if v.typ != TypeArray {
		return nil
	}
	return (*ArrayObject)(v.obj)
}

func (v Value) AsFunction() *FunctionObject {
	if v.typ != TypeFunction {
		return nil
	}
	return (*FunctionObject)(v.obj)
}

func (v Value) AsProxy() *ProxyObject {
	if v.typ != TypeProxy {
		return nil
	}
	return (*ProxyObject)(v.obj)
}

// --- Equality and truthiness ---

// Is reports same-value identity: reference identity for heap values,
// bit-content equality for scalars and strings.
func (v Value) Is(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull, TypeUninitialized:
		return true
	case TypeBoolean:
		return v.payload == other.payload
	case TypeNumber:
		return v.AsNumber() == other.AsNumber()
	case TypeString:
		return v.AsString() == other.AsString()
	default:
		// Symbols are only equal if they are the *same* object (reference)
		return v.obj == other.obj
	}
}

// StrictEquals implements the === operator.
func (v Value) StrictEquals(other Value) bool {
	return v.Is(other)
}

// LooseEquals implements the == operator. Sigil keeps only the
// null/undefined cross-match from the full coercion table.
func (v Value) LooseEquals(other Value) bool {
	if (v.typ == TypeNull && other.typ == TypeUndefined) ||
		(v.typ == TypeUndefined && other.typ == TypeNull) {
		return true
	}
	return v.Is(other)
}

func (v Value) IsTruthy() bool {
	switch v.typ {
	case TypeUndefined, TypeNull, TypeUninitialized:
		return false
	case TypeBoolean:
		return v.payload != 0
	case TypeNumber:
		n := v.AsNumber()
		return n != 0 && !math.IsNaN(n)
	case TypeString:
		return v.AsString() != ""
	default:
		return true
	}
}

// TypeofName returns the result of the typeof operator for v.
func (v Value) TypeofName() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "object"
	case TypeBoolean:
		return "boolean"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeSymbol:
		return "symbol"
	case TypeFunction:
		return "function"
	default:
		return "object"
	}
}

// ToString converts a value to its string representation for property-key
// coercion and string concatenation. Symbols intentionally have no implicit
// string conversion.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBoolean:
		if v.payload != 0 {
			return "true"
		}
		return "false"
	case TypeNumber:
		return formatNumber(v.AsNumber())
	case TypeString:
		return v.AsString()
	case TypeSymbol:
		return fmt.Sprintf("Symbol(%s)", v.AsSymbol().description)
	case TypeFunction:
		return fmt.Sprintf("function %s() { [native code] }", v.AsFunction().Name)
	default:
		return "[object]"
	}
}

func formatNumber(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
