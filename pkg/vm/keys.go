package vm

// Own-key enumeration. Every externally observable key list goes through
// these functions: reflection key listing, generic copy (assign/spread), and
// the freeze/seal traversal. The filter rule is uniform: a key whose symbol
// is private is removed; the underlying storage still contains it.

// OwnKeys returns the externally visible own keys in canonical order:
// integer-like keys ascending, then remaining string keys in insertion
// order, then non-private symbol keys in insertion order.
func (o *PlainObject) OwnKeys() []PropertyKey {
	var integerIndices []int
	var stringKeys []string
	var symbols []*SymbolObject

	for i := range o.fields {
		f := &o.fields[i]
		if f.sym != nil {
			if !f.sym.private {
				symbols = append(symbols, f.sym)
			}
			continue
		}
		if idx, isInt := tryParseArrayIndex(f.name); isInt {
			integerIndices = append(integerIndices, idx)
		} else {
			stringKeys = append(stringKeys, f.name)
		}
	}

	sortInts(integerIndices)

	result := make([]PropertyKey, 0, len(integerIndices)+len(stringKeys)+len(symbols))
	for _, idx := range integerIndices {
		result = append(result, NewStringKey(intToString(idx)))
	}
	for _, name := range stringKeys {
		result = append(result, NewStringKey(name))
	}
	for _, sym := range symbols {
		result = append(result, NewSymbolKey(sym))
	}
	return result
}

// OwnStringKeys returns all own string-named keys (including non-enumerable)
// in canonical order. Backs Object.getOwnPropertyNames.
func (o *PlainObject) OwnStringKeys() []string {
	keys := o.OwnKeys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if k.IsString() {
			names = append(names, k.StringName())
		}
	}
	return names
}

// OwnEnumerableStringKeys returns enumerable own string keys in canonical
// order. Backs Object.keys.
func (o *PlainObject) OwnEnumerableStringKeys() []string {
	keys := o.OwnKeys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if !k.IsString() {
			continue
		}
		if i := o.findField(k); i >= 0 && o.fields[i].enumerable {
			names = append(names, k.StringName())
		}
	}
	return names
}

// OwnSymbolKeys returns the own non-private symbol keys in insertion order.
// Backs Object.getOwnPropertySymbols.
func (o *PlainObject) OwnSymbolKeys() []*SymbolObject {
	var symbols []*SymbolObject
	for i := range o.fields {
		if sym := o.fields[i].sym; sym != nil && !sym.private {
			symbols = append(symbols, sym)
		}
	}
	return symbols
}

// tryParseArrayIndex checks if a string represents a valid array index.
// Valid array indices are non-negative integers in range [0, 2^32-1) without
// leading zeros.
func tryParseArrayIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	if len(key) > 1 && key[0] == '0' {
		return 0, false
	}
	var idx uint64
	for _, ch := range key {
		if ch < '0' || ch > '9' {
			return 0, false
		}
		idx = idx*10 + uint64(ch-'0')
		if idx > 4294967294 {
			return 0, false
		}
	}
	return int(idx), true
}

// intToString converts an int to string without importing strconv
func intToString(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// sortInts sorts a slice of ints in ascending order (simple insertion sort for small slices)
func sortInts(a []int) {
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j-1] > a[j]; j-- {
			a[j-1], a[j] = a[j], a[j-1]
		}
	}
}
