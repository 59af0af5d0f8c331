package vm

import (
	"fmt"
	"strings"
	"unsafe"
)

// Inspect returns a debugging representation of v: strings are quoted,
// objects show their non-private contents. Used by the REPL and console.log.
func (v Value) Inspect() string {
	return inspect(v, make(map[unsafe.Pointer]bool))
}

func inspect(v Value, seen map[unsafe.Pointer]bool) string {
	switch v.Type() {
	case TypeString:
		return fmt.Sprintf("%q", v.AsString())
	case TypeObject:
		if seen[v.obj] {
			return "[Circular]"
		}
		seen[v.obj] = true
		defer delete(seen, v.obj)

		obj := v.AsPlainObject()
		keys := obj.OwnKeys()
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			val, _ := obj.GetOwnByKey(key)
			name := key.String()
			if key.IsSymbol() {
				name = "[" + name + "]"
			}
			parts = append(parts, name+": "+inspect(val, seen))
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case TypeArray:
		if seen[v.obj] {
			return "[Circular]"
		}
		seen[v.obj] = true
		defer delete(seen, v.obj)

		arr := v.AsArray()
		parts := make([]string, 0, arr.Length())
		for _, el := range arr.Elements() {
			parts = append(parts, inspect(el, seen))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case TypeProxy:
		p := v.AsProxy()
		return fmt.Sprintf("[Proxy target=%s]", inspect(p.target, seen))
	default:
		return v.ToString()
	}
}

// Display returns the console-facing form of v: like Inspect, but top-level
// strings print raw.
func (v Value) Display() string {
	if v.IsString() {
		return v.AsString()
	}
	return v.Inspect()
}
