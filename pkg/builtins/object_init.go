package builtins

import (
	"sigil/pkg/errors"
	"sigil/pkg/vm"
)

// ObjectInitializer installs the Object global with the reflective statics.
// Every key-listing static goes through the meta-object layer, so the
// private-symbol filter and proxy trap dispatch apply uniformly.
type ObjectInitializer struct{}

func (oi *ObjectInitializer) Name() string  { return "object" }
func (oi *ObjectInitializer) Priority() int { return PriorityObject }

func (oi *ObjectInitializer) InitRuntime(ctx *RuntimeContext) error {
	objectFn := vm.NewNativeFunction(1, "Object", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) > 0 && args[0].IsObjectLike() {
			return args[0], nil
		}
		return vm.NewObject(vm.Undefined), nil
	})
	props := objectFn.AsFunction().EnsureProperties()

	statics := map[string]vm.Value{
		"keys":                     vm.NewNativeFunction(1, "keys", objectKeys),
		"values":                   vm.NewNativeFunction(1, "values", objectValues),
		"entries":                  vm.NewNativeFunction(1, "entries", objectEntries),
		"getOwnPropertyNames":      vm.NewNativeFunction(1, "getOwnPropertyNames", getOwnPropertyNames),
		"getOwnPropertySymbols":    vm.NewNativeFunction(1, "getOwnPropertySymbols", getOwnPropertySymbols),
		"assign":                   vm.NewNativeFunction(2, "assign", objectAssign),
		"freeze":                   vm.NewNativeFunction(1, "freeze", objectFreeze),
		"seal":                     vm.NewNativeFunction(1, "seal", objectSeal),
		"isFrozen":                 vm.NewNativeFunction(1, "isFrozen", objectIsFrozen),
		"isSealed":                 vm.NewNativeFunction(1, "isSealed", objectIsSealed),
		"preventExtensions":        vm.NewNativeFunction(1, "preventExtensions", objectPreventExtensions),
		"isExtensible":             vm.NewNativeFunction(1, "isExtensible", objectIsExtensible),
		"defineProperty":           vm.NewNativeFunction(3, "defineProperty", objectDefineProperty),
		"getOwnPropertyDescriptor": vm.NewNativeFunction(2, "getOwnPropertyDescriptor", getOwnPropertyDescriptor),
		"getPrototypeOf":           vm.NewNativeFunction(1, "getPrototypeOf", getPrototypeOf),
		"create":                   vm.NewNativeFunction(1, "create", objectCreate),
	}
	for name, fn := range statics {
		props.SetOwnNonEnumerable(name, fn)
	}

	ctx.DefineGlobal("Object", objectFn)
	return nil
}

func requireObjectLike(name string, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 || !args[0].IsObjectLike() {
		got := "undefined"
		if len(args) > 0 {
			got = args[0].Type().String()
		}
		return vm.Undefined, errors.NewRuntimeError("Object.%s called on non-object (%s)", name, got)
	}
	return args[0], nil
}

// enumerableOwnKeys lists the filtered own keys of target that are both
// string-named and enumerable.
func enumerableOwnStringKeys(target vm.Value) ([]vm.PropertyKey, error) {
	keys, err := vm.OwnKeysOf(target)
	if err != nil {
		return nil, err
	}
	out := make([]vm.PropertyKey, 0, len(keys))
	for _, key := range keys {
		if !key.IsString() {
			continue
		}
		desc, ok, err := vm.GetOwnPropertyDescriptor(target, key)
		if err != nil {
			return nil, err
		}
		if ok && desc.Enumerable != nil && !*desc.Enumerable {
			continue
		}
		out = append(out, key)
	}
	return out, nil
}

func objectKeys(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("keys", args)
	if err != nil {
		return vm.Undefined, err
	}
	keys, err := enumerableOwnStringKeys(target)
	if err != nil {
		return vm.Undefined, err
	}
	result := vm.NewArray()
	for _, key := range keys {
		result.AsArray().Append(vm.NewString(key.StringName()))
	}
	return result, nil
}

func objectValues(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("values", args)
	if err != nil {
		return vm.Undefined, err
	}
	keys, err := enumerableOwnStringKeys(target)
	if err != nil {
		return vm.Undefined, err
	}
	result := vm.NewArray()
	for _, key := range keys {
		v, err := vm.Get(target, key)
		if err != nil {
			return vm.Undefined, err
		}
		result.AsArray().Append(v)
	}
	return result, nil
}

func objectEntries(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("entries", args)
	if err != nil {
		return vm.Undefined, err
	}
	keys, err := enumerableOwnStringKeys(target)
	if err != nil {
		return vm.Undefined, err
	}
	result := vm.NewArray()
	for _, key := range keys {
		v, err := vm.Get(target, key)
		if err != nil {
			return vm.Undefined, err
		}
		entry := vm.NewArrayWithElements([]vm.Value{vm.NewString(key.StringName()), v})
		result.AsArray().Append(entry)
	}
	return result, nil
}

func getOwnPropertyNames(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("getOwnPropertyNames", args)
	if err != nil {
		return vm.Undefined, err
	}
	keys, err := vm.OwnKeysOf(target)
	if err != nil {
		return vm.Undefined, err
	}
	result := vm.NewArray()
	for _, key := range keys {
		if key.IsString() {
			result.AsArray().Append(vm.NewString(key.StringName()))
		}
	}
	return result, nil
}

// getOwnPropertySymbols returns the object's own symbol keys. Private symbols
// are already absent from the filtered key list.
func getOwnPropertySymbols(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("getOwnPropertySymbols", args)
	if err != nil {
		return vm.Undefined, err
	}
	keys, err := vm.OwnKeysOf(target)
	if err != nil {
		return vm.Undefined, err
	}
	result := vm.NewArray()
	for _, key := range keys {
		if key.IsSymbol() {
			result.AsArray().Append(vm.KeyToValue(key))
		}
	}
	return result, nil
}

func objectAssign(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("assign", args)
	if err != nil {
		return vm.Undefined, err
	}
	if target.Type() != vm.TypeObject {
		return vm.Undefined, errors.NewRuntimeError("Object.assign target must be a plain object")
	}
	for _, src := range args[1:] {
		if err := vm.CopyOwnEnumerable(target.AsPlainObject(), src); err != nil {
			return vm.Undefined, err
		}
	}
	return target, nil
}

func objectFreeze(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, nil
	}
	if err := vm.Freeze(args[0]); err != nil {
		return vm.Undefined, err
	}
	return args[0], nil
}

func objectSeal(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.Undefined, nil
	}
	if err := vm.Seal(args[0]); err != nil {
		return vm.Undefined, err
	}
	return args[0], nil
}

func objectIsFrozen(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.True, nil
	}
	frozen, err := vm.IsFrozen(args[0])
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(frozen), nil
}

func objectIsSealed(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 {
		return vm.True, nil
	}
	sealed, err := vm.IsSealed(args[0])
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(sealed), nil
}

func objectPreventExtensions(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("preventExtensions", args)
	if err != nil {
		return vm.Undefined, err
	}
	if err := vm.PreventExtensions(target); err != nil {
		return vm.Undefined, err
	}
	return target, nil
}

func objectIsExtensible(this vm.Value, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 || !args[0].IsObjectLike() {
		return vm.False, nil
	}
	extensible, err := vm.IsExtensible(args[0])
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(extensible), nil
}

func objectDefineProperty(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("defineProperty", args)
	if err != nil {
		return vm.Undefined, err
	}
	if len(args) < 3 {
		return vm.Undefined, errors.NewRuntimeError("Object.defineProperty requires a key and a descriptor")
	}
	desc, err := vm.ToPropertyDescriptor(args[2])
	if err != nil {
		return vm.Undefined, err
	}
	if err := vm.DefineProperty(target, vm.KeyFromValue(args[1]), desc); err != nil {
		return vm.Undefined, err
	}
	return target, nil
}

func getOwnPropertyDescriptor(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("getOwnPropertyDescriptor", args)
	if err != nil {
		return vm.Undefined, err
	}
	if len(args) < 2 {
		return vm.Undefined, nil
	}
	desc, ok, err := vm.GetOwnPropertyDescriptor(target, vm.KeyFromValue(args[1]))
	if err != nil {
		return vm.Undefined, err
	}
	if !ok {
		return vm.Undefined, nil
	}
	return vm.FromPropertyDescriptor(desc), nil
}

func getPrototypeOf(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := requireObjectLike("getPrototypeOf", args)
	if err != nil {
		return vm.Undefined, err
	}
	if target.Type() != vm.TypeObject {
		return vm.Null, nil
	}
	return target.AsPlainObject().GetPrototype(), nil
}

func objectCreate(this vm.Value, args []vm.Value) (vm.Value, error) {
	proto := vm.Null
	if len(args) > 0 {
		if !args[0].IsObject() && !args[0].IsNull() {
			return vm.Undefined, errors.NewRuntimeError("Object.create prototype must be an object or null")
		}
		proto = args[0]
	}
	return vm.NewObject(proto), nil
}
