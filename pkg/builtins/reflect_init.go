package builtins

import (
	"sigil/pkg/errors"
	"sigil/pkg/vm"
)

// ReflectInitializer installs the Reflect namespace. Each function is a thin
// adapter over the corresponding meta-object operation, so Reflect calls on
// proxies hit the same trap dispatch (and private-key bypass) as syntax does.
type ReflectInitializer struct{}

func (ri *ReflectInitializer) Name() string  { return "reflect" }
func (ri *ReflectInitializer) Priority() int { return PriorityReflect }

func (ri *ReflectInitializer) InitRuntime(ctx *RuntimeContext) error {
	reflectObj := vm.NewObject(vm.Undefined)
	props := reflectObj.AsPlainObject()

	fns := map[string]vm.Value{
		"get":               vm.NewNativeFunction(2, "get", reflectGet),
		"set":               vm.NewNativeFunction(3, "set", reflectSet),
		"has":               vm.NewNativeFunction(2, "has", reflectHas),
		"deleteProperty":    vm.NewNativeFunction(2, "deleteProperty", reflectDelete),
		"ownKeys":           vm.NewNativeFunction(1, "ownKeys", reflectOwnKeys),
		"defineProperty":    vm.NewNativeFunction(3, "defineProperty", reflectDefineProperty),
		"isExtensible":      vm.NewNativeFunction(1, "isExtensible", reflectIsExtensible),
		"preventExtensions": vm.NewNativeFunction(1, "preventExtensions", reflectPreventExtensions),
	}
	for name, fn := range fns {
		props.SetOwnNonEnumerable(name, fn)
	}

	ctx.DefineGlobal("Reflect", reflectObj)
	return nil
}

func reflectTarget(name string, args []vm.Value) (vm.Value, error) {
	if len(args) == 0 || !args[0].IsObjectLike() {
		return vm.Undefined, errors.NewRuntimeError("Reflect.%s target must be an object", name)
	}
	return args[0], nil
}

func reflectKeyArg(args []vm.Value) vm.PropertyKey {
	if len(args) < 2 {
		return vm.NewStringKey("undefined")
	}
	return vm.KeyFromValue(args[1])
}

func reflectGet(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("get", args)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.Get(target, reflectKeyArg(args))
}

func reflectSet(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("set", args)
	if err != nil {
		return vm.Undefined, err
	}
	value := vm.Undefined
	if len(args) > 2 {
		value = args[2]
	}
	if err := vm.Set(target, reflectKeyArg(args), value); err != nil {
		return vm.Undefined, err
	}
	return vm.True, nil
}

func reflectHas(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("has", args)
	if err != nil {
		return vm.Undefined, err
	}
	found, err := vm.Has(target, reflectKeyArg(args))
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(found), nil
}

func reflectDelete(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("deleteProperty", args)
	if err != nil {
		return vm.Undefined, err
	}
	deleted, err := vm.Delete(target, reflectKeyArg(args))
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(deleted), nil
}

// reflectOwnKeys returns the filtered own keys: strings and non-private
// symbols. This is the widest enumeration surface the language offers, and
// it still never contains a private symbol.
func reflectOwnKeys(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("ownKeys", args)
	if err != nil {
		return vm.Undefined, err
	}
	keys, err := vm.OwnKeysOf(target)
	if err != nil {
		return vm.Undefined, err
	}
	result := vm.NewArray()
	for _, key := range keys {
		result.AsArray().Append(vm.KeyToValue(key))
	}
	return result, nil
}

func reflectDefineProperty(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("defineProperty", args)
	if err != nil {
		return vm.Undefined, err
	}
	if len(args) < 3 {
		return vm.Undefined, errors.NewRuntimeError("Reflect.defineProperty requires a key and a descriptor")
	}
	desc, err := vm.ToPropertyDescriptor(args[2])
	if err != nil {
		return vm.Undefined, err
	}
	if err := vm.DefineProperty(target, reflectKeyArg(args), desc); err != nil {
		return vm.False, nil
	}
	return vm.True, nil
}

func reflectIsExtensible(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("isExtensible", args)
	if err != nil {
		return vm.Undefined, err
	}
	extensible, err := vm.IsExtensible(target)
	if err != nil {
		return vm.Undefined, err
	}
	return vm.BooleanValue(extensible), nil
}

func reflectPreventExtensions(this vm.Value, args []vm.Value) (vm.Value, error) {
	target, err := reflectTarget("preventExtensions", args)
	if err != nil {
		return vm.Undefined, err
	}
	if err := vm.PreventExtensions(target); err != nil {
		return vm.Undefined, err
	}
	return vm.True, nil
}
