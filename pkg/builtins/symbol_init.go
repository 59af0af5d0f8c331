package builtins

import "sigil/pkg/vm"

// SymbolInitializer installs the Symbol global: calling it allocates an
// ordinary symbol, Symbol.private allocates a private one. The two factories
// are the only difference between the symbol kinds; everything downstream
// keys off the immutable private flag.
type SymbolInitializer struct{}

func (si *SymbolInitializer) Name() string  { return "symbol" }
func (si *SymbolInitializer) Priority() int { return PrioritySymbol }

func (si *SymbolInitializer) InitRuntime(ctx *RuntimeContext) error {
	symbolFn := vm.NewNativeFunction(1, "Symbol", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NewSymbol(descriptionArg(args)), nil
	})

	props := symbolFn.AsFunction().EnsureProperties()
	props.SetOwnNonEnumerable("private", vm.NewNativeFunction(1, "private", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		return vm.NewPrivateSymbol(descriptionArg(args)), nil
	}))
	props.SetOwnNonEnumerable("isPrivate", vm.NewNativeFunction(1, "isPrivate", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) > 0 && args[0].IsSymbol() {
			return vm.BooleanValue(args[0].AsSymbol().IsPrivate()), nil
		}
		return vm.False, nil
	}))

	ctx.DefineGlobal("Symbol", symbolFn)
	return nil
}

func descriptionArg(args []vm.Value) string {
	if len(args) == 0 || args[0].IsUndefined() {
		return ""
	}
	return args[0].ToString()
}
