package builtins

import (
	"sigil/pkg/errors"
	"sigil/pkg/vm"
)

// ProxyInitializer installs the Proxy constructor.
type ProxyInitializer struct{}

func (pi *ProxyInitializer) Name() string  { return "proxy" }
func (pi *ProxyInitializer) Priority() int { return PriorityProxy }

func (pi *ProxyInitializer) InitRuntime(ctx *RuntimeContext) error {
	proxyFn := vm.NewNativeFunction(2, "Proxy", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		if len(args) < 2 {
			return vm.Undefined, errors.NewRuntimeError("Proxy requires a target and a handler")
		}
		target, handler := args[0], args[1]
		if !target.IsObjectLike() {
			return vm.Undefined, errors.NewRuntimeError("Proxy target must be an object, got %s", target.Type())
		}
		if handler.Type() != vm.TypeObject {
			return vm.Undefined, errors.NewRuntimeError("Proxy handler must be an object, got %s", handler.Type())
		}
		return vm.NewProxy(target, handler), nil
	})
	ctx.DefineGlobal("Proxy", proxyFn)
	return nil
}
