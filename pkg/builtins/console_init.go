package builtins

import (
	"fmt"
	"strings"

	"sigil/pkg/vm"
)

// ConsoleInitializer installs the console global. Output goes to the
// context's Stdout so the driver (and tests) can capture it.
type ConsoleInitializer struct{}

func (ci *ConsoleInitializer) Name() string  { return "console" }
func (ci *ConsoleInitializer) Priority() int { return PriorityConsole }

func (ci *ConsoleInitializer) InitRuntime(ctx *RuntimeContext) error {
	consoleObj := vm.NewObject(vm.Undefined)
	props := consoleObj.AsPlainObject()

	log := vm.NewNativeFunction(1, "log", func(this vm.Value, args []vm.Value) (vm.Value, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = a.Display()
		}
		fmt.Fprintln(ctx.Stdout, strings.Join(parts, " "))
		return vm.Undefined, nil
	})
	props.SetOwnNonEnumerable("log", log)
	props.SetOwnNonEnumerable("error", log)

	ctx.DefineGlobal("console", consoleObj)
	return nil
}
