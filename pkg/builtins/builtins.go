// Package builtins installs the global runtime environment: the Symbol,
// Object, Reflect, Proxy, and console globals. Each builtin is an Initializer
// so installation order is explicit and the driver can swap out the set.
package builtins

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"sigil/pkg/vm"
)

// RuntimeContext is what initializers see: a sink for global bindings plus
// the session's output stream and logger.
type RuntimeContext struct {
	DefineGlobal func(name string, value vm.Value)
	Stdout       io.Writer
	Log          logrus.FieldLogger
}

// Initializer sets up one builtin. Lower priorities install first.
type Initializer interface {
	Name() string
	Priority() int
	InitRuntime(ctx *RuntimeContext) error
}

// Standard priorities.
const (
	PrioritySymbol  = 10
	PriorityObject  = 20
	PriorityReflect = 30
	PriorityProxy   = 40
	PriorityConsole = 100
)

// StandardInitializers returns the default builtin set.
func StandardInitializers() []Initializer {
	return []Initializer{
		&SymbolInitializer{},
		&ObjectInitializer{},
		&ReflectInitializer{},
		&ProxyInitializer{},
		&ConsoleInitializer{},
	}
}

// InstallAll runs the initializers in priority order.
func InstallAll(ctx *RuntimeContext, inits []Initializer) error {
	sorted := make([]Initializer, len(inits))
	copy(sorted, inits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority() < sorted[j].Priority()
	})
	for _, init := range sorted {
		if ctx.Log != nil {
			ctx.Log.WithField("builtin", init.Name()).Trace("installing builtin")
		}
		if err := init.InitRuntime(ctx); err != nil {
			return err
		}
	}
	return nil
}
