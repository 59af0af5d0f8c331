// Package interp evaluates resolved programs over the vm object model. It is
// a tree walker: activation records are slot arrays sized by the resolver,
// and every slot starts out uninitialized so reads before the declaration
// executes fail with a binding error.
package interp

import (
	"math"

	"github.com/sirupsen/logrus"

	"sigil/pkg/errors"
	"sigil/pkg/lexer"
	"sigil/pkg/parser"
	"sigil/pkg/resolver"
	"sigil/pkg/vm"
)

// environment is one activation record. Slot indices come from the resolver.
type environment struct {
	slots  []vm.Value
	parent *environment
}

func (e *environment) at(hops int) *environment {
	env := e
	for i := 0; i < hops; i++ {
		env = env.parent
	}
	return env
}

// Interpreter holds the session state that survives between Run calls: the
// global bindings and which of them are constants. Builtins are installed by
// defining globals before the first Run.
type Interpreter struct {
	globals      map[string]vm.Value
	globalConsts map[string]bool
	log          logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Interpreter {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.WarnLevel)
		log = l
	}
	return &Interpreter{
		globals:      make(map[string]vm.Value),
		globalConsts: make(map[string]bool),
		log:          log,
	}
}

// DefineGlobal installs a binding into the global scope. Used by the builtin
// initializers and by tests.
func (it *Interpreter) DefineGlobal(name string, value vm.Value) {
	it.globals[name] = value
}

// GlobalNames returns the set of currently defined global names, including
// private names from earlier evaluations. The resolver consumes this so REPL
// lines can reference bindings from previous lines.
func (it *Interpreter) GlobalNames() map[string]bool {
	names := make(map[string]bool, len(it.globals))
	for name := range it.globals {
		names[name] = true
	}
	return names
}

// returnSignal threads `return` through the evaluator as an error value.
type returnSignal struct {
	value vm.Value
}

func (r *returnSignal) Error() string { return "return outside of function" }

type run struct {
	it  *Interpreter
	res *resolver.Resolution
}

// Run evaluates prog under the given resolution and returns the value of its
// last expression statement.
func (it *Interpreter) Run(prog *parser.Program, res *resolver.Resolution) (vm.Value, error) {
	r := &run{it: it, res: res}

	// Top-level declarations are hoisted as uninitialized so reads ahead
	// of the declaration fail the same way block-scoped ones do.
	for name := range res.GlobalKinds {
		it.globals[name] = vm.Uninitialized
		delete(it.globalConsts, name)
	}

	result := vm.Undefined
	for _, stmt := range prog.Statements {
		v, err := r.evalStatement(stmt, nil)
		if err != nil {
			if _, ok := err.(*returnSignal); ok {
				return vm.Undefined, errors.NewSyntaxError(errors.Position{}, "return outside of function")
			}
			return vm.Undefined, err
		}
		if _, ok := stmt.(*parser.ExpressionStatement); ok {
			result = v
		}
	}
	return result, nil
}

// --- Statements ---

func (r *run) evalStatement(stmt parser.Statement, env *environment) (vm.Value, error) {
	switch s := stmt.(type) {
	case *parser.LetStatement:
		value := vm.Undefined
		if s.Value != nil {
			v, err := r.evalExpression(s.Value, env)
			if err != nil {
				return vm.Undefined, err
			}
			value = v
		}
		r.storeDecl(r.res.Decls[s], env, value)
		return vm.Undefined, nil

	case *parser.PrivateDeclaration:
		sym := vm.NewPrivateSymbol("#" + s.Name.Name)
		r.it.log.WithField("name", "#"+s.Name.Name).Trace("allocated private symbol")
		r.storeDecl(r.res.Decls[s], env, sym)
		return vm.Undefined, nil

	case *parser.FunctionDeclaration:
		fn := r.makeClosure(s.Function, env)
		r.storeDecl(r.res.Decls[s], env, fn)
		return vm.Undefined, nil

	case *parser.ExpressionStatement:
		return r.evalExpression(s.Expression, env)

	case *parser.BlockStatement:
		return vm.Undefined, r.evalBlock(s, env)

	case *parser.ReturnStatement:
		value := vm.Undefined
		if s.ReturnValue != nil {
			v, err := r.evalExpression(s.ReturnValue, env)
			if err != nil {
				return vm.Undefined, err
			}
			value = v
		}
		return vm.Undefined, &returnSignal{value: value}

	case *parser.IfStatement:
		cond, err := r.evalExpression(s.Condition, env)
		if err != nil {
			return vm.Undefined, err
		}
		if cond.IsTruthy() {
			return vm.Undefined, r.evalBlock(s.Consequence, env)
		}
		if s.Alternative != nil {
			_, err := r.evalStatement(s.Alternative, env)
			return vm.Undefined, err
		}
		return vm.Undefined, nil

	case *parser.WhileStatement:
		for {
			cond, err := r.evalExpression(s.Condition, env)
			if err != nil {
				return vm.Undefined, err
			}
			if !cond.IsTruthy() {
				return vm.Undefined, nil
			}
			if err := r.evalBlock(s.Body, env); err != nil {
				return vm.Undefined, err
			}
		}

	default:
		return vm.Undefined, errors.NewRuntimeError("unsupported statement %T", stmt)
	}
}

// evalBlock enters a fresh activation record for the block. Re-entering the
// block re-runs its declarations, so `private` bindings get a fresh symbol on
// every pass.
func (r *run) evalBlock(block *parser.BlockStatement, parent *environment) error {
	env := r.newScope(block, parent)
	for _, stmt := range block.Statements {
		if _, err := r.evalStatement(stmt, env); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) newScope(node parser.Node, parent *environment) *environment {
	size := r.res.Scopes[node]
	slots := make([]vm.Value, size)
	for i := range slots {
		slots[i] = vm.Uninitialized
	}
	return &environment{slots: slots, parent: parent}
}

// storeDecl writes the value a declaration produced. Declaration refs always
// target the current record (hops 0) or a global name.
func (r *run) storeDecl(ref resolver.Ref, env *environment, value vm.Value) {
	if ref.Global || env == nil {
		r.it.globals[ref.Name] = value
		if ref.Kind == resolver.KindConst || ref.Kind == resolver.KindPrivate {
			r.it.globalConsts[ref.Name] = true
		}
		return
	}
	env.slots[ref.Index] = value
}

// --- Expressions ---

func (r *run) evalExpression(expr parser.Expression, env *environment) (vm.Value, error) {
	switch e := expr.(type) {
	case *parser.NumberLiteral:
		return vm.NumberValue(e.Value), nil
	case *parser.StringLiteral:
		return vm.NewString(e.Value), nil
	case *parser.BooleanLiteral:
		return vm.BooleanValue(e.Value), nil
	case *parser.NullLiteral:
		return vm.Null, nil
	case *parser.UndefinedLiteral:
		return vm.Undefined, nil

	case *parser.Identifier:
		return r.loadRef(e, e.Value, e.Token, env)
	case *parser.PrivateName:
		return r.loadRef(e, "#"+e.Name, e.Token, env)

	case *parser.PrefixExpression:
		return r.evalPrefix(e, env)
	case *parser.InfixExpression:
		return r.evalInfix(e, env)
	case *parser.AssignmentExpression:
		return r.evalAssignment(e, env)
	case *parser.CallExpression:
		return r.evalCall(e, env)
	case *parser.MemberExpression:
		obj, err := r.evalExpression(e.Object, env)
		if err != nil {
			return vm.Undefined, err
		}
		key, err := r.memberKey(e, env)
		if err != nil {
			return vm.Undefined, err
		}
		v, err := vm.Get(obj, key)
		return v, r.wrap(err, e.Token)

	case *parser.FunctionLiteral:
		return r.makeClosure(e, env), nil
	case *parser.ObjectLiteral:
		return r.evalObjectLiteral(e, env)
	case *parser.ArrayLiteral:
		elements := make([]vm.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := r.evalExpression(el, env)
			if err != nil {
				return vm.Undefined, err
			}
			elements[i] = v
		}
		return vm.NewArrayWithElements(elements), nil

	default:
		return vm.Undefined, errors.NewRuntimeError("unsupported expression %T", expr)
	}
}

// loadRef reads an identifier or private-name binding via its resolved ref.
func (r *run) loadRef(node parser.Node, name string, tok lexer.Token, env *environment) (vm.Value, error) {
	ref, ok := r.res.Refs[node]
	if !ok {
		return vm.Undefined, errors.NewRuntimeError("unresolved reference '%s'", name)
	}
	if ref.Global || env == nil {
		v, exists := r.it.globals[ref.Name]
		if !exists {
			return vm.Undefined, errors.NewRuntimeError("'%s' is not defined", name).WithPosition(parser.TokenPosition(tok))
		}
		if v.IsUninitialized() {
			return vm.Undefined, errors.NewBindingError(parser.TokenPosition(tok), "cannot access '%s' before initialization", name)
		}
		return v, nil
	}
	v := env.at(ref.Hops).slots[ref.Index]
	if v.IsUninitialized() {
		return vm.Undefined, errors.NewBindingError(parser.TokenPosition(tok), "cannot access '%s' before initialization", name)
	}
	return v, nil
}

func (r *run) evalAssignment(e *parser.AssignmentExpression, env *environment) (vm.Value, error) {
	value, err := r.evalExpression(e.Value, env)
	if err != nil {
		return vm.Undefined, err
	}

	switch target := e.Target.(type) {
	case *parser.Identifier:
		ref, ok := r.res.Refs[target]
		if !ok {
			return vm.Undefined, errors.NewRuntimeError("unresolved reference '%s'", target.Value)
		}
		if ref.Global || env == nil {
			if r.it.globalConsts[ref.Name] {
				return vm.Undefined, errors.NewBindingError(parser.TokenPosition(target.Token), "assignment to constant '%s'", target.Value)
			}
			if v, exists := r.it.globals[ref.Name]; exists && v.IsUninitialized() {
				return vm.Undefined, errors.NewBindingError(parser.TokenPosition(target.Token), "cannot access '%s' before initialization", target.Value)
			}
			r.it.globals[ref.Name] = value
			return value, nil
		}
		slot := env.at(ref.Hops)
		if slot.slots[ref.Index].IsUninitialized() {
			return vm.Undefined, errors.NewBindingError(parser.TokenPosition(target.Token), "cannot access '%s' before initialization", target.Value)
		}
		slot.slots[ref.Index] = value
		return value, nil

	case *parser.MemberExpression:
		obj, err := r.evalExpression(target.Object, env)
		if err != nil {
			return vm.Undefined, err
		}
		key, err := r.memberKey(target, env)
		if err != nil {
			return vm.Undefined, err
		}
		if err := vm.Set(obj, key, value); err != nil {
			return vm.Undefined, r.wrap(err, target.Token)
		}
		return value, nil

	default:
		return vm.Undefined, errors.NewSyntaxError(parser.TokenPosition(e.Token), "invalid assignment target")
	}
}

// memberKey evaluates the property position of a member expression into a
// key. `o.#x` resolves the private name binding and keys by its symbol,
// exactly as `o[#x]` would.
func (r *run) memberKey(e *parser.MemberExpression, env *environment) (vm.PropertyKey, error) {
	switch prop := e.Property.(type) {
	case *parser.PrivateName:
		sym, err := r.loadRef(prop, "#"+prop.Name, prop.Token, env)
		if err != nil {
			return vm.PropertyKey{}, err
		}
		return vm.KeyFromValue(sym), nil
	case *parser.Identifier:
		if !e.Computed {
			return vm.NewStringKey(prop.Value), nil
		}
	}
	v, err := r.evalExpression(e.Property, env)
	if err != nil {
		return vm.PropertyKey{}, err
	}
	return vm.KeyFromValue(v), nil
}

func (r *run) evalCall(e *parser.CallExpression, env *environment) (vm.Value, error) {
	this := vm.Undefined
	var callee vm.Value

	// Method calls bind the receiver.
	if member, ok := e.Function.(*parser.MemberExpression); ok {
		obj, err := r.evalExpression(member.Object, env)
		if err != nil {
			return vm.Undefined, err
		}
		key, err := r.memberKey(member, env)
		if err != nil {
			return vm.Undefined, err
		}
		fn, err := vm.Get(obj, key)
		if err != nil {
			return vm.Undefined, r.wrap(err, member.Token)
		}
		this = obj
		callee = fn
	} else {
		fn, err := r.evalExpression(e.Function, env)
		if err != nil {
			return vm.Undefined, err
		}
		callee = fn
	}

	args := make([]vm.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := r.evalExpression(a, env)
		if err != nil {
			return vm.Undefined, err
		}
		args[i] = v
	}

	result, err := vm.Call(callee, this, args)
	return result, r.wrap(err, e.Token)
}

// makeClosure wraps a function literal into a callable value capturing the
// defining environment.
func (r *run) makeClosure(fn *parser.FunctionLiteral, defEnv *environment) vm.Value {
	res := r.res
	it := r.it
	return vm.NewNativeFunction(len(fn.Parameters), fn.Name, func(this vm.Value, args []vm.Value) (vm.Value, error) {
		callRun := &run{it: it, res: res}
		fnEnv := callRun.newScope(fn, defEnv)
		for i := range fn.Parameters {
			if i < len(args) {
				fnEnv.slots[i] = args[i]
			} else {
				fnEnv.slots[i] = vm.Undefined
			}
		}
		if err := callRun.evalBlock(fn.Body, fnEnv); err != nil {
			if ret, ok := err.(*returnSignal); ok {
				return ret.value, nil
			}
			return vm.Undefined, err
		}
		return vm.Undefined, nil
	})
}

// evalObjectLiteral builds a plain object. Private entries are the combined
// declare-and-define form: the fresh symbol is written to the binding the
// resolver allocated in the enclosing block, then used as the property key.
func (r *run) evalObjectLiteral(e *parser.ObjectLiteral, env *environment) (vm.Value, error) {
	obj := vm.NewObject(vm.Undefined)
	plain := obj.AsPlainObject()

	for _, prop := range e.Properties {
		if prop.Spread {
			src, err := r.evalExpression(prop.Value, env)
			if err != nil {
				return vm.Undefined, err
			}
			if err := vm.CopyOwnEnumerable(plain, src); err != nil {
				return vm.Undefined, r.wrap(err, prop.Token)
			}
			continue
		}

		var key vm.PropertyKey
		if prop.Computed {
			// `[e]: v` evaluates its key, including `[#x]` over an
			// existing binding.
			kv, err := r.evalExpression(prop.Key, env)
			if err != nil {
				return vm.Undefined, err
			}
			key = vm.KeyFromValue(kv)
		} else {
			switch k := prop.Key.(type) {
			case *parser.PrivateName:
				sym := vm.NewPrivateSymbol("#" + k.Name)
				r.it.log.WithField("name", "#"+k.Name).Trace("allocated private symbol")
				r.storeDecl(r.res.Decls[prop], env, sym)
				key = vm.KeyFromValue(sym)
			case *parser.Identifier:
				key = vm.NewStringKey(k.Value)
			case *parser.StringLiteral:
				key = vm.NewStringKey(k.Value)
			default:
				return vm.Undefined, errors.NewRuntimeError("unsupported property key %T", prop.Key)
			}
		}

		value, err := r.evalExpression(prop.Value, env)
		if err != nil {
			return vm.Undefined, err
		}
		plain.SetOwnByKey(key, value)
	}
	return obj, nil
}

func (r *run) evalPrefix(e *parser.PrefixExpression, env *environment) (vm.Value, error) {
	right, err := r.evalExpression(e.Right, env)
	if err != nil {
		return vm.Undefined, err
	}
	switch e.Operator {
	case "!":
		return vm.BooleanValue(!right.IsTruthy()), nil
	case "-":
		if !right.IsNumber() {
			return vm.Undefined, errors.NewRuntimeError("unary '-' requires a number, got %s", right.Type()).WithPosition(parser.TokenPosition(e.Token))
		}
		return vm.NumberValue(-right.AsNumber()), nil
	case "typeof":
		return vm.NewString(right.TypeofName()), nil
	default:
		return vm.Undefined, errors.NewRuntimeError("unknown prefix operator '%s'", e.Operator)
	}
}

func (r *run) evalInfix(e *parser.InfixExpression, env *environment) (vm.Value, error) {
	// Logical operators short-circuit and yield operand values.
	if e.Operator == "&&" || e.Operator == "||" {
		left, err := r.evalExpression(e.Left, env)
		if err != nil {
			return vm.Undefined, err
		}
		if e.Operator == "&&" && !left.IsTruthy() {
			return left, nil
		}
		if e.Operator == "||" && left.IsTruthy() {
			return left, nil
		}
		return r.evalExpression(e.Right, env)
	}

	left, err := r.evalExpression(e.Left, env)
	if err != nil {
		return vm.Undefined, err
	}
	right, err := r.evalExpression(e.Right, env)
	if err != nil {
		return vm.Undefined, err
	}

	switch e.Operator {
	case "===":
		return vm.BooleanValue(left.StrictEquals(right)), nil
	case "!==":
		return vm.BooleanValue(!left.StrictEquals(right)), nil
	case "==":
		return vm.BooleanValue(left.LooseEquals(right)), nil
	case "!=":
		return vm.BooleanValue(!left.LooseEquals(right)), nil
	case "+":
		if left.IsNumber() && right.IsNumber() {
			return vm.NumberValue(left.AsNumber() + right.AsNumber()), nil
		}
		if left.IsString() || right.IsString() {
			if left.IsSymbol() || right.IsSymbol() {
				return vm.Undefined, errors.NewRuntimeError("cannot convert a symbol to a string").WithPosition(parser.TokenPosition(e.Token))
			}
			return vm.NewString(left.ToString() + right.ToString()), nil
		}
		return vm.Undefined, r.numericOperandError(e, left, right)
	case "-", "*", "/", "%", "<", ">", "<=", ">=":
		if !left.IsNumber() || !right.IsNumber() {
			if left.IsString() && right.IsString() {
				return compareStrings(e.Operator, left.AsString(), right.AsString())
			}
			return vm.Undefined, r.numericOperandError(e, left, right)
		}
		l, rr := left.AsNumber(), right.AsNumber()
		switch e.Operator {
		case "-":
			return vm.NumberValue(l - rr), nil
		case "*":
			return vm.NumberValue(l * rr), nil
		case "/":
			return vm.NumberValue(l / rr), nil
		case "%":
			return vm.NumberValue(math.Mod(l, rr)), nil
		case "<":
			return vm.BooleanValue(l < rr), nil
		case ">":
			return vm.BooleanValue(l > rr), nil
		case "<=":
			return vm.BooleanValue(l <= rr), nil
		case ">=":
			return vm.BooleanValue(l >= rr), nil
		}
	}
	return vm.Undefined, errors.NewRuntimeError("unknown operator '%s'", e.Operator)
}

func compareStrings(op, l, r string) (vm.Value, error) {
	switch op {
	case "<":
		return vm.BooleanValue(l < r), nil
	case ">":
		return vm.BooleanValue(l > r), nil
	case "<=":
		return vm.BooleanValue(l <= r), nil
	case ">=":
		return vm.BooleanValue(l >= r), nil
	default:
		return vm.Undefined, errors.NewRuntimeError("operator '%s' requires numbers", op)
	}
}

func (r *run) numericOperandError(e *parser.InfixExpression, left, right vm.Value) error {
	return errors.NewRuntimeError("operator '%s' requires numeric operands, got %s and %s",
		e.Operator, left.Type(), right.Type()).WithPosition(parser.TokenPosition(e.Token))
}

// wrap attaches a source position to errors bubbling up from the object
// model, which carries none.
func (r *run) wrap(err error, tok lexer.Token) error {
	if err == nil {
		return nil
	}
	if se, ok := err.(errors.SigilError); ok {
		return errors.WithPos(se, parser.TokenPosition(tok))
	}
	return errors.NewRuntimeError("%s", err.Error()).WithPosition(parser.TokenPosition(tok))
}
