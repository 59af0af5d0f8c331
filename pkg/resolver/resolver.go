// Package resolver is the static pass between parsing and evaluation. It
// assigns every block-scoped declaration a slot index in its activation
// record, resolves identifier and `#name` uses to (hops, index) coordinates,
// and rejects binding misuse: redeclaration, assignment to constants, and
// `#name` references with no declaration in scope.
package resolver

import (
	"sigil/pkg/errors"
	"sigil/pkg/lexer"
	"sigil/pkg/parser"
)

// Kind classifies a binding.
type Kind uint8

const (
	KindLet Kind = iota
	KindConst
	KindPrivate
	KindParam
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindLet:
		return "let"
	case KindConst:
		return "const"
	case KindPrivate:
		return "private"
	case KindParam:
		return "parameter"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Ref locates a binding: either a named global or a slot at (Hops, Index)
// counting activation records outward from the use site.
type Ref struct {
	Global bool
	Name   string
	Hops   int
	Index  int
	Kind   Kind
}

// Resolution is the side table the evaluator consults.
type Resolution struct {
	// Refs maps Identifier / PrivateName use sites to their bindings.
	Refs map[parser.Node]Ref
	// Decls maps declaration nodes (LetStatement, PrivateDeclaration,
	// FunctionDeclaration, private ObjectProperty entries) to their
	// write targets. Hops is always 0 for slot declarations.
	Decls map[parser.Node]Ref
	// Scopes maps scope-introducing nodes (BlockStatement,
	// FunctionLiteral) to their activation record sizes.
	Scopes map[parser.Node]int
	// GlobalKinds lists the top-level names this program declares
	// (private names keep their '#' prefix).
	GlobalKinds map[string]Kind
}

type binding struct {
	index int
	kind  Kind
}

type scope struct {
	bindings map[string]binding
	global   bool
	// node is the scope-introducing AST node; its final binding count is
	// recorded in Resolution.Scopes when the scope pops.
	node parser.Node
}

// Resolver performs the pass. knownGlobals carries names declared by earlier
// evaluations of the same session, so REPL lines can see each other's
// private bindings.
type Resolver struct {
	res          *Resolution
	scopes       []*scope
	errs         []errors.SigilError
	knownGlobals map[string]bool
}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve analyzes prog and returns the resolution table and any binding
// errors. A non-empty error list means the program must not be evaluated.
func (r *Resolver) Resolve(prog *parser.Program, knownGlobals map[string]bool) (*Resolution, []errors.SigilError) {
	r.res = &Resolution{
		Refs:        make(map[parser.Node]Ref),
		Decls:       make(map[parser.Node]Ref),
		Scopes:      make(map[parser.Node]int),
		GlobalKinds: make(map[string]Kind),
	}
	r.scopes = []*scope{{bindings: make(map[string]binding), global: true}}
	r.errs = nil
	r.knownGlobals = knownGlobals

	r.scanStatements(prog.Statements)
	for _, stmt := range prog.Statements {
		r.resolveStatement(stmt)
	}

	return r.res, r.errs
}

func (r *Resolver) addError(tok lexer.Token, format string, args ...interface{}) {
	r.errs = append(r.errs, errors.NewBindingError(parser.TokenPosition(tok), format, args...))
}

func (r *Resolver) currentScope() *scope {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) pushScope(node parser.Node) {
	r.scopes = append(r.scopes, &scope{bindings: make(map[string]binding), node: node})
}

func (r *Resolver) popScope() {
	top := r.currentScope()
	if top.node != nil {
		r.res.Scopes[top.node] = len(top.bindings)
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare introduces a binding in the current scope and returns its ref.
func (r *Resolver) declare(tok lexer.Token, name string, kind Kind) Ref {
	sc := r.currentScope()
	if _, exists := sc.bindings[name]; exists {
		r.addError(tok, "'%s' has already been declared in this scope", name)
		return sc.refFor(name, sc.bindings[name])
	}
	b := binding{index: len(sc.bindings), kind: kind}
	sc.bindings[name] = b
	if sc.global {
		r.res.GlobalKinds[name] = kind
	}
	return sc.refFor(name, b)
}

func (sc *scope) refFor(name string, b binding) Ref {
	if sc.global {
		return Ref{Global: true, Name: name, Kind: b.kind}
	}
	return Ref{Index: b.index, Name: name, Kind: b.kind}
}

// lookup resolves a name through the scope stack. Hops counts activation
// records, so every non-global scope boundary increments it.
func (r *Resolver) lookup(name string) (Ref, bool) {
	hops := 0
	for i := len(r.scopes) - 1; i >= 0; i-- {
		sc := r.scopes[i]
		if b, ok := sc.bindings[name]; ok {
			ref := sc.refFor(name, b)
			ref.Hops = hops
			return ref, true
		}
		if !sc.global {
			hops++
		}
	}
	return Ref{}, false
}

// --- Declaration pre-scan ---
//
// All declarations in a block are registered before any statement is
// resolved, so a use textually before its declaration still resolves to the
// (not yet initialized) slot and fails at runtime with a TDZ error instead
// of silently binding to an outer scope.

func (r *Resolver) scanStatements(stmts []parser.Statement) {
	for _, stmt := range stmts {
		r.scanStatement(stmt)
	}
}

func (r *Resolver) scanStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.LetStatement:
		kind := KindLet
		if s.Const {
			kind = KindConst
		}
		r.res.Decls[s] = r.declare(s.Name.Token, s.Name.Value, kind)
		r.scanExpression(s.Value)
	case *parser.PrivateDeclaration:
		r.res.Decls[s] = r.declare(s.Name.Token, "#"+s.Name.Name, KindPrivate)
	case *parser.FunctionDeclaration:
		r.res.Decls[s] = r.declare(s.Name.Token, s.Name.Value, KindFunction)
	case *parser.ExpressionStatement:
		r.scanExpression(s.Expression)
	case *parser.ReturnStatement:
		r.scanExpression(s.ReturnValue)
	case *parser.IfStatement:
		r.scanExpression(s.Condition)
	case *parser.WhileStatement:
		r.scanExpression(s.Condition)
	}
	// Nested blocks declare into their own scopes when resolved.
}

// scanExpression finds object-literal private entries, which declare into
// the enclosing block. It does not descend into function literals: their
// bodies declare into their own activation records.
func (r *Resolver) scanExpression(expr parser.Expression) {
	switch e := expr.(type) {
	case *parser.ObjectLiteral:
		for _, prop := range e.Properties {
			if pn, ok := prop.Key.(*parser.PrivateName); ok && !prop.Computed && !prop.Spread {
				r.res.Decls[prop] = r.declare(pn.Token, "#"+pn.Name, KindPrivate)
			}
			if prop.Computed {
				r.scanExpression(prop.Key)
			}
			r.scanExpression(prop.Value)
		}
	case *parser.ArrayLiteral:
		for _, el := range e.Elements {
			r.scanExpression(el)
		}
	case *parser.PrefixExpression:
		r.scanExpression(e.Right)
	case *parser.InfixExpression:
		r.scanExpression(e.Left)
		r.scanExpression(e.Right)
	case *parser.AssignmentExpression:
		r.scanExpression(e.Target)
		r.scanExpression(e.Value)
	case *parser.CallExpression:
		r.scanExpression(e.Function)
		for _, a := range e.Arguments {
			r.scanExpression(a)
		}
	case *parser.MemberExpression:
		r.scanExpression(e.Object)
		if e.Computed {
			r.scanExpression(e.Property)
		}
	}
}

// --- Resolution walk ---

func (r *Resolver) resolveStatement(stmt parser.Statement) {
	switch s := stmt.(type) {
	case *parser.LetStatement:
		r.resolveExpression(s.Value)
	case *parser.PrivateDeclaration:
		// Declared during the pre-scan; nothing to resolve.
	case *parser.FunctionDeclaration:
		r.resolveFunction(s.Function)
	case *parser.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *parser.BlockStatement:
		r.resolveBlock(s)
	case *parser.ReturnStatement:
		r.resolveExpression(s.ReturnValue)
	case *parser.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveBlock(s.Consequence)
		if s.Alternative != nil {
			r.resolveStatement(s.Alternative)
		}
	case *parser.WhileStatement:
		r.resolveExpression(s.Condition)
		r.resolveBlock(s.Body)
	}
}

func (r *Resolver) resolveBlock(block *parser.BlockStatement) {
	if block == nil {
		return
	}
	r.pushScope(block)
	r.scanStatements(block.Statements)
	for _, stmt := range block.Statements {
		r.resolveStatement(stmt)
	}
	r.popScope()
}

func (r *Resolver) resolveFunction(fn *parser.FunctionLiteral) {
	r.pushScope(fn)
	for _, param := range fn.Parameters {
		r.declare(param.Token, param.Value, KindParam)
	}
	r.resolveBlock(fn.Body)
	r.popScope()
}

func (r *Resolver) resolveExpression(expr parser.Expression) {
	switch e := expr.(type) {
	case nil:
		return
	case *parser.Identifier:
		if ref, ok := r.lookup(e.Value); ok {
			r.res.Refs[e] = ref
		} else {
			// Unresolved identifiers fall back to the global object;
			// missing ones fail at runtime.
			r.res.Refs[e] = Ref{Global: true, Name: e.Value}
		}
	case *parser.PrivateName:
		r.resolvePrivateName(e)
	case *parser.PrefixExpression:
		r.resolveExpression(e.Right)
	case *parser.InfixExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *parser.AssignmentExpression:
		r.resolveAssignment(e)
	case *parser.CallExpression:
		r.resolveExpression(e.Function)
		for _, a := range e.Arguments {
			r.resolveExpression(a)
		}
	case *parser.MemberExpression:
		r.resolveExpression(e.Object)
		switch prop := e.Property.(type) {
		case *parser.PrivateName:
			r.resolvePrivateName(prop)
		default:
			if e.Computed {
				r.resolveExpression(e.Property)
			}
			// Dot property names are not variable references.
		}
	case *parser.FunctionLiteral:
		r.resolveFunction(e)
	case *parser.ObjectLiteral:
		for _, prop := range e.Properties {
			if prop.Computed {
				r.resolveExpression(prop.Key)
			}
			r.resolveExpression(prop.Value)
		}
	case *parser.ArrayLiteral:
		for _, el := range e.Elements {
			r.resolveExpression(el)
		}
	}
}

// resolvePrivateName binds a `#name` use. Unlike identifiers, a private name
// with no declaration in any enclosing scope is a static binding error: the
// symbol cannot exist.
func (r *Resolver) resolvePrivateName(pn *parser.PrivateName) {
	name := "#" + pn.Name
	if ref, ok := r.lookup(name); ok {
		r.res.Refs[pn] = ref
		return
	}
	if r.knownGlobals != nil && r.knownGlobals[name] {
		r.res.Refs[pn] = Ref{Global: true, Name: name, Kind: KindPrivate}
		return
	}
	r.addError(pn.Token, "private name '#%s' is not declared in this scope", pn.Name)
}

func (r *Resolver) resolveAssignment(e *parser.AssignmentExpression) {
	switch target := e.Target.(type) {
	case *parser.Identifier:
		if ref, ok := r.lookup(target.Value); ok {
			if ref.Kind == KindConst || ref.Kind == KindPrivate {
				r.addError(target.Token, "assignment to constant '%s'", target.Value)
			}
			r.res.Refs[target] = ref
		} else {
			r.res.Refs[target] = Ref{Global: true, Name: target.Value}
		}
	case *parser.PrivateName:
		r.addError(target.Token, "cannot assign to private name '#%s'", target.Name)
	case *parser.MemberExpression:
		r.resolveExpression(target)
	}
	r.resolveExpression(e.Value)
}
