package parser

import (
	"strings"

	"sigil/pkg/errors"
	"sigil/pkg/lexer"
)

// Node is the interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement nodes.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes.
type Expression interface {
	Node
	expressionNode()
}

// TokenPosition converts a token into an error position.
func TokenPosition(tok lexer.Token) errors.Position {
	return errors.Position{Line: tok.Line, Column: tok.Column, StartPos: tok.StartPos, EndPos: tok.EndPos}
}

// Program is the root node of a parsed source file.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out strings.Builder
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// --- Statements ---

// LetStatement covers both `let` and `const` declarations.
type LetStatement struct {
	Token lexer.Token // the LET or CONST token
	Const bool
	Name  *Identifier
	Value Expression
}

func (s *LetStatement) statementNode()       {}
func (s *LetStatement) TokenLiteral() string { return s.Token.Literal }
func (s *LetStatement) String() string {
	kw := "let"
	if s.Const {
		kw = "const"
	}
	var out strings.Builder
	out.WriteString(kw + " " + s.Name.String())
	if s.Value != nil {
		out.WriteString(" = " + s.Value.String())
	}
	out.WriteString(";")
	return out.String()
}

// PrivateDeclaration is `private #name;`. It binds a lexically scoped
// constant to a fresh private symbol each time the declaration executes.
type PrivateDeclaration struct {
	Token lexer.Token // the PRIVATE token
	Name  *PrivateName
}

func (s *PrivateDeclaration) statementNode()       {}
func (s *PrivateDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *PrivateDeclaration) String() string       { return "private " + s.Name.String() + ";" }

// FunctionDeclaration is `function name(...) { ... }` at statement position.
type FunctionDeclaration struct {
	Token    lexer.Token // the FUNCTION token
	Name     *Identifier
	Function *FunctionLiteral
}

func (s *FunctionDeclaration) statementNode()       {}
func (s *FunctionDeclaration) TokenLiteral() string { return s.Token.Literal }
func (s *FunctionDeclaration) String() string       { return s.Function.String() }

type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) String() string {
	if s.Expression != nil {
		return s.Expression.String() + ";"
	}
	return ";"
}

type BlockStatement struct {
	Token      lexer.Token // the LBRACE token
	Statements []Statement
}

func (s *BlockStatement) statementNode()       {}
func (s *BlockStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BlockStatement) String() string {
	var out strings.Builder
	out.WriteString("{ ")
	for _, st := range s.Statements {
		out.WriteString(st.String())
	}
	out.WriteString(" }")
	return out.String()
}

type ReturnStatement struct {
	Token       lexer.Token // the RETURN token
	ReturnValue Expression
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) String() string {
	if s.ReturnValue != nil {
		return "return " + s.ReturnValue.String() + ";"
	}
	return "return;"
}

type IfStatement struct {
	Token       lexer.Token // the IF token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // *BlockStatement, *IfStatement, or nil
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) String() string {
	out := "if (" + s.Condition.String() + ") " + s.Consequence.String()
	if s.Alternative != nil {
		out += " else " + s.Alternative.String()
	}
	return out
}

type WhileStatement struct {
	Token     lexer.Token // the WHILE token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}

// --- Expressions ---

type Identifier struct {
	Token lexer.Token
	Value string
}

func (e *Identifier) expressionNode()      {}
func (e *Identifier) TokenLiteral() string { return e.Token.Literal }
func (e *Identifier) String() string       { return e.Value }

// PrivateName is a `#name` reference. Name holds the identifier without the
// leading hash; the token literal keeps the source spelling.
type PrivateName struct {
	Token lexer.Token
	Name  string
}

func (e *PrivateName) expressionNode()      {}
func (e *PrivateName) TokenLiteral() string { return e.Token.Literal }
func (e *PrivateName) String() string       { return "#" + e.Name }

type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (e *NumberLiteral) expressionNode()      {}
func (e *NumberLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *NumberLiteral) String() string       { return e.Token.Literal }

type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (e *StringLiteral) expressionNode()      {}
func (e *StringLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *StringLiteral) String() string       { return "\"" + e.Value + "\"" }

type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (e *BooleanLiteral) expressionNode()      {}
func (e *BooleanLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *BooleanLiteral) String() string       { return e.Token.Literal }

type NullLiteral struct {
	Token lexer.Token
}

func (e *NullLiteral) expressionNode()      {}
func (e *NullLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *NullLiteral) String() string       { return "null" }

type UndefinedLiteral struct {
	Token lexer.Token
}

func (e *UndefinedLiteral) expressionNode()      {}
func (e *UndefinedLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *UndefinedLiteral) String() string       { return "undefined" }

type PrefixExpression struct {
	Token    lexer.Token // the prefix token, e.g. ! or typeof
	Operator string
	Right    Expression
}

func (e *PrefixExpression) expressionNode()      {}
func (e *PrefixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *PrefixExpression) String() string {
	if e.Operator == "typeof" {
		return "(typeof " + e.Right.String() + ")"
	}
	return "(" + e.Operator + e.Right.String() + ")"
}

type InfixExpression struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (e *InfixExpression) expressionNode()      {}
func (e *InfixExpression) TokenLiteral() string { return e.Token.Literal }
func (e *InfixExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

// AssignmentExpression assigns to an identifier or member target.
type AssignmentExpression struct {
	Token  lexer.Token // the = token
	Target Expression
	Value  Expression
}

func (e *AssignmentExpression) expressionNode()      {}
func (e *AssignmentExpression) TokenLiteral() string { return e.Token.Literal }
func (e *AssignmentExpression) String() string {
	return "(" + e.Target.String() + " = " + e.Value.String() + ")"
}

type CallExpression struct {
	Token     lexer.Token // the ( token
	Function  Expression
	Arguments []Expression
}

func (e *CallExpression) expressionNode()      {}
func (e *CallExpression) TokenLiteral() string { return e.Token.Literal }
func (e *CallExpression) String() string {
	args := make([]string, len(e.Arguments))
	for i, a := range e.Arguments {
		args[i] = a.String()
	}
	return e.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// MemberExpression is `obj.prop`, `obj[expr]`, or `obj.#name`. For dot access
// Property is an *Identifier; for `obj.#name` it is a *PrivateName (which is
// defined to be identical to `obj[#name]`); for computed access it is an
// arbitrary expression and Computed is true.
type MemberExpression struct {
	Token    lexer.Token // the . or [ token
	Object   Expression
	Property Expression
	Computed bool
}

func (e *MemberExpression) expressionNode()      {}
func (e *MemberExpression) TokenLiteral() string { return e.Token.Literal }
func (e *MemberExpression) String() string {
	if e.Computed {
		return e.Object.String() + "[" + e.Property.String() + "]"
	}
	return e.Object.String() + "." + e.Property.String()
}

type FunctionLiteral struct {
	Token      lexer.Token // the FUNCTION token
	Name       string      // empty for anonymous functions
	Parameters []*Identifier
	Body       *BlockStatement
}

func (e *FunctionLiteral) expressionNode()      {}
func (e *FunctionLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *FunctionLiteral) String() string {
	params := make([]string, len(e.Parameters))
	for i, p := range e.Parameters {
		params[i] = p.String()
	}
	name := ""
	if e.Name != "" {
		name = " " + e.Name
	}
	return "function" + name + "(" + strings.Join(params, ", ") + ") " + e.Body.String()
}

// ObjectProperty is one entry of an object literal.
//
// Exactly one of these shapes holds:
//   - Spread entry:   Spread == true, Value is the spread argument
//   - Private entry:  Key is a *PrivateName (declare-and-define sugar)
//   - Computed entry: Computed == true, Key is an arbitrary expression
//   - Plain entry:    Key is an *Identifier or *StringLiteral
type ObjectProperty struct {
	Token    lexer.Token
	Key      Expression
	Computed bool
	Spread   bool
	Value    Expression
}

func (p *ObjectProperty) TokenLiteral() string { return p.Token.Literal }
func (p *ObjectProperty) String() string {
	switch {
	case p.Spread:
		return "..." + p.Value.String()
	case p.Computed:
		return "[" + p.Key.String() + "]: " + p.Value.String()
	default:
		return p.Key.String() + ": " + p.Value.String()
	}
}

type ObjectLiteral struct {
	Token      lexer.Token // the { token
	Properties []*ObjectProperty
}

func (e *ObjectLiteral) expressionNode()      {}
func (e *ObjectLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ObjectLiteral) String() string {
	props := make([]string, len(e.Properties))
	for i, p := range e.Properties {
		props[i] = p.String()
	}
	return "{" + strings.Join(props, ", ") + "}"
}

type ArrayLiteral struct {
	Token    lexer.Token // the [ token
	Elements []Expression
}

func (e *ArrayLiteral) expressionNode()      {}
func (e *ArrayLiteral) TokenLiteral() string { return e.Token.Literal }
func (e *ArrayLiteral) String() string {
	elems := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		elems[i] = el.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}
