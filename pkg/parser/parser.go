package parser

import (
	"strconv"

	"sigil/pkg/errors"
	"sigil/pkg/lexer"
)

// Operator precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =
	LOGICAL_OR  // ||
	LOGICAL_AND // &&
	EQUALS      // == != === !==
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -x !x typeof x
	CALL        // fn(x) obj.prop obj[key]
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:        ASSIGNMENT,
	lexer.LOGICAL_OR:    LOGICAL_OR,
	lexer.LOGICAL_AND:   LOGICAL_AND,
	lexer.EQ:            EQUALS,
	lexer.NOT_EQ:        EQUALS,
	lexer.STRICT_EQ:     EQUALS,
	lexer.STRICT_NOT_EQ: EQUALS,
	lexer.LT:            LESSGREATER,
	lexer.GT:            LESSGREATER,
	lexer.LE:            LESSGREATER,
	lexer.GE:            LESSGREATER,
	lexer.PLUS:          SUM,
	lexer.MINUS:         SUM,
	lexer.ASTERISK:      PRODUCT,
	lexer.SLASH:         PRODUCT,
	lexer.LPAREN:        CALL,
	lexer.DOT:           CALL,
	lexer.LBRACKET:      CALL,
}

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// Parser builds an AST from a token stream.
type Parser struct {
	l      *lexer.Lexer
	errors []errors.SigilError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

// NewParser creates a parser reading from l.
func NewParser(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:         p.parseIdentifier,
		lexer.PRIVATE_IDENT: p.parsePrivateName,
		lexer.NUMBER:        p.parseNumberLiteral,
		lexer.STRING:        p.parseStringLiteral,
		lexer.TRUE:          p.parseBooleanLiteral,
		lexer.FALSE:         p.parseBooleanLiteral,
		lexer.NULL:          p.parseNullLiteral,
		lexer.UNDEFINED:     p.parseUndefinedLiteral,
		lexer.BANG:          p.parsePrefixExpression,
		lexer.MINUS:         p.parsePrefixExpression,
		lexer.TYPEOF:        p.parsePrefixExpression,
		lexer.LPAREN:        p.parseGroupedExpression,
		lexer.LBRACE:        p.parseObjectLiteral,
		lexer.LBRACKET:      p.parseArrayLiteral,
		lexer.FUNCTION:      p.parseFunctionLiteral,
	}
	p.infixParseFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:          p.parseInfixExpression,
		lexer.MINUS:         p.parseInfixExpression,
		lexer.ASTERISK:      p.parseInfixExpression,
		lexer.SLASH:         p.parseInfixExpression,
		lexer.EQ:            p.parseInfixExpression,
		lexer.NOT_EQ:        p.parseInfixExpression,
		lexer.STRICT_EQ:     p.parseInfixExpression,
		lexer.STRICT_NOT_EQ: p.parseInfixExpression,
		lexer.LT:            p.parseInfixExpression,
		lexer.GT:            p.parseInfixExpression,
		lexer.LE:            p.parseInfixExpression,
		lexer.GE:            p.parseInfixExpression,
		lexer.LOGICAL_AND:   p.parseInfixExpression,
		lexer.LOGICAL_OR:    p.parseInfixExpression,
		lexer.ASSIGN:        p.parseAssignmentExpression,
		lexer.LPAREN:        p.parseCallExpression,
		lexer.DOT:           p.parseMemberExpression,
		lexer.LBRACKET:      p.parseComputedMemberExpression,
	}

	// Read two tokens so curToken and peekToken are both set.
	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the parse errors collected so far, including lexer errors.
func (p *Parser) Errors() []errors.SigilError {
	return append(p.l.Errors(), p.errors...)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	p.addError(p.peekToken, "expected next token to be %s, got %s instead", t, p.peekToken.Type)
}

func (p *Parser) addError(tok lexer.Token, format string, args ...interface{}) {
	p.errors = append(p.errors, errors.NewSyntaxError(TokenPosition(tok), format, args...))
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseProgram parses the whole input and returns the root Program node.
func (p *Parser) ParseProgram() *Program {
	program := &Program{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.nextToken()
	}

	return program
}

// --- Statements ---

func (p *Parser) parseStatement() Statement {
	switch p.curToken.Type {
	case lexer.LET, lexer.CONST:
		return p.parseLetStatement()
	case lexer.PRIVATE:
		return p.parsePrivateDeclaration()
	case lexer.FUNCTION:
		if p.peekTokenIs(lexer.IDENT) {
			return p.parseFunctionDeclaration()
		}
		return p.parseExpressionStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		return nil // empty statement
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() Statement {
	stmt := &LetStatement{Token: p.curToken, Const: p.curTokenIs(lexer.CONST)}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken() // =
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
	} else if stmt.Const {
		p.addError(p.curToken, "const declaration requires an initializer")
	}

	p.consumeOptionalSemicolon()
	return stmt
}

// parsePrivateDeclaration parses `private #name;`. The declaration keyword
// must be followed by a bare private name: an initializer, or anything else
// in that position, is a syntax error.
func (p *Parser) parsePrivateDeclaration() Statement {
	stmt := &PrivateDeclaration{Token: p.curToken}

	if !p.peekTokenIs(lexer.PRIVATE_IDENT) {
		p.addError(p.peekToken, "private declaration requires a bare #name, got %s", p.peekToken.Type)
		return nil
	}
	p.nextToken()
	stmt.Name = &PrivateName{Token: p.curToken, Name: p.curToken.Literal[1:]}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.addError(p.peekToken, "private declarations cannot have an initializer")
		return nil
	}

	p.consumeOptionalSemicolon()
	return stmt
}

func (p *Parser) parseFunctionDeclaration() Statement {
	stmt := &FunctionDeclaration{Token: p.curToken}
	fn := p.parseFunctionLiteral()
	lit, ok := fn.(*FunctionLiteral)
	if !ok || lit.Name == "" {
		return nil
	}
	stmt.Function = lit
	stmt.Name = &Identifier{Token: stmt.Token, Value: lit.Name}
	return stmt
}

func (p *Parser) parseReturnStatement() Statement {
	stmt := &ReturnStatement{Token: p.curToken}

	if p.peekTokenIs(lexer.SEMICOLON) || p.peekTokenIs(lexer.RBRACE) || p.peekTokenIs(lexer.EOF) {
		p.consumeOptionalSemicolon()
		return stmt
	}

	p.nextToken()
	stmt.ReturnValue = p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	return stmt
}

func (p *Parser) parseIfStatement() Statement {
	stmt := &IfStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Consequence = p.parseBlockStatement().(*BlockStatement)

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken() // else
		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			stmt.Alternative = p.parseIfStatement()
		} else if p.expectPeek(lexer.LBRACE) {
			stmt.Alternative = p.parseBlockStatement().(*BlockStatement)
		} else {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseWhileStatement() Statement {
	stmt := &WhileStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	stmt.Body = p.parseBlockStatement().(*BlockStatement)
	return stmt
}

func (p *Parser) parseBlockStatement() Statement {
	block := &BlockStatement{Token: p.curToken}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}

	if p.curTokenIs(lexer.EOF) {
		p.addError(p.curToken, "unexpected end of input, expected '}'")
	}

	return block
}

func (p *Parser) parseExpressionStatement() Statement {
	stmt := &ExpressionStatement{Token: p.curToken}
	stmt.Expression = p.parseExpression(LOWEST)
	p.consumeOptionalSemicolon()
	if stmt.Expression == nil {
		return nil
	}
	return stmt
}

func (p *Parser) consumeOptionalSemicolon() {
	if p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}

// --- Expressions ---

func (p *Parser) parseExpression(precedence int) Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.addError(p.curToken, "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}

	return left
}

func (p *Parser) parseIdentifier() Expression {
	return &Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parsePrivateName() Expression {
	return &PrivateName{Token: p.curToken, Name: p.curToken.Literal[1:]}
}

func (p *Parser) parseNumberLiteral() Expression {
	lit := &NumberLiteral{Token: p.curToken}
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken, "could not parse %q as number", p.curToken.Literal)
		return nil
	}
	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() Expression {
	return &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() Expression {
	return &BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNullLiteral() Expression {
	return &NullLiteral{Token: p.curToken}
}

func (p *Parser) parseUndefinedLiteral() Expression {
	return &UndefinedLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() Expression {
	expr := &PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}
	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	return expr
}

func (p *Parser) parseInfixExpression(left Expression) Expression {
	expr := &InfixExpression{Token: p.curToken, Left: left, Operator: p.curToken.Literal}
	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	return expr
}

func (p *Parser) parseAssignmentExpression(left Expression) Expression {
	switch left.(type) {
	case *Identifier, *MemberExpression:
		// valid assignment targets
	default:
		p.addError(p.curToken, "invalid assignment target")
		return nil
	}

	expr := &AssignmentExpression{Token: p.curToken, Target: left}
	p.nextToken()
	// Right-associative: parse the value at one level below ASSIGNMENT.
	expr.Value = p.parseExpression(ASSIGNMENT - 1)
	return expr
}

func (p *Parser) parseGroupedExpression() Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseCallExpression(fn Expression) Expression {
	expr := &CallExpression{Token: p.curToken, Function: fn}
	expr.Arguments = p.parseExpressionList(lexer.RPAREN)
	return expr
}

func (p *Parser) parseExpressionList(end lexer.TokenType) []Expression {
	var list []Expression

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken() // ,
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *Parser) parseArrayLiteral() Expression {
	lit := &ArrayLiteral{Token: p.curToken}
	lit.Elements = p.parseExpressionList(lexer.RBRACKET)
	return lit
}

func (p *Parser) parseMemberExpression(obj Expression) Expression {
	expr := &MemberExpression{Token: p.curToken, Object: obj}
	switch {
	// Property position introduces no binding, so reserved words are valid
	// names here: Symbol.private, sym.private.
	case p.peekTokenIs(lexer.IDENT) || lexer.IsKeyword(p.peekToken.Type):
		p.nextToken()
		expr.Property = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
	case p.peekTokenIs(lexer.PRIVATE_IDENT):
		// obj.#x is defined to be identical to obj[#x]
		p.nextToken()
		expr.Property = &PrivateName{Token: p.curToken, Name: p.curToken.Literal[1:]}
	default:
		p.peekError(lexer.IDENT)
		return nil
	}
	return expr
}

func (p *Parser) parseComputedMemberExpression(obj Expression) Expression {
	expr := &MemberExpression{Token: p.curToken, Object: obj, Computed: true}
	p.nextToken()
	expr.Property = p.parseExpression(LOWEST)
	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}
	return expr
}

func (p *Parser) parseFunctionLiteral() Expression {
	lit := &FunctionLiteral{Token: p.curToken}

	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		lit.Name = p.curToken.Literal
	}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}
	lit.Parameters = p.parseFunctionParameters()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}
	lit.Body = p.parseBlockStatement().(*BlockStatement)
	return lit
}

func (p *Parser) parseFunctionParameters() []*Identifier {
	var params []*Identifier

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}

	p.nextToken()
	params = append(params, &Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken() // ,
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		params = append(params, &Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return params
}

func (p *Parser) parseObjectLiteral() Expression {
	lit := &ObjectLiteral{Token: p.curToken}

	for !p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		prop := &ObjectProperty{Token: p.curToken}

		switch p.curToken.Type {
		case lexer.SPREAD:
			prop.Spread = true
			p.nextToken()
			prop.Value = p.parseExpression(LOWEST)
		case lexer.PRIVATE_IDENT:
			// Combined declare-and-define sugar: `{ #x: e }` declares #x in
			// the enclosing block, then defines the property keyed by it.
			prop.Key = &PrivateName{Token: p.curToken, Name: p.curToken.Literal[1:]}
			if !p.expectPeek(lexer.COLON) {
				return nil
			}
			p.nextToken()
			prop.Value = p.parseExpression(LOWEST)
		case lexer.LBRACKET:
			prop.Computed = true
			p.nextToken()
			prop.Key = p.parseExpression(LOWEST)
			if !p.expectPeek(lexer.RBRACKET) {
				return nil
			}
			if !p.expectPeek(lexer.COLON) {
				return nil
			}
			p.nextToken()
			prop.Value = p.parseExpression(LOWEST)
		case lexer.IDENT, lexer.STRING:
			if p.curTokenIs(lexer.IDENT) {
				prop.Key = &Identifier{Token: p.curToken, Value: p.curToken.Literal}
			} else {
				prop.Key = &StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
			}
			if !p.expectPeek(lexer.COLON) {
				return nil
			}
			p.nextToken()
			prop.Value = p.parseExpression(LOWEST)
		default:
			p.addError(p.curToken, "unexpected token %s in object literal", p.curToken.Type)
			return nil
		}

		lit.Properties = append(lit.Properties, prop)

		if p.peekTokenIs(lexer.COMMA) {
			p.nextToken()
		} else if !p.peekTokenIs(lexer.RBRACE) {
			p.peekError(lexer.RBRACE)
			return nil
		}
	}

	p.nextToken() // }
	return lit
}
