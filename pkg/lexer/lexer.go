package lexer

import (
	"fmt"

	"sigil/pkg/errors"
)

// Lexer tokenizes Sigil source code.
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current 1-based line number
	column       int  // current 1-based column of ch

	errors []errors.SigilError
}

// NewLexer creates a lexer for the given source text.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar() // Prime the first character
	return l
}

// Errors returns the lexing errors collected so far.
func (l *Lexer) Errors() []errors.SigilError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL signifies EOF
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) peekCharAt(offset int) byte {
	pos := l.readPosition + offset
	if pos >= len(l.input) {
		return 0
	}
	return l.input[pos]
}

// NextToken scans and returns the next token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column, StartPos: l.position}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				tok = l.makeMultiCharToken(STRICT_EQ, 3)
			} else {
				tok = l.makeMultiCharToken(EQ, 2)
			}
		} else {
			tok = l.makeToken(ASSIGN)
		}
	case '!':
		if l.peekChar() == '=' {
			if l.peekCharAt(1) == '=' {
				tok = l.makeMultiCharToken(STRICT_NOT_EQ, 3)
			} else {
				tok = l.makeMultiCharToken(NOT_EQ, 2)
			}
		} else {
			tok = l.makeToken(BANG)
		}
	case '+':
		tok = l.makeToken(PLUS)
	case '-':
		tok = l.makeToken(MINUS)
	case '*':
		tok = l.makeToken(ASTERISK)
	case '/':
		tok = l.makeToken(SLASH)
	case '<':
		if l.peekChar() == '=' {
			tok = l.makeMultiCharToken(LE, 2)
		} else {
			tok = l.makeToken(LT)
		}
	case '>':
		if l.peekChar() == '=' {
			tok = l.makeMultiCharToken(GE, 2)
		} else {
			tok = l.makeToken(GT)
		}
	case '&':
		if l.peekChar() == '&' {
			tok = l.makeMultiCharToken(LOGICAL_AND, 2)
		} else {
			tok = l.illegalToken()
		}
	case '|':
		if l.peekChar() == '|' {
			tok = l.makeMultiCharToken(LOGICAL_OR, 2)
		} else {
			tok = l.illegalToken()
		}
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(1) == '.' {
			tok = l.makeMultiCharToken(SPREAD, 3)
		} else {
			tok = l.makeToken(DOT)
		}
	case ',':
		tok = l.makeToken(COMMA)
	case ';':
		tok = l.makeToken(SEMICOLON)
	case ':':
		tok = l.makeToken(COLON)
	case '(':
		tok = l.makeToken(LPAREN)
	case ')':
		tok = l.makeToken(RPAREN)
	case '{':
		tok = l.makeToken(LBRACE)
	case '}':
		tok = l.makeToken(RBRACE)
	case '[':
		tok = l.makeToken(LBRACKET)
	case ']':
		tok = l.makeToken(RBRACKET)
	case '"', '\'':
		return l.readString(l.ch)
	case '#':
		return l.readPrivateIdent()
	case 0:
		tok.Type = EOF
		tok.Literal = ""
		tok.EndPos = l.position
		return tok
	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}
		tok = l.illegalToken()
	}

	return tok
}

// makeToken builds a single-character token and advances.
func (l *Lexer) makeToken(t TokenType) Token {
	tok := Token{
		Type:     t,
		Literal:  string(l.ch),
		Line:     l.line,
		Column:   l.column,
		StartPos: l.position,
		EndPos:   l.position + 1,
	}
	l.readChar()
	return tok
}

// makeMultiCharToken builds a token of the given width and advances past it.
func (l *Lexer) makeMultiCharToken(t TokenType, width int) Token {
	start := l.position
	tok := Token{Type: t, Line: l.line, Column: l.column, StartPos: start}
	for i := 0; i < width; i++ {
		l.readChar()
	}
	tok.Literal = l.input[start:l.position]
	tok.EndPos = l.position
	return tok
}

func (l *Lexer) illegalToken() Token {
	tok := Token{
		Type:     ILLEGAL,
		Literal:  string(l.ch),
		Line:     l.line,
		Column:   l.column,
		StartPos: l.position,
		EndPos:   l.position + 1,
	}
	l.addError(tok, "unexpected character %q", l.ch)
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar() // consume '/'
			l.readChar() // consume '*'
			for !(l.ch == '*' && l.peekChar() == '/') && l.ch != 0 {
				l.readChar()
			}
			if l.ch != 0 {
				l.readChar() // consume '*'
				l.readChar() // consume '/'
			}
		default:
			return
		}
	}
}

func (l *Lexer) readIdentifier() Token {
	tok := Token{Line: l.line, Column: l.column, StartPos: l.position}
	start := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok.Literal = l.input[start:l.position]
	tok.EndPos = l.position
	tok.Type = LookupIdent(tok.Literal)
	return tok
}

// readPrivateIdent scans a `#name` token. The literal includes the leading
// hash so error messages and symbol descriptions show the source spelling.
func (l *Lexer) readPrivateIdent() Token {
	tok := Token{Line: l.line, Column: l.column, StartPos: l.position}
	start := l.position
	l.readChar() // consume '#'
	if !isLetter(l.ch) {
		tok.Type = ILLEGAL
		tok.Literal = l.input[start:l.position]
		tok.EndPos = l.position
		l.addError(tok, "expected identifier after '#'")
		return tok
	}
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	tok.Type = PRIVATE_IDENT
	tok.Literal = l.input[start:l.position]
	tok.EndPos = l.position
	return tok
}

func (l *Lexer) readNumber() Token {
	tok := Token{Line: l.line, Column: l.column, StartPos: l.position}
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	tok.Type = NUMBER
	tok.Literal = l.input[start:l.position]
	tok.EndPos = l.position
	return tok
}

func (l *Lexer) readString(quote byte) Token {
	tok := Token{Line: l.line, Column: l.column, StartPos: l.position}
	l.readChar() // consume opening quote
	var out []byte
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			tok.Type = ILLEGAL
			tok.Literal = string(out)
			tok.EndPos = l.position
			l.addError(tok, "unterminated string literal")
			return tok
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, l.ch)
			}
			l.readChar()
			continue
		}
		out = append(out, l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	tok.Type = STRING
	tok.Literal = string(out)
	tok.EndPos = l.position
	return tok
}

func (l *Lexer) addError(tok Token, format string, args ...interface{}) {
	pos := errors.Position{Line: tok.Line, Column: tok.Column, StartPos: tok.StartPos, EndPos: tok.EndPos}
	l.errors = append(l.errors, errors.NewSyntaxError(pos, format, args...))
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// String implements fmt.Stringer for debugging token streams.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Type, t.Literal, t.Line, t.Column)
}
