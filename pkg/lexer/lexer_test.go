package lexer

import "testing"

func TestNextToken(t *testing.T) {
	input := `private #counter;
let obj = { #counter: 0, name: "x" };
obj.#counter === 1;
const copy = { ...obj };
// comment
if (a <= b) { return !true; }`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{PRIVATE, "private"},
		{PRIVATE_IDENT, "#counter"},
		{SEMICOLON, ";"},
		{LET, "let"},
		{IDENT, "obj"},
		{ASSIGN, "="},
		{LBRACE, "{"},
		{PRIVATE_IDENT, "#counter"},
		{COLON, ":"},
		{NUMBER, "0"},
		{COMMA, ","},
		{IDENT, "name"},
		{COLON, ":"},
		{STRING, "x"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},
		{IDENT, "obj"},
		{DOT, "."},
		{PRIVATE_IDENT, "#counter"},
		{STRICT_EQ, "==="},
		{NUMBER, "1"},
		{SEMICOLON, ";"},
		{CONST, "const"},
		{IDENT, "copy"},
		{ASSIGN, "="},
		{LBRACE, "{"},
		{SPREAD, "..."},
		{IDENT, "obj"},
		{RBRACE, "}"},
		{SEMICOLON, ";"},
		{IF, "if"},
		{LPAREN, "("},
		{IDENT, "a"},
		{LE, "<="},
		{IDENT, "b"},
		{RPAREN, ")"},
		{LBRACE, "{"},
		{RETURN, "return"},
		{BANG, "!"},
		{TRUE, "true"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := NewLexer(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong type. expected=%q, got=%q (%s)", i, tt.expectedType, tok.Type, tok)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
	if errs := l.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
}

func TestPrivateIdentRequiresName(t *testing.T) {
	l := NewLexer("# x")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL token for bare '#', got %s", tok)
	}
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexer error for bare '#'")
	}
}

func TestNumberAndStringLiterals(t *testing.T) {
	l := NewLexer(`3.14 'single' "esc\n"`)

	tok := l.NextToken()
	if tok.Type != NUMBER || tok.Literal != "3.14" {
		t.Fatalf("expected NUMBER 3.14, got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != STRING || tok.Literal != "single" {
		t.Fatalf("expected STRING single, got %s", tok)
	}
	tok = l.NextToken()
	if tok.Type != STRING || tok.Literal != "esc\n" {
		t.Fatalf("expected escaped newline in literal, got %q", tok.Literal)
	}
}

func TestUnterminatedString(t *testing.T) {
	l := NewLexer(`"oops`)
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("expected 1 error, got %d", len(l.Errors()))
	}
}

func TestBlockComments(t *testing.T) {
	l := NewLexer("/* skip\nme */ let")
	tok := l.NextToken()
	if tok.Type != LET {
		t.Fatalf("expected LET after block comment, got %s", tok)
	}
	if tok.Line != 2 {
		t.Errorf("expected line 2, got %d", tok.Line)
	}
}
