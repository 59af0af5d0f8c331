package resolver

import (
	"strings"
	"testing"

	"sigil/pkg/lexer"
	"sigil/pkg/parser"
)

func resolve(t *testing.T, input string, known map[string]bool) (*Resolution, []string) {
	t.Helper()
	p := parser.NewParser(lexer.NewLexer(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", input, errs)
	}
	res, errs := NewResolver().Resolve(program, known)
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message()
	}
	return res, msgs
}

func TestUndeclaredPrivateNameIsAnError(t *testing.T) {
	_, msgs := resolve(t, "let o = {}; o[#secret];", nil)
	if len(msgs) != 1 || !strings.Contains(msgs[0], "#secret") {
		t.Fatalf("expected undeclared #secret error, got %v", msgs)
	}
}

func TestPrivateNameResolvesLexically(t *testing.T) {
	_, msgs := resolve(t, "{ private #k; let o = {}; o[#k] = 1; }", nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}
}

func TestPrivateNameNotVisibleOutsideBlock(t *testing.T) {
	_, msgs := resolve(t, "{ private #k; } let o = {}; o[#k];", nil)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 error, got %v", msgs)
	}
}

func TestSessionGlobalsAllowPrivateNames(t *testing.T) {
	known := map[string]bool{"#k": true}
	_, msgs := resolve(t, "let o = {}; o[#k] = 1;", known)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}
}

func TestRedeclarationInSameScope(t *testing.T) {
	tests := []string{
		"{ private #x; private #x; }",
		"{ let a = 1; let a = 2; }",
		"{ private #x; let o = { #x: 1 }; }",
	}
	for _, input := range tests {
		_, msgs := resolve(t, input, nil)
		if len(msgs) != 1 || !strings.Contains(msgs[0], "already been declared") {
			t.Errorf("%q: expected redeclaration error, got %v", input, msgs)
		}
	}
}

func TestShadowingInNestedScopeIsFine(t *testing.T) {
	_, msgs := resolve(t, "{ private #x; { private #x; } }", nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}
}

func TestAssignmentToConstant(t *testing.T) {
	tests := []string{
		"{ const c = 1; c = 2; }",
		"const c = 1; c = 2;",
	}
	for _, input := range tests {
		_, msgs := resolve(t, input, nil)
		if len(msgs) != 1 || !strings.Contains(msgs[0], "assignment to constant") {
			t.Errorf("%q: expected const assignment error, got %v", input, msgs)
		}
	}
}

func TestObjectLiteralEntryDeclaresInEnclosingBlock(t *testing.T) {
	// The combined form declares #p, so a later reference in the same
	// block resolves.
	_, msgs := resolve(t, "{ let o = { #p: 1 }; o[#p]; }", nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}
}

func TestSlotIndicesAndHops(t *testing.T) {
	input := "{ let a = 1; { let b = a; } }"
	res, msgs := resolve(t, input, nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}

	var inner *Ref
	for node, ref := range res.Refs {
		if ident, ok := node.(*parser.Identifier); ok && ident.Value == "a" {
			r := ref
			inner = &r
		}
	}
	if inner == nil {
		t.Fatal("no ref recorded for 'a'")
	}
	if inner.Global || inner.Hops != 1 || inner.Index != 0 {
		t.Errorf("expected local ref hops=1 index=0, got %+v", *inner)
	}
}

func TestScopeSizes(t *testing.T) {
	input := "function f(a, b) { let c = a; }"
	res, msgs := resolve(t, input, nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}

	found := false
	for node, size := range res.Scopes {
		if _, ok := node.(*parser.FunctionLiteral); ok {
			found = true
			if size != 2 {
				t.Errorf("expected 2 parameter slots, got %d", size)
			}
		}
	}
	if !found {
		t.Fatal("no scope recorded for the function literal")
	}
}

func TestTopLevelDeclarationsAreGlobal(t *testing.T) {
	res, msgs := resolve(t, "private #g; let x = 1;", nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}
	if res.GlobalKinds["#g"] != KindPrivate {
		t.Errorf("expected #g to be a global private binding, got %v", res.GlobalKinds["#g"])
	}
	if res.GlobalKinds["x"] != KindLet {
		t.Errorf("expected x to be a global let binding, got %v", res.GlobalKinds["x"])
	}
}

func TestFunctionsSeeEnclosingPrivateNames(t *testing.T) {
	input := "{ private #k; function get(o) { return o[#k]; } }"
	_, msgs := resolve(t, input, nil)
	if len(msgs) != 0 {
		t.Fatalf("unexpected errors: %v", msgs)
	}
}
