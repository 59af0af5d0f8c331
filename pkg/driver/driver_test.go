package driver

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sigil/pkg/vm"
)

func newSession(t *testing.T) *Sigil {
	t.Helper()
	return NewSigil(WithStdout(&bytes.Buffer{}))
}

func run(t *testing.T, s *Sigil, src string) vm.Value {
	t.Helper()
	v, errs := s.RunCode(src)
	require.Empty(t, errs, "source: %q", src)
	return v
}

func runErr(t *testing.T, s *Sigil, src string) string {
	t.Helper()
	_, errs := s.RunCode(src)
	require.NotEmpty(t, errs, "expected errors for %q", src)
	return errs[0].Error()
}

func TestSymbolBuiltins(t *testing.T) {
	s := newSession(t)

	v := run(t, s, `typeof Symbol("x");`)
	assert.Equal(t, "symbol", v.AsString())

	v = run(t, s, `Symbol("a") === Symbol("a");`)
	assert.True(t, v.IsBoolean() && !v.AsBoolean(), "equal descriptions, distinct symbols")

	v = run(t, s, `Symbol.isPrivate(Symbol.private("k"));`)
	assert.True(t, v.AsBoolean())

	v = run(t, s, `Symbol.isPrivate(Symbol("k"));`)
	assert.False(t, v.AsBoolean())

	v = run(t, s, `Symbol.private("k").description;`)
	assert.Equal(t, "k", v.AsString())
}

func TestPrivateKeysNeverEnumerate(t *testing.T) {
	s := newSession(t)
	run(t, s, `
		private #hidden;
		let pub = Symbol("pub");
		let o = { a: 1, [pub]: 2 };
		o[#hidden] = 3;
	`)

	v := run(t, s, `Object.keys(o).length;`)
	assert.Equal(t, 1.0, v.AsNumber())

	v = run(t, s, `Object.getOwnPropertyNames(o).length;`)
	assert.Equal(t, 1.0, v.AsNumber())

	v = run(t, s, `Object.getOwnPropertySymbols(o).length;`)
	assert.Equal(t, 1.0, v.AsNumber(), "only the public symbol is listed")

	v = run(t, s, `Object.getOwnPropertySymbols(o)[0] === pub;`)
	assert.True(t, v.AsBoolean())

	v = run(t, s, `Reflect.ownKeys(o).length;`)
	assert.Equal(t, 2.0, v.AsNumber(), "string key plus public symbol")

	// The property is still fully readable through its key.
	v = run(t, s, `o[#hidden];`)
	assert.Equal(t, 3.0, v.AsNumber())
}

func TestManualSymbolsAreEquivalentToSugar(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		let k = Symbol.private("manual");
		let o = {};
		o[k] = 1;
		Object.getOwnPropertySymbols(o).length === 0 && o[k] === 1;
	`)
	assert.True(t, v.AsBoolean())
}

func TestFreezeLeavesPrivateStateMutable(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		private #state;
		let o = { visible: 1 };
		o[#state] = 1;
		Object.freeze(o);
		o.visible = 99;
		o[#state] = 2;
		o.visible === 1 && o[#state] === 2 && Object.isFrozen(o);
	`)
	assert.True(t, v.AsBoolean())
}

func TestSealAndExtensibility(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		let o = { a: 1 };
		Object.seal(o);
		o.a = 2;
		o.b = 3;
		o.a === 2 && o.b === undefined && Object.isSealed(o) && !Object.isFrozen(o);
	`)
	assert.True(t, v.AsBoolean())

	v = run(t, s, `
		let p = {};
		Object.preventExtensions(p);
		!Object.isExtensible(p);
	`)
	assert.True(t, v.AsBoolean())
}

func TestAssignAndSpreadDropPrivate(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		private #k;
		let src = { a: 1 };
		src[#k] = 2;
		let viaAssign = Object.assign({}, src);
		let viaSpread = { ...src };
		viaAssign.a === 1 && viaAssign[#k] === undefined &&
			viaSpread.a === 1 && viaSpread[#k] === undefined;
	`)
	assert.True(t, v.AsBoolean())
}

func TestProxyTrapBypass(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		private #secret;
		let gets = 0;
		let sets = 0;
		let target = {};
		let p = Proxy(target, {
			get: function(t, key, receiver) { gets = gets + 1; return Reflect.get(t, key); },
			set: function(t, key, value) { sets = sets + 1; Reflect.set(t, key, value); return true; }
		});
		p[#secret] = 10;
		let got = p[#secret];
		p.open = 1;
		let openGot = p.open;
		got === 10 && openGot === 1 && gets === 1 && sets === 1;
	`)
	assert.True(t, v.AsBoolean(), "private access must not fire traps; string access must")
}

func TestProxyOwnKeysIntegrity(t *testing.T) {
	s := newSession(t)
	msg := runErr(t, s, `
		private #leak;
		let p = Proxy({}, {
			ownKeys: function(t) { return ["a", #leak]; }
		});
		Reflect.ownKeys(p);
	`)
	assert.Contains(t, msg, "Integrity")
}

func TestProxyChainedBypass(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		private #deep;
		let hits = 0;
		let base = {};
		let inner = Proxy(base, { get: function(t, k) { hits = hits + 1; return Reflect.get(t, k); } });
		let outer = Proxy(inner, { get: function(t, k) { hits = hits + 1; return Reflect.get(t, k); } });
		outer[#deep] = 4;
		outer[#deep] === 4 && hits === 0;
	`)
	assert.True(t, v.AsBoolean())
}

func TestDefinePropertyAndDescriptors(t *testing.T) {
	s := newSession(t)
	v := run(t, s, `
		private #k;
		let o = {};
		Object.defineProperty(o, #k, { value: 5, writable: true, enumerable: true, configurable: true });
		let d = Object.getOwnPropertyDescriptor(o, #k);
		d.value === 5 && d.writable && Object.keys(o).length === 0;
	`)
	assert.True(t, v.AsBoolean())
}

func TestConsoleLogOutput(t *testing.T) {
	var out bytes.Buffer
	s := NewSigil(WithStdout(&out))
	run(t, s, `
		private #p;
		let o = { a: 1 };
		o[#p] = 2;
		console.log("obj:", o);
	`)
	assert.Equal(t, "obj: { a: 1 }\n", out.String(), "console output must not show private keys")
}

func TestReplSessionContinuity(t *testing.T) {
	s := newSession(t)
	run(t, s, "private #shared;")
	run(t, s, "let box = {}; box[#shared] = 1;")
	v := run(t, s, "box[#shared];")
	assert.Equal(t, 1.0, v.AsNumber())
}

func TestStaticErrorsReportedWithoutEvaluation(t *testing.T) {
	s := newSession(t)

	msg := runErr(t, s, "o[#nope];")
	assert.Contains(t, msg, "#nope")

	msg = runErr(t, s, "let x = ;")
	assert.Contains(t, msg, "Syntax")
}

func TestRunFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/script.sg", []byte("private #k; let o = { a: 1 }; o[#k] = 2; Object.keys(o).length;"), 0o644))

	s := NewSigil(WithStdout(&bytes.Buffer{}), WithFs(fs))
	v, errs := s.RunFile("/script.sg")
	require.Empty(t, errs)
	assert.Equal(t, 1.0, v.AsNumber())

	_, errs = s.RunFile("/missing.sg")
	require.NotEmpty(t, errs)
}

func TestDisplayResult(t *testing.T) {
	s := newSession(t)
	var out bytes.Buffer

	v := run(t, s, "1 + 1;")
	s.DisplayResult(&out, v)
	assert.Equal(t, "2\n", out.String())

	out.Reset()
	v = run(t, s, "let q = 1;")
	s.DisplayResult(&out, v)
	assert.Empty(t, out.String(), "undefined results print nothing")
}
