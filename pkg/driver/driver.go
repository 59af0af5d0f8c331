// Package driver wires the pipeline together: lex, parse, resolve, evaluate.
// A Sigil session keeps its interpreter (and with it all globals, including
// private symbol bindings) alive across RunCode calls, which is what lets the
// REPL reference `#names` declared on earlier lines.
package driver

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"sigil/pkg/builtins"
	"sigil/pkg/errors"
	"sigil/pkg/interp"
	"sigil/pkg/lexer"
	"sigil/pkg/parser"
	"sigil/pkg/resolver"
	"sigil/pkg/vm"
)

// Sigil is an evaluation session.
type Sigil struct {
	interp *interp.Interpreter
	fs     afero.Fs
	log    *logrus.Logger
	stdout io.Writer
}

// Option configures a session before the builtins install.
type Option func(*Sigil)

// WithStdout redirects console output.
func WithStdout(w io.Writer) Option {
	return func(s *Sigil) { s.stdout = w }
}

// WithFs substitutes the filesystem used by RunFile.
func WithFs(fs afero.Fs) Option {
	return func(s *Sigil) { s.fs = fs }
}

// WithLogLevel sets the session log level by name; unknown names keep the
// default.
func WithLogLevel(level string) Option {
	return func(s *Sigil) {
		if lvl, err := logrus.ParseLevel(level); err == nil {
			s.log.SetLevel(lvl)
		}
	}
}

// NewSigil creates a session with the standard builtins installed.
func NewSigil(opts ...Option) *Sigil {
	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	s := &Sigil{
		fs:     afero.NewOsFs(),
		log:    log,
		stdout: os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.interp = interp.New(log)

	ctx := &builtins.RuntimeContext{
		DefineGlobal: s.interp.DefineGlobal,
		Stdout:       s.stdout,
		Log:          log,
	}
	if err := builtins.InstallAll(ctx, builtins.StandardInitializers()); err != nil {
		log.WithError(err).Fatal("builtin installation failed")
	}
	return s
}

// Logger exposes the session logger.
func (s *Sigil) Logger() *logrus.Logger { return s.log }

// RunCode evaluates src in the session. It returns the value of the last
// expression statement and any errors; a non-empty error list means nothing
// was evaluated (static errors) or evaluation stopped (runtime errors).
func (s *Sigil) RunCode(src string) (vm.Value, []errors.SigilError) {
	l := lexer.NewLexer(src)
	p := parser.NewParser(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return vm.Undefined, errs
	}

	res, errs := resolver.NewResolver().Resolve(program, s.interp.GlobalNames())
	if len(errs) > 0 {
		return vm.Undefined, errs
	}

	s.log.WithField("statements", len(program.Statements)).Trace("evaluating program")
	value, err := s.interp.Run(program, res)
	if err != nil {
		if se, ok := err.(errors.SigilError); ok {
			return vm.Undefined, []errors.SigilError{se}
		}
		return vm.Undefined, []errors.SigilError{errors.NewRuntimeError("%s", err.Error())}
	}
	return value, nil
}

// RunFile evaluates the script at path.
func (s *Sigil) RunFile(path string) (vm.Value, []errors.SigilError) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return vm.Undefined, []errors.SigilError{errors.NewRuntimeError("cannot read %s: %s", path, err)}
	}
	return s.RunCode(string(data))
}

// DisplayResult prints a REPL result value to w. Undefined results print
// nothing, matching script statement semantics.
func (s *Sigil) DisplayResult(w io.Writer, value vm.Value) {
	if value.IsUndefined() {
		return
	}
	io.WriteString(w, value.Inspect()+"\n")
}
