package data

import (
	"log/slog"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/sxhtml/lang"
	"github.com/ardnew/sxhtml/render"
)

// EnvName is the name under which the process environment is visible to
// expressions, e.g. env.HOME.
const EnvName = "env"

// Binding is a name bound to the result of an expression.
type Binding struct {
	Name   string
	Source string
}

// ParseBinding splits "name=expression" into a Binding.
func ParseBinding(s string) (Binding, error) {
	name, source, ok := strings.Cut(s, "=")
	if !ok {
		return Binding{}, ErrBinding.With(slog.String("binding", s))
	}

	name = strings.TrimSpace(name)
	if !isPlainName(name) {
		return Binding{}, ErrBinding.
			With(slog.String("binding", s), slog.String("name", name))
	}

	return Binding{Name: name, Source: source}, nil
}

// Eval compiles the binding's expression and runs it against the variables
// already bound in c, the process environment as [EnvName] and [Builtins].
// A variable whose name contains '-' is not visible. Other variables hide
// builtins and [EnvName] of the same name.
func (b Binding) Eval(c *render.Context) (render.Value, error) {
	env := exprEnv(c)

	program, err := expr.Compile(b.Source, expr.Env(env))
	if err != nil {
		return render.Value{}, ErrExpression.Wrap(err).
			With(slog.String("name", b.Name), slog.String("source", b.Source))
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return render.Value{}, ErrExpression.Wrap(err).
			With(slog.String("name", b.Name), slog.String("source", b.Source))
	}

	v, err := render.FromAny(result)
	if err != nil {
		return render.Value{}, ErrConvertData.Wrap(err).
			With(slog.String("name", b.Name))
	}

	return v, nil
}

func exprEnv(c *render.Context) map[string]any {
	env := Builtins()
	env[EnvName] = processEnv()

	if c == nil {
		return env
	}

	for _, name := range c.Names() {
		if !isPlainName(name) || strings.Contains(name, "-") {
			continue
		}

		if v, ok := c.Lookup(name); ok {
			env[name] = toAny(v)
		}
	}

	return env
}

func processEnv() map[string]string {
	env := make(map[string]string)

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}

	return env
}

// toAny converts v to plain Go data for expression evaluation.
func toAny(v render.Value) any {
	switch v.Kind() {
	case render.KindList:
		items := v.Items()
		out := make([]any, len(items))

		for i, item := range items {
			out[i] = toAny(item)
		}

		return out

	case render.KindMap:
		out := make(map[string]any, v.Len())

		for _, e := range v.Entries() {
			out[e.Key] = toAny(e.Value)
		}

		return out

	default:
		s, _ := v.Text()

		return s
	}
}

// isPlainName reports whether s is a variable name without path segments.
func isPlainName(s string) bool {
	return s != "" && lang.ScanIdentifier(s) == len(s) && !strings.Contains(s, ".")
}
