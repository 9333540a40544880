// Package query evaluates expr-lang expressions against normalized API responses.
//
// When the response is an object its snake_case keys are top-level
// variables; the whole response is also available as "result":
//
//	video_title
//	len(items)
//	filter(content, .offset > 60000)
//	map(result.content, .text)
package query

import (
	"maps"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultCacheSize is the number of compiled queries a Compiler keeps
const DefaultCacheSize = 32

// Query is a compiled expression
type Query struct {
	expression string
	program    *vm.Program
}

// Option configures a Compiler
type Option func(*Compiler)

// WithCache sets the compiled query cache size. Zero disables caching.
func WithCache(size int) Option {
	return func(c *Compiler) {
		if size > 0 {
			c.cache = newLRUCache[*Query](size)
		} else {
			c.cache = nil
		}
	}
}

// WithFunctions adds helper functions to the evaluation environment
func WithFunctions(funcs map[string]any) Option {
	return func(c *Compiler) {
		maps.Copy(c.helpers, funcs)
	}
}

// Compiler compiles and caches query expressions
type Compiler struct {
	helpers map[string]any
	cache   *lruCache[*Query]
}

// NewCompiler creates a new expr-based query compiler
func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{
		helpers: helperFunctions(),
		cache:   newLRUCache[*Query](DefaultCacheSize),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Compile parses an expression
func (c *Compiler) Compile(expression string) (*Query, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	q := &Query{
		expression: expression,
		program:    program,
	}

	if c.cache != nil {
		c.cache.Put(expression, q)
	}

	return q, nil
}

// Evaluate compiles expression and runs it against result
func (c *Compiler) Evaluate(expression string, result any) (any, error) {
	q, err := c.Compile(expression)
	if err != nil {
		return nil, err
	}
	return q.run(result, c.helpers)
}

// Run evaluates the query against a normalized response using the default helpers
func (q *Query) Run(result any) (any, error) {
	return q.run(result, helperFunctions())
}

func (q *Query) run(result any, helpers map[string]any) (any, error) {
	env := make(map[string]any, len(helpers)+8)
	maps.Copy(env, helpers)
	if m, ok := result.(map[string]any); ok {
		maps.Copy(env, m)
	}
	env["result"] = result

	out, err := expr.Run(q.program, env)
	if err != nil {
		return nil, &EvaluationError{
			Expression: q.expression,
			Err:        err,
		}
	}
	return out, nil
}

// String returns the original expression
func (q *Query) String() string {
	return q.expression
}

// helperFunctions returns functions available to every query.
// Names avoid clashing with expr builtins.
func helperFunctions() map[string]any {
	return map[string]any{
		"icontains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"hasKey": func(m map[string]any, key string) bool {
			_, ok := m[key]
			return ok
		},
		"text": func(chunks []any) string {
			parts := make([]string, 0, len(chunks))
			for _, chunk := range chunks {
				if m, ok := chunk.(map[string]any); ok {
					if s, ok := m["text"].(string); ok {
						parts = append(parts, s)
					}
				}
			}
			return strings.Join(parts, " ")
		},
	}
}
