// Package evaluator is the restricted compile-time evaluator. It folds
// constant expressions, compiles style helper functions into a small
// normalized program, and evaluates those programs against call arguments.
// Anything outside the supported grammar is rejected, never approximated.
package evaluator

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the type of a compile-time value.
type Kind int

const (
	Undefined Kind = iota
	String
	Number
	Bool
	Object
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Object:
		return "object"
	}
	return "undefined"
}

// Value is a compile-time value. Object values only appear as arguments for
// destructured helper parameters.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	Fields map[string]Value
}

func Str(s string) Value { return Value{Kind: String, Str: s} }

func Num(n float64) Value { return Value{Kind: Number, Num: n} }

func Boolean(b bool) Value { return Value{Kind: Bool, Bool: b} }

func Undef() Value { return Value{} }

func Obj(f map[string]Value) Value { return Value{Kind: Object, Fields: f} }

// Text renders v the way a template literal would.
func (v Value) Text() string {
	switch v.Kind {
	case String:
		return v.Str
	case Number:
		return FormatNumber(v.Num)
	case Bool:
		return strconv.FormatBool(v.Bool)
	case Object:
		return "[object Object]"
	}
	return "undefined"
}

// Truthy follows the host language's truthiness rules.
func (v Value) Truthy() bool {
	switch v.Kind {
	case String:
		return v.Str != ""
	case Number:
		return v.Num != 0 && !math.IsNaN(v.Num)
	case Bool:
		return v.Bool
	case Object:
		return true
	}
	return false
}

// Equal is strict equality.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case String:
		return v.Str == o.Str
	case Number:
		return v.Num == o.Num
	case Bool:
		return v.Bool == o.Bool
	case Object:
		return false
	}
	return true
}

// Literal renders v as source code.
func (v Value) Literal() string {
	switch v.Kind {
	case String:
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`).Replace(v.Str) + "'"
	case Object:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.Fields[k].Literal()
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return v.Text()
}

// FormatNumber prints n like the host language's number-to-string.
func FormatNumber(n float64) string {
	if n == 0 {
		return "0"
	}
	if a := math.Abs(n); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
