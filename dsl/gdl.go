// Package dsl provides short constructors for GDL terms and rules, for use in
// tests and built-in games.
//
// Arguments may be given as gdl.Term values or as strings. A string starting
// with '?' is a variable, and any other string is a constant:
//
//	b := dsl.New(pool)
//	b.Rule(b.Rel("adjacent", "?x", "?y"),
//	    b.Rel("cell", "?x"),
//	    b.Rel("cell", "?y"),
//	    b.Distinct("?x", "?y"))
package dsl

import (
	"fmt"
	"strings"

	"github.com/brunokim/gdl-engine/gdl"
)

// Builder creates terms through a pool.
type Builder struct {
	Pool *gdl.Pool
}

// New returns a builder over pool.
func New(pool *gdl.Pool) Builder {
	return Builder{Pool: pool}
}

// Term converts a string or a gdl.Term into a term.
func (b Builder) Term(x interface{}) gdl.Term {
	switch x := x.(type) {
	case gdl.Term:
		return x
	case string:
		if strings.HasPrefix(x, "?") {
			return b.Pool.Variable(x)
		}
		return b.Pool.Constant(x)
	case int:
		return b.Pool.Constant(fmt.Sprint(x))
	default:
		panic(fmt.Sprintf("dsl.Term: unhandled type %T (%v)", x, x))
	}
}

func (b Builder) terms(xs []interface{}) []gdl.Term {
	terms := make([]gdl.Term, len(xs))
	for i, x := range xs {
		terms[i] = b.Term(x)
	}
	return terms
}

func (b Builder) Const(name string) *gdl.Constant {
	return b.Pool.Constant(name)
}

func (b Builder) Consts(names ...string) []*gdl.Constant {
	cs := make([]*gdl.Constant, len(names))
	for i, name := range names {
		cs[i] = b.Pool.Constant(name)
	}
	return cs
}

func (b Builder) Var(name string) *gdl.Variable {
	return b.Pool.Variable(name)
}

func (b Builder) Fn(name string, args ...interface{}) *gdl.Function {
	return b.Pool.Function(name, b.terms(args)...)
}

func (b Builder) Prop(name string) *gdl.Proposition {
	return b.Pool.Proposition(name)
}

func (b Builder) Rel(name string, args ...interface{}) *gdl.Relation {
	return b.Pool.Relation(name, b.terms(args)...)
}

func (b Builder) Not(s gdl.Sentence) *gdl.Not {
	return gdl.NewNot(s)
}

func (b Builder) Distinct(x, y interface{}) *gdl.Distinct {
	return gdl.NewDistinct(b.Term(x), b.Term(y))
}

func (b Builder) Or(literals ...gdl.Literal) *gdl.Or {
	return gdl.NewOr(literals...)
}

func (b Builder) Rule(head gdl.Sentence, body ...gdl.Literal) *gdl.Rule {
	return gdl.NewRule(head, body...)
}

// ----

func Rules(rules ...*gdl.Rule) []*gdl.Rule {
	return rules
}

func Sentences(ss ...gdl.Sentence) []gdl.Sentence {
	return ss
}

// Facts returns a unary relation for every value.
func (b Builder) Facts(name string, values ...interface{}) []gdl.Sentence {
	ss := make([]gdl.Sentence, len(values))
	for i, value := range values {
		ss[i] = b.Rel(name, value)
	}
	return ss
}

// Assignment builds an assignment from alternating variable and constant names.
func (b Builder) Assignment(kvs ...string) gdl.Assignment {
	if len(kvs)%2 == 1 {
		panic("Expected even number of variable-constant entries")
	}
	asn := make(gdl.Assignment)
	for i := 0; i < len(kvs); i += 2 {
		asn[b.Var(kvs[i])] = b.Const(kvs[i+1])
	}
	return asn
}
