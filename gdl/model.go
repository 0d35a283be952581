// Package gdl implements the terms, sentences and rules of the Game Description
// Language.
//
// A GDL program is a set of Horn clauses over relational facts, written in
// prefix notation:
//
//	(<= (adjacent ?x ?y)
//	    (cell ?x)
//	    (cell ?y)
//	    (distinct ?x ?y))
//
// Terms are constants, variables (prefixed by '?') and functions, which are
// compound terms. A sentence is either a proposition, like 'terminal', or a
// relation with one or more arguments, like '(cell 1 ?x)'. A rule body is a
// list of literals: sentences, negations of sentences, 'distinct' disequalities
// and disjunctions.
//
// Every term and sentence is created through a Pool, which interns them so that
// two structurally equal values are the same pointer.
package gdl

import (
	"fmt"
	"sort"
	"strings"
)

// ---- Basic types

// Term is a representation of a GDL term.
type Term interface {
	fmt.Stringer
	// IsGround returns whether the term contains no variables.
	IsGround() bool
	vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable
	ident() int
	isTerm()
}

// Literal is an element of a rule body.
type Literal interface {
	fmt.Stringer
	vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable
	isLiteral()
}

// Sentence is a literal that may be true or false in a fact database.
type Sentence interface {
	Literal
	// Name is the sentence's relation name.
	Name() *Constant
	// Args are the sentence's top-level terms. It's empty for propositions.
	Args() []Term
	// IsGround returns whether the sentence contains no variables.
	IsGround() bool
	ident() int
	isSentence()
}

// Constant is an atomic term.
type Constant struct {
	name string
	id   int
}

// Variable is a term that stands for any constant.
type Variable struct {
	name string
	id   int
}

// Function is a compound term, with a name and one or more args.
type Function struct {
	name   *Constant
	args   []Term
	ground bool
	id     int
}

// Proposition is a sentence without arguments.
type Proposition struct {
	name *Constant
	id   int
}

// Relation is a sentence with one or more arguments.
type Relation struct {
	name   *Constant
	args   []Term
	ground bool
	id     int
}

// Not is the negation of a sentence.
type Not struct {
	Body Sentence
}

// Distinct holds when its terms are not identical.
type Distinct struct {
	Arg1, Arg2 Term
}

// Or holds when any of its disjuncts hold.
type Or struct {
	Disjuncts []Literal
}

// Rule is a Horn clause: its head holds when every literal in its body holds.
type Rule struct {
	Head Sentence
	Body []Literal
}

// Assignment maps variables to the constants that replace them.
type Assignment map[*Variable]*Constant

func (*Constant) isTerm()       {}
func (*Variable) isTerm()       {}
func (*Function) isTerm()       {}
func (*Proposition) isLiteral() {}
func (*Relation) isLiteral()    {}
func (*Not) isLiteral()         {}
func (*Distinct) isLiteral()    {}
func (*Or) isLiteral()          {}
func (*Proposition) isSentence() {}
func (*Relation) isSentence()    {}

func (c *Constant) ident() int    { return c.id }
func (x *Variable) ident() int    { return x.id }
func (f *Function) ident() int    { return f.id }
func (p *Proposition) ident() int { return p.id }
func (r *Relation) ident() int    { return r.id }

// ---- Accessors

// Name returns the constant's identifier.
func (c *Constant) Name() string { return c.name }

// Name returns the variable's identifier, including the leading '?'.
func (x *Variable) Name() string { return x.name }

// Name returns the function's name.
func (f *Function) Name() *Constant { return f.name }

// Args returns the function's arguments. The slice must not be modified.
func (f *Function) Args() []Term { return f.args }

func (p *Proposition) Name() *Constant { return p.name }
func (p *Proposition) Args() []Term    { return nil }
func (r *Relation) Name() *Constant    { return r.name }
func (r *Relation) Args() []Term       { return r.args }

// Less orders constants by name.
func (c *Constant) Less(other *Constant) bool { return c.name < other.name }

// ---- Literal constructors

// NewNot returns the negation of a sentence.
func NewNot(body Sentence) *Not {
	return &Not{Body: body}
}

// NewDistinct returns a disequality between two terms.
func NewDistinct(arg1, arg2 Term) *Distinct {
	return &Distinct{Arg1: arg1, Arg2: arg2}
}

// NewOr returns a disjunction of literals.
func NewOr(disjuncts ...Literal) *Or {
	return &Or{Disjuncts: disjuncts}
}

// NewRule returns a rule with the provided head and body.
func NewRule(head Sentence, body ...Literal) *Rule {
	return &Rule{Head: head, Body: body}
}

// PositiveConjuncts returns the sentences that appear directly in the rule's body.
func (r *Rule) PositiveConjuncts() []Sentence {
	var sentences []Sentence
	for _, literal := range r.Body {
		if s, ok := literal.(Sentence); ok {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// ---- IsGround()

func (c *Constant) IsGround() bool    { return true }
func (x *Variable) IsGround() bool    { return false }
func (f *Function) IsGround() bool    { return f.ground }
func (p *Proposition) IsGround() bool { return true }
func (r *Relation) IsGround() bool    { return r.ground }

// ---- vars()

// Vars returns all variables in a literal, in order of first appearance.
func Vars(literal Literal) []*Variable {
	return literal.vars(make(map[*Variable]struct{}), nil)
}

// TermVars returns all variables in a term, in order of first appearance.
func TermVars(term Term) []*Variable {
	return term.vars(make(map[*Variable]struct{}), nil)
}

// Vars returns all variables in the rule, in order of first appearance, starting
// from the head.
func (r *Rule) Vars() []*Variable {
	seen := make(map[*Variable]struct{})
	xs := r.Head.vars(seen, nil)
	for _, literal := range r.Body {
		xs = literal.vars(seen, xs)
	}
	return xs
}

func (c *Constant) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable    { return xs }
func (p *Proposition) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable { return xs }

func (x *Variable) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	if _, ok := seen[x]; ok {
		return xs
	}
	seen[x] = struct{}{}
	return append(xs, x)
}

func termsVars(args []Term, seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	for _, arg := range args {
		xs = arg.vars(seen, xs)
	}
	return xs
}

func (f *Function) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	if f.ground {
		return xs
	}
	return termsVars(f.args, seen, xs)
}

func (r *Relation) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	if r.ground {
		return xs
	}
	return termsVars(r.args, seen, xs)
}

func (n *Not) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	return n.Body.vars(seen, xs)
}

func (d *Distinct) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	xs = d.Arg1.vars(seen, xs)
	return d.Arg2.vars(seen, xs)
}

func (o *Or) vars(seen map[*Variable]struct{}, xs []*Variable) []*Variable {
	for _, literal := range o.Disjuncts {
		xs = literal.vars(seen, xs)
	}
	return xs
}

// ---- String()

func (c *Constant) String() string    { return c.name }
func (x *Variable) String() string    { return x.name }
func (p *Proposition) String() string { return p.name.name }

func compoundString(name *Constant, args []Term) string {
	parts := make([]string, len(args)+1)
	parts[0] = name.name
	for i, arg := range args {
		parts[i+1] = arg.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

func (f *Function) String() string { return compoundString(f.name, f.args) }
func (r *Relation) String() string { return compoundString(r.name, r.args) }

func (n *Not) String() string {
	return fmt.Sprintf("(not %v)", n.Body)
}

func (d *Distinct) String() string {
	return fmt.Sprintf("(distinct %v %v)", d.Arg1, d.Arg2)
}

func (o *Or) String() string {
	parts := make([]string, len(o.Disjuncts))
	for i, literal := range o.Disjuncts {
		parts[i] = literal.String()
	}
	return fmt.Sprintf("(or %s)", strings.Join(parts, " "))
}

func (r *Rule) String() string {
	if len(r.Body) == 0 {
		return r.Head.String()
	}
	body := make([]string, len(r.Body))
	for i, literal := range r.Body {
		body[i] = literal.String()
	}
	return fmt.Sprintf("(<= %v\n    %s)", r.Head, strings.Join(body, "\n    "))
}

func (a Assignment) String() string {
	xs := make([]*Variable, 0, len(a))
	for x := range a {
		xs = append(xs, x)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i].name < xs[j].name })
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%v=%v", x, a[x])
	}
	return fmt.Sprintf("{%s}", strings.Join(parts, ", "))
}
