package gdl

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Pool interns terms and sentences, so that structurally equal values are
// represented by the same pointer and may be compared with ==.
//
// A pool is usually owned by the phase that builds the game's domain model,
// and passed by reference to everything that needs to create new sentences.
// It's safe for concurrent use.
type Pool struct {
	mu       sync.Mutex
	nextID   int
	interned map[string]interface{}
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{interned: make(map[string]interface{})}
}

func (p *Pool) lookup(key string, create func(id int) interface{}) interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.interned[key]; ok {
		return v
	}
	p.nextID++
	v := create(p.nextID)
	p.interned[key] = v
	return v
}

func compoundKey(kind byte, name *Constant, args []Term) string {
	var b strings.Builder
	b.WriteByte(kind)
	b.WriteString(strconv.Itoa(name.id))
	for _, arg := range args {
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(arg.ident()))
	}
	return b.String()
}

func allGround(args []Term) bool {
	for _, arg := range args {
		if !arg.IsGround() {
			return false
		}
	}
	return true
}

// Constant returns the constant with the given name.
func (p *Pool) Constant(name string) *Constant {
	v := p.lookup("c"+name, func(id int) interface{} {
		return &Constant{name: name, id: id}
	})
	return v.(*Constant)
}

// Variable returns the variable with the given name. A '?' is prepended to the
// name if absent.
func (p *Pool) Variable(name string) *Variable {
	if !strings.HasPrefix(name, "?") {
		name = "?" + name
	}
	v := p.lookup("v"+name, func(id int) interface{} {
		return &Variable{name: name, id: id}
	})
	return v.(*Variable)
}

// Function returns the function term with the given name and args.
//
// It panics if there are no args.
func (p *Pool) Function(name string, args ...Term) *Function {
	if len(args) == 0 {
		panic(fmt.Sprintf("gdl.Pool.Function: %q has no args", name))
	}
	c := p.Constant(name)
	tmp := make([]Term, len(args))
	copy(tmp, args)
	v := p.lookup(compoundKey('f', c, tmp), func(id int) interface{} {
		return &Function{name: c, args: tmp, ground: allGround(tmp), id: id}
	})
	return v.(*Function)
}

// Proposition returns the proposition with the given name.
func (p *Pool) Proposition(name string) *Proposition {
	c := p.Constant(name)
	v := p.lookup(compoundKey('p', c, nil), func(id int) interface{} {
		return &Proposition{name: c, id: id}
	})
	return v.(*Proposition)
}

// Relation returns the relation with the given name and args.
//
// It panics if there are no args.
func (p *Pool) Relation(name string, args ...Term) *Relation {
	if len(args) == 0 {
		panic(fmt.Sprintf("gdl.Pool.Relation: %q has no args", name))
	}
	c := p.Constant(name)
	tmp := make([]Term, len(args))
	copy(tmp, args)
	v := p.lookup(compoundKey('r', c, tmp), func(id int) interface{} {
		return &Relation{name: c, args: tmp, ground: allGround(tmp), id: id}
	})
	return v.(*Relation)
}

// Sentence returns a proposition if there are no args, or a relation otherwise.
func (p *Pool) Sentence(name string, args ...Term) Sentence {
	if len(args) == 0 {
		return p.Proposition(name)
	}
	return p.Relation(name, args...)
}

// ---- Substitution

// SubstituteTerm replaces the variables in term by their assigned constants.
// Unassigned variables are left in place.
func (p *Pool) SubstituteTerm(term Term, asn Assignment) Term {
	switch t := term.(type) {
	case *Constant:
		return t
	case *Variable:
		if c, ok := asn[t]; ok {
			return c
		}
		return t
	case *Function:
		if t.ground {
			return t
		}
		return p.Function(t.name.name, p.substituteArgs(t.args, asn)...)
	default:
		panic(fmt.Sprintf("gdl.Pool.SubstituteTerm: unhandled type %T (%v)", term, term))
	}
}

func (p *Pool) substituteArgs(args []Term, asn Assignment) []Term {
	result := make([]Term, len(args))
	for i, arg := range args {
		result[i] = p.SubstituteTerm(arg, asn)
	}
	return result
}

// Substitute replaces the variables in a sentence by their assigned constants.
func (p *Pool) Substitute(s Sentence, asn Assignment) Sentence {
	switch s := s.(type) {
	case *Proposition:
		return s
	case *Relation:
		if s.ground {
			return s
		}
		return p.Relation(s.name.name, p.substituteArgs(s.args, asn)...)
	default:
		panic(fmt.Sprintf("gdl.Pool.Substitute: unhandled type %T (%v)", s, s))
	}
}

// SubstituteLiteral replaces the variables in a literal by their assigned constants.
func (p *Pool) SubstituteLiteral(literal Literal, asn Assignment) Literal {
	switch l := literal.(type) {
	case Sentence:
		return p.Substitute(l, asn)
	case *Not:
		return NewNot(p.Substitute(l.Body, asn))
	case *Distinct:
		return NewDistinct(p.SubstituteTerm(l.Arg1, asn), p.SubstituteTerm(l.Arg2, asn))
	case *Or:
		disjuncts := make([]Literal, len(l.Disjuncts))
		for i, d := range l.Disjuncts {
			disjuncts[i] = p.SubstituteLiteral(d, asn)
		}
		return NewOr(disjuncts...)
	default:
		panic(fmt.Sprintf("gdl.Pool.SubstituteLiteral: unhandled type %T (%v)", literal, literal))
	}
}
