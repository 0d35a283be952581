package gdl

import (
	"fmt"
	"strings"
)

// Form is the schema shared by a family of sentences.
//
// Sentences are flattened into tuples of constants and variables, one per
// leaf of their term tree. Shape records where function terms appear, so that
// '(cell 1 1 b)' and '(cell (pos 1 1) b)' have different forms.
type Form struct {
	Name string
	// Arity is the number of top-level args.
	Arity int
	// Slots is the number of leaves, that is, the length of the sentence's tuple.
	Slots int
	// Shape is the nesting of function terms, with '_' for leaves.
	Shape string
}

func (f Form) String() string {
	if f.Arity == f.Slots {
		return fmt.Sprintf("%s/%d", f.Name, f.Arity)
	}
	return f.Shape
}

// FormOf returns the form of a sentence.
func FormOf(s Sentence) Form {
	var b strings.Builder
	slots := writeShape(&b, s.Name(), s.Args())
	return Form{
		Name:  s.Name().name,
		Arity: len(s.Args()),
		Slots: slots,
		Shape: b.String(),
	}
}

func writeShape(b *strings.Builder, name *Constant, args []Term) int {
	if len(args) == 0 {
		b.WriteString(name.name)
		return 0
	}
	var slots int
	b.WriteString("(")
	b.WriteString(name.name)
	for _, arg := range args {
		b.WriteString(" ")
		if f, ok := arg.(*Function); ok {
			slots += writeShape(b, f.name, f.args)
		} else {
			b.WriteString("_")
			slots++
		}
	}
	b.WriteString(")")
	return slots
}

// Tuple returns the leaves of a sentence's terms, in depth-first order.
// Every element is either a *Constant or a *Variable.
func Tuple(s Sentence) []Term {
	return flatten(s.Args(), nil)
}

func flatten(args []Term, tuple []Term) []Term {
	for _, arg := range args {
		switch arg := arg.(type) {
		case *Function:
			tuple = flatten(arg.args, tuple)
		default:
			tuple = append(tuple, arg)
		}
	}
	return tuple
}

// GroundTuple returns the tuple of a ground sentence.
//
// It panics if the sentence has variables.
func GroundTuple(s Sentence) []*Constant {
	tuple := Tuple(s)
	result := make([]*Constant, len(tuple))
	for i, term := range tuple {
		c, ok := term.(*Constant)
		if !ok {
			panic(fmt.Sprintf("gdl.GroundTuple: %v is not ground", s))
		}
		result[i] = c
	}
	return result
}

// Match returns the assignment that makes pattern equal to a ground sentence.
// Variables only bind to constants, and repeated variables must bind to the
// same constant.
func Match(pattern, ground Sentence) (Assignment, bool) {
	if pattern.Name() != ground.Name() || len(pattern.Args()) != len(ground.Args()) {
		return nil, false
	}
	asn := make(Assignment)
	if !matchArgs(pattern.Args(), ground.Args(), asn) {
		return nil, false
	}
	return asn, true
}

func matchArgs(patterns, grounds []Term, asn Assignment) bool {
	for i, pattern := range patterns {
		if !matchTerm(pattern, grounds[i], asn) {
			return false
		}
	}
	return true
}

func matchTerm(pattern, ground Term, asn Assignment) bool {
	switch p := pattern.(type) {
	case *Constant:
		return p == ground
	case *Variable:
		c, ok := ground.(*Constant)
		if !ok {
			return false
		}
		if prev, ok := asn[p]; ok {
			return prev == c
		}
		asn[p] = c
		return true
	case *Function:
		f, ok := ground.(*Function)
		if !ok || f.name != p.name || len(f.args) != len(p.args) {
			return false
		}
		return matchArgs(p.args, f.args, asn)
	default:
		panic(fmt.Sprintf("gdl.Match: unhandled type %T (%v)", pattern, pattern))
	}
}
