package gdl_test

import (
	"fmt"

	. "github.com/brunokim/gdl-engine/gdl"
)

func ExampleFormOf() {
	p := NewPool()
	cell := p.Relation("cell", p.Function("pos", p.Constant("1"), p.Variable("x")), p.Constant("b"))
	fmt.Println(cell)
	fmt.Println(FormOf(cell))
	fmt.Println(Tuple(cell))
	// Output: (cell (pos 1 ?x) b)
	// (cell (pos _ _) _)
	// [1 ?x b]
}

func ExampleRule_String() {
	p := NewPool()
	x, y := p.Variable("x"), p.Variable("y")
	r := NewRule(p.Relation("adjacent", x, y),
		p.Relation("cell", x),
		p.Relation("cell", y),
		NewDistinct(x, y))
	fmt.Println(r)
	// Output: (<= (adjacent ?x ?y)
	//     (cell ?x)
	//     (cell ?y)
	//     (distinct ?x ?y))
}
