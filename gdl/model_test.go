package gdl_test

import (
	"fmt"
	"testing"

	"github.com/brunokim/gdl-engine/gdl"
	"github.com/brunokim/gdl-engine/test_helpers"
	"github.com/google/go-cmp/cmp"
)

func TestInterning(t *testing.T) {
	tests := []struct {
		x, y interface{}
	}{
		{const_("a"), pool.Constant("a")},
		{var_("x"), var_("?x")},
		{fn("f", "a", "?x"), pool.Function("f", const_("a"), var_("x"))},
		{rel("cell", "1", fn("mark", "x")), rel("cell", 1, fn("mark", "x"))},
		{prop("terminal"), pool.Sentence("terminal")},
		{rel("true", "a"), pool.Sentence("true", const_("a"))},
	}
	for _, test := range tests {
		if test.x != test.y {
			t.Errorf("%v (%p) != %v (%p)", test.x, test.x, test.y, test.y)
		}
	}
	if rel("f", "a") == rel("f", "b") {
		t.Errorf("(f a) == (f b)")
	}
	if fn("f", "a") == interface{}(rel("f", "a")) {
		t.Errorf("function (f a) == relation (f a)")
	}
}

func TestString(t *testing.T) {
	tests := []struct {
		x    fmt.Stringer
		want string
	}{
		{const_("a"), "a"},
		{var_("x"), "?x"},
		{fn("f", "?x", fn("g", "a")), "(f ?x (g a))"},
		{prop("terminal"), "terminal"},
		{rel("cell", 1, 2, "?p"), "(cell 1 2 ?p)"},
		{not(rel("true", "?x")), "(not (true ?x))"},
		{distinct("?x", "a"), "(distinct ?x a)"},
		{or(rel("p", "?x"), not(rel("q", "?x"))), "(or (p ?x) (not (q ?x)))"},
		{rule(prop("terminal")), "terminal"},
		{rule(rel("p", "?x"), rel("q", "?x")), "(<= (p ?x)\n    (q ?x))"},
		{asn("?y", "b", "?x", "a"), "{?x=a, ?y=b}"},
	}
	for _, test := range tests {
		if got := test.x.String(); got != test.want {
			t.Errorf("%#v.String() = %q, want %q", test.x, got, test.want)
		}
	}
}

func TestRuleString(t *testing.T) {
	r := rule(rel("adjacent", "?x", "?y"),
		rel("cell", "?x"),
		rel("cell", "?y"),
		distinct("?x", "?y"))
	want := test_helpers.Dedent(`
        (<= (adjacent ?x ?y)
            (cell ?x)
            (cell ?y)
            (distinct ?x ?y))`)
	if diff := cmp.Diff(want, r.String()); diff != "" {
		t.Errorf("(-want, +got)%s", diff)
	}
}

func TestIsGround(t *testing.T) {
	tests := []struct {
		s    gdl.Sentence
		want bool
	}{
		{prop("terminal"), true},
		{rel("cell", 1, 2), true},
		{rel("cell", 1, "?x"), false},
		{rel("cell", fn("pos", 1, 2), "b"), true},
		{rel("cell", fn("pos", 1, "?y"), "b"), false},
	}
	for _, test := range tests {
		if got := test.s.IsGround(); got != test.want {
			t.Errorf("%v.IsGround() = %t, want %t", test.s, got, test.want)
		}
	}
}

func TestVars(t *testing.T) {
	x, y, z := var_("x"), var_("y"), var_("z")
	tests := []struct {
		literal gdl.Literal
		want    []*gdl.Variable
	}{
		{prop("terminal"), nil},
		{rel("cell", "?x", "?y", "?x"), []*gdl.Variable{x, y}},
		{rel("cell", fn("pos", "?y", "?x"), "?z"), []*gdl.Variable{y, x, z}},
		{not(rel("p", "?z", "?x")), []*gdl.Variable{z, x}},
		{distinct("?y", "a"), []*gdl.Variable{y}},
		{or(rel("p", "?x"), distinct("?z", "?x")), []*gdl.Variable{x, z}},
	}
	for _, test := range tests {
		got := gdl.Vars(test.literal)
		if diff := cmp.Diff(test.want, got, test_helpers.Interned); diff != "" {
			t.Errorf("%v: (-want, +got)%s", test.literal, diff)
		}
	}
}

func TestRuleVars(t *testing.T) {
	r := rule(rel("next", "?z"), rel("p", "?y", "?x"), distinct("?z", "?w"), rel("q", "?z", "?w"))
	want := []*gdl.Variable{var_("z"), var_("y"), var_("x"), var_("w")}
	if diff := cmp.Diff(want, r.Vars(), test_helpers.Interned); diff != "" {
		t.Errorf("(-want, +got)%s", diff)
	}
	conjuncts := r.PositiveConjuncts()
	if diff := cmp.Diff([]gdl.Sentence{rel("p", "?y", "?x"), rel("q", "?z", "?w")}, conjuncts, test_helpers.Interned); diff != "" {
		t.Errorf("PositiveConjuncts: (-want, +got)%s", diff)
	}
}

func TestFormOf(t *testing.T) {
	tests := []struct {
		s    gdl.Sentence
		want gdl.Form
	}{
		{prop("terminal"), gdl.Form{Name: "terminal", Shape: "terminal"}},
		{rel("cell", 1, "?x", "b"), gdl.Form{Name: "cell", Arity: 3, Slots: 3, Shape: "(cell _ _ _)"}},
		{rel("cell", fn("pos", 1, "?x"), "b"), gdl.Form{Name: "cell", Arity: 2, Slots: 3, Shape: "(cell (pos _ _) _)"}},
	}
	for _, test := range tests {
		got := gdl.FormOf(test.s)
		if diff := cmp.Diff(test.want, got, test_helpers.Interned); diff != "" {
			t.Errorf("%v: (-want, +got)%s", test.s, diff)
		}
	}
	if gdl.FormOf(rel("cell", 1, 2)) != gdl.FormOf(rel("cell", "?x", "?y")) {
		t.Errorf("forms of (cell 1 2) and (cell ?x ?y) differ")
	}
}

func TestGroundTuple(t *testing.T) {
	got := gdl.GroundTuple(rel("legal", "white", fn("mark", 1, 2)))
	want := b.Consts("white", "1", "2")
	if diff := cmp.Diff(want, got, test_helpers.Interned); diff != "" {
		t.Errorf("(-want, +got)%s", diff)
	}
}

func TestSubstitute(t *testing.T) {
	s := rel("legal", "?p", fn("mark", "?x", "?y"))
	got := pool.Substitute(s, asn("?p", "white", "?x", "1"))
	want := rel("legal", "white", fn("mark", "1", "?y"))
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	literal := pool.SubstituteLiteral(or(distinct("?x", "?y"), not(rel("p", "?x"))), asn("?x", "a", "?y", "b"))
	if got, want := literal.String(), "(or (distinct a b) (not (p a)))"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		pattern, ground gdl.Sentence
		want            gdl.Assignment
		ok              bool
	}{
		{rel("cell", "?x", "?y"), rel("cell", 1, 2), asn("?x", "1", "?y", "2"), true},
		{rel("cell", "?x", "?x"), rel("cell", 1, 2), nil, false},
		{rel("cell", "?x", "?x"), rel("cell", 1, 1), asn("?x", "1"), true},
		{rel("cell", 1, "?y"), rel("cell", 2, 2), nil, false},
		{rel("cell", fn("pos", "?x"), "?y"), rel("cell", fn("pos", 1), "b"), asn("?x", "1", "?y", "b"), true},
		{rel("cell", "?x", "?y"), rel("cell", fn("pos", 1), "b"), nil, false},
		{rel("cell", "?x"), rel("row", 1), nil, false},
		{prop("terminal"), prop("terminal"), gdl.Assignment{}, true},
	}
	for _, test := range tests {
		got, ok := gdl.Match(test.pattern, test.ground)
		if ok != test.ok {
			t.Errorf("Match(%v, %v): ok = %t, want %t", test.pattern, test.ground, ok, test.ok)
			continue
		}
		if diff := cmp.Diff(test.want, got, test_helpers.Interned); diff != "" {
			t.Errorf("Match(%v, %v): (-want, +got)%s", test.pattern, test.ground, diff)
		}
	}
}
