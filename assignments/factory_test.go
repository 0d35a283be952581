package assignments_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/brunokim/gdl-engine/assignments"
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/errors"
	"github.com/brunokim/gdl-engine/gdl"
	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

func cellModel() *domain.Model {
	return domain.NewModel(
		domain.NewCartesian(gdl.FormOf(rel("cell", "?x")), []domain.Values{values("1", "2", "3")}),
	)
}

func adjacentRule() *gdl.Rule {
	return rule(rel("adjacent", "?x", "?y"), rel("cell", "?x"), rel("cell", "?y"), distinct("?x", "?y"))
}

func TestDMSTFactory_Adjacent(t *testing.T) {
	r := adjacentRule()
	model := cellModel()
	plan, err := assignments.DMSTFactory{Model: model}.Plan(r)
	if err != nil {
		t.Fatal(err)
	}
	got := solutions(r, model, plan.Iterator())
	want := []string{
		"{?x=1, ?y=2}", "{?x=1, ?y=3}",
		"{?x=2, ?y=1}", "{?x=2, ?y=3}",
		"{?x=3, ?y=1}", "{?x=3, ?y=2}",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want, +got)%s", diff)
	}
}

func TestDMSTFactory_ChoosesDependentStrategy(t *testing.T) {
	// succ is a function, so y is cheaper to look up from x than to enumerate.
	var succ []gdl.Sentence
	for i := 0; i < 9; i++ {
		succ = append(succ, rel("succ", i, i+1))
	}
	model := domain.NewModel(domain.NewFull(gdl.FormOf(succ[0]), succ))
	r := rule(rel("next", "?y"), rel("succ", "?x", "?y"))
	plan, err := assignments.DMSTFactory{Model: model}.Plan(r)
	if err != nil {
		t.Fatal(err)
	}
	complexPlan, ok := plan.(*assignments.ComplexPlan)
	if !ok {
		t.Fatalf("got %T, want *assignments.ComplexPlan", plan)
	}
	var numDependent int
	for _, s := range complexPlan.Strategies() {
		if _, ok := s.(*assignments.DependentStrategy); ok {
			numDependent++
		}
	}
	if numDependent != 1 {
		t.Errorf("got %d dependent strategies, want 1", numDependent)
	}
	if got := solutions(r, model, plan.Iterator()); len(got) != 9 {
		t.Errorf("got %d solutions, want 9: %v", len(got), got)
	}
}

func TestFactories_Errors(t *testing.T) {
	model := cellModel()
	factories := map[string]assignments.Factory{
		"dmst":     assignments.DMSTFactory{Model: model},
		"legacy":   assignments.LegacyFactory{Model: model},
		"odometer": assignments.OdometerFactory{Model: model},
	}
	unsafe := []*gdl.Rule{
		rule(rel("p", "?x", "?z"), rel("cell", "?x")),
		rule(rel("p", "?x"), rel("cell", "?x"), not(rel("q", "?y"))),
		rule(rel("p", "?x"), rel("cell", "?x"), distinct("?x", "?y")),
		rule(rel("p", "?x"), rel("cell", "?x"), or(rel("q", "?y"), rel("r", "?x"))),
	}
	for name, factory := range factories {
		for _, r := range unsafe {
			_, err := factory.Plan(r)
			if !errors.Is(err, errors.UnsafeRule) {
				t.Errorf("%s: %v: got err %v, want %v", name, r, err, errors.UnsafeRule)
			}
		}
		plan, err := factory.Plan(rule(rel("p", "?x"), rel("cell", "?x"), rel("missing", "?x")))
		if err != nil {
			t.Errorf("%s: got err %v", name, err)
		} else if _, ok := plan.(assignments.EmptyPlan); !ok {
			t.Errorf("%s: got %T, want EmptyPlan", name, plan)
		}
		plan, err = factory.Plan(rule(rel("p", "a"), rel("cell", "1")))
		if err != nil {
			t.Errorf("%s: got err %v", name, err)
		} else if got := collect(plan.Iterator()); len(got) != 1 {
			t.Errorf("%s: got %v, want a single empty assignment", name, got)
		}
	}
}

// ---- Random rules

type randomGame struct {
	model     *domain.Model
	constants *domain.Constants
	rules     []*gdl.Rule
}

var constNames = []string{"a", "b", "c", "d"}

func randomSentences(rng *rand.Rand, name string, arity int, p float64) []gdl.Sentence {
	var ss []gdl.Sentence
	var rec func(args []interface{})
	rec = func(args []interface{}) {
		if len(args) == arity {
			if rng.Float64() < p {
				ss = append(ss, rel(name, args...))
			}
			return
		}
		for _, c := range constNames {
			rec(append(args[:len(args):len(args)], c))
		}
	}
	rec(nil)
	return ss
}

func newRandomGame(rng *rand.Rand, numRules int) randomGame {
	p := randomSentences(rng, "p", 2, 0.4)
	q := randomSentences(rng, "q", 2, 0.3)
	r := randomSentences(rng, "r", 3, 0.2)
	if len(p) == 0 {
		p = append(p, rel("p", "a", "b"))
	}
	if len(q) == 0 {
		q = append(q, rel("q", "b", "c"))
	}
	if len(r) == 0 {
		r = append(r, rel("r", "a", "a", "a"))
	}
	pForm, qForm, rForm := gdl.FormOf(p[0]), gdl.FormOf(q[0]), gdl.FormOf(r[0])
	sSlot := domain.NewValues(b.Consts(constNames[:1+rng.Intn(len(constNames))]...)...)
	sForm := gdl.FormOf(rel("s", "?x"))
	g := randomGame{
		model: domain.NewModel(
			domain.NewFull(pForm, p),
			domain.NewFull(qForm, q),
			domain.NewFull(rForm, r),
			domain.NewCartesian(sForm, []domain.Values{sSlot}),
		),
		constants: domain.NewConstants(pForm, qForm, rForm),
	}
	g.constants.Add(p...)
	g.constants.Add(q...)
	g.constants.Add(r...)

	varNames := []string{"?x", "?y", "?z", "?w"}
	randomArg := func() interface{} {
		if rng.Intn(6) == 0 {
			return constNames[rng.Intn(len(constNames))]
		}
		return varNames[rng.Intn(len(varNames))]
	}
	for len(g.rules) < numRules {
		var body []gdl.Literal
		for i := 0; i < 1+rng.Intn(3); i++ {
			switch rng.Intn(4) {
			case 0:
				body = append(body, rel("p", randomArg(), randomArg()))
			case 1:
				body = append(body, rel("q", randomArg(), randomArg()))
			case 2:
				body = append(body, rel("r", randomArg(), randomArg(), randomArg()))
			case 3:
				body = append(body, rel("s", randomArg()))
			}
		}
		bound := gdl.NewRule(rel("tmp", "x"), body...).Vars()
		if len(bound) >= 2 && rng.Intn(2) == 0 {
			body = append(body, distinct(bound[0], bound[1]))
		}
		if len(bound) >= 1 && rng.Intn(3) == 0 {
			body = append(body, distinct(bound[len(bound)-1], constNames[rng.Intn(len(constNames))]))
		}
		var headArgs []interface{}
		for _, x := range bound {
			headArgs = append(headArgs, x)
		}
		head := gdl.Sentence(b.Prop("head"))
		if len(headArgs) > 0 {
			head = rel("head", headArgs...)
		}
		g.rules = append(g.rules, rule(head, body...))
	}
	return g
}

func TestFactories_Equivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 30; i++ {
		g := newRandomGame(rng, 10)
		factories := map[string]assignments.Factory{
			"dmst":     assignments.DMSTFactory{Model: g.model},
			"legacy":   assignments.LegacyFactory{Model: g.model, Constants: g.constants},
			"greedy":   assignments.LegacyFactory{Model: g.model, Constants: g.constants, MaxExpansions: 1},
			"odometer": assignments.OdometerFactory{Model: g.model},
		}
		for _, r := range g.rules {
			want := naiveSolutions(r, g.model)
			for name, factory := range factories {
				plan, err := factory.Plan(r)
				if err != nil {
					t.Fatalf("%s: %v: %v", name, r, err)
				}
				got := solutions(r, g.model, plan.Iterator())
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s: %v: (-want, +got)%s", name, r, diff)
				}
			}
		}
	}
}

// checkSkips verifies that every assignment skipped by SkipForward agrees with
// the assignment that triggered the skip on the literal's variables.
func checkSkips(t *testing.T, plan assignments.Plan, literals []gdl.Literal, rng *rand.Rand) {
	t.Helper()
	var all []gdl.Assignment
	for it := plan.Iterator(); it.HasNext(); {
		all = append(all, it.Next())
	}
	type skip struct {
		literal gdl.Literal
		asn     gdl.Assignment
	}
	var visited []gdl.Assignment
	var skips []*skip
	for it := plan.Iterator(); it.HasNext(); {
		asn := it.Next()
		visited = append(visited, asn)
		if rng.Intn(2) == 0 {
			literal := literals[rng.Intn(len(literals))]
			it.SkipForward([]gdl.Literal{literal}, asn)
			skips = append(skips, &skip{literal, asn})
		} else {
			skips = append(skips, nil)
		}
	}
	j := 0
	var last *skip
	for _, asn := range all {
		if j < len(visited) && asn.String() == visited[j].String() {
			last = skips[j]
			j++
			continue
		}
		if last == nil {
			t.Fatalf("%v was skipped without a call to SkipForward", asn)
		}
		for _, x := range gdl.Vars(last.literal) {
			if asn[x] != last.asn[x] {
				t.Fatalf("%v was skipped by %v at %v, but disagrees on %v", asn, last.literal, last.asn, x)
			}
		}
	}
	if j != len(visited) {
		t.Fatalf("visited %d assignments out of order, matched only %d", len(visited), j)
	}
}

func TestSkipForward_Property(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 20; i++ {
		g := newRandomGame(rng, 5)
		for _, r := range g.rules {
			literals := append(append([]gdl.Literal{}, r.Body...), r.Head)
			factories := []assignments.Factory{
				assignments.DMSTFactory{Model: g.model},
				assignments.LegacyFactory{Model: g.model, Constants: g.constants},
				assignments.OdometerFactory{Model: g.model},
			}
			for _, factory := range factories {
				plan, err := factory.Plan(r)
				if err != nil {
					t.Fatal(err)
				}
				checkSkips(t, plan, literals, rng)
			}
		}
	}
}

func TestPlan_ConcurrentIterators(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := newRandomGame(rng, 5)
	for _, r := range g.rules {
		plan, err := assignments.DMSTFactory{Model: g.model}.Plan(r)
		if err != nil {
			t.Fatal(err)
		}
		want := collect(plan.Iterator())
		var eg errgroup.Group
		for i := 0; i < 8; i++ {
			eg.Go(func() error {
				got := collect(plan.Iterator())
				if diff := cmp.Diff(want, got); diff != "" {
					return fmt.Errorf("%v: (-want, +got)%s", r, diff)
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			t.Error(err)
		}
	}
}
