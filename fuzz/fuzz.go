// Package fuzz holds a go-fuzz target that checks DMST plans against naive
// odometer plans.
package fuzz

import (
	"context"
	"fmt"

	"github.com/brunokim/gdl-engine/assignments"
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/dsl"
	"github.com/brunokim/gdl-engine/gdl"
	"github.com/brunokim/gdl-engine/reasoner"
)

const numConstants = 4

func templates(b dsl.Builder) []*gdl.Rule {
	return dsl.Rules(
		b.Rule(b.Rel("r", "?x", "?z"),
			b.Rel("p", "?x", "?y"),
			b.Rel("q", "?y", "?z")),
		b.Rule(b.Rel("r", "?x", "?z"),
			b.Rel("p", "?x", "?y"),
			b.Rel("q", "?y", "?z"),
			b.Distinct("?x", "?z")),
		b.Rule(b.Rel("r", "?x", "?y"),
			b.Rel("p", "?x", "?y"),
			b.Not(b.Rel("q", "?y", "?x"))),
		b.Rule(b.Rel("r", "?x", "?x"),
			b.Rel("p", "?x", "?y"),
			b.Rel("p", "?y", "?x"),
			b.Rel("q", "?y", 0)),
		b.Rule(b.Rel("r", "?x", "?w"),
			b.Rel("p", "?x", "?y"),
			b.Rel("q", "?y", "?z"),
			b.Rel("p", "?z", "?w"),
			b.Or(b.Distinct("?x", "?w"), b.Rel("q", "?x", "?x"))),
	)
}

// Fuzz decodes a rule choice and a list of 'p' and 'q' facts from data, and
// panics if evaluating the rule with a DMST plan differs from an odometer plan.
func Fuzz(data []byte) int {
	if len(data) < 1 {
		return 0
	}
	pool := gdl.NewPool()
	b := dsl.New(pool)
	rules := templates(b)
	rule := rules[int(data[0])%len(rules)]

	var facts []gdl.Sentence
	for _, x := range data[1:] {
		name := "p"
		if x&0x80 != 0 {
			name = "q"
		}
		arg1, arg2 := int(x)%numConstants, int(x>>2)%numConstants
		facts = append(facts, b.Rel(name, arg1, arg2))
	}
	model := domain.Infer([]*gdl.Rule{rule}, facts)
	known := reasoner.NewSentenceSet(facts...)

	want := results(pool, rule, assignments.OdometerFactory{Model: model}, known)
	got := results(pool, rule, assignments.DMSTFactory{Model: model}, known)
	if want.Len() != got.Len() || want.Difference(got).Len() != 0 {
		panic(fmt.Sprintf("rule %v over %v: odometer derived %v, dmst derived %v", rule, facts, want.All(), got.All()))
	}
	if got.Len() == 0 {
		return 0
	}
	return 1
}

func results(pool *gdl.Pool, rule *gdl.Rule, factory assignments.Factory, known *reasoner.SentenceSet) *reasoner.SentenceSet {
	compiled, err := reasoner.Compile(rule, factory)
	if err != nil {
		panic(err)
	}
	ss, err := reasoner.New(pool).RuleResults(context.Background(), compiled, known)
	if err != nil {
		panic(err)
	}
	return ss
}
