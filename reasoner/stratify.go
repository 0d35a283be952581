package reasoner

import (
	"github.com/brunokim/gdl-engine/errors"
	"github.com/brunokim/gdl-engine/gdl"
)

// Stratify partitions rules so that every form is fully derived before it's
// used in a negation. Rules within a stratum keep their relative order.
//
// A form's stratum is at least the stratum of every form in the bodies of its
// rules, and greater than the stratum of every negated form.
func Stratify(rules []*gdl.Rule) ([][]*gdl.Rule, error) {
	type dependency struct {
		form    gdl.Form
		negated bool
	}
	deps := make(map[gdl.Form][]dependency)
	strata := make(map[gdl.Form]int)
	for _, rule := range rules {
		head := gdl.FormOf(rule.Head)
		strata[head] = 0
		var collect func(literals []gdl.Literal, negated bool)
		collect = func(literals []gdl.Literal, negated bool) {
			for _, literal := range literals {
				switch l := literal.(type) {
				case gdl.Sentence:
					deps[head] = append(deps[head], dependency{gdl.FormOf(l), negated})
				case *gdl.Not:
					deps[head] = append(deps[head], dependency{gdl.FormOf(l.Body), true})
				case *gdl.Or:
					collect(l.Disjuncts, negated)
				}
			}
		}
		collect(rule.Body, false)
	}
	// A stratum above the number of forms means a cycle through negation.
	limit := len(strata)
	for changed := true; changed; {
		changed = false
		for head, ds := range deps {
			for _, d := range ds {
				lower := strata[d.form]
				if d.negated {
					lower++
				}
				if strata[head] < lower {
					strata[head] = lower
					changed = true
				}
			}
			if strata[head] > limit {
				return nil, errors.New("%v: %v depends on its own negation", errors.Unstratifiable, head)
			}
		}
	}
	var max int
	for _, rule := range rules {
		if s := strata[gdl.FormOf(rule.Head)]; s > max {
			max = s
		}
	}
	if len(rules) == 0 {
		return nil, nil
	}
	result := make([][]*gdl.Rule, max+1)
	for _, rule := range rules {
		s := strata[gdl.FormOf(rule.Head)]
		result[s] = append(result[s], rule)
	}
	// Drop strata without rules.
	var nonEmpty [][]*gdl.Rule
	for _, stratum := range result {
		if len(stratum) > 0 {
			nonEmpty = append(nonEmpty, stratum)
		}
	}
	return nonEmpty, nil
}
