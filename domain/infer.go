package domain

import (
	"github.com/brunokim/gdl-engine/gdl"
)

// Infer computes a Cartesian domain for every form in rules and facts.
//
// Slot domains start with the constants of the facts and grow until a fixpoint:
// each rule head slot receives its constant, or the domain of its variable
// computed from the body. The result over-approximates the sentences derivable
// by forward chaining, since negations are ignored and slots are independent.
func Infer(rules []*gdl.Rule, facts []gdl.Sentence) *Model {
	slots := make(map[gdl.Form][]Values)
	register := func(form gdl.Form) []Values {
		vs, ok := slots[form]
		if !ok {
			vs = make([]Values, form.Slots)
			for i := range vs {
				vs[i] = Values{}
			}
			slots[form] = vs
		}
		return vs
	}
	model := func() *Model {
		m := NewModel()
		for form, vs := range slots {
			m.Add(NewCartesian(form, vs))
		}
		return m
	}
	for _, s := range facts {
		vs := register(gdl.FormOf(s))
		for i, c := range gdl.GroundTuple(s) {
			vs[i] = vs[i].Union(Values{c})
		}
	}
	for _, rule := range rules {
		register(gdl.FormOf(rule.Head))
		for _, s := range bodySentences(rule.Body, nil) {
			register(gdl.FormOf(s))
		}
	}
	for changed := true; changed; {
		changed = false
		m := model()
		for _, rule := range rules {
			domains := VarDomains(rule, m, false)
			vs := slots[gdl.FormOf(rule.Head)]
			for i, term := range gdl.Tuple(rule.Head) {
				var add Values
				switch t := term.(type) {
				case *gdl.Constant:
					add = Values{t}
				case *gdl.Variable:
					add = domains[t]
				}
				union := vs[i].Union(add)
				if len(union) != len(vs[i]) {
					vs[i] = union
					changed = true
				}
			}
		}
	}
	return model()
}
