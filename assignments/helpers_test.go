package assignments_test

import (
	"sort"

	"github.com/brunokim/gdl-engine/assignments"
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/dsl"
	"github.com/brunokim/gdl-engine/gdl"
)

var (
	pool = gdl.NewPool()
	b    = dsl.New(pool)

	const_   = b.Const
	var_     = b.Var
	rel      = b.Rel
	not      = b.Not
	distinct = b.Distinct
	or       = b.Or
	rule     = b.Rule
)

func tuple(cs ...*gdl.Constant) assignments.Tuple {
	return assignments.Tuple(cs)
}

func tuples(ts ...assignments.Tuple) []assignments.Tuple {
	return ts
}

func values(names ...string) domain.Values {
	return domain.NewValues(b.Consts(names...)...)
}

func vars(names ...string) []*gdl.Variable {
	xs := make([]*gdl.Variable, len(names))
	for i, name := range names {
		xs[i] = var_(name)
	}
	return xs
}

// collect returns the string form of every assignment yielded by it.
func collect(it assignments.Iterator) []string {
	var result []string
	for it.HasNext() {
		result = append(result, it.Next().String())
	}
	return result
}

func sorted(xs []string) []string {
	ys := make([]string, len(xs))
	copy(ys, xs)
	sort.Strings(ys)
	return ys
}

// consistent returns whether an assignment makes every positive conjunct fall
// within its form's domain and every 'distinct' hold.
func consistent(rule *gdl.Rule, model *domain.Model, asn gdl.Assignment) bool {
	for _, literal := range rule.Body {
		switch l := literal.(type) {
		case gdl.Sentence:
			s := pool.Substitute(l, asn)
			d, ok := model.Lookup(gdl.FormOf(s))
			if !ok {
				return false
			}
			if full, ok := d.(*domain.Full); ok {
				found := false
				for _, t := range full.Sentences() {
					if t == s {
						found = true
						break
					}
				}
				if !found {
					return false
				}
				continue
			}
			for i, c := range gdl.GroundTuple(s) {
				if !d.Slot(i).Contains(c) {
					return false
				}
			}
		case *gdl.Distinct:
			if pool.SubstituteTerm(l.Arg1, asn) == pool.SubstituteTerm(l.Arg2, asn) {
				return false
			}
		}
	}
	return true
}

// solutions returns the sorted consistent assignments yielded by it.
func solutions(rule *gdl.Rule, model *domain.Model, it assignments.Iterator) []string {
	var result []string
	for it.HasNext() {
		asn := it.Next()
		if consistent(rule, model, asn) {
			result = append(result, asn.String())
		}
	}
	sort.Strings(result)
	return result
}

// naiveSolutions enumerates the Cartesian product of the variables' domains.
func naiveSolutions(rule *gdl.Rule, model *domain.Model) []string {
	xs := rule.Vars()
	domains := domain.VarDomains(rule, model, false)
	var result []string
	asn := make(gdl.Assignment)
	var rec func(i int)
	rec = func(i int) {
		if i == len(xs) {
			if consistent(rule, model, asn) {
				result = append(result, asn.String())
			}
			return
		}
		for _, c := range domains[xs[i]] {
			asn[xs[i]] = c
			rec(i + 1)
		}
		delete(asn, xs[i])
	}
	rec(0)
	sort.Strings(result)
	return result
}
