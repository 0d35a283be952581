package assignments

import (
	"log/slog"
	"math"
	"sort"

	"github.com/brunokim/gdl-engine/dmst"
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/errors"
	"github.com/brunokim/gdl-engine/gdl"
)

// Factory compiles a rule into a plan.
type Factory interface {
	Plan(rule *gdl.Rule) (Plan, error)
}

var discard = slog.New(discardHandler{})

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return discard
	}
	return logger
}

// varDomains returns the rule's variables with their domains, or an error if
// some variable is not bound by a positive conjunct.
func varDomains(rule *gdl.Rule, model *domain.Model) ([]*gdl.Variable, map[*gdl.Variable]domain.Values, error) {
	vars := rule.Vars()
	domains := domain.VarDomains(rule, model, false)
	for _, x := range vars {
		if _, ok := domains[x]; !ok {
			return nil, nil, errors.New("%v: variable %v is not bound by a positive conjunct in %v", errors.UnsafeRule, x, rule)
		}
	}
	return vars, domains, nil
}

func hasEmptyDomain(vars []*gdl.Variable, domains map[*gdl.Variable]domain.Values) bool {
	for _, x := range vars {
		if len(domains[x]) == 0 {
			return true
		}
	}
	return false
}

func literalsOf(rule *gdl.Rule) []gdl.Literal {
	literals := make([]gdl.Literal, 0, len(rule.Body)+1)
	literals = append(literals, rule.Body...)
	return append(literals, rule.Head)
}

func singletons(vs domain.Values) []Tuple {
	tuples := make([]Tuple, len(vs))
	for i, c := range vs {
		tuples[i] = Tuple{c}
	}
	return tuples
}

// ---- Odometer

// OdometerFactory builds naive plans that enumerate the Cartesian product of
// the variables' domains.
type OdometerFactory struct {
	Model *domain.Model
}

func (f OdometerFactory) Plan(rule *gdl.Rule) (Plan, error) {
	vars, domains, err := varDomains(rule, f.Model)
	if err != nil {
		return nil, err
	}
	vs := make([]domain.Values, len(vars))
	for i, x := range vars {
		vs[i] = domains[x]
	}
	return NewOdometerPlan(vars, vs), nil
}

// ---- DMST

// DMSTFactory builds plans where each variable is either enumerated from its
// domain or looked up from the values allowed by a single earlier variable.
//
// Choosing predecessors is a minimum arborescence problem over the variables,
// rooted at a dummy node. The weight of an edge U->V is the logarithm of the
// average number of values of V for each value of U, and the root->V edge
// weighs the logarithm of V's domain size. The plan's cost, the product of
// branching factors, is then minimized by the tree with minimum total weight.
type DMSTFactory struct {
	Model  *domain.Model
	Logger *slog.Logger
}

// minWeight stands for log(0), when a variable has no values given another.
const minWeight = -1e6

func logWeight(x float64) float64 {
	if x <= 0 {
		return minWeight
	}
	return math.Log(x)
}

type conditional map[*gdl.Constant]domain.Values

func (f DMSTFactory) Plan(rule *gdl.Rule) (Plan, error) {
	logger := loggerOrDiscard(f.Logger)
	vars, domains, err := varDomains(rule, f.Model)
	if err != nil {
		return nil, err
	}
	if len(vars) == 0 {
		return SingletonPlan{}, nil
	}
	if hasEmptyDomain(vars, domains) {
		logger.Debug("empty variable domain", "rule", rule)
		return EmptyPlan{Vars: vars}, nil
	}
	conds := f.conditionals(rule, domains)

	// Node 0 is the root, and variable i is node i+1.
	varIndex := make(map[*gdl.Variable]int)
	for i, x := range vars {
		varIndex[x] = i
	}
	g := dmst.Graph{N: len(vars) + 1}
	rootWeights := make([]float64, len(vars))
	weights := make(map[[2]int]float64)
	for i, x := range vars {
		rootWeights[i] = logWeight(float64(len(domains[x])))
		g.AddEdge(0, i+1, rootWeights[i])
	}
	for _, u := range vars {
		for _, v := range vars {
			cond, ok := conds[u][v]
			if !ok {
				continue
			}
			var total int
			for _, vs := range cond {
				total += len(vs)
			}
			avg := float64(total) / float64(len(domains[u]))
			w := logWeight(avg)
			weights[[2]int{varIndex[u], varIndex[v]}] = w
			g.AddEdge(varIndex[u]+1, varIndex[v]+1, w)
		}
	}
	nodeParents, err := dmst.Find(g, 0)
	if err != nil {
		return nil, errors.New("planning %v: %v", rule, err)
	}

	// parents[i] is the index of the variable that determines variable i, or -1.
	parents := make([]int, len(vars))
	for i := range vars {
		parent := nodeParents[i+1] - 1
		if parent >= 0 && rootWeights[i] <= weights[[2]int{parent, i}] {
			parent = -1
		}
		parents[i] = parent
		logger.Debug("chosen predecessor", "var", vars[i], "parent", parent, "root_weight", rootWeights[i])
	}

	// Order variables so that parents come first, keeping appearance order otherwise.
	order := make([]int, 0, len(vars))
	position := make([]int, len(vars))
	placed := make([]bool, len(vars))
	for len(order) < len(vars) {
		for i := range vars {
			if placed[i] || (parents[i] >= 0 && !placed[parents[i]]) {
				continue
			}
			placed[i] = true
			position[i] = len(order)
			order = append(order, i)
		}
	}
	orderedVars := make([]*gdl.Variable, len(vars))
	strategies := make([]Strategy, len(vars))
	for pos, i := range order {
		x := vars[i]
		orderedVars[pos] = x
		if parents[i] < 0 {
			strategies[pos] = NewSimpleStrategy([]int{pos}, singletons(domains[x]))
			continue
		}
		u := vars[parents[i]]
		cond := conds[u][x]
		var entries []DependentEntry
		for _, c := range domains[u] {
			entries = append(entries, DependentEntry{Inputs: Tuple{c}, Outputs: singletons(cond[c])})
		}
		strategies[pos] = NewDependentStrategy([]int{position[parents[i]]}, []int{pos}, entries)
	}
	return NewComplexPlan(orderedVars, strategies, literalsOf(rule)...)
}

// conditionals returns, for each pair of variables U and V that appear in the
// same positive conjunct, the values of V allowed for each value of U.
func (f DMSTFactory) conditionals(rule *gdl.Rule, domains map[*gdl.Variable]domain.Values) map[*gdl.Variable]map[*gdl.Variable]conditional {
	distinct := make(map[[2]*gdl.Variable]bool)
	for _, literal := range rule.Body {
		d, ok := literal.(*gdl.Distinct)
		if !ok {
			continue
		}
		x1, ok1 := d.Arg1.(*gdl.Variable)
		x2, ok2 := d.Arg2.(*gdl.Variable)
		if ok1 && ok2 {
			distinct[[2]*gdl.Variable{x1, x2}] = true
			distinct[[2]*gdl.Variable{x2, x1}] = true
		}
	}
	conds := make(map[*gdl.Variable]map[*gdl.Variable]conditional)
	for _, s := range rule.PositiveConjuncts() {
		d, ok := f.Model.Lookup(gdl.FormOf(s))
		if !ok {
			continue
		}
		tuple := gdl.Tuple(s)
		for i, ti := range tuple {
			u, ok := ti.(*gdl.Variable)
			if !ok {
				continue
			}
			for j, tj := range tuple {
				v, ok := tj.(*gdl.Variable)
				if !ok || u == v {
					continue
				}
				slotCond := d.SlotGivenOtherSlot(j, i)
				cond := make(conditional)
				for _, c := range domains[u] {
					vs := slotCond[c].Intersect(domains[v])
					if distinct[[2]*gdl.Variable{u, v}] {
						vs = vs.Without(c)
					}
					cond[c] = vs
				}
				if conds[u] == nil {
					conds[u] = make(map[*gdl.Variable]conditional)
				}
				if prev, ok := conds[u][v]; ok {
					for c, vs := range prev {
						cond[c] = vs.Intersect(cond[c])
					}
				}
				conds[u][v] = cond
			}
		}
	}
	return conds
}

// ---- Shared helpers

// sortedVars returns xs sorted by their index in order.
func sortedVars(xs []*gdl.Variable, index map[*gdl.Variable]int) []*gdl.Variable {
	result := make([]*gdl.Variable, len(xs))
	copy(result, xs)
	sort.Slice(result, func(i, j int) bool { return index[result[i]] < index[result[j]] })
	return result
}

