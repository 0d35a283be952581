package assignments

import (
	"container/heap"
	"log/slog"
	"strings"

	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/gdl"
)

// LegacyFactory builds plans with a best-first search over binding orders.
//
// Each step of a plan binds variables in one of three ways: enumerating the
// true sentences of a constant conjunct (a source), computing a variable from
// a conjunct whose form is a function of its other slots, or enumerating a
// single variable's domain. The cost of a plan is the product of the number of
// candidates produced at each step.
type LegacyFactory struct {
	Model *domain.Model
	// Constants holds the true sentences of constant forms. If nil, only domain
	// steps are used.
	Constants *domain.Constants
	// Functions holds the function info of constant forms. If nil, it's
	// computed from Constants.
	Functions map[gdl.Form]*domain.FunctionInfo
	// MaxExpansions bounds the search. When exceeded, the cheapest plan found so
	// far is completed greedily. Defaults to 1000.
	MaxExpansions int
	Logger        *slog.Logger
}

const defaultMaxExpansions = 1000

// step binds the variables in defines, by their index in the rule's variables.
type step struct {
	conjunct int // -1 for domain steps
	defines  []int
	factor   float64
}

type searchNode struct {
	bound []bool
	steps []step
	cost  float64
	seq   int
}

func (n *searchNode) key() string {
	var b strings.Builder
	for _, isBound := range n.bound {
		if isBound {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (n *searchNode) numBound() int {
	var count int
	for _, isBound := range n.bound {
		if isBound {
			count++
		}
	}
	return count
}

func (n *searchNode) apply(st step, seq int) *searchNode {
	bound := make([]bool, len(n.bound))
	copy(bound, n.bound)
	for _, i := range st.defines {
		bound[i] = true
	}
	steps := make([]step, len(n.steps), len(n.steps)+1)
	copy(steps, n.steps)
	factor := st.factor
	if factor < 1 {
		factor = 1
	}
	return &searchNode{
		bound: bound,
		steps: append(steps, st),
		cost:  n.cost * factor,
		seq:   seq,
	}
}

// searchQueue is a min-heap of nodes by cost. Among equal costs, nodes with
// more bound variables come first.
type searchQueue []*searchNode

func (q searchQueue) Len() int { return len(q) }
func (q searchQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if bi, bj := q[i].numBound(), q[j].numBound(); bi != bj {
		return bi > bj
	}
	return q[i].seq < q[j].seq
}
func (q searchQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *searchQueue) Push(x interface{}) { *q = append(*q, x.(*searchNode)) }
func (q *searchQueue) Pop() interface{} {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

// legacyPlanner holds the state of planning one rule.
type legacyPlanner struct {
	vars      []*gdl.Variable
	varIndex  map[*gdl.Variable]int
	domains   map[*gdl.Variable]domain.Values
	conjuncts []gdl.Sentence
	// Matches of each constant conjunct against its true sentences, or nil for
	// non-constant conjuncts.
	matches   [][]gdl.Assignment
	functions []*domain.FunctionInfo
}

func (f LegacyFactory) Plan(rule *gdl.Rule) (Plan, error) {
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
	p := &legacyPlanner{
		vars:      vars,
		varIndex:  make(map[*gdl.Variable]int),
		domains:   domains,
		conjuncts: rule.PositiveConjuncts(),
	}
	for i, x := range vars {
		p.varIndex[x] = i
	}
	functions := f.Functions
	if functions == nil && f.Constants != nil {
		functions = f.Constants.Functions()
	}
	p.matches = make([][]gdl.Assignment, len(p.conjuncts))
	p.functions = make([]*domain.FunctionInfo, len(p.conjuncts))
	for k, s := range p.conjuncts {
		form := gdl.FormOf(s)
		if f.Constants == nil || !f.Constants.IsConstant(form) || len(gdl.Vars(s)) == 0 {
			continue
		}
		p.matches[k] = p.match(s, f.Constants.TrueSentences(form))
		if len(p.matches[k]) == 0 {
			logger.Debug("constant conjunct has no matches", "rule", rule, "conjunct", s)
			return EmptyPlan{Vars: vars}, nil
		}
		p.functions[k] = functions[form]
	}

	maxExpansions := f.MaxExpansions
	if maxExpansions <= 0 {
		maxExpansions = defaultMaxExpansions
	}
	best := p.search(maxExpansions)
	logger.Debug("legacy plan", "rule", rule, "cost", best.cost, "steps", len(best.steps))
	return p.build(best, literalsOf(rule))
}

// match returns the assignments of s's variables for each true sentence, keeping
// only values within the variables' domains.
func (p *legacyPlanner) match(s gdl.Sentence, sentences []gdl.Sentence) []gdl.Assignment {
	var result []gdl.Assignment
outer:
	for _, t := range sentences {
		asn, ok := gdl.Match(s, t)
		if !ok {
			continue
		}
		for x, c := range asn {
			if !p.domains[x].Contains(c) {
				continue outer
			}
		}
		result = append(result, asn)
	}
	return result
}

func (p *legacyPlanner) search(maxExpansions int) *searchNode {
	seq := 0
	start := &searchNode{bound: make([]bool, len(p.vars)), cost: 1}
	q := &searchQueue{start}
	visited := make(map[string]bool)
	var last *searchNode
	for expansions := 0; q.Len() > 0; {
		node := heap.Pop(q).(*searchNode)
		key := node.key()
		if visited[key] {
			continue
		}
		visited[key] = true
		last = node
		if node.numBound() == len(p.vars) {
			return node
		}
		expansions++
		if expansions > maxExpansions {
			break
		}
		for _, st := range p.candidates(node) {
			seq++
			child := node.apply(st, seq)
			if !visited[child.key()] {
				heap.Push(q, child)
			}
		}
	}
	// Complete greedily from the last expanded node.
	node := last
	for node.numBound() < len(p.vars) {
		candidates := p.candidates(node)
		cheapest := candidates[0]
		for _, st := range candidates[1:] {
			if st.factor < cheapest.factor {
				cheapest = st
			}
		}
		seq++
		node = node.apply(cheapest, seq)
	}
	return node
}

func product(domains []domain.Values) float64 {
	size := 1.0
	for _, vs := range domains {
		size *= float64(len(vs))
	}
	return size
}

// candidates returns the steps that bind at least one unbound variable.
func (p *legacyPlanner) candidates(node *searchNode) []step {
	var steps []step
	for k, s := range p.conjuncts {
		matches := p.matches[k]
		if matches == nil {
			continue
		}
		var unbound, bound []int
		var unboundDomains []domain.Values
		for _, x := range gdl.Vars(s) {
			i := p.varIndex[x]
			if node.bound[i] {
				bound = append(bound, i)
			} else {
				unbound = append(unbound, i)
				unboundDomains = append(unboundDomains, p.domains[x])
			}
		}
		if len(unbound) == 0 {
			continue
		}
		if len(bound) > 0 && len(unbound) == 1 && p.isProducible(k, p.vars[unbound[0]]) {
			steps = append(steps, step{conjunct: k, defines: unbound, factor: 1})
			continue
		}
		factor := float64(len(matches)) / float64(numKeys(matches, p.vars, bound))
		if factor < product(unboundDomains) {
			steps = append(steps, step{conjunct: k, defines: unbound, factor: factor})
		}
	}
	for i, x := range p.vars {
		if !node.bound[i] {
			steps = append(steps, step{conjunct: -1, defines: []int{i}, factor: float64(len(p.domains[x]))})
		}
	}
	return steps
}

func (p *legacyPlanner) isProducible(k int, x *gdl.Variable) bool {
	fi := p.functions[k]
	if fi == nil {
		return false
	}
	for _, y := range fi.ProducibleVars(p.conjuncts[k]) {
		if x == y {
			return true
		}
	}
	return false
}

// numKeys returns the number of distinct values of the bound variables in matches.
func numKeys(matches []gdl.Assignment, vars []*gdl.Variable, bound []int) int {
	keys := make(map[string]bool)
	for _, asn := range matches {
		var b strings.Builder
		for _, i := range bound {
			b.WriteString(asn[vars[i]].Name())
			b.WriteByte(0)
		}
		keys[b.String()] = true
	}
	return len(keys)
}

// build assigns positions to variables in step order and creates their strategies.
func (p *legacyPlanner) build(node *searchNode, literals []gdl.Literal) (Plan, error) {
	position := make(map[*gdl.Variable]int)
	var orderedVars []*gdl.Variable
	var strategies []Strategy
	for _, st := range node.steps {
		var defined []int
		var definedVars []*gdl.Variable
		for _, i := range st.defines {
			x := p.vars[i]
			position[x] = len(orderedVars)
			defined = append(defined, len(orderedVars))
			definedVars = append(definedVars, x)
			orderedVars = append(orderedVars, x)
		}
		if st.conjunct < 0 {
			strategies = append(strategies, NewSimpleStrategy(defined, singletons(p.domains[definedVars[0]])))
			continue
		}
		var dependentVars []*gdl.Variable
		for _, x := range gdl.Vars(p.conjuncts[st.conjunct]) {
			if _, ok := position[x]; ok && !contains(definedVars, x) {
				dependentVars = append(dependentVars, x)
			}
		}
		dependentVars = sortedVars(dependentVars, position)
		dependent := make([]int, len(dependentVars))
		for i, x := range dependentVars {
			dependent[i] = position[x]
		}
		entries := make([]DependentEntry, 0, len(p.matches[st.conjunct]))
		for _, asn := range p.matches[st.conjunct] {
			entries = append(entries, DependentEntry{
				Inputs:  project(asn, dependentVars),
				Outputs: []Tuple{project(asn, definedVars)},
			})
		}
		strategies = append(strategies, NewDependentStrategy(dependent, defined, entries))
	}
	return NewComplexPlan(orderedVars, strategies, literals...)
}

func contains(xs []*gdl.Variable, x *gdl.Variable) bool {
	for _, y := range xs {
		if x == y {
			return true
		}
	}
	return false
}

func project(asn gdl.Assignment, xs []*gdl.Variable) Tuple {
	if len(xs) == 0 {
		return nil
	}
	tuple := make(Tuple, len(xs))
	for i, x := range xs {
		tuple[i] = asn[x]
	}
	return tuple
}
