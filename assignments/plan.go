package assignments

import (
	"github.com/brunokim/gdl-engine/errors"
	"github.com/brunokim/gdl-engine/gdl"
)

// Plan is a compiled enumeration of a rule's assignments. Plans are immutable
// and may be shared across goroutines; each iterator is private to its caller.
type Plan interface {
	// Variables returns the plan's variables, in binding order.
	Variables() []*gdl.Variable
	// Iterator returns a new iterator over all assignments.
	Iterator() Iterator
	// PinnedIterator returns an iterator over the assignments that agree with pins.
	// Pins for variables outside of the plan are ignored.
	PinnedIterator(pins gdl.Assignment) Iterator
}

// Iterator yields assignments one at a time.
type Iterator interface {
	HasNext() bool
	// Next returns the current assignment and advances the iterator.
	//
	// It panics if the iterator is exhausted.
	Next() gdl.Assignment
	// SkipForward advances past every upcoming assignment that agrees with asn on
	// the variables of any literal, within the subtree where the literal's
	// variables are bound. It's a no-op for exhausted iterators and for
	// literals without variables.
	SkipForward(literals []gdl.Literal, asn gdl.Assignment)
}

// ---- Singleton

// SingletonPlan yields a single empty assignment, for rules without variables.
type SingletonPlan struct{}

type singletonIterator struct {
	done bool
}

func (SingletonPlan) Variables() []*gdl.Variable                  { return nil }
func (SingletonPlan) Iterator() Iterator                          { return &singletonIterator{} }
func (SingletonPlan) PinnedIterator(pins gdl.Assignment) Iterator { return &singletonIterator{} }

func (it *singletonIterator) HasNext() bool { return !it.done }

func (it *singletonIterator) Next() gdl.Assignment {
	if it.done {
		panic("assignments.singletonIterator.Next: exhausted")
	}
	it.done = true
	return gdl.Assignment{}
}

func (it *singletonIterator) SkipForward(literals []gdl.Literal, asn gdl.Assignment) {}

// ---- Empty

// EmptyPlan yields no assignments, for rules with a variable that has an empty
// domain.
type EmptyPlan struct {
	Vars []*gdl.Variable
}

type emptyIterator struct{}

func (p EmptyPlan) Variables() []*gdl.Variable                  { return p.Vars }
func (p EmptyPlan) Iterator() Iterator                          { return emptyIterator{} }
func (p EmptyPlan) PinnedIterator(pins gdl.Assignment) Iterator { return emptyIterator{} }

func (emptyIterator) HasNext() bool { return false }

func (emptyIterator) Next() gdl.Assignment {
	panic("assignments.emptyIterator.Next: exhausted")
}

func (emptyIterator) SkipForward(literals []gdl.Literal, asn gdl.Assignment) {}

// ---- Complex

// ComplexPlan binds variables with an ordered list of strategies.
type ComplexPlan struct {
	vars       []*gdl.Variable
	varIndex   map[*gdl.Variable]int
	strategies []Strategy
	// For each variable index, its defining strategy and position within the
	// strategy's defined indices.
	definingStrategy []int
	definingPos      []int
	literalVars      map[gdl.Literal][]int
}

// NewComplexPlan returns a plan binding vars with strategies.
//
// Strategies must be sorted by defined indices, and together define every
// variable exactly once. Each strategy may only depend on variables defined
// by earlier strategies. If there are no strategies nor variables, it returns
// a SingletonPlan.
//
// The variable indices of literals are precomputed for SkipForward. Other
// literals are looked up when skipping.
func NewComplexPlan(vars []*gdl.Variable, strategies []Strategy, literals ...gdl.Literal) (Plan, error) {
	if len(strategies) == 0 {
		if len(vars) == 0 {
			return SingletonPlan{}, nil
		}
		return nil, errors.New("%v: no strategies for variables %v", errors.InvalidPlan, vars)
	}
	p := &ComplexPlan{
		vars:             vars,
		varIndex:         make(map[*gdl.Variable]int),
		strategies:       strategies,
		definingStrategy: make([]int, len(vars)),
		definingPos:      make([]int, len(vars)),
		literalVars:      make(map[gdl.Literal][]int),
	}
	for i, x := range vars {
		if _, ok := p.varIndex[x]; ok {
			return nil, errors.New("%v: repeated variable %v", errors.InvalidPlan, x)
		}
		p.varIndex[x] = i
	}
	next := 0
	for s, strategy := range strategies {
		dependent, defined := strategy.DependentIndices(), strategy.DefinedIndices()
		if len(defined) == 0 {
			return nil, errors.New("%v: strategy #%d defines no variables", errors.InvalidPlan, s)
		}
		for k, idx := range defined {
			if idx != next || idx >= len(vars) {
				return nil, errors.New("%v: strategy #%d defines %v, expected index %d", errors.InvalidPlan, s, defined, next)
			}
			p.definingStrategy[idx] = s
			p.definingPos[idx] = k
			next++
		}
		for k, idx := range dependent {
			if k > 0 && idx <= dependent[k-1] {
				return nil, errors.New("%v: strategy #%d has unsorted dependent indices %v", errors.InvalidPlan, s, dependent)
			}
			if idx < 0 || idx >= defined[0] {
				return nil, errors.New("%v: strategy #%d depends on %d, which is not defined earlier", errors.InvalidPlan, s, idx)
			}
		}
	}
	if next != len(vars) {
		return nil, errors.New("%v: strategies define %d of %d variables", errors.InvalidPlan, next, len(vars))
	}
	for _, literal := range literals {
		p.literalVars[literal] = p.indicesOf(literal)
	}
	return p, nil
}

// indicesOf returns the indices of the plan variables in literal.
func (p *ComplexPlan) indicesOf(literal gdl.Literal) []int {
	var idxs []int
	for _, x := range gdl.Vars(literal) {
		if idx, ok := p.varIndex[x]; ok {
			idxs = append(idxs, idx)
		}
	}
	return idxs
}

func (p *ComplexPlan) Variables() []*gdl.Variable { return p.vars }

// Strategies returns the plan's strategies, in binding order.
func (p *ComplexPlan) Strategies() []Strategy { return p.strategies }

func (p *ComplexPlan) Iterator() Iterator {
	return p.PinnedIterator(nil)
}

func (p *ComplexPlan) PinnedIterator(pins gdl.Assignment) Iterator {
	n := len(p.strategies)
	it := &complexIterator{
		plan:    p,
		partial: make([][]Tuple, n),
		index:   make([]int, n),
	}
	for x, c := range pins {
		idx, ok := p.varIndex[x]
		if !ok {
			continue
		}
		if it.pins == nil {
			it.pins = make([]*gdl.Constant, len(p.vars))
		}
		it.pins[idx] = c
	}
	it.settle(0)
	return it
}

// complexIterator walks the strategies depth-first. For each strategy, it
// holds the tuples produced for the current inputs and a cursor into them.
type complexIterator struct {
	plan    *ComplexPlan
	pins    []*gdl.Constant
	partial [][]Tuple
	index   []int
	done    bool
}

func (it *complexIterator) value(idx int) *gdl.Constant {
	s := it.plan.definingStrategy[idx]
	return it.partial[s][it.index[s]][it.plan.definingPos[idx]]
}

func (it *complexIterator) inputs(strategy Strategy) Tuple {
	dependent := strategy.DependentIndices()
	if len(dependent) == 0 {
		return nil
	}
	inputs := make(Tuple, len(dependent))
	for k, idx := range dependent {
		inputs[k] = it.value(idx)
	}
	return inputs
}

func (it *complexIterator) filterPins(defined []int, tuples []Tuple) []Tuple {
	if it.pins == nil {
		return tuples
	}
	pinned := false
	for _, idx := range defined {
		if it.pins[idx] != nil {
			pinned = true
			break
		}
	}
	if !pinned {
		return tuples
	}
	var result []Tuple
outer:
	for _, tuple := range tuples {
		for k, idx := range defined {
			if pin := it.pins[idx]; pin != nil && tuple[k] != pin {
				continue outer
			}
		}
		result = append(result, tuple)
	}
	return result
}

// settle regenerates the tuples of strategies from s onward, backtracking to
// the strategy that defines a rejected input when some strategy has no tuples.
func (it *complexIterator) settle(s int) {
	strategies := it.plan.strategies
	for s < len(strategies) && !it.done {
		strategy := strategies[s]
		inputs := it.inputs(strategy)
		tuples := it.filterPins(strategy.DefinedIndices(), strategy.PartialAssignments(inputs))
		if len(tuples) > 0 {
			it.partial[s] = tuples
			it.index[s] = 0
			s++
			continue
		}
		rejected := strategy.RejectedIndex(inputs)
		if rejected == NoIndexRejected {
			dependent := strategy.DependentIndices()
			if len(dependent) == 0 {
				it.done = true
				return
			}
			rejected = dependent[len(dependent)-1]
		}
		s = it.bump(it.plan.definingStrategy[rejected])
	}
}

// bump advances the cursor of strategy s, carrying to earlier strategies when
// exhausted. It returns the first strategy that must be regenerated.
func (it *complexIterator) bump(s int) int {
	for ; s >= 0; s-- {
		it.index[s]++
		if it.index[s] < len(it.partial[s]) {
			return s + 1
		}
	}
	it.done = true
	return len(it.plan.strategies)
}

func (it *complexIterator) HasNext() bool {
	return !it.done
}

func (it *complexIterator) Next() gdl.Assignment {
	if it.done {
		panic("assignments.complexIterator.Next: exhausted")
	}
	asn := make(gdl.Assignment, len(it.plan.vars))
	for idx, x := range it.plan.vars {
		asn[x] = it.value(idx)
	}
	it.settle(it.bump(len(it.plan.strategies) - 1))
	return asn
}

func (it *complexIterator) agrees(idxs []int, asn gdl.Assignment) bool {
	for _, idx := range idxs {
		if it.value(idx) != asn[it.plan.vars[idx]] {
			return false
		}
	}
	return true
}

func (it *complexIterator) SkipForward(literals []gdl.Literal, asn gdl.Assignment) {
	for _, literal := range literals {
		idxs, ok := it.plan.literalVars[literal]
		if !ok {
			idxs = it.plan.indicesOf(literal)
		}
		if len(idxs) == 0 {
			continue
		}
		maxIdx := idxs[0]
		for _, idx := range idxs {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
		s := it.plan.definingStrategy[maxIdx]
		for !it.done && it.agrees(idxs, asn) {
			it.settle(it.bump(s))
		}
	}
}
