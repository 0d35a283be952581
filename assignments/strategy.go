// Package assignments enumerates the variable assignments of a rule body.
//
// A Plan orders the rule's variables and binds them in groups, each group
// produced by a Strategy from the values of earlier variables. Planners build
// plans from a domain model, choosing orders where each strategy produces few
// candidates, and iterators walk the plan depth-first, pruning subtrees that a
// failed literal rules out.
package assignments

import (
	"fmt"

	"github.com/brunokim/gdl-engine/gdl"
)

// Tuple is a list of constants, one per variable.
type Tuple []*gdl.Constant

// NoIndexRejected is returned by RejectedIndex when inputs have a continuation.
const NoIndexRejected = -1

// Strategy produces the values of some plan variables, its defined indices,
// given the values of earlier variables, its dependent indices.
//
// Implementations are SimpleStrategy, MultipleStrategy and DependentStrategy.
type Strategy interface {
	// DependentIndices returns the ascending indices of the input variables.
	DependentIndices() []int
	// DefinedIndices returns the ascending indices of the produced variables.
	DefinedIndices() []int
	// PartialAssignments returns the tuples of defined variables allowed by the
	// inputs, given in the order of DependentIndices. The result must not be modified.
	PartialAssignments(inputs Tuple) []Tuple
	// RejectedIndex returns the dependent index whose value has no continuation,
	// or NoIndexRejected.
	RejectedIndex(inputs Tuple) int
	isStrategy()
}

func checkTuples(name string, defined []int, tuples []Tuple) {
	for _, tuple := range tuples {
		if len(tuple) != len(defined) {
			panic(fmt.Sprintf("assignments.%s: tuple %v doesn't match defined indices %v", name, tuple, defined))
		}
	}
}

// ---- Simple

// SimpleStrategy enumerates a fixed list of tuples, usually a variable's domain.
type SimpleStrategy struct {
	defined []int
	tuples  []Tuple
}

// NewSimpleStrategy returns a strategy that always produces tuples.
func NewSimpleStrategy(defined []int, tuples []Tuple) *SimpleStrategy {
	checkTuples("NewSimpleStrategy", defined, tuples)
	return &SimpleStrategy{defined: defined, tuples: tuples}
}

func (s *SimpleStrategy) DependentIndices() []int { return nil }
func (s *SimpleStrategy) DefinedIndices() []int   { return s.defined }

func (s *SimpleStrategy) PartialAssignments(inputs Tuple) []Tuple {
	return s.tuples
}

func (s *SimpleStrategy) RejectedIndex(inputs Tuple) int {
	return NoIndexRejected
}

// ---- Multiple

// MultipleStrategy enumerates tuples that bind several variables jointly, like
// the true sentences of a constant relation.
type MultipleStrategy struct {
	defined []int
	tuples  []Tuple
}

// NewMultipleStrategy returns a strategy that always produces tuples.
func NewMultipleStrategy(defined []int, tuples []Tuple) *MultipleStrategy {
	checkTuples("NewMultipleStrategy", defined, tuples)
	return &MultipleStrategy{defined: defined, tuples: tuples}
}

func (s *MultipleStrategy) DependentIndices() []int { return nil }
func (s *MultipleStrategy) DefinedIndices() []int   { return s.defined }

// PartialAssignments returns all tuples.
//
// It panics if inputs are not empty.
func (s *MultipleStrategy) PartialAssignments(inputs Tuple) []Tuple {
	if len(inputs) > 0 {
		panic(fmt.Sprintf("assignments.MultipleStrategy.PartialAssignments: unexpected inputs %v", inputs))
	}
	return s.tuples
}

func (s *MultipleStrategy) RejectedIndex(inputs Tuple) int {
	return NoIndexRejected
}

// ---- Dependent

// DependentEntry lists the outputs allowed for one combination of inputs.
type DependentEntry struct {
	Inputs  Tuple
	Outputs []Tuple
}

type trieNode struct {
	children map[*gdl.Constant]*trieNode
	outputs  []Tuple
}

// DependentStrategy looks up its tuples in a prefix tree keyed by the values of
// its dependent variables.
type DependentStrategy struct {
	dependent []int
	defined   []int
	root      *trieNode
}

// NewDependentStrategy returns a strategy producing the outputs of the entry
// that matches the inputs. Entries with the same inputs are merged.
//
// If there are no dependent indices, the outputs of all entries are returned
// in a MultipleStrategy.
func NewDependentStrategy(dependent, defined []int, entries []DependentEntry) Strategy {
	if len(dependent) == 0 {
		var tuples []Tuple
		for _, entry := range entries {
			tuples = append(tuples, entry.Outputs...)
		}
		return NewMultipleStrategy(defined, tuples)
	}
	root := &trieNode{}
	for _, entry := range entries {
		if len(entry.Inputs) != len(dependent) {
			panic(fmt.Sprintf("assignments.NewDependentStrategy: inputs %v don't match dependent indices %v", entry.Inputs, dependent))
		}
		checkTuples("NewDependentStrategy", defined, entry.Outputs)
		node := root
		for _, c := range entry.Inputs {
			if node.children == nil {
				node.children = make(map[*gdl.Constant]*trieNode)
			}
			child, ok := node.children[c]
			if !ok {
				child = &trieNode{}
				node.children[c] = child
			}
			node = child
		}
		node.outputs = append(node.outputs, entry.Outputs...)
	}
	return &DependentStrategy{dependent: dependent, defined: defined, root: root}
}

func (s *DependentStrategy) DependentIndices() []int { return s.dependent }
func (s *DependentStrategy) DefinedIndices() []int   { return s.defined }

// lookup returns the leaf for inputs, or the depth where the lookup failed.
func (s *DependentStrategy) lookup(inputs Tuple) (*trieNode, int) {
	node := s.root
	for depth, c := range inputs {
		child, ok := node.children[c]
		if !ok {
			return nil, depth
		}
		node = child
	}
	return node, -1
}

func (s *DependentStrategy) PartialAssignments(inputs Tuple) []Tuple {
	node, _ := s.lookup(inputs)
	if node == nil {
		return nil
	}
	return node.outputs
}

func (s *DependentStrategy) RejectedIndex(inputs Tuple) int {
	node, depth := s.lookup(inputs)
	if node == nil {
		return s.dependent[depth]
	}
	if len(node.outputs) == 0 {
		return s.dependent[len(s.dependent)-1]
	}
	return NoIndexRejected
}

func (*SimpleStrategy) isStrategy()    {}
func (*MultipleStrategy) isStrategy()  {}
func (*DependentStrategy) isStrategy() {}
