// Package odometer enumerates the Cartesian product of value lists.
package odometer

import (
	"github.com/brunokim/gdl-engine/errors"
)

// Odometer iterates over every combination of values, one from each slot.
// Slot 0 changes fastest: after yielding a tuple, slot 0 is incremented, and
// when it overflows it's reset and the increment carries to slot 1, and so on.
//
// An Odometer is not safe for concurrent use.
type Odometer[T comparable] struct {
	values     [][]T
	valueIndex []map[T]int
	index      []int
	done       bool
}

// New returns an odometer over values. Every slot must have at least one value.
func New[T comparable](values [][]T) (*Odometer[T], error) {
	o := &Odometer[T]{
		values:     values,
		valueIndex: make([]map[T]int, len(values)),
		index:      make([]int, len(values)),
	}
	for i, vs := range values {
		if len(vs) == 0 {
			return nil, errors.New("odometer: slot %d has no values", i)
		}
		m := make(map[T]int, len(vs))
		for j, v := range vs {
			if _, ok := m[v]; !ok {
				m[v] = j
			}
		}
		o.valueIndex[i] = m
	}
	return o, nil
}

// HasNext returns whether there are tuples left.
func (o *Odometer[T]) HasNext() bool {
	return !o.done
}

// Next returns the current tuple and advances the odometer.
//
// It panics if the odometer is exhausted.
func (o *Odometer[T]) Next() []T {
	if o.done {
		panic("odometer.Next: exhausted")
	}
	tuple := make([]T, len(o.values))
	for i, j := range o.index {
		tuple[i] = o.values[i][j]
	}
	o.increment(0)
	return tuple
}

// Value returns the current value of a slot.
func (o *Odometer[T]) Value(slot int) T {
	return o.values[slot][o.index[slot]]
}

// SkipPastValueInSlot advances the odometer past every tuple that has value in
// slot, starting from the current one. If slot is not at value, it does nothing.
func (o *Odometer[T]) SkipPastValueInSlot(slot int, value T) {
	if o.done {
		return
	}
	if j, ok := o.valueIndex[slot][value]; !ok || o.index[slot] != j {
		return
	}
	for i := 0; i < slot; i++ {
		o.index[i] = 0
	}
	o.increment(slot)
}

func (o *Odometer[T]) increment(slot int) {
	for i := slot; i < len(o.index); i++ {
		o.index[i]++
		if o.index[i] < len(o.values[i]) {
			return
		}
		o.index[i] = 0
	}
	o.done = true
}
