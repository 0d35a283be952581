package test_helpers

import (
	"github.com/brunokim/gdl-engine/gdl"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func same[T comparable](x, y T) bool { return x == y }

var (
	// Interned compares pooled terms and sentences by identity, without
	// looking into their unexported fields.
	Interned = cmp.Options{
		cmp.Comparer(same[*gdl.Constant]),
		cmp.Comparer(same[*gdl.Variable]),
		cmp.Comparer(same[*gdl.Function]),
		cmp.Comparer(same[*gdl.Proposition]),
		cmp.Comparer(same[*gdl.Relation]),
	}

	// Unordered compares string slices ignoring their order.
	Unordered = cmpopts.SortSlices(func(x, y string) bool { return x < y })
)
