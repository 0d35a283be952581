package domain

import (
	"sort"
	"strings"

	"github.com/brunokim/gdl-engine/gdl"
)

// Values is a set of constants, sorted by name.
type Values []*gdl.Constant

// NewValues returns the sorted set of cs, without repetitions.
func NewValues(cs ...*gdl.Constant) Values {
	vs := make(Values, len(cs))
	copy(vs, cs)
	sort.Slice(vs, func(i, j int) bool { return vs[i].Less(vs[j]) })
	n := 0
	for i, c := range vs {
		if i > 0 && c == vs[n-1] {
			continue
		}
		vs[n] = c
		n++
	}
	return vs[:n]
}

func (vs Values) search(c *gdl.Constant) int {
	return sort.Search(len(vs), func(i int) bool { return !vs[i].Less(c) })
}

// Contains returns whether c is in the set.
func (vs Values) Contains(c *gdl.Constant) bool {
	i := vs.search(c)
	return i < len(vs) && vs[i] == c
}

// Intersect returns the values present in both sets.
func (vs Values) Intersect(other Values) Values {
	result := Values{}
	i, j := 0, 0
	for i < len(vs) && j < len(other) {
		switch {
		case vs[i] == other[j]:
			result = append(result, vs[i])
			i++
			j++
		case vs[i].Less(other[j]):
			i++
		default:
			j++
		}
	}
	return result
}

// Union returns the values present in any set.
func (vs Values) Union(other Values) Values {
	result := make(Values, 0, len(vs)+len(other))
	i, j := 0, 0
	for i < len(vs) && j < len(other) {
		switch {
		case vs[i] == other[j]:
			result = append(result, vs[i])
			i++
			j++
		case vs[i].Less(other[j]):
			result = append(result, vs[i])
			i++
		default:
			result = append(result, other[j])
			j++
		}
	}
	result = append(result, vs[i:]...)
	return append(result, other[j:]...)
}

// Without returns the set without cs.
func (vs Values) Without(cs ...*gdl.Constant) Values {
	result := Values{}
	for _, v := range vs {
		excluded := false
		for _, c := range cs {
			if v == c {
				excluded = true
				break
			}
		}
		if !excluded {
			result = append(result, v)
		}
	}
	return result
}

func (vs Values) String() string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.Name()
	}
	return "{" + strings.Join(parts, " ") + "}"
}
