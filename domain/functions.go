package domain

import (
	"strings"

	"github.com/brunokim/gdl-engine/gdl"
)

// FunctionInfo describes which slots of a constant form are functions of the
// remaining slots, that is, which slot values are uniquely determined once the
// other slots are fixed.
type FunctionInfo struct {
	form      gdl.Form
	dependent []bool
	valueMaps []map[string]*gdl.Constant
}

func tupleKey(tuple []*gdl.Constant, skip int) string {
	var b strings.Builder
	for i, c := range tuple {
		if i == skip {
			continue
		}
		b.WriteString(c.Name())
		b.WriteByte(0)
	}
	return b.String()
}

// NewFunctionInfo computes the functional slots of a form from its true sentences.
func NewFunctionInfo(form gdl.Form, sentences []gdl.Sentence) *FunctionInfo {
	fi := &FunctionInfo{
		form:      form,
		dependent: make([]bool, form.Slots),
		valueMaps: make([]map[string]*gdl.Constant, form.Slots),
	}
	tuples := make([][]*gdl.Constant, len(sentences))
	for i, s := range sentences {
		tuples[i] = gdl.GroundTuple(s)
	}
	for slot := 0; slot < form.Slots; slot++ {
		m := make(map[string]*gdl.Constant)
		functional := true
		for _, tuple := range tuples {
			key := tupleKey(tuple, slot)
			if prev, ok := m[key]; ok && prev != tuple[slot] {
				functional = false
				break
			}
			m[key] = tuple[slot]
		}
		if functional {
			fi.dependent[slot] = true
			fi.valueMaps[slot] = m
		}
	}
	return fi
}

func (fi *FunctionInfo) Form() gdl.Form { return fi.form }

// DependentSlots returns, for each slot, whether it's a function of the others.
func (fi *FunctionInfo) DependentSlots() []bool { return fi.dependent }

// Lookup returns the value of a dependent slot given the values of all other
// slots, in order.
func (fi *FunctionInfo) Lookup(slot int, inputs []*gdl.Constant) (*gdl.Constant, bool) {
	m := fi.valueMaps[slot]
	if m == nil {
		return nil, false
	}
	c, ok := m[tupleKey(inputs, -1)]
	return c, ok
}

// ProducibleVars returns the variables of a sentence that may be computed from
// its other slots. A variable is producible if it occupies a dependent slot and
// appears only once in the sentence.
func (fi *FunctionInfo) ProducibleVars(s gdl.Sentence) []*gdl.Variable {
	tuple := gdl.Tuple(s)
	counts := make(map[*gdl.Variable]int)
	for _, term := range tuple {
		if x, ok := term.(*gdl.Variable); ok {
			counts[x]++
		}
	}
	var xs []*gdl.Variable
	for slot, term := range tuple {
		x, ok := term.(*gdl.Variable)
		if ok && fi.dependent[slot] && counts[x] == 1 {
			xs = append(xs, x)
		}
	}
	return xs
}
