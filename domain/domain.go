// Package domain models the finite sets of constants that may appear in each
// slot of each sentence form.
//
// A domain is an over-approximation: a slot domain may contain constants that
// never appear in a true sentence, but it must contain every constant that
// does. Planners rely on domains to enumerate candidate assignments, so a
// missing constant would silently lose solutions.
package domain

import (
	"fmt"
	"sort"

	"github.com/brunokim/gdl-engine/gdl"
)

// FormDomain is the domain of a sentence form.
type FormDomain interface {
	Form() gdl.Form
	// Slot returns the constants that may appear in slot i of the form's tuple.
	Slot(i int) Values
	// SlotGivenOtherSlot maps each value of inputSlot to the values that slotOfInterest
	// may take in the same sentence.
	SlotGivenOtherSlot(slotOfInterest, inputSlot int) map[*gdl.Constant]Values
	// Size is an upper bound on the number of sentences in the domain.
	Size() int
}

// ---- Cartesian

// Cartesian is a domain where any combination of slot values may appear.
type Cartesian struct {
	form  gdl.Form
	slots []Values
}

// NewCartesian returns a domain with independent slots.
//
// It panics if the number of slots doesn't match the form.
func NewCartesian(form gdl.Form, slots []Values) *Cartesian {
	if len(slots) != form.Slots {
		panic(fmt.Sprintf("domain.NewCartesian: %v has %d slots, got %d", form, form.Slots, len(slots)))
	}
	return &Cartesian{form: form, slots: slots}
}

func (d *Cartesian) Form() gdl.Form     { return d.form }
func (d *Cartesian) Slot(i int) Values { return d.slots[i] }

func (d *Cartesian) SlotGivenOtherSlot(slotOfInterest, inputSlot int) map[*gdl.Constant]Values {
	m := make(map[*gdl.Constant]Values)
	for _, c := range d.slots[inputSlot] {
		m[c] = d.slots[slotOfInterest]
	}
	return m
}

func (d *Cartesian) Size() int {
	return product(d.slots)
}

const maxSize = int(^uint(0) >> 2)

func product(slots []Values) int {
	size := 1
	for _, vs := range slots {
		if len(vs) == 0 {
			return 0
		}
		if size > maxSize/len(vs) {
			size = maxSize
			continue
		}
		size *= len(vs)
	}
	return size
}

// ---- Full

// Full is a domain with an explicit list of sentences.
type Full struct {
	form      gdl.Form
	sentences []gdl.Sentence
	tuples    [][]*gdl.Constant
	slots     []Values
}

// NewFull returns a domain containing exactly the provided ground sentences.
//
// It panics if a sentence is not ground or doesn't belong to form.
func NewFull(form gdl.Form, sentences []gdl.Sentence) *Full {
	d := &Full{form: form, slots: make([]Values, form.Slots)}
	seen := make(map[gdl.Sentence]struct{})
	cols := make([][]*gdl.Constant, form.Slots)
	for _, s := range sentences {
		if gdl.FormOf(s) != form {
			panic(fmt.Sprintf("domain.NewFull: %v doesn't belong to %v", s, form))
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		tuple := gdl.GroundTuple(s)
		d.sentences = append(d.sentences, s)
		d.tuples = append(d.tuples, tuple)
		for i, c := range tuple {
			cols[i] = append(cols[i], c)
		}
	}
	for i, col := range cols {
		d.slots[i] = NewValues(col...)
	}
	return d
}

func (d *Full) Form() gdl.Form     { return d.form }
func (d *Full) Slot(i int) Values { return d.slots[i] }
func (d *Full) Size() int         { return len(d.sentences) }

// Sentences returns the domain's sentences, in insertion order.
func (d *Full) Sentences() []gdl.Sentence { return d.sentences }

func (d *Full) SlotGivenOtherSlot(slotOfInterest, inputSlot int) map[*gdl.Constant]Values {
	cols := make(map[*gdl.Constant][]*gdl.Constant)
	for _, tuple := range d.tuples {
		input := tuple[inputSlot]
		cols[input] = append(cols[input], tuple[slotOfInterest])
	}
	m := make(map[*gdl.Constant]Values, len(cols))
	for c, col := range cols {
		m[c] = NewValues(col...)
	}
	return m
}

// ---- Model

// Model holds the domains of every sentence form in a game.
type Model struct {
	domains map[gdl.Form]FormDomain
}

// NewModel returns a model with the provided domains.
func NewModel(domains ...FormDomain) *Model {
	m := &Model{domains: make(map[gdl.Form]FormDomain)}
	for _, d := range domains {
		m.Add(d)
	}
	return m
}

// Add sets the domain of a form, replacing any previous one.
func (m *Model) Add(d FormDomain) {
	m.domains[d.Form()] = d
}

// Lookup returns the domain of a form, if present.
func (m *Model) Lookup(form gdl.Form) (FormDomain, bool) {
	d, ok := m.domains[form]
	return d, ok
}

// Forms returns the model's forms, sorted by shape.
func (m *Model) Forms() []gdl.Form {
	forms := make([]gdl.Form, 0, len(m.domains))
	for form := range m.domains {
		forms = append(forms, form)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Shape < forms[j].Shape })
	return forms
}

// ---- Variable domains

// VarDomains returns the domain of each variable that appears in a positive
// conjunct of the rule. If includeHead is set, the head's slots also restrict
// its variables.
//
// A variable's domain is the intersection of the domains of every slot where it
// appears, minus the constants excluded by a 'distinct' literal. A form missing
// from the model has no true sentences, so its slots have empty domains.
func VarDomains(rule *gdl.Rule, model *Model, includeHead bool) map[*gdl.Variable]Values {
	domains := make(map[*gdl.Variable]Values)
	restrict := func(s gdl.Sentence) {
		d, ok := model.Lookup(gdl.FormOf(s))
		for i, term := range gdl.Tuple(s) {
			x, isVar := term.(*gdl.Variable)
			if !isVar {
				continue
			}
			slot := Values{}
			if ok {
				slot = d.Slot(i)
			}
			if prev, seen := domains[x]; seen {
				domains[x] = prev.Intersect(slot)
			} else {
				domains[x] = slot
			}
		}
	}
	for _, s := range rule.PositiveConjuncts() {
		restrict(s)
	}
	if includeHead {
		safe := make(map[*gdl.Variable]bool)
		for x := range domains {
			safe[x] = true
		}
		restrict(rule.Head)
		for x := range domains {
			if !safe[x] {
				delete(domains, x)
			}
		}
	}
	for _, literal := range rule.Body {
		d, ok := literal.(*gdl.Distinct)
		if !ok {
			continue
		}
		x1, isVar1 := d.Arg1.(*gdl.Variable)
		x2, isVar2 := d.Arg2.(*gdl.Variable)
		c1, isConst1 := d.Arg1.(*gdl.Constant)
		c2, isConst2 := d.Arg2.(*gdl.Constant)
		if isVar1 && isConst2 {
			if vs, ok := domains[x1]; ok {
				domains[x1] = vs.Without(c2)
			}
		}
		if isVar2 && isConst1 {
			if vs, ok := domains[x2]; ok {
				domains[x2] = vs.Without(c1)
			}
		}
	}
	return domains
}
