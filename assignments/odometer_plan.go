package assignments

import (
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/gdl"
	"github.com/brunokim/gdl-engine/odometer"
)

// OdometerPlan enumerates the Cartesian product of its variables' domains.
type OdometerPlan struct {
	vars     []*gdl.Variable
	varIndex map[*gdl.Variable]int
	domains  [][]*gdl.Constant
}

// NewOdometerPlan returns a naive plan over the domains of each variable.
// The first variable changes fastest.
func NewOdometerPlan(vars []*gdl.Variable, domains []domain.Values) Plan {
	if len(vars) == 0 {
		return SingletonPlan{}
	}
	p := &OdometerPlan{
		vars:     vars,
		varIndex: make(map[*gdl.Variable]int),
		domains:  make([][]*gdl.Constant, len(vars)),
	}
	for i, x := range vars {
		if len(domains[i]) == 0 {
			return EmptyPlan{Vars: vars}
		}
		p.varIndex[x] = i
		p.domains[i] = domains[i]
	}
	return p
}

func (p *OdometerPlan) Variables() []*gdl.Variable { return p.vars }

func (p *OdometerPlan) Iterator() Iterator {
	return p.PinnedIterator(nil)
}

func (p *OdometerPlan) PinnedIterator(pins gdl.Assignment) Iterator {
	values := p.domains
	if len(pins) > 0 {
		values = make([][]*gdl.Constant, len(p.domains))
		copy(values, p.domains)
		for x, c := range pins {
			idx, ok := p.varIndex[x]
			if !ok {
				continue
			}
			if !domain.Values(p.domains[idx]).Contains(c) {
				return emptyIterator{}
			}
			values[idx] = []*gdl.Constant{c}
		}
	}
	o, err := odometer.New(values)
	if err != nil {
		// Domains were checked at construction.
		panic(err)
	}
	return &odometerIterator{plan: p, odometer: o}
}

type odometerIterator struct {
	plan     *OdometerPlan
	odometer *odometer.Odometer[*gdl.Constant]
}

func (it *odometerIterator) HasNext() bool {
	return it.odometer.HasNext()
}

func (it *odometerIterator) Next() gdl.Assignment {
	tuple := it.odometer.Next()
	asn := make(gdl.Assignment, len(tuple))
	for i, c := range tuple {
		asn[it.plan.vars[i]] = c
	}
	return asn
}

// SkipForward skips past the value of the literal's lowest variable, if every
// variable of the literal still has the value it had in asn. Upcoming
// assignments keep the values of higher slots until the lowest one changes. When
// the lowest slot is 0, it already changed in the last call to Next.
func (it *odometerIterator) SkipForward(literals []gdl.Literal, asn gdl.Assignment) {
	for _, literal := range literals {
		if !it.odometer.HasNext() {
			return
		}
		minIdx := -1
		agrees := true
		for _, x := range gdl.Vars(literal) {
			idx, ok := it.plan.varIndex[x]
			if !ok {
				continue
			}
			if it.odometer.Value(idx) != asn[x] {
				agrees = false
			}
			if minIdx < 0 || idx < minIdx {
				minIdx = idx
			}
		}
		if agrees && minIdx > 0 {
			it.odometer.SkipPastValueInSlot(minIdx, asn[it.plan.vars[minIdx]])
		}
	}
}
