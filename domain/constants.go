package domain

import (
	"sort"

	"github.com/brunokim/gdl-engine/gdl"
)

// Constants holds the true sentences of forms that never change during a game.
type Constants struct {
	forms     map[gdl.Form]bool
	sentences map[gdl.Form][]gdl.Sentence
	seen      map[gdl.Sentence]bool
}

// NewConstants returns an empty set of sentences for the given constant forms.
func NewConstants(forms ...gdl.Form) *Constants {
	c := &Constants{
		forms:     make(map[gdl.Form]bool),
		sentences: make(map[gdl.Form][]gdl.Sentence),
		seen:      make(map[gdl.Sentence]bool),
	}
	for _, form := range forms {
		c.forms[form] = true
	}
	return c
}

// Add records a true sentence. Sentences of non-constant forms are ignored.
func (c *Constants) Add(sentences ...gdl.Sentence) {
	for _, s := range sentences {
		form := gdl.FormOf(s)
		if !c.forms[form] || c.seen[s] {
			continue
		}
		c.seen[s] = true
		c.sentences[form] = append(c.sentences[form], s)
	}
}

func (c *Constants) IsConstant(form gdl.Form) bool {
	return c.forms[form]
}

// TrueSentences returns the sentences of a constant form, in insertion order.
func (c *Constants) TrueSentences(form gdl.Form) []gdl.Sentence {
	return c.sentences[form]
}

// Forms returns the constant forms, sorted by shape.
func (c *Constants) Forms() []gdl.Form {
	var forms []gdl.Form
	for form := range c.forms {
		forms = append(forms, form)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Shape < forms[j].Shape })
	return forms
}

// Functions returns the function info of every constant form.
func (c *Constants) Functions() map[gdl.Form]*FunctionInfo {
	m := make(map[gdl.Form]*FunctionInfo)
	for form := range c.forms {
		m[form] = NewFunctionInfo(form, c.sentences[form])
	}
	return m
}

// ConstantForms returns the forms whose truth doesn't depend on the sentences
// named by changing, like 'true' and 'does'. A rule head is changing if any
// literal in its body mentions a changing form.
func ConstantForms(rules []*gdl.Rule, facts []gdl.Sentence, changing ...string) []gdl.Form {
	changingNames := make(map[string]bool)
	for _, name := range changing {
		changingNames[name] = true
	}
	all := make(map[gdl.Form]bool)
	isChanging := make(map[gdl.Form]bool)
	for _, s := range facts {
		all[gdl.FormOf(s)] = true
	}
	for _, rule := range rules {
		all[gdl.FormOf(rule.Head)] = true
		for _, s := range bodySentences(rule.Body, nil) {
			all[gdl.FormOf(s)] = true
		}
	}
	for form := range all {
		if changingNames[form.Name] {
			isChanging[form] = true
		}
	}
	for done := false; !done; {
		done = true
		for _, rule := range rules {
			head := gdl.FormOf(rule.Head)
			if isChanging[head] {
				continue
			}
			for _, s := range bodySentences(rule.Body, nil) {
				if isChanging[gdl.FormOf(s)] {
					isChanging[head] = true
					done = false
					break
				}
			}
		}
	}
	var forms []gdl.Form
	for form := range all {
		if !isChanging[form] {
			forms = append(forms, form)
		}
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Shape < forms[j].Shape })
	return forms
}

// bodySentences returns every sentence mentioned by literals, including negated
// and disjunct sentences.
func bodySentences(literals []gdl.Literal, ss []gdl.Sentence) []gdl.Sentence {
	for _, literal := range literals {
		switch l := literal.(type) {
		case gdl.Sentence:
			ss = append(ss, l)
		case *gdl.Not:
			ss = append(ss, l.Body)
		case *gdl.Or:
			ss = bodySentences(l.Disjuncts, ss)
		}
	}
	return ss
}
