package reasoner

import (
	"github.com/brunokim/gdl-engine/gdl"
)

// SentenceSet is a set of ground sentences grouped by form. Iteration follows
// insertion order.
type SentenceSet struct {
	forms     []gdl.Form
	sentences map[gdl.Form][]gdl.Sentence
	members   map[gdl.Sentence]struct{}
}

// NewSentenceSet returns a set with ss.
func NewSentenceSet(ss ...gdl.Sentence) *SentenceSet {
	set := &SentenceSet{
		sentences: make(map[gdl.Form][]gdl.Sentence),
		members:   make(map[gdl.Sentence]struct{}),
	}
	set.Add(ss...)
	return set
}

// Add inserts sentences into the set, and returns how many were new.
func (set *SentenceSet) Add(ss ...gdl.Sentence) int {
	var n int
	for _, s := range ss {
		if _, ok := set.members[s]; ok {
			continue
		}
		set.members[s] = struct{}{}
		form := gdl.FormOf(s)
		if _, ok := set.sentences[form]; !ok {
			set.forms = append(set.forms, form)
		}
		set.sentences[form] = append(set.sentences[form], s)
		n++
	}
	return n
}

func (set *SentenceSet) Contains(s gdl.Sentence) bool {
	_, ok := set.members[s]
	return ok
}

// Sentences returns the sentences of a form. The result must not be modified.
func (set *SentenceSet) Sentences(form gdl.Form) []gdl.Sentence {
	return set.sentences[form]
}

// Forms returns the forms with at least one sentence, in insertion order.
func (set *SentenceSet) Forms() []gdl.Form {
	return set.forms
}

func (set *SentenceSet) Len() int {
	return len(set.members)
}

// All returns every sentence, grouped by form.
func (set *SentenceSet) All() []gdl.Sentence {
	ss := make([]gdl.Sentence, 0, len(set.members))
	for _, form := range set.forms {
		ss = append(ss, set.sentences[form]...)
	}
	return ss
}

// Merge adds every sentence of other, and returns how many were new.
func (set *SentenceSet) Merge(other *SentenceSet) int {
	var n int
	for _, form := range other.forms {
		n += set.Add(other.sentences[form]...)
	}
	return n
}

// Difference returns the sentences of set that are not in other.
func (set *SentenceSet) Difference(other *SentenceSet) *SentenceSet {
	result := NewSentenceSet()
	for _, s := range set.All() {
		if !other.Contains(s) {
			result.Add(s)
		}
	}
	return result
}

func (set *SentenceSet) Clone() *SentenceSet {
	return NewSentenceSet(set.All()...)
}
