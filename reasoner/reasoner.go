// Package reasoner derives the consequences of GDL rules by forward chaining.
//
// Each rule is compiled once into a plan, which enumerates candidate
// assignments for its variables. An assignment that satisfies every body
// literal produces a ground instance of the rule's head. Fixpoint repeats this
// in semi-naive rounds: after the first round, only assignments that match a
// sentence derived in the previous round are considered.
package reasoner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brunokim/gdl-engine/assignments"
	"github.com/brunokim/gdl-engine/errors"
	"github.com/brunokim/gdl-engine/gdl"
)

// CompiledRule is a rule with its plan.
type CompiledRule struct {
	Rule     *gdl.Rule
	Plan     assignments.Plan
	HeadForm gdl.Form
	// Forms mentioned within 'or' literals.
	orForms map[gdl.Form]bool
}

// Compile creates a plan for rule with factory.
func Compile(rule *gdl.Rule, factory assignments.Factory) (*CompiledRule, error) {
	plan, err := factory.Plan(rule)
	if err != nil {
		return nil, err
	}
	c := &CompiledRule{
		Rule:     rule,
		Plan:     plan,
		HeadForm: gdl.FormOf(rule.Head),
	}
	for _, literal := range rule.Body {
		if or, ok := literal.(*gdl.Or); ok {
			if c.orForms == nil {
				c.orForms = make(map[gdl.Form]bool)
			}
			for _, s := range orSentences(or, nil) {
				c.orForms[gdl.FormOf(s)] = true
			}
		}
	}
	return c, nil
}

// CompileAll compiles every rule with factory.
func CompileAll(rules []*gdl.Rule, factory assignments.Factory) ([]*CompiledRule, error) {
	compiled := make([]*CompiledRule, len(rules))
	for i, rule := range rules {
		c, err := Compile(rule, factory)
		if err != nil {
			return nil, err
		}
		compiled[i] = c
	}
	return compiled, nil
}

func orSentences(or *gdl.Or, ss []gdl.Sentence) []gdl.Sentence {
	for _, literal := range or.Disjuncts {
		switch l := literal.(type) {
		case gdl.Sentence:
			ss = append(ss, l)
		case *gdl.Not:
			ss = append(ss, l.Body)
		case *gdl.Or:
			ss = orSentences(l, ss)
		}
	}
	return ss
}

// Reasoner evaluates compiled rules against sets of known sentences.
type Reasoner struct {
	pool   *gdl.Pool
	config Config
	logger *slog.Logger
}

// Option configures a Reasoner.
type Option func(*Reasoner)

// WithLogger sets the logger for round statistics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reasoner) { r.logger = logger }
}

// WithConfig sets the reasoner's configuration. Unset fields take their default.
func WithConfig(config Config) Option {
	return func(r *Reasoner) { r.config = config.withDefaults() }
}

// New returns a reasoner that creates sentences in pool.
func New(pool *gdl.Pool, opts ...Option) *Reasoner {
	r := &Reasoner{
		pool:   pool,
		config: DefaultConfig(),
		logger: slog.New(discardHandler{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ---- Rule evaluation

func canceled(rule *gdl.Rule, err error) error {
	return errors.New("evaluating %v: %v", rule, err)
}

// holds returns whether a literal is true for asn in known.
func (r *Reasoner) holds(literal gdl.Literal, asn gdl.Assignment, known *SentenceSet) bool {
	switch l := literal.(type) {
	case gdl.Sentence:
		return known.Contains(r.pool.Substitute(l, asn))
	case *gdl.Not:
		return !known.Contains(r.pool.Substitute(l.Body, asn))
	case *gdl.Distinct:
		return r.pool.SubstituteTerm(l.Arg1, asn) != r.pool.SubstituteTerm(l.Arg2, asn)
	case *gdl.Or:
		for _, disjunct := range l.Disjuncts {
			if r.holds(disjunct, asn, known) {
				return true
			}
		}
		return false
	default:
		panic(fmt.Sprintf("reasoner.holds: unhandled type %T (%v)", literal, literal))
	}
}

// evaluate derives the heads of every assignment yielded by it that satisfies
// the rule's body. After a literal fails, it skips the assignments that would
// fail the same way. After a head is derived, it skips the assignments that
// would derive the same head.
func (r *Reasoner) evaluate(ctx context.Context, rule *CompiledRule, it assignments.Iterator, known, results *SentenceSet) error {
	for it.HasNext() {
		if err := ctx.Err(); err != nil {
			return canceled(rule.Rule, err)
		}
		asn := it.Next()
		var failed gdl.Literal
		for _, literal := range rule.Rule.Body {
			if err := ctx.Err(); err != nil {
				return canceled(rule.Rule, err)
			}
			if !r.holds(literal, asn, known) {
				failed = literal
				break
			}
		}
		if failed != nil {
			it.SkipForward([]gdl.Literal{failed}, asn)
			continue
		}
		results.Add(r.pool.Substitute(rule.Rule.Head, asn))
		it.SkipForward([]gdl.Literal{rule.Rule.Head}, asn)
	}
	return nil
}

// RuleResults returns the heads derived from every assignment of the rule
// that is satisfied by known.
func (r *Reasoner) RuleResults(ctx context.Context, rule *CompiledRule, known *SentenceSet) (*SentenceSet, error) {
	results := NewSentenceSet()
	if err := r.evaluate(ctx, rule, rule.Plan.Iterator(), known, results); err != nil {
		return nil, err
	}
	return results, nil
}

// RuleResultsForNewSentences returns the heads derived from assignments where
// some positive conjunct matches a sentence in delta. All must contain delta.
//
// Rules where an 'or' literal mentions a form in delta are fully evaluated.
func (r *Reasoner) RuleResultsForNewSentences(ctx context.Context, rule *CompiledRule, all, delta *SentenceSet) (*SentenceSet, error) {
	for _, form := range delta.Forms() {
		if rule.orForms[form] {
			return r.RuleResults(ctx, rule, all)
		}
	}
	results := NewSentenceSet()
	for _, s := range rule.Rule.PositiveConjuncts() {
		for _, t := range delta.Sentences(gdl.FormOf(s)) {
			if err := ctx.Err(); err != nil {
				return nil, canceled(rule.Rule, err)
			}
			pins, ok := gdl.Match(s, t)
			if !ok {
				continue
			}
			if err := r.evaluate(ctx, rule, rule.Plan.PinnedIterator(pins), all, results); err != nil {
				return nil, err
			}
		}
	}
	return results, nil
}

// ---- Fixpoint

// Fixpoint returns facts plus every sentence derivable from them by rules.
//
// Negated forms must not be derivable by rules, or must be complete in facts,
// as in a stratum returned by Stratify.
func (r *Reasoner) Fixpoint(ctx context.Context, rules []*CompiledRule, facts *SentenceSet) (*SentenceSet, error) {
	all := facts.Clone()
	delta := NewSentenceSet()
	for _, rule := range rules {
		results, err := r.RuleResults(ctx, rule, all)
		if err != nil {
			return nil, err
		}
		delta.Merge(results.Difference(all))
	}
	for round := 1; delta.Len() > 0; round++ {
		if round > r.config.MaxRounds {
			return nil, errors.New("%v: %d rounds, %d sentences pending", errors.MaxRounds, r.config.MaxRounds, delta.Len())
		}
		all.Merge(delta)
		r.logger.Debug("fixpoint round", "round", round, "new", delta.Len(), "total", all.Len())
		next := NewSentenceSet()
		for _, rule := range rules {
			results, err := r.RuleResultsForNewSentences(ctx, rule, all, delta)
			if err != nil {
				return nil, err
			}
			next.Merge(results.Difference(all))
		}
		delta = next
	}
	return all, nil
}

// Closure compiles rules with factory and computes their fixpoint from facts,
// one stratum at a time.
func (r *Reasoner) Closure(ctx context.Context, factory assignments.Factory, rules []*gdl.Rule, facts *SentenceSet) (*SentenceSet, error) {
	strata, err := Stratify(rules)
	if err != nil {
		return nil, err
	}
	all := facts
	for i, stratum := range strata {
		compiled, err := CompileAll(stratum, factory)
		if err != nil {
			return nil, err
		}
		r.logger.Debug("stratum", "index", i, "rules", len(stratum))
		all, err = r.Fixpoint(ctx, compiled, all)
		if err != nil {
			return nil, err
		}
	}
	if len(strata) == 0 {
		return facts.Clone(), nil
	}
	return all, nil
}
