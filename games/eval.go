package games

import (
	"context"
	"log/slog"

	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/gdl"
	"github.com/brunokim/gdl-engine/reasoner"
)

// Evaluator computes the closure of a game's rules.
type Evaluator struct {
	Pool   *gdl.Pool
	Config reasoner.Config
	Logger *slog.Logger
}

// Evaluate returns every sentence derivable from the game's facts.
//
// Rules deriving constant forms are evaluated first. Their results complete
// the constant sentences used by the legacy planner to enumerate conjuncts,
// and the remaining rules are then compiled with the configured planner.
func (e Evaluator) Evaluate(ctx context.Context, g *Game) (*reasoner.SentenceSet, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	config := e.Config
	if config.Planner == "" {
		config.Planner = reasoner.DefaultConfig().Planner
	}
	r := reasoner.New(e.Pool, reasoner.WithConfig(config), reasoner.WithLogger(logger))
	model := domain.Infer(g.Rules, g.Facts)
	constantForms := domain.ConstantForms(g.Rules, g.Facts, g.Changing...)
	isConstant := make(map[gdl.Form]bool)
	for _, form := range constantForms {
		isConstant[form] = true
	}
	var static, dynamic []*gdl.Rule
	for _, rule := range g.Rules {
		if isConstant[gdl.FormOf(rule.Head)] {
			static = append(static, rule)
		} else {
			dynamic = append(dynamic, rule)
		}
	}
	logger.Info("evaluating game",
		"game", g.Name,
		"planner", config.Planner,
		"static_rules", len(static),
		"dynamic_rules", len(dynamic))

	factory, err := reasoner.NewFactory(config.Planner, model, nil, logger)
	if err != nil {
		return nil, err
	}
	facts, err := r.Closure(ctx, factory, static, reasoner.NewSentenceSet(g.Facts...))
	if err != nil {
		return nil, err
	}

	constants := domain.NewConstants(constantForms...)
	constants.Add(facts.All()...)
	factory, err = reasoner.NewFactory(config.Planner, model, constants, logger)
	if err != nil {
		return nil, err
	}
	all, err := r.Closure(ctx, factory, dynamic, facts)
	if err != nil {
		return nil, err
	}
	logger.Info("fixpoint reached", "game", g.Name, "sentences", all.Len())
	return all, nil
}
