// Package games holds built-in GDL games and evaluates them to a fixpoint.
package games

import (
	"sort"

	"github.com/brunokim/gdl-engine/dsl"
	"github.com/brunokim/gdl-engine/gdl"
)

// Game is a set of rules with the facts they start from.
type Game struct {
	Name  string
	Rules []*gdl.Rule
	Facts []gdl.Sentence
	// Changing names the relations that vary between game states, like 'true'
	// and 'does'. Forms that don't depend on them are constant.
	Changing []string
}

type constructor func(pool *gdl.Pool) *Game

var registry = map[string]constructor{
	"adjacency": Adjacency,
	"tictactoe": TicTacToe,
}

// Names returns the names of the built-in games.
func Names() []string {
	var names []string
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns a built-in game with terms created in pool.
func Lookup(name string, pool *gdl.Pool) (*Game, bool) {
	ctor, ok := registry[name]
	if !ok {
		return nil, false
	}
	return ctor(pool), true
}

// Adjacency derives the ordered pairs of distinct cells.
func Adjacency(pool *gdl.Pool) *Game {
	b := dsl.New(pool)
	return &Game{
		Name: "adjacency",
		Rules: dsl.Rules(
			b.Rule(b.Rel("adjacent", "?x", "?y"),
				b.Rel("cell", "?x"),
				b.Rel("cell", "?y"),
				b.Distinct("?x", "?y")),
		),
		Facts: b.Facts("cell", 1, 2, 3),
	}
}

// TicTacToe evaluates one step of tic-tac-toe, from a board where 'x' marked
// the center and a corner and 'o' is about to mark the opposite corner.
//
//	x . o
//	. x .
//	. . .
func TicTacToe(pool *gdl.Pool) *Game {
	b := dsl.New(pool)
	true_ := func(args ...interface{}) *gdl.Relation {
		return b.Rel("true", b.Fn(args[0].(string), args[1:]...))
	}
	cell := func(m, n, x interface{}) *gdl.Relation { return true_("cell", m, n, x) }
	line := func(x interface{}) *gdl.Relation { return b.Rel("line", x) }
	goal := func(role string, score int) *gdl.Relation { return b.Rel("goal", role, score) }

	rules := dsl.Rules(
		b.Rule(b.Rel("legal", "?w", b.Fn("mark", "?x", "?y")),
			cell("?x", "?y", "b"),
			true_("control", "?w")),
		b.Rule(b.Rel("legal", "xplayer", "noop"), true_("control", "oplayer")),
		b.Rule(b.Rel("legal", "oplayer", "noop"), true_("control", "xplayer")),

		b.Rule(b.Rel("next", b.Fn("cell", "?m", "?n", "x")),
			b.Rel("does", "xplayer", b.Fn("mark", "?m", "?n")),
			cell("?m", "?n", "b")),
		b.Rule(b.Rel("next", b.Fn("cell", "?m", "?n", "o")),
			b.Rel("does", "oplayer", b.Fn("mark", "?m", "?n")),
			cell("?m", "?n", "b")),
		b.Rule(b.Rel("next", b.Fn("cell", "?m", "?n", "?w")),
			cell("?m", "?n", "?w"),
			b.Distinct("?w", "b")),
		b.Rule(b.Rel("next", b.Fn("cell", "?m", "?n", "b")),
			b.Rel("does", "?w", b.Fn("mark", "?j", "?k")),
			cell("?m", "?n", "b"),
			b.Or(b.Distinct("?m", "?j"), b.Distinct("?n", "?k"))),
		b.Rule(b.Rel("next", b.Fn("control", "xplayer")), true_("control", "oplayer")),
		b.Rule(b.Rel("next", b.Fn("control", "oplayer")), true_("control", "xplayer")),

		b.Rule(b.Rel("row", "?m", "?x"), cell("?m", 1, "?x"), cell("?m", 2, "?x"), cell("?m", 3, "?x")),
		b.Rule(b.Rel("column", "?n", "?x"), cell(1, "?n", "?x"), cell(2, "?n", "?x"), cell(3, "?n", "?x")),
		b.Rule(b.Rel("diagonal", "?x"), cell(1, 1, "?x"), cell(2, 2, "?x"), cell(3, 3, "?x")),
		b.Rule(b.Rel("diagonal", "?x"), cell(1, 3, "?x"), cell(2, 2, "?x"), cell(3, 1, "?x")),
		b.Rule(line("?x"), b.Rel("row", "?m", "?x"), b.Distinct("?x", "b")),
		b.Rule(line("?x"), b.Rel("column", "?m", "?x"), b.Distinct("?x", "b")),
		b.Rule(line("?x"), b.Rel("diagonal", "?x"), b.Distinct("?x", "b")),
		b.Rule(b.Prop("open"), cell("?m", "?n", "b")),

		b.Rule(b.Prop("terminal"), line("x")),
		b.Rule(b.Prop("terminal"), line("o")),
		b.Rule(b.Prop("terminal"), b.Not(b.Prop("open"))),

		b.Rule(goal("xplayer", 100), line("x")),
		b.Rule(goal("xplayer", 50), b.Not(line("x")), b.Not(line("o")), b.Not(b.Prop("open"))),
		b.Rule(goal("xplayer", 0), line("o")),
		b.Rule(goal("oplayer", 100), line("o")),
		b.Rule(goal("oplayer", 50), b.Not(line("x")), b.Not(line("o")), b.Not(b.Prop("open"))),
		b.Rule(goal("oplayer", 0), line("x")),
	)

	board := [3][3]string{
		{"x", "b", "o"},
		{"b", "x", "b"},
		{"b", "b", "b"},
	}
	var facts []gdl.Sentence
	facts = append(facts, b.Facts("role", "xplayer", "oplayer")...)
	for i, row := range board {
		for j, mark := range row {
			facts = append(facts, cell(i+1, j+1, mark))
		}
	}
	facts = append(facts,
		true_("control", "oplayer"),
		b.Rel("does", "xplayer", "noop"),
		b.Rel("does", "oplayer", b.Fn("mark", 3, 3)),
	)
	return &Game{
		Name:     "tictactoe",
		Rules:    rules,
		Facts:    facts,
		Changing: []string{"true", "does"},
	}
}
