package domain_test

import (
	"github.com/brunokim/gdl-engine/domain"
	"github.com/brunokim/gdl-engine/dsl"
	"github.com/brunokim/gdl-engine/gdl"
)

var (
	pool = gdl.NewPool()
	b    = dsl.New(pool)

	rel      = b.Rel
	fn       = b.Fn
	var_     = b.Var
	not      = b.Not
	distinct = b.Distinct
	rule     = b.Rule
	rules    = dsl.Rules
)

func values(names ...string) domain.Values {
	return domain.NewValues(b.Consts(names...)...)
}
