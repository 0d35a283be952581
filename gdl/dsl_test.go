package gdl_test

import (
	"github.com/brunokim/gdl-engine/dsl"
	"github.com/brunokim/gdl-engine/gdl"
)

var (
	pool = gdl.NewPool()
	b    = dsl.New(pool)

	const_   = b.Const
	var_     = b.Var
	fn       = b.Fn
	prop     = b.Prop
	rel      = b.Rel
	not      = b.Not
	distinct = b.Distinct
	or       = b.Or
	rule     = b.Rule
	asn      = b.Assignment
)
