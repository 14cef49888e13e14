package treadle

import "github.com/aretw0/treadle/pkg/action"

// Aliases so that simple hosts only import this package and pkg/action's
// constructors.

// Action is a typed, single-use unit of work.
type Action[I, O any] = action.Action[I, O]

// Seed is a reusable Action factory.
type Seed[I, O any] = action.Seed[I, O]

// Unit is the empty input/output type.
type Unit = action.Unit
