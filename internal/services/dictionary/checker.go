package dictionary

import "context"

// Checker answers whether a word exists. Implementations fail closed: any
// lookup failure reports false. Safe for concurrent use.
type Checker interface {
	Exists(ctx context.Context, word string) bool
}

// CheckerFunc adapts a plain function to a Checker
type CheckerFunc func(ctx context.Context, word string) bool

func (f CheckerFunc) Exists(ctx context.Context, word string) bool {
	return f(ctx, word)
}

// AnyOf reports a word as existing if any checker confirms it. Checkers are
// asked in order and later ones are skipped once one confirms.
type AnyOf []Checker

func (a AnyOf) Exists(ctx context.Context, word string) bool {
	for _, c := range a {
		if c.Exists(ctx, word) {
			return true
		}
	}
	return false
}
