package random

import "math/rand/v2"

// Random picks the letters a bag deals and the seat a dice roll lands on
type Random interface {
	// Intn returns an int in [0, n); n <= 0 yields 0
	Intn(n int) int
}

// Source draws from the runtime's randomly seeded ChaCha8 generator, which
// is safe for concurrent sessions
type Source struct{}

// New returns the process-wide source
func New() Source {
	return Source{}
}

func (Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}
