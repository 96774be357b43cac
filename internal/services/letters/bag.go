package letters

import (
	"github.com/mcoot/spellfight/internal/dependencies/random"
	"github.com/mcoot/spellfight/internal/model"
)

// alphabet is the static tile table, valued like a standard tile-scoring scheme
var alphabet = []model.Letter{
	{Letter: 'A', Value: 1},
	{Letter: 'B', Value: 3},
	{Letter: 'C', Value: 3},
	{Letter: 'D', Value: 2},
	{Letter: 'E', Value: 1},
	{Letter: 'F', Value: 4},
	{Letter: 'G', Value: 2},
	{Letter: 'H', Value: 2},
	{Letter: 'I', Value: 1},
	{Letter: 'J', Value: 8},
	{Letter: 'K', Value: 5},
	{Letter: 'L', Value: 1},
	{Letter: 'M', Value: 3},
	{Letter: 'N', Value: 1},
	{Letter: 'O', Value: 1},
	{Letter: 'P', Value: 3},
	{Letter: 'Q', Value: 10},
	{Letter: 'R', Value: 1},
	{Letter: 'S', Value: 1},
	{Letter: 'T', Value: 1},
	{Letter: 'U', Value: 1},
	{Letter: 'V', Value: 4},
	{Letter: 'W', Value: 4},
	{Letter: 'X', Value: 8},
	{Letter: 'Y', Value: 4},
	{Letter: 'Z', Value: 10},
}

// Alphabet returns a copy of the tile table
func Alphabet() []model.Letter {
	out := make([]model.Letter, len(alphabet))
	copy(out, alphabet)
	return out
}

// Bag draws and scores letters. It holds no game state and is safe for
// concurrent use as long as its Random is.
type Bag struct {
	random random.Random
}

// NewBag creates a new Bag
func NewBag(rnd random.Random) *Bag {
	return &Bag{random: rnd}
}

// Draw returns n letters sampled uniformly without replacement from the
// alphabet. It returns the whole alphabet (shuffled) if n exceeds its size.
func (b *Bag) Draw(n int) model.Rack {
	if n <= 0 {
		return model.Rack{}
	}
	pool := Alphabet()
	if n > len(pool) {
		n = len(pool)
	}

	// Partial Fisher-Yates: the first n slots end up as the sample
	for i := 0; i < n; i++ {
		j := i + b.random.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return model.Rack(pool[:n])
}

// Refill tops the rack back up to size with freshly drawn letters
func (b *Bag) Refill(rack model.Rack, size int) model.Rack {
	out := rack.Clone()
	if missing := size - len(out); missing > 0 {
		out = append(out, b.Draw(missing)...)
	}
	return out
}

// Score sums the point values of the word's letters, case-insensitively.
// A word with any character outside the alphabet scores 0.
func Score(word string) int {
	sum := 0
	for _, c := range word {
		l, ok := lookup(c)
		if !ok {
			return 0
		}
		sum += l.Value
	}
	return sum
}

// HasLetters reports whether every character of word can be matched to a
// distinct tile of rack. Matching is case-insensitive and each occurrence
// in the word consumes its own tile.
func HasLetters(rack model.Rack, word string) bool {
	_, ok := spend(rack, word)
	return ok
}

// Spend removes one tile per character of word from the rack. Characters
// with no matching tile are skipped.
func Spend(rack model.Rack, word string) model.Rack {
	out, _ := spend(rack, word)
	return out
}

func spend(rack model.Rack, word string) (model.Rack, bool) {
	remaining := rack.Clone()
	complete := true
	for _, c := range word {
		idx := indexOf(remaining, c)
		if idx < 0 {
			complete = false
			continue
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return remaining, complete
}

func indexOf(rack model.Rack, c rune) int {
	want := upper(c)
	for i, l := range rack {
		if upper(l.Letter) == want {
			return i
		}
	}
	return -1
}

func lookup(c rune) (model.Letter, bool) {
	want := upper(c)
	for _, l := range alphabet {
		if l.Letter == want {
			return l, true
		}
	}
	return model.Letter{}, false
}

// upper folds ASCII lowercase only, so that no non-ASCII rune maps onto the alphabet
func upper(c rune) rune {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
