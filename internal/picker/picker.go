// Package picker chooses the todo currently in focus.
package picker

// RandomSource draws a uniform index in [0, n). *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// Selection is a todo shown to the user together with its position in the
// active list at the moment it was drawn.
type Selection struct {
	Text  string
	Index int
}

// Pick draws one entry of active uniformly at random. The second result is
// false when active is empty; that is the normal "nothing to do" state.
func Pick(active []string, rng RandomSource) (Selection, bool) {
	if len(active) == 0 {
		return Selection{}, false
	}
	i := rng.IntN(len(active))
	if i < 0 || i >= len(active) {
		i = ((i % len(active)) + len(active)) % len(active)
	}
	return Selection{Text: active[i], Index: i}, true
}

// Sequence replays fixed draws, wrapping around. Useful for deterministic hosts and tests.
type Sequence struct {
	Draws []int
	next  int
}

func (s *Sequence) IntN(n int) int {
	if len(s.Draws) == 0 || n <= 0 {
		return 0
	}
	v := s.Draws[s.next%len(s.Draws)]
	s.next++
	return v % n
}
