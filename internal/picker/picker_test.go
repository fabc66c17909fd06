package picker

import (
	"math/rand/v2"
	"testing"
)

func TestPickEmptyIsNoSelection(t *testing.T) {
	sel, ok := Pick(nil, &Sequence{Draws: []int{0}})
	if ok {
		t.Fatalf("expected no selection, got %+v", sel)
	}
	if sel != (Selection{}) {
		t.Fatalf("expected zero selection, got %+v", sel)
	}
}

func TestPickPairsTextWithIndex(t *testing.T) {
	active := []string{"a", "b", "c"}
	seq := &Sequence{Draws: []int{2, 0, 1}}
	for _, want := range []Selection{{"c", 2}, {"a", 0}, {"b", 1}} {
		got, ok := Pick(active, seq)
		if !ok || got != want {
			t.Fatalf("Pick = %+v, %v; want %+v", got, ok, want)
		}
	}
}

func TestPickDuplicatesAreDistinctByPosition(t *testing.T) {
	got, ok := Pick([]string{"same", "same"}, &Sequence{Draws: []int{1}})
	if !ok || got.Index != 1 || got.Text != "same" {
		t.Fatalf("unexpected selection: %+v", got)
	}
}

func TestPickClampsMisbehavingSource(t *testing.T) {
	got, ok := Pick([]string{"a", "b"}, badSource(-1))
	if !ok || got.Index != 1 {
		t.Fatalf("expected wrapped index 1, got %+v", got)
	}
}

func TestPickIsRoughlyUniform(t *testing.T) {
	active := []string{"a", "b", "c", "d"}
	rng := rand.New(rand.NewPCG(1, 2))
	counts := make([]int, len(active))
	const trials = 40000
	for i := 0; i < trials; i++ {
		sel, ok := Pick(active, rng)
		if !ok {
			t.Fatal("expected a selection")
		}
		counts[sel.Index]++
	}
	want := trials / len(active)
	for i, c := range counts {
		if c < want*9/10 || c > want*11/10 {
			t.Fatalf("index %d drawn %d times, want about %d (counts=%v)", i, c, want, counts)
		}
	}
}

type badSource int

func (b badSource) IntN(int) int { return int(b) }
