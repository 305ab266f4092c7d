package internal

import "iter"

// Transcript is the ordered, append-only log of turns for one session.
// Turns already appended are never written again: Append only grows the
// slice, while ReplaceAll and Clear swap it for a new one. That is what lets
// Snapshot share the backing array.
type Transcript struct {
	turns []Turn
}

// NewTranscript creates an empty transcript
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a turn at the end
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// ReplaceAll swaps the whole sequence for a copy of turns
func (t *Transcript) ReplaceAll(turns []Turn) {
	t.turns = append([]Turn(nil), turns...)
}

// Clear empties the transcript
func (t *Transcript) Clear() {
	t.turns = nil
}

// Len returns the number of turns
func (t *Transcript) Len() int {
	return len(t.turns)
}

// Snapshot returns a read-only view of the current turns
func (t *Transcript) Snapshot() Snapshot {
	n := len(t.turns)
	return Snapshot{turns: t.turns[:n:n]}
}

// Snapshot is an immutable view of a transcript at one point in time
type Snapshot struct {
	turns []Turn
}

// Len returns the number of turns in the snapshot
func (s Snapshot) Len() int {
	return len(s.turns)
}

// At returns the turn at position i
func (s Snapshot) At(i int) Turn {
	return s.turns[i]
}

// Last returns the final turn, if any
func (s Snapshot) Last() (Turn, bool) {
	if len(s.turns) == 0 {
		return Turn{}, false
	}
	return s.turns[len(s.turns)-1], true
}

// All yields the turns in order. It can be ranged over any number of times.
func (s Snapshot) All() iter.Seq2[int, Turn] {
	return func(yield func(int, Turn) bool) {
		for i, turn := range s.turns {
			if !yield(i, turn) {
				return
			}
		}
	}
}

// Turns returns a copy of the turns
func (s Snapshot) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}
