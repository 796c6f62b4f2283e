package engine

import (
	"iter"

	"github.com/sheikhrachel/go-life/model"
)

// Outcome describes why a sequence stopped producing generations
type Outcome int

const (
	// Running means the sequence may still yield generations
	Running Outcome = iota
	// Extinct means the next generation had no live cells
	Extinct
	// Stabilized means the next generation was identical to its predecessor
	Stabilized
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Extinct:
		return "extinct"
	case Stabilized:
		return "stabilized"
	}
	return "unknown"
}

// Sequence is a lazy, single-pass stream of generations. Each call to Next computes
// one step on demand. A Sequence must not be used from multiple goroutines.
type Sequence struct {
	current    model.Generation
	generation int
	outcome    Outcome
}

// Start begins a sequence from a private copy of initial
func Start(initial model.Generation) *Sequence {
	return &Sequence{current: initial.Clone()}
}

// Next computes and returns the following generation. It returns false once the
// simulation has died out or stopped changing; the final generation is not returned.
// The returned generation is shared with the sequence and must not be modified.
func (s *Sequence) Next() (model.Generation, bool) {
	if s.outcome != Running {
		return nil, false
	}
	next, finished := Step(s.current)
	if finished {
		if next.Len() == 0 {
			s.outcome = Extinct
		} else {
			s.outcome = Stabilized
		}
		s.current = nil
		return nil, false
	}
	s.current = next
	s.generation++
	return next, true
}

// All returns the remaining generations as an iterator. Breaking out of the loop
// leaves the sequence where it stopped.
func (s *Sequence) All() iter.Seq[model.Generation] {
	return func(yield func(model.Generation) bool) {
		for {
			g, ok := s.Next()
			if !ok || !yield(g) {
				return
			}
		}
	}
}

// Outcome reports why the sequence ended, or Running while it can still advance
func (s *Sequence) Outcome() Outcome {
	return s.outcome
}

// Generation returns how many generations have been yielded so far
func (s *Sequence) Generation() int {
	return s.generation
}
