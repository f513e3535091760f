package state

import "github.com/google/uuid"

// sequence hands out increasing numbers for stroke ids and history entries.
// Boards are driven from a single goroutine, so no atomics are needed.
type sequence struct {
	counter uint64
}

func (s *sequence) next() uint64 {
	s.counter++
	return s.counter
}

func newSessionID() string {
	return uuid.NewString()
}
