package memory

import (
	"strconv"
	"sync"
)

// Sequence hands out surrogate keys. One instance is shared by every
// repository so ids stay unique across entity kinds, which makes wiring
// mistakes in tests fail loudly instead of aliasing.
type Sequence struct {
	mu   sync.Mutex
	next int64
}

func NewSequence() *Sequence {
	return &Sequence{}
}

func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

func naturalKey(source string, sourceID int64) string {
	return source + "|" + strconv.FormatInt(sourceID, 10)
}
