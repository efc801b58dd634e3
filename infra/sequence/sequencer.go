package sequence

import "sync/atomic"

// Sequencer allocates globally unique, strictly increasing order ids.
// Ids start at 1 and are never reused; allocation is a single atomic
// increment shared by all submitters.
type Sequencer struct {
	next atomic.Uint64
}

func New() *Sequencer {
	return &Sequencer{}
}

// Next returns the next order id.
func (s *Sequencer) Next() uint64 {
	return s.next.Add(1)
}

// Current returns the last issued id, 0 if none was issued yet.
func (s *Sequencer) Current() uint64 {
	return s.next.Load()
}
