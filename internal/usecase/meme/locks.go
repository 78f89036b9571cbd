package meme

import "sync"

const lockStripes = 64

// stripedLock serializes work per record id with a fixed set of mutexes.
// Distinct ids may share a stripe; that only costs concurrency.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) lock(id int64) func() {
	mu := &l.stripes[uint64(id)%lockStripes]
	mu.Lock()
	return mu.Unlock
}
