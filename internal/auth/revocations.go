package auth

import (
	"sync"
	"time"
)

// revocations remembers signed-out token ids until the tokens would have
// expired. It has no size bound; an entry leaves only once its token is dead.
type revocations struct {
	mu  sync.Mutex
	ids map[string]time.Time
	now func() time.Time
}

func newRevocations(now func() time.Time) *revocations {
	return &revocations{ids: make(map[string]time.Time), now: now}
}

func (r *revocations) Add(id string, expiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = expiresAt
}

func (r *revocations) Revoked(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[id]
	return ok
}

// CleanExpired drops ids whose tokens have expired. It satisfies cache.Cleaner.
func (r *revocations) CleanExpired() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for id, exp := range r.ids {
		if !now.Before(exp) {
			delete(r.ids, id)
			n++
		}
	}
	return n
}

func (r *revocations) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ids)
}
