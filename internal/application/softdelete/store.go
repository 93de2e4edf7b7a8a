package softdelete

import (
	"sync"
	"time"
)

// entry is one pending undo opportunity. Entries are immutable once stored;
// they are only ever removed (by undo, by the per-token timer, or by a sweep).
type entry struct {
	token     string
	expiresAt time.Time
	meta      Metadata
	rollback  []SideEffectFunc
	timer     *time.Timer
	inFlight  bool
}

// TokenStore holds pending undo tokens in memory. Each token carries its own
// expiry timer; CleanupExpired and the optional sweep goroutine enforce expiry
// even when timers are delayed (e.g. after process suspension).
//
// The store is process-local. Rollback operations are closures over live
// state, so tokens cannot be shared across instances: undo only works against
// the instance that produced the token, within the undo window.
type TokenStore struct {
	mu        sync.Mutex
	entries   map[string]*entry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewTokenStore creates a token store. When sweepInterval is positive a
// background goroutine additionally sweeps expired entries at that interval.
func NewTokenStore(sweepInterval time.Duration) *TokenStore {
	s := &TokenStore{
		entries:  make(map[string]*entry),
		stopChan: make(chan struct{}),
	}

	if sweepInterval > 0 {
		s.wg.Add(1)
		go s.sweepLoop(sweepInterval)
	}

	return s
}

// put stores a token and arms its self-expiry timer
func (s *TokenStore) put(token string, expiresAt time.Time, meta Metadata, rollback []SideEffectFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &entry{
		token:     token,
		expiresAt: expiresAt,
		meta:      meta,
		rollback:  rollback,
	}
	e.timer = time.AfterFunc(time.Until(expiresAt), func() {
		s.expire(token)
	})
	s.entries[token] = e
}

// expire is the timer callback. It re-checks the expiry under the lock so a
// delayed timer cannot remove a token that was replaced or is still valid.
func (s *TokenStore) expire(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return
	}
	if time.Now().Before(e.expiresAt) {
		return
	}
	delete(s.entries, token)
}

// acquire looks up a token for consumption. Expired entries are removed and
// reported as absent regardless of whether their timer has fired. A token that
// is already mid-undo reads as absent, so it can be consumed at most once.
func (s *TokenStore) acquire(token string) (*entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return nil, false
	}
	if !time.Now().Before(e.expiresAt) {
		e.timer.Stop()
		delete(s.entries, token)
		return nil, false
	}
	if e.inFlight {
		return nil, false
	}
	e.inFlight = true
	return e, true
}

// release returns a token to the store after a failed undo so a retry within
// the window is possible
func (s *TokenStore) release(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[token]; ok {
		e.inFlight = false
	}
}

// remove deletes a token and cancels its timer. Returns false if the token
// was already gone.
func (s *TokenStore) remove(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.entries, token)
	return true
}

// Valid reports whether a token is present and unexpired without mutating
// the store
func (s *TokenStore) Valid(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return false
	}
	return time.Now().Before(e.expiresAt)
}

// Metadata returns the stored metadata for a token, or false if the token
// is unknown
func (s *TokenStore) Metadata(token string) (Metadata, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return nil, false
	}
	return e.meta, true
}

// CleanupExpired synchronously removes every expired token and returns the
// number removed. It is independent of the per-token timers.
func (s *TokenStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	removed := 0
	for token, e := range s.entries {
		if !now.Before(e.expiresAt) {
			e.timer.Stop()
			delete(s.entries, token)
			removed++
		}
	}
	return removed
}

// ActiveCount runs a cleanup scan first, so the count never includes stale
// entries whose timers have not yet fired
func (s *TokenStore) ActiveCount() int {
	s.CleanupExpired()

	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the sweep goroutine and cancels all pending timers.
// Safe to call multiple times.
func (s *TokenStore) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()

		s.mu.Lock()
		defer s.mu.Unlock()
		for token, e := range s.entries {
			e.timer.Stop()
			delete(s.entries, token)
		}
	})
}

// sweepLoop periodically removes expired entries
func (s *TokenStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.CleanupExpired()
		}
	}
}
