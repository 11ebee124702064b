package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	roundIdleTTL     = 30 * time.Minute
	finishedRoundTTL = 5 * time.Minute
	maxRounds        = 10000
)

// registry holds the rounds in play. A round is evicted once it has been
// finished for finishedTTL, once nobody touched it for idleTTL, or when the
// registry is over capacity (least recently touched first).
type registry struct {
	mu          sync.Mutex
	sessions    map[string]*session
	now         func() time.Time
	idleTTL     time.Duration
	finishedTTL time.Duration
	capacity    int
}

func newRegistry() *registry {
	return &registry{
		sessions:    make(map[string]*session),
		now:         time.Now,
		idleTTL:     roundIdleTTL,
		finishedTTL: finishedRoundTTL,
		capacity:    maxRounds,
	}
}

// expired reports whether s is due for eviction. Caller holds reg.mu.
func (reg *registry) expired(s *session, now time.Time) bool {
	if !s.finishedAt.IsZero() && now.Sub(s.finishedAt) >= reg.finishedTTL {
		return true
	}
	return now.Sub(s.touched) >= reg.idleTTL
}

func (reg *registry) get(id string) (*session, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	s, ok := reg.sessions[id]
	if !ok {
		return nil, false
	}
	now := reg.now()
	if reg.expired(s, now) {
		delete(reg.sessions, id)
		return nil, false
	}
	s.touched = now
	return s, true
}

func (reg *registry) put(s *session) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	now := reg.now()
	s.touched = now
	reg.sessions[s.id] = s
	reg.sweepLocked(now)
	for len(reg.sessions) > reg.capacity {
		reg.evictOldestLocked()
	}
}

func (reg *registry) drop(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.sessions, id)
}

// finished starts the grace period after which a won or lost round goes away.
func (reg *registry) finished(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if s, ok := reg.sessions[id]; ok && s.finishedAt.IsZero() {
		s.finishedAt = reg.now()
	}
}

func (reg *registry) size() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.sessions)
}

func (reg *registry) sweep() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.sweepLocked(reg.now())
}

func (reg *registry) sweepLocked(now time.Time) {
	for id, s := range reg.sessions {
		if reg.expired(s, now) {
			delete(reg.sessions, id)
		}
	}
}

func (reg *registry) evictOldestLocked() {
	var oldest *session
	for _, s := range reg.sessions {
		if oldest == nil || s.touched.Before(oldest.touched) {
			oldest = s
		}
	}
	if oldest != nil {
		delete(reg.sessions, oldest.id)
	}
}

// SweepRounds evicts stale rounds every interval until ctx is done.
func (s *Server) SweepRounds(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.rounds.sweep()
		}
	}
}

// logins maps the opaque token in the "session" cookie to a player name.
// Only tokens handed out by LoginHandler resolve, so the cookie value alone
// cannot name a player.
type logins struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func newLogins() *logins {
	return &logins{tokens: make(map[string]string)}
}

func (l *logins) open(player string) string {
	token := uuid.NewString()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[token] = player
	return token
}

func (l *logins) lookup(token string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tokens[token]
}

func (l *logins) close(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.tokens, token)
}
