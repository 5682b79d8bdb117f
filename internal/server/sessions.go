package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/tweetsense/internal/searchlog"
)

const SESSION_SWEEP_INTERVAL = time.Minute

type session struct {
	log      *searchlog.SearchLog
	lastSeen time.Time
}

// SessionStore hands every browser session its own search log. Sessions
// idle for longer than idleTTL are swept, and once maxSessions is reached
// the least recently used one is evicted to make room.
type SessionStore struct {
	mu          sync.Mutex
	sessions    map[string]*session
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time
}

func NewSessionStore(idleTTL time.Duration, maxSessions int) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*session),
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		now:         time.Now,
	}
}

// Lookup returns the log of an existing session. It never creates one.
func (s *SessionStore) Lookup(id string) (*searchlog.SearchLog, bool) {
	if id == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.log, true
}

// Add registers log under a new session id and returns that id.
func (s *SessionStore) Add(log *searchlog.SearchLog) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldest()
	}

	id := uuid.NewString()
	s.sessions[id] = &session{log: log, lastSeen: s.now()}
	slog.Debug("[SessionStore] Started session",
		slog.String("session_id", id),
		slog.Int("sessions", len(s.sessions)))

	return id
}

func (s *SessionStore) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, sess := range s.sessions {
		if oldestID == "" || sess.lastSeen.Before(oldest) {
			oldestID, oldest = id, sess.lastSeen
		}
	}
	delete(s.sessions, oldestID)
	slog.Warn("[SessionStore] Session cap reached, evicted least recently used",
		slog.Int("max_sessions", s.maxSessions))
}

// Sweep drops sessions idle for longer than the TTL and reports how many.
func (s *SessionStore) Sweep() int {
	if s.idleTTL <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		slog.Info("[SessionStore] Swept idle sessions",
			slog.Int("removed", removed),
			slog.Int("remaining", len(s.sessions)))
	}
	return removed
}

func (s *SessionStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
