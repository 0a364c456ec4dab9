package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"unihealth-admin/internal/affiliation"
	"unihealth-admin/internal/console"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for console sessions, followed by the login session id
	RedisConsoleSessionKeyPrefix = "console_session:"

	// Timeout for individual Redis operations
	consoleSessionTimeout = 5 * time.Second

	// Interval for cleaning up stale mutexes
	mutexCleanupInterval = 10 * time.Minute

	// How long a mutex must be unused before cleanup
	mutexStaleThreshold = 10 * time.Minute
)

// DialogSession is the affiliation dialog of a console session, bound to one doctor
type DialogSession struct {
	DoctorID uuid.UUID            `json:"doctor_id"`
	Snapshot affiliation.Snapshot `json:"snapshot"`
}

// ConsoleSession is everything the console remembers between requests of one login
type ConsoleSession struct {
	Shell     console.State  `json:"shell"`
	Dialog    *DialogSession `json:"dialog,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ConsoleSessionStore keeps console sessions keyed by login session id.
// Update serializes changes to the same session.
type ConsoleSessionStore interface {
	// Find returns nil when the session does not exist yet
	Find(ctx context.Context, sessionID string) (*ConsoleSession, error)
	// Update loads the session (a zero session when absent), applies fn and
	// saves the result. Nothing is saved when fn fails.
	Update(ctx context.Context, sessionID string, fn func(session *ConsoleSession) error) (*ConsoleSession, error)
	Delete(ctx context.Context, sessionID string) error
	Stop()
}

// RedisConsoleSessionStore stores sessions as JSON with a sliding TTL.
//
// Lock ordering: the session mutex is acquired before any Redis call.
type RedisConsoleSessionStore struct {
	redisClient *redis.Client
	log         *logrus.Logger
	ttl         time.Duration

	// Per-session mutex for concurrent safety
	sessionMu sync.Map // map[string]*mutexWithTimestamp

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

// NewRedisConsoleSessionStore starts the background mutex cleanup.
// Call Stop() during graceful shutdown.
func NewRedisConsoleSessionStore(redisClient *redis.Client, log *logrus.Logger, ttl time.Duration) *RedisConsoleSessionStore {
	store := &RedisConsoleSessionStore{
		redisClient: redisClient,
		log:         log,
		ttl:         ttl,
		stopChan:    make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupMutexMapLoop()

	return store
}

// Stop is safe to call multiple times
func (s *RedisConsoleSessionStore) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("Console session store stopped")
	}
}

func (s *RedisConsoleSessionStore) Find(ctx context.Context, sessionID string) (*ConsoleSession, error) {
	mt := s.lockSession(sessionID)
	defer mt.mu.Unlock()

	return s.load(ctx, sessionID)
}

func (s *RedisConsoleSessionStore) Update(ctx context.Context, sessionID string, fn func(session *ConsoleSession) error) (*ConsoleSession, error) {
	mt := s.lockSession(sessionID)
	defer mt.mu.Unlock()

	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = &ConsoleSession{}
	}

	if err := fn(session); err != nil {
		return nil, err
	}
	session.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode console session: %w", err)
	}

	opCtx, cancel := context.WithTimeout(ctx, consoleSessionTimeout)
	defer cancel()

	if err := s.redisClient.Set(opCtx, sessionKey(sessionID), payload, s.ttl).Err(); err != nil {
		s.log.Warnf("Failed to store console session: %+v", err)
		return nil, err
	}

	return session, nil
}

func (s *RedisConsoleSessionStore) Delete(ctx context.Context, sessionID string) error {
	mt := s.lockSession(sessionID)
	defer mt.mu.Unlock()

	opCtx, cancel := context.WithTimeout(ctx, consoleSessionTimeout)
	defer cancel()

	if err := s.redisClient.Del(opCtx, sessionKey(sessionID)).Err(); err != nil {
		s.log.Warnf("Failed to delete console session: %+v", err)
		return err
	}
	s.sessionMu.CompareAndDelete(sessionID, mt)
	return nil
}

// load reads a session and slides its TTL; callers hold the session mutex
func (s *RedisConsoleSessionStore) load(ctx context.Context, sessionID string) (*ConsoleSession, error) {
	opCtx, cancel := context.WithTimeout(ctx, consoleSessionTimeout)
	defer cancel()

	raw, err := s.redisClient.GetEx(opCtx, sessionKey(sessionID), s.ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		s.log.Warnf("Failed to load console session: %+v", err)
		return nil, err
	}

	var session ConsoleSession
	if err := json.Unmarshal(raw, &session); err != nil {
		// a corrupt snapshot starts over instead of locking the user out
		s.log.Warnf("Failed to decode console session %s: %+v", sessionID, err)
		return nil, nil
	}
	return &session, nil
}

func sessionKey(sessionID string) string {
	return RedisConsoleSessionKeyPrefix + sessionID
}

// lockSession locks and returns the mutex of a session. A mutex removed from
// the map while this caller waited on it is dropped and the lookup repeated,
// so every holder of a session lock holds the same mutex.
func (s *RedisConsoleSessionStore) lockSession(sessionID string) *mutexWithTimestamp {
	for {
		v, _ := s.sessionMu.LoadOrStore(sessionID, &mutexWithTimestamp{})
		mt := v.(*mutexWithTimestamp)
		mt.mu.Lock()

		if current, ok := s.sessionMu.Load(sessionID); ok && current == v {
			mt.lastUsed.Store(time.Now().Unix())
			return mt
		}
		mt.mu.Unlock()
	}
}

// cleanupMutexMapLoop runs in background to clean stale mutexes
func (s *RedisConsoleSessionStore) cleanupMutexMapLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(mutexCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			s.log.Debug("Mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			s.cleanupStaleMutexes(time.Now().Add(-mutexStaleThreshold))
		}
	}
}

// cleanupStaleMutexes removes mutexes unused since cutoff. Entries are only
// removed while their lock is held; lockSession re-checks the map after locking.
func (s *RedisConsoleSessionStore) cleanupStaleMutexes(cutoff time.Time) int {
	cutoffTime := cutoff.Unix()
	var cleaned int

	s.sessionMu.Range(func(key, value any) bool {
		sessionID, ok := key.(string)
		if !ok {
			return true
		}

		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		// held means in use
		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoffTime && s.sessionMu.CompareAndDelete(sessionID, mt) {
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		s.log.Debugf("Cleaned up %d stale mutexes", cleaned)
	}
	return cleaned
}
