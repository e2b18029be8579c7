package usecase

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound は指定されたセッションが存在しない（または期限切れの）ことを表します
var ErrSessionNotFound = errors.New("session not found")

type session struct {
	store    *CatalogStore
	lastSeen time.Time
}

// SessionRegistry はセッションごとの CatalogStore を管理します
type SessionRegistry struct {
	newStore func() *CatalogStore
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// NewSessionRegistry は新しいSessionRegistryを作成します
// ttl が0以下の場合、セッションは期限切れになりません
func NewSessionRegistry(newStore func() *CatalogStore, ttl time.Duration) *SessionRegistry {
	return &SessionRegistry{
		newStore: newStore,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Open は新しいセッションを作成し、そのIDとストアを返します
func (r *SessionRegistry) Open() (string, *CatalogStore) {
	id := uuid.NewString()
	store := r.newStore()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &session{store: store, lastSeen: r.now()}
	return id, store
}

// Get はセッションのストアを返し、最終アクセス時刻を更新します
func (r *SessionRegistry) Get(id string) (*CatalogStore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = r.now()
	return sess.store, nil
}

// Close はセッションを破棄します。存在しなかった場合は false を返します
func (r *SessionRegistry) Close(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Sweep は最終アクセスから ttl 以上経過したセッションを破棄し、その件数を返します
func (r *SessionRegistry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.ttl)
	evicted := 0
	for id, sess := range r.sessions {
		if !sess.lastSeen.After(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Len は現在のセッション数を返します
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
