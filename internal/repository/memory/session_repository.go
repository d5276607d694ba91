package memory

import (
	"strconv"
	"time"

	"pdf-quiz-bot/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the per-chat session arena. Idle sessions expire after
// the TTL; onEvict lets the owner release what the session points at.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration, onEvict func(chatID int64)) *SessionRepository {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	c := cache.New(ttl, 10*time.Minute)
	if onEvict != nil {
		c.OnEvicted(func(key string, _ interface{}) {
			if id, err := strconv.ParseInt(key, 10, 64); err == nil {
				onEvict(id)
			}
		})
	}
	return &SessionRepository{
		cache: c,
	}
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// GetOrCreate returns the chat's session, creating it atomically on first use.
// Every call refreshes the expiration.
func (r *SessionRepository) GetOrCreate(chatID int64) *store.Session {
	k := key(chatID)
	for {
		if x, found := r.cache.Get(k); found {
			s := x.(*store.Session)
			r.cache.Set(k, s, cache.DefaultExpiration)
			return s
		}
		s := store.NewSession(chatID)
		if err := r.cache.Add(k, s, cache.DefaultExpiration); err == nil {
			return s
		}
	}
}

func (r *SessionRepository) Get(chatID int64) (*store.Session, bool) {
	if x, found := r.cache.Get(key(chatID)); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Delete removes the session and fires the eviction hook.
func (r *SessionRepository) Delete(chatID int64) {
	r.cache.Delete(key(chatID))
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
