package storage

import (
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"

	"nail-studio-bot/internal/domain/port"
)

// ResultCache keeps the current consultation per user for a limited time.
type ResultCache struct {
	c *cache.Cache
}

// NewResultCache creates a cache whose entries expire after ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{c: cache.New(ttl, 2*ttl)}
}

func (r *ResultCache) Put(userID int64, session *port.Session) {
	r.c.SetDefault(cacheKey(userID), session)
}

func (r *ResultCache) Get(userID int64) (*port.Session, bool) {
	v, ok := r.c.Get(cacheKey(userID))
	if !ok {
		return nil, false
	}
	session, ok := v.(*port.Session)
	return session, ok
}

func (r *ResultCache) Discard(userID int64) {
	r.c.Delete(cacheKey(userID))
}

func cacheKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

var _ port.SessionStore = (*ResultCache)(nil)
