package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"career-assistant-be/pkg/rag/answer"
)

// AnswerCache keeps recent answers so an identical question in the same
// session skips the whole pipeline.
type AnswerCache struct {
	cache *cache.Cache
}

func NewAnswerCache(ttl time.Duration) *AnswerCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &AnswerCache{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

func key(sessionId uuid.UUID, question string) string {
	return fmt.Sprintf("%s|%s", sessionId, question)
}

func (c *AnswerCache) Get(sessionId uuid.UUID, question string) (*answer.Result, bool) {
	if x, found := c.cache.Get(key(sessionId, question)); found {
		return x.(*answer.Result), true
	}
	return nil, false
}

func (c *AnswerCache) Set(sessionId uuid.UUID, question string, result *answer.Result) {
	c.cache.Set(key(sessionId, question), result, cache.DefaultExpiration)
}

func (c *AnswerCache) InvalidateAll() {
	c.cache.Flush()
}
