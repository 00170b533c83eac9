package cache

import (
	"fmt"
	"time"

	"github.com/halcyonchat/halcyon-backend/internal/repository"
	"github.com/vmihailenco/msgpack/v5"
)

const conversationListTTL = 2 * time.Minute

// ConversationCache keeps per-user conversation listings. Presence flags and
// anything session-scoped are overlaid after a cache hit, never stored. All
// methods are nil-safe so the server runs unchanged without Redis.
type ConversationCache struct {
	redis *RedisCache
}

func NewConversationCache(redis *RedisCache) *ConversationCache {
	return &ConversationCache{redis: redis}
}

func listKey(userID string) string {
	return fmt.Sprintf("convlist:%s", userID)
}

func (cc *ConversationCache) GetList(userID string) ([]repository.ConversationRow, bool) {
	if cc == nil || cc.redis == nil {
		return nil, false
	}
	data, err := cc.redis.Get(listKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var rows []repository.ConversationRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

func (cc *ConversationCache) SetList(userID string, rows []repository.ConversationRow) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return err
	}
	return cc.redis.Set(listKey(userID), data, conversationListTTL)
}

func (cc *ConversationCache) InvalidateList(userID string) error {
	if cc == nil || cc.redis == nil {
		return nil
	}
	return cc.redis.Delete(listKey(userID))
}
