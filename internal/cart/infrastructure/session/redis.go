// Package session 提供基于 Redis 的请求级会话存储。
// 每个会话是一个 JSON 文档，跨请求并发写入为 last-write-wins。
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wyfcoding/onlineshop/pkg/cache"
	"github.com/wyfcoding/onlineshop/pkg/logger"
)

const keyPrefix = "session:"

// Store Redis 会话存储
type Store struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewStore 创建会话存储实例
func NewStore(c *cache.RedisCache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// Load 按 ID 加载会话。不存在或内容损坏时返回空会话（不报错），
// 存在时顺带刷新过期时间实现滑动过期。
func (s *Store) Load(ctx context.Context, id string) *Session {
	sess := &Session{id: id, values: map[string]json.RawMessage{}}

	raw, err := s.cache.Get(ctx, keyPrefix+id)
	if err != nil || raw == "" {
		return sess
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &values); err != nil || values == nil {
		logger.Warn(ctx, "Discarding corrupt session", "session_id", id)
		return sess
	}
	sess.values = values

	if err := s.cache.Expire(ctx, keyPrefix+id, s.ttl); err != nil {
		logger.Warn(ctx, "Failed to refresh session TTL", "session_id", id, "error", err)
	}

	return sess
}

// Save 持久化会话，仅在会话被标记为已修改时写入
func (s *Store) Save(ctx context.Context, sess *Session) error {
	if !sess.dirty {
		return nil
	}

	raw, err := json.Marshal(sess.values)
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, keyPrefix+sess.id, string(raw), s.ttl); err != nil {
		return err
	}

	sess.dirty = false
	return nil
}

// Session 单次请求内的会话视图
type Session struct {
	id     string
	values map[string]json.RawMessage
	dirty  bool
}

// New 创建空会话，主要用于测试和新会话初始化
func New(id string) *Session {
	return &Session{id: id, values: map[string]json.RawMessage{}}
}

// ID 会话标识
func (s *Session) ID() string { return s.id }

// Get 读取键值
func (s *Session) Get(key string) ([]byte, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set 写入键值。持久化由 MarkDirty 触发，写入本身不标记
func (s *Session) Set(key string, value []byte) {
	s.values[key] = json.RawMessage(value)
}

// Delete 删除键，键本身从会话中移除而非置空
func (s *Session) Delete(key string) {
	delete(s.values, key)
}

// MarkDirty 标记会话已修改，请求结束时由 Store.Save 持久化
func (s *Session) MarkDirty() {
	s.dirty = true
}

// Dirty 会话是否有未持久化的修改
func (s *Session) Dirty() bool { return s.dirty }
