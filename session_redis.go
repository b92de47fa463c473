package assistant

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/snowretail/cortex-assistant/common/logger"
	"github.com/snowretail/cortex-assistant/config"
)

// RedisSessionStore persists sessions in Redis.
// Data model:
//  - key prefix+"session:"+id => JSON(Session) with TTL
//  - key prefix+"idx" => ZSET of IDs scored by last update time
type RedisSessionStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSessionStore(cfg *config.SessionConfig) (*RedisSessionStore, error) {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 { ttl = 24 * time.Hour }
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisSessionStore{rdb: rdb, prefix: "assistant:sess:", ttl: ttl}, nil
}

func (s *RedisSessionStore) idxKey() string            { return s.prefix + "idx" }
func (s *RedisSessionStore) sessKey(id string) string  { return s.prefix + "session:" + id }

func (s *RedisSessionStore) Create() *Session {
	sess := &Session{ID: uuid.New().String(), CreatedAt: time.Now(), State: StateEmpty, Turns: []ConversationTurn{}}
	if !s.write(sess) {
		logger.Warnf("redis session create failed for %s", sess.ID)
	}
	return sess
}

func (s *RedisSessionStore) Get(id string) (*Session, bool) {
	ctx := context.Background()
	raw, err := s.rdb.Get(ctx, s.sessKey(id)).Bytes()
	if err != nil { return nil, false }
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil { return nil, false }
	return &sess, true
}

func (s *RedisSessionStore) Delete(id string) bool {
	ctx := context.Background()
	pipe := s.rdb.TxPipeline()
	del := pipe.Del(ctx, s.sessKey(id))
	pipe.ZRem(ctx, s.idxKey(), id)
	if _, err := pipe.Exec(ctx); err != nil { return false }
	return del.Val() > 0
}

func (s *RedisSessionStore) Update(sess *Session) bool {
	if sess == nil { return false }
	if _, ok := s.Get(sess.ID); !ok { return false }
	return s.write(sess)
}

// write stores the session JSON with TTL and bumps its recency score.
func (s *RedisSessionStore) write(sess *Session) bool {
	b, err := json.Marshal(sess)
	if err != nil { return false }
	ctx := context.Background()
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.sessKey(sess.ID), b, s.ttl)
	pipe.ZAdd(ctx, s.idxKey(), redis.Z{Score: float64(time.Now().Unix()), Member: sess.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warnf("redis session write failed for %s: %v", sess.ID, err)
		return false
	}
	return true
}

func (s *RedisSessionStore) List() []*Session {
	return s.ListRange(0, 100)
}

// ListRange returns sessions from offset with limit (by recency desc)
func (s *RedisSessionStore) ListRange(offset, limit int) []*Session {
	if offset < 0 { offset = 0 }
	if limit <= 0 { return []*Session{} }
	ctx := context.Background()
	ids, err := s.rdb.ZRevRange(ctx, s.idxKey(), int64(offset), int64(offset+limit-1)).Result()
	if err != nil || len(ids) == 0 { return []*Session{} }
	res := make([]*Session, 0, len(ids))
	for _, id := range ids {
		if sess, ok := s.Get(id); ok { res = append(res, sess) }
	}
	// ensure recency order
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res
}

// Clean keeps only top max sessions by recency
func (s *RedisSessionStore) Clean(max int) error {
	if max <= 0 { return nil }
	ctx := context.Background()
	total, err := s.rdb.ZCard(ctx, s.idxKey()).Result()
	if err != nil { return err }
	if total <= int64(max) { return nil }
	ids, err := s.rdb.ZRange(ctx, s.idxKey(), 0, total-int64(max)-1).Result()
	if err != nil { return err }
	pipe := s.rdb.TxPipeline()
	for _, id := range ids {
		pipe.Del(ctx, s.sessKey(id))
		pipe.ZRem(ctx, s.idxKey(), id)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// Close releases the redis connection.
func (s *RedisSessionStore) Close() error { return s.rdb.Close() }
