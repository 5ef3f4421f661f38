// Package redis holds the Redis-backed session store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/medexjob/medexjob-api/internal/domain/auth"
)

const defaultPrefix = "session:"

// ErrNotFound is domainauth.ErrSessionNotFound, re-exported for callers that
// only import this package.
var ErrNotFound = domainauth.ErrSessionNotFound

// SessionStore keeps each session as a JSON string that expires with the
// session. A sorted set per user, scored by expiry, lets DeleteByUser revoke
// every login at once.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewSessionStore uses the "session:" key prefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, defaultPrefix)
}

// NewSessionStoreWithPrefix namespaces every key under prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix, now: time.Now}
}

func (s *SessionStore) sessionKey(id string) string { return s.prefix + id }

func (s *SessionStore) indexKey(userID string) string { return s.prefix + "user:" + userID }

// Save writes sess with a TTL matching its expiry. Expired sessions are
// rejected.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session id is empty")
	}
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.sessionKey(sess.ID), payload, ttl)
		if sess.UserID != "" {
			idx := s.indexKey(sess.UserID)
			p.ZAdd(ctx, idx, redis.Z{Score: float64(sess.ExpiresAt.Unix()), Member: sess.ID})
			// Every session shares the configured TTL, so the newest one
			// outlives the rest of the index.
			p.ExpireAt(ctx, idx, sess.ExpiresAt)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", sess.ID, err)
	}
	return nil
}

// Get returns ErrNotFound for unknown or lapsed sessions.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}
	raw, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domainauth.Session{}, ErrNotFound
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("load session: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if !s.now().Before(sess.ExpiresAt) {
		if err := s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, err
		}
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete drops one session and its index entry. Unknown ids are a no-op.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	raw, err := s.client.GetDel(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	var sess domainauth.Session
	if json.Unmarshal(raw, &sess) != nil || sess.UserID == "" {
		return nil
	}
	if err := s.client.ZRem(ctx, s.indexKey(sess.UserID), id).Err(); err != nil {
		return fmt.Errorf("unindex session: %w", err)
	}
	return nil
}

// DeleteByUser revokes every live session of userID and returns how many
// were removed.
func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, nil
	}
	idx := s.indexKey(userID)
	ids, err := s.client.ZRangeByScore(ctx, idx, &redis.ZRangeBy{
		Min: strconv.FormatInt(s.now().Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list sessions for %s: %w", userID, err)
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.sessionKey(id)
	}
	var removed *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		if len(keys) > 0 {
			removed = p.Del(ctx, keys...)
		}
		p.Del(ctx, idx)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("revoke sessions for %s: %w", userID, err)
	}
	if removed == nil {
		return 0, nil
	}
	return int(removed.Val()), nil
}
