package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"turnos/common/constant"
	"turnos/common/errs"
	"turnos/model"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// LocatedStore remembers which ticket a citizen located through search, so
// a later update can be checked against it.
type LocatedStore struct {
	rdb   *redis.Client
	ttl   time.Duration
	newID func() string
}

func NewLocatedStore(rdb *redis.Client, ttl time.Duration) *LocatedStore {
	if ttl <= 0 {
		ttl = constant.TurnoLocatedSessionTTL
	}
	return &LocatedStore{
		rdb:   rdb,
		ttl:   ttl,
		newID: func() string { return ulid.Make().String() },
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf(constant.TurnoLocatedSession, id)
}

// Save stores key and returns the session id that refers to it.
func (s *LocatedStore) Save(ctx context.Context, key model.TicketKey) (string, error) {
	data, err := json.Marshal(key)
	if err != nil {
		return "", err
	}

	id := s.newID()
	if err := s.rdb.Set(ctx, sessionKey(id), string(data), s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Load fails with errs.ErrNoLocatedTicket for unknown or expired sessions.
func (s *LocatedStore) Load(ctx context.Context, id string) (model.TicketKey, error) {
	if id == "" {
		return model.TicketKey{}, errs.ErrNoLocatedTicket
	}

	data, err := s.rdb.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return model.TicketKey{}, errs.ErrNoLocatedTicket
	}
	if err != nil {
		return model.TicketKey{}, err
	}

	var key model.TicketKey
	if err := json.Unmarshal([]byte(data), &key); err != nil {
		return model.TicketKey{}, err
	}
	return key, nil
}

func (s *LocatedStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}
