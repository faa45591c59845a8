package session

import (
    "context"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/cinema-seat-picker/internal/model"
)

// toggleScript flips one seat while the session marker exists, refreshes
// both keys' TTL and replies {membership, members...}.  -1 means no session.
var toggleScript = redis.NewScript(`
    local alive = KEYS[1]
    local seats = KEYS[2]
    local seat = ARGV[1]
    local ttl = tonumber(ARGV[2])

    if redis.call('EXISTS', alive) == 0 then
        return {-1}
    end
    local on = 1
    if redis.call('SISMEMBER', seats, seat) == 1 then
        redis.call('SREM', seats, seat)
        on = 0
    else
        redis.call('SADD', seats, seat)
    end
    redis.call('EXPIRE', alive, ttl)
    redis.call('EXPIRE', seats, ttl)
    local out = redis.call('SMEMBERS', seats)
    table.insert(out, 1, on)
    return out
`)

// RedisStore keeps sessions in Redis so any replica can serve a page.  Each
// session uses a marker key carrying the TTL and a set of seat ids.
type RedisStore struct {
    rdb    *redis.Client
    prefix string
    ttl    time.Duration
}

// NewRedisStore binds a store to rdb.  ttl is the idle lifetime applied on
// every mutation.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
    if prefix == "" {
        prefix = "seat-session"
    }
    return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) aliveKey(id string) string { return r.prefix + ":" + id }
func (r *RedisStore) seatsKey(id string) string { return r.prefix + ":" + id + ":seats" }

func (r *RedisStore) Create(ctx context.Context, id string, ttl time.Duration) error {
    if ttl <= 0 {
        ttl = r.ttl
    }
    _, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
        p.Del(ctx, r.seatsKey(id))
        p.Set(ctx, r.aliveKey(id), "1", ttl)
        return nil
    })
    if err != nil {
        return fmt.Errorf("create session: %w", err)
    }
    return nil
}

func (r *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
    n, err := r.rdb.Exists(ctx, r.aliveKey(id)).Result()
    if err != nil {
        return false, fmt.Errorf("session exists: %w", err)
    }
    return n == 1, nil
}

func (r *RedisStore) Selected(ctx context.Context, id string) ([]model.SeatID, error) {
    ok, err := r.Exists(ctx, id)
    if err != nil {
        return nil, err
    }
    if !ok {
        return nil, ErrNotFound
    }
    members, err := r.rdb.SMembers(ctx, r.seatsKey(id)).Result()
    if err != nil {
        return nil, fmt.Errorf("session seats: %w", err)
    }
    out := make([]model.SeatID, 0, len(members))
    for _, m := range members {
        out = append(out, model.SeatID(m))
    }
    return out, nil
}

func (r *RedisStore) Toggle(ctx context.Context, id string, seat model.SeatID) (bool, []model.SeatID, error) {
    secs := int64(r.ttl / time.Second)
    if secs < 1 {
        secs = 1
    }
    reply, err := toggleScript.Run(ctx, r.rdb, []string{r.aliveKey(id), r.seatsKey(id)}, string(seat), secs).Slice()
    if err != nil {
        return false, nil, fmt.Errorf("session toggle seat: %w", err)
    }
    if len(reply) == 0 {
        return false, nil, fmt.Errorf("session toggle seat: empty reply")
    }
    on, ok := reply[0].(int64)
    if !ok {
        return false, nil, fmt.Errorf("session toggle seat: unexpected reply %T", reply[0])
    }
    if on < 0 {
        return false, nil, ErrNotFound
    }
    out := make([]model.SeatID, 0, len(reply)-1)
    for _, m := range reply[1:] {
        if v, ok := m.(string); ok {
            out = append(out, model.SeatID(v))
        }
    }
    return on == 1, out, nil
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
    if err := r.rdb.Del(ctx, r.aliveKey(id), r.seatsKey(id)).Err(); err != nil {
        return fmt.Errorf("delete session: %w", err)
    }
    return nil
}
