package session

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces session keys
const DefaultRedisPrefix = "session:"

// RedisCollection implements Collection on Redis. Each session is a hash
// holding data and lastmodified; a sorted set scored by lastmodified
// plays the role of the index used by the sweep.
type RedisCollection struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCollection creates a Redis backed collection.
// An empty prefix selects DefaultRedisPrefix.
func NewRedisCollection(client redis.UniversalClient, prefix string) *RedisCollection {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCollection{client: client, prefix: prefix}
}

func (c *RedisCollection) key(id string) string {
	return c.prefix + "doc:" + id
}

func (c *RedisCollection) indexKey() string {
	return c.prefix + FieldLastModified
}

// FindOne implements Collection
func (c *RedisCollection) FindOne(ctx context.Context, id string) (*Document, error) {
	fields, err := c.client.HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, ErrSessionNotFound
	}

	lastModified, err := strconv.ParseInt(fields[FieldLastModified], 10, 64)
	if err != nil {
		return nil, err
	}

	return &Document{
		ID:           id,
		Data:         []byte(fields[FieldData]),
		LastModified: lastModified,
	}, nil
}

// Upsert implements Collection
func (c *RedisCollection) Upsert(ctx context.Context, doc *Document) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, c.key(doc.ID), FieldData, doc.Data, FieldLastModified, doc.LastModified)
		pipe.ZAdd(ctx, c.indexKey(), redis.Z{Score: float64(doc.LastModified), Member: doc.ID})
		return nil
	})
	return err
}

// DeleteByID implements Collection
func (c *RedisCollection) DeleteByID(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key(id))
		pipe.ZRem(ctx, c.indexKey(), id)
		return nil
	})
	return err
}

// sweepScript removes every indexed session whose stored lastmodified is
// below the cutoff. The hash is authoritative: an entry whose hash was
// rewritten since it was indexed gets its score repaired instead.
//
// KEYS[1] index, ARGV[1] cutoff, ARGV[2] document key prefix, ARGV[3] lastmodified field
var sweepScript = redis.NewScript(`
local cutoff = tonumber(ARGV[1])
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', '(' .. ARGV[1])
local removed = 0
for _, id in ipairs(ids) do
	local key = ARGV[2] .. id
	local lm = redis.call('HGET', key, ARGV[3])
	if not lm then
		redis.call('ZREM', KEYS[1], id)
	elseif tonumber(lm) < cutoff then
		redis.call('DEL', key)
		redis.call('ZREM', KEYS[1], id)
		removed = removed + 1
	else
		redis.call('ZADD', KEYS[1], lm, id)
	end
end
return removed
`)

// DeleteOlderThan implements Collection. Range and delete run as one
// script, so a session saved while the sweep runs is never removed.
// Document keys are computed inside the script, which requires all keys
// of the collection to live on one node.
func (c *RedisCollection) DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error) {
	return sweepScript.Run(ctx, c.client,
		[]string{c.indexKey()},
		cutoff, c.key(""), FieldLastModified,
	).Int64()
}

// FindIDs implements Collection
func (c *RedisCollection) FindIDs(ctx context.Context) ([]string, error) {
	return c.client.ZRange(ctx, c.indexKey(), 0, -1).Result()
}

// EnsureIndex implements Collection. The sorted set is maintained on every write.
func (c *RedisCollection) EnsureIndex(ctx context.Context) error {
	return nil
}
