// Package redis connects to a Redis server used as an alternative session
// backend (see session.RedisCollection).
//
// Config is populated from REDIS_* environment variables. Connect parses the
// URL, pings the server and retries until it answers or ConnectTimeout
// elapses; Healthcheck adapts any redis.UniversalClient into a readiness
// probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	coll := session.NewRedisCollection(client, cfg.KeyPrefix)
package redis
