// Package redis stores schema snapshots in Redis.
//
// *RedisClient implements snapshot.Store. Each snapshot is one string value
// under KeyPrefix+key, written with SET and an optional TTL; a missing key
// (redis.Nil) is reported as snapshot.ErrNotFound so the schema loader falls
// back to introspection.
//
//	store, err := redis.NewClient(redis.Config{
//		Host:      "cache",
//		KeyPrefix: "billing:",
//		TTL:       24 * time.Hour,
//	})
//	db, err := database.Open(ctx, cfg, database.WithSnapshotStore(store))
//
// Under FXModule the client is pinged on start and closed on stop, and the
// store is provided as snapshot.Store for database.FXModule.
package redis
