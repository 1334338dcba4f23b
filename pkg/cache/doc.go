// Package cache provides a generic Cache interface with in-memory and Redis
// implementations, plus a Loader that fills a cache on misses.
//
// The message store owns one cache instance and passes it in explicitly, so
// tests get an isolated cache per store:
//
//	docs := cache.NewMemory[*messages.Document](cache.WithCleanupInterval(0))
//	loader := cache.NewLoader[*messages.Document](docs)
//
//	doc, err := loader.GetOrLoad(ctx, "pl-common", func(ctx context.Context) (*messages.Document, time.Duration, error) {
//	    d, err := src.Load(ctx, "pl", "common")
//	    return d, -1, err // negative TTL: keep forever
//	})
//
// Concurrent misses for the same key run the load function once. Errors are
// never cached.
//
// Use [NewRedis] to share documents between processes. Redis values are
// serialized, so each read returns a new copy instead of the stored pointer.
// [NewTiered] puts a [Memory] in front of Redis so repeat reads return the
// stored pointer without a round trip. [WithRedisMaxTTL] bounds how long
// any Redis key lives, including keys written with a negative TTL.
package cache
