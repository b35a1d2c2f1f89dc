// Package journal keeps an audit trail of inventory fetch runs in Redis.
//
// Every run, successful or not, is stored as a Record in a capped list per
// account. The journal records what was fetched and how it went; it never
// serves items back, so every fetch still goes to Steam.
//
// # Basic Usage
//
//	// Create Redis client
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	j := journal.New(redisClient, journal.DefaultOptions())
//
//	started := time.Now()
//	inv, err := fetcher.Fetch(ctx)
//	rec := journal.NewRecord(fetcher.Configuration(), inv, err, started)
//	if err := j.Append(ctx, rec); err != nil {
//		log.Warn().Err(err).Msg("journal append failed")
//	}
//
//	// Most recent runs first
//	runs, err := j.Recent(ctx, "76561197969338647", 10)
//
// # Keys
//
// Records live under one list per account:
//
//	steam:inventory:journal:{steamid64}
//
// The list is trimmed to Options.Limit entries and expires Options.TTL after
// the last append.
package journal
