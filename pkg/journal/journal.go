package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrInvalidRecord indicates a stored record could not be decoded.
var ErrInvalidRecord = errors.New("invalid journal record")

// Options configures a Journal.
type Options struct {
	// Limit is the number of records kept per account.
	Limit int

	// TTL is how long an account's records live after the last append.
	TTL time.Duration
}

// DefaultOptions keeps the last 50 runs for a week.
func DefaultOptions() Options {
	return Options{
		Limit: 50,
		TTL:   7 * 24 * time.Hour,
	}
}

// Journal stores fetch run records in Redis.
type Journal struct {
	redis *redis.Client
	opts  Options
}

// New creates a journal with a Redis backend.
func New(redisClient *redis.Client, opts Options) *Journal {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	defaults := DefaultOptions()
	if opts.Limit <= 0 {
		opts.Limit = defaults.Limit
	}
	if opts.TTL <= 0 {
		opts.TTL = defaults.TTL
	}
	return &Journal{
		redis: redisClient,
		opts:  opts,
	}
}

// Append stores rec as the newest record of its account.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	if rec.AccountID == "" {
		return fmt.Errorf("record has no account id")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		JournalErrors.WithLabelValues("append").Inc()
		return fmt.Errorf("marshal record: %w", err)
	}

	key := Key(rec.AccountID)

	// Push, trim and refresh TTL atomically
	pipe := j.redis.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(j.opts.Limit-1))
	pipe.Expire(ctx, key, j.opts.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		JournalErrors.WithLabelValues("append").Inc()
		return fmt.Errorf("redis append: %w", err)
	}

	result := "ok"
	if rec.Failed() {
		result = "error"
	}
	JournalWrites.WithLabelValues(result).Inc()
	return nil
}

// Recent returns up to n records of an account, newest first. n <= 0
// returns every stored record.
func (j *Journal) Recent(ctx context.Context, accountID string, n int) ([]Record, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}

	raw, err := j.redis.LRange(ctx, Key(accountID), 0, stop).Result()
	if err != nil {
		JournalErrors.WithLabelValues("recent").Inc()
		return nil, fmt.Errorf("redis lrange: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			JournalErrors.WithLabelValues("recent").Inc()
			return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Clear removes all records of an account.
func (j *Journal) Clear(ctx context.Context, accountID string) error {
	if err := j.redis.Del(ctx, Key(accountID)).Err(); err != nil {
		JournalErrors.WithLabelValues("clear").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
