package sortedstorage

import (
	"context"
	"fmt"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/game"
	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "maze:leaderboard"

var _ i.Scoreboard = &RedisLeaderboard{}

// RedisLeaderboard keeps one sorted set per maze size. Scores are run
// durations in seconds, so the lowest score ranks first.
type RedisLeaderboard struct {
	client   *redis.Client
	locker   *redsync.Redsync
	capacity int64
	ttl      time.Duration
}

// NewRedisLeaderboard initializes a RedisLeaderboard keeping the best
// capacity entries per board. Boards untouched for ttl expire; a zero ttl
// keeps them forever.
func NewRedisLeaderboard(client *redis.Client, capacity int64, ttl time.Duration) (*RedisLeaderboard, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("leaderboard capacity must be positive, got %d", capacity)
	}
	board := &RedisLeaderboard{
		client:   client,
		capacity: capacity,
		ttl:      ttl,
	}
	pool := goredis.NewPool(client)
	board.locker = redsync.New(pool)
	return board, nil
}

// Key returns the redis key of the board for mazes of the given size.
func Key(size int) string {
	return fmt.Sprintf("%s:%d", keyPrefix, size)
}

// Submit stores score for username unless the board already holds a lower
// one, then trims the board to its capacity.
func (rl *RedisLeaderboard) Submit(ctx context.Context, size int, username string, score float64) error {
	key := Key(size)

	err := rl.client.ZAddArgs(ctx, key, redis.ZAddArgs{
		LT:      true,
		Members: []redis.Z{{Score: score, Member: username}},
	}).Err()
	if err != nil {
		return err
	}

	mutex := rl.locker.NewMutex(key + ":trim_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	if err := rl.client.ZRemRangeByRank(ctx, key, rl.capacity, -1).Err(); err != nil {
		return err
	}

	if rl.ttl > 0 {
		if err := rl.client.Expire(ctx, key, rl.ttl).Err(); err != nil {
			return fmt.Errorf("refreshing expiry of %s: %w", key, err)
		}
	}
	return nil
}

// Top returns up to n entries of the board, best first.
func (rl *RedisLeaderboard) Top(ctx context.Context, size int, n int64) ([]game.LeaderboardEntry, error) {
	if n <= 0 || n > rl.capacity {
		n = rl.capacity
	}

	members, err := rl.client.ZRangeWithScores(ctx, Key(size), 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]game.LeaderboardEntry, 0, len(members))
	for rank, z := range members {
		username, ok := z.Member.(string)
		if !ok {
			continue
		}
		entries = append(entries, game.LeaderboardEntry{
			Rank:     rank + 1,
			Username: username,
			Score:    z.Score,
		})
	}
	return entries, nil
}

// Count returns the number of entries on the board.
func (rl *RedisLeaderboard) Count(ctx context.Context, size int) (int64, error) {
	return rl.client.ZCard(ctx, Key(size)).Result()
}
