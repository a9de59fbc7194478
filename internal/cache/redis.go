package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/shubh-37/peyza-simulator/internal/simulation"
)

const (
	recentPostsKey   = "feed:recent"
	recentPostsLimit = 10
	recentPostsTTL   = 5 * time.Minute
)

// ErrCacheMiss is returned when no snapshot is cached
var ErrCacheMiss = errors.New("feed cache miss")

// FeedCache keeps a short-lived snapshot of the newest posts in Redis
type FeedCache struct {
	client *redis.Client
}

func NewFeedCache(ctx context.Context, addr, password string) (*FeedCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Println("✅ Redis connected successfully")

	return &FeedCache{client: client}, nil
}

// HandleTick caches the most recent posts with a 5-minute TTL
func (c *FeedCache) HandleTick(ctx context.Context, res simulation.Result) error {
	return c.CacheRecentPosts(ctx, res.Posts)
}

func (c *FeedCache) CacheRecentPosts(ctx context.Context, posts []models.Post) error {
	postsJSON, err := json.Marshal(recent(posts))
	if err != nil {
		return fmt.Errorf("failed to marshal recent posts: %w", err)
	}

	if err := c.client.Set(ctx, recentPostsKey, postsJSON, recentPostsTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache recent posts: %w", err)
	}
	return nil
}

// GetRecentPosts returns the cached snapshot or ErrCacheMiss
func (c *FeedCache) GetRecentPosts(ctx context.Context) ([]models.Post, error) {
	result, err := c.client.Get(ctx, recentPostsKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recent posts: %w", err)
	}

	var posts []models.Post
	if err := json.Unmarshal([]byte(result), &posts); err != nil {
		return nil, fmt.Errorf("failed to decode recent posts: %w", err)
	}
	return posts, nil
}

func (c *FeedCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, recentPostsKey).Err()
}

// Health pings Redis
func (c *FeedCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *FeedCache) Close() error {
	return c.client.Close()
}

// recent returns the newest posts; the feed is already ordered newest first
func recent(posts []models.Post) []models.Post {
	if len(posts) > recentPostsLimit {
		return posts[:recentPostsLimit]
	}
	return posts
}
