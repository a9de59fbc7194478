package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shubh-37/peyza-simulator/internal/feed"
	"github.com/shubh-37/peyza-simulator/internal/models"
)

// FeedLoader restores a feed from PostgreSQL. An empty database gets a freshly
// seeded feed, which is written back right away so a restart finds it.
type FeedLoader struct {
	posts         *PostRepository
	notifications *NotificationRepository
	profiles      *ProfileRepository
	limit         int
}

func NewFeedLoader(posts *PostRepository, notifications *NotificationRepository, profiles *ProfileRepository, limit int) *FeedLoader {
	return &FeedLoader{
		posts:         posts,
		notifications: notifications,
		profiles:      profiles,
		limit:         limit,
	}
}

// Load fills f and reports whether it had to seed
func (l *FeedLoader) Load(ctx context.Context, f *feed.Feed, fallback models.UserProfile, now time.Time) (bool, error) {
	profile, err := l.profiles.Get(ctx, fallback.Handle)
	if errors.Is(err, ErrProfileNotFound) {
		profile = fallback
	} else if err != nil {
		return false, err
	}

	count, err := l.posts.Count(ctx)
	if err != nil {
		return false, err
	}

	if count == 0 {
		if err := l.seed(ctx, f, profile, now); err != nil {
			return false, err
		}
		log.Println("🌱 Seeded a fresh feed")
		return true, nil
	}

	posts, err := l.posts.GetAll(ctx)
	if err != nil {
		return false, err
	}

	notifications, err := l.notifications.GetRecent(ctx, l.limit)
	if err != nil {
		return false, err
	}

	f.Restore(profile, posts, notifications)
	log.Printf("✅ Restored %d posts and %d notifications", len(posts), len(notifications))
	return false, nil
}

func (l *FeedLoader) seed(ctx context.Context, f *feed.Feed, profile models.UserProfile, now time.Time) error {
	f.UpdateProfile(func(p *models.UserProfile) { *p = profile })
	f.Seed(now)

	if err := l.profiles.Upsert(ctx, profile); err != nil {
		return fmt.Errorf("failed to save seeded profile: %w", err)
	}
	if err := l.posts.SaveAll(ctx, f.Posts()); err != nil {
		return fmt.Errorf("failed to save seeded posts: %w", err)
	}
	if err := l.notifications.Create(ctx, f.Notifications()...); err != nil {
		return fmt.Errorf("failed to save seeded notifications: %w", err)
	}
	return nil
}
