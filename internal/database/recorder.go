package database

import (
	"context"
	"fmt"

	"github.com/shubh-37/peyza-simulator/internal/simulation"
)

// Recorder persists every committed tick along with the acting user's profile
type Recorder struct {
	posts         *PostRepository
	notifications *NotificationRepository
	profiles      *ProfileRepository
	source        simulation.ProfileProvider
	keep          int
}

func NewRecorder(
	posts *PostRepository,
	notifications *NotificationRepository,
	profiles *ProfileRepository,
	source simulation.ProfileProvider,
	keep int,
) *Recorder {
	return &Recorder{
		posts:         posts,
		notifications: notifications,
		profiles:      profiles,
		source:        source,
		keep:          keep,
	}
}

func (r *Recorder) HandleTick(ctx context.Context, res simulation.Result) error {
	if err := r.profiles.Upsert(ctx, r.source.Profile()); err != nil {
		return fmt.Errorf("failed to record profile: %w", err)
	}

	if err := r.posts.SaveAll(ctx, res.Posts); err != nil {
		return fmt.Errorf("failed to record posts: %w", err)
	}

	if len(res.Notifications) == 0 {
		return nil
	}

	if err := r.notifications.Create(ctx, res.Notifications...); err != nil {
		return fmt.Errorf("failed to record notifications: %w", err)
	}

	if _, err := r.notifications.Prune(ctx, r.keep); err != nil {
		return err
	}

	return nil
}
