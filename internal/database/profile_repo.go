package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shubh-37/peyza-simulator/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a profile by handle
func (r *ProfileRepository) Get(ctx context.Context, handle string) (models.UserProfile, error) {
	query := `
		SELECT handle, name, avatar, banner, bio, followers, following, joined, verified, location
		FROM profiles
		WHERE handle = $1
	`

	var p models.UserProfile
	err := r.db.Pool.QueryRow(ctx, query, handle).Scan(
		&p.Handle,
		&p.Name,
		&p.Avatar,
		&p.Banner,
		&p.Bio,
		&p.Followers,
		&p.Following,
		&p.Joined,
		&p.Verified,
		&p.Location,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserProfile{}, ErrProfileNotFound
	}
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	return p, nil
}

// Upsert stores the profile, replacing any previous version
func (r *ProfileRepository) Upsert(ctx context.Context, p models.UserProfile) error {
	query := `
		INSERT INTO profiles (handle, name, avatar, banner, bio, followers, following, joined, verified, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (handle) DO UPDATE SET
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			banner = EXCLUDED.banner,
			bio = EXCLUDED.bio,
			followers = EXCLUDED.followers,
			following = EXCLUDED.following,
			joined = EXCLUDED.joined,
			verified = EXCLUDED.verified,
			location = EXCLUDED.location,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := r.db.Pool.Exec(ctx, query,
		p.Handle,
		p.Name,
		p.Avatar,
		p.Banner,
		p.Bio,
		p.Followers,
		p.Following,
		p.Joined,
		p.Verified,
		p.Location,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}
