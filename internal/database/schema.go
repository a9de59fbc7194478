package database

import (
	"context"
	"log"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	log.Println("Creating database tables...")

	// Acting user profile
	profilesTable := `
	CREATE TABLE IF NOT EXISTS profiles (
		handle VARCHAR(100) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		avatar TEXT,
		banner TEXT,
		bio TEXT,
		followers INTEGER NOT NULL DEFAULT 0 CHECK (followers >= 0),
		following INTEGER NOT NULL DEFAULT 0,
		joined VARCHAR(100),
		verified BOOLEAN DEFAULT FALSE,
		location VARCHAR(255),
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	// Posts and replies share a table; replies carry parent_post_id
	postsTable := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		parent_post_id TEXT REFERENCES posts(id) ON DELETE CASCADE,
		author JSONB NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		image TEXT,
		timestamp TIMESTAMPTZ NOT NULL,
		virality_score DOUBLE PRECISION DEFAULT 0.1,
		stats JSONB DEFAULT '{"views": 0, "likes": 0, "retweets": 0, "replies": 0, "bookmarks": 0}',
		liked BOOLEAN DEFAULT FALSE,
		retweeted BOOLEAN DEFAULT FALSE,
		bookmarked BOOLEAN DEFAULT FALSE,
		is_bot BOOLEAN DEFAULT FALSE,
		reply_to_handle VARCHAR(100)
	);
	CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_post_id);
	CREATE INDEX IF NOT EXISTS idx_posts_timestamp ON posts(timestamp DESC);
	`

	notificationsTable := `
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		type VARCHAR(20) NOT NULL,
		user_info JSONB NOT NULL,
		content TEXT NOT NULL,
		time TIMESTAMPTZ NOT NULL,
		read BOOLEAN DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_time ON notifications(time DESC);
	`

	// Execute all table creations
	tables := []string{profilesTable, postsTable, notificationsTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return err
		}
	}

	log.Println("✅ All tables created successfully")
	return nil
}
