package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shubh-37/peyza-simulator/internal/models"
)

type PostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *PostRepository {
	return &PostRepository{db: db}
}

const upsertPostQuery = `
	INSERT INTO posts (id, parent_post_id, author, content, image, timestamp,
	                   virality_score, stats, liked, retweeted, bookmarked,
	                   is_bot, reply_to_handle)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (id) DO UPDATE SET
		stats = EXCLUDED.stats,
		liked = EXCLUDED.liked,
		retweeted = EXCLUDED.retweeted,
		bookmarked = EXCLUDED.bookmarked
`

// SaveAll upserts every post and its replies in a single batch.
// Parents are queued before their replies so the foreign key holds.
func (r *PostRepository) SaveAll(ctx context.Context, posts []models.Post) error {
	batch := &pgx.Batch{}

	for _, post := range posts {
		if err := queuePost(batch, post, nil); err != nil {
			return err
		}
		for _, reply := range post.Replies {
			parentID := post.ID
			if err := queuePost(batch, reply, &parentID); err != nil {
				return err
			}
		}
	}

	if batch.Len() == 0 {
		return nil
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save post: %w", err)
		}
	}

	return nil
}

func queuePost(batch *pgx.Batch, post models.Post, parentID *string) error {
	authorJSON, err := json.Marshal(post.Author)
	if err != nil {
		return fmt.Errorf("failed to marshal author: %w", err)
	}

	statsJSON, err := json.Marshal(post.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	var replyTo *string
	if post.ReplyToHandle != "" {
		replyTo = &post.ReplyToHandle
	}

	batch.Queue(upsertPostQuery,
		post.ID,
		parentID,
		authorJSON,
		post.Content,
		post.Image,
		post.Timestamp,
		post.ViralityScore,
		statsJSON,
		post.Liked,
		post.Retweeted,
		post.Bookmarked,
		post.IsBot,
		replyTo,
	)
	return nil
}

// GetAll loads the feed newest first with replies attached to their parents
func (r *PostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	query := `
		SELECT id, parent_post_id, author, content, image, timestamp,
		       virality_score, stats, liked, retweeted, bookmarked,
		       is_bot, reply_to_handle
		FROM posts
		ORDER BY timestamp DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	replies := make(map[string][]models.Post)

	for rows.Next() {
		var (
			post       models.Post
			parentID   *string
			replyTo    *string
			authorJSON []byte
			statsJSON  []byte
		)

		err := rows.Scan(
			&post.ID,
			&parentID,
			&authorJSON,
			&post.Content,
			&post.Image,
			&post.Timestamp,
			&post.ViralityScore,
			&statsJSON,
			&post.Liked,
			&post.Retweeted,
			&post.Bookmarked,
			&post.IsBot,
			&replyTo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		if err := json.Unmarshal(authorJSON, &post.Author); err != nil {
			return nil, fmt.Errorf("failed to unmarshal author: %w", err)
		}
		if err := json.Unmarshal(statsJSON, &post.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
		if replyTo != nil {
			post.ReplyToHandle = *replyTo
		}

		if parentID != nil {
			post.IsReply = true
			post.ParentPostID = *parentID
			replies[*parentID] = append(replies[*parentID], post)
			continue
		}

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	for i := range posts {
		posts[i].Replies = replies[posts[i].ID]
		if posts[i].Replies == nil {
			posts[i].Replies = []models.Post{}
		}
	}

	return posts, nil
}

// Count returns the number of top-level posts
func (r *PostRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE parent_post_id IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
