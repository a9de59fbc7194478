package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shubh-37/peyza-simulator/internal/models"
)

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const insertNotificationQuery = `
	INSERT INTO notifications (id, type, user_info, content, time, read)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO NOTHING
`

// Create inserts notifications in one batch
func (r *NotificationRepository) Create(ctx context.Context, notifications ...models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, n := range notifications {
		if n.ID == "" {
			n.ID = uuid.New().String()
		}
		if n.Time.IsZero() {
			n.Time = time.Now()
		}

		userJSON, err := json.Marshal(n.User)
		if err != nil {
			return fmt.Errorf("failed to marshal notification user: %w", err)
		}

		batch.Queue(insertNotificationQuery, n.ID, string(n.Type), userJSON, n.Content, n.Time, n.Read)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	for range notifications {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}

	return nil
}

// GetRecent retrieves the newest notifications
func (r *NotificationRepository) GetRecent(ctx context.Context, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, type, user_info, content, time, read
		FROM notifications
		ORDER BY time DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var (
			n        models.Notification
			kind     string
			userJSON []byte
		)

		if err := rows.Scan(&n.ID, &kind, &userJSON, &n.Content, &n.Time, &n.Read); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		n.Type = models.NotificationType(kind)

		if err := json.Unmarshal(userJSON, &n.User); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification user: %w", err)
		}

		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkAllRead flags every stored notification as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE read = FALSE`); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

// Prune keeps only the newest keep notifications
func (r *NotificationRepository) Prune(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM notifications
		WHERE id NOT IN (SELECT id FROM notifications ORDER BY time DESC LIMIT $1)
	`

	result, err := r.db.Pool.Exec(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune notifications: %w", err)
	}

	return result.RowsAffected(), nil
}
