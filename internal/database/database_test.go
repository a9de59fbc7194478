package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shubh-37/peyza-simulator/internal/feed"
	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/shubh-37/peyza-simulator/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticProfile models.UserProfile

func (p staticProfile) Profile() models.UserProfile { return models.UserProfile(p) }

func openTestDB(t *testing.T) *DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping test - no database connection configured")
	}

	ctx := context.Background()
	db, err := NewDB(ctx, url)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.CreateTables(ctx))
	return db
}

func TestPostRepository_SaveAllAndGetAll(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	parentID := uuid.NewString()
	replyID := uuid.NewString()
	posts := []models.Post{{
		ID:            parentID,
		Author:        models.Author{Name: "New Creator", Handle: "@creator"},
		Content:       "persist me",
		Timestamp:     now,
		ViralityScore: 1.2,
		Stats:         models.Stats{Views: 10, Replies: 3},
		Replies: []models.Post{{
			ID:            replyID,
			Author:        models.Author{Name: "Alex Smith", Handle: "@alexsmith3"},
			Content:       "Agreed!",
			Timestamp:     now,
			IsBot:         true,
			IsReply:       true,
			ParentPostID:  parentID,
			ReplyToHandle: "@creator",
		}},
	}}

	require.NoError(t, repo.SaveAll(ctx, posts))

	posts[0].Stats.Views = 25
	require.NoError(t, repo.SaveAll(ctx, posts))

	loaded, err := repo.GetAll(ctx)
	require.NoError(t, err)

	var found *models.Post
	for i := range loaded {
		if loaded[i].ID == parentID {
			found = &loaded[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, 25, found.Stats.Views)
	require.Len(t, found.Replies, 1)
	assert.Equal(t, replyID, found.Replies[0].ID)
	assert.True(t, found.Replies[0].IsBot)
	assert.Equal(t, "@creator", found.Replies[0].ReplyToHandle)
}

func TestNotificationRepository_CreateAndPrune(t *testing.T) {
	db := openTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	var batch []models.Notification
	for i := 0; i < 5; i++ {
		batch = append(batch, models.Notification{
			ID:      uuid.NewString(),
			Type:    models.NotificationReply,
			User:    models.Author{Name: "Riley Jones"},
			Content: `replied to your post: "Agreed!..."`,
			Time:    now.Add(time.Duration(i) * time.Second),
		})
	}

	require.NoError(t, repo.Create(ctx, batch...))
	_, err := repo.Prune(ctx, 3)
	require.NoError(t, err)

	recent, err := repo.GetRecent(ctx, 10)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(recent), 3)

	require.NoError(t, repo.MarkAllRead(ctx))
}

func TestProfileRepository_Upsert(t *testing.T) {
	db := openTestDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	profile := models.DefaultProfile()
	profile.Handle = "@test" + uuid.NewString()[:8]

	_, err := repo.Get(ctx, profile.Handle)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	require.NoError(t, repo.Upsert(ctx, profile))
	profile.Followers = 5000
	require.NoError(t, repo.Upsert(ctx, profile))

	got, err := repo.Get(ctx, profile.Handle)
	require.NoError(t, err)
	assert.Equal(t, 5000, got.Followers)
}

func TestRecorder_HandleTick(t *testing.T) {
	db := openTestDB(t)
	rec := NewRecorder(NewPostRepository(db), NewNotificationRepository(db), NewProfileRepository(db), staticProfile(models.DefaultProfile()), 200)

	res := simulation.Result{
		Posts: []models.Post{{
			ID:        uuid.NewString(),
			Author:    models.Author{Handle: "@creator"},
			Content:   "tick",
			Timestamp: time.Now(),
			Replies:   []models.Post{},
		}},
		Notifications: []models.Notification{{
			ID:   uuid.NewString(),
			Type: models.NotificationReply,
			Time: time.Now(),
		}},
	}

	assert.NoError(t, rec.HandleTick(context.Background(), res))
}

func newTestFeed(t *testing.T) *feed.Feed {
	t.Helper()
	rng, err := simulation.NewRandomSource()
	require.NoError(t, err)
	return feed.New(models.DefaultProfile(), simulation.DefaultModel(), rng, 200)
}

func TestFeedLoader_SeedSurvivesRestart(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, err := db.Pool.Exec(ctx, `TRUNCATE posts, notifications, profiles`)
	require.NoError(t, err)

	loader := NewFeedLoader(NewPostRepository(db), NewNotificationRepository(db), NewProfileRepository(db), 200)
	now := time.Now().UTC().Truncate(time.Millisecond)

	first := newTestFeed(t)
	seeded, err := loader.Load(ctx, first, models.DefaultProfile(), now)
	require.NoError(t, err)
	require.True(t, seeded)

	restarted := newTestFeed(t)
	seeded, err = loader.Load(ctx, restarted, models.DefaultProfile(), now)
	require.NoError(t, err)
	assert.False(t, seeded)

	assert.Len(t, restarted.Posts(), 6)
	assert.Len(t, restarted.Notifications(), 8)
	assert.Equal(t, 8, restarted.UnreadCount())

	ids := make(map[string]bool)
	for _, n := range first.Notifications() {
		ids[n.ID] = true
	}
	for _, n := range restarted.Notifications() {
		assert.True(t, ids[n.ID], "notification %s was not seeded", n.ID)
	}
}

func TestPostRepository_Count(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	before, err := repo.Count(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.SaveAll(ctx, []models.Post{{
		ID:        uuid.NewString(),
		Author:    models.Author{Handle: "@creator"},
		Content:   "counted",
		Timestamp: time.Now(),
		Replies: []models.Post{{
			ID:        uuid.NewString(),
			Content:   "replies are not counted",
			Timestamp: time.Now(),
			IsReply:   true,
		}},
	}}))

	after, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, after)
}

func TestDB_Health(t *testing.T) {
	db := openTestDB(t)

	assert.NoError(t, db.Health(context.Background()))
}
