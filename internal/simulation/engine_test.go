package simulation

import (
	"math"
	"testing"
	"time"

	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewIncrement_ViralBonus(t *testing.T) {
	m := DefaultModel()
	sim := NewSimulator(m, fixedSource(0.5))

	post := userPost("p1", "launch day", 0)
	post.ViralityScore = 3.0

	got := sim.ViewIncrement(post, testProfile(1_000_000), 0)

	expected := int(math.Floor(m.FollowerFactor(1_000_000)*1.0+0.5*m.RandomViews)) + int(math.Floor(0.5*m.ViralBonusMax))
	assert.Equal(t, expected, got)
	assert.Equal(t, 106, got)
}

func TestViewIncrement_AgeDecayBoundary(t *testing.T) {
	m := DefaultModel()
	sim := NewSimulator(m, fixedSource(0))

	assert.Equal(t, 0.0, m.AgeFactor(24*time.Hour))
	assert.Equal(t, 0, sim.ViewIncrement(botPost("p1", 24*time.Hour), testProfile(5000), 24*time.Hour))
}

func TestViewIncrement_NewAccountBonus(t *testing.T) {
	sim := NewSimulator(DefaultModel(), &scriptedSource{values: []float64{0, 0.9}})

	inc := sim.ViewIncrement(botPost("p1", 30*time.Hour), testProfile(12), 30*time.Hour)

	assert.Equal(t, 1, inc)
}

func TestTick_AgeDecayBoundaryLeavesStatsAlone(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	post := botPost("p1", 24*time.Hour)
	post.Stats = models.Stats{Views: 40, Likes: 3}

	res := sim.Tick([]models.Post{post}, testProfile(5000), testNow)

	assert.Equal(t, post, findPost(t, res.Posts, "p1"))
}

func TestTick_FrozenPostUnchanged(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	post := userPost("old", "yesterday's news", 49*time.Hour)
	post.Stats = models.Stats{Views: 9000, Likes: 120, Retweets: 4, Replies: 2, Bookmarks: 1}

	res := sim.Tick([]models.Post{post}, testProfile(1_000_000), testNow)

	assert.Equal(t, post, findPost(t, res.Posts, "old"))
	assert.Equal(t, 1, res.Frozen)
	assert.Empty(t, res.Notifications)
}

func TestTick_AlwaysFailingSourceChangesNothing(t *testing.T) {
	// Per tick: injection gate, reply gate, view draw, new-account coin flip.
	rng := &scriptedSource{values: []float64{1.0, 1.0, 0, 0}}
	sim := NewSimulator(DefaultModel(), rng)

	original := []models.Post{userPost("p1", "first post", 30*time.Minute)}
	posts := models.ClonePosts(original)

	for i := 0; i < 25; i++ {
		res := sim.Tick(posts, testProfile(0), testNow)
		require.False(t, res.Injected)
		require.Empty(t, res.Notifications)
		posts = res.Posts
	}

	assert.Equal(t, original, posts)
}

func TestTick_BotReplyCap(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	posts := []models.Post{userPost("mine", "hello world", 10*time.Minute)}

	var notifications []models.Notification
	for i := 0; i < 12; i++ {
		res := sim.Tick(posts, testProfile(1200), testNow)
		notifications = append(res.Notifications, notifications...)
		posts = res.Posts
	}

	mine := findPost(t, posts, "mine")
	assert.Equal(t, 3, mine.BotReplyCount())
	assert.Equal(t, 3, mine.Stats.Replies)
	assert.Len(t, notifications, 3)
}

func TestTick_ReplyNotification(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	post := userPost("mine", "hello world", 10*time.Minute)
	post.Stats.Replies = 4

	res := sim.Tick([]models.Post{post}, testProfile(1200), testNow)

	require.Len(t, res.Notifications, 1)
	n := res.Notifications[0]
	assert.Equal(t, models.NotificationReply, n.Type)
	assert.False(t, n.Read)
	assert.Equal(t, testNow, n.Time)
	assert.Equal(t, `replied to your post: "Agreed!..."`, n.Content)

	mine := findPost(t, res.Posts, "mine")
	assert.Equal(t, 5, mine.Stats.Replies)
	require.Len(t, mine.Replies, 1)
	assert.Equal(t, n.User, mine.Replies[0].Author)
	assert.Equal(t, "mine", mine.Replies[0].ParentPostID)
	assert.Equal(t, "@creator", mine.Replies[0].ReplyToHandle)
}

func TestTick_ReplyNotificationTruncatesExcerpt(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	post := userPost("mine", "Monday again", 10*time.Minute)

	res := sim.Tick([]models.Post{post}, testProfile(1200), testNow)

	require.Len(t, res.Notifications, 1)
	assert.Equal(t, `replied to your post: "Oof, that sounds rough. Hope t..."`, res.Notifications[0].Content)
}

func TestTick_NoNotificationForOwnHandle(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	profile := testProfile(1200)
	profile.Handle = "@alexsmith0"
	post := userPost("mine", "hello world", 10*time.Minute)
	post.Author.Handle = "@alexsmith0"

	res := sim.Tick([]models.Post{post}, profile, testNow)

	assert.Empty(t, res.Notifications)
	assert.Len(t, findPost(t, res.Posts, "mine").Replies, 1)
}

func TestTick_BotPostsNeverGetBotReplies(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	posts := []models.Post{botPost("bot", 5*time.Minute)}

	for i := 0; i < 10; i++ {
		posts = sim.Tick(posts, testProfile(1200), testNow).Posts
	}

	assert.Empty(t, findPost(t, posts, "bot").Replies)
}

func TestTick_InjectsBotPostFirst(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	existing := botPost("bot", time.Hour)

	res := sim.Tick([]models.Post{existing}, testProfile(1200), testNow)

	require.True(t, res.Injected)
	require.Len(t, res.Posts, 2)
	injected := res.Posts[0]
	assert.True(t, injected.IsBot)
	assert.Equal(t, testNow, injected.Timestamp)
	assert.Equal(t, models.Stats{}, injected.Stats)
	assert.Equal(t, "bot", res.Posts[1].ID)
}

func TestTick_KeywordRouting(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	post := userPost("mine", "Best coffee in town", 10*time.Minute)

	res := sim.Tick([]models.Post{post}, testProfile(1200), testNow)

	mine := findPost(t, res.Posts, "mine")
	require.Len(t, mine.Replies, 1)
	assert.Contains(t, Replies(CategoryFood), mine.Replies[0].Content)
}

func TestTick_GrowthAppliesEngagement(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	post := botPost("bot", 0)
	post.ViralityScore = 3.0

	res := sim.Tick([]models.Post{post}, testProfile(1_000_000), testNow)

	got := findPost(t, res.Posts, "bot")
	assert.Equal(t, 80, got.Stats.Views)
	assert.Equal(t, 1, got.Stats.Likes)
	assert.Equal(t, 1, got.Stats.Retweets)
	assert.Equal(t, 1, got.Stats.Replies)
	assert.Equal(t, 1, got.Stats.Bookmarks)
	assert.Empty(t, got.Replies)
}

func TestTick_SkipsMalformedPosts(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))

	noTimestamp := userPost("no-ts", "hello", 0)
	noTimestamp.Timestamp = time.Time{}
	negative := botPost("negative", time.Minute)
	negative.Stats.Likes = -3
	badScore := botPost("nan", time.Minute)
	badScore.ViralityScore = math.NaN()
	healthy := botPost("healthy", 0)

	res := sim.Tick([]models.Post{noTimestamp, negative, badScore, healthy}, testProfile(1_000_000), testNow)

	assert.Equal(t, 3, res.Skipped)
	assert.Equal(t, noTimestamp, findPost(t, res.Posts, "no-ts"))
	assert.Equal(t, negative, findPost(t, res.Posts, "negative"))
	assert.Positive(t, findPost(t, res.Posts, "healthy").Stats.Views)
}

func TestTick_DoesNotMutateInput(t *testing.T) {
	sim := NewSimulator(DefaultModel(), fixedSource(0))
	posts := []models.Post{
		userPost("mine", "hello", 10*time.Minute),
		botPost("bot", 0),
	}
	snapshot := models.ClonePosts(posts)

	res := sim.Tick(posts, testProfile(1_000_000), testNow)

	assert.Equal(t, snapshot, posts)
	assert.Len(t, findPost(t, res.Posts, "mine").Replies, 1)
}

func TestTick_StatsStayNonNegative(t *testing.T) {
	rng, err := NewRandomSource()
	require.NoError(t, err)
	m := DefaultModel()
	sim := NewSimulator(m, rng)

	posts := []models.Post{
		userPost("fresh", "coding all night", 0),
		userPost("hour", "pizza time", 45*time.Minute),
		botPost("bot", 2*time.Hour),
	}

	now := testNow
	for i := 0; i < 500; i++ {
		res := sim.Tick(posts, testProfile(250_000), now)
		posts = res.Posts
		now = now.Add(m.TickInterval)
	}

	for _, p := range posts {
		assert.True(t, p.Stats.Valid(), "post %s has negative stats: %+v", p.ID, p.Stats)
		assert.GreaterOrEqual(t, p.Stats.Replies, len(p.Replies))
		assert.LessOrEqual(t, p.BotReplyCount(), m.MaxBotReplies)
	}
}

func TestTick_PanicsOnFailingSource(t *testing.T) {
	sim := NewSimulator(DefaultModel(), panicSource{})

	assert.Panics(t, func() {
		sim.Tick([]models.Post{botPost("bot", 0)}, testProfile(10), testNow)
	})
}
