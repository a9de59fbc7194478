// Package feed holds the in-memory feed a simulator runs against: the acting
// user's profile, the post collection and the notification list. Collections
// are swapped wholesale on every change and handed out as copies.
package feed

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shubh-37/peyza-simulator/internal/models"
	"github.com/shubh-37/peyza-simulator/internal/simulation"
)

// DefaultNotificationLimit bounds the notification list
const DefaultNotificationLimit = 200

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrEmptyPost     = errors.New("post has no content")
	ErrUnknownAction = errors.New("unknown action")
)

// Action is a user interaction that toggles a flag and its counter
type Action string

const (
	ActionLike     Action = "like"
	ActionRetweet  Action = "retweet"
	ActionBookmark Action = "bookmark"
)

// ParseAction maps a command word to an Action
func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(s)) {
	case ActionLike:
		return ActionLike, nil
	case ActionRetweet:
		return ActionRetweet, nil
	case ActionBookmark:
		return ActionBookmark, nil
	}
	return "", ErrUnknownAction
}

type Feed struct {
	mu            sync.RWMutex
	profile       models.UserProfile
	posts         []models.Post
	notifications []models.Notification
	limit         int
	rng           simulation.RandomSource
	gen           *simulation.Generator
	newID         func() string
}

// New creates an empty feed for profile. rng drives the virality of composed
// posts and the content of seeded entries; it is only used under the feed's
// lock, so it must not be shared with a running Simulator.
func New(profile models.UserProfile, model simulation.Model, rng simulation.RandomSource, limit int) *Feed {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &Feed{
		profile: profile,
		posts:   []models.Post{},
		limit:   limit,
		rng:     rng,
		gen:     simulation.NewGenerator(model, rng),
		newID:   uuid.NewString,
	}
}

// Seed fills an empty feed with back-dated bot posts and activity notifications
func (f *Feed) Seed(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()

	posts := make([]models.Post, 0, 6)
	for i := 0; i < 6; i++ {
		posts = append(posts, f.gen.NewBotPost(now, true))
	}

	notifications := make([]models.Notification, 0, 8)
	for i := 0; i < 8; i++ {
		notifications = append(notifications, f.gen.NewActivityNotification(now))
	}

	f.posts = posts
	f.notifications = f.bounded(notifications)
}

// Restore replaces the whole feed state, e.g. after loading it from storage
func (f *Feed) Restore(profile models.UserProfile, posts []models.Post, notifications []models.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profile = profile
	f.posts = models.ClonePosts(posts)
	f.notifications = f.bounded(append([]models.Notification(nil), notifications...))
}

func (f *Feed) Profile() models.UserProfile {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.profile
}

// UpdateProfile applies fn to a copy of the profile and stores the result
func (f *Feed) UpdateProfile(fn func(p *models.UserProfile)) models.UserProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.profile
	fn(&p)
	f.profile = p
	return p
}

// Posts returns a copy of the post collection, newest first
func (f *Feed) Posts() []models.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return models.ClonePosts(f.posts)
}

// Update runs fn against the current posts and installs its result under the
// write lock. Compose, Reply and Toggle cannot interleave with it.
// Notifications are prepended and trimmed to the retention limit.
func (f *Feed) Update(fn func(posts []models.Post) simulation.Result) simulation.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	res := fn(f.posts)
	f.posts = res.Posts

	if len(res.Notifications) == 0 {
		return res
	}
	merged := make([]models.Notification, 0, len(res.Notifications)+len(f.notifications))
	merged = append(merged, res.Notifications...)
	merged = append(merged, f.notifications...)
	f.notifications = f.bounded(merged)
	return res
}

func (f *Feed) bounded(n []models.Notification) []models.Notification {
	if len(n) > f.limit {
		return n[:f.limit]
	}
	return n
}

func (f *Feed) Notifications() []models.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]models.Notification(nil), f.notifications...)
}

func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, notification := range f.notifications {
		if !notification.Read {
			n++
		}
	}
	return n
}

func (f *Feed) MarkAllRead() {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := make([]models.Notification, len(f.notifications))
	for i, n := range f.notifications {
		n.Read = true
		next[i] = n
	}
	f.notifications = next
}

// Compose publishes a post as the acting user
func (f *Feed) Compose(content string, image *string, now time.Time) (models.Post, error) {
	if strings.TrimSpace(content) == "" && image == nil {
		return models.Post{}, ErrEmptyPost
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	post := models.Post{
		ID:            f.newID(),
		Author:        f.profile.AsAuthor(),
		Content:       content,
		Image:         image,
		Timestamp:     now,
		ViralityScore: f.rng.Float64()*2 + 0.5,
		Replies:       []models.Post{},
	}

	next := make([]models.Post, 0, len(f.posts)+1)
	next = append(next, post)
	next = append(next, f.posts...)
	f.posts = next

	return post.Clone(), nil
}

// Reply attaches a reply from the acting user to a top-level post
func (f *Feed) Reply(postID, content string, now time.Time) (models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return models.Post{}, ErrEmptyPost
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.indexOf(postID)
	if i < 0 {
		return models.Post{}, ErrPostNotFound
	}

	parent := f.posts[i].Clone()
	reply := models.Post{
		ID:            f.newID(),
		Author:        f.profile.AsAuthor(),
		Content:       content,
		Timestamp:     now,
		IsReply:       true,
		ParentPostID:  parent.ID,
		ReplyToHandle: parent.Author.Handle,
	}
	parent.Stats.Replies++
	parent.Replies = append([]models.Post{reply}, parent.Replies...)

	f.replace(i, parent)
	return reply, nil
}

// Toggle flips a like, retweet or bookmark on a post or on one of its replies.
// Liking a top-level post also counts as a view.
func (f *Feed) Toggle(postID string, action Action) (models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, p := range f.posts {
		if p.ID == postID {
			updated := p.Clone()
			activated := toggle(&updated, action)
			if activated && action == ActionLike {
				updated.Stats.Views++
			}
			f.replace(i, updated)
			return updated.Clone(), nil
		}

		for j, r := range p.Replies {
			if r.ID != postID {
				continue
			}
			updated := p.Clone()
			toggle(&updated.Replies[j], action)
			f.replace(i, updated)
			return updated.Replies[j].Clone(), nil
		}
	}

	return models.Post{}, ErrPostNotFound
}

// toggle flips the flag for action and reports whether it is now active.
// Counters never drop below zero.
func toggle(p *models.Post, action Action) bool {
	var flag *bool
	var counter *int
	switch action {
	case ActionLike:
		flag, counter = &p.Liked, &p.Stats.Likes
	case ActionRetweet:
		flag, counter = &p.Retweeted, &p.Stats.Retweets
	case ActionBookmark:
		flag, counter = &p.Bookmarked, &p.Stats.Bookmarks
	default:
		return false
	}

	*flag = !*flag
	if *flag {
		*counter++
	} else if *counter > 0 {
		*counter--
	}
	return *flag
}

// UserPosts lists the acting user's top-level posts
func (f *Feed) UserPosts() []models.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []models.Post
	for _, p := range f.posts {
		if p.Author.Handle == f.profile.Handle && !p.IsReply {
			out = append(out, p.Clone())
		}
	}
	return out
}

// UserReplies lists replies written by the acting user, newest first
func (f *Feed) UserReplies() []models.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []models.Post
	for _, p := range f.posts {
		for _, r := range p.Replies {
			if r.Author.Handle == f.profile.Handle {
				out = append(out, r.Clone())
			}
		}
	}
	sortNewestFirst(out)
	return out
}

// LikedPosts lists liked posts and replies, newest first
func (f *Feed) LikedPosts() []models.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var out []models.Post
	for _, p := range f.posts {
		if p.Liked {
			out = append(out, p.Clone())
		}
		for _, r := range p.Replies {
			if r.Liked {
				out = append(out, r.Clone())
			}
		}
	}
	sortNewestFirst(out)
	return out
}

// Search returns top-level posts whose content or author name contains query,
// ignoring case. An empty query matches everything.
func (f *Feed) Search(query string) []models.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var out []models.Post
	for _, p := range f.posts {
		if strings.Contains(strings.ToLower(p.Content), q) ||
			strings.Contains(strings.ToLower(p.Author.Name), q) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})
}

func (f *Feed) indexOf(postID string) int {
	for i, p := range f.posts {
		if p.ID == postID {
			return i
		}
	}
	return -1
}

// replace swaps in a new collection with post at index i. Callers hold f.mu.
func (f *Feed) replace(i int, post models.Post) {
	next := make([]models.Post, len(f.posts))
	copy(next, f.posts)
	next[i] = post
	f.posts = next
}
