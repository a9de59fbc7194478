package simulation

import (
	"math"
	"time"

	"github.com/shubh-37/peyza-simulator/internal/models"
)

// Result is the outcome of one tick
type Result struct {
	Posts         []models.Post
	Notifications []models.Notification // newest first
	Injected      bool
	Skipped       int // malformed posts left untouched
	Frozen        int // posts past FreezeAge
}

// Simulator advances the engagement state one tick at a time.
// It holds no feed state; every call works on the collection it is given.
type Simulator struct {
	model Model
	rng   RandomSource
	gen   *Generator
}

func NewSimulator(model Model, rng RandomSource) *Simulator {
	return &Simulator{
		model: model,
		rng:   rng,
		gen:   NewGenerator(model, rng),
	}
}

// Model returns the tunables the simulator runs with
func (s *Simulator) Model() Model {
	return s.model
}

// Generator exposes the content generator sharing the simulator's random source
func (s *Simulator) Generator() *Generator {
	return s.gen
}

// Tick computes the next post collection from posts without modifying it.
// The returned posts never alias the input's reply slices.
func (s *Simulator) Tick(posts []models.Post, profile models.UserProfile, now time.Time) Result {
	var res Result

	next := make([]models.Post, 0, len(posts)+1)
	if chance(s.rng, s.model.InjectChance) {
		next = append(next, s.gen.NewBotPost(now, false))
		res.Injected = true
	}
	next = append(next, posts...)

	res.Posts = make([]models.Post, len(next))
	for i, post := range next {
		updated, notification, outcome := s.advance(post, profile, now)
		res.Posts[i] = updated
		switch outcome {
		case outcomeSkipped:
			res.Skipped++
		case outcomeFrozen:
			res.Frozen++
		}
		if notification != nil {
			res.Notifications = append([]models.Notification{*notification}, res.Notifications...)
		}
	}

	return res
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeSkipped
	outcomeFrozen
	outcomeReplied
	outcomeGrew
)

// advance applies one tick to a single post
func (s *Simulator) advance(post models.Post, profile models.UserProfile, now time.Time) (models.Post, *models.Notification, outcome) {
	if !wellFormed(post) {
		return post.Clone(), nil, outcomeSkipped
	}

	age := now.Sub(post.Timestamp)
	if age > s.model.FreezeAge {
		return post.Clone(), nil, outcomeFrozen
	}

	if !post.IsBot && chance(s.rng, s.model.ReplyChance) &&
		age < s.model.ReplyWindow && post.BotReplyCount() < s.model.MaxBotReplies {
		return s.attachBotReply(post, profile, now)
	}

	inc := s.ViewIncrement(post, profile, age)
	if inc <= 0 {
		return post.Clone(), nil, outcomeUnchanged
	}

	updated := post.Clone()
	vScore := s.virality(post)
	likeChance := s.model.LikeRate * vScore
	retweetChance := s.model.RetweetRate * vScore

	updated.Stats.Views += inc
	if chance(s.rng, likeChance) {
		updated.Stats.Likes++
	}
	if chance(s.rng, retweetChance) {
		updated.Stats.Retweets++
	}
	if chance(s.rng, likeChance/s.model.ReplyDivisor) {
		updated.Stats.Replies++
	}
	if chance(s.rng, likeChance/s.model.BookmarkDivisor) {
		updated.Stats.Bookmarks++
	}

	return updated, nil, outcomeGrew
}

func (s *Simulator) attachBotReply(post models.Post, profile models.UserProfile, now time.Time) (models.Post, *models.Notification, outcome) {
	reply := s.gen.NewBotReply(post, now)

	updated := post.Clone()
	updated.Stats.Replies++
	updated.Replies = append([]models.Post{reply}, updated.Replies...)

	if reply.Author.Handle == profile.Handle {
		return updated, nil, outcomeReplied
	}

	n := s.gen.NewReplyNotification(reply, now)
	return updated, &n, outcomeReplied
}

// ViewIncrement draws the number of views a post gains this tick
func (s *Simulator) ViewIncrement(post models.Post, profile models.UserProfile, age time.Duration) int {
	base := s.model.FollowerFactor(profile.Followers) * s.model.AgeFactor(age)
	inc := int(math.Floor(base + s.rng.Float64()*s.model.RandomViews))

	if s.virality(post) > s.model.ViralThreshold {
		inc += int(math.Floor(s.rng.Float64() * s.model.ViralBonusMax))
	}
	if profile.Followers < s.model.NewAccountFollowers && rare(s.rng, s.model.NewAccountChance) {
		inc++
	}

	return inc
}

func (s *Simulator) virality(post models.Post) float64 {
	if post.ViralityScore == 0 {
		return s.model.DefaultVirality
	}
	return post.ViralityScore
}

// wellFormed rejects posts the tick cannot reason about
func wellFormed(post models.Post) bool {
	if post.Timestamp.IsZero() || !post.Stats.Valid() {
		return false
	}
	v := post.ViralityScore
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
