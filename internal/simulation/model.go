package simulation

import "time"

// Model holds the tunables of the engagement model
type Model struct {
	TickInterval time.Duration

	// Synthetic post injection
	InjectChance   float64
	VerifiedChance float64
	ViralChance    float64
	ViralScore     float64
	MinVirality    float64
	MaxVirality    float64
	ImageChance    float64

	// Bot replies on user posts
	ReplyChance   float64
	ReplyWindow   time.Duration
	MaxBotReplies int
	ExcerptLength int

	// View and engagement growth
	FreezeAge                time.Duration
	DecayWindow              time.Duration
	ViewsPerMinutePerMillion float64
	RandomViews              float64
	ViralThreshold           float64
	ViralBonusMax            float64
	NewAccountFollowers      int
	NewAccountChance         float64
	LikeRate                 float64
	RetweetRate              float64
	ReplyDivisor             float64
	BookmarkDivisor          float64
	DefaultVirality          float64
}

// DefaultModel ticks every 4s and calibrates growth so that one million
// followers yield about 1200 views a minute on a fresh post.
func DefaultModel() Model {
	return Model{
		TickInterval: 4 * time.Second,

		InjectChance:   0.10,
		VerifiedChance: 0.05,
		ViralChance:    0.05,
		ViralScore:     3.0,
		MinVirality:    0.1,
		MaxVirality:    0.6,
		ImageChance:    0.15,

		ReplyChance:   0.05,
		ReplyWindow:   60 * time.Minute,
		MaxBotReplies: 3,
		ExcerptLength: 30,

		FreezeAge:                48 * time.Hour,
		DecayWindow:              24 * time.Hour,
		ViewsPerMinutePerMillion: 1200,
		RandomViews:              2,
		ViralThreshold:           2.0,
		ViralBonusMax:            50,
		NewAccountFollowers:      100,
		NewAccountChance:         0.5,
		LikeRate:                 0.04,
		RetweetRate:              0.008,
		ReplyDivisor:             30,
		BookmarkDivisor:          4,
		DefaultVirality:          0.1,
	}
}

// ticksPerMinute is how many ticks fit in a minute at the model's interval
func (m Model) ticksPerMinute() float64 {
	if m.TickInterval <= 0 {
		return 1
	}
	return float64(time.Minute) / float64(m.TickInterval)
}

// FollowerFactor is the expected views per tick for a fresh post
func (m Model) FollowerFactor(followers int) float64 {
	return float64(followers) / 1_000_000 * (m.ViewsPerMinutePerMillion / m.ticksPerMinute())
}

// AgeFactor decays linearly from 1 to 0 across DecayWindow
func (m Model) AgeFactor(age time.Duration) float64 {
	f := 1 - age.Minutes()/m.DecayWindow.Minutes()
	if f < 0 {
		return 0
	}
	return f
}
