package simulation

import (
	"time"

	"github.com/shubh-37/peyza-simulator/internal/models"
)

// fixedSource returns the same draw forever
type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// scriptedSource cycles through a fixed sequence of draws
type scriptedSource struct {
	values []float64
	i      int
}

func (s *scriptedSource) Float64() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

type panicSource struct{}

func (panicSource) Float64() float64 { panic("random source exhausted") }

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func testProfile(followers int) models.UserProfile {
	return models.UserProfile{Name: "New Creator", Handle: "@creator", Followers: followers}
}

func userPost(id, content string, age time.Duration) models.Post {
	return models.Post{
		ID:            id,
		Author:        models.Author{Name: "New Creator", Handle: "@creator"},
		Content:       content,
		Timestamp:     testNow.Add(-age),
		ViralityScore: 1.0,
		Replies:       []models.Post{},
	}
}

func botPost(id string, age time.Duration) models.Post {
	p := userPost(id, "Anyone else just scroll through their phone for hours?", age)
	p.Author = models.Author{Name: "Alex Smith", Handle: "@alexsmith1"}
	p.IsBot = true
	p.ViralityScore = 0.3
	return p
}

func findPost(t interface{ Fatalf(string, ...any) }, posts []models.Post, id string) models.Post {
	for _, p := range posts {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("post %s not found", id)
	return models.Post{}
}
