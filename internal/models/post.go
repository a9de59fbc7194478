package models

import "time"

// Author describes who wrote a post, reply or notification
type Author struct {
	Name     string `json:"name"`
	Handle   string `json:"handle"`
	Avatar   string `json:"avatar"`
	Verified bool   `json:"verified"`
}

// Stats holds the public engagement counters of a post
type Stats struct {
	Views     int `json:"views"`
	Likes     int `json:"likes"`
	Retweets  int `json:"retweets"`
	Replies   int `json:"replies"`
	Bookmarks int `json:"bookmarks"`
}

// Valid reports whether every counter is non-negative
func (s Stats) Valid() bool {
	return s.Views >= 0 && s.Likes >= 0 && s.Retweets >= 0 && s.Replies >= 0 && s.Bookmarks >= 0
}

// Post represents a feed entry or a reply to one.
// Replies are kept newest first. Stats.Replies can exceed len(Replies)
// because simulated engagement bumps the counter without attaching entries.
type Post struct {
	ID            string    `json:"id"`
	Author        Author    `json:"author"`
	Content       string    `json:"content"`
	Image         *string   `json:"image,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	ViralityScore float64   `json:"virality_score"`
	Stats         Stats     `json:"stats"`
	Liked         bool      `json:"liked"`
	Retweeted     bool      `json:"retweeted"`
	Bookmarked    bool      `json:"bookmarked"`
	IsBot         bool      `json:"is_bot"`
	IsReply       bool      `json:"is_reply"`
	ParentPostID  string    `json:"parent_post_id,omitempty"`
	ReplyToHandle string    `json:"reply_to_handle,omitempty"`
	Replies       []Post    `json:"replies"`
}

// Clone returns a copy that shares no mutable state with p
func (p Post) Clone() Post {
	c := p
	if p.Replies != nil {
		c.Replies = make([]Post, len(p.Replies))
		for i, r := range p.Replies {
			c.Replies[i] = r.Clone()
		}
	}
	return c
}

// BotReplyCount counts attached replies authored by bots
func (p Post) BotReplyCount() int {
	n := 0
	for _, r := range p.Replies {
		if r.IsBot {
			n++
		}
	}
	return n
}

// ClonePosts deep-copies a post collection
func ClonePosts(posts []Post) []Post {
	if posts == nil {
		return nil
	}
	out := make([]Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
