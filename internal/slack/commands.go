package slack

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shubh-37/peyza-simulator/internal/feed"
	"github.com/shubh-37/peyza-simulator/internal/models"
)

// CommandHandler answers slash commands against the simulated feed
type CommandHandler struct {
	feed     *feed.Feed
	nowFunc  func() time.Time
	markRead func(ctx context.Context) error
}

func NewCommandHandler(f *feed.Feed) *CommandHandler {
	return &CommandHandler{
		feed:    f,
		nowFunc: time.Now,
	}
}

// OnMarkRead registers fn to run after the notifications command clears the
// unread list, e.g. to persist the read state
func (h *CommandHandler) OnMarkRead(fn func(ctx context.Context) error) {
	h.markRead = fn
}

// Handle runs one command and returns the reply text.
// Errors are reported to the user in the reply; the returned error is for logging.
func (h *CommandHandler) Handle(ctx context.Context, text string) (string, error) {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) == 0 {
		return h.help(), nil
	}

	command := strings.ToLower(parts[0])
	args := parts[1:]

	log.Printf("📬 Handling command: %s", command)

	switch command {
	case "help":
		return h.help(), nil
	case "stats":
		return h.stats(), nil
	case "feed":
		return h.latest(), nil
	case "notifications":
		return h.notifications(ctx), nil
	case "search":
		if len(args) == 0 {
			return "Usage: `search [text]`", nil
		}
		query := strings.Join(args, " ")
		return h.listPosts(fmt.Sprintf("*Results for \"%s\"*", query), h.feed.Search(query),
			fmt.Sprintf("🔍 No posts match \"%s\".", query)), nil
	case "likes":
		return h.listPosts("*Liked*", h.feed.LikedPosts(), "🤍 You haven't liked anything yet."), nil
	case "replies":
		return h.listPosts("*Your Replies*", h.feed.UserReplies(), "💬 You haven't replied to anyone yet."), nil
	case "post":
		return h.compose(strings.Join(args, " "))
	case "reply":
		if len(args) < 2 {
			return "Usage: `reply [post id] [text]`", nil
		}
		return h.reply(args[0], strings.Join(args[1:], " "))
	case "like", "retweet", "bookmark":
		if len(args) != 1 {
			return fmt.Sprintf("Usage: `%s [post id]`", command), nil
		}
		return h.toggle(command, args[0])
	case "followers":
		if len(args) != 1 {
			return "Usage: `followers [count]`", nil
		}
		return h.setFollowers(args[0])
	}

	return fmt.Sprintf("Unknown command `%s`. Try `help`.", command), nil
}

func (h *CommandHandler) help() string {
	return `*Peyza Simulator*

*Commands:*
- post [text] - Publish a post as yourself
- reply [post id] [text] - Reply to a post
- like | retweet | bookmark [post id] - Toggle an interaction
- followers [count] - Change your follower count
- feed - Show the latest posts
- search [text] - Find posts by content or author
- likes - Show what you liked
- replies - Show your replies
- notifications - Show and clear notifications
- stats - Show your numbers
- help - Show this help`
}

func (h *CommandHandler) stats() string {
	profile := h.feed.Profile()
	mine := h.feed.UserPosts()

	var totals models.Stats
	for _, p := range mine {
		totals.Views += p.Stats.Views
		totals.Likes += p.Stats.Likes
		totals.Retweets += p.Stats.Retweets
		totals.Replies += p.Stats.Replies
		totals.Bookmarks += p.Stats.Bookmarks
	}

	text := fmt.Sprintf("*%s* (%s)\n\n", profile.Name, profile.Handle)
	text += fmt.Sprintf("Followers: *%s* | Following: *%s*\n", formatNumber(profile.Followers), formatNumber(profile.Following))
	text += fmt.Sprintf("Posts: *%d* | Replies written: *%d*\n\n", len(mine), len(h.feed.UserReplies()))
	text += fmt.Sprintf("👁 %s views • ❤️ %s • 🔁 %s • 💬 %s • 🔖 %s\n",
		formatNumber(totals.Views),
		formatNumber(totals.Likes),
		formatNumber(totals.Retweets),
		formatNumber(totals.Replies),
		formatNumber(totals.Bookmarks))
	text += fmt.Sprintf("\nUnread notifications: *%d*", h.feed.UnreadCount())

	return text
}

func (h *CommandHandler) latest() string {
	return h.listPosts("*Latest Posts*", h.feed.Posts(), "📭 The feed is empty. Use `post [text]` to get things going!")
}

// listPosts renders up to five posts with their counters and IDs
func (h *CommandHandler) listPosts(title string, posts []models.Post, empty string) string {
	if len(posts) == 0 {
		return empty
	}

	now := h.nowFunc()
	text := title + "\n\n"
	for i, p := range posts {
		if i >= 5 {
			text += fmt.Sprintf("_...and %d more_\n", len(posts)-5)
			break
		}
		text += fmt.Sprintf("*%s* %s · %s\n%s\n", p.Author.Name, p.Author.Handle, timeAgo(p.Timestamp, now), preview(p.Content, 80))
		text += fmt.Sprintf("💬 %s  🔁 %s  ❤️ %s  👁 %s  `%s`\n\n",
			formatNumber(p.Stats.Replies),
			formatNumber(p.Stats.Retweets),
			formatNumber(p.Stats.Likes),
			formatNumber(p.Stats.Views),
			p.ID)
	}
	return text
}

func (h *CommandHandler) notifications(ctx context.Context) string {
	all := h.feed.Notifications()
	if len(all) == 0 {
		return "📭 No notifications yet."
	}

	now := h.nowFunc()
	text := "*Notifications*\n\n"
	for i, n := range all {
		if i >= 10 {
			break
		}
		text += fmt.Sprintf("%s _%s_\n", notificationText(n), timeAgo(n.Time, now))
	}

	h.feed.MarkAllRead()
	if h.markRead != nil {
		if err := h.markRead(ctx); err != nil {
			log.Printf("⚠️ Failed to persist read notifications: %v", err)
		}
	}
	return text
}

func (h *CommandHandler) compose(content string) (string, error) {
	post, err := h.feed.Compose(content, nil, h.nowFunc())
	if errors.Is(err, feed.ErrEmptyPost) {
		return "Please provide some text: `post [text]`", nil
	}
	if err != nil {
		return "❌ Failed to publish post", err
	}

	return fmt.Sprintf("✅ Posted! `%s`\n_%s_", post.ID, preview(post.Content, 80)), nil
}

func (h *CommandHandler) reply(postID, content string) (string, error) {
	reply, err := h.feed.Reply(postID, content, h.nowFunc())
	if errors.Is(err, feed.ErrPostNotFound) {
		return fmt.Sprintf("❌ No post with id `%s`", postID), nil
	}
	if err != nil {
		return "❌ Failed to reply", err
	}

	return fmt.Sprintf("✅ Replied to %s", reply.ReplyToHandle), nil
}

func (h *CommandHandler) toggle(command, postID string) (string, error) {
	action, err := feed.ParseAction(command)
	if err != nil {
		return fmt.Sprintf("Unknown action `%s`", command), nil
	}

	post, err := h.feed.Toggle(postID, action)
	if errors.Is(err, feed.ErrPostNotFound) {
		return fmt.Sprintf("❌ No post with id `%s`", postID), nil
	}
	if err != nil {
		return "❌ Failed to update post", err
	}

	active := map[feed.Action]bool{
		feed.ActionLike:     post.Liked,
		feed.ActionRetweet:  post.Retweeted,
		feed.ActionBookmark: post.Bookmarked,
	}[action]

	label := strings.ToUpper(command[:1]) + command[1:]
	if active {
		return fmt.Sprintf("✅ %s added", label), nil
	}
	return fmt.Sprintf("↩️ %s removed", label), nil
}

func (h *CommandHandler) setFollowers(arg string) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return "❌ Followers must be a non-negative number", nil
	}

	profile := h.feed.UpdateProfile(func(p *models.UserProfile) {
		p.Followers = n
	})

	return fmt.Sprintf("✅ You now have %s followers", formatNumber(profile.Followers)), nil
}
