package simulation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shubh-37/peyza-simulator/internal/models"
)

var (
	firstNames = []string{"Alex", "Jordan", "Taylor", "Casey", "Riley", "Jamie", "Morgan", "Quinn", "Avery", "Parker"}
	lastNames  = []string{"Smith", "Doe", "Johnson", "Brown", "Williams", "Jones", "Miller", "Davis", "Garcia"}
	avatars    = []string{
		"https://api.dicebear.com/7.x/avataaars/svg?seed=Felix",
		"https://api.dicebear.com/7.x/avataaars/svg?seed=Aneka",
		"https://api.dicebear.com/7.x/avataaars/svg?seed=Bob",
		"https://api.dicebear.com/7.x/avataaars/svg?seed=Jack",
		"https://api.dicebear.com/7.x/avataaars/svg?seed=Molly",
		"https://api.dicebear.com/7.x/avataaars/svg?seed=Sam",
	}

	botContent = []string{
		"Just tried that new coffee place. ☕ absolute game changer.",
		"Why does it feel like Monday on a Tuesday? 😩",
		"Frontend development is basically just centering divs and crying.",
		"Unpopular opinion: Pineapple belongs on pizza. 🍍🍕",
		"Just watched the season finale... I am speechless. 🎬",
		"Anyone else just scroll through their phone for hours?",
		"The sunset today is literally perfect. 🌅",
		"Coding late at night hits different. 🌙💻",
		"Crypto is confusing, but I'm here for the vibes. 🚀",
		"Can we normalize taking naps in the middle of the work day?",
	}
)

// ReplyCategory names a table of canned bot replies
type ReplyCategory string

const (
	CategoryGeneric  ReplyCategory = "generic"
	CategoryPositive ReplyCategory = "positive"
	CategoryNegative ReplyCategory = "negative"
	CategoryTech     ReplyCategory = "tech"
	CategoryFood     ReplyCategory = "food"
)

var replyTables = map[ReplyCategory][]string{
	CategoryGeneric:  {"Agreed!", "Totally relatable.", "I felt that in my soul.", "Same here. 💯", "That's a mood.", "Interesting point."},
	CategoryPositive: {"Love this energy! 🙌", "So true, keep shining!", "Pure genius.", "You nailed it.", "Inspiring!"},
	CategoryNegative: {"Oof, that sounds rough. Hope things look up.", "Hang in there! 😟", "Sending good vibes.", "Stay strong, you got this."},
	CategoryTech:     {"Is that a JS framework or a deep-fried meme?", "Gotta love the async life.", "Did you check the console?", "CSS is pain, flex is life."},
	CategoryFood:     {"Need a bite of that now!", "Pineapple on pizza is the only way.", "What coffee did you get?"},
}

// replyRoutes is evaluated in order; the first matching route wins
var replyRoutes = []struct {
	keywords []string
	category ReplyCategory
}{
	{[]string{"coffee", "pizza", "food"}, CategoryFood},
	{[]string{"coding", "js", "framework"}, CategoryTech},
	{[]string{"rough", "crying", "monday"}, CategoryNegative},
}

// Replies returns the canned replies for a category
func Replies(category ReplyCategory) []string {
	return replyTables[category]
}

// CategoryFor routes post content to a reply table by keyword
func CategoryFor(content string) ReplyCategory {
	lower := strings.ToLower(content)
	for _, route := range replyRoutes {
		for _, kw := range route.keywords {
			if strings.Contains(lower, kw) {
				return route.category
			}
		}
	}
	return CategoryGeneric
}

// Generator builds synthetic bot content from a random source
type Generator struct {
	model Model
	rng   RandomSource
	newID func() string
}

func NewGenerator(model Model, rng RandomSource) *Generator {
	return &Generator{
		model: model,
		rng:   rng,
		newID: uuid.NewString,
	}
}

// NewBotAuthor generates a random persona
func (g *Generator) NewBotAuthor() models.Author {
	first := pick(g.rng, firstNames)
	last := pick(g.rng, lastNames)
	return models.Author{
		Name:     first + " " + last,
		Handle:   fmt.Sprintf("@%s%s%d", strings.ToLower(first), strings.ToLower(last), index(g.rng, 99)),
		Avatar:   pick(g.rng, avatars),
		Verified: rare(g.rng, g.model.VerifiedChance),
	}
}

// NewBotPost generates a bot-authored post. Initial posts are back-dated up
// to 48 hours and start with plausible engagement so a seeded feed looks lived in.
func (g *Generator) NewBotPost(now time.Time, initial bool) models.Post {
	author := g.NewBotAuthor()
	viral := rare(g.rng, g.model.ViralChance)

	post := models.Post{
		ID:        g.newID(),
		Author:    author,
		Content:   pick(g.rng, botContent),
		Timestamp: now,
		IsBot:     true,
		Replies:   []models.Post{},
	}

	if initial {
		post.Timestamp = now.Add(-time.Duration(g.rng.Float64() * float64(2*24*time.Hour)))
	}

	if rare(g.rng, g.model.ImageChance) {
		image := fmt.Sprintf("https://picsum.photos/seed/%s/500/300", post.ID)
		post.Image = &image
	}

	if initial {
		post.Stats = models.Stats{
			Replies:   index(g.rng, 20),
			Retweets:  index(g.rng, 50),
			Likes:     index(g.rng, 200),
			Views:     index(g.rng, 5000),
			Bookmarks: index(g.rng, 10),
		}
	}

	if viral {
		post.ViralityScore = g.model.ViralScore
	} else {
		post.ViralityScore = between(g.rng, g.model.MinVirality, g.model.MaxVirality)
	}

	return post
}

// NewBotReply generates a bot reply whose text is routed by the parent's content
func (g *Generator) NewBotReply(parent models.Post, now time.Time) models.Post {
	text := pick(g.rng, Replies(CategoryFor(parent.Content)))
	author := g.NewBotAuthor()

	return models.Post{
		ID:            g.newID(),
		Author:        author,
		Content:       text,
		Timestamp:     now,
		IsBot:         true,
		IsReply:       true,
		ParentPostID:  parent.ID,
		ReplyToHandle: parent.Author.Handle,
	}
}

// NewReplyNotification announces a reply to one of the user's posts
func (g *Generator) NewReplyNotification(reply models.Post, now time.Time) models.Notification {
	return models.Notification{
		ID:      g.newID(),
		Type:    models.NotificationReply,
		User:    reply.Author,
		Content: fmt.Sprintf("replied to your post: \"%s...\"", excerpt(reply.Content, g.model.ExcerptLength)),
		Time:    now,
	}
}

// NewActivityNotification generates a like, follow or retweet entry dated up to a day back
func (g *Generator) NewActivityNotification(now time.Time) models.Notification {
	types := []models.NotificationType{models.NotificationLike, models.NotificationFollow, models.NotificationRetweet}
	t := types[index(g.rng, len(types))]

	return models.Notification{
		ID:   g.newID(),
		Type: t,
		User: models.Author{
			Name:   pick(g.rng, firstNames),
			Avatar: pick(g.rng, avatars),
		},
		Content: "interacted with you",
		Time:    now.Add(-time.Duration(g.rng.Float64() * float64(24*time.Hour))),
	}
}

// excerpt keeps at most n runes of s
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
