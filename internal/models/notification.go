package models

import "time"

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationFollow  NotificationType = "follow"
	NotificationRetweet NotificationType = "retweet"
	NotificationReply   NotificationType = "reply"
)

// Notification is an activity entry shown to the acting user
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	User    Author           `json:"user"`
	Content string           `json:"content"`
	Time    time.Time        `json:"time"`
	Read    bool             `json:"read"`
}
