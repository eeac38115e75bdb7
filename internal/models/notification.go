package models

import "time"

const NotificationTypeLike = "like"

// Notification — запись о лайке. Сам факт существования записи — это и
// есть «лайк»; одновременно она служит уведомлением автору блога.
type Notification struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	BlogID          int64     `json:"-"`
	BlogSlug        string    `json:"blog_id"`
	BlogTitle       string    `json:"blog_title,omitempty"`
	UserID          int       `json:"user_id"`
	Username        string    `json:"username,omitempty"`
	NotificationFor int       `json:"notification_for"`
	Seen            bool      `json:"seen"`
	CreatedAt       time.Time `json:"created_at"`
}
