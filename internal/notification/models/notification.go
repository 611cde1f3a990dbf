package models

import (
	"time"

	id "drainadopt/pkg/domain"
)

// Type classifies the event that produced a notification.
type Type string

const (
	TypeDrainAdopted Type = "DRAIN_ADOPTED"
	TypeCommentAdded Type = "COMMENT_ADDED"
)

// IsValid reports whether t is a known notification type.
func (t Type) IsValid() bool {
	return t == TypeDrainAdopted || t == TypeCommentAdded
}

// Notification is an append-only event record. Only Read ever changes after
// creation, and only from false to true.
type Notification struct {
	ID        id.NotificationID `json:"id"`
	Type      Type              `json:"type"`
	Message   string            `json:"message"`
	DrainID   id.DrainID        `json:"drainId"`
	UserID    *id.UserID        `json:"userId"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UnreadCount is the body of GET /notifications/unread-count.
type UnreadCount struct {
	Count int64 `json:"count"`
}
