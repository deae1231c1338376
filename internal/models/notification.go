package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	NotificationLike    NotificationKind = "like"
	NotificationComment NotificationKind = "comment"
	NotificationFollow  NotificationKind = "follow"
)

// Notification is append-only; the only mutation is the unread -> read
// transition. It is never addressed to the actor that caused it.
type Notification struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primary_key"`
	RecipientID    uuid.UUID        `json:"recipient_id" gorm:"type:uuid;not null;index"`
	SenderUsername string           `json:"sender_username" gorm:"not null"`
	Kind           NotificationKind `json:"kind" gorm:"size:20;not null"`
	PhotoID        *uuid.UUID       `json:"photo_id,omitempty" gorm:"type:uuid"`
	Message        string           `json:"message"`
	IsRead         bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt      time.Time        `json:"created_at" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func (Notification) TableName() string {
	return "notifications"
}
