package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo keeps only an opaque reference to the stored media; the bytes live
// behind the storage collaborator, never in the relational store.
type Photo struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	Filename  string    `json:"filename" gorm:"not null"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`

	Owner User `json:"owner" gorm:"foreignKey:OwnerID"`
}

type Like struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_photo_like"`
	PhotoID   uuid.UUID `json:"photo_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_photo_like;index"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `json:"-" gorm:"foreignKey:UserID"`
	Photo Photo `json:"-" gorm:"foreignKey:PhotoID"`
}

type Comment struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null"`
	PhotoID   uuid.UUID `json:"photo_id" gorm:"type:uuid;not null;index"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`

	User  User  `json:"user" gorm:"foreignKey:UserID"`
	Photo Photo `json:"-" gorm:"foreignKey:PhotoID"`
}

func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Photo) TableName() string {
	return "photos"
}

func (Like) TableName() string {
	return "likes"
}

func (Comment) TableName() string {
	return "comments"
}
