package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationRequestReceived  = "request_received"
	NotificationRequestAccepted  = "request_accepted"
	NotificationRequestRejected  = "request_rejected"
	NotificationRequestCancelled = "request_cancelled"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`  // recipient
	ActorID   uuid.UUID `gorm:"type:uuid;not null" json:"actor_id"`      // user who triggered it
	RequestID uuid.UUID `gorm:"type:uuid;not null" json:"request_id"`    // the match request involved
	Type      string    `gorm:"type:varchar(50);not null" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
