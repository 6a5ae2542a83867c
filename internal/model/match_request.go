package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// MatchRequest is a mentee's solicitation of a specific mentor. Records are
// never deleted; every transition is status-only.
//
// The partial unique index on mentee_id backs the "one pending request per
// mentee" rule under concurrent creation.
type MatchRequest struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MentorID uuid.UUID `gorm:"type:uuid;not null;index" json:"mentor_id"`
	MenteeID uuid.UUID `gorm:"type:uuid;not null;index:uniq_pending_request_per_mentee,unique,where:status = 'pending'" json:"mentee_id"`
	Message  string    `gorm:"size:500;not null" json:"message"`
	Status   string    `gorm:"size:20;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Mentor *User `gorm:"foreignKey:MentorID" json:"mentor,omitempty"`
	Mentee *User `gorm:"foreignKey:MenteeID" json:"mentee,omitempty"`
}

func (m *MatchRequest) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
