package model

import (
	"time"
)

// ChallengeProgress stores completed playlist indices per client as a JSON
// array of integers.
type ChallengeProgress struct {
	ClientID  string    `gorm:"type:varchar(128);primaryKey" json:"client_id"`
	Completed string    `gorm:"type:jsonb;not null;default:'[]'" json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *ChallengeProgress) TableName() string {
	return "challenge_progress"
}
