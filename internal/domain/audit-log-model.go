package domain

import "time"

const (
	ReviewActionVerify = "profile.verify"
	ReviewActionReject = "profile.reject"
)

type ReviewLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ActorID   string    `gorm:"type:varchar(64);not null;index" json:"actor_id"`
	Action    string    `gorm:"type:varchar(100);not null" json:"action"`
	ProfileID string    `gorm:"type:varchar(64);not null;index" json:"profile_id"`
	Note      *string   `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
