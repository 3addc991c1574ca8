package domain

import "time"

// Admin marks an identity-provider user as allowed to review profiles.
type Admin struct {
	UserID    string    `gorm:"primaryKey;type:varchar(64)" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
