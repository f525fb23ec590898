package models

import (
	"time"
)

// Session is a logged-in browser. The display name is copied at login so the
// static credential gate works without a users table row.
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Subject     string    `gorm:"type:varchar(255);not null;index" json:"subject"` // login email
	DisplayName string    `gorm:"type:varchar(255)" json:"display_name"`
	Token       string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress   string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent   string    `gorm:"type:text" json:"user_agent"`
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
