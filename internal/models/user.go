package models

import (
	"time"
)

type User struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Stored lowercase so uniqueness is case-insensitive.
	Username     string `gorm:"uniqueIndex;not null" json:"username"`
	DisplayName  string `json:"display_name"`
	PasswordHash string `gorm:"not null" json:"-"`
	Avatar       string `json:"avatar"`
}

type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
	IsOnline    bool   `json:"is_online"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

// ToResponseWithPresence overlays the live presence flag. Presence is never
// persisted; it is only known to the connection registry.
func (u *User) ToResponseWithPresence(online bool) UserResponse {
	resp := u.ToResponse()
	resp.IsOnline = online
	return resp
}
