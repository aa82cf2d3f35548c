package models

import "time"

const (
	RoleProvider   = "provider"
	RoleSubscriber = "subscriber"
)

type User struct {
	ID        string    `json:"id"`
	Email     *string   `json:"email,omitempty"`
	FullName  *string   `json:"full_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Role      *string   `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
