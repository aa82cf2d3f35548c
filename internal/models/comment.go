package models

import "time"

// Comment is free-text feedback left by a user on a signal account.
type Comment struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	SignalAccountID string    `json:"signal_account_id"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
