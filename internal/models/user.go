package models

import (
	"time"

	"github.com/google/uuid"
)

// User is the local account a heatmap record belongs to. Platform handles
// may diverge from the account name (users rename themselves upstream).
type User struct {
	ID             uuid.UUID
	Name           string
	LeetCodeID     string
	GitHubUsername string
	GFGID          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Handle returns the user's handle on the given platform.
func (u *User) Handle(platform Platform) string {
	switch platform {
	case PlatformLeetCode:
		return u.LeetCodeID
	case PlatformGitHub:
		return u.GitHubUsername
	}
	return ""
}
