package response

import (
	"authstation/internal/core/domain/user"
	"time"
)

type User struct {
	ID              int64      `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	IsEmailVerified bool       `json:"is_email_verified"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	u.Email = string(du.Email)
	u.FullName = du.FullName
	u.IsEmailVerified = du.IsEmailVerified
	u.IsActive = du.IsActive()
	u.CreatedAt = du.CreatedAt
	u.UpdatedAt = du.UpdatedAt
	if du.ActivatedAt.IsPresent {
		activatedAt := du.ActivatedAt.Value
		u.ActivatedAt = &activatedAt
	}
}
