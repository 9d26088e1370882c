package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User maps 1:1 to the users table. Accounts are soft-deleted and must be
// verified before they can log in.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Nickname     *string   `json:"nickname,omitempty"`
	IsVerified   bool      `json:"is_verified"`
	IsDeleted    bool      `json:"-"`

	// Preferred idle timeout in minutes; 0 means server default.
	SessionTimeout int `json:"session_timeout"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Name returns the display name: nickname when set, otherwise the local
// part of the email.
func (u *User) Name() string {
	if u.Nickname != nil && *u.Nickname != "" {
		return *u.Nickname
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// NicknameOrEmpty flattens the pointer for session records.
func (u *User) NicknameOrEmpty() string {
	if u.Nickname != nil {
		return *u.Nickname
	}
	return ""
}

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Profile is the optional per-user profile row, created lazily on first
// save.
type Profile struct {
	UserID   uuid.UUID `json:"-"`
	Avatar   *string   `json:"avatar,omitempty"`
	Bio      *string   `json:"bio,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Homepage *string   `json:"homepage,omitempty"`
	Twitter  *string   `json:"twitter,omitempty"`
	LinkedIn *string   `json:"linkedin,omitempty"`
	GitHub   *string   `json:"github,omitempty"`
}
