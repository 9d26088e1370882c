package user

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// LoginRequest is the JSON API login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// FormLoginRequest is the browser login form. Timeout is the requested
// idle timeout in minutes; out-of-range values are clamped, never
// rejected.
type FormLoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Timeout  int    `form:"timeout"`
}

func (r FormLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateProfileRequest is the profile form. Empty nickname keeps the
// current one; profile fields are written as submitted.
type UpdateProfileRequest struct {
	Nickname string `form:"nickname" json:"nickname"`
	Bio      string `form:"bio" json:"bio"`
	Phone    string `form:"phone" json:"phone"`
	Homepage string `form:"homepage" json:"homepage"`
	Twitter  string `form:"twitter" json:"twitter"`
	LinkedIn string `form:"linkedin" json:"linkedin"`
	GitHub   string `form:"github" json:"github"`
}

func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname, validation.Length(0, 100)),
		validation.Field(&r.Bio, validation.Length(0, 2000)),
		validation.Field(&r.Homepage, validation.When(r.Homepage != "", is.URL)),
	)
}

// MeDTO is the public projection returned by GET /me.
type MeDTO struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Name      string     `json:"name"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	AvatarURL string     `json:"avatar_url"`
}

const defaultAvatarURL = "/media/icons/user.svg"

// ToMeDTO builds the /me projection. Avatar falls back to the stock icon.
func (u *User) ToMeDTO(p *Profile) MeDTO {
	avatarURL := defaultAvatarURL
	if p != nil && p.Avatar != nil && *p.Avatar != "" {
		avatarURL = *p.Avatar
	}
	return MeDTO{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Name(),
		LastLogin: u.LastLogin,
		AvatarURL: avatarURL,
	}
}

// ProfileDTO is the GET/POST /profile payload.
type ProfileDTO struct {
	Nickname string   `json:"nickname"`
	Profile  *Profile `json:"profile"`
}
