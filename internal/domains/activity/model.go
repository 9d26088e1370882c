package activity

import "time"

// Activity type tags. The log is append-only; rows are never updated.
const (
	TypeLogin                  = "login"
	TypeLoginFailed            = "login_failed"
	TypeLoginFailedNoUser      = "login_failed_no_user"
	TypeLoginFailedBadPassword = "login_failed_bad_password"
	TypeLogout                 = "logout"
	TypeSessionExpired         = "session_expired"
	TypeProfileUpdated         = "profile_updated"
	TypeAlbumCreated           = "album_created"
	TypeAlbumDeleted           = "album_deleted"
	TypeAlbumCloned            = "album_cloned"
)

// Entry is one audit log row. UserID may be empty for events with no
// authenticated user (failed logins against unknown accounts).
type Entry struct {
	UserID    string                 `json:"user_id,omitempty"`
	Type      string                 `json:"type"`
	UserAgent string                 `json:"user_agent,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
