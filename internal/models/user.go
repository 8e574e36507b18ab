package models

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// UserModel represents a signed-in user. One row per external OAuth
// identity; upserted by OpenID on every successful sign-in.
type UserModel struct {
	Base
	OpenID       string     `json:"open_id"        gorm:"uniqueIndex;not null"`
	Name         string     `json:"name"`
	Email        string     `json:"email"          gorm:"type:varchar(320)"`
	LoginMethod  string     `json:"login_method"`
	Role         string     `json:"role"           gorm:"type:varchar(16);default:'user';not null"`
	LastSignedIn *time.Time `json:"last_signed_in"`

	Sessions []RecommendationSessionModel `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserModel) TableName() string { return "users" }

// UserSession tracks signed-in JWT sessions.
type UserSession struct {
	Base
	UserID    string     `json:"user_id"    gorm:"index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (UserSession) TableName() string { return "user_sessions" }
