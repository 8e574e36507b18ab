package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mediamuse/core/internal/models"
	"gorm.io/gorm"
)

// SocialProfile is the identity returned by an OAuth provider.
type SocialProfile struct {
	Provider string
	UID      string
	Login    string
	Name     string
	Email    string
}

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// UpsertFromOAuth creates or refreshes the user row keyed by the provider's
// opaque identifier. Called on every successful sign-in; users are never
// deleted here.
func (s *Service) UpsertFromOAuth(profile *SocialProfile) (*models.UserModel, error) {
	if profile == nil || strings.TrimSpace(profile.UID) == "" {
		return nil, errors.New("oauth profile has no identifier")
	}

	openID := fmt.Sprintf("%s:%s", profile.Provider, profile.UID)
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = profile.Login
	}
	now := time.Now()

	var u models.UserModel
	err := s.db.Where("open_id = ?", openID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u = models.UserModel{
			OpenID:       openID,
			Name:         name,
			Email:        profile.Email,
			LoginMethod:  profile.Provider,
			Role:         models.RoleUser,
			LastSignedIn: &now,
		}
		return &u, s.db.Create(&u).Error
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"login_method":   profile.Provider,
		"last_signed_in": now,
	}
	if name != "" {
		updates["name"] = name
		u.Name = name
	}
	if strings.TrimSpace(profile.Email) != "" {
		updates["email"] = profile.Email
		u.Email = profile.Email
	}
	u.LoginMethod = profile.Provider
	u.LastSignedIn = &now
	return &u, s.db.Model(&u).Updates(updates).Error
}
