package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mediamuse/core/internal/database"
	"github.com/mediamuse/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestUpsertFromOAuthCreates(t *testing.T) {
	svc := NewService(openTestDB(t))

	u, err := svc.UpsertFromOAuth(&SocialProfile{
		Provider: "github",
		UID:      "12345",
		Login:    "octocat",
		Name:     "The Octocat",
		Email:    "octo@example.com",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "github:12345", u.OpenID)
	assert.Equal(t, "The Octocat", u.Name)
	assert.Equal(t, "octo@example.com", u.Email)
	assert.Equal(t, "github", u.LoginMethod)
	assert.Equal(t, models.RoleUser, u.Role)
	require.NotNil(t, u.LastSignedIn)
}

func TestUpsertFromOAuthFallsBackToLogin(t *testing.T) {
	svc := NewService(openTestDB(t))

	u, err := svc.UpsertFromOAuth(&SocialProfile{Provider: "github", UID: "1", Login: "octocat"})
	require.NoError(t, err)
	assert.Equal(t, "octocat", u.Name)
}

func TestUpsertFromOAuthUpdatesExisting(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	first, err := svc.UpsertFromOAuth(&SocialProfile{
		Provider: "google",
		UID:      "g-1",
		Name:     "Old Name",
		Email:    "old@example.com",
	})
	require.NoError(t, err)

	second, err := svc.UpsertFromOAuth(&SocialProfile{
		Provider: "google",
		UID:      "g-1",
		Name:     "New Name",
		Email:    "new@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same identity must map to the same row")
	assert.Equal(t, "New Name", second.Name)
	assert.Equal(t, "new@example.com", second.Email)

	var count int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertFromOAuthKeepsRole(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db)

	u, err := svc.UpsertFromOAuth(&SocialProfile{Provider: "github", UID: "42", Name: "Admin"})
	require.NoError(t, err)
	require.NoError(t, db.Model(u).Update("role", models.RoleAdmin).Error)

	again, err := svc.UpsertFromOAuth(&SocialProfile{Provider: "github", UID: "42", Name: "Admin"})
	require.NoError(t, err)

	var stored models.UserModel
	require.NoError(t, db.First(&stored, "id = ?", again.ID).Error)
	assert.Equal(t, models.RoleAdmin, stored.Role)
}

func TestUpsertFromOAuthRejectsMissingUID(t *testing.T) {
	svc := NewService(openTestDB(t))

	_, err := svc.UpsertFromOAuth(&SocialProfile{Provider: "github"})
	assert.Error(t, err)

	_, err = svc.UpsertFromOAuth(nil)
	assert.Error(t, err)
}

func TestGetByIDMissing(t *testing.T) {
	svc := NewService(openTestDB(t))

	u, err := svc.GetByID(uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, u)
}
