package service

import (
	"context"
	"testing"
	"time"

	"novelhub/internal/config"
	"novelhub/internal/http-api/models"
	"novelhub/internal/middleware/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret-test-secret-test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", "")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "testuser", user.Username)
	assert.Equal(t, models.RoleReader, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	existing := &models.User{ID: "u1", Username: "testuser"}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(existing, nil)

	user, err := authService.Register(context.Background(), "testuser", "password123", "other@example.com", "")

	assert.ErrorIs(t, err, ErrNameInUse)
	assert.Nil(t, user)
}

func TestRegister_InvalidRole(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	user, err := authService.Register(context.Background(), "testuser", "password123", "test@example.com", "superuser")

	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Nil(t, user)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hash, err := auth.HashPassword("password123")
	assert.NoError(t, err)
	user := &models.User{ID: "u1", Username: "testuser", Password: hash, Role: models.RoleReader}

	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, loggedIn, err := authService.Login(context.Background(), "testuser", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "u1", loggedIn.ID)

	claims, err := authService.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleReader, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hash, _ := auth.HashPassword("password123")
	user := &models.User{ID: "u1", Username: "testuser", Password: hash}
	mockUserRepo.On("FindByUsername", mock.Anything, "testuser").Return(user, nil)

	_, _, _, err := authService.Login(context.Background(), "testuser", "wrongpassword")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := authService.Login(context.Background(), "ghost", "password123")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAccessToken_RotatesPair(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "rt1",
		UserID:    "u1",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	user := &models.User{ID: "u1", Username: "testuser", Role: models.RoleReader}

	mockRefreshTokenRepo.On("FindByToken", "old-token").Return(stored, nil)
	mockUserRepo.On("FindByID", mock.Anything, "u1").Return(user, nil)
	mockRefreshTokenRepo.On("Revoke", "rt1").Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	newAccess, newRefresh, err := authService.RefreshAccessToken("old-token")

	assert.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)
	assert.NotEqual(t, "old-token", newRefresh)
	mockRefreshTokenRepo.AssertCalled(t, "Revoke", "rt1")
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "rt1",
		UserID:    "u1",
		Token:     "old-token",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	mockRefreshTokenRepo.On("FindByToken", "old-token").Return(stored, nil)

	_, _, err := authService.RefreshAccessToken("old-token")

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestRefreshAccessToken_Unknown(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockRefreshTokenRepo.On("FindByToken", "missing").Return(nil, gorm.ErrRecordNotFound)

	_, _, err := authService.RefreshAccessToken("missing")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPurgeExpiredSessions(t *testing.T) {
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, testAuthConfig())

	mockRefreshTokenRepo.On("DeleteExpired").Return(nil)

	assert.NoError(t, authService.PurgeExpiredSessions())
	mockRefreshTokenRepo.AssertExpectations(t)
}

func TestValidateToken_Garbage(t *testing.T) {
	authService := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testAuthConfig())

	claims, err := authService.ValidateToken("not.a.token")

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
