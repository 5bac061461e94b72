package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/knagata/task-reminder-api/internal/constants"
	"github.com/knagata/task-reminder-api/internal/models"
	"github.com/knagata/task-reminder-api/internal/repository"
	"github.com/knagata/task-reminder-api/internal/utils"
)

var (
	ErrUsernameRequired     = errors.New("username and password are required")
	ErrUsernameTooShort     = errors.New("username too short")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// shortCodeMaxAttempts bounds the collision-check loop before falling back
// to the suffixed generator.
const shortCodeMaxAttempts = 100

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is the result of a successful login. The refresh token can mint
// new access tokens until it expires; there is no server-side revocation,
// logout happens on the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type tokenClaims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService handles registration, authentication and token issuing.
type AuthService struct {
	userRepo   repository.UserRepository
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Password string
}

// Register creates a new user and issues their short code.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrUsernameRequired
	}
	if len(username) < constants.MinUsernameLength {
		return nil, ErrUsernameTooShort
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	// Uniqueness is case-insensitive: "Alice" blocks "alice".
	taken, err := s.userRepo.UsernameExists(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	shortCode, err := s.uniqueShortCode()
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		ShortCode:    shortCode,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// uniqueShortCode generates a short code that is collision-checked against
// the store. After the attempt budget runs out it falls back to a suffixed
// code, which shrinks the collision space enough to terminate in practice.
func (s *AuthService) uniqueShortCode() (string, error) {
	for attempt := 0; attempt < shortCodeMaxAttempts; attempt++ {
		code, err := utils.GenerateShortCode(constants.ShortCodeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}

		exists, err := s.userRepo.ShortCodeExists(code)
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}

	code, err := utils.GenerateShortCodeWithSuffix(constants.ShortCodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate short code: %w", err)
	}
	return code, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Authenticate verifies credentials and returns the authenticated user.
// Lookup tries the exact username first, then falls back to a
// case-insensitive match.
func (s *AuthService) Authenticate(input LoginInput) (*models.User, error) {
	if input.Username == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.findByUsernameAnyCase(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) findByUsernameAnyCase(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.userRepo.FindByUsernameFold(username)
}

// IssueTokens creates an access/refresh token pair bound to the username.
func (s *AuthService) IssueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user.Username, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(user.Username, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) signToken(username, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates an access token and returns its user.
func (s *AuthService) VerifyAccessToken(tokenStr string) (*models.User, error) {
	return s.verifyToken(tokenStr, tokenTypeAccess)
}

// Refresh validates a refresh token and mints a new access token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	user, err := s.verifyToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.signToken(user.Username, tokenTypeAccess, s.accessTTL)
}

func (s *AuthService) verifyToken(tokenStr, wantType string) (*models.User, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.FindByUsername(claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput carries the mutable user fields. The short code is
// immutable once issued.
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

// UpdateProfile changes a user's username and/or email.
func (s *AuthService) UpdateProfile(userID uint64, input UpdateProfileInput) (*models.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < constants.MinUsernameLength {
			return nil, ErrUsernameTooShort
		}
		if !strings.EqualFold(username, user.Username) {
			taken, err := s.userRepo.UsernameExists(username)
			if err != nil {
				return nil, fmt.Errorf("failed to check username: %w", err)
			}
			if taken {
				return nil, ErrUsernameTaken
			}
		}
		user.Username = username
	}
	if input.Email != nil {
		user.Email = input.Email
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *AuthService) ChangePassword(userID uint64, currentPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}
	user.PasswordHash = string(hashed)

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
