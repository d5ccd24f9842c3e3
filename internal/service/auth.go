package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/validation"
)

const authCookieName = "auth_token"

var (
	ErrInvalidCredentials = errors.New("invalid user ID or password")
	ErrInvalidSecurityKey = errors.New("invalid user ID or security key")
	ErrUserAlreadyExists  = errors.New("user ID is already taken")
	ErrInvalidInput       = errors.New("invalid input")
)

type AuthService struct {
	userRepository      repository.UserRepository
	profileRepository   repository.ProfileRepository
	subscriptionService *SubscriptionService
	jwtSecret           string
	isProduction        bool
	jwtExpiry           time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	subscriptionService *SubscriptionService,
	jwtSecret string,
	isProduction bool,
	jwtExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:      userRepository,
		profileRepository:   profileRepository,
		subscriptionService: subscriptionService,
		jwtSecret:           jwtSecret,
		isProduction:        isProduction,
		jwtExpiry:           jwtExpiry,
	}
}

// Signup creates the account together with an empty profile and a free plan.
func (s *AuthService) Signup(id, username, password, securityKey string) (*model.User, error) {
	id = normalizeUserID(id)
	username = strings.TrimSpace(username)

	err := validation.ValidateUserID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	err = validation.ValidateName(username)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	err = validation.ValidateCredentials(id, password, securityKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	exists, err := s.userRepository.Exists(id)
	if err != nil {
		return nil, fmt.Errorf("failed to check user: %w", err)
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	keyHash, err := s.HashPassword(strings.TrimSpace(securityKey))
	if err != nil {
		return nil, fmt.Errorf("failed to hash security key: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:              id,
		Username:        username,
		PasswordHash:    passwordHash,
		SecurityKeyHash: keyHash,
		CreatedAt:       now,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	profile := &model.Profile{
		UserID:     id,
		ThemeMode:  model.ThemeModeDark,
		ThemeColor: model.DefaultThemeColor,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.profileRepository.Create(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	err = s.subscriptionService.CreateFreeSubscription(id)
	if err != nil {
		slog.Warn("failed to create free subscription", "error", err, "user_id", id)
	}

	slog.Info("user signed up", "user_id", id)
	return user, nil
}

func (s *AuthService) Login(id, password string) (*model.User, error) {
	user, err := s.userRepository.ByID(normalizeUserID(id))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// ResetPassword sets a new password for a user who proves ownership with the
// security key chosen at signup.
func (s *AuthService) ResetPassword(id, securityKey, newPassword string) error {
	user, err := s.userRepository.ByID(normalizeUserID(id))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidSecurityKey
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(strings.TrimSpace(securityKey), user.SecurityKeyHash)
	if err != nil {
		slog.Warn("password reset with wrong security key", "user_id", user.ID)
		return ErrInvalidSecurityKey
	}

	err = validation.ValidateCredentials(user.ID, newPassword, securityKey)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.userRepository.UpdatePassword(user.ID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password reset", "user_id", user.ID)
	return nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) JWTExpiry() time.Duration {
	return s.jwtExpiry
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func normalizeUserID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
