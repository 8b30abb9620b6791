// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/jucoreach/jucoreach/internal/domain"
	"github.com/jucoreach/jucoreach/internal/repository/user"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account temporarily locked, try again later")
)

type AuthService struct {
	userRepo     user.UserRepository
	lockout      *LockoutService
	jwtSecretKey string
	adminPhone   string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, lockout *LockoutService, jwtSecretKey, adminPhone string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		lockout:      lockout,
		jwtSecretKey: jwtSecretKey,
		adminPhone:   adminPhone,
		logger:       logger,
	}
}

// Login authenticates a user and returns the user plus a signed JWT.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	if username == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_username", username != "",
			"has_password", password != "")
		return nil, "", errors.New("username and password are required")
	}

	s.logger.Info("user login attempt", "username", redact(username))

	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		s.logger.Warn("login failed - user not found", "username", redact(username))
		return nil, "", ErrInvalidCredentials
	}

	if u.IsLocked(time.Now()) {
		s.logger.Warn("login attempt on locked account", "user_id", u.ID)
		return nil, "", ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("login failed - invalid password",
			"username", redact(username),
			"user_id", u.ID)
		if lockErr := s.lockout.RecordFailedAttempt(ctx, u.ID); lockErr != nil {
			s.logger.Error("failed to record failed login attempt", "error", lockErr, "user_id", u.ID)
		}
		return nil, "", ErrInvalidCredentials
	}

	if err := s.lockout.ClearFailedAttempts(ctx, u.ID); err != nil {
		s.logger.Error("failed to clear failed attempts", "error", err, "user_id", u.ID)
	}

	token, err := s.generateJWTToken(u)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", u.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful",
		"username", redact(username),
		"user_id", u.ID,
		"role", u.Role)

	return u, token, nil
}

// Register creates a new account. The role must be one of the
// self-assignable roles; the configured admin phone number is the single
// exception that grants admin.
func (s *AuthService) Register(ctx context.Context, username, email, phone, password string, role domain.UserRole) (*domain.User, error) {
	if err := s.validateRegistrationInput(username, email, phone, password, role); err != nil {
		s.logger.Warn("registration validation failed",
			"username", redact(username),
			"error", err.Error())
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	s.logger.Info("user registration attempt",
		"username", redact(username),
		"email", redact(email),
		"role", role)

	if existing, err := s.userRepo.FindByUsername(ctx, username); err == nil && existing != nil {
		s.logger.Warn("registration failed - username already exists", "username", redact(username))
		return nil, errors.New("username already taken")
	}
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		s.logger.Warn("registration failed - email already exists", "email", redact(email))
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err, "username", redact(username))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &domain.User{
		Username:    username,
		Email:       email,
		PhoneNumber: phone,
		Password:    string(hashedPassword),
		Role:        role,
		Plan:        domain.PlanScout,
	}
	if s.adminPhone != "" && phone == s.adminPhone {
		u.Role = domain.RoleAdmin
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		s.logger.Error("user creation failed", "error", err, "username", redact(username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully",
		"username", redact(username),
		"user_id", created.ID,
		"role", created.Role)

	return created, nil
}

func (s *AuthService) validateRegistrationInput(username, email, phone, password string, role domain.UserRole) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-32 characters, alphanumeric or underscore")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}
	if phone != "" && !phoneRegex.MatchString(phone) {
		return fmt.Errorf("invalid phone number format")
	}
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	if !domain.ValidRoles[role] {
		return fmt.Errorf("invalid role: %s", role)
	}
	return nil
}

// Claims carried by the bearer token.
type TokenClaims struct {
	UserID uint
	Role   domain.UserRole
}

// ValidateJWTToken validates a bearer token and returns its claims.
func (s *AuthService) ValidateJWTToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		s.logger.Warn("JWT validation attempted with empty token")
		return nil, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			s.logger.Warn("JWT token with invalid signing method", "method", token.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecretKey), nil
	})

	if err != nil {
		s.logger.Warn("JWT token validation failed", "error", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		s.logger.Warn("JWT token validation failed - invalid claims")
		return nil, errors.New("invalid token")
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		s.logger.Warn("JWT token missing user_id claim")
		return nil, errors.New("invalid token claims")
	}

	role, _ := claims["role"].(string)

	return &TokenClaims{
		UserID: uint(userID),
		Role:   domain.UserRole(role),
	}, nil
}

// generateJWTToken creates a JWT token for the user
func (s *AuthService) generateJWTToken(u *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"username": u.Username,
		"role":     string(u.Role),
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecretKey))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
