// File: internal/repository/user/gorm_user_repository.go
package user

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

type gormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

// Create validates input before touching the database and logs without
// exposing sensitive fields.
func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := r.validateUserInput(user); err != nil {
		log.Printf("[UserRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		log.Printf("[UserRepository] Database error during user creation: %v", err)
		return nil, errors.New("database error creating user")
	}

	log.Printf("[UserRepository] User created successfully with ID: %d", user.ID)
	return user, nil
}

func (r *gormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if user.ID == 0 {
		return errors.New("invalid user ID")
	}

	if err := r.validateUserInput(user); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		log.Printf("[UserRepository] Database error during user update for ID %d: %v", user.ID, err)
		return errors.New("database error updating user")
	}

	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if id == 0 {
		return nil, errors.New("invalid user ID")
	}

	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	if err := r.validateUsername(username); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email")
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return r.handleFindError(err, &user)
}

func (r *gormUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if err := r.validatePhone(phone); err != nil {
		return nil, fmt.Errorf("phone validation failed: %w", err)
	}

	var user domain.User
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&user).Error
	return r.handleFindError(err, &user)
}

// ResetFailedAttempts clears the counter atomically without loading the row.
func (r *gormUserRepository) ResetFailedAttempts(ctx context.Context, id uint) error {
	if id == 0 {
		return errors.New("invalid user ID")
	}

	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("failed_login_attempts", 0)

	if result.Error != nil {
		log.Printf("[UserRepository] Database error resetting failed attempts for user ID %d: %v", id, result.Error)
		return errors.New("database error resetting failed attempts")
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *gormUserRepository) Delete(ctx context.Context, userID uint) error {
	if userID == 0 {
		return errors.New("invalid user ID")
	}

	result := r.db.WithContext(ctx).Delete(&domain.User{}, userID)
	if result.Error != nil {
		log.Printf("[UserRepository] Database error deleting user ID %d: %v", userID, result.Error)
		return errors.New("database error deleting user")
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// FindAllWithPagination loads one page of users, optionally filtered by a
// username/email substring search. Limit is capped to keep memory bounded.
func (r *gormUserRepository) FindAllWithPagination(ctx context.Context, limit, offset int, search string) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	if limit <= 0 || limit > 1000 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 1000")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.User{})
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		log.Printf("[UserRepository] Database error counting users: %v", err)
		return nil, 0, errors.New("database error counting users")
	}

	err := query.
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&users).Error

	if err != nil {
		log.Printf("[UserRepository] Database error in paginated query: %v", err)
		return nil, 0, errors.New("database error retrieving paginated users")
	}

	return users, total, nil
}

func (r *gormUserRepository) CountByRole(ctx context.Context, role domain.UserRole) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("role = ?", role).
		Count(&count).Error
	if err != nil {
		log.Printf("[UserRepository] Database error counting users by role %s: %v", role, err)
		return 0, errors.New("database error counting users")
	}
	return count, nil
}

// handleFindError converts gorm's not-found into the repository sentinel.
func (r *gormUserRepository) handleFindError(err error, user *domain.User) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("[UserRepository] Database error during find: %v", err)
		return nil, errors.New("database error finding user")
	}
	return user, nil
}

func (r *gormUserRepository) validateUserInput(user *domain.User) error {
	if err := r.validateUsername(user.Username); err != nil {
		return err
	}
	if user.PhoneNumber != "" {
		if err := r.validatePhone(user.PhoneNumber); err != nil {
			return err
		}
	}
	return user.IsValid()
}

func (r *gormUserRepository) validateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errors.New("username must be 3-32 characters, alphanumeric or underscore")
	}
	return nil
}

func (r *gormUserRepository) validatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return errors.New("invalid phone number format")
	}
	return nil
}
