// File: internal/domain/user.go
package domain

import (
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// UserRole controls which surfaces of the API a user can reach.
type UserRole string

const (
	RolePlayer    UserRole = "player"
	RoleCoach     UserRole = "coach"
	RoleRecruiter UserRole = "recruiter"
	RoleAdmin     UserRole = "admin"
)

// ValidRoles lists the roles a user may self-select at registration.
// Admin accounts are provisioned from config, never self-assigned.
var ValidRoles = map[UserRole]bool{
	RolePlayer:    true,
	RoleCoach:     true,
	RoleRecruiter: true,
}

// SubscriptionPlan is the recruiter billing tier.
type SubscriptionPlan string

const (
	PlanScout SubscriptionPlan = "scout" // free tier
	PlanPro   SubscriptionPlan = "pro"   // paid tier, unlocks contact info and exports
)

// PlanDisplayNames maps plans to what the UI shows.
var PlanDisplayNames = map[SubscriptionPlan]string{
	PlanScout: "Scout",
	PlanPro:   "Pro",
}

type User struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	Username    string           `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email       string           `gorm:"uniqueIndex;size:254;not null" json:"email"`
	Password    string           `gorm:"not null" json:"-"`
	PhoneNumber string           `gorm:"index;size:20" json:"phone_number"`
	Role        UserRole         `gorm:"size:20;not null;default:'player';index" json:"role"`
	Plan        SubscriptionPlan `gorm:"size:20;not null;default:'scout'" json:"plan"`

	// Billing provider linkage, set after the first checkout completes.
	BillingCustomerID string `gorm:"size:64;index" json:"-"`

	// Brute force protection state, managed by the lockout service.
	FailedLoginAttempts int        `gorm:"not null;default:0" json:"-"`
	LastFailedLoginAt   *time.Time `json:"-"`
	LockedUntil         *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HashPassword securely hashes the user's password.
func (u *User) HashPassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// ValidatePassword compares a plain-text password with the stored hash.
func (u *User) ValidatePassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// IsLocked reports whether the account is currently locked out.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// PlanName returns the display name for the user's plan.
func (u *User) PlanName() string {
	if name, ok := PlanDisplayNames[u.Plan]; ok {
		return name
	}
	return string(u.Plan)
}

func (u *User) IsValid() error {
	if len(u.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if !ValidRoles[u.Role] && u.Role != RoleAdmin {
		return errors.New("invalid role")
	}
	return nil
}
