package user

import (
	"context"

	"github.com/jucoreach/jucoreach/internal/domain"
)

// UserRepository handles user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByPhone(ctx context.Context, phone string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID uint) error
	ResetFailedAttempts(ctx context.Context, id uint) error
	FindAllWithPagination(ctx context.Context, limit, offset int, search string) ([]domain.User, int64, error)
	CountByRole(ctx context.Context, role domain.UserRole) (int64, error)
}
