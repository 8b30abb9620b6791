// File: internal/repository/favorite/favorite_repository.go
package favorite

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/domain"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

// FavoriteRepository handles a recruiter's saved players.
type FavoriteRepository interface {
	Save(ctx context.Context, fav *domain.Favorite) (*domain.Favorite, error)
	Remove(ctx context.Context, recruiterID, playerID uint) error
	ListByRecruiter(ctx context.Context, recruiterID uint) ([]domain.Favorite, error)
	Exists(ctx context.Context, recruiterID, playerID uint) (bool, error)
}

type gormFavoriteRepository struct {
	db *gorm.DB
}

func NewGormFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &gormFavoriteRepository{db: db}
}

// Save inserts the pair; saving an already saved player returns the
// existing row instead of a duplicate error.
func (r *gormFavoriteRepository) Save(ctx context.Context, fav *domain.Favorite) (*domain.Favorite, error) {
	if fav.RecruiterID == 0 || fav.PlayerID == 0 {
		return nil, errors.New("recruiter and player IDs are required")
	}

	var existing domain.Favorite
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ? AND player_id = ?", fav.RecruiterID, fav.PlayerID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[FavoriteRepository] Database error checking favorite: %v", err)
		return nil, errors.New("database error saving favorite")
	}

	if err := r.db.WithContext(ctx).Create(fav).Error; err != nil {
		log.Printf("[FavoriteRepository] Database error creating favorite: %v", err)
		return nil, errors.New("database error saving favorite")
	}
	return fav, nil
}

func (r *gormFavoriteRepository) Remove(ctx context.Context, recruiterID, playerID uint) error {
	result := r.db.WithContext(ctx).
		Where("recruiter_id = ? AND player_id = ?", recruiterID, playerID).
		Delete(&domain.Favorite{})
	if result.Error != nil {
		log.Printf("[FavoriteRepository] Database error removing favorite: %v", result.Error)
		return errors.New("database error removing favorite")
	}
	if result.RowsAffected == 0 {
		return ErrFavoriteNotFound
	}
	return nil
}

func (r *gormFavoriteRepository) ListByRecruiter(ctx context.Context, recruiterID uint) ([]domain.Favorite, error) {
	if recruiterID == 0 {
		return nil, errors.New("invalid recruiter ID")
	}

	var favorites []domain.Favorite
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at desc").
		Find(&favorites).Error
	if err != nil {
		log.Printf("[FavoriteRepository] Database error listing favorites for recruiter %d: %v", recruiterID, err)
		return nil, errors.New("database error listing favorites")
	}
	return favorites, nil
}

func (r *gormFavoriteRepository) Exists(ctx context.Context, recruiterID, playerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Favorite{}).
		Where("recruiter_id = ? AND player_id = ?", recruiterID, playerID).
		Count(&count).Error
	if err != nil {
		return false, errors.New("database error checking favorite")
	}
	return count > 0, nil
}
