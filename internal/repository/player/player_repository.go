// File: internal/repository/player/player_repository.go
package player

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/domain"
)

var ErrProfileNotFound = errors.New("player profile not found")

// DirectoryFilter holds the recruiter-facing directory filters. Zero values
// mean "no constraint".
type DirectoryFilter struct {
	Position     string
	State        string
	GradYear     int
	MinGPA       float64
	College      string
	VerifiedOnly bool
}

// PlayerRepository handles player profile data operations.
type PlayerRepository interface {
	Create(ctx context.Context, profile *domain.PlayerProfile) (*domain.PlayerProfile, error)
	FindByUserID(ctx context.Context, userID uint) (*domain.PlayerProfile, error)
	FindByID(ctx context.Context, id uint) (*domain.PlayerProfile, error)
	Update(ctx context.Context, profile *domain.PlayerProfile) error
	SetVerified(ctx context.Context, userID uint, verified bool) error
	// Directory returns one page of profiles matching the filter plus the
	// total match count for pagination meta.
	Directory(ctx context.Context, filter DirectoryFilter, limit, offset int) ([]domain.PlayerProfile, int64, error)
}

type gormPlayerRepository struct {
	db *gorm.DB
}

func NewGormPlayerRepository(db *gorm.DB) PlayerRepository {
	return &gormPlayerRepository{db: db}
}

func (r *gormPlayerRepository) Create(ctx context.Context, profile *domain.PlayerProfile) (*domain.PlayerProfile, error) {
	if err := profile.IsValid(); err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		log.Printf("[PlayerRepository] Database error creating profile for user %d: %v", profile.UserID, err)
		return nil, errors.New("database error creating player profile")
	}
	return profile, nil
}

func (r *gormPlayerRepository) FindByUserID(ctx context.Context, userID uint) (*domain.PlayerProfile, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var profile domain.PlayerProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	return r.handleFindError(err, &profile)
}

func (r *gormPlayerRepository) FindByID(ctx context.Context, id uint) (*domain.PlayerProfile, error) {
	if id == 0 {
		return nil, errors.New("invalid profile ID")
	}

	var profile domain.PlayerProfile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	return r.handleFindError(err, &profile)
}

func (r *gormPlayerRepository) Update(ctx context.Context, profile *domain.PlayerProfile) error {
	if profile.ID == 0 {
		return errors.New("invalid profile ID")
	}
	if err := profile.IsValid(); err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		log.Printf("[PlayerRepository] Database error updating profile %d: %v", profile.ID, err)
		return errors.New("database error updating player profile")
	}
	return nil
}

// SetVerified mirrors the verification outcome onto the profile without
// loading it, keeping the directory filter join-free.
func (r *gormPlayerRepository) SetVerified(ctx context.Context, userID uint, verified bool) error {
	result := r.db.WithContext(ctx).Model(&domain.PlayerProfile{}).
		Where("user_id = ?", userID).
		Update("verified", verified)
	if result.Error != nil {
		log.Printf("[PlayerRepository] Database error setting verified for user %d: %v", userID, result.Error)
		return errors.New("database error updating verification flag")
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}

func (r *gormPlayerRepository) Directory(ctx context.Context, filter DirectoryFilter, limit, offset int) ([]domain.PlayerProfile, int64, error) {
	if limit <= 0 || limit > 100 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 100")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	query := r.db.WithContext(ctx).Model(&domain.PlayerProfile{})
	if filter.Position != "" {
		query = query.Where("positions LIKE ?", "%"+strings.ToUpper(strings.TrimSpace(filter.Position))+"%")
	}
	if filter.State != "" {
		query = query.Where("state = ?", strings.ToUpper(strings.TrimSpace(filter.State)))
	}
	if filter.GradYear != 0 {
		query = query.Where("grad_year = ?", filter.GradYear)
	}
	if filter.MinGPA > 0 {
		query = query.Where("gpa >= ?", filter.MinGPA)
	}
	if filter.College != "" {
		query = query.Where("college LIKE ?", "%"+filter.College+"%")
	}
	if filter.VerifiedOnly {
		query = query.Where("verified = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("[PlayerRepository] Database error counting directory results: %v", err)
		return nil, 0, errors.New("database error counting players")
	}

	var profiles []domain.PlayerProfile
	err := query.
		Order("last_name asc, first_name asc").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		log.Printf("[PlayerRepository] Database error in directory query: %v", err)
		return nil, 0, errors.New("database error retrieving players")
	}

	return profiles, total, nil
}

func (r *gormPlayerRepository) handleFindError(err error, profile *domain.PlayerProfile) (*domain.PlayerProfile, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Printf("[PlayerRepository] Database error during find: %v", err)
		return nil, errors.New("database error finding player profile")
	}
	return profile, nil
}
