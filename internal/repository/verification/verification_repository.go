// File: internal/repository/verification/verification_repository.go
package verification

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jucoreach/jucoreach/internal/domain"
)

// VerificationRepository persists one verification record per player.
type VerificationRepository interface {
	// FindByUserID returns the player's record or nil when none exists yet.
	FindByUserID(ctx context.Context, userID uint) (*domain.VerificationRecord, error)
	// FindOrCreate returns the player's record, creating an empty one on
	// first use. This is the implicit-creation path behind the start call.
	FindOrCreate(ctx context.Context, userID uint) (*domain.VerificationRecord, error)
	Update(ctx context.Context, record *domain.VerificationRecord) error
	// FindByStatus lists records in a given status, oldest first, for the
	// admin review queue.
	FindByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationRecord, int64, error)
	CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error)
}

// GormVerificationRepository implements VerificationRepository using GORM
type GormVerificationRepository struct {
	db *gorm.DB
}

func NewGormVerificationRepository(db *gorm.DB) VerificationRepository {
	return &GormVerificationRepository{db: db}
}

func (r *GormVerificationRepository) FindByUserID(ctx context.Context, userID uint) (*domain.VerificationRecord, error) {
	var record domain.VerificationRecord
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *GormVerificationRepository) FindOrCreate(ctx context.Context, userID uint) (*domain.VerificationRecord, error) {
	record, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record = &domain.VerificationRecord{
		UserID: userID,
		Status: domain.VerificationNone,
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func (r *GormVerificationRepository) Update(ctx context.Context, record *domain.VerificationRecord) error {
	if record.ID == 0 {
		return errors.New("invalid verification record ID")
	}
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *GormVerificationRepository) FindByStatus(ctx context.Context, status domain.VerificationStatus, limit, offset int) ([]domain.VerificationRecord, int64, error) {
	if limit <= 0 || limit > 500 {
		return nil, 0, errors.New("invalid limit: must be between 1 and 500")
	}
	if offset < 0 {
		return nil, 0, errors.New("invalid offset: must be >= 0")
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.VerificationRecord{}).
		Where("status = ?", status).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []domain.VerificationRecord
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at asc").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *GormVerificationRepository) CountByStatus(ctx context.Context, status domain.VerificationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.VerificationRecord{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
