package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dteaa/membership_service/internal/domain"
)

type AdminRepository interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	// Seed adds the given users as admins; existing rows are left alone.
	Seed(ctx context.Context, userIDs []string) error
	ListReviews(ctx context.Context, profileID string) ([]domain.ReviewLog, error)
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Admin{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *adminRepository) Seed(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	admins := make([]domain.Admin, 0, len(userIDs))
	for _, id := range userIDs {
		admins = append(admins, domain.Admin{UserID: id})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&admins).Error
}

func (r *adminRepository) ListReviews(ctx context.Context, profileID string) ([]domain.ReviewLog, error) {
	var logs []domain.ReviewLog
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
