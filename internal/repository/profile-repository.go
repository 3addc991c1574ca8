package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dteaa/membership_service/internal/domain"
	"github.com/dteaa/membership_service/internal/helper"
)

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrNotPending        = errors.New("profile is not pending review")
	ErrNotRejected       = errors.New("profile is not awaiting resubmission")
	ErrDuplicateAlumniID = errors.New("alumni id already assigned")
	ErrProfileExists     = errors.New("profile already exists")
)

type DirectoryFilter struct {
	Query       string
	PassOutYear int
	Limit       int
	Offset      int
}

type ProfileRepository interface {
	Insert(ctx context.Context, profile *domain.Profile) error
	// Resubmit moves a rejected profile back to pending and replaces its sections.
	Resubmit(ctx context.Context, profile *domain.Profile) error
	// ReplaceSections rewrites every child table of the profile, delete-all then insert-all.
	ReplaceSections(ctx context.Context, profile *domain.Profile) error
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	ListByStatus(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.Profile, error)
	ListDirectory(ctx context.Context, filter DirectoryFilter) ([]domain.Profile, error)
	Verify(ctx context.Context, id, adminID string, at time.Time) error
	Reject(ctx context.Context, id, adminID, comments string) error
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Insert(ctx context.Context, profile *domain.Profile) error {
	if profile == nil {
		return errors.New("nil profile")
	}
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return translateUnique(err)
	}
	return nil
}

func (r *profileRepository) Resubmit(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Profile{}).
			Where("id = ? AND status = ?", profile.ID, domain.ProfileStatusRejected).
			Updates(map[string]any{
				"status":              domain.ProfileStatusPending,
				"rejection_comments":  gorm.Expr("NULL"),
				"payment_receipt_url": profile.PaymentReceiptURL,
				"updated_at":          time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotRejected
		}
		return replaceChildren(tx, profile)
	})
}

func (r *profileRepository) ReplaceSections(ctx context.Context, profile *domain.Profile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Profile{}).Where("id = ?", profile.ID).Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrProfileNotFound
		}
		return replaceChildren(tx, profile)
	})
}

func replaceChildren(tx *gorm.DB, p *domain.Profile) error {
	children := []any{
		&domain.PersonalDetails{},
		&domain.ContactDetails{},
		&domain.EmployeeExperience{},
		&domain.EntrepreneurExperience{},
		&domain.OpenToWork{},
		&domain.PrivacySettings{},
	}
	for _, model := range children {
		if err := tx.Where("profile_id = ?", p.ID).Delete(model).Error; err != nil {
			return err
		}
	}

	if p.Personal != nil {
		p.Personal.ID, p.Personal.ProfileID = 0, p.ID
		if err := tx.Create(p.Personal).Error; err != nil {
			return err
		}
	}
	if p.Contact != nil {
		p.Contact.ID, p.Contact.ProfileID = 0, p.ID
		if err := tx.Create(p.Contact).Error; err != nil {
			return err
		}
	}
	if len(p.Employees) > 0 {
		for i := range p.Employees {
			p.Employees[i].ID, p.Employees[i].ProfileID = 0, p.ID
		}
		if err := tx.Create(&p.Employees).Error; err != nil {
			return err
		}
	}
	if len(p.Ventures) > 0 {
		for i := range p.Ventures {
			p.Ventures[i].ID, p.Ventures[i].ProfileID = 0, p.ID
		}
		if err := tx.Create(&p.Ventures).Error; err != nil {
			return err
		}
	}
	if p.OpenToWork != nil {
		p.OpenToWork.ID, p.OpenToWork.ProfileID = 0, p.ID
		if err := tx.Create(p.OpenToWork).Error; err != nil {
			return err
		}
	}
	if p.Privacy != nil {
		p.Privacy.ID, p.Privacy.ProfileID = 0, p.ID
		if err := tx.Create(p.Privacy).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *profileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var profile domain.Profile
	err := withSections(r.db.WithContext(ctx)).
		Where("id = ?", id).
		First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepository) ListByStatus(ctx context.Context, status domain.ProfileStatus, limit, offset int) ([]domain.Profile, error) {
	var profiles []domain.Profile
	err := r.db.WithContext(ctx).
		Preload("Personal").
		Where("status = ?", status).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) ListDirectory(ctx context.Context, filter DirectoryFilter) ([]domain.Profile, error) {
	q := withSections(r.db.WithContext(ctx)).
		Joins("JOIN personal_details ON personal_details.profile_id = profiles.id").
		Where("profiles.status = ?", domain.ProfileStatusVerified)

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + term + "%"
		q = q.Where("(personal_details.first_name ILIKE ? OR personal_details.last_name ILIKE ?)", like, like)
	}
	if filter.PassOutYear > 0 {
		q = q.Where("personal_details.pass_out_year = ?", filter.PassOutYear)
	}

	var profiles []domain.Profile
	err := q.Order("personal_details.first_name ASC, personal_details.last_name ASC").
		Limit(filter.Limit).Offset(filter.Offset).
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *profileRepository) Verify(ctx context.Context, id, adminID string, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Profile{}).
			Where("id = ? AND status = ?", id, domain.ProfileStatusPending).
			Updates(map[string]any{
				"status":      domain.ProfileStatusVerified,
				"verified_at": at,
				"verified_by": adminID,
				"updated_at":  at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrNotPending(tx, id)
		}
		return tx.Create(&domain.ReviewLog{ActorID: adminID, Action: domain.ReviewActionVerify, ProfileID: id}).Error
	})
}

func (r *profileRepository) Reject(ctx context.Context, id, adminID, comments string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Profile{}).
			Where("id = ? AND status = ?", id, domain.ProfileStatusPending).
			Updates(map[string]any{
				"status":             domain.ProfileStatusRejected,
				"rejection_comments": comments,
				"updated_at":         time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missingOrNotPending(tx, id)
		}
		return tx.Create(&domain.ReviewLog{ActorID: adminID, Action: domain.ReviewActionReject, ProfileID: id, Note: &comments}).Error
	})
}

func missingOrNotPending(tx *gorm.DB, id string) error {
	var n int64
	if err := tx.Model(&domain.Profile{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return ErrNotPending
}

func withSections(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Personal").
		Preload("Contact").
		Preload("Employees").
		Preload("Ventures").
		Preload("OpenToWork").
		Preload("Privacy")
}

// translateUnique maps postgres unique violations to repository sentinels.
func translateUnique(err error) error {
	switch {
	case helper.IsUniqueViolation(err, "alumni_id"):
		return ErrDuplicateAlumniID
	case helper.IsUniqueViolation(err, ""):
		return ErrProfileExists
	}
	return err
}
