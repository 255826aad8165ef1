package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"gorm.io/gorm"
)

// AgencyProfileRepositoryImpl implements the AgencyProfileRepository interface
type AgencyProfileRepositoryImpl struct {
	*BaseRepository[models.AgencyProfile, models.AgencyProfileFilter]
}

// NewAgencyProfileRepository creates a new agency profile repository
func NewAgencyProfileRepository(db *gorm.DB) AgencyProfileRepository {
	return &AgencyProfileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AgencyProfile, models.AgencyProfileFilter](db),
	}
}

// ByAccountID retrieves the agency profile owned by the given account
func (r *AgencyProfileRepositoryImpl) ByAccountID(ctx context.Context, accountID uint) (*models.AgencyProfile, error) {
	filter := models.AgencyProfileFilter{AccountID: &accountID}
	profiles, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}
	return profiles[0], nil
}

// Update persists changes to an existing profile
func (r *AgencyProfileRepositoryImpl) Update(ctx context.Context, profile *models.AgencyProfile) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Save(profile).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves agency profiles based on filter criteria
func (r *AgencyProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.AgencyProfileFilter, orderBy string, limit, offset int) ([]*models.AgencyProfile, error) {
	db := r.getDB(ctx)

	var profiles []*models.AgencyProfile
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&profiles).Error
	if err != nil {
		return nil, err
	}

	return profiles, nil
}

// Count returns the number of agency profiles matching the filter
func (r *AgencyProfileRepositoryImpl) Count(ctx context.Context, filter models.AgencyProfileFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.AgencyProfile{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any agency profile matching the filter exists
func (r *AgencyProfileRepositoryImpl) Exists(ctx context.Context, filter models.AgencyProfileFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AgencyProfileRepositoryImpl) applyFilter(db *gorm.DB, filter models.AgencyProfileFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.City != nil {
		db = db.Where("city = ?", *filter.City)
	}
	return db
}
