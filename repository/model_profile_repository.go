package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"gorm.io/gorm"
)

// ModelProfileRepositoryImpl implements the ModelProfileRepository interface
type ModelProfileRepositoryImpl struct {
	*BaseRepository[models.ModelProfile, models.ModelProfileFilter]
}

// NewModelProfileRepository creates a new model profile repository
func NewModelProfileRepository(db *gorm.DB) ModelProfileRepository {
	return &ModelProfileRepositoryImpl{
		BaseRepository: NewBaseRepository[models.ModelProfile, models.ModelProfileFilter](db),
	}
}

// ByAccountID retrieves the model profile owned by the given account
func (r *ModelProfileRepositoryImpl) ByAccountID(ctx context.Context, accountID uint) (*models.ModelProfile, error) {
	filter := models.ModelProfileFilter{AccountID: &accountID}
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
func (r *ModelProfileRepositoryImpl) Update(ctx context.Context, profile *models.ModelProfile) error {
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

// ListAll retrieves model profiles with pagination, newest first
func (r *ModelProfileRepositoryImpl) ListAll(ctx context.Context, limit, offset int) ([]*models.ModelProfile, error) {
	return r.ByFilter(ctx, models.ModelProfileFilter{}, "created_at DESC", limit, offset)
}

// ByFilter retrieves model profiles based on filter criteria
func (r *ModelProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.ModelProfileFilter, orderBy string, limit, offset int) ([]*models.ModelProfile, error) {
	db := r.getDB(ctx)

	var profiles []*models.ModelProfile
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

// Count returns the number of model profiles matching the filter
func (r *ModelProfileRepositoryImpl) Count(ctx context.Context, filter models.ModelProfileFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.ModelProfile{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any model profile matching the filter exists
func (r *ModelProfileRepositoryImpl) Exists(ctx context.Context, filter models.ModelProfileFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ModelProfileRepositoryImpl) applyFilter(db *gorm.DB, filter models.ModelProfileFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.Gender != nil {
		db = db.Where("gender = ?", *filter.Gender)
	}
	if filter.City != nil {
		db = db.Where("city = ?", *filter.City)
	}
	if filter.IsPro != nil {
		db = db.Where("is_pro = ?", *filter.IsPro)
	}
	return db
}
