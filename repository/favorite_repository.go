package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteRepositoryImpl implements the FavoriteRepository interface
type FavoriteRepositoryImpl struct {
	*BaseRepository[models.Favorite, models.FavoriteFilter]
}

// NewFavoriteRepository creates a new favorite repository
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &FavoriteRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Favorite, models.FavoriteFilter](db),
	}
}

// Upsert inserts a favorite or refreshes its timestamp on the
// (agency, model) unique key. Re-favoriting is never an error.
func (r *FavoriteRepositoryImpl) Upsert(ctx context.Context, favorite *models.Favorite) error {
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

	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "agency_profile_id"}, {Name: "model_profile_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"created_at": utils.UTCNow(),
		}),
	}).Create(favorite).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a favorite pair, returning the number of affected rows
func (r *FavoriteRepositoryImpl) Delete(ctx context.Context, agencyProfileID, modelProfileID uint) (int64, error) {
	db := r.getDB(ctx)

	result := db.Where("agency_profile_id = ? AND model_profile_id = ?", agencyProfileID, modelProfileID).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// ListByModel retrieves the agencies that favorited a model, newest first
func (r *FavoriteRepositoryImpl) ListByModel(ctx context.Context, modelProfileID uint) ([]*models.Favorite, error) {
	filter := models.FavoriteFilter{ModelProfileID: &modelProfileID}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// ListByAgency retrieves an agency's favorites, newest first
func (r *FavoriteRepositoryImpl) ListByAgency(ctx context.Context, agencyProfileID uint) ([]*models.Favorite, error) {
	filter := models.FavoriteFilter{AgencyProfileID: &agencyProfileID}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// ByFilter retrieves favorites based on filter criteria
func (r *FavoriteRepositoryImpl) ByFilter(ctx context.Context, filter models.FavoriteFilter, orderBy string, limit, offset int) ([]*models.Favorite, error) {
	db := r.getDB(ctx)

	var favorites []*models.Favorite
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

	query = query.Preload("AgencyProfile").Preload("ModelProfile")

	err := query.Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	return favorites, nil
}

// Count returns the number of favorites matching the filter
func (r *FavoriteRepositoryImpl) Count(ctx context.Context, filter models.FavoriteFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Favorite{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any favorite matching the filter exists
func (r *FavoriteRepositoryImpl) Exists(ctx context.Context, filter models.FavoriteFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *FavoriteRepositoryImpl) applyFilter(db *gorm.DB, filter models.FavoriteFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.AgencyProfileID != nil {
		db = db.Where("agency_profile_id = ?", *filter.AgencyProfileID)
	}
	if filter.ModelProfileID != nil {
		db = db.Where("model_profile_id = ?", *filter.ModelProfileID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}
	return db
}
