package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements the CampaignRepository interface
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db),
	}
}

// ByID retrieves a campaign by ID with its owning agency preloaded
func (r *CampaignRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaign models.Campaign
	err := db.Preload("AgencyProfile").Last(&campaign, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &campaign, nil
}

// ByAgencyProfileID retrieves campaigns owned by an agency with pagination
func (r *CampaignRepositoryImpl) ByAgencyProfileID(ctx context.Context, agencyProfileID uint, limit, offset int) ([]*models.Campaign, error) {
	filter := models.CampaignFilter{AgencyProfileID: &agencyProfileID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ListAll retrieves campaigns from all agencies, newest first
func (r *CampaignRepositoryImpl) ListAll(ctx context.Context, limit, offset int) ([]*models.Campaign, error) {
	return r.ByFilter(ctx, models.CampaignFilter{}, "created_at DESC", limit, offset)
}

// Update persists changes to an existing campaign
func (r *CampaignRepositoryImpl) Update(ctx context.Context, campaign *models.Campaign) error {
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

	err = db.Save(campaign).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves campaigns based on filter criteria
func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.Campaign
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

	query = query.Preload("AgencyProfile")

	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// Count returns the number of campaigns matching the filter
func (r *CampaignRepositoryImpl) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any campaign matching the filter exists
func (r *CampaignRepositoryImpl) Exists(ctx context.Context, filter models.CampaignFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.AgencyProfileID != nil {
		db = db.Where("agency_profile_id = ?", *filter.AgencyProfileID)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.City != nil {
		db = db.Where("city = ?", *filter.City)
	}
	if filter.GenderPreference != nil {
		db = db.Where("gender_preference = ?", *filter.GenderPreference)
	}
	if filter.ProOnly != nil {
		db = db.Where("pro_only = ?", *filter.ProOnly)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}
	if filter.DeadlineAfter != nil {
		db = db.Where("deadline >= ?", *filter.DeadlineAfter)
	}
	return db
}
