package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"gorm.io/gorm"
)

// ApplicationRepositoryImpl implements the ApplicationRepository interface
type ApplicationRepositoryImpl struct {
	*BaseRepository[models.Application, models.ApplicationFilter]
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Application, models.ApplicationFilter](db),
	}
}

// ByCampaignAndModel retrieves the application for a (campaign, model) pair
func (r *ApplicationRepositoryImpl) ByCampaignAndModel(ctx context.Context, campaignID, modelProfileID uint) (*models.Application, error) {
	filter := models.ApplicationFilter{
		CampaignID:     &campaignID,
		ModelProfileID: &modelProfileID,
	}
	applications, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(applications) == 0 {
		return nil, nil
	}
	return applications[0], nil
}

// ByFilter retrieves applications based on filter criteria
func (r *ApplicationRepositoryImpl) ByFilter(ctx context.Context, filter models.ApplicationFilter, orderBy string, limit, offset int) ([]*models.Application, error) {
	db := r.getDB(ctx)

	var applications []*models.Application
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

	err := query.Find(&applications).Error
	if err != nil {
		return nil, err
	}

	return applications, nil
}

// Count returns the number of applications matching the filter
func (r *ApplicationRepositoryImpl) Count(ctx context.Context, filter models.ApplicationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Application{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any application matching the filter exists
func (r *ApplicationRepositoryImpl) Exists(ctx context.Context, filter models.ApplicationFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *ApplicationRepositoryImpl) applyFilter(db *gorm.DB, filter models.ApplicationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.ModelProfileID != nil {
		db = db.Where("model_profile_id = ?", *filter.ModelProfileID)
	}
	if filter.AppliedAfter != nil {
		db = db.Where("applied_at >= ?", *filter.AppliedAfter)
	}
	if filter.AppliedBefore != nil {
		db = db.Where("applied_at < ?", *filter.AppliedBefore)
	}
	return db
}
