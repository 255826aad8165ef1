package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepositoryImpl implements the MatchRepository interface
type MatchRepositoryImpl struct {
	*BaseRepository[models.Match, models.MatchFilter]
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &MatchRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Match, models.MatchFilter](db),
	}
}

// ByCampaignAndModel retrieves the match for a (campaign, model) pair
func (r *MatchRepositoryImpl) ByCampaignAndModel(ctx context.Context, campaignID, modelProfileID uint) (*models.Match, error) {
	filter := models.MatchFilter{
		CampaignID:     &campaignID,
		ModelProfileID: &modelProfileID,
	}
	matches, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}
	return matches[0], nil
}

// Upsert inserts a match row or, on the (campaign, model) unique key,
// refreshes score and matched-at and re-opens the approval gate. A single
// ON CONFLICT statement so concurrent re-applications cannot race the reset.
func (r *MatchRepositoryImpl) Upsert(ctx context.Context, match *models.Match) error {
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
		Columns: []clause.Column{{Name: "campaign_id"}, {Name: "model_profile_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"score":               match.Score,
			"matched_at":          utils.UTCNow(),
			"agency_approved":     false,
			"channel_provisioned": false,
		}),
	}).Create(match).Error
	if err != nil {
		return err
	}

	return nil
}

// Approve flips the approval flag for a pending match scoped to the full
// (campaign, model, agency) triple. Postgres counts rows matched by the
// WHERE clause, not rows changed, so the pending filter is what makes zero
// rows mean "no pending match for this agency" rather than "no value change".
func (r *MatchRepositoryImpl) Approve(ctx context.Context, campaignID, modelProfileID, agencyProfileID uint) (int64, error) {
	db := r.getDB(ctx)

	result := db.Model(&models.Match{}).
		Where("campaign_id = ? AND model_profile_id = ? AND agency_profile_id = ? AND agency_approved = ?",
			campaignID, modelProfileID, agencyProfileID, false).
		Update("agency_approved", true)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// ApproveAllPending approves every pending match between the agency and the
// model in one statement and returns the affected campaign ids.
func (r *MatchRepositoryImpl) ApproveAllPending(ctx context.Context, agencyProfileID, modelProfileID uint) ([]uint, error) {
	db := r.getDB(ctx)

	var campaignIDs []uint
	err := db.Model(&models.Match{}).
		Where("agency_profile_id = ? AND model_profile_id = ? AND agency_approved = ?",
			agencyProfileID, modelProfileID, false).
		Pluck("campaign_id", &campaignIDs).Error
	if err != nil {
		return nil, err
	}
	if len(campaignIDs) == 0 {
		return nil, nil
	}

	err = db.Model(&models.Match{}).
		Where("agency_profile_id = ? AND model_profile_id = ? AND agency_approved = ?",
			agencyProfileID, modelProfileID, false).
		Update("agency_approved", true).Error
	if err != nil {
		return nil, err
	}

	return campaignIDs, nil
}

// ListPending retrieves unapproved matches for an agency with model profiles preloaded
func (r *MatchRepositoryImpl) ListPending(ctx context.Context, agencyProfileID uint) ([]*models.Match, error) {
	filter := models.MatchFilter{
		AgencyProfileID: &agencyProfileID,
		AgencyApproved:  utils.ToPtr(false),
	}
	return r.ByFilter(ctx, filter, "matched_at DESC", 0, 0)
}

// ListApprovedByAgency retrieves approved matches on the agency side,
// optionally scoped to one campaign
func (r *MatchRepositoryImpl) ListApprovedByAgency(ctx context.Context, agencyProfileID uint, campaignID *uint) ([]*models.Match, error) {
	filter := models.MatchFilter{
		AgencyProfileID: &agencyProfileID,
		AgencyApproved:  utils.ToPtr(true),
		CampaignID:      campaignID,
	}
	return r.ByFilter(ctx, filter, "matched_at DESC", 0, 0)
}

// ListApprovedByModel retrieves approved matches on the model side,
// optionally scoped to one campaign
func (r *MatchRepositoryImpl) ListApprovedByModel(ctx context.Context, modelProfileID uint, campaignID *uint) ([]*models.Match, error) {
	filter := models.MatchFilter{
		ModelProfileID: &modelProfileID,
		AgencyApproved: utils.ToPtr(true),
		CampaignID:     campaignID,
	}
	return r.ByFilter(ctx, filter, "matched_at DESC", 0, 0)
}

// MarkChannelProvisioned records that the communication channel exists for a match
func (r *MatchRepositoryImpl) MarkChannelProvisioned(ctx context.Context, campaignID, modelProfileID uint) error {
	db := r.getDB(ctx)

	return db.Model(&models.Match{}).
		Where("campaign_id = ? AND model_profile_id = ?", campaignID, modelProfileID).
		Update("channel_provisioned", true).Error
}

// ListApprovedUnprovisioned retrieves approved matches whose channel creation
// has not succeeded yet, oldest first, for the provisioning reconciler.
func (r *MatchRepositoryImpl) ListApprovedUnprovisioned(ctx context.Context, limit int) ([]*models.Match, error) {
	db := r.getDB(ctx)

	var matches []*models.Match
	query := db.Where("agency_approved = ? AND channel_provisioned = ?", true, false).
		Order("matched_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&matches).Error
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// ByFilter retrieves matches based on filter criteria
func (r *MatchRepositoryImpl) ByFilter(ctx context.Context, filter models.MatchFilter, orderBy string, limit, offset int) ([]*models.Match, error) {
	db := r.getDB(ctx)

	var matches []*models.Match
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

	query = query.Preload("ModelProfile").Preload("Campaign")

	err := query.Find(&matches).Error
	if err != nil {
		return nil, err
	}

	return matches, nil
}

// Count returns the number of matches matching the filter
func (r *MatchRepositoryImpl) Count(ctx context.Context, filter models.MatchFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Match{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any match matching the filter exists
func (r *MatchRepositoryImpl) Exists(ctx context.Context, filter models.MatchFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *MatchRepositoryImpl) applyFilter(db *gorm.DB, filter models.MatchFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.ModelProfileID != nil {
		db = db.Where("model_profile_id = ?", *filter.ModelProfileID)
	}
	if filter.AgencyProfileID != nil {
		db = db.Where("agency_profile_id = ?", *filter.AgencyProfileID)
	}
	if filter.AgencyApproved != nil {
		db = db.Where("agency_approved = ?", *filter.AgencyApproved)
	}
	if filter.MinScore != nil {
		db = db.Where("score >= ?", *filter.MinScore)
	}
	if filter.MatchedAfter != nil {
		db = db.Where("matched_at >= ?", *filter.MatchedAfter)
	}
	if filter.MatchedBefore != nil {
		db = db.Where("matched_at < ?", *filter.MatchedBefore)
	}
	return db
}
