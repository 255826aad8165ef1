package repository

import (
	"context"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"gorm.io/gorm"
)

// AuditLogRepositoryImpl implements the AuditLogRepository interface
type AuditLogRepositoryImpl struct {
	*BaseRepository[models.AuditLog, models.AuditLogFilter]
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &AuditLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.AuditLog, models.AuditLogFilter](db),
	}
}

// ListByAccount retrieves audit logs for an account, newest first
func (r *AuditLogRepositoryImpl) ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.AuditLog, error) {
	filter := models.AuditLogFilter{AccountID: &accountID}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ListByAction retrieves audit logs by action, newest first
func (r *AuditLogRepositoryImpl) ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error) {
	filter := models.AuditLogFilter{Action: &action}
	return r.ByFilter(ctx, filter, "created_at DESC", limit, offset)
}

// ByFilter retrieves audit logs based on filter criteria
func (r *AuditLogRepositoryImpl) ByFilter(ctx context.Context, filter models.AuditLogFilter, orderBy string, limit, offset int) ([]*models.AuditLog, error) {
	db := r.getDB(ctx)

	var logs []*models.AuditLog
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

	err := query.Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return logs, nil
}

// Count returns the number of audit logs matching the filter
func (r *AuditLogRepositoryImpl) Count(ctx context.Context, filter models.AuditLogFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.AuditLog{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any audit log matching the filter exists
func (r *AuditLogRepositoryImpl) Exists(ctx context.Context, filter models.AuditLogFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AuditLogRepositoryImpl) applyFilter(db *gorm.DB, filter models.AuditLogFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.AccountID != nil {
		db = db.Where("account_id = ?", *filter.AccountID)
	}
	if filter.Action != nil {
		db = db.Where("action = ?", *filter.Action)
	}
	if filter.Success != nil {
		db = db.Where("success = ?", *filter.Success)
	}
	if filter.IPAddress != nil {
		db = db.Where("ip_address = ?", *filter.IPAddress)
	}
	if filter.RequestID != nil {
		db = db.Where("request_id = ?", *filter.RequestID)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}
	return db
}
