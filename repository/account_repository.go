package repository

import (
	"context"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"gorm.io/gorm"
)

// AccountRepositoryImpl implements the AccountRepository interface
type AccountRepositoryImpl struct {
	*BaseRepository[models.Account, models.AccountFilter]
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &AccountRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Account, models.AccountFilter](db),
	}
}

// ByEmail retrieves an account by email
func (r *AccountRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.Account, error) {
	filter := models.AccountFilter{Email: &email}
	accounts, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return accounts[0], nil
}

// ByUUID retrieves an account by UUID
func (r *AccountRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Account, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.AccountFilter{UUID: &parsedUUID}
	accounts, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}
	return accounts[0], nil
}

// UpdateLastLogin records a successful login time
func (r *AccountRepositoryImpl) UpdateLastLogin(ctx context.Context, accountID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("last_login_at", at).Error
}

// ByFilter retrieves accounts based on filter criteria
func (r *AccountRepositoryImpl) ByFilter(ctx context.Context, filter models.AccountFilter, orderBy string, limit, offset int) ([]*models.Account, error) {
	db := r.getDB(ctx)

	var accounts []*models.Account
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

	err := query.Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	return accounts, nil
}

// Count returns the number of accounts matching the filter
func (r *AccountRepositoryImpl) Count(ctx context.Context, filter models.AccountFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Account{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Exists checks if any account matching the filter exists
func (r *AccountRepositoryImpl) Exists(ctx context.Context, filter models.AccountFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter conditions to the GORM query
func (r *AccountRepositoryImpl) applyFilter(db *gorm.DB, filter models.AccountFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		db = db.Where("email = ?", *filter.Email)
	}
	if filter.Role != nil {
		db = db.Where("role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}
	return db
}
