// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AccountRepository defines operations for accounts
type AccountRepository interface {
	Repository[models.Account, models.AccountFilter]
	ByEmail(ctx context.Context, email string) (*models.Account, error)
	ByUUID(ctx context.Context, uuid string) (*models.Account, error)
	UpdateLastLogin(ctx context.Context, accountID uint, at time.Time) error
}

// ModelProfileRepository defines operations for model profiles
type ModelProfileRepository interface {
	Repository[models.ModelProfile, models.ModelProfileFilter]
	ByAccountID(ctx context.Context, accountID uint) (*models.ModelProfile, error)
	Update(ctx context.Context, profile *models.ModelProfile) error
	ListAll(ctx context.Context, limit, offset int) ([]*models.ModelProfile, error)
}

// AgencyProfileRepository defines operations for agency profiles
type AgencyProfileRepository interface {
	Repository[models.AgencyProfile, models.AgencyProfileFilter]
	ByAccountID(ctx context.Context, accountID uint) (*models.AgencyProfile, error)
	Update(ctx context.Context, profile *models.AgencyProfile) error
}

// CampaignRepository defines operations for campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByAgencyProfileID(ctx context.Context, agencyProfileID uint, limit, offset int) ([]*models.Campaign, error)
	ListAll(ctx context.Context, limit, offset int) ([]*models.Campaign, error)
	Update(ctx context.Context, campaign *models.Campaign) error
}

// ApplicationRepository defines operations for campaign applications
type ApplicationRepository interface {
	Repository[models.Application, models.ApplicationFilter]
	ByCampaignAndModel(ctx context.Context, campaignID, modelProfileID uint) (*models.Application, error)
}

// MatchRepository defines operations for campaign matches
type MatchRepository interface {
	Repository[models.Match, models.MatchFilter]
	ByCampaignAndModel(ctx context.Context, campaignID, modelProfileID uint) (*models.Match, error)
	Upsert(ctx context.Context, match *models.Match) error
	Approve(ctx context.Context, campaignID, modelProfileID, agencyProfileID uint) (int64, error)
	ApproveAllPending(ctx context.Context, agencyProfileID, modelProfileID uint) ([]uint, error)
	ListPending(ctx context.Context, agencyProfileID uint) ([]*models.Match, error)
	ListApprovedByAgency(ctx context.Context, agencyProfileID uint, campaignID *uint) ([]*models.Match, error)
	ListApprovedByModel(ctx context.Context, modelProfileID uint, campaignID *uint) ([]*models.Match, error)
	MarkChannelProvisioned(ctx context.Context, campaignID, modelProfileID uint) error
	ListApprovedUnprovisioned(ctx context.Context, limit int) ([]*models.Match, error)
}

// FavoriteRepository defines operations for agency favorites
type FavoriteRepository interface {
	Repository[models.Favorite, models.FavoriteFilter]
	Upsert(ctx context.Context, favorite *models.Favorite) error
	Delete(ctx context.Context, agencyProfileID, modelProfileID uint) (int64, error)
	ListByModel(ctx context.Context, modelProfileID uint) ([]*models.Favorite, error)
	ListByAgency(ctx context.Context, agencyProfileID uint) ([]*models.Favorite, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAccount(ctx context.Context, accountID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
