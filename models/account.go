// Package models contains domain entities and business models for the marketplace
package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountRole represents the side of the marketplace an account acts on
type AccountRole string

const (
	AccountRoleModel  AccountRole = "model"
	AccountRoleAgency AccountRole = "agency"
)

// String returns the string representation of the role
func (r AccountRole) String() string {
	return string(r)
}

// Valid checks if the role is valid
func (r AccountRole) Valid() bool {
	switch r {
	case AccountRoleModel, AccountRoleAgency:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for AccountRole
func (r *AccountRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = AccountRole(v)
	case []byte:
		*r = AccountRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into AccountRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for AccountRole
func (r AccountRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid AccountRole: %s", r)
	}
	return string(r), nil
}

// Account is the storage-of-record identity for both models and agencies.
// Profiles hang off the account by role.
type Account struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uk_accounts_uuid" json:"uuid"`
	Email        string      `gorm:"size:255;not null;uniqueIndex:uk_accounts_email" json:"email"`
	PasswordHash string      `gorm:"size:255;not null" json:"-"` // Never serialize password hash
	Role         AccountRole `gorm:"size:16;not null;index:idx_accounts_role" json:"role"`
	IsActive     *bool       `gorm:"default:true;index:idx_accounts_is_active" json:"is_active"`

	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_accounts_created_at" json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`

	// Relations
	ModelProfile  *ModelProfile  `gorm:"foreignKey:AccountID" json:"model_profile,omitempty"`
	AgencyProfile *AgencyProfile `gorm:"foreignKey:AccountID" json:"agency_profile,omitempty"`
	AuditLogs     []AuditLog     `gorm:"foreignKey:AccountID" json:"-"`
}

func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate is called before creating a new record
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	a.UpdatedAt = &now
	return nil
}

// IsModel reports whether the account acts on the talent side
func (a *Account) IsModel() bool {
	return a.Role == AccountRoleModel
}

// IsAgency reports whether the account acts on the hiring side
func (a *Account) IsAgency() bool {
	return a.Role == AccountRoleAgency
}

// AccountFilter represents filter criteria for account queries
type AccountFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Email         *string
	Role          *AccountRole
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
