package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/SwipeCast-Vellena/vellena-backend/models"
	"github.com/SwipeCast-Vellena/vellena-backend/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestAccount creates an active account with the given role and a bcrypt password hash
func (tf *TestFixtures) CreateTestAccount(role models.AccountRole) (*models.Account, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("TestPass123!"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := fmt.Sprintf("%09d", rand.Intn(900000000)+100000000)

	account := &models.Account{
		Email:        fmt.Sprintf("%s.%s@example.com", role, suffix),
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(account).Error; err != nil {
		return nil, fmt.Errorf("failed to create test account: %w", err)
	}

	return account, nil
}

// CreateTestModelProfile creates a model profile for the given account
func (tf *TestFixtures) CreateTestModelProfile(accountID uint) (*models.ModelProfile, error) {
	profile := &models.ModelProfile{
		AccountID:   accountID,
		Name:        "Test Model",
		Age:         24,
		Gender:      "female",
		Height:      172,
		Category:    "fashion",
		City:        utils.ToPtr("Milan"),
		Location:    "Milan, Italy",
		Description: "Test model profile",
		IsPro:       utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test model profile: %w", err)
	}

	return profile, nil
}

// CreateTestAgencyProfile creates an agency profile for the given account
func (tf *TestFixtures) CreateTestAgencyProfile(accountID uint) (*models.AgencyProfile, error) {
	profile := &models.AgencyProfile{
		AccountID:   accountID,
		Name:        "Test Agency",
		Description: utils.ToPtr("Test agency profile"),
		City:        utils.ToPtr("Milan"),
	}

	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test agency profile: %w", err)
	}

	return profile, nil
}

// CreateTestCampaign creates an open campaign owned by the given agency profile
func (tf *TestFixtures) CreateTestCampaign(agencyProfileID uint) (*models.Campaign, error) {
	now := utils.UTCNow()

	campaign := &models.Campaign{
		AgencyProfileID:  agencyProfileID,
		Title:            "Test Campaign",
		Category:         "fashion",
		Description:      "Test campaign description",
		City:             "Milan",
		StartDate:        now.Add(7 * 24 * time.Hour),
		EndDate:          utils.ToPtr(now.Add(14 * 24 * time.Hour)),
		Deadline:         now.Add(3 * 24 * time.Hour),
		Compensation:     500,
		RequiredPeople:   2,
		ProOnly:          utils.ToPtr(false),
		GenderPreference: models.GenderPreferenceAny,
	}

	if err := tf.DB.DB.Create(campaign).Error; err != nil {
		return nil, fmt.Errorf("failed to create test campaign: %w", err)
	}

	return campaign, nil
}

// CreateTestMatch creates a pending match between a campaign and a model profile
func (tf *TestFixtures) CreateTestMatch(campaignID, modelProfileID, agencyProfileID uint, score float64) (*models.Match, error) {
	match := &models.Match{
		CampaignID:         campaignID,
		ModelProfileID:     modelProfileID,
		AgencyProfileID:    agencyProfileID,
		Score:              score,
		AgencyApproved:     utils.ToPtr(false),
		ChannelProvisioned: utils.ToPtr(false),
	}

	if err := tf.DB.DB.Create(match).Error; err != nil {
		return nil, fmt.Errorf("failed to create test match: %w", err)
	}

	return match, nil
}

// CreateModelWithProfile creates a model account together with its profile
func (tf *TestFixtures) CreateModelWithProfile() (*models.Account, *models.ModelProfile, error) {
	account, err := tf.CreateTestAccount(models.AccountRoleModel)
	if err != nil {
		return nil, nil, err
	}
	profile, err := tf.CreateTestModelProfile(account.ID)
	if err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}

// CreateAgencyWithProfile creates an agency account together with its profile
func (tf *TestFixtures) CreateAgencyWithProfile() (*models.Account, *models.AgencyProfile, error) {
	account, err := tf.CreateTestAccount(models.AccountRoleAgency)
	if err != nil {
		return nil, nil, err
	}
	profile, err := tf.CreateTestAgencyProfile(account.ID)
	if err != nil {
		return nil, nil, err
	}
	return account, profile, nil
}
