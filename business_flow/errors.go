// Package businessflow contains the core business logic and use cases for marketplace workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Account-related errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrRoleMismatch       = errors.New("account role does not permit this operation")

	// Captcha errors
	ErrCaptchaRequired = errors.New("captcha verification required")
	ErrCaptchaInvalid  = errors.New("captcha verification failed")

	// Profile errors
	ErrModelProfileNotFound  = errors.New("model profile not found")
	ErrAgencyProfileNotFound = errors.New("agency profile not found")

	// Campaign-related errors
	ErrCampaignNotFound          = errors.New("campaign not found")
	ErrCampaignAccessDenied      = errors.New("campaign access denied")
	ErrCampaignTitleRequired     = errors.New("campaign title is required")
	ErrCampaignCategoryRequired  = errors.New("campaign category is required")
	ErrCampaignCityRequired      = errors.New("campaign city is required")
	ErrCampaignDeadlinePassed    = errors.New("campaign deadline has passed")
	ErrCampaignDatesInvalid      = errors.New("campaign end date must be after start date")
	ErrCampaignUpdateRequired    = errors.New("at least one field must be provided for update")
	ErrCampaignDescriptionLength = errors.New("campaign description exceeds maximum length")

	// Application and match errors
	ErrAlreadyApplied     = errors.New("already applied to this campaign")
	ErrMatchNotFound      = errors.New("match not found")
	ErrProfileNotEligible = errors.New("profile does not meet campaign requirements")

	// Favorite errors
	ErrFavoriteNotFound = errors.New("favorite not found")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsRoleMismatch(err error) bool {
	return errors.Is(err, ErrRoleMismatch)
}

func IsCaptchaInvalid(err error) bool {
	return errors.Is(err, ErrCaptchaInvalid) || errors.Is(err, ErrCaptchaRequired)
}

func IsModelProfileNotFound(err error) bool {
	return errors.Is(err, ErrModelProfileNotFound)
}

func IsAgencyProfileNotFound(err error) bool {
	return errors.Is(err, ErrAgencyProfileNotFound)
}

func IsCampaignNotFound(err error) bool {
	return errors.Is(err, ErrCampaignNotFound)
}

func IsCampaignAccessDenied(err error) bool {
	return errors.Is(err, ErrCampaignAccessDenied)
}

func IsCampaignDeadlinePassed(err error) bool {
	return errors.Is(err, ErrCampaignDeadlinePassed)
}

func IsAlreadyApplied(err error) bool {
	return errors.Is(err, ErrAlreadyApplied)
}

func IsMatchNotFound(err error) bool {
	return errors.Is(err, ErrMatchNotFound)
}

func IsProfileNotEligible(err error) bool {
	return errors.Is(err, ErrProfileNotEligible)
}

func IsFavoriteNotFound(err error) bool {
	return errors.Is(err, ErrFavoriteNotFound)
}

func IsInvalidPagination(err error) bool {
	return errors.Is(err, ErrInvalidPage) || errors.Is(err, ErrInvalidPageSize)
}
