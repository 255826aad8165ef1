package dto

// SignupRequest represents the account signup payload
type SignupRequest struct {
	Email        string   `json:"email" validate:"required,email,max=255"`
	Password     string   `json:"password" validate:"required,min=8,max=128"`
	Role         string   `json:"role" validate:"required,oneof=model agency"`
	CaptchaID    *string  `json:"captcha_id,omitempty" validate:"omitempty,uuid4"`
	CaptchaAngle *float64 `json:"captcha_angle,omitempty"`
}

// SignupResponse represents a successful signup result
type SignupResponse struct {
	Message string       `json:"message"`
	Account AccountDTO   `json:"account"`
	Tokens  TokenPairDTO `json:"tokens"`
}

// LoginRequest represents the login payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

// LoginResponse represents a successful login result
type LoginResponse struct {
	Message string       `json:"message"`
	Account AccountDTO   `json:"account"`
	Tokens  TokenPairDTO `json:"tokens"`
}

// AccountDTO is the externally visible account representation
type AccountDTO struct {
	ID        uint   `json:"id"`
	UUID      string `json:"uuid"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// TokenPairDTO carries issued access and refresh tokens
type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// CaptchaChallengeResponse carries a rotate-captcha challenge for signup
type CaptchaChallengeResponse struct {
	ChallengeID string `json:"challenge_id"`
	MasterImage string `json:"master_image"`
	ThumbImage  string `json:"thumb_image"`
}
