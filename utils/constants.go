package utils

import (
	"time"
)

// ContextKey is the type used for request-scoped context values
type ContextKey string

// Request-scoped context keys set by handlers for observability
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// AccessTokenTTLSeconds is the time-to-live for access tokens in seconds
	AccessTokenTTLSeconds = 86400

	// RefreshTokenTTL is the time-to-live for refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Matching constants
const (
	// MatchScoreThreshold is the minimum score (out of 100) that turns an
	// application into a candidate match.
	MatchScoreThreshold = 50.0

	// MaxCampaignDescriptionLength bounds the free-text campaign description.
	MaxCampaignDescriptionLength = 500
)
