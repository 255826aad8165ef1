// Package services provides external service integrations and technical concerns like tokens and chat channels
package services

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token service error constants
var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// TokenService handles JWT token generation and validation
type TokenService interface {
	GenerateTokens(accountID uint, role string) (accessToken, refreshToken string, err error)
	ValidateToken(token string) (*TokenClaims, error)
	RefreshToken(refreshToken string) (newAccessToken, newRefreshToken string, err error)
	RevokeToken(token string) error
	IsTokenRevoked(token string) bool
}

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	AccountID uint      `json:"account_id"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // "access" or "refresh"
	TokenID   string    `json:"jti"`        // JWT ID for token revocation
}

// TokenServiceImpl implements TokenService
type TokenServiceImpl struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	signingMethod   jwt.SigningMethod
	privateKey      *rsa.PrivateKey
	publicKey       *rsa.PublicKey
	secretKey       []byte
	useRSAKeys      bool
	issuer          string
	audience        string
	mu              sync.RWMutex
	revoked         map[string]time.Time // token ID -> expiry of the revocation entry
}

// NewTokenService creates a new token service
func NewTokenService(accessTokenTTL, refreshTokenTTL time.Duration, issuer, audience string, useRSAKeys bool, privateKeyPEM, publicKeyPEM, secretKey string) (TokenService, error) {
	var privateKey *rsa.PrivateKey
	var publicKey *rsa.PublicKey
	var secretKeyBytes []byte
	var signingMethod jwt.SigningMethod

	if useRSAKeys {
		var err error
		privateKey, publicKey, err = parseRSAKeys(privateKeyPEM, publicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA keys: %w", err)
		}
		signingMethod = jwt.SigningMethodRS256
	} else {
		if secretKey == "" {
			return nil, fmt.Errorf("secret key is required when not using RSA keys")
		}
		secretKeyBytes = []byte(secretKey)
		signingMethod = jwt.SigningMethodHS256
	}

	return &TokenServiceImpl{
		accessTokenTTL:  accessTokenTTL,
		refreshTokenTTL: refreshTokenTTL,
		signingMethod:   signingMethod,
		privateKey:      privateKey,
		publicKey:       publicKey,
		secretKey:       secretKeyBytes,
		useRSAKeys:      useRSAKeys,
		issuer:          issuer,
		audience:        audience,
		revoked:         make(map[string]time.Time),
	}, nil
}

// parseRSAKeys parses RSA private and public keys from PEM format
func parseRSAKeys(privateKeyPEM, publicKeyPEM string) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(privateKeyPEM))
	if block == nil {
		return nil, nil, fmt.Errorf("failed to decode private key PEM")
	}
	privateKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		keyAny, err2 := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err2 != nil {
			return nil, nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		var ok bool
		privateKey, ok = keyAny.(*rsa.PrivateKey)
		if !ok {
			return nil, nil, fmt.Errorf("private key is not RSA")
		}
	}

	block, _ = pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, nil, fmt.Errorf("failed to decode public key PEM")
	}
	pubAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse public key: %w", err)
	}
	publicKey, ok := pubAny.(*rsa.PublicKey)
	if !ok {
		return nil, nil, fmt.Errorf("public key is not RSA")
	}

	return privateKey, publicKey, nil
}

// GenerateTokens creates a new access and refresh token pair for an account
func (s *TokenServiceImpl) GenerateTokens(accountID uint, role string) (string, string, error) {
	accessToken, err := s.generateToken(accountID, role, "access", s.accessTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.generateToken(accountID, role, "refresh", s.refreshTokenTTL)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

func (s *TokenServiceImpl) generateToken(accountID uint, role, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"account_id": accountID,
		"role":       role,
		"token_type": tokenType,
		"jti":        uuid.New().String(),
		"iss":        s.issuer,
		"aud":        s.audience,
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(s.signingMethod, claims)

	if s.useRSAKeys {
		return token.SignedString(s.privateKey)
	}
	return token.SignedString(s.secretKey)
}

// ValidateToken parses and validates a token, returning its claims
func (s *TokenServiceImpl) ValidateToken(tokenString string) (*TokenClaims, error) {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return nil, err
	}

	if s.isRevoked(claims.TokenID) {
		return nil, ErrTokenRevoked
	}
	if time.Now().UTC().After(claims.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return claims, nil
}

// RefreshToken exchanges a valid refresh token for a new token pair.
// The old refresh token is revoked so it cannot be replayed.
func (s *TokenServiceImpl) RefreshToken(refreshToken string) (string, string, error) {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.TokenType != "refresh" {
		return "", "", ErrTokenInvalid
	}

	if err := s.RevokeToken(refreshToken); err != nil {
		return "", "", err
	}

	return s.GenerateTokens(claims.AccountID, claims.Role)
}

// RevokeToken marks a token as revoked until its natural expiry
func (s *TokenServiceImpl) RevokeToken(tokenString string) error {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[claims.TokenID] = claims.ExpiresAt
	s.pruneLocked()

	return nil
}

// IsTokenRevoked reports whether a token has been revoked
func (s *TokenServiceImpl) IsTokenRevoked(tokenString string) bool {
	claims, err := s.parseClaims(tokenString)
	if err != nil {
		return false
	}
	return s.isRevoked(claims.TokenID)
}

func (s *TokenServiceImpl) isRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok
}

// pruneLocked drops revocation entries for tokens that already expired. Caller holds mu.
func (s *TokenServiceImpl) pruneLocked() {
	now := time.Now().UTC()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
}

func (s *TokenServiceImpl) parseClaims(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != s.signingMethod.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if s.useRSAKeys {
			return s.publicKey, nil
		}
		return s.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	accountID, ok := mapClaims["account_id"].(float64)
	if !ok {
		return nil, ErrTokenInvalid
	}
	role, _ := mapClaims["role"].(string)
	tokenType, _ := mapClaims["token_type"].(string)
	tokenID, _ := mapClaims["jti"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)

	return &TokenClaims{
		AccountID: uint(accountID),
		Role:      role,
		IssuedAt:  time.Unix(int64(iat), 0).UTC(),
		ExpiresAt: time.Unix(int64(exp), 0).UTC(),
		TokenType: tokenType,
		TokenID:   tokenID,
	}, nil
}
