package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	sessionTokenTTL = 24 * time.Hour
	resetTokenTTL   = 15 * time.Minute

	// TokenKindReset marks a password-reset grant. Session tokens carry no
	// kind at all, so an attacker can't mint a session out of a reset grant.
	TokenKindReset = "reset"
)

var (
	// ErrTokenInvalid covers bad signatures, malformed tokens and expiry.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrWrongTokenKind means the token verified fine but is the wrong kind
	// for the operation (reset token on a session route or vice versa).
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// Claims is the payload embedded in every token this service issues.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	Kind     string `json:"kind,omitempty"`
	jwt.RegisteredClaims
}

// AuthService hashes passwords and issues/verifies the API's bearer tokens.
// The signing key is injected so tests can supply a deterministic one.
type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret []byte) *AuthService {
	return &AuthService{jwtSecret: jwtSecret}
}

// HashPassword returns the bcrypt hash to store for a plaintext password.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
func (s *AuthService) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueSessionToken creates a signed session token valid for one day. The
// username rides along for display and logging only; it is not re-checked
// against the user record on later requests.
func (s *AuthService) IssueSessionToken(userID, username string) (string, error) {
	return s.sign(Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTokenTTL)),
		},
	})
}

// IssueResetToken creates a signed password-reset token valid for 15 minutes.
func (s *AuthService) IssueResetToken(userID string) (string, error) {
	return s.sign(Claims{
		UserID: userID,
		Kind:   TokenKindReset,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(resetTokenTTL)),
		},
	})
}

// ResetTokenTTL is exposed so the forgot-password response can report how
// long the token stays valid.
func (s *AuthService) ResetTokenTTL() time.Duration {
	return resetTokenTTL
}

// VerifySessionToken verifies a token and ensures it is a session token.
func (s *AuthService) VerifySessionToken(tokenString string) (*Claims, error) {
	claims, err := s.verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != "" {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

// VerifyResetToken verifies a token and ensures it is a reset token.
func (s *AuthService) VerifyResetToken(tokenString string) (*Claims, error) {
	claims, err := s.verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != TokenKindReset {
		return nil, ErrWrongTokenKind
	}
	return claims, nil
}

func (s *AuthService) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
