package trip

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// InviteClaims bind an invitation token to one membership row. The
// embedded secret is compared against the bcrypt hash stored on the
// row, so a leaked signing key alone cannot forge an acceptable token.
type InviteClaims struct {
	TripID int64  `json:"trip_id"`
	UserID int64  `json:"user_id"`
	Secret string `json:"secret"`
	jwt.RegisteredClaims
}

// InviteTokenManager issues and verifies signed invitation tokens.
type InviteTokenManager struct {
	signingKey []byte
	ttl        time.Duration
}

func NewInviteTokenManager(secret string, ttl time.Duration) *InviteTokenManager {
	return &InviteTokenManager{
		signingKey: []byte(secret),
		ttl:        ttl,
	}
}

// Generate returns a signed invite token and the bcrypt hash of its
// embedded secret for storage on the membership row.
func (m *InviteTokenManager) Generate(tripID, userID int64) (token string, secretHash string, err error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate invite secret: %w", err)
	}
	secret := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash invite secret: %w", err)
	}

	now := time.Now()
	claims := InviteClaims{
		TripID: tripID,
		UserID: userID,
		Secret: secret,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.signingKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to sign invite token: %w", err)
	}

	return token, string(hash), nil
}

// Parse validates the token signature and expiry and returns its claims.
func (m *InviteTokenManager) Parse(token string) (*InviteClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &InviteClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*InviteClaims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid invite token claims")
	}
	return claims, nil
}

// VerifySecret compares the token's embedded secret with the stored hash.
func VerifySecret(storedHash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(secret)) == nil
}
