package vendorapi

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const serviceTokenTTL = 5 * time.Minute

type ServiceClaims struct {
	jwt.RegisteredClaims

	VendorID string `json:"vendor_id,omitempty"`
}

// SignServiceToken mints the short-lived HS256 bearer token sent with every
// vendor API request.
func SignServiceToken(secret, vendorID, audience string, now time.Time, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("missing signing secret")
	}
	claims := ServiceClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   vendorID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-30 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		VendorID: vendorID,
	}
	if audience != "" {
		claims.Audience = jwt.ClaimStrings{audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyServiceToken is the receiving side of SignServiceToken.
func VerifyServiceToken(tokenString, secret, audience string, now time.Time) (*ServiceClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("missing token")
	}
	if secret == "" {
		return nil, fmt.Errorf("missing signing secret")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims := &ServiceClaims{}
	tok, err := jwt.NewParser(opts...).ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
