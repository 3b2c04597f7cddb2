package auth

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimEmployeeID is the claim carrying the authenticated employee id.
const ClaimEmployeeID = "empId"

var ErrMissingClaim = errors.New("token has no employee id claim")

// Issuer signs and verifies stateless HS256 session tokens. Nothing is
// persisted: any unexpired token with a valid signature is accepted.
type Issuer struct {
	// Now is the clock used for iat/exp and for expiry checks.
	Now func() time.Time
}

func NewIssuer() *Issuer {
	return &Issuer{Now: time.Now}
}

func (i *Issuer) now() time.Time {
	if i.Now == nil {
		return time.Now()
	}
	return i.Now()
}

// Issue builds a token holding claims plus iat and exp = now + ttl.
func (i *Issuer) Issue(claims map[string]any, secret []byte, ttl time.Duration) (string, error) {
	now := i.now()
	mc := jwt.MapClaims{}
	for k, v := range claims {
		mc[k] = v
	}
	mc["iat"] = now.Unix()
	mc["exp"] = now.Add(ttl).Unix()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString(secret)
}

// IssueForEmployee is Issue with the single employee id claim.
func (i *Issuer) IssueForEmployee(id int64, secret []byte, ttl time.Duration) (string, error) {
	return i.Issue(map[string]any{ClaimEmployeeID: id}, secret, ttl)
}

// Verify checks the signature and expiry and returns the claims. Numbers
// come back as json.Number so large ids keep their precision.
func (i *Issuer) Verify(token string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
		jwt.WithJSONNumber(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// EmployeeID extracts the employee id claim.
func EmployeeID(claims jwt.MapClaims) (int64, error) {
	switch v := claims[ClaimEmployeeID].(type) {
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, ErrMissingClaim
	}
}
