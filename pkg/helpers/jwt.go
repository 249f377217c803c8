package helpers

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager signs and verifies session tokens with a shared HMAC secret.
type JWTManager struct {
	Secret []byte
	TTL    time.Duration
	// Now defaults to time.Now; tests pin it.
	Now func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{Secret: []byte(secret), TTL: ttl, Now: time.Now}
}

// Claims is the session payload. The registered exp is whole seconds,
// rounded up; Deadline carries the exact expiry in Unix nanoseconds.
type Claims struct {
	UserID   string `json:"userId"`
	Phone    string `json:"phone"`
	Deadline int64  `json:"dl"`
	jwt.RegisteredClaims
}

var errTokenExpired = fmt.Errorf("%w: past deadline", jwt.ErrTokenExpired)

func (m *JWTManager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Generate mints a token valid for exactly TTL from now and returns that
// expiry.
func (m *JWTManager) Generate(userID, phone string) (string, time.Time, error) {
	iat := m.now()
	exp := iat.Add(m.TTL)
	claims := &Claims{
		UserID:   userID,
		Phone:    phone,
		Deadline: exp.UnixNano(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(ceilSecond(exp)),
			IssuedAt:  jwt.NewNumericDate(iat),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

// Parse verifies signature and expiry. A token is rejected from its expiry instant on.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.Secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !tkn.Valid || claims.UserID == "" || claims.Deadline == 0 {
		return nil, errors.New("invalid token")
	}
	if !m.now().Before(time.Unix(0, claims.Deadline)) {
		return nil, errTokenExpired
	}
	return claims, nil
}

func ceilSecond(t time.Time) time.Time {
	if r := t.Truncate(time.Second); !r.Equal(t) {
		return r.Add(time.Second)
	}
	return t
}
