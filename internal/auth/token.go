package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenMissing     = errors.New("token is missing")
	ErrTokenExpired     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrInvalidToken     = errors.New("token is invalid")
	ErrInvalidDate      = errors.New("token creation date is invalid")
	ErrInvalidUUID      = errors.New("token subject is not a valid uuid")
)

// Claims is the verified identity carried by a token.
type Claims struct {
	Subject   uuid.UUID
	Role      string
	CreatedAt time.Time
}

// tokenClaims is the wire form; every value is a string.
type tokenClaims struct {
	UUID      string `json:"uuid"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS512 bearer tokens. A token stays valid for
// maxAge whole minutes after its created_at claim.
type TokenCodec struct {
	secret []byte
	maxAge int
	now    func() time.Time
}

func NewTokenCodec(secret string, maxAgeMinutes int) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		maxAge: maxAgeMinutes,
		now:    time.Now,
	}
}

func (c *TokenCodec) Sign(subject uuid.UUID, role string) (string, error) {
	claims := tokenClaims{
		UUID:      subject.String(),
		Role:      role,
		CreatedAt: c.now().UTC().Format(time.RFC3339Nano),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrTokenMissing
	}

	var wire tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &wire, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if wire.UUID == "" || wire.Role == "" || wire.CreatedAt == "" {
		return nil, fmt.Errorf("%w: missing claims", ErrInvalidToken)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, wire.CreatedAt)
	if err != nil {
		return nil, ErrInvalidDate
	}

	// partial minutes are not counted
	elapsed := int(c.now().Sub(createdAt) / time.Minute)
	if elapsed > c.maxAge {
		return nil, ErrTokenExpired
	}

	subject, err := uuid.Parse(wire.UUID)
	if err != nil {
		return nil, ErrInvalidUUID
	}

	return &Claims{
		Subject:   subject,
		Role:      wire.Role,
		CreatedAt: createdAt,
	}, nil
}

// Soft reports whether a verification error lets the request continue
// anonymously.
func Soft(err error) bool {
	return errors.Is(err, ErrTokenExpired) || errors.Is(err, ErrTokenMissing)
}
