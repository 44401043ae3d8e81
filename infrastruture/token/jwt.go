package token

import (
	"errors"
	"time"

	"github.com/ThanosTheo/maze-singleplayer/service/i"
	"github.com/dgrijalva/jwt-go"
)

var (
	ErrInvalidToken         = errors.New("invalid token")
	ErrUnexpectedSigningAlg = errors.New("unexpected signing method")
	ErrIssuerMismatch       = errors.New("token issuer mismatch")
)

var _ i.Tokenizer = &JwtService{}

// JwtService signs and verifies HS256 bearer tokens.
type JwtService struct {
	secretKey string
	issuer    string
}

// NewJwtService creates a new JWT service signing with secretKey and
// stamping tokens with issuer.
func NewJwtService(secretKey, issuer string) *JwtService {
	return &JwtService{
		secretKey: secretKey,
		issuer:    issuer,
	}
}

// Generate creates a JWT for the given claims.
func (s *JwtService) Generate(claims map[string]interface{}, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	jwtClaims := jwt.MapClaims{}
	for key, val := range claims {
		jwtClaims[key] = val
	}
	jwtClaims["exp"] = now.Add(ttl).Unix()
	jwtClaims["iat"] = now.Unix()
	jwtClaims["iss"] = s.issuer

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	return token.SignedString([]byte(s.secretKey))
}

// Decode parses and validates a JWT, returning the claims if valid.
func (s *JwtService) Decode(tokenString string) (map[string]interface{}, error) {
	token, err := jwt.Parse(tokenString, s.getSigningKey)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if !claims.VerifyIssuer(s.issuer, true) {
		return nil, ErrIssuerMismatch
	}

	return claims, nil
}

// getSigningKey returns the signing key for token validation.
func (s *JwtService) getSigningKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrUnexpectedSigningAlg
	}
	return []byte(s.secretKey), nil
}
