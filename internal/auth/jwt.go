package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidSubject = errors.New("token subject is not a cashier id")

type JWTAuthenticator struct {
	secret        string
	refreshSecret string
	aud           string
	iss           string
	accessExp     time.Duration
	refreshExp    time.Duration
}

func NewJWTAuthenticator(secret, refreshSecret, aud, iss string, accessExp, refreshExp time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{
		secret:        secret,
		refreshSecret: refreshSecret,
		aud:           aud,
		iss:           iss,
		accessExp:     accessExp,
		refreshExp:    refreshExp,
	}
}

// GenerateTokens generates both access and refresh tokens for a cashier.
func (a *JWTAuthenticator) GenerateTokens(cashierID int64, role string) (string, string, error) {
	now := time.Now()
	sub := strconv.FormatInt(cashierID, 10)

	accessClaims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  now.Add(a.accessExp).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"iss":  a.iss,
		"aud":  a.aud,
	}

	refreshClaims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  now.Add(a.refreshExp).Unix(),
		"iat":  now.Unix(),
		"iss":  a.iss,
	}

	accessToken, err := a.generateTokenWithClaims(accessClaims, a.secret)
	if err != nil {
		return "", "", err
	}

	refreshToken, err := a.generateTokenWithClaims(refreshClaims, a.refreshSecret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (a *JWTAuthenticator) generateTokenWithClaims(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateAccessToken validates the access token
func (a *JWTAuthenticator) ValidateAccessToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.secret,
		jwt.WithAudience(a.aud),
		jwt.WithIssuer(a.iss),
	)
}

// ValidateRefreshToken validates the refresh token
func (a *JWTAuthenticator) ValidateRefreshToken(token string) (*jwt.Token, error) {
	return a.parse(token, a.refreshSecret, jwt.WithIssuer(a.iss))
}

func (a *JWTAuthenticator) parse(token, secret string, opts ...jwt.ParserOption) (*jwt.Token, error) {
	opts = append(opts, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
	return jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, opts...)
}

// CashierID extracts the cashier id and role from a validated token.
func CashierID(token *jwt.Token) (int64, string, error) {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidSubject
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, "", err
	}

	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", ErrInvalidSubject
	}

	role, _ := claims["role"].(string)
	return id, role, nil
}
