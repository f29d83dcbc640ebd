package auth

import "github.com/golang-jwt/jwt/v5"

type Authenticator interface {
	GenerateTokens(cashierID int64, role string) (access string, refresh string, err error)
	ValidateAccessToken(token string) (*jwt.Token, error)
	ValidateRefreshToken(token string) (*jwt.Token, error)
}
