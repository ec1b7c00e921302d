package services

import (
	"errors"
	"fmt"
	"time"

	"myhabits/utils"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "myhabits"

// TokenService signs and validates access and refresh tokens. It is
// constructed once in main and passed to the handlers and middleware that
// need it.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService() (*TokenService, error) {
	secret, err := utils.RequireEnv("JWT_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  time.Duration(utils.GetEnvAsInt64("JWT_EXPIRATION_TIME", 3600)) * time.Second,
		refreshTTL: time.Duration(utils.GetEnvAsInt64("REFRESH_TOKEN_EXPIRATION_TIME", 604800)) * time.Second,
	}, nil
}

func (ts *TokenService) GenerateAccessToken(userID string) (string, error) {
	return ts.generate(userID, "access", ts.accessTTL)
}

func (ts *TokenService) GenerateRefreshToken(userID string) (string, error) {
	return ts.generate(userID, "refresh", ts.refreshTTL)
}

func (ts *TokenService) generate(userID, tokenType string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    tokenType,
		"iss":     tokenIssuer,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ts.secret)
}

// ValidateAccessToken parses the token and returns its user ID. Refresh
// tokens are rejected here; they are only good for the refresh endpoint.
func (ts *TokenService) ValidateAccessToken(tokenString string) (string, error) {
	return ts.validate(tokenString, "access")
}

// ValidateRefreshToken parses a refresh token and returns its user ID.
func (ts *TokenService) ValidateRefreshToken(tokenString string) (string, error) {
	return ts.validate(tokenString, "refresh")
}

func (ts *TokenService) validate(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}

	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return "", errors.New("invalid token type")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errors.New("missing user ID claim")
	}
	return userID, nil
}
