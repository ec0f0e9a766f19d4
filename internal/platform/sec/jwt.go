// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec signs and verifies access tokens and defines the closed set of
// user roles.
//
// Domain packages depend on it through narrow interfaces
// (auth.TokenProvider, middleware.TokenVerifier), never on the concrete
// [TokenService].
package sec

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errSubjectMismatch = errors.New("sec: subject does not match uid claim")

// AuthClaims is the access token payload.
//
// Username and Role reflect the account at issue time only; the
// authentication middleware replaces both with the current values.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID   int64  `json:"uid"`
	Username string `json:"unm"`
	Role     Role   `json:"rol"`
}

// TokenService issues and checks RS256 access tokens.
type TokenService struct {
	signingKey *rsa.PrivateKey
	parser     *jwt.Parser
	publicKey  *rsa.PublicKey
	issuer     string
}

// NewTokenService loads a PEM key pair from disk.
func NewTokenService(privateKeyPath, publicKeyPath, issuer string) (*TokenService, error) {
	privateKey, err := loadPEM(privateKeyPath, jwt.ParseRSAPrivateKeyFromPEM)
	if err != nil {
		return nil, err
	}
	publicKey, err := loadPEM(publicKeyPath, jwt.ParseRSAPublicKeyFromPEM)
	if err != nil {
		return nil, err
	}
	return NewTokenServiceFromKeys(privateKey, publicKey, issuer), nil
}

func loadPEM[K any](path string, parse func([]byte) (K, error)) (K, error) {
	var zero K
	data, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("sec: read key %s: %w", path, err)
	}
	key, err := parse(data)
	if err != nil {
		return zero, fmt.Errorf("sec: parse key %s: %w", path, err)
	}
	return key, nil
}

// NewTokenServiceFromKeys builds a service from parsed keys. Tests use it
// with a freshly generated key.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{
		signingKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
		),
	}
}

// GenerateAccessToken signs a token for the account valid for timeToLive.
func (service *TokenService) GenerateAccessToken(userID int64, username string, role Role, timeToLive time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(timeToLive)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(service.signingKey)
	if err != nil {
		return "", fmt.Errorf("sec: sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken returns the claims of a token signed by this service's key
// pair, issued by its issuer and not yet expired.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	claims := &AuthClaims{}
	_, err := service.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return service.publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, errSubjectMismatch
	}
	return claims, nil
}
