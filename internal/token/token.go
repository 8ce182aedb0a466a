// Copyright (c) 2025 Mealtrack
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package token inspects access tokens on the client side for display purposes.
// The service issues JWTs whose subject is the account email and whose expiry
// bounds the session lifetime. Nothing here verifies signatures: the server is
// the only authority on token validity, and the stored token is treated as an
// opaque string everywhere outside this package. Callers use the decoded
// claims for status output only, never for authorization decisions.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned for tokens that do not decode as a JWT.
// Such tokens are still perfectly valid session tokens.
var ErrNotJWT = errors.New("token is not a decodable JWT")

// Claims holds the display-relevant subset of a decoded access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Peek decodes the claims of raw without verifying its signature.
func Peek(raw string) (Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &rc); err != nil {
		return Claims{}, ErrNotJWT
	}
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	return c, nil
}

// Expired reports whether raw is a JWT that expired before now.
// Opaque tokens and tokens without an exp claim are never reported expired;
// only the server can judge those.
func Expired(raw string, now time.Time) bool {
	c, err := Peek(raw)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.Before(now)
}
