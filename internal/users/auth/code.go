// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// clockSkew tolerates codes stamped slightly in the future by another replica.
const clockSkew = time.Minute

// CodeGenerator derives confirmation codes from an account's current state.
//
// # Format
//
//	<issued-at, unix seconds, base36>-<first 20 hex chars of HMAC-SHA256>
//
// The MAC covers the issue time and a fingerprint of the account's identity
// fields, keyed with an HKDF-derived secret. Nothing is stored server-side:
//
//   - a code expires once its TTL has passed since issue;
//   - any change to a fingerprinted field invalidates every earlier code;
//   - within those bounds a code may be redeemed more than once.
type CodeGenerator struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewCodeGenerator derives the MAC key from secret and returns a generator
// whose codes live for ttl.
func NewCodeGenerator(secret string, ttl time.Duration) (*CodeGenerator, error) {
	if secret == "" {
		return nil, errors.New("auth: confirmation secret must not be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("auth: confirmation code ttl must be positive, got %s", ttl)
	}

	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("auth: derive confirmation key: %w", err)
	}

	return &CodeGenerator{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source. It exists for tests.
func (generator *CodeGenerator) WithClock(now func() time.Time) *CodeGenerator {
	clone := *generator
	clone.now = now
	return &clone
}

// TTL returns how long an issued code stays valid.
func (generator *CodeGenerator) TTL() time.Duration {
	return generator.ttl
}

// Generate issues a code for the user's current state.
func (generator *CodeGenerator) Generate(user *User) (code string, expiresAt time.Time) {
	issuedAt := generator.now().Unix()
	code = strconv.FormatInt(issuedAt, 36) + "-" + generator.mac(user, issuedAt)
	return code, time.Unix(issuedAt, 0).UTC().Add(generator.ttl)
}

// Verify reports whether code was issued for the user's current state and is
// still inside its validity window.
func (generator *CodeGenerator) Verify(user *User, code string) bool {
	stamp, mac, found := strings.Cut(strings.TrimSpace(code), "-")
	if !found || len(mac) != codeMACHexLen {
		return false
	}

	issuedAt, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return false
	}

	now := generator.now()
	issued := time.Unix(issuedAt, 0)
	if issued.After(now.Add(clockSkew)) || now.Sub(issued) > generator.ttl {
		return false
	}

	expected := generator.mac(user, issuedAt)
	return hmac.Equal([]byte(strings.ToLower(mac)), []byte(expected))
}

func (generator *CodeGenerator) mac(user *User, issuedAt int64) string {
	digest := hmac.New(sha256.New, generator.key)
	digest.Write(fingerprint(user))
	digest.Write(binary.BigEndian.AppendUint64(nil, uint64(issuedAt)))
	return hex.EncodeToString(digest.Sum(nil))[:codeMACHexLen]
}

// fingerprint serialises the identity fields a code is bound to. Every field
// is length-prefixed so adjacent values can never be shifted into each other.
func fingerprint(user *User) []byte {
	buffer := binary.AppendVarint(nil, user.ID)
	for _, field := range []string{
		user.Username,
		user.Email,
		string(user.Role),
		user.FirstName,
		user.LastName,
		user.Bio,
	} {
		buffer = binary.AppendUvarint(buffer, uint64(len(field)))
		buffer = append(buffer, field...)
	}
	return buffer
}
