// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Profile Constraints

const (
	// NameMaxLen bounds first_name and last_name.
	NameMaxLen = 150

	// ConfirmationCodeMaxLen bounds the submitted code before it is parsed.
	ConfirmationCodeMaxLen = 40
)

// # Confirmation Codes

const (
	// codeKeyInfo is the HKDF context string separating code keys from any
	// other key derived from the same secret.
	codeKeyInfo = "confirmation-code"

	// codeMACHexLen is the number of hex characters of the MAC kept in a code.
	codeMACHexLen = 20
)
