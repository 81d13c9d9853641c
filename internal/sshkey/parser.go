// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Package sshkey inspects authorized_keys lines for display. Nothing here
// rejects a key; lines that cannot be parsed are still written verbatim.
package sshkey

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// keyTypePrefixes are the leading parts of the key types OpenSSH accepts.
var keyTypePrefixes = []string{"ssh-", "ecdsa-", "sk-"}

// Parse splits a raw public key string (like one from an authorized_keys file)
// into its three core components: algorithm, key data, and comment.
// Leading options (from="...",command="...") are skipped.
func Parse(rawKey string) (algorithm, keyData, comment string, err error) {
	fields := strings.Fields(rawKey)
	if len(fields) == 0 {
		err = fmt.Errorf("empty line")
		return
	}

	keyStartIndex := -1
	for i, field := range fields {
		if isKeyType(field) {
			keyStartIndex = i
			break
		}
	}

	if keyStartIndex == -1 {
		err = fmt.Errorf("no valid SSH key type found in line")
		return
	}

	if len(fields) < keyStartIndex+2 {
		err = fmt.Errorf("invalid public key format: missing key data after algorithm")
		return
	}

	algorithm = fields[keyStartIndex]
	keyData = fields[keyStartIndex+1]
	if len(fields) > keyStartIndex+2 {
		comment = strings.Join(fields[keyStartIndex+2:], " ")
	}

	return
}

func isKeyType(field string) bool {
	for _, p := range keyTypePrefixes {
		if strings.HasPrefix(field, p) {
			return true
		}
	}
	return false
}

// Fingerprint returns the SHA256 fingerprint of the first key in content,
// in the format printed by ssh-keygen -l.
func Fingerprint(content string) (string, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(content))
	if err != nil {
		return "", fmt.Errorf("parse public key: %w", err)
	}
	return ssh.FingerprintSHA256(pub), nil
}
