// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the data structures shared by key discovery, the
// authorized_keys writer and the CLI.
package model // import "github.com/toeirei/sshkeymanager/internal/model"

import (
	"path/filepath"
	"strings"
)

// FileKind is the classification of a path found while scanning the key tree.
type FileKind string

const (
	// Unrelated files are ignored (private keys, notes, dotfiles).
	Unrelated FileKind = "unrelated"
	// KeyFile holds one public key in authorized_keys format.
	KeyFile FileKind = "key"
	// OptionsFile holds the authorized_keys options for the key file with
	// the same stem in the same directory.
	OptionsFile FileKind = "options"
)

// Policy decides what happens when a single file cannot be read.
type Policy int

const (
	// AbortRun stops the whole operation and returns the error.
	AbortRun Policy = iota
	// SkipAndWarn drops the affected entry, logs a warning and continues.
	SkipAndWarn
)

func (p Policy) String() string {
	switch p {
	case AbortRun:
		return "abort"
	case SkipAndWarn:
		return "skip"
	default:
		return "unknown"
	}
}

// KeyEntry is one discovered public key together with its options.
type KeyEntry struct {
	Path    string // Path to the public key file.
	Scope   string // Slash-separated directory relative to the base; empty for global keys.
	Options string // authorized_keys options, empty when no options file exists.
}

// Global reports whether the key applies to every host.
func (e KeyEntry) Global() bool { return e.Scope == "" }

// Name returns the key file's base name.
func (e KeyEntry) Name() string { return filepath.Base(e.Path) }

// Line renders the authorized_keys line for this entry. content is the key
// file's text; trailing whitespace is removed and no newline is appended.
func (e KeyEntry) Line(content string) string {
	key := strings.TrimRight(content, " \t\r\n\v\f")
	if e.Options == "" {
		return key
	}
	return e.Options + " " + key
}
