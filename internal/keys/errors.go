// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package keys

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrDirectoryNotFound is returned when the base directory does not exist or
// is not a directory.
var ErrDirectoryNotFound = errors.New("key directory not found")

// ErrPermission is returned when the base directory cannot be read. It also
// matches fs.ErrPermission.
var ErrPermission = fmt.Errorf("key directory not readable: %w", fs.ErrPermission)

// ErrEmptyKey is wrapped in a KeyReadError for key files without content.
var ErrEmptyKey = errors.New("key file is empty")

// KeyReadError reports a key or options file that could not be read.
type KeyReadError struct {
	Path string
	Err  error
}

func (e *KeyReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *KeyReadError) Unwrap() error { return e.Err }

// baseDirError maps a stat or readdir failure on the base directory to one of
// the package sentinels.
func baseDirError(base string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, base)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrPermission, base)
	default:
		return fmt.Errorf("scan %s: %w", base, err)
	}
}
