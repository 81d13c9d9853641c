// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package keys

import (
	"fmt"
	"strings"

	"github.com/toeirei/sshkeymanager/internal/model"
)

// Default file name suffixes for public keys and their options files.
const (
	DefaultKeySuffix     = ".pub"
	DefaultOptionsSuffix = ".opt"
)

// Naming describes how key files and options files are told apart.
type Naming struct {
	KeySuffix     string
	OptionsSuffix string
}

// DefaultNaming returns the .pub / .opt convention.
func DefaultNaming() Naming {
	return Naming{KeySuffix: DefaultKeySuffix, OptionsSuffix: DefaultOptionsSuffix}
}

// Validate rejects empty or identical suffixes, which would make the
// classification ambiguous.
func (n Naming) Validate() error {
	if n.KeySuffix == "" || n.OptionsSuffix == "" {
		return fmt.Errorf("key and options suffixes must not be empty")
	}
	if n.KeySuffix == n.OptionsSuffix {
		return fmt.Errorf("key suffix and options suffix are both %q", n.KeySuffix)
	}
	if strings.HasSuffix(n.KeySuffix, n.OptionsSuffix) || strings.HasSuffix(n.OptionsSuffix, n.KeySuffix) {
		return fmt.Errorf("suffixes %q and %q overlap", n.KeySuffix, n.OptionsSuffix)
	}
	return nil
}

// Classify returns the kind of a file by its base name, plus the stem that
// pairs a key with its options file. Dotfiles and names that consist of the
// suffix alone are unrelated.
func (n Naming) Classify(name string) (model.FileKind, string) {
	if strings.HasPrefix(name, ".") {
		return model.Unrelated, ""
	}
	if stem, ok := strings.CutSuffix(name, n.KeySuffix); ok && stem != "" {
		return model.KeyFile, stem
	}
	if stem, ok := strings.CutSuffix(name, n.OptionsSuffix); ok && stem != "" {
		return model.OptionsFile, stem
	}
	return model.Unrelated, ""
}
