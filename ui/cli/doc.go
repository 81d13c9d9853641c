// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for sshkeymanager using
// Cobra. It loads configuration, builds the logger and hands both to the
// discovery, writer and publish packages. CLI code should remain thin and
// delegate the work to those packages.
package cli
