// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Package deploy installs a rendered authorized_keys file on the local
// machine.
//
// In backup mode the sequence is: write a temporary file in the output
// directory, rename the old output to <output>.bak, rename the temporary
// file to <output>. Each rename is atomic, the pair is not: a crash between
// them leaves no file at <output>, with the old content in <output>.bak and
// the new content in the temporary file.
package deploy
