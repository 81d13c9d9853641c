// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for sshkeymanager.
//
// Usage:
//
//	go run . [flags]
//	./sshkeymanager -b ~/.ssh/keys -H "$(hostname)" -o ~/.ssh/authorized_keys
//
// See --help for options.
package main

import (
	"os"

	"github.com/toeirei/sshkeymanager/internal/logging"
	"github.com/toeirei/sshkeymanager/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.L.Error(err)
		os.Exit(1)
	}
}
