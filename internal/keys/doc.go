// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keys finds public keys in a directory tree and renders them into
// authorized_keys content.
//
// A key tree looks like this:
//
//	keys/
//	  admin.pub          global key, installed on every host
//	  web1/
//	    deploy.pub       only for host web1
//	    deploy.opt       options for deploy.pub, e.g. no-pty
//
// Files ending in the key suffix (.pub) are keys, files ending in the
// options suffix (.opt) carry the options for the key with the same stem in
// the same directory. Everything else is ignored.
package keys
