// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package deploy

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/toeirei/sshkeymanager/internal/logging"
)

// BackupSuffix is appended to the output path for the previous file.
const BackupSuffix = ".bak"

// ErrOutputDir is returned when the output's parent directory is missing or
// is not a directory.
var ErrOutputDir = errors.New("output directory not usable")

// Publisher puts rendered authorized_keys content into place.
type Publisher struct {
	Fs  afero.Fs
	Log *clog.Logger
}

// NewPublisher returns a publisher working on fsys.
func NewPublisher(fsys afero.Fs, logger *clog.Logger) *Publisher {
	return &Publisher{Fs: fsys, Log: logging.OrDiscard(logger)}
}

// BackupPath returns where the previous output is kept.
func BackupPath(output string) string { return output + BackupSuffix }

// DefaultFileMode is used for a new authorized_keys file. On Windows, where
// POSIX permissions are not meaningful, it falls back to 0644.
func DefaultFileMode() fs.FileMode {
	if runtime.GOOS == "windows" {
		return 0o644
	}
	return 0o600
}

// WriteFunc writes the complete new authorized_keys content to path.
type WriteFunc func(path string) error

// Publish produces a new output file with write. With backup set, write
// targets a temporary file next to output, the previous file is kept as
// output.bak and the new file is renamed into place. Without backup, write
// targets output directly.
func (p *Publisher) Publish(output string, backup bool, write WriteFunc) error {
	log := logging.OrDiscard(p.Log)

	dir := filepath.Dir(output)
	info, err := p.Fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOutputDir, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrOutputDir, dir)
	}

	if !backup {
		log.Infof("Generating new key file into %s", output)
		return write(output)
	}

	mode := DefaultFileMode()
	if cur, err := p.Fs.Stat(output); err == nil {
		mode = cur.Mode().Perm()
	}

	// 1. Reserve a temporary file next to the output so the final rename
	// stays on one filesystem.
	tmp, err := afero.TempFile(p.Fs, dir, ".authorized_keys.sshkeymanager.*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = p.Fs.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	log.Infof("Generating new key file into %s", tmpPath)
	if err := write(tmpPath); err != nil {
		_ = p.Fs.Remove(tmpPath)
		return err
	}
	if err := p.Fs.Chmod(tmpPath, mode); err != nil {
		_ = p.Fs.Remove(tmpPath)
		return fmt.Errorf("failed to chmod temporary file: %w", err)
	}

	// 2. Keep the previous file. A missing output is not an error.
	bak := BackupPath(output)
	log.Infof("Backing up existing file (if any) from %s to %s", output, bak)
	backedUp := true
	if err := p.Fs.Rename(output, bak); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			_ = p.Fs.Remove(tmpPath)
			return fmt.Errorf("failed to back up %s: %w", output, err)
		}
		backedUp = false
	}

	// 3. Move the new file into place.
	log.Infof("Moving generated file to %s", output)
	if err := p.Fs.Rename(tmpPath, output); err != nil {
		if backedUp {
			if rerr := p.Fs.Rename(bak, output); rerr != nil {
				log.Errorf("could not restore %s from %s: %v; new content left in %s", output, bak, rerr, tmpPath)
				return fmt.Errorf("failed to move %s into place: %w", tmpPath, err)
			}
		}
		_ = p.Fs.Remove(tmpPath)
		return fmt.Errorf("failed to move %s into place: %w", tmpPath, err)
	}
	return nil
}
