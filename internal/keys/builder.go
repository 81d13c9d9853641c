// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package keys

import (
	"bytes"
	"io/fs"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/toeirei/sshkeymanager/internal/logging"
	"github.com/toeirei/sshkeymanager/internal/model"
)

// Writer renders key entries into authorized_keys content.
type Writer struct {
	Fs     afero.Fs
	Policy model.Policy
	Mode   fs.FileMode // permission bits used by WriteFile
	Log    *clog.Logger
}

// NewWriter returns a writer that aborts on the first unreadable key.
func NewWriter(fsys afero.Fs, logger *clog.Logger) *Writer {
	return &Writer{
		Fs:     fsys,
		Policy: model.AbortRun,
		Mode:   0o600,
		Log:    logging.OrDiscard(logger),
	}
}

// Render builds the authorized_keys content, one line per entry in input
// order. Key files are read again here; a file that vanished since discovery
// is a *KeyReadError handled according to the writer's policy.
func (w *Writer) Render(entries []model.KeyEntry) ([]byte, error) {
	log := logging.OrDiscard(w.Log)
	var b bytes.Buffer
	for _, e := range entries {
		content, err := afero.ReadFile(w.Fs, e.Path)
		if err != nil {
			rerr := &KeyReadError{Path: e.Path, Err: err}
			if w.Policy == model.AbortRun {
				return nil, rerr
			}
			log.Warnf("skipping key: %v", rerr)
			continue
		}
		b.WriteString(e.Line(string(content)))
		b.WriteByte('\n')
	}
	return b.Bytes(), nil
}

// WriteFile renders entries and writes the result to path. Nothing is
// written when rendering fails.
func (w *Writer) WriteFile(entries []model.KeyEntry, path string) error {
	data, err := w.Render(entries)
	if err != nil {
		return err
	}
	mode := w.Mode
	if mode == 0 {
		mode = 0o600
	}
	logging.OrDiscard(w.Log).Infof("writing %d keys to %s", len(entries), path)
	return afero.WriteFile(w.Fs, path, data, mode)
}
