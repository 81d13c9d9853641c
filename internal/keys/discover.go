// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

package keys

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/toeirei/sshkeymanager/internal/logging"
	"github.com/toeirei/sshkeymanager/internal/model"
)

// Scanner discovers public keys below a base directory.
type Scanner struct {
	Fs     afero.Fs
	Naming Naming
	Policy model.Policy
	Log    *clog.Logger
}

// NewScanner returns a scanner using the default naming convention that
// skips unreadable files with a warning.
func NewScanner(fsys afero.Fs, logger *clog.Logger) *Scanner {
	return &Scanner{
		Fs:     fsys,
		Naming: DefaultNaming(),
		Policy: model.SkipAndWarn,
		Log:    logging.OrDiscard(logger),
	}
}

// scanned is one classified path found by the walk.
type scanned struct {
	path  string
	scope string
	stem  string
	kind  model.FileKind
}

func (c scanned) pairKey() string { return c.scope + "\x00" + c.stem }

// Discover walks base and returns the key entries in traversal order, which
// is lexical by name within each directory. A non-empty hostname restricts
// the result to global keys and keys whose scope names that host (see
// MatchScope).
func (s *Scanner) Discover(base, hostname string) ([]model.KeyEntry, error) {
	if err := s.Naming.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrDiscard(s.Log)

	info, err := s.Fs.Stat(base)
	if err != nil {
		return nil, baseDirError(base, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, base)
	}

	found, err := s.scan(base)
	if err != nil {
		return nil, err
	}

	options := make(map[string]string)
	var candidates []scanned
	for _, c := range found {
		switch c.kind {
		case model.KeyFile:
			candidates = append(candidates, c)
		case model.OptionsFile:
			options[c.pairKey()] = c.path
		}
	}

	hostname = strings.TrimSpace(hostname)
	entries := make([]model.KeyEntry, 0, len(candidates))
	for _, c := range candidates {
		optPath, hasOpts := options[c.pairKey()]
		delete(options, c.pairKey())

		if hostname != "" && !MatchScope(c.scope, hostname) {
			log.Debugf("%s is out of scope for host %s", c.path, hostname)
			continue
		}

		entry, err := s.entry(c, optPath, hasOpts)
		if err != nil {
			if s.Policy == model.AbortRun {
				return nil, err
			}
			log.Warnf("skipping key: %v", err)
			continue
		}
		log.Debugf("found key %s (scope %q, options %q)", entry.Path, entry.Scope, entry.Options)
		entries = append(entries, entry)
	}

	for _, p := range options {
		log.Debugf("options file %s has no matching key", p)
	}
	return entries, nil
}

// scan walks base and classifies every file it meets.
func (s *Scanner) scan(base string) ([]scanned, error) {
	log := logging.OrDiscard(s.Log)
	var out []scanned

	// afero.Walk lstats its root. A trailing separator makes a symlinked
	// base resolve to the directory it points to.
	base = filepath.Clean(base)
	root := base
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}

	err := afero.Walk(s.Fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if p == root {
				return baseDirError(base, err)
			}
			if s.Policy == model.AbortRun {
				return &KeyReadError{Path: p, Err: err}
			}
			log.Warnf("skipping %s: %v", p, err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if p != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		kind, stem := s.Naming.Classify(info.Name())
		if kind == model.Unrelated {
			return nil
		}
		if !info.Mode().IsRegular() {
			if info.Mode()&fs.ModeSymlink == 0 {
				return nil
			}
			// Broken links are kept so the read error is reported later.
			if target, err := s.Fs.Stat(p); err == nil && !target.Mode().IsRegular() {
				log.Debugf("ignoring %s: link does not point to a regular file", p)
				return nil
			}
		}

		scope, err := filepath.Rel(base, filepath.Dir(p))
		if err != nil {
			return fmt.Errorf("scope of %s: %w", p, err)
		}
		scope = filepath.ToSlash(scope)
		if scope == "." {
			scope = ""
		}
		out = append(out, scanned{path: p, scope: scope, stem: stem, kind: kind})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// entry reads the key (to make sure it is usable) and its options file.
// A key whose options file cannot be read is rejected rather than emitted
// without its restrictions.
func (s *Scanner) entry(c scanned, optPath string, hasOpts bool) (model.KeyEntry, error) {
	content, err := afero.ReadFile(s.Fs, c.path)
	if err != nil {
		return model.KeyEntry{}, &KeyReadError{Path: c.path, Err: err}
	}
	if strings.TrimSpace(string(content)) == "" {
		return model.KeyEntry{}, &KeyReadError{Path: c.path, Err: ErrEmptyKey}
	}

	e := model.KeyEntry{Path: c.path, Scope: c.scope}
	if hasOpts {
		raw, err := afero.ReadFile(s.Fs, optPath)
		if err != nil {
			return model.KeyEntry{}, &KeyReadError{Path: optPath, Err: err}
		}
		e.Options = ParseOptions(string(raw))
	}
	return e, nil
}

// MatchScope reports whether a key with the given scope applies to hostname.
// Global keys (empty scope) match every host. Otherwise one directory
// segment of the scope must equal the hostname, or its first DNS label,
// ignoring case.
func MatchScope(scope, hostname string) bool {
	if scope == "" {
		return true
	}
	short, _, _ := strings.Cut(hostname, ".")
	for _, seg := range strings.Split(scope, "/") {
		if strings.EqualFold(seg, hostname) || (short != "" && strings.EqualFold(seg, short)) {
			return true
		}
	}
	return false
}

// ParseOptions normalises the content of an options file. Blank lines and
// lines starting with '#' are dropped and the rest are joined with commas.
func ParseOptions(raw string) string {
	var parts []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.Trim(line, ",")
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, ",")
}
