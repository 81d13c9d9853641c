// Copyright (c) 2026 Keymaster Team
// sshkeymanager - authorized_keys assembler
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the source code. It reports
// message IDs used with i18n.T() that the primary locale lacks, IDs in the
// primary locale that no code uses, and IDs missing from the other locales.
//
// Run it from the repository root:
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var usedKeyRe = regexp.MustCompile(`i18n\.T\("([^"]+)"`)

func main() {
	problems, err := lint(os.Stdout, projectRoot, filepath.Join(projectRoot, localesDir), primaryLocale)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	if problems > 0 {
		fmt.Printf("❌ %d problem(s) found.\n", problems)
		os.Exit(1)
	}
	fmt.Println("✅ All translation files are consistent!")
}

// lint writes a report to w and returns the number of problems found.
func lint(w io.Writer, root, locales, primary string) (int, error) {
	usedKeys, err := findUsedKeys(root)
	if err != nil {
		return 0, fmt.Errorf("error finding used keys: %w", err)
	}
	fmt.Fprintf(w, "Found %d unique translation keys used in source code.\n", len(usedKeys))

	primaryKeys, err := loadKeysFromLocale(filepath.Join(locales, primary))
	if err != nil {
		return 0, fmt.Errorf("error loading primary locale %s: %w", primary, err)
	}

	problems := 0
	report := func(title string, keys []string) {
		fmt.Fprintf(w, "--- %s ---\n", title)
		if len(keys) == 0 {
			fmt.Fprintln(w, "  none")
			return
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  - %s\n", k)
		}
		problems += len(keys)
	}

	report("Used in code but missing from "+primary, difference(usedKeys, primaryKeys))
	report("Orphaned in "+primary, difference(primaryKeys, usedKeys))

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return problems, err
	}
	for _, file := range files {
		if filepath.Base(file) == primary {
			continue
		}
		keys, err := loadKeysFromLocale(file)
		if err != nil {
			return problems, fmt.Errorf("error loading %s: %w", file, err)
		}
		report("Missing from "+filepath.Base(file), difference(primaryKeys, keys))
	}
	return problems, nil
}

// difference returns the keys of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// findUsedKeys scans non-test .go files for i18n.T("key") calls.
func findUsedKeys(root string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			name := info.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, match := range usedKeyRe.FindAllStringSubmatch(string(content), -1) {
			keys[match[1]] = struct{}{}
		}
		return nil
	})
	return keys, err
}

// loadKeysFromLocale reads a YAML file and returns a flat map of its keys.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var data map[string]interface{}
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}

	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

// flattenYAML converts a nested map into a flat map with dot-separated keys.
func flattenYAML(prefix string, node interface{}, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, val := range v {
			newPrefix := k
			if prefix != "" {
				newPrefix = prefix + "." + k
			}
			flattenYAML(newPrefix, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
