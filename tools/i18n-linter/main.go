// Copyright (c) 2026 NetPlus Team
// NetPlus - Network+ subnetting and troubleshooting toolkit
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the embedded locales against the source tree. It
// reports i18n.T keys missing from the primary locale, keys of the primary
// locale missing from the others, and keys nobody references.
//
// Run it from the repository root:
//
//	go run ./tools/i18n-linter
package main

import (
	"fmt"
	"io/fs"
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

// dynamicPrefixes are key families built at runtime ("issue." + id), so
// their members never show up as literals.
var dynamicPrefixes = []string{"module.", "issue.", "hint.", "validation.", "scenario."}

var (
	callRe    = regexp.MustCompile(`i18n\.T\(\s*"([^"]+)"`)
	literalRe = regexp.MustCompile(`"([a-z][a-z0-9_]*(?:\.[a-z0-9_]+)+)"`)
)

// report is the outcome of one lint run.
type report struct {
	// Missing lists i18n.T keys absent from the primary locale.
	Missing []string
	// Untranslated maps each secondary locale to primary keys it lacks.
	Untranslated map[string][]string
	// Orphaned lists primary keys never referenced in the source.
	Orphaned []string
}

func (r report) failed() bool {
	if len(r.Missing) > 0 {
		return true
	}
	for _, keys := range r.Untranslated {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}

func main() {
	r, err := lint(projectRoot, localesDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "i18n-linter: %v\n", err)
		os.Exit(1)
	}

	section := func(title string, keys []string) {
		fmt.Printf("--- %s ---\n", title)
		if len(keys) == 0 {
			fmt.Println("  none")
		}
		for _, k := range keys {
			fmt.Printf("  - %s\n", k)
		}
	}
	section("Keys used in code but missing from "+primaryLocale, r.Missing)
	locales := make([]string, 0, len(r.Untranslated))
	for l := range r.Untranslated {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	for _, l := range locales {
		section("Keys missing from "+l, r.Untranslated[l])
	}
	section("Orphaned keys (warning)", r.Orphaned)

	if r.failed() {
		os.Exit(1)
	}
}

func lint(root, locales string) (report, error) {
	called, mentioned, err := findUsedKeys(root)
	if err != nil {
		return report{}, fmt.Errorf("scan sources: %w", err)
	}
	primary, err := loadKeysFromLocale(filepath.Join(locales, primaryLocale))
	if err != nil {
		return report{}, fmt.Errorf("load %s: %w", primaryLocale, err)
	}

	r := report{Untranslated: map[string][]string{}}
	for k := range called {
		if _, ok := primary[k]; !ok {
			r.Missing = append(r.Missing, k)
		}
	}
	for k := range primary {
		_, c := called[k]
		_, m := mentioned[k]
		if !c && !m && !hasDynamicPrefix(k) {
			r.Orphaned = append(r.Orphaned, k)
		}
	}

	files, err := filepath.Glob(filepath.Join(locales, "*.yaml"))
	if err != nil {
		return report{}, err
	}
	for _, f := range files {
		name := filepath.Base(f)
		if name == primaryLocale {
			continue
		}
		keys, err := loadKeysFromLocale(f)
		if err != nil {
			return report{}, fmt.Errorf("load %s: %w", name, err)
		}
		var missing []string
		for k := range primary {
			if _, ok := keys[k]; !ok {
				missing = append(missing, k)
			}
		}
		sort.Strings(missing)
		r.Untranslated[name] = missing
	}

	sort.Strings(r.Missing)
	sort.Strings(r.Orphaned)
	return r, nil
}

func hasDynamicPrefix(key string) bool {
	for _, p := range dynamicPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// findUsedKeys scans non-test .go files. called holds keys passed to
// i18n.T directly; mentioned holds other key-shaped string literals.
func findUsedKeys(root string) (called, mentioned map[string]struct{}, err error) {
	called = make(map[string]struct{})
	mentioned = make(map[string]struct{})
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case "tools", "_examples", ".git":
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
		for _, m := range callRe.FindAllStringSubmatch(string(content), -1) {
			called[m[1]] = struct{}{}
		}
		for _, m := range literalRe.FindAllStringSubmatch(string(content), -1) {
			mentioned[m[1]] = struct{}{}
		}
		return nil
	})
	return called, mentioned, err
}

// loadKeysFromLocale reads a locale file and returns its keys. Nested maps
// are flattened with dots.
func loadKeysFromLocale(path string) (map[string]struct{}, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{})
	flattenYAML("", data, keys)
	return keys, nil
}

func flattenYAML(prefix string, node any, keys map[string]struct{}) {
	switch v := node.(type) {
	case map[string]any:
		for k, val := range v {
			next := k
			if prefix != "" {
				next = prefix + "." + k
			}
			flattenYAML(next, val, keys)
		}
	default:
		if prefix != "" {
			keys[prefix] = struct{}{}
		}
	}
}
