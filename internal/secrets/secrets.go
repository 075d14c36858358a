// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: epo-consumer-key, epo-consumer-secret, inpi-crawler-url,
// contact-email. Numbered variants (epo-consumer-key-2, epo-consumer-secret-2, ...)
// add extra credentials to the rotation pool.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Numbered collects base, base-2, base-3, ... from the secret map in order,
// stopping at the first gap. Used to assemble credential rotation pools.
func Numbered(secrets map[string]string, base string) []string {
	var values []string
	if v, ok := secrets[base]; ok {
		values = append(values, v)
	} else {
		return nil
	}
	for i := 2; ; i++ {
		v, ok := secrets[fmt.Sprintf("%s-%d", base, i)]
		if !ok {
			return values
		}
		values = append(values, v)
	}
}
