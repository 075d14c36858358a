// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "epo-consumer-key", "  ck_abc123  \n")
				writeFile(t, dir, "epo-consumer-secret", "cs_xyz789")
				writeFile(t, dir, "contact-email", "user@example.com\n")
				return dir
			},
			want: map[string]string{
				"epo-consumer-key":    "ck_abc123",
				"epo-consumer-secret": "cs_xyz789",
				"contact-email":       "user@example.com",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "inpi-crawler-url", "https://crawler.example.com")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"inpi-crawler-url": "https://crawler.example.com",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret-value")
				writeFile(t, dir, "epo-consumer-key", "real-value")
				return dir
			},
			want: map[string]string{
				"epo-consumer-key": "real-value",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				require.NoError(t, os.MkdirAll(filepath.Join(dir, "subdir"), 0o755))
				writeFile(t, dir, "contact-email", "me@example.com")
				return dir
			},
			want: map[string]string{
				"contact-email": "me@example.com",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumbered(t *testing.T) {
	secrets := map[string]string{
		"epo-consumer-key":   "first",
		"epo-consumer-key-2": "second",
		"epo-consumer-key-3": "third",
		"epo-consumer-key-5": "orphan after gap",
	}

	got := Numbered(secrets, "epo-consumer-key")
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestNumberedMissingBase(t *testing.T) {
	secrets := map[string]string{
		"epo-consumer-key-2": "no base present",
	}
	assert.Nil(t, Numbered(secrets, "epo-consumer-key"))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
