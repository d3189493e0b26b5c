package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harunnryd/benkei/internal/config"

	"github.com/spf13/cobra"
)

func TestConfigInitCmd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cmd := &cobra.Command{}
	if err := configInitCmd.RunE(cmd, nil); err != nil {
		t.Errorf("Config init failed: %v", err)
	}

	configPath := filepath.Join(os.Getenv("HOME"), ".benkei", "config.yaml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("Config file not created at %s", configPath)
	}

	// Second init must not clobber the existing file.
	if err := configInitCmd.RunE(&cobra.Command{}, nil); err != nil {
		t.Errorf("Config init should succeed when config exists: %v", err)
	}
}

func TestRedactConfigSecrets(t *testing.T) {
	original := &config.Config{
		Models: config.ModelsConfig{
			Registry: []config.ModelRegistry{
				{Name: "m1", APIKey: "sk-secret-123456"},
				{Name: "m2", APIKey: "abcd"},
			},
		},
	}

	redacted := redactConfigSecrets(original)

	if redacted == nil {
		t.Fatal("redacted config should not be nil")
	}
	if redacted.Models.Registry[0].APIKey == original.Models.Registry[0].APIKey {
		t.Error("API key should be redacted")
	}
	if !strings.Contains(redacted.Models.Registry[0].APIKey, "*") {
		t.Errorf("redacted key should contain asterisks, got %q", redacted.Models.Registry[0].APIKey)
	}
	if redacted.Models.Registry[1].APIKey != "****" {
		t.Errorf("short keys should redact fully, got %q", redacted.Models.Registry[1].APIKey)
	}

	// Original must stay untouched.
	if original.Models.Registry[0].APIKey != "sk-secret-123456" {
		t.Error("original config was mutated")
	}
}

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abcd", "****"},
		{"sk-abcdef", "sk*****ef"},
	}
	for _, tt := range tests {
		if got := maskSecret(tt.in); got != tt.want {
			t.Errorf("maskSecret(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
