package config

import "testing"

func TestParseBasic(t *testing.T) {
	data := []byte(`
# a comment
[core]
	autocrlf = true
	ignorecase = false

[user]
	name = Ada Lovelace
	email = ada@example.com
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AutoCRLF() != "true" {
		t.Errorf("AutoCRLF: got %q, want true", cfg.AutoCRLF())
	}
	if cfg.IgnoreCase() {
		t.Error("IgnoreCase: got true, want false")
	}
	if cfg.UserName() != "Ada Lovelace" {
		t.Errorf("UserName: got %q", cfg.UserName())
	}
	if cfg.UserEmail() != "ada@example.com" {
		t.Errorf("UserEmail: got %q", cfg.UserEmail())
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.AutoCRLF() != "false" {
		t.Errorf("AutoCRLF default: got %q, want false", cfg.AutoCRLF())
	}
	if cfg.DefaultBranch() != "main" {
		t.Errorf("DefaultBranch default: got %q, want main", cfg.DefaultBranch())
	}
}

func TestParseRejectsForbiddenKey(t *testing.T) {
	data := []byte("[core]\n__proto__ = evil\n")
	if _, err := Parse(data); err == nil {
		t.Fatal("expected error for forbidden key")
	}
}

func TestLoadMissingRepoConfigIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UserName() != "" {
		t.Errorf("expected empty config, got user.name=%q", cfg.UserName())
	}
}
