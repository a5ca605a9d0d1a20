// Package config reads Git's INI-style config files: "[section]" headers,
// "key = value" lines, "#" comments, blank lines ignored. It flattens
// everything to "section.key" -> value and merges user-scope config under
// repo-scope config.
package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrForbiddenKey is returned when a parsed key would collide with a
// prototype-pollution-sensitive name. Kept as a defensive invariant from the
// systems this format was ported from; Go's map[string]string has no
// prototype to pollute, but the check is preserved so a config file can
// never silently smuggle one of these names through.
var ErrForbiddenKey = errors.New("config: forbidden key")

var forbiddenKeyParts = []string{"__proto__", "constructor", "prototype"}

// Config is a flattened "section.key" -> value map.
type Config struct {
	values map[string]string
}

// Get returns the value for "section.key" and whether it was present.
func (c *Config) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetDefault returns the value for key, or def if absent.
func (c *Config) GetDefault(key, def string) string {
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// AutoCRLF returns the parsed core.autocrlf value, defaulting to "false".
func (c *Config) AutoCRLF() string {
	v := strings.ToLower(c.GetDefault("core.autocrlf", "false"))
	switch v {
	case "true", "false", "input":
		return v
	default:
		return "false"
	}
}

// IgnoreCase returns core.ignorecase, defaulting to false.
func (c *Config) IgnoreCase() bool {
	return strings.EqualFold(c.GetDefault("core.ignorecase", "false"), "true")
}

// UserName returns user.name, empty if unset.
func (c *Config) UserName() string { return c.GetDefault("user.name", "") }

// UserEmail returns user.email, empty if unset.
func (c *Config) UserEmail() string { return c.GetDefault("user.email", "") }

// GPGSign returns commit.gpgsign; read for completeness, never consumed by
// this core (signing is out of scope).
func (c *Config) GPGSign() bool {
	return strings.EqualFold(c.GetDefault("commit.gpgsign", "false"), "true")
}

// DefaultBranch returns init.defaultBranch, defaulting to "main".
func (c *Config) DefaultBranch() string {
	return c.GetDefault("init.defaultbranch", "main")
}

// Parse decodes a single INI-style config file's bytes into a flattened
// section.key -> value map.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{values: make(map[string]string)}
	scanner := bufio.NewScanner(bytes.NewReader(data))

	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(val)
		if section == "" {
			continue
		}

		full := section + "." + key
		if err := checkForbidden(full); err != nil {
			return nil, err
		}
		cfg.values[full] = val
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: scan: %w", err)
	}
	return cfg, nil
}

func checkForbidden(key string) error {
	lower := strings.ToLower(key)
	for _, bad := range forbiddenKeyParts {
		if strings.Contains(lower, bad) {
			return fmt.Errorf("%w: %q", ErrForbiddenKey, key)
		}
	}
	return nil
}

// parseFile reads and parses path; a missing file is treated as empty
// config, matching spec §7's "missing optional files" policy.
func parseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{values: make(map[string]string)}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// userConfigPath returns $HOME/.gitconfig (or %USERPROFILE%\.gitconfig on
// Windows).
func userConfigPath() string {
	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
	} else {
		home = os.Getenv("HOME")
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".gitconfig")
}

// Load merges user-scope config under repo-scope config: gitDir is the
// ".git" directory containing "config".
func Load(gitDir string) (*Config, error) {
	merged := &Config{values: make(map[string]string)}

	if home := userConfigPath(); home != "" {
		userCfg, err := parseFile(home)
		if err != nil {
			return nil, err
		}
		for k, v := range userCfg.values {
			merged.values[k] = v
		}
	}

	repoCfg, err := parseFile(filepath.Join(gitDir, "config"))
	if err != nil {
		return nil, err
	}
	for k, v := range repoCfg.values {
		merged.values[k] = v
	}

	return merged, nil
}
