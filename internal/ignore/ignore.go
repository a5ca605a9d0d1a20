// Package ignore evaluates .gitignore rules across a working tree.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

type pattern struct {
	raw      string
	negated  bool
	dirOnly  bool
	hasSlash bool
	regex    *regexp.Regexp
}

// scope is the set of patterns loaded from one directory's .gitignore, plus
// the repo-relative directory prefix they apply under.
type scope struct {
	prefix   string // "" for the root, else "a/b" (no trailing slash)
	patterns []pattern
}

// Matcher evaluates ignore rules against paths in a single working tree. Its
// interface is New/Init/IsIgnored: New only records where to look, Init does
// the filesystem walk and pattern compilation.
type Matcher struct {
	root       string
	ignoreCase bool
	scopes     []scope // ordered root-to-leaf by prefix depth, root first
}

// New returns a Matcher rooted at repoPath. Call Init before IsIgnored.
func New(repoPath string, ignoreCase bool) *Matcher {
	return &Matcher{root: repoPath, ignoreCase: ignoreCase}
}

// Init walks the working tree once, reading every .gitignore file it finds
// (skipping directories already ignored by an ancestor's rules) and compiling
// each into a scope keyed by its containing directory. ".git" is always
// ignored and never descended into.
func (m *Matcher) Init() error {
	m.scopes = nil

	var walk func(dir, relDir string) error
	walk = func(dir, relDir string) error {
		if gi := filepath.Join(dir, ".gitignore"); fileExists(gi) {
			pats, err := loadPatternFile(gi)
			if err != nil {
				return err
			}
			if len(pats) > 0 {
				m.scopes = append(m.scopes, scope{prefix: relDir, patterns: pats})
			}
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, ent := range entries {
			if !ent.IsDir() {
				continue
			}
			name := ent.Name()
			if name == ".git" {
				continue
			}
			childRel := name
			if relDir != "" {
				childRel = relDir + "/" + name
			}
			if m.isIgnoredAgainst(childRel, true) {
				continue
			}
			if err := walk(filepath.Join(dir, name), childRel); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(m.root, ""); err != nil {
		return err
	}

	// Shallowest scopes apply first so deeper .gitignore files can override
	// (later-wins, matching git's closer-file-takes-precedence rule combined
	// with within-file last-match-wins).
	sort.SliceStable(m.scopes, func(i, j int) bool {
		return len(m.scopes[i].prefix) < len(m.scopes[j].prefix)
	})

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// IsIgnored reports whether path (relative to the working tree root, forward
// slashes) is ignored. ".git" itself is always ignored. Whether path names a
// directory is determined by statting it under the working tree root, so
// dir-only patterns ("build/") match regardless of caller context.
func (m *Matcher) IsIgnored(path string) bool {
	path = filepath.ToSlash(path)
	if path == ".git" || strings.HasPrefix(path, ".git/") {
		return true
	}
	isDir := false
	if info, err := os.Stat(filepath.Join(m.root, filepath.FromSlash(path))); err == nil {
		isDir = info.IsDir()
	}
	return m.isIgnoredAgainst(path, isDir)
}

func (m *Matcher) isIgnoredAgainst(path string, dirCandidate bool) bool {
	ignored := false
	for _, sc := range m.scopes {
		if sc.prefix != "" && !within(sc.prefix, path) {
			continue
		}
		rel := path
		if sc.prefix != "" {
			rel = strings.TrimPrefix(path, sc.prefix+"/")
		}
		for _, p := range sc.patterns {
			if p.matches(rel, m.ignoreCase, dirCandidate) {
				ignored = !p.negated
			}
		}
	}
	return ignored
}

func within(prefix, path string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func loadPatternFile(path string) ([]pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pats []pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p := parseLine(scanner.Text()); p != nil {
			pats = append(pats, *p)
		}
	}
	return pats, scanner.Err()
}

func parseLine(line string) *pattern {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &pattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	p.hasSlash = strings.Contains(line, "/")
	p.raw = line

	if strings.ContainsAny(line, "*?[") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p
}

func (p *pattern) matches(relPath string, ignoreCase, dirCandidate bool) bool {
	if p.dirOnly && !dirCandidate {
		return false
	}

	target := relPath
	base := filepath.Base(relPath)
	if ignoreCase {
		target = strings.ToLower(target)
		base = strings.ToLower(base)
	}

	candidate := p.raw
	if ignoreCase {
		candidate = strings.ToLower(candidate)
	}

	if p.regex != nil {
		if p.hasSlash {
			return p.regex.MatchString(target)
		}
		return p.regex.MatchString(base)
	}

	if p.hasSlash {
		matched, _ := filepath.Match(candidate, target)
		return matched
	}
	matched, _ := filepath.Match(candidate, base)
	return matched
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					b.WriteString("(?:.*/)?")
					i += 2
				} else {
					b.WriteString(".*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		case strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)):
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	b.WriteString("$")
	return b.String()
}
