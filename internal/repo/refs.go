package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ngit/ngit/internal/objstore"
)

// ErrRefNotFound is returned when a ref name resolves to nothing in either
// loose refs or packed-refs.
var ErrRefNotFound = fmt.Errorf("repo: ref not found")

// ResolveRef resolves a ref name (e.g. "refs/heads/main" or "refs/tags/v1")
// to an OID. Loose refs under .git/refs/ take precedence over packed-refs.
func (r *Repo) ResolveRef(name string) (objstore.OID, error) {
	loosePath := filepath.Join(r.GitDir, filepath.FromSlash(name))
	if data, err := os.ReadFile(loosePath); err == nil {
		return objstore.OID(strings.TrimSpace(string(data))), nil
	}

	packed, err := r.readPackedRefs()
	if err != nil {
		return "", err
	}
	if oid, ok := packed[name]; ok {
		return oid, nil
	}

	return "", fmt.Errorf("%w: %s", ErrRefNotFound, name)
}

// readPackedRefs parses .git/packed-refs, ignoring comment lines ("#...")
// and peeled-tag annotation lines ("^...").
func (r *Repo) readPackedRefs() (map[string]objstore.OID, error) {
	refs := make(map[string]objstore.OID)

	f, err := os.Open(filepath.Join(r.GitDir, "packed-refs"))
	if err != nil {
		if os.IsNotExist(err) {
			return refs, nil
		}
		return nil, fmt.Errorf("repo: read packed-refs: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		if len(fields) != 2 {
			continue
		}
		refs[fields[1]] = objstore.OID(fields[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("repo: scan packed-refs: %w", err)
	}
	return refs, nil
}

// HeadKind identifies what HEAD points at.
type HeadKind string

const (
	HeadBranch   HeadKind = "branch"
	HeadTag      HeadKind = "tag"
	HeadDetached HeadKind = "detached"
)

// HeadRef describes the resolved state of HEAD.
type HeadRef struct {
	Kind   HeadKind
	Name   string // branch or tag short name; the OID itself when detached
	Commit objstore.OID
}

// ErrInvalidHead is returned when .git/HEAD contains neither a recognized
// symbolic ref line nor a valid OID.
var ErrInvalidHead = fmt.Errorf("repo: invalid HEAD")

// GetHead reads and resolves .git/HEAD: "ref: refs/heads/<name>" resolves
// through refs/heads, "ref: refs/tags/<name>" through refs/tags, and a raw
// 40-hex line is a detached HEAD pointing directly at a commit. In every
// case the resolved OID must point at an actual commit object, or GetHead
// fails rather than returning a HeadRef the caller can't dereference.
func (r *Repo) GetHead() (*HeadRef, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "HEAD"))
	if err != nil {
		return nil, fmt.Errorf("repo: read HEAD: %w", err)
	}
	content := strings.TrimSpace(string(data))

	const symPrefix = "ref: "
	if strings.HasPrefix(content, symPrefix) {
		target := strings.TrimPrefix(content, symPrefix)
		oid, err := r.ResolveRef(target)
		if err != nil {
			return nil, fmt.Errorf("repo: resolve HEAD: %w", err)
		}

		var kind HeadKind
		var name string
		switch {
		case strings.HasPrefix(target, "refs/heads/"):
			kind, name = HeadBranch, strings.TrimPrefix(target, "refs/heads/")
		case strings.HasPrefix(target, "refs/tags/"):
			kind, name = HeadTag, strings.TrimPrefix(target, "refs/tags/")
		default:
			return nil, fmt.Errorf("%w: unrecognized symbolic target %q", ErrInvalidHead, target)
		}

		if _, err := r.GetCommit(oid); err != nil {
			return nil, fmt.Errorf("%w: %s does not resolve to a commit: %v", ErrInvalidHead, target, err)
		}
		return &HeadRef{Kind: kind, Name: name, Commit: oid}, nil
	}

	if !objstore.IsHash(content) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHead, content)
	}
	oid := objstore.OID(content)
	if _, err := r.GetCommit(oid); err != nil {
		return nil, fmt.Errorf("%w: detached HEAD %s does not resolve to a commit: %v", ErrInvalidHead, oid, err)
	}
	return &HeadRef{Kind: HeadDetached, Name: content, Commit: oid}, nil
}

// writeRefFile writes data to path using a create-exclusive lockfile
// (path+".lock") that is renamed into place, matching the discipline git
// itself uses for ref updates rather than a bare os.WriteFile that could
// race a concurrent writer or leave a torn file on a mid-write crash. This
// module never updates refs itself; the helper exists for test fixtures
// that need to lay down refs on disk the way a real writer would.
func writeRefFile(path string, data []byte) error {
	lockPath := path + ".lock"
	lock, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("repo: acquire lock %s: %w", lockPath, err)
	}
	if _, err := lock.Write(data); err != nil {
		lock.Close()
		os.Remove(lockPath)
		return fmt.Errorf("repo: write %s: %w", lockPath, err)
	}
	if err := lock.Close(); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("repo: close %s: %w", lockPath, err)
	}
	if err := os.Rename(lockPath, path); err != nil {
		os.Remove(lockPath)
		return fmt.Errorf("repo: rename %s to %s: %w", lockPath, path, err)
	}
	return nil
}

// GetBranch resolves "refs/heads/<name>" to an OID.
func (r *Repo) GetBranch(name string) (objstore.OID, error) {
	return r.ResolveRef("refs/heads/" + name)
}

// ListBranches returns local branch names under refs/heads, from both loose
// refs and packed-refs, sorted and deduplicated.
func (r *Repo) ListBranches() ([]string, error) {
	seen := make(map[string]bool)
	var names []string

	headsDir := filepath.Join(r.GitDir, "refs", "heads")
	entries, err := os.ReadDir(headsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("repo: list branches: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !seen[e.Name()] {
			seen[e.Name()] = true
			names = append(names, e.Name())
		}
	}

	packed, err := r.readPackedRefs()
	if err != nil {
		return nil, err
	}
	const prefix = "refs/heads/"
	for name := range packed {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		short := strings.TrimPrefix(name, prefix)
		if !seen[short] {
			seen[short] = true
			names = append(names, short)
		}
	}

	sort.Strings(names)
	return names, nil
}
