// Package repo composes the object store, staging index, config and ignore
// matcher into the operations exposed by the CLI: locating a repository from
// any working-directory path, resolving refs and HEAD, decoding objects, and
// computing index-vs-tree status.
package repo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ngit/ngit/internal/config"
	"github.com/ngit/ngit/internal/ignore"
	"github.com/ngit/ngit/internal/index"
	"github.com/ngit/ngit/internal/objstore"
)

// ErrNotARepository is returned by Find when no ".git" directory is found in
// the target path or any of its ancestors.
var ErrNotARepository = errors.New("repo: not a git repository")

// Repo is an opened, read-oriented view of a repository: a working-tree root
// and its ".git" directory, the loose and pack object stores, plus lazily
// constructed caches for config and the ignore matcher.
type Repo struct {
	RootDir string
	GitDir  string

	store *objstore.Store
	packs *objstore.PackStore

	cfgOnce sync.Once
	cfg     *config.Config
	cfgErr  error

	ignoreOnce sync.Once
	ignoreM    *ignore.Matcher
	ignoreErr  error
}

// Find walks from startDir up through parent directories looking for a
// ".git" directory, the same discovery rule Git itself uses for locating the
// enclosing repository of a working-directory path.
func Find(startDir string) (*Repo, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("repo: %w", err)
	}

	for {
		candidate := filepath.Join(dir, ".git")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return Open(dir, candidate), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, ErrNotARepository
		}
		dir = parent
	}
}

// Open wraps an already-located working tree root and its ".git" directory.
func Open(rootDir, gitDir string) *Repo {
	return &Repo{
		RootDir: rootDir,
		GitDir:  gitDir,
		store:   objstore.NewStore(gitDir),
		packs:   objstore.NewPackStore(gitDir),
	}
}

// Config lazily loads and caches the merged user+repo config.
func (r *Repo) Config() (*config.Config, error) {
	r.cfgOnce.Do(func() {
		r.cfg, r.cfgErr = config.Load(r.GitDir)
	})
	return r.cfg, r.cfgErr
}

// IgnoreMatcher lazily builds and caches an ignore.Matcher for the working
// tree, honoring core.ignorecase from config.
func (r *Repo) IgnoreMatcher() (*ignore.Matcher, error) {
	r.ignoreOnce.Do(func() {
		cfg, err := r.Config()
		if err != nil {
			r.ignoreErr = err
			return
		}
		m := ignore.New(r.RootDir, cfg.IgnoreCase())
		if err := m.Init(); err != nil {
			r.ignoreErr = fmt.Errorf("repo: ignore matcher: %w", err)
			return
		}
		r.ignoreM = m
	})
	return r.ignoreM, r.ignoreErr
}

// GetObject resolves an OID against loose storage first, then falls back to
// every pack under objects/pack/, per spec §4.6.
func (r *Repo) GetObject(oid objstore.OID) (*objstore.Object, error) {
	if r.store.HasLoose(oid) {
		return r.store.ReadLoose(oid)
	}
	obj, err := r.packs.GetObjectFromAnyPack(oid)
	if err != nil {
		return nil, fmt.Errorf("repo: get object %s: %w", oid, err)
	}
	return obj, nil
}

// GetCommit resolves and decodes a commit object.
func (r *Repo) GetCommit(oid objstore.OID) (*objstore.Commit, error) {
	obj, err := r.GetObject(oid)
	if err != nil {
		return nil, err
	}
	if obj.Kind != objstore.KindCommit {
		return nil, fmt.Errorf("repo: %s: not a commit (%s)", oid, obj.Kind)
	}
	return objstore.ParseCommit(obj.Payload)
}

// GetTree resolves and decodes a tree object.
func (r *Repo) GetTree(oid objstore.OID) (*objstore.Tree, error) {
	obj, err := r.GetObject(oid)
	if err != nil {
		return nil, err
	}
	if obj.Kind != objstore.KindTree {
		return nil, fmt.Errorf("repo: %s: not a tree (%s)", oid, obj.Kind)
	}
	return objstore.ParseTree(obj.Payload)
}

// GetTag resolves and decodes an annotated tag object.
func (r *Repo) GetTag(oid objstore.OID) (*objstore.Tag, error) {
	obj, err := r.GetObject(oid)
	if err != nil {
		return nil, err
	}
	if obj.Kind != objstore.KindTag {
		return nil, fmt.Errorf("repo: %s: not a tag (%s)", oid, obj.Kind)
	}
	return objstore.ParseTag(obj.Payload)
}

// GetIndex reads and parses ".git/index".
func (r *Repo) GetIndex() (*index.Index, error) {
	data, err := os.ReadFile(filepath.Join(r.GitDir, "index"))
	if err != nil {
		return nil, fmt.Errorf("repo: read index: %w", err)
	}
	idx, err := index.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("repo: parse index: %w", err)
	}
	return idx, nil
}

// HashObject computes the OID an object would have without writing it,
// applying content filters by default (spec §9's asymmetric default: reading
// filters on, writing filters off unless the caller opts in via
// WriteObject's applyFilters argument).
func (r *Repo) HashObject(kind objstore.Kind, data []byte, filename string) (objstore.OID, error) {
	cfg, err := r.Config()
	if err != nil {
		return "", err
	}
	opts := objstore.FilterOptions{
		AutoCRLF:     autoCRLFFromConfig(cfg),
		ApplyFilters: true,
		Filename:     filename,
	}
	oid, _ := objstore.HashObjectFiltered(kind, data, opts)
	return oid, nil
}

// WriteObject filters and writes data to loose storage. applyFilters
// defaults to false at the CLI layer (spec §9); callers that want filtering
// pass true explicitly.
func (r *Repo) WriteObject(kind objstore.Kind, data []byte, filename string, applyFilters bool) (objstore.OID, error) {
	cfg, err := r.Config()
	if err != nil {
		return "", err
	}
	opts := objstore.FilterOptions{
		AutoCRLF:     autoCRLFFromConfig(cfg),
		ApplyFilters: applyFilters,
		Filename:     filename,
	}
	return r.store.WriteObjectFiltered(kind, data, opts)
}

func autoCRLFFromConfig(cfg *config.Config) objstore.AutoCRLF {
	switch cfg.AutoCRLF() {
	case "true":
		return objstore.AutoCRLFTrue
	case "input":
		return objstore.AutoCRLFInput
	default:
		return objstore.AutoCRLFFalse
	}
}
