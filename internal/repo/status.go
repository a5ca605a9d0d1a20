package repo

import (
	"fmt"
	"sort"

	"github.com/ngit/ngit/internal/index"
	"github.com/ngit/ngit/internal/objstore"
)

// StagingStatus classifies how a staged path differs from the committed
// tree it is being compared to.
type StagingStatus string

const (
	StagingAdded    StagingStatus = "added"
	StagingModified StagingStatus = "modified"
)

// StatusEntry is one row of WorkingDirStatus's result: a staged path whose
// tree comparison produced something worth reporting.
type StatusEntry struct {
	Name          string
	OID           objstore.OID
	StagingStatus StagingStatus
}

// treeLeaf is a flattened (path -> blob OID/mode) record from a recursive
// tree walk.
type treeLeaf struct {
	OID  objstore.OID
	Mode objstore.FileMode
}

// flattenTree walks tree recursively, producing a full-path -> leaf map.
// Subtrees are descended into; only blob/symlink/gitlink leaves are
// recorded, matching how the index itself only ever stores leaves.
func (r *Repo) flattenTree(oid objstore.OID, prefix string, out map[string]treeLeaf) error {
	tree, err := r.GetTree(oid)
	if err != nil {
		return fmt.Errorf("repo: flatten tree %s: %w", oid, err)
	}
	for _, entry := range tree.Entries {
		path := entry.Name
		if prefix != "" {
			path = prefix + "/" + entry.Name
		}
		if entry.Mode.IsDir() {
			if err := r.flattenTree(entry.OID, path, out); err != nil {
				return err
			}
			continue
		}
		out[path] = treeLeaf{OID: entry.OID, Mode: entry.Mode}
	}
	return nil
}

// WorkingDirStatus compares the staging index against rootTree: for every
// indexed path, it is staged/added when the tree has no entry at that path,
// staged/modified when the tree entry's OID differs, and produces no record
// otherwise. Scanning the working tree itself for modified/untracked files
// beyond this index-vs-tree pass is out of scope.
func (r *Repo) WorkingDirStatus(idx *index.Index, rootTree objstore.OID) ([]StatusEntry, error) {
	leaves := make(map[string]treeLeaf)
	if rootTree != "" {
		if err := r.flattenTree(rootTree, "", leaves); err != nil {
			return nil, err
		}
	}

	var out []StatusEntry
	for _, e := range idx.Entries {
		leaf, ok := leaves[e.Name]
		switch {
		case !ok:
			out = append(out, StatusEntry{Name: e.Name, OID: e.OID, StagingStatus: StagingAdded})
		case leaf.OID != e.OID:
			out = append(out, StatusEntry{Name: e.Name, OID: e.OID, StagingStatus: StagingModified})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
