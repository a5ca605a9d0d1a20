package objstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackStore locates and decodes objects from the packs under
// <gitDir>/objects/pack/.
type PackStore struct {
	gitDir string
}

// NewPackStore returns a PackStore rooted at gitDir (the ".git" directory).
func NewPackStore(gitDir string) *PackStore {
	return &PackStore{gitDir: gitDir}
}

func (p *PackStore) idxPath(packOID string) string {
	return filepath.Join(p.gitDir, "objects", "pack", "pack-"+packOID+".idx")
}

func (p *PackStore) packPath(packOID string) string {
	return filepath.Join(p.gitDir, "objects", "pack", "pack-"+packOID+".pack")
}

// FindInPackIndex opens pack-<packOID>.idx and looks up target, per spec
// §4.6 steps 1-4.
func (p *PackStore) FindInPackIndex(packOID string, target OID) (PackIndexEntry, bool, error) {
	data, err := os.ReadFile(p.idxPath(packOID))
	if err != nil {
		return PackIndexEntry{}, false, fmt.Errorf("objstore: open pack index %s: %w", packOID, err)
	}
	idx, err := ReadPackIndex(data)
	if err != nil {
		return PackIndexEntry{}, false, fmt.Errorf("objstore: read pack index %s: %w", packOID, err)
	}
	entry, ok := idx.Find(target)
	return entry, ok, nil
}

// GetObjectFromPack opens pack-<packOID>.pack and decodes the entry at
// entry.Offset.
func (p *PackStore) GetObjectFromPack(packOID string, entry PackIndexEntry) (*PackEntry, error) {
	data, err := os.ReadFile(p.packPath(packOID))
	if err != nil {
		return nil, fmt.Errorf("objstore: open pack %s: %w", packOID, err)
	}
	pack, err := OpenPack(data)
	if err != nil {
		return nil, fmt.Errorf("objstore: read pack %s: %w", packOID, err)
	}
	return pack.EntryAt(entry.Offset)
}

// packOIDs lists the OIDs of every pack under <gitDir>/objects/pack/, parsed
// from filenames of the form "pack-<oid>.pack".
func (p *PackStore) packOIDs() ([]string, error) {
	dir := filepath.Join(p.gitDir, "objects", "pack")
	files, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("objstore: list packs: %w", err)
	}

	var oids []string
	for _, f := range files {
		name := f.Name()
		if !strings.HasPrefix(name, "pack-") || !strings.HasSuffix(name, ".pack") {
			continue
		}
		oids = append(oids, strings.TrimSuffix(strings.TrimPrefix(name, "pack-"), ".pack"))
	}
	return oids, nil
}

// GetObjectFromAnyPack iterates every pack under objects/pack/, returning
// the first match for target.
func (p *PackStore) GetObjectFromAnyPack(target OID) (*Object, error) {
	packOIDs, err := p.packOIDs()
	if err != nil {
		return nil, err
	}

	for _, packOID := range packOIDs {
		entry, ok, err := p.FindInPackIndex(packOID, target)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		packEntry, err := p.GetObjectFromPack(packOID, entry)
		if err != nil {
			return nil, err
		}
		return &Object{OID: target, Kind: packEntry.Kind, Payload: packEntry.Data}, nil
	}

	return nil, fmt.Errorf("objstore: %s: %w", target, ErrObjectNotFound)
}
