// Package index parses the Git staging index (".git/index"): the DIRC v2/v3
// binary format, its per-entry flag bit-fields, and the optional cache-tree
// extension.
package index

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/ngit/ngit/internal/objstore"
)

const (
	dircMagic       = "DIRC"
	entryFixedSize  = 62 // ctime(8) + mtime(8) + dev(4) + ino(4) + mode(4) + uid(4) + gid(4) + size(4) + oid(20) + flags(2)
	extendedFlagLen = 2
	nameLenMask     = 0x0FFF
	nameLenOverflow = 0x0FFF
	extendedBit     = 0x4000
	assumeValidBit  = 0x8000
	stageMask       = 0x3000
)

// EntryType is the 4-bit object-type nibble stored in an entry's mode.
type EntryType uint8

const (
	TypeRegular EntryType = 0b1000
	TypeSymlink EntryType = 0b1010
	TypeGitlink EntryType = 0b1110
)

// Entry is one file recorded in the staging area.
type Entry struct {
	CTimeSec  uint32
	CTimeNs   uint32
	MTimeSec  uint32
	MTimeNs   uint32
	Dev       uint32
	Ino       uint32
	Type      EntryType
	Perm      uint32 // 0644 or 0755 for regular files, 0 otherwise
	UID       uint32
	GID       uint32
	Size      uint32
	OID       objstore.OID
	AssumeValid bool
	Stage       uint8
	ExtendedFlags uint16
	Name          string
}

// CacheTree is the optional TREE extension: a recursive map of path prefixes
// to precomputed subtree OIDs.
type CacheTree struct {
	Path         string
	EntryCount   int // -1 means invalidated
	SubtreeCount int
	OID          objstore.OID // empty when invalidated
	Children     []*CacheTree
}

// Index is the parsed form of ".git/index".
type Index struct {
	Version   uint32
	Entries   []Entry
	CacheTree *CacheTree
	Warnings  []string
}

// Parse decodes a full index file, including trailing extensions. It
// tolerates and skips unknown extensions, and stops once 20 bytes or fewer
// remain (the trailing SHA-1 checksum of the file, which this core does not
// verify).
func Parse(data []byte) (*Index, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("index: file too short: %d bytes", len(data))
	}
	if string(data[:4]) != dircMagic {
		return nil, fmt.Errorf("index: bad magic %q", data[:4])
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != 2 && version != 3 {
		return nil, fmt.Errorf("index: unsupported version %d", version)
	}
	count := binary.BigEndian.Uint32(data[8:12])

	idx := &Index{Version: version}
	offset := 12

	for i := uint32(0); i < count; i++ {
		entry, consumed, err := parseEntry(data, offset, version)
		if err != nil {
			return nil, fmt.Errorf("index: entry %d: %w", i, err)
		}
		idx.Entries = append(idx.Entries, entry)
		offset += consumed
	}

	for len(data)-offset > 20 {
		sig := string(data[offset : offset+4])
		length := int(binary.BigEndian.Uint32(data[offset+4 : offset+8]))
		body := data[offset+8 : offset+8+length]

		switch sig {
		case "TREE":
			ct, err := parseCacheTree(body)
			if err != nil {
				return nil, fmt.Errorf("index: TREE extension: %w", err)
			}
			idx.CacheTree = ct
		default:
			idx.Warnings = append(idx.Warnings, fmt.Sprintf("index: skipping unknown extension %q (%d bytes)", sig, length))
		}

		offset += 8 + length
	}

	return idx, nil
}

func parseEntry(data []byte, start int, version uint32) (Entry, int, error) {
	fixedLen := entryFixedSize
	if start+fixedLen > len(data) {
		return Entry{}, 0, fmt.Errorf("truncated fixed fields")
	}

	e := Entry{
		CTimeSec: binary.BigEndian.Uint32(data[start : start+4]),
		CTimeNs:  binary.BigEndian.Uint32(data[start+4 : start+8]),
		MTimeSec: binary.BigEndian.Uint32(data[start+8 : start+12]),
		MTimeNs:  binary.BigEndian.Uint32(data[start+12 : start+16]),
		Dev:      binary.BigEndian.Uint32(data[start+16 : start+20]),
		Ino:      binary.BigEndian.Uint32(data[start+20 : start+24]),
	}
	mode := binary.BigEndian.Uint32(data[start+24 : start+28])
	e.Type = EntryType((mode >> 12) & 0xF)
	e.Perm = mode & 0x1FF
	e.UID = binary.BigEndian.Uint32(data[start+28 : start+32])
	e.GID = binary.BigEndian.Uint32(data[start+32 : start+36])
	e.Size = binary.BigEndian.Uint32(data[start+36 : start+40])
	e.OID = objstore.OID(hex.EncodeToString(data[start+40 : start+60]))

	flags := binary.BigEndian.Uint16(data[start+60 : start+62])
	e.AssumeValid = flags&assumeValidBit != 0
	e.Stage = uint8((flags & stageMask) >> 12)
	nameLen := int(flags & nameLenMask)

	if err := validateEntryTypeAndPerm(e.Type, e.Perm); err != nil {
		return Entry{}, 0, err
	}

	cursor := start + entryFixedSize
	extended := flags&extendedBit != 0
	if extended {
		if version < 3 {
			return Entry{}, 0, fmt.Errorf("extended flag set in v%d entry", version)
		}
		if cursor+extendedFlagLen > len(data) {
			return Entry{}, 0, fmt.Errorf("truncated extended flags")
		}
		e.ExtendedFlags = binary.BigEndian.Uint16(data[cursor : cursor+extendedFlagLen])
		cursor += extendedFlagLen
	}

	var name string
	if nameLen != nameLenOverflow {
		if cursor+nameLen > len(data) {
			return Entry{}, 0, fmt.Errorf("truncated name")
		}
		name = string(data[cursor : cursor+nameLen])
	} else {
		nul := bytes.IndexByte(data[cursor:], 0)
		if nul < 0 {
			return Entry{}, 0, fmt.Errorf("unterminated overflow name")
		}
		name = string(data[cursor : cursor+nul])
		nameLen = nul
	}
	e.Name = name

	// Total record length from the entry's own start, padded to an 8-byte
	// boundary, with room for at least one NUL terminator after the name.
	fixedTotal := entryFixedSize
	if extended {
		fixedTotal += extendedFlagLen
	}
	recordLen := fixedTotal + nameLen + 1
	padded := ((recordLen + 7) / 8) * 8

	return e, padded, nil
}

func validateEntryTypeAndPerm(t EntryType, perm uint32) error {
	switch t {
	case TypeRegular:
		if perm != 0o644 && perm != 0o755 {
			return fmt.Errorf("unsupported regular-file permission %04o", perm)
		}
	case TypeSymlink, TypeGitlink:
		// Permission bits are unused (0) for symlinks and gitlinks.
	default:
		return fmt.Errorf("unsupported index entry type nibble %04b", t)
	}
	return nil
}

func parseCacheTree(data []byte) (*CacheTree, error) {
	ct, _, err := parseCacheTreeNode(data, 0)
	return ct, err
}

func parseCacheTreeNode(data []byte, offset int) (*CacheTree, int, error) {
	nul := bytes.IndexByte(data[offset:], 0)
	if nul < 0 {
		return nil, 0, fmt.Errorf("missing path terminator")
	}
	path := string(data[offset : offset+nul])
	offset += nul + 1

	lineEnd := bytes.IndexByte(data[offset:], '\n')
	if lineEnd < 0 {
		return nil, 0, fmt.Errorf("missing entry-count line")
	}
	line := string(data[offset : offset+lineEnd])
	offset += lineEnd + 1

	var entryCount, subtreeCount int
	if _, err := fmt.Sscanf(line, "%d %d", &entryCount, &subtreeCount); err != nil {
		return nil, 0, fmt.Errorf("malformed entry-count line %q: %w", line, err)
	}

	node := &CacheTree{Path: path, EntryCount: entryCount, SubtreeCount: subtreeCount}
	if entryCount >= 0 {
		if offset+20 > len(data) {
			return nil, 0, fmt.Errorf("truncated cache-tree oid")
		}
		node.OID = objstore.OID(hex.EncodeToString(data[offset : offset+20]))
		offset += 20
	}

	for i := 0; i < subtreeCount; i++ {
		child, next, err := parseCacheTreeNode(data, offset)
		if err != nil {
			return nil, 0, err
		}
		node.Children = append(node.Children, child)
		offset = next
	}

	return node, offset, nil
}
