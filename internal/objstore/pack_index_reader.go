package objstore

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
)

// PackIndex is the in-memory decode of an idx v2 file: a 256-entry fan-out
// table plus OID/CRC32/offset arrays, in the sorted-by-OID order the file
// itself uses.
type PackIndex struct {
	fanout  [256]uint32
	entries []PackIndexEntry
}

// ReadPackIndex parses a v2 pack index. It rejects any entry whose offset
// uses the extended large-offset table, per spec §4.6 step 4.
func ReadPackIndex(data []byte) (*PackIndex, error) {
	minLen := packIndexHeaderSize + packIndexFanoutSize
	if len(data) < minLen {
		return nil, fmt.Errorf("objstore: pack index too short: %d bytes", len(data))
	}
	if string(data[:4]) != string(packIndexMagic[:]) {
		return nil, fmt.Errorf("objstore: invalid pack index magic %q", data[:4])
	}
	version := binary.BigEndian.Uint32(data[4:8])
	if version != packIndexVersion {
		return nil, fmt.Errorf("objstore: %w: pack index version %d", ErrUnsupportedVersion, version)
	}

	var fanout [256]uint32
	cursor := packIndexHeaderSize
	for i := 0; i < 256; i++ {
		fanout[i] = binary.BigEndian.Uint32(data[cursor:])
		cursor += 4
	}
	n := int(fanout[255])

	namesLen := n * packIndexOIDSize
	crcLen := n * 4
	offsetLen := n * 4
	if cursor+namesLen+crcLen+offsetLen > len(data) {
		return nil, fmt.Errorf("objstore: pack index truncated")
	}

	namesStart := cursor
	crcStart := namesStart + namesLen
	offsetStart := crcStart + crcLen

	entries := make([]PackIndexEntry, n)
	for i := 0; i < n; i++ {
		oidRaw := data[namesStart+i*packIndexOIDSize : namesStart+(i+1)*packIndexOIDSize]
		crc := binary.BigEndian.Uint32(data[crcStart+i*4:])
		off := binary.BigEndian.Uint32(data[offsetStart+i*4:])
		if off&packIndexLargeOffsetBit != 0 {
			return nil, fmt.Errorf("objstore: %w", ErrLargePackUnsupported)
		}
		entries[i] = PackIndexEntry{
			OID:    OID(hex.EncodeToString(oidRaw)),
			CRC32:  crc,
			Offset: uint64(off),
		}
	}

	return &PackIndex{fanout: fanout, entries: entries}, nil
}

// Entries returns all entries in ascending OID order.
func (idx *PackIndex) Entries() []PackIndexEntry {
	out := make([]PackIndexEntry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Find performs fan-out-bounded binary search for target, per spec §4.6
// steps 2-3.
func (idx *PackIndex) Find(target OID) (PackIndexEntry, bool) {
	raw, err := hex.DecodeString(string(target))
	if err != nil || len(raw) == 0 {
		return PackIndexEntry{}, false
	}

	p := raw[0]
	start := uint32(0)
	if p > 0 {
		start = idx.fanout[p-1]
	}
	end := idx.fanout[p]
	if end <= start {
		return PackIndexEntry{}, false
	}

	lo, hi := int(start), int(end)
	i := sort.Search(hi-lo, func(k int) bool {
		return idx.entries[lo+k].OID >= target
	})
	i += lo
	if i < hi && idx.entries[i].OID == target {
		return idx.entries[i], true
	}
	return PackIndexEntry{}, false
}
