package objstore

const (
	packIndexVersion        = 2
	packIndexHeaderSize     = 8
	packIndexFanoutSize     = 256 * 4
	packIndexOIDSize        = 20
	packIndexLargeOffsetBit = uint32(1 << 31)
)

var packIndexMagic = [4]byte{0xff, 't', 'O', 'c'}

// PackIndexEntry is one row of a decoded idx v2 file: the object's OID, its
// CRC32 from the pack, and its byte offset into the pack file.
type PackIndexEntry struct {
	OID    OID
	CRC32  uint32
	Offset uint64
}
