package objstore

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"testing"

	"github.com/ngit/ngit/internal/zlibio"
)

// buildPackIndex hand-assembles a minimal v2 pack index for the given
// entries, which must already be sorted by OID.
func buildPackIndex(t *testing.T, entries []PackIndexEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	buf.Write(packIndexMagic[:])
	binary.Write(&buf, binary.BigEndian, uint32(packIndexVersion))

	var fanout [256]uint32
	for _, e := range entries {
		raw, err := hex.DecodeString(string(e.OID))
		if err != nil {
			t.Fatalf("bad oid %s: %v", e.OID, err)
		}
		for i := int(raw[0]); i < 256; i++ {
			fanout[i]++
		}
	}
	for _, v := range fanout {
		binary.Write(&buf, binary.BigEndian, v)
	}
	for _, e := range entries {
		raw, _ := hex.DecodeString(string(e.OID))
		buf.Write(raw)
	}
	for _, e := range entries {
		binary.Write(&buf, binary.BigEndian, e.CRC32)
	}
	for _, e := range entries {
		binary.Write(&buf, binary.BigEndian, uint32(e.Offset))
	}
	buf.Write(make([]byte, 20)) // pack checksum, unused by the reader
	buf.Write(make([]byte, 20)) // index checksum, unused by the reader

	return buf.Bytes()
}

func buildPackEntry(t *testing.T, kind PackObjectType, payload []byte) []byte {
	t.Helper()

	var header []byte
	size := uint64(len(payload))
	first := byte(kind) << 4
	first |= byte(size & 0x0F)
	size >>= 4
	if size > 0 {
		first |= 0x80
	}
	header = append(header, first)
	for size > 0 {
		b := byte(size & 0x7F)
		size >>= 7
		if size > 0 {
			b |= 0x80
		}
		header = append(header, b)
	}

	compressed, err := zlibio.Deflate(payload)
	if err != nil {
		t.Fatalf("deflate: %v", err)
	}
	return append(header, compressed...)
}

func TestReadPackIndexFindRoundTrip(t *testing.T) {
	entries := []PackIndexEntry{
		{OID: "0100000000000000000000000000000000000000", CRC32: 0x11111111, Offset: 12},
		{OID: "10000000000000000000000000000000000000ff", CRC32: 0x22222222, Offset: 512},
		{OID: "ff00000000000000000000000000000000000000", CRC32: 0x33333333, Offset: 4096},
	}

	data := buildPackIndex(t, entries)
	idx, err := ReadPackIndex(data)
	if err != nil {
		t.Fatalf("ReadPackIndex: %v", err)
	}

	for _, want := range entries {
		got, ok := idx.Find(want.OID)
		if !ok {
			t.Errorf("Find(%s) not found", want.OID)
			continue
		}
		if got != want {
			t.Errorf("Find(%s) = %+v, want %+v", want.OID, got, want)
		}
	}

	if _, ok := idx.Find("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"); ok {
		t.Error("Find matched an OID that was never inserted")
	}
}

func TestReadPackIndexRejectsBadMagic(t *testing.T) {
	data := buildPackIndex(t, nil)
	data[0] = 0x00
	if _, err := ReadPackIndex(data); err == nil {
		t.Fatal("expected error for corrupted magic")
	}
}

func TestPackEntryAtRoundTrip(t *testing.T) {
	payload := []byte("commit payload contents\n")
	entryBytes := buildPackEntry(t, PackCommit, payload)

	packData := append([]byte{}, packMagic[:]...)
	packData = binary.BigEndian.AppendUint32(packData, supportedPackVersion)
	packData = binary.BigEndian.AppendUint32(packData, 1)
	offset := uint64(len(packData))
	packData = append(packData, entryBytes...)

	pack, err := OpenPack(packData)
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}

	entry, err := pack.EntryAt(offset)
	if err != nil {
		t.Fatalf("EntryAt: %v", err)
	}
	if entry.Kind != KindCommit {
		t.Errorf("Kind: got %s, want %s", entry.Kind, KindCommit)
	}
	if !bytes.Equal(entry.Data, payload) {
		t.Errorf("Data: got %q, want %q", entry.Data, payload)
	}

	want := HashObject(KindCommit, payload)
	got := HashObject(entry.Kind, entry.Data)
	if got != want {
		t.Errorf("recomputed OID %s != expected %s", got, want)
	}
}

func TestPackEntryAtRejectsDelta(t *testing.T) {
	entryBytes := buildPackEntry(t, PackOfsDelta, []byte("irrelevant"))

	packData := append([]byte{}, packMagic[:]...)
	packData = binary.BigEndian.AppendUint32(packData, supportedPackVersion)
	packData = binary.BigEndian.AppendUint32(packData, 1)
	offset := uint64(len(packData))
	packData = append(packData, entryBytes...)

	pack, err := OpenPack(packData)
	if err != nil {
		t.Fatalf("OpenPack: %v", err)
	}
	if _, err := pack.EntryAt(offset); err == nil {
		t.Fatal("expected ErrDeltaUnsupported")
	}
}
