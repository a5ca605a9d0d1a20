package objstore

import (
	"bytes"
	"fmt"

	"github.com/ngit/ngit/internal/zlibio"
)

// PackEntry is a decoded non-delta pack object: its kind, its declared
// uncompressed size, and its payload bytes.
type PackEntry struct {
	Kind Kind
	Size uint64
	Data []byte
}

// Pack wraps a fully-loaded pack file's bytes for random-access entry
// decoding by offset. Packs larger than 2 GiB are out of scope (spec §1),
// so loading the whole file is acceptable here.
type Pack struct {
	data   []byte
	Header PackHeader
}

// OpenPack validates the pack header and wraps data for random access.
func OpenPack(data []byte) (*Pack, error) {
	header, err := ParsePackHeader(data)
	if err != nil {
		return nil, err
	}
	return &Pack{data: data, Header: *header}, nil
}

// EntryAt decodes the non-delta object entry at the given byte offset, per
// spec §4.6: entry header (kind + variable-length size), then a zlib stream
// whose decompressed length must equal the declared size. Kind code 5 is
// reserved and rejected; codes 6/7 (delta-encoded) are rejected with
// ErrDeltaUnsupported since this core does not reconstruct deltas.
func (p *Pack) EntryAt(offset uint64) (*PackEntry, error) {
	if offset >= uint64(len(p.data)) {
		return nil, fmt.Errorf("objstore: pack entry offset %d out of range", offset)
	}

	objType, size, n, err := decodePackEntryHeader(p.data[offset:])
	if err != nil {
		return nil, err
	}

	kind, ok := objType.Kind()
	if !ok {
		if objType == PackOfsDelta || objType == PackRefDelta {
			return nil, fmt.Errorf("objstore: %w", ErrDeltaUnsupported)
		}
		return nil, fmt.Errorf("objstore: pack entry: reserved type code %d", objType)
	}

	body := p.data[uint64(offset)+uint64(n):]
	counter := zlibio.NewCountingReader(bytes.NewReader(body))
	payload, err := zlibio.Inflate(counter)
	if err != nil {
		return nil, fmt.Errorf("objstore: pack entry: %w: %v", ErrDecompressionFailure, err)
	}
	if uint64(len(payload)) != size {
		return nil, fmt.Errorf("objstore: pack entry: %w: declared size %d, decoded %d", ErrMalformedObject, size, len(payload))
	}

	return &PackEntry{Kind: kind, Size: size, Data: payload}, nil
}
