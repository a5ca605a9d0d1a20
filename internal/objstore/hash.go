package objstore

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
)

// Frame returns the canonical on-wire framing "<kind> <length>\0" || payload
// whose SHA-1 is the object's OID.
func Frame(kind Kind, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out
}

// HashObject computes the OID of kind/payload without touching the disk.
func HashObject(kind Kind, payload []byte) OID {
	h := sha1.New()
	fmt.Fprintf(h, "%s %d\x00", kind, len(payload))
	h.Write(payload)
	return OID(hex.EncodeToString(h.Sum(nil)))
}

// HashBytes is the raw SHA-1 of data with no object framing, used for
// pack/index checksums.
func HashBytes(data []byte) [20]byte {
	return sha1.Sum(data)
}
