package objstore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ngit/ngit/internal/zlibio"
)

// Store is the loose-object half of the content-addressed object store,
// rooted at a repository's ".git" directory.
type Store struct {
	gitDir string
}

// NewStore returns a Store rooted at gitDir (the ".git" directory, not the
// working tree root).
func NewStore(gitDir string) *Store {
	return &Store{gitDir: gitDir}
}

func (s *Store) loosePath(h OID) string {
	return filepath.Join(s.gitDir, "objects", h.Dir(), h.File())
}

// HasLoose reports whether a loose object exists for h.
func (s *Store) HasLoose(h OID) bool {
	_, err := os.Stat(s.loosePath(h))
	return err == nil
}

// ReadLoose reads and decodes a loose object. It does not consult packs.
func (s *Store) ReadLoose(h OID) (*Object, error) {
	raw, err := os.ReadFile(s.loosePath(h))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("objstore: read %s: %w", h, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("objstore: read %s: %w", h, err)
	}

	full, err := zlibio.InflateBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("objstore: read %s: %w: %v", h, ErrDecompressionFailure, err)
	}

	nul := bytes.IndexByte(full, 0)
	if nul < 0 {
		return nil, fmt.Errorf("objstore: read %s: %w: no NUL in header", h, ErrMalformedObject)
	}
	header := string(full[:nul])
	payload := full[nul+1:]

	kindStr, lenStr, ok := strings.Cut(header, " ")
	if !ok {
		return nil, fmt.Errorf("objstore: read %s: %w: bad header %q", h, ErrMalformedObject, header)
	}
	kind := Kind(kindStr)
	if !ValidKind(kind) {
		return nil, fmt.Errorf("objstore: read %s: %w: unknown kind %q", h, ErrMalformedObject, kindStr)
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil {
		return nil, fmt.Errorf("objstore: read %s: %w: bad length %q", h, ErrMalformedObject, lenStr)
	}
	if length != len(payload) {
		return nil, fmt.Errorf("objstore: read %s: %w: length mismatch header=%d actual=%d", h, ErrMalformedObject, length, len(payload))
	}

	return &Object{OID: h, Kind: kind, Payload: payload}, nil
}

// WriteLoose deflates and writes the canonical framing for kind/payload to
// the sharded objects directory, creating the shard directory as needed. It
// is a no-op if the object already exists, since an identical OID implies
// identical bytes.
func (s *Store) WriteLoose(kind Kind, payload []byte) (OID, error) {
	oid := HashObject(kind, payload)
	if s.HasLoose(oid) {
		return oid, nil
	}

	dir := filepath.Join(s.gitDir, "objects", oid.Dir())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("objstore: write %s: mkdir: %w", oid, err)
	}

	framed := Frame(kind, payload)
	compressed, err := zlibio.Deflate(framed)
	if err != nil {
		return "", fmt.Errorf("objstore: write %s: %w", oid, err)
	}

	if err := os.WriteFile(s.loosePath(oid), compressed, 0o444); err != nil {
		return "", fmt.Errorf("objstore: write %s: %w", oid, err)
	}
	return oid, nil
}
