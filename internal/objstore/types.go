package objstore

import (
	"fmt"
	"regexp"
)

// OID is a 40-character lowercase hex SHA-1 digest identifying an object.
type OID string

var oidPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// IsHash reports whether s has the shape of a valid OID.
func IsHash(s string) bool {
	return oidPattern.MatchString(s)
}

// Valid reports whether the OID is well-formed.
func (h OID) Valid() bool {
	return IsHash(string(h))
}

// Dir and File split the OID into the loose-object fan-out directory name
// and the remaining filename, e.g. "ab" and "cdef...".
func (h OID) Dir() string  { return string(h[:2]) }
func (h OID) File() string { return string(h[2:]) }

// Kind identifies the type of a stored object.
type Kind string

const (
	KindCommit Kind = "commit"
	KindTree   Kind = "tree"
	KindBlob   Kind = "blob"
	KindTag    Kind = "tag"
)

// ValidKind reports whether k is one of the four recognized object kinds.
func ValidKind(k Kind) bool {
	switch k {
	case KindCommit, KindTree, KindBlob, KindTag:
		return true
	}
	return false
}

// FileMode is a tree entry's mode, restricted to the values this spec
// recognizes.
type FileMode uint32

const (
	ModeTree       FileMode = 0o040000
	ModeFile       FileMode = 0o100644
	ModeExecutable FileMode = 0o100755
	ModeSymlink    FileMode = 0o120000
	ModeGitlink    FileMode = 0o160000
)

// ParseFileMode decodes a mode string written in ASCII octal, as found in a
// tree entry or an index entry's printed form.
func ParseFileMode(s string) (FileMode, error) {
	var v uint32
	if _, err := fmt.Sscanf(s, "%o", &v); err != nil {
		return 0, fmt.Errorf("objstore: invalid mode %q: %w", s, err)
	}
	return FileMode(v), nil
}

// String renders the mode the way it appears in a tree object's payload and
// in cat-file's pretty-printed output: zero-padded 6-digit octal, except
// directories which print as 5 digits ("40000").
func (m FileMode) String() string {
	if m == ModeTree {
		return "40000"
	}
	return fmt.Sprintf("%06o", uint32(m))
}

// Padded renders the mode as a zero-padded 6-digit octal string regardless
// of kind ("040000" for a directory), the display form ls-tree uses.
func (m FileMode) Padded() string {
	return fmt.Sprintf("%06o", uint32(m))
}

// IsDir reports whether the mode denotes a subtree.
func (m FileMode) IsDir() bool { return m == ModeTree }

// Object is the decoded triple (oid, kind, payload) shared by loose and
// packed storage.
type Object struct {
	OID     OID
	Kind    Kind
	Payload []byte
}

// Commit is the parsed form of a commit object's payload.
type Commit struct {
	Tree      OID
	Parents   []OID
	Author    Signature
	Committer Signature
	Message   string
}

// Signature is one "author"/"committer" header line.
type Signature struct {
	Name     string
	Email    string
	Seconds  int64
	Timezone string
}

// TreeEntry is one entry decoded from a tree object's payload.
type TreeEntry struct {
	Mode FileMode
	Name string
	OID  OID
}

// Tree is the parsed form of a tree object's payload.
type Tree struct {
	Entries []TreeEntry
}

// Tag is the parsed form of an annotated tag object's payload.
type Tag struct {
	Object  OID
	Type    Kind
	Tag     string
	Tagger  Signature
	Message string
}
