package objstore

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// ParseCommit decodes a commit object's payload. Header lines are
// line-oriented ASCII; a single blank line separates headers from the
// message. Required: exactly one "tree" line, exactly one "author" line,
// exactly one "committer" line. Zero or more "parent" lines are allowed.
// Space-prefixed continuation lines are tolerated but folded into the
// previous header's value rather than preserved structurally.
func ParseCommit(payload []byte) (*Commit, error) {
	idx := bytes.Index(payload, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("objstore: parse commit: %w: missing header/message separator", ErrMalformedObject)
	}
	header := string(payload[:idx])
	message := string(payload[idx+2:])

	lines := foldContinuations(strings.Split(header, "\n"))

	c := &Commit{Message: message}
	var haveTree, haveAuthor, haveCommitter bool

	for _, line := range lines {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("objstore: parse commit: %w: malformed header line %q", ErrMalformedObject, line)
		}
		switch key {
		case "tree":
			if haveTree {
				return nil, fmt.Errorf("objstore: parse commit: %w: duplicate tree line", ErrMalformedObject)
			}
			if !IsHash(val) {
				return nil, fmt.Errorf("objstore: parse commit: %w: invalid tree oid %q", ErrMalformedObject, val)
			}
			c.Tree = OID(val)
			haveTree = true
		case "parent":
			if !IsHash(val) {
				return nil, fmt.Errorf("objstore: parse commit: %w: invalid parent oid %q", ErrMalformedObject, val)
			}
			c.Parents = append(c.Parents, OID(val))
		case "author":
			if haveAuthor {
				return nil, fmt.Errorf("objstore: parse commit: %w: duplicate author line", ErrMalformedObject)
			}
			sig, err := parseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("objstore: parse commit: %w", err)
			}
			c.Author = sig
			haveAuthor = true
		case "committer":
			if haveCommitter {
				return nil, fmt.Errorf("objstore: parse commit: %w: duplicate committer line", ErrMalformedObject)
			}
			sig, err := parseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("objstore: parse commit: %w", err)
			}
			c.Committer = sig
			haveCommitter = true
		default:
			// Unknown header lines (e.g. "gpgsig") are tolerated but dropped;
			// this core reads the fields the spec names and no others.
		}
	}

	if !haveTree {
		return nil, fmt.Errorf("objstore: parse commit: %w: missing tree line", ErrMalformedObject)
	}
	if !haveAuthor {
		return nil, fmt.Errorf("objstore: parse commit: %w: missing author line", ErrMalformedObject)
	}
	if !haveCommitter {
		return nil, fmt.Errorf("objstore: parse commit: %w: missing committer line", ErrMalformedObject)
	}
	return c, nil
}

// foldContinuations merges space-prefixed continuation lines into the
// preceding header line.
func foldContinuations(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(l, " ") && len(out) > 0 {
			out[len(out)-1] += "\n" + strings.TrimPrefix(l, " ")
			continue
		}
		out = append(out, l)
	}
	return out
}

// parseSignature decodes "<name> <email-in-angles> <unix-seconds> <tz>",
// splitting from the right since name may itself contain spaces.
func parseSignature(s string) (Signature, error) {
	open := strings.LastIndex(s, "<")
	close := strings.LastIndex(s, ">")
	if open < 0 || close < open {
		return Signature{}, fmt.Errorf("%w: malformed signature %q", ErrMalformedObject, s)
	}
	name := strings.TrimSpace(s[:open])
	email := s[open+1 : close]
	rest := strings.Fields(strings.TrimSpace(s[close+1:]))
	if len(rest) != 2 {
		return Signature{}, fmt.Errorf("%w: malformed signature timestamp %q", ErrMalformedObject, s)
	}
	seconds, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: bad timestamp %q: %v", ErrMalformedObject, rest[0], err)
	}
	return Signature{Name: name, Email: email, Seconds: seconds, Timezone: rest[1]}, nil
}

func formatSignature(sig Signature) string {
	return fmt.Sprintf("%s <%s> %d %s", sig.Name, sig.Email, sig.Seconds, sig.Timezone)
}

// MarshalCommit re-encodes a Commit to canonical bytes. Used to verify the
// decode/encode round-trip (spec §8 invariant 3) and to build test fixtures.
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", formatSignature(c.Author))
	fmt.Fprintf(&buf, "committer %s\n", formatSignature(c.Committer))
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// ParseTree decodes a tree object's payload. Entries are
// "<mode-ascii-octal> <name>\0<20-byte-sha>" concatenated with no separator;
// parsing walks raw bytes rather than lines because names may contain
// arbitrary bytes other than NUL and the SHA is fixed-width binary.
func ParseTree(payload []byte) (*Tree, error) {
	t := &Tree{}
	i := 0
	for i < len(payload) {
		sp := bytes.IndexByte(payload[i:], ' ')
		if sp < 0 {
			return nil, fmt.Errorf("objstore: parse tree: %w: missing mode separator", ErrMalformedObject)
		}
		modeStr := string(payload[i : i+sp])
		mode, err := ParseFileMode(modeStr)
		if err != nil {
			return nil, fmt.Errorf("objstore: parse tree: %w: %v", ErrMalformedObject, err)
		}
		i += sp + 1

		nul := bytes.IndexByte(payload[i:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("objstore: parse tree: %w: missing name terminator", ErrMalformedObject)
		}
		name := string(payload[i : i+nul])
		i += nul + 1

		if i+20 > len(payload) {
			return nil, fmt.Errorf("objstore: parse tree: %w: truncated sha", ErrMalformedObject)
		}
		oid := OID(hex.EncodeToString(payload[i : i+20]))
		i += 20

		t.Entries = append(t.Entries, TreeEntry{Mode: mode, Name: name, OID: oid})
	}
	return t, nil
}

// MarshalTree re-encodes a Tree to canonical bytes, entries in the order
// given (this core only reads trees; when building fixtures for tests, the
// caller is responsible for presenting entries already sorted by name, as a
// real writer would).
func MarshalTree(t *Tree) []byte {
	var buf bytes.Buffer
	for _, e := range t.Entries {
		fmt.Fprintf(&buf, "%s %s\x00", e.Mode.String(), e.Name)
		raw, _ := hex.DecodeString(string(e.OID))
		buf.Write(raw)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Tag
// ---------------------------------------------------------------------------

// ParseTag decodes an annotated tag object's payload: header lines "object",
// "type", "tag", "tagger", then a blank line, then the message.
func ParseTag(payload []byte) (*Tag, error) {
	idx := bytes.Index(payload, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("objstore: parse tag: %w: missing header/message separator", ErrMalformedObject)
	}
	header := string(payload[:idx])
	message := string(payload[idx+2:])

	tag := &Tag{Message: message}
	var haveObject, haveType, haveTag bool

	for _, line := range foldContinuations(strings.Split(header, "\n")) {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("objstore: parse tag: %w: malformed header line %q", ErrMalformedObject, line)
		}
		switch key {
		case "object":
			if !IsHash(val) {
				return nil, fmt.Errorf("objstore: parse tag: %w: invalid object oid %q", ErrMalformedObject, val)
			}
			tag.Object = OID(val)
			haveObject = true
		case "type":
			k := Kind(val)
			if !ValidKind(k) {
				return nil, fmt.Errorf("objstore: parse tag: %w: invalid type %q", ErrMalformedObject, val)
			}
			tag.Type = k
			haveType = true
		case "tag":
			tag.Tag = val
			haveTag = true
		case "tagger":
			sig, err := parseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("objstore: parse tag: %w", err)
			}
			tag.Tagger = sig
		default:
		}
	}

	if !haveObject || !haveType || !haveTag {
		return nil, fmt.Errorf("objstore: parse tag: %w: missing required header", ErrMalformedObject)
	}
	return tag, nil
}

// MarshalTag re-encodes a Tag to canonical bytes.
func MarshalTag(t *Tag) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "object %s\n", t.Object)
	fmt.Fprintf(&buf, "type %s\n", t.Type)
	fmt.Fprintf(&buf, "tag %s\n", t.Tag)
	if t.Tagger.Name != "" || t.Tagger.Email != "" {
		fmt.Fprintf(&buf, "tagger %s\n", formatSignature(t.Tagger))
	}
	buf.WriteByte('\n')
	buf.WriteString(t.Message)
	return buf.Bytes()
}
