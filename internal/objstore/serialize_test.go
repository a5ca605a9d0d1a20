package objstore

import (
	"bytes"
	"testing"
)

func TestParseCommitRoundTrip(t *testing.T) {
	c := &Commit{
		Tree:      OID("4b825dc642cb6eb9a060e54bf8d69288fbee4904"),
		Parents:   []OID{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
		Author:    Signature{Name: "A U Thor", Email: "author@example.com", Seconds: 1700000000, Timezone: "+0000"},
		Committer: Signature{Name: "C O Mitter", Email: "committer@example.com", Seconds: 1700000001, Timezone: "-0500"},
		Message:   "a commit message\n",
	}

	payload := MarshalCommit(c)
	got, err := ParseCommit(payload)
	if err != nil {
		t.Fatalf("ParseCommit: %v", err)
	}

	if got.Tree != c.Tree || got.Message != c.Message {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Parents) != 1 || got.Parents[0] != c.Parents[0] {
		t.Errorf("parents mismatch: %+v", got.Parents)
	}
	if got.Author != c.Author || got.Committer != c.Committer {
		t.Errorf("signature mismatch: %+v %+v", got.Author, got.Committer)
	}

	// Re-marshaling the decoded form must reproduce the same bytes.
	if !bytes.Equal(MarshalCommit(got), payload) {
		t.Error("re-encoding parsed commit did not reproduce original bytes")
	}
}

func TestParseCommitRejectsMissingTree(t *testing.T) {
	payload := []byte("author a <a@example.com> 1 +0000\ncommitter a <a@example.com> 1 +0000\n\nmsg\n")
	if _, err := ParseCommit(payload); err == nil {
		t.Fatal("expected error for commit missing tree header")
	}
}

func TestParseTreeRoundTrip(t *testing.T) {
	tree := &Tree{Entries: []TreeEntry{
		{Mode: ModeFile, Name: "README.md", OID: OID("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391")},
		{Mode: ModeTree, Name: "src", OID: OID("4b825dc642cb6eb9a060e54bf8d69288fbee4904")},
		{Mode: ModeExecutable, Name: "run.sh", OID: OID("ce013625030ba8dba906f756967f9e9ca394464a")},
	}}

	payload := MarshalTree(tree)
	got, err := ParseTree(payload)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(got.Entries) != len(tree.Entries) {
		t.Fatalf("entry count: got %d, want %d", len(got.Entries), len(tree.Entries))
	}
	for i, e := range got.Entries {
		if e != tree.Entries[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, e, tree.Entries[i])
		}
	}
}

func TestParseTagRoundTrip(t *testing.T) {
	tag := &Tag{
		Object:  OID("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Type:    KindCommit,
		Tag:     "v1.0.0",
		Tagger:  Signature{Name: "Tagger", Email: "tagger@example.com", Seconds: 1700000000, Timezone: "+0000"},
		Message: "release\n",
	}
	payload := MarshalTag(tag)
	got, err := ParseTag(payload)
	if err != nil {
		t.Fatalf("ParseTag: %v", err)
	}
	if got.Object != tag.Object || got.Type != tag.Type || got.Tag != tag.Tag || got.Message != tag.Message {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
