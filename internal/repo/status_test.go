package repo

import (
	"testing"

	"github.com/ngit/ngit/internal/index"
	"github.com/ngit/ngit/internal/objstore"
)

func TestWorkingDirStatusAddedAndModified(t *testing.T) {
	root, commitOID, blobOID := buildTestRepo(t)
	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	c, err := r.GetCommit(commitOID)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}

	otherOID := objstore.HashObject(objstore.KindBlob, []byte("changed\n"))
	idx := &index.Index{Entries: []index.Entry{
		{Name: "hello.txt", OID: otherOID, Type: index.TypeRegular, Perm: 0o644},
		{Name: "new-file.txt", OID: objstore.HashObject(objstore.KindBlob, []byte("new\n")), Type: index.TypeRegular, Perm: 0o644},
	}}

	entries, err := r.WorkingDirStatus(idx, c.Tree)
	if err != nil {
		t.Fatalf("WorkingDirStatus: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}

	byName := make(map[string]StagingStatus)
	for _, e := range entries {
		byName[e.Name] = e.StagingStatus
	}
	if byName["hello.txt"] != StagingModified {
		t.Errorf("hello.txt: got %s, want modified", byName["hello.txt"])
	}
	if byName["new-file.txt"] != StagingAdded {
		t.Errorf("new-file.txt: got %s, want added", byName["new-file.txt"])
	}
	_ = blobOID
}

func TestWorkingDirStatusUnchangedProducesNoRecord(t *testing.T) {
	root, commitOID, blobOID := buildTestRepo(t)
	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	c, err := r.GetCommit(commitOID)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}

	idx := &index.Index{Entries: []index.Entry{
		{Name: "hello.txt", OID: blobOID, Type: index.TypeRegular, Perm: 0o644},
	}}

	entries, err := r.WorkingDirStatus(idx, c.Tree)
	if err != nil {
		t.Fatalf("WorkingDirStatus: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no records for an unchanged entry, got %+v", entries)
	}
}
