package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ngit/ngit/internal/objstore"
)

// buildTestRepo writes a minimal working ".git" directory: one commit on
// "main" whose tree has a single blob entry "hello.txt".
func buildTestRepo(t *testing.T) (root string, commitOID objstore.OID, blobOID objstore.OID) {
	t.Helper()
	root = t.TempDir()
	gitDir := filepath.Join(root, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("mkdir .git: %v", err)
	}

	store := objstore.NewStore(gitDir)

	blobOID, err := store.WriteLoose(objstore.KindBlob, []byte("hello\n"))
	if err != nil {
		t.Fatalf("write blob: %v", err)
	}

	tree := &objstore.Tree{Entries: []objstore.TreeEntry{
		{Mode: objstore.ModeFile, Name: "hello.txt", OID: blobOID},
	}}
	treeOID, err := store.WriteLoose(objstore.KindTree, objstore.MarshalTree(tree))
	if err != nil {
		t.Fatalf("write tree: %v", err)
	}

	commit := &objstore.Commit{
		Tree:      treeOID,
		Author:    objstore.Signature{Name: "A", Email: "a@example.com", Seconds: 1700000000, Timezone: "+0000"},
		Committer: objstore.Signature{Name: "A", Email: "a@example.com", Seconds: 1700000000, Timezone: "+0000"},
		Message:   "initial\n",
	}
	commitOID, err = store.WriteLoose(objstore.KindCommit, objstore.MarshalCommit(commit))
	if err != nil {
		t.Fatalf("write commit: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(gitDir, "refs", "heads"), 0o755); err != nil {
		t.Fatalf("mkdir refs/heads: %v", err)
	}
	if err := writeRefFile(filepath.Join(gitDir, "refs", "heads", "main"), []byte(string(commitOID)+"\n")); err != nil {
		t.Fatalf("write ref: %v", err)
	}
	if err := writeRefFile(filepath.Join(gitDir, "HEAD"), []byte("ref: refs/heads/main\n")); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}

	return root, commitOID, blobOID
}

func TestFindLocatesGitDir(t *testing.T) {
	root, _, _ := buildTestRepo(t)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir nested: %v", err)
	}

	r, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if r.RootDir != root {
		t.Errorf("RootDir: got %s, want %s", r.RootDir, root)
	}
}

func TestFindNotARepository(t *testing.T) {
	if _, err := Find(t.TempDir()); err == nil {
		t.Fatal("expected ErrNotARepository")
	}
}

func TestGetHeadResolvesBranch(t *testing.T) {
	root, commitOID, _ := buildTestRepo(t)
	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	head, err := r.GetHead()
	if err != nil {
		t.Fatalf("GetHead: %v", err)
	}
	if head.Kind != HeadBranch || head.Name != "main" {
		t.Errorf("head: got %+v", head)
	}
	if head.Commit != commitOID {
		t.Errorf("head commit: got %s, want %s", head.Commit, commitOID)
	}
}

func TestGetHeadDetachedResolvesCommit(t *testing.T) {
	root, commitOID, _ := buildTestRepo(t)
	gitDir := filepath.Join(root, ".git")
	if err := writeRefFile(filepath.Join(gitDir, "HEAD"), []byte(string(commitOID)+"\n")); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}

	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	head, err := r.GetHead()
	if err != nil {
		t.Fatalf("GetHead: %v", err)
	}
	if head.Kind != HeadDetached || head.Commit != commitOID {
		t.Errorf("head: got %+v", head)
	}
}

func TestGetHeadFailsOnNonexistentCommit(t *testing.T) {
	root, _, _ := buildTestRepo(t)
	gitDir := filepath.Join(root, ".git")
	bogus := "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	if err := writeRefFile(filepath.Join(gitDir, "HEAD"), []byte(bogus+"\n")); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}

	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if _, err := r.GetHead(); err == nil {
		t.Fatal("expected ErrInvalidHead for a HEAD pointing at a nonexistent object")
	}
}

func TestGetHeadFailsWhenBranchPointsAtNonCommit(t *testing.T) {
	root, _, blobOID := buildTestRepo(t)
	gitDir := filepath.Join(root, ".git")
	if err := writeRefFile(filepath.Join(gitDir, "refs", "heads", "main"), []byte(string(blobOID)+"\n")); err != nil {
		t.Fatalf("write ref: %v", err)
	}

	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if _, err := r.GetHead(); err == nil {
		t.Fatal("expected ErrInvalidHead when refs/heads/main points at a blob")
	}
}

func TestGetCommitAndTree(t *testing.T) {
	root, commitOID, blobOID := buildTestRepo(t)
	r, err := Find(root)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}

	c, err := r.GetCommit(commitOID)
	if err != nil {
		t.Fatalf("GetCommit: %v", err)
	}

	tree, err := r.GetTree(c.Tree)
	if err != nil {
		t.Fatalf("GetTree: %v", err)
	}
	if len(tree.Entries) != 1 || tree.Entries[0].OID != blobOID {
		t.Errorf("tree entries: %+v", tree.Entries)
	}
}
