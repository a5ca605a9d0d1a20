package objstore

import "testing"

func TestHashObjectKnownVectors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want OID
	}{
		{"hello", []byte("hello\n"), "ce013625030ba8dba906f756967f9e9ca394464a"},
		{"empty", []byte{}, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{"tree", []byte("tree\n"), "5c62b5aa08f761597c5b88d33e6b14b247acac2d"},
	}
	for _, c := range cases {
		got := HashObject(KindBlob, c.data)
		if got != c.want {
			t.Errorf("%s: got %s, want %s", c.name, got, c.want)
		}
	}
}

func TestHashObjectDeterministic(t *testing.T) {
	data := []byte("some content")
	if HashObject(KindBlob, data) != HashObject(KindBlob, data) {
		t.Error("HashObject not deterministic")
	}
	if HashObject(KindBlob, data) == HashObject(KindTree, data) {
		t.Error("different kinds produced the same OID")
	}
}

func TestIsHash(t *testing.T) {
	valid := "ce013625030ba8dba906f756967f9e9ca394464a"
	if !IsHash(valid) {
		t.Errorf("IsHash(%q) = false, want true", valid)
	}
	invalid := []string{"", "abc", valid + "a", "CE013625030BA8DBA906F756967F9E9CA394464A"}
	for _, s := range invalid {
		if IsHash(s) {
			t.Errorf("IsHash(%q) = true, want false", s)
		}
	}
}
