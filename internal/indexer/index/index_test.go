package index

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	pkgerrors "github.com/minisearch-labs/searchrank/pkg/errors"
)

func TestAddKeepsDocsSortedAndDeduplicated(t *testing.T) {
	ix := New()
	ix.Add("apple", "url31")
	ix.Add("apple", "url11")
	ix.Add("apple", "url22")
	ix.Add("apple", "url11")
	ix.Add("apple", "url22")

	docs, ok := ix.Lookup("apple")
	if !ok {
		t.Fatal("Lookup(apple) = false, want true")
	}
	want := []string{"url11", "url22", "url31"}
	if !reflect.DeepEqual(docs, want) {
		t.Errorf("Lookup(apple) = %v, want %v", docs, want)
	}
}

func TestLookupMissingTerm(t *testing.T) {
	ix := New()
	ix.Add("apple", "url11")
	if _, ok := ix.Lookup("banana"); ok {
		t.Error("Lookup(banana) = true for absent term")
	}
}

func TestSnapshotDeterministicAcrossInsertionOrder(t *testing.T) {
	pairs := [][2]string{
		{"cherry", "url22"}, {"apple", "url31"}, {"banana", "url11"},
		{"apple", "url11"}, {"cherry", "url11"}, {"banana", "url11"},
	}

	forward := New()
	for _, p := range pairs {
		forward.Add(p[0], p[1])
	}
	backward := New()
	for i := len(pairs) - 1; i >= 0; i-- {
		backward.Add(pairs[i][0], pairs[i][1])
	}

	if !reflect.DeepEqual(forward.Snapshot(), backward.Snapshot()) {
		t.Errorf("snapshots differ by insertion order:\nforward:  %v\nbackward: %v",
			forward.Snapshot(), backward.Snapshot())
	}

	snapshot := forward.Snapshot()
	wantTerms := []string{"apple", "banana", "cherry"}
	for i, entry := range snapshot {
		if entry.Term != wantTerms[i] {
			t.Errorf("snapshot[%d].Term = %q, want %q", i, entry.Term, wantTerms[i])
		}
	}
}

func TestWriteAndLoadRoundTrip(t *testing.T) {
	ix := New()
	ix.Add("banana", "url22")
	ix.Add("apple", "url11")
	ix.Add("apple", "url31")
	ix.Add("banana", "url11")

	path := filepath.Join(t.TempDir(), "invertedIndex.txt")
	if err := Write(path, ix.Snapshot()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	want := "apple url11 url31\nbanana url11 url22\n"
	if string(data) != want {
		t.Errorf("artifact content = %q, want %q", string(data), want)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(loaded.Snapshot(), ix.Snapshot()) {
		t.Errorf("round trip mismatch:\nloaded: %v\nwant:   %v", loaded.Snapshot(), ix.Snapshot())
	}
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invertedIndex.txt")
	content := "apple url11\n\nbanana url22\n   \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	ix, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
}

func TestLoadMissingArtifact(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, pkgerrors.ErrArtifactNotFound) {
		t.Errorf("Load error = %v, want ErrArtifactNotFound", err)
	}
}
