package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveFile(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "results", "outcome.json")

	if s.HasFile(path) {
		t.Fatal("HasFile() true before save")
	}
	if err := s.SaveFile(path, []byte(`{"matches":[]}`)); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	if !s.HasFile(path) {
		t.Fatal("HasFile() false after save")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != `{"matches":[]}` {
		t.Errorf("content = %q", data)
	}
}
