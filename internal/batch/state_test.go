package batch

import (
	"os"
	"path/filepath"
	"testing"
)

func TestState_LoadMissingStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := LoadState(path)
	if err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}
	if s.StartedAt.IsZero() {
		t.Error("expected start time on a fresh state")
	}
	if s.Path() != path {
		t.Errorf("expected path %q, got %q", path, s.Path())
	}
}

func TestState_SaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s := &State{path: path}
	s.MarkProcessed("a.pdf")
	s.MarkProcessed("b.docx")
	s.ProfilesTagged = 2
	s.ProfilesAdded = 1
	s.AddError("tag c.txt: upstream 500")

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := LoadState(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !got.IsProcessed("a.pdf") || !got.IsProcessed("b.docx") || got.IsProcessed("c.txt") {
		t.Errorf("processed files not restored: %v", got.FilesProcessed)
	}
	if got.ProfilesTagged != 2 || got.ProfilesAdded != 1 || len(got.Errors) != 1 {
		t.Errorf("counters not restored: %+v", got)
	}
	if got.LastProcessedAt.IsZero() {
		t.Error("expected last processed time")
	}
}

func TestState_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(path); err == nil {
		t.Error("expected error for corrupt state file")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	if got, want := expandHome("~/test/path"), filepath.Join(home, "test/path"); got != want {
		t.Errorf("expandHome(~/test/path) = %q, want %q", got, want)
	}
	if got := expandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("expandHome(/absolute/path) = %q", got)
	}
}
