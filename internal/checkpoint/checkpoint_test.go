package checkpoint

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsZeroState(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "metadata.json"))
	if s.ProcessedCount() != 0 {
		t.Errorf("processed count = %d, want 0", s.ProcessedCount())
	}
	if _, ok := s.Cursor(); ok {
		t.Error("fresh state should have no cursor")
	}
	if s.CSVFileCounter != 0 || s.ProcessedWithPython != 0 {
		t.Error("fresh state counters should be zero")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")

	s := Load(path)
	s.MarkProcessed(10)
	s.MarkProcessed(7)
	s.MarkProcessed(12)
	s.ProcessedWithPython = 2
	s.CSVFileCounter = 1
	s.LowerCursor(7)
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := Load(path)
	for _, n := range []int{7, 10, 12} {
		if !loaded.IsProcessed(n) {
			t.Errorf("expected %d processed after reload", n)
		}
	}
	if loaded.IsProcessed(11) {
		t.Error("11 was never processed")
	}
	if c, ok := loaded.Cursor(); !ok || c != 7 {
		t.Errorf("cursor = %v,%v, want 7,true", c, ok)
	}
	if loaded.ProcessedWithPython != 2 || loaded.CSVFileCounter != 1 {
		t.Error("counters lost in round trip")
	}
}

func TestCursorOnlyMovesDown(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "metadata.json"))
	s.LowerCursor(100)
	s.LowerCursor(250) // ignored, would raise the cursor
	if c, _ := s.Cursor(); c != 100 {
		t.Errorf("cursor = %d, want 100", c)
	}
	s.LowerCursor(40)
	if c, _ := s.Cursor(); c != 40 {
		t.Errorf("cursor = %d, want 40", c)
	}
}

func TestSaveSortsProcessedNumbers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	s := Load(path)
	for _, n := range []int{5, 1, 9, 3} {
		s.MarkProcessed(n)
	}
	if err := s.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var raw struct {
		ProcessedPRNumbers []int `json:"processed_pr_numbers"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []int{1, 3, 5, 9}
	if len(raw.ProcessedPRNumbers) != len(want) {
		t.Fatalf("got %v", raw.ProcessedPRNumbers)
	}
	for i, n := range want {
		if raw.ProcessedPRNumbers[i] != n {
			t.Fatalf("got %v, want %v", raw.ProcessedPRNumbers, want)
		}
	}
}

func TestLoadCorruptFileYieldsZeroState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Load(path)
	if s.ProcessedCount() != 0 {
		t.Error("corrupt checkpoint should load as zero state")
	}
}
