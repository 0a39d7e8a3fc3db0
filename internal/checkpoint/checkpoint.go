// Package checkpoint persists per-repository mining progress so interrupted
// runs resume without re-fetching or re-emitting already processed pull
// requests.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// State is the durable progress record for one repository. The processed set
// only grows and the resumption cursor only moves downward; both are enforced
// by the mutating methods, never by the caller.
type State struct {
	ProcessedPRNumbers  []int `json:"processed_pr_numbers"`
	ProcessedWithPython int   `json:"processed_with_python"`
	CSVFileCounter      int   `json:"csv_file_counter"`
	LowestPRNumber      *int  `json:"lowest_pr_number"`

	processed map[int]bool
}

// Load reads the checkpoint at path. A missing or unreadable file yields a
// fresh zero state rather than an error: progress tracking must never block
// a run from starting.
func Load(path string) *State {
	s := &State{}
	data, err := os.ReadFile(path)
	if err == nil {
		_ = json.Unmarshal(data, s)
	}
	s.processed = make(map[int]bool, len(s.ProcessedPRNumbers))
	for _, n := range s.ProcessedPRNumbers {
		s.processed[n] = true
	}
	return s
}

// Save writes the checkpoint atomically (tmp + rename) so a crash mid-write
// never leaves a truncated file behind.
func (s *State) Save(path string) error {
	s.ProcessedPRNumbers = s.sortedProcessed()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename checkpoint: %w", err)
	}
	return nil
}

// IsProcessed reports whether a pull request number was already handled.
func (s *State) IsProcessed(number int) bool {
	return s.processed[number]
}

// MarkProcessed adds a pull request number to the processed set.
func (s *State) MarkProcessed(number int) {
	s.processed[number] = true
}

// ProcessedCount returns the size of the processed set.
func (s *State) ProcessedCount() int {
	return len(s.processed)
}

// LowerCursor moves the resumption cursor down to number. Attempts to raise
// it are ignored: the cursor is the lowest identifier seen so far.
func (s *State) LowerCursor(number int) {
	if s.LowestPRNumber == nil || number < *s.LowestPRNumber {
		n := number
		s.LowestPRNumber = &n
	}
}

// Cursor returns the resumption cursor, or false when no batch has been
// persisted yet.
func (s *State) Cursor() (int, bool) {
	if s.LowestPRNumber == nil {
		return 0, false
	}
	return *s.LowestPRNumber, true
}

func (s *State) sortedProcessed() []int {
	numbers := make([]int, 0, len(s.processed))
	for n := range s.processed {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}
