package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keibalab/oddsget/internal/nameutil"
)

// BatchLayout hands out one output directory per race under a batch root,
// keeping directories unique when a race id repeats in the input.
type BatchLayout struct {
	root string
	seen map[string]int
}

// NewBatchLayout creates a layout rooted at dir.
func NewBatchLayout(dir string) *BatchLayout {
	return &BatchLayout{root: dir, seen: make(map[string]int)}
}

// Root returns the batch root directory.
func (l *BatchLayout) Root() string {
	return l.root
}

// RaceDir creates and returns the output directory for a race. The directory
// is named after the race id; a repeated id gets an "_02", "_03" suffix, and
// a blank or unusable id falls back to the race's position in the batch.
func (l *BatchLayout) RaceDir(raceID string, index int) (string, error) {
	name := raceID
	if !nameutil.IsSafeName(name) || name == "." || name == ".." {
		name = fmt.Sprintf("race_%03d", index+1)
	}

	l.seen[name]++
	if n := l.seen[name]; n > 1 {
		name = fmt.Sprintf("%s_%02d", name, n)
	}

	dir := filepath.Join(l.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create race directory: %w", err)
	}
	return dir, nil
}
