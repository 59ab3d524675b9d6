package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/maruel/natural"

	"github.com/pable/go-et-stats/internal/parser"
)

// Discover walks dir and returns every stats file in natural order. Since
// file names start with the date and time this is also play order.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !parser.IsStatsFile(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	sort.Slice(paths, func(i, j int) bool {
		return natural.Less(filepath.Base(paths[i]), filepath.Base(paths[j]))
	})
	return paths, nil
}

// Collect expands a mix of files and directories into stats file paths.
// Explicitly named files are kept even if their name does not match, so the
// decoder can report why.
func Collect(args []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		var found []string
		if info.IsDir() {
			if found, err = Discover(arg); err != nil {
				return nil, err
			}
		} else {
			found = []string{arg}
		}
		for _, p := range found {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}
