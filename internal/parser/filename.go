package parser

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/pable/go-et-stats/internal/model"
)

// rxFileName matches YYYY-MM-DD-HHMMSS-<mapname>-round-<N>.txt, optionally zstd compressed.
var rxFileName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(\d{6})-(.+)-round-(\d+)\.txt(\.zst)?$`)

const fileTimeLayout = "2006-01-02 150405"

// IsStatsFile reports whether name follows the stats file naming convention.
func IsStatsFile(name string) bool {
	return rxFileName.MatchString(filepath.Base(name))
}

// ParseFileName extracts the date, time, map and round encoded in a stats file name.
func ParseFileName(name string) (model.FileInfo, error) {
	base := filepath.Base(name)
	m := rxFileName.FindStringSubmatch(base)
	if m == nil {
		return model.FileInfo{}, fmt.Errorf("%w: %s", ErrFileName, base)
	}
	playedAt, err := time.ParseInLocation(fileTimeLayout, m[1]+" "+m[2], time.UTC)
	if err != nil {
		return model.FileInfo{}, fmt.Errorf("%w: %s: %v", ErrFileName, base, err)
	}
	round, err := strconv.Atoi(m[4])
	if err != nil {
		return model.FileInfo{}, fmt.Errorf("%w: %s: %v", ErrFileName, base, err)
	}
	return model.FileInfo{
		Name:     base,
		PlayedAt: playedAt,
		Date:     m[1],
		MapName:  m[3],
		Round:    round,
	}, nil
}
