package quota

import (
	"os"
	"path/filepath"
)

// MaxTreeLevels is the global cap on tree depth, independent of any
// per-zone limit.
const MaxTreeLevels = 10

// Limits is a zone kind's static quota triple.
type Limits struct {
	MaxBytes   int64
	MaxFiles   int
	MaxFolders int
}

// Snapshot is the aggregate usage of one zone tree. It is derived by
// walking the tree and is never treated as ground truth beyond the request
// that computed it.
type Snapshot struct {
	NumLevels  int
	NumFolders int
	NumFiles   int
	TotalBytes int64
}

// AddFile accounts one prospective file of the given size. Used for
// speculative checks before a physical write.
func (s *Snapshot) AddFile(size int64) {
	s.NumFiles++
	s.TotalBytes += size
}

func (s *Snapshot) RemoveFile(size int64) {
	s.NumFiles--
	s.TotalBytes -= size
}

func (s *Snapshot) AddFolder() {
	s.NumFolders++
}

func (s *Snapshot) RemoveFolder() {
	s.NumFolders--
}

// Measure walks the tree rooted at rootPath depth-first and returns its
// usage. A directory only counts towards NumLevels when it is non-empty; an
// empty leaf directory does not add a level. Link files (*.url) are regular
// files on disk and count as files.
func Measure(rootPath string) (Snapshot, error) {
	var s Snapshot
	if err := measureDir(rootPath, 1, &s); err != nil {
		return Snapshot{}, err
	}

	return s, nil
}

func measureDir(dir string, depth int, s *Snapshot) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	if len(entries) != 0 && depth > s.NumLevels {
		s.NumLevels = depth
	}

	for _, entry := range entries {
		if entry.IsDir() {
			s.NumFolders++
			if err := measureDir(filepath.Join(dir, entry.Name()), depth+1, s); err != nil {
				return err
			}
			continue
		}

		finfo, err := entry.Info()
		if err != nil {
			return err
		}

		s.NumFiles++
		s.TotalBytes += finfo.Size()
	}

	return nil
}

// ExceedKind identifies which limit a snapshot tripped.
type ExceedKind int

const (
	ExceedNone ExceedKind = iota
	ExceedLevels
	ExceedFolders
	ExceedFiles
	ExceedBytes
)

func (k ExceedKind) String() string {
	switch k {
	case ExceedLevels:
		return "levels"
	case ExceedFolders:
		return "folders"
	case ExceedFiles:
		return "files"
	case ExceedBytes:
		return "bytes"
	default:
		return "none"
	}
}

// ExceedsReason compares a snapshot against the zone limits, returning the
// first limit exceeded. The level cap is global and checked first.
func ExceedsReason(s Snapshot, limits Limits) ExceedKind {
	switch {
	case s.NumLevels > MaxTreeLevels:
		return ExceedLevels
	case s.NumFolders > limits.MaxFolders:
		return ExceedFolders
	case s.NumFiles > limits.MaxFiles:
		return ExceedFiles
	case s.TotalBytes > limits.MaxBytes:
		return ExceedBytes
	default:
		return ExceedNone
	}
}

func Exceeds(s Snapshot, limits Limits) bool {
	return ExceedsReason(s, limits) != ExceedNone
}
