package quota

import (
	"os"
	"strings"
	"sync"

	"github.com/saracen/walker"
)

// MeasureConcurrent computes the same snapshot as Measure using a parallel
// walk. It is used by the offline recount of denormalized zone sizes, where
// traversal order doesn't matter; the synchronous request path sticks with
// Measure.
func MeasureConcurrent(rootPath string) (Snapshot, error) {
	var (
		mu sync.Mutex
		s  Snapshot
	)

	err := walker.Walk(rootPath, func(pathname string, fi os.FileInfo) error {
		if pathname == rootPath {
			return nil
		}

		rel := strings.TrimPrefix(pathname, rootPath+string(os.PathSeparator))
		depth := strings.Count(rel, string(os.PathSeparator)) + 1

		mu.Lock()
		defer mu.Unlock()

		// Any entry at depth d means its parent directory is non-empty,
		// which is exactly when Measure counts level d.
		if depth > s.NumLevels {
			s.NumLevels = depth
		}

		if fi.IsDir() {
			s.NumFolders++
		} else {
			s.NumFiles++
			s.TotalBytes += fi.Size()
		}

		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return s, nil
}
