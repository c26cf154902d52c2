package zonepath

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teachstack/coursefs/pkg/zone"
)

type fakeAssignmentLister struct {
	folders []string
}

func (f *fakeAssignmentLister) ActiveAssignmentFolders(courseID int64, ownerGroupIDs []int64) ([]string, error) {
	return f.folders, nil
}

func TestResolveShardsAndCreatesZoneRoot(t *testing.T) {
	root := t.TempDir()
	r := NewResolver(root, nil)

	var tests = []struct {
		name     string
		kind     zone.Kind
		scope    zone.Scope
		expected string
	}{
		{
			name:     "course documents shard by course code",
			kind:     zone.KindDocCrsAdm,
			scope:    zone.Scope{Code: 12345},
			expected: filepath.Join(root, "crs", "45", "12345", "doc"),
		},
		{
			name:     "group zones nest under their course",
			kind:     zone.KindDocGrpAdm,
			scope:    zone.Scope{Code: 77, CourseCode: 12345},
			expected: filepath.Join(root, "crs", "45", "12345", "grp", "77", "doc"),
		},
		{
			name:     "per-user course zones shard twice",
			kind:     zone.KindWrkUsr,
			scope:    zone.Scope{Code: 12345, UserCode: 208},
			expected: filepath.Join(root, "crs", "45", "12345", "usr", "08", "208", "wrk"),
		},
		{
			name:     "briefcases shard by user code",
			kind:     zone.KindBriefcase,
			scope:    zone.Scope{UserCode: 9},
			expected: filepath.Join(root, "usr", "09", "9", "brf"),
		},
		{
			name:     "institution zones",
			kind:     zone.KindDocInsAdm,
			scope:    zone.Scope{Code: 3},
			expected: filepath.Join(root, "ins", "03", "3", "doc"),
		},
		{
			name:     "project assessment zones",
			kind:     zone.KindAssPrj,
			scope:    zone.Scope{Code: 100},
			expected: filepath.Join(root, "prj", "00", "100", "ass"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			paths, err := r.Resolve(test.kind, test.scope, nil)
			require.NoError(t, err)
			require.Equal(t, test.expected, paths.Root)

			// Resolution materializes the directory chain.
			info, err := os.Stat(paths.Root)
			require.NoError(t, err)
			require.True(t, info.IsDir())
		})
	}
}

func TestResolveRequiresScopeCodes(t *testing.T) {
	r := NewResolver(t.TempDir(), nil)

	_, err := r.Resolve(zone.KindDocGrpAdm, zone.Scope{Code: 77}, nil)
	require.Error(t, err)

	_, err = r.Resolve(zone.KindBriefcase, zone.Scope{}, nil)
	require.Error(t, err)
}

func TestResolveMaterializesAssignmentFolders(t *testing.T) {
	root := t.TempDir()
	lister := &fakeAssignmentLister{folders: []string{"essay1", "lab2", "", "bad/name"}}
	r := NewResolver(root, lister)

	paths, err := r.Resolve(zone.KindAsgUsr, zone.Scope{Code: 55, UserCode: 7}, nil)
	require.NoError(t, err)

	for _, folder := range []string{"essay1", "lab2"} {
		info, err := os.Stat(filepath.Join(paths.Root, folder))
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}

	// Unsafe folder names from assignments are skipped, not created.
	entries, err := os.ReadDir(paths.Root)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestValidRelPath(t *testing.T) {
	valid := []string{"doc", "doc/a", "doc/week 1/report.pdf", "mrk/grades.html"}
	for _, p := range valid {
		require.Truef(t, ValidRelPath(p), "%q should be valid", p)
	}

	invalid := []string{"", "/doc", "doc/", "doc//a", "doc/..", "..", "doc/.", "doc/a..b", "doc\\a"}
	for _, p := range invalid {
		require.Falsef(t, ValidRelPath(p), "%q should be invalid", p)
	}
}

func TestPathHelpers(t *testing.T) {
	require.Equal(t, 0, Level("doc"))
	require.Equal(t, 2, Level("doc/a/b"))

	require.Equal(t, "doc/a", Parent("doc/a/b"))
	require.Equal(t, "", Parent("doc"))

	require.Equal(t, []string{"doc/a", "doc"}, Ancestors("doc/a/b"))
	require.Nil(t, Ancestors("doc"))

	require.Equal(t, "b", Base("doc/a/b"))
	require.Equal(t, "doc", Base("doc"))

	require.True(t, IsAncestorOf("doc/a", "doc/a/b"))
	require.False(t, IsAncestorOf("doc/a", "doc/ab"))
	require.False(t, IsAncestorOf("doc/a", "doc/a"))
}
