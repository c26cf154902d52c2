package browser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teachstack/coursefs/pkg/zone"
)

func TestDeleteFile(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	rel := tc.mustUpload(adm, "doc", "a.txt", "x")

	require.NoError(t, tc.browser.DeleteFile(adm, rel))

	_, err := os.Stat(adm.Paths.Abs(rel))
	require.True(t, os.IsNotExist(err))

	record, err := tc.stors.FileStor.GetByPath(adm.Key, rel)
	require.NoError(t, err)
	require.Nil(t, record)
}

func TestDeleteFileRefusesFolders(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	rel := tc.mustCreateFolder(adm, "doc", "a")

	err := tc.browser.DeleteFile(adm, rel)
	require.Equal(t, KindTypeNotAllowed, KindOf(err))
}

func TestDeleteFolderRefusesNonEmpty(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	rel := tc.mustCreateFolder(adm, "doc", "a")
	tc.mustUpload(adm, rel, "x.txt", "x")

	err := tc.browser.DeleteFolder(adm, rel)
	require.Equal(t, KindFolderNotEmpty, KindOf(err))

	require.NoError(t, tc.browser.DeleteFile(adm, rel+"/x.txt"))
	require.NoError(t, tc.browser.DeleteFolder(adm, rel))
}

func TestDeleteTreeRemovesEverything(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	tc.mustCreateFolder(adm, "doc", "a")
	tc.mustCreateFolder(adm, "doc/a", "b")
	tc.mustUpload(adm, "doc/a/b", "deep.txt", "x")
	tc.mustCreateFolder(adm, "doc", "ab")

	require.NoError(t, tc.browser.DeleteTree(adm, "doc/a"))

	_, err := os.Stat(adm.Paths.Abs("doc/a"))
	require.True(t, os.IsNotExist(err))

	for _, gone := range []string{"doc/a", "doc/a/b", "doc/a/b/deep.txt"} {
		record, err := tc.stors.FileStor.GetByPath(adm.Key, gone)
		require.NoError(t, err)
		require.Nilf(t, record, "record %s should be gone", gone)
	}

	// The prefix-sharing sibling survives.
	record, err := tc.stors.FileStor.GetByPath(adm.Key, "doc/ab")
	require.NoError(t, err)
	require.NotNil(t, record)
}

func TestDeleteZoneRootRefused(t *testing.T) {
	tc := newBrowserTestCase(t)
	adm := tc.opCtx(tc.teacher, zone.KindDocCrsAdm)

	require.Equal(t, KindPermissionDenied, KindOf(tc.browser.DeleteTree(adm, "doc")))
	require.Equal(t, KindPermissionDenied, KindOf(tc.browser.DeleteFolder(adm, "doc")))
}
